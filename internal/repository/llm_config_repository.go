package repository

import (
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"gorm.io/gorm"
)

type LLMConfigRepository interface {
	FindAll() ([]model.LLMConfig, error)
	FindByRole(role string) (*model.LLMConfig, error)
	Update(config *model.LLMConfig) error
}

type llmConfigRepository struct {
	db *gorm.DB
}

func NewLLMConfigRepository(db *gorm.DB) LLMConfigRepository {
	return &llmConfigRepository{db: db}
}

func (r *llmConfigRepository) FindAll() ([]model.LLMConfig, error) {
	var configs []model.LLMConfig
	err := r.db.Order("role").Find(&configs).Error
	return configs, err
}

func (r *llmConfigRepository) FindByRole(role string) (*model.LLMConfig, error) {
	var config model.LLMConfig
	if err := r.db.Where("role = ?", role).First(&config).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *llmConfigRepository) Update(config *model.LLMConfig) error {
	return r.db.Save(config).Error
}
