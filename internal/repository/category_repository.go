package repository

import (
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"gorm.io/gorm"
)

// CategoryRow is a category joined with its owning certification.
type CategoryRow struct {
	model.Category
	CertificationCode string `json:"certification_code"`
	CertificationName string `json:"certification_name"`
}

type CategoryRepository interface {
	FindAll() ([]model.Category, error)
	FindAllWithCertification() ([]CategoryRow, error)
	FindByID(id uint) (*CategoryRow, error)
	QuestionCount(id uint) (int64, error)
	UnclassifiedCount() (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Order("id").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) FindAllWithCertification() ([]CategoryRow, error) {
	var rows []CategoryRow
	err := r.db.Raw(`
		SELECT c.*, cert.code AS certification_code, cert.name AS certification_name
		FROM categories c
		LEFT JOIN certifications cert ON c.certification_id = cert.id
		ORDER BY c.id`).Scan(&rows).Error
	return rows, err
}

func (r *categoryRepository) FindByID(id uint) (*CategoryRow, error) {
	var row CategoryRow
	err := r.db.Raw(`
		SELECT c.*, cert.code AS certification_code, cert.name AS certification_name
		FROM categories c
		LEFT JOIN certifications cert ON c.certification_id = cert.id
		WHERE c.id = ?`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (r *categoryRepository) QuestionCount(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Question{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}

func (r *categoryRepository) UnclassifiedCount() (int64, error) {
	var count int64
	err := r.db.Model(&model.Question{}).Where("category_id IS NULL").Count(&count).Error
	return count, err
}
