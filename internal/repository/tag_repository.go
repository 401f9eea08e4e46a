package repository

import (
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepository interface {
	FindAll() ([]model.Tag, error)
	// EnsureAndLink creates any missing tags by name and links them to the
	// question, ignoring links that already exist. Returns the tag ids.
	EnsureAndLink(questionID uint, names []string) ([]uint, error)
	ReplaceLinks(questionID uint, names []string) error
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) FindAll() ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.Order("name").Find(&tags).Error
	return tags, err
}

func (r *tagRepository) EnsureAndLink(questionID uint, names []string) ([]uint, error) {
	var ids []uint
	err := r.db.Transaction(func(tx *gorm.DB) error {
		linked, err := ensureAndLink(tx, questionID, names)
		ids = linked
		return err
	})
	return ids, err
}

func (r *tagRepository) ReplaceLinks(questionID uint, names []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).Delete(&model.QuestionTag{}).Error; err != nil {
			return err
		}
		_, err := ensureAndLink(tx, questionID, names)
		return err
	})
}

func ensureAndLink(tx *gorm.DB, questionID uint, names []string) ([]uint, error) {
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		tag := model.Tag{Name: name}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&tag).Error; err != nil {
			return nil, err
		}
		// DoNothing leaves ID zero for existing tags, re-read by name.
		if tag.ID == 0 {
			if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
				return nil, err
			}
		}
		link := model.QuestionTag{QuestionID: questionID, TagID: tag.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return nil, err
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}
