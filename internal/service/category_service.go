package service

import (
	"errors"

	"github.com/anhlelha/aws-exam-practice/internal/apperr"
	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/anhlelha/aws-exam-practice/internal/repository"
	"gorm.io/gorm"
)

// CategoryService exposes the seeded exam domains. Categories are read-only at
// runtime; the seed defines them per certification.
type CategoryService interface {
	List() ([]dto.CategoryDTO, error)
	Get(id uint) (*dto.CategoryDTO, error)
	StatsOverview() (*dto.CategoryStatsOverview, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	questionRepo repository.QuestionRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository, questionRepo repository.QuestionRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, questionRepo: questionRepo}
}

func (s *categoryService) List() ([]dto.CategoryDTO, error) {
	rows, err := s.categoryRepo.FindAllWithCertification()
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, categoryRowToDTO(&rows[i], nil))
	}
	return out, nil
}

func (s *categoryService) Get(id uint) (*dto.CategoryDTO, error) {
	row, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category", id)
		}
		return nil, err
	}
	count, err := s.categoryRepo.QuestionCount(id)
	if err != nil {
		return nil, err
	}
	out := categoryRowToDTO(row, &count)
	return &out, nil
}

func (s *categoryService) StatsOverview() (*dto.CategoryStatsOverview, error) {
	byCategory, err := s.questionRepo.CountByCategory()
	if err != nil {
		return nil, err
	}
	unclassified, err := s.categoryRepo.UnclassifiedCount()
	if err != nil {
		return nil, err
	}
	total, err := s.questionRepo.Count(repository.QuestionFilter{})
	if err != nil {
		return nil, err
	}
	return &dto.CategoryStatsOverview{
		Categories:        byCategory,
		UnclassifiedCount: unclassified,
		TotalQuestions:    total,
	}, nil
}

func categoryRowToDTO(row *repository.CategoryRow, questionCount *int64) dto.CategoryDTO {
	return dto.CategoryDTO{
		ID:                row.ID,
		CertificationID:   row.CertificationID,
		Name:              row.Name,
		Description:       row.Description,
		Color:             row.Color,
		CertificationCode: row.CertificationCode,
		CertificationName: row.CertificationName,
		QuestionCount:     questionCount,
		CreatedAt:         row.CreatedAt,
	}
}
