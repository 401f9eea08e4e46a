package service

import (
	"math"
	"math/rand"

	"github.com/anhlelha/aws-exam-practice/internal/apperr"
	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"github.com/anhlelha/aws-exam-practice/internal/repository"
)

// Selection modes accepted by Select.
const (
	SelectionModeRandom   = "random"
	SelectionModeWeighted = "weighted"
	SelectionModeNew      = "new"
	SelectionModeWrong    = "wrong"
	SelectionModeFlagged  = "flagged"
)

const defaultSelectionCount = 10

// SelectorService produces ordered, duplicate-free question subsets under a
// selection policy. A pool smaller than the requested count is not an error.
type SelectorService interface {
	Select(req dto.SelectionRequest) ([]model.Question, error)
	SelectRandom(count int, categoryIDs, tagIDs, excludeIDs []uint) ([]model.Question, error)
	SelectWeighted(count int, weights []dto.CategoryWeight) ([]model.Question, error)
	SelectSmart(count int, mode string) ([]model.Question, error)
	PoolStats(categoryIDs, tagIDs []uint) (*dto.PoolStatsDTO, error)
}

type selectorService struct {
	questionRepo repository.QuestionRepository
}

func NewSelectorService(questionRepo repository.QuestionRepository) SelectorService {
	return &selectorService{questionRepo: questionRepo}
}

// Select dispatches on the requested mode. Unknown modes are rejected with a
// ValidationError, never silently treated as random.
func (s *selectorService) Select(req dto.SelectionRequest) ([]model.Question, error) {
	count := req.Count
	if count <= 0 {
		count = defaultSelectionCount
	}
	mode := req.SelectionMode
	if mode == "" {
		mode = SelectionModeRandom
	}
	switch mode {
	case SelectionModeRandom:
		return s.SelectRandom(count, req.CategoryIDs, req.TagIDs, req.ExcludeIDs)
	case SelectionModeWeighted:
		return s.SelectWeighted(count, req.Weights)
	case SelectionModeNew, SelectionModeWrong, SelectionModeFlagged:
		return s.SelectSmart(count, mode)
	default:
		return nil, apperr.Validation("unknown selection mode %q", mode)
	}
}

func (s *selectorService) SelectRandom(count int, categoryIDs, tagIDs, excludeIDs []uint) ([]model.Question, error) {
	if count <= 0 {
		count = defaultSelectionCount
	}
	return s.questionRepo.SelectRandom(count, categoryIDs, tagIDs, excludeIDs)
}

// SelectWeighted draws round(weight/total*count) questions per category, then
// shuffles the concatenation and truncates to count. Truncation may drop from
// any category, so the result is approximately, not exactly, proportional.
func (s *selectorService) SelectWeighted(count int, weights []dto.CategoryWeight) ([]model.Question, error) {
	if count <= 0 {
		count = defaultSelectionCount
	}
	if len(weights) == 0 {
		return s.SelectRandom(count, nil, nil, nil)
	}

	totalWeight := 0
	for _, w := range weights {
		totalWeight += w.Weight
	}
	if totalWeight <= 0 {
		return nil, apperr.Validation("weights must sum to a positive value")
	}

	var questions []model.Question
	for _, w := range weights {
		categoryCount := int(math.Round(float64(w.Weight) / float64(totalWeight) * float64(count)))
		if categoryCount <= 0 {
			continue
		}
		drawn, err := s.questionRepo.SelectRandomInCategory(w.CategoryID, categoryCount)
		if err != nil {
			return nil, err
		}
		questions = append(questions, drawn...)
	}

	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	if len(questions) > count {
		questions = questions[:count]
	}
	return questions, nil
}

func (s *selectorService) SelectSmart(count int, mode string) ([]model.Question, error) {
	if count <= 0 {
		count = defaultSelectionCount
	}
	switch mode {
	case SelectionModeNew:
		return s.questionRepo.SelectNew(count)
	case SelectionModeWrong:
		return s.questionRepo.SelectWrong(count)
	case SelectionModeFlagged:
		return s.questionRepo.SelectFlagged(count)
	default:
		return nil, apperr.Validation("unknown smart selection mode %q", mode)
	}
}

// PoolStats is read-only; it never mutates selection state.
func (s *selectorService) PoolStats(categoryIDs, tagIDs []uint) (*dto.PoolStatsDTO, error) {
	total, err := s.questionRepo.CountPool(categoryIDs, tagIDs)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.questionRepo.CountByCategory()
	if err != nil {
		return nil, err
	}
	newCount, err := s.questionRepo.CountNew()
	if err != nil {
		return nil, err
	}
	wrongCount, err := s.questionRepo.CountWrong()
	if err != nil {
		return nil, err
	}
	flaggedCount, err := s.questionRepo.CountFlagged()
	if err != nil {
		return nil, err
	}
	return &dto.PoolStatsDTO{
		Total:            total,
		ByCategory:       byCategory,
		NewQuestions:     newCount,
		WrongQuestions:   wrongCount,
		FlaggedQuestions: flaggedCount,
	}, nil
}
