package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/anhlelha/aws-exam-practice/internal/apperr"
	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"github.com/anhlelha/aws-exam-practice/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const defaultTestDuration = 65 // minutes, the SAA exam pace

// TestService materializes question selections into persisted, ordered tests.
type TestService interface {
	Create(req dto.CreateTestRequest) (*dto.CreateTestResponse, error)
	CreateWithSelection(req dto.CreateTestWithSelectionRequest) (*dto.CreateTestResponse, error)
	Generate(req dto.GenerateTestRequest) (*dto.CreateTestResponse, error)
	Update(id uint, req dto.UpdateTestRequest) error
	Delete(id uint) error
	List() ([]dto.TestSummaryDTO, error)
	Get(id uint) (*dto.TestDetailDTO, error)
	GetQuestions(id uint) (*dto.TestDetailDTO, error)
	Preview(req dto.SelectionRequest) (*dto.SelectionPreviewResponse, error)
	Stats() (*dto.PoolStatsDTO, error)
}

type testService struct {
	testRepo repository.TestRepository
	selector SelectorService
}

func NewTestService(testRepo repository.TestRepository, selector SelectorService) TestService {
	return &testService{testRepo: testRepo, selector: selector}
}

// Create persists a test from an explicit ordered id list. Input order becomes
// the 0-based order_index sequence. Question ids are not existence-checked
// here; a dangling id surfaces when the session engine hydrates the test.
func (s *testService) Create(req dto.CreateTestRequest) (*dto.CreateTestResponse, error) {
	if req.Name == "" {
		return nil, apperr.Validation("test name is required")
	}
	if len(req.QuestionIDs) == 0 {
		return nil, apperr.Validation("question_ids must not be empty")
	}
	duration := req.DurationMinutes
	if duration <= 0 {
		duration = defaultTestDuration
	}

	test := &model.Test{Name: req.Name, DurationMinutes: duration}
	if err := s.testRepo.CreateWithQuestions(test, req.QuestionIDs); err != nil {
		return nil, err
	}
	return &dto.CreateTestResponse{
		TestID:        test.ID,
		Name:          test.Name,
		QuestionCount: len(req.QuestionIDs),
	}, nil
}

// CreateWithSelection runs the selector and persists the result as a test.
func (s *testService) CreateWithSelection(req dto.CreateTestWithSelectionRequest) (*dto.CreateTestResponse, error) {
	if req.Name == "" {
		return nil, apperr.Validation("test name is required")
	}
	questions, err := s.selector.Select(req.SelectionRequest)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, apperr.Validation("no questions available for selection")
	}
	ids := make([]uint, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	return s.Create(dto.CreateTestRequest{
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		QuestionIDs:     ids,
	})
}

// Generate builds a criteria-based random test. Duration defaults to ~1.5
// minutes per question.
func (s *testService) Generate(req dto.GenerateTestRequest) (*dto.CreateTestResponse, error) {
	count := req.Count
	if count <= 0 {
		count = 20
	}
	var categoryIDs []uint
	if req.CategoryID != nil {
		categoryIDs = []uint{*req.CategoryID}
	}
	questions, err := s.selector.SelectRandom(count, categoryIDs, req.TagIDs, nil)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, apperr.Validation("no questions available for selection")
	}

	name := req.Name
	if name == "" {
		name = fmt.Sprintf("Practice Test - %s", time.Now().Format("2006-01-02"))
	}
	ids := make([]uint, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}

	test := &model.Test{
		Name:            name,
		DurationMinutes: int(math.Ceil(float64(count) * 1.5)),
	}
	if err := s.testRepo.CreateWithQuestions(test, ids); err != nil {
		return nil, err
	}
	log.Info().Uint("testID", test.ID).Int("questions", len(ids)).Msg("Test generated")
	return &dto.CreateTestResponse{TestID: test.ID, Name: name, QuestionCount: len(ids)}, nil
}

// Update is a full membership replace, not a diff: the old ordering is deleted
// and the new id list reinserted with fresh 0-based indices.
func (s *testService) Update(id uint, req dto.UpdateTestRequest) error {
	if req.Name == "" {
		return apperr.Validation("test name is required")
	}
	if len(req.QuestionIDs) == 0 {
		return apperr.Validation("question_ids must not be empty")
	}
	test, err := s.findTest(id)
	if err != nil {
		return err
	}
	test.Name = req.Name
	if req.DurationMinutes > 0 {
		test.DurationMinutes = req.DurationMinutes
	}
	return s.testRepo.ReplaceQuestions(test, req.QuestionIDs)
}

func (s *testService) Delete(id uint) error {
	if _, err := s.findTest(id); err != nil {
		return err
	}
	return s.testRepo.Delete(id)
}

func (s *testService) findTest(id uint) (*model.Test, error) {
	test, err := s.testRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("test", id)
		}
		return nil, err
	}
	return test, nil
}

func (s *testService) List() ([]dto.TestSummaryDTO, error) {
	rows, err := s.testRepo.FindAllWithQuestionCount()
	if err != nil {
		return nil, err
	}
	out := make([]dto.TestSummaryDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TestSummaryDTO{
			ID:              r.ID,
			Name:            r.Name,
			DurationMinutes: r.DurationMinutes,
			IsConfirmed:     r.IsConfirmed,
			QuestionCount:   r.QuestionCount,
			CreatedAt:       r.CreatedAt,
		})
	}
	return out, nil
}

func (s *testService) Get(id uint) (*dto.TestDetailDTO, error) {
	test, err := s.findTest(id)
	if err != nil {
		return nil, err
	}
	questions, err := s.testRepo.FindQuestions(id)
	if err != nil {
		return nil, err
	}
	return &dto.TestDetailDTO{
		ID:              test.ID,
		Name:            test.Name,
		DurationMinutes: test.DurationMinutes,
		IsConfirmed:     test.IsConfirmed,
		Questions:       questionsToDTOs(questions),
		CreatedAt:       test.CreatedAt,
	}, nil
}

// GetQuestions is the preview shape: question text with category and tags,
// answers omitted.
func (s *testService) GetQuestions(id uint) (*dto.TestDetailDTO, error) {
	detail, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	for i := range detail.Questions {
		detail.Questions[i].Answers = nil
	}
	return detail, nil
}

func (s *testService) Preview(req dto.SelectionRequest) (*dto.SelectionPreviewResponse, error) {
	questions, err := s.selector.Select(req)
	if err != nil {
		return nil, err
	}
	previews := make([]dto.QuestionPreviewDTO, 0, len(questions))
	for _, q := range questions {
		preview := dto.QuestionPreviewDTO{ID: q.ID, Text: truncateText(q.Text, 100)}
		if q.Category != nil {
			preview.CategoryName = q.Category.Name
		}
		previews = append(previews, preview)
	}
	return &dto.SelectionPreviewResponse{Count: len(previews), Questions: previews}, nil
}

func (s *testService) Stats() (*dto.PoolStatsDTO, error) {
	return s.selector.PoolStats(nil, nil)
}
