package service

import (
	"context"
	"errors"
	"math"

	"github.com/anhlelha/aws-exam-practice/internal/apperr"
	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"github.com/anhlelha/aws-exam-practice/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// maxTagsPerQuestion caps what auto-tagging may attach to a single question.
const maxTagsPerQuestion = 10

type QuestionService interface {
	List(filter repository.QuestionFilter, page, limit int) (*dto.QuestionListResponse, error)
	ListTags() ([]dto.TagDTO, error)
	Get(id uint) (*dto.QuestionDTO, error)
	Create(req dto.CreateQuestionRequest) (*dto.QuestionDTO, error)
	Update(id uint, req dto.UpdateQuestionRequest) (*dto.QuestionDTO, error)
	Delete(id uint) error
	Stats(id uint) (*dto.QuestionStatsDTO, error)
	AutoTag(ctx context.Context, id uint) (*dto.EnrichmentResult, error)
	AutoTagBulk(ctx context.Context, ids []uint) []dto.EnrichmentResult
	AutoClassify(ctx context.Context, id uint) (*dto.EnrichmentResult, error)
	AutoClassifyBulk(ctx context.Context, ids []uint) []dto.EnrichmentResult
}

type questionService struct {
	questionRepo repository.QuestionRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	llm          LLMService
}

func NewQuestionService(
	questionRepo repository.QuestionRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
	llm LLMService,
) QuestionService {
	return &questionService{
		questionRepo: questionRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		llm:          llm,
	}
}

func (s *questionService) List(filter repository.QuestionFilter, page, limit int) (*dto.QuestionListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := (page - 1) * limit

	total, err := s.questionRepo.Count(filter)
	if err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.List(filter, limit, offset)
	if err != nil {
		return nil, err
	}
	return &dto.QuestionListResponse{
		Questions: questionsToDTOs(questions),
		Pagination: dto.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

func (s *questionService) ListTags() ([]dto.TagDTO, error) {
	tags, err := s.tagRepo.FindAll()
	if err != nil {
		return nil, err
	}
	out := make([]dto.TagDTO, 0, len(tags))
	for _, tag := range tags {
		out = append(out, dto.TagDTO{ID: tag.ID, Name: tag.Name, Color: tag.Color})
	}
	return out, nil
}

func (s *questionService) Get(id uint) (*dto.QuestionDTO, error) {
	question, err := s.findQuestion(id)
	if err != nil {
		return nil, err
	}
	out := questionToDTO(question)
	return &out, nil
}

func (s *questionService) findQuestion(id uint) (*model.Question, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("question", id)
		}
		return nil, err
	}
	return question, nil
}

// Create stores a manually-entered question. At least two answers and one
// correct answer are required; answer order becomes the stored order_index.
func (s *questionService) Create(req dto.CreateQuestionRequest) (*dto.QuestionDTO, error) {
	if err := validateAnswers(req.Answers); err != nil {
		return nil, err
	}

	question := &model.Question{
		Text:             req.Text,
		Explanation:      req.Explanation,
		IsMultipleChoice: req.IsMultipleChoice,
		CategoryID:       req.CategoryID,
		SourceFile:       "manual_entry",
		Answers:          answersFromInput(req.Answers),
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, err
	}
	if len(req.Tags) > 0 {
		if _, err := s.tagRepo.EnsureAndLink(question.ID, req.Tags); err != nil {
			return nil, err
		}
	}
	return s.Get(question.ID)
}

// Update replaces the question fields and, when the request carries them, the
// answer list and the tag set. A nil Tags pointer leaves tags untouched.
func (s *questionService) Update(id uint, req dto.UpdateQuestionRequest) (*dto.QuestionDTO, error) {
	question, err := s.findQuestion(id)
	if err != nil {
		return nil, err
	}
	if len(req.Answers) > 0 {
		if err := validateAnswers(req.Answers); err != nil {
			return nil, err
		}
	}

	question.Text = req.Text
	question.Explanation = req.Explanation
	question.IsMultipleChoice = req.IsMultipleChoice
	question.CategoryID = req.CategoryID
	// Associations are managed through dedicated repository calls.
	question.Answers = nil
	question.Tags = nil

	if err := s.questionRepo.Update(question); err != nil {
		return nil, err
	}
	if len(req.Answers) > 0 {
		if err := s.questionRepo.ReplaceAnswers(id, answersFromInput(req.Answers)); err != nil {
			return nil, err
		}
	}
	if req.Tags != nil {
		if err := s.tagRepo.ReplaceLinks(id, *req.Tags); err != nil {
			return nil, err
		}
	}
	return s.Get(id)
}

func (s *questionService) Delete(id uint) error {
	if _, err := s.findQuestion(id); err != nil {
		return err
	}
	return s.questionRepo.DeleteCascade(id)
}

func (s *questionService) Stats(id uint) (*dto.QuestionStatsDTO, error) {
	question, err := s.findQuestion(id)
	if err != nil {
		return nil, err
	}
	row, err := s.questionRepo.Stats(id)
	if err != nil {
		return nil, err
	}
	return &dto.QuestionStatsDTO{
		QuestionID:    id,
		QuestionText:  truncateText(question.Text, 100),
		TotalAttempts: row.TotalAttempts,
		CorrectCount:  row.CorrectCount,
		SuccessRate:   row.SuccessRate,
		FlaggedCount:  row.FlaggedCount,
	}, nil
}

// AutoTag asks the extraction role for AWS service tags and links them to the
// question, capped at maxTagsPerQuestion.
func (s *questionService) AutoTag(ctx context.Context, id uint) (*dto.EnrichmentResult, error) {
	question, err := s.findQuestion(id)
	if err != nil {
		return nil, err
	}
	tags, err := s.llm.TagQuestion(ctx, question)
	if err != nil {
		return nil, err
	}
	if len(tags) > maxTagsPerQuestion {
		tags = tags[:maxTagsPerQuestion]
	}
	if len(tags) > 0 {
		if _, err := s.tagRepo.EnsureAndLink(id, tags); err != nil {
			return nil, err
		}
	}
	return &dto.EnrichmentResult{QuestionID: id, Tags: tags, Success: true}, nil
}

// AutoTagBulk processes ids independently: one failed item never aborts the
// run, it is reported in its own result entry.
func (s *questionService) AutoTagBulk(ctx context.Context, ids []uint) []dto.EnrichmentResult {
	results := make([]dto.EnrichmentResult, 0, len(ids))
	for _, id := range ids {
		result, err := s.AutoTag(ctx, id)
		if err != nil {
			log.Warn().Err(err).Uint("questionID", id).Msg("Auto-tag failed")
			results = append(results, dto.EnrichmentResult{QuestionID: id, Error: err.Error()})
			continue
		}
		results = append(results, *result)
	}
	return results
}

// AutoClassify asks the extraction role to pick an exam domain for the
// question. An unrecognized or missing answer leaves the question unclassified
// without failing.
func (s *questionService) AutoClassify(ctx context.Context, id uint) (*dto.EnrichmentResult, error) {
	question, err := s.findQuestion(id)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return nil, err
	}
	categoryID, err := s.llm.ClassifyQuestion(ctx, question, categories)
	if err != nil {
		return nil, err
	}
	if categoryID == nil {
		return &dto.EnrichmentResult{QuestionID: id, Success: true}, nil
	}
	if err := s.questionRepo.UpdateCategory(id, categoryID); err != nil {
		return nil, err
	}
	result := &dto.EnrichmentResult{QuestionID: id, CategoryID: categoryID, Success: true}
	for _, c := range categories {
		if c.ID == *categoryID {
			result.CategoryName = c.Name
			break
		}
	}
	return result, nil
}

func (s *questionService) AutoClassifyBulk(ctx context.Context, ids []uint) []dto.EnrichmentResult {
	results := make([]dto.EnrichmentResult, 0, len(ids))
	for _, id := range ids {
		result, err := s.AutoClassify(ctx, id)
		if err != nil {
			log.Warn().Err(err).Uint("questionID", id).Msg("Auto-classify failed")
			results = append(results, dto.EnrichmentResult{QuestionID: id, Error: err.Error()})
			continue
		}
		results = append(results, *result)
	}
	return results
}

func validateAnswers(answers []dto.AnswerInput) error {
	if len(answers) < 2 {
		return apperr.Validation("a question needs at least 2 answers")
	}
	hasCorrect := false
	for i, a := range answers {
		if a.Text == "" {
			return apperr.Validation("answer %d has empty text", i+1)
		}
		if a.IsCorrect {
			hasCorrect = true
		}
	}
	if !hasCorrect {
		return apperr.Validation("a question needs at least one correct answer")
	}
	return nil
}

func answersFromInput(inputs []dto.AnswerInput) []model.Answer {
	answers := make([]model.Answer, 0, len(inputs))
	for i, a := range inputs {
		answers = append(answers, model.Answer{
			Text:       a.Text,
			IsCorrect:  a.IsCorrect,
			OrderIndex: i,
		})
	}
	return answers
}
