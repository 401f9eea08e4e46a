package service

import (
	"context"
	"testing"

	"github.com/anhlelha/aws-exam-practice/internal/apperr"
	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"github.com/anhlelha/aws-exam-practice/internal/repository"
	"gorm.io/gorm"
)

// stubLLM serves the enrichment paths without a provider.
type stubLLM struct {
	tags       []string
	categoryID *uint
	err        error
}

func (s *stubLLM) Complete(context.Context, string, string, string) (string, error) {
	return "", s.err
}
func (s *stubLLM) ExtractQuestions(context.Context, string) []ExtractedQuestion { return nil }
func (s *stubLLM) TagQuestion(context.Context, *model.Question) ([]string, error) {
	return s.tags, s.err
}
func (s *stubLLM) ClassifyQuestion(context.Context, *model.Question, []model.Category) (*uint, error) {
	return s.categoryID, s.err
}
func (s *stubLLM) Chat(context.Context, string, string, []dto.ChatMessage) (string, error) {
	return "", s.err
}
func (s *stubLLM) Status(string) dto.ChatStatusResponse { return dto.ChatStatusResponse{} }

func newQuestionSvc(db *gorm.DB, llm LLMService) QuestionService {
	if llm == nil {
		llm = &stubLLM{}
	}
	return NewQuestionService(
		repository.NewQuestionRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewTagRepository(db),
		llm,
	)
}

func TestCreateQuestionWithTags(t *testing.T) {
	db := newTestDB(t)
	svc := newQuestionSvc(db, nil)

	q, err := svc.Create(dto.CreateQuestionRequest{
		Text: "Which storage class suits rarely accessed data?",
		Answers: []dto.AnswerInput{
			{Text: "S3 Standard", IsCorrect: false},
			{Text: "S3 Glacier", IsCorrect: true},
		},
		Tags: []string{"S3", "Storage"},
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	if q.SourceFile != "manual_entry" {
		t.Errorf("source file = %q, want manual_entry", q.SourceFile)
	}
	if len(q.Answers) != 2 {
		t.Fatalf("answers = %d, want 2", len(q.Answers))
	}
	if q.Answers[0].OrderIndex != 0 || q.Answers[1].OrderIndex != 1 {
		t.Error("answer order indices not dense from 0")
	}
	if len(q.Tags) != 2 {
		t.Errorf("tags = %v, want 2 entries", q.Tags)
	}
}

func TestCreateQuestionValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newQuestionSvc(db, nil)

	_, err := svc.Create(dto.CreateQuestionRequest{
		Text:    "One answer only",
		Answers: []dto.AnswerInput{{Text: "A", IsCorrect: true}},
	})
	if !apperr.IsValidation(err) {
		t.Errorf("single answer: expected ValidationError, got %v", err)
	}

	_, err = svc.Create(dto.CreateQuestionRequest{
		Text: "No correct answer",
		Answers: []dto.AnswerInput{
			{Text: "A"}, {Text: "B"},
		},
	})
	if !apperr.IsValidation(err) {
		t.Errorf("no correct answer: expected ValidationError, got %v", err)
	}
}

func TestUpdateQuestionTagSemantics(t *testing.T) {
	db := newTestDB(t)
	svc := newQuestionSvc(db, nil)

	q, err := svc.Create(dto.CreateQuestionRequest{
		Text: "Original",
		Answers: []dto.AnswerInput{
			{Text: "A", IsCorrect: true}, {Text: "B"},
		},
		Tags: []string{"EC2"},
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}

	// nil tags pointer leaves tags untouched.
	updated, err := svc.Update(q.ID, dto.UpdateQuestionRequest{Text: "Edited"})
	if err != nil {
		t.Fatalf("update without tags: %v", err)
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "EC2" {
		t.Errorf("nil tags pointer changed tags: %v", updated.Tags)
	}

	// Empty list clears.
	empty := []string{}
	updated, err = svc.Update(q.ID, dto.UpdateQuestionRequest{Text: "Edited", Tags: &empty})
	if err != nil {
		t.Fatalf("update clearing tags: %v", err)
	}
	if len(updated.Tags) != 0 {
		t.Errorf("empty tag list did not clear tags: %v", updated.Tags)
	}
}

func TestDeleteQuestionCascades(t *testing.T) {
	db := newTestDB(t)
	svc := newQuestionSvc(db, nil)
	sessions := newSessionService(db)

	q, err := svc.Create(dto.CreateQuestionRequest{
		Text: "Doomed",
		Answers: []dto.AnswerInput{
			{Text: "A", IsCorrect: true}, {Text: "B"},
		},
		Tags: []string{"VPC"},
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	test := seedTest(t, db, []uint{q.ID})
	started, err := sessions.Start(test.ID, model.SessionModeNonTimed)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if _, err := sessions.SubmitAnswer(started.SessionID, q.ID, []uint{q.Answers[0].ID}); err != nil {
		t.Fatalf("submit answer: %v", err)
	}

	if err := svc.Delete(q.ID); err != nil {
		t.Fatalf("delete question: %v", err)
	}

	tables := map[string]interface{}{
		"answers":           &model.Answer{},
		"question_tags":     &model.QuestionTag{},
		"session_answers":   &model.SessionAnswer{},
		"session_questions": &model.SessionQuestion{},
		"test_questions":    &model.TestQuestion{},
	}
	for name, table := range tables {
		var count int64
		if err := db.Model(table).Where("question_id = ?", q.ID).Count(&count).Error; err != nil {
			t.Fatalf("count %s: %v", name, err)
		}
		if count != 0 {
			t.Errorf("%s still holds %d rows for deleted question", name, count)
		}
	}
}

func TestAutoTagCapsAtTen(t *testing.T) {
	db := newTestDB(t)
	many := []string{"S3", "EC2", "VPC", "IAM", "RDS", "SQS", "SNS", "KMS", "ELB", "ECS", "EKS", "EFS"}
	svc := newQuestionSvc(db, &stubLLM{tags: many})

	q := seedQuestion(t, db, 4, 1)
	result, err := svc.AutoTag(context.Background(), q.ID)
	if err != nil {
		t.Fatalf("auto-tag: %v", err)
	}
	if len(result.Tags) != 10 {
		t.Errorf("tags = %d, want cap of 10", len(result.Tags))
	}
	if !result.Success {
		t.Error("auto-tag not marked successful")
	}
}

func TestAutoTagBulkIsolatesFailures(t *testing.T) {
	db := newTestDB(t)
	svc := newQuestionSvc(db, &stubLLM{tags: []string{"S3"}})

	q := seedQuestion(t, db, 4, 1)
	results := svc.AutoTagBulk(context.Background(), []uint{q.ID, 9999})
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if !results[0].Success {
		t.Errorf("valid item failed: %+v", results[0])
	}
	if results[1].Success || results[1].Error == "" {
		t.Errorf("missing item not reported as failed: %+v", results[1])
	}
}

func TestAutoClassifyAssignsCategory(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Design Secure Architectures")
	svc := newQuestionSvc(db, &stubLLM{categoryID: &cat.ID})

	q := seedQuestion(t, db, 4, 1)
	result, err := svc.AutoClassify(context.Background(), q.ID)
	if err != nil {
		t.Fatalf("auto-classify: %v", err)
	}
	if result.CategoryID == nil || *result.CategoryID != cat.ID {
		t.Fatalf("category = %v, want %d", result.CategoryID, cat.ID)
	}
	if result.CategoryName != cat.Name {
		t.Errorf("category name = %q, want %q", result.CategoryName, cat.Name)
	}

	reloaded, err := svc.Get(q.ID)
	if err != nil {
		t.Fatalf("reload question: %v", err)
	}
	if reloaded.CategoryID == nil || *reloaded.CategoryID != cat.ID {
		t.Error("classification not persisted")
	}
}
