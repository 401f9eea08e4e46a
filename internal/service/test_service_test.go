package service

import (
	"testing"

	"github.com/anhlelha/aws-exam-practice/internal/apperr"
	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/anhlelha/aws-exam-practice/internal/repository"
	"gorm.io/gorm"
)

func newTestSvc(db *gorm.DB) TestService {
	return NewTestService(repository.NewTestRepository(db), newSelector(db))
}

func TestCreateTestPreservesOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSvc(db)
	ids := seedQuestions(t, db, 4)
	ordered := []uint{ids[2], ids[0], ids[3], ids[1]}

	resp, err := svc.Create(dto.CreateTestRequest{Name: "Ordered", QuestionIDs: ordered})
	if err != nil {
		t.Fatalf("create test: %v", err)
	}
	if resp.QuestionCount != 4 {
		t.Fatalf("question count = %d, want 4", resp.QuestionCount)
	}

	detail, err := svc.Get(resp.TestID)
	if err != nil {
		t.Fatalf("get test: %v", err)
	}
	for i, q := range detail.Questions {
		if q.ID != ordered[i] {
			t.Errorf("position %d holds question %d, want %d", i, q.ID, ordered[i])
		}
	}
}

func TestCreateTestValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSvc(db)

	if _, err := svc.Create(dto.CreateTestRequest{Name: "", QuestionIDs: []uint{1}}); !apperr.IsValidation(err) {
		t.Errorf("empty name: expected ValidationError, got %v", err)
	}
	if _, err := svc.Create(dto.CreateTestRequest{Name: "No questions"}); !apperr.IsValidation(err) {
		t.Errorf("empty ids: expected ValidationError, got %v", err)
	}
}

func TestUpdateTestReplacesMembership(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSvc(db)
	ids := seedQuestions(t, db, 5)

	resp, err := svc.Create(dto.CreateTestRequest{Name: "Before", QuestionIDs: ids[:3]})
	if err != nil {
		t.Fatalf("create test: %v", err)
	}

	newIDs := []uint{ids[4], ids[3]}
	if err := svc.Update(resp.TestID, dto.UpdateTestRequest{Name: "After", QuestionIDs: newIDs}); err != nil {
		t.Fatalf("update test: %v", err)
	}

	detail, err := svc.Get(resp.TestID)
	if err != nil {
		t.Fatalf("get test: %v", err)
	}
	if detail.Name != "After" {
		t.Errorf("name = %q, want %q", detail.Name, "After")
	}
	if len(detail.Questions) != 2 {
		t.Fatalf("membership size = %d, want 2", len(detail.Questions))
	}
	for i, q := range detail.Questions {
		if q.ID != newIDs[i] {
			t.Errorf("position %d holds question %d, want %d", i, q.ID, newIDs[i])
		}
	}
}

func TestGenerateTestDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSvc(db)
	seedQuestions(t, db, 30)

	resp, err := svc.Generate(dto.GenerateTestRequest{Count: 10})
	if err != nil {
		t.Fatalf("generate test: %v", err)
	}
	if resp.QuestionCount != 10 {
		t.Errorf("question count = %d, want 10", resp.QuestionCount)
	}
	if resp.Name == "" {
		t.Error("generated test has no default name")
	}

	detail, err := svc.Get(resp.TestID)
	if err != nil {
		t.Fatalf("get test: %v", err)
	}
	// ceil(10 * 1.5) minutes.
	if detail.DurationMinutes != 15 {
		t.Errorf("duration = %d, want 15", detail.DurationMinutes)
	}
}

func TestDeleteTestKeepsQuestions(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSvc(db)
	ids := seedQuestions(t, db, 3)

	resp, err := svc.Create(dto.CreateTestRequest{Name: "Doomed", QuestionIDs: ids})
	if err != nil {
		t.Fatalf("create test: %v", err)
	}
	if err := svc.Delete(resp.TestID); err != nil {
		t.Fatalf("delete test: %v", err)
	}
	if _, err := svc.Get(resp.TestID); !apperr.IsNotFound(err) {
		t.Errorf("expected NotFoundError after delete, got %v", err)
	}

	questionRepo := repository.NewQuestionRepository(db)
	count, err := questionRepo.Count(repository.QuestionFilter{})
	if err != nil {
		t.Fatalf("count questions: %v", err)
	}
	if count != 3 {
		t.Errorf("deleting a test removed questions: %d left, want 3", count)
	}
}

func TestPreviewTruncatesText(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSvc(db)
	q := seedQuestion(t, db, 4, 1)

	long := make([]rune, 0, 150)
	for i := 0; i < 150; i++ {
		long = append(long, 'x')
	}
	if err := db.Model(q).Update("text", string(long)).Error; err != nil {
		t.Fatalf("lengthen question: %v", err)
	}

	preview, err := svc.Preview(dto.SelectionRequest{SelectionMode: "random", Count: 5})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.Count != 1 {
		t.Fatalf("preview count = %d, want 1", preview.Count)
	}
	if got := len([]rune(preview.Questions[0].Text)); got != 103 { // 100 + "..."
		t.Errorf("preview text length = %d, want 103", got)
	}
}
