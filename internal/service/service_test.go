package service

import (
	"fmt"
	"testing"

	"github.com/anhlelha/aws-exam-practice/internal/model"
	"github.com/anhlelha/aws-exam-practice/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory store with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&model.Certification{},
		&model.Category{},
		&model.Tag{},
		&model.Question{},
		&model.Answer{},
		&model.QuestionTag{},
		&model.Test{},
		&model.TestQuestion{},
		&model.PracticeSession{},
		&model.SessionQuestion{},
		&model.SessionAnswer{},
		&model.LLMConfig{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// seedQuestion inserts a question with the given number of answers, the first
// correctCount of them correct.
func seedQuestion(t *testing.T, db *gorm.DB, answerCount, correctCount int) *model.Question {
	t.Helper()
	answers := make([]model.Answer, 0, answerCount)
	for i := 0; i < answerCount; i++ {
		answers = append(answers, model.Answer{
			Text:       fmt.Sprintf("option %d", i+1),
			IsCorrect:  i < correctCount,
			OrderIndex: i,
		})
	}
	q := &model.Question{
		Text:             "Which service should the solutions architect choose?",
		IsMultipleChoice: correctCount > 1,
		SourceFile:       "manual_entry",
		Answers:          answers,
	}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("seed question: %v", err)
	}
	return q
}

func seedQuestions(t *testing.T, db *gorm.DB, n int) []uint {
	t.Helper()
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, seedQuestion(t, db, 4, 1).ID)
	}
	return ids
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()
	cert := model.Certification{Code: "SAA-C03", Name: "Solutions Architect Associate", Level: "Associate"}
	if err := db.Where(model.Certification{Code: cert.Code}).FirstOrCreate(&cert).Error; err != nil {
		t.Fatalf("seed certification: %v", err)
	}
	cat := &model.Category{CertificationID: cert.ID, Name: name, Color: "#FF9900"}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return cat
}

func seedTest(t *testing.T, db *gorm.DB, questionIDs []uint) *model.Test {
	t.Helper()
	repo := repository.NewTestRepository(db)
	test := &model.Test{Name: "Seed Test", DurationMinutes: 30}
	if err := repo.CreateWithQuestions(test, questionIDs); err != nil {
		t.Fatalf("seed test: %v", err)
	}
	return test
}

func newSessionService(db *gorm.DB) SessionService {
	return NewSessionService(
		repository.NewSessionRepository(db),
		repository.NewTestRepository(db),
		repository.NewQuestionRepository(db),
		db,
	)
}
