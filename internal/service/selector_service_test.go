package service

import (
	"testing"

	"github.com/anhlelha/aws-exam-practice/internal/apperr"
	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"github.com/anhlelha/aws-exam-practice/internal/repository"
	"gorm.io/gorm"
)

func newSelector(db *gorm.DB) SelectorService {
	return NewSelectorService(repository.NewQuestionRepository(db))
}

func TestSelectRejectsUnknownMode(t *testing.T) {
	db := newTestDB(t)
	svc := newSelector(db)

	_, err := svc.Select(dto.SelectionRequest{SelectionMode: "cleverest"})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected ValidationError for unknown mode, got %v", err)
	}
}

func TestSelectRandomNoDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := newSelector(db)
	seedQuestions(t, db, 50)

	questions, err := svc.Select(dto.SelectionRequest{SelectionMode: "random", Count: 10})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(questions) != 10 {
		t.Fatalf("selected %d questions, want 10", len(questions))
	}
	seen := make(map[uint]bool, len(questions))
	for _, q := range questions {
		if seen[q.ID] {
			t.Fatalf("duplicate question %d in selection", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestSelectRandomSmallPool(t *testing.T) {
	db := newTestDB(t)
	svc := newSelector(db)
	seedQuestions(t, db, 3)

	questions, err := svc.Select(dto.SelectionRequest{SelectionMode: "random", Count: 10})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("pool smaller than count must return pool size: got %d, want 3", len(questions))
	}
}

func TestSelectWeightedProportions(t *testing.T) {
	db := newTestDB(t)
	svc := newSelector(db)

	catA := seedCategory(t, db, "Design Secure Architectures")
	catB := seedCategory(t, db, "Design Resilient Architectures")
	for i := 0; i < 20; i++ {
		q := seedQuestion(t, db, 4, 1)
		cat := catA.ID
		if i >= 10 {
			cat = catB.ID
		}
		if err := db.Model(&model.Question{}).Where("id = ?", q.ID).
			Update("category_id", cat).Error; err != nil {
			t.Fatalf("assign category: %v", err)
		}
	}

	questions, err := svc.SelectWeighted(10, []dto.CategoryWeight{
		{CategoryID: catA.ID, Weight: 70},
		{CategoryID: catB.ID, Weight: 30},
	})
	if err != nil {
		t.Fatalf("weighted select: %v", err)
	}
	if len(questions) == 0 || len(questions) > 10 {
		t.Fatalf("weighted selection size %d out of range (1..10]", len(questions))
	}

	fromA := 0
	for _, q := range questions {
		if q.CategoryID != nil && *q.CategoryID == catA.ID {
			fromA++
		}
	}
	// round(0.7*10)=7 drawn from A before shuffle-and-truncate; allow slack.
	if fromA < 5 {
		t.Errorf("weighted selection drew %d/%d from the 70%% category", fromA, len(questions))
	}
}

func TestSelectWeightedRejectsZeroWeights(t *testing.T) {
	db := newTestDB(t)
	svc := newSelector(db)
	seedCategory(t, db, "Design Secure Architectures")

	_, err := svc.SelectWeighted(10, []dto.CategoryWeight{{CategoryID: 1, Weight: 0}})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected ValidationError for zero total weight, got %v", err)
	}
}

func TestSelectNewExcludesAttempted(t *testing.T) {
	db := newTestDB(t)
	svc := newSelector(db)
	ids := seedQuestions(t, db, 5)

	// Mark the first two as attempted.
	test := seedTest(t, db, ids)
	session := newSessionService(db)
	started, err := session.Start(test.ID, model.SessionModeNonTimed)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	for _, id := range ids[:2] {
		if _, err := session.SubmitAnswer(started.SessionID, id, []uint{}); err != nil {
			t.Fatalf("submit answer: %v", err)
		}
	}

	questions, err := svc.SelectSmart(10, "new")
	if err != nil {
		t.Fatalf("select new: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 unattempted questions, got %d", len(questions))
	}
	attempted := map[uint]bool{ids[0]: true, ids[1]: true}
	for _, q := range questions {
		if attempted[q.ID] {
			t.Errorf("attempted question %d returned by new-mode selection", q.ID)
		}
	}
}

func TestPoolStats(t *testing.T) {
	db := newTestDB(t)
	svc := newSelector(db)
	seedQuestions(t, db, 4)

	stats, err := svc.PoolStats(nil, nil)
	if err != nil {
		t.Fatalf("pool stats: %v", err)
	}
	if stats.Total != 4 {
		t.Errorf("total = %d, want 4", stats.Total)
	}
	if stats.NewQuestions != 4 {
		t.Errorf("new = %d, want 4", stats.NewQuestions)
	}
	if stats.WrongQuestions != 0 || stats.FlaggedQuestions != 0 {
		t.Errorf("wrong/flagged = %d/%d, want 0/0", stats.WrongQuestions, stats.FlaggedQuestions)
	}
}

func TestPoolStatsFlagOnlyRowCountsAsAttempted(t *testing.T) {
	db := newTestDB(t)
	svc := newSelector(db)
	ids := seedQuestions(t, db, 4)

	test := seedTest(t, db, ids)
	session := newSessionService(db)
	started, err := session.Start(test.ID, model.SessionModeNonTimed)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	// Flag without ever answering: the row alone removes the question from
	// the never-attempted pool.
	if _, err := session.ToggleFlag(started.SessionID, ids[0], true); err != nil {
		t.Fatalf("toggle flag: %v", err)
	}

	stats, err := svc.PoolStats(nil, nil)
	if err != nil {
		t.Fatalf("pool stats: %v", err)
	}
	if stats.NewQuestions != 3 {
		t.Errorf("new = %d after flag-only row, want 3", stats.NewQuestions)
	}
	if stats.FlaggedQuestions != 1 {
		t.Errorf("flagged = %d, want 1", stats.FlaggedQuestions)
	}
	// "Wrong" counts rows with is_correct false, and a flag-only row carries
	// the default is_correct=false.
	if stats.WrongQuestions != 1 {
		t.Errorf("wrong = %d, want 1", stats.WrongQuestions)
	}
}
