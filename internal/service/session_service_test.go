package service

import (
	"testing"

	"github.com/anhlelha/aws-exam-practice/internal/apperr"
	"github.com/anhlelha/aws-exam-practice/internal/model"
)

func TestGradeSelectionSetEquality(t *testing.T) {
	correct := map[uint]bool{1: true, 2: true}

	cases := []struct {
		name     string
		selected []uint
		want     bool
	}{
		{"exact match", []uint{1, 2}, true},
		{"order independent", []uint{2, 1}, true},
		{"subset is wrong", []uint{1}, false},
		{"superset is wrong", []uint{1, 2, 3}, false},
		{"empty is wrong", []uint{}, false},
		{"disjoint is wrong", []uint{3, 4}, false},
		{"duplicated pick is wrong", []uint{1, 1}, false},
		{"duplicated full set still correct", []uint{1, 2, 2}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := gradeSelection(tc.selected, correct); got != tc.want {
				t.Errorf("gradeSelection(%v) = %v, want %v", tc.selected, got, tc.want)
			}
		})
	}
}

func TestStartSessionRejectsUnknownMode(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)
	test := seedTest(t, db, seedQuestions(t, db, 3))

	if _, err := svc.Start(test.ID, "speedrun"); !apperr.IsValidation(err) {
		t.Fatalf("expected ValidationError for unknown mode, got %v", err)
	}
}

func TestStartSessionUnknownTest(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)

	if _, err := svc.Start(9999, model.SessionModeTimed); !apperr.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestStartSessionSnapshotsQuestionList(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)
	ids := seedQuestions(t, db, 3)
	test := seedTest(t, db, ids)

	started, err := svc.Start(test.ID, model.SessionModeNonTimed)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if len(started.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(started.Questions))
	}

	// Shrink the test after the session started; the session must not notice.
	if err := db.Where("test_id = ? AND question_id = ?", test.ID, ids[0]).
		Delete(&model.TestQuestion{}).Error; err != nil {
		t.Fatalf("remove membership: %v", err)
	}

	state, err := svc.Get(started.SessionID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if len(state.Questions) != 3 {
		t.Fatalf("snapshot leaked test edit: expected 3 questions, got %d", len(state.Questions))
	}
	if state.Questions[0].ID != ids[0] {
		t.Errorf("snapshot order broken: first question = %d, want %d", state.Questions[0].ID, ids[0])
	}
}

func TestSubmitAnswerGradesAndOverwrites(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)
	q := seedQuestion(t, db, 4, 1)
	test := seedTest(t, db, []uint{q.ID})

	started, err := svc.Start(test.ID, model.SessionModeNonTimed)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	correctID := q.Answers[0].ID
	wrongID := q.Answers[1].ID

	resp, err := svc.SubmitAnswer(started.SessionID, q.ID, []uint{wrongID})
	if err != nil {
		t.Fatalf("submit answer: %v", err)
	}
	if resp.IsCorrect {
		t.Fatal("wrong selection graded correct")
	}

	// Resubmission overwrites in place.
	resp, err = svc.SubmitAnswer(started.SessionID, q.ID, []uint{correctID})
	if err != nil {
		t.Fatalf("resubmit answer: %v", err)
	}
	if !resp.IsCorrect {
		t.Fatal("correct selection graded wrong")
	}

	var count int64
	if err := db.Model(&model.SessionAnswer{}).
		Where("session_id = ?", started.SessionID).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("resubmission created duplicate rows: got %d, want 1", count)
	}
}

func TestSubmitAnswerOutsideSnapshot(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)
	q := seedQuestion(t, db, 4, 1)
	outsider := seedQuestion(t, db, 4, 1)
	test := seedTest(t, db, []uint{q.ID})

	started, err := svc.Start(test.ID, model.SessionModeNonTimed)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if _, err := svc.SubmitAnswer(started.SessionID, outsider.ID, []uint{1}); !apperr.IsValidation(err) {
		t.Fatalf("expected ValidationError for question outside snapshot, got %v", err)
	}
}

func TestCompleteSessionScore(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)

	questions := make([]*model.Question, 0, 5)
	ids := make([]uint, 0, 5)
	for i := 0; i < 5; i++ {
		q := seedQuestion(t, db, 4, 1)
		questions = append(questions, q)
		ids = append(ids, q.ID)
	}
	test := seedTest(t, db, ids)

	started, err := svc.Start(test.ID, model.SessionModeTimed)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	// 3 correct, 2 wrong out of 5 -> 60%.
	for i, q := range questions {
		answerID := q.Answers[0].ID // correct
		if i >= 3 {
			answerID = q.Answers[1].ID // wrong
		}
		if _, err := svc.SubmitAnswer(started.SessionID, q.ID, []uint{answerID}); err != nil {
			t.Fatalf("submit answer %d: %v", i, err)
		}
	}

	result, err := svc.Complete(started.SessionID)
	if err != nil {
		t.Fatalf("complete session: %v", err)
	}
	if result.Score != 60 {
		t.Errorf("score = %d, want 60", result.Score)
	}
	if result.CorrectCount != 3 {
		t.Errorf("correct count = %d, want 3", result.CorrectCount)
	}
	if result.Total != 5 {
		t.Errorf("total = %d, want 5", result.Total)
	}
	if result.TimeTakenSeconds < 0 {
		t.Errorf("time taken negative: %d", result.TimeTakenSeconds)
	}
	if len(result.Breakdown) != 5 {
		t.Errorf("breakdown entries = %d, want 5", len(result.Breakdown))
	}
}

func TestCompleteSessionIsTerminal(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)
	q := seedQuestion(t, db, 4, 1)
	test := seedTest(t, db, []uint{q.ID})

	started, err := svc.Start(test.ID, model.SessionModeNonTimed)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if _, err := svc.SubmitAnswer(started.SessionID, q.ID, []uint{q.Answers[0].ID}); err != nil {
		t.Fatalf("submit answer: %v", err)
	}

	first, err := svc.Complete(started.SessionID)
	if err != nil {
		t.Fatalf("first complete: %v", err)
	}
	if _, err := svc.Complete(started.SessionID); !apperr.IsInvalidState(err) {
		t.Fatalf("expected InvalidStateError on double complete, got %v", err)
	}

	// Submissions are rejected after completion, score unchanged.
	if _, err := svc.SubmitAnswer(started.SessionID, q.ID, []uint{q.Answers[1].ID}); !apperr.IsInvalidState(err) {
		t.Fatalf("expected InvalidStateError on post-completion submit, got %v", err)
	}
	var session model.PracticeSession
	if err := db.First(&session, started.SessionID).Error; err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if session.Score == nil || *session.Score != first.Score {
		t.Errorf("score changed after double complete: %v, want %d", session.Score, first.Score)
	}
}

func TestToggleFlagWithoutAnswer(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)
	q := seedQuestion(t, db, 4, 1)
	test := seedTest(t, db, []uint{q.ID})

	started, err := svc.Start(test.ID, model.SessionModeNonTimed)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if _, err := svc.ToggleFlag(started.SessionID, q.ID, true); err != nil {
		t.Fatalf("toggle flag: %v", err)
	}

	var row model.SessionAnswer
	if err := db.Where("session_id = ? AND question_id = ?", started.SessionID, q.ID).
		First(&row).Error; err != nil {
		t.Fatalf("load flag row: %v", err)
	}
	if !row.Flagged {
		t.Error("row not flagged")
	}
	if row.IsCorrect {
		t.Error("flag-only row must not count as correct")
	}
	if len(row.SelectedAnswerIDs) != 0 {
		t.Errorf("flag-only row has selections: %v", row.SelectedAnswerIDs)
	}

	// Flagging must not clobber a recorded answer.
	if _, err := svc.SubmitAnswer(started.SessionID, q.ID, []uint{q.Answers[0].ID}); err != nil {
		t.Fatalf("submit answer: %v", err)
	}
	if _, err := svc.ToggleFlag(started.SessionID, q.ID, false); err != nil {
		t.Fatalf("unflag: %v", err)
	}
	if err := db.Where("session_id = ? AND question_id = ?", started.SessionID, q.ID).
		First(&row).Error; err != nil {
		t.Fatalf("reload row: %v", err)
	}
	if row.Flagged {
		t.Error("unflag did not stick")
	}
	if !row.IsCorrect {
		t.Error("unflag clobbered the recorded answer")
	}
}

func TestToggleFlagAfterCompletion(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)
	q := seedQuestion(t, db, 4, 1)
	test := seedTest(t, db, []uint{q.ID})

	started, err := svc.Start(test.ID, model.SessionModeNonTimed)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if _, err := svc.Complete(started.SessionID); err != nil {
		t.Fatalf("complete session: %v", err)
	}

	// Bookmarking during post-completion review stays allowed.
	resp, err := svc.ToggleFlag(started.SessionID, q.ID, true)
	if err != nil {
		t.Fatalf("flag on completed session rejected: %v", err)
	}
	if !resp.Flagged {
		t.Error("flag response not flagged")
	}

	var row model.SessionAnswer
	if err := db.Where("session_id = ? AND question_id = ?", started.SessionID, q.ID).
		First(&row).Error; err != nil {
		t.Fatalf("load flag row: %v", err)
	}
	if !row.Flagged {
		t.Error("flag not persisted after completion")
	}
}

func TestEmptySelectionIsValidAndWrong(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)
	q := seedQuestion(t, db, 4, 1)
	test := seedTest(t, db, []uint{q.ID})

	started, err := svc.Start(test.ID, model.SessionModeNonTimed)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	resp, err := svc.SubmitAnswer(started.SessionID, q.ID, []uint{})
	if err != nil {
		t.Fatalf("empty selection rejected: %v", err)
	}
	if resp.IsCorrect {
		t.Error("empty selection graded correct")
	}
}

func TestSessionHistoryOnlyCompleted(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)
	q := seedQuestion(t, db, 4, 1)
	test := seedTest(t, db, []uint{q.ID})

	active, err := svc.Start(test.ID, model.SessionModeNonTimed)
	if err != nil {
		t.Fatalf("start active session: %v", err)
	}
	done, err := svc.Start(test.ID, model.SessionModeNonTimed)
	if err != nil {
		t.Fatalf("start second session: %v", err)
	}
	if _, err := svc.Complete(done.SessionID); err != nil {
		t.Fatalf("complete session: %v", err)
	}

	history, err := svc.History(10, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if history.Pagination.Total != 1 || len(history.Sessions) != 1 {
		t.Fatalf("history = %d sessions (total %d), want 1", len(history.Sessions), history.Pagination.Total)
	}
	if history.Sessions[0].ID != done.SessionID {
		t.Errorf("history has session %d, want %d", history.Sessions[0].ID, done.SessionID)
	}

	activeList, err := svc.ListActive()
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(activeList) != 1 || activeList[0].ID != active.SessionID {
		t.Fatalf("active list wrong: %+v", activeList)
	}
}
