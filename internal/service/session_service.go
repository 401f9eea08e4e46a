package service

import (
	"errors"
	"math"
	"time"

	"github.com/anhlelha/aws-exam-practice/internal/apperr"
	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"github.com/anhlelha/aws-exam-practice/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SessionService runs the practice-session state machine: Active until
// completion, Completed forever after.
type SessionService interface {
	Start(testID uint, mode string) (*dto.StartSessionResponse, error)
	Get(sessionID uint) (*dto.SessionStateResponse, error)
	SubmitAnswer(sessionID, questionID uint, selectedAnswerIDs []uint) (*dto.SubmitAnswerResponse, error)
	ToggleFlag(sessionID, questionID uint, flagged bool) (*dto.ToggleFlagResponse, error)
	Complete(sessionID uint) (*dto.CompleteSessionResponse, error)
	ListActive() ([]dto.ActiveSessionDTO, error)
	History(limit, offset int) (*dto.SessionHistoryResponse, error)
}

type sessionService struct {
	sessionRepo  repository.SessionRepository
	testRepo     repository.TestRepository
	questionRepo repository.QuestionRepository
	db           *gorm.DB // transaction scope for Complete
}

func NewSessionService(
	sessionRepo repository.SessionRepository,
	testRepo repository.TestRepository,
	questionRepo repository.QuestionRepository,
	db *gorm.DB,
) SessionService {
	return &sessionService{
		sessionRepo:  sessionRepo,
		testRepo:     testRepo,
		questionRepo: questionRepo,
		db:           db,
	}
}

// Start materializes a new session against a test. The test's current
// membership is snapshotted into the session; later test edits never reach a
// session already in flight.
func (s *sessionService) Start(testID uint, mode string) (*dto.StartSessionResponse, error) {
	if !dto.SessionModeValid(mode) {
		return nil, apperr.Validation("mode must be %q or %q", model.SessionModeTimed, model.SessionModeNonTimed)
	}

	test, err := s.testRepo.FindByID(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("test", testID)
		}
		return nil, err
	}

	questions, err := s.testRepo.FindQuestions(testID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, apperr.NotFound("test with questions", testID)
	}

	questionIDs := make([]uint, 0, len(questions))
	for _, q := range questions {
		questionIDs = append(questionIDs, q.ID)
	}

	session := &model.PracticeSession{
		TestID:         testID,
		Mode:           mode,
		TotalQuestions: len(questions),
	}
	if err := s.sessionRepo.CreateWithSnapshot(session, questionIDs); err != nil {
		return nil, err
	}

	log.Info().Uint("sessionID", session.ID).Uint("testID", testID).Str("mode", mode).
		Int("questions", len(questions)).Msg("Practice session started")

	return &dto.StartSessionResponse{
		SessionID:       session.ID,
		TestName:        test.Name,
		Questions:       questionsToDTOs(questions),
		DurationMinutes: test.DurationMinutes,
		Mode:            mode,
	}, nil
}

func (s *sessionService) findSession(sessionID uint) (*model.PracticeSession, error) {
	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("session", sessionID)
		}
		return nil, err
	}
	return session, nil
}

// Get returns the session, its snapshot questions with answers, and a map of
// everything submitted or flagged so far.
func (s *sessionService) Get(sessionID uint) (*dto.SessionStateResponse, error) {
	session, err := s.findSession(sessionID)
	if err != nil {
		return nil, err
	}

	ids, err := s.sessionRepo.SnapshotQuestionIDs(sessionID)
	if err != nil {
		return nil, err
	}
	loaded, err := s.questionRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Question, len(loaded))
	for _, q := range loaded {
		byID[q.ID] = q
	}
	questions := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			questions = append(questions, q)
		}
	}

	answers, err := s.sessionRepo.FindAnswers(sessionID)
	if err != nil {
		return nil, err
	}
	given := make(map[uint]dto.GivenAnswerDTO, len(answers))
	for _, a := range answers {
		given[a.QuestionID] = dto.GivenAnswerDTO{
			SelectedAnswerIDs: a.SelectedAnswerIDs,
			IsCorrect:         a.IsCorrect,
			Flagged:           a.Flagged,
		}
	}

	return &dto.SessionStateResponse{
		Session:      sessionToDTO(session),
		Questions:    questionsToDTOs(questions),
		AnswersGiven: given,
	}, nil
}

// SubmitAnswer grades a selection by order-independent set equality against
// the question's correct answer ids: all correct answers selected and nothing
// else, or the submission is wrong. No partial credit. An empty selection is
// valid and graded wrong. Resubmission overwrites in place (idempotent).
func (s *sessionService) SubmitAnswer(sessionID, questionID uint, selectedAnswerIDs []uint) (*dto.SubmitAnswerResponse, error) {
	session, err := s.findSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Completed() {
		return nil, apperr.InvalidState("session already completed")
	}

	snapshot, err := s.sessionRepo.SnapshotQuestionIDs(sessionID)
	if err != nil {
		return nil, err
	}
	inSnapshot := false
	for _, id := range snapshot {
		if id == questionID {
			inSnapshot = true
			break
		}
	}
	if !inSnapshot {
		return nil, apperr.Validation("question %d is not part of session %d", questionID, sessionID)
	}

	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("question", questionID)
		}
		return nil, err
	}

	correct := make(map[uint]bool)
	for _, a := range question.Answers {
		if a.IsCorrect {
			correct[a.ID] = true
		}
	}
	isCorrect := gradeSelection(selectedAnswerIDs, correct)

	row := &model.SessionAnswer{
		SessionID:         sessionID,
		QuestionID:        questionID,
		SelectedAnswerIDs: model.IDList(selectedAnswerIDs),
		IsCorrect:         isCorrect,
	}
	if row.SelectedAnswerIDs == nil {
		row.SelectedAnswerIDs = model.IDList{}
	}
	if err := s.sessionRepo.UpsertAnswer(row); err != nil {
		return nil, err
	}

	return &dto.SubmitAnswerResponse{QuestionID: questionID, IsCorrect: isCorrect}, nil
}

// gradeSelection: the distinct picks must equal the correct set exactly.
// Duplicates in the input collapse, so [1,1] never passes for {1,2}.
func gradeSelection(selected []uint, correct map[uint]bool) bool {
	picked := make(map[uint]bool, len(selected))
	for _, id := range selected {
		if !correct[id] {
			return false
		}
		picked[id] = true
	}
	return len(picked) == len(correct)
}

// ToggleFlag is independent of submission state and deliberately permitted on
// completed sessions (review-mode bookmarking). A never-answered question gets
// a fresh row carrying only the flag.
func (s *sessionService) ToggleFlag(sessionID, questionID uint, flagged bool) (*dto.ToggleFlagResponse, error) {
	if _, err := s.findSession(sessionID); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.UpsertFlag(sessionID, questionID, flagged); err != nil {
		return nil, err
	}
	return &dto.ToggleFlagResponse{QuestionID: questionID, Flagged: flagged}, nil
}

// Complete is the terminal transition. Read-compute-write runs in one
// transaction; a second call fails with InvalidStateError and changes nothing.
func (s *sessionService) Complete(sessionID uint) (*dto.CompleteSessionResponse, error) {
	var resp *dto.CompleteSessionResponse

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var session model.PracticeSession
		if err := tx.First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("session", sessionID)
			}
			return err
		}
		if session.Completed() {
			return apperr.InvalidState("session already completed")
		}

		var answers []model.SessionAnswer
		if err := tx.Where("session_id = ?", sessionID).Find(&answers).Error; err != nil {
			return err
		}

		total := session.TotalQuestions
		correctCount := 0
		for _, a := range answers {
			if a.IsCorrect {
				correctCount++
			}
		}
		score := 0
		if total > 0 {
			score = int(math.Round(float64(correctCount) / float64(total) * 100))
		}

		seconds, err := s.sessionRepo.ElapsedSeconds(tx, sessionID)
		if err != nil {
			return err
		}
		if seconds < 0 {
			seconds = 0
		}

		now := time.Now().UTC()
		if err := tx.Model(&session).Updates(map[string]interface{}{
			"completed_at":  now,
			"score":         score,
			"correct_count": correctCount,
		}).Error; err != nil {
			return err
		}

		breakdown := make([]dto.BreakdownEntry, 0, len(answers))
		for _, a := range answers {
			var question model.Question
			text := ""
			if err := tx.Select("text").First(&question, a.QuestionID).Error; err == nil {
				text = truncateText(question.Text, 100)
			}
			breakdown = append(breakdown, dto.BreakdownEntry{
				QuestionID:   a.QuestionID,
				QuestionText: text,
				IsCorrect:    a.IsCorrect,
				Flagged:      a.Flagged,
			})
		}

		resp = &dto.CompleteSessionResponse{
			Score:            score,
			Total:            total,
			CorrectCount:     correctCount,
			TimeTakenSeconds: seconds,
			TimeTakenMinutes: seconds / 60,
			Breakdown:        breakdown,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("sessionID", sessionID).Int("score", resp.Score).
		Int("correct", resp.CorrectCount).Int("total", resp.Total).
		Msg("Practice session completed")
	return resp, nil
}

func (s *sessionService) ListActive() ([]dto.ActiveSessionDTO, error) {
	rows, err := s.sessionRepo.ListActive()
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActiveSessionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ActiveSessionDTO{
			SessionDTO:    sessionRowToDTO(&rows[i].PracticeSession, rows[i].TestName, rows[i].DurationMinutes),
			AnsweredCount: rows[i].AnsweredCount,
		})
	}
	return out, nil
}

func (s *sessionService) History(limit, offset int) (*dto.SessionHistoryResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	rows, total, err := s.sessionRepo.History(limit, offset)
	if err != nil {
		return nil, err
	}
	sessions := make([]dto.HistorySessionDTO, 0, len(rows))
	for i := range rows {
		sessions = append(sessions, dto.HistorySessionDTO{
			SessionDTO:        sessionRowToDTO(&rows[i].PracticeSession, rows[i].TestName, rows[i].DurationMinutes),
			QuestionsAnswered: rows[i].QuestionsAnswered,
			FlaggedCount:      rows[i].FlaggedCount,
		})
	}
	return &dto.SessionHistoryResponse{
		Sessions: sessions,
		Pagination: dto.Pagination{
			Limit:  limit,
			Offset: offset,
			Total:  total,
		},
	}, nil
}

func sessionToDTO(session *model.PracticeSession) dto.SessionDTO {
	out := sessionRowToDTO(session, "", 0)
	if session.Test != nil {
		out.TestName = session.Test.Name
		out.DurationMinutes = session.Test.DurationMinutes
	}
	return out
}

func sessionRowToDTO(session *model.PracticeSession, testName string, duration int) dto.SessionDTO {
	return dto.SessionDTO{
		ID:              session.ID,
		TestID:          session.TestID,
		TestName:        testName,
		Mode:            session.Mode,
		StartedAt:       session.StartedAt,
		CompletedAt:     session.CompletedAt,
		Score:           session.Score,
		TotalQuestions:  session.TotalQuestions,
		CorrectCount:    session.CorrectCount,
		DurationMinutes: duration,
	}
}
