package dto

import (
	"time"

	"github.com/anhlelha/aws-exam-practice/internal/model"
)

type StartSessionResponse struct {
	SessionID       uint          `json:"session_id"`
	TestName        string        `json:"test_name"`
	Questions       []QuestionDTO `json:"questions"`
	DurationMinutes int           `json:"duration_minutes"`
	Mode            string        `json:"mode"`
}

// GivenAnswerDTO is the recorded state for one question within a session.
type GivenAnswerDTO struct {
	SelectedAnswerIDs []uint `json:"selected_answer_ids"`
	IsCorrect         bool   `json:"is_correct"`
	Flagged           bool   `json:"flagged"`
}

type SessionDTO struct {
	ID              uint       `json:"id"`
	TestID          uint       `json:"test_id"`
	TestName        string     `json:"test_name,omitempty"`
	Mode            string     `json:"mode"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	Score           *int       `json:"score,omitempty"`
	TotalQuestions  int        `json:"total_questions"`
	CorrectCount    int        `json:"correct_count"`
	DurationMinutes int        `json:"duration_minutes,omitempty"`
}

type SessionStateResponse struct {
	Session      SessionDTO              `json:"session"`
	Questions    []QuestionDTO           `json:"questions"`
	AnswersGiven map[uint]GivenAnswerDTO `json:"answers_given"`
}

type SubmitAnswerResponse struct {
	QuestionID uint `json:"question_id"`
	IsCorrect  bool `json:"is_correct"`
}

type ToggleFlagResponse struct {
	QuestionID uint `json:"question_id"`
	Flagged    bool `json:"flagged"`
}

// BreakdownEntry is one per submitted answer; questions never submitted do not
// appear.
type BreakdownEntry struct {
	QuestionID   uint   `json:"question_id"`
	QuestionText string `json:"question_text"`
	IsCorrect    bool   `json:"is_correct"`
	Flagged      bool   `json:"flagged"`
}

type CompleteSessionResponse struct {
	Score            int              `json:"score"`
	Total            int              `json:"total"`
	CorrectCount     int              `json:"correct_count"`
	TimeTakenSeconds int64            `json:"time_taken_seconds"`
	TimeTakenMinutes int64            `json:"time_taken_minutes"`
	Breakdown        []BreakdownEntry `json:"breakdown"`
}

type SessionHistoryResponse struct {
	Sessions   []HistorySessionDTO `json:"sessions"`
	Pagination Pagination          `json:"pagination"`
}

type HistorySessionDTO struct {
	SessionDTO
	QuestionsAnswered int `json:"questions_answered"`
	FlaggedCount      int `json:"flagged_count"`
}

type ActiveSessionDTO struct {
	SessionDTO
	AnsweredCount int `json:"answered_count"`
}

// SessionModeValid reports whether mode is one of the supported session modes.
func SessionModeValid(mode string) bool {
	return mode == model.SessionModeTimed || mode == model.SessionModeNonTimed
}
