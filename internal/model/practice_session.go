package model

import "time"

const (
	SessionModeTimed    = "timed"
	SessionModeNonTimed = "non-timed"
)

// PracticeSession is one run of a Test. A session is active while CompletedAt is
// null; once completed it is terminal and its answers may no longer change.
type PracticeSession struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	TestID         uint       `json:"test_id" gorm:"not null;index"`
	Test           *Test      `json:"test,omitempty" gorm:"foreignKey:TestID"`
	Mode           string     `json:"mode" gorm:"not null"` // "timed" | "non-timed"
	StartedAt      time.Time  `json:"started_at" gorm:"autoCreateTime"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	Score          *int       `json:"score,omitempty"`
	TotalQuestions int        `json:"total_questions" gorm:"default:0"`
	CorrectCount   int        `json:"correct_count" gorm:"default:0"`
}

func (p *PracticeSession) Completed() bool { return p.CompletedAt != nil }

func (PracticeSession) TableName() string { return "practice_sessions" }

// SessionQuestion snapshots one entry of a test's ordered question list at the
// moment a session starts. Test edits after that moment never reach the session.
type SessionQuestion struct {
	SessionID  uint `json:"session_id" gorm:"primaryKey"`
	QuestionID uint `json:"question_id" gorm:"primaryKey"`
	OrderIndex int  `json:"order_index" gorm:"default:0"`
}

func (SessionQuestion) TableName() string { return "session_questions" }
