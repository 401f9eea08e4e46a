package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// IDList stores an ordered list of Answer ids serialized as JSON text, matching
// the selected_answer_ids column shape.
type IDList []uint

func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		l = IDList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *IDList) Scan(src interface{}) error {
	if src == nil {
		*l = IDList{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into IDList", src)
	}
	if len(data) == 0 {
		*l = IDList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// SessionAnswer records a student's submission and/or flag state for one
// question within one session. (session_id, question_id) is the natural key;
// the unique index backs the atomic upsert on resubmission.
type SessionAnswer struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	SessionID         uint      `json:"session_id" gorm:"not null;uniqueIndex:idx_session_question;constraint:OnDelete:CASCADE"`
	QuestionID        uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_session_question"`
	SelectedAnswerIDs IDList    `json:"selected_answer_ids" gorm:"type:text"`
	IsCorrect         bool      `json:"is_correct" gorm:"default:false"`
	Flagged           bool      `json:"flagged" gorm:"default:false"`
	AnsweredAt        time.Time `json:"answered_at" gorm:"autoCreateTime"`
}

func (SessionAnswer) TableName() string { return "session_answers" }
