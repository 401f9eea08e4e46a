package model

import "time"

type Test struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	Name            string    `json:"name" gorm:"not null"`
	DurationMinutes int       `json:"duration_minutes" gorm:"default:65"`
	IsConfirmed     bool      `json:"is_confirmed" gorm:"default:false"`
	CreatedAt       time.Time `json:"created_at"`
}

// TestQuestion binds a Question into a Test at a given position. Order indices
// are 0-based and dense in input order.
type TestQuestion struct {
	TestID     uint `json:"test_id" gorm:"primaryKey"`
	QuestionID uint `json:"question_id" gorm:"primaryKey"`
	OrderIndex int  `json:"order_index" gorm:"default:0"`
}

func (TestQuestion) TableName() string { return "test_questions" }
