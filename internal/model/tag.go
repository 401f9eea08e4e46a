package model

import "time"

// Tag is a free-form topical label (typically an AWS service name), many-to-many
// with Question through question_tags.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	Color     string    `json:"color" gorm:"default:'#232F3E'"`
	CreatedAt time.Time `json:"created_at"`
}

// QuestionTag is the question_tags junction row. Declared explicitly so cascade
// deletes and bulk import can address the table directly.
type QuestionTag struct {
	QuestionID uint `json:"question_id" gorm:"primaryKey"`
	TagID      uint `json:"tag_id" gorm:"primaryKey"`
}

func (QuestionTag) TableName() string { return "question_tags" }
