package model

import "time"

type Question struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	Text             string    `json:"text" gorm:"type:text;not null"`
	Explanation      string    `json:"explanation,omitempty" gorm:"type:text"`
	IsMultipleChoice bool      `json:"is_multiple_choice" gorm:"default:false"`
	CategoryID       *uint     `json:"category_id,omitempty" gorm:"index"`
	Category         *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	DiagramPath      *string   `json:"diagram_path,omitempty"`
	SourceFile       string    `json:"source_file,omitempty"`
	Answers          []Answer  `json:"answers,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	Tags             []Tag     `json:"tags,omitempty" gorm:"many2many:question_tags"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
