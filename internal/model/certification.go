package model

import "time"

// Certification is an exam credential (e.g. "AWS Solutions Architect - Associate").
// It owns a set of Categories used for classification and weighted selection.
type Certification struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	Code       string     `json:"code" gorm:"uniqueIndex;not null"` // "SAA-C03"
	Name       string     `json:"name" gorm:"not null"`
	Level      string     `json:"level" gorm:"not null"` // "Associate", "Professional"
	Categories []Category `json:"categories,omitempty" gorm:"foreignKey:CertificationID"`
	CreatedAt  time.Time  `json:"created_at"`
}
