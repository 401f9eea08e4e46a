package model

import "time"

// Category is an exam domain within a Certification. Names are unique per
// certification.
type Category struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	CertificationID uint      `json:"certification_id" gorm:"not null;uniqueIndex:idx_cert_category_name"`
	Name            string    `json:"name" gorm:"not null;uniqueIndex:idx_cert_category_name"`
	Description     string    `json:"description,omitempty"`
	Color           string    `json:"color" gorm:"default:'#FF9900'"`
	CreatedAt       time.Time `json:"created_at"`
}
