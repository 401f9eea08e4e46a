package model

import "time"

// LLM roles. Each role is an independently configurable completion backend.
const (
	LLMRoleExtractor = "LLM1" // question extraction, tagging, classification
	LLMRoleDiagram   = "LLM2" // architecture diagram generation
	LLMRoleMentor    = "LLM3" // study mentor chat
)

type LLMConfig struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Role         string    `json:"role" gorm:"uniqueIndex;not null"`
	Provider     string    `json:"provider" gorm:"not null"` // "gemini"
	Model        string    `json:"model" gorm:"not null"`
	APIKey       string    `json:"api_key,omitempty" gorm:"column:api_key"`
	SystemPrompt string    `json:"system_prompt,omitempty" gorm:"type:text"`
	MaxTokens    int       `json:"max_tokens" gorm:"default:4096"`
	Temperature  float64   `json:"temperature" gorm:"default:0.7"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (LLMConfig) TableName() string { return "llm_configs" }
