package dto

import (
	"time"

	"github.com/anhlelha/aws-exam-practice/internal/repository"
)

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

type AnswerDTO struct {
	ID         uint   `json:"id"`
	QuestionID uint   `json:"question_id"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct"`
	OrderIndex int    `json:"order_index"`
}

type QuestionDTO struct {
	ID               uint        `json:"id"`
	Text             string      `json:"text"`
	Explanation      string      `json:"explanation,omitempty"`
	IsMultipleChoice bool        `json:"is_multiple_choice"`
	CategoryID       *uint       `json:"category_id,omitempty"`
	CategoryName     string      `json:"category_name,omitempty"`
	CategoryColor    string      `json:"category_color,omitempty"`
	DiagramPath      *string     `json:"diagram_path,omitempty"`
	SourceFile       string      `json:"source_file,omitempty"`
	Answers          []AnswerDTO `json:"answers,omitempty"`
	Tags             []string    `json:"tags"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

type Pagination struct {
	Page   int   `json:"page,omitempty"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset,omitempty"`
	Total  int64 `json:"total"`
	Pages  int   `json:"pages,omitempty"`
}

type QuestionListResponse struct {
	Questions  []QuestionDTO `json:"questions"`
	Pagination Pagination    `json:"pagination"`
}

type QuestionStatsDTO struct {
	QuestionID    uint    `json:"question_id"`
	QuestionText  string  `json:"question_text"`
	TotalAttempts int     `json:"total_attempts"`
	CorrectCount  int     `json:"correct_count"`
	SuccessRate   float64 `json:"success_rate"`
	FlaggedCount  int     `json:"flagged_count"`
}

// EnrichmentResult is one item of a bulk auto-tag / auto-classify run. Items
// fail independently; Success marks whether this one went through.
type EnrichmentResult struct {
	QuestionID   uint     `json:"question_id"`
	Tags         []string `json:"tags,omitempty"`
	CategoryID   *uint    `json:"category_id,omitempty"`
	CategoryName string   `json:"category_name,omitempty"`
	Error        string   `json:"error,omitempty"`
	Success      bool     `json:"success"`
}

type TestSummaryDTO struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"`
	IsConfirmed     bool      `json:"is_confirmed"`
	QuestionCount   int       `json:"question_count"`
	CreatedAt       time.Time `json:"created_at"`
}

type TestDetailDTO struct {
	ID              uint          `json:"id"`
	Name            string        `json:"name"`
	DurationMinutes int           `json:"duration_minutes"`
	IsConfirmed     bool          `json:"is_confirmed"`
	Questions       []QuestionDTO `json:"questions"`
	CreatedAt       time.Time     `json:"created_at"`
}

type CreateTestResponse struct {
	TestID        uint   `json:"test_id"`
	Name          string `json:"name"`
	QuestionCount int    `json:"question_count"`
}

type QuestionPreviewDTO struct {
	ID           uint   `json:"id"`
	Text         string `json:"text"`
	CategoryName string `json:"category_name,omitempty"`
}

type SelectionPreviewResponse struct {
	Count     int                  `json:"count"`
	Questions []QuestionPreviewDTO `json:"questions"`
}

type PoolStatsDTO struct {
	Total            int64                      `json:"total"`
	ByCategory       []repository.CategoryCount `json:"by_category"`
	NewQuestions     int64                      `json:"new_questions"`
	WrongQuestions   int64                      `json:"wrong_questions"`
	FlaggedQuestions int64                      `json:"flagged_questions"`
}

type TagDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type CategoryDTO struct {
	ID                uint      `json:"id"`
	CertificationID   uint      `json:"certification_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	Color             string    `json:"color"`
	CertificationCode string    `json:"certification_code,omitempty"`
	CertificationName string    `json:"certification_name,omitempty"`
	QuestionCount     *int64    `json:"question_count,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type CategoryStatsOverview struct {
	Categories        []repository.CategoryCount `json:"categories"`
	UnclassifiedCount int64                      `json:"unclassified_count"`
	TotalQuestions    int64                      `json:"total_questions"`
}

type LLMConfigDTO struct {
	ID           uint      `json:"id"`
	Role         string    `json:"role"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	APIKey       *string   `json:"api_key"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	MaxTokens    int       `json:"max_tokens"`
	Temperature  float64   `json:"temperature"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ChatResponse struct {
	Response   string `json:"response"`
	QuestionID *uint  `json:"question_id"`
}

type ChatStatusResponse struct {
	Configured bool   `json:"configured"`
	Provider   string `json:"provider,omitempty"`
	Model      string `json:"model,omitempty"`
}

type UploadResponse struct {
	JobID              string `json:"job_id"`
	Filename           string `json:"filename"`
	Pages              int    `json:"pages"`
	QuestionsExtracted int    `json:"questions_extracted"`
	QuestionIDs        []uint `json:"question_ids"`
}

// UploadJobDTO is the polled state of one ingestion run.
type UploadJobDTO struct {
	JobID      string          `json:"job_id"`
	Filename   string          `json:"filename"`
	Status     string          `json:"status"` // processing | completed | failed
	Error      string          `json:"error,omitempty"`
	Result     *UploadResponse `json:"result,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

type DiagramResponse struct {
	DiagramPath string `json:"diagram_path"`
}
