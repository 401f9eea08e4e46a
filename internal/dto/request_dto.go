package dto

// AnswerInput is one answer option on question create/update. Order of the
// input slice becomes the stored order_index sequence.
type AnswerInput struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type CreateQuestionRequest struct {
	Text             string        `json:"text" binding:"required"`
	Explanation      string        `json:"explanation"`
	IsMultipleChoice bool          `json:"is_multiple_choice"`
	CategoryID       *uint         `json:"category_id"`
	Answers          []AnswerInput `json:"answers" binding:"required,min=2,dive"`
	Tags             []string      `json:"tags"`
}

type UpdateQuestionRequest struct {
	Text             string        `json:"text" binding:"required"`
	Explanation      string        `json:"explanation"`
	IsMultipleChoice bool          `json:"is_multiple_choice"`
	CategoryID       *uint         `json:"category_id"`
	Answers          []AnswerInput `json:"answers"`
	Tags             *[]string     `json:"tags"` // nil = leave tags untouched, empty = clear
}

type BulkQuestionIDsRequest struct {
	QuestionIDs []uint `json:"question_ids" binding:"required,min=1"`
}

// CategoryWeight is one entry of a weighted selection: categories draw
// questions proportionally to Weight.
type CategoryWeight struct {
	CategoryID uint `json:"category_id" binding:"required"`
	Weight     int  `json:"weight" binding:"required,gt=0"`
}

// SelectionRequest drives the question selector. Mode is one of
// random|weighted|new|wrong|flagged; anything else is rejected.
type SelectionRequest struct {
	Count         int              `json:"count"`
	SelectionMode string           `json:"selection_mode"`
	CategoryIDs   []uint           `json:"category_ids"`
	TagIDs        []uint           `json:"tag_ids"`
	ExcludeIDs    []uint           `json:"exclude_ids"`
	Weights       []CategoryWeight `json:"weights"`
}

type CreateTestRequest struct {
	Name            string `json:"name" binding:"required"`
	DurationMinutes int    `json:"duration_minutes"`
	QuestionIDs     []uint `json:"question_ids" binding:"required,min=1"`
}

type UpdateTestRequest struct {
	Name            string `json:"name" binding:"required"`
	DurationMinutes int    `json:"duration_minutes"`
	QuestionIDs     []uint `json:"question_ids" binding:"required,min=1"`
}

type CreateTestWithSelectionRequest struct {
	Name            string `json:"name" binding:"required"`
	DurationMinutes int    `json:"duration_minutes"`
	SelectionRequest
}

type GenerateTestRequest struct {
	Name       string `json:"name"`
	CategoryID *uint  `json:"category_id"`
	TagIDs     []uint `json:"tag_ids"`
	Count      int    `json:"count"`
}

type StartSessionRequest struct {
	TestID uint   `json:"test_id" binding:"required"`
	Mode   string `json:"mode" binding:"required"`
}

// SubmitAnswerRequest carries one submission. SelectedAnswers is a pointer so
// an explicit empty selection (valid, graded wrong) is distinguishable from a
// missing field.
type SubmitAnswerRequest struct {
	QuestionID      uint    `json:"question_id" binding:"required"`
	SelectedAnswers *[]uint `json:"selected_answers" binding:"required"`
}

type ToggleFlagRequest struct {
	QuestionID uint  `json:"question_id" binding:"required"`
	Flagged    *bool `json:"flagged" binding:"required"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	QuestionID *uint         `json:"question_id"`
	Message    string        `json:"message" binding:"required"`
	History    []ChatMessage `json:"history"`
}

type UpdateLLMConfigRequest struct {
	Provider     string  `json:"provider" binding:"required"`
	Model        string  `json:"model" binding:"required"`
	APIKey       string  `json:"api_key"`
	SystemPrompt string  `json:"system_prompt"`
	MaxTokens    int     `json:"max_tokens"`
	Temperature  float64 `json:"temperature"`
}
