package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anhlelha/aws-exam-practice/internal/apperr"
	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"github.com/anhlelha/aws-exam-practice/internal/repository"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// ExtractedAnswer is one answer option parsed out of an LLM extraction
// response.
type ExtractedAnswer struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// ExtractedQuestion is one question parsed out of an LLM extraction response.
type ExtractedQuestion struct {
	Text             string            `json:"text"`
	Answers          []ExtractedAnswer `json:"answers"`
	Explanation      string            `json:"explanation"`
	Tags             []string          `json:"tags"`
	IsMultipleChoice bool              `json:"is_multiple_choice"`
}

// LLMService is the completion backend for every enrichment feature. Calls are
// keyed by a role whose model, system prompt and generation parameters live in
// the llm_configs table.
type LLMService interface {
	Complete(ctx context.Context, role, systemPrompt, userPrompt string) (string, error)
	ExtractQuestions(ctx context.Context, rawText string) []ExtractedQuestion
	TagQuestion(ctx context.Context, question *model.Question) ([]string, error)
	ClassifyQuestion(ctx context.Context, question *model.Question, categories []model.Category) (*uint, error)
	Chat(ctx context.Context, questionContext, message string, history []dto.ChatMessage) (string, error)
	Status(role string) dto.ChatStatusResponse
}

type llmService struct {
	configRepo repository.LLMConfigRepository
}

func NewLLMService(configRepo repository.LLMConfigRepository) LLMService {
	return &llmService{configRepo: configRepo}
}

// Complete runs one completion for the given role. The stored system prompt
// wins over the caller's default when present.
func (s *llmService) Complete(ctx context.Context, role, systemPrompt, userPrompt string) (string, error) {
	cfg, err := s.configRepo.FindByRole(role)
	if err != nil || cfg.APIKey == "" {
		return "", apperr.Upstream("llm", fmt.Errorf("%s not configured", role))
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return "", apperr.Upstream("llm", fmt.Errorf("failed to initialize client: %w", err))
	}
	defer client.Close()

	finalSystemPrompt := systemPrompt
	if cfg.SystemPrompt != "" {
		finalSystemPrompt = cfg.SystemPrompt
	}

	gm := client.GenerativeModel(cfg.Model)
	gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(finalSystemPrompt)}}
	gm.SetTemperature(float32(cfg.Temperature))
	if cfg.MaxTokens > 0 {
		gm.SetMaxOutputTokens(int32(cfg.MaxTokens))
	}

	resp, err := gm.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", apperr.Upstream("llm", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", apperr.Upstream("llm", fmt.Errorf("%s returned no candidates", role))
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

const extractSystemPrompt = `You are an AWS certification exam expert. Extract questions and answers from the provided text.

For each question, return a JSON array with this structure:
[
  {
    "text": "The full question text",
    "answers": [
      { "text": "Answer A text", "is_correct": false },
      { "text": "Answer B text", "is_correct": true }
    ],
    "explanation": "Why the correct answer is correct",
    "tags": ["EC2", "Auto-Scaling", "High-Availability"],
    "is_multiple_choice": false
  }
]

Return ONLY valid JSON, no markdown or explanation.`

// pdfTextLimit caps the prompt size sent to the extraction role.
const pdfTextLimit = 50000

// ExtractQuestions is best-effort: any provider or parse failure yields an
// empty slice, never an error.
func (s *llmService) ExtractQuestions(ctx context.Context, rawText string) []ExtractedQuestion {
	if len(rawText) > pdfTextLimit {
		rawText = rawText[:pdfTextLimit]
	}
	userPrompt := "Extract all exam questions from this text:\n\n" + rawText

	response, err := s.Complete(ctx, model.LLMRoleExtractor, extractSystemPrompt, userPrompt)
	if err != nil {
		log.Error().Err(err).Msg("LLM extraction failed")
		return nil
	}

	payload := extractJSONArray(response)
	if payload == "" {
		payload = response
	}
	var questions []ExtractedQuestion
	if err := json.Unmarshal([]byte(payload), &questions); err != nil {
		log.Error().Err(err).Msg("Failed to parse LLM extraction response")
		return nil
	}
	return questions
}

const tagSystemPrompt = `You are an AWS certification expert. Identify AWS services and topics mentioned in exam questions.

Return a JSON array of AWS service/topic names. Examples:
- "S3", "EC2", "Lambda", "VPC", "IAM", "RDS", "DynamoDB"
- "Auto Scaling", "CloudFront", "Route 53", "ELB"
- "SQS", "SNS", "Kinesis", "API Gateway"
- "KMS", "Secrets Manager", "WAF", "Shield"

Return ONLY a valid JSON array, no explanation. Example: ["S3", "CloudFront", "IAM"]`

func (s *llmService) TagQuestion(ctx context.Context, question *model.Question) ([]string, error) {
	var sb strings.Builder
	sb.WriteString("Question: " + question.Text + "\n")
	if texts := answerTexts(question); len(texts) > 0 {
		sb.WriteString("Answers: " + strings.Join(texts, ", ") + "\n")
	}
	sb.WriteString("\nExtract the AWS services/topics mentioned:")

	response, err := s.Complete(ctx, model.LLMRoleExtractor, tagSystemPrompt, sb.String())
	if err != nil {
		return nil, err
	}

	payload := extractJSONArray(response)
	if payload == "" {
		return nil, nil
	}
	var raw []string
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, nil
	}
	tags := raw[:0]
	for _, t := range raw {
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func (s *llmService) ClassifyQuestion(ctx context.Context, question *model.Question, categories []model.Category) (*uint, error) {
	var list strings.Builder
	for _, c := range categories {
		fmt.Fprintf(&list, "%d: %s\n", c.ID, c.Name)
	}

	systemPrompt := fmt.Sprintf(`You are an AWS Solutions Architect exam expert. Classify exam questions into the correct domain.

Available domains:
%s
Return ONLY the domain ID number that best matches the question. No explanation.

Domain Classification Guide:
- Security: IAM, encryption, access control, compliance, VPC security, KMS, Secrets Manager, WAF, Shield
- Resilient: High availability, fault tolerance, disaster recovery, backups, multi-AZ, Route 53, Auto Scaling
- High-Performing: Caching, scaling, performance optimization, low latency, CloudFront, ElastiCache, read replicas
- Cost-Optimized: Reserved instances, spot instances, right-sizing, storage tiers, Savings Plans, lifecycle policies`, list.String())

	var sb strings.Builder
	sb.WriteString("Question: " + question.Text + "\n\n")
	if names := tagNames(question); len(names) > 0 {
		sb.WriteString("Tags: " + strings.Join(names, ", ") + "\n\n")
	}
	sb.WriteString("Return only the domain ID number:")

	response, err := s.Complete(ctx, model.LLMRoleExtractor, systemPrompt, sb.String())
	if err != nil {
		return nil, err
	}

	id, ok := firstNumber(response)
	if !ok {
		return nil, nil
	}
	for _, c := range categories {
		if c.ID == id {
			return &c.ID, nil
		}
	}
	return nil, nil
}

const mentorSystemPrompt = `You are a friendly AWS certification tutor helping a student understand exam questions.
Be encouraging, explain concepts clearly, and provide real-world examples.`

func (s *llmService) Chat(ctx context.Context, questionContext, message string, history []dto.ChatMessage) (string, error) {
	var sb strings.Builder
	for _, m := range history {
		fmt.Fprintf(&sb, "%s: %s\n", m.Role, m.Content)
	}
	fmt.Fprintf(&sb, "Current exam question:\n%s\n\nStudent's message: %s", questionContext, message)
	return s.Complete(ctx, model.LLMRoleMentor, mentorSystemPrompt, sb.String())
}

func (s *llmService) Status(role string) dto.ChatStatusResponse {
	cfg, err := s.configRepo.FindByRole(role)
	if err != nil {
		return dto.ChatStatusResponse{}
	}
	return dto.ChatStatusResponse{
		Configured: cfg.APIKey != "",
		Provider:   cfg.Provider,
		Model:      cfg.Model,
	}
}

// extractJSONArray pulls the outermost JSON array out of an LLM response that
// may be wrapped in prose or markdown fences.
func extractJSONArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}

// firstNumber finds the first unsigned integer in the response.
func firstNumber(s string) (uint, bool) {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start == -1 {
				start = i
			}
		} else if start != -1 {
			break
		}
	}
	if start == -1 {
		return 0, false
	}
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	var n uint
	for _, c := range s[start:end] {
		n = n*10 + uint(c-'0')
	}
	return n, true
}

func answerTexts(question *model.Question) []string {
	texts := make([]string, 0, len(question.Answers))
	for _, a := range question.Answers {
		texts = append(texts, a.Text)
	}
	return texts
}

func tagNames(question *model.Question) []string {
	names := make([]string, 0, len(question.Tags))
	for _, t := range question.Tags {
		names = append(names, t.Name)
	}
	return names
}
