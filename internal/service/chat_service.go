package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"github.com/anhlelha/aws-exam-practice/internal/repository"
)

// ChatService is the mentor chat: a conversation grounded in one exam
// question, answered by the mentor LLM role.
type ChatService interface {
	Ask(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error)
	Status() dto.ChatStatusResponse
}

type chatService struct {
	questionRepo repository.QuestionRepository
	llm          LLMService
}

func NewChatService(questionRepo repository.QuestionRepository, llm LLMService) ChatService {
	return &chatService{questionRepo: questionRepo, llm: llm}
}

func (s *chatService) Ask(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
	questionContext := "No specific question in context."
	if req.QuestionID != nil {
		question, err := s.questionRepo.FindByID(*req.QuestionID)
		if err == nil {
			questionContext = formatQuestionContext(question)
		}
	}
	answer, err := s.llm.Chat(ctx, questionContext, req.Message, req.History)
	if err != nil {
		return nil, err
	}
	return &dto.ChatResponse{Response: answer, QuestionID: req.QuestionID}, nil
}

func (s *chatService) Status() dto.ChatStatusResponse {
	return s.llm.Status(model.LLMRoleMentor)
}

// formatQuestionContext renders the question with lettered options and the
// correct answers marked, so the mentor can explain rather than guess.
func formatQuestionContext(q *model.Question) string {
	var sb strings.Builder
	sb.WriteString(q.Text + "\n\nOptions:\n")
	for i, a := range q.Answers {
		marker := ""
		if a.IsCorrect {
			marker = " (correct)"
		}
		fmt.Fprintf(&sb, "%c. %s%s\n", 'A'+i, a.Text, marker)
	}
	if q.Explanation != "" {
		sb.WriteString("\nExplanation: " + q.Explanation + "\n")
	}
	return sb.String()
}
