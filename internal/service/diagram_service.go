package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anhlelha/aws-exam-practice/config"
	"github.com/anhlelha/aws-exam-practice/internal/apperr"
	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"github.com/anhlelha/aws-exam-practice/internal/repository"
	"github.com/rs/zerolog/log"
)

// DiagramService renders architecture diagrams for questions as draw.io XML
// files served from the diagrams directory.
type DiagramService interface {
	Generate(ctx context.Context, questionID uint) (*dto.DiagramResponse, error)
	GenerateIfMissing(ctx context.Context, questionID uint)
	SaveUploaded(questionID uint, filename string, data []byte) (*dto.DiagramResponse, error)
}

type diagramService struct {
	questionRepo repository.QuestionRepository
	llm          LLMService
	cfg          *config.Config
}

func NewDiagramService(questionRepo repository.QuestionRepository, llm LLMService, cfg *config.Config) DiagramService {
	return &diagramService{questionRepo: questionRepo, llm: llm, cfg: cfg}
}

const diagramSystemPrompt = `You are an AWS architecture expert. Generate a draw.io (mxGraph) XML diagram illustrating the AWS architecture described in an exam question.

Rules:
- Return ONLY the <mxGraphModel>...</mxGraphModel> XML, nothing else.
- Use simple labeled rectangles for AWS services and arrows for data flow.
- Keep the diagram small: at most 10 nodes.
- Every mxCell must have a unique id; cells 0 and 1 are the root cells.`

// Generate asks the diagram role for mxGraph XML, wraps it in an mxfile
// envelope and stores it under the diagrams directory. The question row is
// updated with the served path.
func (s *diagramService) Generate(ctx context.Context, questionID uint) (*dto.DiagramResponse, error) {
	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		return nil, apperr.NotFound("question", questionID)
	}

	var sb strings.Builder
	sb.WriteString("Question: " + question.Text + "\n")
	if names := tagNames(question); len(names) > 0 {
		sb.WriteString("Services involved: " + strings.Join(names, ", ") + "\n")
	}
	sb.WriteString("\nGenerate the draw.io XML diagram:")

	response, err := s.llm.Complete(ctx, model.LLMRoleDiagram, diagramSystemPrompt, sb.String())
	if err != nil {
		return nil, err
	}

	graph := extractGraphModel(response)
	if graph == "" {
		return nil, apperr.Upstream("llm", fmt.Errorf("diagram response contained no mxGraphModel"))
	}

	filename := fmt.Sprintf("question_%d.drawio", questionID)
	fullPath := filepath.Join(s.cfg.DiagramDir, filename)
	if err := os.MkdirAll(s.cfg.DiagramDir, 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(fullPath, []byte(wrapMxfile(graph)), 0o644); err != nil {
		return nil, err
	}

	servedPath := "/diagrams/" + filename
	if err := s.questionRepo.UpdateDiagramPath(questionID, servedPath); err != nil {
		return nil, err
	}
	log.Info().Uint("questionID", questionID).Str("path", servedPath).Msg("Diagram generated")
	return &dto.DiagramResponse{DiagramPath: servedPath}, nil
}

// GenerateIfMissing is the fire-and-forget path used after PDF ingestion.
// Failures are logged, never propagated.
func (s *diagramService) GenerateIfMissing(ctx context.Context, questionID uint) {
	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		return
	}
	if question.DiagramPath != nil && *question.DiagramPath != "" {
		return
	}
	if _, err := s.Generate(ctx, questionID); err != nil {
		log.Warn().Err(err).Uint("questionID", questionID).Msg("Background diagram generation failed")
	}
}

// SaveUploaded stores a hand-made diagram for a question and points
// diagram_path at it. Extension is taken from the uploaded filename.
func (s *diagramService) SaveUploaded(questionID uint, filename string, data []byte) (*dto.DiagramResponse, error) {
	if _, err := s.questionRepo.FindByID(questionID); err != nil {
		return nil, apperr.NotFound("question", questionID)
	}
	if len(data) == 0 {
		return nil, apperr.Validation("uploaded diagram is empty")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".drawio", ".png", ".jpg", ".jpeg", ".svg":
	default:
		return nil, apperr.Validation("unsupported diagram format %q", ext)
	}

	if err := os.MkdirAll(s.cfg.DiagramDir, 0o755); err != nil {
		return nil, err
	}
	stored := fmt.Sprintf("question_%d%s", questionID, ext)
	if err := os.WriteFile(filepath.Join(s.cfg.DiagramDir, stored), data, 0o644); err != nil {
		return nil, err
	}

	servedPath := "/diagrams/" + stored
	if err := s.questionRepo.UpdateDiagramPath(questionID, servedPath); err != nil {
		return nil, err
	}
	return &dto.DiagramResponse{DiagramPath: servedPath}, nil
}

// extractGraphModel pulls the mxGraphModel element out of a response that may
// be wrapped in prose or markdown fences.
func extractGraphModel(s string) string {
	start := strings.Index(s, "<mxGraphModel")
	end := strings.LastIndex(s, "</mxGraphModel>")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+len("</mxGraphModel>")]
}

func wrapMxfile(graph string) string {
	return fmt.Sprintf(`<mxfile host="app" modified="%s" type="device">
  <diagram name="Architecture">
    %s
  </diagram>
</mxfile>
`, time.Now().UTC().Format(time.RFC3339), graph)
}
