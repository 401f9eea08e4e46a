package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/anhlelha/aws-exam-practice/config"
	"github.com/anhlelha/aws-exam-practice/internal/apperr"
	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"github.com/anhlelha/aws-exam-practice/internal/repository"
	"github.com/rs/zerolog/log"
)

// maxUploadTags caps tags attached per question during PDF ingestion. The
// extraction prompt already asks for a handful, this is the hard limit.
const maxUploadTags = 5

// UploadService ingests exam PDFs: text extraction through poppler, question
// extraction through the LLM, persistence with answers and tags.
type UploadService interface {
	ProcessPDF(ctx context.Context, filename string, data []byte) (*dto.UploadResponse, error)
	JobStatus(jobID string) (*dto.UploadJobDTO, error)
}

type uploadService struct {
	questionRepo repository.QuestionRepository
	tagRepo      repository.TagRepository
	llm          LLMService
	diagrams     DiagramService
	cfg          *config.Config

	mu   sync.Mutex
	jobs map[string]*dto.UploadJobDTO
}

func NewUploadService(
	questionRepo repository.QuestionRepository,
	tagRepo repository.TagRepository,
	llm LLMService,
	diagrams DiagramService,
	cfg *config.Config,
) UploadService {
	return &uploadService{
		questionRepo: questionRepo,
		tagRepo:      tagRepo,
		llm:          llm,
		diagrams:     diagrams,
		cfg:          cfg,
		jobs:         make(map[string]*dto.UploadJobDTO),
	}
}

// ProcessPDF stores the upload, extracts its text and turns every extracted
// question into a persisted row. Questions that fail to persist are skipped,
// not fatal. Diagram generation for the new questions runs in the background.
// The run is tracked as a job so clients can poll its outcome later.
func (s *uploadService) ProcessPDF(ctx context.Context, filename string, data []byte) (*dto.UploadResponse, error) {
	if len(data) == 0 {
		return nil, apperr.Validation("uploaded file is empty")
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, apperr.Validation("uploaded file is not a PDF")
	}

	jobID := fmt.Sprintf("upload-%d", time.Now().UnixNano())
	s.trackJob(&dto.UploadJobDTO{
		JobID:     jobID,
		Filename:  filename,
		Status:    "processing",
		StartedAt: time.Now().UTC(),
	})

	resp, err := s.processPDF(ctx, filename, data)
	if err != nil {
		s.finishJob(jobID, nil, err)
		return nil, err
	}
	resp.JobID = jobID
	s.finishJob(jobID, resp, nil)
	return resp, nil
}

func (s *uploadService) processPDF(ctx context.Context, filename string, data []byte) (*dto.UploadResponse, error) {
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return nil, err
	}
	stored := filepath.Join(s.cfg.UploadDir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(filename)))
	if err := os.WriteFile(stored, data, 0o644); err != nil {
		return nil, err
	}

	pages := pdfPageCount(ctx, stored)
	text, err := pdfToText(ctx, stored)
	if err != nil {
		return nil, apperr.Upstream("pdftotext", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("no extractable text in PDF")
	}

	extracted := s.llm.ExtractQuestions(ctx, text)
	log.Info().Str("file", filename).Int("pages", pages).Int("extracted", len(extracted)).
		Msg("PDF processed")

	ids := make([]uint, 0, len(extracted))
	for _, eq := range extracted {
		id, err := s.persistExtracted(filename, eq)
		if err != nil {
			log.Warn().Err(err).Str("file", filename).Msg("Skipping unpersistable question")
			continue
		}
		ids = append(ids, id)
	}

	go s.generateDiagrams(ids)

	return &dto.UploadResponse{
		Filename:           filename,
		Pages:              pages,
		QuestionsExtracted: len(ids),
		QuestionIDs:        ids,
	}, nil
}

// JobStatus reports the state of a tracked ingestion run. Jobs live only for
// the process lifetime.
func (s *uploadService) JobStatus(jobID string) (*dto.UploadJobDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, apperr.NotFound("upload job", jobID)
	}
	out := *job
	return &out, nil
}

func (s *uploadService) trackJob(job *dto.UploadJobDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.JobID] = job
}

func (s *uploadService) finishJob(jobID string, result *dto.UploadResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return
	}
	now := time.Now().UTC()
	job.FinishedAt = &now
	if err != nil {
		job.Status = "failed"
		job.Error = err.Error()
		return
	}
	job.Status = "completed"
	job.Result = result
}

func (s *uploadService) persistExtracted(sourceFile string, eq ExtractedQuestion) (uint, error) {
	if eq.Text == "" || len(eq.Answers) < 2 {
		return 0, fmt.Errorf("question needs text and at least 2 answers")
	}
	hasCorrect := false
	answers := make([]model.Answer, 0, len(eq.Answers))
	for i, a := range eq.Answers {
		if a.IsCorrect {
			hasCorrect = true
		}
		answers = append(answers, model.Answer{Text: a.Text, IsCorrect: a.IsCorrect, OrderIndex: i})
	}
	if !hasCorrect {
		return 0, fmt.Errorf("question has no correct answer")
	}

	question := &model.Question{
		Text:             eq.Text,
		Explanation:      eq.Explanation,
		IsMultipleChoice: eq.IsMultipleChoice,
		SourceFile:       sourceFile,
		Answers:          answers,
	}
	if err := s.questionRepo.Create(question); err != nil {
		return 0, err
	}

	tags := eq.Tags
	if len(tags) > maxUploadTags {
		tags = tags[:maxUploadTags]
	}
	if len(tags) > 0 {
		if _, err := s.tagRepo.EnsureAndLink(question.ID, tags); err != nil {
			log.Warn().Err(err).Uint("questionID", question.ID).Msg("Failed to link extracted tags")
		}
	}
	return question.ID, nil
}

// generateDiagrams runs detached from the request with its own deadline.
func (s *uploadService) generateDiagrams(ids []uint) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	for _, id := range ids {
		s.diagrams.GenerateIfMissing(ctx, id)
	}
}

// pdfToText shells out to poppler's pdftotext with layout preserved.
func pdfToText(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext", "-layout", path, "-")
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext: %w: %s", err, stderr.String())
	}
	return out.String(), nil
}

// pdfPageCount reads the page count from pdfinfo; 0 when unavailable.
func pdfPageCount(ctx context.Context, path string) int {
	out, err := exec.CommandContext(ctx, "pdfinfo", path).Output()
	if err != nil {
		return 0
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "Pages:") {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
			if err == nil {
				return n
			}
		}
	}
	return 0
}
