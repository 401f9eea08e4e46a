package service

import (
	"context"
	"testing"

	"github.com/anhlelha/aws-exam-practice/config"
	"github.com/anhlelha/aws-exam-practice/internal/apperr"
	"github.com/anhlelha/aws-exam-practice/internal/repository"
	"gorm.io/gorm"
)

func newUploadSvc(t *testing.T, db *gorm.DB) UploadService {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{UploadDir: dir, DiagramDir: dir}
	questionRepo := repository.NewQuestionRepository(db)
	diagrams := NewDiagramService(questionRepo, &stubLLM{}, cfg)
	return NewUploadService(questionRepo, repository.NewTagRepository(db), &stubLLM{}, diagrams, cfg)
}

func TestProcessPDFRejectsNonPDF(t *testing.T) {
	db := newTestDB(t)
	svc := newUploadSvc(t, db)

	if _, err := svc.ProcessPDF(context.Background(), "empty.pdf", nil); !apperr.IsValidation(err) {
		t.Fatalf("empty upload: got %v, want validation", err)
	}
	if _, err := svc.ProcessPDF(context.Background(), "notes.pdf", []byte("plain text")); !apperr.IsValidation(err) {
		t.Fatalf("non-PDF upload: got %v, want validation", err)
	}
}

func TestJobStatusUnknownJob(t *testing.T) {
	db := newTestDB(t)
	svc := newUploadSvc(t, db)

	if _, err := svc.JobStatus("upload-0"); !apperr.IsNotFound(err) {
		t.Fatalf("unknown job: got %v, want not-found", err)
	}
}
