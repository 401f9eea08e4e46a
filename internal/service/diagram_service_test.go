package service

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/anhlelha/aws-exam-practice/config"
	"github.com/anhlelha/aws-exam-practice/internal/apperr"
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"github.com/anhlelha/aws-exam-practice/internal/repository"
	"gorm.io/gorm"
)

func newDiagramSvc(t *testing.T, db *gorm.DB) DiagramService {
	t.Helper()
	cfg := &config.Config{DiagramDir: t.TempDir()}
	return NewDiagramService(repository.NewQuestionRepository(db), &stubLLM{}, cfg)
}

func TestSaveUploadedDiagram(t *testing.T) {
	db := newTestDB(t)
	q := seedQuestion(t, db, 4, 1)
	svc := newDiagramSvc(t, db).(*diagramService)

	resp, err := svc.SaveUploaded(q.ID, "architecture.drawio", []byte("<mxfile/>"))
	if err != nil {
		t.Fatalf("SaveUploaded: %v", err)
	}
	want := fmt.Sprintf("/diagrams/question_%d.drawio", q.ID)
	if resp.DiagramPath != want {
		t.Fatalf("diagram path = %q, want %q", resp.DiagramPath, want)
	}

	stored := filepath.Join(svc.cfg.DiagramDir, filepath.Base(resp.DiagramPath))
	data, err := os.ReadFile(stored)
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "<mxfile/>" {
		t.Fatalf("stored content = %q", data)
	}

	var reloaded model.Question
	if err := db.First(&reloaded, q.ID).Error; err != nil {
		t.Fatalf("reload question: %v", err)
	}
	if reloaded.DiagramPath == nil || *reloaded.DiagramPath != want {
		t.Fatalf("diagram_path not persisted, got %v", reloaded.DiagramPath)
	}
}

func TestSaveUploadedDiagramRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	q := seedQuestion(t, db, 4, 1)
	svc := newDiagramSvc(t, db)

	if _, err := svc.SaveUploaded(q.ID+100, "a.drawio", []byte("x")); !apperr.IsNotFound(err) {
		t.Fatalf("unknown question: got %v, want not-found", err)
	}
	if _, err := svc.SaveUploaded(q.ID, "a.drawio", nil); !apperr.IsValidation(err) {
		t.Fatalf("empty upload: got %v, want validation", err)
	}
	if _, err := svc.SaveUploaded(q.ID, "malware.exe", []byte("x")); !apperr.IsValidation(err) {
		t.Fatalf("bad extension: got %v, want validation", err)
	}
}
