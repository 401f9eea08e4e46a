package service

import (
	"time"

	"github.com/anhlelha/aws-exam-practice/internal/apperr"
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DataExport is the full-database backup payload. Table order matters on
// import: parents before children. Certifications and llm_configs are
// export-only context; Import never touches them, so restoring a backup
// cannot wipe stored API keys (exports carry none).
type DataExport struct {
	Version        int                     `json:"version"`
	ExportedAt     time.Time               `json:"exported_at"`
	Certifications []model.Certification   `json:"certifications"`
	Categories     []model.Category        `json:"categories"`
	Tags           []model.Tag             `json:"tags"`
	Questions      []model.Question        `json:"questions"`
	Answers        []model.Answer          `json:"answers"`
	QuestionTags   []model.QuestionTag     `json:"question_tags"`
	Tests          []model.Test            `json:"tests"`
	TestQuestions  []model.TestQuestion    `json:"test_questions"`
	Sessions       []model.PracticeSession `json:"sessions"`
	SessionItems   []model.SessionQuestion `json:"session_questions"`
	SessionAnswers []model.SessionAnswer   `json:"session_answers"`
	LLMConfigs     []model.LLMConfig       `json:"llm_configs"`
}

const exportVersion = 1

// DataService backs up and restores the whole store as one JSON document.
type DataService interface {
	Export() (*DataExport, error)
	Import(data *DataExport) error
}

type dataService struct {
	db *gorm.DB
}

func NewDataService(db *gorm.DB) DataService {
	return &dataService{db: db}
}

func (s *dataService) Export() (*DataExport, error) {
	out := &DataExport{Version: exportVersion, ExportedAt: time.Now().UTC()}
	steps := []error{
		s.db.Find(&out.Certifications).Error,
		s.db.Find(&out.Categories).Error,
		s.db.Find(&out.Tags).Error,
		s.db.Find(&out.Questions).Error,
		s.db.Find(&out.Answers).Error,
		s.db.Find(&out.QuestionTags).Error,
		s.db.Find(&out.Tests).Error,
		s.db.Find(&out.TestQuestions).Error,
		s.db.Find(&out.Sessions).Error,
		s.db.Find(&out.SessionItems).Error,
		s.db.Find(&out.SessionAnswers).Error,
		s.db.Find(&out.LLMConfigs).Error,
	}
	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}
	// API keys never leave the store.
	for i := range out.LLMConfigs {
		out.LLMConfigs[i].APIKey = ""
	}
	return out, nil
}

// Import replaces the question/tag/test/session tables with the backup's
// contents in a single transaction: either all of them are restored or none.
// Certifications and LLM configs stay as they are, keys included.
func (s *dataService) Import(data *DataExport) error {
	if data == nil {
		return apperr.Validation("import payload is empty")
	}
	if data.Version != exportVersion {
		return apperr.Validation("unsupported export version %d", data.Version)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Children before parents on delete, parents before children on insert.
		clearOrder := []interface{}{
			&model.SessionAnswer{}, &model.SessionQuestion{}, &model.PracticeSession{},
			&model.TestQuestion{}, &model.Test{},
			&model.QuestionTag{}, &model.Answer{}, &model.Question{},
			&model.Tag{}, &model.Category{},
		}
		for _, table := range clearOrder {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
				return err
			}
		}

		inserts := []struct {
			rows interface{}
			len  int
		}{
			{&data.Categories, len(data.Categories)},
			{&data.Tags, len(data.Tags)},
			{&data.Questions, len(data.Questions)},
			{&data.Answers, len(data.Answers)},
			{&data.QuestionTags, len(data.QuestionTags)},
			{&data.Tests, len(data.Tests)},
			{&data.TestQuestions, len(data.TestQuestions)},
			{&data.Sessions, len(data.Sessions)},
			{&data.SessionItems, len(data.SessionItems)},
			{&data.SessionAnswers, len(data.SessionAnswers)},
		}
		for _, ins := range inserts {
			if ins.len == 0 {
				continue
			}
			if err := tx.CreateInBatches(ins.rows, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info().Int("questions", len(data.Questions)).Int("sessions", len(data.Sessions)).
		Msg("Data import completed")
	return nil
}
