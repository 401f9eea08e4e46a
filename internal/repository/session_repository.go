package repository

import (
	"time"

	"github.com/anhlelha/aws-exam-practice/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActiveSessionRow is one in-flight session with its test metadata.
type ActiveSessionRow struct {
	model.PracticeSession
	TestName        string `json:"test_name"`
	DurationMinutes int    `json:"duration_minutes"`
	AnsweredCount   int    `json:"answered_count"`
}

// HistorySessionRow is one completed session summary.
type HistorySessionRow struct {
	model.PracticeSession
	TestName          string `json:"test_name"`
	DurationMinutes   int    `json:"duration_minutes"`
	QuestionsAnswered int    `json:"questions_answered"`
	FlaggedCount      int    `json:"flagged_count"`
}

type SessionRepository interface {
	CreateWithSnapshot(session *model.PracticeSession, questionIDs []uint) error
	FindByID(id uint) (*model.PracticeSession, error)
	SnapshotQuestionIDs(sessionID uint) ([]uint, error)
	FindAnswers(sessionID uint) ([]model.SessionAnswer, error)
	UpsertAnswer(answer *model.SessionAnswer) error
	UpsertFlag(sessionID, questionID uint, flagged bool) error
	ListActive() ([]ActiveSessionRow, error)
	History(limit, offset int) ([]HistorySessionRow, int64, error)
	ElapsedSeconds(tx *gorm.DB, sessionID uint) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// CreateWithSnapshot stores the session and its point-in-time question list in
// one transaction.
func (r *sessionRepository) CreateWithSnapshot(session *model.PracticeSession, questionIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		rows := make([]model.SessionQuestion, 0, len(questionIDs))
		for i, qid := range questionIDs {
			rows = append(rows, model.SessionQuestion{SessionID: session.ID, QuestionID: qid, OrderIndex: i})
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *sessionRepository) FindByID(id uint) (*model.PracticeSession, error) {
	var session model.PracticeSession
	if err := r.db.Preload("Test").First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) SnapshotQuestionIDs(sessionID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.SessionQuestion{}).
		Where("session_id = ?", sessionID).
		Order("order_index ASC").
		Pluck("question_id", &ids).Error
	return ids, err
}

func (r *sessionRepository) FindAnswers(sessionID uint) ([]model.SessionAnswer, error) {
	var answers []model.SessionAnswer
	err := r.db.Where("session_id = ?", sessionID).Find(&answers).Error
	return answers, err
}

// UpsertAnswer is a single atomic insert-or-update on the (session, question)
// natural key; never a read-then-branch, so concurrent submissions cannot
// produce duplicate rows.
func (r *sessionRepository) UpsertAnswer(answer *model.SessionAnswer) error {
	answer.AnsweredAt = time.Now().UTC()
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"selected_answer_ids", "is_correct", "answered_at",
		}),
	}).Create(answer).Error
}

// UpsertFlag touches only the flag: a fresh row keeps the "never answered"
// defaults, an existing row keeps its recorded selection and correctness.
func (r *sessionRepository) UpsertFlag(sessionID, questionID uint, flagged bool) error {
	row := model.SessionAnswer{
		SessionID:         sessionID,
		QuestionID:        questionID,
		SelectedAnswerIDs: model.IDList{},
		Flagged:           flagged,
		AnsweredAt:        time.Now().UTC(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"flagged"}),
	}).Create(&row).Error
}

func (r *sessionRepository) ListActive() ([]ActiveSessionRow, error) {
	var rows []ActiveSessionRow
	err := r.db.Raw(`
		SELECT ps.*, t.name AS test_name, t.duration_minutes,
			(SELECT COUNT(*) FROM session_answers WHERE session_id = ps.id) AS answered_count
		FROM practice_sessions ps
		JOIN tests t ON ps.test_id = t.id
		WHERE ps.completed_at IS NULL
		ORDER BY ps.started_at DESC`).Scan(&rows).Error
	return rows, err
}

func (r *sessionRepository) History(limit, offset int) ([]HistorySessionRow, int64, error) {
	var rows []HistorySessionRow
	err := r.db.Raw(`
		SELECT ps.*, t.name AS test_name, t.duration_minutes,
			COUNT(sa.id) AS questions_answered,
			COALESCE(SUM(CASE WHEN sa.flagged THEN 1 ELSE 0 END), 0) AS flagged_count
		FROM practice_sessions ps
		JOIN tests t ON ps.test_id = t.id
		LEFT JOIN session_answers sa ON ps.id = sa.session_id
		WHERE ps.completed_at IS NOT NULL
		GROUP BY ps.id
		ORDER BY ps.completed_at DESC
		LIMIT ? OFFSET ?`, limit, offset).Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	var total int64
	err = r.db.Model(&model.PracticeSession{}).
		Where("completed_at IS NOT NULL").
		Count(&total).Error
	return rows, total, err
}

// ElapsedSeconds computes (now - started_at) on the store's own clock, which
// sidesteps client/server timezone skew. Clamping to >= 0 is the caller's job.
func (r *sessionRepository) ElapsedSeconds(tx *gorm.DB, sessionID uint) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var seconds int64
	err := tx.Raw(`
		SELECT CAST((julianday('now') - julianday(started_at)) * 86400 AS INTEGER)
		FROM practice_sessions WHERE id = ?`, sessionID).Scan(&seconds).Error
	return seconds, err
}
