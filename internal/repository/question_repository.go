package repository

import (
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"gorm.io/gorm"
)

// QuestionFilter narrows List/Count queries. Zero values mean "no filter".
type QuestionFilter struct {
	CategoryID   *uint
	Unclassified bool
	TagName      string
	Search       string
}

// QuestionStatsRow aggregates session_answers for one question.
type QuestionStatsRow struct {
	TotalAttempts int
	CorrectCount  int
	SuccessRate   float64
	FlaggedCount  int
}

type QuestionRepository interface {
	Create(question *model.Question) error
	FindByID(id uint) (*model.Question, error)
	FindByIDs(ids []uint) ([]model.Question, error)
	List(filter QuestionFilter, limit, offset int) ([]model.Question, error)
	Count(filter QuestionFilter) (int64, error)
	Update(question *model.Question) error
	ReplaceAnswers(questionID uint, answers []model.Answer) error
	UpdateCategory(id uint, categoryID *uint) error
	UpdateDiagramPath(id uint, path string) error
	DeleteCascade(id uint) error
	Stats(id uint) (*QuestionStatsRow, error)

	// Selection pool queries used by the selector service.
	SelectRandom(count int, categoryIDs, tagIDs, excludeIDs []uint) ([]model.Question, error)
	SelectRandomInCategory(categoryID uint, count int) ([]model.Question, error)
	SelectNew(count int) ([]model.Question, error)
	SelectWrong(count int) ([]model.Question, error)
	SelectFlagged(count int) ([]model.Question, error)
	CountPool(categoryIDs, tagIDs []uint) (int64, error)
	CountByCategory() ([]CategoryCount, error)
	CountNew() (int64, error)
	CountWrong() (int64, error)
	CountFlagged() (int64, error)
}

type CategoryCount struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.db.
		Preload("Answers", orderAnswers).
		Preload("Tags").
		Preload("Category").
		First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByIDs(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	if len(ids) == 0 {
		return questions, nil
	}
	err := r.db.
		Preload("Answers", orderAnswers).
		Where("id IN ?", ids).
		Find(&questions).Error
	return questions, err
}

func orderAnswers(db *gorm.DB) *gorm.DB {
	return db.Order("answers.order_index ASC")
}

func (r *questionRepository) applyFilter(q *gorm.DB, filter QuestionFilter) *gorm.DB {
	if filter.CategoryID != nil {
		q = q.Where("questions.category_id = ?", *filter.CategoryID)
	}
	if filter.Unclassified {
		q = q.Where("questions.category_id IS NULL")
	}
	if filter.TagName != "" {
		q = q.Where(`questions.id IN (
			SELECT qt.question_id FROM question_tags qt
			JOIN tags t ON qt.tag_id = t.id
			WHERE t.name LIKE ?)`, "%"+filter.TagName+"%")
	}
	if filter.Search != "" {
		q = q.Where("questions.text LIKE ?", "%"+filter.Search+"%")
	}
	return q
}

func (r *questionRepository) List(filter QuestionFilter, limit, offset int) ([]model.Question, error) {
	var questions []model.Question
	q := r.applyFilter(r.db.Model(&model.Question{}), filter)
	err := q.
		Preload("Answers", orderAnswers).
		Preload("Tags").
		Preload("Category").
		Order("questions.id DESC").
		Limit(limit).Offset(offset).
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) Count(filter QuestionFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.Model(&model.Question{}), filter).Count(&count).Error
	return count, err
}

func (r *questionRepository) Update(question *model.Question) error {
	return r.db.Save(question).Error
}

// ReplaceAnswers swaps the question's full answer list: delete-then-reinsert
// in one transaction, indices taken from slice order.
func (r *questionRepository) ReplaceAnswers(questionID uint, answers []model.Answer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		if len(answers) == 0 {
			return nil
		}
		for i := range answers {
			answers[i].ID = 0
			answers[i].QuestionID = questionID
		}
		return tx.Create(&answers).Error
	})
}

func (r *questionRepository) UpdateCategory(id uint, categoryID *uint) error {
	return r.db.Model(&model.Question{}).Where("id = ?", id).
		Update("category_id", categoryID).Error
}

func (r *questionRepository) UpdateDiagramPath(id uint, path string) error {
	return r.db.Model(&model.Question{}).Where("id = ?", id).
		Update("diagram_path", path).Error
}

// DeleteCascade removes the question together with its answers, tag links,
// session answers, session snapshot rows and test memberships, atomically.
func (r *questionRepository) DeleteCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&model.QuestionTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&model.SessionAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&model.SessionQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&model.TestQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, id).Error
	})
}

func (r *questionRepository) Stats(id uint) (*QuestionStatsRow, error) {
	var row QuestionStatsRow
	err := r.db.Raw(`
		SELECT
			COUNT(*) AS total_attempts,
			COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0) AS correct_count,
			COALESCE(ROUND(AVG(CASE WHEN is_correct THEN 100.0 ELSE 0 END), 1), 0) AS success_rate,
			COALESCE(SUM(CASE WHEN flagged THEN 1 ELSE 0 END), 0) AS flagged_count
		FROM session_answers
		WHERE question_id = ?`, id).Scan(&row).Error
	return &row, err
}

func (r *questionRepository) selectionBase(categoryIDs, tagIDs, excludeIDs []uint) *gorm.DB {
	q := r.db.Model(&model.Question{})
	if len(categoryIDs) > 0 {
		q = q.Where("questions.category_id IN ?", categoryIDs)
	}
	if len(tagIDs) > 0 {
		q = q.Where(`questions.id IN (
			SELECT DISTINCT qt.question_id FROM question_tags qt WHERE qt.tag_id IN ?)`, tagIDs)
	}
	if len(excludeIDs) > 0 {
		q = q.Where("questions.id NOT IN ?", excludeIDs)
	}
	return q
}

func (r *questionRepository) SelectRandom(count int, categoryIDs, tagIDs, excludeIDs []uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.selectionBase(categoryIDs, tagIDs, excludeIDs).
		Preload("Category").
		Order("RANDOM()").
		Limit(count).
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) SelectRandomInCategory(categoryID uint, count int) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Model(&model.Question{}).
		Preload("Category").
		Where("questions.category_id = ?", categoryID).
		Order("RANDOM()").
		Limit(count).
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) SelectNew(count int) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Model(&model.Question{}).
		Preload("Category").
		Where("questions.id NOT IN (SELECT DISTINCT question_id FROM session_answers)").
		Order("RANDOM()").
		Limit(count).
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) SelectWrong(count int) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Raw(`
		SELECT q.* FROM questions q
		JOIN session_answers sa ON q.id = sa.question_id AND sa.is_correct = 0
		GROUP BY q.id
		ORDER BY COUNT(sa.id) DESC, RANDOM()
		LIMIT ?`, count).Scan(&questions).Error
	return questions, err
}

func (r *questionRepository) SelectFlagged(count int) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Raw(`
		SELECT q.* FROM questions q
		JOIN session_answers sa ON q.id = sa.question_id AND sa.flagged = 1
		GROUP BY q.id
		ORDER BY RANDOM()
		LIMIT ?`, count).Scan(&questions).Error
	return questions, err
}

func (r *questionRepository) CountPool(categoryIDs, tagIDs []uint) (int64, error) {
	var count int64
	err := r.selectionBase(categoryIDs, tagIDs, nil).Count(&count).Error
	return count, err
}

func (r *questionRepository) CountByCategory() ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.db.Raw(`
		SELECT c.id, c.name, COUNT(q.id) AS count
		FROM categories c
		LEFT JOIN questions q ON q.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name`).Scan(&rows).Error
	return rows, err
}

func (r *questionRepository) CountNew() (int64, error) {
	var count int64
	err := r.db.Model(&model.Question{}).
		Where("id NOT IN (SELECT DISTINCT question_id FROM session_answers)").
		Count(&count).Error
	return count, err
}

func (r *questionRepository) CountWrong() (int64, error) {
	var count int64
	err := r.db.Raw(`SELECT COUNT(DISTINCT question_id) FROM session_answers WHERE is_correct = 0`).
		Scan(&count).Error
	return count, err
}

func (r *questionRepository) CountFlagged() (int64, error) {
	var count int64
	err := r.db.Raw(`SELECT COUNT(DISTINCT question_id) FROM session_answers WHERE flagged = 1`).
		Scan(&count).Error
	return count, err
}
