package repository

import (
	"github.com/anhlelha/aws-exam-practice/internal/model"
	"gorm.io/gorm"
)

// TestWithCount pairs a test with its current membership size.
type TestWithCount struct {
	model.Test
	QuestionCount int `json:"question_count"`
}

type TestRepository interface {
	CreateWithQuestions(test *model.Test, questionIDs []uint) error
	FindByID(id uint) (*model.Test, error)
	FindAllWithQuestionCount() ([]TestWithCount, error)
	FindQuestions(testID uint) ([]model.Question, error)
	FindQuestionIDs(testID uint) ([]uint, error)
	ReplaceQuestions(test *model.Test, questionIDs []uint) error
	Delete(id uint) error
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

// CreateWithQuestions persists the test and its 0-based ordered membership in
// one transaction.
func (r *testRepository) CreateWithQuestions(test *model.Test, questionIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(test).Error; err != nil {
			return err
		}
		return insertMembership(tx, test.ID, questionIDs)
	})
}

func insertMembership(tx *gorm.DB, testID uint, questionIDs []uint) error {
	if len(questionIDs) == 0 {
		return nil
	}
	rows := make([]model.TestQuestion, 0, len(questionIDs))
	for i, qid := range questionIDs {
		rows = append(rows, model.TestQuestion{TestID: testID, QuestionID: qid, OrderIndex: i})
	}
	return tx.Create(&rows).Error
}

func (r *testRepository) FindByID(id uint) (*model.Test, error) {
	var test model.Test
	if err := r.db.First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *testRepository) FindAllWithQuestionCount() ([]TestWithCount, error) {
	var results []TestWithCount
	err := r.db.Model(&model.Test{}).
		Select("tests.*, (SELECT COUNT(*) FROM test_questions WHERE test_id = tests.id) AS question_count").
		Order("tests.created_at DESC").
		Scan(&results).Error
	return results, err
}

// FindQuestions hydrates the test's questions with answers, in membership order.
func (r *testRepository) FindQuestions(testID uint) ([]model.Question, error) {
	ids, err := r.FindQuestionIDs(testID)
	if err != nil {
		return nil, err
	}
	var loaded []model.Question
	if len(ids) > 0 {
		err = r.db.
			Preload("Answers", orderAnswers).
			Preload("Category").
			Where("id IN ?", ids).
			Find(&loaded).Error
		if err != nil {
			return nil, err
		}
	}
	byID := make(map[uint]model.Question, len(loaded))
	for _, q := range loaded {
		byID[q.ID] = q
	}
	// Membership order wins; dangling ids are skipped (lazy validation).
	questions := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

func (r *testRepository) FindQuestionIDs(testID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.TestQuestion{}).
		Where("test_id = ?", testID).
		Order("order_index ASC").
		Pluck("question_id", &ids).Error
	return ids, err
}

// ReplaceQuestions is a full membership replace: delete-then-reinsert, not a
// diff. Runs in one transaction together with the test row update.
func (r *testRepository) ReplaceQuestions(test *model.Test, questionIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(test).Error; err != nil {
			return err
		}
		if err := tx.Where("test_id = ?", test.ID).Delete(&model.TestQuestion{}).Error; err != nil {
			return err
		}
		return insertMembership(tx, test.ID, questionIDs)
	})
}

func (r *testRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", id).Delete(&model.TestQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Test{}, id).Error
	})
}
