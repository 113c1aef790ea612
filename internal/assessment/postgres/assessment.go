package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/frahmantamala/recruitment-management/internal/assessment"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AssessmentRepository implements the assessment.Repository interface using GORM
type AssessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) assessment.Repository {
	return &AssessmentRepository{db: db}
}

// CreateTest inserts the test with its question and option rows in one
// transaction; GORM cascades the association inserts.
func (r *AssessmentRepository) CreateTest(t *assessment.Test) error {
	return r.db.Create(t).Error
}

func (r *AssessmentRepository) GetTest(id int64) (*assessment.Test, error) {
	var t assessment.Test
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("test_questions.position ASC")
		}).
		Preload("Questions.Options").
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, assessment.ErrTestNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *AssessmentRepository) ListTestsByCreator(creatorID int64) ([]*assessment.Test, error) {
	var tests []*assessment.Test
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("test_questions.position ASC")
		}).
		Preload("Questions.Options").
		Where("created_by = ?", creatorID).
		Order("created_at DESC").
		Find(&tests).Error
	return tests, err
}

func (r *AssessmentRepository) DeleteTest(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM test_options WHERE question_id IN (SELECT id FROM test_questions WHERE test_id = ?)`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM test_questions WHERE test_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Delete(&assessment.Test{}, id).Error
	})
}

func (r *AssessmentRepository) CountAssignmentsForTest(testID int64) (int64, error) {
	var count int64
	err := r.db.Model(&assessment.Assignment{}).Where("test_id = ?", testID).Count(&count).Error
	return count, err
}

func (r *AssessmentRepository) CreateAssignment(a *assessment.Assignment) error {
	err := r.db.Create(a).Error
	if err != nil && isUniqueViolation(err) {
		// the partial unique index on open assignments fired
		return assessment.ErrAssignmentOpen
	}
	return err
}

func (r *AssessmentRepository) GetAssignment(id int64) (*assessment.Assignment, error) {
	var a assessment.Assignment
	err := r.db.Preload("Answers").Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, assessment.ErrAssignmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AssessmentRepository) FindOpenAssignment(userID int64) (*assessment.Assignment, error) {
	var a assessment.Assignment
	err := r.db.Preload("Answers").
		Where("user_id = ? AND status <> ?", userID, assessment.StatusCompleted).
		Order("assigned_at DESC").
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AssessmentRepository) MarkStarted(id int64, at time.Time) error {
	return r.db.Model(&assessment.Assignment{}).
		Where("id = ? AND status = ?", id, assessment.StatusAssigned).
		Updates(map[string]interface{}{
			"status":     assessment.StatusStarted,
			"started_at": at,
			"updated_at": at,
		}).Error
}

// UpsertAnswer writes the worker's pick, replacing any previous pick for the
// same question via the (assignment_id, question_id) unique constraint.
func (r *AssessmentRepository) UpsertAnswer(ans *assessment.Answer) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "assignment_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"selected_option_id", "is_correct"}),
	}).Create(ans).Error
}

// CompleteAssignment is a conditional update: it only transitions rows not
// yet completed, so a concurrent double-complete resolves to one winner.
func (r *AssessmentRepository) CompleteAssignment(id int64, res assessment.Result, at time.Time) (bool, error) {
	tx := r.db.Model(&assessment.Assignment{}).
		Where("id = ? AND status <> ?", id, assessment.StatusCompleted).
		Updates(map[string]interface{}{
			"status":       assessment.StatusCompleted,
			"score":        res.Score,
			"passed":       res.Passed,
			"completed_at": at,
			"updated_at":   at,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

const resultViewQuery = `
SELECT
	ta.id            AS assignment_id,
	t.id             AS test_id,
	t.title          AS test_title,
	t.passing_score  AS passing_score,
	u.id             AS worker_id,
	u.first_name     AS first_name,
	u.last_name      AS last_name,
	u.email          AS email,
	ta.score         AS score,
	ta.passed        AS passed,
	ta.completed_at  AS completed_at
FROM test_assignments ta
JOIN tests t ON t.id = ta.test_id
JOIN users u ON u.id = ta.user_id
WHERE ta.status = 'completed'`

func (r *AssessmentRepository) ListResultsByCreator(creatorID int64) ([]assessment.ResultView, error) {
	var results []assessment.ResultView
	err := r.db.Raw(resultViewQuery+` AND t.created_by = ? ORDER BY ta.completed_at DESC`, creatorID).
		Scan(&results).Error
	return results, err
}

func (r *AssessmentRepository) ListAllResults() ([]assessment.ResultView, error) {
	var results []assessment.ResultView
	err := r.db.Raw(resultViewQuery + ` ORDER BY ta.completed_at DESC`).Scan(&results).Error
	return results, err
}

func (r *AssessmentRepository) ListResultsForWorker(workerID int64) ([]assessment.ResultView, error) {
	var results []assessment.ResultView
	err := r.db.Raw(resultViewQuery+` AND ta.user_id = ? ORDER BY ta.completed_at DESC`, workerID).
		Scan(&results).Error
	return results, err
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
