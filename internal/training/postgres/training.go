package postgres

import (
	"errors"
	"time"

	"github.com/frahmantamala/recruitment-management/internal/training"
	"gorm.io/gorm"
)

// TrainingRepository implements the training.Repository interface using GORM
type TrainingRepository struct {
	db *gorm.DB
}

func NewTrainingRepository(db *gorm.DB) training.Repository {
	return &TrainingRepository{db: db}
}

func (r *TrainingRepository) Create(t *training.Training) error {
	return r.db.Create(t).Error
}

func (r *TrainingRepository) GetByID(id int64) (*training.Training, error) {
	var t training.Training
	err := r.db.Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, training.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TrainingRepository) List() ([]*training.Training, error) {
	var trainings []*training.Training
	err := r.db.Order("created_at DESC").Find(&trainings).Error
	return trainings, err
}

func (r *TrainingRepository) ListByCreator(creatorID int64) ([]*training.Training, error) {
	var trainings []*training.Training
	err := r.db.Where("created_by = ?", creatorID).Order("created_at DESC").Find(&trainings).Error
	return trainings, err
}

func (r *TrainingRepository) UpdateAttachment(t *training.Training) error {
	return r.db.Model(&training.Training{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"file_name":    t.FileName,
			"stored_name":  t.StoredName,
			"content_type": t.ContentType,
			"updated_at":   time.Now(),
		}).Error
}

func (r *TrainingRepository) Delete(id int64) error {
	return r.db.Delete(&training.Training{}, id).Error
}

func (r *TrainingRepository) CountProgressForTraining(trainingID int64) (int64, error) {
	var count int64
	err := r.db.Model(&training.Progress{}).Where("training_id = ?", trainingID).Count(&count).Error
	return count, err
}

func (r *TrainingRepository) GetProgress(userID, trainingID int64) (*training.Progress, error) {
	var p training.Progress
	err := r.db.Where("user_id = ? AND training_id = ?", userID, trainingID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *TrainingRepository) CreateProgress(p *training.Progress) error {
	return r.db.Create(p).Error
}

func (r *TrainingRepository) UpdateProgress(p *training.Progress) error {
	return r.db.Model(&training.Progress{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"percent":      p.Percent,
			"completed":    p.Completed,
			"completed_at": p.CompletedAt,
			"updated_at":   time.Now(),
		}).Error
}

const progressViewQuery = `
SELECT
	tp.id           AS progress_id,
	t.id            AS training_id,
	t.title         AS title,
	u.id            AS worker_id,
	u.first_name    AS first_name,
	u.last_name     AS last_name,
	tp.percent      AS percent,
	tp.completed    AS completed,
	tp.started_at   AS started_at,
	tp.completed_at AS completed_at
FROM training_progress tp
JOIN trainings t ON t.id = tp.training_id
JOIN users u ON u.id = tp.user_id`

func (r *TrainingRepository) ListProgressForWorker(userID int64) ([]training.ProgressView, error) {
	var views []training.ProgressView
	err := r.db.Raw(progressViewQuery+` WHERE tp.user_id = ? ORDER BY tp.started_at DESC`, userID).
		Scan(&views).Error
	return views, err
}

func (r *TrainingRepository) ListProgressForTraining(trainingID int64) ([]training.ProgressView, error) {
	var views []training.ProgressView
	err := r.db.Raw(progressViewQuery+` WHERE tp.training_id = ? ORDER BY tp.started_at DESC`, trainingID).
		Scan(&views).Error
	return views, err
}
