package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/frahmantamala/recruitment-management/internal/job"
	"gorm.io/gorm"
)

// JobRepository implements the job.Repository interface using GORM
type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) job.Repository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(j *job.Job) error {
	return r.db.Create(j).Error
}

func (r *JobRepository) GetByID(id int64) (*job.Job, error) {
	var j job.Job
	err := r.db.Where("id = ?", id).First(&j).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, job.ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

func (r *JobRepository) List() ([]*job.Job, error) {
	var jobs []*job.Job
	err := r.db.Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *JobRepository) ListByStatus(status string) ([]*job.Job, error) {
	var jobs []*job.Job
	err := r.db.Where("status = ?", status).Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *JobRepository) Update(j *job.Job) error {
	return r.db.Model(&job.Job{}).
		Where("id = ?", j.ID).
		Updates(map[string]interface{}{
			"title":        j.Title,
			"description":  j.Description,
			"requirements": j.Requirements,
			"location":     j.Location,
			"salary":       j.Salary,
			"status":       j.Status,
			"updated_at":   time.Now(),
		}).Error
}

func (r *JobRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM job_applications WHERE job_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Delete(&job.Job{}, id).Error
	})
}

func (r *JobRepository) CreateApplication(a *job.Application) error {
	err := r.db.Create(a).Error
	if err != nil && isUniqueViolation(err) {
		return job.ErrDuplicateApplication
	}
	return err
}

func (r *JobRepository) GetApplication(id int64) (*job.Application, error) {
	var a job.Application
	err := r.db.Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, job.ErrApplicationNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *JobRepository) HasApplied(jobID, userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&job.Application{}).
		Where("job_id = ? AND user_id = ?", jobID, userID).
		Count(&count).Error
	return count > 0, err
}

const applicationViewQuery = `
SELECT
	a.id           AS id,
	j.id           AS job_id,
	j.title        AS job_title,
	u.id           AS worker_id,
	u.first_name   AS first_name,
	u.last_name    AS last_name,
	u.email        AS email,
	a.status       AS status,
	a.cover_letter AS cover_letter,
	a.applied_at   AS applied_at,
	a.reviewed_at  AS reviewed_at
FROM job_applications a
JOIN jobs j ON j.id = a.job_id
JOIN users u ON u.id = a.user_id`

func (r *JobRepository) ListApplicationsForJob(jobID int64) ([]job.ApplicationView, error) {
	var views []job.ApplicationView
	err := r.db.Raw(applicationViewQuery+` WHERE a.job_id = ? ORDER BY a.applied_at ASC`, jobID).
		Scan(&views).Error
	return views, err
}

func (r *JobRepository) ListApplicationsForWorker(userID int64) ([]job.ApplicationView, error) {
	var views []job.ApplicationView
	err := r.db.Raw(applicationViewQuery+` WHERE a.user_id = ? ORDER BY a.applied_at DESC`, userID).
		Scan(&views).Error
	return views, err
}

func (r *JobRepository) UpdateApplication(a *job.Application) error {
	return r.db.Model(&job.Application{}).
		Where("id = ?", a.ID).
		Updates(map[string]interface{}{
			"status":      a.Status,
			"reviewed_by": a.ReviewedBy,
			"reviewed_at": a.ReviewedAt,
		}).Error
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
