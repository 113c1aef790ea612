package job

import (
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
)

const (
	StatusOpen   = "open"
	StatusClosed = "closed"

	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

// Job is a position admins publish. Workers can only apply while it is open.
type Job struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"not null"`
	Description  string    `json:"description"`
	Requirements string    `json:"requirements"`
	Location     string    `json:"location"`
	Salary       string    `json:"salary"`
	Status       string    `json:"status" gorm:"not null;default:open"`
	CreatedBy    int64     `json:"created_by" gorm:"column:created_by;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Job) TableName() string {
	return "jobs"
}

func (j *Job) IsOpen() bool {
	return j.Status == StatusOpen
}

// Application links a worker to a job, once. The unique (job_id, user_id)
// constraint backs the one-application rule.
type Application struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	JobID       int64      `json:"job_id" gorm:"column:job_id;not null;uniqueIndex:idx_job_applicant"`
	UserID      int64      `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_job_applicant"`
	Status      string     `json:"status" gorm:"not null;default:pending"`
	CoverLetter string     `json:"cover_letter" gorm:"column:cover_letter"`
	AppliedAt   time.Time  `json:"applied_at" gorm:"column:applied_at;default:now()"`
	ReviewedBy  *int64     `json:"reviewed_by,omitempty" gorm:"column:reviewed_by"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty" gorm:"column:reviewed_at"`
}

func (Application) TableName() string {
	return "job_applications"
}

// ApplicationView joins an application with job and applicant identity.
type ApplicationView struct {
	ID          int64      `json:"id"`
	JobID       int64      `json:"job_id"`
	JobTitle    string     `json:"job_title"`
	WorkerID    int64      `json:"worker_id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	Status      string     `json:"status"`
	CoverLetter string     `json:"cover_letter"`
	AppliedAt   time.Time  `json:"applied_at"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
}

var (
	ErrNotFound             = internal.NewNotFoundError("job not found", internal.ErrCodeJobNotFound)
	ErrApplicationNotFound  = internal.NewNotFoundError("application not found", internal.ErrCodeJobNotFound)
	ErrJobClosed            = internal.NewConflictError("job is no longer accepting applications", internal.ErrCodeJobClosed)
	ErrDuplicateApplication = internal.NewConflictError("you have already applied to this job", internal.ErrCodeDuplicateApplication)
)
