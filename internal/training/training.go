package training

import (
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
)

// Training is a course a responsable publishes for workers to follow.
type Training struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Duration    string    `json:"duration"`
	FileName    string    `json:"file_name,omitempty" gorm:"column:file_name"`
	StoredName  string    `json:"-" gorm:"column:stored_name"`
	ContentType string    `json:"content_type,omitempty" gorm:"column:content_type"`
	CreatedBy   int64     `json:"created_by" gorm:"column:created_by;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

// HasAttachment reports whether supporting material was uploaded for the course.
func (t *Training) HasAttachment() bool {
	return t.StoredName != ""
}

func (Training) TableName() string {
	return "trainings"
}

// Progress tracks one worker through one training. Percent moves 0..100;
// crossing 100 marks completion and stamps completed_at exactly once.
type Progress struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	UserID      int64      `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_user_training"`
	TrainingID  int64      `json:"training_id" gorm:"column:training_id;not null;uniqueIndex:idx_user_training"`
	Percent     int        `json:"percent" gorm:"column:percent;not null;default:0"`
	Completed   bool       `json:"completed" gorm:"not null;default:false"`
	StartedAt   time.Time  `json:"started_at" gorm:"column:started_at;default:now()"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"column:completed_at"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Progress) TableName() string {
	return "training_progress"
}

// ProgressView joins progress with the training it belongs to for worker
// dashboards, and with worker identity for responsable listings.
type ProgressView struct {
	ProgressID  int64      `json:"progress_id"`
	TrainingID  int64      `json:"training_id"`
	Title       string     `json:"title"`
	WorkerID    int64      `json:"worker_id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Percent     int        `json:"percent"`
	Completed   bool       `json:"completed"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

var (
	ErrNotFound         = internal.NewNotFoundError("training not found", internal.ErrCodeTrainingNotFound)
	ErrProgressNotFound = internal.NewNotFoundError("training progress not found", internal.ErrCodeTrainingNotFound)
	ErrNoAttachment     = internal.NewNotFoundError("training has no attachment", internal.ErrCodeTrainingNotFound)
	ErrHasProgress      = internal.NewConflictError("training already has worker progress and cannot be deleted", internal.ErrCodeTrainingHasProgress)
	ErrInvalidPercent   = internal.NewValidationError("progress must be between 0 and 100", internal.ErrCodeInvalidProgress)
)
