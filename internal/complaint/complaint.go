package complaint

import (
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
	StatusRejected   = "rejected"
)

// Complaint is an issue a worker raises for admins to handle.
type Complaint struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	UserID     int64      `json:"user_id" gorm:"column:user_id;not null"`
	Subject    string     `json:"subject" gorm:"not null"`
	Content    string     `json:"content" gorm:"not null"`
	Status     string     `json:"status" gorm:"not null;default:pending"`
	Response   string     `json:"response"`
	ResolvedBy *int64     `json:"resolved_by,omitempty" gorm:"column:resolved_by"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty" gorm:"column:resolved_at"`
	CreatedAt  time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Complaint) TableName() string {
	return "complaints"
}

// ComplaintView joins the complainant's identity for admin listings.
type ComplaintView struct {
	ID         int64      `json:"id"`
	Subject    string     `json:"subject"`
	Content    string     `json:"content"`
	Status     string     `json:"status"`
	Response   string     `json:"response"`
	WorkerID   int64      `json:"worker_id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Email      string     `json:"email"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

func terminal(status string) bool {
	return status == StatusResolved || status == StatusRejected
}

var (
	ErrNotFound      = internal.NewNotFoundError("complaint not found", internal.ErrCodeComplaintNotFound)
	ErrInvalidStatus = internal.NewValidationError("invalid complaint status", internal.ErrCodeInvalidStatus)
)
