package document

import (
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Document is a file a worker uploads for verification. The stored name is
// the opaque name the file store assigned, never the client's filename.
type Document struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	UserID      int64      `json:"user_id" gorm:"column:user_id;not null"`
	Title       string     `json:"title" gorm:"not null"`
	FileName    string     `json:"file_name" gorm:"column:file_name;not null"`
	StoredName  string     `json:"-" gorm:"column:stored_name;not null"`
	ContentType string     `json:"content_type" gorm:"column:content_type"`
	SizeBytes   int64      `json:"size_bytes" gorm:"column:size_bytes"`
	Status      string     `json:"status" gorm:"not null;default:pending"`
	Note        string     `json:"note"`
	VerifiedBy  *int64     `json:"verified_by,omitempty" gorm:"column:verified_by"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty" gorm:"column:verified_at"`
	UploadedAt  time.Time  `json:"uploaded_at" gorm:"column:uploaded_at;default:now()"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Document) TableName() string {
	return "documents"
}

// DocumentView adds worker identity for responsable verification queues.
type DocumentView struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	FileName   string     `json:"file_name"`
	Status     string     `json:"status"`
	Note       string     `json:"note"`
	WorkerID   int64      `json:"worker_id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Email      string     `json:"email"`
	UploadedAt time.Time  `json:"uploaded_at"`
	VerifiedAt *time.Time `json:"verified_at"`
}

func ValidVerdict(status string) bool {
	return status == StatusApproved || status == StatusRejected
}

var (
	ErrNotFound       = internal.NewNotFoundError("document not found", internal.ErrCodeDocumentNotFound)
	ErrInvalidVerdict = internal.NewValidationError("status must be approved or rejected", internal.ErrCodeInvalidStatus)
)
