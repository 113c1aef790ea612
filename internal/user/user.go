package user

import (
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
)

const (
	RoleAdmin       = "admin"
	RoleResponsable = "responsable"
	RoleWorker      = "worker"

	StatusPending  = "pending"
	StatusActive   = "active"
	StatusRejected = "rejected"
)

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	FirstName    string    `json:"first_name" gorm:"column:first_name;not null"`
	LastName     string    `json:"last_name" gorm:"column:last_name;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         string    `json:"role" gorm:"not null"`
	Status       string    `json:"status" gorm:"not null;default:pending"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

func (u *User) IsWorker() bool {
	return u.Role == RoleWorker
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleResponsable, RoleWorker:
		return true
	}
	return false
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusActive, StatusRejected:
		return true
	}
	return false
}

// PublicProfile is the shape exposed to other users (messaging, listings).
type PublicProfile struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
	}
}

var (
	ErrNotFound       = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	ErrEmailTaken     = internal.NewConflictError("email is already in use", internal.ErrCodeEmailTaken)
	ErrProtectedAdmin = internal.NewConflictError("the default admin account cannot be modified", internal.ErrCodeProtectedAdmin)
	ErrInvalidStatus  = internal.NewValidationError("invalid status value", internal.ErrCodeInvalidStatus)
)
