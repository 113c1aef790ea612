package auth

import (
	"net/mail"

	"github.com/frahmantamala/recruitment-management/internal"
)

type RegisterDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

func (d RegisterDTO) Validate() error {
	if d.FirstName == "" || d.LastName == "" {
		return internal.NewValidationError("first and last name are required", internal.ErrCodeMissingField)
	}
	if d.Email == "" {
		return internal.NewValidationError("email is required", internal.ErrCodeMissingField)
	}
	if _, err := mail.ParseAddress(d.Email); err != nil {
		return internal.NewValidationError("email is not valid", internal.ErrCodeValidationFailed)
	}
	if len(d.Password) < 8 {
		return internal.NewValidationError("password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	// admins are seeded, never self-registered
	if d.Role != "worker" && d.Role != "responsable" {
		return internal.NewValidationError("role must be worker or responsable", internal.ErrCodeInvalidRole)
	}
	return nil
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return internal.NewValidationError("email is required", internal.ErrCodeMissingField)
	}
	if d.Password == "" {
		return internal.NewValidationError("password is required", internal.ErrCodeMissingField)
	}
	return nil
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return internal.NewValidationError("refresh_token is required", internal.ErrCodeMissingField)
	}
	return nil
}
