package user

import (
	"github.com/frahmantamala/recruitment-management/internal"
)

// UpdateProfileDTO carries the self-service profile update. Empty fields keep
// their current value, mirroring the partial-update behavior of the API.
type UpdateProfileDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (dto UpdateProfileDTO) Validate() error {
	if dto.FirstName == "" && dto.LastName == "" && dto.Email == "" {
		return internal.NewValidationError("at least one profile field is required", internal.ErrCodeMissingField)
	}
	return nil
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateStatusDTO) Validate() error {
	if !ValidStatus(dto.Status) {
		return ErrInvalidStatus
	}
	return nil
}
