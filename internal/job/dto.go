package job

import (
	"strings"

	"github.com/frahmantamala/recruitment-management/internal"
)

type CreateJobDTO struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Location     string `json:"location"`
	Salary       string `json:"salary"`
}

func (d *CreateJobDTO) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return internal.NewValidationError("title is required", internal.ErrCodeMissingField)
	}
	return nil
}

// UpdateJobDTO applies a partial update; empty fields keep their value.
type UpdateJobDTO struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Location     string `json:"location"`
	Salary       string `json:"salary"`
	Status       string `json:"status"`
}

func (d *UpdateJobDTO) Validate() error {
	if d.Status != "" && d.Status != StatusOpen && d.Status != StatusClosed {
		return internal.NewValidationError("status must be open or closed", internal.ErrCodeInvalidStatus)
	}
	return nil
}

type ApplyDTO struct {
	CoverLetter string `json:"cover_letter"`
}

type ReviewApplicationDTO struct {
	Status string `json:"status"`
}

func (d *ReviewApplicationDTO) Validate() error {
	if d.Status != ApplicationAccepted && d.Status != ApplicationRejected {
		return internal.NewValidationError("status must be accepted or rejected", internal.ErrCodeInvalidStatus)
	}
	return nil
}
