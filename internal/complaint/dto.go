package complaint

import (
	"strings"

	"github.com/frahmantamala/recruitment-management/internal"
)

type CreateComplaintDTO struct {
	Subject string `json:"subject"`
	Content string `json:"content"`
}

func (d *CreateComplaintDTO) Validate() error {
	if strings.TrimSpace(d.Subject) == "" {
		return internal.NewValidationError("subject is required", internal.ErrCodeMissingField)
	}
	if strings.TrimSpace(d.Content) == "" {
		return internal.NewValidationError("content is required", internal.ErrCodeMissingField)
	}
	return nil
}

type UpdateComplaintDTO struct {
	Status   string `json:"status"`
	Response string `json:"response"`
}

func (d *UpdateComplaintDTO) Validate() error {
	if !ValidStatus(d.Status) {
		return ErrInvalidStatus
	}
	return nil
}
