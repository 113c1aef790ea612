package training

import (
	"strings"

	"github.com/frahmantamala/recruitment-management/internal"
)

type CreateTrainingDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Duration    string `json:"duration"`
}

func (d *CreateTrainingDTO) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return internal.NewValidationError("title is required", internal.ErrCodeMissingField)
	}
	return nil
}

type UpdateProgressDTO struct {
	Percent int `json:"percent"`
}

func (d *UpdateProgressDTO) Validate() error {
	if d.Percent < 0 || d.Percent > 100 {
		return ErrInvalidPercent
	}
	return nil
}
