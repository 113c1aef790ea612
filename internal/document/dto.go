package document

import (
	"strings"

	"github.com/frahmantamala/recruitment-management/internal"
)

type VerifyDocumentDTO struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (d *VerifyDocumentDTO) Validate() error {
	if !ValidVerdict(d.Status) {
		return ErrInvalidVerdict
	}
	return nil
}

type UploadMeta struct {
	Title       string
	FileName    string
	ContentType string
}

func (m *UploadMeta) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return internal.NewValidationError("title is required", internal.ErrCodeMissingField)
	}
	if strings.TrimSpace(m.FileName) == "" {
		return internal.NewValidationError("file is required", internal.ErrCodeMissingField)
	}
	return nil
}
