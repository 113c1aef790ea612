package messaging

import (
	"strings"

	"github.com/frahmantamala/recruitment-management/internal"
)

type SendMessageDTO struct {
	ReceiverID int64  `json:"receiver_id"`
	Content    string `json:"content"`
}

func (d *SendMessageDTO) Validate() error {
	if d.ReceiverID <= 0 {
		return internal.NewValidationError("receiver_id is required", internal.ErrCodeMissingField)
	}
	if strings.TrimSpace(d.Content) == "" {
		return internal.NewValidationError("content is required", internal.ErrCodeMissingField)
	}
	return nil
}
