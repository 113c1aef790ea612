package messaging

import (
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
)

// Message is a direct message between two users. Read tracks whether the
// receiver has opened the thread since it arrived.
type Message struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	SenderID   int64     `json:"sender_id" gorm:"column:sender_id;not null"`
	ReceiverID int64     `json:"receiver_id" gorm:"column:receiver_id;not null"`
	Content    string    `json:"content" gorm:"not null"`
	Read       bool      `json:"read" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (Message) TableName() string {
	return "messages"
}

// Conversation summarizes one correspondent: the latest message exchanged
// with them and how many of their messages remain unread.
type Conversation struct {
	UserID        int64     `json:"user_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Role          string    `json:"role"`
	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int       `json:"unread_count"`
}

var ErrReceiverNotFound = internal.NewNotFoundError("receiver not found", internal.ErrCodeUserNotFound)
