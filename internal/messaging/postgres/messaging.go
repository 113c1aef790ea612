package postgres

import (
	"github.com/frahmantamala/recruitment-management/internal/messaging"
	"gorm.io/gorm"
)

// MessageRepository implements the messaging.Repository interface using GORM
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) messaging.Repository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(m *messaging.Message) error {
	return r.db.Create(m).Error
}

func (r *MessageRepository) ListThread(userID, otherID int64) ([]*messaging.Message, error) {
	var messages []*messaging.Message
	err := r.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepository) MarkThreadRead(userID, otherID int64) error {
	return r.db.Model(&messaging.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND read = ?", userID, otherID, false).
		Update("read", true).Error
}

// ListConversations groups the actor's messages by correspondent and pairs
// each with the latest message and the unread count, newest first.
func (r *MessageRepository) ListConversations(userID int64) ([]messaging.Conversation, error) {
	var conversations []messaging.Conversation
	err := r.db.Raw(`
WITH correspondents AS (
	SELECT
		CASE WHEN sender_id = @uid THEN receiver_id ELSE sender_id END AS other_id,
		MAX(id) AS last_message_id
	FROM messages
	WHERE sender_id = @uid OR receiver_id = @uid
	GROUP BY other_id
)
SELECT
	u.id         AS user_id,
	u.first_name AS first_name,
	u.last_name  AS last_name,
	u.role       AS role,
	lm.content   AS last_message,
	lm.created_at AS last_message_at,
	(
		SELECT COUNT(*) FROM messages
		WHERE receiver_id = @uid AND sender_id = c.other_id AND read = false
	) AS unread_count
FROM correspondents c
JOIN users u ON u.id = c.other_id
JOIN messages lm ON lm.id = c.last_message_id
ORDER BY lm.created_at DESC, lm.id DESC`,
		map[string]interface{}{"uid": userID}).
		Scan(&conversations).Error
	return conversations, err
}

func (r *MessageRepository) CountUnread(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&messaging.Message{}).
		Where("receiver_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}
