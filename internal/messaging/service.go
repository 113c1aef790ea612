package messaging

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/user"
)

type Repository interface {
	Create(m *Message) error
	// ListThread returns every message between the two users, oldest first.
	ListThread(userID, otherID int64) ([]*Message, error)
	// MarkThreadRead flags messages the other user sent as read.
	MarkThreadRead(userID, otherID int64) error
	ListConversations(userID int64) ([]Conversation, error)
	CountUnread(userID int64) (int64, error)
}

type UserDirectory interface {
	GetByID(id int64) (*user.User, error)
}

type Service struct {
	repo   Repository
	users  UserDirectory
	logger *slog.Logger
}

func NewService(repo Repository, users UserDirectory, logger *slog.Logger) *Service {
	return &Service{repo: repo, users: users, logger: logger}
}

func (s *Service) Send(senderID int64, dto SendMessageDTO) (*Message, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if dto.ReceiverID == senderID {
		return nil, internal.NewValidationError("cannot message yourself", internal.ErrCodeValidationFailed)
	}

	if _, err := s.users.GetByID(dto.ReceiverID); err != nil {
		return nil, ErrReceiverNotFound
	}

	m := &Message{
		SenderID:   senderID,
		ReceiverID: dto.ReceiverID,
		Content:    strings.TrimSpace(dto.Content),
		CreatedAt:  time.Now(),
	}
	if err := s.repo.Create(m); err != nil {
		s.logger.Error("failed to send message", "error", err, "sender_id", senderID)
		return nil, internal.NewInternalError("could not send message", err)
	}

	s.logger.Info("message sent", "message_id", m.ID, "sender_id", senderID, "receiver_id", dto.ReceiverID)
	return m, nil
}

// GetThread returns the full conversation with another user, oldest first,
// and marks everything they sent as read as a side effect of opening it.
func (s *Service) GetThread(actorID, otherID int64) ([]*Message, error) {
	if _, err := s.users.GetByID(otherID); err != nil {
		return nil, ErrReceiverNotFound
	}

	messages, err := s.repo.ListThread(actorID, otherID)
	if err != nil {
		s.logger.Error("failed to load thread", "error", err, "actor_id", actorID, "other_id", otherID)
		return nil, internal.NewInternalError("could not load conversation", err)
	}

	if err := s.repo.MarkThreadRead(actorID, otherID); err != nil {
		s.logger.Error("failed to mark thread read", "error", err, "actor_id", actorID, "other_id", otherID)
	}

	return messages, nil
}

func (s *Service) ListConversations(actorID int64) ([]Conversation, error) {
	conversations, err := s.repo.ListConversations(actorID)
	if err != nil {
		s.logger.Error("failed to list conversations", "error", err, "actor_id", actorID)
		return nil, internal.NewInternalError("could not list conversations", err)
	}
	return conversations, nil
}

func (s *Service) UnreadCount(actorID int64) (int64, error) {
	count, err := s.repo.CountUnread(actorID)
	if err != nil {
		s.logger.Error("failed to count unread messages", "error", err, "actor_id", actorID)
		return 0, internal.NewInternalError("could not count unread messages", err)
	}
	return count, nil
}

// NotifyAssessmentResult is wired to the assessment completion event so the
// authoring responsable hears about results without polling.
func (s *Service) NotifyAssessmentResult(creatorID, workerID int64, testTitle string, score int, passed bool) {
	worker, err := s.users.GetByID(workerID)
	if err != nil {
		s.logger.Error("failed to load worker for notification", "error", err, "worker_id", workerID)
		return
	}

	outcome := "failed"
	if passed {
		outcome = "passed"
	}
	content := fmt.Sprintf("%s %s %s %q with a score of %d%%.",
		worker.FirstName, worker.LastName, outcome, testTitle, score)

	m := &Message{
		SenderID:   workerID,
		ReceiverID: creatorID,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.Create(m); err != nil {
		s.logger.Error("failed to send result notification", "error", err, "creator_id", creatorID)
	}
}
