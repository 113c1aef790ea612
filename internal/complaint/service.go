package complaint

import (
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
)

type Repository interface {
	Create(c *Complaint) error
	GetByID(id int64) (*Complaint, error)
	ListByUser(userID int64) ([]*Complaint, error)
	ListAll() ([]ComplaintView, error)
	Update(c *Complaint) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(workerID int64, dto CreateComplaintDTO) (*Complaint, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c := &Complaint{
		UserID:  workerID,
		Subject: strings.TrimSpace(dto.Subject),
		Content: strings.TrimSpace(dto.Content),
		Status:  StatusPending,
	}
	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create complaint", "error", err, "worker_id", workerID)
		return nil, internal.NewInternalError("could not create complaint", err)
	}

	s.logger.Info("complaint filed", "complaint_id", c.ID, "worker_id", workerID)
	return c, nil
}

func (s *Service) ListMine(workerID int64) ([]*Complaint, error) {
	complaints, err := s.repo.ListByUser(workerID)
	if err != nil {
		s.logger.Error("failed to list complaints", "error", err, "worker_id", workerID)
		return nil, internal.NewInternalError("could not list complaints", err)
	}
	return complaints, nil
}

func (s *Service) ListAll() ([]ComplaintView, error) {
	complaints, err := s.repo.ListAll()
	if err != nil {
		s.logger.Error("failed to list complaints", "error", err)
		return nil, internal.NewInternalError("could not list complaints", err)
	}
	return complaints, nil
}

// Update moves a complaint through its lifecycle. Reaching resolved or
// rejected stamps who closed it and when; reopening clears both.
func (s *Service) Update(complaintID, adminID int64, dto UpdateComplaintDTO) (*Complaint, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(complaintID)
	if err != nil {
		return nil, err
	}

	c.Status = dto.Status
	if dto.Response != "" {
		c.Response = strings.TrimSpace(dto.Response)
	}
	if terminal(dto.Status) {
		now := time.Now()
		c.ResolvedBy = &adminID
		c.ResolvedAt = &now
	} else {
		c.ResolvedBy = nil
		c.ResolvedAt = nil
	}

	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to update complaint", "error", err, "complaint_id", complaintID)
		return nil, internal.NewInternalError("could not update complaint", err)
	}

	s.logger.Info("complaint updated", "complaint_id", complaintID, "status", dto.Status, "admin_id", adminID)
	return c, nil
}
