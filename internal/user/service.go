package user

import (
	"log/slog"

	"github.com/frahmantamala/recruitment-management/internal"
)

type Repository interface {
	Create(u *User) error
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	List() ([]*User, error)
	ListByRole(role string) ([]*User, error)
	UpdateProfile(u *User) error
	UpdateStatus(id int64, status string) error
	DeleteCascade(id int64) error
}

// Service covers the identity store plus the admin user lifecycle. The
// default admin account is protected: its status can never change and it can
// never be deleted.
type Service struct {
	repo              Repository
	defaultAdminEmail string
	logger            *slog.Logger
}

func NewService(repo Repository, defaultAdminEmail string, logger *slog.Logger) *Service {
	return &Service{
		repo:              repo,
		defaultAdminEmail: defaultAdminEmail,
		logger:            logger,
	}
}

func (s *Service) GetByID(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) ListAll() ([]*User, error) {
	users, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("could not list users", err)
	}
	return users, nil
}

// ListCandidates returns all workers, used by responsables to pick candidates.
func (s *Service) ListCandidates() ([]*User, error) {
	users, err := s.repo.ListByRole(RoleWorker)
	if err != nil {
		s.logger.Error("failed to list candidates", "error", err)
		return nil, internal.NewInternalError("could not list candidates", err)
	}
	return users, nil
}

func (s *Service) UpdateProfile(userID int64, dto UpdateProfileDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if dto.Email != "" && dto.Email != u.Email {
		if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing.ID != userID {
			return nil, ErrEmailTaken
		}
		u.Email = dto.Email
	}
	if dto.FirstName != "" {
		u.FirstName = dto.FirstName
	}
	if dto.LastName != "" {
		u.LastName = dto.LastName
	}

	if err := s.repo.UpdateProfile(u); err != nil {
		s.logger.Error("failed to update profile", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("could not update profile", err)
	}

	s.logger.Info("profile updated", "user_id", userID)
	return u, nil
}

func (s *Service) UpdateStatus(id int64, dto UpdateStatusDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if u.Email == s.defaultAdminEmail {
		s.logger.Warn("status change rejected for default admin", "user_id", id)
		return nil, ErrProtectedAdmin
	}

	if err := s.repo.UpdateStatus(id, dto.Status); err != nil {
		s.logger.Error("failed to update user status", "error", err, "user_id", id)
		return nil, internal.NewInternalError("could not update user status", err)
	}

	u.Status = dto.Status
	s.logger.Info("user status updated", "user_id", id, "status", dto.Status)
	return u, nil
}

// Delete removes a user and every record referencing them: documents, test
// assignments and answers, training progress, complaints, job applications
// and messages. The repository runs the whole cascade in one transaction.
func (s *Service) Delete(id int64) error {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	if u.Email == s.defaultAdminEmail {
		s.logger.Warn("delete rejected for default admin", "user_id", id)
		return ErrProtectedAdmin
	}

	if err := s.repo.DeleteCascade(id); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return internal.NewInternalError("could not delete user", err)
	}

	s.logger.Info("user deleted with cascading records", "user_id", id, "role", u.Role)
	return nil
}
