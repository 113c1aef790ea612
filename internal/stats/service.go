package stats

import (
	"log/slog"

	"github.com/frahmantamala/recruitment-management/internal"
)

type Repository interface {
	AdminDashboard() (*AdminDashboard, error)
	ResponsableDashboard(responsableID int64) (*ResponsableDashboard, error)
	WorkerDashboard(workerID int64) (*WorkerDashboard, error)
	Statistics() (*Statistics, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) AdminDashboard() (*AdminDashboard, error) {
	d, err := s.repo.AdminDashboard()
	if err != nil {
		s.logger.Error("failed to build admin dashboard", "error", err)
		return nil, internal.NewInternalError("could not load statistics", err)
	}
	return d, nil
}

func (s *Service) Statistics() (*Statistics, error) {
	st, err := s.repo.Statistics()
	if err != nil {
		s.logger.Error("failed to build statistics rollup", "error", err)
		return nil, internal.NewInternalError("could not load statistics", err)
	}
	return st, nil
}

func (s *Service) ResponsableDashboard(responsableID int64) (*ResponsableDashboard, error) {
	d, err := s.repo.ResponsableDashboard(responsableID)
	if err != nil {
		s.logger.Error("failed to build responsable dashboard", "error", err, "responsable_id", responsableID)
		return nil, internal.NewInternalError("could not load statistics", err)
	}
	return d, nil
}

func (s *Service) WorkerDashboard(workerID int64) (*WorkerDashboard, error) {
	d, err := s.repo.WorkerDashboard(workerID)
	if err != nil {
		s.logger.Error("failed to build worker dashboard", "error", err, "worker_id", workerID)
		return nil, internal.NewInternalError("could not load statistics", err)
	}
	return d, nil
}
