package job

import (
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
)

type Repository interface {
	Create(j *Job) error
	GetByID(id int64) (*Job, error)
	List() ([]*Job, error)
	ListByStatus(status string) ([]*Job, error)
	Update(j *Job) error
	Delete(id int64) error

	CreateApplication(a *Application) error
	GetApplication(id int64) (*Application, error)
	// HasApplied reports whether the worker already applied to the job.
	HasApplied(jobID, userID int64) (bool, error)
	ListApplicationsForJob(jobID int64) ([]ApplicationView, error)
	ListApplicationsForWorker(userID int64) ([]ApplicationView, error)
	UpdateApplication(a *Application) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(creatorID int64, dto CreateJobDTO) (*Job, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	j := &Job{
		Title:        strings.TrimSpace(dto.Title),
		Description:  strings.TrimSpace(dto.Description),
		Requirements: strings.TrimSpace(dto.Requirements),
		Location:     strings.TrimSpace(dto.Location),
		Salary:       strings.TrimSpace(dto.Salary),
		Status:       StatusOpen,
		CreatedBy:    creatorID,
	}
	if err := s.repo.Create(j); err != nil {
		s.logger.Error("failed to create job", "error", err, "creator_id", creatorID)
		return nil, internal.NewInternalError("could not create job", err)
	}

	s.logger.Info("job created", "job_id", j.ID, "creator_id", creatorID)
	return j, nil
}

func (s *Service) GetByID(id int64) (*Job, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListAll() ([]*Job, error) {
	jobs, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list jobs", "error", err)
		return nil, internal.NewInternalError("could not list jobs", err)
	}
	return jobs, nil
}

// ListOpen is what candidates browse.
func (s *Service) ListOpen() ([]*Job, error) {
	jobs, err := s.repo.ListByStatus(StatusOpen)
	if err != nil {
		s.logger.Error("failed to list open jobs", "error", err)
		return nil, internal.NewInternalError("could not list jobs", err)
	}
	return jobs, nil
}

func (s *Service) Update(jobID int64, dto UpdateJobDTO) (*Job, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	j, err := s.repo.GetByID(jobID)
	if err != nil {
		return nil, err
	}

	if dto.Title != "" {
		j.Title = strings.TrimSpace(dto.Title)
	}
	if dto.Description != "" {
		j.Description = strings.TrimSpace(dto.Description)
	}
	if dto.Requirements != "" {
		j.Requirements = strings.TrimSpace(dto.Requirements)
	}
	if dto.Location != "" {
		j.Location = strings.TrimSpace(dto.Location)
	}
	if dto.Salary != "" {
		j.Salary = strings.TrimSpace(dto.Salary)
	}
	if dto.Status != "" {
		j.Status = dto.Status
	}

	if err := s.repo.Update(j); err != nil {
		s.logger.Error("failed to update job", "error", err, "job_id", jobID)
		return nil, internal.NewInternalError("could not update job", err)
	}

	s.logger.Info("job updated", "job_id", jobID, "status", j.Status)
	return j, nil
}

func (s *Service) Delete(jobID int64) error {
	if _, err := s.repo.GetByID(jobID); err != nil {
		return err
	}

	if err := s.repo.Delete(jobID); err != nil {
		s.logger.Error("failed to delete job", "error", err, "job_id", jobID)
		return internal.NewInternalError("could not delete job", err)
	}

	s.logger.Info("job deleted", "job_id", jobID)
	return nil
}

// Apply files a worker's application. A closed job and a repeat application
// are both conflicts, not validation errors: the request was well-formed, the
// world just moved on.
func (s *Service) Apply(workerID, jobID int64, dto ApplyDTO) (*Application, error) {
	j, err := s.repo.GetByID(jobID)
	if err != nil {
		return nil, err
	}
	if !j.IsOpen() {
		return nil, ErrJobClosed
	}

	applied, err := s.repo.HasApplied(jobID, workerID)
	if err != nil {
		s.logger.Error("failed to check existing application", "error", err, "job_id", jobID)
		return nil, internal.NewInternalError("could not apply", err)
	}
	if applied {
		return nil, ErrDuplicateApplication
	}

	a := &Application{
		JobID:       jobID,
		UserID:      workerID,
		Status:      ApplicationPending,
		CoverLetter: strings.TrimSpace(dto.CoverLetter),
		AppliedAt:   time.Now(),
	}
	if err := s.repo.CreateApplication(a); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to create application", "error", err, "job_id", jobID, "worker_id", workerID)
		return nil, internal.NewInternalError("could not apply", err)
	}

	s.logger.Info("application filed", "application_id", a.ID, "job_id", jobID, "worker_id", workerID)
	return a, nil
}

func (s *Service) ListApplicationsForJob(jobID int64) ([]ApplicationView, error) {
	if _, err := s.repo.GetByID(jobID); err != nil {
		return nil, err
	}

	apps, err := s.repo.ListApplicationsForJob(jobID)
	if err != nil {
		s.logger.Error("failed to list applications", "error", err, "job_id", jobID)
		return nil, internal.NewInternalError("could not list applications", err)
	}
	return apps, nil
}

func (s *Service) ListMyApplications(workerID int64) ([]ApplicationView, error) {
	apps, err := s.repo.ListApplicationsForWorker(workerID)
	if err != nil {
		s.logger.Error("failed to list applications", "error", err, "worker_id", workerID)
		return nil, internal.NewInternalError("could not list applications", err)
	}
	return apps, nil
}

// Review records an admin's decision on an application.
func (s *Service) Review(applicationID, reviewerID int64, dto ReviewApplicationDTO) (*Application, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	a, err := s.repo.GetApplication(applicationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	a.Status = dto.Status
	a.ReviewedBy = &reviewerID
	a.ReviewedAt = &now

	if err := s.repo.UpdateApplication(a); err != nil {
		s.logger.Error("failed to review application", "error", err, "application_id", applicationID)
		return nil, internal.NewInternalError("could not review application", err)
	}

	s.logger.Info("application reviewed", "application_id", applicationID, "status", dto.Status, "reviewer_id", reviewerID)
	return a, nil
}
