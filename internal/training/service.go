package training

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/storage"
)

type Repository interface {
	Create(t *Training) error
	GetByID(id int64) (*Training, error)
	List() ([]*Training, error)
	ListByCreator(creatorID int64) ([]*Training, error)
	UpdateAttachment(t *Training) error
	Delete(id int64) error
	CountProgressForTraining(trainingID int64) (int64, error)

	// GetProgress returns (nil, nil) when the worker has not enrolled.
	GetProgress(userID, trainingID int64) (*Progress, error)
	CreateProgress(p *Progress) error
	UpdateProgress(p *Progress) error
	ListProgressForWorker(userID int64) ([]ProgressView, error)
	ListProgressForTraining(trainingID int64) ([]ProgressView, error)
}

type Service struct {
	repo     Repository
	store    storage.FileStore
	maxBytes int64
	logger   *slog.Logger
}

func NewService(repo Repository, store storage.FileStore, maxUploadMB int, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		maxBytes: int64(maxUploadMB) << 20,
		logger:   logger,
	}
}

func (s *Service) Create(creatorID int64, dto CreateTrainingDTO) (*Training, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	t := &Training{
		Title:       strings.TrimSpace(dto.Title),
		Description: strings.TrimSpace(dto.Description),
		Content:     dto.Content,
		Duration:    strings.TrimSpace(dto.Duration),
		CreatedBy:   creatorID,
	}
	if err := s.repo.Create(t); err != nil {
		s.logger.Error("failed to create training", "error", err, "creator_id", creatorID)
		return nil, internal.NewInternalError("could not create training", err)
	}

	s.logger.Info("training created", "training_id", t.ID, "creator_id", creatorID)
	return t, nil
}

func (s *Service) GetByID(id int64) (*Training, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListAll() ([]*Training, error) {
	trainings, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list trainings", "error", err)
		return nil, internal.NewInternalError("could not list trainings", err)
	}
	return trainings, nil
}

func (s *Service) ListByCreator(creatorID int64) ([]*Training, error) {
	trainings, err := s.repo.ListByCreator(creatorID)
	if err != nil {
		s.logger.Error("failed to list trainings", "error", err, "creator_id", creatorID)
		return nil, internal.NewInternalError("could not list trainings", err)
	}
	return trainings, nil
}

// Delete removes a training a responsable owns. Once any worker has progress
// against it the training is kept for their history.
func (s *Service) Delete(trainingID, creatorID int64) error {
	t, err := s.repo.GetByID(trainingID)
	if err != nil {
		return err
	}
	if t.CreatedBy != creatorID {
		return ErrNotFound
	}

	count, err := s.repo.CountProgressForTraining(trainingID)
	if err != nil {
		s.logger.Error("failed to count training progress", "error", err, "training_id", trainingID)
		return internal.NewInternalError("could not delete training", err)
	}
	if count > 0 {
		return ErrHasProgress
	}

	if err := s.repo.Delete(trainingID); err != nil {
		s.logger.Error("failed to delete training", "error", err, "training_id", trainingID)
		return internal.NewInternalError("could not delete training", err)
	}
	if t.HasAttachment() {
		if err := s.store.Remove(t.StoredName); err != nil {
			s.logger.Error("failed to remove stored file", "error", err, "stored_name", t.StoredName)
		}
	}

	s.logger.Info("training deleted", "training_id", trainingID, "creator_id", creatorID)
	return nil
}

// AttachFile stores supporting material for a training the responsable owns.
// The reader is capped at the configured size; an oversized upload is rejected
// and the partial file removed. Attaching again replaces the previous file.
func (s *Service) AttachFile(trainingID, creatorID int64, fileName, contentType string, file io.Reader) (*Training, error) {
	t, err := s.repo.GetByID(trainingID)
	if err != nil {
		return nil, err
	}
	if t.CreatedBy != creatorID {
		return nil, ErrNotFound
	}

	storedName, size, err := s.store.Save(fileName, io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		s.logger.Error("failed to store upload", "error", err, "training_id", trainingID)
		return nil, internal.NewInternalError("could not store file", err)
	}
	if size > s.maxBytes {
		if err := s.store.Remove(storedName); err != nil {
			s.logger.Error("failed to remove oversized upload", "error", err, "stored_name", storedName)
		}
		return nil, internal.NewValidationError("file exceeds the upload size limit", internal.ErrCodeValidationFailed)
	}

	previous := t.StoredName
	t.FileName = fileName
	t.StoredName = storedName
	t.ContentType = contentType
	if err := s.repo.UpdateAttachment(t); err != nil {
		if err := s.store.Remove(storedName); err != nil {
			s.logger.Error("failed to remove orphaned upload", "error", err, "stored_name", storedName)
		}
		s.logger.Error("failed to record attachment", "error", err, "training_id", trainingID)
		return nil, internal.NewInternalError("could not save attachment", err)
	}
	if previous != "" {
		if err := s.store.Remove(previous); err != nil {
			s.logger.Error("failed to remove replaced file", "error", err, "stored_name", previous)
		}
	}

	s.logger.Info("training attachment stored", "training_id", trainingID, "size_bytes", size)
	return t, nil
}

// OpenAttachment streams a training's supporting material. Any authenticated
// user can read it; access control on the training list already gates who can
// see the course.
func (s *Service) OpenAttachment(trainingID int64) (*Training, io.ReadCloser, error) {
	t, err := s.repo.GetByID(trainingID)
	if err != nil {
		return nil, nil, err
	}
	if !t.HasAttachment() {
		return nil, nil, ErrNoAttachment
	}

	rc, err := s.store.Open(t.StoredName)
	if err != nil {
		s.logger.Error("failed to open stored file", "error", err, "training_id", trainingID)
		return nil, nil, internal.NewInternalError("could not open file", err)
	}
	return t, rc, nil
}

// Enroll returns the worker's progress record for a training, creating it at
// zero percent on first touch. Calling it again returns the existing record.
func (s *Service) Enroll(workerID, trainingID int64) (*Progress, error) {
	if _, err := s.repo.GetByID(trainingID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetProgress(workerID, trainingID)
	if err != nil {
		s.logger.Error("failed to load training progress", "error", err, "worker_id", workerID)
		return nil, internal.NewInternalError("could not load training progress", err)
	}
	if existing != nil {
		return existing, nil
	}

	p := &Progress{
		UserID:     workerID,
		TrainingID: trainingID,
		Percent:    0,
		StartedAt:  time.Now(),
	}
	if err := s.repo.CreateProgress(p); err != nil {
		s.logger.Error("failed to create training progress", "error", err, "worker_id", workerID)
		return nil, internal.NewInternalError("could not start training", err)
	}

	s.logger.Info("worker enrolled in training", "worker_id", workerID, "training_id", trainingID)
	return p, nil
}

// UpdateProgress moves the worker's percentage. Reaching 100 marks the record
// completed and stamps completed_at; later updates never clear either, so a
// worker revisiting a finished course keeps the original completion time.
func (s *Service) UpdateProgress(workerID, trainingID int64, dto UpdateProgressDTO) (*Progress, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetProgress(workerID, trainingID)
	if err != nil {
		s.logger.Error("failed to load training progress", "error", err, "worker_id", workerID)
		return nil, internal.NewInternalError("could not load training progress", err)
	}
	if p == nil {
		return nil, ErrProgressNotFound
	}

	p.Percent = dto.Percent
	if dto.Percent >= 100 && !p.Completed {
		now := time.Now()
		p.Completed = true
		p.CompletedAt = &now
	}

	if err := s.repo.UpdateProgress(p); err != nil {
		s.logger.Error("failed to update training progress", "error", err, "worker_id", workerID)
		return nil, internal.NewInternalError("could not update training progress", err)
	}

	s.logger.Info("training progress updated",
		"worker_id", workerID,
		"training_id", trainingID,
		"percent", p.Percent,
		"completed", p.Completed)
	return p, nil
}

func (s *Service) ListWorkerProgress(workerID int64) ([]ProgressView, error) {
	views, err := s.repo.ListProgressForWorker(workerID)
	if err != nil {
		s.logger.Error("failed to list worker progress", "error", err, "worker_id", workerID)
		return nil, internal.NewInternalError("could not list training progress", err)
	}
	return views, nil
}

// ListTrainingProgress shows a responsable every worker's progress on one of
// their trainings.
func (s *Service) ListTrainingProgress(trainingID, creatorID int64) ([]ProgressView, error) {
	t, err := s.repo.GetByID(trainingID)
	if err != nil {
		return nil, err
	}
	if t.CreatedBy != creatorID {
		return nil, ErrNotFound
	}

	views, err := s.repo.ListProgressForTraining(trainingID)
	if err != nil {
		s.logger.Error("failed to list training progress", "error", err, "training_id", trainingID)
		return nil, internal.NewInternalError("could not list training progress", err)
	}
	return views, nil
}
