package document

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/core/events"
	"github.com/frahmantamala/recruitment-management/internal/storage"
)

type Repository interface {
	Create(d *Document) error
	GetByID(id int64) (*Document, error)
	ListByUser(userID int64) ([]*Document, error)
	ListAll() ([]DocumentView, error)
	ListPending() ([]DocumentView, error)
	UpdateVerdict(d *Document) error
	Delete(id int64) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo     Repository
	store    storage.FileStore
	eventBus EventPublisher
	maxBytes int64
	logger   *slog.Logger
}

func NewService(repo Repository, store storage.FileStore, eventBus EventPublisher, maxUploadMB int, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		eventBus: eventBus,
		maxBytes: int64(maxUploadMB) << 20,
		logger:   logger,
	}
}

// Upload stores the file and records it as pending verification. The reader
// is capped at the configured size; an oversized upload is rejected and the
// partial file removed.
func (s *Service) Upload(ctx context.Context, workerID int64, meta UploadMeta, file io.Reader) (*Document, error) {
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	storedName, size, err := s.store.Save(meta.FileName, io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		s.logger.Error("failed to store upload", "error", err, "worker_id", workerID)
		return nil, internal.NewInternalError("could not store file", err)
	}
	if size > s.maxBytes {
		if err := s.store.Remove(storedName); err != nil {
			s.logger.Error("failed to remove oversized upload", "error", err, "stored_name", storedName)
		}
		return nil, internal.NewValidationError("file exceeds the upload size limit", internal.ErrCodeValidationFailed)
	}

	d := &Document{
		UserID:      workerID,
		Title:       strings.TrimSpace(meta.Title),
		FileName:    meta.FileName,
		StoredName:  storedName,
		ContentType: meta.ContentType,
		SizeBytes:   size,
		Status:      StatusPending,
		UploadedAt:  time.Now(),
	}
	if err := s.repo.Create(d); err != nil {
		if err := s.store.Remove(storedName); err != nil {
			s.logger.Error("failed to remove orphaned upload", "error", err, "stored_name", storedName)
		}
		s.logger.Error("failed to record document", "error", err, "worker_id", workerID)
		return nil, internal.NewInternalError("could not save document", err)
	}

	s.logger.Info("document uploaded", "document_id", d.ID, "worker_id", workerID, "size_bytes", size)

	if err := s.eventBus.Publish(ctx, events.NewDocumentUploaded(d.ID, workerID, d.Title)); err != nil {
		s.logger.Error("failed to publish upload event", "error", err, "document_id", d.ID)
	}

	return d, nil
}

func (s *Service) ListMine(workerID int64) ([]*Document, error) {
	docs, err := s.repo.ListByUser(workerID)
	if err != nil {
		s.logger.Error("failed to list documents", "error", err, "worker_id", workerID)
		return nil, internal.NewInternalError("could not list documents", err)
	}
	return docs, nil
}

func (s *Service) ListAll() ([]DocumentView, error) {
	docs, err := s.repo.ListAll()
	if err != nil {
		s.logger.Error("failed to list documents", "error", err)
		return nil, internal.NewInternalError("could not list documents", err)
	}
	return docs, nil
}

func (s *Service) ListPending() ([]DocumentView, error) {
	docs, err := s.repo.ListPending()
	if err != nil {
		s.logger.Error("failed to list pending documents", "error", err)
		return nil, internal.NewInternalError("could not list documents", err)
	}
	return docs, nil
}

// Verify records a responsable's verdict. Only approved and rejected are
// legal verdicts; a document can be re-verified, the latest verdict wins.
func (s *Service) Verify(docID, reviewerID int64, dto VerifyDocumentDTO) (*Document, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	d, err := s.repo.GetByID(docID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	d.Status = dto.Status
	d.Note = strings.TrimSpace(dto.Note)
	d.VerifiedBy = &reviewerID
	d.VerifiedAt = &now

	if err := s.repo.UpdateVerdict(d); err != nil {
		s.logger.Error("failed to verify document", "error", err, "document_id", docID)
		return nil, internal.NewInternalError("could not verify document", err)
	}

	s.logger.Info("document verified", "document_id", docID, "status", dto.Status, "reviewer_id", reviewerID)
	return d, nil
}

// OpenFile serves a document's content. Workers can only open their own
// files; responsables and admins can open any.
func (s *Service) OpenFile(docID, actorID int64, actorRole string) (*Document, io.ReadCloser, error) {
	d, err := s.repo.GetByID(docID)
	if err != nil {
		return nil, nil, err
	}
	if actorRole == "worker" && d.UserID != actorID {
		return nil, nil, ErrNotFound
	}

	rc, err := s.store.Open(d.StoredName)
	if err != nil {
		s.logger.Error("failed to open stored file", "error", err, "document_id", docID)
		return nil, nil, internal.NewInternalError("could not open file", err)
	}
	return d, rc, nil
}

// Delete removes a worker's own document together with its stored file.
func (s *Service) Delete(docID, workerID int64) error {
	d, err := s.repo.GetByID(docID)
	if err != nil {
		return err
	}
	if d.UserID != workerID {
		return ErrNotFound
	}

	if err := s.repo.Delete(docID); err != nil {
		s.logger.Error("failed to delete document", "error", err, "document_id", docID)
		return internal.NewInternalError("could not delete document", err)
	}
	if err := s.store.Remove(d.StoredName); err != nil {
		s.logger.Error("failed to remove stored file", "error", err, "stored_name", d.StoredName)
	}

	s.logger.Info("document deleted", "document_id", docID, "worker_id", workerID)
	return nil
}
