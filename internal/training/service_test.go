package training_test

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/recruitment-management/internal/training"
)

func TestTraining(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Training Service Suite")
}

// Mock repository for testing
type mockTrainingRepository struct {
	trainings      map[int64]*training.Training
	progress       map[int64]*training.Progress
	nextTrainingID int64
	nextProgressID int64
	attachmentErr  error
}

func newMockTrainingRepository() *mockTrainingRepository {
	return &mockTrainingRepository{
		trainings:      make(map[int64]*training.Training),
		progress:       make(map[int64]*training.Progress),
		nextTrainingID: 1,
		nextProgressID: 1,
	}
}

func (m *mockTrainingRepository) Create(t *training.Training) error {
	t.ID = m.nextTrainingID
	m.nextTrainingID++
	t.CreatedAt = time.Now()
	m.trainings[t.ID] = t
	return nil
}

func (m *mockTrainingRepository) GetByID(id int64) (*training.Training, error) {
	t, ok := m.trainings[id]
	if !ok {
		return nil, training.ErrNotFound
	}
	return t, nil
}

func (m *mockTrainingRepository) List() ([]*training.Training, error) {
	var out []*training.Training
	for _, t := range m.trainings {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTrainingRepository) ListByCreator(creatorID int64) ([]*training.Training, error) {
	var out []*training.Training
	for _, t := range m.trainings {
		if t.CreatedBy == creatorID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTrainingRepository) UpdateAttachment(t *training.Training) error {
	if m.attachmentErr != nil {
		return m.attachmentErr
	}
	m.trainings[t.ID] = t
	return nil
}

func (m *mockTrainingRepository) Delete(id int64) error {
	delete(m.trainings, id)
	return nil
}

func (m *mockTrainingRepository) CountProgressForTraining(trainingID int64) (int64, error) {
	var count int64
	for _, p := range m.progress {
		if p.TrainingID == trainingID {
			count++
		}
	}
	return count, nil
}

func (m *mockTrainingRepository) GetProgress(userID, trainingID int64) (*training.Progress, error) {
	for _, p := range m.progress {
		if p.UserID == userID && p.TrainingID == trainingID {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockTrainingRepository) CreateProgress(p *training.Progress) error {
	p.ID = m.nextProgressID
	m.nextProgressID++
	m.progress[p.ID] = p
	return nil
}

func (m *mockTrainingRepository) UpdateProgress(p *training.Progress) error {
	m.progress[p.ID] = p
	return nil
}

func (m *mockTrainingRepository) ListProgressForWorker(userID int64) ([]training.ProgressView, error) {
	var out []training.ProgressView
	for _, p := range m.progress {
		if p.UserID == userID {
			out = append(out, training.ProgressView{
				ProgressID: p.ID,
				TrainingID: p.TrainingID,
				WorkerID:   p.UserID,
				Percent:    p.Percent,
				Completed:  p.Completed,
			})
		}
	}
	return out, nil
}

func (m *mockTrainingRepository) ListProgressForTraining(trainingID int64) ([]training.ProgressView, error) {
	var out []training.ProgressView
	for _, p := range m.progress {
		if p.TrainingID == trainingID {
			out = append(out, training.ProgressView{
				ProgressID: p.ID,
				TrainingID: p.TrainingID,
				WorkerID:   p.UserID,
				Percent:    p.Percent,
				Completed:  p.Completed,
			})
		}
	}
	return out, nil
}

// in-memory file store
type mockFileStore struct {
	files   map[string][]byte
	removed []string
	counter int
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{files: make(map[string][]byte)}
}

func (m *mockFileStore) Save(originalName string, r io.Reader) (string, int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	m.counter++
	name := "stored-" + strings.Repeat("x", m.counter)
	m.files[name] = data
	return name, int64(len(data)), nil
}

func (m *mockFileStore) Open(storedName string) (io.ReadCloser, error) {
	data, ok := m.files[storedName]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockFileStore) Remove(storedName string) error {
	delete(m.files, storedName)
	m.removed = append(m.removed, storedName)
	return nil
}

var _ = Describe("TrainingService", func() {
	var (
		service  *training.Service
		mockRepo *mockTrainingRepository
		store    *mockFileStore
		logger   *slog.Logger
	)

	creatorID := int64(2)
	workerID := int64(10)

	BeforeEach(func() {
		mockRepo = newMockTrainingRepository()
		store = newMockFileStore()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = training.NewService(mockRepo, store, 1, logger)
	})

	Describe("Create", func() {
		It("should create a training", func() {
			t, err := service.Create(creatorID, training.CreateTrainingDTO{Title: "Onboarding", Duration: "2h"})

			Expect(err).ToNot(HaveOccurred())
			Expect(t.ID).To(BeNumerically(">", 0))
			Expect(t.CreatedBy).To(Equal(creatorID))
		})

		It("should reject an empty title", func() {
			_, err := service.Create(creatorID, training.CreateTrainingDTO{Title: "  "})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		var trainingID int64

		BeforeEach(func() {
			t, err := service.Create(creatorID, training.CreateTrainingDTO{Title: "Onboarding"})
			Expect(err).ToNot(HaveOccurred())
			trainingID = t.ID
		})

		It("should delete an untouched training", func() {
			Expect(service.Delete(trainingID, creatorID)).To(Succeed())
		})

		It("should refuse when a worker has progress", func() {
			_, err := service.Enroll(workerID, trainingID)
			Expect(err).ToNot(HaveOccurred())

			err = service.Delete(trainingID, creatorID)
			Expect(err).To(MatchError(training.ErrHasProgress))
		})

		It("should hide trainings owned by someone else", func() {
			err := service.Delete(trainingID, creatorID+1)

			Expect(err).To(MatchError(training.ErrNotFound))
		})

		It("should remove the stored file with the training", func() {
			t, err := service.AttachFile(trainingID, creatorID, "slides.pdf", "application/pdf", strings.NewReader("deck"))
			Expect(err).ToNot(HaveOccurred())

			Expect(service.Delete(trainingID, creatorID)).To(Succeed())
			Expect(store.removed).To(ContainElement(t.StoredName))
		})
	})

	Describe("AttachFile", func() {
		var trainingID int64

		BeforeEach(func() {
			t, err := service.Create(creatorID, training.CreateTrainingDTO{Title: "Onboarding"})
			Expect(err).ToNot(HaveOccurred())
			trainingID = t.ID
		})

		It("should store the file and record its metadata", func() {
			t, err := service.AttachFile(trainingID, creatorID, "slides.pdf", "application/pdf", strings.NewReader("deck"))

			Expect(err).ToNot(HaveOccurred())
			Expect(t.FileName).To(Equal("slides.pdf"))
			Expect(t.ContentType).To(Equal("application/pdf"))
			Expect(t.HasAttachment()).To(BeTrue())
			Expect(store.files).To(HaveKey(t.StoredName))
		})

		It("should replace a previous attachment and remove its file", func() {
			first, err := service.AttachFile(trainingID, creatorID, "v1.pdf", "application/pdf", strings.NewReader("old"))
			Expect(err).ToNot(HaveOccurred())

			second, err := service.AttachFile(trainingID, creatorID, "v2.pdf", "application/pdf", strings.NewReader("new"))
			Expect(err).ToNot(HaveOccurred())
			Expect(second.FileName).To(Equal("v2.pdf"))
			Expect(store.removed).To(ContainElement(first.StoredName))
		})

		It("should reject an oversized file and discard it", func() {
			big := bytes.Repeat([]byte("a"), (1<<20)+1)

			_, err := service.AttachFile(trainingID, creatorID, "huge.bin", "application/octet-stream", bytes.NewReader(big))

			Expect(err).To(HaveOccurred())
			Expect(store.files).To(BeEmpty())
		})

		It("should hide trainings owned by someone else", func() {
			_, err := service.AttachFile(trainingID, creatorID+1, "slides.pdf", "application/pdf", strings.NewReader("deck"))

			Expect(err).To(MatchError(training.ErrNotFound))
		})
	})

	Describe("OpenAttachment", func() {
		var trainingID int64

		BeforeEach(func() {
			t, err := service.Create(creatorID, training.CreateTrainingDTO{Title: "Onboarding"})
			Expect(err).ToNot(HaveOccurred())
			trainingID = t.ID
		})

		It("should stream the stored file", func() {
			_, err := service.AttachFile(trainingID, creatorID, "slides.pdf", "application/pdf", strings.NewReader("deck"))
			Expect(err).ToNot(HaveOccurred())

			t, rc, err := service.OpenAttachment(trainingID)
			Expect(err).ToNot(HaveOccurred())
			defer rc.Close()

			data, err := io.ReadAll(rc)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(Equal("deck"))
			Expect(t.FileName).To(Equal("slides.pdf"))
		})

		It("should report not found when nothing is attached", func() {
			_, _, err := service.OpenAttachment(trainingID)

			Expect(err).To(MatchError(training.ErrNoAttachment))
		})
	})

	Describe("Enroll", func() {
		var trainingID int64

		BeforeEach(func() {
			t, err := service.Create(creatorID, training.CreateTrainingDTO{Title: "Onboarding"})
			Expect(err).ToNot(HaveOccurred())
			trainingID = t.ID
		})

		It("should create progress at zero percent on first touch", func() {
			p, err := service.Enroll(workerID, trainingID)

			Expect(err).ToNot(HaveOccurred())
			Expect(p.Percent).To(Equal(0))
			Expect(p.Completed).To(BeFalse())
		})

		It("should return the same record on repeated enrolls", func() {
			first, err := service.Enroll(workerID, trainingID)
			Expect(err).ToNot(HaveOccurred())

			second, err := service.Enroll(workerID, trainingID)
			Expect(err).ToNot(HaveOccurred())
			Expect(second.ID).To(Equal(first.ID))
		})

		It("should reject an unknown training", func() {
			_, err := service.Enroll(workerID, 999)

			Expect(err).To(MatchError(training.ErrNotFound))
		})
	})

	Describe("UpdateProgress", func() {
		var trainingID int64

		BeforeEach(func() {
			t, err := service.Create(creatorID, training.CreateTrainingDTO{Title: "Onboarding"})
			Expect(err).ToNot(HaveOccurred())
			trainingID = t.ID
			_, err = service.Enroll(workerID, trainingID)
			Expect(err).ToNot(HaveOccurred())
		})

		It("should move the percentage", func() {
			p, err := service.UpdateProgress(workerID, trainingID, training.UpdateProgressDTO{Percent: 40})

			Expect(err).ToNot(HaveOccurred())
			Expect(p.Percent).To(Equal(40))
			Expect(p.Completed).To(BeFalse())
			Expect(p.CompletedAt).To(BeNil())
		})

		It("should mark completion at 100", func() {
			p, err := service.UpdateProgress(workerID, trainingID, training.UpdateProgressDTO{Percent: 100})

			Expect(err).ToNot(HaveOccurred())
			Expect(p.Completed).To(BeTrue())
			Expect(p.CompletedAt).ToNot(BeNil())
		})

		It("should keep the original completion time on later updates", func() {
			first, err := service.UpdateProgress(workerID, trainingID, training.UpdateProgressDTO{Percent: 100})
			Expect(err).ToNot(HaveOccurred())
			completedAt := *first.CompletedAt

			second, err := service.UpdateProgress(workerID, trainingID, training.UpdateProgressDTO{Percent: 100})
			Expect(err).ToNot(HaveOccurred())
			Expect(second.Completed).To(BeTrue())
			Expect(*second.CompletedAt).To(Equal(completedAt))
		})

		It("should reject progress above 100", func() {
			_, err := service.UpdateProgress(workerID, trainingID, training.UpdateProgressDTO{Percent: 150})

			Expect(err).To(MatchError(training.ErrInvalidPercent))
		})

		It("should reject negative progress", func() {
			_, err := service.UpdateProgress(workerID, trainingID, training.UpdateProgressDTO{Percent: -5})

			Expect(err).To(MatchError(training.ErrInvalidPercent))
		})

		It("should require enrollment first", func() {
			_, err := service.UpdateProgress(99, trainingID, training.UpdateProgressDTO{Percent: 10})

			Expect(err).To(MatchError(training.ErrProgressNotFound))
		})
	})
})
