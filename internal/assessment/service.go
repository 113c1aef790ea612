package assessment

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/core/events"
	"github.com/frahmantamala/recruitment-management/internal/user"
)

type Repository interface {
	CreateTest(t *Test) error
	GetTest(id int64) (*Test, error)
	ListTestsByCreator(creatorID int64) ([]*Test, error)
	DeleteTest(id int64) error
	CountAssignmentsForTest(testID int64) (int64, error)

	CreateAssignment(a *Assignment) error
	GetAssignment(id int64) (*Assignment, error)
	// FindOpenAssignment returns (nil, nil) when the worker has no
	// assignment in assigned or started state.
	FindOpenAssignment(userID int64) (*Assignment, error)
	MarkStarted(id int64, at time.Time) error
	UpsertAnswer(ans *Answer) error
	// CompleteAssignment persists the result only if the assignment is not
	// already completed; it reports whether this call won the transition.
	CompleteAssignment(id int64, res Result, at time.Time) (bool, error)

	ListResultsByCreator(creatorID int64) ([]ResultView, error)
	ListAllResults() ([]ResultView, error)
	ListResultsForWorker(workerID int64) ([]ResultView, error)
}

type UserDirectory interface {
	GetByID(id int64) (*user.User, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo     Repository
	users    UserDirectory
	eventBus EventPublisher
	logger   *slog.Logger
}

func NewService(repo Repository, users UserDirectory, eventBus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *Service) CreateTest(creatorID int64, dto CreateTestDTO) (*Test, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	t := dto.ToTest(creatorID)
	if err := s.repo.CreateTest(t); err != nil {
		s.logger.Error("failed to create test", "error", err, "creator_id", creatorID)
		return nil, internal.NewInternalError("could not create test", err)
	}

	s.logger.Info("test created", "test_id", t.ID, "creator_id", creatorID, "questions", len(t.Questions))
	return t, nil
}

func (s *Service) ListTestsByCreator(creatorID int64) ([]*Test, error) {
	tests, err := s.repo.ListTestsByCreator(creatorID)
	if err != nil {
		s.logger.Error("failed to list tests", "error", err, "creator_id", creatorID)
		return nil, internal.NewInternalError("could not list tests", err)
	}
	return tests, nil
}

func (s *Service) GetTestForCreator(testID, creatorID int64) (*Test, error) {
	t, err := s.repo.GetTest(testID)
	if err != nil {
		return nil, err
	}
	if t.CreatedBy != creatorID {
		return nil, ErrTestNotFound
	}
	return t, nil
}

// DeleteTest removes a test a responsable owns. A test with any assignment,
// open or completed, is frozen and cannot be deleted.
func (s *Service) DeleteTest(testID, creatorID int64) error {
	t, err := s.repo.GetTest(testID)
	if err != nil {
		return err
	}
	if t.CreatedBy != creatorID {
		return ErrTestNotFound
	}

	count, err := s.repo.CountAssignmentsForTest(testID)
	if err != nil {
		s.logger.Error("failed to count assignments", "error", err, "test_id", testID)
		return internal.NewInternalError("could not delete test", err)
	}
	if count > 0 {
		return ErrTestHasAssignments
	}

	if err := s.repo.DeleteTest(testID); err != nil {
		s.logger.Error("failed to delete test", "error", err, "test_id", testID)
		return internal.NewInternalError("could not delete test", err)
	}

	s.logger.Info("test deleted", "test_id", testID, "creator_id", creatorID)
	return nil
}

// AssignTest gives a test to a worker. A worker carries at most one open
// assignment at a time; a second assign while one is open is a conflict.
func (s *Service) AssignTest(dto AssignTestDTO) (*Assignment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	worker, err := s.users.GetByID(dto.WorkerID)
	if err != nil {
		return nil, err
	}
	if !worker.IsWorker() {
		return nil, internal.NewValidationError("tests can only be assigned to workers", internal.ErrCodeInvalidRole)
	}
	if !worker.IsActive() {
		return nil, internal.NewValidationError("worker account is not active", internal.ErrCodeUserInactive)
	}

	if _, err := s.repo.GetTest(dto.TestID); err != nil {
		return nil, err
	}

	open, err := s.repo.FindOpenAssignment(dto.WorkerID)
	if err != nil {
		s.logger.Error("failed to check open assignments", "error", err, "worker_id", dto.WorkerID)
		return nil, internal.NewInternalError("could not assign test", err)
	}
	if open != nil {
		return nil, ErrAssignmentOpen
	}

	a := &Assignment{
		UserID:     dto.WorkerID,
		TestID:     dto.TestID,
		Status:     StatusAssigned,
		AssignedAt: time.Now(),
	}
	if err := s.repo.CreateAssignment(a); err != nil {
		// the partial unique index catches the race two concurrent
		// assigns would otherwise win together
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to create assignment", "error", err, "worker_id", dto.WorkerID)
		return nil, internal.NewInternalError("could not assign test", err)
	}

	s.logger.Info("test assigned", "assignment_id", a.ID, "test_id", dto.TestID, "worker_id", dto.WorkerID)
	return a, nil
}

// GetAssignedTest returns the worker's current open assignment with the test
// content stripped of the answer key, or nil when nothing is pending.
func (s *Service) GetAssignedTest(workerID int64) (*AssignedTestView, error) {
	a, err := s.repo.FindOpenAssignment(workerID)
	if err != nil {
		s.logger.Error("failed to load open assignment", "error", err, "worker_id", workerID)
		return nil, internal.NewInternalError("could not load assigned test", err)
	}
	if a == nil {
		return nil, nil
	}

	t, err := s.repo.GetTest(a.TestID)
	if err != nil {
		return nil, err
	}

	view := &AssignedTestView{
		AssignmentID: a.ID,
		Status:       a.Status,
		AssignedAt:   a.AssignedAt,
		StartedAt:    a.StartedAt,
		Test:         NewWorkerTestView(t),
	}
	for _, ans := range a.Answers {
		view.Answered = append(view.Answered, ans.QuestionID)
	}
	return view, nil
}

func (s *Service) loadWorkerAssignment(assignmentID, workerID int64) (*Assignment, error) {
	a, err := s.repo.GetAssignment(assignmentID)
	if err != nil {
		return nil, err
	}
	if a.UserID != workerID {
		return nil, ErrAssignmentNotFound
	}
	return a, nil
}

// StartAssignment moves assigned -> started. Calling it on an assignment
// already started is a no-op; a completed assignment never reopens.
func (s *Service) StartAssignment(assignmentID, workerID int64) (*Assignment, error) {
	a, err := s.loadWorkerAssignment(assignmentID, workerID)
	if err != nil {
		return nil, err
	}
	if a.IsCompleted() {
		return nil, ErrAssignmentCompleted
	}
	if a.Status == StatusStarted {
		return a, nil
	}

	now := time.Now()
	if err := s.repo.MarkStarted(a.ID, now); err != nil {
		s.logger.Error("failed to start assignment", "error", err, "assignment_id", a.ID)
		return nil, internal.NewInternalError("could not start assignment", err)
	}

	a.Status = StatusStarted
	a.StartedAt = &now
	s.logger.Info("assignment started", "assignment_id", a.ID, "worker_id", workerID)
	return a, nil
}

// SubmitAnswer records the worker's pick for one question. Re-answering a
// question replaces the previous pick. Submissions against a completed
// assignment are rejected.
func (s *Service) SubmitAnswer(assignmentID, workerID int64, dto SubmitAnswerDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	a, err := s.loadWorkerAssignment(assignmentID, workerID)
	if err != nil {
		return err
	}
	if a.IsCompleted() {
		return ErrAssignmentCompleted
	}

	t, err := s.repo.GetTest(a.TestID)
	if err != nil {
		return err
	}
	q := t.findQuestion(dto.QuestionID)
	if q == nil {
		return ErrQuestionNotFound
	}
	opt := q.findOption(dto.OptionID)
	if opt == nil {
		return ErrOptionNotFound
	}

	ans := &Answer{
		AssignmentID:     a.ID,
		QuestionID:       q.ID,
		SelectedOptionID: opt.ID,
		IsCorrect:        opt.IsCorrect,
	}
	if err := s.repo.UpsertAnswer(ans); err != nil {
		s.logger.Error("failed to save answer", "error", err, "assignment_id", a.ID, "question_id", q.ID)
		return internal.NewInternalError("could not save answer", err)
	}
	return nil
}

// CompleteAssignment closes the assignment and scores it: score is the
// percentage of correct answers over all questions, rounded to the nearest
// integer; unanswered questions count as incorrect. Completing an already
// completed assignment returns the stored result unchanged.
func (s *Service) CompleteAssignment(ctx context.Context, assignmentID, workerID int64) (*Result, error) {
	a, err := s.loadWorkerAssignment(assignmentID, workerID)
	if err != nil {
		return nil, err
	}

	t, err := s.repo.GetTest(a.TestID)
	if err != nil {
		return nil, err
	}

	if a.IsCompleted() {
		res := s.storedResult(a, t)
		return &res, nil
	}

	res := ComputeResult(t, a.Answers, t.PassingScore)
	won, err := s.repo.CompleteAssignment(a.ID, res, time.Now())
	if err != nil {
		s.logger.Error("failed to complete assignment", "error", err, "assignment_id", a.ID)
		return nil, internal.NewInternalError("could not complete assignment", err)
	}
	if !won {
		// lost the race against a concurrent completion; serve what was stored
		stored, err := s.repo.GetAssignment(a.ID)
		if err != nil {
			return nil, err
		}
		res := s.storedResult(stored, t)
		return &res, nil
	}

	s.logger.Info("assignment completed",
		"assignment_id", a.ID,
		"worker_id", workerID,
		"score", res.Score,
		"passed", res.Passed)

	if err := s.eventBus.Publish(ctx, events.NewAssessmentCompleted(a.ID, workerID, t.ID, t.CreatedBy, res.Score, res.Passed)); err != nil {
		s.logger.Error("failed to publish completion event", "error", err, "assignment_id", a.ID)
	}

	return &res, nil
}

func (s *Service) storedResult(a *Assignment, t *Test) Result {
	correct := 0
	for _, ans := range a.Answers {
		if ans.IsCorrect {
			correct++
		}
	}
	return Result{
		Score:          a.Score,
		Passed:         a.Passed,
		CorrectAnswers: correct,
		TotalQuestions: len(t.Questions),
	}
}

func (s *Service) ListResultsByCreator(creatorID int64) ([]ResultView, error) {
	results, err := s.repo.ListResultsByCreator(creatorID)
	if err != nil {
		s.logger.Error("failed to list results", "error", err, "creator_id", creatorID)
		return nil, internal.NewInternalError("could not list test results", err)
	}
	return results, nil
}

func (s *Service) ListAllResults() ([]ResultView, error) {
	results, err := s.repo.ListAllResults()
	if err != nil {
		s.logger.Error("failed to list all results", "error", err)
		return nil, internal.NewInternalError("could not list test results", err)
	}
	return results, nil
}

func (s *Service) ListResultsForWorker(workerID int64) ([]ResultView, error) {
	results, err := s.repo.ListResultsForWorker(workerID)
	if err != nil {
		s.logger.Error("failed to list worker results", "error", err, "worker_id", workerID)
		return nil, internal.NewInternalError("could not list test history", err)
	}
	return results, nil
}
