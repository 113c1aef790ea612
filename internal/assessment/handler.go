package assessment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/recruitment-management/internal/auth"
	"github.com/frahmantamala/recruitment-management/internal/transport"
	"github.com/frahmantamala/recruitment-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateTest(creatorID int64, dto CreateTestDTO) (*Test, error)
	ListTestsByCreator(creatorID int64) ([]*Test, error)
	GetTestForCreator(testID, creatorID int64) (*Test, error)
	DeleteTest(testID, creatorID int64) error
	AssignTest(dto AssignTestDTO) (*Assignment, error)
	GetAssignedTest(workerID int64) (*AssignedTestView, error)
	StartAssignment(assignmentID, workerID int64) (*Assignment, error)
	SubmitAnswer(assignmentID, workerID int64, dto SubmitAnswerDTO) error
	CompleteAssignment(ctx context.Context, assignmentID, workerID int64) (*Result, error)
	ListResultsByCreator(creatorID int64) ([]ResultView, error)
	ListAllResults() ([]ResultView, error)
	ListResultsForWorker(workerID int64) ([]ResultView, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (*auth.SessionUser, bool) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok || u == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return u, true
}

func (h *Handler) CreateTest(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var dto CreateTestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.CreateTest(actor.ID, dto)
	if err != nil {
		h.Logger.Error("CreateTest: service error", "error", err, "creator_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) ListTests(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	tests, err := h.Service.ListTestsByCreator(actor.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, tests)
}

func (h *Handler) GetTest(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid test ID")
		return
	}

	t, err := h.Service.GetTestForCreator(id, actor.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) DeleteTest(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid test ID")
		return
	}

	if err := h.Service.DeleteTest(id, actor.ID); err != nil {
		h.Logger.Error("DeleteTest: service error", "error", err, "test_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "test deleted"})
}

func (h *Handler) AssignTest(w http.ResponseWriter, r *http.Request) {
	var dto AssignTestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.Service.AssignTest(dto)
	if err != nil {
		h.Logger.Error("AssignTest: service error", "error", err, "worker_id", dto.WorkerID, "test_id", dto.TestID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "test assigned",
		"assignment": a,
	})
}

func (h *Handler) GetAssignedTest(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	view, err := h.Service.GetAssignedTest(actor.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if view == nil {
		h.WriteJSON(w, http.StatusOK, map[string]interface{}{"assignment": nil})
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) assignmentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid assignment ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) StartAssignment(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.assignmentID(w, r)
	if !ok {
		return
	}

	a, err := h.Service.StartAssignment(id, actor.ID)
	if err != nil {
		h.Logger.Error("StartAssignment: service error", "error", err, "assignment_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.assignmentID(w, r)
	if !ok {
		return
	}

	var dto SubmitAnswerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.SubmitAnswer(id, actor.ID, dto); err != nil {
		h.Logger.Error("SubmitAnswer: service error", "error", err, "assignment_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "answer saved"})
}

func (h *Handler) CompleteAssignment(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.assignmentID(w, r)
	if !ok {
		return
	}

	res, err := h.Service.CompleteAssignment(r.Context(), id, actor.ID)
	if err != nil {
		h.Logger.Error("CompleteAssignment: service error", "error", err, "assignment_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	results, err := h.Service.ListResultsByCreator(actor.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, results)
}

func (h *Handler) ListAllResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.Service.ListAllResults()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, results)
}

func (h *Handler) ListMyResults(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	results, err := h.Service.ListResultsForWorker(actor.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, results)
}
