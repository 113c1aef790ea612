package training

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/recruitment-management/internal/auth"
	"github.com/frahmantamala/recruitment-management/internal/transport"
	"github.com/frahmantamala/recruitment-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(creatorID int64, dto CreateTrainingDTO) (*Training, error)
	GetByID(id int64) (*Training, error)
	ListAll() ([]*Training, error)
	ListByCreator(creatorID int64) ([]*Training, error)
	Delete(trainingID, creatorID int64) error
	AttachFile(trainingID, creatorID int64, fileName, contentType string, file io.Reader) (*Training, error)
	OpenAttachment(trainingID int64) (*Training, io.ReadCloser, error)
	Enroll(workerID, trainingID int64) (*Progress, error)
	UpdateProgress(workerID, trainingID int64, dto UpdateProgressDTO) (*Progress, error)
	ListWorkerProgress(workerID int64) ([]ProgressView, error)
	ListTrainingProgress(trainingID, creatorID int64) ([]ProgressView, error)
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

func (h *Handler) trainingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid training ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) CreateTraining(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var dto CreateTrainingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.Create(actor.ID, dto)
	if err != nil {
		h.Logger.Error("CreateTraining: service error", "error", err, "creator_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) ListTrainings(w http.ResponseWriter, r *http.Request) {
	trainings, err := h.Service.ListAll()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, trainings)
}

func (h *Handler) ListMyTrainings(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	trainings, err := h.Service.ListByCreator(actor.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, trainings)
}

func (h *Handler) GetTraining(w http.ResponseWriter, r *http.Request) {
	id, ok := h.trainingID(w, r)
	if !ok {
		return
	}

	t, err := h.Service.GetByID(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) DeleteTraining(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.trainingID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(id, actor.ID); err != nil {
		h.Logger.Error("DeleteTraining: service error", "error", err, "training_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "training deleted"})
}

func (h *Handler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.trainingID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	t, err := h.Service.AttachFile(id, actor.ID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.Logger.Error("UploadAttachment: service error", "error", err, "training_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.trainingID(w, r)
	if !ok {
		return
	}

	t, rc, err := h.Service.OpenAttachment(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	defer rc.Close()

	if t.ContentType != "" {
		w.Header().Set("Content-Type", t.ContentType)
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+t.FileName+`"`)
	if _, err := io.Copy(w, rc); err != nil {
		h.Logger.Error("DownloadAttachment: stream error", "error", err, "training_id", id)
	}
}

func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.trainingID(w, r)
	if !ok {
		return
	}

	p, err := h.Service.Enroll(actor.ID, id)
	if err != nil {
		h.Logger.Error("Enroll: service error", "error", err, "training_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.trainingID(w, r)
	if !ok {
		return
	}

	var dto UpdateProgressDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.UpdateProgress(actor.ID, id, dto)
	if err != nil {
		h.Logger.Error("UpdateProgress: service error", "error", err, "training_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) ListMyProgress(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	views, err := h.Service.ListWorkerProgress(actor.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) ListTrainingProgress(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.trainingID(w, r)
	if !ok {
		return
	}

	views, err := h.Service.ListTrainingProgress(id, actor.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, views)
}
