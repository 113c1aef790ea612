package document

import (
	"context"
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
	Upload(ctx context.Context, workerID int64, meta UploadMeta, file io.Reader) (*Document, error)
	ListMine(workerID int64) ([]*Document, error)
	ListAll() ([]DocumentView, error)
	ListPending() ([]DocumentView, error)
	Verify(docID, reviewerID int64, dto VerifyDocumentDTO) (*Document, error)
	OpenFile(docID, actorID int64, actorRole string) (*Document, io.ReadCloser, error)
	Delete(docID, workerID int64) error
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

func (h *Handler) documentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid document ID")
		return 0, false
	}
	return id, true
}

// Upload accepts a multipart form with "file" and "title" fields.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
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

	meta := UploadMeta{
		Title:       r.FormValue("title"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}

	d, err := h.Service.Upload(r.Context(), actor.ID, meta, file)
	if err != nil {
		h.Logger.Error("Upload: service error", "error", err, "worker_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, d)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	docs, err := h.Service.ListMine(actor.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, docs)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Service.ListAll()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, docs)
}

func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Service.ListPending()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, docs)
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	var dto VerifyDocumentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.Service.Verify(id, actor.ID, dto)
	if err != nil {
		h.Logger.Error("Verify: service error", "error", err, "document_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	d, rc, err := h.Service.OpenFile(id, actor.ID, actor.Role)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	defer rc.Close()

	if d.ContentType != "" {
		w.Header().Set("Content-Type", d.ContentType)
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+d.FileName+`"`)
	if _, err := io.Copy(w, rc); err != nil {
		h.Logger.Error("Download: stream error", "error", err, "document_id", id)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(id, actor.ID); err != nil {
		h.Logger.Error("Delete: service error", "error", err, "document_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "document deleted"})
}
