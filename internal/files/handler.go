package files

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/authz"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/platform/httpx"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

// Handler serves file metadata endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     authz.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountRoutes registers file routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Authenticate)
		r.Get("/clubs/{clubID}/files", h.handleList)
		r.Get("/files/{id}", h.handleGet)
		r.Delete("/files/{id}", h.handleDelete)
	})
	r.With(h.guard.RequireAny(authz.PermUploadFile)).Post("/files", h.handleRegister)
}

type fileResponse struct {
	ID         int64     `json:"id"`
	ClubID     *int64    `json:"club_id,omitempty"`
	OwnerID    int64     `json:"owner_id"`
	Name       string    `json:"name"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func (h *Handler) toResponse(f File) fileResponse {
	return fileResponse{
		ID:         f.ID,
		ClubID:     f.ClubID,
		OwnerID:    f.OwnerID,
		Name:       f.Name,
		MimeType:   f.MimeType,
		SizeBytes:  f.SizeBytes,
		URL:        h.service.URL(f),
		UploadedAt: f.UploadedAt,
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	clubID, err := strconv.ParseInt(chi.URLParam(r, "clubID"), 10, 64)
	if err != nil || clubID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "club id must be a positive integer")
		return
	}
	items, err := h.service.ListByClub(r.Context(), clubID)
	if err != nil {
		h.writeError(w, err, "list files")
		return
	}
	out := make([]fileResponse, 0, len(items))
	for _, f := range items {
		out = append(out, h.toResponse(f))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"files": out})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	file, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "get file")
		return
	}
	httpx.JSON(w, http.StatusOK, h.toResponse(file))
}

type registerRequest struct {
	ClubID    *int64 `json:"club_id"`
	Name      string `json:"name" validate:"required,max=500"`
	MimeType  string `json:"mime_type" validate:"required,max=200"`
	SizeBytes int64  `json:"size_bytes" validate:"required,gt=0"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actor, _ := authz.UserFromContext(r.Context())
	file, err := h.service.Register(r.Context(), actor.ID, req.ClubID, req.Name, req.MimeType, req.SizeBytes)
	if err != nil {
		h.writeError(w, err, "register file")
		return
	}
	httpx.JSON(w, http.StatusCreated, h.toResponse(file))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	actor, _ := authz.UserFromContext(r.Context())
	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		h.writeError(w, err, "delete file")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "file id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "file not found")
	case errors.Is(err, ErrTooLarge):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Too Large", err.Error())
	case errors.Is(err, shared.ErrForbidden):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "not allowed to delete this file")
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
