package tasks

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

// Handler serves task endpoints.
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

// MountRoutes registers task routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Authenticate)
		r.Get("/clubs/{clubID}/tasks", h.handleListByClub)
		r.Get("/tasks/mine", h.handleListMine)
		r.Get("/tasks/{id}", h.handleGet)
		r.Post("/tasks/{id}/status", h.handleTransition)
	})
	r.With(h.guard.RequireAny(authz.PermCreateTask)).Post("/clubs/{clubID}/tasks", h.handleCreate)
	r.With(h.guard.RequireAny(authz.PermEditTask)).Put("/tasks/{id}", h.handleUpdate)
	r.With(h.guard.RequireAny(authz.PermAssignTask)).Post("/tasks/{id}/assignee", h.handleAssign)
	r.With(h.guard.RequireAny(authz.PermEditTask)).Delete("/tasks/{id}", h.handleDelete)
}

type taskResponse struct {
	ID          int64      `json:"id"`
	ClubID      int64      `json:"club_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	AssigneeID  *int64     `json:"assignee_id,omitempty"`
	CreatedBy   int64      `json:"created_by"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toTaskResponse(t Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		ClubID:      t.ClubID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		AssigneeID:  t.AssigneeID,
		CreatedBy:   t.CreatedBy,
		DueAt:       t.DueAt,
		CreatedAt:   t.CreatedAt,
	}
}

func toTaskResponses(items []Task) []taskResponse {
	out := make([]taskResponse, 0, len(items))
	for _, t := range items {
		out = append(out, toTaskResponse(t))
	}
	return out
}

func (h *Handler) handleListByClub(w http.ResponseWriter, r *http.Request) {
	clubID, ok := h.pathInt(w, r, "clubID")
	if !ok {
		return
	}
	items, err := h.service.ListByClub(r.Context(), clubID)
	if err != nil {
		h.writeError(w, err, "list tasks")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"tasks": toTaskResponses(items)})
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	actor, _ := authz.UserFromContext(r.Context())
	items, err := h.service.ListMine(r.Context(), actor.ID)
	if err != nil {
		h.writeError(w, err, "list my tasks")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"tasks": toTaskResponses(items)})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathInt(w, r, "id")
	if !ok {
		return
	}
	task, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "get task")
		return
	}
	httpx.JSON(w, http.StatusOK, toTaskResponse(task))
}

type taskRequest struct {
	Title       string     `json:"title" validate:"required,max=300"`
	Description string     `json:"description" validate:"max=5000"`
	AssigneeID  *int64     `json:"assignee_id"`
	DueAt       *time.Time `json:"due_at"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	clubID, ok := h.pathInt(w, r, "clubID")
	if !ok {
		return
	}
	var req taskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actor, _ := authz.UserFromContext(r.Context())
	task, err := h.service.Create(r.Context(), actor.ID, clubID, req.Title, req.Description, req.AssigneeID, req.DueAt)
	if err != nil {
		h.writeError(w, err, "create task")
		return
	}
	httpx.JSON(w, http.StatusCreated, toTaskResponse(task))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathInt(w, r, "id")
	if !ok {
		return
	}
	var req taskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actor, _ := authz.UserFromContext(r.Context())
	if err := h.service.Update(r.Context(), actor.ID, id, req.Title, req.Description, req.DueAt); err != nil {
		h.writeError(w, err, "update task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type assignRequest struct {
	AssigneeID *int64 `json:"assignee_id"`
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathInt(w, r, "id")
	if !ok {
		return
	}
	var req assignRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	actor, _ := authz.UserFromContext(r.Context())
	if err := h.service.Assign(r.Context(), actor.ID, id, req.AssigneeID); err != nil {
		h.writeError(w, err, "assign task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type transitionRequest struct {
	Status Status `json:"status" validate:"required,oneof=pending in_progress completed"`
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathInt(w, r, "id")
	if !ok {
		return
	}
	var req transitionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actor, _ := authz.UserFromContext(r.Context())
	if err := h.service.Transition(r.Context(), actor, id, req.Status); err != nil {
		h.writeError(w, err, "transition task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathInt(w, r, "id")
	if !ok {
		return
	}
	actor, _ := authz.UserFromContext(r.Context())
	if err := h.service.Delete(r.Context(), actor.ID, id); err != nil {
		h.writeError(w, err, "delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathInt(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || v <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", name+" must be a positive integer")
		return 0, false
	}
	return v, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "task not found")
	case errors.Is(err, ErrBadTransition):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Transition", err.Error())
	case errors.Is(err, shared.ErrForbidden):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "not allowed to change this task")
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
