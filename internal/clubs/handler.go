package clubs

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

// Handler serves club endpoints.
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

// MountRoutes registers club routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/clubs", h.handleList)
	r.Get("/clubs/{id}", h.handleGet)
	r.Get("/clubs/{id}/dashboard", h.handleDashboard)
	r.With(h.guard.RequireAny(authz.PermCreateClub)).Post("/clubs", h.handleCreate)
	r.With(h.guard.RequireAny(authz.PermEditClub)).Put("/clubs/{id}", h.handleUpdate)
	r.With(h.guard.RequireAny(authz.PermAssignRole)).Post("/clubs/{id}/leader", h.handleSetLeader)
	r.With(h.guard.RequireAny(authz.PermDeleteClub)).Delete("/clubs/{id}", h.handleDelete)
}

type clubResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LeaderID    *int64    `json:"leader_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toClubResponse(c Club) clubResponse {
	return clubResponse{ID: c.ID, Name: c.Name, Description: c.Description, LeaderID: c.LeaderID, CreatedAt: c.CreatedAt}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list clubs", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]clubResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toClubResponse(c))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"clubs": out})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	club, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "get club")
		return
	}
	httpx.JSON(w, http.StatusOK, toClubResponse(club))
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	d, err := h.service.GetDashboard(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "club dashboard")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"club":              toClubResponse(d.Club),
		"member_count":      d.MemberCount,
		"open_tasks":        d.OpenTasks,
		"upcoming_meetings": d.UpcomingMeet,
		"file_count":        d.FileCount,
	})
}

type clubRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	LeaderID    *int64 `json:"leader_id"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req clubRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actor, _ := authz.UserFromContext(r.Context())
	club, err := h.service.Create(r.Context(), actor.ID, req.Name, req.Description, req.LeaderID)
	if err != nil {
		h.writeError(w, err, "create club")
		return
	}
	httpx.JSON(w, http.StatusCreated, toClubResponse(club))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req clubRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actor, _ := authz.UserFromContext(r.Context())
	if err := h.service.Update(r.Context(), actor.ID, id, req.Name, req.Description); err != nil {
		h.writeError(w, err, "update club")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setLeaderRequest struct {
	LeaderID *int64 `json:"leader_id"`
}

func (h *Handler) handleSetLeader(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req setLeaderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	actor, _ := authz.UserFromContext(r.Context())
	if err := h.service.SetLeader(r.Context(), actor.ID, id, req.LeaderID); err != nil {
		h.writeError(w, err, "set leader")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	actor, _ := authz.UserFromContext(r.Context())
	if err := h.service.Delete(r.Context(), actor.ID, id); err != nil {
		h.writeError(w, err, "delete club")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "club id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "club not found")
	case errors.Is(err, ErrNameTaken):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
