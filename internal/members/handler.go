package members

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/authz"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/platform/httpx"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

// Handler serves membership endpoints. Management routes check club scope
// per request since the club in question comes from the path.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   authz.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers membership routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Authenticate)
		r.Post("/clubs/{clubID}/join", h.handleJoin)
		r.Get("/clubs/{clubID}/members", h.handleList)
		r.Post("/clubs/{clubID}/members/{id}/approve", h.handleApprove)
		r.Post("/clubs/{clubID}/members/{id}/reject", h.handleReject)
		r.Delete("/clubs/{clubID}/members/{id}", h.handleRemove)
	})
}

func (h *Handler) handleJoin(w http.ResponseWriter, r *http.Request) {
	clubID, ok := h.pathInt(w, r, "clubID")
	if !ok {
		return
	}
	actor, _ := authz.UserFromContext(r.Context())
	id, err := h.service.Join(r.Context(), actor.ID, clubID)
	if err != nil {
		h.writeError(w, err, "join club")
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"membership_id": id, "status": StatusPending})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	clubID, ok := h.pathInt(w, r, "clubID")
	if !ok {
		return
	}
	status := Status(r.URL.Query().Get("status"))
	items, err := h.service.List(r.Context(), clubID, status)
	if err != nil {
		h.writeError(w, err, "list members")
		return
	}
	type response struct {
		ID       int64  `json:"id"`
		UserID   int64  `json:"user_id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Status   Status `json:"status"`
		JoinedAt string `json:"joined_at"`
	}
	out := make([]response, 0, len(items))
	for _, m := range items {
		out = append(out, response{
			ID:       m.ID,
			UserID:   m.UserID,
			Name:     m.UserName,
			Email:    m.UserEmail,
			Status:   m.Status,
			JoinedAt: m.JoinedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"members": out})
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.manage(w, r, func(actorID, id int64) error {
		return h.service.Approve(r.Context(), actorID, id)
	})
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.manage(w, r, func(actorID, id int64) error {
		return h.service.Reject(r.Context(), actorID, id)
	})
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	h.manage(w, r, func(actorID, id int64) error {
		return h.service.Remove(r.Context(), actorID, id)
	})
}

func (h *Handler) manage(w http.ResponseWriter, r *http.Request, op func(actorID, id int64) error) {
	clubID, ok := h.pathInt(w, r, "clubID")
	if !ok {
		return
	}
	id, ok := h.pathInt(w, r, "id")
	if !ok {
		return
	}
	actor, _ := authz.UserFromContext(r.Context())
	if !CanManage(actor, clubID) {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "not allowed to manage this club's members")
		return
	}
	membership, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "load membership")
		return
	}
	if membership.ClubID != clubID {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "membership not found")
		return
	}
	if err := op(actor.ID, id); err != nil {
		h.writeError(w, err, "manage membership")
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
		httpx.Problem(w, http.StatusNotFound, "Not Found", "membership not found")
	case errors.Is(err, ErrAlreadyMember):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
