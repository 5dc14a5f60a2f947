package meetings

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

// Handler serves meeting endpoints.
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

// MountRoutes registers meeting routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Authenticate)
		r.Get("/clubs/{clubID}/meetings", h.handleList)
		r.Get("/meetings/{id}", h.handleGet)
		r.Get("/meetings/{id}/rsvps", h.handleListRSVPs)
		r.Post("/meetings/{id}/rsvp", h.handleReply)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny(authz.PermScheduleMeeting))
		r.Post("/clubs/{clubID}/meetings", h.handleSchedule)
		r.Delete("/meetings/{id}", h.handleCancel)
	})
}

type meetingResponse struct {
	ID          int64     `json:"id"`
	ClubID      int64     `json:"club_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
}

func toMeetingResponse(m Meeting) meetingResponse {
	return meetingResponse{
		ID:          m.ID,
		ClubID:      m.ClubID,
		Title:       m.Title,
		Description: m.Description,
		Location:    m.Location,
		StartsAt:    m.StartsAt,
		EndsAt:      m.EndsAt,
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	clubID, ok := h.pathInt(w, r, "clubID")
	if !ok {
		return
	}
	includePast := r.URL.Query().Get("include_past") == "true"
	items, err := h.service.ListByClub(r.Context(), clubID, includePast)
	if err != nil {
		h.writeError(w, err, "list meetings")
		return
	}
	out := make([]meetingResponse, 0, len(items))
	for _, m := range items {
		out = append(out, toMeetingResponse(m))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"meetings": out})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathInt(w, r, "id")
	if !ok {
		return
	}
	meeting, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "get meeting")
		return
	}
	httpx.JSON(w, http.StatusOK, toMeetingResponse(meeting))
}

type scheduleRequest struct {
	Title       string    `json:"title" validate:"required,max=300"`
	Description string    `json:"description" validate:"max=5000"`
	Location    string    `json:"location" validate:"max=500"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required"`
}

func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	clubID, ok := h.pathInt(w, r, "clubID")
	if !ok {
		return
	}
	var req scheduleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actor, _ := authz.UserFromContext(r.Context())
	meeting, err := h.service.Schedule(r.Context(), actor.ID, clubID, req.Title, req.Description, req.Location, req.StartsAt, req.EndsAt)
	if err != nil {
		h.writeError(w, err, "schedule meeting")
		return
	}
	httpx.JSON(w, http.StatusCreated, toMeetingResponse(meeting))
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathInt(w, r, "id")
	if !ok {
		return
	}
	actor, _ := authz.UserFromContext(r.Context())
	if err := h.service.Cancel(r.Context(), actor.ID, id); err != nil {
		h.writeError(w, err, "cancel meeting")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type replyRequest struct {
	Status RSVPStatus `json:"status" validate:"required,oneof=yes no maybe"`
}

func (h *Handler) handleReply(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathInt(w, r, "id")
	if !ok {
		return
	}
	var req replyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actor, _ := authz.UserFromContext(r.Context())
	if err := h.service.Reply(r.Context(), actor.ID, id, req.Status); err != nil {
		h.writeError(w, err, "rsvp")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListRSVPs(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathInt(w, r, "id")
	if !ok {
		return
	}
	items, err := h.service.ListRSVPs(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "list rsvps")
		return
	}
	type response struct {
		UserID    int64      `json:"user_id"`
		Name      string     `json:"name"`
		Status    RSVPStatus `json:"status"`
		RepliedAt time.Time  `json:"replied_at"`
	}
	out := make([]response, 0, len(items))
	for _, v := range items {
		out = append(out, response{UserID: v.UserID, Name: v.UserName, Status: v.Status, RepliedAt: v.RepliedAt})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"rsvps": out})
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
		httpx.Problem(w, http.StatusNotFound, "Not Found", "meeting not found")
	case errors.Is(err, ErrInvalidWindow), errors.Is(err, ErrPastMeeting):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Meeting", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
