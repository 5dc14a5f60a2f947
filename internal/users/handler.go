package users

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

// Handler serves user administration endpoints.
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

// MountRoutes registers user routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny(authz.PermViewUsers))
		r.Get("/users", h.handleList)
		r.Get("/users/{id}", h.handleGet)
		r.Get("/users/{id}/permissions", h.handleListGrants)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny(authz.PermDeactivateUser))
		r.Post("/users/{id}/deactivate", h.handleDeactivate)
		r.Post("/users/{id}/activate", h.handleActivate)
	})
	r.With(h.guard.RequireAny(authz.PermAssignRole)).Post("/users/{id}/role", h.handleAssignRole)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny(authz.PermManagePermissions))
		r.Post("/users/{id}/permissions", h.handleGrant)
		r.Put("/users/{id}/permissions", h.handleSetAll)
		r.Delete("/users/{id}/permissions/{name}", h.handleRevoke)
	})
	r.With(h.guard.RequireAny(authz.PermManagePermissions)).Get("/permissions", h.handleCatalog)
}

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ClubID    *int64    `json:"club_id,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		ClubID:    u.ClubID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

type grantResponse struct {
	Permission  string     `json:"permission"`
	Description string     `json:"description,omitempty"`
	GrantedBy   int64      `json:"granted_by"`
	GrantedAt   time.Time  `json:"granted_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Active      bool       `json:"active"`
}

func toGrantResponses(grants []authz.Grant) []grantResponse {
	now := time.Now()
	out := make([]grantResponse, 0, len(grants))
	for _, g := range grants {
		resp := grantResponse{
			Permission: g.Permission,
			GrantedBy:  g.GrantedBy,
			GrantedAt:  g.GrantedAt,
			ExpiresAt:  g.ExpiresAt,
			Active:     g.Live(now),
		}
		if entry, ok := authz.Lookup(g.Permission); ok {
			resp.Description = entry.Description
		}
		out = append(out, resp)
	}
	return out
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	users, paging, err := h.service.ListUsers(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"users": out,
		"pagination": map[string]any{
			"page":        paging.Page,
			"per_page":    paging.PerPage,
			"total":       paging.Total,
			"total_pages": paging.TotalPages,
		},
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "get user")
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	actor, _ := authz.UserFromContext(r.Context())
	var err error
	if active {
		err = h.service.Activate(r.Context(), actor.ID, id)
	} else {
		err = h.service.Deactivate(r.Context(), actor.ID, id)
	}
	if err != nil {
		h.writeError(w, err, "set active")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type assignRoleRequest struct {
	Role   string `json:"role" validate:"required,oneof=admin club_leader member"`
	ClubID *int64 `json:"club_id"`
}

func (h *Handler) handleAssignRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req assignRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actor, _ := authz.UserFromContext(r.Context())
	if err := h.service.AssignRole(r.Context(), actor.ID, id, authz.Role(req.Role), req.ClubID); err != nil {
		h.writeError(w, err, "assign role")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListGrants(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	grants, err := h.service.ListGrants(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "list grants")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"permissions": toGrantResponses(grants)})
}

type grantRequest struct {
	Permission string     `json:"permission" validate:"required"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

func (h *Handler) handleGrant(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req grantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actor, _ := authz.UserFromContext(r.Context())
	if err := h.service.GrantPermission(r.Context(), actor.ID, id, req.Permission, req.ExpiresAt); err != nil {
		h.writeError(w, err, "grant permission")
		return
	}
	w.WriteHeader(http.StatusCreated)
}

type setPermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required"`
}

func (h *Handler) handleSetAll(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req setPermissionsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	actor, _ := authz.UserFromContext(r.Context())
	if err := h.service.SetPermissions(r.Context(), actor.ID, id, req.Permissions); err != nil {
		h.writeError(w, err, "set permissions")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	actor, _ := authz.UserFromContext(r.Context())
	if err := h.service.RevokePermission(r.Context(), actor.ID, id, name); err != nil {
		h.writeError(w, err, "revoke permission")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	byCategory := authz.ListByCategory()
	grouped := make([]map[string]any, 0, len(authz.Categories()))
	for _, cat := range authz.Categories() {
		grouped = append(grouped, map[string]any{
			"category":    cat,
			"permissions": byCategory[cat],
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"categories": grouped})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "user id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "user not found")
	case errors.Is(err, authz.ErrUnknownPermission):
		httpx.Problem(w, http.StatusBadRequest, "Unknown Permission", err.Error())
	case errors.Is(err, authz.ErrInvalidExpiry):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Expiry", err.Error())
	case errors.Is(err, authz.ErrDuplicateGrant):
		httpx.Problem(w, http.StatusConflict, "Duplicate Grant", err.Error())
	case authz.IsStoreError(err):
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Permission Store Unavailable", "")
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
