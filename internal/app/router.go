package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/audit"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/auth"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/clubs"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/files"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/meetings"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/members"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/notifications"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/observability"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/tasks"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/users"
	"github.com/HappyHackingSpace/CommunityHub-sub001/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler          *auth.Handler
	UsersHandler         *users.Handler
	ClubsHandler         *clubs.Handler
	MembersHandler       *members.Handler
	TasksHandler         *tasks.Handler
	MeetingsHandler      *meetings.Handler
	FilesHandler         *files.Handler
	NotificationsHandler *notifications.Handler
	AuditHandler         *audit.Handler
	JobHandler           *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with CommunityHub defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/api", func(r chi.Router) {
		params.UsersHandler.MountRoutes(r)
		params.ClubsHandler.MountRoutes(r)
		params.MembersHandler.MountRoutes(r)
		params.TasksHandler.MountRoutes(r)
		params.MeetingsHandler.MountRoutes(r)
		params.FilesHandler.MountRoutes(r)
		params.NotificationsHandler.MountRoutes(r)
		params.AuditHandler.MountRoutes(r)
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
