package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/app"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/audit"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/auth"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/authz"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/clubs"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/files"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/meetings"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/members"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/notifications"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/observability"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/platform/cache"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/platform/db"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/tasks"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/users"
	"github.com/HappyHackingSpace/CommunityHub-sub001/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "communityhub_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	auditLogger := shared.NewAuditLogger(dbpool)
	idempotencyStore := shared.NewIdempotencyStore(dbpool)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, jobClient)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	grantStore := authz.NewRepository(dbpool)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, grantStore, auditLogger)

	guard := authz.Middleware{Resolver: usersService, Logger: logger}
	usersHandler := users.NewHandler(logger, usersService, guard)

	clubsRepo := clubs.NewRepository(dbpool)
	clubsService := clubs.NewService(clubsRepo, auditLogger)
	clubsHandler := clubs.NewHandler(logger, clubsService, guard)

	membersRepo := members.NewRepository(dbpool)
	membersService := members.NewService(membersRepo, auditLogger)
	membersHandler := members.NewHandler(logger, membersService, guard)

	tasksRepo := tasks.NewRepository(dbpool)
	tasksService := tasks.NewService(tasksRepo, auditLogger)
	tasksHandler := tasks.NewHandler(logger, tasksService, guard)

	meetingsRepo := meetings.NewRepository(dbpool)
	meetingsService := meetings.NewService(meetingsRepo, auditLogger)
	meetingsHandler := meetings.NewHandler(logger, meetingsService, guard)

	filesRepo := files.NewRepository(dbpool)
	filesService := files.NewService(filesRepo, auditLogger, cfg.MediaBaseURL)
	filesHandler := files.NewHandler(logger, filesService, guard)

	notificationsRepo := notifications.NewRepository(dbpool)
	notificationsService := notifications.NewService(notificationsRepo, jobClient, idempotencyStore, auditLogger)
	notificationsHandler := notifications.NewHandler(logger, notificationsService, guard)

	auditRepo := audit.NewRepository(dbpool)
	auditService := audit.NewService(auditRepo)
	auditHandler := audit.NewHandler(logger, auditService, guard)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		SessionManager:       sessionManager,
		CSRFManager:          csrfManager,
		AuthHandler:          authHandler,
		UsersHandler:         usersHandler,
		ClubsHandler:         clubsHandler,
		MembersHandler:       membersHandler,
		TasksHandler:         tasksHandler,
		MeetingsHandler:      meetingsHandler,
		FilesHandler:         filesHandler,
		NotificationsHandler: notificationsHandler,
		AuditHandler:         auditHandler,
		JobHandler:           jobHandler,
		Metrics:              metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
