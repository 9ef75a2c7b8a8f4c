package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"preview-api/internal/ai"
	"preview-api/internal/api"
	"preview-api/internal/auth"
	"preview-api/internal/config"
	"preview-api/internal/database"
	"preview-api/internal/events"
	"preview-api/internal/jobs"
	"preview-api/internal/logging"
	"preview-api/internal/seed"
)

const (
	appName    = "preview-api"
	appVersion = "1.0.0"
)

// app is the assembled server: database, HTTP routes and background jobs
type app struct {
	db        *gorm.DB
	router    *gin.Engine
	scheduler *jobs.Scheduler
	logger    *slog.Logger
}

func newVerifier(ctx context.Context, cfg *config.Config) (auth.TokenVerifier, []auth.Option, error) {
	opts := []auth.Option{auth.WithPublicPaths(api.PublicPaths...)}
	if cfg.IsLocal() {
		return auth.NewUnverifiedVerifier(), append(opts, auth.Permissive()), nil
	}
	fb, err := auth.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		return nil, nil, err
	}
	return auth.NewCachingVerifier(fb), opts, nil
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	db, err := database.Open(database.Settings{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN}, logger)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	if err := seed.Run(ctx, db, logger); err != nil {
		return nil, err
	}

	dispatcher := events.NewDispatcher(logger)
	dispatcher.SubscribeAll(events.LogHandler(logger))

	chat := ai.NewClient(ai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
		Timeout: cfg.OpenAI.Timeout,
	}, logger)
	svc := api.NewServices(db, dispatcher, chat, logger)

	migrated, err := svc.Users.MigrateRoles(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "migrate user roles")
	}
	if migrated > 0 {
		logger.InfoContext(ctx, "user roles migrated", slog.Int("count", migrated))
	}

	verifier, authOpts, err := newVerifier(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.IsLocal() {
		logger.WarnContext(ctx, "local auth mode: tokens are not verified and role checks are disabled")
	}
	authenticator := auth.NewAuthenticator(verifier, svc.Users, logger, authOpts...)

	router, err := api.NewRouter(db, svc, authenticator, logger, api.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AIRate:         cfg.RateLimit.AIRequestsPerSecond,
		AIBurst:        cfg.RateLimit.AIBurst,
		Info: map[string]any{
			"app":     map[string]any{"name": appName, "version": appVersion},
			"env":     cfg.Env,
			"started": time.Now().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, err
	}

	scheduler := jobs.NewScheduler(logger)
	if err := scheduler.ExpireSubscriptions(cfg.Jobs.SubscriptionExpiryCron, svc.Subscriptions); err != nil {
		return nil, err
	}

	return &app{db: db, router: router, scheduler: scheduler, logger: logger}, nil
}

func (a *app) close(ctx context.Context) {
	a.scheduler.Stop(ctx)
	if err := database.Close(a.db); err != nil {
		a.logger.WarnContext(ctx, "close database", slog.String("error", err.Error()))
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.Logging.Level, cfg.IsProduction())
	slog.SetDefault(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to start", slog.String("error", err.Error()))
		os.Exit(1)
	}
	application.scheduler.Start()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           application.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server", slog.String("addr", srv.Addr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}
	application.close(shutdownCtx)

	logger.Info("Server exiting")
}
