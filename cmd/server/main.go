package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"udyokta.backend/internal/config"
	domainRepos "udyokta.backend/internal/domain/repositories"
	"udyokta.backend/internal/infrastructure/datasources"
	"udyokta.backend/internal/infrastructure/jobs"
	"udyokta.backend/internal/infrastructure/repositories"
	"udyokta.backend/internal/interfaces/http/handlers"
	"udyokta.backend/internal/interfaces/http/middleware"
	"udyokta.backend/internal/usecases"
	"udyokta.backend/pkg/crypto"
	"udyokta.backend/pkg/jwt"
	"udyokta.backend/pkg/logger"
	"udyokta.backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

var (
	loadDotenv      = godotenv.Load
	loadCfg         = config.Load
	initLog         = logger.Init
	initRedis       = redis.Init
	openDB          = datasources.NewConnection
	newSessionStore = redis.NewSessionStore
	runServer       = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env, cfg.Log.File)
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		logger.Warn(context.Background(), "Invalid log level, keeping default", zap.String("level", cfg.Log.Level))
	}
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStateStore(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info(ctx, "State store ready", zap.String("backend", cfg.State.Backend))

	secret, err := crypto.NewSecretVerifier(cfg.Security.SystemSecretCode, cfg.Security.SystemSecretHash)
	if err != nil {
		return fmt.Errorf("failed to initialize secret verifier: %w", err)
	}

	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}
	sessionRepo := repositories.NewSessionRepository(sessionStore, cfg.Security.SessionTTL)

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	ws := usecases.NewWorkspace(store)
	if err := ws.Load(ctx); err != nil {
		return fmt.Errorf("failed to load workspace: %w", err)
	}

	// Usecases
	identityUsecase := usecases.NewIdentityUsecase(ws, secret)
	roleUsecase := usecases.NewRoleUsecase(ws)
	investmentUsecase := usecases.NewInvestmentUsecase(ws)
	noticeUsecase := usecases.NewNoticeUsecase(ws)
	dashboardUsecase := usecases.NewDashboardUsecase(ws)
	settingsUsecase := usecases.NewSettingsUsecase(ws)

	reloadJob := jobs.NewStateReloadJob(ws, cfg.State.ReloadInterval)
	if err := reloadJob.Start(ctx); err != nil {
		return fmt.Errorf("failed to start state reload job: %w", err)
	}
	defer reloadJob.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r, cfg.Server.AllowedOrigins...)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:       handlers.NewAuthHandler(identityUsecase, noticeUsecase, jwtService, sessionRepo),
		investmentHandler: handlers.NewInvestmentHandler(investmentUsecase),
		noticeHandler:     handlers.NewNoticeHandler(noticeUsecase),
		dashboardHandler:  handlers.NewDashboardHandler(dashboardUsecase),
		settingsHandler:   handlers.NewSettingsHandler(settingsUsecase),
		adminHandler:      handlers.NewAdminHandler(roleUsecase),
		sessionMiddleware: middleware.SessionMiddleware(jwtService, sessionRepo),
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)
		select {
		case <-quit:
		case <-ctx.Done():
			return
		}
		logger.Info(context.Background(), "Shutting down server")
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "Server shutdown failed", zap.Error(err))
		}
		if err := redis.Close(); err != nil {
			logger.Warn(shutdownCtx, "Redis close failed", zap.Error(err))
		}
	}()

	logger.Info(ctx, "Udyokta backend starting",
		zap.String("port", cfg.Server.Port),
		zap.String("api", "/api/v1"),
		zap.String("health", "/health"),
	)

	if err := runServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// openStateStore selects the persistence backend for the workspace
func openStateStore(ctx context.Context, cfg *config.Config) (domainRepos.StateStore, error) {
	switch cfg.State.Backend {
	case config.BackendRedis:
		return repositories.NewRedisStateStore(cfg.State.RedisKey), nil
	case config.BackendPostgres, config.BackendSQLite:
		db, err := openDB(cfg.State.Backend, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		store := repositories.NewStateStore(db)
		if err := store.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("failed to migrate state table: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.State.Backend)
	}
}
