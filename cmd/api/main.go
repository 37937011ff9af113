// Package main is the entrypoint for the Baynext API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/baynext/baynext/internal/cache"
	"github.com/baynext/baynext/internal/config"
	"github.com/baynext/baynext/internal/handler"
	"github.com/baynext/baynext/internal/identity"
	"github.com/baynext/baynext/internal/metrics"
	"github.com/baynext/baynext/internal/middleware"
	"github.com/baynext/baynext/internal/repository"
	"github.com/baynext/baynext/internal/server"
	"github.com/baynext/baynext/internal/service"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	// Identity resolution chain
	provider := identity.NewClient(cfg.IdentityURL, cfg.IdentityServiceKey)
	resolver := identity.NewResolver(repo, repo, provider, logger)

	// Initialize services
	recorder := metrics.NewInMemory()
	projectService := service.NewProjectService(repo, recorder)
	keyService := service.NewKeyService(repo, recorder)
	datasetService := service.NewDatasetService(repo)
	pipelineService := service.NewPipelineService(repo)
	jobService := service.NewJobService(repo, recorder)

	// Initialize handlers
	h := handler.New(cfg.AppName, cfg.Version)
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	userHandler := handler.NewUserHandler()
	projectHandler := handler.NewProjectHandler(projectService, logger)
	keyHandler := handler.NewKeyHandler(keyService, projectService, logger)
	datasetHandler := handler.NewDatasetHandler(datasetService, projectService, logger)
	pipelineHandler := handler.NewPipelineHandler(pipelineService, projectService, logger)
	jobHandler := handler.NewJobHandler(jobService, projectService, logger)

	handlers := routeHandlers{
		root:     h,
		health:   healthHandler,
		user:     userHandler,
		project:  projectHandler,
		key:      keyHandler,
		dataset:  datasetHandler,
		pipeline: pipelineHandler,
		job:      jobHandler,
	}

	// Setup router
	r := setupRouter(handlers, resolver, cacheClient, recorder, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	// Connections close after in-flight requests drain.
	srv.OnShutdown("cache", func(ctx context.Context) error {
		return cacheClient.Close()
	})
	srv.OnShutdown("database", func(ctx context.Context) error {
		repo.Close()
		return nil
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"version", cfg.Version,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routeHandlers bundles the handlers the router wires up.
type routeHandlers struct {
	root     *handler.Handler
	health   *handler.HealthHandler
	user     *handler.UserHandler
	project  *handler.ProjectHandler
	key      *handler.KeyHandler
	dataset  *handler.DatasetHandler
	pipeline *handler.PipelineHandler
	job      *handler.JobHandler
}

// setupRouter configures the chi router with all routes and middleware.
// The route table is static; every endpoint is declared here.
func setupRouter(
	handlers routeHandlers,
	resolver *identity.Resolver,
	cacheClient *cache.Cache,
	recorder metrics.Recorder,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Probes and root info (no auth required)
	r.Get("/health", handlers.health.Health)
	r.Get("/readyz", handlers.health.Readyz)
	r.Get("/", handlers.root.Root)

	authCfg := middleware.AuthConfig{
		Logger:   logger,
		Resolver: resolver,
		Cache:    cacheClient,
		Metrics:  recorder,
	}

	// API v1 routes (require authentication)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))

		r.Get("/user/me", handlers.user.Me)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", handlers.project.List)
			r.Post("/", handlers.project.Create)
			r.Get("/{project_id}", handlers.project.Get)
			r.Delete("/{project_id}", handlers.project.Delete)

			r.Route("/{project_id}/keys", func(r chi.Router) {
				r.Get("/", handlers.key.List)
				r.Post("/", handlers.key.Create)
				r.Delete("/{key_id}", handlers.key.Revoke)
			})

			r.Route("/{project_id}/datasets", func(r chi.Router) {
				r.Get("/", handlers.dataset.List)
				r.Post("/", handlers.dataset.Create)
				r.Get("/{dataset_id}", handlers.dataset.Get)
				r.Delete("/{dataset_id}", handlers.dataset.Delete)
			})

			r.Route("/{project_id}/pipelines", func(r chi.Router) {
				r.Get("/", handlers.pipeline.List)
				r.Post("/", handlers.pipeline.Create)
				r.Get("/{pipeline_id}", handlers.pipeline.Get)
				r.Delete("/{pipeline_id}", handlers.pipeline.Delete)

				r.Route("/{pipeline_id}/jobs", func(r chi.Router) {
					r.Get("/", handlers.job.List)
					r.Post("/", handlers.job.Create)
					r.Get("/{job_id}", handlers.job.Get)
				})
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(handlers.root.NotFound)
	r.MethodNotAllowed(handlers.root.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
