package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillbridge-web/internal/config"
	"skillbridge-web/internal/domain"
	"skillbridge-web/internal/handler"
	"skillbridge-web/internal/messaging"
	"skillbridge-web/internal/middleware"
	"skillbridge-web/internal/observability"
	"skillbridge-web/internal/repository/memory"
	"skillbridge-web/internal/repository/postgres"
	redisrepo "skillbridge-web/internal/repository/redis"
	"skillbridge-web/internal/session"
	"skillbridge-web/internal/upstream"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "json"
	}
	observability.InitLogger(logLevel, logFormat)

	slog.Info("starting skillbridge web gateway",
		slog.String("backend", cfg.APIBaseURL),
		slog.String("session_backend", cfg.SessionBackend))

	tokens, cleanup := buildTokenRepository(cfg)
	defer cleanup()

	backend := upstream.NewClient(cfg.APIBaseURL, cfg.UpstreamTimeout)

	var events messaging.Publisher = messaging.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		rmq, err := messaging.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			slog.Error("failed to connect to rabbitmq", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer rmq.Close()
		events = rmq
		slog.Info("event publishing enabled")
	}

	sessions := session.NewStore(tokens, backend, events)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTokenSweep(ctx, tokens)

	authHandler := handler.NewAuthHandler(sessions)
	courseHandler := handler.NewCourseHandler(backend, events)
	contentHandler := handler.NewContentHandler(backend, events)
	gradingHandler := handler.NewGradingHandler(backend, events)

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.CORS(middleware.ParseOrigins(cfg.AllowedOrigins)))
	r.Use(middleware.Metrics())
	r.Use(middleware.OpenAPIValidator(middleware.DefaultOpenAPIValidatorConfig()))

	r.Get("/health", handler.Health)
	r.Get("/health/ready", handler.Ready(tokens, backend))
	r.Handle("/metrics", promhttp.Handler())

	// Page routes: the guard runs before any page is served
	r.Group(func(r chi.Router) {
		r.Use(middleware.RouteGuard())

		r.Get("/", servePage("./static/index.html"))
		r.Get("/login", servePage("./static/login.html"))
		r.Get("/dashboard", servePage("./static/dashboard.html"))
		r.Get("/dashboard/*", servePage("./static/dashboard.html"))
	})

	// Block all other routes to prevent access to files we're not explicitly serving
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	r.Route("/api/v1", func(r chi.Router) {
		authLimiter := middleware.NewRateLimiter(ctx, 5, 10)
		apiLimiter := middleware.NewRateLimiter(ctx, 20, 50)

		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware())
			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/login", authHandler.Login)
			// logout is deliberately unauthenticated: clearing a dead session is a no-op
			r.Post("/auth/logout", authHandler.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(sessions))
			r.Use(apiLimiter.Middleware())

			r.Get("/auth/me", authHandler.Me)

			r.Get("/courses", courseHandler.List)
			r.Get("/courses/{id}", courseHandler.Detail)
			r.Post("/courses/{id}/enroll", courseHandler.Enroll)
			r.Get("/user/my-courses", courseHandler.MyCourses)
			r.Post("/courses/assignments/{id}/submit", contentHandler.Submit)

			mentorOnly := middleware.RequireRole(domain.RoleMentor, domain.RoleAdmin)
			r.With(mentorOnly).Post("/courses", courseHandler.Create)
			r.With(mentorOnly).Post("/courses/{id}/modules", contentHandler.AddModule)
			r.With(mentorOnly).Post("/courses/{id}/assignments", contentHandler.AddAssignment)
			r.With(mentorOnly).Delete("/courses/modules/{id}", contentHandler.DeleteModule)
			r.With(mentorOnly).Delete("/courses/assignments/{id}", contentHandler.DeleteAssignment)
			r.With(mentorOnly).Get("/courses/{id}/submissions", gradingHandler.Submissions)
			r.With(mentorOnly).Post("/courses/assignments/{id}/grade", gradingHandler.Grade)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("gateway listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", slog.String("error", err.Error()))
	}

	cancel()

	slog.Info("server stopped gracefully")
}

// buildTokenRepository wires the configured session backend and returns the
// repository plus a cleanup function for its connections.
func buildTokenRepository(cfg *config.Config) (domain.TokenRepository, func()) {
	switch cfg.SessionBackend {
	case config.BackendPostgres:
		db, err := config.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		repo, err := postgres.NewTokenRepository(db)
		if err != nil {
			slog.Error("failed to prepare token repository", slog.String("error", err.Error()))
			os.Exit(1)
		}
		slog.Info("connected to postgresql")
		return repo, func() { db.Close() }

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			slog.Error("redis ping failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		slog.Info("connected to redis")
		return redisrepo.NewTokenRepository(client), func() { client.Close() }

	default:
		return memory.NewTokenRepository(), func() {}
	}
}

// servePage serves a single static page
func servePage(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, path)
	}
}

// startTokenSweep runs a background task that deletes expired session tokens
func startTokenSweep(ctx context.Context, tokens domain.TokenRepository) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping token sweep task")
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			count, err := tokens.DeleteExpired(sweepCtx)
			if err != nil {
				slog.Error("token sweep failed", slog.String("error", err.Error()))
			} else if count > 0 {
				slog.Info("token sweep completed", slog.Int64("tokens_deleted", count))
			}
			cancel()
		}
	}
}
