package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rohittgajula/IMDB-clone/internal/auth"
	"github.com/rohittgajula/IMDB-clone/internal/config"
	"github.com/rohittgajula/IMDB-clone/internal/metrics"
	"github.com/rohittgajula/IMDB-clone/internal/repository"
	"github.com/rohittgajula/IMDB-clone/internal/store"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg     config.Config
	store   *store.Store
	repo    *repository.Repository
	tokens  *auth.TokenManager
	metrics *metrics.Metrics
	logger  *zap.Logger
	router  chi.Router
	httpSrv *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, st *store.Store, repo *repository.Repository, tokens *auth.TokenManager, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}

	r := chi.NewRouter()
	s := &Server{
		cfg:     cfg,
		store:   st,
		repo:    repo,
		tokens:  tokens,
		metrics: m,
		logger:  logger,
		router:  r,
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(s.instrument)
	r.Use(s.identify)

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	s.router.Route("/stream", func(r chi.Router) {
		r.Get("/", s.handleListPlatforms)
		r.Post("/", s.handleCreatePlatform)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetPlatform)
			r.Put("/", s.handleUpdatePlatform)
			r.Delete("/", s.handleDeletePlatform)
		})
	})

	s.router.Route("/review/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetReview)
		r.Put("/", s.handleUpdateReview)
		r.Delete("/", s.handleDeleteReview)
	})

	s.router.Get("/list", s.handleListWatchlist)
	s.router.Post("/list", s.handleCreateWatchlistItem)
	s.router.Route("/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetWatchlistItem)
		r.Put("/", s.handleUpdateWatchlistItem)
		r.Delete("/", s.handleDeleteWatchlistItem)
		r.Get("/reviews", s.handleListReviews)
		r.Post("/review-create", s.handleCreateReview)
	})
}

// Handler exposes the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start boots the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.httpSrv.Addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		s.respondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Database unavailable")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
