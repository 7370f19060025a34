// Package server exposes the on-demand sync trigger and the visit record API over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kansen-app/kansen/internal/game"
	"github.com/kansen-app/kansen/internal/logger"
	"github.com/kansen-app/kansen/internal/pipeline"
)

// Syncer runs sync passes for single dates
type Syncer interface {
	SyncDate(ctx context.Context, date string) (pipeline.MonthReport, error)
	EnsureDate(ctx context.Context, date string) (pipeline.MonthReport, bool, error)
}

// Store is the subset of the game store the API reads and writes
type Store interface {
	GamesOn(ctx context.Context, date string) ([]*game.Game, error)
	GameByCode(ctx context.Context, code string) (*game.Game, error)
	Records(ctx context.Context) ([]*game.Record, error)
	AddRecord(ctx context.Context, gameID int64, memo string) (*game.Record, error)
	DeleteRecords(ctx context.Context, ids []int64) (int64, error)
	Ping(ctx context.Context) error
}

// Config holds the server's dependencies and settings
type Config struct {
	Addr            string
	CORSOrigins     []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	Syncer          Syncer
	Store           Store
	Logger          *logger.Logger
	Metrics         *logger.Metrics
}

// Server is the HTTP trigger
type Server struct {
	cfg     Config
	log     *logger.Logger
	metrics *logger.Metrics
	router  chi.Router
}

// New creates a Server and builds its routes
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 15 * time.Second
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	s := &Server{
		cfg:     cfg,
		log:     cfg.Logger,
		metrics: cfg.Metrics,
	}
	if s.log == nil {
		s.log = logger.Default()
	}
	if s.metrics == nil {
		s.metrics = logger.DefaultMetrics()
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/scrape", s.handleScrape)
		r.Get("/games", s.handleGames)
		r.Get("/teams", s.handleTeams)
		r.Get("/stats", s.handleStats)

		r.Route("/records", func(r chi.Router) {
			r.Get("/", s.handleListRecords)
			r.Post("/", s.handleAddRecord)
			r.Delete("/", s.handleDeleteRecords)
			r.Get("/calendar.ics", s.handleRecordsCalendar)
		})
	})

	return r
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", logger.Fields{"addr": s.cfg.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.metrics.RecordTiming("http."+r.Method, time.Since(start))
		s.log.Info("http request", logger.Fields{
			"request_id":  middleware.GetReqID(r.Context()),
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"bytes":       ww.BytesWritten(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}
