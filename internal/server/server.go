// Package server exposes network growth and routing over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/TadaTeruki/transport-generation-experiment/internal/config"
	"github.com/TadaTeruki/transport-generation-experiment/pkg/growth"
	"github.com/TadaTeruki/transport-generation-experiment/pkg/network"
	"github.com/TadaTeruki/transport-generation-experiment/pkg/terrain"
)

const shutdownTimeout = 5 * time.Second

// Server holds the HTTP routes and the in-memory network store.
type Server struct {
	cfg    *config.Config
	logger *log.Logger
	store  *store
	router chi.Router

	// newTerrain builds the height field a network grows on
	newTerrain func(terrain.NoiseConfig) (terrain.Terrain, error)
}

func noiseTerrain(cfg terrain.NoiseConfig) (terrain.Terrain, error) {
	field, err := terrain.NewNoise(cfg)
	if err != nil {
		return nil, err
	}
	return field, nil
}

// New creates a Server. A nil logger discards output.
func New(cfg *config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		cfg:    cfg,
		logger: logger,
		store:  newStore(cfg.Server.MaxNetworks),

		newTerrain: noiseTerrain,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)
	r.Route("/networks", func(r chi.Router) {
		r.Get("/", s.handleListNetworks)
		r.Post("/", s.handleBuildNetwork)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetNetwork)
			r.Get("/lines", s.handleGetLines)
			r.Get("/geojson", s.handleGetGeoJSON)
			r.Post("/route", s.handleRoute)
		})
	})
	return r
}

// Handler returns the root http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Add registers an already grown network, e.g. one loaded from disk, and
// returns its ID.
func (s *Server) Add(net *network.Network, stats growth.Stats, seed int64) string {
	return s.store.add(net, stats, seed).ID
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start).Round(time.Microsecond))
	})
}
