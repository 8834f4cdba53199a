// Package api provides the HTTP server the charting clients talk to.
//
// Response bodies are the bare scenario records, with no envelope, so the
// existing clients can render them unchanged. Whether a body is computed or
// demo data is reported in the X-Data-Source header.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/drawdownlabs/engine/internal/config"
	"github.com/drawdownlabs/engine/internal/engine"
)

// HeaderDataSource carries the engine.Origin of a response body.
const HeaderDataSource = "X-Data-Source"

const maxBodyBytes = 1 << 20

// Version is reported by /health. Set at build time.
var Version = "dev"

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	eng    *engine.Engine
	log    *slog.Logger
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, eng *engine.Engine, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	srv := &Server{cfg: cfg, eng: eng, log: log}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe serves on the configured address until ctx is cancelled or
// the process receives SIGINT/SIGTERM, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:         s.cfg.API.Addr(),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: s.cfg.API.RequestTimeout() + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api server listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(s.log.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	if timeout := s.cfg.API.RequestTimeout(); timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{HeaderDataSource, "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", s.handleGetConfig)

		// Market data
		r.Get("/stock/{ticker}", s.handleStock)
		r.Get("/chain/{ticker}/{date}", s.handleChain)

		// Scenarios
		r.Post("/analyze", scenarioHandler(s, s.eng.Analyze))
		r.Post("/greeks-profile", scenarioHandler(s, s.eng.GreeksProfile))
		r.Post("/vol-sim", scenarioHandler(s, s.eng.VolSim))
		r.Post("/hedging-calc", scenarioHandler(s, s.eng.Hedging))
		r.Post("/scenario", scenarioHandler(s, s.eng.Scenario))
		r.Post("/heatmap", scenarioHandler(s, s.eng.Heatmap))
	})

	return r
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "Drawdown Labs Engine Online"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	writeOutcome(s, w, s.eng.Stock(r.Context(), chi.URLParam(r, "ticker")))
}

func (s *Server) handleChain(w http.ResponseWriter, r *http.Request) {
	writeOutcome(s, w, s.eng.Chain(r.Context(), chi.URLParam(r, "ticker"), chi.URLParam(r, "date")))
}

// scenarioHandler decodes an engine.Request, runs the procedure and writes
// its outcome. Omitted fields take the engine.DefaultRequest values.
func scenarioHandler[T any](s *Server, run func(context.Context, engine.Request) engine.Outcome[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := engine.DefaultRequest()
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Ticker) == "" {
			s.writeError(w, http.StatusBadRequest, "ticker is required")
			return
		}
		writeOutcome(s, w, run(r.Context(), req))
	}
}

// ============================================================
// Helpers
// ============================================================

func writeOutcome[T any](s *Server, w http.ResponseWriter, out engine.Outcome[T]) {
	w.Header().Set(HeaderDataSource, string(out.Origin))
	s.writeJSON(w, http.StatusOK, out.Data)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to write JSON response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
