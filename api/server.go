// Package api provides the HTTP REST API server for EuroPulse.
//
// It exposes endpoints for country metrics, summaries, rankings,
// year options, economic news, the automotive dataset, and WebSocket
// streaming of snapshot updates.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/seenimoa/europulse/internal/automotive"
	"github.com/seenimoa/europulse/internal/config"
	"github.com/seenimoa/europulse/internal/dashboard"
	"github.com/seenimoa/europulse/internal/datasource"
	"github.com/seenimoa/europulse/internal/logging"
	"github.com/seenimoa/europulse/internal/provider"
	"github.com/seenimoa/europulse/internal/ranking"
)

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	cfg     *config.Config
	agg     *dashboard.Aggregator
	session *dashboard.Session
	reg     *provider.Registry
	news    *datasource.News
	wsHub   *WSHub
	log     *logrus.Entry
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, reg *provider.Registry, agg *dashboard.Aggregator) *Server {
	srv := &Server{
		cfg:     cfg,
		agg:     agg,
		session: dashboard.NewSession(agg),
		reg:     reg,
		news:    datasource.NewNews(),
		wsHub:   NewWSHub(),
		log:     logging.Component("api"),
	}

	// Completed refreshes stream out to connected clients.
	srv.session.OnUpdate(func(snap *dashboard.Snapshot) {
		srv.wsHub.Broadcast(WSMessage{Type: "snapshot_updated", Data: snap})
	})

	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start WebSocket hub
	go s.wsHub.Run()

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-done:
	}
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Dashboard data
		r.Get("/metrics", s.handleMetrics)
		r.Get("/summary", s.handleSummary)
		r.Get("/rankings/{indicator}", s.handleRankings)
		r.Get("/years", s.handleYears)
		r.Get("/countries", s.handleCountries)
		r.Get("/indicators", s.handleIndicators)

		// Refresh
		r.Post("/refresh", s.handleRefresh)

		// News
		r.Get("/news", s.handleNews)

		// Automotive dataset
		r.Get("/automotive", s.handleAutomotiveTabs)
		r.Get("/automotive/{tab}", s.handleAutomotiveTab)

		// Providers
		r.Get("/providers", s.handleProviders)

		// WebSocket
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RefreshRequest is the body for POST /api/v1/refresh.
type RefreshRequest struct {
	Year string `json:"year,omitempty"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":  "ok",
			"version": Version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// snapshotFor serves the current snapshot when it matches the requested
// year, refreshing otherwise.
func (s *Server) snapshotFor(ctx context.Context, year string) (*dashboard.Snapshot, error) {
	if snap := s.session.Current(); snap != nil && snap.Year == year {
		return snap, nil
	}
	return s.session.Refresh(ctx, year)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshotFor(r.Context(), r.URL.Query().Get("year"))
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: snap})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshotFor(r.Context(), r.URL.Query().Get("year"))
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: snap.Summary})
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "indicator")
	spec, ok := s.agg.IndicatorSpec(key)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown indicator: "+key)
		return
	}

	snap, err := s.snapshotFor(r.Context(), r.URL.Query().Get("year"))
	if err != nil {
		writeLoadError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"indicator": spec.Key,
			"name":      spec.Name,
			"year":      snap.Year,
			"items":     ranking.Rank(snap.Countries, spec),
		},
	})
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	years := s.agg.YearOptions(r.Context())
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: years})
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: s.agg.Countries()})
}

func (s *Server) handleIndicators(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: s.agg.Indicators()})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	snap, err := s.session.Refresh(r.Context(), req.Year)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: snap})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	var (
		articles interface{}
		err      error
	)
	if country := r.URL.Query().Get("country"); country != "" {
		articles, err = s.news.GetCountryNews(r.Context(), country, limit)
	} else {
		articles, err = s.news.GetEconomicNews(r.Context(), limit)
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: articles})
}

func (s *Server) handleAutomotiveTabs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: automotive.Tabs()})
}

func (s *Server) handleAutomotiveTab(w http.ResponseWriter, r *http.Request) {
	tab := chi.URLParam(r, "tab")
	data, ok := automotive.Get(tab)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown tab: "+tab)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: s.reg.List()})
}

// ============================================================
// Helpers
// ============================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Component("api").WithError(err).Error("failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

// writeLoadError maps aggregation failures to status codes: a full
// LoadError means every upstream source failed.
func writeLoadError(w http.ResponseWriter, err error) {
	var lerr *dashboard.LoadError
	if errors.As(err, &lerr) {
		writeError(w, http.StatusBadGateway, lerr.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
