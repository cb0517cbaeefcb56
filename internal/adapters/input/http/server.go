package http

import (
	"context"
	"encoding/json"
	"errors"
	"magic-dashboard/internal/domain/model"
	"magic-dashboard/internal/infrastructure/logging"
	"magic-dashboard/internal/ports"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	wherePrefix     = "where."
	shutdownTimeout = 5 * time.Second
	maxConfigBody   = 1 << 20
)

type Server struct {
	dashboard ports.DashboardPort
	logger    *logging.Logger
	timeout   time.Duration
}

// NewServer serves dashboard over HTTP. A positive timeout bounds every
// request, including regenerations triggered by it.
func NewServer(dashboard ports.DashboardPort, logger *logging.Logger, timeout time.Duration) *Server {
	return &Server{
		dashboard: dashboard,
		logger:    logger.With("component", "http"),
		timeout:   timeout,
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/entities", s.handleEntities)
		r.Get("/entities/{id}", s.handleEntity)
	})
	r.Route("/admin", func(r chi.Router) {
		r.Get("/config", s.handleGetConfig)
		r.Post("/config", s.handleUpdateConfig)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var dash *model.Dashboard
	var err error
	if refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); refresh {
		dash, err = s.dashboard.Generate(r.Context())
	} else {
		dash, err = s.dashboard.Dashboard(r.Context())
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	records, err := s.dashboard.Entities(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if records == nil {
		records = model.Records{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleEntity(w http.ResponseWriter, r *http.Request) {
	record, err := s.dashboard.Entity(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.dashboard.GetConfig(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg model.Config
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxConfigBody)).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid config: "+err.Error())
		return
	}
	resp := configResponse{Config: &cfg, Regenerated: true}
	if err := s.dashboard.UpdateConfig(r.Context(), &cfg); err != nil {
		if !errors.Is(err, ports.ErrConfigNotApplied) {
			s.writeServiceError(w, err)
			return
		}
		s.logger.Warn("config saved, regeneration failed", "error", err)
		resp.Regenerated = false
		resp.Warning = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// configResponse answers POST /admin/config. The config is stored whenever the
// status is 200; Regenerated is false when the dashboard could not be rebuilt.
type configResponse struct {
	Config      *model.Config `json:"config"`
	Regenerated bool          `json:"regenerated"`
	Warning     string        `json:"warning,omitempty"`
}

// parseFilter reads domain, area, platform, include_hidden and where.<path>
// query parameters. where values compare as strings.
func parseFilter(r *http.Request) (ports.EntityFilter, error) {
	q := r.URL.Query()
	filter := ports.EntityFilter{
		Domain:   q.Get("domain"),
		AreaID:   q.Get("area"),
		Platform: q.Get("platform"),
	}
	if raw := q.Get("include_hidden"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errors.New("include_hidden must be a boolean")
		}
		filter.IncludeHidden = v
	}
	for key, values := range q {
		path, ok := strings.CutPrefix(key, wherePrefix)
		if !ok || path == "" || len(values) == 0 {
			continue
		}
		if filter.Properties == nil {
			filter.Properties = make(map[string]any)
		}
		filter.Properties[path] = values[0]
	}
	return filter, nil
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ports.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, ports.ErrEntityNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
