// Package httpapi exposes the monitor's admin surfaces over HTTP: recent
// entries, live streaming, downloads, level configuration and activity
// classification.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/scimtools/scimwatch/internal/activity"
	"github.com/scimtools/scimwatch/internal/domain"
	"github.com/scimtools/scimwatch/internal/logstore"
)

// Server wires the log store and classifier to the HTTP admin API
type Server struct {
	store      *logstore.Store
	classifier *activity.Classifier
	resolver   activity.NameResolver
	logger     *zap.Logger
	clock      clock.Clock
	router     *mux.Router
	heartbeat  time.Duration
}

// NewServer creates the admin API server. A nil clock selects the real
// clock; a nil logger selects zap.NewNop.
func NewServer(store *logstore.Store, resolver activity.NameResolver, logger *zap.Logger, clk clock.Clock) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.New()
	}
	s := &Server{
		store:      store,
		classifier: activity.NewClassifier(),
		resolver:   resolver,
		logger:     logger,
		clock:      clk,
		heartbeat:  30 * time.Second,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(s.requestLogging)

	r.HandleFunc("/api/logs", s.handleRecent).Methods(http.MethodGet)
	r.HandleFunc("/api/logs/download", s.handleDownload).Methods(http.MethodGet)
	r.HandleFunc("/api/logs/stream", s.handleStream).Methods(http.MethodGet)
	r.HandleFunc("/api/logs/clear", s.handleClear).Methods(http.MethodPost)

	r.HandleFunc("/api/logs/config", s.handleGetConfig).Methods(http.MethodGet)
	r.HandleFunc("/api/logs/config/global", s.handleSetGlobal).Methods(http.MethodPut)
	r.HandleFunc("/api/logs/config/category/{name}", s.handleSetCategory).Methods(http.MethodPut)
	r.HandleFunc("/api/logs/config/category/{name}", s.handleClearCategory).Methods(http.MethodDelete)
	r.HandleFunc("/api/logs/config/endpoint/{id}", s.handleSetEndpoint).Methods(http.MethodPut)
	r.HandleFunc("/api/logs/config/endpoint/{id}", s.handleClearEndpoint).Methods(http.MethodDelete)

	r.HandleFunc("/api/activity/classify", s.handleClassify).Methods(http.MethodPost)

	s.router = r
}

// Handler returns the configured HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// filterFromQuery builds an entry filter from the shared query parameters
func filterFromQuery(r *http.Request) (logstore.Filter, error) {
	var f logstore.Filter
	q := r.URL.Query()

	if level := q.Get("level"); level != "" {
		parsed, err := domain.ParseSeverity(level)
		if err != nil {
			return f, err
		}
		f.MinLevel = logstore.MinSeverity(parsed)
	}
	if category := q.Get("category"); category != "" {
		f.Category = domain.Category(category)
	}
	f.RequestID = q.Get("requestId")
	f.EndpointID = q.Get("endpointId")
	return f, nil
}

func limitFromQuery(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

type apiError struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, apiError{Error: msg})
}
