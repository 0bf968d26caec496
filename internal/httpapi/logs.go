package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/scimtools/scimwatch/internal/domain"
	"github.com/scimtools/scimwatch/internal/logstore"
)

// recentResponse is the recent-entries payload
type recentResponse struct {
	Count   int               `json:"count"`
	Entries []domain.LogEntry `json:"entries"`
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := limitFromQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit: %v", err))
		return
	}

	entries := s.store.Query(f, limit)
	if entries == nil {
		entries = []domain.LogEntry{}
	}
	s.writeJSON(w, http.StatusOK, recentResponse{Count: len(entries), Entries: entries})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	format, err := logstore.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if format == logstore.FormatJSON {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="logs.json"`)
	} else {
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Header().Set("Content-Disposition", `attachment; filename="logs.ndjson"`)
	}
	if err := s.store.Download(w, f, format); err != nil {
		s.logger.Warn("download aborted", zap.Error(err))
	}
}

func (s *Server) handleClear(w http.ResponseWriter, _ *http.Request) {
	s.store.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Config())
}

type levelRequest struct {
	Level string `json:"level"`
}

func decodeLevel(r *http.Request) (string, error) {
	var req levelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", fmt.Errorf("invalid body: %w", err)
	}
	if req.Level == "" {
		return "", fmt.Errorf("missing level")
	}
	return req.Level, nil
}

func (s *Server) handleSetGlobal(w http.ResponseWriter, r *http.Request) {
	level, err := decodeLevel(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.SetGlobalLevel(level); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.Config())
}

func (s *Server) handleSetCategory(w http.ResponseWriter, r *http.Request) {
	level, err := decodeLevel(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.SetCategoryLevel(mux.Vars(r)["name"], level); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.Config())
}

func (s *Server) handleClearCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ClearCategoryLevel(mux.Vars(r)["name"]); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.Config())
}

func (s *Server) handleSetEndpoint(w http.ResponseWriter, r *http.Request) {
	level, err := decodeLevel(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.SetEndpointLevel(mux.Vars(r)["id"], level); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.Config())
}

func (s *Server) handleClearEndpoint(w http.ResponseWriter, r *http.Request) {
	s.store.ClearEndpointLevel(mux.Vars(r)["id"])
	s.writeJSON(w, http.StatusOK, s.store.Config())
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var records []domain.RequestLogRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid body: %v", err))
		return
	}

	summaries := make([]domain.ActivitySummary, len(records))
	for i, record := range records {
		summaries[i] = s.classifier.Classify(r.Context(), record, s.resolver)
	}
	s.writeJSON(w, http.StatusOK, summaries)
}
