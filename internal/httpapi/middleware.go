package httpapi

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scimtools/scimwatch/internal/domain"
	"github.com/scimtools/scimwatch/internal/logstore"
)

// statusRecorder captures the response status for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush passes through so SSE responses keep streaming
func (r *statusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// requestLogging assigns each request an id, stamps the ambient request
// context and records the request into the store under the http category.
func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		endpointID := r.Header.Get("X-Endpoint-Id")
		ctx := logstore.WithRequest(r.Context(), requestID, endpointID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := s.clock.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))
		elapsed := s.clock.Now().Sub(start)

		s.store.Info(ctx, domain.CategoryHTTP,
			fmt.Sprintf("%s %s -> %d", r.Method, r.URL.Path, rec.status),
			map[string]any{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"durationMs": elapsed.Milliseconds(),
			})
		s.logger.Debug("request handled",
			zap.String("requestId", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", elapsed))
	})
}
