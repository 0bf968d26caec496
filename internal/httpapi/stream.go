package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/scimtools/scimwatch/internal/logstore"
)

// handleStream serves the live entry stream over SSE. One connected ack is
// sent immediately, then one log event per accepted entry until the client
// disconnects or the subscriber falls behind and is dropped by the hub.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sub := s.store.Stream(f)
	defer sub.Close()

	heartbeat := s.clock.Ticker(s.heartbeat)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case event, open := <-sub.Events():
			if !open {
				// Dropped by the hub for falling behind.
				return
			}
			name := "log"
			if event.Kind == logstore.EventConnected {
				name = "connected"
			}
			if err := writeSSE(w, name, event.Entry); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, event string, payload any) error {
	data := []byte("{}")
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		data = encoded
	}
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
