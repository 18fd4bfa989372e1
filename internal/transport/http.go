package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Server receives out-of-band acknowledgments over HTTP and feeds them to
// the bridge. It stands in for the same-page message listener the browser
// integration uses: the remote side cannot answer the original request
// directly, but it can post a structured ack here.
type Server struct {
	bridge *Bridge
}

// NewServer creates the acknowledgment router.
func NewServer(bridge *Bridge) *chi.Mux {
	r := chi.NewRouter()

	srv := &Server{bridge: bridge}

	r.Post("/ack", srv.handleAck)
	r.Get("/health", srv.handleHealth)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleAck(w http.ResponseWriter, r *http.Request) {
	var ack Ack
	if err := json.NewDecoder(r.Body).Decode(&ack); err != nil {
		http.Error(w, "invalid acknowledgment", http.StatusBadRequest)
		return
	}
	if ack.RequestID == "" {
		http.Error(w, "missing requestId", http.StatusBadRequest)
		return
	}

	if err := s.bridge.Publish(r.Header.Get("Origin"), ack); err != nil {
		if errors.Is(err, ErrOriginRejected) {
			http.Error(w, "origin not allowed", http.StatusForbidden)
			return
		}
		// Unknown request id: the delivery already timed out. Nothing for
		// the remote side to do about it.
		w.WriteHeader(http.StatusAccepted)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
