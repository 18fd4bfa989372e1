// Package testserver fakes the remote spreadsheet-backed endpoint for
// tests. It accepts url-encoded posts, keeps an in-memory counter and
// record log, and acknowledges out of band through a transport.Bridge,
// the way the real endpoint reaches back through the ack channel. The
// HTTP responses it returns are deliberately useless to the caller.
package testserver

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/IssaParty/cinque-for-congress-sub000/internal/transport"
	"github.com/google/uuid"
)

// Remote is the fake endpoint.
type Remote struct {
	Server *httptest.Server

	bridge *transport.Bridge
	origin string

	mu       sync.Mutex
	count    int64
	records  []url.Values
	requests int
	silent   bool
}

// New starts a fake endpoint that acknowledges via bridge, claiming the
// given origin.
func New(t *testing.T, bridge *transport.Bridge, origin string) *Remote {
	t.Helper()

	remote := &Remote{bridge: bridge, origin: origin}
	remote.Server = httptest.NewServer(http.HandlerFunc(remote.handle))
	t.Cleanup(remote.Server.Close)
	return remote
}

func (r *Remote) handle(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	requestID := req.PostForm.Get("requestId")

	r.mu.Lock()
	r.requests++
	silent := r.silent

	var ack transport.Ack
	switch transport.Action(req.PostForm.Get("action")) {
	case transport.ActionGetCount:
		n := r.count
		ack = transport.Ack{RequestID: requestID, Success: true, Count: &n}
	case transport.ActionIncrement:
		r.count++
		n := r.count
		ack = transport.Ack{RequestID: requestID, Success: true, Count: &n}
	case transport.ActionSyncCheck:
		n := r.count
		ack = transport.Ack{RequestID: requestID, Success: true, Synced: true, ActualCount: &n}
	default:
		r.records = append(r.records, req.PostForm)
		ack = transport.Ack{RequestID: requestID, Success: true, ID: uuid.NewString()}
	}
	r.mu.Unlock()

	if !silent {
		go r.bridge.Publish(r.origin, ack)
	}

	// The caller must treat this as opaque; return redirect-flavored noise.
	w.WriteHeader(http.StatusFound)
	_, _ = w.Write([]byte("<html><body>Moved Temporarily</body></html>"))
}

// Silence makes the endpoint swallow requests without acknowledging,
// simulating an unreachable ack channel.
func (r *Remote) Silence(silent bool) {
	r.mu.Lock()
	r.silent = silent
	r.mu.Unlock()
}

// SetCount seeds the authoritative counter.
func (r *Remote) SetCount(n int64) {
	r.mu.Lock()
	r.count = n
	r.mu.Unlock()
}

// Count returns the authoritative counter.
func (r *Remote) Count() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Records returns the submissions received so far.
func (r *Remote) Records() []url.Values {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]url.Values, len(r.records))
	copy(out, r.records)
	return out
}

// Requests returns how many posts the endpoint has seen.
func (r *Remote) Requests() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests
}
