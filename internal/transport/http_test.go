package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func postAck(t *testing.T, srv *httptest.Server, origin, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/ack", strings.NewReader(body))
	require.NoError(t, err)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestAckServer_DeliversToPending(t *testing.T) {
	bridge := NewBridge([]string{testOrigin}, nil)
	srv := httptest.NewServer(NewServer(bridge))
	t.Cleanup(srv.Close)

	ch := bridge.register("req-1")

	resp := postAck(t, srv, testOrigin, `{"requestId":"req-1","success":true,"count":12}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	ack := <-ch
	require.True(t, ack.Success)
	require.NotNil(t, ack.Count)
	require.Equal(t, int64(12), *ack.Count)
}

func TestAckServer_RejectsForeignOrigin(t *testing.T) {
	bridge := NewBridge([]string{testOrigin}, nil)
	srv := httptest.NewServer(NewServer(bridge))
	t.Cleanup(srv.Close)

	bridge.register("req-1")

	resp := postAck(t, srv, "https://evil.example", `{"requestId":"req-1","success":true}`)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAckServer_LateAckAccepted(t *testing.T) {
	bridge := NewBridge([]string{testOrigin}, nil)
	srv := httptest.NewServer(NewServer(bridge))
	t.Cleanup(srv.Close)

	// No pending entry: the delivery already timed out.
	resp := postAck(t, srv, testOrigin, `{"requestId":"expired","success":true}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestAckServer_BadPayload(t *testing.T) {
	bridge := NewBridge([]string{testOrigin}, nil)
	srv := httptest.NewServer(NewServer(bridge))
	t.Cleanup(srv.Close)

	resp := postAck(t, srv, testOrigin, `not json`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postAck(t, srv, testOrigin, `{"success":true}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAckServer_Health(t *testing.T) {
	bridge := NewBridge([]string{testOrigin}, nil)
	srv := httptest.NewServer(NewServer(bridge))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
