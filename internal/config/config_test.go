package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CINQUE_ENDPOINT_URL", "https://script.google.com/macros/s/test/exec")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, cfg.Endpoint.AckWindow())
	require.Equal(t, 5*time.Minute, cfg.Cache.Timeout())
	require.Equal(t, 2*time.Minute, cfg.Cache.SyncInterval())
	require.Contains(t, cfg.Endpoint.AllowedOrigins, "https://script.google.com")
	require.Equal(t, "relay.db", cfg.Store.Path)
}

func TestLoad_MissingEndpoint(t *testing.T) {
	t.Setenv("CINQUE_ENDPOINT_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CINQUE_ENDPOINT_URL", "https://script.google.com/macros/s/test/exec")
	t.Setenv("CINQUE_BRIDGE_PORT", "9000")
	t.Setenv("CINQUE_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CINQUE_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Bridge.Port)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Endpoint.AllowedOrigins)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("CINQUE_ENDPOINT_URL", "https://script.google.com/macros/s/test/exec")
	t.Setenv("CINQUE_BRIDGE_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
endpoint:
  url: https://script.google.com/macros/s/from-file/exec
  ack_window_seconds: 3
cache:
  timeout_seconds: 60
store:
  path: /tmp/from-file.db
`), 0o600))
	t.Setenv("CINQUE_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://script.google.com/macros/s/from-file/exec", cfg.Endpoint.URL)
	require.Equal(t, 3*time.Second, cfg.Endpoint.AckWindow())
	require.Equal(t, time.Minute, cfg.Cache.Timeout())
	require.Equal(t, "/tmp/from-file.db", cfg.Store.Path)
}
