package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "json", cfg.Server.LogFormat)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 30*time.Second, cfg.Security.AuthorizationWindow)
	require.Equal(t, 15*time.Minute, cfg.Auth.JWT.TTL)
	require.False(t, cfg.Email.SMTP.Enabled)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`
server:
  port: 9090
  log_level: debug
device:
  token: sensor-secret
security:
  authorization_window: 45s
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, "sensor-secret", cfg.Device.Token)
	require.Equal(t, 45*time.Second, cfg.Security.AuthorizationWindow)
}
