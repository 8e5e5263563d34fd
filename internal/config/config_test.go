package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.True(t, cfg.HostOnlyMedia)
	assert.False(t, cfg.HostOnlyPlayback)
	assert.Equal(t, 5, cfg.ChatRateLimit)
	assert.Equal(t, time.Second, cfg.ChatRateInterval)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
mode: debug
port: 9000
host_only_media: false
ping_period: 10s
log:
  level: warn
`), 0o600))

	t.Setenv("WATCHPARTY_CHAT_RATE_LIMIT", "9")
	t.Setenv("WATCHPARTY_LOG_FILE", "/tmp/watchparty.log")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 8080, "")
	flags.String("mode", "release", "")
	require.NoError(t, flags.Parse([]string{"--port", "9100"}))

	cfg, err := Load(file, flags)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, 9100, cfg.Port)
	assert.False(t, cfg.HostOnlyMedia)
	assert.Equal(t, 10*time.Second, cfg.PingPeriod)
	assert.Equal(t, 9, cfg.ChatRateLimit)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/tmp/watchparty.log", cfg.Log.File)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(file, []byte("port: [not, a, number"), 0o600))

	_, err := Load(file, nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Port: 0, PingPeriod: time.Second}
	assert.Error(t, cfg.Validate())
	cfg.Port = 80
	assert.NoError(t, cfg.Validate())
	cfg.PingPeriod = 0
	assert.Error(t, cfg.Validate())
}
