package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dkeye/WatchParty/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "watchparty.log")
	closer := Setup("release", config.LogConfig{Level: "debug", File: file, MaxSizeMB: 1})
	t.Cleanup(func() {
		_ = closer.Close()
		Bootstrap()
	})

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	log.Info().Str("module", "test").Msg("hello file")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello file"`)
	assert.Contains(t, string(data), `"module":"test"`)
}

func TestSetupUnknownLevelFallsBack(t *testing.T) {
	closer := Setup("debug", config.LogConfig{Level: "loud"})
	t.Cleanup(func() {
		_ = closer.Close()
		Bootstrap()
	})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
