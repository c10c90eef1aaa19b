package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.log")
	require.NoError(t, InitLogger(path, "WARN"))
	Log.Info().Msg("hidden")
	Log.Warn().Msg("visible")
	CloseLogger()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible")
	assert.NotContains(t, string(data), "hidden")
	assert.Equal(t, zerolog.Disabled, Log.GetLevel())
}

func TestInitLogger_BadPath(t *testing.T) {
	assert.Error(t, InitLogger(filepath.Join(t.TempDir(), "missing", "loop.log"), "info"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel("Error"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("loud"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
}
