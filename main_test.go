package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestConfig places a config in a fresh directory with logging and
// storage pointed inside it.
func writeTestConfig(t *testing.T, storage map[string]any) string {
	t.Helper()
	resetViper(t)
	dir := t.TempDir()
	cfg := map[string]any{
		"logFile":  filepath.Join(dir, "test.log"),
		"logLevel": "debug",
		"audio":    map[string]any{"enabled": false},
		"storage":  storage,
		"export":   map[string]any{"width": 400, "height": 300},
	}
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, configName), data, 0o644))
	return dir
}

func runCommand(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	var out bytes.Buffer
	err := run(append([]string{"--config", dir}, args...), &out)
	return out.String(), err
}

func TestRun_Render(t *testing.T) {
	dir := writeTestConfig(t, map[string]any{"type": "memory"})

	out, err := runCommand(t, dir, "render", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, `width="400.0" height="300.0"`)
	assert.Contains(t, out, `<path d="M 0.0 `)

	again, err := runCommand(t, dir, "render", "1")
	require.NoError(t, err)
	assert.Equal(t, out, again)

	_, err = runCommand(t, dir, "render", "601")
	assert.ErrorIs(t, err, ErrFrameOutOfRange)
	_, err = runCommand(t, dir, "render", "first")
	assert.Error(t, err)

	logged, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logged), "Noise Loop Started")
}

func TestRun_ImportListRender(t *testing.T) {
	dir := writeTestConfig(t, map[string]any{
		"type":   "sqlite",
		"sqlite": map[string]any{"path": filepath.Join(t.TempDir(), "fragments.db")},
	})

	fragments := []DrawingFragment{
		{
			FrameNumber: 124,
			Author:      "ada",
			Width:       100,
			Height:      50,
			Strokes:     []Stroke{{Points: []StrokePoint{{X: 10, Y: 10}, {X: 20, Y: 30}}, Color: "#FF00C8", StrokeWidth: 2}},
		},
		{FrameNumber: 0, Width: 100, Height: 50, Strokes: []Stroke{{Points: []StrokePoint{{X: 1, Y: 1}}}}},
	}
	data, err := json.Marshal(fragments)
	require.NoError(t, err)
	importPath := filepath.Join(t.TempDir(), "fragments.json")
	require.NoError(t, os.WriteFile(importPath, data, 0o644))

	out, err := runCommand(t, dir, "import", importPath)
	require.NoError(t, err)
	assert.Equal(t, "imported 1 of 2 fragments\n", out)

	out, err = runCommand(t, dir, "fragments")
	require.NoError(t, err)
	assert.Contains(t, out, "FRAME")
	assert.Regexp(t, `124\s+12\.3\s+1`, out)
	assert.Regexp(t, `total\s+1`, out)

	out, err = runCommand(t, dir, "render", "124")
	require.NoError(t, err)
	assert.Contains(t, out, `data-frame="124"`)
	assert.Contains(t, out, `transform="scale(4 6)"`)

	out, err = runCommand(t, dir, "render", "123")
	require.NoError(t, err)
	assert.NotContains(t, out, "data-frame")
}

func TestRun_Export(t *testing.T) {
	dir := writeTestConfig(t, map[string]any{"type": "memory"})
	outDir := filepath.Join(t.TempDir(), "frames")

	out, err := runCommand(t, dir, "--out", outDir, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 600 frames")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, LoopFrames)

	for _, name := range []string{"frame_0001.svg", "frame_0300.svg", "frame_0600.svg"} {
		doc, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.True(t, strings.HasPrefix(string(doc), "<svg"), name)
		assert.Contains(t, string(doc), `<path d="M 0.0 `, name)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	dir := writeTestConfig(t, map[string]any{"type": "memory"})
	_, err := runCommand(t, dir, "dance")
	assert.Error(t, err)
}

func TestRun_BadStoreFallsBackToMemory(t *testing.T) {
	dir := writeTestConfig(t, map[string]any{"type": "cassette"})
	out, err := runCommand(t, dir, "fragments")
	require.NoError(t, err)
	assert.Regexp(t, `total\s+0`, out)
}
