package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "libx264", cfg.Encoding.VideoCodec)
	assert.Equal(t, "8000k", cfg.Encoding.Bitrate)
	assert.Equal(t, "aac", cfg.Encoding.AudioCodec)
	assert.Equal(t, "ultrafast", cfg.Encoding.Preset)
	assert.Equal(t, 24.0, cfg.Encoding.FPS)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), "reelgraph.yaml", `
input_dir: /data/in
ffmpeg:
  threads: 2
encoding:
  preset: slow
`)
	t.Setenv("REELGRAPH_ENCODING_PRESET", "fast")
	t.Setenv("REELGRAPH_OUTPUT_DIR", "/data/out")
	t.Setenv("REELGRAPH_LOG_VERBOSE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/in", cfg.InputDir)
	assert.Equal(t, "/data/out", cfg.OutputDir)
	assert.Equal(t, 2, cfg.FFmpeg.Threads)
	assert.Equal(t, "fast", cfg.Encoding.Preset)
	assert.Equal(t, "libx264", cfg.Encoding.VideoCodec)
	assert.True(t, cfg.Logging.Verbose)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "ffmpeg: [unclosed"},
		{"negative threads", "ffmpeg:\n  threads: -1\n"},
		{"crf out of range", "encoding:\n  crf: 99\n"},
		{"zero fps", "encoding:\n  fps: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "cfg.yaml", tt.body)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("REELGRAPH_FFMPEG_THREADS", "many")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.InputDir = "/somewhere"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/somewhere", loaded.InputDir)
}

func TestContext(t *testing.T) {
	cfg := Default()
	cfg.OutputDir = "/ctx"
	ctx := WithConfig(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
	assert.Equal(t, "./output", FromContext(context.Background()).OutputDir)
}
