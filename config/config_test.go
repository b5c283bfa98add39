package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 208, cfg.Video.PixelsPerLine)
	assert.Equal(t, 1, cfg.Video.Frames)
	assert.Equal(t, 25.0, cfg.Video.FrameRate)
	assert.Equal(t, "a", cfg.Output.Format)
	assert.True(t, cfg.Output.Sidecar)
	assert.False(t, cfg.SDR.Transmit)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pal625.yaml")
	configContent := `
video:
  pixels_per_line: 702
  frames: 10
source:
  path: testcard.png
output:
  path: out.iq
  format: b
  center_frequency_hz: 1280000000
teletext:
  enabled: true
  magazine: 3
  packet_number: 5
  text: "HELLO"
  path: ttx.iq
logging:
  level: debug
  format: json
metrics:
  enabled: true
  port: 9100
  linger: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(configContent), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 702, cfg.Video.PixelsPerLine)
	assert.Equal(t, 10, cfg.Video.Frames)
	assert.Equal(t, "testcard.png", cfg.Source.Path)
	assert.Equal(t, "b", cfg.Output.Format)
	assert.Equal(t, uint64(1280000000), cfg.Output.CenterFrequency)
	assert.Equal(t, 3, cfg.Teletext.Magazine)
	assert.Equal(t, "HELLO", cfg.Teletext.Text)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 9100, cfg.Metrics.Port)
	assert.Equal(t, "5s", cfg.Metrics.Linger.String())
	// untouched sections keep their defaults
	assert.Equal(t, 25.0, cfg.Video.FrameRate)
	assert.Equal(t, 30, cfg.SDR.Gain)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PAL625_VIDEO_PIXELS_PER_LINE", "540")
	t.Setenv("PAL625_OUTPUT_FORMAT", "wav")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 540, cfg.Video.PixelsPerLine)
	assert.Equal(t, "wav", cfg.Output.Format)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("video:\n  pixels_per_line: 0\n"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pixels_per_line must be positive")
}
