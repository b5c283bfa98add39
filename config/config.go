package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration values.
type Config struct {
	Video    VideoConfig    `mapstructure:"video"`
	Source   SourceConfig   `mapstructure:"source"`
	Output   OutputConfig   `mapstructure:"output"`
	Teletext TeletextConfig `mapstructure:"teletext"`
	SDR      SDRConfig      `mapstructure:"sdr"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type VideoConfig struct {
	PixelsPerLine int     `mapstructure:"pixels_per_line"`
	Frames        int     `mapstructure:"frames"`     // 0 runs until stopped
	FrameRate     float64 `mapstructure:"frame_rate"` // frames per second, 0 disables pacing
}

type SourceConfig struct {
	// Path is an image file; empty selects the test pattern.
	Path   string `mapstructure:"path"`
	FFmpeg bool   `mapstructure:"ffmpeg"` // capture from Device instead of Path
	Device string `mapstructure:"device"`
}

type OutputConfig struct {
	Path            string `mapstructure:"path"` // empty disables file export
	Format          string `mapstructure:"format"`
	CenterFrequency uint64 `mapstructure:"center_frequency_hz"`
	Sidecar         bool   `mapstructure:"sidecar"`
}

type TeletextConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Magazine     int    `mapstructure:"magazine"`
	PacketNumber int    `mapstructure:"packet_number"`
	Text         string `mapstructure:"text"`
	Path         string `mapstructure:"path"`
}

type SDRConfig struct {
	Transmit  bool    `mapstructure:"transmit"`
	Frequency float64 `mapstructure:"frequency_mhz"`
	Bandwidth float64 `mapstructure:"bandwidth_mhz"` // 0 disables the low-pass filter
	Gain      int     `mapstructure:"gain"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // json or text
	Output     string `mapstructure:"output"` // stdout, stderr, or file path
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type MetricsConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Path    string        `mapstructure:"path"`
	Port    int           `mapstructure:"port"`
	Linger  time.Duration `mapstructure:"linger"` // keep serving after the run ends
}

// Load reads configuration from configPath, which may be empty, layered
// over defaults and PAL625_* environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix("PAL625")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("video.pixels_per_line", 208)
	v.SetDefault("video.frames", 1)
	v.SetDefault("video.frame_rate", 25.0)

	v.SetDefault("source.path", "")
	v.SetDefault("source.ffmpeg", false)
	v.SetDefault("source.device", "")

	v.SetDefault("output.path", "")
	v.SetDefault("output.format", "a")
	v.SetDefault("output.center_frequency_hz", 0)
	v.SetDefault("output.sidecar", true)

	v.SetDefault("teletext.enabled", false)
	v.SetDefault("teletext.magazine", 1)
	v.SetDefault("teletext.packet_number", 0)
	v.SetDefault("teletext.text", "")
	v.SetDefault("teletext.path", "")

	v.SetDefault("sdr.transmit", false)
	v.SetDefault("sdr.frequency_mhz", 1280.0)
	v.SetDefault("sdr.bandwidth_mhz", 0.0)
	v.SetDefault("sdr.gain", 30)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age", 30)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.linger", "0s")
}
