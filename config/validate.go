package config

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

func (c *Config) Validate() error {
	if err := c.Video.Validate(); err != nil {
		return fmt.Errorf("video config: %w", err)
	}
	if err := c.Source.Validate(); err != nil {
		return fmt.Errorf("source config: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output config: %w", err)
	}
	if err := c.Teletext.Validate(); err != nil {
		return fmt.Errorf("teletext config: %w", err)
	}
	if err := c.SDR.Validate(); err != nil {
		return fmt.Errorf("sdr config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}
	return nil
}

func (v *VideoConfig) Validate() error {
	if v.PixelsPerLine <= 0 {
		return fmt.Errorf("pixels_per_line must be positive, got %d", v.PixelsPerLine)
	}
	if v.Frames < 0 {
		return fmt.Errorf("frames cannot be negative")
	}
	if v.FrameRate < 0 {
		return fmt.Errorf("frame_rate cannot be negative")
	}
	return nil
}

func (s *SourceConfig) Validate() error {
	if s.FFmpeg && s.Path != "" {
		return fmt.Errorf("path and ffmpeg capture are mutually exclusive")
	}
	return nil
}

func (o *OutputConfig) Validate() error {
	switch o.Format {
	case "a", "b", "f32", "wav":
	default:
		return fmt.Errorf("invalid format %q (must be a, b, f32 or wav)", o.Format)
	}
	return nil
}

func (t *TeletextConfig) Validate() error {
	if !t.Enabled {
		return nil
	}
	if t.Magazine < 0 || t.Magazine > 7 {
		return fmt.Errorf("magazine must be 0-7, got %d", t.Magazine)
	}
	if t.PacketNumber < 0 || t.PacketNumber > 31 {
		return fmt.Errorf("packet_number must be 0-31, got %d", t.PacketNumber)
	}
	if len(t.Text) > 40 {
		return fmt.Errorf("text longer than 40 characters")
	}
	if t.Path == "" {
		return fmt.Errorf("path is required when teletext is enabled")
	}
	return nil
}

func (s *SDRConfig) Validate() error {
	if !s.Transmit {
		return nil
	}
	if s.Frequency <= 0 {
		return fmt.Errorf("frequency_mhz must be positive")
	}
	if s.Bandwidth < 0 {
		return fmt.Errorf("bandwidth_mhz cannot be negative")
	}
	if s.Gain < 0 || s.Gain > 47 {
		return fmt.Errorf("gain must be 0-47, got %d", s.Gain)
	}
	return nil
}

func (l *LoggingConfig) Validate() error {
	if _, err := logrus.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", l.Level)
	}
	if l.Format != "json" && l.Format != "text" {
		return fmt.Errorf("invalid log format: %s (must be json or text)", l.Format)
	}
	if l.Output == "" {
		return fmt.Errorf("log output is required")
	}
	return nil
}

func (m *MetricsConfig) Validate() error {
	if !m.Enabled {
		return nil
	}
	if m.Port < 1 || m.Port > 65535 {
		return fmt.Errorf("invalid metrics port: %d", m.Port)
	}
	if m.Path == "" || m.Path[0] != '/' {
		return fmt.Errorf("metrics path must start with /")
	}
	return nil
}
