package iq

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Sidecar describes an export so that replay tools can configure themselves
// without parsing the container.
type Sidecar struct {
	RunID           string    `yaml:"run_id"`
	Format          Format    `yaml:"format"`
	SampleRate      float64   `yaml:"sample_rate"`
	CenterFrequency uint64    `yaml:"center_frequency_hz"`
	PixelsPerLine   int       `yaml:"pixels_per_line"`
	ScanlineSamples int       `yaml:"scanline_samples"`
	Frames          int       `yaml:"frames"`
	Samples         int       `yaml:"samples"`
	Source          string    `yaml:"source,omitempty"`
	Created         time.Time `yaml:"created"`
}

// SidecarPath is where the sidecar of an export at path is written.
func SidecarPath(path string) string {
	return path + ".yaml"
}

// WriteSidecar stores s next to the export at path.
func WriteSidecar(path string, s Sidecar) error {
	b, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("encoding sidecar: %w", err)
	}
	if err := os.WriteFile(SidecarPath(path), b, 0o644); err != nil {
		return fmt.Errorf("writing sidecar: %w", err)
	}
	return nil
}

// ReadSidecar loads the sidecar of the export at path.
func ReadSidecar(path string) (Sidecar, error) {
	var s Sidecar
	f, err := os.Open(SidecarPath(path))
	if err != nil {
		return s, err
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(&s); err != nil {
		return s, fmt.Errorf("decoding sidecar: %w", err)
	}
	return s, nil
}
