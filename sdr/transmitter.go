package sdr

import (
	"fmt"
	"sync"

	"github.com/samuel/go-hackrf/hackrf"
	"github.com/sirupsen/logrus"

	"pal625/config"
	"pal625/iq"
	"pal625/video"
)

const filterTaps = 63

// Transmitter plays composed frames through a HackRF. Each new frame
// replaces the one on air at its next frame boundary.
type Transmitter struct {
	dev  *hackrf.Device
	taps []float64
	loop iq.Loop
	log  *logrus.Entry

	closeOnce sync.Once
}

// Open initializes the HackRF, configures it for p and starts transmitting
// silence until the first frame arrives.
func Open(cfg *config.SDRConfig, p video.Profile, log *logrus.Entry) (*Transmitter, error) {
	if err := hackrf.Init(); err != nil {
		return nil, fmt.Errorf("hackrf.Init() failed: %w", err)
	}
	dev, err := hackrf.Open()
	if err != nil {
		hackrf.Exit()
		return nil, fmt.Errorf("hackrf.Open() failed: %w", err)
	}

	t := &Transmitter{dev: dev, log: log}
	if cfg.Bandwidth > 0 {
		t.taps = iq.NewLowPassFilterTaps(filterTaps, cfg.Bandwidth*1e6, p.SampleFrequency)
	}

	if err := t.configure(cfg, p); err != nil {
		t.Close()
		return nil, err
	}
	return t, nil
}

func (t *Transmitter) configure(cfg *config.SDRConfig, p video.Profile) error {
	txFrequencyHz := uint64(cfg.Frequency * 1_000_000)

	if err := t.dev.SetFreq(txFrequencyHz); err != nil {
		return fmt.Errorf("SetFreq failed: %w", err)
	}
	if err := t.dev.SetSampleRate(p.SampleFrequency); err != nil {
		return fmt.Errorf("SetSampleRate failed: %w", err)
	}
	if err := t.dev.SetTXVGAGain(cfg.Gain); err != nil {
		return fmt.Errorf("SetTXVGAGain failed: %w", err)
	}
	if err := t.dev.SetAmpEnable(false); err != nil {
		return fmt.Errorf("SetAmpEnable failed: %w", err)
	}

	t.log.WithFields(logrus.Fields{
		"frequency_mhz": float64(txFrequencyHz) / 1e6,
		"sample_rate":   p.SampleFrequency,
		"gain":          cfg.Gain,
		"filtered":      t.taps != nil,
	}).Info("Starting transmission")

	// StartTX is non-blocking and returns immediately.
	return t.dev.StartTX(func(buf []byte) error {
		t.loop.Fill(buf)
		return nil
	})
}

// WriteFrame queues buf for transmission.
func (t *Transmitter) WriteFrame(buf video.Buffer) error {
	samples := []float64(buf)
	if t.taps != nil {
		samples = iq.Filter(samples, t.taps)
	}
	t.loop.Swap(iq.AppendB(make([]byte, 0, len(samples)*2), samples))
	return nil
}

// Close stops transmission and releases the device.
func (t *Transmitter) Close() error {
	var err error
	t.closeOnce.Do(func() {
		if stopErr := t.dev.StopTX(); stopErr != nil {
			t.log.WithError(stopErr).Debug("StopTX")
		}
		err = t.dev.Close()
		hackrf.Exit()
	})
	return err
}
