package video

import (
	"errors"
	"fmt"
)

// Normalized signal levels of the 625-line waveform.
const (
	LevelSync     = 0.0
	LevelBlanking = 0.3
	LevelWhite    = 1.0
)

// Fixed structure of the 625-line interlaced frame.
const (
	LinesPerFrame   = 625
	Field1Lines     = 305
	Field2Lines     = 304
	SyncRepetitions = 5
)

// Line timing in seconds.
const (
	activePeriod     = 51.95e-6
	linePeriod       = 64e-6
	frontPorchTime   = 1.65e-6
	hSyncTime        = 4.7e-6
	backPorchTime    = 5.7e-6
	shortPulseTime   = 2.35e-6
	halfLinePeriod   = 32e-6
	broadPulseMargin = 4.7e-6
)

// ErrZeroPixels is returned when a profile is requested for a line without
// any active pixels.
var ErrZeroPixels = errors.New("pixels per line must be positive")

// Profile holds every timing count of the waveform, derived from the number
// of active pixels per line. All counts are truncated, never rounded, so
// sample counts and exported headers stay bit-for-bit stable.
type Profile struct {
	PixelsPerLine      int
	PixelFrequency     float64
	FrontPorch         int
	HSyncPulse         int
	BackPorch          int
	ScanlineSamples    int
	SampleFrequency    float64
	HalfLineShortPulse int
	HalfLineBroadPulse int
}

// NewProfile derives the timing profile for pixelsPerLine active samples.
func NewProfile(pixelsPerLine int) (Profile, error) {
	if pixelsPerLine <= 0 {
		return Profile{}, fmt.Errorf("video profile for %d pixels: %w", pixelsPerLine, ErrZeroPixels)
	}

	p := Profile{PixelsPerLine: pixelsPerLine}
	p.PixelFrequency = float64(pixelsPerLine) / activePeriod
	p.FrontPorch = int(frontPorchTime * p.PixelFrequency)
	p.HSyncPulse = int(hSyncTime * p.PixelFrequency)
	p.BackPorch = int(backPorchTime * p.PixelFrequency)
	p.ScanlineSamples = p.FrontPorch + p.HSyncPulse + pixelsPerLine + p.BackPorch
	p.SampleFrequency = float64(p.ScanlineSamples) / linePeriod
	p.HalfLineShortPulse = int(shortPulseTime * p.PixelFrequency)
	p.HalfLineBroadPulse = int((halfLinePeriod - broadPulseMargin) * p.PixelFrequency)
	return p, nil
}

// HalfLine is the number of samples in half a scanline.
func (p Profile) HalfLine() int {
	return p.ScanlineSamples / 2
}

// SyncBlockLen is the number of samples appended by AppendSyncBlock.
func (p Profile) SyncBlockLen(pulseWidth, repetitions int) int {
	return repetitions * max(p.HalfLine(), pulseWidth)
}

// FrameLen is the exact length of the buffer returned by Compose.
func (p Profile) FrameLen() int {
	broad := p.SyncBlockLen(p.HalfLineBroadPulse, SyncRepetitions)
	short := p.SyncBlockLen(p.HalfLineShortPulse, SyncRepetitions)
	return broad + short +
		Field1Lines*p.ScanlineSamples +
		short +
		broad + short + p.HalfLine() +
		Field2Lines*p.ScanlineSamples +
		p.syncedHalfLineLen() + short
}

func (p Profile) syncedHalfLineLen() int {
	return max(p.HalfLine(), p.HSyncPulse+p.BackPorch)
}

// FrameDuration is the time taken to play one frame at SampleFrequency, in
// seconds.
func (p Profile) FrameDuration() float64 {
	return float64(p.FrameLen()) / p.SampleFrequency
}

func (p Profile) String() string {
	return fmt.Sprintf("%d px/line, %d samples/line, %.0f Hz", p.PixelsPerLine, p.ScanlineSamples, p.SampleFrequency)
}
