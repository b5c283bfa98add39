package video

import (
	"errors"
	"fmt"
)

// ErrMalformedRow is returned when a raster row does not hold exactly
// PixelsPerLine luma values.
var ErrMalformedRow = errors.New("malformed raster row")

// Buffer is a frame's worth of normalized samples in [0, 1].
type Buffer []float64

// The Append methods grow dst with one waveform segment and return the
// extended slice, in the manner of strconv.AppendInt. They never touch
// anything but dst.

// AppendSyncBlock appends repetitions half-lines, each a pulseWidth sync
// pulse followed by blanking up to the end of the half-line.
func (p Profile) AppendSyncBlock(dst Buffer, pulseWidth, repetitions int) Buffer {
	fill := p.HalfLine() - pulseWidth
	for i := 0; i < repetitions; i++ {
		dst = AppendLevel(dst, LevelSync, pulseWidth)
		dst = AppendLevel(dst, LevelBlanking, fill)
	}
	return dst
}

// AppendBlankHalfLine appends half a line at blanking level.
func (p Profile) AppendBlankHalfLine(dst Buffer) Buffer {
	return AppendLevel(dst, LevelBlanking, p.HalfLine())
}

// AppendSyncedHalfLine appends a half-line that starts with a normal
// horizontal sync pulse and back porch.
func (p Profile) AppendSyncedHalfLine(dst Buffer) Buffer {
	dst = AppendLevel(dst, LevelSync, p.HSyncPulse)
	dst = AppendLevel(dst, LevelBlanking, p.BackPorch)
	return AppendLevel(dst, LevelBlanking, p.HalfLine()-p.HSyncPulse-p.BackPorch)
}

// AppendActiveScanline appends a full scanline carrying row as active
// picture. On error dst is returned unchanged.
func (p Profile) AppendActiveScanline(dst Buffer, row []uint8) (Buffer, error) {
	if len(row) != p.PixelsPerLine {
		return dst, fmt.Errorf("%w: %d pixels, want %d", ErrMalformedRow, len(row), p.PixelsPerLine)
	}

	dst = AppendLevel(dst, LevelSync, p.HSyncPulse)
	dst = AppendLevel(dst, LevelBlanking, p.BackPorch)
	for _, px := range row {
		dst = append(dst, Luma(px))
	}
	return AppendLevel(dst, LevelBlanking, p.FrontPorch), nil
}

// Luma maps an 8-bit luma value linearly onto the active video range.
func Luma(px uint8) float64 {
	return float64(px)/255*(LevelWhite-LevelBlanking) + LevelBlanking
}

// AppendLevel appends n samples at level. Non-positive n appends nothing.
func AppendLevel(dst Buffer, level float64, n int) Buffer {
	for ; n > 0; n-- {
		dst = append(dst, level)
	}
	return dst
}
