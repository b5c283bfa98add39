package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfile(t *testing.T) {
	p, err := NewProfile(208)
	require.NoError(t, err)

	assert.InDelta(t, 4003850.0, p.PixelFrequency, 1.0)
	assert.Equal(t, 6, p.FrontPorch)
	assert.Equal(t, 18, p.HSyncPulse)
	assert.Equal(t, 22, p.BackPorch)
	assert.Equal(t, 254, p.ScanlineSamples)
	assert.InDelta(t, 3968750.0, p.SampleFrequency, 1e-3)
	assert.Equal(t, 9, p.HalfLineShortPulse)
	assert.Equal(t, 109, p.HalfLineBroadPulse)
}

func TestNewProfileRejectsEmptyLines(t *testing.T) {
	for _, ppl := range []int{0, -1, -208} {
		_, err := NewProfile(ppl)
		assert.ErrorIs(t, err, ErrZeroPixels, "ppl=%d", ppl)
	}
}

func TestProfileScanlineSum(t *testing.T) {
	for _, ppl := range []int{1, 7, 52, 208, 540, 702, 720, 1024} {
		p, err := NewProfile(ppl)
		require.NoError(t, err)

		assert.Equal(t, p.FrontPorch+p.HSyncPulse+ppl+p.BackPorch, p.ScanlineSamples, "ppl=%d", ppl)
		assert.Equal(t, int(1.65e-6*p.PixelFrequency), p.FrontPorch, "ppl=%d", ppl)
		assert.LessOrEqual(t, p.HalfLineShortPulse, p.HSyncPulse, "ppl=%d", ppl)
		assert.Less(t, p.HSyncPulse, p.HalfLineBroadPulse+1, "ppl=%d", ppl)
	}
}

func TestFrameDuration(t *testing.T) {
	// an even scanline gives exactly 625 lines of 64us
	p, err := NewProfile(208)
	require.NoError(t, err)

	assert.Equal(t, 625*254, p.FrameLen())
	assert.InDelta(t, 0.04, p.FrameDuration(), 1e-12)
}
