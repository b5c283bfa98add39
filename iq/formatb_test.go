package iq

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendB(t *testing.T) {
	body := AppendB(nil, []float64{0, 0.3, 0.999, 1})
	assert.Equal(t, []byte{0, 0, 19, 0, 63, 0, 64, 0}, body)
}

func TestWriteB(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteB(&buf, []float64{0.5, 0.25}))
	assert.Equal(t, []byte{32, 0, 16, 0}, buf.Bytes())

	assert.ErrorIs(t, WriteB(failingWriter{}, []float64{1}), assert.AnError)
}

func TestWriteF32(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteF32(&buf, []float64{0.3, 1}))

	raw := buf.Bytes()
	require.Len(t, raw, 8)
	assert.Equal(t, float32(0.3), math.Float32frombits(binary.LittleEndian.Uint32(raw)))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(raw[4:])))
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"a", "b", "f32", "wav"} {
		f, err := ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, Format(s), f)
		assert.Positive(t, f.BytesPerSample())
	}

	_, err := ParseFormat("mp4")
	assert.Error(t, err)
}
