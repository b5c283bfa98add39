package iq

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// AppendB appends the Format B encoding of samples to dst: an int8 I of
// trunc(sample*64) followed by a zero Q byte. This is the byte layout a
// HackRF consumes in its transmit callback.
func AppendB(dst []byte, samples []float64) []byte {
	for _, s := range samples {
		dst = append(dst, byte(int8(s*64)), 0)
	}
	return dst
}

// WriteB writes samples as a Format B stream.
func WriteB(w io.Writer, samples []float64) error {
	if _, err := w.Write(AppendB(make([]byte, 0, len(samples)*2), samples)); err != nil {
		return fmt.Errorf("writing iq body: %w", err)
	}
	return nil
}

// AppendF32 appends samples as little-endian float32 values.
func AppendF32(dst []byte, samples []float64) []byte {
	for _, s := range samples {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(s)))
	}
	return dst
}

// WriteF32 writes samples as a raw float32 dump.
func WriteF32(w io.Writer, samples []float64) error {
	if _, err := w.Write(AppendF32(make([]byte, 0, len(samples)*4), samples)); err != nil {
		return fmt.Errorf("writing float32 samples: %w", err)
	}
	return nil
}
