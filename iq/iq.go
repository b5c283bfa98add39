// Package iq serializes composed video samples into the binary containers
// used for transmission and replay. Samples are real-valued, so every format
// carries them as the I component with a zero Q component.
package iq

import "fmt"

// Format names an export container.
type Format string

const (
	// FormatA is a 32-byte header followed by interleaved int32 I/Q pairs.
	FormatA Format = "a"
	// FormatB is headerless interleaved int8 I/Q pairs.
	FormatB Format = "b"
	// FormatF32 is headerless native float32 samples, readable by numpy.
	FormatF32 Format = "f32"
	// FormatWAV is a 16-bit stereo WAV file with I on the left channel.
	FormatWAV Format = "wav"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatA, FormatB, FormatF32, FormatWAV:
		return f, nil
	}
	return "", fmt.Errorf("unknown iq format %q", s)
}

// BytesPerSample is the encoded size of one sample, excluding any header.
func (f Format) BytesPerSample() int {
	switch f {
	case FormatA:
		return 8
	case FormatB:
		return 2
	case FormatF32:
		return 4
	case FormatWAV:
		return 4
	}
	return 0
}
