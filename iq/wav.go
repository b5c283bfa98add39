package iq

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavBitDepth = 16
	wavChannels = 2
	wavPCM      = 1
)

// WAVWriter streams samples into a 16-bit stereo WAV container, I on the
// left channel and a silent Q on the right. The RIFF sizes are patched when
// the writer is closed, so the destination must be seekable.
type WAVWriter struct {
	enc *wav.Encoder
	buf *audio.IntBuffer
}

// NewWAVWriter starts a WAV stream at sampleRate samples per second.
func NewWAVWriter(w io.WriteSeeker, sampleRate int) *WAVWriter {
	return &WAVWriter{
		enc: wav.NewEncoder(w, sampleRate, wavBitDepth, wavChannels, wavPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: wavChannels, SampleRate: sampleRate},
			SourceBitDepth: wavBitDepth,
		},
	}
}

// Write appends samples to the stream.
func (ww *WAVWriter) Write(samples []float64) error {
	ww.buf.Data = ww.buf.Data[:0]
	for _, s := range samples {
		ww.buf.Data = append(ww.buf.Data, int(math.Round(s*math.MaxInt16)), 0)
	}
	if err := ww.enc.Write(ww.buf); err != nil {
		return fmt.Errorf("writing wav samples: %w", err)
	}
	return nil
}

// Close finalizes the RIFF header. It does not close the underlying writer.
func (ww *WAVWriter) Close() error {
	if err := ww.enc.Close(); err != nil {
		return fmt.Errorf("closing wav stream: %w", err)
	}
	return nil
}
