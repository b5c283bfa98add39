package iq

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pal625/video"
)

func TestFileWriterCommit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.iq")
	h := Header{SampleRate: 1000, SampleSizeBits: SampleSizeBits}

	fw, err := Create(path, FormatA, h)
	require.NoError(t, err)
	require.NoError(t, fw.WriteFrame(video.Buffer{0.3, 1}))
	require.NoError(t, fw.WriteFrame(video.Buffer{0}))
	assert.Equal(t, 3, fw.Samples())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "export must not appear before commit")

	require.NoError(t, fw.Commit())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, raw, HeaderSize+3*8)

	got, err := ReadHeader(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, uint32(1000), got.SampleRate)
	assert.Equal(t, AppendA(nil, []float64{0.3, 1, 0}), raw[HeaderSize:])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	assert.Error(t, fw.WriteFrame(video.Buffer{1}))
}

func TestFileWriterAbort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.b")

	fw, err := Create(path, FormatB, Header{})
	require.NoError(t, err)
	require.NoError(t, fw.WriteFrame(video.Buffer{0.5}))
	fw.Abort()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Error(t, fw.Commit())
}

func TestCreateFailures(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "x"), Format("mp4"), Header{})
	assert.Error(t, err)

	_, err = Create(filepath.Join(t.TempDir(), "missing", "x"), FormatB, Header{})
	assert.Error(t, err)
}

func TestExportFileFormats(t *testing.T) {
	p, err := video.NewProfile(208)
	require.NoError(t, err)
	frame, err := video.Compose(video.TestPattern(p), p)
	require.NoError(t, err)
	h := NewHeader(p, 0, time.Unix(0, 0))

	tests := []struct {
		format Format
		size   int
	}{
		{FormatA, HeaderSize + len(frame)*8},
		{FormatB, len(frame) * 2},
		{FormatF32, len(frame) * 4},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "frame."+string(tt.format))
			require.NoError(t, ExportFile(path, tt.format, h, frame))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, int64(tt.size), info.Size())
		})
	}
}

func TestExportWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.wav")
	h := Header{SampleRate: 3968750}
	require.NoError(t, ExportFile(path, FormatWAV, h, video.Buffer{0, 0.3, 1}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)

	assert.Equal(t, uint32(3968750), dec.SampleRate)
	assert.Equal(t, uint16(2), dec.NumChans)
	assert.Equal(t, uint16(16), dec.BitDepth)
	assert.Equal(t, []int{0, 0, 9830, 0, 32767, 0}, buf.Data)
}
