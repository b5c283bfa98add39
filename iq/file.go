package iq

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"pal625/video"
)

// FileWriter exports frames to a file in one format. Data goes to a
// temporary file next to the destination, which only replaces the
// destination on Commit; an aborted or failed export leaves nothing behind.
type FileWriter struct {
	path   string
	format Format
	tmp    *os.File
	w      *bufio.Writer
	wav    *WAVWriter
	buf    []byte

	samples int
	err     error
}

// Create opens an export of the given format to path. The header is only
// used by FormatA; the WAV sample rate is taken from it too.
func Create(path string, format Format, h Header) (*FileWriter, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, fmt.Errorf("creating export file: %w", err)
	}

	fw := &FileWriter{path: path, format: format, tmp: tmp}
	switch format {
	case FormatWAV:
		fw.wav = NewWAVWriter(tmp, int(h.SampleRate))
	case FormatA:
		fw.w = bufio.NewWriter(tmp)
		hdr, _ := h.MarshalBinary()
		if _, err := fw.w.Write(hdr); err != nil {
			fw.fail(fmt.Errorf("writing iq header: %w", err))
			return nil, fw.err
		}
	default:
		fw.w = bufio.NewWriter(tmp)
	}
	return fw, nil
}

// WriteFrame appends one frame of samples. After the first failure every
// call returns the same error and the export can only be aborted.
func (fw *FileWriter) WriteFrame(buf video.Buffer) error {
	if fw.err != nil {
		return fw.err
	}

	if fw.wav != nil {
		if err := fw.wav.Write(buf); err != nil {
			return fw.fail(err)
		}
		fw.samples += len(buf)
		return nil
	}

	switch fw.format {
	case FormatA:
		fw.buf = AppendA(fw.buf[:0], buf)
	case FormatB:
		fw.buf = AppendB(fw.buf[:0], buf)
	case FormatF32:
		fw.buf = AppendF32(fw.buf[:0], buf)
	}
	if _, err := fw.w.Write(fw.buf); err != nil {
		return fw.fail(fmt.Errorf("writing %s export: %w", fw.format, err))
	}
	fw.samples += len(buf)
	return nil
}

// Samples is the number of samples written so far.
func (fw *FileWriter) Samples() int {
	return fw.samples
}

// Commit flushes the export and moves it into place.
func (fw *FileWriter) Commit() error {
	if fw.err != nil {
		return fw.err
	}

	if fw.wav != nil {
		if err := fw.wav.Close(); err != nil {
			return fw.fail(err)
		}
	} else if err := fw.w.Flush(); err != nil {
		return fw.fail(fmt.Errorf("flushing %s export: %w", fw.format, err))
	}
	if err := fw.tmp.Sync(); err != nil {
		return fw.fail(fmt.Errorf("syncing export: %w", err))
	}
	if err := fw.tmp.Close(); err != nil {
		return fw.fail(fmt.Errorf("closing export: %w", err))
	}
	if err := os.Rename(fw.tmp.Name(), fw.path); err != nil {
		return fw.fail(fmt.Errorf("moving export into place: %w", err))
	}
	fw.err = os.ErrClosed
	return nil
}

// Abort discards the export.
func (fw *FileWriter) Abort() {
	if fw.err == os.ErrClosed {
		return
	}
	fw.tmp.Close()
	os.Remove(fw.tmp.Name())
	fw.err = os.ErrClosed
}

func (fw *FileWriter) fail(err error) error {
	fw.err = err
	fw.tmp.Close()
	os.Remove(fw.tmp.Name())
	return err
}

// ExportFile writes a single buffer to path in one shot.
func ExportFile(path string, format Format, h Header, buf video.Buffer) error {
	fw, err := Create(path, format, h)
	if err != nil {
		return err
	}
	if err := fw.WriteFrame(buf); err != nil {
		fw.Abort()
		return err
	}
	return fw.Commit()
}
