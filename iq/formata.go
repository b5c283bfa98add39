package iq

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"time"

	"pal625/video"
)

// Format A header layout, little-endian.
const (
	HeaderSize     = 32
	SampleSizeBits = 24

	crcOffset = HeaderSize - 4
)

// ErrHeaderCRC is returned when a Format A header fails its checksum.
var ErrHeaderCRC = errors.New("iq header crc mismatch")

// Header is the Format A file header. The fields take 32 bytes on disk and
// the CRC covers the 28 before it; older descriptions of the format quote a
// 24-byte header with a 20-byte CRC span, which these fields cannot fit.
type Header struct {
	SampleRate      uint32
	CenterFrequency uint64
	Timestamp       uint64
	SampleSizeBits  uint32
	Reserved        uint32
	CRC             uint32
}

// NewHeader describes samples produced with p, tuned to centerHz.
func NewHeader(p video.Profile, centerHz uint64, created time.Time) Header {
	return Header{
		SampleRate:      uint32(p.SampleFrequency),
		CenterFrequency: centerHz,
		Timestamp:       uint64(created.Unix()),
		SampleSizeBits:  SampleSizeBits,
	}
}

// MarshalBinary encodes the header and fills in its CRC, which covers every
// byte before it.
func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(b[0:], h.SampleRate)
	binary.LittleEndian.PutUint64(b[4:], h.CenterFrequency)
	binary.LittleEndian.PutUint64(b[12:], h.Timestamp)
	binary.LittleEndian.PutUint32(b[20:], h.SampleSizeBits)
	binary.LittleEndian.PutUint32(b[24:], h.Reserved)
	binary.LittleEndian.PutUint32(b[crcOffset:], crc32.ChecksumIEEE(b[:crcOffset]))
	return b, nil
}

// UnmarshalBinary decodes a header and verifies its CRC.
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		return fmt.Errorf("iq header: %d bytes, want %d", len(b), HeaderSize)
	}
	h.SampleRate = binary.LittleEndian.Uint32(b[0:])
	h.CenterFrequency = binary.LittleEndian.Uint64(b[4:])
	h.Timestamp = binary.LittleEndian.Uint64(b[12:])
	h.SampleSizeBits = binary.LittleEndian.Uint32(b[20:])
	h.Reserved = binary.LittleEndian.Uint32(b[24:])
	h.CRC = binary.LittleEndian.Uint32(b[crcOffset:])

	if sum := crc32.ChecksumIEEE(b[:crcOffset]); sum != h.CRC {
		return fmt.Errorf("%w: stored %08x, computed %08x", ErrHeaderCRC, h.CRC, sum)
	}
	return nil
}

// ReadHeader reads and verifies a Format A header from r.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	b := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return h, fmt.Errorf("reading iq header: %w", err)
	}
	err := h.UnmarshalBinary(b)
	return h, err
}

// AppendA appends the Format A body encoding of samples to dst: for each
// sample an int32 I of round(sample*1e4) and a zero int32 Q.
func AppendA(dst []byte, samples []float64) []byte {
	for _, s := range samples {
		dst = binary.LittleEndian.AppendUint32(dst, uint32(int32(math.Round(s*1e4))))
		dst = binary.LittleEndian.AppendUint32(dst, 0)
	}
	return dst
}

// WriteA writes a complete Format A stream.
func WriteA(w io.Writer, h Header, samples []float64) error {
	hdr, _ := h.MarshalBinary()
	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("writing iq header: %w", err)
	}
	if _, err := w.Write(AppendA(make([]byte, 0, len(samples)*8), samples)); err != nil {
		return fmt.Errorf("writing iq body: %w", err)
	}
	return nil
}
