package teletext

import (
	"errors"
	"fmt"

	"pal625/video"
)

// BitRate is the 625-line teletext system B data rate in bits per second.
const BitRate = 444 * 15625.0

// Data levels. A one sits at 66% of the black-to-white range.
const (
	LevelZero = video.LevelBlanking
	LevelOne  = video.LevelBlanking + 0.66*(video.LevelWhite-video.LevelBlanking)
)

// ErrUndersampled is returned when the pixel clock is slower than BitRate,
// so some bits would never get a sample of their own.
var ErrUndersampled = errors.New("pixel clock below teletext bit rate")

// Level maps a data bit to its signal level.
func Level(bit byte) float64 {
	if bit&1 == 1 {
		return LevelOne
	}
	return LevelZero
}

// AppendLine appends one scanline carrying the encoded packet in place of
// active picture: sync, back porch, the NRZ data sampled at the pixel clock,
// then front porch. Bytes are sent least significant bit first. Bits that do
// not fit in the active period are dropped and unused samples stay at black.
// On error dst is returned unchanged.
func AppendLine(dst video.Buffer, p video.Profile, data []byte) (video.Buffer, error) {
	if p.PixelFrequency < BitRate {
		return dst, fmt.Errorf("%w: %.0f Hz for %d px/line, need %d px/line or more",
			ErrUndersampled, p.PixelFrequency, p.PixelsPerLine, MinPixelsPerLine())
	}

	dst = video.AppendLevel(dst, video.LevelSync, p.HSyncPulse)
	dst = video.AppendLevel(dst, video.LevelBlanking, p.BackPorch)
	nbits := len(data) * 8
	for i := 0; i < p.PixelsPerLine; i++ {
		bit := int(float64(i) / p.PixelFrequency * BitRate)
		if bit >= nbits {
			dst = append(dst, LevelZero)
			continue
		}
		dst = append(dst, Level(data[bit/8]>>(bit%8)))
	}
	return video.AppendLevel(dst, video.LevelBlanking, p.FrontPorch), nil
}

// Line returns the scanline for a packet.
func Line(p video.Profile, pk Packet) (video.Buffer, error) {
	data := pk.Encode()
	return AppendLine(make(video.Buffer, 0, p.ScanlineSamples), p, data[:])
}

// MinPixelsPerLine is the smallest line width whose pixel clock keeps up
// with BitRate.
func MinPixelsPerLine() int {
	for ppl := 1; ; ppl++ {
		p, _ := video.NewProfile(ppl)
		if p.PixelFrequency >= BitRate {
			return ppl
		}
	}
}
