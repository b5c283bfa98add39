package video

import (
	"image"
	"math"
)

// TestPattern returns a raster of the seven SMPTE colour bars reduced to
// their luma, sized for p.
func TestPattern(p Profile) *image.Gray {
	// SMPTE color bars: 7 vertical stripes
	barColors := [7][3]uint8{
		{192, 192, 192}, // Gray
		{192, 192, 0},   // Yellow
		{0, 192, 192},   // Cyan
		{0, 192, 0},     // Green
		{192, 0, 192},   // Magenta
		{192, 0, 0},     // Red
		{0, 0, 192},     // Blue
	}
	var bars [7]uint8
	for i, c := range barColors {
		bars[i] = uint8(math.Round(0.299*float64(c[0]) + 0.587*float64(c[1]) + 0.114*float64(c[2])))
	}

	width := p.PixelsPerLine
	img := image.NewGray(image.Rect(0, 0, width, LinesPerFrame))
	barWidth := max(width/7, 1)
	for y := 0; y < LinesPerFrame; y++ {
		for x := 0; x < width; x++ {
			barIdx := x / barWidth
			if barIdx >= 7 {
				barIdx = 6
			}
			img.Pix[y*img.Stride+x] = bars[barIdx]
		}
	}
	return img
}

// Flat returns a raster of uniform luma sized for p.
func Flat(p Profile, luma uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, p.PixelsPerLine, LinesPerFrame))
	for i := range img.Pix {
		img.Pix[i] = luma
	}
	return img
}
