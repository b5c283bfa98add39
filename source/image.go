package source

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"pal625/video"
)

// LoadImage decodes an image file and fits it to p.
func LoadImage(path string, p video.Profile) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening source image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding source image %s: %w", path, err)
	}
	return Fit(img, p), nil
}

// Fit scales img to PixelsPerLine x 625 and reduces it to luma.
func Fit(img image.Image, p video.Profile) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, p.PixelsPerLine, video.LinesPerFrame))
	xdraw.CatmullRom.Scale(dst, dst.Rect, img, img.Bounds(), xdraw.Src, nil)
	return dst
}
