// Package source supplies the luma rasters that frames are composed from.
// Every raster is exactly PixelsPerLine wide and 625 rows high.
package source

import (
	"image"
	"strings"

	"pal625/video"
)

// Source yields the raster for the next frame.
type Source interface {
	Frame() (*image.Gray, error)
	Close() error
}

// FFmpegPrefix selects live capture in a source name, e.g. "ffmpeg:/dev/video0".
const FFmpegPrefix = "ffmpeg:"

// Open resolves a source name: empty for the test pattern, FFmpegPrefix plus
// a device for live capture, anything else is an image file.
func Open(name string, p video.Profile) (Source, error) {
	switch {
	case name == "":
		return Still(video.TestPattern(p)), nil
	case strings.HasPrefix(name, FFmpegPrefix):
		return StartFFmpegCapture(strings.TrimPrefix(name, FFmpegPrefix), p)
	}
	img, err := LoadImage(name, p)
	if err != nil {
		return nil, err
	}
	return Still(img), nil
}

type still struct {
	img *image.Gray
}

// Still is a source that repeats one raster.
func Still(img *image.Gray) Source {
	return still{img: img}
}

func (s still) Frame() (*image.Gray, error) { return s.img, nil }
func (s still) Close() error                { return nil }
