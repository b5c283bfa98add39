package video

import (
	"errors"
	"fmt"
	"image"
)

// ErrRasterHeight is returned when a raster does not carry one row per line
// of the frame.
var ErrRasterHeight = errors.New("raster must have 625 rows")

// Compose builds one interlaced 625-line frame from a luma raster whose width
// is p.PixelsPerLine. Field 1 carries the even rows, field 2 the odd rows.
// The result depends only on img and p.
func Compose(img *image.Gray, p Profile) (Buffer, error) {
	if img.Rect.Dy() != LinesPerFrame {
		return nil, fmt.Errorf("compose: %w, got %d", ErrRasterHeight, img.Rect.Dy())
	}

	buf := make(Buffer, 0, p.FrameLen())
	var err error

	// field 1 vertical sync and pre-equalization
	buf = p.AppendSyncBlock(buf, p.HalfLineBroadPulse, SyncRepetitions)
	buf = p.AppendSyncBlock(buf, p.HalfLineShortPulse, SyncRepetitions)

	for line := 0; line < Field1Lines; line++ {
		buf, err = p.AppendActiveScanline(buf, row(img, 2*line))
		if err != nil {
			return nil, fmt.Errorf("compose: field 1 row %d: %w", 2*line, err)
		}
	}

	buf = p.AppendSyncBlock(buf, p.HalfLineShortPulse, SyncRepetitions)

	// field 2 starts half a line late
	buf = p.AppendSyncBlock(buf, p.HalfLineBroadPulse, SyncRepetitions)
	buf = p.AppendSyncBlock(buf, p.HalfLineShortPulse, SyncRepetitions)
	buf = p.AppendBlankHalfLine(buf)

	for line := 0; line < Field2Lines; line++ {
		buf, err = p.AppendActiveScanline(buf, row(img, 2*line+1))
		if err != nil {
			return nil, fmt.Errorf("compose: field 2 row %d: %w", 2*line+1, err)
		}
	}

	buf = p.AppendSyncedHalfLine(buf)
	buf = p.AppendSyncBlock(buf, p.HalfLineShortPulse, SyncRepetitions)

	return buf, nil
}

// row returns raster row y relative to the image origin without copying.
func row(img *image.Gray, y int) []uint8 {
	start := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
	return img.Pix[start : start+img.Rect.Dx()]
}
