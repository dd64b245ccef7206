package screen

import (
	"fmt"

	"github.com/scheerer/ambient-backlight/internal/colorspace"
)

// Aggregate returns the mean color of every pixel in the frame. Each channel sum is
// divided by the pixel count with integer division, so halves truncate down.
func Aggregate(frame Frame) (colorspace.RGB, error) {
	totalPixels := uint64(frame.Pixels())
	if frame.Width <= 0 || frame.Height <= 0 {
		return colorspace.RGB{}, fmt.Errorf("%w: %dx%d", ErrEmptyFrame, frame.Width, frame.Height)
	}
	if uint64(len(frame.Pix)) != totalPixels*bytesPerPixel {
		return colorspace.RGB{}, fmt.Errorf("%w: %dx%d with %d bytes", ErrFrameSize, frame.Width, frame.Height, len(frame.Pix))
	}

	var sumR, sumG, sumB uint64
	pix := frame.Pix
	for i := 0; i < len(pix); i += bytesPerPixel {
		sumB += uint64(pix[i])
		sumG += uint64(pix[i+1])
		sumR += uint64(pix[i+2])
	}

	return colorspace.RGB{
		Red:   uint8(sumR / totalPixels),
		Green: uint8(sumG / totalPixels),
		Blue:  uint8(sumB / totalPixels),
	}, nil
}
