package screen

import (
	"errors"
	"fmt"
	"image"
)

const bytesPerPixel = 4

var (
	ErrEmptyFrame = errors.New("frame has no pixels")
	ErrFrameSize  = errors.New("frame buffer does not match its dimensions")
)

// Frame is a snapshot of a display in BGRA order, 4 bytes per pixel, no row padding.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

func NewFrame(width, height int, pix []byte) (Frame, error) {
	if width < 0 || height < 0 {
		return Frame{}, fmt.Errorf("%w: negative dimensions %dx%d", ErrFrameSize, width, height)
	}
	if len(pix) != width*height*bytesPerPixel {
		return Frame{}, fmt.Errorf("%w: %dx%d needs %d bytes, got %d",
			ErrFrameSize, width, height, width*height*bytesPerPixel, len(pix))
	}
	return Frame{Width: width, Height: height, Pix: pix}, nil
}

// FrameFromImage repacks an RGBA image into a BGRA Frame, dropping any stride padding.
func FrameFromImage(img *image.RGBA) Frame {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pix := make([]byte, width*height*bytesPerPixel)

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[img.PixOffset(bounds.Min.X, y):]
		for x := 0; x < width; x++ {
			p := row[x*bytesPerPixel : x*bytesPerPixel+bytesPerPixel]
			pix[i] = p[2]
			pix[i+1] = p[1]
			pix[i+2] = p[0]
			pix[i+3] = p[3]
			i += bytesPerPixel
		}
	}

	return Frame{Width: width, Height: height, Pix: pix}
}

func (f Frame) Pixels() int {
	return f.Width * f.Height
}
