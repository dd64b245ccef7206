package ambient

import (
	"github.com/scheerer/ambient-backlight/internal/colorspace"
	"github.com/scheerer/ambient-backlight/internal/screen"
)

// Compute reduces a frame to the color written to the sink: mean color, saturation
// boosted in HSV, back to RGB.
func Compute(frame screen.Frame) (colorspace.RGB, error) {
	mean, err := screen.Aggregate(frame)
	if err != nil {
		return colorspace.RGB{}, err
	}
	return colorspace.Enhance(mean), nil
}
