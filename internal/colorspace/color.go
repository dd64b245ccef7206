package colorspace

import (
	"fmt"
	"math"
)

// RGB is an 8-bit per channel color.
type RGB struct {
	Red   uint8
	Green uint8
	Blue  uint8
}

func (c RGB) String() string {
	return fmt.Sprintf("RGB(%d, %d, %d)", c.Red, c.Green, c.Blue)
}

// HSV holds hue in degrees [0, 360) and saturation/value in [0, 1].
type HSV struct {
	Hue        float64
	Saturation float64
	Value      float64
}

func RgbToHsv(r, g, b uint8) HSV {
	red := float64(r) / 255.0
	green := float64(g) / 255.0
	blue := float64(b) / 255.0

	max := math.Max(red, math.Max(green, blue))
	min := math.Min(red, math.Min(green, blue))
	delta := max - min

	var h float64
	// tie-break order matters: red, then green, then blue
	if delta == 0 {
		h = 0
	} else if max == red {
		h = 60 * math.Mod((green-blue)/delta, 6)
	} else if max == green {
		h = 60 * (((blue - red) / delta) + 2)
	} else {
		h = 60 * (((red - green) / delta) + 4)
	}
	if h < 0 {
		h += 360
	}

	var s float64
	if max != 0 {
		s = delta / max
	}

	return HSV{Hue: h, Saturation: s, Value: max}
}

// HsvToRgb is lossy when Saturation is 0: the hue is ignored.
func HsvToRgb(hsv HSV) RGB {
	h, s, v := hsv.Hue, hsv.Saturation, hsv.Value

	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r1, g1, b1 float64
	switch {
	case h >= 0 && h < 60:
		r1, g1, b1 = c, x, 0
	case h >= 60 && h < 120:
		r1, g1, b1 = x, c, 0
	case h >= 120 && h < 180:
		r1, g1, b1 = 0, c, x
	case h >= 180 && h < 240:
		r1, g1, b1 = 0, x, c
	case h >= 240 && h < 300:
		r1, g1, b1 = x, 0, c
	default:
		// 300 and up, plus anything that rounded outside [0, 360)
		r1, g1, b1 = c, 0, x
	}

	return RGB{
		Red:   toByte(r1 + m),
		Green: toByte(g1 + m),
		Blue:  toByte(b1 + m),
	}
}

func toByte(v float64) uint8 {
	return uint8(math.Min(255, math.Max(0, math.Round(v*255))))
}
