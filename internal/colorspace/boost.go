package colorspace

import "math"

// SaturationGain is the fixed multiplier applied by Boost.
const SaturationGain = 1.85

// Boost scales saturation by SaturationGain, capped at 1. Screen averages are mostly
// greyish, so this brings the hue back out without per-content tuning.
func Boost(hsv HSV) HSV {
	hsv.Saturation = math.Min(hsv.Saturation*SaturationGain, 1.0)
	return hsv
}

// Enhance runs an RGB color through Boost and back.
func Enhance(c RGB) RGB {
	return HsvToRgb(Boost(RgbToHsv(c.Red, c.Green, c.Blue)))
}
