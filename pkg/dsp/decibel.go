package dsp

import "math"

// Decibel converts a power ratio (e.g. squared magnitude) to decibels,
// clamping non-positive input to a very small floor instead of returning
// -Inf so callers can feed it straight into the spectrum pixel mapping.
func Decibel(power float32) float32 {
	if power <= 0 {
		power = 1e-12
	}
	return float32(10 * math.Log10(float64(power)))
}
