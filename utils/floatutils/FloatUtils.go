// Package floatutils provides utilities for working with floats
package floatutils

import "math"

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipByte rounds value to the nearest integer and clips it to the
// range of a byte
func ClipByte(value float64) uint8 {
	return uint8(Clip(math.Round(value), 0, math.MaxUint8))
}
