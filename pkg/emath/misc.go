package emath

import "math"

// Some functions that only operate on basic types, that are useful

// https://www.sjbrown.co.uk/posts/gamma-correct-rendering/ - "linear RGB to sRGB"
// `f` is assumed to be in the range [0,1]
func GammaExpand_F64(f float64) float64 {
	if f <= 0.0031308 {
		return 12.92 * f
	}
	return 1.055 * math.Pow(f, 1.0/2.4) - 0.055
}

// Clamp returns index clamped to [0, size-1] (edge replication).
func Clamp(index, size int) int {
	if index < 0 {
		return 0
	}
	if index >= size {
		return size - 1
	}
	return index
}

// Mirror reflects an out-of-range index back into [0, size), repeating the
// edge sample (-1 -> 0, size -> size-1).
func Mirror(index, size int) int {
	if size <= 0 {
		return 0
	}
	period := 2 * size
	index = index % period
	if index < 0 {
		index += period
	}
	if index >= size {
		index = period - index - 1
	}
	return index
}
