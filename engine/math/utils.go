package math

import "golang.org/x/exp/constraints"

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any ordered type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// AtLeast returns f, or fallback when f is below low. Used to replace
// unusable config values with defaults instead of pinning them to the bound.
func AtLeast[T constraints.Ordered](f, low, fallback T) T {
	if f < low {
		return fallback
	}
	return f
}
