package frenet

import (
	"errors"
	"math"
)

var (
	// ErrInvalidInput is returned when a matcher cannot be built from the
	// supplied vertices.
	ErrInvalidInput = errors.New("invalid path input")

	// ErrOutOfRange is returned by queries whose arguments cannot be mapped,
	// such as non-finite coordinates or an arc length before the path start.
	ErrOutOfRange = errors.New("input out of range")
)

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
