package answerkey

import (
	"math"
	"strconv"
)

// defaultPlaces is the number of decimal places used when a precision is not
// a number.
const defaultPlaces = 2

// RoundToPrecision rounds value as the precision specifier asks. Precisions of
// 0.01, 0.1, and 1 round to two places, one place, and an integer. Any other
// numeric precision p in (0, 1) rounds to -floor(log10(p)) places, and p ≥ 1
// rounds to an integer. Anything else rounds to two places.
//
// Rounding is to the nearest representable decimal with ties to even on the
// exact binary value, so 2.675 rounds to 2.67 at two places. Rounding is
// idempotent. Non-finite values are returned unchanged.
func RoundToPrecision(value float64, precision Scalar) float64 {
	return roundPlaces(value, Places(precision))
}

// Places returns the number of decimal places RoundToPrecision uses for a
// precision, or 0 for integer rounding.
func Places(precision Scalar) int {
	p, ok := precision.Float()
	switch {
	case !ok:
		return defaultPlaces
	case p == 0.01:
		return 2
	case p == 0.1:
		return 1
	case p == 1:
		return 0
	case p < 1:
		if p <= 0 {
			return defaultPlaces
		}
		n := -int(math.Floor(math.Log10(p)))
		// log10 of an exact power of ten may come out a hair low.
		if n > 1 && math.Pow10(1-n) <= p {
			n--
		}
		return n
	default:
		// Includes NaN and +Inf.
		return 0
	}
}

// roundPlaces rounds v to n decimal places, or to an integer if n is 0.
func roundPlaces(v float64, n int) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	if n == 0 {
		// Adding zero turns -0 into 0.
		return math.RoundToEven(v) + 0
	}
	// FormatFloat rounds correctly from the exact binary value.
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', n, 64), 64)
	if err != nil {
		return v
	}
	return r
}
