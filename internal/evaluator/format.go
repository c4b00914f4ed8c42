package evaluator

import (
	"math"
	"strconv"
	"strings"
)

// Format renders v the way the calculator displays numbers: the shortest
// decimal that round-trips, switching to exponent form for magnitudes of
// at least 1e21 or below 1e-6. Infinities render as "Infinity" and
// "-Infinity".
func Format(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		return trimExponent(strconv.FormatFloat(v, 'e', -1, 64))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// trimExponent rewrites Go's "1e-07" as "1e-7".
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	mant, sign, digits := s[:i], s[i+1], strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + string(sign) + digits
}

// FormatFixed renders v with four decimal places.
func FormatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
