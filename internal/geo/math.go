package geo

import (
	"math"
	"strconv"
)

// MaxLng is the longitude used in place of the antimeridian.
// Lines drawn exactly on ±180 degenerate in web mercator renderers.
const MaxLng = 179.999999

// stepEpsilon absorbs float drift when comparing a stepped value to its bound.
const stepEpsilon = 1e-9

// ClampLng replaces longitudes at or beyond the antimeridian with ±MaxLng.
func ClampLng(lng float64) float64 {
	if lng >= 180 {
		return MaxLng
	}
	if lng <= -180 {
		return -MaxLng
	}
	return lng
}

// Steps returns how many values start, start+step, ... fit into span
// with the end inclusive. A step that does not divide span stops at the
// last value not exceeding it.
func Steps(span, step float64) int {
	return int(math.Floor(span/step+stepEpsilon)) + 1
}

// FormatNumber renders a value the shortest way ("20", "-7.5").
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
