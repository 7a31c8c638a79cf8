// Package graticule generates latitude/longitude grid lines as GeoJSON.
package graticule

import (
	"errors"
	"fmt"
	"math"

	"github.com/woozymasta/geolayers/internal/geo"
)

// Default grid settings in degrees.
const (
	DefaultInterval  = 20.0
	DefaultPrecision = 1.0
)

// MaxLinePoints caps the number of positions in a single line.
// Parallels are the longest lines, so precision must be at least
// 360/(MaxLinePoints-1) degrees.
const MaxLinePoints = 100_001

// ErrInvalidConfig marks options that cannot produce a grid.
var ErrInvalidConfig = errors.New("graticule: invalid configuration")

// Options controls grid generation.
type Options struct {
	// Interval is the spacing between grid lines in degrees.
	Interval float64 `yaml:"interval,omitempty" json:"interval,omitempty"`
	// Precision is the step between points along a line in degrees.
	Precision float64 `yaml:"precision,omitempty" json:"precision,omitempty"`
	// Frame outputs only the bounding polygon instead of the grid.
	Frame bool `yaml:"frame,omitempty" json:"frame,omitempty"`
}

// DefaultOptions returns a 20 degree grid densified every degree.
func DefaultOptions() Options {
	return Options{Interval: DefaultInterval, Precision: DefaultPrecision}
}

// Validate rejects non-positive or non-finite steps, and precisions that give
// lines with fewer than two or more than MaxLinePoints positions.
func (o Options) Validate() error {
	if !positive(o.Precision) {
		return fmt.Errorf("%w: precision must be > 0, got %v", ErrInvalidConfig, o.Precision)
	}
	// a meridian needs at least two positions
	if o.Precision > 180 {
		return fmt.Errorf("%w: precision must be <= 180, got %v", ErrInvalidConfig, o.Precision)
	}
	if n := geo.Steps(360, o.Precision); n > MaxLinePoints {
		return fmt.Errorf("%w: precision %v gives %d points per line, limit is %d",
			ErrInvalidConfig, o.Precision, n, MaxLinePoints)
	}
	if o.Frame {
		return nil
	}
	if !positive(o.Interval) {
		return fmt.Errorf("%w: interval must be > 0, got %v", ErrInvalidConfig, o.Interval)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// Generate builds the grid described by opts.
// In frame mode the collection holds a single Polygon feature.
func Generate(opts Options) (geo.FeatureCollection, error) {
	if err := opts.Validate(); err != nil {
		return geo.FeatureCollection{}, err
	}

	if opts.Frame {
		fc := geo.NewFeatureCollection(1)
		fc.Features = append(fc.Features, geo.Feature{
			Type:       geo.TypeFeature,
			Geometry:   Frame(opts.Precision),
			Properties: map[string]any{"name": "frame"},
		})
		return fc, nil
	}

	meridians := geo.Steps(180, opts.Interval)
	parallels := geo.Steps(90, opts.Interval)
	fc := geo.NewFeatureCollection(2*(meridians+parallels) - 2)

	for k := 0; k < meridians; k++ {
		lng := float64(k) * opts.Interval
		fc.Features = append(fc.Features, line(Meridian(lng, opts.Precision), lng))
		if k != 0 {
			fc.Features = append(fc.Features, line(Meridian(-lng, opts.Precision), -lng))
		}
	}

	for k := 0; k < parallels; k++ {
		lat := float64(k) * opts.Interval
		fc.Features = append(fc.Features, line(Parallel(lat, opts.Precision), lat))
		if k != 0 {
			fc.Features = append(fc.Features, line(Parallel(-lat, opts.Precision), -lat))
		}
	}

	return fc, nil
}

func line(coords [][]float64, deg float64) geo.Feature {
	return geo.LineString(coords, map[string]any{"name": geo.FormatNumber(deg)})
}

// Meridian returns the points of the line of longitude lng from the south
// pole to the north pole.
func Meridian(lng, precision float64) [][]float64 {
	lng = geo.ClampLng(lng)
	n := geo.Steps(180, precision)
	coords := make([][]float64, n)
	for j := 0; j < n; j++ {
		coords[j] = []float64{lng, -90 + float64(j)*precision}
	}
	return coords
}

// Parallel returns the points of the line of latitude lat from west to east.
func Parallel(lat, precision float64) [][]float64 {
	n := geo.Steps(360, precision)
	coords := make([][]float64, n)
	for j := 0; j < n; j++ {
		coords[j] = []float64{geo.ClampLng(-180 + float64(j)*precision), lat}
	}
	return coords
}

// Frame returns the polygon bounding the world: the western edge south to
// north, then the eastern edge north to south. The ring is left open, its
// first and last vertices share the southern edge.
func Frame(precision float64) geo.Geometry {
	west := Meridian(-180, precision)
	east := Meridian(180, precision)

	ring := make([][]float64, 0, len(west)+len(east))
	ring = append(ring, west...)
	for i := len(east) - 1; i >= 0; i-- {
		ring = append(ring, east[i])
	}

	return geo.Geometry{Type: geo.TypePolygon, Coordinates: [][][]float64{ring}}
}
