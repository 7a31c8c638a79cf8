// Package geo holds GeoJSON data structures and coordinate helpers.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
)

// GeoJSON object type names.
const (
	TypeFeatureCollection = "FeatureCollection"
	TypeFeature           = "Feature"
	TypeLineString        = "LineString"
	TypePolygon           = "Polygon"
)

// ErrNotFeatureCollection is returned by Decode for any other GeoJSON object.
var ErrNotFeatureCollection = errors.New("geojson: not a FeatureCollection")

// FeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type FeatureCollection struct {
	Type     string    `json:"type" yaml:"type"`
	Features []Feature `json:"features" yaml:"features"`
}

// Feature represents a single geographic feature with geometry and properties.
type Feature struct {
	ID         any            `json:"id,omitempty" yaml:"id,omitempty"`
	Properties map[string]any `json:"properties" yaml:"properties"`
	Type       string         `json:"type" yaml:"type"`
	Geometry   Geometry       `json:"geometry" yaml:"geometry"`
}

// Geometry represents the geometry of a feature.
// Coordinates is [][]float64 for a LineString and [][][]float64 for a Polygon
// when produced here; decoded geometry keeps whatever nesting the source had.
type Geometry struct {
	Type        string `json:"type" yaml:"type"`
	Coordinates any    `json:"coordinates" yaml:"coordinates"`
}

// NewFeatureCollection returns an empty collection with room for n features.
func NewFeatureCollection(n int) FeatureCollection {
	return FeatureCollection{Type: TypeFeatureCollection, Features: make([]Feature, 0, n)}
}

// LineString builds a LineString feature.
func LineString(coords [][]float64, props map[string]any) Feature {
	return Feature{
		Type:       TypeFeature,
		Geometry:   Geometry{Type: TypeLineString, Coordinates: coords},
		Properties: props,
	}
}

// Clone copies the collection and each feature's properties map.
// Geometry is shared, it is never modified in place.
func (fc FeatureCollection) Clone() FeatureCollection {
	out := FeatureCollection{Type: fc.Type, Features: make([]Feature, len(fc.Features))}
	for i, f := range fc.Features {
		f.Properties = maps.Clone(f.Properties)
		if f.Properties == nil {
			f.Properties = map[string]any{}
		}
		out.Features[i] = f
	}
	return out
}

// Decode reads a GeoJSON FeatureCollection.
func Decode(r io.Reader) (FeatureCollection, error) {
	var fc FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return FeatureCollection{}, fmt.Errorf("decode geojson: %w", err)
	}
	if fc.Type != TypeFeatureCollection {
		return FeatureCollection{}, fmt.Errorf("%w: got %q", ErrNotFeatureCollection, fc.Type)
	}

	return fc, nil
}

// Number converts a decoded property value to float64.
// JSON numbers arrive as float64, YAML integers as int.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
