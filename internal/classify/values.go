package classify

import (
	"fmt"
	"slices"

	"github.com/woozymasta/geolayers/internal/geo"
)

// ValueProperty is the property JoinData writes joined values to.
const ValueProperty = "value"

// ExtractValues collects the numeric values of properties[key], skipping
// missing or non-numeric values and values equal to noData when it is set.
// The result is sorted ascending.
func ExtractValues(fc geo.FeatureCollection, key string, noData *float64) []float64 {
	values := make([]float64, 0, len(fc.Features))
	for _, f := range fc.Features {
		v, ok := geo.Number(f.Properties[key])
		if !ok {
			continue
		}
		if noData != nil && v == *noData {
			continue
		}
		values = append(values, v)
	}

	slices.Sort(values)
	return values
}

// JoinData writes data[id] to the "value" property of every feature and
// returns the joined values sorted ascending, leaving out values equal to
// noData when it is set. Features without an entry get a nil value. The id comes from properties[idProperty] when idProperty is
// set, otherwise from the feature id.
//
// The collection is modified in place.
func JoinData(fc geo.FeatureCollection, data map[string]float64, idProperty string, noData *float64) []float64 {
	values := make([]float64, 0, len(fc.Features))
	for i := range fc.Features {
		f := &fc.Features[i]
		if f.Properties == nil {
			f.Properties = map[string]any{}
		}

		id := f.ID
		if idProperty != "" {
			id = f.Properties[idProperty]
		}

		v, ok := lookup(data, id)
		if !ok {
			f.Properties[ValueProperty] = nil
			continue
		}

		f.Properties[ValueProperty] = v
		if noData != nil && v == *noData {
			continue
		}
		values = append(values, v)
	}

	slices.Sort(values)
	return values
}

func lookup(data map[string]float64, id any) (float64, bool) {
	if id == nil {
		return 0, false
	}

	var key string
	switch v := id.(type) {
	case string:
		key = v
	default:
		// numeric ids arrive as float64 from JSON
		if n, ok := geo.Number(v); ok {
			key = geo.FormatNumber(n)
		} else {
			key = fmt.Sprint(v)
		}
	}

	v, ok := data[key]
	return v, ok
}
