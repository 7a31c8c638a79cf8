package choropleth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/geolayers/internal/classify"
	"github.com/woozymasta/geolayers/internal/geo"
)

func countries() geo.FeatureCollection {
	fc := geo.NewFeatureCollection(6)
	add := func(id, name string, value any) {
		props := map[string]any{"name": name}
		if value != nil {
			props["rate"] = value
		}
		fc.Features = append(fc.Features, geo.Feature{
			ID:         id,
			Type:       geo.TypeFeature,
			Properties: props,
			Geometry:   geo.Geometry{Type: geo.TypePolygon, Coordinates: [][][]float64{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}},
		})
	}
	add("NO", "Norway", 0.0)
	add("SE", "Sweden", 25.0)
	add("DK", "Denmark", 50.0)
	add("FI", "Finland", 75.0)
	add("IS", "Iceland", 100.0)
	add("GL", "Greenland", -99.0)
	return fc
}

func noData(v float64) *float64 { return &v }

func TestNewEqualInterval(t *testing.T) {
	l, err := New(countries(), Options{
		Key:         "rate",
		NumClasses:  4,
		NoDataValue: noData(-99),
		Unit:        "%",
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 25, 50, 75, 100}, l.Breaks())
	assert.Equal(t, []float64{0, 25, 50, 75, 100}, l.Values())
	assert.Equal(t, []string{"#fef0d9", "#fdcc8a", "#fc8d59", "#d7301f"}, l.Colors())
}

func TestStyle(t *testing.T) {
	fc := countries()
	l, err := New(fc, Options{Key: "rate", NumClasses: 4, NoDataValue: noData(-99)})
	require.NoError(t, err)

	s := l.Style(fc.Features[1]) // 25 sits on a boundary, lower class
	assert.Equal(t, "#fef0d9", s.FillColor)
	assert.Equal(t, 0.5, s.Weight)
	assert.Equal(t, "#000", s.Color)
	assert.Equal(t, 1.0, s.FillOpacity)

	assert.Equal(t, "#d7301f", l.Style(fc.Features[4]).FillColor)
	assert.Equal(t, "#cccccc", l.Style(fc.Features[5]).FillColor)

	outside := geo.Feature{Properties: map[string]any{"rate": 1000.0}}
	assert.Equal(t, "#cccccc", l.Style(outside).FillColor)

	_, err = l.Class(outside)
	assert.ErrorIs(t, err, classify.ErrOutOfRange)
	_, err = l.Class(fc.Features[5])
	assert.ErrorIs(t, err, classify.ErrOutOfRange)

	// styles are fresh values, not a shared object
	a := l.Style(fc.Features[0])
	a.Weight = 10
	assert.Equal(t, 0.5, l.Style(fc.Features[0]).Weight)
	assert.Equal(t, Style{Weight: 2}, l.HighlightStyle())
}

func TestLabel(t *testing.T) {
	fc := countries()
	l, err := New(fc, Options{Key: "rate", NumClasses: 4, NoDataValue: noData(-99), Unit: "%"})
	require.NoError(t, err)

	assert.Equal(t, "Denmark: 50 %", l.Label(fc.Features[2]))
	assert.Equal(t, "Greenland: No data", l.Label(fc.Features[5]))
	assert.Equal(t, "7 %", l.Label(geo.Feature{Properties: map[string]any{"rate": 7.0}}))
}

func TestLegend(t *testing.T) {
	l, err := New(countries(), Options{Key: "rate", NumClasses: 4, NoDataValue: noData(-99)})
	require.NoError(t, err)

	legend := l.Legend()
	require.Len(t, legend, 5)
	assert.Equal(t, "0 – 25", legend[0].Label)
	assert.Equal(t, 0.0, *legend[0].From)
	assert.Equal(t, 25.0, *legend[0].To)
	assert.Equal(t, "#d7301f", legend[3].Color)
	assert.True(t, legend[4].NoData)
	assert.Equal(t, "No data", legend[4].Label)
	assert.Equal(t, "#cccccc", legend[4].Color)

	l, err = New(countries(), Options{Key: "rate", NumClasses: 3})
	require.NoError(t, err)
	assert.Len(t, l.Legend(), 3)
}

func TestQuantilesWithData(t *testing.T) {
	fc := countries()
	data := map[string]float64{"NO": 1, "SE": 2, "DK": 3, "FI": 4, "IS": 5, "GL": 6}

	l, err := New(fc, Options{Data: data, Classification: classify.Quantiles, NumClasses: 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 5, 6}, l.Breaks())

	// input collection is left alone
	_, joined := fc.Features[0].Properties[classify.ValueProperty]
	assert.False(t, joined)

	out := l.FeatureCollection()
	assert.Equal(t, 1.0, out.Features[0].Properties[classify.ValueProperty])
	assert.Equal(t, 0, out.Features[0].Properties[PropClass])
	assert.Equal(t, 2, out.Features[5].Properties[PropClass])
	assert.Equal(t, "#e34a33", out.Features[5].Properties[PropFillColor])
	assert.Equal(t, "Greenland: 6", out.Features[5].Properties[PropLabel])
}

func TestFeatureCollectionMissingData(t *testing.T) {
	l, err := New(countries(), Options{Data: map[string]float64{"NO": 1, "SE": 9, "DK": 5}, NumClasses: 4})
	require.NoError(t, err)

	out := l.FeatureCollection()
	require.Len(t, out.Features, 6)
	assert.Nil(t, out.Features[3].Properties[PropClass])
	assert.Equal(t, "#cccccc", out.Features[3].Properties[PropFillColor])
	assert.Equal(t, "Finland: No data", out.Features[3].Properties[PropLabel])
}

func TestExplicitBreaksAndColors(t *testing.T) {
	l, err := New(countries(), Options{
		Key:         "rate",
		ClassBreaks: []float64{-100, 0, 100},
		Colors:      []string{"#00F", "f00", "0f0"},
		NoDataColor: "#123456",
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{-100, 0, 100}, l.Breaks())
	assert.Equal(t, []string{"#0000ff", "#ff0000"}, l.Colors())

	fc := countries()
	assert.Equal(t, "#0000ff", l.Style(fc.Features[5]).FillColor)
	assert.Equal(t, "#ff0000", l.Style(fc.Features[2]).FillColor)
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"no values", Options{Key: "missing"}},
		{"negative classes", Options{Key: "rate", NumClasses: -1}},
		{"no palette", Options{Key: "rate", NumClasses: 12}},
		{"too few colors", Options{Key: "rate", NumClasses: 3, Colors: []string{"fff", "000"}}},
		{"bad color", Options{Key: "rate", NumClasses: 2, Colors: []string{"fff", "nope"}}},
		{"bad no data color", Options{Key: "rate", NumClasses: 3, NoDataColor: "#12"}},
		{"unsorted breaks", Options{Key: "rate", ClassBreaks: []float64{10, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(countries(), tt.opts)
			assert.ErrorIs(t, err, ErrInvalidOptions)
		})
	}
}

func TestDefaultPaletteIsCopy(t *testing.T) {
	p, ok := DefaultPalette(3)
	require.True(t, ok)
	p[0] = "000000"

	again, _ := DefaultPalette(3)
	assert.Equal(t, "FEE8C8", again[0])

	_, ok = DefaultPalette(2)
	assert.False(t, ok)
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, "value", o.Key)
	assert.Equal(t, 6, o.NumClasses)
	assert.Equal(t, "CCC", o.NoDataColor)
	assert.Equal(t, "No data", o.NoDataLabel)
	assert.Equal(t, classify.EqualInterval, o.Classification)
}

func TestDataJoinExcludesNoDataValue(t *testing.T) {
	fc := countries()
	data := map[string]float64{"NO": 10, "SE": 20, "DK": 30, "FI": 40, "IS": -99}

	l, err := New(fc, Options{Data: data, NumClasses: 3, NoDataValue: noData(-99)})
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30, 40}, l.Values())
	assert.Equal(t, []float64{10, 20, 30, 40}, l.Breaks())

	out := l.FeatureCollection()
	assert.Nil(t, out.Features[4].Properties[PropClass])
	assert.Equal(t, "#cccccc", out.Features[4].Properties[PropFillColor])
	assert.Equal(t, "Iceland: No data", out.Features[4].Properties[PropLabel])
}

func TestRoundedBreaksDoNotExceedMaximum(t *testing.T) {
	l, err := New(countries(), Options{Data: map[string]float64{"NO": 0, "SE": 1.8}, NumClasses: 9})
	require.NoError(t, err)

	breaks := l.Breaks()
	assert.Equal(t, 1.8, breaks[len(breaks)-1])
	assert.LessOrEqual(t, breaks[len(breaks)-2], 1.8)
}
