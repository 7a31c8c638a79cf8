package geo

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampLng(t *testing.T) {
	assert.Equal(t, MaxLng, ClampLng(180))
	assert.Equal(t, MaxLng, ClampLng(200))
	assert.Equal(t, -MaxLng, ClampLng(-180))
	assert.Equal(t, 12.5, ClampLng(12.5))
}

func TestSteps(t *testing.T) {
	assert.Equal(t, 181, Steps(180, 1))
	assert.Equal(t, 10, Steps(180, 20))
	assert.Equal(t, 1801, Steps(180, 0.1))
	assert.Equal(t, 26, Steps(180, 7))
}

func TestDecode(t *testing.T) {
	src := `{"type":"FeatureCollection","features":[
		{"type":"Feature","id":"NO","properties":{"name":"Norway","value":5.3},
		 "geometry":{"type":"Polygon","coordinates":[[[4,58],[31,58],[31,71],[4,58]]]}}]}`

	fc, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "NO", fc.Features[0].ID)
	assert.Equal(t, TypePolygon, fc.Features[0].Geometry.Type)

	v, ok := Number(fc.Features[0].Properties["value"])
	assert.True(t, ok)
	assert.Equal(t, 5.3, v)
}

func TestDecodeRejectsOtherTypes(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"type":"Feature"}`))
	assert.ErrorIs(t, err, ErrNotFeatureCollection)

	_, err = Decode(strings.NewReader(`{`))
	assert.Error(t, err)
}

func TestCloneIsolatesProperties(t *testing.T) {
	fc := NewFeatureCollection(1)
	fc.Features = append(fc.Features, Feature{Type: TypeFeature, Properties: map[string]any{"value": 1.0}})
	fc.Features = append(fc.Features, Feature{Type: TypeFeature})

	c := fc.Clone()
	c.Features[0].Properties["value"] = 2.0

	assert.Equal(t, 1.0, fc.Features[0].Properties["value"])
	assert.NotNil(t, c.Features[1].Properties)
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{1.5, 1.5, true},
		{float32(2), 2, true},
		{3, 3, true},
		{int64(4), 4, true},
		{json.Number("5.5"), 5.5, true},
		{json.Number("x"), 0, false},
		{"6", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := Number(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}
