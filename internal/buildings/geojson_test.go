package buildings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmno/post2osm/internal/geometry"
)

const footprints = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "300001", "properties": {},
     "geometry": {"type": "Polygon", "coordinates": [
       [[10.0, 59.0], [10.0, 59.001], [10.001, 59.001], [10.001, 59.0], [10.0, 59.0]],
       [[10.0004, 59.0004], [10.0004, 59.0006], [10.0006, 59.0006], [10.0006, 59.0004], [10.0004, 59.0004]]
     ]}},
    {"type": "Feature", "properties": {},
     "geometry": {"type": "MultiPolygon", "coordinates": [
       [[[11.0, 60.0], [11.0, 60.001], [11.001, 60.001], [11.0, 60.0]]],
       [[[11.01, 60.0], [11.01, 60.001], [11.011, 60.001], [11.01, 60.0]]]
     ]}},
    {"type": "Feature", "id": 7, "properties": {},
     "geometry": {"type": "Point", "coordinates": [10.0, 59.0]}},
    {"type": "Feature", "properties": {}, "geometry": null},
    {"type": "Feature", "properties": {},
     "geometry": {"type": "Polygon", "coordinates": "garbage"}}
  ]
}`

func TestDecodeGeoJSON(t *testing.T) {
	bs, stats, err := DecodeGeoJSON(strings.NewReader(footprints), "bygninger_0301_Oslo.geojson")
	require.NoError(t, err)

	assert.Equal(t, Stats{Features: 5, Buildings: 2, Skipped: 3}, stats)
	require.Len(t, bs, 2)

	assert.Equal(t, "300001", bs[0].ID())
	assert.Len(t, bs[0].Polygon(), 2, "hole kept for wall search")
	assert.Equal(t, geometry.Point{Lon: 10.0, Lat: 59.0}, bs[0].Outer()[0])
	assert.InDelta(t, 10.001, bs[0].BBox().MaxLon, 1e-12)

	// MultiPolygon: rings of every patch, outer ring from the first.
	assert.Equal(t, "bygninger_0301_Oslo.geojson#1", bs[1].ID())
	assert.Len(t, bs[1].Polygon(), 2)
	assert.InDelta(t, 11.001, bs[1].BBox().MaxLon, 1e-12)
	assert.Equal(t, geometry.Inside, bs[1].Contains(geometry.Point{Lon: 11.0002, Lat: 60.0005}))
}

func TestDecodeGeoJSON_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"not json", "{", "buildings: decode"},
		{"wrong type", `{"type":"Feature"}`, "expected FeatureCollection"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeGeoJSON(strings.NewReader(tt.input), "x.geojson")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeGeoJSON_Empty(t *testing.T) {
	bs, stats, err := DecodeGeoJSON(strings.NewReader(`{"type":"FeatureCollection","features":[]}`), "x")
	require.NoError(t, err)
	assert.Empty(t, bs)
	assert.Zero(t, stats.Features)
}
