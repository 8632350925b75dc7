// Package spatial narrows the set of buildings that can contain a point before
// the exact ring containment test runs.
package spatial

import "github.com/osmno/post2osm/internal/geometry"

// BBox represents an axis-aligned geographic bounding box.
type BBox struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// BoundingBoxOf returns the componentwise min/max over all ring vertices.
// An empty ring yields the zero BBox.
func BoundingBoxOf(ring geometry.Ring) BBox {
	if len(ring) == 0 {
		return BBox{}
	}
	b := BBox{MinLon: ring[0].Lon, MinLat: ring[0].Lat, MaxLon: ring[0].Lon, MaxLat: ring[0].Lat}
	for _, p := range ring[1:] {
		b.MinLon = min(b.MinLon, p.Lon)
		b.MinLat = min(b.MinLat, p.Lat)
		b.MaxLon = max(b.MaxLon, p.Lon)
		b.MaxLat = max(b.MaxLat, p.Lat)
	}
	return b
}

// ContainsStrict reports whether p lies strictly inside the box. Points on
// the box edge are excluded; this is only a pre-filter for Contains.
func (b BBox) ContainsStrict(p geometry.Point) bool {
	return b.MinLon < p.Lon && p.Lon < b.MaxLon &&
		b.MinLat < p.Lat && p.Lat < b.MaxLat
}

// DiagonalMeters is the distance in meters between the box corners.
func (b BBox) DiagonalMeters() float64 {
	return geometry.Distance(
		geometry.Point{Lon: b.MinLon, Lat: b.MinLat},
		geometry.Point{Lon: b.MaxLon, Lat: b.MaxLat},
	)
}

// Empty reports whether the box has no area.
func (b BBox) Empty() bool {
	return b.MaxLon <= b.MinLon || b.MaxLat <= b.MinLat
}
