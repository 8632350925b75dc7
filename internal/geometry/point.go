// Package geometry implements the small-area planar math used to decide whether
// a point lies inside a building footprint and where the nearest wall is.
//
// Distances use a local tangent plane approximation with longitude scaled by
// cos(latitude). The approximation holds for separations of tens to a few
// hundred meters and must not be used at continental scale.
package geometry

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used to convert tangent plane
// distances (radians) to meters.
const EarthRadiusMeters = 6371000.0

// Point is a WGS84 longitude/latitude pair in degrees.
type Point struct {
	Lon float64
	Lat float64
}

// String formats the point as "lon,lat".
func (p Point) String() string {
	return fmt.Sprintf("%.7f,%.7f", p.Lon, p.Lat)
}

// Ring is an ordered loop of points. A usable ring is closed (first point
// equals last point) and has at least four points.
type Ring []Point

// Closed reports whether the ring is closed and long enough to enclose an area.
func (r Ring) Closed() bool {
	return len(r) >= 4 && r[0] == r[len(r)-1]
}

// Polygon is a multipart footprint. The first ring is the outer boundary;
// later rings are holes or detached patches.
type Polygon []Ring

// Outer returns the outer boundary, or false if the polygon has no points.
func (p Polygon) Outer() (Ring, bool) {
	if len(p) == 0 || len(p[0]) == 0 {
		return nil, false
	}
	return p[0], true
}

// NumEdges counts segments across all rings.
func (p Polygon) NumEdges() int {
	n := 0
	for _, ring := range p {
		if len(ring) > 1 {
			n += len(ring) - 1
		}
	}
	return n
}

// Distance returns the equirectangular distance between a and b in meters.
// Both longitudes are scaled by the cosine of the mean latitude, so points on
// the same meridian are separated by their latitude difference only.
func Distance(a, b Point) float64 {
	cos := math.Cos(radians((a.Lat + b.Lat) / 2))
	dx := radians(b.Lon-a.Lon) * cos
	dy := radians(b.Lat - a.Lat)
	return EarthRadiusMeters * math.Hypot(dx, dy)
}

// project maps a point to the tangent plane in radians, scaling longitude by
// the cosine of the point's own latitude. Segment projection depends on this
// per-vertex scaling; Distance does not use it.
func project(p Point) (x, y float64) {
	y = radians(p.Lat)
	return radians(p.Lon) * math.Cos(y), y
}

// unproject reverses project.
func unproject(x, y float64) Point {
	return Point{Lon: degrees(x / math.Cos(y)), Lat: degrees(y)}
}

func radians(d float64) float64 { return d * math.Pi / 180 }

func degrees(r float64) float64 { return r * 180 / math.Pi }
