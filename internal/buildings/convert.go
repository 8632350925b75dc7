package buildings

import (
	"github.com/twpayne/go-geom"

	"github.com/osmno/post2osm/internal/geometry"
)

// fromGeom converts a decoded footprint to a polygon. A MultiPolygon becomes
// one polygon whose first ring is the outer ring of its first patch and whose
// remaining rings are every other ring of every patch. Other geometry types
// return false.
func fromGeom(g geom.T) (geometry.Polygon, bool) {
	switch t := g.(type) {
	case *geom.Polygon:
		poly := appendRings(nil, t)
		return poly, len(poly) > 0
	case *geom.MultiPolygon:
		var poly geometry.Polygon
		for i := range t.NumPolygons() {
			poly = appendRings(poly, t.Polygon(i))
		}
		return poly, len(poly) > 0
	default:
		return nil, false
	}
}

func appendRings(poly geometry.Polygon, p *geom.Polygon) geometry.Polygon {
	for i := range p.NumLinearRings() {
		coords := p.LinearRing(i).Coords()
		if len(coords) == 0 {
			continue
		}
		ring := make(geometry.Ring, len(coords))
		for j, c := range coords {
			ring[j] = geometry.Point{Lon: c.X(), Lat: c.Y()}
		}
		poly = append(poly, ring)
	}
	return poly
}
