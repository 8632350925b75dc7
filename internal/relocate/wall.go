package relocate

import "github.com/osmno/post2osm/internal/geometry"

// noWallDistance is larger than any real distance to a wall, so the first
// edge examined always replaces it.
const noWallDistance = 99999.0

// ClosestWall finds the edge nearest to p across every ring of polygon and
// returns the point offsetMeters beyond that edge together with the distance
// from p to the edge. It returns false when the polygon has no edges.
func ClosestWall(p geometry.Point, polygon geometry.Polygon, offsetMeters float64) (geometry.Point, float64, bool) {
	best := noWallDistance
	var bestPoint geometry.Point
	found := false

	for _, ring := range polygon {
		for i := 1; i < len(ring); i++ {
			pt, d := geometry.ClosestPointOnSegment(ring[i-1], ring[i], p, offsetMeters)
			if d < best {
				best = d
				bestPoint = pt
				found = true
			}
		}
	}

	return bestPoint, best, found
}
