package spatial

import "github.com/osmno/post2osm/internal/geometry"

// Building is a footprint with its outer-ring bounding box. The box is
// computed once in NewBuilding and the fields are unexported, so it cannot
// drift from the ring used for containment.
type Building struct {
	id      string
	polygon geometry.Polygon
	bbox    BBox
}

// NewBuilding builds a Building from a multipart polygon. It returns false
// when the polygon has no usable outer ring.
func NewBuilding(id string, polygon geometry.Polygon) (Building, bool) {
	outer, ok := polygon.Outer()
	if !ok {
		return Building{}, false
	}
	return Building{id: id, polygon: polygon, bbox: BoundingBoxOf(outer)}, true
}

// ID returns the source identifier of the footprint.
func (b Building) ID() string { return b.id }

// Polygon returns every ring of the footprint.
func (b Building) Polygon() geometry.Polygon { return b.polygon }

// Outer returns the ring used for containment.
func (b Building) Outer() geometry.Ring { return b.polygon[0] }

// BBox returns the outer ring's bounding box.
func (b Building) BBox() BBox { return b.bbox }

// Contains runs the pre-filter and then the exact containment test against
// the outer ring. A point outside the box is Outside without touching the ring.
func (b Building) Contains(p geometry.Point) geometry.Containment {
	if !b.bbox.ContainsStrict(p) {
		return geometry.Outside
	}
	return geometry.Contains(b.Outer(), p)
}
