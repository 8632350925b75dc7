package spatial

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/osmno/post2osm/internal/geometry"
)

// queryTolerance is the half-size, in degrees, of the rectangle used to probe
// the tree for a point.
const queryTolerance = 1e-9

// entry wraps a building position for R-tree storage.
type entry struct {
	pos  int
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *entry) Bounds() rtreego.Rect { return e.rect }

// Index is a read-only R-tree over building bounding boxes for one region.
// It is safe for concurrent queries once built.
type Index struct {
	tree      *rtreego.Rtree
	buildings []Building
}

// NewIndex indexes buildings. Buildings whose box has no area can never
// strictly contain a point and are left out of the tree.
func NewIndex(buildings []Building) *Index {
	ix := &Index{
		tree:      rtreego.NewTree(2, 25, 50),
		buildings: buildings,
	}

	for i, b := range buildings {
		if b.bbox.Empty() {
			continue
		}
		rect, err := rtreego.NewRect(
			rtreego.Point{b.bbox.MinLon, b.bbox.MinLat},
			[]float64{b.bbox.MaxLon - b.bbox.MinLon, b.bbox.MaxLat - b.bbox.MinLat},
		)
		if err != nil {
			continue
		}
		ix.tree.Insert(&entry{pos: i, rect: rect})
	}

	return ix
}

// Len returns the number of buildings given to NewIndex.
func (ix *Index) Len() int { return len(ix.buildings) }

// Building returns the building at position i.
func (ix *Index) Building(i int) Building { return ix.buildings[i] }

// Candidates returns the positions of buildings whose box strictly contains p,
// in the order the buildings were given to NewIndex.
func (ix *Index) Candidates(p geometry.Point) []int {
	hits := ix.tree.SearchIntersect(rtreego.Point{p.Lon, p.Lat}.ToRect(queryTolerance))
	if len(hits) == 0 {
		return nil
	}

	out := make([]int, 0, len(hits))
	for _, h := range hits {
		e := h.(*entry)
		if ix.buildings[e.pos].bbox.ContainsStrict(p) {
			out = append(out, e.pos)
		}
	}
	sort.Ints(out)
	return out
}
