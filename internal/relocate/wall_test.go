package relocate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmno/post2osm/internal/geometry"
)

func TestClosestWall_PicksNearestEdge(t *testing.T) {
	ring := rect(0, 0, 20, 6)
	p := at(10, 2)

	target, dist, ok := ClosestWall(p, geometry.Polygon{ring}, 1)
	require.True(t, ok)
	assert.InDelta(t, 2.0, dist, 0.01)
	// Pushed through the south wall.
	assert.Less(t, target.Lat, ring[0].Lat)
	assert.InDelta(t, dist+1, geometry.Distance(p, target), 0.05)
}

func TestClosestWall_SearchesEveryRing(t *testing.T) {
	outer := rect(0, 0, 20, 20)
	courtyard := rect(7, 7, 6, 6)
	p := at(6, 10)

	_, outerOnly, ok := ClosestWall(p, geometry.Polygon{outer}, 0)
	require.True(t, ok)
	_, withHole, ok := ClosestWall(p, geometry.Polygon{outer, courtyard}, 0)
	require.True(t, ok)

	assert.Greater(t, outerOnly, 5.0)
	assert.InDelta(t, 1.0, withHole, 0.05)
}

func TestClosestWall_NoEdges(t *testing.T) {
	_, _, ok := ClosestWall(at(0, 0), nil, 1)
	assert.False(t, ok)

	_, _, ok = ClosestWall(at(0, 0), geometry.Polygon{{at(1, 1)}}, 1)
	assert.False(t, ok)
}
