package relocate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/osmno/post2osm/internal/geometry"
	"github.com/osmno/post2osm/internal/model"
	"github.com/osmno/post2osm/internal/spatial"
)

// Local origin in central Oslo. Test footprints are laid out in meters east
// and north of it.
const (
	originLon = 10.75
	originLat = 59.91
)

var (
	degPerMeterLat = 1 / 111194.93
	degPerMeterLon = 1 / (111194.93 * math.Cos(originLat*math.Pi/180))
)

func at(east, north float64) geometry.Point {
	return geometry.Point{
		Lon: originLon + east*degPerMeterLon,
		Lat: originLat + north*degPerMeterLat,
	}
}

// rect returns a closed ring for a width x height meter rectangle whose
// south-west corner is east/north meters from the origin.
func rect(east, north, width, height float64) geometry.Ring {
	return geometry.Ring{
		at(east, north),
		at(east, north+height),
		at(east+width, north+height),
		at(east+width, north),
		at(east, north),
	}
}

func building(t *testing.T, id string, rings ...geometry.Ring) spatial.Building {
	t.Helper()
	b, ok := spatial.NewBuilding(id, geometry.Polygon(rings))
	require.True(t, ok)
	return b
}

func box(ref string, p geometry.Point) *model.Mailbox {
	return &model.Mailbox{Ref: ref, Point: p, Municipality: "OSLO"}
}
