package buildings

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/osmno/post2osm/internal/spatial"
)

// rawFeature defers geometry decoding so one malformed feature does not fail
// the whole file.
type rawFeature struct {
	ID       json.RawMessage `json:"id"`
	Geometry json.RawMessage `json:"geometry"`
}

type rawCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

// DecodeGeoJSON reads a FeatureCollection of building footprints. Polygon and
// MultiPolygon features become buildings; other geometry types and features
// without a usable outer ring are counted as skipped.
func DecodeGeoJSON(r io.Reader, source string) ([]spatial.Building, Stats, error) {
	var fc rawCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, Stats{}, eris.Wrapf(err, "buildings: decode %s", source)
	}
	if fc.Type != "FeatureCollection" {
		return nil, Stats{}, eris.Errorf("buildings: %s: expected FeatureCollection, got %q", source, fc.Type)
	}

	stats := Stats{Features: len(fc.Features)}
	out := make([]spatial.Building, 0, len(fc.Features))
	for i, f := range fc.Features {
		if len(f.Geometry) == 0 || string(f.Geometry) == "null" {
			stats.Skipped++
			continue
		}

		var g geom.T
		if err := geojson.Unmarshal(f.Geometry, &g); err != nil {
			stats.Skipped++
			continue
		}

		poly, ok := fromGeom(g)
		if !ok {
			stats.Skipped++
			continue
		}

		b, ok := spatial.NewBuilding(featureID(f.ID, source, i), poly)
		if !ok {
			stats.Skipped++
			continue
		}
		out = append(out, b)
	}

	stats.Buildings = len(out)
	return out, stats, nil
}

func featureID(raw json.RawMessage, source string, i int) string {
	if id := strings.Trim(string(raw), `"`); id != "" && id != "null" {
		return id
	}
	return fmt.Sprintf("%s#%d", source, i)
}
