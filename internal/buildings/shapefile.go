package buildings

import (
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/osmno/post2osm/internal/spatial"
)

// idFields are attribute names tried, in order, for a building identifier.
var idFields = []string{"bygningsnr", "bygningsnummer", "id"}

// ReadShapefile reads polygon footprints from a shapefile. Each record's
// parts become the rings of one building, the first part being the outer
// ring.
func ReadShapefile(path string) ([]spatial.Building, Stats, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, Stats{}, eris.Wrapf(err, "buildings: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	idIdx := -1
	for i, f := range reader.Fields() {
		name := strings.ToLower(strings.TrimRight(f.String(), "\x00"))
		for _, want := range idFields {
			if name == want && idIdx < 0 {
				idIdx = i
			}
		}
	}

	var (
		out   []spatial.Building
		stats Stats
	)
	for reader.Next() {
		n, shape := reader.Shape()
		stats.Features++

		p, ok := shape.(*shp.Polygon)
		if !ok {
			stats.Skipped++
			continue
		}
		poly, ok := fromGeom(shapeToGeom(p))
		if !ok {
			stats.Skipped++
			continue
		}

		id := fmt.Sprintf("%s#%d", path, n)
		if idIdx >= 0 {
			if v := strings.TrimSpace(strings.TrimRight(reader.Attribute(idIdx), "\x00")); v != "" {
				id = v
			}
		}

		b, ok := spatial.NewBuilding(id, poly)
		if !ok {
			stats.Skipped++
			continue
		}
		out = append(out, b)
	}

	if err := reader.Err(); err != nil {
		return nil, Stats{}, eris.Wrapf(err, "buildings: read shapefile %s", path)
	}

	stats.Buildings = len(out)
	return out, stats, nil
}

// shapeToGeom splits a shapefile polygon into rings.
func shapeToGeom(p *shp.Polygon) *geom.Polygon {
	poly := geom.NewPolygon(geom.XY)
	if p == nil || len(p.Points) == 0 {
		return poly
	}

	for i, start := range p.Parts {
		end := int32(len(p.Points))
		if i+1 < len(p.Parts) {
			end = p.Parts[i+1]
		}
		if start < 0 || end > int32(len(p.Points)) || start >= end {
			continue
		}

		flat := make([]float64, 0, 2*(end-start))
		for _, pt := range p.Points[start:end] {
			flat = append(flat, pt.X, pt.Y)
		}
		if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
			zap.L().Debug("buildings: skipping malformed shapefile ring", zap.Int("part", i), zap.Error(err))
		}
	}
	return poly
}
