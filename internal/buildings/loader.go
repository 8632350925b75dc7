// Package buildings loads per-municipality building footprints.
package buildings

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/osmno/post2osm/internal/municipality"
	"github.com/osmno/post2osm/internal/spatial"
)

// ErrNotFound is returned when a municipality has no footprint file.
var ErrNotFound = eris.New("buildings: no footprint file")

// Stats counts what a footprint file contained.
type Stats struct {
	Features  int
	Buildings int
	Skipped   int
}

// FileStem returns the file name, without extension, of a municipality's
// footprint file, e.g. "bygninger_0301_Oslo".
func FileStem(ref, name string) string {
	return "bygninger_" + ref + "_" + strings.ReplaceAll(name, " ", "_")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "buildings: resolve home directory")
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Loader reads footprint files from a directory.
type Loader struct {
	dir string
	log *zap.Logger
}

// NewLoader creates a Loader for dir, expanding a leading "~".
func NewLoader(dir string) (*Loader, error) {
	expanded, err := ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	return &Loader{
		dir: expanded,
		log: zap.L().With(zap.String("component", "buildings")),
	}, nil
}

// Dir returns the expanded directory.
func (l *Loader) Dir() string { return l.dir }

// Load reads the footprints of one municipality. The GeoJSON file is
// preferred; a shapefile with the same stem is the fallback. ErrNotFound is
// returned when neither exists.
func (l *Loader) Load(ref, name string) ([]spatial.Building, Stats, error) {
	stem := filepath.Join(l.dir, FileStem(ref, name))

	f, err := os.Open(stem + ".geojson")
	switch {
	case err == nil:
		defer f.Close() //nolint:errcheck
		return DecodeGeoJSON(f, filepath.Base(stem)+".geojson")
	case !errors.Is(err, fs.ErrNotExist):
		return nil, Stats{}, eris.Wrapf(err, "buildings: open %s.geojson", stem)
	}

	if _, err := os.Stat(stem + ".shp"); err == nil {
		return ReadShapefile(stem + ".shp")
	}
	return nil, Stats{}, eris.Wrapf(ErrNotFound, "%s", filepath.Base(stem))
}

// Result is the outcome of loading one municipality.
type Result struct {
	Municipality municipality.Municipality
	Buildings    []spatial.Building
	Stats        Stats
	// Err is ErrNotFound (wrapped) for a missing file, or a read/parse error.
	Err error
}

// LoadAll loads every municipality, concurrency files at a time. A failed
// file is reported in its Result and does not stop the others; only context
// cancellation returns an error. Results are in input order.
func (l *Loader) LoadAll(ctx context.Context, ms []municipality.Municipality, concurrency int) ([]Result, error) {
	results := make([]Result, len(ms))
	var loaded, missing atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for i, m := range ms {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bs, stats, err := l.Load(m.Ref, m.Name)
			results[i] = Result{Municipality: m, Buildings: bs, Stats: stats, Err: err}

			switch {
			case err == nil:
				loaded.Add(1)
				if stats.Skipped > 0 {
					l.log.Debug("skipped footprints",
						zap.String("municipality", m.Name),
						zap.Int("skipped", stats.Skipped),
					)
				}
			case errors.Is(err, ErrNotFound):
				missing.Add(1)
			default:
				l.log.Warn("failed to load buildings", zap.String("municipality", m.Name), zap.Error(err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "buildings: load all")
	}

	l.log.Info("building files loaded",
		zap.String("dir", l.dir),
		zap.Int64("loaded", loaded.Load()),
		zap.Int64("missing", missing.Load()),
		zap.Int("total", len(ms)),
	)
	return results, nil
}
