// Package relocate moves post boxes that geocode inside a building footprint
// to just outside the nearest wall.
package relocate

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/osmno/post2osm/internal/geometry"
	"github.com/osmno/post2osm/internal/model"
	"github.com/osmno/post2osm/internal/spatial"
)

// Options configures the engine.
type Options struct {
	// WallThresholdMeters: a box is only moved when strictly closer than this
	// to the nearest wall.
	WallThresholdMeters float64
	// WallOffsetMeters: how far outside the wall the moved box is placed.
	WallOffsetMeters float64
	// MaxBuildingSpanMeters excludes footprints whose bounding box diagonal
	// exceeds it. The tangent plane math is not valid beyond a few hundred
	// meters. Zero disables the check.
	MaxBuildingSpanMeters float64
	// Concurrency is the number of regions processed at once. Values below 2
	// process regions sequentially.
	Concurrency int
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		WallThresholdMeters:   5,
		WallOffsetMeters:      1,
		MaxBuildingSpanMeters: 2000,
		Concurrency:           1,
	}
}

// Outcome is the decision taken for one mailbox.
type Outcome int

// Mailbox outcomes.
const (
	NotInside Outcome = iota
	BeyondThreshold
	Blocked
	Moved
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case BeyondThreshold:
		return "beyond_threshold"
	case Blocked:
		return "blocked"
	case Moved:
		return "moved"
	default:
		return "not_inside"
	}
}

// Region is one batch: the footprints of a municipality and the mailboxes
// that belong to it. Buildings are read-only; mailboxes are updated in place.
type Region struct {
	Key       string
	Name      string
	Buildings []spatial.Building
	Mailboxes []*model.Mailbox
}

// Engine runs the relocation decision procedure.
type Engine struct {
	opts Options
	log  *zap.Logger
}

// NewEngine creates an Engine.
func NewEngine(opts Options) *Engine {
	return &Engine{
		opts: opts,
		log:  zap.L().With(zap.String("component", "relocate")),
	}
}

// Run processes every region and returns the aggregated counts. Mailboxes in
// regions without usable footprints are left unchanged. The only error is
// context cancellation, checked between regions; every mailbox in a region
// that was started is fully processed.
func (e *Engine) Run(ctx context.Context, regions []Region) (Summary, error) {
	stats := make([]RegionStats, len(regions))

	if e.opts.Concurrency < 2 {
		for i, r := range regions {
			if err := ctx.Err(); err != nil {
				return summarize(stats[:i]), eris.Wrap(err, "relocate: run")
			}
			stats[i] = e.RelocateRegion(r)
		}
		return summarize(stats), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)
	done := make([]bool, len(regions))
	for i, r := range regions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			stats[i] = e.RelocateRegion(r)
			done[i] = true
			return nil
		})
	}
	err := g.Wait()

	var finished []RegionStats
	for i := range stats {
		if done[i] {
			finished = append(finished, stats[i])
		}
	}
	if err != nil {
		return summarize(finished), eris.Wrap(err, "relocate: run")
	}
	return summarize(finished), nil
}

// RelocateRegion processes the mailboxes of a single region.
func (e *Engine) RelocateRegion(r Region) RegionStats {
	log := e.log.With(zap.String("region", r.Name))
	stats := RegionStats{Region: r.Name, Boxes: len(r.Mailboxes)}

	buildings := e.usable(r.Buildings, &stats, log)
	if len(buildings) == 0 {
		stats.Skipped = true
		log.Warn("no building polygons, skipping region", zap.Int("boxes", stats.Boxes))
		return stats
	}

	ix := spatial.NewIndex(buildings)
	stats.Buildings = ix.Len()
	for _, mb := range r.Mailboxes {
		outcome := e.relocate(ix, mb, &stats)
		switch outcome {
		case Moved:
			stats.Moved++
		case Blocked:
			stats.Blocked++
		case BeyondThreshold:
			stats.BeyondThreshold++
		}
		if outcome != NotInside {
			log.Debug("mailbox inside building",
				zap.String("ref", mb.Ref),
				zap.Float64("distance_m", *mb.DistanceToWall),
				zap.Stringer("outcome", outcome),
			)
		}
	}

	log.Info("region relocated",
		zap.Int("moved", stats.Moved),
		zap.Int("boxes", stats.Boxes),
		zap.Int("inside", stats.Inside),
		zap.Int("blocked", stats.Blocked),
	)
	return stats
}

// usable drops footprints too large for the tangent plane approximation.
func (e *Engine) usable(buildings []spatial.Building, stats *RegionStats, log *zap.Logger) []spatial.Building {
	if e.opts.MaxBuildingSpanMeters <= 0 {
		return buildings
	}

	out := make([]spatial.Building, 0, len(buildings))
	for _, b := range buildings {
		if span := b.BBox().DiagonalMeters(); span > e.opts.MaxBuildingSpanMeters {
			stats.Oversized++
			log.Debug("building exceeds span limit",
				zap.String("building", b.ID()),
				zap.Float64("span_m", span),
			)
			continue
		}
		out = append(out, b)
	}
	if stats.Oversized > 0 {
		log.Warn("buildings excluded as oversized",
			zap.Int("count", stats.Oversized),
			zap.Float64("max_span_m", e.opts.MaxBuildingSpanMeters),
		)
	}
	return out
}

// relocate decides the fate of one mailbox. The first building whose outer
// ring contains the box is used; buildings are assumed not to overlap.
func (e *Engine) relocate(ix *spatial.Index, mb *model.Mailbox, stats *RegionStats) Outcome {
	for _, pos := range ix.Candidates(mb.Point) {
		b := ix.Building(pos)

		switch geometry.Contains(b.Outer(), mb.Point) {
		case geometry.Indeterminate:
			stats.InvalidGeometry++
			continue
		case geometry.Outside:
			continue
		}

		target, distance, ok := ClosestWall(mb.Point, b.Polygon(), e.opts.WallOffsetMeters)
		if !ok {
			continue
		}
		stats.Inside++
		mb.SetDistanceToWall(distance)

		if distance >= e.opts.WallThresholdMeters {
			return BeyondThreshold
		}
		if insideAny(ix, target) {
			return Blocked
		}

		mb.Point = target
		return Moved
	}

	return NotInside
}

// insideAny reports whether p falls inside the outer ring of any building in
// the index, including the one the box is being moved out of.
func insideAny(ix *spatial.Index, p geometry.Point) bool {
	for _, pos := range ix.Candidates(p) {
		if geometry.Contains(ix.Building(pos).Outer(), p) == geometry.Inside {
			return true
		}
	}
	return false
}
