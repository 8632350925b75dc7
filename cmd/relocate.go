package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/osmno/post2osm/internal/buildings"
	"github.com/osmno/post2osm/internal/config"
	"github.com/osmno/post2osm/internal/fetcher"
	"github.com/osmno/post2osm/internal/model"
	"github.com/osmno/post2osm/internal/municipality"
	"github.com/osmno/post2osm/internal/normalize"
	"github.com/osmno/post2osm/internal/osm"
	"github.com/osmno/post2osm/internal/posten"
	"github.com/osmno/post2osm/internal/relocate"
)

var relocateCmd = &cobra.Command{
	Use:   "relocate",
	Short: "Move post boxes inside buildings to just outside the nearest wall",
	Long: `Loads post boxes from ` + boxesFile + ` (or the Posten service with --api),
matches them to municipalities and their building footprint files, and moves
every box found less than the wall threshold inside a building to the wall
offset outside it. The result is written to ` + relocatedFile + `.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		opts, err := relocateFlags(cmd, cfg)
		if err != nil {
			return err
		}

		path, sum, err := runRelocate(ctx, cfg, opts)
		if err != nil {
			return err
		}
		fmt.Printf("%d of %d post boxes moved, %d saved to '%s'\n", sum.Moved, sum.Boxes, sum.Total, path)
		return nil
	},
}

func init() {
	addRelocateFlags(relocateCmd)
	rootCmd.AddCommand(relocateCmd)
}

func addRelocateFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("api", false, "load post boxes from the Posten service instead of a file")
	cmd.Flags().String("input", boxesFile, "post box OSM file written by the boxes command")
	cmd.Flags().Int("concurrency", 0, "municipalities processed in parallel (default: from config)")
	cmd.Flags().Float64("threshold", 0, "only move boxes closer than this to a wall, meters (default: from config)")
	cmd.Flags().Float64("offset", 0, "distance outside the wall for moved boxes, meters (default: from config)")
}

type relocateOptions struct {
	API    bool
	Input  string
	Engine relocate.Options
}

// relocateSummary is the engine summary plus the counts only the command
// knows about.
type relocateSummary struct {
	relocate.Summary
	Total     int
	Unmatched int
}

// engineOptions starts from the engine defaults and applies the configured
// values. A zero threshold or concurrency means the setting is absent; a zero
// offset or span is a deliberate choice and is kept.
func engineOptions(c *config.Config) relocate.Options {
	opts := relocate.DefaultOptions()
	if c.Relocate.WallThresholdMeters > 0 {
		opts.WallThresholdMeters = c.Relocate.WallThresholdMeters
	}
	if c.Relocate.Concurrency > 0 {
		opts.Concurrency = c.Relocate.Concurrency
	}
	opts.WallOffsetMeters = c.Relocate.WallOffsetMeters
	opts.MaxBuildingSpanMeters = c.Relocate.MaxBuildingSpanMeters
	return opts
}

// relocateFlags merges command flags over the configured defaults. Flags
// override config only when set.
func relocateFlags(cmd *cobra.Command, c *config.Config) (relocateOptions, error) {
	if c == nil {
		return relocateOptions{}, eris.New("relocate: configuration not loaded")
	}
	flags := cmd.Flags()
	opts := relocateOptions{Engine: engineOptions(c)}
	opts.API, _ = flags.GetBool("api")
	opts.Input, _ = flags.GetString("input")

	if flags.Changed("concurrency") {
		opts.Engine.Concurrency, _ = flags.GetInt("concurrency")
		c.Relocate.Concurrency = opts.Engine.Concurrency
	}
	if flags.Changed("threshold") {
		opts.Engine.WallThresholdMeters, _ = flags.GetFloat64("threshold")
		c.Relocate.WallThresholdMeters = opts.Engine.WallThresholdMeters
	}
	if flags.Changed("offset") {
		opts.Engine.WallOffsetMeters, _ = flags.GetFloat64("offset")
		c.Relocate.WallOffsetMeters = opts.Engine.WallOffsetMeters
	}
	return opts, nil
}

func runRelocate(ctx context.Context, c *config.Config, opts relocateOptions) (string, relocateSummary, error) {
	log := zap.L().With(zap.String("command", "relocate"))

	if err := validate(c, "relocate"); err != nil {
		return "", relocateSummary{}, err
	}
	rules, err := normalize.LoadRules(c.Normalize.RulesFile)
	if err != nil {
		return "", relocateSummary{}, err
	}
	f := newFetcher(c)

	entries, err := municipality.Fetch(ctx, f, c.Municipality.URL)
	if err != nil {
		return "", relocateSummary{}, eris.Wrap(err, "relocate")
	}
	registry := municipality.NewRegistry(entries, rules)
	log.Info("loaded municipalities", zap.Int("count", registry.Len()))

	boxes, err := loadBoxes(ctx, c, f, opts, rules)
	if err != nil {
		return "", relocateSummary{}, err
	}

	loader, err := buildings.NewLoader(c.Buildings.Dir)
	if err != nil {
		return "", relocateSummary{}, eris.Wrap(err, "relocate")
	}
	log.Info("loading building footprints", zap.String("dir", loader.Dir()))
	results, err := loader.LoadAll(ctx, registry.All(), opts.Engine.Concurrency)
	if err != nil {
		return "", relocateSummary{}, eris.Wrap(err, "relocate")
	}

	regions := make([]relocate.Region, 0, len(results))
	for _, r := range results {
		regions = append(regions, relocate.Region{
			Key:       r.Municipality.Key,
			Name:      r.Municipality.Name,
			Buildings: r.Buildings,
		})
	}

	ptrs := make([]*model.Mailbox, len(boxes))
	for i := range boxes {
		ptrs[i] = &boxes[i]
	}
	regions, unmatched := relocate.Group(regions, ptrs, func(mb *model.Mailbox) string {
		m, ok := registry.Lookup(mb.Municipality)
		if !ok {
			return ""
		}
		return m.Key
	})
	if len(unmatched) > 0 {
		log.Warn("post boxes without a known municipality", zap.Int("count", len(unmatched)))
	}

	sum, err := relocate.NewEngine(opts.Engine).Run(ctx, regions)
	if err != nil {
		return "", relocateSummary{}, err
	}

	nodes := make([]osm.Node, 0, len(boxes))
	for _, b := range boxes {
		nodes = append(nodes, posten.RelocatedNode(b))
	}
	path, err := outputPath(c, relocatedFile)
	if err != nil {
		return "", relocateSummary{}, err
	}
	if err := osm.WriteFile(path, generator(), nodes); err != nil {
		return "", relocateSummary{}, eris.Wrap(err, "relocate")
	}

	log.Info("relocation complete",
		zap.Int("boxes", len(boxes)),
		zap.Int("inside", sum.Inside),
		zap.Int("moved", sum.Moved),
		zap.Int("blocked", sum.Blocked),
		zap.Int("skipped_regions", sum.SkippedRegions),
		zap.Int("skipped_boxes", sum.SkippedBoxes),
		zap.Int("unmatched", len(unmatched)),
		zap.String("file", path),
	)
	return path, relocateSummary{Summary: sum, Total: len(boxes), Unmatched: len(unmatched)}, nil
}

func loadBoxes(ctx context.Context, c *config.Config, f fetcher.Fetcher, opts relocateOptions, rules *normalize.Rules) ([]model.Mailbox, error) {
	if opts.API {
		boxes, err := newPostenClient(c, f, rules).Mailboxes(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "relocate: load post boxes")
		}
		return boxes, nil
	}

	nodes, err := osm.ReadFile(ctx, opts.Input)
	if err != nil {
		return nil, eris.Wrap(err, "relocate: load post boxes")
	}
	boxes := make([]model.Mailbox, 0, len(nodes))
	for _, n := range nodes {
		boxes = append(boxes, posten.MailboxFromNode(n))
	}
	zap.L().Info("loaded post boxes", zap.String("file", opts.Input), zap.Int("count", len(boxes)))
	return boxes, nil
}
