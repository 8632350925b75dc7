package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/osmno/post2osm/internal/config"
	"github.com/osmno/post2osm/internal/normalize"
	"github.com/osmno/post2osm/internal/osm"
	"github.com/osmno/post2osm/internal/posten"
)

var officesCmd = &cobra.Command{
	Use:   "offices",
	Short: "Write post offices and parcel lockers to " + officesFile,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		path, n, err := runOffices(ctx, cfg)
		if err != nil {
			return err
		}
		fmt.Printf("%d post offices and parcel lockers saved to '%s'\n", n, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(officesCmd)
}

func runOffices(ctx context.Context, c *config.Config) (string, int, error) {
	if err := validate(c, "offices"); err != nil {
		return "", 0, err
	}
	rules, err := normalize.LoadRules(c.Normalize.RulesFile)
	if err != nil {
		return "", 0, err
	}

	offices, err := newPostenClient(c, newFetcher(c), rules).Offices(ctx)
	if err != nil {
		return "", 0, eris.Wrap(err, "offices")
	}

	nodes := make([]osm.Node, 0, len(offices))
	for _, o := range offices {
		nodes = append(nodes, posten.OfficeNode(o))
	}

	path, err := outputPath(c, officesFile)
	if err != nil {
		return "", 0, err
	}
	if err := osm.WriteFile(path, generator(), nodes); err != nil {
		return "", 0, eris.Wrap(err, "offices")
	}

	zap.L().Info("offices written", zap.String("command", "offices"), zap.String("file", path), zap.Int("nodes", len(nodes)))
	return path, len(nodes), nil
}
