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

var boxesCmd = &cobra.Command{
	Use:   "boxes",
	Short: "Write post boxes to " + boxesFile,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		path, n, err := runBoxes(ctx, cfg)
		if err != nil {
			return err
		}
		fmt.Printf("%d post boxes saved to '%s'\n", n, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boxesCmd)
}

func runBoxes(ctx context.Context, c *config.Config) (string, int, error) {
	if err := validate(c, "boxes"); err != nil {
		return "", 0, err
	}
	rules, err := normalize.LoadRules(c.Normalize.RulesFile)
	if err != nil {
		return "", 0, err
	}

	boxes, err := newPostenClient(c, newFetcher(c), rules).Mailboxes(ctx)
	if err != nil {
		return "", 0, eris.Wrap(err, "boxes")
	}

	nodes := make([]osm.Node, 0, len(boxes))
	for _, b := range boxes {
		nodes = append(nodes, posten.MailboxNode(b))
	}

	path, err := outputPath(c, boxesFile)
	if err != nil {
		return "", 0, err
	}
	if err := osm.WriteFile(path, generator(), nodes); err != nil {
		return "", 0, eris.Wrap(err, "boxes")
	}

	zap.L().Info("post boxes written", zap.String("command", "boxes"), zap.String("file", path), zap.Int("nodes", len(nodes)))
	return path, len(nodes), nil
}
