package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/osmno/post2osm/internal/config"
)

const version = "1.2.0"

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "post2osm",
	Short: "Convert Posten offices and post boxes to OSM files",
	Long: `Downloads post offices, parcel lockers and post boxes from the Posten sales
network service and writes OSM files for import with JOSM. The relocate command
moves post boxes that were geocoded inside a building to just outside its
nearest wall.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
