package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/osmno/post2osm/internal/config"
	"github.com/osmno/post2osm/internal/fetcher"
	"github.com/osmno/post2osm/internal/normalize"
	"github.com/osmno/post2osm/internal/posten"
	"github.com/osmno/post2osm/internal/resilience"
)

// Output file names.
const (
	officesFile   = "postkontor.osm"
	boxesFile     = "postkasser.osm"
	relocatedFile = "postkasser_vegg.osm"
)

func generator() string {
	return "post2osm v" + version
}

func newFetcher(c *config.Config) *fetcher.HTTPFetcher {
	retry := resilience.FromSettings(c.Retry.MaxAttempts, c.Retry.InitialBackoffMs, c.Retry.MaxBackoffMs)
	retry.OnRetry = resilience.RetryLogger("http", "download")
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent: c.Posten.UserAgent,
		Timeout:   time.Duration(c.Posten.TimeoutSecs) * time.Second,
		Retry:     retry,
	})
}

func newPostenClient(c *config.Config, f fetcher.Fetcher, rules *normalize.Rules) *posten.Client {
	return posten.NewClient(f, c.Posten.OfficesURL, c.Posten.BoxesURL, posten.NewConverter(rules))
}

// outputPath resolves name inside output.dir, creating the directory.
func outputPath(c *config.Config, name string) (string, error) {
	dir := c.Output.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "create output dir %s", dir)
	}
	return filepath.Join(dir, name), nil
}

func validate(c *config.Config, mode string) error {
	if c == nil {
		return eris.Errorf("%s: configuration not loaded", mode)
	}
	return c.Validate(mode)
}
