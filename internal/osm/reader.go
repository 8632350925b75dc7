package osm

import (
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/osmno/post2osm/internal/fetcher"
)

// ReadNodes decodes every node in an OSM XML document, in document order.
func ReadNodes(ctx context.Context, r io.Reader) ([]Node, error) {
	ch, errCh := fetcher.StreamXML[Node](ctx, r, "node")

	var nodes []Node
	for n := range ch {
		nodes = append(nodes, n)
	}
	if err := <-errCh; err != nil {
		return nil, eris.Wrap(err, "osm: read nodes")
	}
	return nodes, nil
}

// ReadFile decodes the nodes of the OSM file at path.
func ReadFile(ctx context.Context, path string) ([]Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "osm: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return ReadNodes(ctx, f)
}
