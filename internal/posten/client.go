package posten

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/osmno/post2osm/internal/fetcher"
	"github.com/osmno/post2osm/internal/model"
)

const unitElement = "EnhetDTO"

// Client reads the office and post box listings.
type Client struct {
	fetcher    fetcher.Fetcher
	officesURL string
	boxesURL   string
	conv       *Converter
}

// NewClient creates a client for the given listing URLs.
func NewClient(f fetcher.Fetcher, officesURL, boxesURL string, conv *Converter) *Client {
	return &Client{fetcher: f, officesURL: officesURL, boxesURL: boxesURL, conv: conv}
}

// Units downloads url and decodes every unit in document order.
func (c *Client) Units(ctx context.Context, url string) ([]Unit, error) {
	body, err := c.fetcher.Download(ctx, url)
	if err != nil {
		return nil, eris.Wrap(err, "posten: download")
	}
	defer body.Close() //nolint:errcheck

	ch, errCh := fetcher.StreamXML[Unit](ctx, body, unitElement)

	var units []Unit
	for u := range ch {
		units = append(units, u)
	}
	if err := <-errCh; err != nil {
		return nil, eris.Wrap(err, "posten: decode units")
	}
	return units, nil
}

// Offices returns the active Norwegian post offices and parcel lockers.
func (c *Client) Offices(ctx context.Context) ([]model.Office, error) {
	units, err := c.Units(ctx, c.officesURL)
	if err != nil {
		return nil, err
	}

	var (
		out     []model.Office
		lockers int
	)
	for _, u := range units {
		o, ok := c.conv.Office(u)
		if !ok {
			continue
		}
		if o.Amenity == "parcel_locker" {
			lockers++
		}
		out = append(out, o)
	}

	c.conv.log.Info("loaded offices",
		zap.Int("units", len(units)),
		zap.Int("post_offices", len(out)-lockers),
		zap.Int("parcel_lockers", lockers),
	)
	return out, nil
}

// Mailboxes returns the active post boxes.
func (c *Client) Mailboxes(ctx context.Context) ([]model.Mailbox, error) {
	units, err := c.Units(ctx, c.boxesURL)
	if err != nil {
		return nil, err
	}

	var out []model.Mailbox
	for _, u := range units {
		if m, ok := c.conv.Mailbox(u); ok {
			out = append(out, m)
		}
	}

	c.conv.log.Info("loaded post boxes", zap.Int("units", len(units)), zap.Int("post_boxes", len(out)))
	return out, nil
}
