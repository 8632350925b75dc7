package municipality

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/osmno/post2osm/internal/fetcher"
)

type countyDTO struct {
	Number         string            `json:"fylkesnummer"`
	Name           string            `json:"fylkesnavn"`
	Municipalities []municipalityDTO `json:"kommuner"`
}

type municipalityDTO struct {
	Number string `json:"kommunenummer"`
	Name   string `json:"kommunenavnNorsk"`
}

// Fetch downloads the county/municipality listing from url.
func Fetch(ctx context.Context, f fetcher.Fetcher, url string) ([]Municipality, error) {
	body, err := f.Download(ctx, url)
	if err != nil {
		return nil, eris.Wrap(err, "municipality: download")
	}
	defer body.Close() //nolint:errcheck

	counties, errCh := fetcher.DecodeJSONArray[countyDTO](ctx, body)

	var out []Municipality
	for c := range counties {
		for _, m := range c.Municipalities {
			out = append(out, Municipality{Ref: m.Number, Name: m.Name, County: c.Name})
		}
	}
	if err := <-errCh; err != nil {
		return nil, eris.Wrap(err, "municipality: decode")
	}
	if len(out) == 0 {
		return nil, eris.New("municipality: registry is empty")
	}

	zap.L().Info("loaded municipalities",
		zap.String("component", "municipality"),
		zap.Int("count", len(out)),
	)
	return out, nil
}
