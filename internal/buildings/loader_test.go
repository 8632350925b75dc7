package buildings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmno/post2osm/internal/municipality"
)

func TestFileStem(t *testing.T) {
	assert.Equal(t, "bygninger_0301_Oslo", FileStem("0301", "Oslo"))
	assert.Equal(t, "bygninger_3905_Nord_Aurdal", FileStem("3905", "Nord Aurdal"))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/osm/bygninger/")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "osm/bygninger"), got)

	got, err = ExpandHome("/data/bygninger")
	require.NoError(t, err)
	assert.Equal(t, "/data/bygninger", got)

	got, err = ExpandHome("~other/x")
	require.NoError(t, err)
	assert.Equal(t, "~other/x", got)
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bygninger_0301_Oslo.geojson"), []byte(footprints), 0o644))
	writeShapefile(t, filepath.Join(dir, "bygninger_1804_Bodø.shp"), [][]shp.Point{square(14.4, 67.28, 0.0002)})

	l, err := NewLoader(dir)
	require.NoError(t, err)

	t.Run("geojson", func(t *testing.T) {
		bs, stats, err := l.Load("0301", "Oslo")
		require.NoError(t, err)
		assert.Len(t, bs, 2)
		assert.Equal(t, 3, stats.Skipped)
	})

	t.Run("shapefile fallback", func(t *testing.T) {
		bs, _, err := l.Load("1804", "Bodø")
		require.NoError(t, err)
		assert.Len(t, bs, 1)
	})

	t.Run("missing", func(t *testing.T) {
		_, _, err := l.Load("4601", "Bergen")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestLoader_LoadAll(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bygninger_0301_Oslo.geojson"), []byte(footprints), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bygninger_1103_Stavanger.geojson"), []byte("{broken"), 0o644))

	l, err := NewLoader(dir)
	require.NoError(t, err)

	ms := []municipality.Municipality{
		{Ref: "0301", Name: "Oslo"},
		{Ref: "4601", Name: "Bergen"},
		{Ref: "1103", Name: "Stavanger"},
	}

	for _, concurrency := range []int{1, 3} {
		results, err := l.LoadAll(context.Background(), ms, concurrency)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, "Oslo", results[0].Municipality.Name)
		assert.NoError(t, results[0].Err)
		assert.Len(t, results[0].Buildings, 2)

		assert.True(t, errors.Is(results[1].Err, ErrNotFound))
		assert.Empty(t, results[1].Buildings)

		require.Error(t, results[2].Err)
		assert.False(t, errors.Is(results[2].Err, ErrNotFound))
	}
}

func TestLoader_LoadAllCancelled(t *testing.T) {
	l, err := NewLoader(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = l.LoadAll(ctx, []municipality.Municipality{{Ref: "0301", Name: "Oslo"}}, 1)
	assert.Error(t, err)
}
