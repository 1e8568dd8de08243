package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Lbstrydom/cellarplan/types"
)

func writeZoneFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "zones.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestYAMLFile_ListZones(t *testing.T) {
	t.Run("parses a zone definition file", func(t *testing.T) {
		path := writeZoneFile(t, `
zones:
  - id: cabernet
    name: Cabernet Sauvignon
    color: red
  - id: riesling
    name: Riesling
    color: white
  - id: curiosities
    name: Curiosities
    color: any
`)

		zones, err := NewYAMLFile(path).ListZones(context.Background())
		require.NoError(t, err)

		require.Len(t, zones, 3)
		require.Equal(t, "cabernet", zones[0].ID)
		require.Equal(t, types.ColorRed, zones[0].Color)
		require.Equal(t, types.ColorWhite, zones[1].Color)
		require.Equal(t, types.ColorNeutral, zones[2].Color)
	})

	t.Run("edits take effect on the next call", func(t *testing.T) {
		path := writeZoneFile(t, "zones:\n  - id: cabernet\n    color: red\n")
		src := NewYAMLFile(path)

		zones, err := src.ListZones(context.Background())
		require.NoError(t, err)
		require.Len(t, zones, 1)

		require.NoError(t, os.WriteFile(path, []byte(
			"zones:\n  - id: cabernet\n    color: red\n  - id: shiraz\n    color: red\n"), 0o600))

		zones, err = src.ListZones(context.Background())
		require.NoError(t, err)
		require.Len(t, zones, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewYAMLFile(filepath.Join(t.TempDir(), "absent.yaml")).ListZones(context.Background())
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeZoneFile(t, "zones: [unclosed")

		_, err := NewYAMLFile(path).ListZones(context.Background())
		require.Error(t, err)
		require.Contains(t, err.Error(), "parse zone file")
	})

	t.Run("zone without an id", func(t *testing.T) {
		path := writeZoneFile(t, "zones:\n  - name: Nameless\n    color: red\n")

		_, err := NewYAMLFile(path).ListZones(context.Background())
		require.ErrorIs(t, err, types.ErrInvalidConfig)
	})
}
