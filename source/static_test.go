package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Lbstrydom/cellarplan/types"
)

func TestStatic_ListZones(t *testing.T) {
	zones := []types.Zone{
		{ID: "cabernet", Name: "Cabernet Sauvignon", Color: types.ColorRed},
		{ID: "riesling", Name: "Riesling", Color: types.ColorWhite},
	}
	src := NewStatic(zones)

	t.Run("returns the configured zones", func(t *testing.T) {
		got, err := src.ListZones(context.Background())
		require.NoError(t, err)
		require.Equal(t, zones, got)
	})

	t.Run("returns a copy the caller may mutate", func(t *testing.T) {
		got, err := src.ListZones(context.Background())
		require.NoError(t, err)

		got[0].ID = "mutated"

		again, err := src.ListZones(context.Background())
		require.NoError(t, err)
		require.Equal(t, "cabernet", again[0].ID)
	})
}

func TestStatic_Update(t *testing.T) {
	src := NewStatic([]types.Zone{{ID: "cabernet", Color: types.ColorRed}})

	src.Update([]types.Zone{
		{ID: "shiraz", Color: types.ColorRed},
		{ID: "curiosities", Color: types.ColorNeutral},
	})

	got, err := src.ListZones(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "shiraz", got[0].ID)
	require.Equal(t, "curiosities", got[1].ID)
}
