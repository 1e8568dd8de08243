package simulate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Lbstrydom/cellarplan/types"
)

func TestSimulator_Repair(t *testing.T) {
	sim := NewSimulator(newRackModel(t))

	t.Run("drops the failing action and keeps the rest", func(t *testing.T) {
		zones, alloc, util := cellarFixture()
		actions := []types.Action{
			reallocate("curiosities", "cabernet", 14),
			reallocate("cabernet", "shiraz", 14), // row already moved
			reallocate("curiosities", "shiraz", 15),
		}

		repaired, err := sim.Repair(actions, zones, alloc, util)
		require.NoError(t, err)

		require.Equal(t, 1, repaired.Removed)
		require.Len(t, repaired.Actions, 2)
		require.Len(t, repaired.Violations, 1)
		require.Contains(t, repaired.Violations[0], "already moved")
	})

	t.Run("repaired plan re-simulates clean", func(t *testing.T) {
		zones, alloc, util := cellarFixture()
		actions := []types.Action{
			reallocate("curiosities", "ghost", 16),
			reallocate("curiosities", "cabernet", 16),
			reallocate("curiosities", "cabernet", 16),
		}

		repaired, err := sim.Repair(actions, zones, alloc, util)
		require.NoError(t, err)
		require.Equal(t, 2, repaired.Removed)

		result, err := sim.Simulate(repaired.Actions, zones, alloc, util)
		require.NoError(t, err)
		require.True(t, result.Valid)
	})

	t.Run("repair is idempotent", func(t *testing.T) {
		zones, alloc, util := cellarFixture()
		actions := []types.Action{
			reallocate("shiraz", "cabernet", 12),
			reallocate("shiraz", "cabernet", 12),
		}

		first, err := sim.Repair(actions, zones, alloc, util)
		require.NoError(t, err)
		require.Equal(t, 1, first.Removed)

		second, err := sim.Repair(first.Actions, zones, alloc, util)
		require.NoError(t, err)
		require.Zero(t, second.Removed)
		require.Equal(t, first.Actions, second.Actions)
	})

	t.Run("valid plan survives untouched", func(t *testing.T) {
		zones, alloc, util := cellarFixture()
		actions := []types.Action{reallocate("curiosities", "cabernet", 16)}

		repaired, err := sim.Repair(actions, zones, alloc, util)
		require.NoError(t, err)
		require.Zero(t, repaired.Removed)
		require.Equal(t, actions, repaired.Actions)
		require.Empty(t, repaired.Violations)
	})

	t.Run("nil action list is a hard error", func(t *testing.T) {
		zones, alloc, util := cellarFixture()

		repaired, err := sim.Repair(nil, zones, alloc, util)
		require.ErrorIs(t, err, types.ErrNilActions)
		require.Nil(t, repaired)
	})
}
