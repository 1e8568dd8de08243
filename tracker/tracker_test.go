package tracker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Lbstrydom/cellarplan/types"
)

func snapshot() (types.Allocation, map[string]types.ZoneUtilization) {
	alloc := types.Allocation{
		"cabernet": {10, 11},
		"shiraz":   {12, 13},
	}
	util := map[string]types.ZoneUtilization{
		"cabernet": {BottleCount: 15, RowCount: 2},
		"shiraz":   {BottleCount: 10, RowCount: 2},
	}

	return alloc, util
}

func TestTracker_ShouldReconfigure(t *testing.T) {
	t.Run("first assessment is always significant", func(t *testing.T) {
		tr := New(6)
		alloc, util := snapshot()

		require.True(t, tr.ShouldReconfigure(alloc, util))
	})

	t.Run("unchanged snapshot after baseline is quiet", func(t *testing.T) {
		tr := New(6)
		alloc, util := snapshot()
		tr.MarkReconfigured(alloc, util)

		require.False(t, tr.ShouldReconfigure(alloc, util))
	})

	t.Run("layout change triggers regardless of bottle drift", func(t *testing.T) {
		tr := New(6)
		alloc, util := snapshot()
		tr.MarkReconfigured(alloc, util)

		moved := alloc.Clone()
		moved["cabernet"] = []int{10, 11, 14}

		require.True(t, tr.ShouldReconfigure(moved, util))
	})

	t.Run("bottle drift below threshold is quiet", func(t *testing.T) {
		tr := New(6)
		alloc, util := snapshot()
		tr.MarkReconfigured(alloc, util)

		util["cabernet"] = types.ZoneUtilization{BottleCount: 20, RowCount: 2}

		require.False(t, tr.ShouldReconfigure(alloc, util))
	})

	t.Run("bottle drift at the threshold triggers", func(t *testing.T) {
		tr := New(6)
		alloc, util := snapshot()
		tr.MarkReconfigured(alloc, util)

		util["cabernet"] = types.ZoneUtilization{BottleCount: 21, RowCount: 2}

		require.True(t, tr.ShouldReconfigure(alloc, util))
	})

	t.Run("shrinking inventory counts as drift too", func(t *testing.T) {
		tr := New(6)
		alloc, util := snapshot()
		tr.MarkReconfigured(alloc, util)

		util["cabernet"] = types.ZoneUtilization{BottleCount: 9, RowCount: 2}

		require.True(t, tr.ShouldReconfigure(alloc, util))
	})

	t.Run("marking again resets the baseline", func(t *testing.T) {
		tr := New(6)
		alloc, util := snapshot()
		tr.MarkReconfigured(alloc, util)

		moved := alloc.Clone()
		moved["shiraz"] = []int{12, 13, 16}
		require.True(t, tr.ShouldReconfigure(moved, util))

		tr.MarkReconfigured(moved, util)
		require.False(t, tr.ShouldReconfigure(moved, util))
	})

	t.Run("non-positive threshold falls back to the default", func(t *testing.T) {
		tr := New(0)
		alloc, util := snapshot()
		tr.MarkReconfigured(alloc, util)

		util["cabernet"] = types.ZoneUtilization{BottleCount: 15 + DefaultBottleDeltaThreshold, RowCount: 2}

		require.True(t, tr.ShouldReconfigure(alloc, util))
	})
}

func TestTracker_Assess(t *testing.T) {
	tr := New(6)
	alloc, util := snapshot()
	tr.MarkReconfigured(alloc, util)

	util["shiraz"] = types.ZoneUtilization{BottleCount: 13, RowCount: 2}
	change := tr.Assess(alloc, util)

	require.False(t, change.LayoutChanged)
	require.Equal(t, 3, change.BottleDelta)
	require.False(t, change.Significant(6))
	require.True(t, change.Significant(3))
}

func TestFingerprint(t *testing.T) {
	t.Run("row order within a zone does not matter", func(t *testing.T) {
		a := types.Allocation{"cabernet": {10, 11, 14}}
		b := types.Allocation{"cabernet": {14, 10, 11}}

		require.Equal(t, Fingerprint(a), Fingerprint(b))
	})

	t.Run("different ownership hashes differently", func(t *testing.T) {
		a := types.Allocation{"cabernet": {10, 11}, "shiraz": {12}}
		b := types.Allocation{"cabernet": {10, 12}, "shiraz": {11}}

		require.NotEqual(t, Fingerprint(a), Fingerprint(b))
	})

	t.Run("zone identity matters", func(t *testing.T) {
		a := types.Allocation{"cabernet": {10}}
		b := types.Allocation{"shiraz": {10}}

		require.NotEqual(t, Fingerprint(a), Fingerprint(b))
	})
}
