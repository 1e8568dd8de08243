package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Lbstrydom/cellarplan/capacity"
	"github.com/Lbstrydom/cellarplan/internal/logger"
	"github.com/Lbstrydom/cellarplan/types"
)

// newTestModel builds a small uniform rack: 8 rows of 4 slots.
func newTestModel(t *testing.T) *capacity.Model {
	t.Helper()

	model, err := capacity.NewModel(8, 4, nil)
	require.NoError(t, err)

	return model
}

func redZone(id string) types.Zone {
	return types.Zone{ID: id, Name: id, Color: types.ColorRed}
}

func whiteZone(id string) types.Zone {
	return types.Zone{ID: id, Name: id, Color: types.ColorWhite}
}

func neutralZone(id string) types.Zone {
	return types.Zone{ID: id, Name: id, Color: types.ColorNeutral}
}

func TestSolver_Solve(t *testing.T) {
	t.Run("rejects nil request", func(t *testing.T) {
		s := NewSolver(newTestModel(t))

		_, err := s.Solve(nil)

		require.ErrorIs(t, err, types.ErrNilRequest)
	})

	t.Run("rejects empty zone list", func(t *testing.T) {
		s := NewSolver(newTestModel(t))

		_, err := s.Solve(&Request{})

		require.ErrorIs(t, err, types.ErrNoZones)
	})

	t.Run("rejects duplicate row ownership", func(t *testing.T) {
		s := NewSolver(newTestModel(t))

		_, err := s.Solve(&Request{
			Zones:      []types.Zone{redZone("cabernet"), redZone("shiraz")},
			Allocation: types.Allocation{"cabernet": {1}, "shiraz": {1}},
		})

		require.ErrorIs(t, err, types.ErrDuplicateRowOwner)
	})

	t.Run("satisfied layout proposes nothing", func(t *testing.T) {
		s := NewSolver(newTestModel(t), WithLogger(logger.NewTest(t)))

		plan, err := s.Solve(&Request{
			Zones:      []types.Zone{redZone("cabernet"), whiteZone("riesling")},
			Allocation: types.Allocation{"cabernet": {1, 2}, "riesling": {3, 4}},
			Utilization: map[string]types.ZoneUtilization{
				"cabernet": {BottleCount: 6, RowCount: 2, Capacity: 8, UtilizationPct: 75},
				"riesling": {BottleCount: 5, RowCount: 2, Capacity: 8, UtilizationPct: 62.5},
			},
		})

		require.NoError(t, err)
		require.Empty(t, plan.Actions)
		require.Contains(t, plan.Reasoning, "no changes proposed")
		require.Equal(t, 0, plan.Summary.MisplacedBefore)
	})

	t.Run("identical requests yield identical plans", func(t *testing.T) {
		req := &Request{
			Zones: []types.Zone{redZone("cabernet"), whiteZone("riesling"), neutralZone("curiosities")},
			Allocation: types.Allocation{
				"cabernet":    {1},
				"riesling":    {2, 4},
				"curiosities": {5, 6, 7},
			},
			Utilization: map[string]types.ZoneUtilization{
				"cabernet":    {BottleCount: 9, RowCount: 1, Capacity: 4, UtilizationPct: 100, IsOverflowing: true},
				"riesling":    {BottleCount: 3, RowCount: 2, Capacity: 8, UtilizationPct: 37.5},
				"curiosities": {BottleCount: 2, RowCount: 3, Capacity: 12, UtilizationPct: 16.7},
			},
			Overflowing: []string{"cabernet"},
			Bias:        types.BiasLow,
		}

		s := NewSolver(newTestModel(t))

		first, err := s.Solve(req)
		require.NoError(t, err)
		second, err := s.Solve(req)
		require.NoError(t, err)

		require.Equal(t, first.Actions, second.Actions)
		require.Equal(t, first.Reasoning, second.Reasoning)
	})

	t.Run("actions come out sorted by priority", func(t *testing.T) {
		req := &Request{
			Zones: []types.Zone{redZone("cabernet"), redZone("shiraz"), whiteZone("riesling")},
			Allocation: types.Allocation{
				"cabernet": {1, 2},
				"shiraz":   {3},
				"riesling": {4, 5, 6},
			},
			Utilization: map[string]types.ZoneUtilization{
				"cabernet": {BottleCount: 7, RowCount: 2, Capacity: 8, UtilizationPct: 87.5},
				"shiraz":   {BottleCount: 10, RowCount: 1, Capacity: 4, UtilizationPct: 100, IsOverflowing: true},
				"riesling": {BottleCount: 2, RowCount: 3, Capacity: 12, UtilizationPct: 16.7},
			},
			Overflowing: []string{"shiraz"},
			Bias:        types.BiasLow,
		}

		plan, err := NewSolver(newTestModel(t)).Solve(req)
		require.NoError(t, err)
		require.NotEmpty(t, plan.Actions)

		for i := 1; i < len(plan.Actions); i++ {
			require.LessOrEqual(t,
				plan.Actions[i-1].Meta().Priority,
				plan.Actions[i].Meta().Priority,
				"actions must be ordered by ascending priority")
		}
	})

	t.Run("plan length never exceeds the bias cap", func(t *testing.T) {
		// A deliberately messy rack so every phase generates work.
		req := &Request{
			Zones: []types.Zone{
				redZone("cabernet"), redZone("shiraz"),
				whiteZone("riesling"), whiteZone("chardonnay"),
			},
			Allocation: types.Allocation{
				"cabernet":   {1, 5},
				"riesling":   {2, 6},
				"shiraz":     {3, 7},
				"chardonnay": {4, 8},
			},
			Utilization: map[string]types.ZoneUtilization{
				"cabernet":   {BottleCount: 8, RowCount: 2, Capacity: 8, UtilizationPct: 100, IsOverflowing: true},
				"riesling":   {BottleCount: 1, RowCount: 2, Capacity: 8, UtilizationPct: 12.5},
				"shiraz":     {BottleCount: 7, RowCount: 2, Capacity: 8, UtilizationPct: 87.5},
				"chardonnay": {BottleCount: 2, RowCount: 2, Capacity: 8, UtilizationPct: 25},
			},
			Overflowing: []string{"cabernet"},
			Bias:        types.BiasHigh,
		}

		plan, err := NewSolver(newTestModel(t)).Solve(req)
		require.NoError(t, err)
		require.LessOrEqual(t, len(plan.Actions), types.BiasHigh.MaxActions())
	})

	t.Run("never moves the same row twice", func(t *testing.T) {
		req := &Request{
			Zones: []types.Zone{redZone("cabernet"), whiteZone("riesling"), neutralZone("curiosities")},
			Allocation: types.Allocation{
				"cabernet":    {1, 4},
				"riesling":    {2, 3},
				"curiosities": {5, 6},
			},
			Utilization: map[string]types.ZoneUtilization{
				"cabernet":    {BottleCount: 8, RowCount: 2, Capacity: 8, UtilizationPct: 100, IsOverflowing: true},
				"riesling":    {BottleCount: 2, RowCount: 2, Capacity: 8, UtilizationPct: 25},
				"curiosities": {BottleCount: 1, RowCount: 2, Capacity: 8, UtilizationPct: 12.5},
			},
			Overflowing: []string{"cabernet"},
			Bias:        types.BiasLow,
		}

		plan, err := NewSolver(newTestModel(t)).Solve(req)
		require.NoError(t, err)

		seen := make(map[int]bool)
		for _, action := range plan.Actions {
			realloc, ok := action.(types.ReallocateRow)
			if !ok {
				continue
			}
			require.False(t, seen[realloc.RowNumber], "row %d moved twice", realloc.RowNumber)
			seen[realloc.RowNumber] = true
		}
	})
}
