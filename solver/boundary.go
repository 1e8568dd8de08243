package solver

import (
	"fmt"

	"github.com/Lbstrydom/cellarplan/types"
)

const boundaryPriority = 1

// repairColorBoundary restores the single red/white boundary.
//
// Pass 1 pairs every misplaced row before the boundary with a misplaced row
// after it and emits a two-action swap per pair. Pass 2 scans for residual
// adjacent rows of differing color, identifies the outlier of each conflict,
// and swaps it with the nearest counterpart on the wrong side of the
// boundary, falling back to a direct swap of the adjacent pair.
//
// Every swap updates the ledger immediately so later phases see the
// corrected layout.
func (s *Solver) repairColorBoundary(led *ledger) ([]types.Action, string) {
	boundary, ok := led.boundaryIndex(s.order)
	if !ok {
		return nil, ""
	}

	var actions []types.Action

	swaps := 0
	wrongBefore, wrongAfter := led.misplacedRows(s.order, boundary)
	pairs := min(len(wrongBefore), len(wrongAfter))
	for i := 0; i < pairs; i++ {
		actions = append(actions, s.swapRows(led, wrongBefore[i], wrongAfter[i],
			fmt.Sprintf("restore %s colour boundary at row %d", s.order, boundary))...)
		swaps++
	}

	// Residual conflicts: any adjacent pair of differing colors, not just
	// boundary violations.
	for row := 1; row < led.numRows; row++ {
		c1, c2 := led.colorOfRow(row), led.colorOfRow(row+1)
		if c1 == types.ColorNeutral || c2 == types.ColorNeutral || c1 == c2 {
			continue
		}
		// The transition at the boundary is the one adjacent color change a
		// clean layout is supposed to have.
		if c1 == expectedColor(row, boundary, s.order) && c2 == expectedColor(row+1, boundary, s.order) {
			continue
		}

		outlier := pickOutlier(led, row, boundary, s.order)
		partner, found := nearestCounterpart(led, outlier, boundary, s.order)
		if !found {
			// No misplaced partner anywhere; exchange the adjacent pair
			// directly.
			partner = row + 1
			if outlier == row+1 {
				partner = row
			}
		}
		actions = append(actions, s.swapRows(led, outlier, partner,
			fmt.Sprintf("resolve colour conflict between %s and %s",
				types.FormatRowID(row), types.FormatRowID(row+1)))...)
		swaps++
	}

	if swaps == 0 {
		return nil, ""
	}

	return actions, fmt.Sprintf("Colour boundary: %d swap(s) to keep %s rows before row %d.",
		swaps, s.order.First(), boundary+1)
}

// misplacedRows lists colored rows on the wrong side of the boundary, in
// ascending row order.
func (l *ledger) misplacedRows(order types.ColorOrder, boundary int) (before, after []int) {
	for row := 1; row <= l.numRows; row++ {
		color := l.colorOfRow(row)
		if color == types.ColorNeutral {
			continue
		}
		if row <= boundary && color == order.Second() {
			before = append(before, row)
		}
		if row > boundary && color == order.First() {
			after = append(after, row)
		}
	}

	return before, after
}

// swapRows exchanges the ownership of two rows and emits the two reallocate
// actions describing the exchange.
func (s *Solver) swapRows(led *ledger, rowA, rowB int, reason string) []types.Action {
	zoneA, okA := led.owner(rowA)
	zoneB, okB := led.owner(rowB)
	if !okA || !okB || zoneA == zoneB {
		return nil
	}

	actions := []types.Action{
		types.ReallocateRow{
			ActionMeta: types.ActionMeta{
				Priority:        boundaryPriority,
				Reason:          reason,
				BottlesAffected: led.estRowBottles(zoneA),
			},
			FromZoneID: zoneA,
			ToZoneID:   zoneB,
			RowNumber:  rowA,
		},
		types.ReallocateRow{
			ActionMeta: types.ActionMeta{
				Priority:        boundaryPriority,
				Reason:          reason,
				BottlesAffected: led.estRowBottles(zoneB),
			},
			FromZoneID: zoneB,
			ToZoneID:   zoneA,
			RowNumber:  rowB,
		},
	}

	led.move(rowA, zoneA, zoneB)
	led.move(rowB, zoneB, zoneA)

	return actions
}

// pickOutlier decides which row of an adjacent color conflict does not fit
// its neighborhood.
//
// The fallback chain is deliberately best-effort: sandwich check one step
// further out on each side, then position relative to the boundary's
// expected color, then default to the upper row.
func pickOutlier(led *ledger, row, boundary int, order types.ColorOrder) int {
	c1, c2 := led.colorOfRow(row), led.colorOfRow(row+1)

	// Sandwich check: the row whose outward neighbor shares its color fits
	// its context, so the other one is the outlier.
	if led.colorOfRow(row-1) == c1 {
		return row + 1
	}
	if led.colorOfRow(row+2) == c2 {
		return row
	}

	// Midpoint heuristic: whichever row disagrees with the color its side of
	// the boundary expects.
	lowerMatches := c1 == expectedColor(row, boundary, order)
	upperMatches := c2 == expectedColor(row+1, boundary, order)
	if !lowerMatches && upperMatches {
		return row
	}
	if lowerMatches && !upperMatches {
		return row + 1
	}

	// Default to the upper row.
	return row + 1
}

func expectedColor(row, boundary int, order types.ColorOrder) types.ColorFamily {
	if row <= boundary {
		return order.First()
	}

	return order.Second()
}

// nearestCounterpart finds the misplaced row closest to the outlier whose
// color belongs where the outlier sits: swapping the two fixes both rows.
func nearestCounterpart(led *ledger, outlier, boundary int, order types.ColorOrder) (int, bool) {
	outlierColor := led.colorOfRow(outlier)

	best, bestDist := 0, 0
	for row := 1; row <= led.numRows; row++ {
		if row == outlier {
			continue
		}
		color := led.colorOfRow(row)
		if color == types.ColorNeutral || color == outlierColor {
			continue
		}
		// The candidate must itself be on the wrong side, and sit where the
		// outlier's color is expected.
		if color == expectedColor(row, boundary, order) {
			continue
		}
		if expectedColor(row, boundary, order) != outlierColor {
			continue
		}

		dist := row - outlier
		if dist < 0 {
			dist = -dist
		}
		if best == 0 || dist < bestDist {
			best, bestDist = row, dist
		}
	}

	return best, best != 0
}
