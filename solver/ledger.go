package solver

import (
	"sort"

	"github.com/Lbstrydom/cellarplan/capacity"
	"github.com/Lbstrydom/cellarplan/types"
)

// ledger is the solver's private mutable ownership arena.
//
// Every phase mutates it in place so later phases see the corrected layout.
// It is built fresh per Solve call and discarded on return; the caller's
// Allocation is never written back.
type ledger struct {
	model *capacity.Model

	zones    map[string]types.Zone
	util     map[string]types.ZoneUtilization
	bottles  map[string]int
	rowOwner map[int]string
	zoneRows map[string][]int // kept sorted ascending

	ids     []string // sorted zone IDs for deterministic iteration
	numRows int
}

func newLedger(req *Request, model *capacity.Model) (*ledger, error) {
	led := &ledger{
		model:    model,
		zones:    make(map[string]types.Zone, len(req.Zones)),
		util:     make(map[string]types.ZoneUtilization, len(req.Utilization)),
		bottles:  make(map[string]int, len(req.Utilization)),
		rowOwner: make(map[int]string),
		zoneRows: make(map[string][]int, len(req.Zones)),
		numRows:  model.RowCount(),
	}

	for _, zone := range req.Zones {
		led.zones[zone.ID] = zone
		led.zoneRows[zone.ID] = nil
	}
	for zoneID, u := range req.Utilization {
		led.util[zoneID] = u
		led.bottles[zoneID] = u.BottleCount
	}

	index, err := req.Allocation.BuildRowIndex()
	if err != nil {
		return nil, err
	}
	for row, zoneID := range index {
		led.rowOwner[row] = zoneID
	}
	for zoneID, rows := range req.Allocation {
		sorted := make([]int, len(rows))
		copy(sorted, rows)
		sort.Ints(sorted)
		led.zoneRows[zoneID] = sorted
	}

	led.ids = make([]string, 0, len(led.zones))
	for id := range led.zones {
		led.ids = append(led.ids, id)
	}
	sort.Strings(led.ids)

	return led, nil
}

func (l *ledger) zoneIDs() []string {
	return l.ids
}

func (l *ledger) hasZone(zoneID string) bool {
	_, ok := l.zones[zoneID]

	return ok
}

func (l *ledger) zoneColor(zoneID string) types.ColorFamily {
	return l.zones[zoneID].EffectiveColor()
}

func (l *ledger) rows(zoneID string) []int {
	return l.zoneRows[zoneID]
}

func (l *ledger) owner(row int) (string, bool) {
	zoneID, ok := l.rowOwner[row]

	return zoneID, ok
}

// colorOfRow returns the color family of the zone owning a row, or neutral
// for unowned rows and rows owned by wildcard zones.
func (l *ledger) colorOfRow(row int) types.ColorFamily {
	zoneID, ok := l.rowOwner[row]
	if !ok {
		return types.ColorNeutral
	}

	return l.zoneColor(zoneID)
}

// move transfers one row between zones, keeping row lists sorted.
func (l *ledger) move(row int, from, to string) {
	rows := l.zoneRows[from]
	for i, r := range rows {
		if r == row {
			l.zoneRows[from] = append(rows[:i:i], rows[i+1:]...)

			break
		}
	}

	inserted := append(l.zoneRows[to], row)
	sort.Ints(inserted)
	l.zoneRows[to] = inserted
	l.rowOwner[row] = to
}

// mergeInto folds every row and bottle of src into tgt, emptying src.
func (l *ledger) mergeInto(src, tgt string) {
	for _, row := range l.zoneRows[src] {
		l.rowOwner[row] = tgt
	}
	merged := append(l.zoneRows[tgt], l.zoneRows[src]...)
	sort.Ints(merged)
	l.zoneRows[tgt] = merged
	l.zoneRows[src] = nil

	l.bottles[tgt] += l.bottles[src]
	l.bottles[src] = 0
}

// demand is the zone's minimum row requirement at the ledger's current
// ownership.
func (l *ledger) demand(zoneID string) int {
	return l.model.Demand(l.bottles[zoneID], l.zoneRows[zoneID])
}

// surplus is the number of rows the zone owns beyond its demand.
func (l *ledger) surplus(zoneID string) int {
	return len(l.zoneRows[zoneID]) - l.demand(zoneID)
}

// estRowBottles estimates the bottles stored in one of the zone's rows,
// used for a move's BottlesAffected field.
func (l *ledger) estRowBottles(zoneID string) int {
	rows := len(l.zoneRows[zoneID])
	if rows == 0 {
		return 0
	}

	return (l.bottles[zoneID] + rows - 1) / rows
}

// boundaryIndex computes the color boundary: the last row position expected
// to hold the order's first color family. It derives from the actual row
// count of the smaller colored family so the boundary never demands rows a
// family does not have.
//
// Returns boundary 0 and false when either family owns no rows (no boundary
// to enforce).
func (l *ledger) boundaryIndex(order types.ColorOrder) (int, bool) {
	firstCount, secondCount := 0, 0
	for row := 1; row <= l.numRows; row++ {
		switch l.colorOfRow(row) {
		case order.First():
			firstCount++
		case order.Second():
			secondCount++
		}
	}
	if firstCount == 0 || secondCount == 0 {
		return 0, false
	}

	if firstCount <= secondCount {
		return firstCount, true
	}

	return l.numRows - secondCount, true
}

// countMisplaced counts colored rows sitting on the wrong side of the
// boundary.
func (l *ledger) countMisplaced(order types.ColorOrder) int {
	boundary, ok := l.boundaryIndex(order)
	if !ok {
		return 0
	}

	misplaced := 0
	for row := 1; row <= l.numRows; row++ {
		color := l.colorOfRow(row)
		if color == types.ColorNeutral {
			continue
		}
		if row <= boundary && color == order.Second() {
			misplaced++
		}
		if row > boundary && color == order.First() {
			misplaced++
		}
	}

	return misplaced
}
