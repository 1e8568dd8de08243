// Package capacity models the physical rack: the slot capacity of each row
// and the minimum-row demand a zone's bottle count implies.
package capacity

import (
	"fmt"

	"github.com/Lbstrydom/cellarplan/types"
)

// Model maps row numbers (1..N) to slot capacities.
//
// The rack geometry is fixed for the lifetime of a Model; typically every row
// shares one capacity with a single smaller row at the end of the rack.
type Model struct {
	slots []int // index 0 holds row 1
	total int
}

// NewModel creates a capacity model for a rack of numRows rows.
//
// Parameters:
//   - numRows: Number of rows in the rack (1-based identities R1..RN)
//   - defaultSlots: Slot capacity applied to every row
//   - overrides: Per-row capacity overrides (e.g., the one smaller row)
//
// Returns:
//   - *Model: Initialized capacity model
//   - error: types.ErrInvalidCapacity for non-positive geometry or an
//     override outside 1..numRows
func NewModel(numRows, defaultSlots int, overrides map[int]int) (*Model, error) {
	if numRows < 1 {
		return nil, fmt.Errorf("%w: row count %d", types.ErrInvalidCapacity, numRows)
	}
	if defaultSlots < 1 {
		return nil, fmt.Errorf("%w: default slots %d", types.ErrInvalidCapacity, defaultSlots)
	}

	slots := make([]int, numRows)
	for i := range slots {
		slots[i] = defaultSlots
	}
	for row, capOverride := range overrides {
		if row < 1 || row > numRows {
			return nil, fmt.Errorf("%w: override for %s outside 1..%d",
				types.ErrInvalidCapacity, types.FormatRowID(row), numRows)
		}
		if capOverride < 1 {
			return nil, fmt.Errorf("%w: override %d slots for %s",
				types.ErrInvalidCapacity, capOverride, types.FormatRowID(row))
		}
		slots[row-1] = capOverride
	}

	total := 0
	for _, s := range slots {
		total += s
	}

	return &Model{slots: slots, total: total}, nil
}

// RowCount returns the number of rows in the rack.
func (m *Model) RowCount() int {
	return len(m.slots)
}

// Rows returns every row number in the rack, in ascending order.
func (m *Model) Rows() []int {
	rows := make([]int, len(m.slots))
	for i := range rows {
		rows[i] = i + 1
	}

	return rows
}

// TotalSlots returns the rack's total slot capacity.
func (m *Model) TotalSlots() int {
	return m.total
}

// RowSlots returns the slot capacity of a row, or 0 for an unknown row.
func (m *Model) RowSlots(row int) int {
	if row < 1 || row > len(m.slots) {
		return 0
	}

	return m.slots[row-1]
}

// SlotsFor sums the capacity of a set of rows. Unknown rows contribute 0.
func (m *Model) SlotsFor(rows []int) int {
	total := 0
	for _, row := range rows {
		total += m.RowSlots(row)
	}

	return total
}

// SmallestSlots returns the capacity of the rack's smallest row.
func (m *Model) SmallestSlots() int {
	smallest := m.slots[0]
	for _, s := range m.slots[1:] {
		if s < smallest {
			smallest = s
		}
	}

	return smallest
}

// EffectiveRowCapacity returns the conservative per-row capacity for a zone
// owning the given rows: the capacity of the smallest owned row.
//
// Using the smallest owned row prevents the solver from believing a zone can
// shed a row it cannot actually spare. A zone owning no rows falls back to
// the rack's smallest row capacity.
func (m *Model) EffectiveRowCapacity(ownedRows []int) int {
	if len(ownedRows) == 0 {
		return m.SmallestSlots()
	}

	effective := 0
	for _, row := range ownedRows {
		s := m.RowSlots(row)
		if s == 0 {
			continue
		}
		if effective == 0 || s < effective {
			effective = s
		}
	}
	if effective == 0 {
		return m.SmallestSlots()
	}

	return effective
}
