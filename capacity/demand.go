package capacity

import "github.com/Lbstrydom/cellarplan/types"

// Demand returns the minimum number of rows a zone needs to hold its current
// bottle count.
//
// A zone with zero bottles demands zero rows. A zone with bottles demands
// max(1, ceil(bottles / effectiveRowCapacity)) where the effective capacity
// is that of the smallest row the zone currently owns.
//
// Pure function, no side effects.
//
// Parameters:
//   - bottles: Current bottle count for the zone
//   - ownedRows: Rows the zone currently owns (may be empty)
//
// Returns:
//   - int: Minimum rows required
func (m *Model) Demand(bottles int, ownedRows []int) int {
	if bottles <= 0 {
		return 0
	}

	perRow := m.EffectiveRowCapacity(ownedRows)
	rows := (bottles + perRow - 1) / perRow
	if rows < 1 {
		rows = 1
	}

	return rows
}

// DemandByZone computes the per-zone minimum row requirement for an entire
// allocation snapshot.
//
// Parameters:
//   - alloc: Current row ownership
//   - util: Per-zone utilization snapshot (zones absent from util demand 0)
//
// Returns:
//   - map[string]int: Zone ID → minimum rows
func (m *Model) DemandByZone(alloc types.Allocation, util map[string]types.ZoneUtilization) map[string]int {
	demand := make(map[string]int, len(alloc))
	for _, zoneID := range alloc.ZoneIDs() {
		demand[zoneID] = m.Demand(util[zoneID].BottleCount, alloc[zoneID])
	}

	return demand
}
