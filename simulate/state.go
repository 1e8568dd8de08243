package simulate

import (
	"fmt"
	"sort"

	"github.com/Lbstrydom/cellarplan/types"
)

// State is the mutable ownership ledger of a single simulation run.
//
// It is built fresh from an allocation + utilization snapshot at the start
// of each run and discarded at the end; it is never shared across
// invocations.
type State struct {
	// RowToZone maps each assigned row to its owning zone.
	RowToZone map[int]string

	// ZoneRows maps each known zone to its owned rows, kept sorted.
	ZoneRows map[string][]int

	// ZoneBottles maps each known zone to its bottle count.
	ZoneBottles map[string]int

	// MovedRows marks rows already moved earlier in this replay.
	MovedRows map[int]bool

	// RetiredZones marks zones retired earlier in this replay.
	RetiredZones map[string]bool
}

// NewState builds the initial ledger for one simulation run.
//
// Every supplied zone is known to the state even when it owns no rows; rows
// in the allocation that belong to zones absent from the zone list are still
// tracked so ownership checks see them.
//
// Parameters:
//   - zones: Zone metadata (defines the known-zone set)
//   - alloc: Current row ownership
//   - util: Current per-zone occupancy
//
// Returns:
//   - *State: Fresh mutable ledger
//   - error: types.ErrDuplicateRowOwner if a row appears under two zones
func NewState(zones []types.Zone, alloc types.Allocation, util map[string]types.ZoneUtilization) (*State, error) {
	rowToZone, err := alloc.BuildRowIndex()
	if err != nil {
		return nil, err
	}

	st := &State{
		RowToZone:    rowToZone,
		ZoneRows:     make(map[string][]int, len(zones)),
		ZoneBottles:  make(map[string]int, len(zones)),
		MovedRows:    make(map[int]bool),
		RetiredZones: make(map[string]bool),
	}

	for _, zone := range zones {
		st.ZoneRows[zone.ID] = nil
		st.ZoneBottles[zone.ID] = 0
	}
	for _, zoneID := range alloc.ZoneIDs() {
		rows := make([]int, len(alloc[zoneID]))
		copy(rows, alloc[zoneID])
		sort.Ints(rows)
		st.ZoneRows[zoneID] = rows
	}
	for zoneID, u := range util {
		st.ZoneBottles[zoneID] = u.BottleCount
	}

	return st, nil
}

// knownZone reports whether the state tracks the given zone.
func (st *State) knownZone(zoneID string) bool {
	_, ok := st.ZoneRows[zoneID]

	return ok
}

// zoneIDs returns the state's zone IDs in sorted order.
func (st *State) zoneIDs() []string {
	ids := make([]string, 0, len(st.ZoneRows))
	for zoneID := range st.ZoneRows {
		ids = append(ids, zoneID)
	}
	sort.Strings(ids)

	return ids
}

// moveRow transfers ownership of one row between zones and marks it moved.
// Preconditions must already be checked.
func (st *State) moveRow(row int, from, to string) {
	st.removeRow(from, row)
	st.insertRow(to, row)
	st.RowToZone[row] = to
	st.MovedRows[row] = true
}

// foldInto transfers every row and bottle of src into target, leaving src
// empty. Preconditions must already be checked.
func (st *State) foldInto(src, target string) {
	for _, row := range st.ZoneRows[src] {
		st.insertRow(target, row)
		st.RowToZone[row] = target
	}
	st.ZoneRows[src] = nil
	st.ZoneBottles[target] += st.ZoneBottles[src]
	st.ZoneBottles[src] = 0
}

func (st *State) removeRow(zoneID string, row int) {
	rows := st.ZoneRows[zoneID]
	for i, r := range rows {
		if r == row {
			st.ZoneRows[zoneID] = append(rows[:i], rows[i+1:]...)

			return
		}
	}
}

func (st *State) insertRow(zoneID string, row int) {
	rows := st.ZoneRows[zoneID]
	i := sort.SearchInts(rows, row)
	rows = append(rows, 0)
	copy(rows[i+1:], rows[i:])
	rows[i] = row
	st.ZoneRows[zoneID] = rows
}

// TotalBottles sums the bottle counts of every zone in the state.
func (st *State) TotalBottles() int {
	total := 0
	for _, count := range st.ZoneBottles {
		total += count
	}

	return total
}

// invariantViolations checks the cross-cutting layout invariants against the
// final state, regardless of per-action outcomes.
func (st *State) invariantViolations(originalTotal int) []string {
	var violations []string

	seen := make(map[int]string)
	for _, zoneID := range st.zoneIDs() {
		for _, row := range st.ZoneRows[zoneID] {
			if other, ok := seen[row]; ok {
				violations = append(violations, fmt.Sprintf(
					"%s appears under both %q and %q", types.FormatRowID(row), other, zoneID))

				continue
			}
			seen[row] = zoneID
		}
	}

	for _, zoneID := range st.zoneIDs() {
		if st.ZoneBottles[zoneID] > 0 && len(st.ZoneRows[zoneID]) == 0 && !st.RetiredZones[zoneID] {
			violations = append(violations, fmt.Sprintf(
				"zone %q holds %d bottles but owns no rows", zoneID, st.ZoneBottles[zoneID]))
		}
	}

	if total := st.TotalBottles(); total != originalTotal {
		violations = append(violations, fmt.Sprintf(
			"bottle count drifted from %d to %d during replay", originalTotal, total))
	}

	return violations
}
