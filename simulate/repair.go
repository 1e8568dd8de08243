package simulate

import (
	"github.com/Lbstrydom/cellarplan/types"
)

// RepairResult is the outcome of filtering a plan down to its valid subset.
type RepairResult struct {
	// Actions is the filtered list; re-simulating it always validates.
	Actions []types.Action `json:"actions"`

	// Removed is the number of actions dropped.
	Removed int `json:"removed"`

	// Violations records why each dropped action failed.
	Violations []string `json:"violations,omitempty"`
}

// Repair replays actions in list order and silently drops every action that
// would fail its precondition check at the moment it is reached, keeping the
// effects of the surviving prefix.
//
// Repair is idempotent: the returned list passes Simulate with no
// violations, so repairing it again removes nothing. It is used as a
// fallback when validation fails, salvaging the valid subset of a plan
// rather than rejecting it outright.
//
// Parameters:
//   - actions: Plan actions to filter (nil list is a hard failure)
//   - zones: Zone metadata defining the known-zone set
//   - alloc: Current row ownership
//   - util: Current per-zone occupancy
//
// Returns:
//   - *RepairResult: Surviving actions plus the dropped actions' violations
//   - error: types.ErrNilActions for a nil list, or a duplicate-ownership
//     error for inconsistent input
func (s *Simulator) Repair(actions []types.Action, zones []types.Zone, alloc types.Allocation, util map[string]types.ZoneUtilization) (*RepairResult, error) {
	if actions == nil {
		return nil, types.ErrNilActions
	}

	st, err := NewState(zones, alloc, util)
	if err != nil {
		return nil, err
	}

	result := &RepairResult{Actions: make([]types.Action, 0, len(actions))}
	for _, action := range actions {
		if msg := applyAction(st, action); msg != "" {
			result.Removed++
			result.Violations = append(result.Violations, msg)

			continue
		}
		result.Actions = append(result.Actions, action)
	}

	if result.Removed > 0 {
		s.metrics.RecordRepairRemoved(result.Removed)
		s.logger.Debug("plan repaired",
			"submitted", len(actions),
			"removed", result.Removed,
		)
	}

	return result, nil
}
