package simulate

import (
	"github.com/Lbstrydom/cellarplan/types"
)

const (
	fitPointsPerZone   = 10
	contiguityScale    = 30.0
	churnPointsPerMove = 5
)

// PlanScore is the quality breakdown of one plan, used to rank alternative
// plans against each other. It is never a pass/fail gate.
type PlanScore struct {
	// Fit awards 10 points per zone whose post-replay row capacity covers
	// its bottle count.
	Fit int `json:"fit"`

	// Contiguity awards up to 30 points for zones (with two or more rows)
	// whose row numbers form an unbroken run.
	Contiguity float64 `json:"contiguity"`

	// Churn deducts 5 points per action.
	Churn int `json:"churn"`

	// Total is Fit + Contiguity - Churn.
	Total float64 `json:"total"`
}

// Score replays the actions with failures silently ignored, then rates the
// resulting layout.
//
// The replay reuses the simulation state machine but optimizes for a ranking
// signal rather than correctness, so an invalid action simply contributes
// churn without its effect. An empty plan scores fit plus contiguity alone;
// adding actions can only hold or lower the score through churn.
//
// Parameters:
//   - actions: Plan actions to rate (nil list is a hard failure)
//   - zones: Zone metadata defining the known-zone set
//   - alloc: Current row ownership
//   - util: Current per-zone occupancy
//
// Returns:
//   - *PlanScore: Score breakdown for ranking
//   - error: types.ErrNilActions for a nil list, or a duplicate-ownership
//     error for inconsistent input
func (s *Simulator) Score(actions []types.Action, zones []types.Zone, alloc types.Allocation, util map[string]types.ZoneUtilization) (*PlanScore, error) {
	if actions == nil {
		return nil, types.ErrNilActions
	}

	st, err := NewState(zones, alloc, util)
	if err != nil {
		return nil, err
	}

	for _, action := range actions {
		applyAction(st, action)
	}

	score := &PlanScore{Churn: churnPointsPerMove * len(actions)}

	eligible, contiguous := 0, 0
	for _, zoneID := range st.zoneIDs() {
		rows := st.ZoneRows[zoneID]
		if s.model.SlotsFor(rows) >= st.ZoneBottles[zoneID] {
			score.Fit += fitPointsPerZone
		}
		if len(rows) >= 2 {
			eligible++
			if isContiguous(rows) {
				contiguous++
			}
		}
	}
	if eligible > 0 {
		score.Contiguity = contiguityScale * float64(contiguous) / float64(eligible)
	}

	score.Total = float64(score.Fit) + score.Contiguity - float64(score.Churn)

	return score, nil
}

// isContiguous reports whether the sorted row numbers form an unbroken run.
func isContiguous(rows []int) bool {
	for i := 1; i < len(rows); i++ {
		if rows[i] != rows[i-1]+1 {
			return false
		}
	}

	return true
}
