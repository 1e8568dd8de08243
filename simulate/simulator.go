package simulate

import (
	"fmt"

	"github.com/Lbstrydom/cellarplan/capacity"
	"github.com/Lbstrydom/cellarplan/internal/logger"
	"github.com/Lbstrydom/cellarplan/internal/metrics"
	"github.com/Lbstrydom/cellarplan/types"
)

// Simulator replays plans against the rack's ownership state.
//
// A Simulator is immutable after construction and safe for concurrent use:
// every run builds a private State from its inputs and discards it on
// return.
type Simulator struct {
	model   *capacity.Model
	logger  types.Logger
	metrics types.SimulatorMetrics
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger used for replay diagnostics.
func WithLogger(log types.Logger) Option {
	return func(s *Simulator) {
		s.logger = log
	}
}

// WithMetrics sets the metrics collector for simulation runs.
func WithMetrics(m types.SimulatorMetrics) Option {
	return func(s *Simulator) {
		s.metrics = m
	}
}

// NewSimulator creates a simulator bound to a rack capacity model.
//
// Parameters:
//   - model: Rack geometry (required for scoring; replay itself never
//     consults capacity)
//   - opts: Optional configuration (WithLogger, WithMetrics)
//
// Returns:
//   - *Simulator: Initialized simulator ready for use
func NewSimulator(model *capacity.Model, opts ...Option) *Simulator {
	s := &Simulator{
		model:   model,
		logger:  logger.NewNop(),
		metrics: metrics.NewNop(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		s.logger = logger.NewNop()
	}
	if s.metrics == nil {
		s.metrics = metrics.NewNop()
	}

	return s
}

// InvalidAction ties a violation message to the index of the action that
// caused it.
type InvalidAction struct {
	// Index is the action's position in the submitted list.
	Index int `json:"index"`

	// Violation describes why the action failed its precondition check.
	Violation string `json:"violation"`
}

// Result is the outcome of one simulation run.
type Result struct {
	// Valid is true iff the combined violation list is empty.
	Valid bool `json:"valid"`

	// Violations holds every per-action and global invariant violation.
	Violations []string `json:"violations,omitempty"`

	// ValidActionIndices lists the indices of actions that applied cleanly.
	ValidActionIndices []int `json:"validActionIndices"`

	// InvalidActions pairs each failing action with its violation.
	InvalidActions []InvalidAction `json:"invalidActions,omitempty"`

	// FinalState is the ledger after the full replay, including the effects
	// of every valid action.
	FinalState *State `json:"-"`
}

// Simulate replays actions in list order against a fresh ledger and reports
// every precondition and invariant violation it finds.
//
// Actions are processed in the order given, not by priority; the caller is
// responsible for ordering. A failing action is skipped without mutating the
// ledger, and the replay continues, so one bad action never masks later
// ones.
//
// Parameters:
//   - actions: Plan actions to replay (nil list is a hard failure)
//   - zones: Zone metadata defining the known-zone set
//   - alloc: Current row ownership
//   - util: Current per-zone occupancy
//
// Returns:
//   - *Result: Validation outcome with the final ledger
//   - error: types.ErrNilActions for a nil list, or a duplicate-ownership
//     error for inconsistent input; violations are never errors
func (s *Simulator) Simulate(actions []types.Action, zones []types.Zone, alloc types.Allocation, util map[string]types.ZoneUtilization) (*Result, error) {
	if actions == nil {
		return nil, types.ErrNilActions
	}

	st, err := NewState(zones, alloc, util)
	if err != nil {
		return nil, err
	}
	originalTotal := st.TotalBottles()

	result := &Result{
		ValidActionIndices: make([]int, 0, len(actions)),
		FinalState:         st,
	}

	for i, action := range actions {
		if msg := applyAction(st, action); msg != "" {
			result.Violations = append(result.Violations,
				fmt.Sprintf("action %d (%s): %s", i, kindOf(action), msg))
			result.InvalidActions = append(result.InvalidActions, InvalidAction{Index: i, Violation: msg})

			continue
		}
		result.ValidActionIndices = append(result.ValidActionIndices, i)
	}

	result.Violations = append(result.Violations, st.invariantViolations(originalTotal)...)
	result.Valid = len(result.Violations) == 0

	s.metrics.RecordSimulation(result.Valid)
	s.metrics.RecordViolations(len(result.Violations))
	s.logger.Debug("simulation complete",
		"actions", len(actions),
		"valid", result.Valid,
		"violations", len(result.Violations),
	)

	return result, nil
}

func kindOf(action types.Action) string {
	if action == nil {
		return "nil"
	}

	return string(action.Kind())
}

// applyAction validates one action's preconditions against the ledger and,
// when they hold, mutates the ledger. It returns the violation message on
// failure and the empty string on success.
func applyAction(st *State, action types.Action) string {
	if action == nil {
		return "unknown action type"
	}
	if err := action.Validate(); err != nil {
		return err.Error()
	}

	switch a := action.(type) {
	case types.ReallocateRow:
		return applyReallocate(st, a)
	case types.MergeZones:
		return applyMerge(st, a)
	case types.RetireZone:
		return applyRetire(st, a)
	case types.ExpandZone:
		return applyExpand(st, a)
	default:
		// Unreachable for the sealed union; kept so a future variant fails
		// loudly instead of silently succeeding.
		return fmt.Sprintf("unknown action type %q", action.Kind())
	}
}

func applyReallocate(st *State, a types.ReallocateRow) string {
	if st.MovedRows[a.RowNumber] {
		return fmt.Sprintf("%s was already moved earlier in this plan", types.FormatRowID(a.RowNumber))
	}
	if !st.knownZone(a.FromZoneID) {
		return fmt.Sprintf("unknown zone %q", a.FromZoneID)
	}
	if !st.knownZone(a.ToZoneID) {
		return fmt.Sprintf("unknown zone %q", a.ToZoneID)
	}
	if st.RetiredZones[a.FromZoneID] {
		return fmt.Sprintf("zone %q was already retired", a.FromZoneID)
	}
	if st.RetiredZones[a.ToZoneID] {
		return fmt.Sprintf("zone %q was already retired", a.ToZoneID)
	}

	owner, assigned := st.RowToZone[a.RowNumber]
	if !assigned {
		return fmt.Sprintf("%s is not owned by any zone", types.FormatRowID(a.RowNumber))
	}
	if owner != a.FromZoneID {
		return fmt.Sprintf("%s is owned by %q, not %q", types.FormatRowID(a.RowNumber), owner, a.FromZoneID)
	}
	if len(st.ZoneRows[a.FromZoneID]) == 1 && st.ZoneBottles[a.FromZoneID] > 0 {
		return fmt.Sprintf("cannot take the last row from %q while it still holds %d bottles",
			a.FromZoneID, st.ZoneBottles[a.FromZoneID])
	}

	st.moveRow(a.RowNumber, a.FromZoneID, a.ToZoneID)

	return ""
}

func applyMerge(st *State, a types.MergeZones) string {
	if !st.knownZone(a.TargetZoneID) {
		return fmt.Sprintf("unknown zone %q", a.TargetZoneID)
	}
	if st.RetiredZones[a.TargetZoneID] {
		return fmt.Sprintf("zone %q was already retired", a.TargetZoneID)
	}
	for _, src := range a.SourceZones {
		if !st.knownZone(src) {
			return fmt.Sprintf("unknown zone %q", src)
		}
		if st.RetiredZones[src] {
			return fmt.Sprintf("zone %q was already retired", src)
		}
	}

	for _, src := range a.SourceZones {
		st.foldInto(src, a.TargetZoneID)
	}

	return ""
}

func applyRetire(st *State, a types.RetireZone) string {
	if !st.knownZone(a.ZoneID) {
		return fmt.Sprintf("unknown zone %q", a.ZoneID)
	}
	if !st.knownZone(a.MergeIntoZoneID) {
		return fmt.Sprintf("unknown zone %q", a.MergeIntoZoneID)
	}
	if st.RetiredZones[a.ZoneID] {
		return fmt.Sprintf("zone %q was already retired", a.ZoneID)
	}
	if st.RetiredZones[a.MergeIntoZoneID] {
		return fmt.Sprintf("zone %q was already retired", a.MergeIntoZoneID)
	}

	st.foldInto(a.ZoneID, a.MergeIntoZoneID)
	st.RetiredZones[a.ZoneID] = true

	return ""
}

func applyExpand(st *State, a types.ExpandZone) string {
	if !st.knownZone(a.ZoneID) {
		return fmt.Sprintf("unknown zone %q", a.ZoneID)
	}
	if st.RetiredZones[a.ZoneID] {
		return fmt.Sprintf("zone %q was already retired", a.ZoneID)
	}

	// Informational only; no mutation.
	return ""
}
