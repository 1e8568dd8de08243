package solver

import (
	"fmt"
	"strings"

	"github.com/Lbstrydom/cellarplan/capacity"
	"github.com/Lbstrydom/cellarplan/internal/logger"
	"github.com/Lbstrydom/cellarplan/internal/metrics"
	"github.com/Lbstrydom/cellarplan/types"
)

const (
	defaultRetireBottleMax     = 2
	defaultMergeBottleMax      = 5
	defaultMergeUtilizationMax = 25.0
	defaultConsolidateTopN     = 3
)

// Solver produces a ranked list of proposed row ownership changes.
//
// A Solver is immutable after construction and safe for concurrent use:
// every Solve call builds a private ledger from its request and discards it
// on return.
type Solver struct {
	model *capacity.Model
	order types.ColorOrder

	retireBottleMax     int
	mergeBottleMax      int
	mergeUtilizationMax float64
	consolidateTopN     int

	logger  types.Logger
	metrics types.SolverMetrics
}

// Option configures a Solver.
type Option func(*Solver)

// WithColorOrder sets which color family occupies the rows before the
// boundary.
func WithColorOrder(order types.ColorOrder) Option {
	return func(s *Solver) {
		s.order = order
	}
}

// WithMergeThresholds overrides the merge-detection cutoffs.
//
// Parameters:
//   - retireBottleMax: Sources at or below this bottle count are retired
//   - mergeBottleMax: Sources at or below this bottle count may be merged
//   - mergeUtilizationMax: Merge sources must sit below this utilization %
func WithMergeThresholds(retireBottleMax, mergeBottleMax int, mergeUtilizationMax float64) Option {
	return func(s *Solver) {
		s.retireBottleMax = retireBottleMax
		s.mergeBottleMax = mergeBottleMax
		s.mergeUtilizationMax = mergeUtilizationMax
	}
}

// WithConsolidationTopN sets how many scattered wines (by bottle count) the
// consolidation phase considers.
func WithConsolidationTopN(n int) Option {
	return func(s *Solver) {
		s.consolidateTopN = n
	}
}

// WithLogger sets the logger used for per-phase diagnostics.
func WithLogger(log types.Logger) Option {
	return func(s *Solver) {
		s.logger = log
	}
}

// WithMetrics sets the metrics collector for solver runs.
func WithMetrics(m types.SolverMetrics) Option {
	return func(s *Solver) {
		s.metrics = m
	}
}

// NewSolver creates a solver bound to a rack capacity model.
//
// Parameters:
//   - model: Rack geometry (required)
//   - opts: Optional configuration (WithColorOrder, WithMergeThresholds,
//     WithConsolidationTopN, WithLogger, WithMetrics)
//
// Returns:
//   - *Solver: Initialized solver ready for use
func NewSolver(model *capacity.Model, opts ...Option) *Solver {
	s := &Solver{
		model:               model,
		order:               types.RedFirst,
		retireBottleMax:     defaultRetireBottleMax,
		mergeBottleMax:      defaultMergeBottleMax,
		mergeUtilizationMax: defaultMergeUtilizationMax,
		consolidateTopN:     defaultConsolidateTopN,
		logger:              logger.NewNop(),
		metrics:             metrics.NewNop(),
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

// Solve runs the multi-phase greedy algorithm and returns a prioritized
// plan.
//
// Deterministic: identical requests yield an identical action list and
// reasoning string. It never fails on unsatisfiable demand; an absent donor
// or merge candidate simply yields fewer actions. Only malformed input is a
// hard failure.
//
// Parameters:
//   - req: Full solver context (read-only)
//
// Returns:
//   - *types.Plan: Prioritized action list with per-phase reasoning
//   - error: types.ErrNilRequest, types.ErrNoZones, or a duplicate-ownership
//     error for inconsistent input; nil otherwise
func (s *Solver) Solve(req *Request) (*types.Plan, error) {
	if s.model == nil {
		return nil, fmt.Errorf("%w: solver has no capacity model", types.ErrInvalidConfig)
	}
	if req == nil {
		return nil, types.ErrNilRequest
	}
	if len(req.Zones) == 0 {
		return nil, types.ErrNoZones
	}

	led, err := newLedger(req, s.model)
	if err != nil {
		return nil, err
	}

	misplacedBefore := led.countMisplaced(s.order)

	var actions []types.Action
	var notes []string

	boundaryActions, note := s.repairColorBoundary(led)
	s.metrics.RecordPhaseActions("boundary", len(boundaryActions))
	actions = append(actions, boundaryActions...)
	notes = appendNote(notes, note)

	deficitActions, note := s.resolveDeficits(led, req.Overflowing, req.Bias)
	s.metrics.RecordPhaseActions("deficit", len(deficitActions))
	actions = append(actions, deficitActions...)
	notes = appendNote(notes, note)

	mergeActions, note := s.detectMerges(led, req.MergeCandidates, req.NeverMerge, req.Bias)
	s.metrics.RecordPhaseActions("merge", len(mergeActions))
	actions = append(actions, mergeActions...)
	notes = appendNote(notes, note)

	consolidateActions, note := s.consolidateScattered(led, req.ScatteredWines, req.Bias)
	s.metrics.RecordPhaseActions("consolidate", len(consolidateActions))
	actions = append(actions, consolidateActions...)
	notes = appendNote(notes, note)

	final := prioritizeAndLimit(actions, req.Bias)

	s.logger.Debug("solve complete",
		"generated", len(actions),
		"retained", len(final),
		"bias", req.Bias.String(),
	)

	if len(notes) == 0 {
		notes = append(notes, "Layout already satisfies colour, capacity and consolidation goals; no changes proposed.")
	}

	return &types.Plan{
		Actions:   final,
		Reasoning: strings.Join(notes, " "),
		Summary:   summarize(final, misplacedBefore, led.countMisplaced(s.order)),
	}, nil
}

func appendNote(notes []string, note string) []string {
	if note == "" {
		return notes
	}

	return append(notes, note)
}

// summarize aggregates the retained actions into the plan summary.
func summarize(actions []types.Action, misplacedBefore, misplacedAfter int) *types.PlanSummary {
	zones := make(map[string]bool)
	bottles := 0
	for _, action := range actions {
		bottles += action.Meta().BottlesAffected
		switch a := action.(type) {
		case types.ReallocateRow:
			zones[a.FromZoneID] = true
			zones[a.ToZoneID] = true
		case types.MergeZones:
			for _, src := range a.SourceZones {
				zones[src] = true
			}
			zones[a.TargetZoneID] = true
		case types.RetireZone:
			zones[a.ZoneID] = true
			zones[a.MergeIntoZoneID] = true
		}
	}

	return &types.PlanSummary{
		ZonesChanged:    len(zones),
		BottlesAffected: bottles,
		MisplacedBefore: misplacedBefore,
		MisplacedAfter:  misplacedAfter,
	}
}
