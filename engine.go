package cellarplan

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/Lbstrydom/cellarplan/capacity"
	"github.com/Lbstrydom/cellarplan/internal/logger"
	"github.com/Lbstrydom/cellarplan/internal/metrics"
	"github.com/Lbstrydom/cellarplan/publish"
	"github.com/Lbstrydom/cellarplan/simulate"
	"github.com/Lbstrydom/cellarplan/solver"
	"github.com/Lbstrydom/cellarplan/tracker"
	"github.com/Lbstrydom/cellarplan/types"
)

// Request is the full context for one reconfiguration run.
type Request = solver.Request

// MergeCandidate is an affinity-scored zone pair supplied by the caller.
type MergeCandidate = solver.MergeCandidate

// ScatteredWine describes one wine spread across multiple rows.
type ScatteredWine = solver.ScatteredWine

// Proposal is the outcome of one Propose run.
type Proposal struct {
	// Plan is the final plan: the solver's output, or the repaired subset
	// when the original failed validation.
	Plan *types.Plan

	// Result is the simulation of Plan; always valid after repair.
	Result *simulate.Result

	// Repaired reports whether auto-repair dropped actions.
	Repaired bool

	// Removed is the number of actions auto-repair dropped.
	Removed int

	// RepairViolations records why each dropped action failed.
	RepairViolations []string

	// Score ranks the plan for comparison against alternatives.
	Score *simulate.PlanScore

	// Version is the published plan version, 0 when no publisher is wired
	// or publishing failed.
	Version int64
}

// proposalSubscriber is a helper for managing proposal subscriptions.
type proposalSubscriber struct {
	ch     chan *Proposal
	mu     sync.Mutex
	closed bool
}

// trySend delivers a proposal to the subscriber's channel without blocking.
func (s *proposalSubscriber) trySend(p *Proposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	select {
	case s.ch <- p:
	default:
		// Subscriber is slow or not ready; they will get the next proposal.
	}
}

// close safely closes the subscriber's channel.
func (s *proposalSubscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

// Engine is the zone reconfiguration facade: solve, simulate, auto-repair
// and score in one call.
//
// An Engine is immutable after construction and safe for concurrent use;
// every Propose run builds private state from its request and discards it on
// return.
type Engine struct {
	cfg    Config
	model  *capacity.Model
	solver *solver.Solver
	sim    *simulate.Simulator
	source types.ZoneSource

	publisher *publish.PlanPublisher
	tracker   *tracker.Tracker
	hooks     *Hooks

	logger  types.Logger
	metrics types.MetricsCollector

	// Fan-out to subscribers
	subscribers      *xsync.Map[uint64, *proposalSubscriber]
	nextSubscriberID atomic.Uint64
}

// New creates an Engine from a configuration and a zone source.
//
// Parameters:
//   - cfg: Engine configuration (missing values are defaulted in place)
//   - source: Zone metadata source consulted when a request carries no zones
//   - opts: Optional dependencies (WithLogger, WithMetrics, WithHooks,
//     WithPublisher, WithTracker)
//
// Returns:
//   - *Engine: Initialized engine ready for use
//   - error: ErrInvalidConfig or ErrZoneSourceRequired
//
// Example:
//
//	cfg := cellarplan.DefaultConfig()
//	src := source.NewStatic(zones)
//	engine, err := cellarplan.New(&cfg, src)
//	if err != nil { /* handle */ }
//	proposal, err := engine.Propose(ctx, &cellarplan.Request{ ... })
func New(cfg *Config, source types.ZoneSource, opts ...Option) (*Engine, error) {
	if cfg == nil {
		defaulted := DefaultConfig()
		cfg = &defaulted
	}
	SetDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, ErrZoneSourceRequired
	}

	options := &engineOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}
	if options.logger == nil {
		options.logger = logger.NewNop()
	}
	if options.metrics == nil {
		options.metrics = metrics.NewNop()
	}

	model, err := capacity.NewModel(cfg.NumRows, cfg.DefaultRowSlots, cfg.RowSlotOverrides)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    *cfg,
		model:  model,
		source: source,
		solver: solver.NewSolver(model,
			solver.WithColorOrder(cfg.ColorOrder),
			solver.WithMergeThresholds(cfg.RetireBottleMax, cfg.MergeBottleMax, cfg.MergeUtilizationMax),
			solver.WithConsolidationTopN(cfg.ScatterTopN),
			solver.WithLogger(options.logger),
			solver.WithMetrics(options.metrics),
		),
		sim: simulate.NewSimulator(model,
			simulate.WithLogger(options.logger),
			simulate.WithMetrics(options.metrics),
		),
		publisher:   options.publisher,
		tracker:     options.tracker,
		hooks:       options.hooks,
		logger:      options.logger,
		metrics:     options.metrics,
		subscribers: xsync.NewMap[uint64, *proposalSubscriber](),
	}

	return e, nil
}

// Model returns the engine's rack capacity model.
func (e *Engine) Model() *capacity.Model {
	return e.model
}

// Propose runs one full reconfiguration: solve, simulate, auto-repair when
// validation fails, re-simulate, and score.
//
// The returned proposal's Result is always valid: an invalid solver plan is
// filtered down to its valid subset before being returned. When a publisher
// is wired the final plan is persisted; publish failures are reported
// through the OnError hook without failing the proposal.
//
// Parameters:
//   - ctx: Context passed to the zone source, hooks and publisher
//   - req: Full reconfiguration context (read-only)
//
// Returns:
//   - *Proposal: Final plan with simulation, repair and score diagnostics
//   - error: ErrNilRequest, ErrNoZones, a zone source failure, or a
//     duplicate-ownership error for inconsistent input
func (e *Engine) Propose(ctx context.Context, req *Request) (*Proposal, error) {
	start := time.Now()

	if req == nil {
		return nil, ErrNilRequest
	}

	run := *req
	if len(run.Zones) == 0 {
		zones, err := e.source.ListZones(ctx)
		if err != nil {
			e.onError(ctx, err)

			return nil, err
		}
		run.Zones = zones
	}

	solveStart := time.Now()
	plan, err := e.solver.Solve(&run)
	e.metrics.RecordSolveDuration(time.Since(solveStart).Seconds())
	if err != nil {
		e.onError(ctx, err)

		return nil, err
	}

	result, err := e.sim.Simulate(plan.Actions, run.Zones, run.Allocation, run.Utilization)
	if err != nil {
		return nil, err
	}

	proposal := &Proposal{Plan: plan, Result: result}

	if !result.Valid {
		repair, err := e.sim.Repair(plan.Actions, run.Zones, run.Allocation, run.Utilization)
		if err != nil {
			return nil, err
		}

		e.logger.Warn("plan failed validation, repaired",
			"violations", len(result.Violations),
			"removed", repair.Removed,
		)

		plan.Actions = repair.Actions
		proposal.Repaired = true
		proposal.Removed = repair.Removed
		proposal.RepairViolations = repair.Violations

		result, err = e.sim.Simulate(plan.Actions, run.Zones, run.Allocation, run.Utilization)
		if err != nil {
			return nil, err
		}
		proposal.Result = result

		if e.hooks != nil && e.hooks.OnPlanRepaired != nil {
			if hookErr := e.hooks.OnPlanRepaired(ctx, repair.Removed, repair.Violations); hookErr != nil {
				e.logger.Warn("OnPlanRepaired hook failed", "error", hookErr)
			}
		}
	}

	score, err := e.sim.Score(plan.Actions, run.Zones, run.Allocation, run.Utilization)
	if err != nil {
		return nil, err
	}
	proposal.Score = score

	e.metrics.RecordPlanScore(score.Total)
	e.metrics.RecordProposalDuration(time.Since(start).Seconds(), proposal.Result.Valid)

	if e.hooks != nil && e.hooks.OnPlanProposed != nil {
		if hookErr := e.hooks.OnPlanProposed(ctx, plan, proposal.Result.Valid); hookErr != nil {
			e.logger.Warn("OnPlanProposed hook failed", "error", hookErr)
		}
	}

	if e.publisher != nil {
		version, pubErr := e.publisher.Publish(ctx, plan)
		if pubErr != nil {
			e.logger.Warn("plan publish failed", "error", pubErr)
			e.onError(ctx, pubErr)
		} else {
			proposal.Version = version
		}
	}

	e.notifySubscribers(proposal)

	e.logger.Info("proposal complete",
		"actions", len(plan.Actions),
		"valid", proposal.Result.Valid,
		"repaired", proposal.Repaired,
		"score", score.Total,
	)

	return proposal, nil
}

// Simulate validates a plan against a snapshot without proposing anything.
//
// See simulate.Simulator.Simulate for semantics.
func (e *Engine) Simulate(actions []Action, zones []Zone, alloc Allocation, util map[string]ZoneUtilization) (*simulate.Result, error) {
	return e.sim.Simulate(actions, zones, alloc, util)
}

// Repair filters a plan down to its valid subset.
//
// See simulate.Simulator.Repair for semantics.
func (e *Engine) Repair(actions []Action, zones []Zone, alloc Allocation, util map[string]ZoneUtilization) (*simulate.RepairResult, error) {
	return e.sim.Repair(actions, zones, alloc, util)
}

// Score rates a plan for comparison against alternatives.
//
// See simulate.Simulator.Score for semantics.
func (e *Engine) Score(actions []Action, zones []Zone, alloc Allocation, util map[string]ZoneUtilization) (*simulate.PlanScore, error) {
	return e.sim.Score(actions, zones, alloc, util)
}

// ShouldPropose reports whether the snapshot has drifted enough from the
// last applied layout to justify a Propose call.
//
// Without a tracker it always returns true.
func (e *Engine) ShouldPropose(alloc Allocation, util map[string]ZoneUtilization) bool {
	if e.tracker == nil {
		return true
	}

	return e.tracker.ShouldReconfigure(alloc, util)
}

// MarkApplied records the snapshot as the tracker's new baseline, typically
// after the caller has physically applied a proposed plan. No-op without a
// tracker.
func (e *Engine) MarkApplied(alloc Allocation, util map[string]ZoneUtilization) {
	if e.tracker == nil {
		return
	}
	e.tracker.MarkReconfigured(alloc, util)
}

// Subscribe returns a channel that receives every completed proposal.
//
// The returned channel is buffered (size 4) so rapid proposals do not block
// Propose; a slow subscriber misses intermediate proposals rather than
// stalling the engine.
//
// Returns:
//   - <-chan *Proposal: Channel receiving completed proposals
//   - func(): Unsubscribe function to clean up resources
//
// Example:
//
//	ch, unsubscribe := engine.Subscribe()
//	defer unsubscribe()
//	for proposal := range ch {
//	    render(proposal.Plan)
//	}
func (e *Engine) Subscribe() (<-chan *Proposal, func()) {
	id := e.nextSubscriberID.Add(1)

	sub := &proposalSubscriber{ch: make(chan *Proposal, 4)}
	e.subscribers.Store(id, sub)

	unsubscribe := func() {
		if s, ok := e.subscribers.LoadAndDelete(id); ok {
			s.close()
		}
	}

	return sub.ch, unsubscribe
}

func (e *Engine) notifySubscribers(p *Proposal) {
	e.subscribers.Range(func(_ uint64, sub *proposalSubscriber) bool {
		sub.trySend(p)

		return true
	})
}

func (e *Engine) onError(ctx context.Context, err error) {
	if e.hooks == nil || e.hooks.OnError == nil {
		return
	}
	if hookErr := e.hooks.OnError(ctx, err); hookErr != nil {
		e.logger.Warn("OnError hook failed", "error", hookErr)
	}
}
