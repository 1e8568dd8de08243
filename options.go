package cellarplan

import (
	"github.com/Lbstrydom/cellarplan/publish"
	"github.com/Lbstrydom/cellarplan/tracker"
)

// Option configures an Engine with optional dependencies.
type Option func(*engineOptions)

// engineOptions holds optional Engine configuration.
type engineOptions struct {
	hooks     *Hooks
	metrics   MetricsCollector
	logger    Logger
	publisher *publish.PlanPublisher
	tracker   *tracker.Tracker
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	hooks := &cellarplan.Hooks{
//	    OnPlanProposed: func(ctx context.Context, plan *cellarplan.Plan, valid bool) error {
//	        return presentPlan(plan)
//	    },
//	}
//	engine, err := cellarplan.New(&cfg, src, cellarplan.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *engineOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	collector := metrics.NewPrometheus(nil, "cellarplan")
//	engine, err := cellarplan.New(&cfg, src, cellarplan.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *engineOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for New
func WithLogger(logger Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithPublisher sets a plan publisher; every valid proposal is persisted to
// its KV bucket. Publish failures are reported through OnError and never
// fail the proposal.
//
// Parameters:
//   - p: Configured plan publisher
//
// Returns:
//   - Option: Functional option for New
func WithPublisher(p *publish.PlanPublisher) Option {
	return func(o *engineOptions) {
		o.publisher = p
	}
}

// WithTracker sets a change tracker consulted by ShouldPropose and updated
// after each proposal.
//
// Parameters:
//   - t: Configured change tracker
//
// Returns:
//   - Option: Functional option for New
func WithTracker(t *tracker.Tracker) Option {
	return func(o *engineOptions) {
		o.tracker = t
	}
}
