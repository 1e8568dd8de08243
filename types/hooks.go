package types

import "context"

// Hooks defines callbacks for engine lifecycle events.
//
// All hooks are optional and called synchronously from Propose, after the
// engine has finished mutating its private state for the run. Hook errors
// are logged but never fail the proposal.
//
// Best practices for hook implementation:
//   - Complete quickly (< 1 second recommended)
//   - Respect context cancellation
//   - Make hooks idempotent
type Hooks struct {
	// OnPlanProposed is called with the final (possibly repaired) plan of a
	// Propose run and whether it validated.
	OnPlanProposed func(ctx context.Context, plan *Plan, valid bool) error

	// OnPlanRepaired is called when auto-repair dropped actions from an
	// invalid plan. removed is the number of dropped actions; violations are
	// their precondition failures.
	OnPlanRepaired func(ctx context.Context, removed int, violations []string) error

	// OnError is called when a recoverable error occurs (e.g., publish
	// failure).
	OnError func(ctx context.Context, err error) error
}

// ZoneSource supplies zone metadata at the start of an engine invocation.
//
// Implementations must return zones that stay immutable for the duration of
// one engine call.
type ZoneSource interface {
	// ListZones returns the current zone metadata.
	//
	// Parameters:
	//   - ctx: Context for cancellation
	//
	// Returns:
	//   - []Zone: Zone metadata (order not significant)
	//   - error: Retrieval error
	ListZones(ctx context.Context) ([]Zone, error)
}
