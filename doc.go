// Package cellarplan proposes and validates wine-cellar zone
// reconfigurations: which rack rows each zone should own as inventory
// drifts.
//
// The engine is deterministic and greedy, not an optimizer. A single
// Propose call runs four phases over a private ownership ledger (color
// boundary repair, capacity deficit resolution, merge detection,
// scattered-wine consolidation), validates the resulting plan by replaying
// it action by action, filters out anything that fails its preconditions,
// and scores what survives.
//
// # Quick Start
//
//	cfg := cellarplan.DefaultConfig()
//	src := source.NewStatic([]cellarplan.Zone{
//	    {ID: "cabernet", Name: "Cabernet Sauvignon", Color: cellarplan.ColorRed},
//	    {ID: "riesling", Name: "Riesling", Color: cellarplan.ColorWhite},
//	})
//
//	engine, err := cellarplan.New(&cfg, src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	proposal, err := engine.Propose(ctx, &cellarplan.Request{
//	    Allocation:  alloc,
//	    Utilization: util,
//	    Bias:        cfg.StabilityBias,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, action := range proposal.Plan.Actions {
//	    fmt.Println(action.Meta().Reason)
//	}
//
// # Key Guarantees
//
//   - Deterministic: identical requests always yield identical plans.
//   - Never destructive: the engine only proposes; inputs are never mutated
//     and nothing is applied.
//   - Always salvageable: a plan that fails validation is auto-repaired to
//     its valid subset, and a repaired plan always re-validates.
//   - Bounded: plan length is capped by the request's stability bias.
//
// # Architecture
//
// The root package is a facade over focused subpackages:
//
//	capacity  rack geometry and minimum-row demand
//	solver    four-phase greedy planner
//	simulate  sequential replay, invariants, auto-repair, scoring
//	source    zone metadata sources (static, YAML file)
//	tracker   snapshot drift detection for "should we even run?"
//	publish   versioned plan persistence to NATS JetStream KV
//
// Applying a plan to the physical rack, inventory bookkeeping and any
// HTTP/CLI surface are the caller's concern.
package cellarplan
