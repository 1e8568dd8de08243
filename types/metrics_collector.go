package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods must be safe for concurrent use: independent engine
// invocations may run in parallel even though each invocation is
// single-threaded internally.
//
// This interface composes smaller, domain-focused interfaces for better
// modularity.
type MetricsCollector interface {
	EngineMetrics
	SolverMetrics
	SimulatorMetrics
	PublisherMetrics
}

// EngineMetrics defines metrics for engine-level proposal runs.
type EngineMetrics interface {
	// RecordProposalDuration records the end-to-end time of one Propose call.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	//   - valid: Whether the returned plan validated
	RecordProposalDuration(duration float64, valid bool)

	// RecordPlanScore records the quality score of the returned plan.
	RecordPlanScore(score float64)
}

// SolverMetrics defines metrics for solver runs.
type SolverMetrics interface {
	// RecordSolveDuration records the time taken by one Solve call.
	RecordSolveDuration(duration float64)

	// RecordPhaseActions records how many actions a solver phase emitted.
	//
	// Parameters:
	//   - phase: Phase name ("boundary", "deficit", "merge", "consolidate")
	//   - count: Actions emitted by the phase before prioritization
	RecordPhaseActions(phase string, count int)
}

// SimulatorMetrics defines metrics for simulation and repair runs.
type SimulatorMetrics interface {
	// RecordSimulation records one simulation outcome.
	RecordSimulation(valid bool)

	// RecordViolations records the violation count of one simulation.
	RecordViolations(count int)

	// RecordRepairRemoved records how many actions auto-repair dropped.
	RecordRepairRemoved(count int)
}

// PublisherMetrics defines metrics for plan persistence operations.
type PublisherMetrics interface {
	// RecordPublishDuration records KV operation latency.
	//
	// Parameters:
	//   - operation: Operation type ("put", "get", "keys", "delete")
	//   - duration: Time taken in seconds
	RecordPublishDuration(operation string, duration float64)

	// RecordPublishResult records a publish attempt outcome.
	RecordPublishResult(success bool)
}
