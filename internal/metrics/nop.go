// Package metrics provides MetricsCollector implementations for the
// cellarplan library.
package metrics

import "github.com/Lbstrydom/cellarplan/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external metrics
// collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// EngineMetrics implementation

// RecordProposalDuration discards the proposal duration metric.
func (n *NopMetrics) RecordProposalDuration(_ /* duration */ float64, _ /* valid */ bool) {
	// No-op
}

// RecordPlanScore discards the plan score metric.
func (n *NopMetrics) RecordPlanScore(_ /* score */ float64) {
	// No-op
}

// SolverMetrics implementation

// RecordSolveDuration discards the solve duration metric.
func (n *NopMetrics) RecordSolveDuration(_ /* duration */ float64) {
	// No-op
}

// RecordPhaseActions discards the phase action count metric.
func (n *NopMetrics) RecordPhaseActions(_ /* phase */ string, _ /* count */ int) {
	// No-op
}

// SimulatorMetrics implementation

// RecordSimulation discards the simulation outcome metric.
func (n *NopMetrics) RecordSimulation(_ /* valid */ bool) {
	// No-op
}

// RecordViolations discards the violation count metric.
func (n *NopMetrics) RecordViolations(_ /* count */ int) {
	// No-op
}

// RecordRepairRemoved discards the repair removal metric.
func (n *NopMetrics) RecordRepairRemoved(_ /* count */ int) {
	// No-op
}

// PublisherMetrics implementation

// RecordPublishDuration discards the publish latency metric.
func (n *NopMetrics) RecordPublishDuration(_ /* operation */ string, _ /* duration */ float64) {
	// No-op
}

// RecordPublishResult discards the publish outcome metric.
func (n *NopMetrics) RecordPublishResult(_ /* success */ bool) {
	// No-op
}
