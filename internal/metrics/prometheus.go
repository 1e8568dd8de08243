package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Lbstrydom/cellarplan/types"
)

// PrometheusCollector implements types.MetricsCollector backed by
// Prometheus.
//
// Registration is lazy: collectors are created and registered on first use
// so that constructing the collector never panics on duplicate registration
// in tests.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	proposalDuration *prometheus.HistogramVec
	planScore        prometheus.Gauge
	solveDuration    prometheus.Histogram
	phaseActions     *prometheus.CounterVec
	simulations      *prometheus.CounterVec
	violations       prometheus.Counter
	repairRemoved    prometheus.Counter
	publishDuration  *prometheus.HistogramVec
	publishResults   *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements
// MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "cellarplan" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "cellarplan"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.proposalDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "proposal_duration_seconds",
			Help:      "End-to-end duration of Propose calls by validation outcome.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"valid"})

		p.planScore = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "plan_score",
			Help:      "Quality score of the most recent proposed plan.",
		})

		p.solveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "solver",
			Name:      "solve_duration_seconds",
			Help:      "Duration of solver runs.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		})

		p.phaseActions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "solver",
			Name:      "phase_actions_total",
			Help:      "Actions emitted per solver phase before prioritization.",
		}, []string{"phase"})

		p.simulations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "simulator",
			Name:      "runs_total",
			Help:      "Simulation runs by validation outcome.",
		}, []string{"valid"})

		p.violations = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "simulator",
			Name:      "violations_total",
			Help:      "Total violations reported across simulation runs.",
		})

		p.repairRemoved = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "simulator",
			Name:      "repair_removed_total",
			Help:      "Actions dropped by auto-repair.",
		})

		p.publishDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "publisher",
			Name:      "kv_operation_duration_seconds",
			Help:      "Plan publisher KV operation latency by operation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		}, []string{"op"})

		p.publishResults = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "publisher",
			Name:      "publish_results_total",
			Help:      "Plan publish attempts by outcome.",
		}, []string{"result"})

		collectors := []prometheus.Collector{
			p.proposalDuration, p.planScore, p.solveDuration, p.phaseActions,
			p.simulations, p.violations, p.repairRemoved,
			p.publishDuration, p.publishResults,
		}
		for _, c := range collectors {
			if err := p.reg.Register(c); err != nil {
				// Duplicate registration keeps the existing collector.
				if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
					panic(err)
				}
			}
		}
	})
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}

	return "false"
}

// RecordProposalDuration records the end-to-end duration of a Propose call.
func (p *PrometheusCollector) RecordProposalDuration(duration float64, valid bool) {
	p.ensureRegistered()
	p.proposalDuration.WithLabelValues(boolLabel(valid)).Observe(duration)
}

// RecordPlanScore records the score of the most recent plan.
func (p *PrometheusCollector) RecordPlanScore(score float64) {
	p.ensureRegistered()
	p.planScore.Set(score)
}

// RecordSolveDuration records the duration of a solver run.
func (p *PrometheusCollector) RecordSolveDuration(duration float64) {
	p.ensureRegistered()
	p.solveDuration.Observe(duration)
}

// RecordPhaseActions records the actions a solver phase emitted.
func (p *PrometheusCollector) RecordPhaseActions(phase string, count int) {
	p.ensureRegistered()
	p.phaseActions.WithLabelValues(phase).Add(float64(count))
}

// RecordSimulation records one simulation outcome.
func (p *PrometheusCollector) RecordSimulation(valid bool) {
	p.ensureRegistered()
	p.simulations.WithLabelValues(boolLabel(valid)).Inc()
}

// RecordViolations records the violation count of one simulation.
func (p *PrometheusCollector) RecordViolations(count int) {
	p.ensureRegistered()
	p.violations.Add(float64(count))
}

// RecordRepairRemoved records how many actions auto-repair dropped.
func (p *PrometheusCollector) RecordRepairRemoved(count int) {
	p.ensureRegistered()
	p.repairRemoved.Add(float64(count))
}

// RecordPublishDuration records plan publisher KV latency.
func (p *PrometheusCollector) RecordPublishDuration(operation string, duration float64) {
	p.ensureRegistered()
	p.publishDuration.WithLabelValues(operation).Observe(duration)
}

// RecordPublishResult records a publish attempt outcome.
func (p *PrometheusCollector) RecordPublishResult(success bool) {
	p.ensureRegistered()
	if success {
		p.publishResults.WithLabelValues("success").Inc()

		return
	}
	p.publishResults.WithLabelValues("failure").Inc()
}
