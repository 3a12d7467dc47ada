package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Mahesh1735/research-agent-core/utils"
)

const namespace = "research_agent"

// Metrics holds the prometheus collectors for the agent. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	turns           *prometheus.CounterVec
	capabilityCalls *prometheus.CounterVec
	retryAttempts   *prometheus.CounterVec
	candidates      prometheus.Histogram
	externalCalls   *prometheus.HistogramVec
}

// NewMetrics builds the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Conversation turns handled, by outcome.",
		}, []string{"outcome"}),
		capabilityCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capability_calls_total",
			Help:      "Capabilities serviced by the orchestrator.",
		}, []string{"capability"}),
		retryAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retry_attempts_total",
			Help:      "Attempts made by retry-wrapped operations.",
		}, []string{"operation", "result"}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "candidates_returned",
			Help:      "Candidates produced per product search.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}),
		externalCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "external_call_duration_seconds",
			Help:      "Latency of calls to external services.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"call", "result"}),
	}
	if reg != nil {
		reg.MustRegister(m.turns, m.capabilityCalls, m.retryAttempts, m.candidates, m.externalCalls)
	}
	return m
}

func (m *Metrics) ObserveTurn(outcome string) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveCapability(capability string) {
	if m == nil {
		return
	}
	m.capabilityCalls.WithLabelValues(capability).Inc()
}

func (m *Metrics) ObserveCandidates(n int) {
	if m == nil {
		return
	}
	m.candidates.Observe(float64(n))
}

// TimeCall starts a latency measurement; call the returned func with the call's error.
func (m *Metrics) TimeCall(call string) func(error) {
	start := time.Now()
	return func(err error) {
		if m == nil {
			return
		}
		result := "ok"
		if err != nil {
			result = "error"
		}
		m.externalCalls.WithLabelValues(call, result).Observe(time.Since(start).Seconds())
	}
}

// RetryObserver counts attempts of a retry-wrapped operation.
func (m *Metrics) RetryObserver() utils.RetryObserver {
	return func(a utils.Attempt) {
		if m == nil {
			return
		}
		switch {
		case a.Final && a.Succeeded:
			m.retryAttempts.WithLabelValues(a.Operation, "success").Inc()
		case a.Final:
			m.retryAttempts.WithLabelValues(a.Operation, "exhausted").Inc()
		default:
			m.retryAttempts.WithLabelValues(a.Operation, "failure").Inc()
		}
	}
}
