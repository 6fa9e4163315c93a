package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "callagent"

type Metrics struct {
	turns          *prometheus.CounterVec
	sinkFailures   *prometheus.CounterVec
	sessions       *prometheus.CounterVec
	modelLatency   prometheus.Histogram
	discardedTurns prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Prompt turns answered, by outcome.",
		}, []string{"outcome"}),
		sinkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_failures_total",
			Help:      "Failed appends to the appointment or QA log.",
		}, []string{"sink"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Call sessions opened and closed.",
		}, []string{"event"}),
		modelLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_latency_seconds",
			Help:      "Latency of intent extraction calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16},
		}),
		discardedTurns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discarded_turns_total",
			Help:      "Model results dropped because the call ended first.",
		}),
	}

	reg.MustRegister(m.turns, m.sinkFailures, m.sessions, m.modelLatency, m.discardedTurns)
	return m
}

func (m *Metrics) Turn(outcome string) {
	m.turns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SinkFailure(sink string) {
	m.sinkFailures.WithLabelValues(sink).Inc()
}

func (m *Metrics) SessionOpened() {
	m.sessions.WithLabelValues("opened").Inc()
}

func (m *Metrics) SessionClosed() {
	m.sessions.WithLabelValues("closed").Inc()
}

func (m *Metrics) ObserveModel(start time.Time) {
	m.modelLatency.Observe(time.Since(start).Seconds())
}

func (m *Metrics) TurnDiscarded() {
	m.discardedTurns.Inc()
}
