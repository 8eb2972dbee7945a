package quickstart

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics считает завершённые сценарии и сбои шагов.
type Metrics struct {
	runs         *prometheus.CounterVec
	stepFailures *prometheus.CounterVec
}

// NewMetrics регистрирует метрики быстрого старта.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fastvisa",
			Subsystem: "quickstart",
			Name:      "runs_total",
			Help:      "Number of finished quick start flows by result.",
		}, []string{"result"}),
		stepFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fastvisa",
			Subsystem: "quickstart",
			Name:      "step_failures_total",
			Help:      "Number of failed quick start steps.",
		}, []string{"step", "policy"}),
	}
}

func (m *Metrics) finished(ok bool) {
	if m == nil {
		return
	}
	result := "failed"
	if ok {
		result = "completed"
	}
	m.runs.WithLabelValues(result).Inc()
}

func (m *Metrics) stepFailed(step Step, policy Policy) {
	if m == nil {
		return
	}
	m.stepFailures.WithLabelValues(string(step), policy.String()).Inc()
}
