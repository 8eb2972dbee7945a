package apiclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics собирает счётчики и длительность вызовов внешнего API.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics регистрирует метрики клиента в переданном реестре.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fastvisa",
			Name:      "api_requests_total",
			Help:      "Number of requests to the FastVisa REST API by operation and status code.",
		}, []string{"op", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fastvisa",
			Name:      "api_request_duration_seconds",
			Help:      "Latency of requests to the FastVisa REST API.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

func (m *Metrics) observe(op, code string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op, code).Inc()
	m.duration.WithLabelValues(op).Observe(seconds)
}
