package swap

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics for the quote engine.
type Metrics struct {
	quotesTotal   *prometheus.CounterVec
	quoteDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the quote metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		quotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "swap_quotes_total",
			Help: "Quote requests labeled by direction and outcome.",
		}, []string{"direction", "result"}),
		quoteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "swap_quote_duration_seconds",
			Help:    "Time from quote initiation to completion, including simulated latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"direction"}),
	}
	reg.MustRegister(m.quotesTotal, m.quoteDuration)
	return m
}

const (
	resultStarted   = "started"
	resultCommitted = "committed"
	resultDiscarded = "discarded"
	resultFailed    = "failed"
)

func (m *Metrics) observe(dir Direction, result string) {
	if m == nil {
		return
	}
	m.quotesTotal.WithLabelValues(dir.String(), result).Inc()
}

func (m *Metrics) observeDuration(dir Direction, d time.Duration) {
	if m == nil {
		return
	}
	m.quoteDuration.WithLabelValues(dir.String()).Observe(d.Seconds())
}
