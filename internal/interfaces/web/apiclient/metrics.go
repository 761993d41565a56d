package apiclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
)

// Metrics are the Prometheus collectors for upstream API calls
type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	breakerState *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "community",
				Subsystem: "api_client",
				Name:      "requests_total",
				Help:      "Total number of API calls made by the page tier",
			},
			[]string{"method", "endpoint", "outcome"},
		),
		// buckets cover loopback calls from 1ms up to the client timeout
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "community",
				Subsystem: "api_client",
				Name:      "request_duration_seconds",
				Help:      "API call duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "endpoint"},
		),
		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "community",
				Subsystem: "api_client",
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"breaker"},
		),
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration, m.breakerState} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(method, endpoint, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, endpoint, outcome).Inc()
	m.duration.WithLabelValues(method, endpoint).Observe(seconds)
}

func (m *Metrics) setBreakerState(name string, state gobreaker.State) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(name).Set(float64(state))
}
