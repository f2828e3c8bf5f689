package httptrace

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
)

// Metrics counts and times the requests served by decorated handlers.
//
// Metrics:
//   - {namespace}_http_requests_total: requests by method, route and final status code,
//     or PanicCode if the handler panicked
//   - {namespace}_http_request_failures_total: requests failed with an error or panic
//   - {namespace}_http_request_duration_seconds: request duration histogram
//
// A nil *Metrics records nothing.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	failuresTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// PanicCode is the code label of requests whose handler panicked.
const PanicCode = "panic"

// NewMetrics creates request metrics and registers them with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests served",
			},
			[]string{"method", "route", "code"},
		),
		failuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_failures_total",
				Help:      "Total number of HTTP requests whose handler failed",
			},
			[]string{"method", "route"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	err := multierr.Combine(
		reg.Register(m.requestsTotal),
		reg.Register(m.failuresTotal),
		reg.Register(m.requestDuration),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(method, route, code string, failed bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, code).Inc()
	if failed {
		m.failuresTotal.WithLabelValues(method, route).Inc()
	}
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
