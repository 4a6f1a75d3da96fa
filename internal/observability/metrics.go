package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ipma"

// Metrics holds the Prometheus collectors for the IPMA client and service.
type Metrics struct {
	// Upstream request metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: endpoint, outcome={success,network_error,not_found,invalid_response,validation_error}
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint

	// Reference data metrics.
	ReferenceLoads   *prometheus.CounterVec // labels: outcome={success,error}
	ReferenceEntries *prometheus.GaugeVec   // labels: collection={weather_types,wind_speed_classes,districts,islands}
	ReferenceReady   prometheus.Gauge

	JoinMisses *prometheus.CounterVec // labels: table={weather_type,wind_speed}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.ReferenceLoads,
		m.ReferenceEntries,
		m.ReferenceReady,
		m.JoinMisses,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "IPMA API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "IPMA API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		ReferenceLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_loads_total",
			Help:      "Reference data load attempts by outcome.",
		}, []string{"outcome"}),
		ReferenceEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reference_entries",
			Help:      "Entries held per cached reference collection.",
		}, []string{"collection"}),
		ReferenceReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reference_ready",
			Help:      "1 once reference data has been loaded, 0 before.",
		}),
		JoinMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "join_misses_total",
			Help:      "Forecast codes with no matching lookup table entry.",
		}, []string{"table"}),
	}
}
