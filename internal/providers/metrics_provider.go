package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"cpd/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncFetchTotal(platform, outcome string)
	ObserveFetchDuration(platform string, duration time.Duration)
	IncFetchInFlight()
	DecFetchInFlight()
	ObserveStoreDuration(op string, duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	fetchTotal      *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	fetchInFlight   prometheus.Gauge
	storeDuration   *prometheus.HistogramVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncFetchTotal(platform, outcome string) {
	m.fetchTotal.WithLabelValues(platform, outcome).Inc()
}

func (m *MetricsProvider) ObserveFetchDuration(platform string, duration time.Duration) {
	m.fetchDuration.WithLabelValues(platform).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncFetchInFlight() {
	m.fetchInFlight.Inc()
}

func (m *MetricsProvider) DecFetchInFlight() {
	m.fetchInFlight.Dec()
}

func (m *MetricsProvider) ObserveStoreDuration(op string, duration time.Duration) {
	m.storeDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cpd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cpd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cpd_cache_hits_total",
			Help: "Total number of stats cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cpd_cache_misses_total",
			Help: "Total number of stats cache misses",
		}),

		fetchTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cpd_platform_fetch_total",
			Help: "Collaborator stats fetches by platform and outcome",
		}, []string{"platform", "outcome"}),

		fetchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cpd_platform_fetch_duration_seconds",
			Help:    "Collaborator stats fetch duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"platform"}),

		fetchInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "cpd_platform_fetch_in_flight",
			Help: "Collaborator stats fetches currently in flight",
		}),

		storeDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cpd_store_duration_seconds",
			Help:    "Profile store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncFetchTotal(_, _ string)                        {}
func (n *noopMetrics) ObserveFetchDuration(_ string, _ time.Duration)   {}
func (n *noopMetrics) IncFetchInFlight()                                {}
func (n *noopMetrics) DecFetchInFlight()                                {}
func (n *noopMetrics) ObserveStoreDuration(_ string, _ time.Duration)   {}
