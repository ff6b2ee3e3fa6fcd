package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the portal BFF.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can serve it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	upstreamErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	logins          *prometheus.CounterVec
	probeRounds     prometheus.Counter
	probeLoss       prometheus.Histogram
	probeLatency    prometheus.Histogram
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portal_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		upstreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_upstream_errors_total",
				Help: "Total errors from the SGP upstream by endpoint.",
			},
			[]string{"endpoint"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		logins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_logins_total",
				Help: "Total login attempts by outcome.",
			},
			[]string{"outcome"},
		),
		probeRounds: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "portal_probe_rounds_total",
				Help: "Total active probe rounds executed.",
			},
		),
		probeLoss: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "portal_probe_packet_loss_percent",
				Help:    "Packet loss per probe round.",
				Buckets: []float64{0, 20, 40, 60, 80, 100},
			},
		),
		probeLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "portal_probe_latency_ms",
				Help:    "Mean round-trip latency per probe round.",
				Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600},
			},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrUpstreamError increments the upstream error counter.
func (m *Metrics) IncrUpstreamError(endpoint string) {
	m.upstreamErrors.WithLabelValues(endpoint).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrLogin increments the login counter with an outcome label
// (success, invalid_document, not_found, error).
func (m *Metrics) IncrLogin(outcome string) {
	m.logins.WithLabelValues(outcome).Inc()
}

// RecordProbeRound records one completed probe round.
func (m *Metrics) RecordProbeRound(lossPercent float64, latencyMs *float64) {
	m.probeRounds.Inc()
	m.probeLoss.Observe(lossPercent)
	if latencyMs != nil {
		m.probeLatency.Observe(*latencyMs)
	}
}

// LoginSnapshot summarizes login counters for the ops endpoint.
type LoginSnapshot struct {
	Success         float64 `json:"success"`
	InvalidDocument float64 `json:"invalid_document"`
	NotFound        float64 `json:"not_found"`
	Errors          float64 `json:"errors"`
	CacheHitRate    float64 `json:"cache_hit_rate"`
}

// GetLoginSnapshot gathers current login counter values. Prometheus
// counters are cumulative, so these are all-time figures.
func (m *Metrics) GetLoginSnapshot() *LoginSnapshot {
	hits := getCounterValue(m.cacheHits, "user")
	misses := getCounterValue(m.cacheMisses, "user")

	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &LoginSnapshot{
		Success:         getCounterValue(m.logins, "success"),
		InvalidDocument: getCounterValue(m.logins, "invalid_document"),
		NotFound:        getCounterValue(m.logins, "not_found"),
		Errors:          getCounterValue(m.logins, "error"),
		CacheHitRate:    hitRate,
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
