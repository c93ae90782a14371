package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private Prometheus registry. All methods are no-ops on a
// nil *Recorder so callers can run with metrics disabled.
type Recorder struct {
	reg          *prometheus.Registry
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	aggregations *prometheus.CounterVec
	aggLatency   *prometheus.HistogramVec
	aggRows      *prometheus.HistogramVec
	cache        *prometheus.CounterVec
	rateLimited  prometheus.Counter
}

func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dugout_http_requests_total",
			Help: "HTTP requests by route pattern and status code.",
		}, []string{"route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dugout_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		aggregations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dugout_aggregations_total",
			Help: "Stat aggregations by definition and outcome.",
		}, []string{"definition", "outcome"}),
		aggLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dugout_aggregation_duration_seconds",
			Help:    "Time spent aggregating stat records.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}, []string{"definition"}),
		aggRows: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dugout_aggregation_input_rows",
			Help:    "Raw stat rows fed to one aggregation.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"definition"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dugout_table_cache_lookups_total",
			Help: "Rendered table cache lookups by result.",
		}, []string{"result"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dugout_rate_limited_requests_total",
			Help: "Requests rejected by the per-client rate limiter.",
		}),
	}
	r.reg.MustRegister(
		r.requests,
		r.latency,
		r.aggregations,
		r.aggLatency,
		r.aggRows,
		r.cache,
		r.rateLimited,
		collectors.NewGoCollector(),
	)
	return r
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

func (r *Recorder) ObserveRequest(route string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	r.latency.WithLabelValues(route).Observe(duration.Seconds())
}

// ObserveAggregation records one call into the stats engine.
func (r *Recorder) ObserveAggregation(definition string, rows int, duration time.Duration, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.aggregations.WithLabelValues(definition, outcome).Inc()
	r.aggLatency.WithLabelValues(definition).Observe(duration.Seconds())
	r.aggRows.WithLabelValues(definition).Observe(float64(rows))
}

func (r *Recorder) CacheHit() {
	if r == nil {
		return
	}
	r.cache.WithLabelValues("hit").Inc()
}

func (r *Recorder) CacheMiss() {
	if r == nil {
		return
	}
	r.cache.WithLabelValues("miss").Inc()
}

func (r *Recorder) RateLimited() {
	if r == nil {
		return
	}
	r.rateLimited.Inc()
}
