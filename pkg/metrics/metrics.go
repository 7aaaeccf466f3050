// Package metrics exports layout, cache and HTTP events to Prometheus.
//
// A [Registry] implements every hook interface of
// [github.com/matzehuels/autolayout/pkg/observability], so wiring it up is
// one call per category at startup:
//
//	reg := metrics.NewRegistry()
//	observability.SetLayoutHooks(reg)
//	observability.SetCacheHooks(reg)
//	observability.SetHTTPHooks(reg)
//	mux.Handle("/metrics", reg.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/autolayout/pkg/observability"
)

const namespace = "autolayout"

// Registry holds all metrics of the service.
type Registry struct {
	// Layout
	LayoutsTotal       *prometheus.CounterVec
	LayoutDuration     *prometheus.HistogramVec
	LayoutNodes        prometheus.Histogram
	RejectionsTotal    *prometheus.CounterVec
	BacktracksTotal    prometheus.Counter
	FallbacksTotal     *prometheus.CounterVec
	AlignmentsTotal    *prometheus.CounterVec
	LayoutsInFlight    prometheus.Gauge

	// Cache
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
	CacheSetBytes    prometheus.Histogram

	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	HTTPErrorsTotal      *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every metric plus the Go and process
// collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{registry: reg}
	r.initLayoutMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()
	return r
}

// Prometheus returns the underlying registry.
func (r *Registry) Prometheus() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Registry) initLayoutMetrics() {
	f := promauto.With(r.registry)
	r.LayoutsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "layouts_total",
		Help:      "Layout runs by strategy and outcome.",
	}, []string{"strategy", "outcome"})
	r.LayoutDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "layout_duration_seconds",
		Help:      "Layout run latency.",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 30},
	}, []string{"strategy"})
	r.LayoutNodes = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "layout_nodes",
		Help:      "Nodes per layout run.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})
	r.RejectionsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "candidate_rejections_total",
		Help:      "Candidate positions rejected by the constraint checker, by rule.",
	}, []string{"rule"})
	r.BacktracksTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backtracks_total",
		Help:      "Placements undone after their subtree failed.",
	})
	r.FallbacksTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallbacks_total",
		Help:      "Searches abandoned in favour of the layered fallback, by reason.",
	}, []string{"reason"})
	r.AlignmentsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alignments_total",
		Help:      "Post-pass alignment attempts.",
	}, []string{"applied"})
	r.LayoutsInFlight = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "layouts_in_flight",
		Help:      "Layout runs in progress.",
	})
}

func (r *Registry) initCacheMetrics() {
	f := promauto.With(r.registry)
	r.CacheHitsTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Result cache hits.",
	})
	r.CacheMissesTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_misses_total",
		Help:      "Result cache misses.",
	})
	r.CacheSetBytes = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cache_set_bytes",
		Help:      "Size of stored cache entries.",
		Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
	})
}

func (r *Registry) initHTTPMetrics() {
	f := promauto.With(r.registry)
	r.HTTPRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})
	r.HTTPRequestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	r.HTTPRequestsInFlight = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "HTTP requests being served.",
	})
	r.HTTPErrorsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_errors_total",
		Help:      "HTTP handler errors by route.",
	}, []string{"method", "route"})
}

// =============================================================================
// observability.LayoutHooks
// =============================================================================

func (r *Registry) OnLayoutStart(_ context.Context, _ string, nodes, _ int) {
	r.LayoutsInFlight.Inc()
	r.LayoutNodes.Observe(float64(nodes))
}

func (r *Registry) OnLayoutComplete(_ context.Context, _, strategy string, d time.Duration, err error) {
	r.LayoutsInFlight.Dec()
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.LayoutsTotal.WithLabelValues(strategy, outcome).Inc()
	r.LayoutDuration.WithLabelValues(strategy).Observe(d.Seconds())
}

func (r *Registry) OnCandidateRejected(_ context.Context, _, _, rule string) {
	r.RejectionsTotal.WithLabelValues(rule).Inc()
}

func (r *Registry) OnBacktrack(context.Context, string, string, int) { r.BacktracksTotal.Inc() }

func (r *Registry) OnFallback(_ context.Context, _, reason string) {
	r.FallbacksTotal.WithLabelValues(reason).Inc()
}

func (r *Registry) OnAlign(_ context.Context, _, _ string, applied bool) {
	r.AlignmentsTotal.WithLabelValues(strconv.FormatBool(applied)).Inc()
}

// =============================================================================
// observability.CacheHooks
// =============================================================================

func (r *Registry) OnCacheHit(context.Context, string)  { r.CacheHitsTotal.Inc() }
func (r *Registry) OnCacheMiss(context.Context, string) { r.CacheMissesTotal.Inc() }

func (r *Registry) OnCacheSet(_ context.Context, _ string, size int) {
	r.CacheSetBytes.Observe(float64(size))
}

// =============================================================================
// observability.HTTPHooks
// =============================================================================

func (r *Registry) OnRequest(context.Context, string, string) { r.HTTPRequestsInFlight.Inc() }

func (r *Registry) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	r.HTTPRequestsInFlight.Dec()
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (r *Registry) OnError(_ context.Context, method, route string, _ error) {
	r.HTTPErrorsTotal.WithLabelValues(method, route).Inc()
}

var (
	_ observability.LayoutHooks = (*Registry)(nil)
	_ observability.CacheHooks  = (*Registry)(nil)
	_ observability.HTTPHooks   = (*Registry)(nil)
)
