// Package metrics exposes the daanotes Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the daanotes collectors on an isolated registry so that
// every server (and every test) owns its own set.
type Metrics struct {
	Registry *prometheus.Registry

	// Rendering
	PagesRenderedTotal    *prometheus.CounterVec
	RenderDurationSeconds prometheus.Histogram
	ShortcodesTotal       *prometheus.CounterVec

	// Content fetches
	FetchTotal           *prometheus.CounterVec
	FetchDurationSeconds prometheus.Histogram
	CacheEntries         prometheus.Gauge

	// HTTP
	RequestsTotal *prometheus.CounterVec

	// Live reader sessions
	LiveSessions prometheus.Gauge

	BuildInfo *prometheus.GaugeVec
}

// New creates a Metrics instance with all collectors registered.
func New(version, goVersion string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,

		PagesRenderedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "daanotes_pages_rendered_total",
				Help: "Total number of markdown pages rendered.",
			},
			[]string{"scheme"},
		),
		RenderDurationSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "daanotes_render_duration_seconds",
				Help:    "Time spent rendering one page.",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
		),
		ShortcodesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "daanotes_shortcodes_total",
				Help: "Shortcodes resolved, by name and outcome code.",
			},
			[]string{"name", "result"},
		),

		FetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "daanotes_content_fetch_total",
				Help: "Content lookups, by result (hit, miss, shared, error, missing).",
			},
			[]string{"result"},
		),
		FetchDurationSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "daanotes_content_fetch_duration_seconds",
				Help:    "Duration of content source requests.",
				Buckets: prometheus.DefBuckets,
			},
		),
		CacheEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "daanotes_content_cache_entries",
				Help: "Number of cached content documents.",
			},
		),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "daanotes_http_requests_total",
				Help: "HTTP requests served, by route pattern and status.",
			},
			[]string{"method", "route", "status"},
		),

		LiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "daanotes_live_sessions",
				Help: "Open live table-of-contents sessions.",
			},
		),

		BuildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "daanotes_info",
				Help: "Build information for the running daanotes instance.",
			},
			[]string{"version", "go_version"},
		),
	}

	reg.MustRegister(
		m.PagesRenderedTotal,
		m.RenderDurationSeconds,
		m.ShortcodesTotal,
		m.FetchTotal,
		m.FetchDurationSeconds,
		m.CacheEntries,
		m.RequestsTotal,
		m.LiveSessions,
		m.BuildInfo,
	)

	m.BuildInfo.WithLabelValues(version, goVersion).Set(1)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
