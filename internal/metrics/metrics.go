package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RenderPassesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hexmap_render_passes_total",
		Help: "Total number of completed render passes",
	})
	RenderFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hexmap_render_failures_total",
		Help: "Render passes aborted by validation, by reason",
	}, []string{"reason"})
	PolygonsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hexmap_polygons_total",
		Help: "Total number of polygons submitted to a canvas",
	})
	RenderDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hexmap_render_duration_ms",
		Help:    "Render pass duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hexmap_http_requests_total",
		Help: "Total HTTP requests by route pattern",
	}, []string{"route"})
)

func init() {
	prometheus.MustRegister(RenderPassesTotal)
	prometheus.MustRegister(RenderFailuresTotal)
	prometheus.MustRegister(PolygonsTotal)
	prometheus.MustRegister(RenderDurationMs)
	prometheus.MustRegister(RequestsTotal)
}

// Handler exposes the registered metrics for scraping.
func Handler() http.Handler { return promhttp.Handler() }
