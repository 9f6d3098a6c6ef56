package metrics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	reg *prometheus.Registry

	LeadsLoaded      prometheus.Gauge
	RecordsRejected  prometheus.Counter
	FetchErrors      prometheus.Counter
	RecomputeSeconds prometheus.Histogram
	Requests         *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		LeadsLoaded: f.NewGauge(prometheus.GaugeOpts{
			Name: "leadboard_leads_loaded",
			Help: "Leads in the current snapshot.",
		}),
		RecordsRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "leadboard_records_rejected_total",
			Help: "Raw records dropped at load time for a missing or unparseable created date.",
		}),
		FetchErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "leadboard_crm_fetch_errors_total",
			Help: "Failed lead fetches against the CRM query endpoint.",
		}),
		RecomputeSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "leadboard_recompute_seconds",
			Help:    "Latency of one filter recomputation over the snapshot.",
			Buckets: prometheus.DefBuckets,
		}),
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "leadboard_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "path", "status"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Middleware cuenta cada request con el patrón de ruta de chi para no
// disparar la cardinalidad con paths arbitrarios.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		path := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			path = rc.RoutePattern()
		}
		m.Requests.WithLabelValues(r.Method, path, strconv.Itoa(sw.status)).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
