package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rpupo63/shooting-roster/database"
)

// metrics holds the Prometheus collectors of one router.
type metrics struct {
	registry         *prometheus.Registry
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
	writes           *prometheus.CounterVec
}

func newMetrics(db database.Database) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "roster_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds, by route, method and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method", "status"},
		),
		requestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "roster_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served.",
			},
		),
		writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roster_writes_total",
				Help: "Editor writes, by entity, operation and outcome.",
			},
			[]string{"entity", "op", "outcome"},
		),
	}

	m.registry.MustRegister(
		m.requestDuration,
		m.requestsInFlight,
		m.writes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if sqlDB, err := db.DB().DB(); err == nil {
		m.registry.MustRegister(collectors.NewDBStatsCollector(sqlDB, "roster"))
	}
	return m
}

// handler serves the exposition format.
func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// middleware records duration per matched chi route pattern.
func (m *metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		m.requestsInFlight.Inc()
		defer m.requestsInFlight.Dec()

		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(srw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		m.requestDuration.
			WithLabelValues(route, r.Method, strconv.Itoa(srw.status)).
			Observe(time.Since(start).Seconds())
	})
}

// recordWrite counts an editor write; err decides the outcome label.
func (m *metrics) recordWrite(entity, op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.writes.WithLabelValues(entity, op, outcome).Inc()
}
