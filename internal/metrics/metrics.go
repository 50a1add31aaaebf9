// Package metrics exposes service metrics in the Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spigell/internship-matcher/internal/stats"
)

const namespace = "internship_matcher"

// Metrics owns a registry with the HTTP and matching metrics.
type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	CatalogErrors   prometheus.Counter
	Letters         *prometheus.CounterVec
}

// New registers the metrics. The shown and accepted totals are read from
// counters at scrape time.
func New(counters *stats.Counters) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by route and status code",
		}, []string{"route", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		CatalogErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_errors_total",
			Help:      "Total catalog read failures",
		}),
		Letters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "letters_total",
			Help:      "Total application letters generated",
		}, []string{"status"}),
	}

	m.registry.MustRegister(
		m.Requests,
		m.RequestDuration,
		m.CatalogErrors,
		m.Letters,
		collectors.NewGoCollector(),
	)

	if counters != nil {
		m.registry.MustRegister(
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "suggestions_shown_total",
				Help:      "Total suggestions above the confidence threshold",
			}, func() float64 { return float64(counters.Shown()) }),
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "suggestions_accepted_total",
				Help:      "Total accepted suggestions",
			}, func() float64 { return float64(counters.Accepted()) }),
		)
	}

	return m
}

// ObserveRequest records a served request.
func (m *Metrics) ObserveRequest(route string, code int, start time.Time) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncCatalogError() {
	if m == nil {
		return
	}
	m.CatalogErrors.Inc()
}

// IncLetter counts a generated letter; status is "ok" or "error".
func (m *Metrics) IncLetter(status string) {
	if m == nil {
		return
	}
	m.Letters.WithLabelValues(status).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
