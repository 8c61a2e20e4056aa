// Package metrics defines the Prometheus collectors exported by applyscored.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/applyscore/applyscore/pkg/scoring"
)

// Metrics groups the service's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	ApplicationsScored *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	ScoreRatio         prometheus.Histogram
	JobCacheLookups    *prometheus.CounterVec
	ArchiveFailures    prometheus.Counter
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New registers the collectors with a fresh registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry registers the collectors with reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		ApplicationsScored: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "applyscore_applications_scored_total",
				Help: "Total number of applications scored",
			},
			[]string{"job_id"},
		),
		ValidationFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "applyscore_validation_failures_total",
				Help: "Total number of rejected payloads",
			},
			[]string{"kind"},
		),
		ScoreRatio: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "applyscore_score_ratio",
				Help:    "Distribution of total/maxTotal per scored application",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
			},
		),
		JobCacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "applyscore_job_cache_lookups_total",
				Help: "Job cache lookups by result",
			},
			[]string{"result"},
		),
		ArchiveFailures: f.NewCounter(
			prometheus.CounterOpts{
				Name: "applyscore_archive_failures_total",
				Help: "Score reports that could not be archived",
			},
		),
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "applyscore_http_requests_total",
				Help: "HTTP requests by route pattern and status code",
			},
			[]string{"route", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "applyscore_http_request_duration_seconds",
				Help:    "HTTP request latency by route pattern",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveScore records one scored application.
func (m *Metrics) ObserveScore(jobID string, report scoring.ScoreReport) {
	if m == nil {
		return
	}
	m.ApplicationsScored.WithLabelValues(jobID).Inc()
	m.ScoreRatio.Observe(report.Ratio())
}

// ValidationFailed records a rejected payload of the given kind
// ("job" or "application").
func (m *Metrics) ValidationFailed(kind string) {
	if m == nil {
		return
	}
	m.ValidationFailures.WithLabelValues(kind).Inc()
}

// CacheLookup records a job cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.JobCacheLookups.WithLabelValues(result).Inc()
}

// ArchiveFailed records a report that could not be archived.
func (m *Metrics) ArchiveFailed() {
	if m == nil {
		return
	}
	m.ArchiveFailures.Inc()
}

// ObserveRequest records a served HTTP request.
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
