// Package metrics exposes Prometheus collectors for the HTTP API, quiz flow and importers.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds every collector of the service, registered on its own registry
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	quizzesStartedTotal   *prometheus.CounterVec
	answersSubmittedTotal *prometheus.CounterVec
	quizzesScoredTotal    prometheus.Counter
	quizScore             prometheus.Histogram

	importRecordsTotal    *prometheus.CounterVec
	importRequestsTotal   *prometheus.CounterVec
	importRequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on a fresh registry.
func New() (*Metrics, error) {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.initMetrics()

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.quizzesStartedTotal,
		m.answersSubmittedTotal,
		m.quizzesScoredTotal,
		m.quizScore,
		m.importRecordsTotal,
		m.importRequestsTotal,
		m.importRequestDuration,
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birdsong_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "birdsong_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.quizzesStartedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birdsong_quizzes_started_total",
			Help: "Total number of started quizzes",
		},
		[]string{"difficulty", "mode"},
	)
	m.answersSubmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birdsong_answers_submitted_total",
			Help: "Total number of accepted answers",
		},
		[]string{"correct"},
	)
	m.quizzesScoredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "birdsong_quizzes_scored_total",
			Help: "Total number of scored quizzes",
		},
	)
	m.quizScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "birdsong_quiz_score_ratio",
			Help:    "Share of correct answers per scored quiz",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	m.importRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birdsong_import_records_total",
			Help: "Records handled by importers",
		},
		[]string{"source", "kind", "outcome"}, // outcome: imported, skipped
	)
	m.importRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birdsong_import_requests_total",
			Help: "Requests sent to external data providers",
		},
		[]string{"source", "status"},
	)
	m.importRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "birdsong_import_request_duration_seconds",
			Help:    "Latency of requests to external data providers",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"source"},
	)
}

// Registry returns the registry to expose on the metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) QuizStarted(difficulty, mode string) {
	if m == nil {
		return
	}
	m.quizzesStartedTotal.WithLabelValues(difficulty, mode).Inc()
}

func (m *Metrics) AnswerSubmitted(correct bool) {
	if m == nil {
		return
	}
	m.answersSubmittedTotal.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

// QuizScored records a scored quiz and its share of correct answers.
func (m *Metrics) QuizScored(score, length int) {
	if m == nil {
		return
	}
	m.quizzesScoredTotal.Inc()
	if length > 0 {
		m.quizScore.Observe(float64(score) / float64(length))
	}
}

func (m *Metrics) ImportRecords(source, kind, outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.importRecordsTotal.WithLabelValues(source, kind, outcome).Add(float64(n))
}

// ObserveImportRequest records a request to an external provider. status is the HTTP
// status code, or "error" when no response was received.
func (m *Metrics) ObserveImportRequest(source, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.importRequestsTotal.WithLabelValues(source, status).Inc()
	m.importRequestDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}
