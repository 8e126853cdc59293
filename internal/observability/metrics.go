// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Detection run outcomes.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Detection metrics
	DetectionsTotal      *prometheus.CounterVec
	ClustersDetected     *prometheus.CounterVec
	TransactionsAnalyzed prometheus.Counter
	SkippedRecords       prometheus.Counter
	DetectionDuration    prometheus.Histogram
	ChildrenPerCluster   prometheus.Histogram

	// Upstream metrics
	FetchDuration *prometheus.HistogramVec

	// Sink metrics
	SinkErrors *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a Metrics instance registered on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "cluster_monitor"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		DetectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "runs_total",
			Help:      "Total number of detection runs by status",
		}, []string{"status"}),
		ClustersDetected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "clusters_detected_total",
			Help:      "Total number of clusters detected by cluster type",
		}, []string{"cluster_type"}),
		TransactionsAnalyzed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "transactions_analyzed_total",
			Help:      "Total number of raw transaction records analyzed",
		}),
		SkippedRecords: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "skipped_records_total",
			Help:      "Total number of malformed records skipped",
		}),
		DetectionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "duration_seconds",
			Help:      "Duration of detection runs including upstream fetch",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ChildrenPerCluster: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "children_per_cluster",
			Help:      "Distribution of funded children per detected cluster",
			Buckets:   []float64{3, 5, 8, 13, 21, 34, 55},
		}),
		FetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "fetch_duration_seconds",
			Help:      "Upstream transaction fetch latency",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"status"}),
		SinkErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "errors_total",
			Help:      "Errors persisting or publishing clusters",
		}, []string{"sink"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "code"}),
		registry: reg,
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordDetection records the outcome of one detection run.
func (m *Metrics) RecordDetection(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.DetectionsTotal.WithLabelValues(status).Inc()
	m.DetectionDuration.Observe(elapsed.Seconds())
}

// RecordCluster records a detected cluster.
func (m *Metrics) RecordCluster(clusterType string, children int) {
	if m == nil {
		return
	}
	m.ClustersDetected.WithLabelValues(clusterType).Inc()
	m.ChildrenPerCluster.Observe(float64(children))
}

// RecordAnalyzed adds analyzed and skipped record counts.
func (m *Metrics) RecordAnalyzed(analyzed, skipped int) {
	if m == nil {
		return
	}
	m.TransactionsAnalyzed.Add(float64(analyzed))
	m.SkippedRecords.Add(float64(skipped))
}

// RecordFetch records upstream fetch latency.
func (m *Metrics) RecordFetch(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.FetchDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

// RecordSinkError counts a failed store or publish.
func (m *Metrics) RecordSinkError(sink string) {
	if m == nil {
		return
	}
	m.SinkErrors.WithLabelValues(sink).Inc()
}

// RecordHTTPRequest counts a served request.
func (m *Metrics) RecordHTTPRequest(route string, code int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
