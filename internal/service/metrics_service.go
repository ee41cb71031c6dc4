package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the coverage API.
type MetricsService struct {
	registry            *prometheus.Registry
	handler             http.Handler
	requestDuration     *prometheus.HistogramVec
	requestTotal        *prometheus.CounterVec
	cacheLatency        prometheus.Observer
	cacheWrite          prometheus.Observer
	cacheHitRatio       prometheus.Gauge
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	cacheErrors         *prometheus.CounterVec
	transitionsRejected *prometheus.CounterVec
	summariesBuilt      prometheus.Counter
	conflictsDetected   prometheus.Counter
	recomputeJobs       *prometheus.CounterVec
	assignmentsBooked   prometheus.Counter
	substituteResponses *prometheus.CounterVec

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	cacheErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_errors_total",
		Help: "Cache operations that failed, by operation",
	}, []string{"operation"})

	transitionsRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coverage_status_transitions_rejected_total",
		Help: "Status transitions refused by the lifecycle tables",
	}, []string{"entity"})

	summariesBuilt := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coverage_summaries_built_total",
		Help: "Coverage summaries computed from storage",
	})

	conflictsDetected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coverage_schedule_conflicts_total",
		Help: "Teacher placement conflicts detected",
	})

	recomputeJobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coverage_recompute_jobs_total",
		Help: "Coverage recompute jobs by outcome",
	}, []string{"outcome"})

	assignmentsBooked := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coverage_assignments_booked_total",
		Help: "Substitute assignments created",
	})

	substituteResponses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coverage_substitute_responses_total",
		Help: "Substitute responses recorded by response status",
	}, []string{"response_status"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		cacheErrors, transitionsRejected, summariesBuilt, conflictsDetected, recomputeJobs, assignmentsBooked, substituteResponses, goroutines)

	return &MetricsService{
		registry:            registry,
		handler:             promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:     requestDuration,
		requestTotal:        requestTotal,
		cacheLatency:        cacheLatency,
		cacheWrite:          cacheWrite,
		cacheHitRatio:       cacheHitRatio,
		cacheHits:           cacheHits,
		cacheMisses:         cacheMisses,
		cacheErrors:         cacheErrors,
		transitionsRejected: transitionsRejected,
		summariesBuilt:      summariesBuilt,
		conflictsDetected:   conflictsDetected,
		recomputeJobs:       recomputeJobs,
		assignmentsBooked:   assignmentsBooked,
		substituteResponses: substituteResponses,
	}
}

// Registry exposes the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	total := hits + atomic.LoadUint64(&m.cacheMissCount)
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordCacheError counts a failed cache get, set or invalidate.
func (m *MetricsService) RecordCacheError(operation string) {
	if m == nil {
		return
	}
	m.cacheErrors.WithLabelValues(operation).Inc()
}

// RecordRejectedTransition counts a refused status change for entity.
func (m *MetricsService) RecordRejectedTransition(entity string) {
	if m == nil {
		return
	}
	m.transitionsRejected.WithLabelValues(entity).Inc()
}

// RecordSummaryBuilt counts a coverage summary computed from storage.
func (m *MetricsService) RecordSummaryBuilt() {
	if m == nil {
		return
	}
	m.summariesBuilt.Inc()
}

// RecordConflicts adds n detected placement conflicts.
func (m *MetricsService) RecordConflicts(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.conflictsDetected.Add(float64(n))
}

// RecordRecompute counts a recompute job outcome.
func (m *MetricsService) RecordRecompute(outcome string) {
	if m == nil {
		return
	}
	m.recomputeJobs.WithLabelValues(outcome).Inc()
}

// RecordAssignments adds n booked assignments.
func (m *MetricsService) RecordAssignments(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.assignmentsBooked.Add(float64(n))
}

// RecordSubstituteResponse counts a stored substitute response.
func (m *MetricsService) RecordSubstituteResponse(status string) {
	if m == nil {
		return
	}
	m.substituteResponses.WithLabelValues(status).Inc()
}
