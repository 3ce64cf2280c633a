package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "resume_ats"

var (
	registry = prometheus.NewRegistry()

	analysisStartedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analysis_started_total",
		Help:      "Total analyses started",
	}, []string{"mode"})
	analysisCompletedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analysis_completed_total",
		Help:      "Total analyses completed",
	}, []string{"mode"})
	analysisFailedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analysis_failed_total",
		Help:      "Total analyses failed",
	}, []string{"mode"})
	semanticFailureTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "semantic_failure_total",
		Help:      "Semantic analyses that returned a typed failure",
	}, []string{"reason"})
	uploadTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upload_total",
		Help:      "Résumé files received, by detected format",
	}, []string{"format"})

	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by route template and status code",
	}, []string{"route", "status"})
	httpPanicsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_panics_total",
		Help:      "Handler panics recovered by the server",
	}, []string{"route"})

	analysisDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Analysis pipeline duration in seconds",
		Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"mode"})
	analysisScore = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_score",
		Help:      "Distribution of final ATS scores",
		Buckets:   prometheus.LinearBuckets(10, 10, 10),
	}, []string{"mode"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		analysisStartedTotal,
		analysisCompletedTotal,
		analysisFailedTotal,
		semanticFailureTotal,
		uploadTotal,
		httpRequestsTotal,
		httpPanicsTotal,
		analysisDuration,
		analysisScore,
	)
}

// Registry exposes the process registry, mainly for tests.
func Registry() *prometheus.Registry {
	return registry
}

// IncAnalysisStarted increments the started counter.
func IncAnalysisStarted(mode string) {
	analysisStartedTotal.WithLabelValues(mode).Inc()
}

// IncAnalysisCompleted increments the completed counter and records the score.
func IncAnalysisCompleted(mode string, score int) {
	analysisCompletedTotal.WithLabelValues(mode).Inc()
	analysisScore.WithLabelValues(mode).Observe(float64(score))
}

// IncAnalysisFailed increments the failed counter.
func IncAnalysisFailed(mode string) {
	analysisFailedTotal.WithLabelValues(mode).Inc()
}

// IncSemanticFailure counts a semantic result carrying a failure reason.
func IncSemanticFailure(reason string) {
	semanticFailureTotal.WithLabelValues(reason).Inc()
}

// IncUpload counts an uploaded résumé file.
func IncUpload(format string) {
	uploadTotal.WithLabelValues(format).Inc()
}

// IncHTTPRequest counts a served request. Unmatched routes share one label.
func IncHTTPRequest(route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// IncPanic counts a recovered handler panic.
func IncPanic(route string) {
	if route == "" {
		route = "unmatched"
	}
	httpPanicsTotal.WithLabelValues(route).Inc()
}

// ObserveAnalysisDuration records how long an analysis took.
func ObserveAnalysisDuration(mode string, d time.Duration) {
	if d < 0 {
		d = 0
	}
	analysisDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// RegisterCacheStats exposes hit and miss counts read from stats at scrape
// time. It fails if called twice.
func RegisterCacheStats(name string, stats func() (hits, misses int64)) error {
	hits := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "cache_hits_total",
		Help:        "Cache lookups served from memory or Redis",
		ConstLabels: prometheus.Labels{"cache": name},
	}, func() float64 {
		h, _ := stats()
		return float64(h)
	})
	misses := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "cache_misses_total",
		Help:        "Cache lookups that found nothing",
		ConstLabels: prometheus.Labels{"cache": name},
	}, func() float64 {
		_, m := stats()
		return float64(m)
	})
	if err := registry.Register(hits); err != nil {
		return err
	}
	return registry.Register(misses)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
