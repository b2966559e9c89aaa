package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// SurveyOperations counts survey writes by operation and outcome.
	SurveyOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_operations_total",
			Help: "Survey create, update and delete calls by outcome",
		},
		[]string{"operation", "outcome"},
	)

	ResponsesSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_responses_total",
			Help: "Submitted survey responses by outcome",
		},
		[]string{"outcome"},
	)

	ResponseScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "survey_response_score",
			Help:    "Total score of accepted responses",
			Buckets: prometheus.LinearBuckets(-50, 10, 16),
		},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_cache_lookups_total",
			Help: "Read model cache lookups by cache and result",
		},
		[]string{"cache", "result"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			SurveyOperations,
			ResponsesSubmitted,
			ResponseScore,
			CacheLookups,
		)
	})
}

// Outcome labels an error for the operation counters.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
