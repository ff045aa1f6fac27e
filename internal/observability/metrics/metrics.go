// Package metrics exposes prometheus instrumentation for the ingest paths.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors registered by the backend.
type Metrics struct {
	SyncBatches  prometheus.Counter
	SyncRecords  prometheus.Counter
	UsageReports prometheus.Counter

	requestDuration *prometheus.HistogramVec
}

// New registers the WellTrack collectors on the given registry.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		SyncBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "welltrack_sync_batches_total",
			Help: "Accepted sync batches.",
		}),
		SyncRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "welltrack_sync_records_total",
			Help: "Usage records inserted through sync batches.",
		}),
		UsageReports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "welltrack_usage_reports_total",
			Help: "Usage records inserted through the direct report endpoint.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "welltrack_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(m.SyncBatches, m.SyncRecords, m.UsageReports, m.requestDuration)
	return m
}

// GinMiddleware records request latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.requestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
