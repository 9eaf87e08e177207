package prometheus

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sm8ta/bike_inventory_service/internal/core/domain"
	"github.com/sm8ta/bike_inventory_service/internal/core/ports"
)

type PrometheusAdapter struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	repoOperations *prometheus.CounterVec
	repoDuration   *prometheus.HistogramVec
}

var _ ports.MetricsPort = (*PrometheusAdapter)(nil)

// NewPrometheusAdapter registers the service metrics with the default
// registry, which is what /metrics serves.
func NewPrometheusAdapter() *PrometheusAdapter {
	return NewPrometheusAdapterWithRegistry(prometheus.DefaultRegisterer)
}

func NewPrometheusAdapterWithRegistry(reg prometheus.Registerer) *PrometheusAdapter {
	a := &PrometheusAdapter{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		repoOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bicycle_repository_operations_total",
			Help: "Repository operations by outcome.",
		}, []string{"op", "outcome"}),
		repoDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bicycle_repository_operation_duration_seconds",
			Help:    "Repository operation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
	reg.MustRegister(a.httpRequests, a.httpDuration, a.repoOperations, a.repoDuration)
	return a
}

func (a *PrometheusAdapter) RecordMetrics(c *gin.Context, start time.Time) {
	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	method := c.Request.Method
	status := strconv.Itoa(c.Writer.Status())

	a.httpRequests.WithLabelValues(method, path, status).Inc()
	a.httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
}

func (a *PrometheusAdapter) RecordRepositoryOp(op string, start time.Time, err error) {
	a.repoOperations.WithLabelValues(op, Outcome(err)).Inc()
	a.repoDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Outcome names the error kind of a repository result for metric labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConnection):
		return "connection_error"
	case errors.Is(err, domain.ErrOperationCancelled):
		return "cancelled"
	case errors.Is(err, domain.ErrStorage):
		return "storage_error"
	default:
		return "error"
	}
}
