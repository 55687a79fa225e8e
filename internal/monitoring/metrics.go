package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localinsights_store_actions_total",
			Help: "Actions dispatched to the shared state store",
		},
		[]string{"action"},
	)

	authAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localinsights_auth_attempts_total",
			Help: "Login, registration and logout attempts",
		},
		[]string{"operation", "status"},
	)

	domainOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localinsights_operations_total",
			Help: "Wishlist, community and preference operations",
		},
		[]string{"domain", "operation", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "localinsights_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Monitor records application metrics. The zero value is ready to use; a
// nil *Monitor records nothing.
type Monitor struct{}

func NewMonitor() *Monitor {
	return &Monitor{}
}

// TrackAction counts a store dispatch.
func (m *Monitor) TrackAction(action string) {
	if m == nil {
		return
	}
	storeActions.WithLabelValues(action).Inc()
}

func (m *Monitor) TrackAuth(operation string, err error) {
	if m == nil {
		return
	}
	authAttempts.WithLabelValues(operation, statusOf(err)).Inc()
}

func (m *Monitor) TrackOperation(domain, operation string, err error) {
	if m == nil {
		return
	}
	domainOperations.WithLabelValues(domain, operation, statusOf(err)).Inc()
}

// Middleware times each request by its route template, so ids in the path
// do not explode label cardinality.
func (m *Monitor) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func statusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}
