package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMonitor_Counters(t *testing.T) {
	m := NewMonitor()

	before := testutil.ToFloat64(authAttempts.WithLabelValues("login", StatusError))
	m.TrackAuth("login", errors.New("nope"))
	assert.Equal(t, before+1, testutil.ToFloat64(authAttempts.WithLabelValues("login", StatusError)))

	before = testutil.ToFloat64(domainOperations.WithLabelValues("wishlist", "add", StatusOK))
	m.TrackOperation("wishlist", "add", nil)
	assert.Equal(t, before+1, testutil.ToFloat64(domainOperations.WithLabelValues("wishlist", "add", StatusOK)))

	var nilMonitor *Monitor
	nilMonitor.TrackAction("SET_EVENTS")
}

func TestMonitor_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewMonitor().Middleware())
	r.GET("/events/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/42", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, testutil.CollectAndCount(requestDuration, "localinsights_http_request_duration_seconds"))
}
