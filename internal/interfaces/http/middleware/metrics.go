package middleware

import (
	"strconv"
	"time"

	"github.com/erp/purchasing/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type httpMetrics struct {
	requestTotal    *telemetry.Counter
	requestDuration *telemetry.Histogram
}

// HTTPMetrics records a request counter and a latency histogram per route,
// method and status class.
func HTTPMetrics(meter metric.Meter) (gin.HandlerFunc, error) {
	requestTotal, err := telemetry.NewCounter(meter,
		"http_server_request_total",
		"Total number of HTTP requests",
		"{request}",
	)
	if err != nil {
		return nil, err
	}
	requestDuration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency in seconds",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	m := &httpMetrics{requestTotal: requestTotal, requestDuration: requestDuration}
	return m.handle, nil
}

func (m *httpMetrics) handle(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	ctx := c.Request.Context()
	attrs := []attribute.KeyValue{
		telemetry.AttrHTTPMethod.String(c.Request.Method),
		telemetry.AttrHTTPRoute.String(route),
		telemetry.AttrHTTPStatusGroup.String(StatusGroup(c.Writer.Status())),
	}
	m.requestTotal.Inc(ctx, attrs...)
	m.requestDuration.RecordDuration(ctx, time.Since(start), attrs...)
}

// StatusGroup buckets a status code into its class, e.g. 404 -> "4xx"
func StatusGroup(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}
