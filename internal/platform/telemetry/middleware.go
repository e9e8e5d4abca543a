package telemetry

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/jsamuelsen/quotes-api/telemetry"

	// HeaderTraceID carries the trace ID of a traced request back to the client.
	HeaderTraceID = "X-Trace-ID"

	// opsPathPrefix marks probe and scrape routes, which are neither traced nor measured.
	opsPathPrefix = "/-/"
)

// Metrics holds HTTP server metrics.
type Metrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
}

// NewMetrics creates HTTP server metrics.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		activeRequests:  activeRequests,
	}, nil
}

// Middleware returns the tracing and metrics handlers, in that order.
// Register both with engine.Use(telemetry.Middleware(name)...).
func Middleware(serviceName string) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		TracingMiddleware(serviceName),
		MetricsMiddleware(),
	}
}

// TracingMiddleware starts a server span per request using otelgin.
// Operational routes under /-/ are not traced.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			return !strings.HasPrefix(r.URL.Path, opsPathPrefix)
		}),
	)
}

// MetricsMiddleware records request count, duration and concurrency and
// echoes the trace ID in the X-Trace-ID header.
func MetricsMiddleware() gin.HandlerFunc {
	// Errors are reported to the global handler but don't disable the header.
	metrics, err := NewMetrics()
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, opsPathPrefix) {
			c.Next()
			return
		}

		start := time.Now()

		if metrics != nil {
			attrs := metric.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", c.FullPath()),
			)

			metrics.activeRequests.Add(c.Request.Context(), 1, attrs)
			defer metrics.activeRequests.Add(c.Request.Context(), -1, attrs)
		}

		// Set before the handler writes so the header is not lost.
		if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.HasTraceID() {
			c.Header(HeaderTraceID, sc.TraceID().String())
		}

		c.Next()

		if metrics != nil {
			attrs := metric.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", c.FullPath()),
				attribute.Int("http.status_code", c.Writer.Status()),
			)
			metrics.requestDuration.Record(c.Request.Context(), time.Since(start).Seconds(), attrs)
			metrics.requestTotal.Add(c.Request.Context(), 1, attrs)
		}
	}
}
