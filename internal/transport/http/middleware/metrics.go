package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultMetricsNamespace = "auth"
	defaultMetricsSubsystem = "http"
)

var requestLabelNames = []string{"method", "route", "status"}

// HTTPMetricsOptions configures the request instrumentation collectors.
// Zero values fall back to the auth/http metric namespace, the default
// Prometheus registerer, and the default latency buckets.
type HTTPMetricsOptions struct {
	Registerer prometheus.Registerer
	Namespace  string
	Subsystem  string
	Buckets    []float64
}

// HTTPMetrics holds the Prometheus collectors populated by Handler.
type HTTPMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewHTTPMetrics builds and registers the request collectors.
// Collectors already present in the registerer are reused, so repeated
// construction against the same registry is safe.
func NewHTTPMetrics(opts HTTPMetricsOptions) (*HTTPMetrics, error) {
	if opts.Namespace == "" {
		opts.Namespace = defaultMetricsNamespace
	}
	if opts.Subsystem == "" {
		opts.Subsystem = defaultMetricsSubsystem
	}
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	if len(opts.Buckets) == 0 {
		opts.Buckets = prometheus.DefBuckets
	}

	requests, err := registerCollector(opts.Registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: opts.Namespace,
		Subsystem: opts.Subsystem,
		Name:      "requests_total",
		Help:      "Total number of HTTP requests partitioned by method, route, and status code.",
	}, requestLabelNames))
	if err != nil {
		return nil, fmt.Errorf("register requests counter: %w", err)
	}

	duration, err := registerCollector(opts.Registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: opts.Namespace,
		Subsystem: opts.Subsystem,
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds partitioned by method, route, and status code.",
		Buckets:   opts.Buckets,
	}, requestLabelNames))
	if err != nil {
		return nil, fmt.Errorf("register duration histogram: %w", err)
	}

	inFlight, err := registerCollector(opts.Registerer, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: opts.Namespace,
		Subsystem: opts.Subsystem,
		Name:      "in_flight_requests",
		Help:      "Number of HTTP requests currently being served.",
	}))
	if err != nil {
		return nil, fmt.Errorf("register in-flight gauge: %w", err)
	}

	return &HTTPMetrics{Requests: requests, Duration: duration, InFlight: inFlight}, nil
}

// registerCollector registers c and returns it, or returns the
// collector already registered under the same descriptor.
func registerCollector[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing, nil
		}
		err = fmt.Errorf("existing collector has unexpected type %T", already.ExistingCollector)
	}

	var zero C
	return zero, err
}

// Handler returns middleware that records request count, latency, and
// in-flight totals. A nil receiver yields a pass-through handler.
func (m *HTTPMetrics) Handler() gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()
		m.InFlight.Inc()
		defer m.InFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := strconv.Itoa(c.Writer.Status())

		m.Requests.WithLabelValues(c.Request.Method, route, status).Inc()
		m.Duration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}
