package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Metrics middleware.
type MetricsConfig struct {
	// Registerer receives the collectors. Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
	// Namespace is prepended to metric names.
	Namespace string
	// Buckets for the request duration histogram. Defaults to prometheus.DefBuckets.
	Buckets []float64
}

// Metrics returns middleware that records a request counter and a duration
// histogram, labeled by method, route pattern, and status code. Requests that
// miss the router are labeled with the raw URL path.
func Metrics(cfg ...MetricsConfig) Middleware {
	c := MetricsConfig{}
	if len(cfg) > 0 {
		c = cfg[0]
	}
	if c.Registerer == nil {
		c.Registerer = prometheus.DefaultRegisterer
	}
	if c.Buckets == nil {
		c.Buckets = prometheus.DefBuckets
	}

	requests := promauto.With(c.Registerer).NewCounterVec(prometheus.CounterOpts{
		Namespace: c.Namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	}, []string{"method", "path", "status"})

	duration := promauto.With(c.Registerer).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.Namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   c.Buckets,
	}, []string{"method", "path"})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			path := routeLabel(r)
			requests.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
			duration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// routeLabel prefers the matched route pattern over the raw path so that
// /users/123 and /users/456 land in the same series.
func routeLabel(r *http.Request) string {
	p := r.Pattern
	if p == "" {
		return r.URL.Path
	}
	if _, rest, ok := strings.Cut(p, " "); ok {
		return rest
	}
	return p
}
