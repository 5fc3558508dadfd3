package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zodipy_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zodipy_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	simulationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "zodipy_simulation_duration_seconds",
			Help:    "Wall time of one emission batch.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
	)

	simulationSamplesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "zodipy_simulation_samples_total",
			Help: "Total line-of-sight samples evaluated.",
		},
	)

	simulationFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "zodipy_simulation_sample_failures_total",
			Help: "Samples that failed and were reported as NaN.",
		},
	)

	simulationWorkers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "zodipy_simulation_workers",
			Help: "Size of the simulation worker pool.",
		},
	)

	ephemerisCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "zodipy_ephemeris_cache_hits_total",
			Help: "Ephemeris lookups served from cache.",
		},
	)

	ephemerisCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "zodipy_ephemeris_cache_misses_total",
			Help: "Ephemeris lookups that went to the provider.",
		},
	)

	ephemerisCacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "zodipy_ephemeris_cache_entries",
			Help: "Entries currently held by the ephemeris cache.",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(simulationDurationSeconds)
	prometheus.MustRegister(simulationSamplesTotal)
	prometheus.MustRegister(simulationFailuresTotal)
	prometheus.MustRegister(simulationWorkers)
	prometheus.MustRegister(ephemerisCacheHits)
	prometheus.MustRegister(ephemerisCacheMisses)
	prometheus.MustRegister(ephemerisCacheSize)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordSimulation records one completed emission batch.
func RecordSimulation(duration time.Duration, samples, failures int) {
	simulationDurationSeconds.Observe(duration.Seconds())
	simulationSamplesTotal.Add(float64(samples))
	simulationFailuresTotal.Add(float64(failures))
}

// SetSimulationWorkers records the worker pool size.
func SetSimulationWorkers(n int) {
	simulationWorkers.Set(float64(n))
}

// IncEphemerisCacheHits increments the ephemeris cache hit counter.
func IncEphemerisCacheHits() {
	ephemerisCacheHits.Inc()
}

// IncEphemerisCacheMisses increments the ephemeris cache miss counter.
func IncEphemerisCacheMisses() {
	ephemerisCacheMisses.Inc()
}

// SetEphemerisCacheSize records the current ephemeris cache size.
func SetEphemerisCacheSize(n int) {
	ephemerisCacheSize.Set(float64(n))
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.URL.Path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(r.URL.Path, r.Method).Observe(duration)
	})
}
