package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success Outcome = "success"
	Error   Outcome = "error"
)

func (O Outcome) String() string {
	return string(O)
}

var (
	once                         sync.Once
	metricsRouter                *chi.Mux
	httpRequestDurationHistogram *prometheus.HistogramVec
	chainRpcLatencyHistogram     *prometheus.HistogramVec
	pollCycleDurationHistogram   *prometheus.HistogramVec
	terminalOperationCounter     *prometheus.CounterVec
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics()
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	go func() {
		metricsAddr := fmt.Sprintf(":%d", metricsPort)
		err := http.ListenAndServe(metricsAddr, metricsRouter)
		if err != nil {
			log.Fatal().Err(err).Msgf("error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics initializes and register the Prometheus metrics.
func registerMetrics() {
	defaultHistogramBucketsSeconds := []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

	httpRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of http request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"endpoint", "status"},
	)

	chainRpcLatencyHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chain_rpc_latency_seconds",
			Help:    "Histogram of chain rpc call latencies in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "outcome"},
	)

	pollCycleDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "operation_poll_cycle_duration_seconds",
			Help:    "Histogram of single operation poll cycle durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"kind"},
	)

	terminalOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "operations_terminal_total",
			Help: "Count of operations reaching a terminal state, by kind and state.",
		},
		[]string{"kind", "state"},
	)

	prometheus.MustRegister(
		httpRequestDurationHistogram,
		chainRpcLatencyHistogram,
		pollCycleDurationHistogram,
		terminalOperationCounter,
	)
}

// StartHttpRequestDurationTimer starts a timer to measure http request handling duration.
func StartHttpRequestDurationTimer(endpoint string) func(statusCode int) {
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		if httpRequestDurationHistogram == nil {
			return
		}
		httpRequestDurationHistogram.WithLabelValues(endpoint, fmt.Sprintf("%d", statusCode)).Observe(duration)
	}
}

// ObserveChainRpcLatency records the latency of a single chain rpc call.
func ObserveChainRpcLatency(method string, outcome Outcome, duration time.Duration) {
	if chainRpcLatencyHistogram == nil {
		return
	}
	chainRpcLatencyHistogram.WithLabelValues(method, outcome.String()).Observe(duration.Seconds())
}

// ObservePollCycleDuration records the duration of one poll cycle of an operation.
func ObservePollCycleDuration(kind string, duration time.Duration) {
	if pollCycleDurationHistogram == nil {
		return
	}
	pollCycleDurationHistogram.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordTerminalOperation counts an operation reaching a terminal state.
func RecordTerminalOperation(kind, state string) {
	if terminalOperationCounter == nil {
		return
	}
	terminalOperationCounter.WithLabelValues(kind, state).Inc()
}
