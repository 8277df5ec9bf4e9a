package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "boiler_"

	resultSuccess    = "success"
	resultFailure    = "failure"
	resultSkipped    = "skipped"
	resultSuppressed = "suppressed"
)

var (
	registerOnce sync.Once

	ticksTotal       prometheus.Counter
	transitionsTotal *prometheus.CounterVec
	currentPhase     prometheus.Gauge

	dispatchTotal       *prometheus.CounterVec
	dispatchLatency     *prometheus.HistogramVec
	consecutiveFailures prometheus.Gauge

	uploadsTotal *prometheus.CounterVec
)

// Init registers the simulator and collector metrics with the default registry.
func Init() {
	registerOnce.Do(func() {
		ticksTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "simulation_ticks_total",
				Help: "Total simulation ticks executed",
			},
		)
		transitionsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "state_transitions_total",
				Help: "Total state machine transitions by source and target phase",
			},
			[]string{"from", "to"},
		)
		currentPhase = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "current_phase",
				Help: "Active state machine phase (0=off .. 6=error)",
			},
		)

		dispatchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "telemetry_dispatch_total",
				Help: "Total telemetry dispatch attempts by result",
			},
			[]string{"result"},
		)
		dispatchLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "telemetry_send_latency_seconds",
				Help:    "Telemetry send latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		consecutiveFailures = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "telemetry_consecutive_failures",
				Help: "Current count of consecutive failed telemetry sends",
			},
		)

		uploadsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "collector_uploads_total",
				Help: "Total device uploads received by the collector by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			ticksTotal,
			transitionsTotal,
			currentPhase,
			dispatchTotal,
			dispatchLatency,
			consecutiveFailures,
			uploadsTotal,
		)
	})
}

// IncTick increments the tick counter.
func IncTick() {
	if ticksTotal != nil {
		ticksTotal.Inc()
	}
}

// ObserveTransition counts a phase change and updates the phase gauge.
func ObserveTransition(from, to string, phase int) {
	if transitionsTotal != nil {
		transitionsTotal.WithLabelValues(from, to).Inc()
	}
	if currentPhase != nil {
		currentPhase.Set(float64(phase))
	}
}

// ObserveDispatch records the outcome and latency of one telemetry send.
func ObserveDispatch(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if dispatchTotal != nil {
		dispatchTotal.WithLabelValues(result).Inc()
	}
	if dispatchLatency != nil {
		dispatchLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncDispatchSkipped counts interval crossings that did not start a send.
func IncDispatchSkipped(reason string) {
	if reason == "" {
		reason = resultSkipped
	}
	if dispatchTotal != nil {
		dispatchTotal.WithLabelValues(reason).Inc()
	}
}

// SetConsecutiveFailures publishes the dispatcher failure counter.
func SetConsecutiveFailures(n int) {
	if consecutiveFailures != nil {
		consecutiveFailures.Set(float64(n))
	}
}

// IncUpload counts a collector upload by result.
func IncUpload(result string) {
	if result == "" {
		result = "unknown"
	}
	if uploadsTotal != nil {
		uploadsTotal.WithLabelValues(result).Inc()
	}
}

// Exported constants for callers.
const (
	ResultSuccess    = resultSuccess
	ResultFailure    = resultFailure
	ResultSkipped    = resultSkipped
	ResultSuppressed = resultSuppressed
)
