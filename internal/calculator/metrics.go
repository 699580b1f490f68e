package calculator

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments, initialized once via InitMetrics().
var (
	keysCounter        metric.Int64Counter
	transitionDuration metric.Float64Histogram
	fallbackCounter    metric.Int64Counter
	errorCounter       metric.Int64Counter
)

// activeSessions is scraped from /metrics through the default registry.
var activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "calculator_sessions_active",
	Help: "Number of calculator sessions held in memory",
})

// InitMetrics registers custom OTel metric instruments for the calculator domain.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	keysCounter, err = meter.Int64Counter("calculator.keys.total",
		metric.WithDescription("Total number of key tokens applied"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return fmt.Errorf("creating keys counter: %w", err)
	}

	transitionDuration, err = meter.Float64Histogram("calculator.transition.duration",
		metric.WithDescription("Duration of state transitions in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
	)
	if err != nil {
		return fmt.Errorf("creating transition histogram: %w", err)
	}

	fallbackCounter, err = meter.Int64Counter("calculator.fallbacks.total",
		metric.WithDescription("Arithmetic failures replaced by a zero result"),
		metric.WithUnit("{fallback}"),
	)
	if err != nil {
		return fmt.Errorf("creating fallback counter: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of calculator request errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	return nil
}
