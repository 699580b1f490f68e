package main

import (
	"context"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"
)

type shutdownFunc func(context.Context) error

// initTelemetry starts the OTLP trace, metric and log pipelines and registers
// the calculator's metric instruments. With telemetry disabled the global
// no-op providers stay in place and only the instruments are created.
func initTelemetry(ctx context.Context, cfg config.Config) ([]shutdownFunc, error) {
	var shutdowns []shutdownFunc

	if cfg.TelemetryEnabled {
		inits := []func(context.Context, string) (func(context.Context) error, error){
			observability.InitTracing,
			observability.InitMetrics,
			observability.InitLogging,
		}
		for _, start := range inits {
			shutdown, err := start(ctx, cfg.ServiceName)
			if err != nil {
				return shutdowns, err
			}
			shutdowns = append(shutdowns, shutdown)
		}
	}

	if err := calculator.InitMetrics(); err != nil {
		return shutdowns, err
	}

	return shutdowns, nil
}
