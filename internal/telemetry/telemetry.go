// Package telemetry sets up OpenTelemetry metrics for toximcp.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Config holds the telemetry settings.
type Config struct {
	ServiceName string
	Enabled     bool
}

// Providers holds the initialized OpenTelemetry providers.
// When telemetry is disabled, Meter is a no-op meter and Shutdown does nothing.
type Providers struct {
	Meter metric.Meter

	config        *Config
	meterProvider *sdkmetric.MeterProvider
}

// Init initializes the OpenTelemetry providers.
// If telemetry is enabled, metrics are exported in the prometheus format through the default
// prometheus registry, which is served on the /metrics endpoint by the HTTP server.
func Init(ctx context.Context, c *Config) (*Providers, error) {
	p := &Providers{config: c}

	if !c.Enabled {
		p.Meter = noop.NewMeterProvider().Meter(c.ServiceName)
		return p, nil
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", c.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create otel resource: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(p.meterProvider)
	p.Meter = p.meterProvider.Meter(c.ServiceName)

	return p, nil
}

// IsEnabled returns true if telemetry is enabled.
func (p *Providers) IsEnabled() bool {
	return p != nil && p.config != nil && p.config.Enabled
}

// ServiceName returns the name of the service being instrumented.
func (p *Providers) ServiceName() string {
	return p.config.ServiceName
}

// Shutdown flushes and stops the providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}
