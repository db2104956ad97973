package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// ServiceVersion is reported on every exported resource
const ServiceVersion = "1.0.0"

const shutdownTimeout = 10 * time.Second

// ExporterConfig is the OTLP collector connection shared by traces, metrics
// and logs.
type ExporterConfig struct {
	CollectorEndpoint string
	ServiceName       string
	Insecure          bool
}

// sdkProvider is the shutdown half shared by the trace, metric and log sdks.
type sdkProvider interface {
	Shutdown(ctx context.Context) error
}

// lifecycle owns one sdk provider. A nil sdk means the signal is disabled and
// the global no-op provider stays in place.
type lifecycle struct {
	signal string
	sdk    sdkProvider
	logger *zap.Logger
}

func (l *lifecycle) enabled() bool {
	return l != nil && l.sdk != nil
}

// shutdown flushes whatever the exporter still buffers. It is bounded by
// shutdownTimeout even when ctx has no deadline.
func (l *lifecycle) shutdown(ctx context.Context) error {
	if !l.enabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := l.sdk.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown %s provider: %w", l.signal, err)
	}
	l.logger.Info("telemetry provider stopped", zap.String("signal", l.signal))
	return nil
}

func (l *lifecycle) started(cfg ExporterConfig, fields ...zap.Field) {
	l.logger.Info("telemetry provider started", append([]zap.Field{
		zap.String("signal", l.signal),
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.String("service_name", cfg.ServiceName),
	}, fields...)...)
}

func (l *lifecycle) disabled() {
	l.logger.Info("telemetry signal disabled", zap.String("signal", l.signal))
}

func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build otel resource: %w", err)
	}
	return res, nil
}
