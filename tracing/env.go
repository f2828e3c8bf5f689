package tracing

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// Exporter names understood by ProviderConfig.
const (
	ExporterNone     = "none"
	ExporterStdout   = "stdout"
	ExporterOTLPGRPC = "otlpgrpc"
	ExporterOTLPHTTP = "otlphttp"
)

// ErrUnknownExporter is returned when ProviderConfig.Exporter names an
// exporter that is not supported.
var ErrUnknownExporter = errors.New("unknown trace exporter")

// ProviderConfig describes a TracerProvider to build. It is normally
// loaded from the environment with LoadProviderConfig.
type ProviderConfig struct {
	// Exporter is one of "none", "stdout", "otlpgrpc" and "otlphttp".
	Exporter string `envconfig:"EXPORTER" default:"none"`
	// Endpoint is the host:port of the OTLP collector. Empty means the
	// exporter's default.
	Endpoint string `envconfig:"ENDPOINT"`
	// ServiceName is registered as the "service.name" resource attribute.
	ServiceName string `envconfig:"SERVICE_NAME" default:"deklarative-httptrace"`
	// Synchronous exports every span as it ends. Only for debugging.
	Synchronous bool `envconfig:"SYNCHRONOUS" default:"false"`
}

// LoadProviderConfig loads a ProviderConfig from environment variables
// named "<PREFIX>_EXPORTER", "<PREFIX>_ENDPOINT" and so on.
func LoadProviderConfig(prefix string) (*ProviderConfig, error) {
	var cfg ProviderConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load tracing config: %w", err)
	}
	return &cfg, nil
}

// Builder returns a *TracerProviderBuilder configured as described by c.
func (c *ProviderConfig) Builder(ctx context.Context) (*TracerProviderBuilder, error) {
	b := Provider()
	if len(c.ServiceName) != 0 {
		b = b.WithAttributes(semconv.ServiceNameKey.String(c.ServiceName))
	}
	if c.Synchronous {
		b = b.Synchronous()
	}

	switch c.Exporter {
	case "", ExporterNone:
		return b, nil
	case ExporterStdout:
		return b.WithStdoutExporter(stdouttrace.WithWriter(os.Stdout)), nil
	case ExporterOTLPGRPC:
		return b.WithInsecureOTelExporter(ctx, c.Endpoint), nil
	case ExporterOTLPHTTP:
		return b.WithInsecureOTelHTTPExporter(ctx, c.Endpoint), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExporter, c.Exporter)
	}
}

// ProviderFromEnv loads a ProviderConfig using LoadProviderConfig and
// builds the TracerProvider it describes.
func ProviderFromEnv(ctx context.Context, prefix string) (TracerProvider, error) {
	cfg, err := LoadProviderConfig(prefix)
	if err != nil {
		return nil, err
	}
	b, err := cfg.Builder(ctx)
	if err != nil {
		return nil, err
	}
	return b.Build()
}
