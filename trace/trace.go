// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/trace/noop"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	tracerExportTimeout = 10 * time.Second
	// Longer than [tracerExportTimeout] so in-flight exports finish first.
	tracerProviderShutdownTimeout = 15 * time.Second

	defaultEndpoint = "http://localhost:9411/api/v2/spans"
)

type Config struct {
	Enabled bool `json:"enabled"`

	// The fraction of traces to sample.
	// If >= 1 always samples.
	// If <= 0 never samples.
	TraceSampleRate float64 `json:"traceSampleRate"`

	// Endpoint is the zipkin collector URL.
	Endpoint string `json:"endpoint"`

	AppName string `json:"appName"`
	Agent   string `json:"agent"`
	Version string `json:"version"`
}

var (
	_ trace.Tracer = unmanaged{}
	_ trace.Tracer = (*tracer)(nil)
)

// unmanaged adapts an otel tracer whose provider needs no shutdown.
type unmanaged struct {
	oteltrace.Tracer
}

func (unmanaged) Close() error { return nil }

// tracer owns the provider that exports its spans.
type tracer struct {
	trace.Tracer

	tp *sdktrace.TracerProvider
}

func (t *tracer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), tracerProviderShutdownTimeout)
	defer cancel()
	return t.tp.Shutdown(ctx)
}

// Noop returns a tracer that records nothing.
func Noop() trace.Tracer {
	return unmanaged{Tracer: noop.NewTracerProvider().Tracer("")}
}

func New(config *Config) (trace.Tracer, error) {
	if !config.Enabled {
		return unmanaged{Tracer: noop.NewTracerProvider().Tracer(config.AppName)}, nil
	}

	endpoint := config.Endpoint
	if len(endpoint) == 0 {
		endpoint = defaultEndpoint
	}
	exporter, err := zipkin.New(endpoint)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithExportTimeout(tracerExportTimeout)),
		sdktrace.WithResource(
			resource.NewWithAttributes(
				semconv.SchemaURL,
				attribute.String("version", config.Version),
				semconv.ServiceNameKey.String(config.Agent),
			),
		),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.TraceSampleRate)),
	)
	return &tracer{
		Tracer: unmanaged{Tracer: tracerProvider.Tracer(config.AppName)},
		tp:     tracerProvider,
	}, nil
}
