package tracing

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

// NewProvider builds a tracer provider exporting to endpoint: empty discards
// spans, StdoutEndpoint prints them, anything else is an OTLP/HTTP collector
// address. The returned function flushes and stops the provider.
func NewProvider(endpoint, name string) (*trace.TracerProvider, func(), error) {
	ctx := context.Background()
	exp, err := newExporter(ctx, endpoint)
	if err != nil {
		return nil, nil, errors.Wrap(err, "creating trace exporter")
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(newResource(name)),
	)

	shutdown := func() {
		tp.ForceFlush(ctx)
		tp.Shutdown(ctx)
	}

	return tp, shutdown, nil
}

func newResource(name string) *resource.Resource {
	return resource.NewSchemaless(attribute.String("service.name", name))
}
