package tracing

import (
	"context"
	"io"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"
)

// StdoutEndpoint selects the pretty printing exporter. Spans are printed to
// stderr because stdout carries the generated bridge.
const StdoutEndpoint = "stdout"

func newExporter(ctx context.Context, endpoint string) (trace.SpanExporter, error) {
	switch endpoint {
	case "":
		return newNoopExporter()
	case StdoutEndpoint:
		return newStdoutExporter()
	}
	client := otlptracehttp.NewClient(
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	return otlptrace.New(ctx, client)
}

func newStdoutExporter() (trace.SpanExporter, error) {
	return stdouttrace.New(stdouttrace.WithPrettyPrint(), stdouttrace.WithWriter(os.Stderr))
}

func newNoopExporter() (trace.SpanExporter, error) {
	return stdouttrace.New(stdouttrace.WithWriter(io.Discard))
}
