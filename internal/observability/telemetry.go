package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "ghmcp/server"

var (
	counterOnce sync.Once
	toolCalls   metric.Int64Counter
)

// StartSpan starts a span for one MCP invocation. The global tracer
// provider is a no-op unless the host installs an SDK.
func StartSpan(ctx context.Context, name, module, target string) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("mcp.module", module),
			attribute.String("mcp.target", target),
		),
	)
}

// EndSpan marks span as failed when errMsg is non-empty. The caller still
// ends the span.
func EndSpan(span trace.Span, errMsg string) {
	if errMsg == "" {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.SetStatus(codes.Error, errMsg)
}

func recordToolCall(ctx context.Context, module, tool, status string) {
	counterOnce.Do(func() {
		c, err := otel.Meter(instrumentationName).Int64Counter("mcp.tool.calls",
			metric.WithDescription("Number of MCP tool invocations"),
		)
		if err != nil {
			otel.Handle(err)
			return
		}
		toolCalls = c
	})
	if toolCalls == nil {
		return
	}
	toolCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mcp.module", module),
		attribute.String("mcp.tool", tool),
		attribute.String("status", status),
	))
}
