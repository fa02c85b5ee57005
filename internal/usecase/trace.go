package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

var usecaseTracer = otel.Tracer("petanque-league/internal/usecase")

// startServiceSpan opens "usecase.<service>.<method>" only under an existing trace.
// Cron and CLI cycles start without one and stay untraced.
func startServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, noop.Span{}
	}
	return usecaseTracer.Start(ctx, "usecase."+service+"."+method, trace.WithAttributes(attrs...))
}
