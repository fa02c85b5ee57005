package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

var apiTracer = otel.Tracer("petanque-league/internal/interfaces/httpapi")

// startHandlerSpan opens "httpapi.Handler.<op>" as a child of the otelhttp request span.
// Requests without one, such as /healthz, get a no-op span so ending it never touches the parent.
func startHandlerSpan(r *http.Request, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx := r.Context()
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, noop.Span{}
	}
	return apiTracer.Start(ctx, "httpapi.Handler."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(handlerAttributes(r, attrs)...),
	)
}

func handlerAttributes(r *http.Request, extra []attribute.KeyValue) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(extra)+1)
	if r.Pattern != "" {
		out = append(out, attribute.String("http.route", r.Pattern))
	}
	return append(out, extra...)
}
