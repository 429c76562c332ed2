package otel

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RecordError marks the span as failed and attaches err as an exception event.
func RecordError(err error, span trace.Span, attrs ...attribute.KeyValue) {
	if err == nil {
		return
	}
	span.RecordError(err, trace.WithStackTrace(true), trace.WithAttributes(attrs...))
	span.SetStatus(codes.Error, err.Error())
}
