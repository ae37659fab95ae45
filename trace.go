// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package httptyped

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope name of the default tracer.
const tracerName = "github.com/luxfi/httptyped"

// spanName is the name of the span wrapping each exchange.
const spanName = "httptyped.send"

func (s *shared) startSpan(ctx context.Context, c call) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, spanName,
		trace.WithAttributes(
			attribute.String("http.request.method", string(c.method)),
			attribute.String("url.full", c.url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func recordStatus(span trace.Span, status int) {
	span.SetAttributes(attribute.Int("http.response.status_code", status))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		if e, ok := err.(*Error); ok {
			span.SetAttributes(attribute.String("httptyped.error.kind", e.Kind.String()))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
