package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aussiebroadwan/sessiongate/internal/auth/service"

// Span attribute keys. Never attach token values, only identifiers.
const (
	attrUserID    = "session.user_id"
	attrClientID  = "session.client_id"
	attrDeviceID  = "session.device_id"
	attrOperation = "session.operation"
	attrOutcome   = "session.outcome"
	attrSessions  = "revocation.sessions"
	attrTokens    = "revocation.tokens"
	attrFailures  = "revocation.token_failures"
)

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan records err on the span (if any) and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
