package tracing

import (
	"context"
	"fmt"

	"ui-harness/pkg/apperr"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Span attribute keys shared by every harness component.
const (
	AttrOperation = "ui.operation"
	AttrLocator   = "ui.locator"
	AttrURL       = "ui.url"
	AttrScenario  = "ui.scenario"
	AttrErrorCode = "ui.error_code"
)

type Span struct {
	span   trace.Span
	logger *zap.Logger
}

// StartSpan opens a span named after the operation and tags it with AttrOperation.
func StartSpan(ctx context.Context, tracer trace.Tracer, logger *zap.Logger, name string, attrs ...attribute.KeyValue) (context.Context, *Span) {
	attrs = append([]attribute.KeyValue{attribute.String(AttrOperation, name)}, attrs...)

	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))

	return ctx, &Span{
		span:   span,
		logger: logger,
	}
}

func Locator(loc fmt.Stringer) attribute.KeyValue {
	return attribute.String(AttrLocator, loc.String())
}

func URL(url string) attribute.KeyValue {
	return attribute.String(AttrURL, url)
}

func Scenario(name string) attribute.KeyValue {
	return attribute.String(AttrScenario, name)
}

// End records err on the span, if any, and closes it. Harness errors also
// carry their code as AttrErrorCode.
func (s *Span) End(err error) {
	if err != nil {
		if code := apperr.CodeOf(err); code != "" {
			s.span.SetAttributes(attribute.String(AttrErrorCode, code))
		}

		s.span.SetStatus(codes.Error, err.Error())
		s.span.RecordError(err)
		s.logger.Debug("Span finished with error", zap.Error(err))
	} else {
		s.span.SetStatus(codes.Ok, "")
	}

	s.span.End()
}

func (s *Span) AddEvent(name string, attrs ...attribute.KeyValue) {
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

func (s *Span) SetAttributes(attrs ...attribute.KeyValue) {
	s.span.SetAttributes(attrs...)
}
