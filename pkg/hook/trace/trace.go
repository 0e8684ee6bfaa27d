// Package trace reports wrapped calls to OpenTelemetry. Wrap opens one span
// per call; Observer turns the step events of that call into span events.
package trace

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ib-77/fnhook/pkg/hook"
	"github.com/ib-77/fnhook/pkg/hook/core"
)

const instrumentationName = "github.com/ib-77/fnhook"

// Tracer returns the tracer of the global provider.
func Tracer() oteltrace.Tracer {
	return otel.Tracer(instrumentationName)
}

// Wrap runs w inside a span called name and adds Observer to the context so
// every step shows up as a span event. An observer already in the context
// keeps receiving events.
func Wrap[A, R any](tracer oteltrace.Tracer, name string, w hook.Wrapped[A, R]) hook.Wrapped[A, R] {
	if tracer == nil {
		tracer = Tracer()
	}
	return func(ctx context.Context, args ...A) hook.Result[R] {
		ctx, span := tracer.Start(ctx, name)
		defer span.End()

		observers := core.Observers{core.GetObserver(ctx), Observer{}}
		res := w(core.WithObserver(ctx, observers), args...)

		span.SetAttributes(attribute.String("fnhook.invocation_id", res.Id().String()))
		switch {
		case res.IsCancel():
			span.SetAttributes(attribute.String("fnhook.outcome", "cancel"))
			span.SetStatus(codes.Error, res.Err().Error())
		case res.IsFailure():
			span.SetAttributes(attribute.String("fnhook.outcome", "fail"))
			span.RecordError(res.Err())
			span.SetStatus(codes.Error, res.Err().Error())
		case res.IsEmpty():
			span.SetAttributes(attribute.String("fnhook.outcome", "empty"))
		default:
			span.SetAttributes(attribute.String("fnhook.outcome", "success"))
		}
		return res
	}
}

// Observer adds an event to the span found in the context for every step.
type Observer struct{}

func (Observer) Observe(ctx context.Context, ev core.Event) {
	span := oteltrace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("fnhook.invocation_id", ev.Invocation.String()),
	}
	if ev.Position >= 0 {
		attrs = append(attrs,
			attribute.Int("fnhook.position", ev.Position),
			attribute.String("fnhook.step", ev.Step),
			attribute.String("fnhook.step_kind", string(ev.StepKind)))
	}
	if ev.Err != nil {
		attrs = append(attrs, attribute.String("fnhook.error", ev.Err.Error()))
	}
	span.AddEvent(string(ev.Kind), oteltrace.WithAttributes(attrs...))
}
