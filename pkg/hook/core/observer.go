//go:generate mockgen -destination=./mocks/observer.go . Observer

package core

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// EventKind identifies a point in the life of one wrapped call.
type EventKind string

const (
	InvocationStarted  EventKind = "invocation-started"
	StepStarted        EventKind = "step-started"
	StepFinished       EventKind = "step-finished"
	StepFailed         EventKind = "step-failed"
	NextIgnored        EventKind = "next-ignored"
	InvocationFinished EventKind = "invocation-finished"
)

// StepKind tells hooks and the target apart.
type StepKind string

const (
	HookStep   StepKind = "hook"
	TargetStep StepKind = "target"
)

// Event describes one lifecycle point. Position is -1 for invocation events.
type Event struct {
	Invocation uuid.UUID
	Kind       EventKind
	Position   int
	Step       string
	StepKind   StepKind
	Err        error
}

// Observer receives lifecycle events of wrapped calls.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev Event)

func (f ObserverFunc) Observe(ctx context.Context, ev Event) {
	f(ctx, ev)
}

// Observers fans every event out to each observer in order.
type Observers []Observer

func (o Observers) Observe(ctx context.Context, ev Event) {
	for _, observer := range o {
		if observer != nil {
			observer.Observe(ctx, ev)
		}
	}
}

type nopObserver struct{}

func (nopObserver) Observe(context.Context, Event) {}

// Emit logs ev and forwards it to the observer found in ctx.
func Emit(ctx context.Context, ev Event) {
	logEvent(ctx, ev)
	GetObserver(ctx).Observe(ctx, ev)
}

func logEvent(ctx context.Context, ev Event) {
	attrs := []slog.Attr{
		slog.String("invocation_id", ev.Invocation.String()),
	}
	if ev.Position >= 0 {
		attrs = append(attrs,
			slog.Int("position", ev.Position),
			slog.String("step", ev.Step),
			slog.String("kind", string(ev.StepKind)))
	}
	level := slog.LevelDebug
	if ev.Err != nil {
		attrs = append(attrs, slog.String("error", ev.Err.Error()))
	}
	if ev.Kind == NextIgnored {
		level = slog.LevelWarn
	}
	Logger(ctx).LogAttrs(ctx, level, string(ev.Kind), attrs...)
}
