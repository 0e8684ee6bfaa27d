package core

import (
	"context"

	"github.com/google/uuid"
)

// Tracker emits the lifecycle events of one invocation under a single id.
type Tracker struct {
	ctx context.Context
	id  uuid.UUID
}

// Track starts a new invocation and emits InvocationStarted.
func Track(ctx context.Context) *Tracker {
	t := &Tracker{ctx: ctx, id: uuid.New()}
	Emit(ctx, Event{Invocation: t.id, Kind: InvocationStarted, Position: -1})
	return t
}

func (t *Tracker) Id() uuid.UUID {
	return t.id
}

func (t *Tracker) Step(kind EventKind, pos int, name string, stepKind StepKind, err error) {
	Emit(t.ctx, Event{
		Invocation: t.id,
		Kind:       kind,
		Position:   pos,
		Step:       name,
		StepKind:   stepKind,
		Err:        err,
	})
}

// Done emits InvocationFinished carrying the final error, if any.
func (t *Tracker) Done(err error) {
	Emit(t.ctx, Event{Invocation: t.id, Kind: InvocationFinished, Position: -1, Err: err})
}

// Run executes fn as the step at pos, emitting StepStarted and then
// StepFinished or StepFailed. Panics come back as ErrStepPanic errors.
func (t *Tracker) Run(pos int, name string, stepKind StepKind, fn func() error) error {
	t.Step(StepStarted, pos, name, stepKind, nil)
	if err := Protect(name, fn); err != nil {
		t.Step(StepFailed, pos, name, stepKind, err)
		return err
	}
	t.Step(StepFinished, pos, name, stepKind, nil)
	return nil
}
