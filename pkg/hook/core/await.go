package core

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoValue is returned when an asynchronous step closes its channel
	// without delivering a value that was required.
	ErrNoValue = errors.New("asynchronous step completed without a value")

	// ErrStepPanic wraps a panic raised inside a hook or a target.
	ErrStepPanic = errors.New("step panicked")
)

// Await blocks until ch yields a value, ch is closed, or ctx is done.
// A closed channel reports ErrNoValue.
func Await[T any](ctx context.Context, ch <-chan T) (T, error) {
	var zero T
	if ch == nil {
		return zero, ErrNoValue
	}

	select {
	case v, ok := <-ch:
		if !ok {
			return zero, ErrNoValue
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// AwaitErr waits for a completion channel. A closed channel without a value
// is a success.
func AwaitErr(ctx context.Context, ch <-chan error) error {
	err, waitErr := Await(ctx, ch)
	if errors.Is(waitErr, ErrNoValue) {
		return nil
	}
	if waitErr != nil {
		return waitErr
	}
	return err
}

// Protect calls fn and turns a panic into an error wrapping ErrStepPanic.
func Protect(step string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("%w: %s: %w", ErrStepPanic, step, e)
				return
			}
			err = fmt.Errorf("%w: %s: %v", ErrStepPanic, step, r)
		}
	}()
	return fn()
}
