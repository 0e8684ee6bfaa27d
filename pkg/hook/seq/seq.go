package seq

import (
	"context"
	"fmt"

	"github.com/ib-77/fnhook/pkg/hook"
	"github.com/ib-77/fnhook/pkg/hook/core"
)

type namedFunc[A any] struct {
	name string
	fn   hook.Func[A]
}

// Seq collects sequential hooks around one target.
type Seq[A, R any] struct {
	before []hook.Func[A]
	target hook.Target[A, R]
	after  []hook.Func[A]
}

// New starts a sequence around target.
func New[A, R any](target hook.Target[A, R]) *Seq[A, R] {
	return &Seq[A, R]{target: target}
}

// Before appends hooks that run ahead of the target.
func (s *Seq[A, R]) Before(hooks ...hook.Func[A]) *Seq[A, R] {
	return &Seq[A, R]{
		before: append(append([]hook.Func[A](nil), s.before...), hooks...),
		target: s.target,
		after:  append([]hook.Func[A](nil), s.after...),
	}
}

// After appends hooks that run once the target returned.
func (s *Seq[A, R]) After(hooks ...hook.Func[A]) *Seq[A, R] {
	return &Seq[A, R]{
		before: append([]hook.Func[A](nil), s.before...),
		target: s.target,
		after:  append(append([]hook.Func[A](nil), s.after...), hooks...),
	}
}

// Wrap builds the callable.
func (s *Seq[A, R]) Wrap() hook.Wrapped[A, R] {
	return Build(s.before, s.after, s.target)
}

// Build returns a callable that runs every before hook in order, then
// target, then every after hook, all with the call's arguments. Hooks cannot
// stop the sequence or change the arguments; the first error aborts the rest
// and becomes the call's result.
//
// Nil hooks are skipped. Build panics if target is nil.
func Build[A, R any](before, after []hook.Func[A], target hook.Target[A, R]) hook.Wrapped[A, R] {
	if target == nil {
		panic(hook.ErrNilTarget)
	}
	pre := named(before)
	post := named(after)
	targetName := core.FuncName(target)

	return func(ctx context.Context, args ...A) hook.Result[R] {
		tracker := core.Track(ctx)

		res := run(ctx, tracker, pre, post, targetName, target, args)

		tracker.Done(res.Err())
		return res.WithId(tracker.Id())
	}
}

// On attaches hooks to a single side of target, the way
// On(hook.Before, target, audit) runs audit ahead of every call.
func On[A, R any](event hook.Event, target hook.Target[A, R], hooks ...hook.Func[A]) hook.Wrapped[A, R] {
	switch event {
	case hook.Before:
		return Build(hooks, nil, target)
	case hook.After:
		return Build(nil, hooks, target)
	}
	panic(fmt.Errorf("%w: %q", hook.ErrUnsupportedEvent, string(event)))
}

// OnAsync is On for asynchronous hooks; each hook is awaited before the
// next one starts.
func OnAsync[A, R any](event hook.Event, target hook.AsyncTarget[A, R], hooks ...hook.AsyncFunc[A]) hook.Wrapped[A, R] {
	funcs := make([]hook.Func[A], 0, len(hooks))
	for _, h := range hooks {
		funcs = append(funcs, hook.AwaitFunc(h))
	}
	return On(event, hook.AwaitTarget(target), funcs...)
}

func run[A, R any](ctx context.Context, tracker *core.Tracker,
	pre, post []namedFunc[A], targetName string, target hook.Target[A, R], args []A) hook.Result[R] {

	pos := 0
	for _, h := range pre {
		if err := runHook(ctx, tracker, pos, h, args); err != nil {
			return hook.FromError[R](err)
		}
		pos++
	}

	if err := ctx.Err(); err != nil {
		return hook.Cancel[R](err)
	}
	var out R
	err := tracker.Run(pos, targetName, core.TargetStep, func() error {
		var err error
		out, err = target(ctx, args...)
		return err
	})
	if err != nil {
		return hook.FromError[R](err)
	}
	pos++

	for _, h := range post {
		if err := runHook(ctx, tracker, pos, h, args); err != nil {
			return hook.FromError[R](err)
		}
		pos++
	}

	return hook.Success(out)
}

func runHook[A any](ctx context.Context, tracker *core.Tracker, pos int, h namedFunc[A], args []A) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return tracker.Run(pos, h.name, core.HookStep, func() error {
		return h.fn(ctx, args...)
	})
}

func named[A any](hooks []hook.Func[A]) []namedFunc[A] {
	out := make([]namedFunc[A], 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			out = append(out, namedFunc[A]{name: core.FuncName(h), fn: h})
		}
	}
	return out
}
