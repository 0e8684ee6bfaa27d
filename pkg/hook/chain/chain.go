package chain

import (
	"context"

	"github.com/ib-77/fnhook/pkg/hook"
	"github.com/ib-77/fnhook/pkg/hook/core"
)

// Chain collects the hooks of a middleware pipeline around one target.
// Every method returns a new Chain, so a partially built chain can be reused.
type Chain[A, R any] struct {
	before []hook.Middleware[A]
	target hook.Target[A, R]
	after  []hook.Middleware[A]
}

// New starts a chain around target.
func New[A, R any](target hook.Target[A, R]) *Chain[A, R] {
	return &Chain[A, R]{target: target}
}

// NewAsync starts a chain around a target that delivers its result later.
func NewAsync[A, R any](target hook.AsyncTarget[A, R]) *Chain[A, R] {
	return New(hook.AwaitTarget(target))
}

// Before appends hooks that run ahead of the target.
func (c *Chain[A, R]) Before(hooks ...hook.Middleware[A]) *Chain[A, R] {
	return &Chain[A, R]{
		before: append(clone(c.before), hooks...),
		target: c.target,
		after:  clone(c.after),
	}
}

// After appends hooks that run once the target returned.
func (c *Chain[A, R]) After(hooks ...hook.Middleware[A]) *Chain[A, R] {
	return &Chain[A, R]{
		before: clone(c.before),
		target: c.target,
		after:  append(clone(c.after), hooks...),
	}
}

// BeforeAsync appends asynchronous hooks ahead of the target.
func (c *Chain[A, R]) BeforeAsync(hooks ...hook.AsyncMiddleware[A]) *Chain[A, R] {
	return c.Before(awaitAll(hooks)...)
}

// AfterAsync appends asynchronous hooks behind the target.
func (c *Chain[A, R]) AfterAsync(hooks ...hook.AsyncMiddleware[A]) *Chain[A, R] {
	return c.After(awaitAll(hooks)...)
}

// Wrap builds the callable.
func (c *Chain[A, R]) Wrap() hook.Wrapped[A, R] {
	return Build(c.before, c.after, c.target)
}

// Build returns a callable that runs before, then target, then after as one
// pipeline driven by continuations. Each hook must call next to let the
// pipeline go on; a hook that returns without calling it stops the call.
// The target is called without a continuation and always continues into the
// after hooks once it succeeds.
//
// Nil hooks are skipped. Build panics if target is nil.
func Build[A, R any](before, after []hook.Middleware[A], target hook.Target[A, R]) hook.Wrapped[A, R] {
	p := newPipeline(before, after, target)

	return func(ctx context.Context, args ...A) hook.Result[R] {
		return p.run(ctx, args)
	}
}

func clone[T any](s []T) []T {
	return append([]T(nil), s...)
}

func awaitAll[A any](hooks []hook.AsyncMiddleware[A]) []hook.Middleware[A] {
	out := make([]hook.Middleware[A], 0, len(hooks))
	for _, h := range hooks {
		out = append(out, hook.AwaitMiddleware(h))
	}
	return out
}

// Pass is the identity hook: it forwards args unchanged.
// It is handy as a placeholder in hook lists.
func Pass[A any](_ context.Context, next hook.Next[A], _ ...A) error {
	return next()
}

// Guard builds a hook that continues only when allow returns true. When it
// returns false the call stops and the wrapped function yields an empty
// result.
func Guard[A any](allow func(ctx context.Context, args ...A) bool) hook.Middleware[A] {
	return func(ctx context.Context, next hook.Next[A], args ...A) error {
		if !allow(ctx, args...) {
			core.Logger(ctx).DebugContext(ctx, "guard stopped the chain")
			return nil
		}
		return next()
	}
}

// Rewrite builds a hook that replaces the arguments seen downstream.
func Rewrite[A any](rewrite func(ctx context.Context, args ...A) ([]A, error)) hook.Middleware[A] {
	return func(ctx context.Context, next hook.Next[A], args ...A) error {
		out, err := rewrite(ctx, args...)
		if err != nil {
			return err
		}
		return next(out...)
	}
}
