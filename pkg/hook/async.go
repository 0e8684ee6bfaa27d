package hook

import (
	"context"

	"github.com/ib-77/fnhook/pkg/hook/core"
)

// AwaitTarget turns an AsyncTarget into a Target that blocks until the
// deferred result arrives or ctx is done.
func AwaitTarget[A, R any](t AsyncTarget[A, R]) Target[A, R] {
	if t == nil {
		return nil
	}
	return func(ctx context.Context, args ...A) (R, error) {
		res, err := core.Await(ctx, t(ctx, args...))
		if err != nil {
			var zero R
			return zero, err
		}
		if res.IsEmpty() {
			var zero R
			return zero, core.ErrNoValue
		}
		return res.Unwrap()
	}
}

// AwaitFunc turns an AsyncFunc into a Func.
func AwaitFunc[A any](h AsyncFunc[A]) Func[A] {
	if h == nil {
		return nil
	}
	return func(ctx context.Context, args ...A) error {
		return core.AwaitErr(ctx, h(ctx, args...))
	}
}

// AwaitMiddleware turns an AsyncMiddleware into a Middleware. The hook may
// call next from its own goroutine; the chain waits for the returned channel
// before it settles.
func AwaitMiddleware[A any](h AsyncMiddleware[A]) Middleware[A] {
	if h == nil {
		return nil
	}
	return func(ctx context.Context, next Next[A], args ...A) error {
		return core.AwaitErr(ctx, h(ctx, next, args...))
	}
}

// Lift adapts a sequential hook to a middleware that always continues with
// unchanged arguments.
func Lift[A any](h Func[A]) Middleware[A] {
	if h == nil {
		return nil
	}
	return func(ctx context.Context, next Next[A], args ...A) error {
		if err := h(ctx, args...); err != nil {
			return err
		}
		return next()
	}
}
