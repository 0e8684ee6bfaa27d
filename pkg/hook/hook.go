package hook

import "context"

// Target is the function being intercepted. It knows nothing about hooks.
type Target[A, R any] func(ctx context.Context, args ...A) (R, error)

// AsyncTarget is a target that delivers its result later.
type AsyncTarget[A, R any] func(ctx context.Context, args ...A) <-chan Result[R]

// Func is a sequential hook. It runs to completion and cannot change the
// control flow other than by failing.
type Func[A any] func(ctx context.Context, args ...A) error

// AsyncFunc is a sequential hook that signals completion on the returned
// channel. A closed channel without a value means success.
type AsyncFunc[A any] func(ctx context.Context, args ...A) <-chan error

// Next advances a middleware chain to its next step. Passing args replaces
// the arguments handed downstream; passing none forwards the current ones.
// It returns the first failure recorded further down the chain.
type Next[A any] func(args ...A) error

// Middleware is a hook taking part in a chain. Returning without calling
// next stops the chain.
type Middleware[A any] func(ctx context.Context, next Next[A], args ...A) error

// AsyncMiddleware is a Middleware that signals completion on the returned
// channel.
type AsyncMiddleware[A any] func(ctx context.Context, next Next[A], args ...A) <-chan error

// Wrapped is the callable produced by the chain and seq builders.
type Wrapped[A, R any] func(ctx context.Context, args ...A) Result[R]

// Call runs w and unwraps its result.
func (w Wrapped[A, R]) Call(ctx context.Context, args ...A) (R, error) {
	return w(ctx, args...).Unwrap()
}

// Go runs w on its own goroutine. The channel yields exactly one Result and
// is then closed.
func (w Wrapped[A, R]) Go(ctx context.Context, args ...A) <-chan Result[R] {
	out := make(chan Result[R], 1)
	go func() {
		defer close(out)
		out <- w(ctx, args...)
	}()
	return out
}
