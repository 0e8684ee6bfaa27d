// Package chain runs hooks and a target as one middleware pipeline.
//
// The pipeline is the before hooks, the target, then the after hooks. Each
// hook receives a continuation (next) as its second argument and decides
// whether the pipeline goes on:
//
//	audit := func(ctx context.Context, next hook.Next[int], args ...int) error {
//		log.Println("calling with", args)
//		return next()
//	}
//
// Calling next(x, y) replaces the arguments every later step sees. Returning
// without calling next stops the call; the wrapped function then yields the
// empty result if the target had not run yet. The target itself is called
// without a continuation and always continues into the after hooks.
//
// Each continuation works once. A second call is ignored, or fails with
// hook.ErrNextCalledTwice when core.WithStrictNext is set on the context.
//
// Key operations:
// - Build: before hooks, target, after hooks
// - New/NewAsync/Before/After/Wrap: the same, built fluently
// - Pass/Guard/Rewrite: small ready-made hooks
package chain
