// Package hook holds the types shared by every interception style: the
// target and hook function types, the continuation, the wrapped callable and
// the Result it returns.
//
// Result[T] is either a success with a value, a failure, a cancellation, or
// empty (the target never ran). Asynchronous targets and hooks are adapted
// with AwaitTarget, AwaitFunc and AwaitMiddleware; Wrapped.Go gives the
// deferred form of any wrapped call.
package hook
