// Package seq wraps a target with sequential hooks: every before hook runs
// to completion, then the target, then every after hook. Hooks see the
// call's arguments and cannot stop the sequence except by failing.
//
// Key operations:
// - Build: before hooks, target, after hooks
// - New/Before/After/Wrap: the same, built fluently
// - On/OnAsync: attach hooks to one side of a target (hook.Before or hook.After)
package seq
