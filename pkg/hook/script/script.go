// Package script builds hooks and targets from Tengo scripts, so a pipeline
// can be assembled from configuration instead of Go code.
//
// Every script sees the call's arguments as the array `args`. Middleware
// scripts also get the function `next`; calling next(x, y) continues the
// chain with new arguments and not calling it stops the chain. A target
// script returns its value in the variable `result`. Any script fails the
// call by setting `err` to an error or a non-empty string.
package script

import (
	"context"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/ib-77/fnhook/pkg/hook"
)

// Common script errors.
var (
	// ErrCompile is returned when a script does not compile.
	ErrCompile = fmt.Errorf("failed to compile hook script")

	// ErrExecution is returned when a script fails at runtime.
	ErrExecution = fmt.Errorf("error executing hook script")

	// ErrScript is returned when a script reports an error through `err`.
	ErrScript = fmt.Errorf("hook script error")
)

const (
	argsVar   = "args"
	nextVar   = "next"
	resultVar = "result"
	errVar    = "err"
)

var modules = stdlib.GetModuleMap("fmt", "math", "text", "times")

// Middleware compiles src into a chain hook.
func Middleware(src string) (hook.Middleware[any], error) {
	compiled, err := compile(src, true)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, next hook.Next[any], args ...any) error {
		c := compiled.Clone()
		if err := c.Set(nextVar, nextFunc(next)); err != nil {
			return fmt.Errorf("failed to add next to script: %w", err)
		}
		return execute(ctx, c, args)
	}, nil
}

// Func compiles src into a sequential hook.
func Func(src string) (hook.Func[any], error) {
	compiled, err := compile(src, false)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, args ...any) error {
		return execute(ctx, compiled.Clone(), args)
	}, nil
}

// Target compiles src into a target returning the script's `result`.
func Target(src string) (hook.Target[any, any], error) {
	compiled, err := compile(src, false)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, args ...any) (any, error) {
		c := compiled.Clone()
		if err := execute(ctx, c, args); err != nil {
			return nil, err
		}
		return c.Get(resultVar).Value(), nil
	}, nil
}

func compile(src string, withNext bool) (*tengo.Compiled, error) {
	s := tengo.NewScript([]byte(src))
	s.SetImports(modules)

	if err := s.Add(argsVar, []interface{}{}); err != nil {
		return nil, fmt.Errorf("failed to add args to script: %w", err)
	}
	if withNext {
		if err := s.Add(nextVar, nextFunc(nil)); err != nil {
			return nil, fmt.Errorf("failed to add next to script: %w", err)
		}
	}

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	return compiled, nil
}

func execute(ctx context.Context, c *tengo.Compiled, args []any) error {
	if err := c.Set(argsVar, toArray(args)); err != nil {
		return fmt.Errorf("failed to add args to script: %w", err)
	}

	if err := c.RunContext(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", ErrExecution, err)
	}

	if !c.IsDefined(errVar) {
		return nil
	}
	switch v := c.Get(errVar).Value().(type) {
	case error:
		return fmt.Errorf("%w: %w", ErrScript, v)
	case string:
		if v != "" {
			return fmt.Errorf("%w: %s", ErrScript, v)
		}
	}
	return nil
}

// nextFunc exposes next to scripts. A failure further down the chain comes
// back to the script as an error value.
func nextFunc(next hook.Next[any]) *tengo.UserFunction {
	return &tengo.UserFunction{
		Name: nextVar,
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			if next == nil {
				return tengo.UndefinedValue, nil
			}
			values := make([]any, 0, len(args))
			for _, a := range args {
				values = append(values, tengo.ToInterface(a))
			}
			if err := next(values...); err != nil {
				return &tengo.Error{Value: &tengo.String{Value: err.Error()}}, nil
			}
			return tengo.UndefinedValue, nil
		},
	}
}

// toArray keeps values tengo cannot represent as strings so a script still
// sees one element per argument.
func toArray(args []any) []interface{} {
	out := make([]interface{}, 0, len(args))
	for _, a := range args {
		if _, err := tengo.FromInterface(a); err != nil {
			out = append(out, fmt.Sprint(a))
			continue
		}
		out = append(out, a)
	}
	return out
}
