package chain

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ib-77/fnhook/pkg/hook"
	"github.com/ib-77/fnhook/pkg/hook/core"
)

type step[A, R any] struct {
	kind   core.StepKind
	name   string
	hook   hook.Middleware[A]
	target hook.Target[A, R]
}

// pipeline is the immutable step list shared by every call of one wrapped
// function. Per-call state lives in invocation.
type pipeline[A, R any] struct {
	steps []step[A, R]
}

func newPipeline[A, R any](before, after []hook.Middleware[A], target hook.Target[A, R]) *pipeline[A, R] {
	if target == nil {
		panic(hook.ErrNilTarget)
	}

	steps := make([]step[A, R], 0, len(before)+len(after)+1)
	for _, h := range before {
		if h != nil {
			steps = append(steps, step[A, R]{kind: core.HookStep, name: core.FuncName(h), hook: h})
		}
	}
	steps = append(steps, step[A, R]{kind: core.TargetStep, name: core.FuncName(target), target: target})
	for _, h := range after {
		if h != nil {
			steps = append(steps, step[A, R]{kind: core.HookStep, name: core.FuncName(h), hook: h})
		}
	}

	return &pipeline[A, R]{steps: steps}
}

func (p *pipeline[A, R]) run(ctx context.Context, args []A) hook.Result[R] {
	inv := &invocation[A, R]{
		ctx:     ctx,
		steps:   p.steps,
		tracker: core.Track(ctx),
		strict:  core.IsStrictNextEnabled(ctx, false),
		cursor:  -1,
	}
	return inv.run(args)
}

// invocation is the state of one call: cursor, result slot and the first
// failure. It is only touched through its methods.
type invocation[A, R any] struct {
	ctx     context.Context
	steps   []step[A, R]
	tracker *core.Tracker
	strict  bool

	mu     sync.Mutex
	cursor int
	value  R
	ran    bool
	err    error
	sealed bool
}

func (inv *invocation[A, R]) run(args []A) hook.Result[R] {
	_ = inv.dispatch(0, args)

	inv.mu.Lock()
	inv.sealed = true
	res := inv.settle()
	cursor := inv.cursor
	inv.mu.Unlock()

	if res.IsEmpty() {
		core.Logger(inv.ctx).DebugContext(inv.ctx, "chain stopped before the target",
			"invocation_id", inv.tracker.Id().String(),
			"position", cursor)
	}
	inv.tracker.Done(res.Err())

	return res.WithId(inv.tracker.Id())
}

func (inv *invocation[A, R]) settle() hook.Result[R] {
	switch {
	case inv.err != nil:
		return hook.FromError[R](inv.err)
	case inv.ran:
		return hook.Success(inv.value)
	default:
		return hook.Result[R]{}
	}
}

// enter moves the cursor to pos. It refuses when the call already failed,
// was cancelled, or has settled.
func (inv *invocation[A, R]) enter(pos int) (bool, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if inv.sealed {
		return false, nil
	}
	if inv.err != nil {
		return false, inv.err
	}
	if err := inv.ctx.Err(); err != nil {
		inv.err = err
		return false, err
	}
	if pos <= inv.cursor {
		return false, nil
	}
	inv.cursor = pos
	return true, nil
}

func (inv *invocation[A, R]) dispatch(pos int, args []A) error {
	ok, err := inv.enter(pos)
	if !ok {
		if err == nil && inv.isSealed() {
			inv.tracker.Step(core.NextIgnored, pos, inv.steps[pos].name, inv.steps[pos].kind, nil)
		}
		return err
	}

	st := inv.steps[pos]
	inv.tracker.Step(core.StepStarted, pos, st.name, st.kind, nil)

	if st.kind == core.TargetStep {
		var out R
		err = core.Protect(st.name, func() error {
			var err error
			out, err = st.target(inv.ctx, args...)
			return err
		})
		if err != nil {
			return inv.fail(pos, err)
		}
		inv.store(out)
		inv.tracker.Step(core.StepFinished, pos, st.name, st.kind, nil)

		// the target never declines, so the after hooks follow with the
		// same arguments
		return inv.advance(pos, args)
	}

	next := inv.continuation(pos, args)
	err = core.Protect(st.name, func() error {
		return st.hook(inv.ctx, next, args...)
	})
	if err != nil {
		return inv.fail(pos, err)
	}
	inv.tracker.Step(core.StepFinished, pos, st.name, st.kind, nil)
	return inv.failure()
}

// advance dispatches the step after pos. At the last position it does
// nothing.
func (inv *invocation[A, R]) advance(pos int, args []A) error {
	if pos >= len(inv.steps)-1 {
		return nil
	}
	return inv.dispatch(pos+1, args)
}

// continuation returns the single-use next for the hook at pos.
func (inv *invocation[A, R]) continuation(pos int, args []A) hook.Next[A] {
	var used atomic.Bool

	return func(override ...A) error {
		if !used.CompareAndSwap(false, true) {
			st := inv.steps[pos]
			inv.tracker.Step(core.NextIgnored, pos, st.name, st.kind, hook.ErrNextCalledTwice)
			if inv.strict {
				return hook.ErrNextCalledTwice
			}
			return nil
		}

		forward := args
		if len(override) > 0 {
			forward = override
		}
		return inv.advance(pos, forward)
	}
}

func (inv *invocation[A, R]) store(v R) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if inv.sealed || inv.ran {
		return
	}
	inv.value = v
	inv.ran = true
}

// fail records err as the call's failure unless an earlier failure exists,
// and returns the failure that wins.
func (inv *invocation[A, R]) fail(pos int, err error) error {
	inv.mu.Lock()
	first := inv.err == nil && !inv.sealed
	if first {
		inv.err = err
	}
	winner := inv.err
	inv.mu.Unlock()

	st := inv.steps[pos]
	if first {
		inv.tracker.Step(core.StepFailed, pos, st.name, st.kind, err)
	} else {
		inv.tracker.Step(core.StepFinished, pos, st.name, st.kind, nil)
	}
	if winner == nil {
		return err
	}
	return winner
}

func (inv *invocation[A, R]) failure() error {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.err
}

func (inv *invocation[A, R]) isSealed() bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.sealed
}
