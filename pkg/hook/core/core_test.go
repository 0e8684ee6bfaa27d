package core

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func checkAuth(context.Context) error { return nil }

func TestFuncName(t *testing.T) {
	t.Parallel()

	closure := func() {}
	var nilFunc func()

	tests := []struct {
		name string
		fn   any
		want string
	}{
		{"top level", checkAuth, "check_auth"},
		{"closure", closure, "test_func_name"},
		{"method expression", (*Tracker).Id, "id"},
		{"nil", nil, "nil"},
		{"nil func", nilFunc, "unknown"},
		{"not a func", 42, "unknown"},
	}

	for _, tc := range tests {
		if got := FuncName(tc.fn); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestAwait(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ch := make(chan int, 1)
	ch <- 3
	if v, err := Await(ctx, ch); err != nil || v != 3 {
		t.Fatalf("expected 3, got %v, err=%v", v, err)
	}

	close(ch)
	if _, err := Await(ctx, ch); !errors.Is(err, ErrNoValue) {
		t.Fatalf("expected ErrNoValue for a closed channel, got %v", err)
	}

	if _, err := Await[int](ctx, nil); !errors.Is(err, ErrNoValue) {
		t.Fatalf("expected ErrNoValue for a nil channel, got %v", err)
	}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	if _, err := Await(cctx, make(chan int)); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestAwaitErr(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	done := make(chan error)
	close(done)
	if err := AwaitErr(ctx, done); err != nil {
		t.Fatalf("closed channel must mean success, got %v", err)
	}

	boom := errors.New("boom")
	failed := make(chan error, 1)
	failed <- boom
	if err := AwaitErr(ctx, failed); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestProtect(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	if err := Protect("ok", func() error { return nil }); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := Protect("plain", func() error { return boom }); err != boom {
		t.Fatalf("returned errors must pass through unchanged, got %v", err)
	}

	err := Protect("audit", func() error { panic("kaboom") })
	if !errors.Is(err, ErrStepPanic) || !strings.Contains(err.Error(), "audit") || !strings.Contains(err.Error(), "kaboom") {
		t.Fatalf("expected wrapped panic, got %v", err)
	}

	err = Protect("audit", func() error { panic(boom) })
	if !errors.Is(err, ErrStepPanic) || !errors.Is(err, boom) {
		t.Fatalf("expected panic error to stay reachable, got %v", err)
	}
}

func TestOptions_Defaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	if IsStrictNextEnabled(ctx, false) {
		t.Fatal("expected default strict=false")
	}
	if !IsStrictNextEnabled(ctx, true) {
		t.Fatal("expected default strict=true to be honoured")
	}
	if !IsStrictNextEnabled(WithStrictNext(ctx, true), false) {
		t.Fatal("expected strict from context")
	}
	if Logger(ctx) != slog.Default() {
		t.Fatal("expected slog.Default without a logger in context")
	}
	if _, ok := GetObserver(ctx).(nopObserver); !ok {
		t.Fatal("expected no-op observer without one in context")
	}
	if _, ok := GetObserver(WithObserver(ctx, nil)).(nopObserver); !ok {
		t.Fatal("expected no-op observer for a nil observer")
	}
}

func TestObservers_FanOut(t *testing.T) {
	t.Parallel()

	var first, second []EventKind
	obs := Observers{
		ObserverFunc(func(_ context.Context, ev Event) { first = append(first, ev.Kind) }),
		nil,
		ObserverFunc(func(_ context.Context, ev Event) { second = append(second, ev.Kind) }),
	}

	obs.Observe(context.Background(), Event{Kind: StepStarted})
	obs.Observe(context.Background(), Event{Kind: StepFinished})

	if len(first) != 2 || len(second) != 2 || first[1] != StepFinished || second[0] != StepStarted {
		t.Fatalf("expected both observers to see both events, got %v and %v", first, second)
	}
}

func TestTracker_RunAndLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var events []Event
	ctx := WithLogger(context.Background(), logger)
	ctx = WithObserver(ctx, ObserverFunc(func(_ context.Context, ev Event) { events = append(events, ev) }))

	tr := Track(ctx)
	boom := errors.New("boom")
	if err := tr.Run(0, "audit", HookStep, func() error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tr.Run(1, "save", TargetStep, func() error { return boom }); err != boom {
		t.Fatalf("expected boom, got %v", err)
	}
	tr.Step(NextIgnored, 0, "audit", HookStep, nil)
	tr.Done(boom)

	want := []EventKind{InvocationStarted, StepStarted, StepFinished, StepStarted, StepFailed, NextIgnored, InvocationFinished}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(events))
	}
	for i, ev := range events {
		if ev.Kind != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], ev.Kind)
		}
		if ev.Invocation != tr.Id() {
			t.Errorf("event %d: wrong invocation id", i)
		}
	}

	out := buf.String()
	for _, s := range []string{"invocation_id=" + tr.Id().String(), "step=save", "error=boom", "level=WARN msg=next-ignored"} {
		if !strings.Contains(out, s) {
			t.Errorf("expected log output to contain %q", s)
		}
	}
}
