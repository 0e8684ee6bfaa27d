package core

import (
	"context"
	"log/slog"
)

type OptionKey string

const (
	NextOptionKey     OptionKey = "next_options"
	LoggerOptionKey   OptionKey = "logger_options"
	ObserverOptionKey OptionKey = "observer_options"
)

type NextOptions struct {
	Strict bool
}

// WithStrictNext makes a second call to the same continuation fail with
// hook.ErrNextCalledTwice instead of being ignored.
func WithStrictNext(ctx context.Context, strict bool) context.Context {
	return context.WithValue(ctx, NextOptionKey, NextOptions{Strict: strict})
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, LoggerOptionKey, logger)
}

func WithObserver(ctx context.Context, observer Observer) context.Context {
	return context.WithValue(ctx, ObserverOptionKey, observer)
}

func IsStrictNextEnabled(ctx context.Context, defaultStrict bool) bool {
	options, ok := ctx.Value(NextOptionKey).(NextOptions)
	if ok {
		return options.Strict
	}
	return defaultStrict
}

// Logger returns the logger stored in ctx, or slog.Default.
func Logger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(LoggerOptionKey).(*slog.Logger)
	if ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// GetObserver returns the observer stored in ctx, or a no-op observer.
func GetObserver(ctx context.Context) Observer {
	observer, ok := ctx.Value(ObserverOptionKey).(Observer)
	if ok && observer != nil {
		return observer
	}
	return nopObserver{}
}
