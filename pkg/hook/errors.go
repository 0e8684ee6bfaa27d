package hook

import (
	"fmt"
	"strings"
)

// Common hook errors.
var (
	// ErrNextCalledTwice is returned by a continuation invoked a second time
	// from the same step when strict mode is on.
	ErrNextCalledTwice = fmt.Errorf("continuation already called for this step")

	// ErrNilTarget is the panic value used when a builder gets a nil target.
	ErrNilTarget = fmt.Errorf("target function cannot be nil")

	// ErrUnsupportedEvent is returned when an event name is not BEFORE or AFTER.
	ErrUnsupportedEvent = fmt.Errorf("unsupported hook event")
)

// Event selects on which side of the target a group of hooks runs.
type Event string

const (
	Before Event = "BEFORE"
	After  Event = "AFTER"
)

// ParseEvent accepts "before" and "after" in any case.
func ParseEvent(s string) (Event, error) {
	switch Event(strings.ToUpper(strings.TrimSpace(s))) {
	case Before:
		return Before, nil
	case After:
		return After, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedEvent, s)
}
