package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff   Level = iota // no tracing
	LevelError              // failures only
	LevelInfo               // command and report milestones
	LevelDebug              // everything including per-file events
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "off":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|info|debug)", s)
	}
}

// ShouldEmit returns true if span events of the given scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelInfo:
		return scope <= ScopeReport
	case LevelDebug:
		return true
	}
	return false
}

// Allows reports whether ev passes this level. Points carry their own
// level; spans are filtered by scope.
func (l Level) Allows(ev *Event) bool {
	if ev == nil || l == LevelOff {
		return false
	}
	if ev.Kind == KindPoint && ev.Level != LevelOff {
		return ev.Level <= l
	}
	return l.ShouldEmit(ev.Scope)
}
