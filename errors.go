package nexttag

import (
	"fmt"
	"strings"
)

// InvalidVersionError is returned when a string cannot be classified by any
// version pattern family, or fails numeric/format validation.
type InvalidVersionError struct {
	Input string
	Hints []string
}

func (e *InvalidVersionError) Error() string {
	msg := fmt.Sprintf("invalid version format: %q", e.Input)
	if len(e.Hints) > 0 {
		msg += " (" + strings.Join(e.Hints, "; ") + ")"
	}
	return msg
}

// TagNotFoundError is returned when a namespace-scoped query that expected
// matches yields none.
type TagNotFoundError struct {
	Module  string
	Pattern string
}

func (e *TagNotFoundError) Error() string {
	switch {
	case e.Module != "":
		return fmt.Sprintf("no tags found for module %q", e.Module)
	case e.Pattern != "":
		return fmt.Sprintf("no tags found matching pattern %q", e.Pattern)
	default:
		return "no suitable tags found in repository"
	}
}

// GitOperationError is returned when an external git operation times out or
// exits non-zero. Stderr and ExitCode are populated by the exec-based client;
// TimedOut distinguishes the timeout condition.
type GitOperationError struct {
	Op       string
	Stderr   string
	ExitCode int
	TimedOut bool
	Err      error
}

func (e *GitOperationError) Error() string {
	msg := fmt.Sprintf("git operation failed: %s", e.Op)
	if e.TimedOut {
		return msg + ": timed out"
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf(": %s (exit code %d)", strings.TrimSpace(e.Stderr), e.ExitCode)
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GitOperationError) Unwrap() error { return e.Err }

// ValidationError is returned when an input value violates a naming or path
// rule.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s %q: %s", e.Field, e.Value, e.Reason)
}

// ConfigError is returned for bad configuration keys or values, including
// mutually exclusive CLI options.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error for %q: %s", e.Key, e.Reason)
}
