package elderberry

import (
	"errors"
	"fmt"
)

// MisuseError signals that the caller invoked an operation that is
// structurally unsupported, as opposed to passing bad data.
//
// It is never returned. Misuse panics with a *MisuseError so the
// condition surfaces immediately during development; it must never be
// reachable from untrusted input.
type MisuseError struct {
	Op     string
	Reason string
}

func (e *MisuseError) Error() string {
	return fmt.Sprintf("%s: misuse of %s: %s", LibName, e.Op, e.Reason)
}

// NewMisuseError creates a new MisuseError.
func NewMisuseError(op, reason string) *MisuseError {
	return &MisuseError{Op: op, Reason: reason}
}

// Misuse panics with a *MisuseError for the given operation.
func Misuse(op, reason string) {
	panic(NewMisuseError(op, reason))
}

// IsMisuse checks whether an error (or a recovered panic value that
// is an error) is a MisuseError and returns it.
func IsMisuse(err error) (*MisuseError, bool) {
	var m *MisuseError
	if errors.As(err, &m) {
		return m, true
	}
	return nil, false
}

// RecoverMisuse converts a recovered panic value into a MisuseError.
// Panics that are not misuse are re-raised.
//
//	defer func() { err = elderberry.RecoverMisuse(recover()) }()
func RecoverMisuse(r any) error {
	if r == nil {
		return nil
	}
	if err, ok := r.(error); ok {
		if m, ok := IsMisuse(err); ok {
			return m
		}
	}
	panic(r)
}
