// Package strict implements the fixed binary layout used for
// commitments and wire forms: little-endian integers, fixed-width
// arrays and length-prefixed collections whose sizes are confined to
// the width of their prefix.
package strict

import (
	"errors"
	"fmt"
)

// Confinement bounds of the length prefixes.
const (
	TinyMax  = 0xFF
	SmallMax = 0xFFFF
)

// ErrDataIntegrity is wrapped by every error reporting malformed
// wire data.
var ErrDataIntegrity = errors.New("data integrity error")

// ErrUnexpectedEOF is returned when the input ends inside a value.
var ErrUnexpectedEOF = fmt.Errorf("%w: unexpected end of data", ErrDataIntegrity)

// TagError reports an enum tag that is not known for the named type.
type TagError struct {
	Type string
	Tag  uint8
}

func (e *TagError) Error() string {
	return fmt.Sprintf("unknown %s tag %#02x", e.Type, e.Tag)
}

func (e *TagError) Unwrap() error { return ErrDataIntegrity }

// ConfinementError reports a collection whose length exceeds the
// bound of its encoding.
type ConfinementError struct {
	What string
	Len  int
	Max  int
}

func (e *ConfinementError) Error() string {
	return fmt.Sprintf("%s has %d items, at most %d are allowed", e.What, e.Len, e.Max)
}

// IntegrityError creates a data-integrity error with a reason.
func IntegrityError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDataIntegrity, fmt.Sprintf(format, args...))
}
