// Package types defines the fixed-width identifiers and small value
// types shared by the contract, schema and validation packages.
//
// Identifiers are plain byte arrays: equality and ordering are
// lexicographic over the raw bytes.
package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Bytes32 is a 32-byte digest.
type Bytes32 [32]byte

// String returns the lower-case hex form.
func (b Bytes32) String() string { return hex.EncodeToString(b[:]) }

// Compare orders digests by raw bytes.
func (b Bytes32) Compare(other Bytes32) int { return bytes.Compare(b[:], other[:]) }

// IsZero returns true for the all-zero digest.
func (b Bytes32) IsZero() bool { return b == Bytes32{} }

// ParseBytes32 decodes a 64-character hex string.
func ParseBytes32(s string) (Bytes32, error) {
	var out Bytes32
	raw, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("invalid hex digest: %w", err)
	}
	if len(raw) != len(out) {
		return out, fmt.Errorf("invalid digest length %d, expected %d", len(raw), len(out))
	}
	copy(out[:], raw)
	return out, nil
}

// OpId identifies a contract operation.
type OpId Bytes32

func (id OpId) String() string { return Bytes32(id).String() }

// Compare orders operation ids by raw bytes.
func (id OpId) Compare(other OpId) int { return Bytes32(id).Compare(Bytes32(other)) }

// SemId is the semantic id of a structured type in the type system.
type SemId Bytes32

func (id SemId) String() string { return Bytes32(id).String() }

// Schema-defined type selectors. Each is a 16-bit number chosen by the
// schema author.
type (
	// AssignmentType selects an owned-state slot.
	AssignmentType uint16
	// GlobalStateType selects a global-state slot.
	GlobalStateType uint16
	// TransitionType selects a kind of state transition.
	TransitionType uint16
	// ExtensionType selects a kind of state extension.
	ExtensionType uint16
)
