package types

import "fmt"

// StateType is the kind of state an assignment slot holds.
type StateType uint8

const (
	// StateVoid is declarative state carrying no value.
	StateVoid StateType = iota
	// StateFungible is an additive value that can be homomorphically committed.
	StateFungible
	// StateStructured is an opaque payload checked against a semantic type.
	StateStructured
	// StateAttachment references an out-of-band media payload.
	StateAttachment

	// StateNone is reported by an assignment that carries no state,
	// which only the zero Assign does.
	StateNone StateType = 0xFF
)

func (s StateType) String() string {
	switch s {
	case StateVoid:
		return "void"
	case StateFungible:
		return "fungible"
	case StateStructured:
		return "structured"
	case StateAttachment:
		return "attachment"
	case StateNone:
		return "none"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// FungibleType is the concrete numeric representation of fungible
// state. Values match the strict-type primitive tags so the tag space
// can grow with wider integers.
type FungibleType uint8

// FungibleUnsigned64Bit is a 64-bit unsigned integer.
const FungibleUnsigned64Bit FungibleType = 8

func (f FungibleType) String() string {
	switch f {
	case FungibleUnsigned64Bit:
		return "u64"
	default:
		return fmt.Sprintf("unknown(%d)", f)
	}
}
