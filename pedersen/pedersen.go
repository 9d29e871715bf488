// Package pedersen provides additively homomorphic commitments to
// 64-bit values.
//
// A commitment to value v with blinding factor b is C = b·G + v·H,
// where G is the curve base point and H a second generator with no
// known discrete logarithm relative to G. Commitments to (v1, b1) and
// (v2, b2) sum to the commitment to (v1+v2, b1+b2), which lets a
// verifier check conservation of supply without learning any amount.
//
// The curve is hidden behind [Backend] so it can be swapped; the
// default is [Secp256k1].
package pedersen

import (
	"encoding/hex"
	"errors"
)

// CommitmentSize is the wire size of a commitment: a prefix byte
// carrying the parity of y followed by the 32-byte x coordinate.
const CommitmentSize = 33

var (
	// ErrInvalidCommitment is returned for bytes that do not encode a
	// curve point.
	ErrInvalidCommitment = errors.New("invalid pedersen commitment data")
	// ErrInfinity is returned when an operation yields the point at
	// infinity, which has no serialized form.
	ErrInfinity = errors.New("pedersen commitment is the point at infinity")
	// ErrInvalidScalar is returned for a blinding factor that is zero
	// or not below the order of the scalar field.
	ErrInvalidScalar = errors.New("value overflows scalar field order")
	// ErrEmptySum is returned when summing no commitments.
	ErrEmptySum = errors.New("sum of no commitments")
)

// Commitment is a compressed commitment point.
type Commitment [CommitmentSize]byte

func (c Commitment) String() string { return hex.EncodeToString(c[:]) }

// Backend is the capability set the contract layer needs from a curve.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Commit computes the commitment to value under blinding. It fails
	// only if the result is the point at infinity.
	Commit(value uint64, blinding [32]byte) (Commitment, error)
	// Add returns the commitment to the sum of the committed values.
	Add(a, b Commitment) (Commitment, error)
	// Parse validates and copies a serialized commitment.
	Parse(data []byte) (Commitment, error)
	// CheckScalar reports ErrInvalidScalar unless b is a non-zero
	// element of the scalar field.
	CheckScalar(b [32]byte) error
}

// Default is the backend used by the contract layer.
var Default Backend = Secp256k1{}

// Sum adds all commitments together.
func Sum(backend Backend, cs ...Commitment) (Commitment, error) {
	if len(cs) == 0 {
		return Commitment{}, ErrEmptySum
	}
	acc := cs[0]
	for _, c := range cs[1:] {
		next, err := backend.Add(acc, c)
		if err != nil {
			return Commitment{}, err
		}
		acc = next
	}
	return acc, nil
}

// VerifySum reports whether inputs and outputs commit to the same
// total, i.e. whether the committed supply is conserved. Blinding
// factors of the outputs must have been balanced against the inputs by
// the party building the operation.
func VerifySum(backend Backend, inputs, outputs []Commitment) bool {
	in, err := Sum(backend, inputs...)
	if err != nil {
		return false
	}
	out, err := Sum(backend, outputs...)
	if err != nil {
		return false
	}
	return in == out
}
