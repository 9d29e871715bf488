package contract

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/blockberries/elderberry"
	"github.com/blockberries/elderberry/pedersen"
	"github.com/blockberries/elderberry/strict"
	"github.com/blockberries/elderberry/types"
)

// FungibleState is an atomic rational value: an integer number of the
// smallest indivisible units of something whole.
//
// It is a tagged union with room for wider integers. Only the 64-bit
// variant exists today.
type FungibleState struct {
	bits64 uint64
}

// Bits64 creates a 64-bit fungible value.
func Bits64(v uint64) FungibleState { return FungibleState{bits64: v} }

// ParseFungibleState parses a plain decimal integer into the default
// variant.
func ParseFungibleState(s string) (FungibleState, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return FungibleState{}, fmt.Errorf("parse fungible state: %w", err)
	}
	return Bits64(v), nil
}

// FungibleType returns the concrete numeric representation.
func (s FungibleState) FungibleType() types.FungibleType { return types.FungibleUnsigned64Bit }

// Uint64 returns the value as a 64-bit integer.
func (s FungibleState) Uint64() uint64 { return s.bits64 }

func (s FungibleState) String() string { return strconv.FormatUint(s.bits64, 10) }

// Compare orders fungible values numerically.
func (s FungibleState) Compare(other FungibleState) int {
	switch {
	case s.bits64 < other.bits64:
		return -1
	case s.bits64 > other.bits64:
		return 1
	default:
		return 0
	}
}

func (s FungibleState) StrictEncode(w *strict.Writer) {
	w.U8(uint8(types.FungibleUnsigned64Bit))
	w.U64(s.bits64)
}

// DecodeFungibleState reads a value written by StrictEncode.
func DecodeFungibleState(r *strict.Reader) FungibleState {
	switch tag := r.U8(); types.FungibleType(tag) {
	case types.FungibleUnsigned64Bit:
		return Bits64(r.U64())
	default:
		if r.Err() == nil {
			r.Fail(&strict.TagError{Type: "FungibleState", Tag: tag})
		}
		return FungibleState{}
	}
}

// ErrFieldOrderOverflow is returned for a blinding factor that is not
// a valid element of the curve's scalar field.
var ErrFieldOrderOverflow = errors.New("value provided for a blinding factor overflows prime field order for Secp256k1 curve")

// blindingAttempts bounds rejection sampling of blinding factors. A
// uniform 32-byte draw is out of range with probability below 2^-127.
const blindingAttempts = 64

// BlindingFactor is the scalar mixed into a Pedersen commitment.
// Knowing it is required to reproduce the commitment from the value.
type BlindingFactor [32]byte

// NewBlindingFactor validates b as a non-zero scalar below the field
// order.
func NewBlindingFactor(b [32]byte) (BlindingFactor, error) {
	if err := pedersen.Default.CheckScalar(b); err != nil {
		return BlindingFactor{}, ErrFieldOrderOverflow
	}
	return BlindingFactor(b), nil
}

// RandomBlindingFactor draws a blinding factor from rng.
func RandomBlindingFactor(rng io.Reader) (BlindingFactor, error) {
	var b [32]byte
	for i := 0; i < blindingAttempts; i++ {
		if err := readRandom(rng, b[:]); err != nil {
			return BlindingFactor{}, err
		}
		if bf, err := NewBlindingFactor(b); err == nil {
			return bf, nil
		}
	}
	return BlindingFactor{}, fmt.Errorf("no valid blinding factor after %d draws: %w", blindingAttempts, ErrFieldOrderOverflow)
}

// ParseBlindingFactor parses the hex form.
func ParseBlindingFactor(s string) (BlindingFactor, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return BlindingFactor{}, fmt.Errorf("parse blinding factor: %w", err)
	}
	var b [32]byte
	if len(raw) != len(b) {
		return BlindingFactor{}, fmt.Errorf("parse blinding factor: length %d, expected %d", len(raw), len(b))
	}
	copy(b[:], raw)
	return NewBlindingFactor(b)
}

func (b BlindingFactor) String() string { return hex.EncodeToString(b[:]) }

// RevealedValue is disclosed fungible state.
type RevealedValue struct {
	// Value in smallest indivisible units.
	Value FungibleState
	// Blinding used in the Pedersen commitment.
	Blinding BlindingFactor
}

var _ ExposedState = RevealedValue{}

// NewRevealedValue creates state for value with a blinding factor
// drawn from rng.
func NewRevealedValue(value uint64, rng io.Reader) (RevealedValue, error) {
	blinding, err := RandomBlindingFactor(rng)
	if err != nil {
		return RevealedValue{}, err
	}
	return RevealedValue{Value: Bits64(value), Blinding: blinding}, nil
}

// RevealedValueWith creates state with an explicit blinding factor.
func RevealedValueWith(value uint64, blinding BlindingFactor) RevealedValue {
	return RevealedValue{Value: Bits64(value), Blinding: blinding}
}

func (v RevealedValue) StateType() types.StateType { return types.StateFungible }

// Compare orders by value first and blinding factor second.
func (v RevealedValue) Compare(other RevealedValue) int {
	if c := v.Value.Compare(other.Value); c != 0 {
		return c
	}
	return bytes.Compare(v.Blinding[:], other.Blinding[:])
}

// Commitment computes the Pedersen commitment to the value.
func (v RevealedValue) Commitment() PedersenCommitment {
	c, err := pedersen.Default.Commit(v.Value.Uint64(), v.Blinding)
	if err != nil {
		// Only reachable with a blinding factor equal to the negated
		// discrete log of v·H, which the type guarantees rule out.
		panic(fmt.Sprintf("%s: pedersen commitment to revealed value: %v", elderberry.LibName, err))
	}
	return PedersenCommitment(c)
}

// Conceal always panics with a *elderberry.MisuseError: no range-proof
// backend is linked, so fungible state must never be concealed. A
// fabricated proof would let unproven amounts through validation.
func (v RevealedValue) Conceal() ConfidentialState {
	elderberry.Misuse("RevealedValue.Conceal",
		"range proofs are not supported; fungible state must never be concealed")
	return nil
}

// CommitEncode writes the Pedersen commitment, so the revealed value
// and its concealed form contribute identically to operation ids.
func (v RevealedValue) CommitEncode(w *strict.Writer) {
	v.Commitment().CommitEncode(w)
}

func (v RevealedValue) StrictEncode(w *strict.Writer) {
	v.Value.StrictEncode(w)
	w.Bytes(v.Blinding[:])
}

// DecodeRevealedValue reads a value written by StrictEncode.
func DecodeRevealedValue(r *strict.Reader) RevealedValue {
	value := DecodeFungibleState(r)
	var b [32]byte
	r.Bytes(b[:])
	if r.Err() != nil {
		return RevealedValue{}
	}
	blinding, err := NewBlindingFactor(b)
	if err != nil {
		r.Fail(strict.IntegrityError("blinding factor: %v", err))
		return RevealedValue{}
	}
	return RevealedValue{Value: value, Blinding: blinding}
}

func (RevealedValue) isExposedState() {}

// PedersenCommitment is the 33-byte commitment to a fungible value.
type PedersenCommitment pedersen.Commitment

// ParsePedersenCommitment validates a serialized commitment.
func ParsePedersenCommitment(data []byte) (PedersenCommitment, error) {
	c, err := pedersen.Default.Parse(data)
	if err != nil {
		return PedersenCommitment{}, err
	}
	return PedersenCommitment(c), nil
}

func (c PedersenCommitment) String() string { return pedersen.Commitment(c).String() }

func (c PedersenCommitment) CommitEncode(w *strict.Writer) { w.Bytes(c[:]) }

// RangeProofPlaceholderTag is the wire tag of PlaceholderProof.
const RangeProofPlaceholderTag = 0xFF

// PlaceholderProofSize is the number of noise bytes in a placeholder.
const PlaceholderProofSize = 512

// RangeProof proves a committed value lies within its type bounds.
// Only the placeholder variant exists.
type RangeProof interface {
	StrictEncode(w *strict.Writer)
	isRangeProof()
}

// PlaceholderProof stands in for a bulletproof. It is random noise and
// always fails verification.
type PlaceholderProof [PlaceholderProofSize]byte

// NewPlaceholderProof fills a placeholder with noise from rng.
func NewPlaceholderProof(rng io.Reader) (PlaceholderProof, error) {
	var p PlaceholderProof
	if err := readRandom(rng, p[:]); err != nil {
		return PlaceholderProof{}, err
	}
	return p, nil
}

func (p PlaceholderProof) StrictEncode(w *strict.Writer) {
	w.U8(RangeProofPlaceholderTag)
	w.Bytes(p[:])
}

func (PlaceholderProof) isRangeProof() {}

// DecodeRangeProof reads a proof written by StrictEncode.
func DecodeRangeProof(r *strict.Reader) RangeProof {
	switch tag := r.U8(); tag {
	case RangeProofPlaceholderTag:
		var p PlaceholderProof
		r.Bytes(p[:])
		return p
	default:
		if r.Err() == nil {
			r.Fail(&strict.TagError{Type: "RangeProof", Tag: tag})
		}
		return nil
	}
}

// ErrBulletproofsAbsent is returned by every range-proof verification.
var ErrBulletproofsAbsent = errors.New("bulletproofs verification is not implemented; " +
	"update your software or ask its producer to use a release with range proof support")

// ConcealedValue is concealed fungible state.
type ConcealedValue struct {
	// Commitment to the value.
	Commitment PedersenCommitment
	// RangeProof that the value does not exceed its type bounds. It is
	// auxiliary and excluded from the commitment encoding.
	RangeProof RangeProof
}

var _ ConfidentialState = ConcealedValue{}

func (c ConcealedValue) StateType() types.StateType { return types.StateFungible }

// CommitEncode writes only the Pedersen commitment.
func (c ConcealedValue) CommitEncode(w *strict.Writer) { c.Commitment.CommitEncode(w) }

// Verify reports whether the range proof is valid. The placeholder
// never is.
func (c ConcealedValue) Verify() bool {
	ok, _ := c.VerifyRangeProof()
	return ok
}

// VerifyRangeProof checks the range proof against the commitment. No
// proof backend is linked, so it always fails with
// ErrBulletproofsAbsent.
func (c ConcealedValue) VerifyRangeProof() (bool, error) {
	return false, ErrBulletproofsAbsent
}

func (c ConcealedValue) StrictEncode(w *strict.Writer) {
	w.Bytes(c.Commitment[:])
	if c.RangeProof == nil {
		w.Fail(strict.IntegrityError("concealed value has no range proof"))
		return
	}
	c.RangeProof.StrictEncode(w)
}

// DecodeConcealedValue reads a value written by StrictEncode.
func DecodeConcealedValue(r *strict.Reader) ConcealedValue {
	var raw [pedersen.CommitmentSize]byte
	r.Bytes(raw[:])
	proof := DecodeRangeProof(r)
	if r.Err() != nil {
		return ConcealedValue{}
	}
	c, err := ParsePedersenCommitment(raw[:])
	if err != nil {
		r.Fail(strict.IntegrityError("%v", err))
		return ConcealedValue{}
	}
	return ConcealedValue{Commitment: c, RangeProof: proof}
}

func (ConcealedValue) isConfidentialState() {}
