package contract

import (
	"bytes"
	"encoding/hex"
	"io"

	"github.com/blockberries/elderberry/commit"
	"github.com/blockberries/elderberry/strict"
	"github.com/blockberries/elderberry/types"
)

// RevealedData is disclosed structured state. The value is opaque here;
// its shape is checked against the schema type system during
// validation.
type RevealedData struct {
	Value []byte
	Salt  [16]byte
}

var _ ExposedState = RevealedData{}

// NewRevealedData creates structured state with a salt drawn from rng.
// The value must fit a small blob.
func NewRevealedData(value []byte, rng io.Reader) (RevealedData, error) {
	if len(value) > strict.SmallMax {
		return RevealedData{}, &strict.ConfinementError{What: "structured state", Len: len(value), Max: strict.SmallMax}
	}
	d := RevealedData{Value: bytes.Clone(value)}
	if err := readRandom(rng, d.Salt[:]); err != nil {
		return RevealedData{}, err
	}
	return d, nil
}

func (d RevealedData) StateType() types.StateType { return types.StateStructured }

// Compare orders by value bytes, then salt.
func (d RevealedData) Compare(other RevealedData) int {
	if c := bytes.Compare(d.Value, other.Value); c != 0 {
		return c
	}
	return bytes.Compare(d.Salt[:], other.Salt[:])
}

func (d RevealedData) StrictEncode(w *strict.Writer) {
	w.SmallBlob("structured state", d.Value)
	w.Bytes(d.Salt[:])
}

// DecodeRevealedData reads a value written by StrictEncode.
func DecodeRevealedData(r *strict.Reader) RevealedData {
	var d RevealedData
	d.Value = r.SmallBlob()
	r.Bytes(d.Salt[:])
	if r.Err() != nil {
		return RevealedData{}
	}
	return d
}

// Commitment hashes the strict encoding under the data tag.
func (d RevealedData) Commitment() ConcealedData {
	return ConcealedData(commit.Digest(commit.TagData, encoderFunc(d.StrictEncode)))
}

func (d RevealedData) Conceal() ConfidentialState { return d.Commitment() }

func (d RevealedData) CommitEncode(w *strict.Writer) { d.Commitment().CommitEncode(w) }

func (RevealedData) isExposedState() {}

// ConcealedData is the tagged hash of a RevealedData.
type ConcealedData [32]byte

var _ ConfidentialState = ConcealedData{}

func (c ConcealedData) StateType() types.StateType { return types.StateStructured }

func (c ConcealedData) String() string { return hex.EncodeToString(c[:]) }

func (c ConcealedData) CommitEncode(w *strict.Writer) { w.Bytes(c[:]) }

func (ConcealedData) isConfidentialState() {}
