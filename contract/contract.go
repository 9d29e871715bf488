// Package contract defines contract state in its revealed and
// concealed forms, the assignments that bind state to seals, and the
// operations that carry them.
//
// Every state kind has a closed pair of variants:
//
//	kind        revealed         concealed
//	void        VoidState        VoidState
//	fungible    RevealedValue    ConcealedValue
//	structured  RevealedData     ConcealedData
//	attachment  RevealedAttach   ConcealedAttach
//
// Values are immutable: concealing produces a new value and never
// mutates the revealed one. Randomness is always taken from an
// io.Reader supplied by the caller.
package contract

import (
	"errors"
	"fmt"
	"io"

	"github.com/blockberries/elderberry/commit"
	"github.com/blockberries/elderberry/strict"
	"github.com/blockberries/elderberry/types"
)

// ErrNoRandomness is returned by constructors given a nil randomness
// source.
var ErrNoRandomness = errors.New("no randomness source")

// ExposedState is revealed state. Implemented only by the revealed
// variants of this package.
type ExposedState interface {
	commit.Encoder
	StateType() types.StateType
	// Conceal returns the concealed counterpart. Fungible state panics
	// with a misuse error; see RevealedValue.Conceal.
	Conceal() ConfidentialState
	isExposedState()
}

// ConfidentialState is concealed state. Implemented only by the
// concealed variants of this package.
type ConfidentialState interface {
	commit.Encoder
	StateType() types.StateType
	isConfidentialState()
}

// encoderFunc adapts a strict encoding routine to commit.Encoder.
type encoderFunc func(w *strict.Writer)

func (f encoderFunc) CommitEncode(w *strict.Writer) { f(w) }

func readRandom(rng io.Reader, p []byte) error {
	if rng == nil {
		return ErrNoRandomness
	}
	if _, err := io.ReadFull(rng, p); err != nil {
		return fmt.Errorf("read randomness: %w", err)
	}
	return nil
}
