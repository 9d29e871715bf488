package elderberrytest

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/blockberries/elderberry/contract"
	"github.com/blockberries/elderberry/schema"
	"github.com/blockberries/elderberry/types"
	"github.com/blockberries/elderberry/typesys"
	"github.com/blockberries/elderberry/validation"
)

// Rand returns a deterministic randomness source for the given seed.
// Never use it outside tests.
func Rand(seed uint64) *rand.ChaCha8 {
	var s [32]byte
	for i := 0; i < 8; i++ {
		s[i] = byte(seed >> (8 * i))
	}
	return rand.NewChaCha8(s)
}

// Harness builds state with deterministic randomness and validates
// operations against a schema.
type Harness struct {
	t   *testing.T
	rng *rand.ChaCha8
	vtr *validation.Validator
}

// NewHarness creates a harness validating against s with type system
// ts. A nil ts accepts every payload.
func NewHarness(t *testing.T, s *schema.Schema, ts typesys.TypeSystem) *Harness {
	t.Helper()
	if ts == nil {
		ts = &MockTypeSystem{}
	}
	return &Harness{
		t:   t,
		rng: Rand(1),
		vtr: &validation.Validator{Schema: s, Types: ts},
	}
}

// Validator returns the underlying validator for direct access.
func (h *Harness) Validator() *validation.Validator {
	return h.vtr
}

// Rand returns the harness randomness source.
func (h *Harness) Rand() *rand.ChaCha8 {
	return h.rng
}

// Seal creates a blind seal on a fixed transaction.
func (h *Harness) Seal(vout uint32) contract.BlindSeal {
	h.t.Helper()
	s, err := contract.NewBlindSeal([32]byte{0x5E, 0xA1}, vout, h.rng)
	if err != nil {
		h.t.Fatalf("NewBlindSeal failed: %v", err)
	}
	return s
}

// Value creates revealed fungible state.
func (h *Harness) Value(v uint64) contract.RevealedValue {
	h.t.Helper()
	rv, err := contract.NewRevealedValue(v, h.rng)
	if err != nil {
		h.t.Fatalf("NewRevealedValue failed: %v", err)
	}
	return rv
}

// Data creates revealed structured state.
func (h *Harness) Data(value []byte) contract.RevealedData {
	h.t.Helper()
	d, err := contract.NewRevealedData(value, h.rng)
	if err != nil {
		h.t.Fatalf("NewRevealedData failed: %v", err)
	}
	return d
}

// Attach creates revealed attachment state for payload.
func (h *Harness) Attach(payload []byte, mediaType string) contract.RevealedAttach {
	h.t.Helper()
	mt, err := types.ParseMediaType(mediaType)
	if err != nil {
		h.t.Fatalf("ParseMediaType(%q) failed: %v", mediaType, err)
	}
	a, err := contract.NewRevealedAttach(types.AttachIdFromContent(payload), mt, h.rng)
	if err != nil {
		h.t.Fatalf("NewRevealedAttach failed: %v", err)
	}
	return a
}

// ConcealedValue creates concealed fungible state by pairing the
// commitment of v with a placeholder proof.
func (h *Harness) ConcealedValue(v contract.RevealedValue) contract.ConcealedValue {
	h.t.Helper()
	proof, err := contract.NewPlaceholderProof(h.rng)
	if err != nil {
		h.t.Fatalf("NewPlaceholderProof failed: %v", err)
	}
	return contract.ConcealedValue{Commitment: v.Commitment(), RangeProof: proof}
}

// Validate validates op and returns its status.
func (h *Harness) Validate(op *contract.Operation) *validation.Status {
	h.t.Helper()
	status, err := h.vtr.ValidateOperation(context.Background(), op)
	if err != nil {
		h.t.Fatalf("ValidateOperation failed: %v", err)
	}
	return status
}

// MustAccept asserts that op is valid.
func (h *Harness) MustAccept(op *contract.Operation) *validation.Status {
	h.t.Helper()
	status := h.Validate(op)
	if !status.IsValid() {
		h.t.Fatalf("expected operation accepted, got %v", status.Err())
	}
	return status
}

// MustReject asserts that op is invalid with a failure of kind.
func (h *Harness) MustReject(op *contract.Operation, kind validation.FailureKind) *validation.Status {
	h.t.Helper()
	status := h.Validate(op)
	for _, f := range status.Failures {
		if f.Kind == kind {
			return status
		}
	}
	h.t.Fatalf("expected %s failure, got %v", kind, status.Failures)
	return status
}

// --- Helper Factories ---

// StateMatrix returns one concealed state of every kind, keyed by its
// state type.
func (h *Harness) StateMatrix() map[types.StateType]contract.ConfidentialState {
	h.t.Helper()
	return map[types.StateType]contract.ConfidentialState{
		types.StateVoid:       contract.VoidState{},
		types.StateFungible:   h.ConcealedValue(h.Value(100)),
		types.StateStructured: h.Data([]byte("structured")).Conceal(),
		types.StateAttachment: h.Attach([]byte("attachment"), "text/plain").Conceal(),
	}
}

// SchemaMatrix returns one declaration of every kind, keyed by its
// state type.
func SchemaMatrix() map[types.StateType]schema.StateSchema {
	return map[types.StateType]schema.StateSchema{
		types.StateVoid:       schema.Declarative{},
		types.StateFungible:   schema.Fungible{Type: types.FungibleUnsigned64Bit},
		types.StateStructured: schema.Structured{SemId: typesys.SemIdOf("Any")},
		types.StateAttachment: schema.Attachment{MediaType: types.MustMediaType("*")},
	}
}
