package contract

import (
	"fmt"

	"github.com/blockberries/elderberry"
	"github.com/blockberries/elderberry/strict"
	"github.com/blockberries/elderberry/types"
)

// AssignKind is the disclosure level of an assignment.
type AssignKind uint8

const (
	// AssignRevealed discloses both seal and state.
	AssignRevealed AssignKind = iota
	// AssignConfidentialSeal conceals the seal only.
	AssignConfidentialSeal
	// AssignConfidentialState conceals the state only.
	AssignConfidentialState
	// AssignConfidential conceals both.
	AssignConfidential
)

func (k AssignKind) String() string {
	switch k {
	case AssignRevealed:
		return "revealed"
	case AssignConfidentialSeal:
		return "confidential-seal"
	case AssignConfidentialState:
		return "confidential-state"
	case AssignConfidential:
		return "confidential"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Assign binds state to a single-use seal. Either side may be
// concealed; the commitment encoding is the same at every disclosure
// level. The zero Assign carries no state and never validates; use the
// constructors.
type Assign struct {
	kind AssignKind

	seal       BlindSeal
	secretSeal SecretSeal

	revealed     ExposedState
	confidential ConfidentialState
}

// NewRevealedAssign assigns revealed state to a revealed seal.
func NewRevealedAssign(seal BlindSeal, state ExposedState) Assign {
	mustState("NewRevealedAssign", state)
	return Assign{kind: AssignRevealed, seal: seal, secretSeal: seal.Conceal(), revealed: state}
}

// NewConfidentialSealAssign assigns revealed state to a concealed seal.
func NewConfidentialSealAssign(seal SecretSeal, state ExposedState) Assign {
	mustState("NewConfidentialSealAssign", state)
	return Assign{kind: AssignConfidentialSeal, secretSeal: seal, revealed: state}
}

// NewConfidentialStateAssign assigns concealed state to a revealed seal.
func NewConfidentialStateAssign(seal BlindSeal, state ConfidentialState) Assign {
	mustState("NewConfidentialStateAssign", state)
	return Assign{kind: AssignConfidentialState, seal: seal, secretSeal: seal.Conceal(), confidential: state}
}

// NewConfidentialAssign assigns concealed state to a concealed seal.
func NewConfidentialAssign(seal SecretSeal, state ConfidentialState) Assign {
	mustState("NewConfidentialAssign", state)
	return Assign{kind: AssignConfidential, secretSeal: seal, confidential: state}
}

func mustState(op string, state any) {
	if state == nil {
		elderberry.Misuse(op, "nil state")
	}
}

func (a Assign) Kind() AssignKind { return a.kind }

// IsStateConcealed reports whether the state side is concealed.
func (a Assign) IsStateConcealed() bool {
	return a.kind == AssignConfidentialState || a.kind == AssignConfidential
}

// IsSealConcealed reports whether the seal side is concealed.
func (a Assign) IsSealConcealed() bool {
	return a.kind == AssignConfidentialSeal || a.kind == AssignConfidential
}

// RevealedState returns the revealed state, if disclosed.
func (a Assign) RevealedState() (ExposedState, bool) {
	return a.revealed, !a.IsStateConcealed()
}

// ConfidentialState returns the concealed state, if concealed.
func (a Assign) ConfidentialState() (ConfidentialState, bool) {
	return a.confidential, a.IsStateConcealed()
}

// RevealedSeal returns the revealed seal, if disclosed.
func (a Assign) RevealedSeal() (BlindSeal, bool) {
	return a.seal, !a.IsSealConcealed()
}

// SecretSeal returns the concealed seal. It is available at every
// disclosure level.
func (a Assign) SecretSeal() SecretSeal { return a.secretSeal }

// HasState reports whether a carries state.
func (a Assign) HasState() bool {
	if a.IsStateConcealed() {
		return a.confidential != nil
	}
	return a.revealed != nil
}

// StateType returns the kind of the assigned state, or StateNone.
func (a Assign) StateType() types.StateType {
	if !a.HasState() {
		return types.StateNone
	}
	if a.IsStateConcealed() {
		return a.confidential.StateType()
	}
	return a.revealed.StateType()
}

// ConcealState returns a copy with the state side concealed. Panics
// with a misuse error for fungible state.
func (a Assign) ConcealState() Assign {
	if a.IsStateConcealed() || !a.HasState() {
		return a
	}
	out := Assign{seal: a.seal, secretSeal: a.secretSeal, confidential: a.revealed.Conceal()}
	if a.IsSealConcealed() {
		out.kind = AssignConfidential
	} else {
		out.kind = AssignConfidentialState
	}
	return out
}

// ConcealSeal returns a copy with the seal side concealed.
func (a Assign) ConcealSeal() Assign {
	if a.IsSealConcealed() {
		return a
	}
	out := Assign{secretSeal: a.secretSeal, revealed: a.revealed, confidential: a.confidential}
	if a.IsStateConcealed() {
		out.kind = AssignConfidential
	} else {
		out.kind = AssignConfidentialSeal
	}
	return out
}

// CommitEncode writes the secret seal, the state type and the state
// commitment encoding.
func (a Assign) CommitEncode(w *strict.Writer) {
	a.secretSeal.CommitEncode(w)
	w.U8(uint8(a.StateType()))
	switch {
	case !a.HasState():
	case a.IsStateConcealed():
		a.confidential.CommitEncode(w)
	default:
		a.revealed.CommitEncode(w)
	}
}
