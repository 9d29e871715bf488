package contract

import (
	"fmt"
	"maps"
	"slices"

	"github.com/blockberries/elderberry/commit"
	"github.com/blockberries/elderberry/strict"
	"github.com/blockberries/elderberry/types"
)

// OpKind distinguishes the three kinds of contract operation.
type OpKind uint8

const (
	OpGenesis OpKind = iota
	OpTransition
	OpExtension
)

func (k OpKind) String() string {
	switch k {
	case OpGenesis:
		return "genesis"
	case OpTransition:
		return "transition"
	case OpExtension:
		return "extension"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Operation is a contract operation as far as state validation needs
// it: global state and owned-state assignments keyed by their schema
// slot.
type Operation struct {
	Kind OpKind
	// Subtype is the transition or extension type. Zero for genesis.
	Subtype     uint16
	Globals     map[types.GlobalStateType][]RevealedData
	Assignments map[types.AssignmentType][]Assign
}

// ID commits to the operation. Every state contributes only its
// commitment encoding, so concealing state or seals never changes the
// id.
func (op *Operation) ID() types.OpId {
	return types.OpId(commit.Digest(commit.TagOperation, op))
}

// GlobalTypes returns the global state types present, ascending.
func (op *Operation) GlobalTypes() []types.GlobalStateType {
	return slices.Sorted(maps.Keys(op.Globals))
}

// AssignmentTypes returns the assignment types present, ascending.
func (op *Operation) AssignmentTypes() []types.AssignmentType {
	return slices.Sorted(maps.Keys(op.Assignments))
}

func (op *Operation) CommitEncode(w *strict.Writer) {
	w.U8(uint8(op.Kind))
	w.U16(op.Subtype)

	globals := op.GlobalTypes()
	if !w.SmallLen("global state types", len(globals)) {
		return
	}
	for _, t := range globals {
		items := op.Globals[t]
		w.U16(uint16(t))
		if !w.SmallLen("global state items", len(items)) {
			return
		}
		for _, d := range items {
			d.CommitEncode(w)
		}
	}

	owned := op.AssignmentTypes()
	if !w.SmallLen("assignment types", len(owned)) {
		return
	}
	for _, t := range owned {
		assigns := op.Assignments[t]
		w.U16(uint16(t))
		if !w.SmallLen("assignments", len(assigns)) {
			return
		}
		for _, a := range assigns {
			a.CommitEncode(w)
		}
	}
}

// ConcealState returns a copy of op with the state of every
// non-fungible assignment concealed. Fungible state stays revealed.
func (op *Operation) ConcealState() *Operation {
	out := &Operation{
		Kind:        op.Kind,
		Subtype:     op.Subtype,
		Globals:     maps.Clone(op.Globals),
		Assignments: make(map[types.AssignmentType][]Assign, len(op.Assignments)),
	}
	for t, assigns := range op.Assignments {
		concealed := make([]Assign, len(assigns))
		for i, a := range assigns {
			if a.StateType() == types.StateFungible {
				concealed[i] = a
				continue
			}
			concealed[i] = a.ConcealState()
		}
		out.Assignments[t] = concealed
	}
	return out
}
