package validation

import (
	"github.com/blockberries/elderberry/contract"
	"github.com/blockberries/elderberry/schema"
	"github.com/blockberries/elderberry/types"
	"github.com/blockberries/elderberry/typesys"
)

// ValidateState checks the state of one assignment against the
// declaration of its slot. The seal side is ignored.
//
// Concealed state can only be checked for its kind: a concealed value's
// range proof is verified, concealed structured and attachment state
// yields UncheckableConfidentialState. Revealed state is checked in
// full, structured payloads through ts.
func ValidateState(
	decl schema.StateSchema,
	ts typesys.TypeSystem,
	opid types.OpId,
	slot types.AssignmentType,
	assign contract.Assign,
) *Status {
	status := NewStatus()
	mismatch := func(found types.StateType) {
		status.AddFailure(Failure{
			Kind:     StateTypeMismatch,
			OpId:     opid,
			Slot:     uint16(slot),
			Expected: decl.StateType().String(),
			Found:    found.String(),
		})
	}

	if !assign.HasState() {
		mismatch(types.StateNone)
		return status
	}

	if state, ok := assign.ConfidentialState(); ok {
		switch s := state.(type) {
		case contract.VoidState:
			if _, ok := decl.(schema.Declarative); !ok {
				mismatch(s.StateType())
			}
		case contract.ConcealedValue:
			if _, ok := decl.(schema.Fungible); !ok {
				mismatch(s.StateType())
				break
			}
			if _, err := s.VerifyRangeProof(); err != nil {
				status.AddFailure(Failure{
					Kind:   BulletproofsInvalid,
					OpId:   opid,
					Slot:   uint16(slot),
					Detail: err.Error(),
				})
			}
		case contract.ConcealedData, contract.ConcealedAttach:
			if decl.StateType() != s.StateType() {
				mismatch(s.StateType())
				break
			}
			status.AddInfo(Info{Kind: UncheckableConfidentialState, OpId: opid, Slot: uint16(slot)})
		default:
			mismatch(state.StateType())
		}
		return status
	}

	state, _ := assign.RevealedState()
	switch s := state.(type) {
	case contract.VoidState:
		if _, ok := decl.(schema.Declarative); !ok {
			mismatch(s.StateType())
		}
	case contract.RevealedValue:
		d, ok := decl.(schema.Fungible)
		if !ok {
			mismatch(s.StateType())
			break
		}
		if found := s.Value.FungibleType(); found != d.Type {
			status.AddFailure(Failure{
				Kind:     FungibleTypeMismatch,
				OpId:     opid,
				Slot:     uint16(slot),
				Expected: d.Type.String(),
				Found:    found.String(),
			})
		}
	case contract.RevealedData:
		d, ok := decl.(schema.Structured)
		if !ok {
			mismatch(s.StateType())
			break
		}
		if err := ts.Deserialize(d.SemId, s.Value); err != nil {
			status.AddFailure(Failure{
				Kind:     SchemaInvalidOwnedValue,
				OpId:     opid,
				Slot:     uint16(slot),
				Expected: d.SemId.String(),
				Detail:   err.Error(),
			})
		}
	case contract.RevealedAttach:
		d, ok := decl.(schema.Attachment)
		if !ok {
			mismatch(s.StateType())
			break
		}
		if !s.MediaType.Conforms(d.MediaType) {
			status.AddFailure(Failure{
				Kind:     MediaTypeMismatch,
				OpId:     opid,
				Slot:     uint16(slot),
				Expected: d.MediaType.String(),
				Found:    s.MediaType.String(),
			})
		}
	default:
		mismatch(state.StateType())
	}
	return status
}
