package contract

import (
	"github.com/blockberries/elderberry/strict"
	"github.com/blockberries/elderberry/types"
)

// VoidState is declarative state. It carries no value and is its own
// concealed form.
type VoidState struct{}

var (
	_ ExposedState      = VoidState{}
	_ ConfidentialState = VoidState{}
)

func (VoidState) StateType() types.StateType { return types.StateVoid }

func (VoidState) Conceal() ConfidentialState { return VoidState{} }

func (VoidState) CommitEncode(*strict.Writer) {}

func (VoidState) isExposedState() {}

func (VoidState) isConfidentialState() {}
