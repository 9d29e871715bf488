// Package nia implements a non-inflatable asset contract on top of
// elderberry. It demonstrates every layer: a cramberry type registry
// for global state, a schema with fungible and attachment slots, a
// validation script whose hooks check supply conservation, and
// issuance and transfer builders.
//
// Genesis fixes the total supply in global state and allocates it to
// seals. Transfers move amounts between seals without revealing them
// to the script: the script checks that input and output Pedersen
// commitments sum to the same point.
package nia

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/bits"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/blockberries/elderberry/contract"
	"github.com/blockberries/elderberry/pedersen"
	"github.com/blockberries/elderberry/schema"
	"github.com/blockberries/elderberry/types"
	"github.com/blockberries/elderberry/typesys"
	"github.com/blockberries/elderberry/validation"
	"github.com/blockberries/elderberry/vm"
)

// Schema slots.
const (
	GlobalSpec   types.GlobalStateType = 2000
	GlobalIssued types.GlobalStateType = 2010

	OwnedAssets types.AssignmentType = 4000
	OwnedTerms  types.AssignmentType = 4100

	TransitionTransfer types.TransitionType = 10000
)

// Semantic type names.
const (
	SpecTypeName   = "NIA.AssetSpec"
	IssuedTypeName = "NIA.IssuedSupply"
)

// AssetSpec describes the asset.
type AssetSpec struct {
	Ticker    string `cramberry:"1"`
	Name      string `cramberry:"2"`
	Precision uint8  `cramberry:"3"`
}

// IssuedSupply is the total amount created at genesis.
type IssuedSupply struct {
	Supply uint64 `cramberry:"1"`
}

// Types returns the type system of the contract.
func Types() *typesys.Registry {
	r := typesys.NewRegistry()
	r.MustRegister(SpecTypeName, AssetSpec{})
	r.MustRegister(IssuedTypeName, IssuedSupply{})
	return r
}

// Instructions of the contract library. Each hook site holds one byte
// naming the check the executor performs.
const (
	opCheckIssue    byte = 0x01
	opCheckTransfer byte = 0x02
)

// Schema returns the contract schema with its validation script.
func Schema() (*schema.Schema, error) {
	lib, err := vm.NewLib("ALU", []byte{opCheckIssue, opCheckTransfer}, nil)
	if err != nil {
		return nil, err
	}
	script, err := vm.NewScript(lib)
	if err != nil {
		return nil, err
	}
	if err := script.SetEntryPoint(vm.ValidateGenesis(), vm.LibSite{Lib: lib.ID(), Pos: 0}); err != nil {
		return nil, err
	}
	if err := script.SetEntryPoint(vm.ValidateTransition(TransitionTransfer), vm.LibSite{Lib: lib.ID(), Pos: 1}); err != nil {
		return nil, err
	}
	return &schema.Schema{
		Name: "NonInflatableAsset",
		GlobalTypes: map[types.GlobalStateType]schema.GlobalStateSchema{
			GlobalSpec:   {SemId: typesys.SemIdOf(SpecTypeName)},
			GlobalIssued: {SemId: typesys.SemIdOf(IssuedTypeName)},
		},
		OwnedTypes: map[types.AssignmentType]schema.StateSchema{
			OwnedAssets: schema.Fungible{Type: types.FungibleUnsigned64Bit},
			OwnedTerms:  schema.Attachment{MediaType: types.MustMediaType("text/*")},
		},
		Script:      script,
		Transitions: []types.TransitionType{TransitionTransfer},
	}, nil
}

// Allocation assigns an amount to a seal.
type Allocation struct {
	Seal   contract.BlindSeal
	Amount uint64
}

// Terms is a contract terms document attached at issue.
type Terms struct {
	Text      []byte
	MediaType types.MediaType
}

// Issue builds the genesis operation. The allocations must add up to
// the issued supply for the operation to validate.
func Issue(rng io.Reader, spec AssetSpec, supply uint64, allocations []Allocation, terms *Terms, termsSeal contract.BlindSeal) (*contract.Operation, error) {
	specData, err := globalData(rng, spec)
	if err != nil {
		return nil, err
	}
	issuedData, err := globalData(rng, IssuedSupply{Supply: supply})
	if err != nil {
		return nil, err
	}

	assets := make([]contract.Assign, len(allocations))
	for i, a := range allocations {
		v, err := contract.NewRevealedValue(a.Amount, rng)
		if err != nil {
			return nil, err
		}
		assets[i] = contract.NewRevealedAssign(a.Seal, v)
	}

	op := &contract.Operation{
		Kind: contract.OpGenesis,
		Globals: map[types.GlobalStateType][]contract.RevealedData{
			GlobalSpec:   {specData},
			GlobalIssued: {issuedData},
		},
		Assignments: map[types.AssignmentType][]contract.Assign{OwnedAssets: assets},
	}
	if terms != nil {
		attach, err := contract.NewRevealedAttach(types.AttachIdFromContent(terms.Text), terms.MediaType, rng)
		if err != nil {
			return nil, err
		}
		op.Assignments[OwnedTerms] = []contract.Assign{contract.NewRevealedAssign(termsSeal, attach)}
	}
	return op, nil
}

func globalData(rng io.Reader, v any) (contract.RevealedData, error) {
	raw, err := typesys.Encode(v)
	if err != nil {
		return contract.RevealedData{}, fmt.Errorf("encode %T: %w", v, err)
	}
	return contract.NewRevealedData(raw, rng)
}

// ErrSupplyOverflow is returned when amounts add up beyond 64 bits.
var ErrSupplyOverflow = errors.New("amounts overflow 64 bits")

func addAmount(sum, amount uint64) (uint64, error) {
	total, carry := bits.Add64(sum, amount, 0)
	if carry != 0 {
		return 0, ErrSupplyOverflow
	}
	return total, nil
}

// ErrUnbalanced is returned when a transfer cannot balance its
// blinding factors.
var ErrUnbalanced = errors.New("transfer blinding factors do not balance")

// Transfer builds a transfer spending inputs into outputs. Amounts must
// add up; the blinding factor of the last output is chosen so the
// commitments balance.
func Transfer(rng io.Reader, inputs []contract.RevealedValue, outputs []Allocation) (*contract.Operation, error) {
	if len(outputs) == 0 {
		return nil, errors.New("transfer needs at least one output")
	}
	var inSum, outSum uint64
	var blindIn, blindOut secp256k1.ModNScalar
	var err error
	for _, in := range inputs {
		if inSum, err = addAmount(inSum, in.Value.Uint64()); err != nil {
			return nil, fmt.Errorf("inputs: %w", err)
		}
		addBlinding(&blindIn, in.Blinding)
	}
	for _, out := range outputs {
		if outSum, err = addAmount(outSum, out.Amount); err != nil {
			return nil, fmt.Errorf("outputs: %w", err)
		}
	}
	if inSum != outSum {
		return nil, fmt.Errorf("inputs carry %d, outputs %d", inSum, outSum)
	}

	assets := make([]contract.Assign, len(outputs))
	for i, out := range outputs[:len(outputs)-1] {
		v, err := contract.NewRevealedValue(out.Amount, rng)
		if err != nil {
			return nil, err
		}
		addBlinding(&blindOut, v.Blinding)
		assets[i] = contract.NewRevealedAssign(out.Seal, v)
	}
	blindOut.Negate()
	blindIn.Add(&blindOut)
	last, err := contract.NewBlindingFactor(blindIn.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnbalanced, err)
	}
	final := outputs[len(outputs)-1]
	assets[len(outputs)-1] = contract.NewRevealedAssign(final.Seal, contract.RevealedValueWith(final.Amount, last))

	return &contract.Operation{
		Kind:        contract.OpTransition,
		Subtype:     uint16(TransitionTransfer),
		Assignments: map[types.AssignmentType][]contract.Assign{OwnedAssets: assets},
	}, nil
}

func addBlinding(acc *secp256k1.ModNScalar, b contract.BlindingFactor) {
	var s secp256k1.ModNScalar
	raw := [32]byte(b)
	s.SetBytes(&raw)
	acc.Add(&s)
}

// Executor runs the contract's validation hooks.
//
// Inputs maps a transfer's operation id to the commitments of the state
// it spends. Resolving spent state is outside this package, so callers
// supply it.
type Executor struct {
	Types  *typesys.Registry
	Inputs map[types.OpId][]contract.PedersenCommitment
}

var _ validation.Executor = (*Executor)(nil)

func (e *Executor) Execute(_ context.Context, call validation.ScriptCall) error {
	code := call.Lib.Code()
	if int(call.Site.Pos) >= len(code) {
		return fmt.Errorf("%s: offset %d outside code segment", call.EntryPoint, call.Site.Pos)
	}
	switch code[call.Site.Pos] {
	case opCheckIssue:
		return e.checkIssue(call.Operation)
	case opCheckTransfer:
		return e.checkTransfer(call.OpId, call.Operation)
	default:
		return fmt.Errorf("%s: unknown instruction %#02x", call.EntryPoint, code[call.Site.Pos])
	}
}

func (e *Executor) checkIssue(op *contract.Operation) error {
	issued := op.Globals[GlobalIssued]
	if len(issued) != 1 {
		return errors.New("issued supply is missing")
	}
	v, err := e.Types.Decode(typesys.SemIdOf(IssuedTypeName), issued[0].Value)
	if err != nil {
		return err
	}
	supply, ok := v.(*IssuedSupply)
	if !ok {
		return fmt.Errorf("issued supply decoded as %T", v)
	}

	var allocated uint64
	for i, a := range op.Assignments[OwnedAssets] {
		state, ok := a.RevealedState()
		if !ok {
			return errors.New("genesis allocations must be revealed")
		}
		value, ok := state.(contract.RevealedValue)
		if !ok {
			return fmt.Errorf("allocation %d holds %s state", i, a.StateType())
		}
		if allocated, err = addAmount(allocated, value.Value.Uint64()); err != nil {
			return fmt.Errorf("allocations: %w", err)
		}
	}
	if allocated != supply.Supply {
		return fmt.Errorf("allocated %d, issued %d", allocated, supply.Supply)
	}
	return nil
}

func (e *Executor) checkTransfer(opid types.OpId, op *contract.Operation) error {
	inputs, ok := e.Inputs[opid]
	if !ok || len(inputs) == 0 {
		return errors.New("transfer spends nothing")
	}
	in := make([]pedersen.Commitment, len(inputs))
	for i, c := range inputs {
		in[i] = pedersen.Commitment(c)
	}
	out := make([]pedersen.Commitment, 0, len(op.Assignments[OwnedAssets]))
	for i, a := range op.Assignments[OwnedAssets] {
		c, ok := assetCommitment(a)
		if !ok {
			return fmt.Errorf("output %d holds %s state", i, a.StateType())
		}
		out = append(out, c)
	}
	if !pedersen.VerifySum(pedersen.Default, in, out) {
		return errors.New("transfer does not conserve supply")
	}
	return nil
}

// assetCommitment returns the Pedersen commitment of fungible state at
// either disclosure level.
func assetCommitment(a contract.Assign) (pedersen.Commitment, bool) {
	if state, ok := a.RevealedState(); ok {
		v, ok := state.(contract.RevealedValue)
		if !ok {
			return pedersen.Commitment{}, false
		}
		return pedersen.Commitment(v.Commitment()), true
	}
	state, _ := a.ConfidentialState()
	v, ok := state.(contract.ConcealedValue)
	return pedersen.Commitment(v.Commitment), ok
}
