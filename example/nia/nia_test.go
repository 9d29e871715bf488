package nia_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/elderberry/contract"
	"github.com/blockberries/elderberry/example/nia"
	elderberrytest "github.com/blockberries/elderberry/testing"
	"github.com/blockberries/elderberry/types"
	"github.com/blockberries/elderberry/validation"
)

var spec = nia.AssetSpec{Ticker: "BERRY", Name: "Elderberry Token", Precision: 8}

func newHarness(t *testing.T) (*elderberrytest.Harness, *nia.Executor) {
	t.Helper()
	s, err := nia.Schema()
	require.NoError(t, err)
	reg := nia.Types()
	h := elderberrytest.NewHarness(t, s, reg)
	exec := &nia.Executor{Types: reg, Inputs: map[types.OpId][]contract.PedersenCommitment{}}
	h.Validator().Executor = exec
	return h, exec
}

func issue(t *testing.T, h *elderberrytest.Harness, supply uint64, amounts ...uint64) *contract.Operation {
	t.Helper()
	allocs := make([]nia.Allocation, len(amounts))
	for i, a := range amounts {
		allocs[i] = nia.Allocation{Seal: h.Seal(uint32(i)), Amount: a}
	}
	terms := &nia.Terms{Text: []byte("no refunds"), MediaType: types.MustMediaType("text/plain")}
	op, err := nia.Issue(h.Rand(), spec, supply, allocs, terms, h.Seal(99))
	require.NoError(t, err)
	return op
}

func TestTypes(t *testing.T) {
	reg := nia.Types()
	assert.ElementsMatch(t, []string{nia.SpecTypeName, nia.IssuedTypeName}, reg.Names())
}

func TestIssueAccepted(t *testing.T) {
	h, _ := newHarness(t)
	op := issue(t, h, 1000, 600, 400)
	status := h.MustAccept(op)
	assert.Empty(t, status.Infos)
}

func TestIssueOverallocated(t *testing.T) {
	h, _ := newHarness(t)
	op := issue(t, h, 1000, 600, 500)
	status := h.MustReject(op, validation.ScriptFailure)
	require.Len(t, status.Failures, 1)
	assert.Contains(t, status.Failures[0].Detail, "allocated 1100, issued 1000")
}

func TestIssueAllocationOverflow(t *testing.T) {
	h, _ := newHarness(t)
	op := issue(t, h, 0, math.MaxUint64, 1)
	status := h.MustReject(op, validation.ScriptFailure)
	require.Len(t, status.Failures, 1)
	assert.Contains(t, status.Failures[0].Detail, nia.ErrSupplyOverflow.Error())
}

func TestIssueWrongAssetState(t *testing.T) {
	h, _ := newHarness(t)
	op := issue(t, h, 10, 10)
	op.Assignments[nia.OwnedAssets] = append(op.Assignments[nia.OwnedAssets],
		contract.NewRevealedAssign(h.Seal(5), h.Attach([]byte("doc"), "text/plain")))

	status := h.MustReject(op, validation.ScriptFailure)
	h.MustReject(op, validation.StateTypeMismatch)
	found := false
	for _, f := range status.Failures {
		if f.Kind == validation.ScriptFailure {
			found = true
			assert.Contains(t, f.Detail, "allocation 1 holds attachment state")
		}
	}
	assert.True(t, found)
}

func TestIssueTermsMediaType(t *testing.T) {
	h, _ := newHarness(t)
	allocs := []nia.Allocation{{Seal: h.Seal(0), Amount: 10}}
	terms := &nia.Terms{Text: []byte("{}"), MediaType: types.MustMediaType("application/json")}
	op, err := nia.Issue(h.Rand(), spec, 10, allocs, terms, h.Seal(1))
	require.NoError(t, err)
	h.MustReject(op, validation.MediaTypeMismatch)
}

func TestIssueCorruptSpec(t *testing.T) {
	h, _ := newHarness(t)
	op := issue(t, h, 10, 10)
	op.Globals[nia.GlobalSpec] = []contract.RevealedData{h.Data([]byte{0xFF, 0xFF, 0xFF})}
	h.MustReject(op, validation.SchemaInvalidGlobalValue)
}

func TestTransferConserves(t *testing.T) {
	h, exec := newHarness(t)
	in := []contract.RevealedValue{h.Value(70), h.Value(30)}

	op, err := nia.Transfer(h.Rand(), in, []nia.Allocation{
		{Seal: h.Seal(0), Amount: 55},
		{Seal: h.Seal(1), Amount: 45},
	})
	require.NoError(t, err)

	exec.Inputs[op.ID()] = []contract.PedersenCommitment{in[0].Commitment(), in[1].Commitment()}
	h.MustAccept(op)
}

func TestTransferInflation(t *testing.T) {
	h, exec := newHarness(t)
	in := h.Value(100)

	op, err := nia.Transfer(h.Rand(), []contract.RevealedValue{in}, []nia.Allocation{{Seal: h.Seal(0), Amount: 100}})
	require.NoError(t, err)

	// Swap the output for one worth more under a fresh blinding factor.
	op.Assignments[nia.OwnedAssets] = []contract.Assign{contract.NewRevealedAssign(h.Seal(0), h.Value(101))}
	exec.Inputs[op.ID()] = []contract.PedersenCommitment{in.Commitment()}

	status := h.MustReject(op, validation.ScriptFailure)
	assert.Contains(t, status.Failures[0].Detail, "does not conserve supply")
}

func TestTransferWrongAssetState(t *testing.T) {
	h, exec := newHarness(t)
	in := h.Value(5)
	revealed := contract.NewRevealedAssign(h.Seal(0), h.Attach([]byte("doc"), "text/plain"))
	concealed := contract.NewConfidentialStateAssign(h.Seal(1), h.Data([]byte("data")).Conceal())

	for name, assign := range map[string]contract.Assign{"revealed": revealed, "concealed": concealed} {
		t.Run(name, func(t *testing.T) {
			op := &contract.Operation{
				Kind:        contract.OpTransition,
				Subtype:     uint16(nia.TransitionTransfer),
				Assignments: map[types.AssignmentType][]contract.Assign{nia.OwnedAssets: {assign}},
			}
			exec.Inputs[op.ID()] = []contract.PedersenCommitment{in.Commitment()}

			status := h.MustReject(op, validation.ScriptFailure)
			h.MustReject(op, validation.StateTypeMismatch)
			var details []string
			for _, f := range status.Failures {
				details = append(details, f.Detail)
			}
			assert.Contains(t, details, "output 0 holds "+assign.StateType().String()+" state")
		})
	}
}

func TestTransferOverflow(t *testing.T) {
	h, _ := newHarness(t)
	_, err := nia.Transfer(h.Rand(), []contract.RevealedValue{h.Value(math.MaxUint64), h.Value(1)},
		[]nia.Allocation{{Seal: h.Seal(0), Amount: 1}})
	assert.ErrorIs(t, err, nia.ErrSupplyOverflow)

	_, err = nia.Transfer(h.Rand(), []contract.RevealedValue{h.Value(1)},
		[]nia.Allocation{{Seal: h.Seal(0), Amount: math.MaxUint64}, {Seal: h.Seal(1), Amount: 1}})
	assert.ErrorIs(t, err, nia.ErrSupplyOverflow)
}

func TestTransferAmountsMismatch(t *testing.T) {
	h, _ := newHarness(t)
	_, err := nia.Transfer(h.Rand(), []contract.RevealedValue{h.Value(5)}, []nia.Allocation{{Seal: h.Seal(0), Amount: 6}})
	assert.Error(t, err)

	_, err = nia.Transfer(h.Rand(), []contract.RevealedValue{h.Value(5)}, nil)
	assert.Error(t, err)
}

func TestTransferWithoutInputs(t *testing.T) {
	h, _ := newHarness(t)
	op, err := nia.Transfer(h.Rand(), []contract.RevealedValue{h.Value(5)}, []nia.Allocation{{Seal: h.Seal(0), Amount: 5}})
	require.NoError(t, err)
	h.MustReject(op, validation.ScriptFailure)
}

func TestUnknownTransition(t *testing.T) {
	h, _ := newHarness(t)
	op := &contract.Operation{Kind: contract.OpTransition, Subtype: 1}
	h.MustReject(op, validation.SchemaUnknownOperationType)
}

func TestConcealedTermsUncheckable(t *testing.T) {
	h, _ := newHarness(t)
	op := issue(t, h, 10, 10).ConcealState()
	status := h.MustAccept(op)
	require.Len(t, status.Infos, 1)
	assert.Equal(t, validation.UncheckableConfidentialState, status.Infos[0].Kind)
}
