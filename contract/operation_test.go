package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/elderberry"
	"github.com/blockberries/elderberry/types"
)

func testOperation(t *testing.T) *Operation {
	t.Helper()
	rng := testRand(10)

	seal := func(vout uint32) BlindSeal {
		s, err := NewBlindSeal([32]byte{0xAA}, vout, rng)
		require.NoError(t, err)
		return s
	}
	ticker, err := NewRevealedData([]byte("TICK"), rng)
	require.NoError(t, err)
	value, err := NewRevealedValue(1000, rng)
	require.NoError(t, err)
	attach, err := NewRevealedAttach(types.AttachIdFromContent([]byte("doc")), types.MustMediaType("text/plain"), rng)
	require.NoError(t, err)
	data, err := NewRevealedData([]byte("owned"), rng)
	require.NoError(t, err)

	return &Operation{
		Kind:    OpGenesis,
		Globals: map[types.GlobalStateType][]RevealedData{1: {ticker}},
		Assignments: map[types.AssignmentType][]Assign{
			10: {NewRevealedAssign(seal(0), value)},
			20: {NewRevealedAssign(seal(1), attach)},
			30: {NewRevealedAssign(seal(2), data), NewRevealedAssign(seal(3), VoidState{})},
		},
	}
}

func TestOperationIDStableUnderConcealment(t *testing.T) {
	op := testOperation(t)
	id := op.ID()
	assert.Equal(t, id, op.ID())

	concealed := op.ConcealState()
	assert.Equal(t, id, concealed.ID())
	for _, a := range concealed.Assignments[20] {
		assert.True(t, a.IsStateConcealed())
	}
	for _, a := range concealed.Assignments[10] {
		assert.False(t, a.IsStateConcealed())
	}

	for typ, assigns := range op.Assignments {
		for i := range assigns {
			assigns[i] = assigns[i].ConcealSeal()
		}
		op.Assignments[typ] = assigns
	}
	assert.Equal(t, id, op.ID())
}

func TestOperationIDCoversContent(t *testing.T) {
	op := testOperation(t)
	id := op.ID()

	op.Subtype = 1
	assert.NotEqual(t, id, op.ID())
	op.Subtype = 0

	op.Kind = OpTransition
	assert.NotEqual(t, id, op.ID())
	op.Kind = OpGenesis

	op.Assignments[10] = op.Assignments[10][:0]
	assert.NotEqual(t, id, op.ID())
}

func TestOperationTypesSorted(t *testing.T) {
	op := testOperation(t)
	assert.Equal(t, []types.AssignmentType{10, 20, 30}, op.AssignmentTypes())
	assert.Equal(t, []types.GlobalStateType{1}, op.GlobalTypes())
}

func TestAssignDisclosure(t *testing.T) {
	rng := testRand(11)
	s, err := NewBlindSeal([32]byte{1}, 1, rng)
	require.NoError(t, err)
	d, err := NewRevealedData([]byte("v"), rng)
	require.NoError(t, err)

	revealed := NewRevealedAssign(s, d)
	assert.Equal(t, AssignRevealed, revealed.Kind())
	assert.Equal(t, s.Conceal(), revealed.SecretSeal())

	levels := []Assign{
		revealed,
		revealed.ConcealSeal(),
		revealed.ConcealState(),
		revealed.ConcealState().ConcealSeal(),
		NewConfidentialAssign(s.Conceal(), d.Conceal()),
	}
	want := commitBytes(revealed)
	for _, a := range levels {
		assert.Equal(t, want, commitBytes(a), a.Kind().String())
		assert.Equal(t, types.StateStructured, a.StateType())
	}
	assert.Equal(t, AssignConfidentialSeal, levels[1].Kind())
	assert.Equal(t, AssignConfidentialState, levels[2].Kind())
	assert.Equal(t, AssignConfidential, levels[3].Kind())

	_, ok := levels[1].RevealedSeal()
	assert.False(t, ok)
	st, ok := levels[2].ConfidentialState()
	require.True(t, ok)
	assert.Equal(t, d.Conceal(), st)

	// Revealed state is kept on the original.
	got, ok := revealed.RevealedState()
	require.True(t, ok)
	assert.Equal(t, d, got)
}

func TestAssignNilStateIsMisuse(t *testing.T) {
	err := func() (err error) {
		defer func() { err = elderberry.RecoverMisuse(recover()) }()
		NewConfidentialAssign(SecretSeal{}, nil)
		return nil
	}()
	_, ok := elderberry.IsMisuse(err)
	assert.True(t, ok)
}

func TestConcealFungibleAssignPanics(t *testing.T) {
	s, err := NewBlindSeal([32]byte{1}, 1, testRand(12))
	require.NoError(t, err)
	a := NewRevealedAssign(s, RevealedValueWith(5, mustBlinding(t, 1)))
	assert.Panics(t, func() { a.ConcealState() })
}

func TestZeroAssign(t *testing.T) {
	var a Assign
	assert.False(t, a.HasState())
	assert.Equal(t, types.StateNone, a.StateType())
	assert.Equal(t, a, a.ConcealState())

	op := &Operation{Kind: OpGenesis, Assignments: map[types.AssignmentType][]Assign{1: {a}}}
	assert.NotPanics(t, func() { op.ID() })
	assert.Equal(t, op.ID(), op.ConcealState().ID())
}
