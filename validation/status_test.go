package validation

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/elderberry/types"
)

func TestStatusMergeOrder(t *testing.T) {
	a := NewStatus()
	a.AddFailure(Failure{Kind: StateTypeMismatch, Slot: 1})
	a.AddInfo(Info{Kind: UncheckableConfidentialState, Slot: 1})

	b := NewStatus()
	b.AddFailure(Failure{Kind: MediaTypeMismatch, Slot: 2})
	b.AddInfo(Info{Kind: ScriptDeferred, Slot: 2})

	a.Merge(b)
	a.Merge(nil)
	require.Len(t, a.Failures, 2)
	assert.Equal(t, StateTypeMismatch, a.Failures[0].Kind)
	assert.Equal(t, MediaTypeMismatch, a.Failures[1].Kind)
	assert.Equal(t, ScriptDeferred, a.Infos[1].Kind)
	assert.False(t, a.IsValid())
}

func TestStatusErr(t *testing.T) {
	s := NewStatus()
	assert.NoError(t, s.Err())

	s.AddInfo(Info{Kind: ScriptDeferred})
	assert.NoError(t, s.Err(), "infos never invalidate")

	s.AddFailure(Failure{Kind: StateTypeMismatch, Expected: "void", Found: "fungible"})
	s.AddFailure(Failure{Kind: BulletproofsInvalid, Detail: "absent"})
	err := s.Err()
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)
	assert.Contains(t, err.Error(), "expected void, found fungible")

	var f Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, StateTypeMismatch, f.Kind)
}

func TestStatusEncoding(t *testing.T) {
	s := NewStatus()
	s.AddFailure(Failure{Kind: SchemaInvalidOwnedValue, OpId: types.OpId{1, 2, 3}, Slot: 7, Expected: "x", Detail: "bad"})
	s.AddInfo(Info{Kind: UncheckableConfidentialState, OpId: types.OpId{4}, Slot: 8})

	data, err := s.Encode()
	require.NoError(t, err)
	decoded, err := DecodeStatus(data)
	require.NoError(t, err)
	assert.Equal(t, s, decoded)
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "state type mismatch", StateTypeMismatch.String())
	assert.Equal(t, "unknown failure(200)", FailureKind(200).String())
	assert.Equal(t, "script deferred", ScriptDeferred.String())
}
