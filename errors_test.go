package elderberry

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMisuseError(t *testing.T) {
	err := NewMisuseError("Script.EntryPoint", "no single entry point")
	assert.Equal(t, "Script.EntryPoint", err.Op)
	assert.Equal(t,
		"github.com/blockberries/elderberry: misuse of Script.EntryPoint: no single entry point",
		err.Error())
}

func TestIsMisuse(t *testing.T) {
	m, ok := IsMisuse(NewMisuseError("op", "reason"))
	require.True(t, ok)
	assert.Equal(t, "op", m.Op)

	// Wrapped.
	m, ok = IsMisuse(fmt.Errorf("wrapped: %w", NewMisuseError("wrapped-op", "reason")))
	require.True(t, ok)
	assert.Equal(t, "wrapped-op", m.Op)

	_, ok = IsMisuse(errors.New("just a regular error"))
	assert.False(t, ok)

	_, ok = IsMisuse(nil)
	assert.False(t, ok)
}

func TestMisusePanics(t *testing.T) {
	recovered := func() (err error) {
		defer func() { err = RecoverMisuse(recover()) }()
		Misuse("Conceal", "unsupported")
		return nil
	}()
	m, ok := IsMisuse(recovered)
	require.True(t, ok)
	assert.Equal(t, "Conceal", m.Op)

	assert.NoError(t, RecoverMisuse(nil))
	assert.PanicsWithValue(t, "other", func() { _ = RecoverMisuse("other") })
}
