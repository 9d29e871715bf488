// Package elderberrytest provides test utilities for code built on
// elderberry: configurable mocks of the validator's collaborators, a
// harness for building and validating operations with deterministic
// randomness, and a compliance suite for Pedersen backends.
package elderberrytest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/blockberries/elderberry/types"
	"github.com/blockberries/elderberry/typesys"
	"github.com/blockberries/elderberry/validation"
)

// Compile-time checks.
var (
	_ typesys.TypeSystem  = (*MockTypeSystem)(nil)
	_ validation.Executor = (*MockExecutor)(nil)
)

// MockTypeSystem is a configurable type system. Unconfigured, it
// accepts every payload.
type MockTypeSystem struct {
	// DeserializeFn overrides the default behavior if set.
	DeserializeFn func(id types.SemId, data []byte) error

	// Call counter (atomic for concurrent access).
	DeserializeCalls atomic.Int64
}

func (m *MockTypeSystem) Deserialize(id types.SemId, data []byte) error {
	m.DeserializeCalls.Add(1)
	if m.DeserializeFn != nil {
		return m.DeserializeFn(id, data)
	}
	return nil
}

// RejectingTypeSystem returns a type system that fails every payload
// with err.
func RejectingTypeSystem(err error) *MockTypeSystem {
	return &MockTypeSystem{DeserializeFn: func(types.SemId, []byte) error { return err }}
}

// MockExecutor is a configurable script executor that records every
// call. Unconfigured, it accepts every operation.
type MockExecutor struct {
	mu    sync.Mutex
	calls []validation.ScriptCall

	// ExecuteFn overrides the default behavior if set.
	ExecuteFn func(context.Context, validation.ScriptCall) error

	ExecuteCalls atomic.Int64
}

func (m *MockExecutor) Execute(ctx context.Context, call validation.ScriptCall) error {
	m.ExecuteCalls.Add(1)
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
	if m.ExecuteFn != nil {
		return m.ExecuteFn(ctx, call)
	}
	return nil
}

// Calls returns the recorded calls in arrival order.
func (m *MockExecutor) Calls() []validation.ScriptCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]validation.ScriptCall, len(m.calls))
	copy(out, m.calls)
	return out
}
