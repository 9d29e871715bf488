package elderberrytest

import (
	"sync"
	"testing"

	"github.com/blockberries/elderberry/pedersen"
)

// RunBackendSuite runs a standard compliance suite against a Pedersen
// commitment backend.
//
// The factory function should return a fresh backend for each test.
func RunBackendSuite(t *testing.T, factory func() pedersen.Backend) {
	t.Helper()

	b1 := scalar(0x11)
	b2 := scalar(0x22)

	t.Run("commit_deterministic", func(t *testing.T) {
		backend := factory()
		seen := make(map[pedersen.Commitment]struct{})
		for i := 0; i < 10; i++ {
			c, err := backend.Commit(15, b1)
			if err != nil {
				t.Fatalf("Commit failed: %v", err)
			}
			seen[c] = struct{}{}
		}
		if len(seen) != 1 {
			t.Errorf("expected one distinct commitment, got %d", len(seen))
		}
	})

	t.Run("commit_deterministic_across_instances", func(t *testing.T) {
		c1, err := factory().Commit(15, b1)
		if err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		c2, err := factory().Commit(15, b1)
		if err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		if c1 != c2 {
			t.Errorf("non-deterministic: %s != %s", c1, c2)
		}
	})

	t.Run("commit_injective", func(t *testing.T) {
		backend := factory()
		base := mustCommit(t, backend, 15, b1)
		if c := mustCommit(t, backend, 16, b1); c == base {
			t.Error("different values produced the same commitment")
		}
		if c := mustCommit(t, backend, 15, b2); c == base {
			t.Error("different blinding factors produced the same commitment")
		}
	})

	t.Run("homomorphic_sum", func(t *testing.T) {
		// commit(v1, b) + commit(v2, 0) == commit(v1+v2, b)
		backend := factory()
		lhs, err := backend.Add(mustCommit(t, backend, 40, b1), mustCommit(t, backend, 2, [32]byte{}))
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if rhs := mustCommit(t, backend, 42, b1); lhs != rhs {
			t.Errorf("sum %s != commit of sum %s", lhs, rhs)
		}
	})

	t.Run("verify_sum", func(t *testing.T) {
		backend := factory()
		in := []pedersen.Commitment{mustCommit(t, backend, 30, b1), mustCommit(t, backend, 12, [32]byte{})}
		out := []pedersen.Commitment{mustCommit(t, backend, 42, b1)}
		if !pedersen.VerifySum(backend, in, out) {
			t.Error("balanced sums did not verify")
		}
		out = []pedersen.Commitment{mustCommit(t, backend, 43, b1)}
		if pedersen.VerifySum(backend, in, out) {
			t.Error("unbalanced sums verified")
		}
	})

	t.Run("parse_round_trip", func(t *testing.T) {
		backend := factory()
		c := mustCommit(t, backend, 7, b2)
		parsed, err := backend.Parse(c[:])
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if parsed != c {
			t.Errorf("round trip changed commitment: %s != %s", parsed, c)
		}
		if _, err := backend.Parse(c[:pedersen.CommitmentSize-1]); err == nil {
			t.Error("short commitment parsed")
		}
		bad := c
		bad[0] = 0x02
		if _, err := backend.Parse(bad[:]); err == nil {
			t.Error("commitment with a foreign prefix parsed")
		}
	})

	t.Run("check_scalar", func(t *testing.T) {
		backend := factory()
		if err := backend.CheckScalar([32]byte{}); err == nil {
			t.Error("zero scalar accepted")
		}
		var max [32]byte
		for i := range max {
			max[i] = 0xFF
		}
		if err := backend.CheckScalar(max); err == nil {
			t.Error("scalar above the group order accepted")
		}
		if err := backend.CheckScalar(b1); err != nil {
			t.Errorf("valid scalar rejected: %v", err)
		}
	})

	t.Run("concurrent_commit", func(t *testing.T) {
		backend := factory()
		want := mustCommit(t, backend, 99, b2)
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c, err := backend.Commit(99, b2)
				if err != nil {
					t.Errorf("concurrent Commit failed: %v", err)
					return
				}
				if c != want {
					t.Errorf("concurrent Commit diverged: %s != %s", c, want)
				}
			}()
		}
		wg.Wait()
	})
}

func scalar(b byte) [32]byte {
	var out [32]byte
	out[0] = 0x01
	out[31] = b
	return out
}

func mustCommit(t *testing.T, backend pedersen.Backend, v uint64, blinding [32]byte) pedersen.Commitment {
	t.Helper()
	c, err := backend.Commit(v, blinding)
	if err != nil {
		t.Fatalf("Commit(%d) failed: %v", v, err)
	}
	return c
}
