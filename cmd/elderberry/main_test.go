package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/elderberry/contract"
	"github.com/blockberries/elderberry/types"
	"github.com/blockberries/elderberry/vm"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAttachId(t *testing.T) {
	file := filepath.Join(t.TempDir(), "terms.txt")
	require.NoError(t, os.WriteFile(file, []byte("terms"), 0644))

	out, err := run(t, "attach", "id", file)
	require.NoError(t, err)
	assert.Equal(t, types.AttachIdFromContent([]byte("terms")).String()+"\n", out)

	_, err = run(t, "attach", "id", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestAttachConceal(t *testing.T) {
	id := types.AttachIdFromContent([]byte("terms"))
	out, err := run(t, "attach", "conceal", "--id", id.String(), "--media-type", "text/plain", "--salt", "5")
	require.NoError(t, err)

	want := contract.RevealedAttach{Id: id, MediaType: types.MustMediaType("text/plain"), Salt: 5}.Commitment()
	assert.Contains(t, out, "salt: 5\n")
	assert.Contains(t, out, "concealed: "+want.String())

	_, err = run(t, "attach", "conceal", "--id", "att:bogus", "--media-type", "text/plain")
	assert.Error(t, err)
}

func TestValueCommitAndSum(t *testing.T) {
	const b1 = "0100000000000000000000000000000000000000000000000000000000000011"
	out, err := run(t, "value", "commit", "40", "--blinding", b1)
	require.NoError(t, err)
	c1 := field(t, out, "commitment")

	bf, err := contract.ParseBlindingFactor(b1)
	require.NoError(t, err)
	assert.Equal(t, contract.RevealedValueWith(40, bf).Commitment().String(), c1)

	out, err = run(t, "value", "commit", "2")
	require.NoError(t, err)
	c2 := field(t, out, "commitment")
	assert.Len(t, field(t, out, "blinding"), 64)

	out, err = run(t, "value", "sum", c1, c2)
	require.NoError(t, err)
	assert.Len(t, strings.TrimSpace(out), 66)

	_, err = run(t, "value", "sum", "zz")
	assert.Error(t, err)
	_, err = run(t, "value", "commit", "-5")
	assert.Error(t, err)
}

func TestScriptInspect(t *testing.T) {
	lib, err := vm.NewLib("ALU", []byte{1, 2, 3}, nil)
	require.NoError(t, err)
	s, err := vm.NewScript(lib)
	require.NoError(t, err)
	require.NoError(t, s.SetEntryPoint(vm.ValidateGenesis(), vm.LibSite{Lib: lib.ID(), Pos: 2}))
	data, err := s.MarshalBinary()
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "script.bin")
	require.NoError(t, os.WriteFile(file, data, 0644))

	out, err := run(t, "script", "inspect", file)
	require.NoError(t, err)
	assert.Contains(t, out, "libraries: 1\n")
	assert.Contains(t, out, lib.ID().String())
	assert.Contains(t, out, "genesis -> "+lib.ID().String()+"@2")

	require.NoError(t, os.WriteFile(file, data[:len(data)-1], 0644))
	_, err = run(t, "script", "inspect", file)
	assert.Error(t, err)
}

func TestEntryPointEncodeDecode(t *testing.T) {
	out, err := run(t, "entrypoint", "encode", "owned(300)")
	require.NoError(t, err)
	assert.Equal(t, "042c01\n", out)

	out, err = run(t, "entrypoint", "decode", "042c01")
	require.NoError(t, err)
	assert.Equal(t, "owned(300)\n", out)

	_, err = run(t, "entrypoint", "decode", "050000")
	assert.Error(t, err)
}

func TestConfigFlag(t *testing.T) {
	file := filepath.Join(t.TempDir(), "elderberry.toml")
	_, err := run(t, "config", "init", file)
	require.NoError(t, err)

	_, err = run(t, "--config", file, "--log-level", "debug", "entrypoint", "encode", "genesis")
	assert.NoError(t, err)

	_, err = run(t, "--log-level", "loud", "entrypoint", "encode", "genesis")
	assert.Error(t, err)
}

func field(t *testing.T, out, name string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if v, ok := strings.CutPrefix(line, name+": "); ok {
			return v
		}
	}
	t.Fatalf("no %s in output %q", name, out)
	return ""
}

func TestNiaIssue(t *testing.T) {
	terms := filepath.Join(t.TempDir(), "terms.txt")
	require.NoError(t, os.WriteFile(terms, []byte("no refunds"), 0644))

	out, err := run(t, "nia", "issue", "--ticker", "BERRY", "--supply", "100",
		"--alloc", "60", "--alloc", "40", "--terms", terms)
	require.NoError(t, err)
	assert.Contains(t, out, "opid: ")
	assert.Contains(t, out, "valid: true\n")

	_, err = run(t, "nia", "issue", "--ticker", "BERRY", "--supply", "100", "--alloc", "60")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allocated 60, issued 100")

	_, err = run(t, "nia", "issue", "--ticker", "BERRY", "--supply", "0",
		"--alloc", "18446744073709551615", "--alloc", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overflow")
}
