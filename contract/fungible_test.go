package contract

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/elderberry"
	"github.com/blockberries/elderberry/pedersen"
	"github.com/blockberries/elderberry/strict"
	"github.com/blockberries/elderberry/types"
)

func testRand(seed byte) *rand.ChaCha8 {
	var s [32]byte
	s[0] = seed
	return rand.NewChaCha8(s)
}

func mustBlinding(t *testing.T, last byte) BlindingFactor {
	t.Helper()
	var b [32]byte
	b[0] = 0x42
	b[31] = last
	bf, err := NewBlindingFactor(b)
	require.NoError(t, err)
	return bf
}

func TestCommitmentDeterminism(t *testing.T) {
	v := RevealedValueWith(15, mustBlinding(t, 1))
	seen := make(map[PedersenCommitment]struct{})
	for i := 0; i < 10; i++ {
		seen[v.Commitment()] = struct{}{}
	}
	assert.Len(t, seen, 1)
}

func TestCommitmentInjectivity(t *testing.T) {
	base := RevealedValueWith(15, mustBlinding(t, 1)).Commitment()
	assert.NotEqual(t, base, RevealedValueWith(16, mustBlinding(t, 1)).Commitment())
	assert.NotEqual(t, base, RevealedValueWith(15, mustBlinding(t, 2)).Commitment())
}

func TestRandomValuesDiffer(t *testing.T) {
	rng := testRand(1)
	a, err := NewRevealedValue(15, rng)
	require.NoError(t, err)
	b, err := NewRevealedValue(15, rng)
	require.NoError(t, err)
	assert.NotEqual(t, a.Blinding, b.Blinding)
	assert.NotEqual(t, a.Commitment(), b.Commitment())
}

func TestNewRevealedValueNoRandomness(t *testing.T) {
	_, err := NewRevealedValue(1, nil)
	assert.ErrorIs(t, err, ErrNoRandomness)

	_, err = NewRevealedValue(1, bytes.NewReader(make([]byte, 8)))
	assert.Error(t, err)
}

func TestRandomBlindingFactorRejectsOutOfRange(t *testing.T) {
	// Two out-of-range draws (all 0xFF, then zero) before a valid one.
	stream := bytes.Repeat([]byte{0xFF}, 32)
	stream = append(stream, make([]byte, 32)...)
	valid := bytes.Repeat([]byte{0x01}, 32)
	stream = append(stream, valid...)

	bf, err := RandomBlindingFactor(bytes.NewReader(stream))
	require.NoError(t, err)
	assert.Equal(t, valid, bf[:])
}

func TestBlindingFactorOverflow(t *testing.T) {
	order, err := hex.DecodeString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")
	require.NoError(t, err)

	var n [32]byte
	copy(n[:], order)
	_, err = NewBlindingFactor(n)
	assert.ErrorIs(t, err, ErrFieldOrderOverflow)

	_, err = NewBlindingFactor([32]byte{})
	assert.ErrorIs(t, err, ErrFieldOrderOverflow)

	n[31]--
	_, err = NewBlindingFactor(n)
	assert.NoError(t, err)

	_, err = ParseBlindingFactor(hex.EncodeToString(order))
	assert.ErrorIs(t, err, ErrFieldOrderOverflow)
	_, err = ParseBlindingFactor("abcd")
	assert.Error(t, err)
}

func TestRevealedValueOrdering(t *testing.T) {
	low := RevealedValueWith(10, mustBlinding(t, 9))
	high := RevealedValueWith(11, mustBlinding(t, 1))
	assert.Equal(t, -1, low.Compare(high))
	assert.Equal(t, 1, high.Compare(low))

	tieA := RevealedValueWith(10, mustBlinding(t, 1))
	tieB := RevealedValueWith(10, mustBlinding(t, 2))
	assert.Equal(t, -1, tieA.Compare(tieB))
	assert.Equal(t, 0, tieA.Compare(tieA))
}

func TestRevealedValueConcealPanics(t *testing.T) {
	v := RevealedValueWith(15, mustBlinding(t, 1))
	err := func() (err error) {
		defer func() { err = elderberry.RecoverMisuse(recover()) }()
		v.Conceal()
		return nil
	}()
	m, ok := elderberry.IsMisuse(err)
	require.True(t, ok)
	assert.Equal(t, "RevealedValue.Conceal", m.Op)
}

func TestCommitmentHomomorphism(t *testing.T) {
	b1, b2 := mustBlinding(t, 3), mustBlinding(t, 4)
	c1 := RevealedValueWith(40, b1).Commitment()
	c2 := RevealedValueWith(2, b2).Commitment()
	sum, err := pedersen.Sum(pedersen.Default, pedersen.Commitment(c1), pedersen.Commitment(c2))
	require.NoError(t, err)

	direct, err := pedersen.Default.Commit(42, addScalars(b1, b2))
	require.NoError(t, err)
	assert.Equal(t, direct, sum)
}

func TestConcealedValueNeverVerifies(t *testing.T) {
	proof, err := NewPlaceholderProof(testRand(2))
	require.NoError(t, err)
	c := ConcealedValue{Commitment: RevealedValueWith(15, mustBlinding(t, 1)).Commitment(), RangeProof: proof}

	assert.False(t, c.Verify())
	ok, err := c.VerifyRangeProof()
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrBulletproofsAbsent)
}

func TestConcealedValueEncoding(t *testing.T) {
	proof, err := NewPlaceholderProof(testRand(3))
	require.NoError(t, err)
	c := ConcealedValue{Commitment: RevealedValueWith(7, mustBlinding(t, 5)).Commitment(), RangeProof: proof}

	var buf bytes.Buffer
	w := strict.NewWriter(&buf)
	c.StrictEncode(w)
	require.NoError(t, w.Err())
	require.Equal(t, pedersen.CommitmentSize+1+PlaceholderProofSize, buf.Len())
	assert.Equal(t, byte(RangeProofPlaceholderTag), buf.Bytes()[pedersen.CommitmentSize])

	r := strict.NewReader(buf.Bytes())
	decoded := DecodeConcealedValue(r)
	require.NoError(t, r.Done())
	assert.Equal(t, c, decoded)

	// The range proof is auxiliary to the commitment.
	other, err := NewPlaceholderProof(testRand(4))
	require.NoError(t, err)
	c2 := ConcealedValue{Commitment: c.Commitment, RangeProof: other}
	assert.Equal(t, commitBytes(c), commitBytes(c2))
	assert.Equal(t, commitBytes(c), commitBytes(RevealedValueWith(7, mustBlinding(t, 5))))
}

func TestDecodeRangeProofUnknownTag(t *testing.T) {
	r := strict.NewReader([]byte{0x01})
	assert.Nil(t, DecodeRangeProof(r))
	var tagErr *strict.TagError
	require.True(t, errors.As(r.Err(), &tagErr))
	assert.Equal(t, uint8(0x01), tagErr.Tag)
}

func TestFungibleStateEncoding(t *testing.T) {
	var buf bytes.Buffer
	w := strict.NewWriter(&buf)
	Bits64(0x0102).StrictEncode(w)
	require.NoError(t, w.Err())
	assert.Equal(t, []byte{8, 0x02, 0x01, 0, 0, 0, 0, 0, 0}, buf.Bytes())

	r := strict.NewReader(buf.Bytes())
	assert.Equal(t, Bits64(0x0102), DecodeFungibleState(r))
	require.NoError(t, r.Done())

	r = strict.NewReader([]byte{16, 0, 0})
	DecodeFungibleState(r)
	assert.ErrorIs(t, r.Err(), strict.ErrDataIntegrity)

	s, err := ParseFungibleState("18446744073709551615")
	require.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551615), s.Uint64())
	assert.Equal(t, types.FungibleUnsigned64Bit, s.FungibleType())
	_, err = ParseFungibleState("-1")
	assert.Error(t, err)
}

func TestRevealedValueRoundTrip(t *testing.T) {
	v := RevealedValueWith(99, mustBlinding(t, 8))
	var buf bytes.Buffer
	w := strict.NewWriter(&buf)
	v.StrictEncode(w)
	require.NoError(t, w.Err())

	r := strict.NewReader(buf.Bytes())
	assert.Equal(t, v, DecodeRevealedValue(r))
	require.NoError(t, r.Done())
}
