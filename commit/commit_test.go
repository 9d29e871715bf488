package commit

import (
	"crypto/sha256"
	"testing"

	"github.com/blockberries/elderberry/strict"
	"github.com/stretchr/testify/assert"
)

type pair struct{ a, b uint16 }

func (p pair) CommitEncode(w *strict.Writer) {
	w.U16(p.a)
	w.U16(p.b)
}

func TestTaggedHash(t *testing.T) {
	tag := sha256.Sum256([]byte("tag"))
	want := sha256.Sum256(append(append(tag[:], tag[:]...), []byte("msg")...))
	assert.Equal(t, want, TaggedHash("tag", []byte("msg")))

	assert.NotEqual(t, TaggedHash("tag-a", []byte("msg")), TaggedHash("tag-b", []byte("msg")))
}

func TestDigestDeterminism(t *testing.T) {
	p := pair{a: 1, b: 2}
	assert.Equal(t, []byte{1, 0, 2, 0}, Encode(p))

	seen := make(map[[32]byte]struct{})
	for i := 0; i < 10; i++ {
		seen[Digest(TagAttach, p)] = struct{}{}
	}
	assert.Len(t, seen, 1)
	assert.NotEqual(t, Digest(TagAttach, p), Digest(TagAttach, pair{a: 2, b: 1}))
}

type oversized struct{}

func (oversized) CommitEncode(w *strict.Writer) {
	w.TinyBlob("name", make([]byte, 300))
}

func TestEncodePanicsOnBrokenInvariant(t *testing.T) {
	assert.Panics(t, func() { Encode(oversized{}) })
}
