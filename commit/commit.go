// Package commit provides the deterministic hash commitments used to
// conceal contract state.
//
// A commitment is a tagged SHA-256 digest over the canonical strict
// encoding of a revealed value. The tag separates commitment domains so
// that equal encodings of different kinds never collide. Concealment
// is one-way: there is no function from a commitment back to its
// revealed value.
package commit

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/blockberries/elderberry/strict"
)

// Commitment tags. One per concealable kind.
const (
	TagAttachId    = "urn:elderberry:attach:id#1"
	TagAttach      = "urn:elderberry:state:attach#1"
	TagData        = "urn:elderberry:state:data#1"
	TagSeal        = "urn:elderberry:seal:secret#1"
	TagOperation   = "urn:elderberry:operation#1"
	TagSemId       = "urn:elderberry:semid#1"
	TagPedersenGen = "urn:elderberry:pedersen:generator#1"
)

// Encoder is implemented by values that have a canonical commitment
// encoding.
type Encoder interface {
	CommitEncode(w *strict.Writer)
}

// TaggedHash returns SHA256(SHA256(tag) || SHA256(tag) || msg).
func TaggedHash(tag string, msg []byte) [32]byte {
	th := sha256.Sum256([]byte(tag))
	h := sha256.New()
	h.Write(th[:])
	h.Write(th[:])
	h.Write(msg)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Encode returns the canonical commitment encoding of e.
//
// Panics if the encoding overflows a confinement bound, which the
// constructors of every Encoder in this module rule out.
func Encode(e Encoder) []byte {
	var buf bytes.Buffer
	w := strict.NewWriter(&buf)
	e.CommitEncode(w)
	if err := w.Err(); err != nil {
		panic(fmt.Sprintf("commitment encoding of %T failed: %v", e, err))
	}
	return buf.Bytes()
}

// Digest commits to e under tag.
func Digest(tag string, e Encoder) [32]byte {
	return TaggedHash(tag, Encode(e))
}
