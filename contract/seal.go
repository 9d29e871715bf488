package contract

import (
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/blockberries/elderberry/commit"
	"github.com/blockberries/elderberry/strict"
)

// SecretSeal is the concealed form of a seal definition.
type SecretSeal [32]byte

func (s SecretSeal) String() string { return hex.EncodeToString(s[:]) }

func (s SecretSeal) CommitEncode(w *strict.Writer) { w.Bytes(s[:]) }

// ExposedSeal is a seal definition that can be concealed.
type ExposedSeal interface {
	Conceal() SecretSeal
}

// BlindSeal is a single-use seal over a transaction output, blinded so
// the concealed form does not reveal the outpoint.
type BlindSeal struct {
	Txid     [32]byte
	Vout     uint32
	Blinding uint64
}

var _ ExposedSeal = BlindSeal{}

// NewBlindSeal creates a seal over txid:vout with blinding from rng.
func NewBlindSeal(txid [32]byte, vout uint32, rng io.Reader) (BlindSeal, error) {
	var b [8]byte
	if err := readRandom(rng, b[:]); err != nil {
		return BlindSeal{}, err
	}
	return BlindSeal{Txid: txid, Vout: vout, Blinding: binary.LittleEndian.Uint64(b[:])}, nil
}

func (s BlindSeal) StrictEncode(w *strict.Writer) {
	w.Bytes(s.Txid[:])
	w.U32(s.Vout)
	w.U64(s.Blinding)
}

// Conceal hashes the seal under the seal tag.
func (s BlindSeal) Conceal() SecretSeal {
	return SecretSeal(commit.Digest(commit.TagSeal, encoderFunc(s.StrictEncode)))
}
