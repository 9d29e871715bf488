package contract

import (
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/blockberries/elderberry/commit"
	"github.com/blockberries/elderberry/strict"
	"github.com/blockberries/elderberry/types"
)

// RevealedAttach is disclosed attachment state: a reference to an
// out-of-band payload together with its media type.
type RevealedAttach struct {
	Id        types.AttachId
	MediaType types.MediaType
	// Salt blinds the concealed form against guessing attacks on known
	// payloads.
	Salt uint64
}

var _ ExposedState = RevealedAttach{}

// NewRevealedAttach creates attachment state with a salt drawn from
// rng.
func NewRevealedAttach(id types.AttachId, mediaType types.MediaType, rng io.Reader) (RevealedAttach, error) {
	var salt [8]byte
	if err := readRandom(rng, salt[:]); err != nil {
		return RevealedAttach{}, err
	}
	return RevealedAttach{Id: id, MediaType: mediaType, Salt: binary.LittleEndian.Uint64(salt[:])}, nil
}

func (a RevealedAttach) StateType() types.StateType { return types.StateAttachment }

// Compare orders by id, then media type text, then salt.
func (a RevealedAttach) Compare(other RevealedAttach) int {
	if c := a.Id.Compare(other.Id); c != 0 {
		return c
	}
	ma, mb := a.MediaType.String(), other.MediaType.String()
	switch {
	case ma < mb:
		return -1
	case ma > mb:
		return 1
	case a.Salt < other.Salt:
		return -1
	case a.Salt > other.Salt:
		return 1
	default:
		return 0
	}
}

func (a RevealedAttach) StrictEncode(w *strict.Writer) {
	a.Id.CommitEncode(w)
	a.MediaType.CommitEncode(w)
	w.U64(a.Salt)
}

// DecodeRevealedAttach reads a value written by StrictEncode.
func DecodeRevealedAttach(r *strict.Reader) RevealedAttach {
	var a RevealedAttach
	r.Bytes(a.Id[:])
	a.MediaType = types.DecodeMediaType(r)
	a.Salt = r.U64()
	if r.Err() != nil {
		return RevealedAttach{}
	}
	return a
}

// Commitment hashes the strict encoding under the attachment tag.
func (a RevealedAttach) Commitment() ConcealedAttach {
	return ConcealedAttach(commit.Digest(commit.TagAttach, encoderFunc(a.StrictEncode)))
}

func (a RevealedAttach) Conceal() ConfidentialState { return a.Commitment() }

// CommitEncode writes the concealed form, so revealed and concealed
// attachments contribute identically to operation ids.
func (a RevealedAttach) CommitEncode(w *strict.Writer) { a.Commitment().CommitEncode(w) }

func (RevealedAttach) isExposedState() {}

// ConcealedAttach is the tagged hash of a RevealedAttach.
type ConcealedAttach [32]byte

var _ ConfidentialState = ConcealedAttach{}

func (c ConcealedAttach) StateType() types.StateType { return types.StateAttachment }

func (c ConcealedAttach) String() string { return hex.EncodeToString(c[:]) }

func (c ConcealedAttach) CommitEncode(w *strict.Writer) { w.Bytes(c[:]) }

func (ConcealedAttach) isConfidentialState() {}
