package types

import (
	"github.com/blockberries/elderberry/commit"
	"github.com/blockberries/elderberry/strict"
)

// AttachIdHRI is the text prefix of attachment ids.
const AttachIdHRI = "att"

// AttachId is the content identifier of an attachment payload. The
// payload itself is carried out of band.
type AttachId Bytes32

// AttachIdFromContent derives the id of an attachment payload.
func AttachIdFromContent(payload []byte) AttachId {
	return AttachId(commit.TaggedHash(commit.TagAttachId, payload))
}

// ParseAttachId parses the Baid58 form of an attachment id.
func ParseAttachId(s string) (AttachId, error) {
	var id AttachId
	raw, err := DecodeBaid58(AttachIdHRI, s, len(id))
	if err != nil {
		return id, err
	}
	copy(id[:], raw)
	return id, nil
}

// String returns the Baid58 form, e.g. "att:3vQB7...".
func (id AttachId) String() string { return EncodeBaid58(AttachIdHRI, id[:]) }

// Compare orders attachment ids by raw bytes.
func (id AttachId) Compare(other AttachId) int { return Bytes32(id).Compare(Bytes32(other)) }

func (id AttachId) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *AttachId) UnmarshalText(text []byte) error {
	parsed, err := ParseAttachId(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id AttachId) CommitEncode(w *strict.Writer) { w.Bytes(id[:]) }
