package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"lukechampine.com/blake3"
)

// Baid58 is the text form of identifiers: a human-readable prefix
// naming the identifier kind, a colon, and the base58 encoding of the
// payload followed by a 4-byte checksum. The checksum is a BLAKE3 hash
// of the payload keyed by the hash of the prefix, so a valid string of
// one kind never parses as another.
const baid58ChecksumLen = 4

var (
	ErrInvalidPrefix    = errors.New("invalid identifier prefix")
	ErrInvalidBase58    = errors.New("invalid base58 encoding")
	ErrInvalidLength    = errors.New("invalid identifier length")
	ErrChecksumMismatch = errors.New("identifier checksum mismatch")
)

// ParseError reports a malformed identifier string.
type ParseError struct {
	HRI   string
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s identifier %q: %v", e.HRI, e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EncodeBaid58 renders payload with the given prefix.
func EncodeBaid58(hri string, payload []byte) string {
	sum := baid58Checksum(hri, payload)
	buf := make([]byte, 0, len(payload)+baid58ChecksumLen)
	buf = append(buf, payload...)
	buf = append(buf, sum[:]...)
	return hri + ":" + base58.Encode(buf)
}

// DecodeBaid58 parses a string produced by EncodeBaid58 for the given
// prefix and payload size.
func DecodeBaid58(hri, s string, size int) ([]byte, error) {
	fail := func(err error) ([]byte, error) {
		return nil, &ParseError{HRI: hri, Input: s, Err: err}
	}
	body, ok := strings.CutPrefix(s, hri+":")
	if !ok {
		return fail(ErrInvalidPrefix)
	}
	raw, err := base58.Decode(body)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrInvalidBase58, err))
	}
	if len(raw) != size+baid58ChecksumLen {
		return fail(ErrInvalidLength)
	}
	payload := raw[:size]
	sum := baid58Checksum(hri, payload)
	if string(sum[:]) != string(raw[size:]) {
		return fail(ErrChecksumMismatch)
	}
	return payload, nil
}

func baid58Checksum(hri string, payload []byte) [baid58ChecksumLen]byte {
	key := blake3.Sum256([]byte(hri))
	h := blake3.New(32, key[:])
	h.Write(payload)
	var out [baid58ChecksumLen]byte
	copy(out[:], h.Sum(nil))
	return out
}
