package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blockberries/elderberry/strict"
)

// MediaWildcard matches any type or subtype in a schema declaration.
const MediaWildcard = "*"

const mediaNameMax = 127

// ErrInvalidMediaType is wrapped by media type parse errors.
var ErrInvalidMediaType = errors.New("invalid media type")

// MediaType is an IANA-style media type. No registry is enforced so
// non-standard types may be used. Names are stored in lower case.
type MediaType struct {
	Type    string
	Subtype string // empty when absent
	Charset string // empty when absent
}

// ParseMediaType parses "type", "type/subtype" or
// "type/subtype; charset=x".
func ParseMediaType(s string) (MediaType, error) {
	var m MediaType
	main, params, hasParams := strings.Cut(s, ";")
	ty, sub, hasSub := strings.Cut(strings.TrimSpace(main), "/")
	m.Type = strings.ToLower(ty)
	if hasSub {
		m.Subtype = strings.ToLower(sub)
		if m.Subtype == "" {
			return MediaType{}, fmt.Errorf("%w %q: empty subtype", ErrInvalidMediaType, s)
		}
	}
	if hasParams {
		key, val, ok := strings.Cut(strings.TrimSpace(params), "=")
		if !ok || strings.ToLower(strings.TrimSpace(key)) != "charset" {
			return MediaType{}, fmt.Errorf("%w %q: only the charset parameter is supported", ErrInvalidMediaType, s)
		}
		m.Charset = strings.ToLower(strings.TrimSpace(val))
	}
	if err := m.Validate(); err != nil {
		return MediaType{}, fmt.Errorf("%w %q: %v", ErrInvalidMediaType, s, err)
	}
	return m, nil
}

// MustMediaType is ParseMediaType for constant inputs. Panics on error.
func MustMediaType(s string) MediaType {
	m, err := ParseMediaType(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Validate checks every name against the RFC 6838 restricted-name
// alphabet. Type and subtype may also be the wildcard.
func (m MediaType) Validate() error {
	if m.Type != MediaWildcard {
		if err := checkMediaName("type", m.Type); err != nil {
			return err
		}
	}
	if m.Subtype != "" && m.Subtype != MediaWildcard {
		if err := checkMediaName("subtype", m.Subtype); err != nil {
			return err
		}
	}
	if m.Charset != "" {
		if err := checkMediaName("charset", m.Charset); err != nil {
			return err
		}
	}
	return nil
}

func checkMediaName(what, name string) error {
	if name == "" || len(name) > mediaNameMax {
		return fmt.Errorf("%s must be 1..%d characters", what, mediaNameMax)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case i > 0 && strings.IndexByte("!#$&-^_.+", c) >= 0:
		default:
			return fmt.Errorf("%s %q contains %q", what, name, c)
		}
	}
	return nil
}

func (m MediaType) String() string {
	s := m.Type
	if m.Subtype != "" {
		s += "/" + m.Subtype
	}
	if m.Charset != "" {
		s += "; charset=" + m.Charset
	}
	return s
}

// Conforms reports whether m is permitted where declared is expected:
// declared type "*" accepts anything; otherwise types must match and
// an empty or "*" declared subtype accepts any subtype. A declared
// charset must match exactly.
func (m MediaType) Conforms(declared MediaType) bool {
	if declared.Type == MediaWildcard {
		return true
	}
	if m.Type != declared.Type {
		return false
	}
	if declared.Subtype != "" && declared.Subtype != MediaWildcard && m.Subtype != declared.Subtype {
		return false
	}
	return declared.Charset == "" || m.Charset == declared.Charset
}

func (m MediaType) CommitEncode(w *strict.Writer) {
	w.TinyBlob("media type", []byte(m.Type))
	for _, opt := range []string{m.Subtype, m.Charset} {
		w.Option(opt != "")
		if opt != "" {
			w.TinyBlob("media type", []byte(opt))
		}
	}
}

// DecodeMediaType reads a media type written by CommitEncode.
func DecodeMediaType(r *strict.Reader) MediaType {
	m := MediaType{Type: string(r.TinyBlob())}
	if r.Option("Option<MediaRegName>") {
		m.Subtype = string(r.TinyBlob())
	}
	if r.Option("Option<MediaRegName>") {
		m.Charset = string(r.TinyBlob())
	}
	if r.Err() == nil {
		if err := m.Validate(); err != nil {
			r.Fail(strict.IntegrityError("media type: %v", err))
		}
	}
	return m
}
