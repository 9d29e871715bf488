package vm

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"lukechampine.com/blake3"

	"github.com/blockberries/elderberry/strict"
	"github.com/blockberries/elderberry/types"
)

// LibIdHRI is the text prefix of library ids.
const LibIdHRI = "alu"

// libIdKey keys the BLAKE3 hash producing library ids.
var libIdKey = blake3.Sum256([]byte("urn:elderberry:lib:id#1"))

const (
	// IsaIdMax is the maximum length of a single ISA extension id.
	IsaIdMax = 8
	// DependenciesMax is the maximum number of libraries a library may
	// call into.
	DependenciesMax = strict.TinyMax
)

// ErrInvalidIsa is returned for a malformed ISA extension list.
var ErrInvalidIsa = errors.New("invalid ISA extension list")

// LibId is the content identifier of a library.
type LibId [32]byte

func (id LibId) String() string { return types.EncodeBaid58(LibIdHRI, id[:]) }

func (id LibId) Compare(other LibId) int { return bytes.Compare(id[:], other[:]) }

func (id LibId) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *LibId) UnmarshalText(text []byte) error {
	parsed, err := ParseLibId(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseLibId parses the Baid58 form of a library id.
func ParseLibId(s string) (LibId, error) {
	var id LibId
	raw, err := types.DecodeBaid58(LibIdHRI, s, len(id))
	if err != nil {
		return id, err
	}
	copy(id[:], raw)
	return id, nil
}

// LibSite is a position in the code segment of a library.
type LibSite struct {
	Lib LibId
	Pos uint16
}

func (s LibSite) String() string { return fmt.Sprintf("%s@%d", s.Lib, s.Pos) }

func (s LibSite) StrictEncode(w *strict.Writer) {
	w.Bytes(s.Lib[:])
	w.U16(s.Pos)
}

// DecodeLibSite reads a site written by StrictEncode.
func DecodeLibSite(r *strict.Reader) LibSite {
	var s LibSite
	r.Bytes(s.Lib[:])
	s.Pos = r.U16()
	return s
}

// Lib is an immutable bytecode library: the ISA extensions it needs, a
// code segment, a data segment and the ids of the libraries it calls.
type Lib struct {
	isae []string
	code []byte
	data []byte
	deps []LibId
	id   LibId
}

// NewLib validates and assembles a library. isae is a space-separated
// list of upper-case ISA extension ids. Dependencies are sorted and
// deduplicated.
func NewLib(isae string, code, data []byte, deps ...LibId) (*Lib, error) {
	exts, err := parseIsae(isae)
	if err != nil {
		return nil, err
	}
	if len(code) > strict.SmallMax {
		return nil, &strict.ConfinementError{What: "code segment", Len: len(code), Max: strict.SmallMax}
	}
	if len(data) > strict.SmallMax {
		return nil, &strict.ConfinementError{What: "data segment", Len: len(data), Max: strict.SmallMax}
	}
	sorted := slices.Clone(deps)
	slices.SortFunc(sorted, LibId.Compare)
	sorted = slices.Compact(sorted)
	if len(sorted) > DependenciesMax {
		return nil, &strict.ConfinementError{What: "library dependencies", Len: len(sorted), Max: DependenciesMax}
	}
	l := &Lib{isae: exts, code: bytes.Clone(code), data: bytes.Clone(data), deps: sorted}
	l.id = LibId(hashLib(l.Serialize()))
	return l, nil
}

func parseIsae(s string) ([]string, error) {
	if len(s) > strict.TinyMax {
		return nil, fmt.Errorf("%w: %d bytes, at most %d", ErrInvalidIsa, len(s), strict.TinyMax)
	}
	exts := strings.Fields(s)
	if strings.Join(exts, " ") != s {
		return nil, fmt.Errorf("%w: %q is not single-space separated", ErrInvalidIsa, s)
	}
	for _, ext := range exts {
		if len(ext) > IsaIdMax {
			return nil, fmt.Errorf("%w: %q is longer than %d", ErrInvalidIsa, ext, IsaIdMax)
		}
		for _, c := range ext {
			if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
				return nil, fmt.Errorf("%w: %q is not upper-case alphanumeric", ErrInvalidIsa, ext)
			}
		}
		if ext[0] < 'A' {
			return nil, fmt.Errorf("%w: %q does not start with a letter", ErrInvalidIsa, ext)
		}
	}
	return exts, nil
}

func hashLib(p []byte) [32]byte {
	h := blake3.New(32, libIdKey[:])
	h.Write(p)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// ID returns the library id.
func (l *Lib) ID() LibId { return l.id }

// Isae returns the ISA extension ids.
func (l *Lib) Isae() []string { return slices.Clone(l.isae) }

func (l *Lib) Code() []byte { return bytes.Clone(l.code) }

func (l *Lib) Data() []byte { return bytes.Clone(l.data) }

// Dependencies returns the ids of called libraries, ascending.
func (l *Lib) Dependencies() []LibId { return slices.Clone(l.deps) }

// Serialize returns the binary form of the library.
func (l *Lib) Serialize() []byte {
	var buf bytes.Buffer
	w := strict.NewWriter(&buf)
	w.TinyBlob("ISA extensions", []byte(strings.Join(l.isae, " ")))
	w.SmallBlob("code segment", l.code)
	w.SmallBlob("data segment", l.data)
	w.TinyLen("library dependencies", len(l.deps))
	for _, d := range l.deps {
		w.Bytes(d[:])
	}
	if err := w.Err(); err != nil {
		// NewLib and DeserializeLib enforce every bound.
		panic(fmt.Sprintf("serialize library: %v", err))
	}
	return buf.Bytes()
}

// DeserializeLib parses the binary form of a library. Trailing bytes
// and unsorted dependencies are data-integrity errors.
func DeserializeLib(p []byte) (*Lib, error) {
	r := strict.NewReader(p)
	isae := string(r.TinyBlob())
	code := r.SmallBlob()
	data := r.SmallBlob()
	deps := make([]LibId, r.U8())
	for i := range deps {
		r.Bytes(deps[i][:])
	}
	if err := r.Done(); err != nil {
		return nil, fmt.Errorf("deserialize library: %w", err)
	}
	for i := 1; i < len(deps); i++ {
		if deps[i-1].Compare(deps[i]) >= 0 {
			return nil, strict.IntegrityError("library dependencies are not strictly ascending")
		}
	}
	exts, err := parseIsae(isae)
	if err != nil {
		return nil, strict.IntegrityError("%v", err)
	}
	l := &Lib{isae: exts, code: code, data: data, deps: deps}
	l.id = LibId(hashLib(p))
	return l, nil
}
