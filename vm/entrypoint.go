package vm

import (
	"fmt"

	"github.com/blockberries/elderberry/strict"
	"github.com/blockberries/elderberry/types"
)

// EntryKind is the tag of an entry point.
type EntryKind uint8

const (
	EntryGenesis EntryKind = iota
	EntryTransition
	EntryExtension
	EntryGlobalState
	EntryOwnedState
)

func (k EntryKind) String() string {
	switch k {
	case EntryGenesis:
		return "genesis"
	case EntryTransition:
		return "transition"
	case EntryExtension:
		return "extension"
	case EntryGlobalState:
		return "global"
	case EntryOwnedState:
		return "owned"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// EntryPointSize is the wire size of an EntryPoint.
const EntryPointSize = 3

// EntryPoint names a validation hook. Subtype is the transition,
// extension, global or assignment type the hook applies to; it is zero
// for genesis.
type EntryPoint struct {
	Kind    EntryKind
	Subtype uint16
}

func ValidateGenesis() EntryPoint { return EntryPoint{Kind: EntryGenesis} }

func ValidateTransition(t types.TransitionType) EntryPoint {
	return EntryPoint{Kind: EntryTransition, Subtype: uint16(t)}
}

func ValidateExtension(t types.ExtensionType) EntryPoint {
	return EntryPoint{Kind: EntryExtension, Subtype: uint16(t)}
}

func ValidateGlobalState(t types.GlobalStateType) EntryPoint {
	return EntryPoint{Kind: EntryGlobalState, Subtype: uint16(t)}
}

func ValidateOwnedState(t types.AssignmentType) EntryPoint {
	return EntryPoint{Kind: EntryOwnedState, Subtype: uint16(t)}
}

// canonical drops the subtype of a genesis entry point, which carries
// none.
func (e EntryPoint) canonical() EntryPoint {
	if e.Kind == EntryGenesis {
		return ValidateGenesis()
	}
	return e
}

func (e EntryPoint) String() string {
	if e.Kind == EntryGenesis {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s(%d)", e.Kind, e.Subtype)
}

// Compare orders by kind, then subtype.
func (e EntryPoint) Compare(other EntryPoint) int {
	switch {
	case e.Kind < other.Kind:
		return -1
	case e.Kind > other.Kind:
		return 1
	case e.Subtype < other.Subtype:
		return -1
	case e.Subtype > other.Subtype:
		return 1
	default:
		return 0
	}
}

// Bytes returns the 3-byte wire form: tag then u16 LE subtype. The
// subtype of genesis is always written as zero.
func (e EntryPoint) Bytes() [EntryPointSize]byte {
	e = e.canonical()
	return [EntryPointSize]byte{uint8(e.Kind), byte(e.Subtype), byte(e.Subtype >> 8)}
}

func (e EntryPoint) StrictEncode(w *strict.Writer) {
	b := e.Bytes()
	w.Bytes(b[:])
}

// DecodeEntryPoint reads an entry point. An unknown tag fails r with a
// *strict.TagError. The subtype bytes of genesis are ignored.
func DecodeEntryPoint(r *strict.Reader) EntryPoint {
	var b [EntryPointSize]byte
	r.Bytes(b[:])
	if r.Err() != nil {
		return EntryPoint{}
	}
	kind := EntryKind(b[0])
	if kind > EntryOwnedState {
		r.Fail(&strict.TagError{Type: "EntryPoint", Tag: b[0]})
		return EntryPoint{}
	}
	return EntryPoint{Kind: kind, Subtype: uint16(b[1]) | uint16(b[2])<<8}.canonical()
}

// ParseEntryPoint parses the String form, e.g. "genesis" or
// "owned(3)".
func ParseEntryPoint(s string) (EntryPoint, error) {
	if s == EntryGenesis.String() {
		return ValidateGenesis(), nil
	}
	for k := EntryTransition; k <= EntryOwnedState; k++ {
		var sub uint16
		if _, err := fmt.Sscanf(s, k.String()+"(%d)", &sub); err == nil {
			if fmt.Sprintf("%s(%d)", k, sub) == s {
				return EntryPoint{Kind: k, Subtype: sub}, nil
			}
		}
	}
	return EntryPoint{}, fmt.Errorf("invalid entry point %q", s)
}
