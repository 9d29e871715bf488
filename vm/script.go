package vm

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/blockberries/elderberry"
	"github.com/blockberries/elderberry/strict"
)

// LibsMaxTotal is the maximum number of libraries a single script may
// hold, i.e. the maximum number of nodes in a library dependency tree.
const LibsMaxTotal = 1024

var (
	// ErrTooManyLibs is returned when a script would exceed LibsMaxTotal.
	ErrTooManyLibs = fmt.Errorf("script holds more than %d libraries", LibsMaxTotal)
	// ErrLibMissing is returned when an entry point references a library
	// the script does not hold.
	ErrLibMissing = fmt.Errorf("%w: entry point references unknown library", strict.ErrDataIntegrity)
	// ErrNoEntryPoint is returned when resolving an entry point that was
	// never set.
	ErrNoEntryPoint = errors.New("entry point not defined")
)

// Script is the bytecode program of a contract schema: libraries keyed
// by id and the entry point of each validation hook.
//
// A Script is built with NewScript, AddLib and SetEntryPoint before
// validation starts and only read afterwards; it is then safe for
// concurrent use.
type Script struct {
	libs        map[LibId]*Lib
	entryPoints map[EntryPoint]LibSite
}

// NewScript creates a script holding libs.
func NewScript(libs ...*Lib) (*Script, error) {
	s := &Script{
		libs:        make(map[LibId]*Lib, len(libs)),
		entryPoints: make(map[EntryPoint]LibSite),
	}
	for _, l := range libs {
		if err := s.AddLib(l); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddLib adds a library. Adding a library already present is a no-op.
func (s *Script) AddLib(l *Lib) error {
	if s.libs == nil {
		s.libs = make(map[LibId]*Lib)
	}
	if _, ok := s.libs[l.ID()]; ok {
		return nil
	}
	if len(s.libs) >= LibsMaxTotal {
		return ErrTooManyLibs
	}
	s.libs[l.ID()] = l
	return nil
}

// SetEntryPoint binds ep to site, replacing any previous binding.
func (s *Script) SetEntryPoint(ep EntryPoint, site LibSite) error {
	ep = ep.canonical()
	if s.entryPoints == nil {
		s.entryPoints = make(map[EntryPoint]LibSite)
	}
	if _, ok := s.entryPoints[ep]; !ok && len(s.entryPoints) >= strict.SmallMax {
		return &strict.ConfinementError{What: "entry points", Len: len(s.entryPoints) + 1, Max: strict.SmallMax}
	}
	s.entryPoints[ep] = site
	return nil
}

// EntryPointSite returns the site bound to ep.
func (s *Script) EntryPointSite(ep EntryPoint) (LibSite, bool) {
	site, ok := s.entryPoints[ep.canonical()]
	return site, ok
}

// Lib returns the library with the given id.
func (s *Script) Lib(id LibId) (*Lib, bool) {
	l, ok := s.libs[id]
	return l, ok
}

// Resolve returns the site bound to ep and the library it points into.
// It fails with ErrNoEntryPoint when ep is unbound and with
// ErrLibMissing when the library is not held by the script.
func (s *Script) Resolve(ep EntryPoint) (LibSite, *Lib, error) {
	site, ok := s.entryPoints[ep.canonical()]
	if !ok {
		return LibSite{}, nil, fmt.Errorf("%s: %w", ep, ErrNoEntryPoint)
	}
	l, ok := s.libs[site.Lib]
	if !ok {
		return site, nil, fmt.Errorf("%s at %s: %w", ep, site, ErrLibMissing)
	}
	return site, l, nil
}

// LibCount returns the number of libraries held.
func (s *Script) LibCount() uint16 { return uint16(len(s.libs)) }

// Libs returns the libraries ordered by id.
func (s *Script) Libs() []*Lib {
	ids := slices.SortedFunc(maps.Keys(s.libs), LibId.Compare)
	out := make([]*Lib, len(ids))
	for i, id := range ids {
		out[i] = s.libs[id]
	}
	return out
}

// EntryPoints returns the bound entry points in ascending order.
func (s *Script) EntryPoints() []EntryPoint {
	return slices.SortedFunc(maps.Keys(s.entryPoints), EntryPoint.Compare)
}

// EntryPoint always panics with a *elderberry.MisuseError: a script
// has one entry point per validation hook, never a single one. Use
// EntryPointSite or Resolve.
func (s *Script) EntryPoint() LibSite {
	elderberry.Misuse("Script.EntryPoint", "a script does not have a single entry point")
	return LibSite{}
}

// MarshalBinary encodes the script. Libraries are written as a map of
// id to serialized body with a u8 count, so at most 255 libraries with
// bodies up to 65535 bytes can be encoded. Entry points follow with a
// u16 count.
func (s *Script) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	w := strict.NewWriter(&buf)
	libs := s.Libs()
	if !w.TinyLen("script libraries", len(libs)) {
		return nil, w.Err()
	}
	for _, l := range libs {
		id := l.ID()
		w.Bytes(id[:])
		w.SmallBlob("library "+id.String(), l.Serialize())
	}
	eps := s.EntryPoints()
	w.SmallLen("entry points", len(eps))
	for _, ep := range eps {
		ep.StrictEncode(w)
		s.entryPoints[ep].StrictEncode(w)
	}
	if err := w.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a script written by MarshalBinary. Map keys
// must be strictly ascending, every library blob must parse and hash
// to its key.
func (s *Script) UnmarshalBinary(data []byte) error {
	r := strict.NewReader(data)
	out := &Script{libs: make(map[LibId]*Lib), entryPoints: make(map[EntryPoint]LibSite)}

	var prevId *LibId
	for n := int(r.U8()); n > 0 && r.Err() == nil; n-- {
		var id LibId
		r.Bytes(id[:])
		blob := r.SmallBlob()
		if r.Err() != nil {
			break
		}
		if prevId != nil && prevId.Compare(id) >= 0 {
			return strict.IntegrityError("script library ids are not strictly ascending")
		}
		prevId = &id
		l, err := DeserializeLib(blob)
		if err != nil {
			return fmt.Errorf("script library %s: %w", id, err)
		}
		if l.ID() != id {
			return strict.IntegrityError("script library keyed %s has id %s", id, l.ID())
		}
		out.libs[id] = l
	}

	var prevEp *EntryPoint
	for n := int(r.U16()); n > 0 && r.Err() == nil; n-- {
		ep := DecodeEntryPoint(r)
		site := DecodeLibSite(r)
		if r.Err() != nil {
			break
		}
		if prevEp != nil && prevEp.Compare(ep) >= 0 {
			return strict.IntegrityError("script entry points are not strictly ascending")
		}
		prevEp = &ep
		out.entryPoints[ep] = site
	}
	if err := r.Done(); err != nil {
		return fmt.Errorf("decode script: %w", err)
	}
	*s = *out
	return nil
}
