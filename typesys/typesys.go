// Package typesys checks structured payloads against semantic types.
//
// Validation consumes a TypeSystem; Registry is a reflection-based
// implementation over cramberry-encoded Go values.
package typesys

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"

	"github.com/blockberries/cramberry/pkg/cramberry"

	"github.com/blockberries/elderberry/commit"
	"github.com/blockberries/elderberry/types"
)

var (
	// ErrUnknownType is returned for a SemId not known to the type system.
	ErrUnknownType = errors.New("unknown semantic type")
	// ErrNonCanonical is returned when a payload decodes but is not the
	// canonical encoding of the decoded value.
	ErrNonCanonical = errors.New("payload is not canonically encoded")
)

// TypeSystem checks that data is a valid value of the type identified
// by id.
type TypeSystem interface {
	Deserialize(id types.SemId, data []byte) error
}

// SemIdOf derives the semantic id of a named type.
func SemIdOf(name string) types.SemId {
	return types.SemId(commit.TaggedHash(commit.TagSemId, []byte(name)))
}

type entry struct {
	name string
	typ  reflect.Type
}

// Registry maps semantic ids to Go types encoded with cramberry.
//
// Register all types before sharing a Registry; lookups are safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[types.SemId]entry
}

var _ TypeSystem = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{types: make(map[types.SemId]entry)}
}

// Register binds name to the type of prototype and returns its SemId.
// prototype may be a value or a pointer; the pointed-to type is used.
func (r *Registry) Register(name string, prototype any) (types.SemId, error) {
	typ := reflect.TypeOf(prototype)
	if typ == nil {
		return types.SemId{}, fmt.Errorf("register %s: nil prototype", name)
	}
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	id := SemIdOf(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.types[id]; ok && prev.typ != typ {
		return types.SemId{}, fmt.Errorf("register %s: already bound to %s", name, prev.typ)
	}
	r.types[id] = entry{name: name, typ: typ}
	return id, nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, prototype any) types.SemId {
	id, err := r.Register(name, prototype)
	if err != nil {
		panic(err)
	}
	return id
}

// Name returns the name a SemId was registered under.
func (r *Registry) Name(id types.SemId) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.types[id]
	return e.name, ok
}

// Names returns the registered type names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for _, e := range r.types {
		names = append(names, e.name)
	}
	slices.Sort(names)
	return names
}

// Ids returns the registered semantic ids in byte order.
func (r *Registry) Ids() []types.SemId {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.SortedFunc(maps.Keys(r.types), func(a, b types.SemId) int {
		return bytes.Compare(a[:], b[:])
	})
}

// Deserialize decodes data into a fresh value of the registered type
// and requires that re-encoding it reproduces data exactly.
func (r *Registry) Deserialize(id types.SemId, data []byte) error {
	_, err := r.Decode(id, data)
	return err
}

// Decode is like Deserialize but returns the decoded value as a
// pointer to the registered type.
func (r *Registry) Decode(id types.SemId, data []byte) (any, error) {
	r.mu.RLock()
	e, ok := r.types[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknownType, id)
	}
	ptr := reflect.New(e.typ)
	v := ptr.Interface()
	if err := cramberry.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", e.name, err)
	}
	canonical, err := cramberry.Marshal(ptr.Elem().Interface())
	if err != nil {
		return nil, fmt.Errorf("re-encode %s: %w", e.name, err)
	}
	if !bytes.Equal(canonical, data) {
		return nil, fmt.Errorf("decode %s: %w", e.name, ErrNonCanonical)
	}
	return v, nil
}

// Encode serializes v with cramberry.
func Encode(v any) ([]byte, error) {
	return cramberry.Marshal(v)
}
