// Package schema declares the state a contract accepts in each slot and
// the script holding its validation hooks.
package schema

import (
	"fmt"

	"github.com/blockberries/elderberry/types"
	"github.com/blockberries/elderberry/vm"
)

// StateSchema declares the kind of state an owned slot accepts.
// Implemented by Declarative, Fungible, Structured and Attachment.
type StateSchema interface {
	StateType() types.StateType
	fmt.Stringer
	isStateSchema()
}

// Declarative slots carry no value.
type Declarative struct{}

// Fungible slots carry amounts of the given numeric representation.
type Fungible struct {
	Type types.FungibleType
}

// Structured slots carry payloads of the given semantic type.
type Structured struct {
	SemId types.SemId
}

// Attachment slots carry references to out-of-band payloads whose
// media type conforms to MediaType.
type Attachment struct {
	MediaType types.MediaType
}

func (Declarative) StateType() types.StateType { return types.StateVoid }
func (Fungible) StateType() types.StateType    { return types.StateFungible }
func (Structured) StateType() types.StateType  { return types.StateStructured }
func (Attachment) StateType() types.StateType  { return types.StateAttachment }

func (Declarative) String() string  { return "declarative" }
func (s Fungible) String() string   { return "fungible(" + s.Type.String() + ")" }
func (s Structured) String() string { return "structured(" + s.SemId.String() + ")" }
func (s Attachment) String() string { return "attachment(" + s.MediaType.String() + ")" }

func (Declarative) isStateSchema() {}
func (Fungible) isStateSchema()    {}
func (Structured) isStateSchema()  {}
func (Attachment) isStateSchema()  {}

// GlobalStateSchema declares a global state slot.
type GlobalStateSchema struct {
	SemId types.SemId
	// MaxItems bounds the number of values per operation. Zero means
	// one.
	MaxItems uint16
}

// Limit returns the effective item limit.
func (g GlobalStateSchema) Limit() int {
	if g.MaxItems == 0 {
		return 1
	}
	return int(g.MaxItems)
}

// Schema is the contract schema as seen by validation. It is read-only
// once validation starts.
type Schema struct {
	Name        string
	OwnedTypes  map[types.AssignmentType]StateSchema
	GlobalTypes map[types.GlobalStateType]GlobalStateSchema
	// Script holds validation hooks. Nil means static checks only.
	Script *vm.Script
	// Transitions and Extensions list the operation subtypes the schema
	// defines. Nil accepts any subtype.
	Transitions []types.TransitionType
	Extensions  []types.ExtensionType
}

// OwnedType returns the declaration of an owned slot.
func (s *Schema) OwnedType(t types.AssignmentType) (StateSchema, bool) {
	st, ok := s.OwnedTypes[t]
	return st, ok
}

// GlobalType returns the declaration of a global slot.
func (s *Schema) GlobalType(t types.GlobalStateType) (GlobalStateSchema, bool) {
	g, ok := s.GlobalTypes[t]
	return g, ok
}
