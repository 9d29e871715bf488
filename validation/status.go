package validation

import (
	"fmt"

	"github.com/blockberries/cramberry/pkg/cramberry"
	"github.com/hashicorp/go-multierror"

	"github.com/blockberries/elderberry/types"
)

// FailureKind identifies why an operation is invalid.
type FailureKind uint8

const (
	// StateTypeMismatch: the state kind differs from the slot declaration.
	StateTypeMismatch FailureKind = iota + 1
	// MediaTypeMismatch: an attachment does not conform to the declared
	// media type.
	MediaTypeMismatch
	// FungibleTypeMismatch: a revealed value has the wrong numeric
	// representation.
	FungibleTypeMismatch
	// BulletproofsInvalid: a concealed value's range proof did not verify.
	BulletproofsInvalid
	// SchemaInvalidOwnedValue: a structured owned payload does not
	// deserialize as the declared semantic type.
	SchemaInvalidOwnedValue
	// SchemaUnknownOwnedType: the operation uses an owned slot the
	// schema does not declare.
	SchemaUnknownOwnedType
	// SchemaUnknownGlobalType: the operation uses a global slot the
	// schema does not declare.
	SchemaUnknownGlobalType
	// SchemaInvalidGlobalValue: a global payload does not deserialize
	// as the declared semantic type.
	SchemaInvalidGlobalValue
	// SchemaGlobalStateLimit: a global slot holds more items than allowed.
	SchemaGlobalStateLimit
	// SchemaUnknownOperationType: the transition or extension subtype is
	// not defined by the schema.
	SchemaUnknownOperationType
	// ScriptLibMissing: an entry point references a library the script
	// does not hold.
	ScriptLibMissing
	// ScriptFailure: a validation hook rejected the operation.
	ScriptFailure
)

var failureNames = map[FailureKind]string{
	StateTypeMismatch:          "state type mismatch",
	MediaTypeMismatch:          "media type mismatch",
	FungibleTypeMismatch:       "fungible type mismatch",
	BulletproofsInvalid:        "invalid bulletproofs",
	SchemaInvalidOwnedValue:    "invalid owned state value",
	SchemaUnknownOwnedType:     "unknown owned state type",
	SchemaUnknownGlobalType:    "unknown global state type",
	SchemaInvalidGlobalValue:   "invalid global state value",
	SchemaGlobalStateLimit:     "global state limit exceeded",
	SchemaUnknownOperationType: "unknown operation type",
	ScriptLibMissing:           "script library missing",
	ScriptFailure:              "script failure",
}

func (k FailureKind) String() string {
	if s, ok := failureNames[k]; ok {
		return s
	}
	return fmt.Sprintf("unknown failure(%d)", uint8(k))
}

// InfoKind identifies a non-fatal validation note.
type InfoKind uint8

const (
	// UncheckableConfidentialState: concealed state whose content could
	// not be checked against the schema.
	UncheckableConfidentialState InfoKind = iota + 1
	// ScriptDeferred: a validation hook exists but no executor was
	// available to run it.
	ScriptDeferred
)

func (k InfoKind) String() string {
	switch k {
	case UncheckableConfidentialState:
		return "uncheckable confidential state"
	case ScriptDeferred:
		return "script deferred"
	default:
		return fmt.Sprintf("unknown info(%d)", uint8(k))
	}
}

// Failure is one reason an operation is invalid. Slot is the
// assignment, global, transition or extension type concerned.
type Failure struct {
	Kind     FailureKind `cramberry:"1"`
	OpId     types.OpId  `cramberry:"2"`
	Slot     uint16      `cramberry:"3"`
	Expected string      `cramberry:"4"`
	Found    string      `cramberry:"5"`
	Detail   string      `cramberry:"6"`
}

func (f Failure) Error() string {
	msg := fmt.Sprintf("operation %s slot %d: %s", f.OpId, f.Slot, f.Kind)
	if f.Expected != "" || f.Found != "" {
		msg += fmt.Sprintf(": expected %s, found %s", f.Expected, f.Found)
	}
	if f.Detail != "" {
		msg += ": " + f.Detail
	}
	return msg
}

// Info is a non-fatal note.
type Info struct {
	Kind   InfoKind   `cramberry:"1"`
	OpId   types.OpId `cramberry:"2"`
	Slot   uint16     `cramberry:"3"`
	Detail string     `cramberry:"4"`
}

func (i Info) String() string {
	msg := fmt.Sprintf("operation %s slot %d: %s", i.OpId, i.Slot, i.Kind)
	if i.Detail != "" {
		msg += ": " + i.Detail
	}
	return msg
}

// Status accumulates validation outcomes in the order they were found.
// Any failure marks the operation invalid.
type Status struct {
	Failures []Failure `cramberry:"1"`
	Infos    []Info    `cramberry:"2"`
}

func NewStatus() *Status { return &Status{} }

func (s *Status) AddFailure(f Failure) { s.Failures = append(s.Failures, f) }

func (s *Status) AddInfo(i Info) { s.Infos = append(s.Infos, i) }

// Merge appends the records of other, keeping their order.
func (s *Status) Merge(other *Status) {
	if other == nil {
		return
	}
	s.Failures = append(s.Failures, other.Failures...)
	s.Infos = append(s.Infos, other.Infos...)
}

// IsValid reports whether no failure was recorded.
func (s *Status) IsValid() bool { return len(s.Failures) == 0 }

// Err folds the failures into a *multierror.Error, or returns nil for a
// valid status.
func (s *Status) Err() error {
	var result *multierror.Error
	for _, f := range s.Failures {
		result = multierror.Append(result, f)
	}
	return result.ErrorOrNil()
}

// Encode serializes the status with cramberry.
func (s *Status) Encode() ([]byte, error) {
	return cramberry.Marshal(*s)
}

// DecodeStatus parses a status produced by Encode.
func DecodeStatus(data []byte) (*Status, error) {
	var s Status
	if err := cramberry.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &s, nil
}
