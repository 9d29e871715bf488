package validation

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/blockberries/elderberry/contract"
	"github.com/blockberries/elderberry/schema"
	"github.com/blockberries/elderberry/types"
	"github.com/blockberries/elderberry/typesys"
	"github.com/blockberries/elderberry/vm"
)

// ScriptCall is a resolved validation hook ready for execution.
type ScriptCall struct {
	EntryPoint vm.EntryPoint
	Site       vm.LibSite
	Lib        *vm.Lib
	Script     *vm.Script
	OpId       types.OpId
	Operation  *contract.Operation
}

// Executor runs validation hooks. A returned error rejects the
// operation with ScriptFailure.
type Executor interface {
	Execute(ctx context.Context, call ScriptCall) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, call ScriptCall) error

func (f ExecutorFunc) Execute(ctx context.Context, call ScriptCall) error { return f(ctx, call) }

// Validator validates contract operations against a schema. All fields
// are read-only while validation runs, so one Validator may validate
// many operations concurrently.
type Validator struct {
	Schema *schema.Schema
	Types  typesys.TypeSystem
	// Executor runs script hooks. Nil records ScriptDeferred instead.
	Executor Executor
	Logger   *zap.Logger
	// Workers bounds ValidateBatch parallelism. Zero or less means one
	// worker per operation.
	Workers int
}

func (v *Validator) logger() *zap.Logger {
	if v.Logger == nil {
		return zap.NewNop()
	}
	return v.Logger
}

// ValidateOperation checks global state, then every assignment, then
// runs the script hooks that apply: the operation hook, one hook per
// global type present and one per owned type present.
//
// Invalid input is reported in the returned status. The error is
// non-nil only if ctx is cancelled.
func (v *Validator) ValidateOperation(ctx context.Context, op *contract.Operation) (*Status, error) {
	opid := op.ID()
	log := v.logger().With(zap.Stringer("opid", opid), zap.Stringer("kind", op.Kind))
	status := NewStatus()

	v.validateKind(opid, op, status)
	v.validateGlobals(opid, op, status)
	for _, t := range op.AssignmentTypes() {
		decl, ok := v.Schema.OwnedType(t)
		for _, a := range op.Assignments[t] {
			if !ok {
				status.AddFailure(Failure{Kind: SchemaUnknownOwnedType, OpId: opid, Slot: uint16(t)})
				break
			}
			status.Merge(ValidateState(decl, v.Types, opid, t, a))
		}
	}

	if err := v.runScripts(ctx, opid, op, status, log); err != nil {
		return nil, err
	}

	for _, f := range status.Failures {
		log.Debug("validation failure", zap.Error(f))
	}
	log.Debug("operation validated",
		zap.Bool("valid", status.IsValid()),
		zap.Int("failures", len(status.Failures)),
		zap.Int("infos", len(status.Infos)))
	return status, nil
}

func (v *Validator) validateKind(opid types.OpId, op *contract.Operation, status *Status) {
	var known bool
	switch op.Kind {
	case contract.OpGenesis:
		return
	case contract.OpTransition:
		known = v.Schema.Transitions == nil || slices.Contains(v.Schema.Transitions, types.TransitionType(op.Subtype))
	case contract.OpExtension:
		known = v.Schema.Extensions == nil || slices.Contains(v.Schema.Extensions, types.ExtensionType(op.Subtype))
	}
	if !known {
		status.AddFailure(Failure{
			Kind:  SchemaUnknownOperationType,
			OpId:  opid,
			Slot:  op.Subtype,
			Found: op.Kind.String(),
		})
	}
}

func (v *Validator) validateGlobals(opid types.OpId, op *contract.Operation, status *Status) {
	for _, t := range op.GlobalTypes() {
		items := op.Globals[t]
		decl, ok := v.Schema.GlobalType(t)
		if !ok {
			status.AddFailure(Failure{Kind: SchemaUnknownGlobalType, OpId: opid, Slot: uint16(t)})
			continue
		}
		if len(items) > decl.Limit() {
			status.AddFailure(Failure{
				Kind:     SchemaGlobalStateLimit,
				OpId:     opid,
				Slot:     uint16(t),
				Expected: fmt.Sprint(decl.Limit()),
				Found:    fmt.Sprint(len(items)),
			})
		}
		for _, d := range items {
			if err := v.Types.Deserialize(decl.SemId, d.Value); err != nil {
				status.AddFailure(Failure{
					Kind:     SchemaInvalidGlobalValue,
					OpId:     opid,
					Slot:     uint16(t),
					Expected: decl.SemId.String(),
					Detail:   err.Error(),
				})
			}
		}
	}
}

// hooks lists the entry points that apply to op, in execution order.
func hooks(op *contract.Operation) []vm.EntryPoint {
	var eps []vm.EntryPoint
	switch op.Kind {
	case contract.OpGenesis:
		eps = append(eps, vm.ValidateGenesis())
	case contract.OpTransition:
		eps = append(eps, vm.ValidateTransition(types.TransitionType(op.Subtype)))
	case contract.OpExtension:
		eps = append(eps, vm.ValidateExtension(types.ExtensionType(op.Subtype)))
	}
	for _, t := range op.GlobalTypes() {
		eps = append(eps, vm.ValidateGlobalState(t))
	}
	for _, t := range op.AssignmentTypes() {
		eps = append(eps, vm.ValidateOwnedState(t))
	}
	return eps
}

func (v *Validator) runScripts(ctx context.Context, opid types.OpId, op *contract.Operation, status *Status, log *zap.Logger) error {
	script := v.Schema.Script
	if script == nil {
		return nil
	}
	for _, ep := range hooks(op) {
		if err := ctx.Err(); err != nil {
			return err
		}
		site, lib, err := script.Resolve(ep)
		switch {
		case errors.Is(err, vm.ErrNoEntryPoint):
			continue
		case errors.Is(err, vm.ErrLibMissing):
			status.AddFailure(Failure{
				Kind:   ScriptLibMissing,
				OpId:   opid,
				Slot:   ep.Subtype,
				Found:  site.Lib.String(),
				Detail: ep.String(),
			})
			continue
		case err != nil:
			return err
		}
		if v.Executor == nil {
			status.AddInfo(Info{Kind: ScriptDeferred, OpId: opid, Slot: ep.Subtype, Detail: ep.String()})
			continue
		}
		call := ScriptCall{EntryPoint: ep, Site: site, Lib: lib, Script: script, OpId: opid, Operation: op}
		if err := v.Executor.Execute(ctx, call); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			log.Debug("script rejected operation", zap.Stringer("entry_point", ep), zap.Error(err))
			status.AddFailure(Failure{
				Kind:   ScriptFailure,
				OpId:   opid,
				Slot:   ep.Subtype,
				Found:  ep.String(),
				Detail: err.Error(),
			})
		}
	}
	return nil
}

// ValidateBatch validates ops concurrently, at most Workers at a time,
// and returns their statuses in input order.
func (v *Validator) ValidateBatch(ctx context.Context, ops []*contract.Operation) ([]*Status, error) {
	statuses := make([]*Status, len(ops))
	g, ctx := errgroup.WithContext(ctx)
	if v.Workers > 0 {
		g.SetLimit(v.Workers)
	}
	for i, op := range ops {
		g.Go(func() error {
			s, err := v.ValidateOperation(ctx, op)
			if err != nil {
				return err
			}
			statuses[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return statuses, nil
}
