package compiler

import (
	"fmt"

	"github.com/slate-lang/slate/internal/decl"
	"github.com/slate-lang/slate/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrTraitNoParams       = "E101" // trait must have at least the Self parameter
	ErrAutoTraitArity      = "E102" // auto trait must have exactly one parameter
	ErrUnknownTrait        = "E103" // reference to undeclared trait
	ErrUnknownStruct       = "E104" // reference to undeclared struct
	ErrUnknownAssocType    = "E105" // reference to undeclared associated type
	ErrUnboundVariable     = "E106" // de Bruijn index out of range for the binders
	ErrNegativeImplClauses = "E107" // negative impl carries where-clauses or assoc values
	ErrTraitArityMismatch  = "E108" // impl argument count differs from trait parameters
)

// ValidationError represents a program validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled program against the clause layer's
// contract: every name resolves, every bound variable is in range,
// auto traits have exactly the Self parameter, and negative impls
// carry nothing but their polarity. Returns all errors found (does
// not fail-fast).
//
// A program that passes Validate never trips the clause layer's
// corruption panics.
func Validate(p *decl.Program) []ValidationError {
	v := &validator{program: p}

	for _, d := range p.Traits() {
		v.validateTrait(d)
	}
	for _, d := range p.Structs() {
		v.validateStruct(d)
	}
	for _, d := range p.AssociatedTys() {
		v.validateAssociatedTy(d)
	}
	for i, d := range p.Impls() {
		v.validateImpl(i, d)
	}

	return v.errs
}

// ValidateGoal checks that every name a standalone goal mentions is
// declared in the program. Standalone goals are closed terms, so no
// binders are in scope.
func ValidateGoal(p *decl.Program, g ir.Goal) []ValidationError {
	v := &validator{program: p}
	v.validateGoal(g, 0, "goal")
	return v.errs
}

// ValidateClause checks a free-standing clause, such as an environment
// hypothesis, against the program's declarations.
func ValidateClause(p *decl.Program, c ir.ProgramClause) []ValidationError {
	v := &validator{program: p}
	v.validateGoal(c.Consequence, c.Binders, "clause")
	for i, g := range c.Conditions {
		v.validateGoal(g, c.Binders, fmt.Sprintf("clause.conditions[%d]", i))
	}
	return v.errs
}

type validator struct {
	program *decl.Program
	errs    []ValidationError
}

func (v *validator) addError(field, code, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	})
}

func (v *validator) validateTrait(d *decl.TraitDatum) {
	field := fmt.Sprintf("traits.%s", d.ID())
	binders := d.Binders.Len()

	// E101: Self is always the first parameter.
	if binders == 0 {
		v.addError(field, ErrTraitNoParams, "trait %q must have at least the Self parameter", d.ID())
	}

	// E102: the auto-trait synthesizer assumes a lone Self parameter.
	if d.Binders.Value.Flags.Auto && binders != 1 {
		v.addError(field, ErrAutoTraitArity,
			"auto trait %q has %d parameters, auto traits take exactly one", d.ID(), binders)
	}

	for i, g := range d.Binders.Value.WhereClauses {
		v.validateGoal(g, binders, fmt.Sprintf("%s.where[%d]", field, i))
	}
}

func (v *validator) validateStruct(d *decl.StructDatum) {
	field := fmt.Sprintf("structs.%s", d.ID())
	binders := d.Binders.Len()

	for i, ty := range d.Binders.Value.Fields {
		v.validateType(ty, binders, fmt.Sprintf("%s.fields[%d]", field, i))
	}
	for i, g := range d.Binders.Value.WhereClauses {
		v.validateGoal(g, binders, fmt.Sprintf("%s.where[%d]", field, i))
	}
}

func (v *validator) validateAssociatedTy(d *decl.AssociatedTyDatum) {
	field := fmt.Sprintf("assoc.%s", d.ID)

	if !v.program.HasTrait(d.Trait) {
		v.addError(field, ErrUnknownTrait, "associated type %q belongs to undeclared trait %q", d.ID, d.Trait)
	}
	for i, g := range d.WhereClauses {
		v.validateGoal(g, len(d.Params), fmt.Sprintf("%s.where[%d]", field, i))
	}
}

func (v *validator) validateImpl(position int, d *decl.ImplDatum) {
	field := fmt.Sprintf("impls[%d]", position)
	binders := d.Binders.Len()
	bound := d.Binders.Value

	if !v.program.HasTrait(bound.TraitRef.Trait) {
		v.addError(field, ErrUnknownTrait, "impl references undeclared trait %q", bound.TraitRef.Trait)
	} else {
		// E108: the trait ref must saturate the trait's parameters.
		want := v.program.TraitDatum(bound.TraitRef.Trait).Binders.Len()
		if got := len(bound.TraitRef.Args); got != want {
			v.addError(field, ErrTraitArityMismatch,
				"impl supplies %d arguments to trait %q, which takes %d", got, bound.TraitRef.Trait, want)
		}
	}

	for i, arg := range bound.TraitRef.Args {
		v.validateType(arg, binders, fmt.Sprintf("%s.args[%d]", field, i))
	}
	for i, g := range bound.WhereClauses {
		v.validateGoal(g, binders, fmt.Sprintf("%s.where[%d]", field, i))
	}

	// E107: a negative impl is pure suppression; anything attached to
	// it would be dead.
	if bound.Polarity == decl.Negative {
		if len(bound.WhereClauses) > 0 {
			v.addError(field, ErrNegativeImplClauses, "negative impl cannot carry where-clauses")
		}
		if len(bound.AssociatedTyValues) > 0 {
			v.addError(field, ErrNegativeImplClauses, "negative impl cannot carry associated type values")
		}
	}

	for i, value := range bound.AssociatedTyValues {
		valueField := fmt.Sprintf("%s.assoc[%d]", field, i)
		if !v.program.HasAssociatedTy(value.AssocType) {
			v.addError(valueField, ErrUnknownAssocType, "undeclared associated type %q", value.AssocType)
		} else if owner := v.program.AssociatedTyDatum(value.AssocType).Trait; owner != bound.TraitRef.Trait {
			v.addError(valueField, ErrUnknownAssocType,
				"associated type %q belongs to trait %q, not %q", value.AssocType, owner, bound.TraitRef.Trait)
		}
		v.validateType(value.Value, binders, valueField)
	}
}

func (v *validator) validateGoal(g ir.Goal, binders int, field string) {
	switch goal := g.(type) {
	case ir.Implemented:
		v.validateTraitRef(goal.Ref, binders, field)
	case ir.ProjectionEq:
		v.validateType(goal.Projection, binders, field)
		v.validateType(goal.Ty, binders, field)
	case ir.WellFormedTrait:
		v.validateTraitRef(goal.Ref, binders, field)
	case ir.WellFormedType:
		v.validateType(goal.Ty, binders, field)
	case ir.IsLocal:
		v.validateType(goal.Ty, binders, field)
	case ir.IsUpstream:
		v.validateType(goal.Ty, binders, field)
	case ir.IsFullyVisible:
		v.validateType(goal.Ty, binders, field)
	case ir.DownstreamType:
		v.validateType(goal.Ty, binders, field)
	case ir.FromEnvTrait:
		v.validateTraitRef(goal.Ref, binders, field)
	case ir.FromEnvType:
		v.validateType(goal.Ty, binders, field)
	case ir.Normalize:
		v.validateType(goal.Projection, binders, field)
		v.validateType(goal.Ty, binders, field)
	case ir.UnselectedNormalize:
		v.validateType(goal.Ty, binders, field)
		v.validateType(goal.Projection, binders, field)
	case ir.InScope:
		v.validateKind(goal.Kind, field)
	case ir.LocalImplAllowed:
		v.validateTraitRef(goal.Ref, binders, field)
	case ir.Compatible:
		// No names to resolve.
	default:
		v.addError(field, ErrUnknownTrait, "unknown goal variant %T", g)
	}
}

func (v *validator) validateTraitRef(ref ir.TraitRef, binders int, field string) {
	if !v.program.HasTrait(ref.Trait) {
		v.addError(field, ErrUnknownTrait, "undeclared trait %q", ref.Trait)
	}
	for _, arg := range ref.Args {
		v.validateType(arg, binders, field)
	}
}

func (v *validator) validateType(t ir.Type, binders int, field string) {
	switch ty := t.(type) {
	case ir.Applied:
		v.validateTypeName(ty.Name, field)
		for _, arg := range ty.Args {
			v.validateType(arg, binders, field)
		}
	case ir.Projection:
		if !v.program.HasAssociatedTy(ty.AssocType) {
			v.addError(field, ErrUnknownAssocType, "undeclared associated type %q", ty.AssocType)
		}
		for _, arg := range ty.Args {
			v.validateType(arg, binders, field)
		}
	case ir.UnselectedProjection:
		// The trait is unresolved until selection; only args can be checked.
		for _, arg := range ty.Args {
			v.validateType(arg, binders, field)
		}
	case ir.ForAll:
		v.validateType(ty.Ty, binders+ty.Binders, field)
	case ir.BoundVar:
		if ty.Depth < 0 || ty.Depth >= binders {
			v.addError(field, ErrUnboundVariable,
				"bound variable ^%d out of range for %d binders", ty.Depth, binders)
		}
	case ir.InferenceVar:
		// Nothing to resolve.
	default:
		v.addError(field, ErrUnknownStruct, "unknown type variant %T", t)
	}
}

func (v *validator) validateTypeName(n ir.TypeName, field string) {
	switch name := n.(type) {
	case ir.TraitID:
		if !v.program.HasTrait(name) {
			v.addError(field, ErrUnknownTrait, "undeclared trait %q", name)
		}
	case ir.StructID:
		if !v.program.HasStruct(name) {
			v.addError(field, ErrUnknownStruct, "undeclared struct %q", name)
		}
	case ir.AssocTypeID:
		if !v.program.HasAssociatedTy(name) {
			v.addError(field, ErrUnknownAssocType, "undeclared associated type %q", name)
		}
	case ir.Placeholder:
		// Placeholders are opaque; nothing to resolve.
	}
}

func (v *validator) validateKind(kind ir.TypeKindID, field string) {
	switch id := kind.(type) {
	case ir.TraitID:
		if !v.program.HasTrait(id) {
			v.addError(field, ErrUnknownTrait, "undeclared trait %q", id)
		}
	case ir.StructID:
		if !v.program.HasStruct(id) {
			v.addError(field, ErrUnknownStruct, "undeclared struct %q", id)
		}
	case ir.AssocTypeID:
		if !v.program.HasAssociatedTy(id) {
			v.addError(field, ErrUnknownAssocType, "undeclared associated type %q", id)
		}
	}
}
