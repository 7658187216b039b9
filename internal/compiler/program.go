package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/slate-lang/slate/internal/decl"
	"github.com/slate-lang/slate/internal/ir"
)

// CompileProgram parses a CUE value into a declaration program.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the program struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`program: { traits: {...}, structs: {...} }`)
//	p, err := CompileProgram(v.LookupPath(cue.ParsePath("program")))
//
// Type expressions inside the definition are source text parsed by
// ParseTypeExpr; identifiers that name the enclosing declaration's
// parameters become bound variables.
func CompileProgram(v cue.Value) (*decl.Program, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	program := decl.NewProgram()

	if err := compileTraits(v, program); err != nil {
		return nil, err
	}
	if err := compileStructs(v, program); err != nil {
		return nil, err
	}
	if err := compileImpls(v, program); err != nil {
		return nil, err
	}

	return program, nil
}

func compileTraits(v cue.Value, program *decl.Program) error {
	traitsVal := v.LookupPath(cue.ParsePath("traits"))
	if !traitsVal.Exists() {
		return nil
	}

	iter, err := traitsVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		id := ir.TraitID(iter.Label())
		traitVal := iter.Value()
		field := fmt.Sprintf("traits.%s", id)

		params, err := parseStringList(traitVal, "params", field)
		if err != nil {
			return err
		}
		if params == nil {
			// Self is implicit when no parameter list is given.
			params = []string{"Self"}
		}

		where, err := parseBoundList(traitVal, params, field)
		if err != nil {
			return err
		}

		args := make([]ir.Type, len(params))
		for i := range params {
			args[i] = ir.BoundVar{Depth: i}
		}
		datum := &decl.TraitDatum{
			Binders: decl.Binders[decl.TraitDatumBound]{
				Params: params,
				Value: decl.TraitDatumBound{
					TraitRef:     ir.TraitRef{Trait: id, Args: args},
					WhereClauses: where,
					Flags: decl.TraitFlags{
						Auto:     lookupBool(traitVal, "auto"),
						Marker:   lookupBool(traitVal, "marker"),
						Upstream: lookupBool(traitVal, "upstream"),
					},
				},
			},
		}
		if err := program.AddTrait(datum); err != nil {
			return &CompileError{Field: field, Message: err.Error(), Pos: traitVal.Pos()}
		}

		if err := compileAssociatedTys(traitVal, id, params, program); err != nil {
			return err
		}
	}

	return nil
}

func compileAssociatedTys(traitVal cue.Value, trait ir.TraitID, params []string, program *decl.Program) error {
	assocVal := traitVal.LookupPath(cue.ParsePath("assoc"))
	if !assocVal.Exists() {
		return nil
	}

	iter, err := assocVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		name := iter.Label()
		field := fmt.Sprintf("traits.%s.assoc.%s", trait, name)

		where, err := parseBoundList(iter.Value(), params, field)
		if err != nil {
			return err
		}

		datum := &decl.AssociatedTyDatum{
			Trait:        trait,
			ID:           ir.AssocTypeID(fmt.Sprintf("%s::%s", trait, name)),
			Name:         name,
			Params:       params,
			WhereClauses: where,
		}
		if err := program.AddAssociatedTy(datum); err != nil {
			return &CompileError{Field: field, Message: err.Error(), Pos: iter.Value().Pos()}
		}
	}

	return nil
}

func compileStructs(v cue.Value, program *decl.Program) error {
	structsVal := v.LookupPath(cue.ParsePath("structs"))
	if !structsVal.Exists() {
		return nil
	}

	iter, err := structsVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		id := ir.StructID(iter.Label())
		structVal := iter.Value()
		field := fmt.Sprintf("structs.%s", id)

		params, err := parseStringList(structVal, "params", field)
		if err != nil {
			return err
		}

		fieldExprs, err := parseStringList(structVal, "fields", field)
		if err != nil {
			return err
		}
		fields := make([]ir.Type, 0, len(fieldExprs))
		for i, expr := range fieldExprs {
			ty, err := ParseTypeExpr(expr, params)
			if err != nil {
				return &CompileError{
					Field:   fmt.Sprintf("%s.fields[%d]", field, i),
					Message: err.Error(),
					Pos:     structVal.Pos(),
				}
			}
			fields = append(fields, ty)
		}

		where, err := parseBoundList(structVal, params, field)
		if err != nil {
			return err
		}

		args := make([]ir.Type, len(params))
		for i := range params {
			args[i] = ir.BoundVar{Depth: i}
		}
		datum := &decl.StructDatum{
			Binders: decl.Binders[decl.StructDatumBound]{
				Params: params,
				Value: decl.StructDatumBound{
					SelfTy:       ir.NewApplied(id, args...),
					Fields:       fields,
					WhereClauses: where,
					Flags: decl.StructFlags{
						Upstream:    lookupBool(structVal, "upstream"),
						Fundamental: lookupBool(structVal, "fundamental"),
					},
				},
			},
		}
		if err := program.AddStruct(datum); err != nil {
			return &CompileError{Field: field, Message: err.Error(), Pos: structVal.Pos()}
		}
	}

	return nil
}

func compileImpls(v cue.Value, program *decl.Program) error {
	implsVal := v.LookupPath(cue.ParsePath("impls"))
	if !implsVal.Exists() {
		return nil
	}

	iter, err := implsVal.List()
	if err != nil {
		return formatCUEError(err)
	}

	for position := 0; iter.Next(); position++ {
		implVal := iter.Value()
		field := fmt.Sprintf("impls[%d]", position)

		traitName, err := lookupString(implVal, "trait", field, true)
		if err != nil {
			return err
		}

		params, err := parseStringList(implVal, "params", field)
		if err != nil {
			return err
		}

		selfExpr, err := lookupString(implVal, "self", field, true)
		if err != nil {
			return err
		}
		selfTy, err := ParseTypeExpr(selfExpr, params)
		if err != nil {
			return &CompileError{Field: field + ".self", Message: err.Error(), Pos: implVal.Pos()}
		}

		argExprs, err := parseStringList(implVal, "args", field)
		if err != nil {
			return err
		}
		traitArgs := []ir.Type{selfTy}
		for i, expr := range argExprs {
			ty, err := ParseTypeExpr(expr, params)
			if err != nil {
				return &CompileError{
					Field:   fmt.Sprintf("%s.args[%d]", field, i),
					Message: err.Error(),
					Pos:     implVal.Pos(),
				}
			}
			traitArgs = append(traitArgs, ty)
		}

		where, err := parseBoundList(implVal, params, field)
		if err != nil {
			return err
		}

		values, err := compileAssocValues(implVal, ir.TraitID(traitName), params, field)
		if err != nil {
			return err
		}

		polarity := decl.Positive
		if lookupBool(implVal, "negative") {
			polarity = decl.Negative
		}

		program.AddImpl(&decl.ImplDatum{
			Binders: decl.Binders[decl.ImplDatumBound]{
				Params: params,
				Value: decl.ImplDatumBound{
					TraitRef:           ir.TraitRef{Trait: ir.TraitID(traitName), Args: traitArgs},
					Polarity:           polarity,
					WhereClauses:       where,
					AssociatedTyValues: values,
				},
			},
		})
	}

	return nil
}

func compileAssocValues(implVal cue.Value, trait ir.TraitID, params []string, field string) ([]decl.AssociatedTyValue, error) {
	assocVal := implVal.LookupPath(cue.ParsePath("assoc"))
	if !assocVal.Exists() {
		return nil, nil
	}

	iter, err := assocVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var values []decl.AssociatedTyValue
	for iter.Next() {
		name := iter.Label()
		expr, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		ty, err := ParseTypeExpr(expr, params)
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("%s.assoc.%s", field, name),
				Message: err.Error(),
				Pos:     iter.Value().Pos(),
			}
		}
		values = append(values, decl.AssociatedTyValue{
			AssocType: ir.AssocTypeID(fmt.Sprintf("%s::%s", trait, name)),
			Value:     ty,
		})
	}
	return values, nil
}

// parseBoundList parses the optional "where" field: a list of bound
// expressions like "T: Clone".
func parseBoundList(v cue.Value, params []string, field string) ([]ir.Goal, error) {
	exprs, err := parseStringList(v, "where", field)
	if err != nil {
		return nil, err
	}
	var goals []ir.Goal
	for i, expr := range exprs {
		g, err := ParseBoundExpr(expr, params)
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("%s.where[%d]", field, i),
				Message: err.Error(),
				Pos:     v.Pos(),
			}
		}
		goals = append(goals, g)
	}
	return goals, nil
}

// parseStringList reads an optional list-of-strings field.
func parseStringList(v cue.Value, name, field string) ([]string, error) {
	listVal := v.LookupPath(cue.ParsePath(name))
	if !listVal.Exists() {
		return nil, nil
	}

	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("%s.%s", field, name),
				Message: err.Error(),
				Pos:     iter.Value().Pos(),
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// lookupBool reads an optional boolean field, defaulting to false.
func lookupBool(v cue.Value, name string) bool {
	val := v.LookupPath(cue.ParsePath(name))
	if !val.Exists() {
		return false
	}
	b, err := val.Bool()
	if err != nil {
		return false
	}
	return b
}

// lookupString reads a string field.
func lookupString(v cue.Value, name, field string, required bool) (string, error) {
	val := v.LookupPath(cue.ParsePath(name))
	if !val.Exists() {
		if !required {
			return "", nil
		}
		return "", &CompileError{
			Field:   fmt.Sprintf("%s.%s", field, name),
			Message: name + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := val.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
