// Package testutil provides fluent in-memory program construction for
// package tests. Production code never imports it.
package testutil

import (
	"github.com/slate-lang/slate/internal/decl"
	"github.com/slate-lang/slate/internal/ir"
)

// ProgramBuilder assembles a decl.Program declaration by declaration.
// Add* methods panic on malformed input; tests that need error paths use
// decl directly.
//
// Example:
//
//	db := testutil.NewProgramBuilder().
//		AutoTrait("Send").
//		Struct("MyList", []string{"T"},
//			ir.BoundVar{Depth: 0},
//			ir.NewApplied(ir.StructID("Box"), ir.NewApplied(ir.StructID("Option"), ir.NewApplied(ir.StructID("MyList"), ir.BoundVar{Depth: 0})))).
//		Build()
type ProgramBuilder struct {
	program *decl.Program
}

// NewProgramBuilder creates a builder over an empty program.
func NewProgramBuilder() *ProgramBuilder {
	return &ProgramBuilder{program: decl.NewProgram()}
}

// Trait adds a trait with the given parameter names (Self first) and
// where-clauses.
func (b *ProgramBuilder) Trait(id ir.TraitID, params []string, where ...ir.Goal) *ProgramBuilder {
	return b.addTrait(id, params, decl.TraitFlags{}, where)
}

// AutoTrait adds an auto trait. Auto traits have exactly the Self parameter.
func (b *ProgramBuilder) AutoTrait(id ir.TraitID) *ProgramBuilder {
	return b.addTrait(id, []string{"Self"}, decl.TraitFlags{Auto: true}, nil)
}

// UpstreamTrait adds a trait declared outside the local program.
func (b *ProgramBuilder) UpstreamTrait(id ir.TraitID, params []string) *ProgramBuilder {
	return b.addTrait(id, params, decl.TraitFlags{Upstream: true}, nil)
}

func (b *ProgramBuilder) addTrait(id ir.TraitID, params []string, flags decl.TraitFlags, where []ir.Goal) *ProgramBuilder {
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
				Flags:        flags,
			},
		},
	}
	if err := b.program.AddTrait(datum); err != nil {
		panic(err)
	}
	return b
}

// Struct adds a struct with the given parameter names and field types.
// Field types refer to the parameters by de Bruijn index.
func (b *ProgramBuilder) Struct(id ir.StructID, params []string, fields ...ir.Type) *ProgramBuilder {
	return b.addStruct(id, params, decl.StructFlags{}, nil, fields)
}

// UpstreamStruct adds a struct declared outside the local program.
func (b *ProgramBuilder) UpstreamStruct(id ir.StructID, params []string, fields ...ir.Type) *ProgramBuilder {
	return b.addStruct(id, params, decl.StructFlags{Upstream: true}, nil, fields)
}

// StructWhere adds a struct with where-clauses.
func (b *ProgramBuilder) StructWhere(id ir.StructID, params []string, where []ir.Goal, fields ...ir.Type) *ProgramBuilder {
	return b.addStruct(id, params, decl.StructFlags{}, where, fields)
}

func (b *ProgramBuilder) addStruct(id ir.StructID, params []string, flags decl.StructFlags, where []ir.Goal, fields []ir.Type) *ProgramBuilder {
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
				Flags:        flags,
			},
		},
	}
	if err := b.program.AddStruct(datum); err != nil {
		panic(err)
	}
	return b
}

// AssociatedTy adds an associated-type declaration to a trait. The
// params are the owning trait's parameter names.
func (b *ProgramBuilder) AssociatedTy(trait ir.TraitID, id ir.AssocTypeID, name string, params []string) *ProgramBuilder {
	datum := &decl.AssociatedTyDatum{
		Trait:  trait,
		ID:     id,
		Name:   name,
		Params: params,
	}
	if err := b.program.AddAssociatedTy(datum); err != nil {
		panic(err)
	}
	return b
}

// Impl adds a positive impl. ref.Args[0] is the target type; where are
// the impl's conditions; both refer to params by de Bruijn index.
func (b *ProgramBuilder) Impl(params []string, ref ir.TraitRef, where ...ir.Goal) *ProgramBuilder {
	return b.addImpl(params, ref, decl.Positive, where, nil)
}

// NegImpl adds a negative impl (`impl !Trait for ...`).
func (b *ProgramBuilder) NegImpl(params []string, ref ir.TraitRef) *ProgramBuilder {
	return b.addImpl(params, ref, decl.Negative, nil, nil)
}

// ImplWithAssoc adds a positive impl carrying associated-type values.
func (b *ProgramBuilder) ImplWithAssoc(params []string, ref ir.TraitRef, values []decl.AssociatedTyValue, where ...ir.Goal) *ProgramBuilder {
	return b.addImpl(params, ref, decl.Positive, where, values)
}

func (b *ProgramBuilder) addImpl(params []string, ref ir.TraitRef, polarity decl.Polarity, where []ir.Goal, values []decl.AssociatedTyValue) *ProgramBuilder {
	b.program.AddImpl(&decl.ImplDatum{
		Binders: decl.Binders[decl.ImplDatumBound]{
			Params: params,
			Value: decl.ImplDatumBound{
				TraitRef:           ref,
				Polarity:           polarity,
				WhereClauses:       where,
				AssociatedTyValues: values,
			},
		},
	})
	return b
}

// Build returns the assembled program.
func (b *ProgramBuilder) Build() *decl.Program {
	return b.program
}
