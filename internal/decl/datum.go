package decl

import "github.com/slate-lang/slate/internal/ir"

// Binders wraps a declaration payload in the entity's own generic
// parameters. Params holds the parameter names in declaration order,
// purely for diagnostics; the payload refers to them by de Bruijn index
// (parameter i is ir.BoundVar{Depth: i}).
type Binders[T any] struct {
	Params []string `json:"params"`
	Value  T        `json:"value"`
}

// Len returns the number of bound parameters.
func (b Binders[T]) Len() int {
	return len(b.Params)
}

// TraitFlags carries the modifier flags of a trait declaration.
type TraitFlags struct {
	// Auto marks a coinductively defaulted trait: every struct without
	// an explicit (positive or negative) impl gets a synthesized impl
	// from its field types.
	Auto bool `json:"auto"`
	// Marker marks a trait with no items.
	Marker bool `json:"marker"`
	// Upstream marks a trait declared outside the local program.
	Upstream bool `json:"upstream"`
}

// TraitDatumBound is the payload of a trait declaration under its binders.
type TraitDatumBound struct {
	// TraitRef is the trait applied to its own parameters as bound
	// variables; Args[0] is Self.
	TraitRef ir.TraitRef `json:"trait_ref"`
	// WhereClauses are the trait's own bounds (supertraits and friends).
	WhereClauses []ir.Goal `json:"where_clauses"`
	Flags        TraitFlags `json:"flags"`
}

// TraitDatum is a trait declaration. An auto trait's binders always have
// exactly one parameter (Self); the compiler enforces this and the clause
// layer treats a violation as database corruption.
type TraitDatum struct {
	Binders Binders[TraitDatumBound] `json:"binders"`
}

// ID returns the trait's identifier.
func (d *TraitDatum) ID() ir.TraitID {
	return d.Binders.Value.TraitRef.Trait
}

// StructFlags carries the modifier flags of a struct declaration.
type StructFlags struct {
	Upstream    bool `json:"upstream"`
	Fundamental bool `json:"fundamental"`
}

// StructDatumBound is the payload of a struct declaration under its binders.
type StructDatumBound struct {
	// SelfTy is the struct applied to its own parameters as bound variables.
	SelfTy ir.Applied `json:"self_ty"`
	// Fields are the field types in declaration order. Order is
	// semantically inert but must be stable for reproducible output.
	Fields       []ir.Type   `json:"fields"`
	WhereClauses []ir.Goal   `json:"where_clauses"`
	Flags        StructFlags `json:"flags"`
}

// StructDatum is a struct declaration.
type StructDatum struct {
	Binders Binders[StructDatumBound] `json:"binders"`
}

// ID returns the struct's identifier.
func (d *StructDatum) ID() ir.StructID {
	return d.Binders.Value.SelfTy.Name.(ir.StructID)
}

// AssociatedTyDatum is an associated-type declaration inside a trait.
// Its parameters are the owning trait's parameters; associated types with
// parameters of their own are not modeled.
type AssociatedTyDatum struct {
	Trait ir.TraitID     `json:"trait"`
	ID    ir.AssocTypeID `json:"id"`
	Name  string         `json:"name"`
	// Params are the owning trait's parameter names (Self first).
	Params       []string  `json:"params"`
	WhereClauses []ir.Goal `json:"where_clauses"`
}

// Polarity distinguishes positive impls from negative (`impl !Trait`) ones.
type Polarity int

const (
	Positive Polarity = iota
	Negative
)

// AssociatedTyValue is one `type Item = ...` entry inside an impl. The
// value refers to the impl's binders.
type AssociatedTyValue struct {
	AssocType ir.AssocTypeID `json:"assoc_type"`
	Value     ir.Type        `json:"value"`
}

// ImplDatumBound is the payload of an impl declaration under its binders.
type ImplDatumBound struct {
	// TraitRef names the implemented trait; Args[0] is the impl's
	// target (Self) type.
	TraitRef           ir.TraitRef         `json:"trait_ref"`
	Polarity           Polarity            `json:"polarity"`
	WhereClauses       []ir.Goal           `json:"where_clauses"`
	AssociatedTyValues []AssociatedTyValue `json:"associated_ty_values"`
}

// ImplDatum is an impl declaration.
type ImplDatum struct {
	Binders Binders[ImplDatumBound] `json:"binders"`
}

// TraitID returns the implemented trait's identifier.
func (d *ImplDatum) TraitID() ir.TraitID {
	return d.Binders.Value.TraitRef.Trait
}

// SelfStructID returns the struct id at the head of the impl's Self type,
// or "" when Self is not a struct application (blanket impls over a
// variable, impls for projections).
func (d *ImplDatum) SelfStructID() ir.StructID {
	applied, ok := d.Binders.Value.TraitRef.SelfTy().(ir.Applied)
	if !ok {
		return ""
	}
	structID, ok := applied.Name.(ir.StructID)
	if !ok {
		return ""
	}
	return structID
}
