package ir

// Type is a sealed interface over the recursive type term shapes.
// Only Applied, Projection, UnselectedProjection, ForAll, BoundVar, and
// InferenceVar implement it.
//
// Type terms are finite trees (no cycles). Recursive type definitions
// (a self-referential struct) are legal at the declaration level; the
// environment closure engine deduplicates at the clause level instead of
// recursing into type terms unboundedly.
type Type interface {
	isType()
}

// Applied is a named type constructor applied to argument types,
// e.g. MyList<T> or a bare struct with no parameters.
type Applied struct {
	Name TypeName
	Args []Type
}

func (Applied) isType() {}

// Projection is an associated-type access through a known trait,
// e.g. <T as Iterator>::Item. Args carry the trait's parameters
// (Self first) followed by the associated type's own parameters.
type Projection struct {
	AssocType AssocTypeID
	Args      []Type
}

func (Projection) isType() {}

// UnselectedProjection is an associated-type access whose trait has not
// been selected yet, e.g. T::Item with several candidate traits in scope.
type UnselectedProjection struct {
	Name string
	Args []Type
}

func (UnselectedProjection) isType() {}

// ForAll is a universally quantified type, e.g. a higher-ranked function
// type. Binders counts the variables bound by the quantifier; the inner
// term refers to them by de Bruijn index.
type ForAll struct {
	Binders int
	Ty      Type
}

func (ForAll) isType() {}

// BoundVar refers to a variable bound by an enclosing quantifier,
// de Bruijn indexed (0 is the innermost binder's first variable).
type BoundVar struct {
	Depth int
}

func (BoundVar) isType() {}

// InferenceVar is an unresolved unification variable owned by the
// resolver. It has no declared shape this layer can consult.
type InferenceVar struct {
	Index int
}

func (InferenceVar) isType() {}

// NewApplied builds an applied type.
func NewApplied(name TypeName, args ...Type) Applied {
	return Applied{Name: name, Args: args}
}
