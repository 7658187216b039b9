package ir

// TraitRef is a trait applied to its parameters. Args[0] is always the
// Self type; the remaining entries are the trait's own generic arguments.
type TraitRef struct {
	Trait TraitID
	Args  []Type
}

// SelfTy returns the Self parameter of the reference.
func (r TraitRef) SelfTy() Type {
	return r.Args[0]
}

// Goal is a sealed interface over the domain-goal shapes the clause layer
// dispatches on. Only the variants in this file implement it.
//
// Goals are immutable propositions constructed by the resolver; this layer
// never mutates or retains one past a call.
type Goal interface {
	isGoal()
}

// Implemented asserts that a trait reference holds, e.g. Implemented(T: Clone).
type Implemented struct {
	Ref TraitRef
}

// ProjectionEq asserts that a projection equals a type,
// e.g. ProjectionEq(<T as Iterator>::Item = u32).
type ProjectionEq struct {
	Projection Projection
	Ty         Type
}

// WellFormedTrait asserts well-formedness of a trait reference.
type WellFormedTrait struct {
	Ref TraitRef
}

// WellFormedType asserts well-formedness of a type.
type WellFormedType struct {
	Ty Type
}

// IsLocal asserts the type is declared in the local crate/package.
type IsLocal struct {
	Ty Type
}

// IsUpstream asserts the type is declared upstream.
type IsUpstream struct {
	Ty Type
}

// IsFullyVisible asserts the type is fully visible to upstream code.
type IsFullyVisible struct {
	Ty Type
}

// DownstreamType asserts the type could be a downstream type.
type DownstreamType struct {
	Ty Type
}

// FromEnvTrait is a trait hypothesis taken from the environment.
// The collector never produces clauses for it; anything relevant comes
// out of the environment closure.
type FromEnvTrait struct {
	Ref TraitRef
}

// FromEnvType is a type well-formedness hypothesis taken from the
// environment. Same contract as FromEnvTrait.
type FromEnvType struct {
	Ty Type
}

// Normalize asserts that a projection normalizes to a type via an impl.
type Normalize struct {
	Projection Projection
	Ty         Type
}

// UnselectedNormalize is normalization through an unselected projection.
type UnselectedNormalize struct {
	Ty         Type
	Projection UnselectedProjection
}

// InScope asserts a declared entity is nameable in the current scope.
type InScope struct {
	Kind TypeKindID
}

// LocalImplAllowed asserts the orphan rules permit a local impl of the
// trait reference.
type LocalImplAllowed struct {
	Ref TraitRef
}

// Compatible is the cross-compilation compatibility marker goal.
// Defined-empty at this layer: no clauses are ever produced for it.
type Compatible struct{}

func (Implemented) isGoal()         {}
func (ProjectionEq) isGoal()        {}
func (WellFormedTrait) isGoal()     {}
func (WellFormedType) isGoal()      {}
func (IsLocal) isGoal()             {}
func (IsUpstream) isGoal()          {}
func (IsFullyVisible) isGoal()      {}
func (DownstreamType) isGoal()      {}
func (FromEnvTrait) isGoal()        {}
func (FromEnvType) isGoal()         {}
func (Normalize) isGoal()           {}
func (UnselectedNormalize) isGoal() {}
func (InScope) isGoal()             {}
func (LocalImplAllowed) isGoal()    {}
func (Compatible) isGoal()          {}
