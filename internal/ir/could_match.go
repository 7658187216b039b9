package ir

// CouldMatch reports whether the clause's consequence is structurally
// compatible with the goal: same variant, same entity identity, same
// arity. Argument values are compared by shape only; anything a
// unification variable could stand for counts as compatible.
//
// This is a cheap syntactic prefilter, not unification. It must be an
// over-approximation: returning true for a clause that cannot actually
// prove the goal costs the resolver time, returning false for one that
// could prove it would be unsound pruning.
func (c ProgramClause) CouldMatch(goal Goal) bool {
	return couldMatchGoal(c.Consequence, goal)
}

func couldMatchGoal(a, b Goal) bool {
	switch ga := a.(type) {
	case Implemented:
		gb, ok := b.(Implemented)
		return ok && couldMatchTraitRef(ga.Ref, gb.Ref)
	case ProjectionEq:
		gb, ok := b.(ProjectionEq)
		return ok && couldMatchProjection(ga.Projection, gb.Projection) && couldMatchType(ga.Ty, gb.Ty)
	case WellFormedTrait:
		gb, ok := b.(WellFormedTrait)
		return ok && couldMatchTraitRef(ga.Ref, gb.Ref)
	case WellFormedType:
		gb, ok := b.(WellFormedType)
		return ok && couldMatchType(ga.Ty, gb.Ty)
	case IsLocal:
		gb, ok := b.(IsLocal)
		return ok && couldMatchType(ga.Ty, gb.Ty)
	case IsUpstream:
		gb, ok := b.(IsUpstream)
		return ok && couldMatchType(ga.Ty, gb.Ty)
	case IsFullyVisible:
		gb, ok := b.(IsFullyVisible)
		return ok && couldMatchType(ga.Ty, gb.Ty)
	case DownstreamType:
		gb, ok := b.(DownstreamType)
		return ok && couldMatchType(ga.Ty, gb.Ty)
	case FromEnvTrait:
		gb, ok := b.(FromEnvTrait)
		return ok && couldMatchTraitRef(ga.Ref, gb.Ref)
	case FromEnvType:
		gb, ok := b.(FromEnvType)
		return ok && couldMatchType(ga.Ty, gb.Ty)
	case Normalize:
		gb, ok := b.(Normalize)
		return ok && couldMatchProjection(ga.Projection, gb.Projection) && couldMatchType(ga.Ty, gb.Ty)
	case UnselectedNormalize:
		gb, ok := b.(UnselectedNormalize)
		return ok && ga.Projection.Name == gb.Projection.Name &&
			len(ga.Projection.Args) == len(gb.Projection.Args) &&
			couldMatchType(ga.Ty, gb.Ty)
	case InScope:
		gb, ok := b.(InScope)
		return ok && ga.Kind == gb.Kind
	case LocalImplAllowed:
		gb, ok := b.(LocalImplAllowed)
		return ok && couldMatchTraitRef(ga.Ref, gb.Ref)
	case Compatible:
		_, ok := b.(Compatible)
		return ok
	default:
		panic("ir: unknown goal variant in could-match")
	}
}

func couldMatchTraitRef(a, b TraitRef) bool {
	if a.Trait != b.Trait || len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !couldMatchType(a.Args[i], b.Args[i]) {
			return false
		}
	}
	return true
}

func couldMatchProjection(a, b Projection) bool {
	if a.AssocType != b.AssocType || len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !couldMatchType(a.Args[i], b.Args[i]) {
			return false
		}
	}
	return true
}

func couldMatchType(a, b Type) bool {
	// Variables and projections could stand for anything: variables by
	// substitution, projections by normalization.
	if isWildcard(a) || isWildcard(b) {
		return true
	}

	// Quantifiers carry no shape of their own at this level.
	if fa, ok := a.(ForAll); ok {
		return couldMatchType(fa.Ty, b)
	}
	if fb, ok := b.(ForAll); ok {
		return couldMatchType(a, fb.Ty)
	}

	ta, ok := a.(Applied)
	if !ok {
		panic("ir: unknown type variant in could-match")
	}
	tb, ok := b.(Applied)
	if !ok {
		return false
	}
	if ta.Name != tb.Name || len(ta.Args) != len(tb.Args) {
		return false
	}
	for i := range ta.Args {
		if !couldMatchType(ta.Args[i], tb.Args[i]) {
			return false
		}
	}
	return true
}

func isWildcard(t Type) bool {
	switch t.(type) {
	case BoundVar, InferenceVar, Projection, UnselectedProjection:
		return true
	default:
		return false
	}
}
