package ir

import (
	"fmt"
	"strings"
)

// Debug formatting for clause terms. The output is for diagnostics, CLI
// listings, and golden files; it is NOT a canonical encoding and must
// never be used for identity (see canonical.go for that).

func (r TraitRef) String() string {
	rest := make([]string, 0, len(r.Args)-1)
	for _, arg := range r.Args[1:] {
		rest = append(rest, typeString(arg))
	}
	if len(rest) == 0 {
		return fmt.Sprintf("%s: %s", typeString(r.SelfTy()), r.Trait)
	}
	return fmt.Sprintf("%s: %s<%s>", typeString(r.SelfTy()), r.Trait, strings.Join(rest, ", "))
}

func (t Applied) String() string              { return typeString(t) }
func (t Projection) String() string           { return typeString(t) }
func (t UnselectedProjection) String() string { return typeString(t) }
func (t ForAll) String() string               { return typeString(t) }
func (t BoundVar) String() string             { return typeString(t) }
func (t InferenceVar) String() string         { return typeString(t) }

func typeString(t Type) string {
	switch ty := t.(type) {
	case Applied:
		name := typeNameString(ty.Name)
		if len(ty.Args) == 0 {
			return name
		}
		return fmt.Sprintf("%s<%s>", name, typeListString(ty.Args))
	case Projection:
		return fmt.Sprintf("(%s)<%s>", ty.AssocType, typeListString(ty.Args))
	case UnselectedProjection:
		return fmt.Sprintf("?::%s<%s>", ty.Name, typeListString(ty.Args))
	case ForAll:
		return fmt.Sprintf("forall<%d> %s", ty.Binders, typeString(ty.Ty))
	case BoundVar:
		return fmt.Sprintf("^%d", ty.Depth)
	case InferenceVar:
		return fmt.Sprintf("?%d", ty.Index)
	default:
		panic(fmt.Sprintf("ir: unknown type variant %T", t))
	}
}

func typeNameString(n TypeName) string {
	switch name := n.(type) {
	case TraitID:
		return string(name)
	case StructID:
		return string(name)
	case AssocTypeID:
		return string(name)
	case Placeholder:
		return fmt.Sprintf("!%d_%d", name.Universe, name.Index)
	default:
		panic(fmt.Sprintf("ir: unknown type name variant %T", n))
	}
}

func typeListString(args []Type) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = typeString(arg)
	}
	return strings.Join(parts, ", ")
}

// GoalString renders a goal in the upstream debug style,
// e.g. Implemented(MyList<^0>: Send).
func GoalString(g Goal) string {
	switch goal := g.(type) {
	case Implemented:
		return fmt.Sprintf("Implemented(%s)", goal.Ref)
	case ProjectionEq:
		return fmt.Sprintf("ProjectionEq(%s = %s)", typeString(goal.Projection), typeString(goal.Ty))
	case WellFormedTrait:
		return fmt.Sprintf("WellFormed(%s)", goal.Ref)
	case WellFormedType:
		return fmt.Sprintf("WellFormed(%s)", typeString(goal.Ty))
	case IsLocal:
		return fmt.Sprintf("IsLocal(%s)", typeString(goal.Ty))
	case IsUpstream:
		return fmt.Sprintf("IsUpstream(%s)", typeString(goal.Ty))
	case IsFullyVisible:
		return fmt.Sprintf("IsFullyVisible(%s)", typeString(goal.Ty))
	case DownstreamType:
		return fmt.Sprintf("DownstreamType(%s)", typeString(goal.Ty))
	case FromEnvTrait:
		return fmt.Sprintf("FromEnv(%s)", goal.Ref)
	case FromEnvType:
		return fmt.Sprintf("FromEnv(%s)", typeString(goal.Ty))
	case Normalize:
		return fmt.Sprintf("Normalize(%s -> %s)", typeString(goal.Projection), typeString(goal.Ty))
	case UnselectedNormalize:
		return fmt.Sprintf("UnselectedNormalize(%s -> %s)", typeString(goal.Projection), typeString(goal.Ty))
	case InScope:
		return fmt.Sprintf("InScope(%s %s)", goal.Kind.kindTag(), goal.Kind.kindName())
	case LocalImplAllowed:
		return fmt.Sprintf("LocalImplAllowed(%s)", goal.Ref)
	case Compatible:
		return "Compatible"
	default:
		panic(fmt.Sprintf("ir: unknown goal variant %T", g))
	}
}

func (c ProgramClause) String() string {
	var b strings.Builder
	if c.Binders > 0 {
		fmt.Fprintf(&b, "forall<%d> { ", c.Binders)
	}
	b.WriteString(GoalString(c.Consequence))
	if len(c.Conditions) > 0 {
		b.WriteString(" :- ")
		parts := make([]string, len(c.Conditions))
		for i, cond := range c.Conditions {
			parts[i] = GoalString(cond)
		}
		b.WriteString(strings.Join(parts, ", "))
	}
	if c.Binders > 0 {
		b.WriteString(" }")
	}
	return b.String()
}
