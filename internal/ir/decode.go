package ir

import (
	"encoding/json"
	"fmt"
)

// Decoding of canonical term encodings (see canonical.go). The store
// persists declarations with their type and goal fields in canonical
// form; these parsers are the read side. Decoding is strict: an
// unknown tag or malformed shape is an error, never a silent default,
// so a corrupt row is caught at load time rather than at clause
// generation.

// ParseClause decodes a canonical clause encoding.
func ParseClause(data []byte) (ProgramClause, error) {
	elems, tag, err := taggedElems(data)
	if err != nil {
		return ProgramClause{}, err
	}
	if tag != "clause" || len(elems) != 4 {
		return ProgramClause{}, fmt.Errorf("ir: expected clause form, got %q with %d elements", tag, len(elems))
	}

	var binders int
	if err := json.Unmarshal(elems[1], &binders); err != nil {
		return ProgramClause{}, fmt.Errorf("ir: clause binders: %w", err)
	}
	consequence, err := ParseGoal(elems[2])
	if err != nil {
		return ProgramClause{}, fmt.Errorf("ir: clause consequence: %w", err)
	}

	var rawConds []json.RawMessage
	if err := json.Unmarshal(elems[3], &rawConds); err != nil {
		return ProgramClause{}, fmt.Errorf("ir: clause conditions: %w", err)
	}
	var conditions []Goal
	for i, raw := range rawConds {
		cond, err := ParseGoal(raw)
		if err != nil {
			return ProgramClause{}, fmt.Errorf("ir: clause condition %d: %w", i, err)
		}
		conditions = append(conditions, cond)
	}

	return ProgramClause{Binders: binders, Consequence: consequence, Conditions: conditions}, nil
}

// ParseGoal decodes a canonical goal encoding.
func ParseGoal(data []byte) (Goal, error) {
	elems, tag, err := taggedElems(data)
	if err != nil {
		return nil, err
	}

	switch tag {
	case "implemented":
		ref, err := parseTraitRef(elems[1:])
		if err != nil {
			return nil, err
		}
		return Implemented{Ref: ref}, nil
	case "projection-eq":
		proj, ty, err := parseTypePair(elems[1:])
		if err != nil {
			return nil, err
		}
		p, ok := proj.(Projection)
		if !ok {
			return nil, fmt.Errorf("ir: projection-eq left side is %T, want projection", proj)
		}
		return ProjectionEq{Projection: p, Ty: ty}, nil
	case "wf-trait":
		ref, err := parseTraitRef(elems[1:])
		if err != nil {
			return nil, err
		}
		return WellFormedTrait{Ref: ref}, nil
	case "wf-type":
		ty, err := parseSingleType(elems[1:])
		if err != nil {
			return nil, err
		}
		return WellFormedType{Ty: ty}, nil
	case "is-local":
		ty, err := parseSingleType(elems[1:])
		if err != nil {
			return nil, err
		}
		return IsLocal{Ty: ty}, nil
	case "is-upstream":
		ty, err := parseSingleType(elems[1:])
		if err != nil {
			return nil, err
		}
		return IsUpstream{Ty: ty}, nil
	case "is-fully-visible":
		ty, err := parseSingleType(elems[1:])
		if err != nil {
			return nil, err
		}
		return IsFullyVisible{Ty: ty}, nil
	case "downstream-type":
		ty, err := parseSingleType(elems[1:])
		if err != nil {
			return nil, err
		}
		return DownstreamType{Ty: ty}, nil
	case "from-env-trait":
		ref, err := parseTraitRef(elems[1:])
		if err != nil {
			return nil, err
		}
		return FromEnvTrait{Ref: ref}, nil
	case "from-env-type":
		ty, err := parseSingleType(elems[1:])
		if err != nil {
			return nil, err
		}
		return FromEnvType{Ty: ty}, nil
	case "normalize":
		proj, ty, err := parseTypePair(elems[1:])
		if err != nil {
			return nil, err
		}
		p, ok := proj.(Projection)
		if !ok {
			return nil, fmt.Errorf("ir: normalize left side is %T, want projection", proj)
		}
		return Normalize{Projection: p, Ty: ty}, nil
	case "unselected-normalize":
		// Encoded as [tag, ty, projection] (self type first).
		ty, proj, err := parseTypePair(elems[1:])
		if err != nil {
			return nil, err
		}
		p, ok := proj.(UnselectedProjection)
		if !ok {
			return nil, fmt.Errorf("ir: unselected-normalize right side is %T, want unselected projection", proj)
		}
		return UnselectedNormalize{Ty: ty, Projection: p}, nil
	case "in-scope":
		if len(elems) != 2 {
			return nil, fmt.Errorf("ir: in-scope form has %d elements, want 2", len(elems))
		}
		kind, err := parseTypeKindID(elems[1])
		if err != nil {
			return nil, err
		}
		return InScope{Kind: kind}, nil
	case "local-impl-allowed":
		ref, err := parseTraitRef(elems[1:])
		if err != nil {
			return nil, err
		}
		return LocalImplAllowed{Ref: ref}, nil
	case "compatible":
		return Compatible{}, nil
	default:
		return nil, fmt.Errorf("ir: unknown goal tag %q", tag)
	}
}

// ParseType decodes a canonical type encoding.
func ParseType(data []byte) (Type, error) {
	elems, tag, err := taggedElems(data)
	if err != nil {
		return nil, err
	}

	switch tag {
	case "apply":
		if len(elems) != 3 {
			return nil, fmt.Errorf("ir: apply form has %d elements, want 3", len(elems))
		}
		name, err := parseTypeName(elems[1])
		if err != nil {
			return nil, err
		}
		args, err := parseTypeList(elems[2])
		if err != nil {
			return nil, err
		}
		return Applied{Name: name, Args: args}, nil
	case "proj":
		if len(elems) != 3 {
			return nil, fmt.Errorf("ir: proj form has %d elements, want 3", len(elems))
		}
		var id string
		if err := json.Unmarshal(elems[1], &id); err != nil {
			return nil, fmt.Errorf("ir: proj id: %w", err)
		}
		args, err := parseTypeList(elems[2])
		if err != nil {
			return nil, err
		}
		return Projection{AssocType: AssocTypeID(id), Args: args}, nil
	case "uproj":
		if len(elems) != 3 {
			return nil, fmt.Errorf("ir: uproj form has %d elements, want 3", len(elems))
		}
		var name string
		if err := json.Unmarshal(elems[1], &name); err != nil {
			return nil, fmt.Errorf("ir: uproj name: %w", err)
		}
		args, err := parseTypeList(elems[2])
		if err != nil {
			return nil, err
		}
		return UnselectedProjection{Name: name, Args: args}, nil
	case "forall":
		if len(elems) != 3 {
			return nil, fmt.Errorf("ir: forall form has %d elements, want 3", len(elems))
		}
		var binders int
		if err := json.Unmarshal(elems[1], &binders); err != nil {
			return nil, fmt.Errorf("ir: forall binders: %w", err)
		}
		inner, err := ParseType(elems[2])
		if err != nil {
			return nil, err
		}
		return ForAll{Binders: binders, Ty: inner}, nil
	case "var":
		if len(elems) != 2 {
			return nil, fmt.Errorf("ir: var form has %d elements, want 2", len(elems))
		}
		var depth int
		if err := json.Unmarshal(elems[1], &depth); err != nil {
			return nil, fmt.Errorf("ir: var depth: %w", err)
		}
		return BoundVar{Depth: depth}, nil
	case "infer":
		if len(elems) != 2 {
			return nil, fmt.Errorf("ir: infer form has %d elements, want 2", len(elems))
		}
		var index int
		if err := json.Unmarshal(elems[1], &index); err != nil {
			return nil, fmt.Errorf("ir: infer index: %w", err)
		}
		return InferenceVar{Index: index}, nil
	default:
		return nil, fmt.Errorf("ir: unknown type tag %q", tag)
	}
}

func taggedElems(data []byte) ([]json.RawMessage, string, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, "", fmt.Errorf("ir: canonical form is not a JSON array: %w", err)
	}
	if len(elems) == 0 {
		return nil, "", fmt.Errorf("ir: canonical form is empty")
	}
	var tag string
	if err := json.Unmarshal(elems[0], &tag); err != nil {
		return nil, "", fmt.Errorf("ir: canonical form tag: %w", err)
	}
	return elems, tag, nil
}

func parseTraitRef(elems []json.RawMessage) (TraitRef, error) {
	if len(elems) != 2 {
		return TraitRef{}, fmt.Errorf("ir: trait ref has %d elements, want 2", len(elems))
	}
	var trait string
	if err := json.Unmarshal(elems[0], &trait); err != nil {
		return TraitRef{}, fmt.Errorf("ir: trait ref id: %w", err)
	}
	args, err := parseTypeList(elems[1])
	if err != nil {
		return TraitRef{}, err
	}
	return TraitRef{Trait: TraitID(trait), Args: args}, nil
}

func parseSingleType(elems []json.RawMessage) (Type, error) {
	if len(elems) != 1 {
		return nil, fmt.Errorf("ir: expected one type element, got %d", len(elems))
	}
	return ParseType(elems[0])
}

func parseTypePair(elems []json.RawMessage) (Type, Type, error) {
	if len(elems) != 2 {
		return nil, nil, fmt.Errorf("ir: expected two type elements, got %d", len(elems))
	}
	first, err := ParseType(elems[0])
	if err != nil {
		return nil, nil, err
	}
	second, err := ParseType(elems[1])
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func parseTypeList(data json.RawMessage) ([]Type, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ir: type list: %w", err)
	}
	var out []Type
	for i, r := range raw {
		ty, err := ParseType(r)
		if err != nil {
			return nil, fmt.Errorf("ir: type list element %d: %w", i, err)
		}
		out = append(out, ty)
	}
	return out, nil
}

func parseTypeName(data json.RawMessage) (TypeName, error) {
	elems, tag, err := taggedElems(data)
	if err != nil {
		return nil, err
	}
	if tag == "placeholder" {
		if len(elems) != 3 {
			return nil, fmt.Errorf("ir: placeholder form has %d elements, want 3", len(elems))
		}
		var universe, index int
		if err := json.Unmarshal(elems[1], &universe); err != nil {
			return nil, fmt.Errorf("ir: placeholder universe: %w", err)
		}
		if err := json.Unmarshal(elems[2], &index); err != nil {
			return nil, fmt.Errorf("ir: placeholder index: %w", err)
		}
		return Placeholder{Universe: universe, Index: index}, nil
	}
	id, err := parseTypeKindID(data)
	if err != nil {
		return nil, err
	}
	return id.(TypeName), nil
}

func parseTypeKindID(data json.RawMessage) (TypeKindID, error) {
	elems, tag, err := taggedElems(data)
	if err != nil {
		return nil, err
	}
	if len(elems) != 2 {
		return nil, fmt.Errorf("ir: kind id form has %d elements, want 2", len(elems))
	}
	var name string
	if err := json.Unmarshal(elems[1], &name); err != nil {
		return nil, fmt.Errorf("ir: kind id name: %w", err)
	}
	switch tag {
	case "trait":
		return TraitID(name), nil
	case "struct":
		return StructID(name), nil
	case "assoc":
		return AssocTypeID(name), nil
	default:
		return nil, fmt.Errorf("ir: unknown kind tag %q", tag)
	}
}
