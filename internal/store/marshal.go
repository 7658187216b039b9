package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/slate-lang/slate/internal/decl"
	"github.com/slate-lang/slate/internal/ir"
)

// Row serialization. Datums are stored as JSON objects whose type and
// goal fields hold the canonical term encoding, so the row bytes are a
// pure function of the datum and the content hashes are stable across
// saves.

// hashDomain separates row hashes from the ir package's clause and
// goal domains.
const hashDomain = "slate/store/v1"

// contentHash computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func contentHash(data []byte) string {
	h := sha256.New()
	h.Write([]byte(hashDomain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

type wireTraitRef struct {
	Trait string            `json:"trait"`
	Args  []json.RawMessage `json:"args"`
}

type wireTrait struct {
	Params   []string          `json:"params"`
	TraitRef wireTraitRef      `json:"trait_ref"`
	Where    []json.RawMessage `json:"where_clauses"`
	Flags    decl.TraitFlags   `json:"flags"`
}

type wireStruct struct {
	Params []string          `json:"params"`
	SelfTy json.RawMessage   `json:"self_ty"`
	Fields []json.RawMessage `json:"fields"`
	Where  []json.RawMessage `json:"where_clauses"`
	Flags  decl.StructFlags  `json:"flags"`
}

type wireAssocTy struct {
	Trait  string            `json:"trait"`
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Params []string          `json:"params"`
	Where  []json.RawMessage `json:"where_clauses"`
}

type wireAssocValue struct {
	AssocType string          `json:"assoc_type"`
	Value     json.RawMessage `json:"value"`
}

type wireImpl struct {
	Params      []string          `json:"params"`
	TraitRef    wireTraitRef      `json:"trait_ref"`
	Negative    bool              `json:"negative"`
	Where       []json.RawMessage `json:"where_clauses"`
	AssocValues []wireAssocValue  `json:"associated_ty_values"`
}

// marshalRow encodes a wire value with HTML escaping disabled, matching
// the canonical-JSON treatment inside the embedded term encodings.
func marshalRow(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func encodeTypes(types []ir.Type) []json.RawMessage {
	out := make([]json.RawMessage, len(types))
	for i, t := range types {
		out[i] = ir.CanonicalType(t)
	}
	return out
}

func encodeGoals(goals []ir.Goal) []json.RawMessage {
	out := make([]json.RawMessage, len(goals))
	for i, g := range goals {
		out[i] = ir.CanonicalGoal(g)
	}
	return out
}

func encodeTraitRef(ref ir.TraitRef) wireTraitRef {
	return wireTraitRef{Trait: string(ref.Trait), Args: encodeTypes(ref.Args)}
}

func decodeTypes(raw []json.RawMessage) ([]ir.Type, error) {
	var out []ir.Type
	for i, r := range raw {
		ty, err := ir.ParseType(r)
		if err != nil {
			return nil, fmt.Errorf("type %d: %w", i, err)
		}
		out = append(out, ty)
	}
	return out, nil
}

func decodeGoals(raw []json.RawMessage) ([]ir.Goal, error) {
	var out []ir.Goal
	for i, r := range raw {
		g, err := ir.ParseGoal(r)
		if err != nil {
			return nil, fmt.Errorf("goal %d: %w", i, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func decodeTraitRef(w wireTraitRef) (ir.TraitRef, error) {
	args, err := decodeTypes(w.Args)
	if err != nil {
		return ir.TraitRef{}, err
	}
	return ir.TraitRef{Trait: ir.TraitID(w.Trait), Args: args}, nil
}

func encodeTrait(d *decl.TraitDatum) ([]byte, error) {
	bound := d.Binders.Value
	return marshalRow(wireTrait{
		Params:   d.Binders.Params,
		TraitRef: encodeTraitRef(bound.TraitRef),
		Where:    encodeGoals(bound.WhereClauses),
		Flags:    bound.Flags,
	})
}

func decodeTrait(data []byte) (*decl.TraitDatum, error) {
	var w wireTrait
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("trait row: %w", err)
	}
	ref, err := decodeTraitRef(w.TraitRef)
	if err != nil {
		return nil, fmt.Errorf("trait ref: %w", err)
	}
	where, err := decodeGoals(w.Where)
	if err != nil {
		return nil, fmt.Errorf("trait where clause: %w", err)
	}
	return &decl.TraitDatum{Binders: decl.Binders[decl.TraitDatumBound]{
		Params: w.Params,
		Value: decl.TraitDatumBound{
			TraitRef:     ref,
			WhereClauses: where,
			Flags:        w.Flags,
		},
	}}, nil
}

func encodeStruct(d *decl.StructDatum) ([]byte, error) {
	bound := d.Binders.Value
	return marshalRow(wireStruct{
		Params: d.Binders.Params,
		SelfTy: ir.CanonicalType(bound.SelfTy),
		Fields: encodeTypes(bound.Fields),
		Where:  encodeGoals(bound.WhereClauses),
		Flags:  bound.Flags,
	})
}

func decodeStruct(data []byte) (*decl.StructDatum, error) {
	var w wireStruct
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("struct row: %w", err)
	}
	selfTy, err := ir.ParseType(w.SelfTy)
	if err != nil {
		return nil, fmt.Errorf("struct self type: %w", err)
	}
	applied, ok := selfTy.(ir.Applied)
	if !ok {
		return nil, fmt.Errorf("struct self type is %T, want application", selfTy)
	}
	fields, err := decodeTypes(w.Fields)
	if err != nil {
		return nil, fmt.Errorf("struct field: %w", err)
	}
	where, err := decodeGoals(w.Where)
	if err != nil {
		return nil, fmt.Errorf("struct where clause: %w", err)
	}
	return &decl.StructDatum{Binders: decl.Binders[decl.StructDatumBound]{
		Params: w.Params,
		Value: decl.StructDatumBound{
			SelfTy:       applied,
			Fields:       fields,
			WhereClauses: where,
			Flags:        w.Flags,
		},
	}}, nil
}

func encodeAssocTy(d *decl.AssociatedTyDatum) ([]byte, error) {
	return marshalRow(wireAssocTy{
		Trait:  string(d.Trait),
		ID:     string(d.ID),
		Name:   d.Name,
		Params: d.Params,
		Where:  encodeGoals(d.WhereClauses),
	})
}

func decodeAssocTy(data []byte) (*decl.AssociatedTyDatum, error) {
	var w wireAssocTy
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("assoc type row: %w", err)
	}
	where, err := decodeGoals(w.Where)
	if err != nil {
		return nil, fmt.Errorf("assoc type where clause: %w", err)
	}
	return &decl.AssociatedTyDatum{
		Trait:        ir.TraitID(w.Trait),
		ID:           ir.AssocTypeID(w.ID),
		Name:         w.Name,
		Params:       w.Params,
		WhereClauses: where,
	}, nil
}

func encodeImpl(d *decl.ImplDatum) ([]byte, error) {
	bound := d.Binders.Value
	values := make([]wireAssocValue, len(bound.AssociatedTyValues))
	for i, v := range bound.AssociatedTyValues {
		values[i] = wireAssocValue{
			AssocType: string(v.AssocType),
			Value:     ir.CanonicalType(v.Value),
		}
	}
	return marshalRow(wireImpl{
		Params:      d.Binders.Params,
		TraitRef:    encodeTraitRef(bound.TraitRef),
		Negative:    bound.Polarity == decl.Negative,
		Where:       encodeGoals(bound.WhereClauses),
		AssocValues: values,
	})
}

func decodeImpl(data []byte) (*decl.ImplDatum, error) {
	var w wireImpl
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("impl row: %w", err)
	}
	ref, err := decodeTraitRef(w.TraitRef)
	if err != nil {
		return nil, fmt.Errorf("impl trait ref: %w", err)
	}
	where, err := decodeGoals(w.Where)
	if err != nil {
		return nil, fmt.Errorf("impl where clause: %w", err)
	}
	var values []decl.AssociatedTyValue
	for i, v := range w.AssocValues {
		ty, err := ir.ParseType(v.Value)
		if err != nil {
			return nil, fmt.Errorf("impl associated type value %d: %w", i, err)
		}
		values = append(values, decl.AssociatedTyValue{
			AssocType: ir.AssocTypeID(v.AssocType),
			Value:     ty,
		})
	}
	polarity := decl.Positive
	if w.Negative {
		polarity = decl.Negative
	}
	return &decl.ImplDatum{Binders: decl.Binders[decl.ImplDatumBound]{
		Params: w.Params,
		Value: decl.ImplDatumBound{
			TraitRef:           ref,
			Polarity:           polarity,
			WhereClauses:       where,
			AssociatedTyValues: values,
		},
	}}, nil
}
