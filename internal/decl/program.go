package decl

import (
	"fmt"
	"sort"

	"github.com/slate-lang/slate/internal/ir"
)

// Program is the in-memory declaration store: the canonical Database
// implementation. The compiler produces one, the store persists and
// reloads one, and tests build one directly.
//
// A Program is append-only during construction and read-only afterwards,
// which makes it safe for concurrent reads without locking.
type Program struct {
	traits       map[ir.TraitID]*TraitDatum
	structs      map[ir.StructID]*StructDatum
	assocTypes   map[ir.AssocTypeID]*AssociatedTyDatum
	impls        []*ImplDatum
	implsByTrait map[ir.TraitID][]*ImplDatum
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{
		traits:       make(map[ir.TraitID]*TraitDatum),
		structs:      make(map[ir.StructID]*StructDatum),
		assocTypes:   make(map[ir.AssocTypeID]*AssociatedTyDatum),
		implsByTrait: make(map[ir.TraitID][]*ImplDatum),
	}
}

// AddTrait registers a trait declaration. Duplicate ids are a caller bug.
func (p *Program) AddTrait(d *TraitDatum) error {
	id := d.ID()
	if _, ok := p.traits[id]; ok {
		return fmt.Errorf("duplicate trait %q", id)
	}
	p.traits[id] = d
	return nil
}

// AddStruct registers a struct declaration.
func (p *Program) AddStruct(d *StructDatum) error {
	id := d.ID()
	if _, ok := p.structs[id]; ok {
		return fmt.Errorf("duplicate struct %q", id)
	}
	p.structs[id] = d
	return nil
}

// AddAssociatedTy registers an associated-type declaration.
func (p *Program) AddAssociatedTy(d *AssociatedTyDatum) error {
	if _, ok := p.assocTypes[d.ID]; ok {
		return fmt.Errorf("duplicate associated type %q", d.ID)
	}
	p.assocTypes[d.ID] = d
	return nil
}

// AddImpl registers an impl. Impls keep declaration order; ImplsForTrait
// returns them in that order.
func (p *Program) AddImpl(d *ImplDatum) {
	p.impls = append(p.impls, d)
	trait := d.TraitID()
	p.implsByTrait[trait] = append(p.implsByTrait[trait], d)
}

// TraitDatum implements Database.
func (p *Program) TraitDatum(id ir.TraitID) *TraitDatum {
	d, ok := p.traits[id]
	if !ok {
		panic(fmt.Sprintf("decl: unknown trait %q", id))
	}
	return d
}

// StructDatum implements Database.
func (p *Program) StructDatum(id ir.StructID) *StructDatum {
	d, ok := p.structs[id]
	if !ok {
		panic(fmt.Sprintf("decl: unknown struct %q", id))
	}
	return d
}

// AssociatedTyDatum implements Database.
func (p *Program) AssociatedTyDatum(id ir.AssocTypeID) *AssociatedTyDatum {
	d, ok := p.assocTypes[id]
	if !ok {
		panic(fmt.Sprintf("decl: unknown associated type %q", id))
	}
	return d
}

// ImplProvidedFor implements Database. Both polarities count: an
// explicit negative impl is as suppressive as a positive one.
func (p *Program) ImplProvidedFor(trait ir.TraitID, str ir.StructID) bool {
	for _, impl := range p.implsByTrait[trait] {
		if impl.SelfStructID() == str {
			return true
		}
	}
	return false
}

// ImplsForTrait implements Database.
func (p *Program) ImplsForTrait(id ir.TraitID) []*ImplDatum {
	return p.implsByTrait[id]
}

// HasTrait reports whether the trait is declared. Used by validation and
// the CLI, never by the clause layer (whose lookups are total).
func (p *Program) HasTrait(id ir.TraitID) bool {
	_, ok := p.traits[id]
	return ok
}

// HasStruct reports whether the struct is declared.
func (p *Program) HasStruct(id ir.StructID) bool {
	_, ok := p.structs[id]
	return ok
}

// HasAssociatedTy reports whether the associated type is declared.
func (p *Program) HasAssociatedTy(id ir.AssocTypeID) bool {
	_, ok := p.assocTypes[id]
	return ok
}

// Traits returns all trait declarations sorted by id.
func (p *Program) Traits() []*TraitDatum {
	out := make([]*TraitDatum, 0, len(p.traits))
	for _, d := range p.traits {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Structs returns all struct declarations sorted by id.
func (p *Program) Structs() []*StructDatum {
	out := make([]*StructDatum, 0, len(p.structs))
	for _, d := range p.structs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// AssociatedTys returns all associated-type declarations sorted by id.
func (p *Program) AssociatedTys() []*AssociatedTyDatum {
	out := make([]*AssociatedTyDatum, 0, len(p.assocTypes))
	for _, d := range p.assocTypes {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Impls returns all impls in declaration order.
func (p *Program) Impls() []*ImplDatum {
	return p.impls
}
