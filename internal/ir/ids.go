package ir

// TraitID identifies a trait declaration.
// IDs are opaque to this layer; the compiler assigns stable names.
type TraitID string

// StructID identifies a struct declaration.
type StructID string

// AssocTypeID identifies an associated-type declaration.
type AssocTypeID string

// TypeKindID is a sealed sum over the three declared-entity identifiers.
// Only TraitID, StructID, and AssocTypeID implement it.
type TypeKindID interface {
	typeKindID()
	kindTag() string
	kindName() string
}

func (TraitID) typeKindID()     {}
func (StructID) typeKindID()    {}
func (AssocTypeID) typeKindID() {}

func (TraitID) kindTag() string     { return "trait" }
func (StructID) kindTag() string    { return "struct" }
func (AssocTypeID) kindTag() string { return "assoc" }

func (id TraitID) kindName() string     { return string(id) }
func (id StructID) kindName() string    { return string(id) }
func (id AssocTypeID) kindName() string { return string(id) }

// TypeName is a sealed sum over the heads an applied type can have:
// a declared entity (trait object, struct, associated type) or a
// placeholder. Only the three ID types and Placeholder implement it.
type TypeName interface {
	typeName()
}

func (TraitID) typeName()     {}
func (StructID) typeName()    {}
func (AssocTypeID) typeName() {}

// Placeholder is a rigid, opaquely fixed type variable introduced at a
// forall binding site. Two placeholders are the same type exactly when
// both universe and index agree; nothing else is known about them.
type Placeholder struct {
	Universe int `json:"universe"`
	Index    int `json:"index"`
}

func (Placeholder) typeName() {}
