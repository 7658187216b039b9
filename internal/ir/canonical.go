package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// Canonical encoding of clause terms.
//
// Every term encodes to a compact, tagged s-expression in JSON syntax,
// e.g. ["apply",["struct","MyList"],[["var",0]]]. The encoding is a pure
// function of term structure: identical terms (modulo bound-variable
// naming, which de Bruijn indices erase) encode to identical bytes. This
// is the ONLY serialization used for content-addressed clause identity.
//
// Identifier strings are NFC normalized at the encoding boundary so that
// visually identical names arriving in different Unicode forms hash the
// same way.

// CanonicalClause encodes a program clause to its canonical form.
func CanonicalClause(c ProgramClause) []byte {
	var buf bytes.Buffer
	writeClause(&buf, c)
	return buf.Bytes()
}

// CanonicalGoal encodes a goal to its canonical form.
func CanonicalGoal(g Goal) []byte {
	var buf bytes.Buffer
	writeGoal(&buf, g)
	return buf.Bytes()
}

// CanonicalType encodes a type term to its canonical form.
func CanonicalType(t Type) []byte {
	var buf bytes.Buffer
	writeType(&buf, t)
	return buf.Bytes()
}

func writeClause(buf *bytes.Buffer, c ProgramClause) {
	buf.WriteString(`["clause",`)
	buf.WriteString(strconv.Itoa(c.Binders))
	buf.WriteByte(',')
	writeGoal(buf, c.Consequence)
	buf.WriteString(",[")
	for i, cond := range c.Conditions {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeGoal(buf, cond)
	}
	buf.WriteString("]]")
}

func writeGoal(buf *bytes.Buffer, g Goal) {
	switch goal := g.(type) {
	case Implemented:
		writeTagged(buf, "implemented", func() { writeTraitRef(buf, goal.Ref) })
	case ProjectionEq:
		writeTagged(buf, "projection-eq", func() {
			writeType(buf, goal.Projection)
			buf.WriteByte(',')
			writeType(buf, goal.Ty)
		})
	case WellFormedTrait:
		writeTagged(buf, "wf-trait", func() { writeTraitRef(buf, goal.Ref) })
	case WellFormedType:
		writeTagged(buf, "wf-type", func() { writeType(buf, goal.Ty) })
	case IsLocal:
		writeTagged(buf, "is-local", func() { writeType(buf, goal.Ty) })
	case IsUpstream:
		writeTagged(buf, "is-upstream", func() { writeType(buf, goal.Ty) })
	case IsFullyVisible:
		writeTagged(buf, "is-fully-visible", func() { writeType(buf, goal.Ty) })
	case DownstreamType:
		writeTagged(buf, "downstream-type", func() { writeType(buf, goal.Ty) })
	case FromEnvTrait:
		writeTagged(buf, "from-env-trait", func() { writeTraitRef(buf, goal.Ref) })
	case FromEnvType:
		writeTagged(buf, "from-env-type", func() { writeType(buf, goal.Ty) })
	case Normalize:
		writeTagged(buf, "normalize", func() {
			writeType(buf, goal.Projection)
			buf.WriteByte(',')
			writeType(buf, goal.Ty)
		})
	case UnselectedNormalize:
		writeTagged(buf, "unselected-normalize", func() {
			writeType(buf, goal.Ty)
			buf.WriteByte(',')
			writeType(buf, goal.Projection)
		})
	case InScope:
		writeTagged(buf, "in-scope", func() { writeTypeKindID(buf, goal.Kind) })
	case LocalImplAllowed:
		writeTagged(buf, "local-impl-allowed", func() { writeTraitRef(buf, goal.Ref) })
	case Compatible:
		buf.WriteString(`["compatible"]`)
	default:
		panic(fmt.Sprintf("ir: unknown goal variant %T", g))
	}
}

func writeType(buf *bytes.Buffer, t Type) {
	switch ty := t.(type) {
	case Applied:
		writeTagged(buf, "apply", func() {
			writeTypeName(buf, ty.Name)
			buf.WriteByte(',')
			writeTypeList(buf, ty.Args)
		})
	case Projection:
		writeTagged(buf, "proj", func() {
			writeString(buf, string(ty.AssocType))
			buf.WriteByte(',')
			writeTypeList(buf, ty.Args)
		})
	case UnselectedProjection:
		writeTagged(buf, "uproj", func() {
			writeString(buf, ty.Name)
			buf.WriteByte(',')
			writeTypeList(buf, ty.Args)
		})
	case ForAll:
		writeTagged(buf, "forall", func() {
			buf.WriteString(strconv.Itoa(ty.Binders))
			buf.WriteByte(',')
			writeType(buf, ty.Ty)
		})
	case BoundVar:
		writeTagged(buf, "var", func() { buf.WriteString(strconv.Itoa(ty.Depth)) })
	case InferenceVar:
		writeTagged(buf, "infer", func() { buf.WriteString(strconv.Itoa(ty.Index)) })
	default:
		panic(fmt.Sprintf("ir: unknown type variant %T", t))
	}
}

func writeTypeName(buf *bytes.Buffer, n TypeName) {
	switch name := n.(type) {
	case TraitID, StructID, AssocTypeID:
		kind := name.(TypeKindID)
		writeTypeKindID(buf, kind)
	case Placeholder:
		writeTagged(buf, "placeholder", func() {
			buf.WriteString(strconv.Itoa(name.Universe))
			buf.WriteByte(',')
			buf.WriteString(strconv.Itoa(name.Index))
		})
	default:
		panic(fmt.Sprintf("ir: unknown type name variant %T", n))
	}
}

func writeTypeKindID(buf *bytes.Buffer, id TypeKindID) {
	writeTagged(buf, id.kindTag(), func() { writeString(buf, id.kindName()) })
}

func writeTraitRef(buf *bytes.Buffer, ref TraitRef) {
	writeString(buf, string(ref.Trait))
	buf.WriteByte(',')
	writeTypeList(buf, ref.Args)
}

func writeTypeList(buf *bytes.Buffer, args []Type) {
	buf.WriteByte('[')
	for i, arg := range args {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeType(buf, arg)
	}
	buf.WriteByte(']')
}

func writeTagged(buf *bytes.Buffer, tag string, body func()) {
	buf.WriteByte('[')
	writeString(buf, tag)
	buf.WriteByte(',')
	body()
	buf.WriteByte(']')
}

// writeString emits a JSON string with NFC normalization and HTML escaping
// disabled, matching the canonical-JSON treatment of identifiers.
func writeString(buf *bytes.Buffer, s string) {
	normalized := norm.NFC.String(s)

	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		// Encoding a string cannot fail; a failure here means memory
		// corruption, not bad input.
		panic(fmt.Sprintf("ir: canonical string encoding: %v", err))
	}
	b := tmp.Bytes()
	// json.Encoder appends a trailing newline.
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
	}
	buf.Write(b)
}
