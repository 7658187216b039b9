package compiler

import (
	"fmt"
	"unicode"

	"github.com/slate-lang/slate/internal/ir"
)

// Type-expression parser. Program definitions write types as source
// text, e.g. "Box<Option<MyList<T>>>"; this parses them into ir terms.
//
// Grammar:
//
//	type  ::= ident | ident "<" type ("," type)* ">"
//	bound ::= type ":" ident | type ":" ident "<" type ("," type)* ">"
//
// An identifier that names one of the enclosing declaration's parameters
// becomes a bound variable (parameter i is de Bruijn index i); anything
// else becomes a struct application. Trait heads only appear on the
// right side of a bound.

// ParseTypeExpr parses a type expression. params are the enclosing
// declaration's parameter names in order.
func ParseTypeExpr(src string, params []string) (ir.Type, error) {
	p := newTypeParser(src, params)
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return ty, nil
}

// ParseBoundExpr parses a bound of the form "Type: Trait" or
// "Type: Trait<Args>" into an Implemented goal whose Self is the left
// side.
func ParseBoundExpr(src string, params []string) (ir.Goal, error) {
	p := newTypeParser(src, params)
	self, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expect(':'); err != nil {
		return nil, err
	}
	trait, args, err := p.parseHeadApplication()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return ir.Implemented{Ref: ir.TraitRef{
		Trait: ir.TraitID(trait),
		Args:  append([]ir.Type{self}, args...),
	}}, nil
}

type typeParser struct {
	src    string
	pos    int
	params []string
}

func newTypeParser(src string, params []string) *typeParser {
	return &typeParser{src: src, params: params}
}

func (p *typeParser) parseType() (ir.Type, error) {
	name, args, err := p.parseHeadApplication()
	if err != nil {
		return nil, err
	}
	for i, param := range p.params {
		if name == param {
			if len(args) > 0 {
				return nil, p.errorf("parameter %q cannot take type arguments", name)
			}
			return ir.BoundVar{Depth: i}, nil
		}
	}
	return ir.Applied{Name: ir.StructID(name), Args: args}, nil
}

// parseHeadApplication parses "Name" or "Name<args>" and returns the
// head identifier with its parsed arguments.
func (p *typeParser) parseHeadApplication() (string, []ir.Type, error) {
	name, err := p.parseIdent()
	if err != nil {
		return "", nil, err
	}
	p.skipSpace()
	if !p.peek('<') {
		return name, nil, nil
	}
	p.pos++ // consume '<'

	var args []ir.Type
	for {
		arg, err := p.parseType()
		if err != nil {
			return "", nil, err
		}
		args = append(args, arg)
		p.skipSpace()
		if p.peek(',') {
			p.pos++
			continue
		}
		break
	}
	if err := p.expect('>'); err != nil {
		return "", nil, err
	}
	return name, args, nil
}

func (p *typeParser) parseIdent() (string, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			p.pos++
			continue
		}
		if r == ':' && p.isQualifierColon() {
			p.pos += 2
			continue
		}
		break
	}
	if p.pos == start {
		return "", p.errorf("expected identifier")
	}
	return p.src[start:p.pos], nil
}

// isQualifierColon reports whether the colon at the current position is
// part of a "::" qualifier inside an identifier (as in "Iterator::Item")
// rather than a bound separator.
func (p *typeParser) isQualifierColon() bool {
	return p.pos+1 < len(p.src) && p.src[p.pos+1] == ':'
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) peek(c byte) bool {
	return p.pos < len(p.src) && p.src[p.pos] == c
}

func (p *typeParser) expect(c byte) error {
	p.skipSpace()
	if !p.peek(c) {
		return p.errorf("expected %q", string(c))
	}
	p.pos++
	return nil
}

func (p *typeParser) expectEnd() error {
	p.skipSpace()
	if p.pos != len(p.src) {
		return p.errorf("unexpected trailing input %q", p.src[p.pos:])
	}
	return nil
}

func (p *typeParser) errorf(format string, args ...any) error {
	at := p.pos
	if at > len(p.src) {
		at = len(p.src)
	}
	return fmt.Errorf("type expression %q at offset %d: %s", p.src, at, fmt.Sprintf(format, args...))
}
