package typed

import (
	"wlang-compiler/internal/pkg/ast"
)

type Pattern interface {
	Location() ast.Location
	Type() ast.Type
	_pattern()
}

type patternBase struct {
	location ast.Location
	typ      ast.Type
}

func (p *patternBase) Location() ast.Location { return p.location }
func (p *patternBase) Type() ast.Type         { return p.typ }
func (p *patternBase) SetType(t ast.Type)     { p.typ = t }
func (*patternBase) _pattern()                {}

func pbase(loc ast.Location, typ ast.Type) patternBase {
	return patternBase{location: loc, typ: typ}
}

type PAny struct {
	patternBase
}

func NewPAny(loc ast.Location, typ ast.Type) *PAny {
	return &PAny{patternBase: pbase(loc, typ)}
}

type PLiteral struct {
	patternBase
	Value Expression
}

func NewPLiteral(loc ast.Location, typ ast.Type, value Expression) *PLiteral {
	return &PLiteral{patternBase: pbase(loc, typ), Value: value}
}

type PNamed struct {
	patternBase
	Name string
}

func NewPNamed(loc ast.Location, typ ast.Type, name string) *PNamed {
	return &PNamed{patternBase: pbase(loc, typ), Name: name}
}

type PTuple struct {
	patternBase
	Items []Pattern
}

func NewPTuple(loc ast.Location, typ ast.Type, items []Pattern) *PTuple {
	return &PTuple{patternBase: pbase(loc, typ), Items: items}
}

type PSome struct {
	patternBase
	Nested Pattern
}

func NewPSome(loc ast.Location, typ ast.Type, nested Pattern) *PSome {
	return &PSome{patternBase: pbase(loc, typ), Nested: nested}
}

type PNone struct {
	patternBase
}

func NewPNone(loc ast.Location, typ ast.Type) *PNone {
	return &PNone{patternBase: pbase(loc, typ)}
}

type POk struct {
	patternBase
	Nested Pattern
}

func NewPOk(loc ast.Location, typ ast.Type, nested Pattern) *POk {
	return &POk{patternBase: pbase(loc, typ), Nested: nested}
}

type PErr struct {
	patternBase
	Nested Pattern
}

func NewPErr(loc ast.Location, typ ast.Type, nested Pattern) *PErr {
	return &PErr{patternBase: pbase(loc, typ), Nested: nested}
}

type PStructField struct {
	Location ast.Location
	Name     string
	Pattern  Pattern
}

// PStruct fields appear in source order here; the pattern compiler rewrites
// them into declaration order and sets Partial when fields were omitted.
type PStruct struct {
	patternBase
	Name    string
	Fields  []PStructField
	Partial bool
}

func NewPStruct(loc ast.Location, typ ast.Type, name string, fields []PStructField) *PStruct {
	return &PStruct{patternBase: pbase(loc, typ), Name: name, Fields: fields}
}
