package parsed

import (
	"wlang-compiler/internal/pkg/ast"
)

// Pattern leaves are restricted to constant literals, wildcards and bindings;
// the checker relies on patterns being side-effect-free.
type Pattern interface {
	Location() ast.Location
	_pattern()
}

type patternBase struct {
	location ast.Location
}

func (p *patternBase) Location() ast.Location { return p.location }
func (*patternBase) _pattern()                {}

type PAny struct {
	patternBase
}

func NewPAny(loc ast.Location) *PAny {
	return &PAny{patternBase{location: loc}}
}

// PLiteral matches by equality; Value is always a literal expression node.
type PLiteral struct {
	patternBase
	Value Expression
}

func NewPLiteral(loc ast.Location, value Expression) *PLiteral {
	return &PLiteral{patternBase: patternBase{location: loc}, Value: value}
}

// PNamed binds the whole matched value to a name within the arm body.
type PNamed struct {
	patternBase
	Name string
}

func NewPNamed(loc ast.Location, name string) *PNamed {
	return &PNamed{patternBase: patternBase{location: loc}, Name: name}
}

type PTuple struct {
	patternBase
	Items []Pattern
}

func NewPTuple(loc ast.Location, items []Pattern) *PTuple {
	return &PTuple{patternBase: patternBase{location: loc}, Items: items}
}

type PSome struct {
	patternBase
	Nested Pattern
}

func NewPSome(loc ast.Location, nested Pattern) *PSome {
	return &PSome{patternBase: patternBase{location: loc}, Nested: nested}
}

type PNone struct {
	patternBase
}

func NewPNone(loc ast.Location) *PNone {
	return &PNone{patternBase{location: loc}}
}

type POk struct {
	patternBase
	Nested Pattern
}

func NewPOk(loc ast.Location, nested Pattern) *POk {
	return &POk{patternBase: patternBase{location: loc}, Nested: nested}
}

type PErr struct {
	patternBase
	Nested Pattern
}

func NewPErr(loc ast.Location, nested Pattern) *PErr {
	return &PErr{patternBase: patternBase{location: loc}, Nested: nested}
}

type PStructField struct {
	Location ast.Location
	Name     string
	Pattern  Pattern
}

// PStruct destructures a struct by field name; the pattern compiler reorders
// fields to declaration order before code generation.
type PStruct struct {
	patternBase
	Name   string
	Fields []PStructField
}

func NewPStruct(loc ast.Location, name string, fields []PStructField) *PStruct {
	return &PStruct{patternBase: patternBase{location: loc}, Name: name, Fields: fields}
}
