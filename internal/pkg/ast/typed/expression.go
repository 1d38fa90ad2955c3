// Package typed holds the tree produced by the checker: the parsed tree with
// a resolved type on every node, plus the lowered Select form the pattern
// compiler substitutes for Match.
package typed

import (
	"wlang-compiler/internal/pkg/ast"
)

type Expression interface {
	Location() ast.Location
	Type() ast.Type
	_expression()
}

type expressionBase struct {
	location ast.Location
	// set once by the checker, rewritten only by substitution application
	typ ast.Type
}

func (e *expressionBase) Location() ast.Location { return e.location }
func (e *expressionBase) Type() ast.Type         { return e.typ }
func (e *expressionBase) SetType(t ast.Type)     { e.typ = t }
func (*expressionBase) _expression()             {}

func base(loc ast.Location, typ ast.Type) expressionBase {
	return expressionBase{location: loc, typ: typ}
}

// TypeSetter is implemented by every typed node; the checker uses it when
// applying the final substitution.
type TypeSetter interface {
	SetType(t ast.Type)
}

type Module struct {
	FilePath   string
	Statements []Expression
}

type Int struct {
	expressionBase
	Value int64
}

func NewInt(loc ast.Location, typ ast.Type, value int64) *Int {
	return &Int{expressionBase: base(loc, typ), Value: value}
}

type Float struct {
	expressionBase
	Value float64
}

func NewFloat(loc ast.Location, typ ast.Type, value float64) *Float {
	return &Float{expressionBase: base(loc, typ), Value: value}
}

type String struct {
	expressionBase
	Value string
}

func NewString(loc ast.Location, typ ast.Type, value string) *String {
	return &String{expressionBase: base(loc, typ), Value: value}
}

type Bool struct {
	expressionBase
	Value bool
}

func NewBool(loc ast.Location, typ ast.Type, value bool) *Bool {
	return &Bool{expressionBase: base(loc, typ), Value: value}
}

type Var struct {
	expressionBase
	Name string
}

func NewVar(loc ast.Location, typ ast.Type, name string) *Var {
	return &Var{expressionBase: base(loc, typ), Name: name}
}

type Call struct {
	expressionBase
	Name string
	Args []Expression
}

func NewCall(loc ast.Location, typ ast.Type, name string, args []Expression) *Call {
	return &Call{expressionBase: base(loc, typ), Name: name, Args: args}
}

type BinOp struct {
	expressionBase
	Op    string
	Left  Expression
	Right Expression
}

func NewBinOp(loc ast.Location, typ ast.Type, op string, left, right Expression) *BinOp {
	return &BinOp{expressionBase: base(loc, typ), Op: op, Left: left, Right: right}
}

type UnOp struct {
	expressionBase
	Op      string
	Operand Expression
}

func NewUnOp(loc ast.Location, typ ast.Type, op string, operand Expression) *UnOp {
	return &UnOp{expressionBase: base(loc, typ), Op: op, Operand: operand}
}

type List struct {
	expressionBase
	Items []Expression
}

func NewList(loc ast.Location, typ ast.Type, items []Expression) *List {
	return &List{expressionBase: base(loc, typ), Items: items}
}

type Tuple struct {
	expressionBase
	Items []Expression
}

func NewTuple(loc ast.Location, typ ast.Type, items []Expression) *Tuple {
	return &Tuple{expressionBase: base(loc, typ), Items: items}
}

type MapEntry struct {
	Key   Expression
	Value Expression
}

type MapLiteral struct {
	expressionBase
	Entries []MapEntry
}

func NewMapLiteral(loc ast.Location, typ ast.Type, entries []MapEntry) *MapLiteral {
	return &MapLiteral{expressionBase: base(loc, typ), Entries: entries}
}

type StructLiteral struct {
	expressionBase
	Name   string
	Values []Expression
}

func NewStructLiteral(loc ast.Location, typ ast.Type, name string, values []Expression) *StructLiteral {
	return &StructLiteral{expressionBase: base(loc, typ), Name: name, Values: values}
}

type Param struct {
	Location ast.Location
	Name     string
	Type     ast.Type
}

// Definition's own type is unit; Params and Return carry the signature after
// inference has resolved it.
type Definition struct {
	expressionBase
	Name   string
	Params []Param
	Return ast.Type
	Body   Expression
}

func NewDefinition(loc ast.Location, name string, params []Param, ret ast.Type, body Expression) *Definition {
	return &Definition{
		expressionBase: base(loc, ast.NewTUnit(loc)),
		Name:           name, Params: params, Return: ret, Body: body,
	}
}

type Field struct {
	Location ast.Location
	Name     string
	Type     ast.Type
}

type StructDefinition struct {
	expressionBase
	Name   string
	Fields []Field
}

func NewStructDefinition(loc ast.Location, name string, fields []Field) *StructDefinition {
	return &StructDefinition{expressionBase: base(loc, ast.NewTUnit(loc)), Name: name, Fields: fields}
}

type CondBranch struct {
	Condition Expression
	Body      Expression
}

type Cond struct {
	expressionBase
	Branches []CondBranch
	Default  Expression
}

func NewCond(loc ast.Location, typ ast.Type, branches []CondBranch, deflt Expression) *Cond {
	return &Cond{expressionBase: base(loc, typ), Branches: branches, Default: deflt}
}

type MatchArm struct {
	Pattern Pattern
	Body    Expression
}

// Match is the checked but not yet lowered form. It never reaches the
// generator; the pattern compiler replaces it with Select.
type Match struct {
	expressionBase
	Scrutinee Expression
	Arms      []MatchArm
}

func NewMatch(loc ast.Location, typ ast.Type, scrutinee Expression, arms []MatchArm) *Match {
	return &Match{expressionBase: base(loc, typ), Scrutinee: scrutinee, Arms: arms}
}

type SelectArm struct {
	Pattern Pattern
	Body    Expression
}

// Select is the lowered match: the scrutinee is evaluated exactly once, arms
// are tested strictly in source order and exactly one arm runs. Trapped
// reports whether a catch-all trap arm must be emitted because no source arm
// is irrefutable.
type Select struct {
	expressionBase
	Scrutinee Expression
	Arms      []SelectArm
	Trapped   bool
}

func NewSelect(loc ast.Location, typ ast.Type, scrutinee Expression, arms []SelectArm, trapped bool) *Select {
	return &Select{expressionBase: base(loc, typ), Scrutinee: scrutinee, Arms: arms, Trapped: trapped}
}

type Lambda struct {
	expressionBase
	Params []Param
	Body   Expression
}

func NewLambda(loc ast.Location, typ ast.Type, params []Param, body Expression) *Lambda {
	return &Lambda{expressionBase: base(loc, typ), Params: params, Body: body}
}

type Some struct {
	expressionBase
	Value Expression
}

func NewSome(loc ast.Location, typ ast.Type, value Expression) *Some {
	return &Some{expressionBase: base(loc, typ), Value: value}
}

type None struct {
	expressionBase
}

func NewNone(loc ast.Location, typ ast.Type) *None {
	return &None{expressionBase: base(loc, typ)}
}

type Ok struct {
	expressionBase
	Value Expression
}

func NewOk(loc ast.Location, typ ast.Type, value Expression) *Ok {
	return &Ok{expressionBase: base(loc, typ), Value: value}
}

type Err struct {
	expressionBase
	Value Expression
}

func NewErr(loc ast.Location, typ ast.Type, value Expression) *Err {
	return &Err{expressionBase: base(loc, typ), Value: value}
}

type LogCall struct {
	expressionBase
	Level   string
	Message Expression
}

func NewLogCall(loc ast.Location, typ ast.Type, level string, message Expression) *LogCall {
	return &LogCall{expressionBase: base(loc, typ), Level: level, Message: message}
}
