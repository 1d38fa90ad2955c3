// Package parsed holds the syntax tree produced by the parser, before any
// type information is attached.
package parsed

import (
	"wlang-compiler/internal/pkg/ast"
)

type Expression interface {
	Location() ast.Location
	_expression()
}

type expressionBase struct {
	location ast.Location
}

func (e *expressionBase) Location() ast.Location { return e.location }
func (*expressionBase) _expression()             {}

// Module is one compilation unit: its ordered top-level expressions.
type Module struct {
	FilePath   string
	Statements []Expression
}

type Int struct {
	expressionBase
	Value int64
}

func NewInt(loc ast.Location, value int64) *Int {
	return &Int{expressionBase: expressionBase{location: loc}, Value: value}
}

type Float struct {
	expressionBase
	Value float64
}

func NewFloat(loc ast.Location, value float64) *Float {
	return &Float{expressionBase: expressionBase{location: loc}, Value: value}
}

type String struct {
	expressionBase
	Value string
}

func NewString(loc ast.Location, value string) *String {
	return &String{expressionBase: expressionBase{location: loc}, Value: value}
}

type Bool struct {
	expressionBase
	Value bool
}

func NewBool(loc ast.Location, value bool) *Bool {
	return &Bool{expressionBase: expressionBase{location: loc}, Value: value}
}

type Var struct {
	expressionBase
	Name string
}

func NewVar(loc ast.Location, name string) *Var {
	return &Var{expressionBase: expressionBase{location: loc}, Name: name}
}

// Call is a bracket form already disambiguated as a function invocation
// (user functions and built-ins alike).
type Call struct {
	expressionBase
	Name string
	Args []Expression
}

func NewCall(loc ast.Location, name string, args []Expression) *Call {
	return &Call{expressionBase: expressionBase{location: loc}, Name: name, Args: args}
}

type BinOp struct {
	expressionBase
	Op    string
	Left  Expression
	Right Expression
}

func NewBinOp(loc ast.Location, op string, left, right Expression) *BinOp {
	return &BinOp{expressionBase: expressionBase{location: loc}, Op: op, Left: left, Right: right}
}

type UnOp struct {
	expressionBase
	Op      string
	Operand Expression
}

func NewUnOp(loc ast.Location, op string, operand Expression) *UnOp {
	return &UnOp{expressionBase: expressionBase{location: loc}, Op: op, Operand: operand}
}

type List struct {
	expressionBase
	Items []Expression
}

func NewList(loc ast.Location, items []Expression) *List {
	return &List{expressionBase: expressionBase{location: loc}, Items: items}
}

// Tuple with no items is the unit value.
type Tuple struct {
	expressionBase
	Items []Expression
}

func NewTuple(loc ast.Location, items []Expression) *Tuple {
	return &Tuple{expressionBase: expressionBase{location: loc}, Items: items}
}

type MapEntry struct {
	Key   Expression
	Value Expression
}

type MapLiteral struct {
	expressionBase
	Entries []MapEntry
}

func NewMapLiteral(loc ast.Location, entries []MapEntry) *MapLiteral {
	return &MapLiteral{expressionBase: expressionBase{location: loc}, Entries: entries}
}

// StructLiteral is a bracket form whose head names a struct declared earlier
// in the unit; values are positional in declaration order.
type StructLiteral struct {
	expressionBase
	Name   string
	Values []Expression
}

func NewStructLiteral(loc ast.Location, name string, values []Expression) *StructLiteral {
	return &StructLiteral{expressionBase: expressionBase{location: loc}, Name: name, Values: values}
}

type Param struct {
	Location ast.Location
	Name     string
	Type     ast.Type // nil when the parameter is unannotated
}

// Definition is `Name[params] := body`, optionally with a return annotation
// `Name[params] : Ret := body`.
type Definition struct {
	expressionBase
	Name   string
	Params []Param
	Return ast.Type // nil when inferred from the body
	Body   Expression
}

func NewDefinition(loc ast.Location, name string, params []Param, ret ast.Type, body Expression) *Definition {
	return &Definition{
		expressionBase: expressionBase{location: loc},
		Name:           name, Params: params, Return: ret, Body: body,
	}
}

type Field struct {
	Location ast.Location
	Name     string
	Type     ast.Type
}

// StructDefinition is `Struct[Name, [field: Type, ...]]`.
type StructDefinition struct {
	expressionBase
	Name   string
	Fields []Field
}

func NewStructDefinition(loc ast.Location, name string, fields []Field) *StructDefinition {
	return &StructDefinition{expressionBase: expressionBase{location: loc}, Name: name, Fields: fields}
}

type CondBranch struct {
	Condition Expression
	Body      Expression
}

// Cond is `Cond[[c1, e1], [c2, e2], ..., [default]]`; Default may be nil.
type Cond struct {
	expressionBase
	Branches []CondBranch
	Default  Expression
}

func NewCond(loc ast.Location, branches []CondBranch, deflt Expression) *Cond {
	return &Cond{expressionBase: expressionBase{location: loc}, Branches: branches, Default: deflt}
}

type MatchArm struct {
	Pattern Pattern
	Body    Expression
}

type Match struct {
	expressionBase
	Scrutinee Expression
	Arms      []MatchArm
}

func NewMatch(loc ast.Location, scrutinee Expression, arms []MatchArm) *Match {
	return &Match{expressionBase: expressionBase{location: loc}, Scrutinee: scrutinee, Arms: arms}
}

// Lambda is `Function[{p1, p2, ...}, body]`.
type Lambda struct {
	expressionBase
	Params []Param
	Body   Expression
}

func NewLambda(loc ast.Location, params []Param, body Expression) *Lambda {
	return &Lambda{expressionBase: expressionBase{location: loc}, Params: params, Body: body}
}

type Some struct {
	expressionBase
	Value Expression
}

func NewSome(loc ast.Location, value Expression) *Some {
	return &Some{expressionBase: expressionBase{location: loc}, Value: value}
}

type None struct {
	expressionBase
}

func NewNone(loc ast.Location) *None {
	return &None{expressionBase{location: loc}}
}

type Ok struct {
	expressionBase
	Value Expression
}

func NewOk(loc ast.Location, value Expression) *Ok {
	return &Ok{expressionBase: expressionBase{location: loc}, Value: value}
}

type Err struct {
	expressionBase
	Value Expression
}

func NewErr(loc ast.Location, value Expression) *Err {
	return &Err{expressionBase: expressionBase{location: loc}, Value: value}
}

type LogLevel string

const (
	LogDebug LogLevel = "Debug"
	LogInfo  LogLevel = "Info"
	LogWarn  LogLevel = "Warn"
	LogError LogLevel = "Error"
)

type LogCall struct {
	expressionBase
	Level   LogLevel
	Message Expression
}

func NewLogCall(loc ast.Location, level LogLevel, message Expression) *LogCall {
	return &LogCall{expressionBase: expressionBase{location: loc}, Level: level, Message: message}
}
