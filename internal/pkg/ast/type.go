package ast

import (
	"fmt"
	"strings"
)

// Type is the resolved type language shared by annotations, the checker and
// the generator. Equality is structural; named struct types compare by name.
type Type interface {
	fmt.Stringer
	Location() Location
	EqualsTo(other Type) bool
	_type()
}

// Primitive type names as they appear in source annotations.
const (
	Int8    = "Int8"
	Int16   = "Int16"
	Int32   = "Int32"
	Int64   = "Int64"
	Int128  = "Int128"
	Int     = "Int"
	UInt8   = "UInt8"
	UInt16  = "UInt16"
	UInt32  = "UInt32"
	UInt64  = "UInt64"
	UInt128 = "UInt128"
	UInt    = "UInt"
	Float32 = "Float32"
	Float64 = "Float64"
	Bool    = "Bool"
	Char    = "Char"
	String  = "String"
)

type typeBase struct {
	location Location
}

func (t *typeBase) Location() Location { return t.location }
func (*typeBase) _type()               {}

type TPrimitive struct {
	typeBase
	Name string
}

func NewTPrimitive(loc Location, name string) *TPrimitive {
	return &TPrimitive{typeBase: typeBase{location: loc}, Name: name}
}

func (t *TPrimitive) EqualsTo(other Type) bool {
	o, ok := other.(*TPrimitive)
	return ok && o.Name == t.Name
}

func (t *TPrimitive) String() string { return t.Name }

type TUnit struct {
	typeBase
}

func NewTUnit(loc Location) *TUnit { return &TUnit{typeBase{location: loc}} }

func (t *TUnit) EqualsTo(other Type) bool {
	_, ok := other.(*TUnit)
	return ok
}

func (t *TUnit) String() string { return "()" }

type TList struct {
	typeBase
	Item Type
}

func NewTList(loc Location, item Type) *TList {
	return &TList{typeBase: typeBase{location: loc}, Item: item}
}

func (t *TList) EqualsTo(other Type) bool {
	o, ok := other.(*TList)
	return ok && t.Item.EqualsTo(o.Item)
}

func (t *TList) String() string { return fmt.Sprintf("List[%v]", t.Item) }

type TArray struct {
	typeBase
	Item Type
	Size int64
}

func NewTArray(loc Location, item Type, size int64) *TArray {
	return &TArray{typeBase: typeBase{location: loc}, Item: item, Size: size}
}

func (t *TArray) EqualsTo(other Type) bool {
	o, ok := other.(*TArray)
	return ok && t.Size == o.Size && t.Item.EqualsTo(o.Item)
}

func (t *TArray) String() string { return fmt.Sprintf("Array[%v,%d]", t.Item, t.Size) }

type TSlice struct {
	typeBase
	Item Type
}

func NewTSlice(loc Location, item Type) *TSlice {
	return &TSlice{typeBase: typeBase{location: loc}, Item: item}
}

func (t *TSlice) EqualsTo(other Type) bool {
	o, ok := other.(*TSlice)
	return ok && t.Item.EqualsTo(o.Item)
}

func (t *TSlice) String() string { return fmt.Sprintf("Slice[%v]", t.Item) }

type TMap struct {
	typeBase
	Key   Type
	Value Type
}

func NewTMap(loc Location, key, value Type) *TMap {
	return &TMap{typeBase: typeBase{location: loc}, Key: key, Value: value}
}

func (t *TMap) EqualsTo(other Type) bool {
	o, ok := other.(*TMap)
	return ok && t.Key.EqualsTo(o.Key) && t.Value.EqualsTo(o.Value)
}

func (t *TMap) String() string { return fmt.Sprintf("Map[%v,%v]", t.Key, t.Value) }

type THashSet struct {
	typeBase
	Item Type
}

func NewTHashSet(loc Location, item Type) *THashSet {
	return &THashSet{typeBase: typeBase{location: loc}, Item: item}
}

func (t *THashSet) EqualsTo(other Type) bool {
	o, ok := other.(*THashSet)
	return ok && t.Item.EqualsTo(o.Item)
}

func (t *THashSet) String() string { return fmt.Sprintf("HashSet[%v]", t.Item) }

type TBTreeMap struct {
	typeBase
	Key   Type
	Value Type
}

func NewTBTreeMap(loc Location, key, value Type) *TBTreeMap {
	return &TBTreeMap{typeBase: typeBase{location: loc}, Key: key, Value: value}
}

func (t *TBTreeMap) EqualsTo(other Type) bool {
	o, ok := other.(*TBTreeMap)
	return ok && t.Key.EqualsTo(o.Key) && t.Value.EqualsTo(o.Value)
}

func (t *TBTreeMap) String() string { return fmt.Sprintf("BTreeMap[%v,%v]", t.Key, t.Value) }

type TBTreeSet struct {
	typeBase
	Item Type
}

func NewTBTreeSet(loc Location, item Type) *TBTreeSet {
	return &TBTreeSet{typeBase: typeBase{location: loc}, Item: item}
}

func (t *TBTreeSet) EqualsTo(other Type) bool {
	o, ok := other.(*TBTreeSet)
	return ok && t.Item.EqualsTo(o.Item)
}

func (t *TBTreeSet) String() string { return fmt.Sprintf("BTreeSet[%v]", t.Item) }

type TTuple struct {
	typeBase
	Items []Type
}

func NewTTuple(loc Location, items []Type) *TTuple {
	return &TTuple{typeBase: typeBase{location: loc}, Items: items}
}

func (t *TTuple) EqualsTo(other Type) bool {
	o, ok := other.(*TTuple)
	if !ok || len(o.Items) != len(t.Items) {
		return false
	}
	for i, item := range t.Items {
		if !item.EqualsTo(o.Items[i]) {
			return false
		}
	}
	return true
}

func (t *TTuple) String() string {
	items := make([]string, len(t.Items))
	for i, item := range t.Items {
		items[i] = item.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(items, ", "))
}

type TOption struct {
	typeBase
	Item Type
}

func NewTOption(loc Location, item Type) *TOption {
	return &TOption{typeBase: typeBase{location: loc}, Item: item}
}

func (t *TOption) EqualsTo(other Type) bool {
	o, ok := other.(*TOption)
	return ok && t.Item.EqualsTo(o.Item)
}

func (t *TOption) String() string { return fmt.Sprintf("Option[%v]", t.Item) }

type TResult struct {
	typeBase
	Ok  Type
	Err Type
}

func NewTResult(loc Location, okType, errType Type) *TResult {
	return &TResult{typeBase: typeBase{location: loc}, Ok: okType, Err: errType}
}

func (t *TResult) EqualsTo(other Type) bool {
	o, ok := other.(*TResult)
	return ok && t.Ok.EqualsTo(o.Ok) && t.Err.EqualsTo(o.Err)
}

func (t *TResult) String() string { return fmt.Sprintf("Result[%v,%v]", t.Ok, t.Err) }

// TStruct references a user-declared struct by name. The field list lives in
// the symbol table, not here, so the type graph stays finite.
type TStruct struct {
	typeBase
	Name string
}

func NewTStruct(loc Location, name string) *TStruct {
	return &TStruct{typeBase: typeBase{location: loc}, Name: name}
}

func (t *TStruct) EqualsTo(other Type) bool {
	o, ok := other.(*TStruct)
	return ok && o.Name == t.Name
}

func (t *TStruct) String() string { return t.Name }

type TFunc struct {
	typeBase
	Params []Type
	Return Type
}

func NewTFunc(loc Location, params []Type, ret Type) *TFunc {
	return &TFunc{typeBase: typeBase{location: loc}, Params: params, Return: ret}
}

func (t *TFunc) EqualsTo(other Type) bool {
	o, ok := other.(*TFunc)
	if !ok || len(o.Params) != len(t.Params) {
		return false
	}
	for i, p := range t.Params {
		if !p.EqualsTo(o.Params[i]) {
			return false
		}
	}
	return t.Return.EqualsTo(o.Return)
}

func (t *TFunc) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("Function[(%s),%v]", strings.Join(params, ", "), t.Return)
}

// TVar is an inference hole: the type of an unannotated parameter, a bare
// None/Ok/Err payload, or a missing return annotation before unification
// binds it. It never survives a successful check.
type TVar struct {
	typeBase
	Index uint64
}

func NewTVar(loc Location, index uint64) *TVar {
	return &TVar{typeBase: typeBase{location: loc}, Index: index}
}

func (t *TVar) EqualsTo(other Type) bool {
	o, ok := other.(*TVar)
	return ok && o.Index == t.Index
}

func (t *TVar) String() string { return fmt.Sprintf("?%d", t.Index) }

func IsInteger(t Type) bool {
	p, ok := t.(*TPrimitive)
	if !ok {
		return false
	}
	switch p.Name {
	case Int8, Int16, Int32, Int64, Int128, Int,
		UInt8, UInt16, UInt32, UInt64, UInt128, UInt:
		return true
	}
	return false
}

func IsFloat(t Type) bool {
	p, ok := t.(*TPrimitive)
	return ok && (p.Name == Float32 || p.Name == Float64)
}

func IsNumeric(t Type) bool {
	return IsInteger(t) || IsFloat(t)
}
