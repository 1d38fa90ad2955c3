package processors

import (
	"wlang-compiler/internal/pkg/ast"
	"wlang-compiler/internal/pkg/ast/parsed"
	"wlang-compiler/internal/pkg/common"
)

// FunctionSignature is a top-level function as the checker sees it. Params
// and Return hold inference holes where the source carries no annotation;
// unification fills them in, first call site wins.
type FunctionSignature struct {
	Name       string
	Location   ast.Location
	ParamNames []string
	Params     []ast.Type
	Return     ast.Type
}

type StructField struct {
	Name     string
	Type     ast.Type
	Location ast.Location
}

// StructShape is a declared product type. Field order is declaration order
// and is authoritative for positional construction and pattern lowering.
type StructShape struct {
	Name     string
	Location ast.Location
	Fields   []StructField
}

func (s *StructShape) Field(name string) *StructField {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// SymbolTable is owned by whoever runs the pipeline and passed explicitly
// into each stage that needs it. It is never shared between compilations.
type SymbolTable struct {
	Functions map[string]*FunctionSignature
	Structs   map[string]*StructShape

	nextVar uint64
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Functions: map[string]*FunctionSignature{},
		Structs:   map[string]*StructShape{},
	}
}

func (st *SymbolTable) freshVar(loc ast.Location) *ast.TVar {
	st.nextVar++
	return ast.NewTVar(loc, st.nextVar)
}

func (st *SymbolTable) registerDefinition(d *parsed.Definition) *FunctionSignature {
	sig := &FunctionSignature{
		Name:       d.Name,
		Location:   d.Location(),
		ParamNames: make([]string, len(d.Params)),
		Params:     make([]ast.Type, len(d.Params)),
		Return:     d.Return,
	}
	for i, p := range d.Params {
		sig.ParamNames[i] = p.Name
		sig.Params[i] = p.Type
		if sig.Params[i] == nil {
			sig.Params[i] = st.freshVar(p.Location)
		}
	}
	if sig.Return == nil {
		sig.Return = st.freshVar(d.Location())
	}
	st.Functions[d.Name] = sig
	return sig
}

func (st *SymbolTable) registerStruct(d *parsed.StructDefinition) *StructShape {
	shape := &StructShape{Name: d.Name, Location: d.Location()}
	for _, f := range d.Fields {
		shape.Fields = append(shape.Fields, StructField{
			Name: f.Name, Type: f.Type, Location: f.Location,
		})
	}
	st.Structs[d.Name] = shape
	return shape
}

// CollectSymbols registers every top-level function signature and struct
// shape before any body is checked, so forward references resolve without a
// second traversal over the caller.
func CollectSymbols(module *parsed.Module) (*SymbolTable, error) {
	st := NewSymbolTable()
	for _, stmt := range module.Statements {
		switch s := stmt.(type) {
		case *parsed.Definition:
			if prev, dup := st.Functions[s.Name]; dup {
				return nil, common.Error{
					Kind:     common.SyntaxError,
					Location: s.Location(),
					Extra:    []ast.Location{prev.Location},
					Message:  "function `" + s.Name + "` is defined more than once",
				}
			}
			st.registerDefinition(s)
		case *parsed.StructDefinition:
			if prev, dup := st.Structs[s.Name]; dup {
				return nil, common.Error{
					Kind:     common.SyntaxError,
					Location: s.Location(),
					Extra:    []ast.Location{prev.Location},
					Message:  "struct `" + s.Name + "` is defined more than once",
				}
			}
			st.registerStruct(s)
		}
	}
	return st, nil
}
