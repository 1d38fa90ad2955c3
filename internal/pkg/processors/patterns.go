package processors

import (
	"fmt"

	"wlang-compiler/internal/pkg/ast/typed"
	"wlang-compiler/internal/pkg/common"
)

// LowerPatterns rewrites every Match in the typed tree into a Select, the
// form the generator understands: the scrutinee is evaluated exactly once,
// arms are tested strictly in source order and exactly one arm runs. Struct
// patterns come out with their fields in declaration order, and a trap arm is
// flagged whenever the last arm is refutable. Everything here trusts the
// checker; an ill-shaped pattern is reported as PatternCompileError.
func LowerPatterns(module *typed.Module, symbols *SymbolTable) (result *typed.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(common.Error); ok {
				result, err = nil, e
				return
			}
			panic(r)
		}
	}()

	l := &lowerer{symbols: symbols}
	result = &typed.Module{FilePath: module.FilePath}
	for _, stmt := range module.Statements {
		result.Statements = append(result.Statements, l.expression(stmt))
	}
	return result, nil
}

type lowerer struct {
	symbols *SymbolTable
}

func (l *lowerer) expression(e typed.Expression) typed.Expression {
	switch n := e.(type) {
	case *typed.Match:
		scrutinee := l.expression(n.Scrutinee)
		arms := make([]typed.SelectArm, len(n.Arms))
		for i, arm := range n.Arms {
			arms[i] = typed.SelectArm{
				Pattern: l.pattern(arm.Pattern, true),
				Body:    l.expression(arm.Body),
			}
		}
		trapped := refutable(arms[len(arms)-1].Pattern)
		return typed.NewSelect(n.Location(), n.Type(), scrutinee, arms, trapped)

	case *typed.BinOp:
		n.Left = l.expression(n.Left)
		n.Right = l.expression(n.Right)
	case *typed.UnOp:
		n.Operand = l.expression(n.Operand)
	case *typed.List:
		for i := range n.Items {
			n.Items[i] = l.expression(n.Items[i])
		}
	case *typed.Tuple:
		for i := range n.Items {
			n.Items[i] = l.expression(n.Items[i])
		}
	case *typed.MapLiteral:
		for i := range n.Entries {
			n.Entries[i].Key = l.expression(n.Entries[i].Key)
			n.Entries[i].Value = l.expression(n.Entries[i].Value)
		}
	case *typed.StructLiteral:
		for i := range n.Values {
			n.Values[i] = l.expression(n.Values[i])
		}
	case *typed.Call:
		for i := range n.Args {
			n.Args[i] = l.expression(n.Args[i])
		}
	case *typed.Definition:
		n.Body = l.expression(n.Body)
	case *typed.Cond:
		for i := range n.Branches {
			n.Branches[i].Condition = l.expression(n.Branches[i].Condition)
			n.Branches[i].Body = l.expression(n.Branches[i].Body)
		}
		if n.Default != nil {
			n.Default = l.expression(n.Default)
		}
	case *typed.Lambda:
		n.Body = l.expression(n.Body)
	case *typed.Some:
		n.Value = l.expression(n.Value)
	case *typed.Ok:
		n.Value = l.expression(n.Value)
	case *typed.Err:
		n.Value = l.expression(n.Value)
	case *typed.LogCall:
		n.Message = l.expression(n.Message)
	}
	return e
}

// pattern validates one pattern depth-first, preserving left-to-right and
// outer-to-inner order, and rewrites struct patterns into declaration order.
// String literal patterns compile to equality guards, which cannot nest, so
// they are legal only at the top level of an arm.
func (l *lowerer) pattern(p typed.Pattern, topLevel bool) typed.Pattern {
	switch n := p.(type) {
	case *typed.PAny, *typed.PNamed, *typed.PNone:
		return p

	case *typed.PLiteral:
		switch n.Value.(type) {
		case *typed.Int, *typed.Bool:
			return p
		case *typed.String:
			if !topLevel {
				panic(common.NewError(common.PatternCompileError, n.Location(),
					"string pattern is only supported at the top level of a match arm"))
			}
			return p
		}
		panic(common.NewError(common.PatternCompileError, n.Location(),
			"pattern literal must be a constant, got %T", n.Value))

	case *typed.PTuple:
		for i := range n.Items {
			n.Items[i] = l.pattern(n.Items[i], false)
		}
		return p

	case *typed.PSome:
		n.Nested = l.pattern(n.Nested, false)
		return p
	case *typed.POk:
		n.Nested = l.pattern(n.Nested, false)
		return p
	case *typed.PErr:
		n.Nested = l.pattern(n.Nested, false)
		return p

	case *typed.PStruct:
		shape, ok := l.symbols.Structs[n.Name]
		if !ok {
			panic(common.NewError(common.PatternCompileError, n.Location(),
				"pattern names unknown struct `%s`", n.Name))
		}
		byName := map[string]typed.PStructField{}
		for _, f := range n.Fields {
			byName[f.Name] = f
		}
		ordered := make([]typed.PStructField, 0, len(n.Fields))
		for _, field := range shape.Fields {
			f, named := byName[field.Name]
			if !named {
				continue
			}
			f.Pattern = l.pattern(f.Pattern, false)
			ordered = append(ordered, f)
		}
		if len(ordered) != len(n.Fields) {
			panic(common.NewError(common.PatternCompileError, n.Location(),
				"pattern names a field that `%s` does not declare", n.Name))
		}
		n.Fields = ordered
		n.Partial = len(ordered) < len(shape.Fields)
		return p
	}
	panic(common.SystemError{Message: fmt.Sprintf("pattern lowering: unexpected pattern %T", p)})
}

// refutable reports whether a pattern can fail to match; a refutable last
// arm means the generated match needs a trap arm.
func refutable(p typed.Pattern) bool {
	switch n := p.(type) {
	case *typed.PAny, *typed.PNamed:
		return false
	case *typed.PTuple:
		return common.Any(refutable, n.Items)
	case *typed.PStruct:
		return common.Any(func(f typed.PStructField) bool { return refutable(f.Pattern) }, n.Fields)
	}
	return true
}
