package processors

import (
	"fmt"

	"wlang-compiler/internal/pkg/ast"
	"wlang-compiler/internal/pkg/ast/parsed"
	"wlang-compiler/internal/pkg/ast/typed"
	"wlang-compiler/internal/pkg/common"
)

// Built-in functions resolved before the symbol table is consulted.
const (
	builtinPrint  = "Print"
	builtinMap    = "Map"
	builtinFilter = "Filter"
	builtinFold   = "Fold"
)

type scope struct {
	parent *scope
	vars   map[string]ast.Type
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: map[string]ast.Type{}}
}

func (s *scope) lookup(name string) (ast.Type, bool) {
	for it := s; it != nil; it = it.parent {
		if t, ok := it.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

type checker struct {
	symbols *SymbolTable
	subst   map[uint64]ast.Type
	// where each inference hole got its binding, reported as a candidate
	// binding when a later site conflicts
	boundAt map[uint64]ast.Location
}

// Check walks every top-level statement bottom-up and returns the typed tree.
// The symbol table must be pre-populated by CollectSymbols. Aborts on the
// first offense.
func Check(module *parsed.Module, symbols *SymbolTable) (result *typed.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(common.Error); ok {
				result, err = nil, e
				return
			}
			panic(r)
		}
	}()

	c := &checker{
		symbols: symbols,
		subst:   map[uint64]ast.Type{},
		boundAt: map[uint64]ast.Location{},
	}
	global := newScope(nil)
	result = &typed.Module{FilePath: module.FilePath}
	for _, stmt := range module.Statements {
		result.Statements = append(result.Statements, c.checkExpression(stmt, nil, global))
	}

	for _, stmt := range result.Statements {
		c.resolveExpression(stmt)
	}
	for _, sig := range symbols.Functions {
		c.resolveSignature(sig)
	}
	return result, nil
}

func (c *checker) checkExpression(expr parsed.Expression, expected ast.Type, sc *scope) typed.Expression {
	result := c.checkExpressionInner(expr, expected, sc)
	if expected != nil {
		c.unify(result.Type(), expected, expr.Location(), nil)
	}
	return result
}

func (c *checker) checkExpressionInner(expr parsed.Expression, expected ast.Type, sc *scope) typed.Expression {
	loc := expr.Location()
	switch e := expr.(type) {
	case *parsed.Int:
		t := ast.Type(ast.NewTPrimitive(loc, ast.Int32))
		if expected != nil {
			var extra []ast.Location
			et := c.resolveTracked(expected, &extra)
			if ast.IsInteger(et) {
				t = et
			} else if ast.IsFloat(et) {
				// integer literal in a float position becomes a float literal
				return typed.NewFloat(loc, et, float64(e.Value))
			}
		}
		return typed.NewInt(loc, t, e.Value)

	case *parsed.Float:
		t := ast.Type(ast.NewTPrimitive(loc, ast.Float64))
		if expected != nil {
			var extra []ast.Location
			if et := c.resolveTracked(expected, &extra); ast.IsFloat(et) {
				t = et
			}
		}
		return typed.NewFloat(loc, t, e.Value)

	case *parsed.String:
		return typed.NewString(loc, ast.NewTPrimitive(loc, ast.String), e.Value)

	case *parsed.Bool:
		return typed.NewBool(loc, ast.NewTPrimitive(loc, ast.Bool), e.Value)

	case *parsed.Var:
		if t, ok := sc.lookup(e.Name); ok {
			return typed.NewVar(loc, t, e.Name)
		}
		if sig, ok := c.symbols.Functions[e.Name]; ok {
			return typed.NewVar(loc, ast.NewTFunc(loc, sig.Params, sig.Return), e.Name)
		}
		panic(common.NewError(common.UndefinedSymbol, loc, "undefined symbol `%s`", e.Name))

	case *parsed.BinOp:
		return c.checkBinOp(e, expected, sc)

	case *parsed.UnOp:
		switch e.Op {
		case "!":
			operand := c.checkExpression(e.Operand, ast.NewTPrimitive(loc, ast.Bool), sc)
			return typed.NewUnOp(loc, ast.NewTPrimitive(loc, ast.Bool), e.Op, operand)
		default: // "-"
			var operandExpected ast.Type
			if expected != nil {
				var extra []ast.Location
				if et := c.resolveTracked(expected, &extra); ast.IsNumeric(et) {
					operandExpected = et
				}
			}
			operand := c.checkExpression(e.Operand, operandExpected, sc)
			c.requireNumeric(e.Op, operand.Type(), loc)
			return typed.NewUnOp(loc, operand.Type(), e.Op, operand)
		}

	case *parsed.List:
		return c.checkList(e, expected, sc)

	case *parsed.Tuple:
		if len(e.Items) == 0 {
			return typed.NewTuple(loc, ast.NewTUnit(loc), nil)
		}
		var componentExpected []ast.Type
		if expected != nil {
			var extra []ast.Location
			if et, ok := c.resolveTracked(expected, &extra).(*ast.TTuple); ok && len(et.Items) == len(e.Items) {
				componentExpected = et.Items
			}
		}
		items := make([]typed.Expression, len(e.Items))
		types := make([]ast.Type, len(e.Items))
		for i, item := range e.Items {
			var itemExpected ast.Type
			if componentExpected != nil {
				itemExpected = componentExpected[i]
			}
			items[i] = c.checkExpression(item, itemExpected, sc)
			types[i] = items[i].Type()
		}
		return typed.NewTuple(loc, ast.NewTTuple(loc, types), items)

	case *parsed.MapLiteral:
		return c.checkMapLiteral(e, expected, sc)

	case *parsed.StructLiteral:
		shape, ok := c.symbols.Structs[e.Name]
		if !ok {
			panic(common.NewError(common.UndefinedSymbol, loc, "undefined struct `%s`", e.Name))
		}
		if len(e.Values) != len(shape.Fields) {
			panic(common.NewError(common.ArityMismatch, loc,
				"struct `%s` has %d fields, got %d values", e.Name, len(shape.Fields), len(e.Values)))
		}
		values := make([]typed.Expression, len(e.Values))
		for i, v := range e.Values {
			values[i] = c.checkExpression(v, shape.Fields[i].Type, sc)
		}
		return typed.NewStructLiteral(loc, ast.NewTStruct(loc, e.Name), e.Name, values)

	case *parsed.Call:
		return c.checkCall(e, sc)

	case *parsed.Definition:
		sig, ok := c.symbols.Functions[e.Name]
		if !ok {
			sig = c.symbols.registerDefinition(e)
		}
		child := newScope(sc)
		params := make([]typed.Param, len(e.Params))
		for i, p := range e.Params {
			child.vars[p.Name] = sig.Params[i]
			params[i] = typed.Param{Location: p.Location, Name: p.Name, Type: sig.Params[i]}
		}
		body := c.checkExpression(e.Body, sig.Return, child)
		return typed.NewDefinition(loc, e.Name, params, sig.Return, body)

	case *parsed.StructDefinition:
		if _, ok := c.symbols.Structs[e.Name]; !ok {
			c.symbols.registerStruct(e)
		}
		fields := make([]typed.Field, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = typed.Field{Location: f.Location, Name: f.Name, Type: f.Type}
		}
		return typed.NewStructDefinition(loc, e.Name, fields)

	case *parsed.Cond:
		return c.checkCond(e, expected, sc)

	case *parsed.Match:
		return c.checkMatch(e, expected, sc)

	case *parsed.Lambda:
		return c.checkLambda(e, expected, sc)

	case *parsed.Some:
		var payloadExpected ast.Type
		if expected != nil {
			var extra []ast.Location
			if et, ok := c.resolveTracked(expected, &extra).(*ast.TOption); ok {
				payloadExpected = et.Item
			}
		}
		value := c.checkExpression(e.Value, payloadExpected, sc)
		return typed.NewSome(loc, ast.NewTOption(loc, value.Type()), value)

	case *parsed.None:
		var item ast.Type
		if expected != nil {
			var extra []ast.Location
			if et, ok := c.resolveTracked(expected, &extra).(*ast.TOption); ok {
				item = et.Item
			}
		}
		if item == nil {
			item = c.symbols.freshVar(loc)
		}
		return typed.NewNone(loc, ast.NewTOption(loc, item))

	case *parsed.Ok:
		okExpected, errType := c.resultSides(expected, loc)
		value := c.checkExpression(e.Value, okExpected, sc)
		return typed.NewOk(loc, ast.NewTResult(loc, value.Type(), errType), value)

	case *parsed.Err:
		errExpected, okType := c.resultSidesErr(expected, loc)
		value := c.checkExpression(e.Value, errExpected, sc)
		return typed.NewErr(loc, ast.NewTResult(loc, okType, value.Type()), value)

	case *parsed.LogCall:
		message := c.checkExpression(e.Message, nil, sc)
		return typed.NewLogCall(loc, ast.NewTUnit(loc), string(e.Level), message)
	}
	panic(common.SystemError{Message: fmt.Sprintf("checker: unexpected node %T", expr)})
}

// resultSides splits an expected Result type for an Ok constructor: the
// expected payload (may be nil) and the error side (fresh hole when
// unrecoverable from context).
func (c *checker) resultSides(expected ast.Type, loc ast.Location) (okExpected, errType ast.Type) {
	if expected != nil {
		var extra []ast.Location
		if et, ok := c.resolveTracked(expected, &extra).(*ast.TResult); ok {
			return et.Ok, et.Err
		}
	}
	return nil, c.symbols.freshVar(loc)
}

func (c *checker) resultSidesErr(expected ast.Type, loc ast.Location) (errExpected, okType ast.Type) {
	if expected != nil {
		var extra []ast.Location
		if et, ok := c.resolveTracked(expected, &extra).(*ast.TResult); ok {
			return et.Err, et.Ok
		}
	}
	return nil, c.symbols.freshVar(loc)
}

func (c *checker) checkBinOp(e *parsed.BinOp, expected ast.Type, sc *scope) typed.Expression {
	loc := e.Location()
	boolType := func() ast.Type { return ast.NewTPrimitive(loc, ast.Bool) }

	switch e.Op {
	case "&&", "||":
		left := c.checkExpression(e.Left, boolType(), sc)
		right := c.checkExpression(e.Right, boolType(), sc)
		return typed.NewBinOp(loc, boolType(), e.Op, left, right)

	case "==", "!=":
		left := c.checkExpression(e.Left, nil, sc)
		right := c.checkExpression(e.Right, left.Type(), sc)
		return typed.NewBinOp(loc, boolType(), e.Op, left, right)

	case "<", ">":
		left := c.checkExpression(e.Left, nil, sc)
		right := c.checkExpression(e.Right, left.Type(), sc)
		c.requireNumeric(e.Op, left.Type(), loc)
		return typed.NewBinOp(loc, boolType(), e.Op, left, right)

	default: // arithmetic
		var leftExpected ast.Type
		if expected != nil {
			var extra []ast.Location
			if et := c.resolveTracked(expected, &extra); ast.IsNumeric(et) {
				leftExpected = et
			}
		}
		left := c.checkExpression(e.Left, leftExpected, sc)
		right := c.checkExpression(e.Right, left.Type(), sc)
		c.requireNumeric(e.Op, left.Type(), loc)
		return typed.NewBinOp(loc, left.Type(), e.Op, left, right)
	}
}

// requireNumeric rejects a non-numeric operand once its type is already
// concrete. Unbound holes pass; the final resolve walk catches them if they
// never become concrete.
func (c *checker) requireNumeric(op string, t ast.Type, loc ast.Location) {
	var extra []ast.Location
	rt := c.resolveTracked(t, &extra)
	if _, hole := rt.(*ast.TVar); hole {
		return
	}
	if !ast.IsNumeric(rt) {
		panic(common.Error{
			Kind:     common.TypeMismatch,
			Location: loc,
			Extra:    extra,
			Message:  fmt.Sprintf("operator `%s` is not defined for %v", op, rt),
		})
	}
}

func (c *checker) checkList(e *parsed.List, expected ast.Type, sc *scope) typed.Expression {
	loc := e.Location()

	var expectedItem ast.Type
	shape := expected
	if expected != nil {
		var extra []ast.Location
		switch et := c.resolveTracked(expected, &extra).(type) {
		case *ast.TList:
			expectedItem, shape = et.Item, et
		case *ast.TArray:
			if et.Size != int64(len(e.Items)) {
				panic(common.NewError(common.TypeMismatch, loc,
					"array literal has %d elements, %v wants %d", len(e.Items), et, et.Size))
			}
			expectedItem, shape = et.Item, et
		case *ast.TSlice:
			expectedItem, shape = et.Item, et
		default:
			shape = nil
		}
	}

	if len(e.Items) == 0 {
		item := expectedItem
		if item == nil {
			item = c.symbols.freshVar(loc)
		}
		return typed.NewList(loc, c.containerType(shape, loc, item, 0), nil)
	}

	items := make([]typed.Expression, len(e.Items))
	items[0] = c.checkExpression(e.Items[0], expectedItem, sc)
	elem := items[0].Type()
	for i := 1; i < len(e.Items); i++ {
		itemExpr := e.Items[i]
		item, err := c.tryCheck(func() typed.Expression {
			return c.checkExpression(itemExpr, elem, sc)
		})
		if err != nil {
			panic(common.NewError(common.NonHomogeneousContainer, itemExpr.Location(),
				"container element at index %d does not match the element type %v", i, c.apply(elem)))
		}
		items[i] = item
	}
	return typed.NewList(loc, c.containerType(shape, loc, elem, int64(len(e.Items))), items)
}

// containerType picks the concrete container for a bracket literal: List by
// default, Array/Slice when an annotation asks for one.
func (c *checker) containerType(shape ast.Type, loc ast.Location, item ast.Type, size int64) ast.Type {
	switch shape.(type) {
	case *ast.TArray:
		return ast.NewTArray(loc, item, size)
	case *ast.TSlice:
		return ast.NewTSlice(loc, item)
	default:
		return ast.NewTList(loc, item)
	}
}

func (c *checker) checkMapLiteral(e *parsed.MapLiteral, expected ast.Type, sc *scope) typed.Expression {
	loc := e.Location()

	var expectedKey, expectedValue ast.Type
	ordered := false
	if expected != nil {
		var extra []ast.Location
		switch et := c.resolveTracked(expected, &extra).(type) {
		case *ast.TMap:
			expectedKey, expectedValue = et.Key, et.Value
		case *ast.TBTreeMap:
			expectedKey, expectedValue = et.Key, et.Value
			ordered = true
		}
	}

	mapType := func(key, value ast.Type) ast.Type {
		if ordered {
			return ast.NewTBTreeMap(loc, key, value)
		}
		return ast.NewTMap(loc, key, value)
	}

	if len(e.Entries) == 0 {
		key, value := expectedKey, expectedValue
		if key == nil {
			key = c.symbols.freshVar(loc)
		}
		if value == nil {
			value = c.symbols.freshVar(loc)
		}
		return typed.NewMapLiteral(loc, mapType(key, value), nil)
	}

	entries := make([]typed.MapEntry, len(e.Entries))
	entries[0] = typed.MapEntry{
		Key:   c.checkExpression(e.Entries[0].Key, expectedKey, sc),
		Value: c.checkExpression(e.Entries[0].Value, expectedValue, sc),
	}
	keyType, valueType := entries[0].Key.Type(), entries[0].Value.Type()
	for i := 1; i < len(e.Entries); i++ {
		entry := e.Entries[i]
		typedEntry, err := c.tryCheck2(func() (typed.Expression, typed.Expression) {
			return c.checkExpression(entry.Key, keyType, sc), c.checkExpression(entry.Value, valueType, sc)
		})
		if err != nil {
			panic(common.NewError(common.NonHomogeneousContainer, entry.Key.Location(),
				"map entry at index %d does not match (%v, %v)", i, c.apply(keyType), c.apply(valueType)))
		}
		entries[i] = typedEntry
	}
	return typed.NewMapLiteral(loc, mapType(keyType, valueType), entries)
}

func (c *checker) checkCall(e *parsed.Call, sc *scope) typed.Expression {
	loc := e.Location()

	switch e.Name {
	case builtinPrint:
		args := make([]typed.Expression, len(e.Args))
		for i, a := range e.Args {
			args[i] = c.checkExpression(a, nil, sc)
		}
		return typed.NewCall(loc, ast.NewTUnit(loc), e.Name, args)

	case builtinMap:
		// Map[f, list]
		c.requireArity(e, 2)
		list := c.checkExpression(e.Args[1], nil, sc)
		item := c.symbols.freshVar(loc)
		c.unify(list.Type(), ast.NewTList(loc, item), e.Args[1].Location(), nil)
		out := c.symbols.freshVar(loc)
		fn := c.checkExpression(e.Args[0], ast.NewTFunc(loc, []ast.Type{item}, out), sc)
		return typed.NewCall(loc, ast.NewTList(loc, out), e.Name, []typed.Expression{fn, list})

	case builtinFilter:
		// Filter[predicate, list]
		c.requireArity(e, 2)
		list := c.checkExpression(e.Args[1], nil, sc)
		item := c.symbols.freshVar(loc)
		c.unify(list.Type(), ast.NewTList(loc, item), e.Args[1].Location(), nil)
		pred := ast.NewTFunc(loc, []ast.Type{item}, ast.NewTPrimitive(loc, ast.Bool))
		fn := c.checkExpression(e.Args[0], pred, sc)
		return typed.NewCall(loc, ast.NewTList(loc, item), e.Name, []typed.Expression{fn, list})

	case builtinFold:
		// Fold[f, init, list]
		c.requireArity(e, 3)
		list := c.checkExpression(e.Args[2], nil, sc)
		item := c.symbols.freshVar(loc)
		c.unify(list.Type(), ast.NewTList(loc, item), e.Args[2].Location(), nil)
		init := c.checkExpression(e.Args[1], nil, sc)
		acc := init.Type()
		step := ast.NewTFunc(loc, []ast.Type{acc, item}, acc)
		fn := c.checkExpression(e.Args[0], step, sc)
		return typed.NewCall(loc, acc, e.Name, []typed.Expression{fn, init, list})
	}

	// local closure call shadows a global function of the same name
	if t, ok := sc.lookup(e.Name); ok {
		var extra []ast.Location
		fnType, isFn := c.resolveTracked(t, &extra).(*ast.TFunc)
		if !isFn {
			panic(common.NewError(common.TypeMismatch, loc, "`%s` is %v, not a function", e.Name, c.apply(t)))
		}
		if len(e.Args) != len(fnType.Params) {
			panic(common.NewError(common.ArityMismatch, loc,
				"`%s` expects %d arguments, got %d", e.Name, len(fnType.Params), len(e.Args)))
		}
		args := make([]typed.Expression, len(e.Args))
		for i, a := range e.Args {
			args[i] = c.checkExpression(a, fnType.Params[i], sc)
		}
		return typed.NewCall(loc, fnType.Return, e.Name, args)
	}

	sig, ok := c.symbols.Functions[e.Name]
	if !ok {
		panic(common.NewError(common.UndefinedSymbol, loc, "call to undefined function `%s`", e.Name))
	}
	if len(e.Args) != len(sig.Params) {
		panic(common.Error{
			Kind:     common.ArityMismatch,
			Location: loc,
			Extra:    []ast.Location{sig.Location},
			Message:  fmt.Sprintf("function `%s` expects %d arguments, got %d", e.Name, len(sig.Params), len(e.Args)),
		})
	}
	args := make([]typed.Expression, len(e.Args))
	for i, a := range e.Args {
		args[i] = c.checkExpression(a, sig.Params[i], sc)
	}
	return typed.NewCall(loc, sig.Return, e.Name, args)
}

func (c *checker) requireArity(e *parsed.Call, n int) {
	if len(e.Args) != n {
		panic(common.NewError(common.ArityMismatch, e.Location(),
			"`%s` expects %d arguments, got %d", e.Name, n, len(e.Args)))
	}
}

func (c *checker) checkCond(e *parsed.Cond, expected ast.Type, sc *scope) typed.Expression {
	loc := e.Location()
	boolType := ast.NewTPrimitive(loc, ast.Bool)

	// without a default branch the construct can produce nothing but unit
	var result ast.Type
	if e.Default == nil {
		result = ast.NewTUnit(loc)
	}

	branches := make([]typed.CondBranch, len(e.Branches))
	for i, b := range e.Branches {
		condition := c.checkExpression(b.Condition, boolType, sc)
		bodyExpected := result
		if bodyExpected == nil && i == 0 {
			bodyExpected = expected
		}
		body := c.checkExpression(b.Body, bodyExpected, sc)
		if result == nil {
			result = body.Type()
		}
		branches[i] = typed.CondBranch{Condition: condition, Body: body}
	}

	var deflt typed.Expression
	if e.Default != nil {
		bodyExpected := result
		if bodyExpected == nil {
			bodyExpected = expected
		}
		deflt = c.checkExpression(e.Default, bodyExpected, sc)
		if result == nil {
			result = deflt.Type()
		}
	}
	if result == nil {
		result = ast.NewTUnit(loc)
	}
	return typed.NewCond(loc, result, branches, deflt)
}

func (c *checker) checkMatch(e *parsed.Match, expected ast.Type, sc *scope) typed.Expression {
	loc := e.Location()
	scrutinee := c.checkExpression(e.Scrutinee, nil, sc)

	var result ast.Type
	arms := make([]typed.MatchArm, len(e.Arms))
	for i, arm := range e.Arms {
		armScope := newScope(sc)
		pattern := c.checkPattern(arm.Pattern, scrutinee.Type(), armScope)
		bodyExpected := result
		if bodyExpected == nil {
			bodyExpected = expected
		}
		body := c.checkExpression(arm.Body, bodyExpected, armScope)
		if result == nil {
			result = body.Type() // first arm authoritative
		}
		arms[i] = typed.MatchArm{Pattern: pattern, Body: body}
	}
	return typed.NewMatch(loc, result, scrutinee, arms)
}

func (c *checker) checkLambda(e *parsed.Lambda, expected ast.Type, sc *scope) typed.Expression {
	loc := e.Location()

	var expectedFn *ast.TFunc
	if expected != nil {
		var extra []ast.Location
		if et, ok := c.resolveTracked(expected, &extra).(*ast.TFunc); ok && len(et.Params) == len(e.Params) {
			expectedFn = et
		}
	}

	child := newScope(sc)
	params := make([]typed.Param, len(e.Params))
	paramTypes := make([]ast.Type, len(e.Params))
	for i, p := range e.Params {
		t := p.Type
		if t == nil && expectedFn != nil {
			t = expectedFn.Params[i]
		}
		if t == nil {
			t = c.symbols.freshVar(p.Location)
		}
		child.vars[p.Name] = t
		params[i] = typed.Param{Location: p.Location, Name: p.Name, Type: t}
		paramTypes[i] = t
	}

	var bodyExpected ast.Type
	if expectedFn != nil {
		bodyExpected = expectedFn.Return
	}
	body := c.checkExpression(e.Body, bodyExpected, child)
	return typed.NewLambda(loc, ast.NewTFunc(loc, paramTypes, body.Type()), params, body)
}

func (c *checker) checkPattern(pat parsed.Pattern, scrutinee ast.Type, sc *scope) typed.Pattern {
	loc := pat.Location()
	switch p := pat.(type) {
	case *parsed.PAny:
		return typed.NewPAny(loc, scrutinee)

	case *parsed.PNamed:
		sc.vars[p.Name] = scrutinee
		return typed.NewPNamed(loc, scrutinee, p.Name)

	case *parsed.PLiteral:
		value := c.checkExpression(p.Value, scrutinee, sc)
		return typed.NewPLiteral(loc, value.Type(), value)

	case *parsed.PTuple:
		if len(p.Items) == 0 {
			c.unify(scrutinee, ast.NewTUnit(loc), loc, nil)
			return typed.NewPTuple(loc, ast.NewTUnit(loc), nil)
		}
		var extra []ast.Location
		components, ok := c.resolveTracked(scrutinee, &extra).(*ast.TTuple)
		if !ok {
			fresh := make([]ast.Type, len(p.Items))
			for i := range fresh {
				fresh[i] = c.symbols.freshVar(loc)
			}
			shape := ast.NewTTuple(loc, fresh)
			c.unify(scrutinee, shape, loc, nil)
			components = shape
		}
		if len(components.Items) != len(p.Items) {
			panic(common.Error{
				Kind:     common.TypeMismatch,
				Location: loc,
				Extra:    extra,
				Message:  fmt.Sprintf("tuple pattern has %d components, %v has %d", len(p.Items), components, len(components.Items)),
			})
		}
		items := make([]typed.Pattern, len(p.Items))
		for i, item := range p.Items {
			items[i] = c.checkPattern(item, components.Items[i], sc)
		}
		return typed.NewPTuple(loc, components, items)

	case *parsed.PSome:
		item := c.symbols.freshVar(loc)
		c.unify(scrutinee, ast.NewTOption(loc, item), loc, nil)
		nested := c.checkPattern(p.Nested, item, sc)
		return typed.NewPSome(loc, ast.NewTOption(loc, item), nested)

	case *parsed.PNone:
		item := c.symbols.freshVar(loc)
		c.unify(scrutinee, ast.NewTOption(loc, item), loc, nil)
		return typed.NewPNone(loc, ast.NewTOption(loc, item))

	case *parsed.POk:
		okType, errType := c.symbols.freshVar(loc), c.symbols.freshVar(loc)
		c.unify(scrutinee, ast.NewTResult(loc, okType, errType), loc, nil)
		nested := c.checkPattern(p.Nested, okType, sc)
		return typed.NewPOk(loc, ast.NewTResult(loc, okType, errType), nested)

	case *parsed.PErr:
		okType, errType := c.symbols.freshVar(loc), c.symbols.freshVar(loc)
		c.unify(scrutinee, ast.NewTResult(loc, okType, errType), loc, nil)
		nested := c.checkPattern(p.Nested, errType, sc)
		return typed.NewPErr(loc, ast.NewTResult(loc, okType, errType), nested)

	case *parsed.PStruct:
		shape, ok := c.symbols.Structs[p.Name]
		if !ok {
			panic(common.NewError(common.UndefinedSymbol, loc, "undefined struct `%s`", p.Name))
		}
		c.unify(scrutinee, ast.NewTStruct(loc, p.Name), loc, nil)
		seen := map[string]bool{}
		fields := make([]typed.PStructField, len(p.Fields))
		for i, f := range p.Fields {
			field := shape.Field(f.Name)
			if field == nil {
				panic(common.NewError(common.UndefinedSymbol, f.Location,
					"struct `%s` has no field `%s`", p.Name, f.Name))
			}
			if seen[f.Name] {
				panic(common.NewError(common.TypeMismatch, f.Location,
					"field `%s` appears more than once in the pattern", f.Name))
			}
			seen[f.Name] = true
			fields[i] = typed.PStructField{
				Location: f.Location,
				Name:     f.Name,
				Pattern:  c.checkPattern(f.Pattern, field.Type, sc),
			}
		}
		return typed.NewPStruct(loc, ast.NewTStruct(loc, p.Name), p.Name, fields)
	}
	panic(common.SystemError{Message: fmt.Sprintf("checker: unexpected pattern %T", pat)})
}

// tryCheck runs a check that is allowed to fail, converting the panic back
// into an error so the caller can report it under a different kind.
func (c *checker) tryCheck(f func() typed.Expression) (result typed.Expression, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(common.Error); ok {
				result, err = nil, e
				return
			}
			panic(r)
		}
	}()
	return f(), nil
}

func (c *checker) tryCheck2(f func() (typed.Expression, typed.Expression)) (result typed.MapEntry, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(common.Error); ok {
				result, err = typed.MapEntry{}, e
				return
			}
			panic(r)
		}
	}()
	key, value := f()
	return typed.MapEntry{Key: key, Value: value}, nil
}
