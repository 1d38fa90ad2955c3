package processors

import (
	"fmt"

	"wlang-compiler/internal/pkg/ast"
	"wlang-compiler/internal/pkg/ast/typed"
	"wlang-compiler/internal/pkg/common"
)

// resolveTracked follows substitution chains, collecting the binding site of
// every hole it passes through. Those sites become the Extra locations of a
// later mismatch, so conflicting call sites are reported as distinct
// candidate bindings.
func (c *checker) resolveTracked(t ast.Type, extra *[]ast.Location) ast.Type {
	for {
		v, ok := t.(*ast.TVar)
		if !ok {
			return t
		}
		bound, ok := c.subst[v.Index]
		if !ok {
			return t
		}
		if site, ok := c.boundAt[v.Index]; ok {
			*extra = append(*extra, site)
		}
		t = bound
	}
}

func (c *checker) unify(x, y ast.Type, loc ast.Location, extra []ast.Location) {
	x = c.resolveTracked(x, &extra)
	y = c.resolveTracked(y, &extra)

	if vx, ok := x.(*ast.TVar); ok {
		if vy, ok := y.(*ast.TVar); ok && vx.Index == vy.Index {
			return
		}
		c.bindVar(vx, y, loc, extra)
		return
	}
	if vy, ok := y.(*ast.TVar); ok {
		c.bindVar(vy, x, loc, extra)
		return
	}

	switch ex := x.(type) {
	case *ast.TPrimitive:
		if ey, ok := y.(*ast.TPrimitive); ok && ex.Name == ey.Name {
			return
		}
	case *ast.TUnit:
		if _, ok := y.(*ast.TUnit); ok {
			return
		}
	case *ast.TList:
		if ey, ok := y.(*ast.TList); ok {
			c.unify(ex.Item, ey.Item, loc, extra)
			return
		}
	case *ast.TArray:
		if ey, ok := y.(*ast.TArray); ok && ex.Size == ey.Size {
			c.unify(ex.Item, ey.Item, loc, extra)
			return
		}
	case *ast.TSlice:
		if ey, ok := y.(*ast.TSlice); ok {
			c.unify(ex.Item, ey.Item, loc, extra)
			return
		}
	case *ast.TMap:
		if ey, ok := y.(*ast.TMap); ok {
			c.unify(ex.Key, ey.Key, loc, extra)
			c.unify(ex.Value, ey.Value, loc, extra)
			return
		}
	case *ast.TBTreeMap:
		if ey, ok := y.(*ast.TBTreeMap); ok {
			c.unify(ex.Key, ey.Key, loc, extra)
			c.unify(ex.Value, ey.Value, loc, extra)
			return
		}
	case *ast.THashSet:
		if ey, ok := y.(*ast.THashSet); ok {
			c.unify(ex.Item, ey.Item, loc, extra)
			return
		}
	case *ast.TBTreeSet:
		if ey, ok := y.(*ast.TBTreeSet); ok {
			c.unify(ex.Item, ey.Item, loc, extra)
			return
		}
	case *ast.TTuple:
		if ey, ok := y.(*ast.TTuple); ok && len(ex.Items) == len(ey.Items) {
			for i := range ex.Items {
				c.unify(ex.Items[i], ey.Items[i], loc, extra)
			}
			return
		}
	case *ast.TOption:
		if ey, ok := y.(*ast.TOption); ok {
			c.unify(ex.Item, ey.Item, loc, extra)
			return
		}
	case *ast.TResult:
		if ey, ok := y.(*ast.TResult); ok {
			c.unify(ex.Ok, ey.Ok, loc, extra)
			c.unify(ex.Err, ey.Err, loc, extra)
			return
		}
	case *ast.TStruct:
		if ey, ok := y.(*ast.TStruct); ok && ex.Name == ey.Name {
			return
		}
	case *ast.TFunc:
		if ey, ok := y.(*ast.TFunc); ok && len(ex.Params) == len(ey.Params) {
			for i := range ex.Params {
				c.unify(ex.Params[i], ey.Params[i], loc, extra)
			}
			c.unify(ex.Return, ey.Return, loc, extra)
			return
		}
	}

	panic(common.Error{
		Kind:     common.TypeMismatch,
		Location: loc,
		Extra:    extra,
		Message:  fmt.Sprintf("%v cannot be matched with %v", c.apply(x), c.apply(y)),
	})
}

func (c *checker) bindVar(v *ast.TVar, t ast.Type, loc ast.Location, extra []ast.Location) {
	if c.occursIn(v, t) {
		panic(common.Error{
			Kind:     common.TypeMismatch,
			Location: loc,
			Extra:    extra,
			Message:  fmt.Sprintf("recursive type: %v occurs in %v", v, c.apply(t)),
		})
	}
	c.subst[v.Index] = t
	c.boundAt[v.Index] = loc
}

func (c *checker) occursIn(v *ast.TVar, t ast.Type) bool {
	switch e := t.(type) {
	case *ast.TVar:
		if e.Index == v.Index {
			return true
		}
		if bound, ok := c.subst[e.Index]; ok {
			return c.occursIn(v, bound)
		}
		return false
	case *ast.TList:
		return c.occursIn(v, e.Item)
	case *ast.TArray:
		return c.occursIn(v, e.Item)
	case *ast.TSlice:
		return c.occursIn(v, e.Item)
	case *ast.TMap:
		return c.occursIn(v, e.Key) || c.occursIn(v, e.Value)
	case *ast.TBTreeMap:
		return c.occursIn(v, e.Key) || c.occursIn(v, e.Value)
	case *ast.THashSet:
		return c.occursIn(v, e.Item)
	case *ast.TBTreeSet:
		return c.occursIn(v, e.Item)
	case *ast.TTuple:
		for _, item := range e.Items {
			if c.occursIn(v, item) {
				return true
			}
		}
		return false
	case *ast.TOption:
		return c.occursIn(v, e.Item)
	case *ast.TResult:
		return c.occursIn(v, e.Ok) || c.occursIn(v, e.Err)
	case *ast.TFunc:
		for _, p := range e.Params {
			if c.occursIn(v, p) {
				return true
			}
		}
		return c.occursIn(v, e.Return)
	}
	return false
}

// apply substitutes every bound hole in t, rebuilding composites as needed.
// Unbound holes survive and are caught by the resolve walk.
func (c *checker) apply(t ast.Type) ast.Type {
	switch e := t.(type) {
	case *ast.TVar:
		if bound, ok := c.subst[e.Index]; ok {
			return c.apply(bound)
		}
		return e
	case *ast.TList:
		return ast.NewTList(e.Location(), c.apply(e.Item))
	case *ast.TArray:
		return ast.NewTArray(e.Location(), c.apply(e.Item), e.Size)
	case *ast.TSlice:
		return ast.NewTSlice(e.Location(), c.apply(e.Item))
	case *ast.TMap:
		return ast.NewTMap(e.Location(), c.apply(e.Key), c.apply(e.Value))
	case *ast.TBTreeMap:
		return ast.NewTBTreeMap(e.Location(), c.apply(e.Key), c.apply(e.Value))
	case *ast.THashSet:
		return ast.NewTHashSet(e.Location(), c.apply(e.Item))
	case *ast.TBTreeSet:
		return ast.NewTBTreeSet(e.Location(), c.apply(e.Item))
	case *ast.TTuple:
		items := make([]ast.Type, len(e.Items))
		for i, item := range e.Items {
			items[i] = c.apply(item)
		}
		return ast.NewTTuple(e.Location(), items)
	case *ast.TOption:
		return ast.NewTOption(e.Location(), c.apply(e.Item))
	case *ast.TResult:
		return ast.NewTResult(e.Location(), c.apply(e.Ok), c.apply(e.Err))
	case *ast.TFunc:
		params := make([]ast.Type, len(e.Params))
		for i, p := range e.Params {
			params[i] = c.apply(p)
		}
		return ast.NewTFunc(e.Location(), params, c.apply(e.Return))
	}
	return t
}

func findHole(t ast.Type) *ast.TVar {
	switch e := t.(type) {
	case *ast.TVar:
		return e
	case *ast.TList:
		return findHole(e.Item)
	case *ast.TArray:
		return findHole(e.Item)
	case *ast.TSlice:
		return findHole(e.Item)
	case *ast.TMap:
		if hole := findHole(e.Key); hole != nil {
			return hole
		}
		return findHole(e.Value)
	case *ast.TBTreeMap:
		if hole := findHole(e.Key); hole != nil {
			return hole
		}
		return findHole(e.Value)
	case *ast.THashSet:
		return findHole(e.Item)
	case *ast.TBTreeSet:
		return findHole(e.Item)
	case *ast.TTuple:
		for _, item := range e.Items {
			if hole := findHole(item); hole != nil {
				return hole
			}
		}
	case *ast.TOption:
		return findHole(e.Item)
	case *ast.TResult:
		if hole := findHole(e.Ok); hole != nil {
			return hole
		}
		return findHole(e.Err)
	case *ast.TFunc:
		for _, p := range e.Params {
			if hole := findHole(p); hole != nil {
				return hole
			}
		}
		return findHole(e.Return)
	}
	return nil
}

// resolveType substitutes and rejects anything still containing a hole.
func (c *checker) resolveType(t ast.Type, loc ast.Location) ast.Type {
	resolved := c.apply(t)
	if findHole(resolved) != nil {
		panic(common.NewError(common.UnresolvedPatternType, loc,
			"cannot infer the type %v; add an annotation", resolved))
	}
	return resolved
}

// resolveExpression replaces every node type with its fully substituted form.
// After this walk no inference hole remains anywhere in the tree.
func (c *checker) resolveExpression(e typed.Expression) {
	e.(typed.TypeSetter).SetType(c.resolveType(e.Type(), e.Location()))

	switch n := e.(type) {
	case *typed.BinOp:
		c.resolveExpression(n.Left)
		c.resolveExpression(n.Right)
	case *typed.UnOp:
		c.resolveExpression(n.Operand)
	case *typed.List:
		for _, item := range n.Items {
			c.resolveExpression(item)
		}
	case *typed.Tuple:
		for _, item := range n.Items {
			c.resolveExpression(item)
		}
	case *typed.MapLiteral:
		for i := range n.Entries {
			c.resolveExpression(n.Entries[i].Key)
			c.resolveExpression(n.Entries[i].Value)
		}
	case *typed.StructLiteral:
		for _, v := range n.Values {
			c.resolveExpression(v)
		}
	case *typed.Call:
		for _, a := range n.Args {
			c.resolveExpression(a)
		}
	case *typed.Definition:
		for i := range n.Params {
			n.Params[i].Type = c.resolveType(n.Params[i].Type, n.Params[i].Location)
		}
		n.Return = c.resolveType(n.Return, n.Location())
		c.resolveExpression(n.Body)
	case *typed.Cond:
		for i := range n.Branches {
			c.resolveExpression(n.Branches[i].Condition)
			c.resolveExpression(n.Branches[i].Body)
		}
		if n.Default != nil {
			c.resolveExpression(n.Default)
		}
	case *typed.Match:
		c.resolveExpression(n.Scrutinee)
		for i := range n.Arms {
			c.resolvePattern(n.Arms[i].Pattern)
			c.resolveExpression(n.Arms[i].Body)
		}
	case *typed.Lambda:
		for i := range n.Params {
			n.Params[i].Type = c.resolveType(n.Params[i].Type, n.Params[i].Location)
		}
		c.resolveExpression(n.Body)
	case *typed.Some:
		c.resolveExpression(n.Value)
	case *typed.Ok:
		c.resolveExpression(n.Value)
	case *typed.Err:
		c.resolveExpression(n.Value)
	case *typed.LogCall:
		c.resolveExpression(n.Message)
	}
}

func (c *checker) resolvePattern(p typed.Pattern) {
	p.(typed.TypeSetter).SetType(c.resolveType(p.Type(), p.Location()))

	switch n := p.(type) {
	case *typed.PLiteral:
		c.resolveExpression(n.Value)
	case *typed.PTuple:
		for _, item := range n.Items {
			c.resolvePattern(item)
		}
	case *typed.PSome:
		c.resolvePattern(n.Nested)
	case *typed.POk:
		c.resolvePattern(n.Nested)
	case *typed.PErr:
		c.resolvePattern(n.Nested)
	case *typed.PStruct:
		for i := range n.Fields {
			c.resolvePattern(n.Fields[i].Pattern)
		}
	}
}

func (c *checker) resolveSignature(sig *FunctionSignature) {
	for i, p := range sig.Params {
		resolved := c.apply(p)
		if findHole(resolved) != nil {
			panic(common.NewError(common.UnresolvedPatternType, sig.Location,
				"cannot infer the type of parameter `%s` of `%s`; annotate it or call the function",
				sig.ParamNames[i], sig.Name))
		}
		sig.Params[i] = resolved
	}
	sig.Return = c.resolveType(sig.Return, sig.Location)
}
