package processors

import (
	"errors"
	"strings"
	"testing"

	"wlang-compiler/internal/pkg/ast"
	"wlang-compiler/internal/pkg/ast/typed"
	"wlang-compiler/internal/pkg/common"
)

func checkSource(t *testing.T, source string) (*typed.Module, *SymbolTable) {
	t.Helper()
	module := parseSource(t, source)
	symbols, err := CollectSymbols(module)
	if err != nil {
		t.Fatalf("collect symbols failed: %v", err)
	}
	checked, err := Check(module, symbols)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	return checked, symbols
}

func checkSourceError(t *testing.T, source string) common.Error {
	t.Helper()
	module := parseSource(t, source)
	symbols, err := CollectSymbols(module)
	if err == nil {
		_, err = Check(module, symbols)
	}
	if err == nil {
		t.Fatal("expected an error")
	}
	var cerr common.Error
	if !errors.As(err, &cerr) {
		t.Fatalf("unexpected error type: %v", err)
	}
	return cerr
}

func primitiveName(t *testing.T, typ ast.Type) string {
	t.Helper()
	p, ok := typ.(*ast.TPrimitive)
	if !ok {
		t.Fatalf("expected a primitive type, got %v", typ)
	}
	return p.Name
}

func TestCheckIntLiteralDefault(t *testing.T) {
	module, _ := checkSource(t, "Print[5]")
	call := module.Statements[0].(*typed.Call)
	if name := primitiveName(t, call.Args[0].Type()); name != ast.Int32 {
		t.Errorf("integer literal should default to Int32, got %s", name)
	}
}

func TestCheckIntLiteralWidening(t *testing.T) {
	_, symbols := checkSource(t, "F[x: Int64] := x + 5")
	if name := primitiveName(t, symbols.Functions["F"].Return); name != ast.Int64 {
		t.Errorf("return should widen to Int64, got %s", name)
	}
}

func TestCheckFloatLiteralDefault(t *testing.T) {
	module, _ := checkSource(t, "Print[2.5]")
	call := module.Statements[0].(*typed.Call)
	if name := primitiveName(t, call.Args[0].Type()); name != ast.Float64 {
		t.Errorf("float literal should default to Float64, got %s", name)
	}
}

func TestCheckTupleHeterogeneity(t *testing.T) {
	module, _ := checkSource(t, `(1, "a", true)`)
	tuple, ok := module.Statements[0].Type().(*ast.TTuple)
	if !ok || len(tuple.Items) != 3 {
		t.Fatalf("expected a 3-component tuple, got %v", module.Statements[0].Type())
	}
	if primitiveName(t, tuple.Items[0]) != ast.Int32 ||
		primitiveName(t, tuple.Items[1]) != ast.String ||
		primitiveName(t, tuple.Items[2]) != ast.Bool {
		t.Errorf("component types wrong: %v", tuple)
	}
}

func TestCheckUnitVsOneTuple(t *testing.T) {
	module, _ := checkSource(t, "() (42,) (42)")
	if _, ok := module.Statements[0].Type().(*ast.TUnit); !ok {
		t.Errorf("`()` should be unit, got %v", module.Statements[0].Type())
	}
	if tuple, ok := module.Statements[1].Type().(*ast.TTuple); !ok || len(tuple.Items) != 1 {
		t.Errorf("`(42,)` should be a 1-tuple, got %v", module.Statements[1].Type())
	}
	if name := primitiveName(t, module.Statements[2].Type()); name != ast.Int32 {
		t.Errorf("`(42)` should check identically to `42`, got %s", name)
	}
}

func TestCheckContainerHomogeneity(t *testing.T) {
	cerr := checkSourceError(t, `[1, 2, "x"]`)
	if cerr.Kind != common.NonHomogeneousContainer {
		t.Fatalf("expected NonHomogeneousContainer, got %v", cerr.Kind)
	}
	if !strings.Contains(cerr.Message, "index 2") {
		t.Errorf("error should name the offending index: %s", cerr.Message)
	}

	module, _ := checkSource(t, "[1, 2, 3]")
	list, ok := module.Statements[0].Type().(*ast.TList)
	if !ok {
		t.Fatalf("expected a list type, got %v", module.Statements[0].Type())
	}
	if name := primitiveName(t, list.Item); name != ast.Int32 {
		t.Errorf("element type should infer to Int32, got %s", name)
	}
}

func TestCheckForwardReference(t *testing.T) {
	_, symbols := checkSource(t, "Earlier[] := Later[5] Later[x: Int32] : Int32 := x + 1")
	if name := primitiveName(t, symbols.Functions["Earlier"].Return); name != ast.Int32 {
		t.Errorf("forward call should resolve the return type, got %s", name)
	}
}

func TestCheckFirstCallSiteWins(t *testing.T) {
	_, symbols := checkSource(t, "G[x] := x G[1.5]")
	if name := primitiveName(t, symbols.Functions["G"].Params[0]); name != ast.Float64 {
		t.Errorf("first call site should fix the parameter type, got %s", name)
	}
}

func TestCheckConflictingCallSites(t *testing.T) {
	cerr := checkSourceError(t, `G[x] := x G[1.5] G["s"]`)
	if cerr.Kind != common.TypeMismatch {
		t.Fatalf("expected TypeMismatch, got %v", cerr.Kind)
	}
	if len(cerr.Extra) == 0 {
		t.Error("conflicting call sites should be reported as candidate bindings")
	}
}

func TestCheckUndefinedSymbol(t *testing.T) {
	if cerr := checkSourceError(t, "Print[y]"); cerr.Kind != common.UndefinedSymbol {
		t.Errorf("expected UndefinedSymbol, got %v", cerr.Kind)
	}
	if cerr := checkSourceError(t, "Foo[1]"); cerr.Kind != common.UndefinedSymbol {
		t.Errorf("expected UndefinedSymbol for unknown call, got %v", cerr.Kind)
	}
}

func TestCheckArityMismatch(t *testing.T) {
	if cerr := checkSourceError(t, "F[x: Int32] := x F[1, 2]"); cerr.Kind != common.ArityMismatch {
		t.Errorf("expected ArityMismatch, got %v", cerr.Kind)
	}
	if cerr := checkSourceError(t, "Map[Function[{x}, x], [1], [2]]"); cerr.Kind != common.ArityMismatch {
		t.Errorf("expected ArityMismatch for Map, got %v", cerr.Kind)
	}
}

func TestCheckArgumentTypeMismatch(t *testing.T) {
	cerr := checkSourceError(t, `F[x: Int32] := x F["s"]`)
	if cerr.Kind != common.TypeMismatch {
		t.Errorf("expected TypeMismatch, got %v", cerr.Kind)
	}
}

func TestCheckStructLiteral(t *testing.T) {
	source := "Struct[Point, [x: Int32, y: Int32]] "
	module, _ := checkSource(t, source+"Point[10, 20]")
	lit := module.Statements[1].(*typed.StructLiteral)
	if st, ok := lit.Type().(*ast.TStruct); !ok || st.Name != "Point" {
		t.Errorf("expected Point type, got %v", lit.Type())
	}

	if cerr := checkSourceError(t, source+"Point[10]"); cerr.Kind != common.ArityMismatch {
		t.Errorf("expected ArityMismatch, got %v", cerr.Kind)
	}
	if cerr := checkSourceError(t, source+`Point[10, "s"]`); cerr.Kind != common.TypeMismatch {
		t.Errorf("expected TypeMismatch, got %v", cerr.Kind)
	}
}

func TestCheckBareNone(t *testing.T) {
	cerr := checkSourceError(t, "None")
	if cerr.Kind != common.UnresolvedPatternType {
		t.Errorf("bare None without context should fail, got %v", cerr.Kind)
	}

	_, symbols := checkSource(t, "H[] : Option[Int32] := None")
	ret, ok := symbols.Functions["H"].Return.(*ast.TOption)
	if !ok {
		t.Fatalf("expected an option return, got %v", symbols.Functions["H"].Return)
	}
	if name := primitiveName(t, ret.Item); name != ast.Int32 {
		t.Errorf("payload should come from the declared return type, got %s", name)
	}
}

func TestCheckMatchArmUnification(t *testing.T) {
	module, _ := checkSource(t, `Match[Some[Some[100]], [Some[Some[val]], val], [_, 0]]`)
	if name := primitiveName(t, module.Statements[0].Type()); name != ast.Int32 {
		t.Errorf("match should type to Int32, got %s", name)
	}

	cerr := checkSourceError(t, `Match[5, [5, "a"], [_, 1]]`)
	if cerr.Kind != common.TypeMismatch {
		t.Errorf("arm bodies must unify, first arm authoritative; got %v", cerr.Kind)
	}
}

func TestCheckMatchRecoversNonePayload(t *testing.T) {
	module, _ := checkSource(t, "Match[None, [Some[v], v], [None, 0]]")
	if name := primitiveName(t, module.Statements[0].Type()); name != ast.Int32 {
		t.Errorf("arm unification should recover the payload, got %s", name)
	}
}

func TestCheckHigherOrderBuiltins(t *testing.T) {
	module, _ := checkSource(t, "Map[Function[{x}, x * 2], [1, 2, 3]]")
	list, ok := module.Statements[0].Type().(*ast.TList)
	if !ok || primitiveName(t, list.Item) != ast.Int32 {
		t.Errorf("Map over Int32 list should stay Int32, got %v", module.Statements[0].Type())
	}

	module, _ = checkSource(t, "Fold[Function[{acc, x}, acc + x], 0, [1, 2, 3]]")
	if name := primitiveName(t, module.Statements[0].Type()); name != ast.Int32 {
		t.Errorf("Fold should type to the accumulator, got %s", name)
	}
}

func TestCheckOperatorTypes(t *testing.T) {
	module, _ := checkSource(t, "1 < 2 true && false")
	if primitiveName(t, module.Statements[0].Type()) != ast.Bool {
		t.Errorf("comparison should be Bool")
	}
	if primitiveName(t, module.Statements[1].Type()) != ast.Bool {
		t.Errorf("logical operators should be Bool")
	}

	if cerr := checkSourceError(t, `"a" * 2`); cerr.Kind != common.TypeMismatch {
		t.Errorf("arithmetic on strings should fail, got %v", cerr.Kind)
	}
}

func TestCheckUncalledUnannotatedParameter(t *testing.T) {
	cerr := checkSourceError(t, "G[x] := x")
	if cerr.Kind != common.UnresolvedPatternType {
		t.Errorf("parameter with no constraint anywhere should fail, got %v", cerr.Kind)
	}
}
