package processors

import (
	"errors"
	"testing"

	"wlang-compiler/internal/pkg/ast/parsed"
	"wlang-compiler/internal/pkg/common"
)

func parseSource(t *testing.T, source string) *parsed.Module {
	t.Helper()
	tokens, err := Tokenize("test.w", source)
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	module, err := Parse("test.w", tokens)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return module
}

func parseSourceError(t *testing.T, source string) common.Error {
	t.Helper()
	tokens, err := Tokenize("test.w", source)
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	_, err = Parse("test.w", tokens)
	if err == nil {
		t.Fatal("expected an error")
	}
	var cerr common.Error
	if !errors.As(err, &cerr) {
		t.Fatalf("unexpected error type: %v", err)
	}
	return cerr
}

func TestParsePrecedence(t *testing.T) {
	module := parseSource(t, "2 + 3 * 4")
	root, ok := module.Statements[0].(*parsed.BinOp)
	if !ok || root.Op != "+" {
		t.Fatalf("expected `+` at the root, got %T", module.Statements[0])
	}
	right, ok := root.Right.(*parsed.BinOp)
	if !ok || right.Op != "*" {
		t.Fatalf("expected `*` to bind tighter, got %T", root.Right)
	}
}

func TestParsePowerRightAssociative(t *testing.T) {
	module := parseSource(t, "2 ^ 3 ^ 2")
	root, ok := module.Statements[0].(*parsed.BinOp)
	if !ok || root.Op != "^" {
		t.Fatalf("expected `^` at the root, got %T", module.Statements[0])
	}
	if left, isOp := root.Left.(*parsed.BinOp); isOp {
		t.Fatalf("power must associate to the right, left is %v", left.Op)
	}
	right, ok := root.Right.(*parsed.BinOp)
	if !ok || right.Op != "^" {
		t.Fatalf("expected nested `^` on the right, got %T", root.Right)
	}
}

func TestParseComparisonBindsTighterThanLogical(t *testing.T) {
	module := parseSource(t, "1 < 2 && 3 > 2")
	root, ok := module.Statements[0].(*parsed.BinOp)
	if !ok || root.Op != "&&" {
		t.Fatalf("expected `&&` at the root, got %T", module.Statements[0])
	}
	if left, isOp := root.Left.(*parsed.BinOp); !isOp || left.Op != "<" {
		t.Fatalf("expected `<` on the left, got %T", root.Left)
	}
}

func TestParseGroupingVsTuple(t *testing.T) {
	module := parseSource(t, "(42) (42,) () (1, 2)")
	if _, ok := module.Statements[0].(*parsed.Int); !ok {
		t.Errorf("`(42)` should parse as a plain literal, got %T", module.Statements[0])
	}
	if tuple, ok := module.Statements[1].(*parsed.Tuple); !ok || len(tuple.Items) != 1 {
		t.Errorf("`(42,)` should parse as a 1-tuple, got %T", module.Statements[1])
	}
	if tuple, ok := module.Statements[2].(*parsed.Tuple); !ok || len(tuple.Items) != 0 {
		t.Errorf("`()` should parse as unit, got %T", module.Statements[2])
	}
	if tuple, ok := module.Statements[3].(*parsed.Tuple); !ok || len(tuple.Items) != 2 {
		t.Errorf("`(1, 2)` should parse as a 2-tuple, got %T", module.Statements[3])
	}
}

func TestParseDefinition(t *testing.T) {
	module := parseSource(t, "F[x: Int32, y] : Int64 := x")
	def, ok := module.Statements[0].(*parsed.Definition)
	if !ok {
		t.Fatalf("expected a definition, got %T", module.Statements[0])
	}
	if def.Name != "F" || len(def.Params) != 2 {
		t.Fatalf("bad definition: %s with %d params", def.Name, len(def.Params))
	}
	if def.Params[0].Type == nil {
		t.Error("first parameter should be annotated")
	}
	if def.Params[1].Type != nil {
		t.Error("second parameter should be unannotated")
	}
	if def.Return == nil {
		t.Error("return type annotation lost")
	}
}

func TestParseDefinitionWithoutAnnotations(t *testing.T) {
	module := parseSource(t, "Id[x] := x")
	def, ok := module.Statements[0].(*parsed.Definition)
	if !ok {
		t.Fatalf("expected a definition, got %T", module.Statements[0])
	}
	if def.Return != nil || def.Params[0].Type != nil {
		t.Error("unannotated definition should carry nil types")
	}
}

func TestParseStructLiteralDisambiguation(t *testing.T) {
	module := parseSource(t, "Struct[Point, [x: Int32, y: Int32]] Point[1, 2] Other[1, 2]")
	if _, ok := module.Statements[0].(*parsed.StructDefinition); !ok {
		t.Fatalf("expected a struct definition, got %T", module.Statements[0])
	}
	if lit, ok := module.Statements[1].(*parsed.StructLiteral); !ok || lit.Name != "Point" {
		t.Errorf("`Point[1, 2]` should construct the declared struct, got %T", module.Statements[1])
	}
	if call, ok := module.Statements[2].(*parsed.Call); !ok || call.Name != "Other" {
		t.Errorf("`Other[1, 2]` should stay a call, got %T", module.Statements[2])
	}
}

func TestParseMatch(t *testing.T) {
	module := parseSource(t, `Match[x, [5, "five"], [_, "other"]]`)
	match, ok := module.Statements[0].(*parsed.Match)
	if !ok {
		t.Fatalf("expected a match, got %T", module.Statements[0])
	}
	if len(match.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(match.Arms))
	}
	if _, ok := match.Arms[0].Pattern.(*parsed.PLiteral); !ok {
		t.Errorf("first arm should be a literal pattern, got %T", match.Arms[0].Pattern)
	}
	if _, ok := match.Arms[1].Pattern.(*parsed.PAny); !ok {
		t.Errorf("second arm should be a wildcard, got %T", match.Arms[1].Pattern)
	}
}

func TestParseNestedSumPattern(t *testing.T) {
	module := parseSource(t, "Match[x, [Some[Some[val]], val], [_, 0]]")
	match := module.Statements[0].(*parsed.Match)
	outer, ok := match.Arms[0].Pattern.(*parsed.PSome)
	if !ok {
		t.Fatalf("expected Some pattern, got %T", match.Arms[0].Pattern)
	}
	inner, ok := outer.Nested.(*parsed.PSome)
	if !ok {
		t.Fatalf("expected nested Some pattern, got %T", outer.Nested)
	}
	if named, ok := inner.Nested.(*parsed.PNamed); !ok || named.Name != "val" {
		t.Errorf("expected binding `val`, got %T", inner.Nested)
	}
}

func TestParseLambda(t *testing.T) {
	module := parseSource(t, "Function[{x, y: Int32}, x + y]")
	lambda, ok := module.Statements[0].(*parsed.Lambda)
	if !ok {
		t.Fatalf("expected a closure literal, got %T", module.Statements[0])
	}
	if len(lambda.Params) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(lambda.Params))
	}
	if lambda.Params[0].Type != nil || lambda.Params[1].Type == nil {
		t.Error("parameter annotations mixed up")
	}
}

func TestParseCond(t *testing.T) {
	module := parseSource(t, `Cond[[x > 1, "big"], [x > 0, "small"], ["neither"]]`)
	cond, ok := module.Statements[0].(*parsed.Cond)
	if !ok {
		t.Fatalf("expected a cond, got %T", module.Statements[0])
	}
	if len(cond.Branches) != 2 {
		t.Errorf("expected 2 branches, got %d", len(cond.Branches))
	}
	if cond.Default == nil {
		t.Error("default branch lost")
	}
}

func TestParseMapLiteral(t *testing.T) {
	module := parseSource(t, `{"a": 1, "b": 2}`)
	lit, ok := module.Statements[0].(*parsed.MapLiteral)
	if !ok {
		t.Fatalf("expected a map literal, got %T", module.Statements[0])
	}
	if len(lit.Entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(lit.Entries))
	}
}

func TestParseNoneIsBare(t *testing.T) {
	module := parseSource(t, "None Some[1]")
	if _, ok := module.Statements[0].(*parsed.None); !ok {
		t.Errorf("expected bare None, got %T", module.Statements[0])
	}
	if _, ok := module.Statements[1].(*parsed.Some); !ok {
		t.Errorf("expected Some constructor, got %T", module.Statements[1])
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	for _, source := range []string{
		"F[1 +",
		"Struct[Point]",
		"Match[x]",
		"F[x: Wat] := x",
		"(1, 2",
		"F[1 + 2] := 3",
	} {
		cerr := parseSourceError(t, source)
		if cerr.Kind != common.SyntaxError {
			t.Errorf("%q: expected a syntax error, got %v", source, cerr.Kind)
		}
	}
}

func TestParseContainerTypes(t *testing.T) {
	module := parseSource(t, "F[x: Map[String, List[Int32]]] := x")
	def := module.Statements[0].(*parsed.Definition)
	if def.Params[0].Type.String() != "Map[String,List[Int32]]" {
		t.Errorf("unexpected type: %v", def.Params[0].Type)
	}
}
