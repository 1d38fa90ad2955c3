package processors

import (
	"errors"
	"strings"
	"testing"

	"wlang-compiler/internal/pkg/common"
	"wlang-compiler/internal/pkg/logger"
)

func compileSource(t *testing.T, source string) string {
	t.Helper()
	code, err := CompileSource("test.w", source, &logger.LogWriter{})
	if err != nil {
		t.Fatalf("compilation failed: %v", err)
	}
	return code
}

func compileSourceError(t *testing.T, source string) common.Error {
	t.Helper()
	_, err := CompileSource("test.w", source, &logger.LogWriter{})
	if err == nil {
		t.Fatal("expected an error")
	}
	var cerr common.Error
	if !errors.As(err, &cerr) {
		t.Fatalf("unexpected error type: %v", err)
	}
	return cerr
}

func wantContains(t *testing.T, code string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(code, fragment) {
			t.Errorf("generated code misses %q:\n%s", fragment, code)
		}
	}
}

func TestGenerateMainWrapsStatements(t *testing.T) {
	code := compileSource(t, "Print[42]")
	wantContains(t, code,
		"fn main() {",
		`println!("{}", 42);`,
	)
}

func TestGeneratePrecedenceAndPower(t *testing.T) {
	code := compileSource(t, "Print[2 + 3 * 4 ^ 2]")
	wantContains(t, code, `println!("{}", (2 + (3 * ((4 as i32).pow(2 as u32)))));`)
}

func TestGenerateFloatPower(t *testing.T) {
	code := compileSource(t, "Print[2.0 ^ 3.0]")
	wantContains(t, code, ".powf(")
}

func TestGenerateFormatSpecifiers(t *testing.T) {
	code := compileSource(t, `Print[5] Print[(1, "a", true)] Print[[1, 2]]`)
	wantContains(t, code,
		`println!("{}", 5);`,
		`println!("{:?}", (1, "a".to_string(), true));`,
		`println!("{:?}", vec![1, 2]);`,
	)
}

func TestGeneratePrintManyArguments(t *testing.T) {
	code := compileSource(t, `Print["total", [1, 2], 3]`)
	wantContains(t, code, `println!("{} {:?} {}", "total".to_string(), vec![1, 2], 3);`)
}

func TestGenerateStructDefinitionAndLiteral(t *testing.T) {
	code := compileSource(t, "Struct[Point, [x: Int32, y: Int32]] Print[Point[10, 20]]")
	wantContains(t, code,
		"#[derive(Debug, Clone, PartialEq)]",
		"pub struct Point {",
		"pub x: i32,",
		"pub y: i32,",
		"Point { x: 10, y: 20 }",
	)
	if strings.Index(code, "pub x: i32,") > strings.Index(code, "pub y: i32,") {
		t.Error("struct fields should keep declaration order")
	}
}

func TestGenerateFunctionNamesAreSnakeCase(t *testing.T) {
	code := compileSource(t, "AddBoth[x: Int32, y: Int32] : Int32 := x + y Print[AddBoth[1, 2]]")
	wantContains(t, code,
		"fn add_both(x: i32, y: i32) -> i32 {",
		"add_both(1, 2)",
	)
}

func TestGenerateUnitFunctionOmitsReturnType(t *testing.T) {
	code := compileSource(t, "Shout[] := Print[1] Shout[]")
	wantContains(t, code, "fn shout() {")
	if strings.Contains(code, "fn shout() ->") {
		t.Error("unit functions should have no return annotation")
	}
}

func TestGenerateImplicitTailReturn(t *testing.T) {
	code := compileSource(t, "Inc[x: Int32] : Int32 := x + 1 Print[Inc[1]]")
	wantContains(t, code, "(x + 1)\n}")
}

func TestGenerateIntWidthSuffixes(t *testing.T) {
	code := compileSource(t, "Big[x: Int64] : Int64 := x + 5 Print[Big[7]]")
	wantContains(t, code, "(x + 5i64)", "big(7i64)")
}

func TestGenerateFloatLiterals(t *testing.T) {
	code := compileSource(t, "Half[x: Float32] : Float32 := x + 1.5 Print[2.0]")
	wantContains(t, code, "1.5f32", `println!("{}", 2.0);`)
}

func TestGenerateStringLiterals(t *testing.T) {
	code := compileSource(t, `Print["hi\n"]`)
	wantContains(t, code, `"hi\n".to_string()`)
}

func TestGenerateContainerIdioms(t *testing.T) {
	code := compileSource(t, "V[] : List[Int32] := [1, 2] A[] : Array[Int32, 2] := [1, 2] V[] A[]")
	wantContains(t, code,
		"-> Vec<i32>",
		"vec![1, 2]",
		"-> [i32; 2]",
		"[1, 2]",
	)
}

func TestGenerateMapLiteralBlock(t *testing.T) {
	code := compileSource(t, `Print[{"a": 1, "b": 2}]`)
	wantContains(t, code,
		"let mut map = std::collections::HashMap::new();",
		`map.insert("a".to_string(), 1);`,
		"map\n",
	)
}

func TestGenerateHigherOrderBuiltins(t *testing.T) {
	code := compileSource(t,
		"Print[Map[Function[{x}, x * 2], [1, 2, 3]]]\n"+
			"Print[Filter[Function[{x}, x > 1], [1, 2, 3]]]\n"+
			"Print[Fold[Function[{acc, x}, acc + x], 0, [1, 2, 3]]]")
	wantContains(t, code,
		"vec![1, 2, 3].into_iter().map(|x| (x * 2)).collect::<Vec<_>>()",
		"vec![1, 2, 3].into_iter().filter(|&x| (x > 1)).collect::<Vec<_>>()",
		"vec![1, 2, 3].into_iter().fold(0, |acc, x| (acc + x))",
	)
}

func TestGenerateCondChain(t *testing.T) {
	code := compileSource(t,
		"Sign[x: Int32] : Int32 := Cond[[x > 0, 1], [x < 0, -1], [0]] Print[Sign[5]]")
	wantContains(t, code,
		"if (x > 0) {",
		"} else if (x < 0) {",
		"} else {",
	)
}

func TestGenerateMatchArms(t *testing.T) {
	code := compileSource(t, "Print[Match[Some[Some[100]], [Some[Some[val]], val], [_, 0]]]")
	wantContains(t, code,
		"match Some(Some(100)) {",
		"Some(Some(val)) => val,",
		"_ => 0,",
	)
	if strings.Index(code, "Some(Some(val))") > strings.Index(code, "_ => 0,") {
		t.Error("arms should keep source order")
	}
}

func TestGenerateTrapArm(t *testing.T) {
	code := compileSource(t, "Print[Match[5, [5, 1]]]")
	wantContains(t, code, `_ => panic!("unmatched match value"),`)
}

func TestGenerateStringPatternGuard(t *testing.T) {
	code := compileSource(t, `Print[Match["five", ["five", 5], [_, 0]]]`)
	wantContains(t, code, `s if s == "five" => 5,`)
}

func TestGenerateStructPattern(t *testing.T) {
	code := compileSource(t,
		"Struct[Point, [x: Int32, y: Int32]] "+
			"Print[Match[Point[1, 2], [Point[y: n], n], [_, 0]]]")
	wantContains(t, code, "Point { y: n, .. } => n,")
}

func TestGenerateOptionResultSignatures(t *testing.T) {
	code := compileSource(t,
		`Describe[r: Result[Int32, String]] : String := Match[r, [Ok[v], "ok"], [Err[e], e]] `+
			`Print[Describe[Ok[1]]]`)
	wantContains(t, code,
		"fn describe(r: Result<i32, String>) -> String {",
		"Ok(v) =>",
		"Err(e) => e,",
	)
}

func TestGenerateForwardReference(t *testing.T) {
	code := compileSource(t,
		"Earlier[] : Int32 := Later[5] Later[x: Int32] : Int32 := x + 1 Print[Earlier[]]")
	wantContains(t, code,
		"fn earlier() -> i32 {",
		"later(5)",
		"fn later(x: i32) -> i32 {",
	)
}

func TestGenerateLogCalls(t *testing.T) {
	code := compileSource(t, `LogInfo["starting"] LogError["boom"] LogWarn[[1, 2]]`)
	wantContains(t, code,
		`log::info!("{}", "starting".to_string());`,
		`log::error!("{}", "boom".to_string());`,
		`log::warn!("{:?}", vec![1, 2]);`,
	)
}

func TestGenerateSnakeCaseCollapsesAcronyms(t *testing.T) {
	code := compileSource(t, "ParseURL[x: Int32] : Int32 := x ParseURL[1]")
	wantContains(t, code, "fn parse_url(")
}

func TestCompileSourceReportsStageErrors(t *testing.T) {
	cases := []struct {
		name   string
		source string
		kind   common.ErrorKind
	}{
		{"syntax", "F[1 +", common.SyntaxError},
		{"undefined", "Print[y]", common.UndefinedSymbol},
		{"types", `1 + "a"`, common.TypeMismatch},
		{"pattern", `Match[Some["a"], [Some["a"], 1], [_, 0]]`, common.PatternCompileError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if cerr := compileSourceError(t, c.source); cerr.Kind != c.kind {
				t.Errorf("expected %v, got %v", c.kind, cerr.Kind)
			}
		})
	}
}
