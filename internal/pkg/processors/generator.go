package processors

import (
	"fmt"
	"strconv"
	"strings"

	"wlang-compiler/internal/pkg/ast"
	"wlang-compiler/internal/pkg/ast/typed"
	"wlang-compiler/internal/pkg/common"
)

// Generate walks the typed, pattern-lowered tree and emits Rust source text
// that needs no further annotation. Struct definitions come first, then
// functions, then everything else inside fn main. The generator performs no
// inference: an untyped or unlowered node is a fatal invariant violation.
func Generate(module *typed.Module, symbols *SymbolTable) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(common.Error); ok {
				result, err = "", e
				return
			}
			panic(r)
		}
	}()

	g := &generator{symbols: symbols}

	var structs, functions, statements []typed.Expression
	for _, stmt := range module.Statements {
		switch stmt.(type) {
		case *typed.StructDefinition:
			structs = append(structs, stmt)
		case *typed.Definition:
			functions = append(functions, stmt)
		default:
			statements = append(statements, stmt)
		}
	}

	for _, s := range structs {
		g.structDefinition(s.(*typed.StructDefinition))
		g.out.WriteString("\n")
	}
	for _, f := range functions {
		g.functionDefinition(f.(*typed.Definition))
		g.out.WriteString("\n")
	}

	g.out.WriteString("fn main() {\n")
	g.level++
	for _, stmt := range statements {
		g.statement(stmt)
	}
	g.level--
	g.out.WriteString("}\n")

	return g.out.String(), nil
}

type generator struct {
	symbols *SymbolTable
	out     strings.Builder
	level   int
}

func (g *generator) indent() string {
	return strings.Repeat("    ", g.level)
}

// typeOf fetches a node's resolved type, failing hard when the checker let
// something through untyped.
func (g *generator) typeOf(e typed.Expression) ast.Type {
	t := e.Type()
	if t == nil || findHole(t) != nil {
		panic(common.NewError(common.CodegenInvariantViolation, e.Location(),
			"untyped node %T reached the generator", e))
	}
	return t
}

func (g *generator) statement(e typed.Expression) {
	g.out.WriteString(g.indent())
	g.out.WriteString(g.expression(e))
	g.out.WriteString(";\n")
}

func (g *generator) structDefinition(d *typed.StructDefinition) {
	g.out.WriteString("#[derive(Debug, Clone, PartialEq)]\n")
	fmt.Fprintf(&g.out, "pub struct %s {\n", d.Name)
	for _, f := range d.Fields {
		fmt.Fprintf(&g.out, "    pub %s: %s,\n", toSnakeCase(f.Name), g.rustType(f.Type, f.Location))
	}
	g.out.WriteString("}\n")
}

func (g *generator) functionDefinition(d *typed.Definition) {
	fmt.Fprintf(&g.out, "fn %s(", toSnakeCase(d.Name))
	for i, p := range d.Params {
		if i > 0 {
			g.out.WriteString(", ")
		}
		fmt.Fprintf(&g.out, "%s: %s", toSnakeCase(p.Name), g.rustType(p.Type, p.Location))
	}
	g.out.WriteString(")")
	if _, unit := d.Return.(*ast.TUnit); !unit {
		fmt.Fprintf(&g.out, " -> %s", g.rustType(d.Return, d.Location()))
	}
	g.out.WriteString(" {\n")
	g.level++
	// the body is the implicit return value, no terminator
	fmt.Fprintf(&g.out, "%s%s\n", g.indent(), g.expression(d.Body))
	g.level--
	g.out.WriteString("}\n")
}

func (g *generator) expression(e typed.Expression) string {
	switch n := e.(type) {
	case *typed.Int:
		return g.intLiteral(n)

	case *typed.Float:
		return g.floatLiteral(n)

	case *typed.String:
		return fmt.Sprintf("\"%s\".to_string()", escapeString(n.Value))

	case *typed.Bool:
		return strconv.FormatBool(n.Value)

	case *typed.Var:
		return toSnakeCase(n.Name)

	case *typed.UnOp:
		return fmt.Sprintf("(%s%s)", n.Op, g.expression(n.Operand))

	case *typed.BinOp:
		return g.binOp(n)

	case *typed.List:
		return g.listLiteral(n)

	case *typed.Tuple:
		return g.tupleLiteral(n)

	case *typed.MapLiteral:
		return g.mapLiteral(n)

	case *typed.StructLiteral:
		return g.structLiteral(n)

	case *typed.Call:
		return g.call(n)

	case *typed.Cond:
		return g.cond(n)

	case *typed.Select:
		return g.selectExpr(n)

	case *typed.Lambda:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = toSnakeCase(p.Name)
		}
		return fmt.Sprintf("|%s| %s", strings.Join(params, ", "), g.expression(n.Body))

	case *typed.Some:
		return fmt.Sprintf("Some(%s)", g.expression(n.Value))
	case *typed.None:
		return "None"
	case *typed.Ok:
		return fmt.Sprintf("Ok(%s)", g.expression(n.Value))
	case *typed.Err:
		return fmt.Sprintf("Err(%s)", g.expression(n.Value))

	case *typed.LogCall:
		return fmt.Sprintf("log::%s!(\"%s\", %s)", strings.ToLower(n.Level),
			formatSpec(g.typeOf(n.Message)), g.expression(n.Message))

	case *typed.Match:
		panic(common.NewError(common.CodegenInvariantViolation, n.Location(),
			"unlowered match reached the generator"))

	case *typed.Definition, *typed.StructDefinition:
		panic(common.NewError(common.CodegenInvariantViolation, e.Location(),
			"definition in expression position"))
	}
	panic(common.NewError(common.CodegenInvariantViolation, e.Location(),
		"unexpected node %T reached the generator", e))
}

func (g *generator) intLiteral(n *typed.Int) string {
	t := g.typeOf(n)
	text := strconv.FormatInt(n.Value, 10)
	if p, ok := t.(*ast.TPrimitive); ok && p.Name != ast.Int32 {
		return text + g.rustType(t, n.Location())
	}
	return text
}

func (g *generator) floatLiteral(n *typed.Float) string {
	t := g.typeOf(n)
	if p, ok := t.(*ast.TPrimitive); ok && p.Name == ast.Float32 {
		return strconv.FormatFloat(n.Value, 'f', -1, 32) + "f32"
	}
	text := strconv.FormatFloat(n.Value, 'f', -1, 64)
	if !strings.Contains(text, ".") {
		text += ".0"
	}
	return text
}

func (g *generator) binOp(n *typed.BinOp) string {
	left := g.expression(n.Left)
	right := g.expression(n.Right)
	if n.Op != "^" {
		return fmt.Sprintf("(%s %s %s)", left, n.Op, right)
	}
	t := g.typeOf(n)
	if ast.IsFloat(t) {
		return fmt.Sprintf("((%s).powf(%s))", left, right)
	}
	return fmt.Sprintf("((%s as %s).pow(%s as u32))", left, g.rustType(t, n.Location()), right)
}

func (g *generator) listLiteral(n *typed.List) string {
	joined := strings.Join(common.Map(g.expression, n.Items), ", ")
	switch g.typeOf(n).(type) {
	case *ast.TArray:
		return fmt.Sprintf("[%s]", joined)
	case *ast.TSlice:
		return fmt.Sprintf("&[%s]", joined)
	default:
		return fmt.Sprintf("vec![%s]", joined)
	}
}

func (g *generator) tupleLiteral(n *typed.Tuple) string {
	if len(n.Items) == 0 {
		return "()"
	}
	items := common.Map(g.expression, n.Items)
	if len(items) == 1 {
		return fmt.Sprintf("(%s,)", items[0])
	}
	return fmt.Sprintf("(%s)", strings.Join(items, ", "))
}

func (g *generator) mapLiteral(n *typed.MapLiteral) string {
	collection := "std::collections::HashMap"
	if _, ordered := g.typeOf(n).(*ast.TBTreeMap); ordered {
		collection = "std::collections::BTreeMap"
	}
	var b strings.Builder
	b.WriteString("{\n")
	g.level++
	fmt.Fprintf(&b, "%slet mut map = %s::new();\n", g.indent(), collection)
	for _, entry := range n.Entries {
		fmt.Fprintf(&b, "%smap.insert(%s, %s);\n", g.indent(), g.expression(entry.Key), g.expression(entry.Value))
	}
	fmt.Fprintf(&b, "%smap\n", g.indent())
	g.level--
	fmt.Fprintf(&b, "%s}", g.indent())
	return b.String()
}

func (g *generator) structLiteral(n *typed.StructLiteral) string {
	shape, ok := g.symbols.Structs[n.Name]
	if !ok || len(shape.Fields) != len(n.Values) {
		panic(common.NewError(common.CodegenInvariantViolation, n.Location(),
			"struct literal `%s` does not match its registered shape", n.Name))
	}
	parts := make([]string, len(n.Values))
	for i, v := range n.Values {
		parts[i] = fmt.Sprintf("%s: %s", toSnakeCase(shape.Fields[i].Name), g.expression(v))
	}
	return fmt.Sprintf("%s { %s }", n.Name, strings.Join(parts, ", "))
}

func (g *generator) call(n *typed.Call) string {
	switch n.Name {
	case builtinPrint:
		if len(n.Args) == 0 {
			return "println!()"
		}
		specs := common.Map(func(a typed.Expression) string { return formatSpec(g.typeOf(a)) }, n.Args)
		return fmt.Sprintf("println!(\"%s\", %s)",
			strings.Join(specs, " "), strings.Join(common.Map(g.expression, n.Args), ", "))

	case builtinMap:
		list := g.expression(n.Args[1])
		if lambda, ok := n.Args[0].(*typed.Lambda); ok && len(lambda.Params) == 1 {
			return fmt.Sprintf("%s.into_iter().map(|%s| %s).collect::<Vec<_>>()",
				list, toSnakeCase(lambda.Params[0].Name), g.expression(lambda.Body))
		}
		return fmt.Sprintf("%s.into_iter().map(%s).collect::<Vec<_>>()", list, g.expression(n.Args[0]))

	case builtinFilter:
		list := g.expression(n.Args[1])
		if lambda, ok := n.Args[0].(*typed.Lambda); ok && len(lambda.Params) == 1 {
			// |&x| pattern-matches the reference away so the predicate sees a value
			return fmt.Sprintf("%s.into_iter().filter(|&%s| %s).collect::<Vec<_>>()",
				list, toSnakeCase(lambda.Params[0].Name), g.expression(lambda.Body))
		}
		return fmt.Sprintf("%s.into_iter().filter(%s).collect::<Vec<_>>()", list, g.expression(n.Args[0]))

	case builtinFold:
		init := g.expression(n.Args[1])
		list := g.expression(n.Args[2])
		if lambda, ok := n.Args[0].(*typed.Lambda); ok && len(lambda.Params) == 2 {
			return fmt.Sprintf("%s.into_iter().fold(%s, |%s, %s| %s)",
				list, init, toSnakeCase(lambda.Params[0].Name), toSnakeCase(lambda.Params[1].Name),
				g.expression(lambda.Body))
		}
		return fmt.Sprintf("%s.into_iter().fold(%s, %s)", list, init, g.expression(n.Args[0]))
	}

	return fmt.Sprintf("%s(%s)", toSnakeCase(n.Name),
		strings.Join(common.Map(g.expression, n.Args), ", "))
}

func (g *generator) cond(n *typed.Cond) string {
	var b strings.Builder
	for i, branch := range n.Branches {
		if i > 0 {
			b.WriteString(" else ")
		}
		fmt.Fprintf(&b, "if %s {\n", g.expression(branch.Condition))
		g.level++
		fmt.Fprintf(&b, "%s%s\n", g.indent(), g.expression(branch.Body))
		g.level--
		fmt.Fprintf(&b, "%s}", g.indent())
	}
	if n.Default != nil {
		if len(n.Branches) > 0 {
			b.WriteString(" else ")
		}
		b.WriteString("{\n")
		g.level++
		fmt.Fprintf(&b, "%s%s\n", g.indent(), g.expression(n.Default))
		g.level--
		fmt.Fprintf(&b, "%s}", g.indent())
	}
	return b.String()
}

func (g *generator) selectExpr(n *typed.Select) string {
	var b strings.Builder
	fmt.Fprintf(&b, "match %s {\n", g.expression(n.Scrutinee))
	g.level++
	for _, arm := range n.Arms {
		fmt.Fprintf(&b, "%s%s => %s,\n", g.indent(), g.pattern(arm.Pattern), g.expression(arm.Body))
	}
	if n.Trapped {
		fmt.Fprintf(&b, "%s_ => panic!(\"unmatched match value\"),\n", g.indent())
	}
	g.level--
	fmt.Fprintf(&b, "%s}", g.indent())
	return b.String()
}

func (g *generator) pattern(p typed.Pattern) string {
	switch n := p.(type) {
	case *typed.PAny:
		return "_"
	case *typed.PNamed:
		return toSnakeCase(n.Name)
	case *typed.PLiteral:
		switch v := n.Value.(type) {
		case *typed.Int:
			return strconv.FormatInt(v.Value, 10)
		case *typed.Bool:
			return strconv.FormatBool(v.Value)
		case *typed.String:
			// owned strings cannot be matched against a str literal directly
			return fmt.Sprintf("s if s == \"%s\"", escapeString(v.Value))
		}
	case *typed.PTuple:
		if len(n.Items) == 0 {
			return "()"
		}
		items := common.Map(g.pattern, n.Items)
		if len(items) == 1 {
			return fmt.Sprintf("(%s,)", items[0])
		}
		return fmt.Sprintf("(%s)", strings.Join(items, ", "))
	case *typed.PSome:
		return fmt.Sprintf("Some(%s)", g.pattern(n.Nested))
	case *typed.PNone:
		return "None"
	case *typed.POk:
		return fmt.Sprintf("Ok(%s)", g.pattern(n.Nested))
	case *typed.PErr:
		return fmt.Sprintf("Err(%s)", g.pattern(n.Nested))
	case *typed.PStruct:
		parts := make([]string, 0, len(n.Fields)+1)
		for _, f := range n.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s", toSnakeCase(f.Name), g.pattern(f.Pattern)))
		}
		if n.Partial {
			parts = append(parts, "..")
		}
		return fmt.Sprintf("%s { %s }", n.Name, strings.Join(parts, ", "))
	}
	panic(common.NewError(common.CodegenInvariantViolation, p.Location(),
		"unexpected pattern %T reached the generator", p))
}

// formatSpec picks the formatting trait for a print built-in from the
// resolved static type: display form for scalars, debug form for composites.
func formatSpec(t ast.Type) string {
	if _, scalar := t.(*ast.TPrimitive); scalar {
		return "{}"
	}
	return "{:?}"
}

var rustPrimitives = map[string]string{
	ast.Int8: "i8", ast.Int16: "i16", ast.Int32: "i32", ast.Int64: "i64",
	ast.Int128: "i128", ast.Int: "isize",
	ast.UInt8: "u8", ast.UInt16: "u16", ast.UInt32: "u32", ast.UInt64: "u64",
	ast.UInt128: "u128", ast.UInt: "usize",
	ast.Float32: "f32", ast.Float64: "f64",
	ast.Bool: "bool", ast.Char: "char", ast.String: "String",
}

func (g *generator) rustType(t ast.Type, loc ast.Location) string {
	switch e := t.(type) {
	case *ast.TPrimitive:
		if name, ok := rustPrimitives[e.Name]; ok {
			return name
		}
	case *ast.TUnit:
		return "()"
	case *ast.TList:
		return fmt.Sprintf("Vec<%s>", g.rustType(e.Item, loc))
	case *ast.TArray:
		return fmt.Sprintf("[%s; %d]", g.rustType(e.Item, loc), e.Size)
	case *ast.TSlice:
		return fmt.Sprintf("&[%s]", g.rustType(e.Item, loc))
	case *ast.TMap:
		return fmt.Sprintf("std::collections::HashMap<%s, %s>", g.rustType(e.Key, loc), g.rustType(e.Value, loc))
	case *ast.THashSet:
		return fmt.Sprintf("std::collections::HashSet<%s>", g.rustType(e.Item, loc))
	case *ast.TBTreeMap:
		return fmt.Sprintf("std::collections::BTreeMap<%s, %s>", g.rustType(e.Key, loc), g.rustType(e.Value, loc))
	case *ast.TBTreeSet:
		return fmt.Sprintf("std::collections::BTreeSet<%s>", g.rustType(e.Item, loc))
	case *ast.TTuple:
		items := make([]string, len(e.Items))
		for i, item := range e.Items {
			items[i] = g.rustType(item, loc)
		}
		return fmt.Sprintf("(%s)", strings.Join(items, ", "))
	case *ast.TOption:
		return fmt.Sprintf("Option<%s>", g.rustType(e.Item, loc))
	case *ast.TResult:
		return fmt.Sprintf("Result<%s, %s>", g.rustType(e.Ok, loc), g.rustType(e.Err, loc))
	case *ast.TStruct:
		return e.Name
	case *ast.TFunc:
		params := make([]string, len(e.Params))
		for i, p := range e.Params {
			params[i] = g.rustType(p, loc)
		}
		return fmt.Sprintf("fn(%s) -> %s", strings.Join(params, ", "), g.rustType(e.Return, loc))
	}
	panic(common.NewError(common.CodegenInvariantViolation, loc, "cannot render type %v", t))
}

func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '"':
			b.WriteString("\\\"")
		case '\\':
			b.WriteString("\\\\")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// toSnakeCase converts W's UpperCamelCase names to Rust convention at both
// definition and call sites. Runs of capitals collapse into one word.
func toSnakeCase(s string) string {
	var b strings.Builder
	prevUpper := false
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !prevUpper {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			prevUpper = true
		} else {
			b.WriteRune(r)
			prevUpper = false
		}
	}
	return b.String()
}
