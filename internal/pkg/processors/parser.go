package processors

import (
	"strconv"

	"wlang-compiler/internal/pkg/ast"
	"wlang-compiler/internal/pkg/ast/parsed"
	"wlang-compiler/internal/pkg/common"
)

// Binary precedence levels; unary binds tighter than all of them and power is
// the only right-associative level.
var binaryPrecedence = map[string]int{
	"&&": 1, "||": 1,
	"==": 2, "!=": 2, "<": 2, ">": 2,
	"+": 3, "-": 3,
	"*": 4, "/": 4,
	"^": 5,
}

const powerPrecedence = 5

// Bracket-form heads with dedicated parses. Everything else is a call, a
// struct literal or a definition, decided by the name table and what follows
// the closing bracket.
const (
	headStruct   = "Struct"
	headMatch    = "Match"
	headCond     = "Cond"
	headFunction = "Function"
	headSome     = "Some"
	headOk       = "Ok"
	headErr      = "Err"
	headNone     = "None"
)

var logHeads = map[string]parsed.LogLevel{
	"LogDebug": parsed.LogDebug,
	"LogInfo":  parsed.LogInfo,
	"LogWarn":  parsed.LogWarn,
	"LogError": parsed.LogError,
}

var containerTypeHeads = map[string]struct{}{
	"List": {}, "Array": {}, "Slice": {}, "Map": {}, "HashSet": {},
	"BTreeMap": {}, "BTreeSet": {}, "Tuple": {}, "Option": {}, "Result": {},
	"Function": {},
}

var primitiveTypeNames = map[string]string{
	ast.Int8: ast.Int8, ast.Int16: ast.Int16, ast.Int32: ast.Int32,
	ast.Int64: ast.Int64, ast.Int128: ast.Int128, ast.Int: ast.Int,
	ast.UInt8: ast.UInt8, ast.UInt16: ast.UInt16, ast.UInt32: ast.UInt32,
	ast.UInt64: ast.UInt64, ast.UInt128: ast.UInt128, ast.UInt: ast.UInt,
	ast.Float32: ast.Float32, ast.Float64: ast.Float64,
	ast.Bool: ast.Bool, ast.Char: ast.Char, ast.String: ast.String,
	// lowercase aliases kept for older sources
	"int": ast.Int32, "float": ast.Float64, "string": ast.String,
	"bool": ast.Bool, "char": ast.Char,
}

type parser struct {
	tokens []ast.Token
	pos    int
	// struct names declared so far; bracket forms headed by one of these are
	// constructors, not calls
	structNames map[string]struct{}
}

// Parse consumes the full token stream and returns the unit's AST. The first
// syntax error aborts parsing; there is no recovery.
func Parse(filePath string, tokens []ast.Token) (*parsed.Module, error) {
	p := &parser{tokens: tokens, structNames: map[string]struct{}{}}
	module := &parsed.Module{FilePath: filePath}
	for !p.peek().IsEOF() {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		module.Statements = append(module.Statements, expr)
	}
	return module, nil
}

func (p *parser) peek() ast.Token {
	return p.tokens[p.pos]
}

func (p *parser) lookahead(n int) ast.Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *parser) next() ast.Token {
	t := p.tokens[p.pos]
	if !t.IsEOF() {
		p.pos++
	}
	return t
}

func (p *parser) errorf(tok ast.Token, format string, args ...any) error {
	return common.NewError(common.SyntaxError, tok.Location, format, args...)
}

func (p *parser) expectSymbol(s string) error {
	tok := p.peek()
	if !tok.IsSymbol(s) {
		return p.errorf(tok, "expected `%s`, got %s", s, tok)
	}
	p.next()
	return nil
}

func (p *parser) skipComma() {
	if p.peek().IsSymbol(",") {
		p.next()
	}
}

func (p *parser) isStructName(name string) bool {
	_, ok := p.structNames[name]
	return ok
}

func (p *parser) parseExpression() (parsed.Expression, error) {
	return p.parseBinary(1)
}

func (p *parser) parseBinary(minPrec int) (parsed.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Kind != ast.TokenSymbol {
			break
		}
		prec, isOp := binaryPrecedence[tok.Lexeme]
		if !isOp || prec < minPrec {
			break
		}
		p.next()
		nextMin := prec + 1
		if prec == powerPrecedence {
			nextMin = prec // right-associative
		}
		right, err := p.parseBinary(nextMin)
		if err != nil {
			return nil, err
		}
		left = parsed.NewBinOp(tok.Location, tok.Lexeme, left, right)
	}
	return left, nil
}

func (p *parser) parseUnary() (parsed.Expression, error) {
	tok := p.peek()
	if tok.IsSymbol("-") || tok.IsSymbol("!") {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return parsed.NewUnOp(tok.Location, tok.Lexeme, operand), nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (parsed.Expression, error) {
	tok := p.peek()
	switch tok.Kind {
	case ast.TokenIntLiteral:
		p.next()
		value, _ := strconv.ParseInt(tok.Lexeme, 10, 64)
		return parsed.NewInt(tok.Location, value), nil
	case ast.TokenFloatLiteral:
		p.next()
		value, _ := strconv.ParseFloat(tok.Lexeme, 64)
		return parsed.NewFloat(tok.Location, value), nil
	case ast.TokenStringLiteral:
		p.next()
		return parsed.NewString(tok.Location, tok.Lexeme), nil
	case ast.TokenKeyword:
		p.next()
		return parsed.NewBool(tok.Location, tok.Lexeme == "true"), nil
	case ast.TokenIdentifier:
		if tok.Lexeme == headNone {
			p.next()
			return parsed.NewNone(tok.Location), nil
		}
		if p.lookahead(1).IsSymbol("[") {
			return p.parseBracketForm()
		}
		p.next()
		return parsed.NewVar(tok.Location, tok.Lexeme), nil
	case ast.TokenSymbol:
		switch tok.Lexeme {
		case "(":
			return p.parseTupleOrGrouping()
		case "[":
			return p.parseListLiteral()
		case "{":
			return p.parseMapLiteral()
		}
	}
	return nil, p.errorf(tok, "expected expression, got %s", tok)
}

// parseBracketForm handles `Identifier[...]` in all its meanings: special
// forms, constructors, struct literals, calls and definitions. The current
// token is the head identifier and the next one is `[`.
func (p *parser) parseBracketForm() (parsed.Expression, error) {
	nameTok := p.next()
	name := nameTok.Lexeme

	switch name {
	case headStruct:
		return p.parseStructDefinition(nameTok)
	case headMatch:
		return p.parseMatch(nameTok)
	case headCond:
		return p.parseCond(nameTok)
	case headFunction:
		return p.parseLambda(nameTok)
	case headSome, headOk, headErr:
		return p.parseWrapped(nameTok)
	}
	if level, ok := logHeads[name]; ok {
		return p.parseLogCall(nameTok, level)
	}

	if err := p.expectSymbol("["); err != nil {
		return nil, err
	}

	type item struct {
		expr  parsed.Expression
		param *parsed.Param
	}
	var items []item
	for !p.peek().IsSymbol("]") {
		if p.peek().IsEOF() {
			return nil, p.errorf(p.peek(), "unterminated bracket form for `%s`", name)
		}
		// `ident : Type` only makes sense when a definition follows
		if p.peek().Kind == ast.TokenIdentifier && p.lookahead(1).IsSymbol(":") {
			paramTok := p.next()
			p.next() // colon
			typ, err := p.parseType()
			if err != nil {
				return nil, err
			}
			items = append(items, item{param: &parsed.Param{
				Location: paramTok.Location, Name: paramTok.Lexeme, Type: typ,
			}})
		} else {
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			items = append(items, item{expr: expr})
		}
		p.skipComma()
	}
	p.next() // closing bracket

	var returnType ast.Type
	isDefinition := false
	if p.peek().IsSymbol(":") {
		p.next()
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		returnType = typ
		if err := p.expectSymbol(":="); err != nil {
			return nil, err
		}
		isDefinition = true
	} else if p.peek().IsSymbol(":=") {
		p.next()
		isDefinition = true
	}

	if isDefinition {
		params := make([]parsed.Param, 0, len(items))
		for _, it := range items {
			if it.param != nil {
				params = append(params, *it.param)
				continue
			}
			v, ok := it.expr.(*parsed.Var)
			if !ok {
				return nil, p.errorf(nameTok, "parameter of `%s` must be an identifier", name)
			}
			params = append(params, parsed.Param{Location: v.Location(), Name: v.Name})
		}
		body, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return parsed.NewDefinition(nameTok.Location, name, params, returnType, body), nil
	}

	args := make([]parsed.Expression, 0, len(items))
	for _, it := range items {
		if it.param != nil {
			return nil, p.errorf(nameTok, "unexpected type annotation in call to `%s`", name)
		}
		args = append(args, it.expr)
	}
	if p.isStructName(name) {
		return parsed.NewStructLiteral(nameTok.Location, name, args), nil
	}
	return parsed.NewCall(nameTok.Location, name, args), nil
}

func (p *parser) parseWrapped(nameTok ast.Token) (parsed.Expression, error) {
	if err := p.expectSymbol("["); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("]"); err != nil {
		return nil, err
	}
	switch nameTok.Lexeme {
	case headSome:
		return parsed.NewSome(nameTok.Location, value), nil
	case headOk:
		return parsed.NewOk(nameTok.Location, value), nil
	default:
		return parsed.NewErr(nameTok.Location, value), nil
	}
}

func (p *parser) parseLogCall(nameTok ast.Token, level parsed.LogLevel) (parsed.Expression, error) {
	if err := p.expectSymbol("["); err != nil {
		return nil, err
	}
	message, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("]"); err != nil {
		return nil, err
	}
	return parsed.NewLogCall(nameTok.Location, level, message), nil
}

// parseStructDefinition parses `Struct[Name, [f1: T1, f2: T2, ...]]` and
// registers the name so later bracket forms headed by it become literals.
func (p *parser) parseStructDefinition(nameTok ast.Token) (parsed.Expression, error) {
	if err := p.expectSymbol("["); err != nil {
		return nil, err
	}
	structTok := p.peek()
	if structTok.Kind != ast.TokenIdentifier {
		return nil, p.errorf(structTok, "expected struct name, got %s", structTok)
	}
	p.next()
	if err := p.expectSymbol(","); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("["); err != nil {
		return nil, err
	}
	var fields []parsed.Field
	for !p.peek().IsSymbol("]") {
		fieldTok := p.peek()
		if fieldTok.Kind != ast.TokenIdentifier {
			return nil, p.errorf(fieldTok, "expected field name, got %s", fieldTok)
		}
		p.next()
		if err := p.expectSymbol(":"); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, parsed.Field{Location: fieldTok.Location, Name: fieldTok.Lexeme, Type: typ})
		p.skipComma()
	}
	p.next() // field list bracket
	p.skipComma()
	if err := p.expectSymbol("]"); err != nil {
		return nil, err
	}
	p.structNames[structTok.Lexeme] = struct{}{}
	return parsed.NewStructDefinition(nameTok.Location, structTok.Lexeme, fields), nil
}

func (p *parser) parseMatch(nameTok ast.Token) (parsed.Expression, error) {
	if err := p.expectSymbol("["); err != nil {
		return nil, err
	}
	scrutinee, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(","); err != nil {
		return nil, err
	}
	var arms []parsed.MatchArm
	for !p.peek().IsSymbol("]") {
		if err := p.expectSymbol("["); err != nil {
			return nil, err
		}
		pattern, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(","); err != nil {
			return nil, err
		}
		body, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol("]"); err != nil {
			return nil, err
		}
		arms = append(arms, parsed.MatchArm{Pattern: pattern, Body: body})
		p.skipComma()
	}
	p.next()
	if len(arms) == 0 {
		return nil, p.errorf(nameTok, "match must have at least one arm")
	}
	return parsed.NewMatch(nameTok.Location, scrutinee, arms), nil
}

func (p *parser) parseCond(nameTok ast.Token) (parsed.Expression, error) {
	if err := p.expectSymbol("["); err != nil {
		return nil, err
	}
	var branches []parsed.CondBranch
	var deflt parsed.Expression
	for !p.peek().IsSymbol("]") {
		if err := p.expectSymbol("["); err != nil {
			return nil, err
		}
		first, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		p.skipComma()
		if p.peek().IsSymbol("]") {
			// single-expression group is the default branch
			p.next()
			if deflt != nil {
				return nil, p.errorf(nameTok, "cond has more than one default branch")
			}
			deflt = first
			p.skipComma()
			continue
		}
		body, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol("]"); err != nil {
			return nil, err
		}
		branches = append(branches, parsed.CondBranch{Condition: first, Body: body})
		p.skipComma()
	}
	p.next()
	return parsed.NewCond(nameTok.Location, branches, deflt), nil
}

func (p *parser) parseLambda(nameTok ast.Token) (parsed.Expression, error) {
	if err := p.expectSymbol("["); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("{"); err != nil {
		return nil, err
	}
	var params []parsed.Param
	for !p.peek().IsSymbol("}") {
		paramTok := p.peek()
		if paramTok.Kind != ast.TokenIdentifier {
			return nil, p.errorf(paramTok, "expected closure parameter name, got %s", paramTok)
		}
		p.next()
		param := parsed.Param{Location: paramTok.Location, Name: paramTok.Lexeme}
		if p.peek().IsSymbol(":") {
			p.next()
			typ, err := p.parseType()
			if err != nil {
				return nil, err
			}
			param.Type = typ
		}
		params = append(params, param)
		p.skipComma()
	}
	p.next() // closing brace
	if err := p.expectSymbol(","); err != nil {
		return nil, err
	}
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("]"); err != nil {
		return nil, err
	}
	return parsed.NewLambda(nameTok.Location, params, body), nil
}

// parseTupleOrGrouping resolves the `(` ambiguity: `()` is unit, `(e)` is
// grouping, `(e,)` is a 1-tuple and `(e1, e2, ...)` is a tuple.
func (p *parser) parseTupleOrGrouping() (parsed.Expression, error) {
	openTok := p.next()
	if p.peek().IsSymbol(")") {
		p.next()
		return parsed.NewTuple(openTok.Location, nil), nil
	}
	var items []parsed.Expression
	sawComma := false
	for {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		items = append(items, expr)
		if p.peek().IsSymbol(",") {
			sawComma = true
			p.next()
			if p.peek().IsSymbol(")") {
				break
			}
			continue
		}
		break
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	if len(items) == 1 && !sawComma {
		return items[0], nil
	}
	return parsed.NewTuple(openTok.Location, items), nil
}

func (p *parser) parseListLiteral() (parsed.Expression, error) {
	openTok := p.next()
	var items []parsed.Expression
	for !p.peek().IsSymbol("]") {
		if p.peek().IsEOF() {
			return nil, p.errorf(p.peek(), "unterminated list literal")
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		items = append(items, expr)
		if !p.peek().IsSymbol("]") {
			if err := p.expectSymbol(","); err != nil {
				return nil, err
			}
		}
	}
	p.next()
	return parsed.NewList(openTok.Location, items), nil
}

func (p *parser) parseMapLiteral() (parsed.Expression, error) {
	openTok := p.next()
	var entries []parsed.MapEntry
	for !p.peek().IsSymbol("}") {
		if p.peek().IsEOF() {
			return nil, p.errorf(p.peek(), "unterminated map literal")
		}
		key, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(":"); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		entries = append(entries, parsed.MapEntry{Key: key, Value: value})
		if !p.peek().IsSymbol("}") {
			if err := p.expectSymbol(","); err != nil {
				return nil, err
			}
		}
	}
	p.next()
	return parsed.NewMapLiteral(openTok.Location, entries), nil
}

func (p *parser) parsePattern() (parsed.Pattern, error) {
	tok := p.peek()
	switch {
	case tok.IsSymbol("_"):
		p.next()
		return parsed.NewPAny(tok.Location), nil
	case tok.IsSymbol("-"):
		p.next()
		numTok := p.peek()
		if numTok.Kind != ast.TokenIntLiteral {
			return nil, p.errorf(numTok, "expected integer literal after `-` in pattern")
		}
		p.next()
		value, _ := strconv.ParseInt(numTok.Lexeme, 10, 64)
		return parsed.NewPLiteral(tok.Location, parsed.NewInt(tok.Location, -value)), nil
	case tok.Kind == ast.TokenIntLiteral:
		p.next()
		value, _ := strconv.ParseInt(tok.Lexeme, 10, 64)
		return parsed.NewPLiteral(tok.Location, parsed.NewInt(tok.Location, value)), nil
	case tok.Kind == ast.TokenStringLiteral:
		p.next()
		return parsed.NewPLiteral(tok.Location, parsed.NewString(tok.Location, tok.Lexeme)), nil
	case tok.Kind == ast.TokenKeyword:
		p.next()
		return parsed.NewPLiteral(tok.Location, parsed.NewBool(tok.Location, tok.Lexeme == "true")), nil
	case tok.IsSymbol("("):
		return p.parseTuplePattern()
	case tok.Kind == ast.TokenIdentifier:
		return p.parseIdentifierPattern()
	}
	return nil, p.errorf(tok, "expected pattern, got %s", tok)
}

func (p *parser) parseIdentifierPattern() (parsed.Pattern, error) {
	nameTok := p.next()
	name := nameTok.Lexeme

	if name == headNone {
		return parsed.NewPNone(nameTok.Location), nil
	}

	switch name {
	case headSome, headOk, headErr:
		if err := p.expectSymbol("["); err != nil {
			return nil, err
		}
		nested, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol("]"); err != nil {
			return nil, err
		}
		switch name {
		case headSome:
			return parsed.NewPSome(nameTok.Location, nested), nil
		case headOk:
			return parsed.NewPOk(nameTok.Location, nested), nil
		default:
			return parsed.NewPErr(nameTok.Location, nested), nil
		}
	}

	if p.isStructName(name) && p.peek().IsSymbol("[") {
		p.next()
		var fields []parsed.PStructField
		for !p.peek().IsSymbol("]") {
			fieldTok := p.peek()
			if fieldTok.Kind != ast.TokenIdentifier {
				return nil, p.errorf(fieldTok, "expected field name in struct pattern, got %s", fieldTok)
			}
			p.next()
			if err := p.expectSymbol(":"); err != nil {
				return nil, err
			}
			nested, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			fields = append(fields, parsed.PStructField{
				Location: fieldTok.Location, Name: fieldTok.Lexeme, Pattern: nested,
			})
			p.skipComma()
		}
		p.next()
		return parsed.NewPStruct(nameTok.Location, name, fields), nil
	}

	return parsed.NewPNamed(nameTok.Location, name), nil
}

func (p *parser) parseTuplePattern() (parsed.Pattern, error) {
	openTok := p.next()
	if p.peek().IsSymbol(")") {
		p.next()
		return parsed.NewPTuple(openTok.Location, nil), nil
	}
	var items []parsed.Pattern
	sawComma := false
	for {
		item, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.peek().IsSymbol(",") {
			sawComma = true
			p.next()
			if p.peek().IsSymbol(")") {
				break
			}
			continue
		}
		break
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	if len(items) == 1 && !sawComma {
		return items[0], nil
	}
	return parsed.NewPTuple(openTok.Location, items), nil
}

func (p *parser) parseType() (ast.Type, error) {
	tok := p.peek()
	if tok.IsSymbol("(") {
		p.next()
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		return ast.NewTUnit(tok.Location), nil
	}
	if tok.Kind != ast.TokenIdentifier {
		return nil, p.errorf(tok, "expected type, got %s", tok)
	}
	p.next()
	name := tok.Lexeme

	if _, generic := containerTypeHeads[name]; generic && p.peek().IsSymbol("[") {
		return p.parseGenericType(tok)
	}
	if primitive, ok := primitiveTypeNames[name]; ok {
		return ast.NewTPrimitive(tok.Location, primitive), nil
	}
	if p.isStructName(name) {
		return ast.NewTStruct(tok.Location, name), nil
	}
	return nil, p.errorf(tok, "unknown type `%s`", name)
}

func (p *parser) parseGenericType(headTok ast.Token) (ast.Type, error) {
	if err := p.expectSymbol("["); err != nil {
		return nil, err
	}
	loc := headTok.Location

	parseItem := func() (ast.Type, error) { return p.parseType() }
	closeBracket := func() error { return p.expectSymbol("]") }

	switch headTok.Lexeme {
	case "List":
		item, err := parseItem()
		if err != nil {
			return nil, err
		}
		return ast.NewTList(loc, item), closeBracket()
	case "Slice":
		item, err := parseItem()
		if err != nil {
			return nil, err
		}
		return ast.NewTSlice(loc, item), closeBracket()
	case "HashSet":
		item, err := parseItem()
		if err != nil {
			return nil, err
		}
		return ast.NewTHashSet(loc, item), closeBracket()
	case "BTreeSet":
		item, err := parseItem()
		if err != nil {
			return nil, err
		}
		return ast.NewTBTreeSet(loc, item), closeBracket()
	case "Option":
		item, err := parseItem()
		if err != nil {
			return nil, err
		}
		return ast.NewTOption(loc, item), closeBracket()
	case "Array":
		item, err := parseItem()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(","); err != nil {
			return nil, err
		}
		sizeTok := p.peek()
		if sizeTok.Kind != ast.TokenIntLiteral {
			return nil, p.errorf(sizeTok, "expected array size, got %s", sizeTok)
		}
		p.next()
		size, _ := strconv.ParseInt(sizeTok.Lexeme, 10, 64)
		return ast.NewTArray(loc, item, size), closeBracket()
	case "Map", "BTreeMap":
		key, err := parseItem()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(","); err != nil {
			return nil, err
		}
		value, err := parseItem()
		if err != nil {
			return nil, err
		}
		if headTok.Lexeme == "Map" {
			return ast.NewTMap(loc, key, value), closeBracket()
		}
		return ast.NewTBTreeMap(loc, key, value), closeBracket()
	case "Result":
		okType, err := parseItem()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(","); err != nil {
			return nil, err
		}
		errType, err := parseItem()
		if err != nil {
			return nil, err
		}
		return ast.NewTResult(loc, okType, errType), closeBracket()
	case "Tuple":
		var items []ast.Type
		for !p.peek().IsSymbol("]") {
			item, err := parseItem()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			p.skipComma()
		}
		p.next()
		return ast.NewTTuple(loc, items), nil
	case "Function":
		if err := p.expectSymbol("["); err != nil {
			return nil, err
		}
		var params []ast.Type
		for !p.peek().IsSymbol("]") {
			param, err := parseItem()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			p.skipComma()
		}
		p.next()
		if err := p.expectSymbol(","); err != nil {
			return nil, err
		}
		ret, err := parseItem()
		if err != nil {
			return nil, err
		}
		return ast.NewTFunc(loc, params, ret), closeBracket()
	}
	return nil, p.errorf(headTok, "unknown generic type `%s`", headTok.Lexeme)
}
