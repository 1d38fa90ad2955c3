package processors

import (
	"errors"
	"testing"

	"wlang-compiler/internal/pkg/ast"
	"wlang-compiler/internal/pkg/common"
)

func TestTokenizeDefinition(t *testing.T) {
	tokens, err := Tokenize("test.w", "F[x] := x + 1")
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	expected := []struct {
		kind   ast.TokenKind
		lexeme string
	}{
		{ast.TokenIdentifier, "F"},
		{ast.TokenSymbol, "["},
		{ast.TokenIdentifier, "x"},
		{ast.TokenSymbol, "]"},
		{ast.TokenSymbol, ":="},
		{ast.TokenIdentifier, "x"},
		{ast.TokenSymbol, "+"},
		{ast.TokenIntLiteral, "1"},
		{ast.TokenEOF, ""},
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, e := range expected {
		if tokens[i].Kind != e.kind || tokens[i].Lexeme != e.lexeme {
			t.Errorf("token %d: expected %v `%s`, got %v `%s`",
				i, e.kind, e.lexeme, tokens[i].Kind, tokens[i].Lexeme)
		}
	}
}

func TestTokenizeNumbers(t *testing.T) {
	tokens, err := Tokenize("test.w", "3.14 42")
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	if tokens[0].Kind != ast.TokenFloatLiteral || tokens[0].Lexeme != "3.14" {
		t.Errorf("expected float literal 3.14, got %s", tokens[0])
	}
	if tokens[1].Kind != ast.TokenIntLiteral || tokens[1].Lexeme != "42" {
		t.Errorf("expected int literal 42, got %s", tokens[1])
	}
}

func TestTokenizeComments(t *testing.T) {
	tokens, err := Tokenize("test.w", "1 /* a /* nested */ b */ + 2 // trailing")
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	var lexemes []string
	for _, tok := range tokens {
		if !tok.IsEOF() {
			lexemes = append(lexemes, tok.Lexeme)
		}
	}
	if len(lexemes) != 3 || lexemes[0] != "1" || lexemes[1] != "+" || lexemes[2] != "2" {
		t.Errorf("comments not stripped, got %v", lexemes)
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	tokens, err := Tokenize("test.w", `"a\nb\t\"c\""`)
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	if tokens[0].Kind != ast.TokenStringLiteral {
		t.Fatalf("expected string literal, got %s", tokens[0])
	}
	if tokens[0].Lexeme != "a\nb\t\"c\"" {
		t.Errorf("escapes not decoded: %q", tokens[0].Lexeme)
	}
}

func TestTokenizeKeywords(t *testing.T) {
	tokens, err := Tokenize("test.w", "true false truth")
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	if tokens[0].Kind != ast.TokenKeyword || tokens[1].Kind != ast.TokenKeyword {
		t.Errorf("true/false should be keywords, got %s %s", tokens[0], tokens[1])
	}
	if tokens[2].Kind != ast.TokenIdentifier {
		t.Errorf("`truth` should be an identifier, got %s", tokens[2])
	}
}

func TestTokenizeUnexpectedCharacter(t *testing.T) {
	_, err := Tokenize("test.w", "1 @ 2")
	if err == nil {
		t.Fatal("expected an error")
	}
	var cerr common.Error
	if !errors.As(err, &cerr) || cerr.Kind != common.SyntaxError {
		t.Errorf("expected a syntax error, got %v", err)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := Tokenize("test.w", `"abc`)
	if err == nil {
		t.Fatal("expected an error")
	}
}
