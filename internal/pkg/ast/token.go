package ast

import "fmt"

type TokenKind uint8

const (
	TokenIdentifier TokenKind = iota
	TokenIntLiteral
	TokenFloatLiteral
	TokenStringLiteral
	TokenSymbol
	TokenKeyword
	TokenEOF
)

func (k TokenKind) String() string {
	switch k {
	case TokenIdentifier:
		return "identifier"
	case TokenIntLiteral:
		return "integer literal"
	case TokenFloatLiteral:
		return "float literal"
	case TokenStringLiteral:
		return "string literal"
	case TokenSymbol:
		return "symbol"
	case TokenKeyword:
		return "keyword"
	case TokenEOF:
		return "end of input"
	}
	return "unknown token"
}

// Token is produced once by the tokenizer and consumed by the parser.
// Lexeme holds the decoded text (for string literals, without quotes).
type Token struct {
	Kind     TokenKind
	Lexeme   string
	Location Location
}

func (t Token) IsSymbol(s string) bool {
	return t.Kind == TokenSymbol && t.Lexeme == s
}

func (t Token) IsKeyword(s string) bool {
	return t.Kind == TokenKeyword && t.Lexeme == s
}

func (t Token) IsIdentifier(name string) bool {
	return t.Kind == TokenIdentifier && t.Lexeme == name
}

func (t Token) IsEOF() bool {
	return t.Kind == TokenEOF
}

func (t Token) String() string {
	if t.Kind == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%s `%s`", t.Kind, t.Lexeme)
}
