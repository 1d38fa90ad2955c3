package processors

import (
	"strconv"
	"strings"
	"unicode"

	"wlang-compiler/internal/pkg/ast"
	"wlang-compiler/internal/pkg/common"
)

const (
	SeqComment      = "//"
	SeqCommentStart = "/*"
	SeqCommentEnd   = "*/"
)

// Symbols are matched longest first, so `:=` wins over `:` and `==` over `=`.
var symbols = []string{
	":=", "==", "!=", "<=", ">=", "&&", "||",
	"[", "]", "{", "}", "(", ")", ",", ":",
	"+", "-", "*", "/", "^", "<", ">", "!", "_",
}

var keywords = map[string]struct{}{
	"true":  {},
	"false": {},
}

type source struct {
	filePath string
	cursor   uint32
	text     []rune
}

func (src *source) isOk() bool {
	return src.cursor < uint32(len(src.text))
}

func (src *source) loc(start uint32) ast.Location {
	return ast.NewLocation(src.filePath, src.text, start, src.cursor)
}

func newTokenError(src *source, msg string) error {
	return common.Error{
		Kind:     common.SyntaxError,
		Location: ast.NewLocationCursor(src.filePath, src.text, src.cursor),
		Message:  msg,
	}
}

// Tokenize scans the whole unit into a finite ordered token sequence ending
// with an EOF token. Comments (`//` to end of line, nested `/* */`) and
// whitespace never reach the parser.
func Tokenize(filePath string, text string) ([]ast.Token, error) {
	src := &source{filePath: filePath, text: []rune(text)}
	var tokens []ast.Token

	for {
		skipWhiteSpaceAndComments(src)
		if !src.isOk() {
			break
		}

		start := src.cursor
		c := src.text[src.cursor]

		switch {
		case unicode.IsLetter(c):
			lexeme := readIdentifier(src)
			kind := ast.TokenIdentifier
			if _, ok := keywords[lexeme]; ok {
				kind = ast.TokenKeyword
			}
			tokens = append(tokens, ast.Token{Kind: kind, Lexeme: lexeme, Location: src.loc(start)})
		case unicode.IsDigit(c):
			lexeme, isFloat, err := readNumber(src)
			if err != nil {
				return nil, err
			}
			kind := ast.TokenIntLiteral
			if isFloat {
				kind = ast.TokenFloatLiteral
			}
			tokens = append(tokens, ast.Token{Kind: kind, Lexeme: lexeme, Location: src.loc(start)})
		case c == '"':
			lexeme, err := readString(src)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, ast.Token{
				Kind: ast.TokenStringLiteral, Lexeme: lexeme, Location: src.loc(start),
			})
		default:
			sym := readSymbol(src)
			if sym == "" {
				return nil, newTokenError(src, "unexpected character `"+string(c)+"`")
			}
			tokens = append(tokens, ast.Token{Kind: ast.TokenSymbol, Lexeme: sym, Location: src.loc(start)})
		}
	}

	tokens = append(tokens, ast.Token{
		Kind:     ast.TokenEOF,
		Location: ast.NewLocationCursor(src.filePath, src.text, src.cursor),
	})
	return tokens, nil
}

func readSequence(src *source, value string) bool {
	start := src.cursor
	for _, c := range value {
		if !src.isOk() || src.text[src.cursor] != c {
			src.cursor = start
			return false
		}
		src.cursor++
	}
	return true
}

func skipWhiteSpaceAndComments(src *source) {
	for {
		for src.isOk() && unicode.IsSpace(src.text[src.cursor]) {
			src.cursor++
		}
		if readSequence(src, SeqComment) {
			for src.isOk() && src.text[src.cursor] != '\n' {
				src.cursor++
			}
			continue
		}
		if readSequence(src, SeqCommentStart) {
			level := 1
			for src.isOk() && level > 0 {
				if readSequence(src, SeqCommentStart) {
					level++
				} else if readSequence(src, SeqCommentEnd) {
					level--
				} else {
					src.cursor++
				}
			}
			continue
		}
		return
	}
}

func readIdentifier(src *source) string {
	start := src.cursor
	for src.isOk() {
		c := src.text[src.cursor]
		if unicode.IsLetter(c) || unicode.IsDigit(c) || (c == '_' && src.cursor > start) {
			src.cursor++
			continue
		}
		break
	}
	return string(src.text[start:src.cursor])
}

func readNumber(src *source) (lexeme string, isFloat bool, err error) {
	start := src.cursor
	for src.isOk() && unicode.IsDigit(src.text[src.cursor]) {
		src.cursor++
	}
	// fraction only when a digit follows the dot
	if src.cursor+1 < uint32(len(src.text)) &&
		src.text[src.cursor] == '.' && unicode.IsDigit(src.text[src.cursor+1]) {
		isFloat = true
		src.cursor++
		for src.isOk() && unicode.IsDigit(src.text[src.cursor]) {
			src.cursor++
		}
	}
	lexeme = string(src.text[start:src.cursor])
	if isFloat {
		if _, perr := strconv.ParseFloat(lexeme, 64); perr != nil {
			return "", false, newTokenError(src, "malformed float literal `"+lexeme+"`")
		}
	} else {
		if _, perr := strconv.ParseInt(lexeme, 10, 64); perr != nil {
			return "", false, newTokenError(src, "integer literal out of range `"+lexeme+"`")
		}
	}
	return lexeme, isFloat, nil
}

func readString(src *source) (string, error) {
	src.cursor++ // opening quote
	sb := strings.Builder{}
	for src.isOk() {
		c := src.text[src.cursor]
		switch c {
		case '"':
			src.cursor++
			return sb.String(), nil
		case '\\':
			src.cursor++
			if !src.isOk() {
				return "", newTokenError(src, "unterminated string literal")
			}
			switch src.text[src.cursor] {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '"':
				sb.WriteRune('"')
			case '\\':
				sb.WriteRune('\\')
			default:
				return "", newTokenError(src, "unknown escape sequence")
			}
			src.cursor++
		default:
			sb.WriteRune(c)
			src.cursor++
		}
	}
	return "", newTokenError(src, "unterminated string literal")
}

func readSymbol(src *source) string {
	for _, sym := range symbols {
		if readSequence(src, sym) {
			return sym
		}
	}
	return ""
}
