package common

import (
	"fmt"
	"runtime"
	"strings"

	"wlang-compiler/internal/pkg/ast"

	"golang.org/x/exp/slices"
)

type ErrorKind string

const (
	SyntaxError               ErrorKind = "syntax error"
	UndefinedSymbol           ErrorKind = "undefined symbol"
	TypeMismatch              ErrorKind = "type mismatch"
	ArityMismatch             ErrorKind = "arity mismatch"
	NonHomogeneousContainer   ErrorKind = "non-homogeneous container"
	UnresolvedPatternType     ErrorKind = "unresolved pattern type"
	PatternCompileError       ErrorKind = "pattern compile error"
	CodegenInvariantViolation ErrorKind = "codegen invariant violation"
)

// Error is the typed failure value every pipeline stage reports. Extra holds
// secondary locations, e.g. both call sites of a conflicting inference.
type Error struct {
	Kind     ErrorKind
	Location ast.Location
	Extra    []ast.Location
	Message  string
}

func (e Error) Error() string {
	sb := strings.Builder{}
	cursorString := e.Location.CursorString()
	if cursorString != "" {
		sb.WriteString(fmt.Sprintf("%s %s: %s", cursorString, e.Kind, e.Message))
	} else {
		sb.WriteString(fmt.Sprintf("%s: %s", e.Kind, e.Message))
	}

	var uniqueExtra []ast.Location
	for _, x := range e.Extra {
		if x.IsEmpty() {
			continue
		}
		if !slices.ContainsFunc(uniqueExtra, func(u ast.Location) bool { return u.EqualsTo(x) }) {
			uniqueExtra = append(uniqueExtra, x)
		}
	}
	for _, extra := range uniqueExtra {
		sb.WriteString(fmt.Sprintf("\n+ %s", extra.CursorString()))
	}
	return sb.String()
}

func NewError(kind ErrorKind, loc ast.Location, format string, args ...any) error {
	return Error{Kind: kind, Location: loc, Message: fmt.Sprintf(format, args...)}
}

// SystemError is the panic payload for internal invariants that user input
// cannot trigger. Stage boundaries recover it into a typed Error.
type SystemError struct {
	Message string
}

func (e SystemError) Error() string {
	return fmt.Sprintf("system error: %s", e.Message)
}

func NewCompilerError(message string) error {
	_, file, line, _ := runtime.Caller(1)
	return compilerError{message: message, file: file, line: line}
}

type compilerError struct {
	message string
	file    string
	line    int
}

func (e compilerError) Error() string {
	return fmt.Sprintf("%s at %s:%d", e.message, e.file, e.line)
}

// ToolchainError wraps a failed downstream rustc invocation. It is attributed
// to the generated code, not the source program.
type ToolchainError struct {
	ExitCode    int
	Diagnostics string
}

func (e ToolchainError) Error() string {
	return fmt.Sprintf("native toolchain failed on generated code (exit code %d):\n%s",
		e.ExitCode, e.Diagnostics)
}
