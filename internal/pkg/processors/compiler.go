package processors

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"wlang-compiler/internal/pkg/common"
	"wlang-compiler/internal/pkg/logger"
)

const Version = "0.1.0"

// CompileSource runs the whole front-end over one compilation unit:
// tokenize, parse, collect symbols, check, lower patterns, generate. Each
// stage fully consumes its input before the next starts, and the first error
// aborts the run.
func CompileSource(filePath, source string, log *logger.LogWriter) (rust string, err error) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(common.SystemError); ok {
				rust, err = "", se
				return
			}
			panic(r)
		}
	}()

	log.Trace("tokenize %s", filePath)
	tokens, err := Tokenize(filePath, source)
	if err != nil {
		return "", err
	}

	log.Trace("parse %s (%d tokens)", filePath, len(tokens))
	module, err := Parse(filePath, tokens)
	if err != nil {
		return "", err
	}

	log.Trace("collect symbols (%d statements)", len(module.Statements))
	symbols, err := CollectSymbols(module)
	if err != nil {
		return "", err
	}

	log.Trace("check types (%d functions, %d structs)", len(symbols.Functions), len(symbols.Structs))
	typedModule, err := Check(module, symbols)
	if err != nil {
		return "", err
	}

	log.Trace("lower patterns")
	lowered, err := LowerPatterns(typedModule, symbols)
	if err != nil {
		return "", err
	}

	log.Trace("generate code")
	return Generate(lowered, symbols)
}

func CompileFile(path string, log *logger.LogWriter) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return CompileSource(path, string(source), log)
}

type BuildOptions struct {
	// Out is the binary path; defaults to the source file name without its
	// extension.
	Out string
	// EmitRust keeps the intermediate .rs file next to the binary.
	EmitRust bool
}

// Build compiles a source file all the way to a native binary: the generated
// Rust is written to disk and handed to rustc synchronously, no retries. A
// toolchain failure is attributed to the generated code, with the exit code
// and diagnostics captured verbatim.
func Build(path string, opts BuildOptions, log *logger.LogWriter) error {
	rust, err := CompileFile(path, log)
	if err != nil {
		return err
	}

	out := opts.Out
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path))
	}
	rustPath := out + ".rs"
	if err := os.WriteFile(rustPath, []byte(rust), 0644); err != nil {
		return err
	}

	log.Trace("rustc %s -o %s", rustPath, out)
	var diagnostics bytes.Buffer
	cmd := exec.Command("rustc", rustPath, "-o", out)
	cmd.Stdout = &diagnostics
	cmd.Stderr = &diagnostics
	if err := cmd.Run(); err != nil {
		code := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		}
		return common.ToolchainError{ExitCode: code, Diagnostics: diagnostics.String()}
	}
	if diagnostics.Len() > 0 {
		log.Trace("%s", diagnostics.String())
	}

	if !opts.EmitRust {
		if err := os.Remove(rustPath); err != nil {
			log.Err(err)
		}
	}
	return nil
}
