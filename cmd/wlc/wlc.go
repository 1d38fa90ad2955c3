package main

import (
	"flag"
	"fmt"
	"os"

	"wlang-compiler/internal/pkg/logger"
	"wlang-compiler/internal/pkg/processors"
)

func main() {
	out := flag.String("out", "", "output binary path (default: source file name without extension)")
	emitRust := flag.Bool("emit-rust", false, "keep the generated Rust source next to the binary")
	rustOnly := flag.Bool("rust-only", false, "print the generated Rust source to stdout and skip rustc")
	verbose := flag.Bool("verbose", false, "trace compilation stages")
	showVersion := flag.Bool("version", false, "show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("wlc version: %s\n", processors.Version)
		return
	}

	log := &logger.LogWriter{Verbose: *verbose}

	if len(flag.Args()) != 1 {
		fmt.Fprintln(os.Stderr, "no input file, run compiler as `wlc <path-to-source>`")
		os.Exit(2)
	}
	path := flag.Arg(0)

	if *rustOnly {
		rust, err := processors.CompileFile(path, log)
		if log.Err(err) {
			log.Report()
			os.Exit(1)
		}
		fmt.Print(rust)
		return
	}

	err := processors.Build(path, processors.BuildOptions{Out: *out, EmitRust: *emitRust}, log)
	if log.Err(err) {
		log.Report()
		os.Exit(1)
	}
}
