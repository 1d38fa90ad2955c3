package logger

import (
	"fmt"
	"io"
	"os"
)

// LogWriter collects stage errors and traces progress. One instance is
// threaded from the CLI through the whole pipeline.
type LogWriter struct {
	Verbose bool
	Out     io.Writer
	errors  []error
}

func (l *LogWriter) out() io.Writer {
	if l.Out == nil {
		return os.Stderr
	}
	return l.Out
}

// Err records the given errors (nils are skipped) and reports whether any
// error has been recorded so far.
func (l *LogWriter) Err(errs ...error) bool {
	for _, e := range errs {
		if e != nil {
			l.errors = append(l.errors, e)
		}
	}
	return len(l.errors) > 0
}

func (l *LogWriter) HasErrors() bool {
	return len(l.errors) > 0
}

func (l *LogWriter) Errors() []error {
	return l.errors
}

func (l *LogWriter) Trace(format string, args ...any) {
	if l.Verbose {
		_, _ = fmt.Fprintf(l.out(), format+"\n", args...)
	}
}

func (l *LogWriter) Report() {
	for _, e := range l.errors {
		_, _ = fmt.Fprintln(l.out(), e.Error())
	}
}
