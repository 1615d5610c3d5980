// Package diagnostics formats and prints compiler errors to a
// terminal, colorizing the "error:" prefix the way command-line
// compilers conventionally do. Color is automatically suppressed when
// stdout is not a TTY or NO_COLOR is set, via fatih/color's own
// detection (the same library the rest of this module's CLI tooling
// was chosen to pull in); the stream written to is not consulted.
package diagnostics

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Writer prints diagnostics to an underlying stream.
type Writer struct {
	out io.Writer
	red *color.Color
}

// New wraps out for diagnostic output.
func New(out io.Writer) *Writer {
	return &Writer{out: out, red: color.New(color.FgRed, color.Bold)}
}

// Error prints a single "error: <position>: <message>" line.
//
// err is typically one of *lexer.Error, *parser.Error, or
// *codegen.Error: all three satisfy the standard error interface and
// already format their own "file:line:col: message" text.
func (w *Writer) Error(err error) {
	w.red.Fprint(w.out, "error: ")
	fmt.Fprintln(w.out, err.Error())
}

// Report is Error under the name the driver's CLI package uses: it
// formats and prints whichever of lexer.Error/parser.Error/codegen.Error
// (or any other error) comes back out of the pipeline.
func (w *Writer) Report(err error) {
	w.Error(err)
}

// Errorf prints a freeform diagnostic with no associated source
// position, for failures outside the compiler pipeline itself (I/O,
// the external assembler/linker).
func (w *Writer) Errorf(format string, args ...interface{}) {
	w.red.Fprint(w.out, "error: ")
	fmt.Fprintf(w.out, format+"\n", args...)
}
