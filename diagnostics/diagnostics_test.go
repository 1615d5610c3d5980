package diagnostics

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestErrorIncludesMessage(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	w := New(&buf)
	w.Error(errors.New("main.c:3:7: unexpected token ;"))

	got := buf.String()
	if !strings.Contains(got, "error: ") {
		t.Errorf("expected an \"error: \" prefix, got %q", got)
	}
	if !strings.Contains(got, "main.c:3:7") {
		t.Errorf("expected the position to be preserved, got %q", got)
	}
}

func TestErrorf(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	w := New(&buf)
	w.Errorf("cannot run assembler: %s", "not found")

	got := buf.String()
	if !strings.Contains(got, "cannot run assembler: not found") {
		t.Errorf("got %q", got)
	}
}
