package ast

import (
	"strings"
	"testing"

	"github.com/skx/cc64/token"
)

func TestDumpSimpleReturn(t *testing.T) {
	prog := &Program{
		Function: &Function{
			Name: "main",
			Body: &Block{
				Body: []Stmt{
					&Return{Value: &Constant{Value: 42}},
				},
			},
		},
	}

	out := Dump(prog)

	for _, want := range []string{"(Function main", "(Block", "(Return", "(Constant 42)"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q, got:\n%s", want, out)
		}
	}
}

func TestKindFromTokenRoundtrip(t *testing.T) {
	if k, ok := BinaryOpKindFromToken(token.Token{Type: token.Plus}); !ok || k != Add {
		t.Fatalf("expected Add, got %v ok=%v", k, ok)
	}
	if k, ok := AssignKindFromToken(token.Token{Type: token.Equal}); !ok || k != Simple {
		t.Fatalf("expected Simple, got %v ok=%v", k, ok)
	}
	if k, ok := PostfixKindFromToken(token.Token{Type: token.PlusPlus}); !ok || k != Increment {
		t.Fatalf("expected Increment, got %v ok=%v", k, ok)
	}
	if _, ok := BinaryOpKindFromToken(token.Token{Type: token.Equal}); ok {
		t.Fatalf("Equal should not map to a BinaryOpKind")
	}
}
