package token

import "testing"

// Test looking up keywords succeeds, and that arbitrary identifiers fall
// back to Identifier.
func TestLookup(t *testing.T) {
	for key, want := range keywords {
		if got := LookupIdentifier(key); got != want {
			t.Errorf("lookup of %q: got %s, want %s", key, got, want)
		}
	}

	if got := LookupIdentifier("not_a_keyword"); got != Identifier {
		t.Errorf("lookup of non-keyword: got %s, want Identifier", got)
	}
}

func TestSourcePosString(t *testing.T) {
	p := SourcePos{Filename: "main.c", Line: 3, Col: 7}
	if got, want := p.String(), "main.c:3:7"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
