package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skx/cc64/lexer"
	"github.com/skx/cc64/parser"
)

func compile(t *testing.T, src string) string {
	t.Helper()
	prog, err := parser.Parse(lexer.New("<test>", src))
	require.NoError(t, err)
	asm, err := Generate(prog)
	require.NoError(t, err)
	return asm
}

func TestReturnConstant(t *testing.T) {
	asm := compile(t, "int main() { return 2; }")
	assert.Contains(t, asm, "movq $2, %rax")
	assert.Contains(t, asm, ".globl main")
	assert.Contains(t, asm, "ret")
}

func TestUndeclaredVariableIsCompileError(t *testing.T) {
	prog, err := parser.Parse(lexer.New("<test>", "int main() { return x; }"))
	require.NoError(t, err)

	_, err = Generate(prog)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
}

func TestRedeclarationInSameScopeIsCompileError(t *testing.T) {
	prog, err := parser.Parse(lexer.New("<test>", "int main() { int a = 1; int a = 2; return a; }"))
	require.NoError(t, err)

	_, err = Generate(prog)
	require.Error(t, err)
}

func TestShadowingInNestedBlockIsAllowed(t *testing.T) {
	asm := compile(t, "int main() { int a = 1; { int a = 2; } return a; }")
	assert.Contains(t, asm, "addq $8, %rsp")
}

func TestPostfixYieldsPreUpdateValue(t *testing.T) {
	asm := compile(t, "int main() { int a = 5; return a++; }")

	// The value moved into %rax for the return must be the one loaded
	// before the increment is applied to %rdi and stored back.
	lines := strings.Split(asm, "\n")
	foundLoad := false
	for i, l := range lines {
		l = strings.TrimSpace(l)
		if l == "movq %rax, %rdi" {
			foundLoad = true
			assert.True(t, strings.Contains(strings.TrimSpace(lines[i-1]), "movq"))
		}
	}
	require.True(t, foundLoad, "expected postfix codegen to copy the pre-update value before mutating")
}

func TestShortCircuitAndSkipsRightSide(t *testing.T) {
	asm := compile(t, "int main() { return 0 && 1; }")
	assert.Contains(t, asm, ".Lfalse0:")
}

func TestShortCircuitOrSkipsRightSide(t *testing.T) {
	asm := compile(t, "int main() { return 1 || 0; }")
	assert.Contains(t, asm, ".Ltrue0:")
}

func TestLabelsAreUnique(t *testing.T) {
	asm := compile(t, "int main() { if (1) return 1; if (0) return 0; return 2; }")
	assert.Equal(t, 1, strings.Count(asm, ".Lend0:"))
	assert.Equal(t, 1, strings.Count(asm, ".Lend1:"))
}

func TestDivisionUsesCqtoIdiv(t *testing.T) {
	asm := compile(t, "int main() { return 10 / 3; }")
	assert.Contains(t, asm, "cqto")
	assert.Contains(t, asm, "idivq %rdi")
}

func TestIfElseBothBranchesPresent(t *testing.T) {
	asm := compile(t, "int main() { if (1) return 1; else return 0; }")
	assert.Contains(t, asm, ".Lelse0:")
	assert.Contains(t, asm, ".Lend1:")
}

func TestDeterministicOutput(t *testing.T) {
	src := "int main() { int a = 1; int b = 2; return a + b * 3 - (a && b); }"
	first := compile(t, src)
	second := compile(t, src)
	assert.Equal(t, first, second)
}
