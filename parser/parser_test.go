package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skx/cc64/ast"
	"github.com/skx/cc64/lexer"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := Parse(lexer.New("<test>", src))
	require.NoError(t, err)
	require.NotNil(t, prog)
	return prog
}

func TestParseMinimalFunction(t *testing.T) {
	prog := parse(t, "int main() { return 2; }")

	require.Equal(t, "main", prog.Function.Name)
	require.Len(t, prog.Function.Body.Body, 1)

	ret, ok := prog.Function.Body.Body[0].(*ast.Return)
	require.True(t, ok)

	c, ok := ret.Value.(*ast.Constant)
	require.True(t, ok)
	assert.EqualValues(t, 2, c.Value)
}

func TestParseDeclareWithInitializer(t *testing.T) {
	prog := parse(t, "int main() { int x = 5; return x; }")

	decl, ok := prog.Function.Body.Body[0].(*ast.Declare)
	require.True(t, ok)
	assert.Equal(t, "x", decl.Name)
	require.NotNil(t, decl.Init)
	assert.EqualValues(t, 5, decl.Init.(*ast.Constant).Value)
}

func TestOperatorPrecedence(t *testing.T) {
	prog := parse(t, "int main() { return 1 + 2 * 3; }")

	ret := prog.Function.Body.Body[0].(*ast.Return)
	add, ok := ret.Value.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.Add, add.Kind)

	mul, ok := add.Right.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.Mul, mul.Kind)
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	prog := parse(t, "int main() { int a = 0; int b = 0; a = b = 3; return a; }")

	stmt := prog.Function.Body.Body[2].(*ast.ExprStmt)
	outer, ok := stmt.Value.(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "a", outer.Target)

	inner, ok := outer.Value.(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "b", inner.Target)
}

func TestConditionalExpression(t *testing.T) {
	prog := parse(t, "int main() { return 1 ? 2 : 3; }")

	ret := prog.Function.Body.Body[0].(*ast.Return)
	cond, ok := ret.Value.(*ast.Conditional)
	require.True(t, ok)
	assert.EqualValues(t, 2, cond.Then.(*ast.Constant).Value)
	assert.EqualValues(t, 3, cond.Else.(*ast.Constant).Value)
}

func TestCommaOperator(t *testing.T) {
	prog := parse(t, "int main() { int a = 0; return (a = 1, a = 2); }")

	ret := prog.Function.Body.Body[1].(*ast.Return)
	comma, ok := ret.Value.(*ast.Comma)
	require.True(t, ok)
	assert.Equal(t, "a", comma.Left.(*ast.Assign).Target)
	assert.Equal(t, "a", comma.Right.(*ast.Assign).Target)
}

func TestPostfixAndPrefix(t *testing.T) {
	prog := parse(t, "int main() { int a = 0; a++; ++a; return a; }")

	post := prog.Function.Body.Body[1].(*ast.ExprStmt).Value.(*ast.Postfix)
	assert.Equal(t, ast.Increment, post.Kind)

	pre := prog.Function.Body.Body[2].(*ast.ExprStmt).Value.(*ast.UnaryOp)
	assert.Equal(t, ast.PreIncrement, pre.Kind)
}

func TestIfElse(t *testing.T) {
	prog := parse(t, "int main() { if (1) return 1; else return 0; }")

	ifStmt, ok := prog.Function.Body.Body[0].(*ast.If)
	require.True(t, ok)
	require.NotNil(t, ifStmt.Then)
	require.NotNil(t, ifStmt.Else)
}

func TestNestedBlockScoping(t *testing.T) {
	prog := parse(t, "int main() { int a = 1; { int a = 2; } return a; }")

	block, ok := prog.Function.Body.Body[1].(*ast.Block)
	require.True(t, ok)
	require.Len(t, block.Body, 1)
}

func TestPostfixRequiresLvalue(t *testing.T) {
	_, err := Parse(lexer.New("<test>", "int main() { return 1++; }"))
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
}

func TestAssignRequiresLvalue(t *testing.T) {
	_, err := Parse(lexer.New("<test>", "int main() { 1 = 2; return 0; }"))
	require.Error(t, err)
}

func TestUnexpectedTokenIsParseError(t *testing.T) {
	_, err := Parse(lexer.New("<test>", "int main() { return ; }"))
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
}

func TestTrailingTokensRejected(t *testing.T) {
	_, err := Parse(lexer.New("<test>", "int main() { return 0; } garbage"))
	require.Error(t, err)
}

// Parsing the same source twice must yield structurally identical
// trees: the parser carries no hidden state across runs (label
// counters and similar live in codegen, not here). go-cmp gives a
// readable field-by-field diff on failure, which testify's
// ObjectsAreEqual (reflect.DeepEqual-based) does not.
func TestParseIsDeterministic(t *testing.T) {
	src := "int main() { int a = 1; if (a < 2) { a = a + 1; } return a ? a-- : 0; }"
	first := parse(t, src)
	second := parse(t, src)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated parse of identical source differs (-first +second):\n%s", diff)
	}
}
