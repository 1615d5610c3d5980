// Package codegen walks an ast.Program and emits AT&T-syntax x86-64
// assembly. One expression is always evaluated into %rax; binary
// operators push their left operand to the stack and pop it into
// %rdi once the right operand is in %rax, the same push/pop-%rdi
// discipline the teacher's generator.go uses for its RPN stack
// machine, here driving a direct AST walk instead of a flat
// instruction tape (following dragonpy/gen.py, which this package
// extends with if/else and block-scope codegen dragonpy never
// implemented, and with the postfix inc/dec fix described below).
package codegen

import (
	"fmt"
	"strings"

	"github.com/skx/cc64/ast"
)

const sizeofIntBytes = 8

// Generator holds the state threaded through a single compilation:
// the growing output, the scope-frame stack, and the unique-label
// counter.
type Generator struct {
	out          strings.Builder
	scope        *Scope
	labelCounter int
}

// Generate compiles prog to assembly text, or reports the first
// semantic error found (an undeclared or redeclared variable).
func Generate(prog *ast.Program) (string, error) {
	g := &Generator{scope: NewScope()}
	if err := g.genFunction(prog.Function); err != nil {
		return "", err
	}
	return g.out.String(), nil
}

func (g *Generator) emit(format string, args ...interface{}) {
	g.out.WriteString("    ")
	fmt.Fprintf(&g.out, format, args...)
	g.out.WriteString("\n")
}

func (g *Generator) label(name string) {
	g.out.WriteString(name)
	g.out.WriteString(":\n")
}

// genLabel mints a unique label from template, which must contain one
// "%d" verb, mirroring the teacher's "#ID"-templated label names.
func (g *Generator) genLabel(template string) string {
	name := fmt.Sprintf(template, g.labelCounter)
	g.labelCounter++
	return name
}

func (g *Generator) genFunction(fn *ast.Function) error {
	g.emit(".globl %s", fn.Name)
	g.label(fn.Name)
	g.emit("pushq %%rbp")
	g.emit("movq %%rsp, %%rbp")

	for _, stmt := range fn.Body.Body {
		if err := g.genStmt(stmt); err != nil {
			return err
		}
	}

	// A function falling off its last statement without a return
	// yields 0, matching the teacher's implicit-return convention.
	g.emit("movq $0, %%rax")
	g.emit("movq %%rbp, %%rsp")
	g.emit("popq %%rbp")
	g.emit("ret")
	return nil
}

func (g *Generator) genStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Return:
		return g.genReturn(n)
	case *ast.Declare:
		return g.genDeclare(n)
	case *ast.ExprStmt:
		return g.genExpr(n.Value)
	case *ast.If:
		return g.genIf(n)
	case *ast.Block:
		return g.genBlock(n)
	default:
		return fmt.Errorf("codegen: unhandled statement type %T", s)
	}
}

func (g *Generator) genReturn(n *ast.Return) error {
	if err := g.genExpr(n.Value); err != nil {
		return err
	}
	g.emit("movq %%rbp, %%rsp")
	g.emit("popq %%rbp")
	g.emit("ret")
	return nil
}

func (g *Generator) genDeclare(n *ast.Declare) error {
	if n.Init != nil {
		if err := g.genExpr(n.Init); err != nil {
			return err
		}
	} else {
		g.emit("movq $0, %%rax")
	}
	g.emit("pushq %%rax")

	if _, ok := g.scope.Declare(n.Name); !ok {
		return newError(n.Pos, "variable %q already declared in this scope", n.Name)
	}
	return nil
}

func (g *Generator) genIf(n *ast.If) error {
	if err := g.genExpr(n.Cond); err != nil {
		return err
	}
	g.emit("cmpq $0, %%rax")

	if n.Else == nil {
		end := g.genLabel(".Lend%d")
		g.emit("je %s", end)
		if err := g.genStmt(n.Then); err != nil {
			return err
		}
		g.label(end)
		return nil
	}

	elseLabel := g.genLabel(".Lelse%d")
	end := g.genLabel(".Lend%d")
	g.emit("je %s", elseLabel)
	if err := g.genStmt(n.Then); err != nil {
		return err
	}
	g.emit("jmp %s", end)
	g.label(elseLabel)
	if err := g.genStmt(n.Else); err != nil {
		return err
	}
	g.label(end)
	return nil
}

func (g *Generator) genBlock(n *ast.Block) error {
	g.scope.Push()
	for _, stmt := range n.Body {
		if err := g.genStmt(stmt); err != nil {
			return err
		}
	}
	if declared := g.scope.Pop(); declared > 0 {
		g.emit("addq $%d, %%rsp", declared*sizeofIntBytes)
	}
	return nil
}

func (g *Generator) genExpr(e ast.Expr) error {
	switch n := e.(type) {
	case *ast.Constant:
		g.emit("movq $%d, %%rax", n.Value)
		return nil
	case *ast.Var:
		return g.genVar(n)
	case *ast.UnaryOp:
		return g.genUnaryOp(n)
	case *ast.BinaryOp:
		return g.genBinaryOp(n)
	case *ast.Assign:
		return g.genAssign(n)
	case *ast.Postfix:
		return g.genPostfix(n)
	case *ast.Comma:
		return g.genComma(n)
	case *ast.Conditional:
		return g.genConditional(n)
	default:
		return fmt.Errorf("codegen: unhandled expression type %T", e)
	}
}

func (g *Generator) genVar(n *ast.Var) error {
	offset, ok := g.scope.Lookup(n.Name)
	if !ok {
		return newError(n.Pos, "variable %q not declared", n.Name)
	}
	g.emit("movq %d(%%rbp), %%rax", offset)
	return nil
}

func (g *Generator) genUnaryOp(n *ast.UnaryOp) error {
	if n.Kind == ast.PreIncrement || n.Kind == ast.PreDecrement {
		return g.genPreIncDec(n)
	}

	if err := g.genExpr(n.Operand); err != nil {
		return err
	}
	switch n.Kind {
	case ast.Negation:
		g.emit("neg %%rax")
	case ast.BitwiseComplement:
		g.emit("not %%rax")
	case ast.LogicalNegation:
		g.emit("cmpq $0, %%rax")
		g.emit("sete %%al")
		g.emit("movzbq %%al, %%rax")
	}
	return nil
}

// genPreIncDec generates ++x/--x: the variable is updated first and
// the expression's value is the result of that update.
func (g *Generator) genPreIncDec(n *ast.UnaryOp) error {
	v := n.Operand.(*ast.Var)
	offset, ok := g.scope.Lookup(v.Name)
	if !ok {
		return newError(v.Pos, "variable %q not declared", v.Name)
	}
	g.emit("movq %d(%%rbp), %%rax", offset)
	if n.Kind == ast.PreIncrement {
		g.emit("addq $1, %%rax")
	} else {
		g.emit("subq $1, %%rax")
	}
	g.emit("movq %%rax, %d(%%rbp)", offset)
	return nil
}

// genPostfix generates x++/x--: the update happens, but the
// expression's value is the operand's value from BEFORE the update.
// A reference implementation this package is descended from emits the
// post-update value here by mistake; this is corrected by holding the
// pre-update value in %rax across the store to memory.
func (g *Generator) genPostfix(n *ast.Postfix) error {
	v := n.Operand.(*ast.Var)
	offset, ok := g.scope.Lookup(v.Name)
	if !ok {
		return newError(v.Pos, "variable %q not declared", v.Name)
	}
	g.emit("movq %d(%%rbp), %%rax", offset)
	g.emit("movq %%rax, %%rdi")
	if n.Kind == ast.Increment {
		g.emit("addq $1, %%rdi")
	} else {
		g.emit("subq $1, %%rdi")
	}
	g.emit("movq %%rdi, %d(%%rbp)", offset)
	return nil
}

func (g *Generator) genComma(n *ast.Comma) error {
	if err := g.genExpr(n.Left); err != nil {
		return err
	}
	return g.genExpr(n.Right)
}

func (g *Generator) genConditional(n *ast.Conditional) error {
	if err := g.genExpr(n.Cond); err != nil {
		return err
	}
	g.emit("cmpq $0, %%rax")
	elseLabel := g.genLabel(".Lelse%d")
	end := g.genLabel(".Lend%d")
	g.emit("je %s", elseLabel)
	if err := g.genExpr(n.Then); err != nil {
		return err
	}
	g.emit("jmp %s", end)
	g.label(elseLabel)
	if err := g.genExpr(n.Else); err != nil {
		return err
	}
	g.label(end)
	return nil
}

func (g *Generator) genBinaryOp(n *ast.BinaryOp) error {
	switch n.Kind {
	case ast.LAnd:
		return g.genLogicalAnd(n)
	case ast.LOr:
		return g.genLogicalOr(n)
	}

	if err := g.genExpr(n.Left); err != nil {
		return err
	}
	g.emit("pushq %%rax")
	if err := g.genExpr(n.Right); err != nil {
		return err
	}
	g.emit("popq %%rdi")

	switch n.Kind {
	case ast.Add:
		g.emit("addq %%rdi, %%rax")
	case ast.Sub:
		g.emit("subq %%rax, %%rdi")
		g.emit("movq %%rdi, %%rax")
	case ast.Mul:
		g.emit("imulq %%rdi, %%rax")
	case ast.Div:
		g.emit("xchg %%rax, %%rdi")
		g.emit("cqto")
		g.emit("idivq %%rdi")
	case ast.Mod:
		g.emit("xchg %%rax, %%rdi")
		g.emit("cqto")
		g.emit("idivq %%rdi")
		g.emit("movq %%rdx, %%rax")
	case ast.Eq:
		g.emit("cmpq %%rax, %%rdi")
		g.emit("sete %%al")
		g.emit("movzbq %%al, %%rax")
	case ast.NE:
		g.emit("cmpq %%rax, %%rdi")
		g.emit("setne %%al")
		g.emit("movzbq %%al, %%rax")
	case ast.LT:
		g.emit("cmpq %%rax, %%rdi")
		g.emit("setl %%al")
		g.emit("movzbq %%al, %%rax")
	case ast.LE:
		g.emit("cmpq %%rax, %%rdi")
		g.emit("setle %%al")
		g.emit("movzbq %%al, %%rax")
	case ast.GT:
		g.emit("cmpq %%rax, %%rdi")
		g.emit("setg %%al")
		g.emit("movzbq %%al, %%rax")
	case ast.GE:
		g.emit("cmpq %%rax, %%rdi")
		g.emit("setge %%al")
		g.emit("movzbq %%al, %%rax")
	case ast.BAnd:
		g.emit("andq %%rdi, %%rax")
	case ast.BOr:
		g.emit("orq %%rdi, %%rax")
	case ast.BXor:
		g.emit("xorq %%rdi, %%rax")
	case ast.Shl:
		g.emit("movq %%rax, %%rcx")
		g.emit("movq %%rdi, %%rax")
		g.emit("salq %%cl, %%rax")
	case ast.Shr:
		g.emit("movq %%rax, %%rcx")
		g.emit("movq %%rdi, %%rax")
		g.emit("sarq %%cl, %%rax")
	}
	return nil
}

// genLogicalAnd short-circuits: if the left side is false, the right
// side is never evaluated and no push/pop of the left value is
// needed at all.
func (g *Generator) genLogicalAnd(n *ast.BinaryOp) error {
	if err := g.genExpr(n.Left); err != nil {
		return err
	}
	g.emit("cmpq $0, %%rax")
	falseLabel := g.genLabel(".Lfalse%d")
	g.emit("je %s", falseLabel)
	if err := g.genExpr(n.Right); err != nil {
		return err
	}
	g.emit("cmpq $0, %%rax")
	g.emit("setne %%al")
	g.emit("movzbq %%al, %%rax")
	g.label(falseLabel)
	return nil
}

func (g *Generator) genLogicalOr(n *ast.BinaryOp) error {
	if err := g.genExpr(n.Left); err != nil {
		return err
	}
	g.emit("cmpq $0, %%rax")
	trueLabel := g.genLabel(".Ltrue%d")
	g.emit("jne %s", trueLabel)
	if err := g.genExpr(n.Right); err != nil {
		return err
	}
	g.label(trueLabel)
	g.emit("cmpq $0, %%rax")
	g.emit("setne %%al")
	g.emit("movzbq %%al, %%rax")
	return nil
}

func (g *Generator) genAssign(n *ast.Assign) error {
	if err := g.genExpr(n.Value); err != nil {
		return err
	}
	offset, ok := g.scope.Lookup(n.Target)
	if !ok {
		return newError(n.Pos, "variable %q not declared", n.Target)
	}

	if n.Kind == ast.Simple {
		g.emit("movq %%rax, %d(%%rbp)", offset)
		return nil
	}

	g.emit("movq %d(%%rbp), %%rdi", offset)
	switch n.Kind {
	case ast.AssignAdd:
		g.emit("addq %%rax, %%rdi")
		g.emit("movq %%rdi, %d(%%rbp)", offset)
	case ast.AssignSub:
		g.emit("subq %%rax, %%rdi")
		g.emit("movq %%rdi, %d(%%rbp)", offset)
	case ast.AssignMul:
		g.emit("imulq %%rax, %%rdi")
		g.emit("movq %%rdi, %d(%%rbp)", offset)
	case ast.AssignDiv:
		g.emit("xchg %%rax, %%rdi")
		g.emit("cqto")
		g.emit("idivq %%rdi")
		g.emit("movq %%rax, %d(%%rbp)", offset)
	case ast.AssignMod:
		g.emit("xchg %%rax, %%rdi")
		g.emit("cqto")
		g.emit("idivq %%rdi")
		g.emit("movq %%rdx, %d(%%rbp)", offset)
	case ast.AssignBAnd:
		g.emit("andq %%rax, %%rdi")
		g.emit("movq %%rdi, %d(%%rbp)", offset)
	case ast.AssignBOr:
		g.emit("orq %%rax, %%rdi")
		g.emit("movq %%rdi, %d(%%rbp)", offset)
	case ast.AssignBXor:
		g.emit("xorq %%rax, %%rdi")
		g.emit("movq %%rdi, %d(%%rbp)", offset)
	case ast.AssignShl:
		g.emit("movq %%rax, %%rcx")
		g.emit("salq %%cl, %%rdi")
		g.emit("movq %%rdi, %d(%%rbp)", offset)
	case ast.AssignShr:
		g.emit("movq %%rax, %%rcx")
		g.emit("sarq %%cl, %%rdi")
		g.emit("movq %%rdi, %d(%%rbp)", offset)
	}
	// The expression's value is the variable's updated value.
	g.emit("movq %d(%%rbp), %%rax", offset)
	return nil
}
