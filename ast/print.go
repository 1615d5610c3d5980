package ast

import (
	"fmt"
	"strings"
)

// Dump renders a Program as an indented S-expression tree, for the
// compiler's --dump-ast flag. The shape mirrors a Lisp-style printer:
// each node prints as (Tag field...), with child nodes indented on
// their own line.
func Dump(p *Program) string {
	var b strings.Builder
	dumpFunction(&b, p.Function, 0)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func dumpFunction(b *strings.Builder, fn *Function, depth int) {
	indent(b, depth)
	fmt.Fprintf(b, "(Function %s\n", fn.Name)
	dumpStmt(b, fn.Body, depth+1)
	b.WriteString(")\n")
}

func dumpStmt(b *strings.Builder, s Stmt, depth int) {
	indent(b, depth)
	switch n := s.(type) {
	case *Block:
		b.WriteString("(Block\n")
		for _, stmt := range n.Body {
			dumpStmt(b, stmt, depth+1)
		}
		indent(b, depth)
		b.WriteString(")\n")

	case *Return:
		b.WriteString("(Return\n")
		dumpExpr(b, n.Value, depth+1)
		indent(b, depth)
		b.WriteString(")\n")

	case *Declare:
		if n.Init == nil {
			fmt.Fprintf(b, "(Declare %s)\n", n.Name)
			return
		}
		fmt.Fprintf(b, "(Declare %s\n", n.Name)
		dumpExpr(b, n.Init, depth+1)
		indent(b, depth)
		b.WriteString(")\n")

	case *ExprStmt:
		b.WriteString("(ExprStmt\n")
		dumpExpr(b, n.Value, depth+1)
		indent(b, depth)
		b.WriteString(")\n")

	case *If:
		b.WriteString("(If\n")
		dumpExpr(b, n.Cond, depth+1)
		dumpStmt(b, n.Then, depth+1)
		if n.Else != nil {
			dumpStmt(b, n.Else, depth+1)
		}
		indent(b, depth)
		b.WriteString(")\n")

	default:
		fmt.Fprintf(b, "(UnknownStmt %T)\n", s)
	}
}

func dumpExpr(b *strings.Builder, e Expr, depth int) {
	indent(b, depth)
	switch n := e.(type) {
	case *Constant:
		fmt.Fprintf(b, "(Constant %d)\n", n.Value)

	case *Var:
		fmt.Fprintf(b, "(Var %s)\n", n.Name)

	case *UnaryOp:
		fmt.Fprintf(b, "(UnaryOp %s\n", n.Kind)
		dumpExpr(b, n.Operand, depth+1)
		indent(b, depth)
		b.WriteString(")\n")

	case *BinaryOp:
		fmt.Fprintf(b, "(BinaryOp %s\n", n.Kind)
		dumpExpr(b, n.Left, depth+1)
		dumpExpr(b, n.Right, depth+1)
		indent(b, depth)
		b.WriteString(")\n")

	case *Assign:
		fmt.Fprintf(b, "(Assign %s %s\n", n.Target, n.Kind)
		dumpExpr(b, n.Value, depth+1)
		indent(b, depth)
		b.WriteString(")\n")

	case *Postfix:
		fmt.Fprintf(b, "(Postfix %s\n", n.Kind)
		dumpExpr(b, n.Operand, depth+1)
		indent(b, depth)
		b.WriteString(")\n")

	case *Comma:
		b.WriteString("(Comma\n")
		dumpExpr(b, n.Left, depth+1)
		dumpExpr(b, n.Right, depth+1)
		indent(b, depth)
		b.WriteString(")\n")

	case *Conditional:
		b.WriteString("(Conditional\n")
		dumpExpr(b, n.Cond, depth+1)
		dumpExpr(b, n.Then, depth+1)
		dumpExpr(b, n.Else, depth+1)
		indent(b, depth)
		b.WriteString(")\n")

	default:
		fmt.Fprintf(b, "(UnknownExpr %T)\n", e)
	}
}
