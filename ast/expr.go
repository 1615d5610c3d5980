// Package ast defines the syntax tree the parser builds and the code
// generator walks: two sum types, Expr and Stmt, modeled as Go
// interfaces with one concrete type per variant, dispatched by type
// switch rather than an inheritance hierarchy. Nodes are immutable
// once constructed.
package ast

import "github.com/skx/cc64/token"

// Expr is implemented by every expression node.
type Expr interface {
	exprNode()
}

// Constant is an integer literal. The lexer parses the decimal text
// as an unsigned 64-bit value (saturating at the maximum on overflow)
// and the parser converts it to int64 without a range check; the
// generator emits Value as a movq immediate.
type Constant struct {
	Value int64
	Pos   token.SourcePos
}

// Var references a previously declared local variable by name.
type Var struct {
	Name string
	Pos  token.SourcePos
}

// UnaryOpKind enumerates the supported prefix operators.
type UnaryOpKind int

const (
	Negation UnaryOpKind = iota
	BitwiseComplement
	LogicalNegation
	PreIncrement
	PreDecrement
)

func (k UnaryOpKind) String() string {
	switch k {
	case Negation:
		return "-"
	case BitwiseComplement:
		return "~"
	case LogicalNegation:
		return "!"
	case PreIncrement:
		return "++"
	case PreDecrement:
		return "--"
	default:
		return "?"
	}
}

// UnaryOpKindFromToken maps a lexed operator token onto its
// UnaryOpKind, or reports ok=false if tok is not a unary operator.
// A switch over the operator tokens, preferred here over a dynamic
// dictionary.
func UnaryOpKindFromToken(tok token.Token) (UnaryOpKind, bool) {
	switch tok.Type {
	case token.Minus:
		return Negation, true
	case token.Tilde:
		return BitwiseComplement, true
	case token.Bang:
		return LogicalNegation, true
	case token.PlusPlus:
		return PreIncrement, true
	case token.MinusMinus:
		return PreDecrement, true
	default:
		return 0, false
	}
}

// UnaryOp applies a prefix operator to Operand. PreIncrement and
// PreDecrement additionally require Operand to be an lvalue (a Var);
// the parser rejects any other operand, so the generator can assume it.
type UnaryOp struct {
	Kind    UnaryOpKind
	Operand Expr
}

// BinaryOpKind enumerates the two-operand operators, excluding
// assignment (see AssignKind).
type BinaryOpKind int

const (
	Add BinaryOpKind = iota
	Sub
	Mul
	Div
	Mod
	LT
	LE
	GT
	GE
	Eq
	NE
	LAnd
	LOr
	BAnd
	BOr
	BXor
	Shl
	Shr
)

func (k BinaryOpKind) String() string {
	switch k {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	case LT:
		return "<"
	case LE:
		return "<="
	case GT:
		return ">"
	case GE:
		return ">="
	case Eq:
		return "=="
	case NE:
		return "!="
	case LAnd:
		return "&&"
	case LOr:
		return "||"
	case BAnd:
		return "&"
	case BOr:
		return "|"
	case BXor:
		return "^"
	case Shl:
		return "<<"
	case Shr:
		return ">>"
	default:
		return "?"
	}
}

// BinaryOpKindFromToken maps a lexed operator token onto its
// BinaryOpKind, or reports ok=false if tok is not a binary operator.
func BinaryOpKindFromToken(tok token.Token) (BinaryOpKind, bool) {
	switch tok.Type {
	case token.Plus:
		return Add, true
	case token.Minus:
		return Sub, true
	case token.Star:
		return Mul, true
	case token.Slash:
		return Div, true
	case token.Percent:
		return Mod, true
	case token.Less:
		return LT, true
	case token.LessEqual:
		return LE, true
	case token.Greater:
		return GT, true
	case token.GreaterEqual:
		return GE, true
	case token.EqualEqual:
		return Eq, true
	case token.BangEqual:
		return NE, true
	case token.AmpAmp:
		return LAnd, true
	case token.PipePipe:
		return LOr, true
	case token.Amp:
		return BAnd, true
	case token.Pipe:
		return BOr, true
	case token.Caret:
		return BXor, true
	case token.LessLess:
		return Shl, true
	case token.GreaterGreater:
		return Shr, true
	default:
		return 0, false
	}
}

// BinaryOp applies a two-operand operator to Left and Right.
type BinaryOp struct {
	Kind  BinaryOpKind
	Left  Expr
	Right Expr
}

// AssignKind enumerates simple and compound assignment operators.
type AssignKind int

const (
	Simple AssignKind = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
	AssignShl
	AssignShr
	AssignBAnd
	AssignBOr
	AssignBXor
)

func (k AssignKind) String() string {
	switch k {
	case Simple:
		return "="
	case AssignAdd:
		return "+="
	case AssignSub:
		return "-="
	case AssignMul:
		return "*="
	case AssignDiv:
		return "/="
	case AssignMod:
		return "%="
	case AssignShl:
		return "<<="
	case AssignShr:
		return ">>="
	case AssignBAnd:
		return "&="
	case AssignBOr:
		return "|="
	case AssignBXor:
		return "^="
	default:
		return "?"
	}
}

// AssignKindFromToken maps a lexed assignment-operator token onto its
// AssignKind, or reports ok=false if tok is not one.
func AssignKindFromToken(tok token.Token) (AssignKind, bool) {
	switch tok.Type {
	case token.Equal:
		return Simple, true
	case token.PlusEqual:
		return AssignAdd, true
	case token.MinusEqual:
		return AssignSub, true
	case token.StarEqual:
		return AssignMul, true
	case token.SlashEqual:
		return AssignDiv, true
	case token.PercentEqual:
		return AssignMod, true
	case token.LessLessEqual:
		return AssignShl, true
	case token.GreaterGreaterEqual:
		return AssignShr, true
	case token.AmpEqual:
		return AssignBAnd, true
	case token.PipeEqual:
		return AssignBOr, true
	case token.CaretEqual:
		return AssignBXor, true
	default:
		return 0, false
	}
}

// Assign stores Value into the variable named Target. The parser only
// ever builds this from a reduced Var on the left-hand side (the
// lvalue rule); Target and Pos are carried as plain fields rather than
// wrapping a Var so the generator need not re-check the node kind.
type Assign struct {
	Target string
	Kind   AssignKind
	Value  Expr
	Pos    token.SourcePos
}

// PostfixKind enumerates the postfix operators.
type PostfixKind int

const (
	Increment PostfixKind = iota
	Decrement
)

func (k PostfixKind) String() string {
	if k == Increment {
		return "++"
	}
	return "--"
}

// PostfixKindFromToken maps a lexed operator token onto its
// PostfixKind, or reports ok=false if tok is not one.
func PostfixKindFromToken(tok token.Token) (PostfixKind, bool) {
	switch tok.Type {
	case token.PlusPlus:
		return Increment, true
	case token.MinusMinus:
		return Decrement, true
	default:
		return 0, false
	}
}

// Postfix applies a postfix operator to Operand, which must be an
// lvalue (a Var). The expression value is the operand's value before
// the update.
type Postfix struct {
	Operand Expr
	Kind    PostfixKind
	Pos     token.SourcePos
}

// Comma evaluates Left (discarding its result) then Right, yielding
// Right's value.
type Comma struct {
	Left  Expr
	Right Expr
}

// Conditional is the ternary a ? b : c.
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (*Constant) exprNode()    {}
func (*Var) exprNode()         {}
func (*UnaryOp) exprNode()     {}
func (*BinaryOp) exprNode()    {}
func (*Assign) exprNode()      {}
func (*Postfix) exprNode()     {}
func (*Comma) exprNode()       {}
func (*Conditional) exprNode() {}
