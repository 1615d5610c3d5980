package codegen

import (
	"fmt"

	"github.com/skx/cc64/token"
)

// Error reports a semantic failure discovered while walking the AST:
// an undeclared variable, a redeclaration, or similar.
type Error struct {
	Pos     token.SourcePos
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

func newError(pos token.SourcePos, format string, args ...interface{}) *Error {
	return &Error{Pos: pos, Message: fmt.Sprintf(format, args...)}
}
