package parser

import (
	"fmt"

	"github.com/skx/cc64/token"
)

// Error reports a syntactic failure: the parser expected one shape of
// token and found another (or ran out of input).
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
