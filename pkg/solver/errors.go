package solver

import "fmt"

// ParseError reports a syntax or type error in model text.
// Line and Column are 1-based and zero when unknown.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d column %d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}
