package expressions

import "strconv"

// InputError is an error with position information. Every error resulting from
// invalid formula syntax implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based column of the rune that starts the offending
	// token.
	Pos() int
}

// at prefixes msg with a column.
func at(col int, msg string) string {
	return "column " + strconv.Itoa(col) + ": " + msg
}

// OperatorError is a binary operator where a term should start, as in
// "2*/3" or "^x".
type OperatorError struct {
	Col      int
	Operator string
}

func (err *OperatorError) Error() string {
	return at(err.Col, "operator "+strconv.Quote(err.Operator)+" needs a left operand")
}

func (err *OperatorError) Pos() int { return err.Col }

// BracketError is an unbalanced bracket. Open is true for a "(" that is never
// closed and false for a ")" with nothing to close.
type BracketError struct {
	Col  int
	Open bool
}

func (err *BracketError) Error() string {
	if err.Open {
		return at(err.Col, "unclosed bracket")
	}
	return at(err.Col, "unmatched closing bracket")
}

func (err *BracketError) Pos() int { return err.Col }

// SeparatorError is a comma outside of a function's argument list.
type SeparatorError struct {
	Col int
}

func (err *SeparatorError) Error() string {
	return at(err.Col, "comma outside of function arguments")
}

func (err *SeparatorError) Pos() int { return err.Col }

// CallError is a call to a function with the wrong number of arguments.
type CallError struct {
	// Col is the position of the opening bracket of the argument list.
	Col  int
	Func string
	// Len is the number of arguments in the call.
	Len int
}

func (err *CallError) Error() string {
	return at(err.Col, "cannot call "+err.Func+" with "+strconv.Itoa(err.Len)+" arguments")
}

func (err *CallError) Pos() int { return err.Col }

// EmptyExpressionError is a missing term: an empty formula, a trailing
// operator, or empty brackets.
type EmptyExpressionError struct {
	// Col is the position of the token where a term should have started.
	Col int
	// End is that token, or empty at the end of the formula.
	End string
}

func (err *EmptyExpressionError) Error() string {
	switch {
	case err.End != "":
		return at(err.Col, "expected a term before "+strconv.Quote(err.End))
	case err.Col <= 1:
		return at(err.Col, "no expression")
	default:
		return at(err.Col, "expected a term at end of formula")
	}
}

func (err *EmptyExpressionError) Pos() int { return err.Col }

// AdjacentTermError is two terms with no operator between them, e.g. "2 x",
// "x(y)" or "sin x". Multiplication is always written explicitly.
type AdjacentTermError struct {
	// Col is the position of the second term.
	Col int
	// Term is the first token of the second term.
	Term string
}

func (err *AdjacentTermError) Error() string {
	return at(err.Col, "missing operator before "+strconv.Quote(err.Term))
}

func (err *AdjacentTermError) Pos() int { return err.Col }

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*AdjacentTermError)(nil)
	_ InputError = (*LexError)(nil)
)
