package types

import "fmt"

// ErrorCode identifies an engine error. The values follow the W3C XPath
// error code conventions (XPST static errors, XPDY/XPTY dynamic and type
// errors, FO* function/operator errors). Lexical errors carry a suffixed
// variant of XPST0003 so callers can distinguish them from grammar errors.
type ErrorCode string

const (
	// Static (lexical and grammar) errors
	ErrSyntax            ErrorCode = "XPST0003"
	ErrStringNotClosed   ErrorCode = "XPST0003-STRING"
	ErrCommentNotClosed  ErrorCode = "XPST0003-COMMENT"
	ErrInvalidNumber     ErrorCode = "XPST0003-NUMBER"
	ErrInvalidCharacter  ErrorCode = "XPST0003-CHAR"
	ErrUndefinedVariable ErrorCode = "XPST0008"
	ErrUnknownFunction   ErrorCode = "XPST0017"
	ErrUndefinedPrefix   ErrorCode = "XPST0081"

	// Dynamic and type errors
	ErrContextItemAbsent ErrorCode = "XPDY0002"
	ErrTypeMismatch      ErrorCode = "XPTY0004"
	ErrMixedPathResult   ErrorCode = "XPTY0018"

	// Function and operator errors
	ErrDivisionByZero     ErrorCode = "FOAR0001"
	ErrArithmeticOverflow ErrorCode = "FOAR0002"
	ErrInvalidCast        ErrorCode = "FORG0001"
	ErrInvalidArgument    ErrorCode = "FORG0006"
	ErrNumberOverflow     ErrorCode = "FOCA0002"
)

// Error is a structured engine error. Position is the byte offset of the
// offending token in the query string for parse-time errors, or -1 for
// evaluation-time errors.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new engine error.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds the offending token text to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}
