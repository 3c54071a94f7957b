package value

import "fmt"

// ErrorKind enumerates the runtime error taxonomy from spec.md §7. Both
// the value package (arithmetic/cast/comparison failures) and the vm
// package (call/control-flow failures) construct OpError values tagged
// with one of these kinds.
type ErrorKind string

const (
	AssertionFailed   ErrorKind = "AssertionFailed"
	FunctionNotFound  ErrorKind = "FunctionNotFound"
	IncorrectArgCount ErrorKind = "IncorrectArgCount"
	IndexOutOfRange   ErrorKind = "IndexOutOfRange"
	InvalidArgument   ErrorKind = "InvalidArgument"
	InvalidIterator   ErrorKind = "InvalidIterator"
	InvalidCast       ErrorKind = "InvalidCast"
	InvalidOperand    ErrorKind = "InvalidOperand"
	InvalidType       ErrorKind = "InvalidType"
	ThrownException   ErrorKind = "ThrownException"
)

// OpError is a typed runtime error produced by a value operation (binary
// op, cast, or comparison). The vm package attaches source line and
// call-stack context when it surfaces one of these to the user.
type OpError struct {
	Kind    ErrorKind
	Message string
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewOpError constructs an OpError with a formatted message.
func NewOpError(kind ErrorKind, format string, args ...any) *OpError {
	return &OpError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
