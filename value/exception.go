package value

import "io"

// Exception is the Grace heap object representing a thrown error value.
// The language subset implemented here never constructs one from user
// code (there is no user-level throw statement in scope per spec.md §7),
// but the type is kept as a concrete Object so that RuntimeError
// propagation and any future "thrown exception" support has a value to
// carry without widening the Object interface.
type Exception struct {
	Message string
	Kind    string
}

// NewException creates an Exception object.
func NewException(kind, message string) *Exception {
	return &Exception{Kind: kind, Message: message}
}

// TypeName implements Object.
func (e *Exception) TypeName() string { return "Exception" }

// AsBool implements Object: exceptions are always truthy.
func (e *Exception) AsBool() bool { return true }

// ToString implements Object.
func (e *Exception) ToString() string {
	if e.Kind == "" {
		return e.Message
	}
	return e.Kind + ": " + e.Message
}

// Print implements Object.
func (e *Exception) Print(w io.Writer) {
	io.WriteString(w, e.ToString())
}

// Equals implements Object: exceptions are equal iff same kind and message.
func (e *Exception) Equals(other Object) bool {
	o, ok := other.(*Exception)
	if !ok {
		return false
	}
	return e.Kind == o.Kind && e.Message == o.Message
}
