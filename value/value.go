// Package value implements the Grace dynamic value representation: a
// small tagged union covering the language's primitive types, plus a
// capability-based Object interface for heap-allocated reference types
// (list, exception, and any future container).
package value

import (
	"fmt"
	"io"
)

// Kind tags which variant of Value is populated.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindChar
	KindString
	KindObject
)

// String returns the Grace type name for k (e.g. "Int"), matching what
// TypeName() and error messages use.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindChar:
		return "Char"
	case KindString:
		return "String"
	case KindObject:
		return "Object"
	default:
		return "Unknown"
	}
}

// Object is the capability set any heap-allocated Grace value must
// implement. Concrete instances in this implementation are *List and
// *Exception, but the interface is intentionally left open for future
// heap object kinds (dictionaries, key-value pairs, classes) per
// spec.md's design note on dynamic dispatch via a capability set rather
// than an inheritance hierarchy.
type Object interface {
	// Print writes the object's display form to w (used by Print/PrintLn).
	Print(w io.Writer)

	// ToString returns the object's textual representation, used by the
	// "as String" cast.
	ToString() string

	// AsBool returns the object's truthiness.
	AsBool() bool

	// TypeName returns the Grace type name, e.g. "List".
	TypeName() string

	// Equals reports whether other is the same kind of object with equal
	// contents. Cross-kind comparisons are always false, never an error.
	Equals(other Object) bool
}

// Value is a Grace dynamic value: a small tagged union with an inline
// payload for primitive kinds, and a shared Object reference for heap
// kinds. Values are cheap to copy; Object instances are shared by
// reference (see List's refcount field) rather than deep-copied.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	c    rune
	s    string
	obj  Object
}

// Null is the singleton null value.
var Null = Value{kind: KindNull}

// Bool constructs a Bool value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int constructs an Int value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float constructs a Float value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Char constructs a Char value.
func Char(c rune) Value { return Value{kind: KindChar, c: c} }

// String constructs a String value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// FromObject wraps a heap Object in a Value.
func FromObject(obj Object) Value { return Value{kind: KindObject, obj: obj} }

// Kind returns the dynamic kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// BoolValue returns the payload of a Bool value. Only valid when
// Kind() == KindBool.
func (v Value) BoolValue() bool { return v.b }

// IntValue returns the payload of an Int value. Only valid when
// Kind() == KindInt.
func (v Value) IntValue() int64 { return v.i }

// FloatValue returns the payload of a Float value. Only valid when
// Kind() == KindFloat.
func (v Value) FloatValue() float64 { return v.f }

// CharValue returns the payload of a Char value. Only valid when
// Kind() == KindChar.
func (v Value) CharValue() rune { return v.c }

// StringValue returns the payload of a String value. Only valid when
// Kind() == KindString.
func (v Value) StringValue() string { return v.s }

// ObjectValue returns the payload of an Object value. Only valid when
// Kind() == KindObject.
func (v Value) ObjectValue() Object { return v.obj }

// TypeName returns the Grace type name of v, e.g. "Int" or "List".
func (v Value) TypeName() string {
	if v.kind == KindObject && v.obj != nil {
		return v.obj.TypeName()
	}
	return v.kind.String()
}

// AsBool returns the truthiness of v. Every Value has a defined
// truthiness; this function never panics or errors.
//
//   - Bool: as-is
//   - Int/Float: nonzero
//   - Char: nonzero
//   - String: non-empty
//   - Null: false
//   - Object: delegates to the object's AsBool
func (v Value) AsBool() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindChar:
		return v.c != 0
	case KindString:
		return v.s != ""
	case KindObject:
		if v.obj == nil {
			return false
		}
		return v.obj.AsBool()
	default:
		return false
	}
}

// ToString renders v for the "as String" cast. `+` does not use it:
// Add never converts a non-string operand to text.
func (v Value) ToString() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindChar:
		return string(v.c)
	case KindString:
		return v.s
	case KindObject:
		if v.obj == nil {
			return "null"
		}
		return v.obj.ToString()
	default:
		return ""
	}
}

// Print writes the display form of v to w, used by the Print/PrintLn
// opcodes.
func (v Value) Print(w io.Writer) {
	if v.kind == KindObject && v.obj != nil {
		v.obj.Print(w)
		return
	}
	fmt.Fprint(w, v.ToString())
}

// Equals reports whether v and other are equal. Equality always
// succeeds (never errors): values are equal iff they share the same
// kind and the same payload; values of different kinds are never equal,
// even when numerically equivalent (Int(1) != Float(1.0)).
func (v Value) Equals(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindChar:
		return v.c == other.c
	case KindString:
		return v.s == other.s
	case KindObject:
		if v.obj == nil || other.obj == nil {
			return v.obj == other.obj
		}
		return v.obj.Equals(other.obj)
	default:
		return false
	}
}

// InstanceOf reports whether v matches the given instanceof type tag
// (op.TypeBool, op.TypeInt, ... op.TypeList), per spec.md §4.4.
func (v Value) InstanceOf(tag int) bool {
	var want Kind
	switch tag {
	case 0:
		want = KindBool
	case 1:
		want = KindChar
	case 2:
		want = KindFloat
	case 3:
		want = KindInt
	case 4:
		want = KindNull
	case 5:
		want = KindString
	case 6:
		if v.kind != KindObject || v.obj == nil {
			return false
		}
		_, isList := v.obj.(*List)
		return isList
	default:
		return false
	}
	return v.kind == want
}
