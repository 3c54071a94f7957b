package value

import "math"

// Add implements the `+` operator: Int+Int -> Int, mixed Int/Float ->
// Float, Float+Float -> Float, String+String -> concat, String+Char ->
// concat, Char+Char -> a 2-character String. Every other pairing,
// including String+Int and Int+String, is an error: the original
// compiler's addition handler only ever coerces a Char into a String
// concatenation, never an arbitrary value via its textual form, and
// spec.md's own worked example (`"a" + 1` is a runtime error) follows
// that narrower rule rather than its prose table's looser wording.
func Add(a, b Value) (Value, error) {
	switch {
	case a.kind == KindInt && b.kind == KindInt:
		return Int(a.i + b.i), nil
	case isNumeric(a) && isNumeric(b):
		return Float(asFloat(a) + asFloat(b)), nil
	case a.kind == KindString && b.kind == KindString:
		return String(a.s + b.s), nil
	case a.kind == KindString && b.kind == KindChar:
		return String(a.s + string(b.c)), nil
	case a.kind == KindChar && b.kind == KindChar:
		return String(string(a.c) + string(b.c)), nil
	default:
		return Value{}, NewOpError(InvalidOperand, "cannot add %s to %s", b.TypeName(), a.TypeName())
	}
}

// Subtract implements `-`.
func Subtract(a, b Value) (Value, error) {
	switch {
	case a.kind == KindInt && b.kind == KindInt:
		return Int(a.i - b.i), nil
	case isNumeric(a) && isNumeric(b):
		return Float(asFloat(a) - asFloat(b)), nil
	default:
		return Value{}, NewOpError(InvalidOperand, "cannot subtract %s from %s", b.TypeName(), a.TypeName())
	}
}

// Multiply implements `*`.
func Multiply(a, b Value) (Value, error) {
	switch {
	case a.kind == KindInt && b.kind == KindInt:
		return Int(a.i * b.i), nil
	case isNumeric(a) && isNumeric(b):
		return Float(asFloat(a) * asFloat(b)), nil
	default:
		return Value{}, NewOpError(InvalidOperand, "cannot multiply %s by %s", a.TypeName(), b.TypeName())
	}
}

// Divide implements `/`. Integer division truncates; dividing by a zero
// Int is an error.
func Divide(a, b Value) (Value, error) {
	switch {
	case a.kind == KindInt && b.kind == KindInt:
		if b.i == 0 {
			return Value{}, NewOpError(InvalidOperand, "division by zero")
		}
		return Int(a.i / b.i), nil
	case isNumeric(a) && isNumeric(b):
		return Float(asFloat(a) / asFloat(b)), nil
	default:
		return Value{}, NewOpError(InvalidOperand, "cannot divide %s by %s", a.TypeName(), b.TypeName())
	}
}

// Mod implements `%`. Integer modulo by zero is an error; float modulo
// uses math.Mod (fmod semantics).
func Mod(a, b Value) (Value, error) {
	switch {
	case a.kind == KindInt && b.kind == KindInt:
		if b.i == 0 {
			return Value{}, NewOpError(InvalidOperand, "modulo by zero")
		}
		return Int(a.i % b.i), nil
	case isNumeric(a) && isNumeric(b):
		return Float(math.Mod(asFloat(a), asFloat(b))), nil
	default:
		return Value{}, NewOpError(InvalidOperand, "cannot compute %s %% %s", a.TypeName(), b.TypeName())
	}
}

// Pow implements `**`. Int**Int with a non-negative exponent stays
// integral; a negative integer exponent falls back to Float, matching
// spec.md §4.4.
func Pow(a, b Value) (Value, error) {
	switch {
	case a.kind == KindInt && b.kind == KindInt:
		if b.i >= 0 {
			return Int(intPow(a.i, b.i)), nil
		}
		return Float(math.Pow(float64(a.i), float64(b.i))), nil
	case isNumeric(a) && isNumeric(b):
		return Float(math.Pow(asFloat(a), asFloat(b))), nil
	default:
		return Value{}, NewOpError(InvalidOperand, "cannot raise %s to power %s", a.TypeName(), b.TypeName())
	}
}

func intPow(base, exp int64) int64 {
	var result int64 = 1
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// Compare implements `<`, `<=`, `>`, `>=` for the kind pairs spec.md §4.4
// allows: Int/Float (mixed ok), String (lexicographic), Char. Every other
// pairing is an error.
type CompareOp int

const (
	CmpLess CompareOp = iota
	CmpLessEqual
	CmpGreater
	CmpGreaterEqual
)

func Compare(op CompareOp, a, b Value) (Value, error) {
	switch {
	case isNumeric(a) && isNumeric(b):
		return Bool(compareFloats(op, asFloat(a), asFloat(b))), nil
	case a.kind == KindString && b.kind == KindString:
		return Bool(compareStrings(op, a.s, b.s)), nil
	case a.kind == KindChar && b.kind == KindChar:
		return Bool(compareFloats(op, float64(a.c), float64(b.c))), nil
	default:
		return Value{}, NewOpError(InvalidOperand, "cannot compare %s with %s", a.TypeName(), b.TypeName())
	}
}

func compareFloats(op CompareOp, a, b float64) bool {
	switch op {
	case CmpLess:
		return a < b
	case CmpLessEqual:
		return a <= b
	case CmpGreater:
		return a > b
	case CmpGreaterEqual:
		return a >= b
	default:
		return false
	}
}

func compareStrings(op CompareOp, a, b string) bool {
	switch op {
	case CmpLess:
		return a < b
	case CmpLessEqual:
		return a <= b
	case CmpGreater:
		return a > b
	case CmpGreaterEqual:
		return a >= b
	default:
		return false
	}
}

// Negate implements unary `-`.
func Negate(v Value) (Value, error) {
	switch v.kind {
	case KindInt:
		return Int(-v.i), nil
	case KindFloat:
		return Float(-v.f), nil
	default:
		return Value{}, NewOpError(InvalidOperand, "cannot negate %s", v.TypeName())
	}
}

// Not implements unary `!`.
func Not(v Value) Value {
	return Bool(!v.AsBool())
}

func isNumeric(v Value) bool {
	return v.kind == KindInt || v.kind == KindFloat
}

func asFloat(v Value) float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}
