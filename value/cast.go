package value

import "strconv"

// AsInt implements `as Int`: parses from String/Char/Float, errors on
// failure.
func (v Value) AsInt() (Value, error) {
	switch v.kind {
	case KindInt:
		return v, nil
	case KindFloat:
		return Int(int64(v.f)), nil
	case KindChar:
		return Int(int64(v.c)), nil
	case KindString:
		i, err := strconv.ParseInt(v.s, 10, 64)
		if err != nil {
			return Value{}, NewOpError(InvalidCast, "cannot cast %q to Int", v.s)
		}
		return Int(i), nil
	default:
		return Value{}, NewOpError(InvalidCast, "cannot cast %s to Int", v.TypeName())
	}
}

// AsFloat implements `as Float`.
func (v Value) AsFloat() (Value, error) {
	switch v.kind {
	case KindFloat:
		return v, nil
	case KindInt:
		return Float(float64(v.i)), nil
	case KindChar:
		return Float(float64(v.c)), nil
	case KindString:
		f, err := strconv.ParseFloat(v.s, 64)
		if err != nil {
			return Value{}, NewOpError(InvalidCast, "cannot cast %q to Float", v.s)
		}
		return Float(f), nil
	default:
		return Value{}, NewOpError(InvalidCast, "cannot cast %s to Float", v.TypeName())
	}
}

// AsBoolCast implements `as Bool`, which always succeeds via truthiness.
func (v Value) AsBoolCast() Value {
	return Bool(v.AsBool())
}

// AsStringCast implements `as String`, which always succeeds via
// ToString.
func (v Value) AsStringCast() Value {
	return String(v.ToString())
}

// AsChar implements `as Char`: requires an Int in [0,127] or a
// single-code-unit String.
func (v Value) AsChar() (Value, error) {
	switch v.kind {
	case KindChar:
		return v, nil
	case KindInt:
		if v.i < 0 || v.i > 127 {
			return Value{}, NewOpError(InvalidCast, "Int %d out of range for Char cast", v.i)
		}
		return Char(rune(v.i)), nil
	case KindString:
		runes := []rune(v.s)
		if len(runes) != 1 {
			return Value{}, NewOpError(InvalidCast, "cannot cast string of length %d to Char", len(runes))
		}
		return Char(runes[0]), nil
	default:
		return Value{}, NewOpError(InvalidCast, "cannot cast %s to Char", v.TypeName())
	}
}

// AsList implements `as List`: wraps any value in a single-element list.
func (v Value) AsList() Value {
	return FromObject(NewList([]Value{v}))
}
