package value_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lgtm-migrator/grace/value"
)

func TestAddDispatch(t *testing.T) {
	v, err := value.Add(value.Int(2), value.Int(3))
	require.NoError(t, err)
	require.Equal(t, int64(5), v.IntValue())

	v, err = value.Add(value.Int(2), value.Float(1.5))
	require.NoError(t, err)
	require.Equal(t, 3.5, v.FloatValue())

	v, err = value.Add(value.String("ab"), value.String("cd"))
	require.NoError(t, err)
	require.Equal(t, "abcd", v.StringValue())

	v, err = value.Add(value.String("ab"), value.Char('c'))
	require.NoError(t, err)
	require.Equal(t, "abc", v.StringValue())

	v, err = value.Add(value.Char('a'), value.Char('b'))
	require.NoError(t, err)
	require.Equal(t, "ab", v.StringValue())
}

func TestAddRejectsStringAndInt(t *testing.T) {
	_, err := value.Add(value.String("a"), value.Int(1))
	require.Error(t, err)
	oe, ok := err.(*value.OpError)
	require.True(t, ok)
	require.Equal(t, value.InvalidOperand, oe.Kind)
}

func TestDivideByZero(t *testing.T) {
	_, err := value.Divide(value.Int(1), value.Int(0))
	require.Error(t, err)

	v, err := value.Divide(value.Float(1), value.Float(0))
	require.NoError(t, err)
	require.True(t, math.IsInf(v.FloatValue(), 1))
}

func TestIntegerDivisionTruncates(t *testing.T) {
	v, err := value.Divide(value.Int(7), value.Int(2))
	require.NoError(t, err)
	require.Equal(t, int64(3), v.IntValue())
}

func TestPowNegativeIntExponentFallsBackToFloat(t *testing.T) {
	v, err := value.Pow(value.Int(2), value.Int(-1))
	require.NoError(t, err)
	require.Equal(t, value.KindFloat, v.Kind())
	require.Equal(t, 0.5, v.FloatValue())
}

func TestPowNonNegativeIntExponentStaysInt(t *testing.T) {
	v, err := value.Pow(value.Int(2), value.Int(10))
	require.NoError(t, err)
	require.Equal(t, value.KindInt, v.Kind())
	require.Equal(t, int64(1024), v.IntValue())
}

func TestCompareLexicographic(t *testing.T) {
	v, err := value.Compare(value.CmpLess, value.String("abc"), value.String("abd"))
	require.NoError(t, err)
	require.True(t, v.BoolValue())
}

func TestCompareRejectsIncomparableKinds(t *testing.T) {
	_, err := value.Compare(value.CmpLess, value.Bool(true), value.Int(1))
	require.Error(t, err)
}

func TestEqualsNeverErrorsAndIsKindStrict(t *testing.T) {
	require.False(t, value.Int(1).Equals(value.Float(1)))
	require.True(t, value.Int(1).Equals(value.Int(1)))
	require.True(t, value.Null.Equals(value.Null))
}

func TestNegateAndNot(t *testing.T) {
	v, err := value.Negate(value.Int(5))
	require.NoError(t, err)
	require.Equal(t, int64(-5), v.IntValue())

	_, err = value.Negate(value.String("x"))
	require.Error(t, err)

	require.True(t, value.Not(value.Bool(false)).BoolValue())
}

func TestTruthiness(t *testing.T) {
	require.False(t, value.Null.AsBool())
	require.False(t, value.Int(0).AsBool())
	require.True(t, value.Int(1).AsBool())
	require.False(t, value.String("").AsBool())
	require.True(t, value.String("x").AsBool())
}

func TestInstanceOfTags(t *testing.T) {
	require.True(t, value.Int(1).InstanceOf(3))
	require.False(t, value.Int(1).InstanceOf(2))
	require.True(t, value.Null.InstanceOf(4))
	require.True(t, value.FromObject(value.NewEmptyList()).InstanceOf(6))
}
