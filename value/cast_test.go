package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lgtm-migrator/grace/value"
)

func TestAsIntFromVariousKinds(t *testing.T) {
	v, err := value.Float(3.9).AsInt()
	require.NoError(t, err)
	require.Equal(t, int64(3), v.IntValue())

	v, err = value.String("42").AsInt()
	require.NoError(t, err)
	require.Equal(t, int64(42), v.IntValue())

	_, err = value.String("not a number").AsInt()
	require.Error(t, err)
	oe, ok := err.(*value.OpError)
	require.True(t, ok)
	require.Equal(t, value.InvalidCast, oe.Kind)
}

func TestAsCharBounds(t *testing.T) {
	v, err := value.Int(65).AsChar()
	require.NoError(t, err)
	require.Equal(t, 'A', v.CharValue())

	_, err = value.Int(200).AsChar()
	require.Error(t, err)

	_, err = value.String("ab").AsChar()
	require.Error(t, err)

	v, err = value.String("Z").AsChar()
	require.NoError(t, err)
	require.Equal(t, 'Z', v.CharValue())
}

func TestAsBoolCastAlwaysSucceeds(t *testing.T) {
	require.True(t, value.Int(1).AsBoolCast().BoolValue())
	require.False(t, value.Null.AsBoolCast().BoolValue())
}

func TestAsStringCastUsesToString(t *testing.T) {
	require.Equal(t, "42", value.Int(42).AsStringCast().StringValue())
	require.Equal(t, "null", value.Null.AsStringCast().StringValue())
}

func TestAsListWrapsSingleValue(t *testing.T) {
	v := value.Int(7).AsList()
	list, ok := v.ObjectValue().(*value.List)
	require.True(t, ok)
	require.Equal(t, 1, list.Len())
	require.Equal(t, int64(7), list.At(0).IntValue())
}
