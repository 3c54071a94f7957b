package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lgtm-migrator/grace/value"
)

func TestListAppendAndAt(t *testing.T) {
	l := value.NewEmptyList()
	l.Append(value.Int(1))
	l.Append(value.Int(2))
	require.Equal(t, 2, l.Len())
	require.Equal(t, int64(2), l.At(1).IntValue())
}

func TestNewRepeatingList(t *testing.T) {
	l := value.NewRepeatingList(value.String("x"), 3)
	require.Equal(t, 3, l.Len())
	for i := 0; i < 3; i++ {
		require.Equal(t, "x", l.At(i).StringValue())
	}
}

func TestListEqualsIsElementwise(t *testing.T) {
	a := value.NewList([]value.Value{value.Int(1), value.Int(2)})
	b := value.NewList([]value.Value{value.Int(1), value.Int(2)})
	c := value.NewList([]value.Value{value.Int(1), value.Int(3)})
	require.True(t, a.Equals(b))
	require.False(t, a.Equals(c))
}

func TestListCloneSharesAndIncrementsRefCount(t *testing.T) {
	a := value.NewEmptyList()
	require.Equal(t, int32(1), a.RefCount())
	b := a.Clone()
	require.Equal(t, int32(2), a.RefCount())
	b.Append(value.Int(9))
	require.Equal(t, 1, a.Len(), "clone shares backing storage")
}

func TestListToStringQuotesStrings(t *testing.T) {
	l := value.NewList([]value.Value{value.Int(1), value.String("a")})
	require.Equal(t, `[1, "a"]`, l.ToString())
}

func TestListTruthiness(t *testing.T) {
	require.False(t, value.NewEmptyList().AsBool())
	require.True(t, value.NewList([]value.Value{value.Null}).AsBool())
}
