package table_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lgtm-migrator/grace/op"
	"github.com/lgtm-migrator/grace/table"
	"github.com/lgtm-migrator/grace/value"
)

func TestHashNameIsStable(t *testing.T) {
	require.Equal(t, table.HashName("main"), table.HashName("main"))
	require.NotEqual(t, table.HashName("main"), table.HashName("fib"))
}

func TestDeclareRejectsDuplicateNames(t *testing.T) {
	ft := table.NewFunctionTable()
	_, err := ft.Declare("main", 0, 1)
	require.NoError(t, err)
	_, err = ft.Declare("main", 0, 2)
	require.Error(t, err)
}

func TestLookupByNameAndHashAgree(t *testing.T) {
	ft := table.NewFunctionTable()
	fn, err := ft.Declare("fib", 1, 1)
	require.NoError(t, err)

	byName, ok := ft.LookupName("fib")
	require.True(t, ok)
	require.Same(t, fn, byName)

	byHash, ok := ft.Lookup(fn.NameHash)
	require.True(t, ok)
	require.Same(t, fn, byHash)
}

func TestCombineRequiresMain(t *testing.T) {
	ft := table.NewFunctionTable()
	_, err := ft.Declare("helper", 0, 1)
	require.NoError(t, err)

	_, _, err = ft.Combine()
	require.Error(t, err)
}

func TestCombinePlacesMainFirstAndRecordsOffsets(t *testing.T) {
	ft := table.NewFunctionTable()
	main, err := ft.Declare("main", 0, 1)
	require.NoError(t, err)
	main.Ops = []table.OpLine{{Op: op.Exit, Line: 1}}

	helper, err := ft.Declare("helper", 0, 2)
	require.NoError(t, err)
	helper.Consts = []value.Value{value.Int(7)}
	helper.Ops = []table.OpLine{
		{Op: op.LoadConstant, Line: 2},
		{Op: op.Return, Line: 2},
	}

	ops, consts, err := ft.Combine()
	require.NoError(t, err)
	require.Equal(t, 0, main.OpStart)
	require.Equal(t, 0, main.ConstStart)
	require.Equal(t, 1, helper.OpStart)
	require.Equal(t, 0, helper.ConstStart)
	require.Len(t, ops, 3)
	require.Len(t, consts, 1)
}
