package vm_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lgtm-migrator/grace/compiler"
	"github.com/lgtm-migrator/grace/internal/lexer"
	"github.com/lgtm-migrator/grace/op"
	"github.com/lgtm-migrator/grace/table"
	"github.com/lgtm-migrator/grace/value"
	"github.com/lgtm-migrator/grace/vm"
)

func runSource(t *testing.T, src string) (stdout string, result vm.RunResult, err error) {
	t.Helper()
	lx := lexer.New(src)
	c := compiler.New(lx, false, false)
	ft, cErr := c.Compile()
	require.NoError(t, cErr, "diagnostics: %v", c.Diagnostics())

	var out, errOut bytes.Buffer
	m, nErr := vm.New(ft,
		vm.WithStdout(&out),
		vm.WithStderr(&errOut),
		vm.WithSourceFile("test.gr"),
		vm.WithCodeAtLine(lx.CodeAtLine),
		vm.WithColor(false),
	)
	require.NoError(t, nErr)

	result, err = m.Run(nil)
	if err != nil {
		return out.String(), result, errAndStderr{err, errOut.String()}
	}
	return out.String(), result, nil
}

// errAndStderr wraps the error Run returned together with the rendered stderr
// trace so test assertions can inspect both without a second Run.
type errAndStderr struct {
	err    error
	stderr string
}

func (e errAndStderr) Error() string { return e.err.Error() }

func TestArithmeticAndPrintln(t *testing.T) {
	out, result, err := runSource(t, "func main():\n  println(1 + 2 * 3);\nend")
	require.NoError(t, err)
	require.Equal(t, vm.RuntimeOk, result)
	require.Equal(t, "7\n", out)
}

func TestForLoopSum(t *testing.T) {
	out, result, err := runSource(t, `func main():
  var x = 0;
  for i in 0..5:
    x = x + i;
  end
  println(x);
end`)
	require.NoError(t, err)
	require.Equal(t, vm.RuntimeOk, result)
	require.Equal(t, "10\n", out)
}

func TestRecursiveFib(t *testing.T) {
	out, result, err := runSource(t, `func fib(n):
  if n < 2:
    return n;
  end
  return fib(n-1) + fib(n-2);
end
func main():
  println(fib(10));
end`)
	require.NoError(t, err)
	require.Equal(t, vm.RuntimeOk, result)
	require.Equal(t, "55\n", out)
}

func TestStringPlusIntIsRuntimeError(t *testing.T) {
	out, result, err := runSource(t, `func main():
  println("a" + 1);
end`)
	require.Error(t, err)
	require.Equal(t, vm.RuntimeError, result)
	require.Equal(t, "", out)
	ew, ok := err.(errAndStderr)
	require.True(t, ok)
	require.Contains(t, ew.stderr, "InvalidOperand")
	require.Contains(t, ew.stderr, "Call stack (most recent call last):")
}

func TestInstanceofAssert(t *testing.T) {
	_, result, err := runSource(t, `func main():
  assert(instanceof(3.14, Float), "type check");
end`)
	require.NoError(t, err)
	require.Equal(t, vm.RuntimeOk, result)
}

func TestFailingAssertionReportsLineAndMessage(t *testing.T) {
	_, result, err := runSource(t, `func main():
  assert(1 == 2, "one is not two");
end`)
	require.Error(t, err)
	require.Equal(t, vm.RuntimeAssertionFailed, result)
	ew, ok := err.(errAndStderr)
	require.True(t, ok)
	require.Contains(t, ew.stderr, "one is not two")
	require.Contains(t, ew.stderr, "AssertionFailed")
}

func TestFinalReassignmentIsCompileError(t *testing.T) {
	lx := lexer.New("func main():\n  final x = 1;\n  x = 2;\nend")
	c := compiler.New(lx, false, false)
	_, err := c.Compile()
	require.Error(t, err)
	require.NotEmpty(t, c.Diagnostics())
}

func TestBreakExitsLoop(t *testing.T) {
	out, result, err := runSource(t, `func main():
  var x = 0;
  while true:
    x = x + 1;
    if x == 3:
      break;
    end
  end
  println(x);
end`)
	require.NoError(t, err)
	require.Equal(t, vm.RuntimeOk, result)
	require.Equal(t, "3\n", out)
}

func TestCastAndConcat(t *testing.T) {
	out, result, err := runSource(t, `func main():
  println("n=" + String(Int(41) + 1));
end`)
	require.NoError(t, err)
	require.Equal(t, vm.RuntimeOk, result)
	require.Equal(t, "n=42\n", out)
}

// TestNativeRegistration exercises the native function table itself
// (spec.md §4.5 "Native call semantics"): this grammar subset has no
// call syntax that targets it, so registration and lookup are what's in
// scope here rather than a NativeCall opcode reachable from source.
func TestNativeRegistration(t *testing.T) {
	lx := lexer.New("func main():\nend")
	c := compiler.New(lx, false, false)
	ft, err := c.Compile()
	require.NoError(t, err, "diagnostics: %v", c.Diagnostics())

	m, err := vm.New(ft, vm.WithSourceFile("test.gr"), vm.WithCodeAtLine(lx.CodeAtLine))
	require.NoError(t, err)

	idx := m.RegisterNative(vm.NativeFunction{
		Name:  "double",
		Arity: 1,
		Fn: func(args []value.Value) (value.Value, error) {
			return value.Int(args[0].IntValue() * 2), nil
		},
	})
	require.Equal(t, 0, idx)

	found, ok := m.NativeIndex("double")
	require.True(t, ok)
	require.Equal(t, idx, found)

	_, ok = m.NativeIndex("missing")
	require.False(t, ok)
}

// TestListOpcodesExecuteDirectly exercises CreateList, CreateEmptyList,
// and CreateRepeatingList: like NativeCall (see TestNativeRegistration),
// this grammar subset has no syntax that emits them, so the function
// table is built by hand rather than compiled.
func TestListOpcodesExecuteDirectly(t *testing.T) {
	ft := table.NewFunctionTable()
	main, err := ft.Declare("main", 0, 1)
	require.NoError(t, err)
	main.Consts = []value.Value{
		value.Int(10), value.Int(20), value.Int(30), value.Int(3),
		value.Int(9), value.Int(4),
	}
	main.Ops = []table.OpLine{
		{Op: op.LoadConstant, Line: 1}, // 10
		{Op: op.LoadConstant, Line: 1}, // 20
		{Op: op.LoadConstant, Line: 1}, // 30
		{Op: op.CreateList, Line: 1},   // consumes n=3 -> [10,20,30]
		{Op: op.Pop, Line: 1},
		{Op: op.CreateEmptyList, Line: 2},
		{Op: op.Pop, Line: 2},
		{Op: op.LoadConstant, Line: 3}, // fill=9
		{Op: op.CreateRepeatingList, Line: 3},
		{Op: op.Exit, Line: 3},
	}

	var out bytes.Buffer
	m, err := vm.New(ft, vm.WithStdout(&out), vm.WithColor(false))
	require.NoError(t, err)

	result, err := m.Run(nil)
	require.NoError(t, err)
	require.Equal(t, vm.RuntimeOk, result)
}
