package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lgtm-migrator/grace/compiler"
	"github.com/lgtm-migrator/grace/internal/lexer"
)

func compileOk(t *testing.T, src string, warningsAsErrors bool) *compiler.Compiler {
	t.Helper()
	lx := lexer.New(src)
	c := compiler.New(lx, warningsAsErrors, false)
	_, err := c.Compile()
	require.NoError(t, err, "diagnostics: %v", c.Diagnostics())
	return c
}

func TestCompileSimpleMain(t *testing.T) {
	compileOk(t, "func main():\nend", false)
}

func TestTopLevelRejectsNonFuncNonClass(t *testing.T) {
	lx := lexer.New("var x = 1;")
	c := compiler.New(lx, false, false)
	_, err := c.Compile()
	require.Error(t, err)
	require.NotEmpty(t, c.Diagnostics())
	require.Contains(t, c.Diagnostics()[0].Message, "only 'func' and 'class'")
}

func TestDuplicateFunctionNameIsCompileError(t *testing.T) {
	lx := lexer.New("func main():\nend\nfunc main():\nend")
	c := compiler.New(lx, false, false)
	_, err := c.Compile()
	require.Error(t, err)
}

func TestDuplicateParameterNameIsCompileError(t *testing.T) {
	lx := lexer.New("func f(a, a):\nend\nfunc main():\nend")
	c := compiler.New(lx, false, false)
	_, err := c.Compile()
	require.Error(t, err)
}

func TestReassigningFinalIsCompileError(t *testing.T) {
	lx := lexer.New("func main():\n  final x = 1;\n  x = 2;\nend")
	c := compiler.New(lx, false, false)
	_, err := c.Compile()
	require.Error(t, err)
}

func TestReturnFromMainIsCompileError(t *testing.T) {
	lx := lexer.New("func main():\n  return 1;\nend")
	c := compiler.New(lx, false, false)
	_, err := c.Compile()
	require.Error(t, err)
}

func TestBreakOutsideLoopIsCompileError(t *testing.T) {
	lx := lexer.New("func main():\n  break;\nend")
	c := compiler.New(lx, false, false)
	_, err := c.Compile()
	require.Error(t, err)
}

func TestForLoopVariableShadowingWarnsButDoesNotFailByDefault(t *testing.T) {
	// The reuse warning only fires in verbose mode, so verbose must be on
	// here to observe it; warningsAsErrors stays off so it stays a warning.
	lx := lexer.New(`func main():
  var i = 99;
  for i in 0..3:
  end
end`)
	c := compiler.New(lx, false, true)
	_, err := c.Compile()
	require.NoError(t, err)
	require.NotEmpty(t, c.Diagnostics())
}

func TestWarningsAsErrorsEscalatesShadowWarning(t *testing.T) {
	lx := lexer.New(`func main():
  var i = 99;
  for i in 0..3:
  end
end`)
	c := compiler.New(lx, true, true)
	_, err := c.Compile()
	require.Error(t, err)
}

func TestDiagnosticRenderIncludesLineAndCaret(t *testing.T) {
	lx := lexer.New("var x = 1;")
	c := compiler.New(lx, false, false)
	_, err := c.Compile()
	require.Error(t, err)

	rendered := c.Diagnostics()[0].Render("test.gr", lx.CodeAtLine)
	require.Contains(t, rendered, "[line 1]")
	require.Contains(t, rendered, "var x = 1;")
	require.Contains(t, rendered, "^")
}

func TestFunctionTableHasDeclaredFunctions(t *testing.T) {
	lx := lexer.New("func add(a, b):\n  return a + b;\nend\nfunc main():\nend")
	c := compiler.New(lx, false, false)
	ft, err := c.Compile()
	require.NoError(t, err, "diagnostics: %v", c.Diagnostics())

	fn, ok := ft.LookupName("add")
	require.True(t, ok)
	require.Equal(t, 2, fn.Arity)

	_, ok = ft.LookupName("main")
	require.True(t, ok)
}
