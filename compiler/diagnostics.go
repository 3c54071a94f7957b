package compiler

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/lgtm-migrator/grace/token"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "WARNING"
	}
	return "ERROR"
}

// Diagnostic is a single compile-time finding: a severity, the token it
// anchors to, and a message. Errors set the compiler's panic flag so that
// cascading errors from the same malformed construct are suppressed until
// Synchronize advances past a statement boundary.
type Diagnostic struct {
	Severity Severity
	Token    token.Token
	Message  string
}

// Render formats a diagnostic the way the original Grace compiler prints
// compile errors: a message line, a `file:line:col` pointer, the source
// line, and a caret span under the offending token (Token.Column is the
// token's 1-based start column).
func (d Diagnostic) Render(fileName string, codeAtLine func(int) string) string {
	var b strings.Builder

	label := color.New(color.FgRed, color.Bold).Sprint(d.Severity.String() + ":")
	switch d.Token.Type {
	case token.EOF:
		fmt.Fprintf(&b, "[line %d] %s at end: %s\n", d.Token.Line, label, d.Message)
	case token.Error:
		fmt.Fprintf(&b, "[line %d] %s %s\n", d.Token.Line, label, d.Token.Lexeme)
	default:
		fmt.Fprintf(&b, "[line %d] %s at %q: %s\n", d.Token.Line, label, d.Token.String(), d.Message)
	}

	fmt.Fprintf(&b, "  --> %s:%d:%d\n", fileName, d.Token.Line, d.Token.Column)

	line := codeAtLine(d.Token.Line)
	col := d.Token.Column - 1
	if col < 0 {
		col = 0
	}
	fmt.Fprintf(&b, "%7s|\n", "")
	fmt.Fprintf(&b, "%7d| %s\n", d.Token.Line, line)
	fmt.Fprintf(&b, "%7s| %s%s\n", "", strings.Repeat(" ", col), color.RedString(strings.Repeat("^", maxInt(d.Token.Length, 1))))
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// errorAt records an error diagnostic anchored to tok, unless the compiler
// is already in panic mode (suppresses cascades from one malformed
// construct). Every error sets hadError, which keeps compilation from
// proceeding to linking.
func (c *Compiler) errorAt(tok token.Token, format string, args ...any) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Severity: SeverityError,
		Token:    tok,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (c *Compiler) errorAtCurrent(format string, args ...any) {
	c.errorAt(c.current, format, args...)
}

func (c *Compiler) errorAtPrevious(format string, args ...any) {
	c.errorAt(c.previous, format, args...)
}

// warningAt records a warning; warnings never set the panic flag, so they
// never suppress subsequent diagnostics.
func (c *Compiler) warningAt(tok token.Token, format string, args ...any) {
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Severity: SeverityWarning,
		Token:    tok,
		Message:  fmt.Sprintf(format, args...),
	})
	if c.warningsAsErrors {
		c.hadError = true
	}
}

// synchronizeBoundary lists the keyword tokens Synchronize treats as safe
// re-entry points after a parse error.
var synchronizeBoundary = map[token.Type]bool{
	token.Class:   true,
	token.Func:    true,
	token.Final:   true,
	token.For:     true,
	token.If:      true,
	token.While:   true,
	token.Print:   true,
	token.Println: true,
	token.Return:  true,
	token.Var:     true,
}

// synchronize advances the token stream past the error until a statement
// boundary (a consumed semicolon or a keyword that starts a new
// declaration/statement), clearing the panic flag so error reporting
// resumes.
func (c *Compiler) synchronize() {
	c.panicMode = false
	for !c.check(token.EOF) {
		if c.previous.Type == token.Semicolon {
			return
		}
		if synchronizeBoundary[c.current.Type] {
			return
		}
		c.advance()
	}
}
