// Package compiler implements the single-pass recursive-descent Grace
// compiler: it consumes a token stream and emits bytecode directly into
// per-function tables, with no intermediate AST (spec.md §2, §4.2).
package compiler

import (
	"fmt"

	"github.com/lgtm-migrator/grace/internal/rlog"
	"github.com/lgtm-migrator/grace/op"
	"github.com/lgtm-migrator/grace/table"
	"github.com/lgtm-migrator/grace/token"
	"github.com/lgtm-migrator/grace/value"
)

// TokenSource is the narrow external collaborator spec.md places out of
// scope: anything that can classify source text into a token stream and
// retrieve a source line by number for diagnostics. internal/lexer.Lexer
// is the one concrete implementation this repository ships, but the
// compiler only ever depends on this interface.
type TokenSource interface {
	NextToken() token.Token
	CodeAtLine(line int) string
}

// compileContext tracks where in the grammar the compiler currently is,
// per spec.md §4.2's "Context tracking" note.
type compileContext int

const (
	ctxTopLevel compileContext = iota
	ctxFunction
	ctxLoop
)

// funcCompiler holds all state scoped to the function currently being
// compiled: its CompilerLocalMap, open block scopes, loop nesting, and
// break-jump patch lists. Reset (by discarding) at the end of every
// function body, matching spec.md's "reset when a function body ends".
type funcCompiler struct {
	fn         *table.Function
	locals     map[string]localInfo
	scopes     []scopeMark
	context    []compileContext
	breaks     [][]int // per loop nesting level, const-array indices of reserved break-jump placeholders
	hadReturn  bool
	isMain     bool
}

func newFuncCompiler(fn *table.Function, isMain bool) *funcCompiler {
	return &funcCompiler{
		fn:      fn,
		locals:  map[string]localInfo{},
		context: []compileContext{ctxFunction},
		isMain:  isMain,
	}
}

func (fc *funcCompiler) topContext() compileContext {
	return fc.context[len(fc.context)-1]
}

func (fc *funcCompiler) inLoop() bool {
	return fc.topContext() == ctxLoop
}

// emit appends op to the function's flat instruction list.
func (fc *funcCompiler) emit(code op.Code, line int) {
	fc.fn.Ops = append(fc.fn.Ops, table.OpLine{Op: code, Line: line})
}

// emitConst appends a constant to the function's constant stream and
// returns its index, without emitting any opcode.
func (fc *funcCompiler) emitConst(v value.Value) int {
	fc.fn.Consts = append(fc.fn.Consts, v)
	return len(fc.fn.Consts) - 1
}

// emitLoadConstant appends a literal constant and the LoadConstant opcode
// that pushes it onto the value stack.
func (fc *funcCompiler) emitLoadConstant(v value.Value, line int) {
	fc.emitConst(v)
	fc.emit(op.LoadConstant, line)
}

// emitOperandInt appends an Int operand constant consumed directly by
// code (LoadLocal, AssignLocal, Dup, CheckType, CreateList,
// CreateRepeatingList), then emits code. This is the normalized operand
// convention spec.md §9 asks port authors to adopt: the operand always
// precedes the opcode that consumes it.
func (fc *funcCompiler) emitOperandInt(code op.Code, line int, operand int64) {
	fc.emitConst(value.Int(operand))
	fc.emit(code, line)
}

// reserveJumpPlaceholder appends two zero-valued Int placeholders for a
// Jump/JumpIfFalse target (target_const_index, target_op_index) and
// returns the index of the first, to be patched later via patchJump.
func (fc *funcCompiler) reserveJumpPlaceholder() int {
	ci := fc.emitConst(value.Int(0))
	fc.emitConst(value.Int(0))
	return ci
}

// patchJump overwrites a previously reserved placeholder pair with the
// real (function-relative) target indices.
func (fc *funcCompiler) patchJump(ci int, targetConstIdx, targetOpIdx int64) {
	fc.fn.Consts[ci] = value.Int(targetConstIdx)
	fc.fn.Consts[ci+1] = value.Int(targetOpIdx)
}

func (fc *funcCompiler) constLen() int64 { return int64(len(fc.fn.Consts)) }
func (fc *funcCompiler) opLen() int64    { return int64(len(fc.fn.Ops)) }

// Compiler is the recursive-descent Grace compiler.
type Compiler struct {
	ts    TokenSource
	table *table.FunctionTable

	previous token.Token
	current  token.Token
	next     token.Token
	hasNext  bool

	fc *funcCompiler

	diagnostics      []Diagnostic
	panicMode        bool
	hadError         bool
	warningsAsErrors bool
	verbose          bool
	log              rlog.Logger
}

// New creates a Compiler over ts. warningsAsErrors escalates compiler
// warnings (e.g. shadowing a for-loop variable) to hard errors; verbose
// enables tracing of function declarations through internal/rlog and
// turns on the for-loop variable-reuse warning.
func New(ts TokenSource, warningsAsErrors, verbose bool) *Compiler {
	return &Compiler{
		ts:               ts,
		warningsAsErrors: warningsAsErrors,
		verbose:          verbose,
		log:              rlog.New("compiler", verbose),
	}
}

// Diagnostics returns every diagnostic recorded during the last Compile
// call.
func (c *Compiler) Diagnostics() []Diagnostic { return c.diagnostics }

// Compile parses the entire token stream into a table.FunctionTable. The
// grammar at this level accepts only `func` and `class` declarations
// (spec.md §4.2: "Only func and class are permitted at TopLevel").
// Returns an error (with diagnostics populated) if any compile error was
// recorded; the caller must not attempt to link or execute the result in
// that case.
func (c *Compiler) Compile() (*table.FunctionTable, error) {
	c.table = table.NewFunctionTable()
	c.advance()
	for !c.check(token.EOF) {
		c.topLevelDeclaration()
		if c.panicMode {
			c.synchronize()
		}
	}
	if c.hadError {
		return nil, fmt.Errorf("compilation failed with %d diagnostic(s)", len(c.diagnostics))
	}
	c.log.Trace("compilation succeeded", "functions", len(c.table.Functions()))
	return c.table, nil
}

func (c *Compiler) topLevelDeclaration() {
	switch {
	case c.match(token.Func):
		c.funcDeclaration()
	case c.match(token.Class):
		c.classDeclaration()
	default:
		c.errorAtCurrent("only 'func' and 'class' are permitted at the top level")
		c.advance()
	}
}

func (c *Compiler) funcDeclaration() {
	line := c.previous.Line
	c.expect(token.Identifier, "expected function name")
	name := c.previous.Lexeme

	c.expect(token.LeftParen, "expected '(' after function name")
	var params []string
	finalParams := map[string]bool{}
	if !c.check(token.RightParen) {
		for {
			isFinal := c.match(token.Final)
			c.expect(token.Identifier, "expected parameter name")
			pname := c.previous.Lexeme
			for _, p := range params {
				if p == pname {
					c.errorAtPrevious("duplicate parameter name %q", pname)
				}
			}
			params = append(params, pname)
			if isFinal {
				finalParams[pname] = true
			}
			if !c.match(token.Comma) {
				break
			}
		}
	}
	c.expect(token.RightParen, "expected ')' after parameters")
	c.expect(token.Colon, "expected ':' after function signature")

	isMain := name == "main"
	fn, err := c.table.Declare(name, len(params), line)
	if err != nil {
		c.errorAtPrevious("%s", err.Error())
		c.skipToEnd()
		return
	}

	c.log.Trace("declared function", "name", name, "arity", len(params), "line", line, "build_id", fn.BuildID)
	c.fc = newFuncCompiler(fn, isMain)
	for _, p := range params {
		c.fc.declareLocal(p, finalParams[p])
	}

	for !c.check(token.End) && !c.check(token.EOF) {
		c.statement()
		if c.panicMode {
			c.synchronize()
		}
	}
	if c.check(token.EOF) {
		c.errorAtCurrent("expected 'end' after function body")
		c.fc = nil
		return
	}
	c.advance() // consume 'end'

	// main can never hold a return statement (see returnStatement), so it
	// always needs its own terminator: Exit, which forces op_cur past the
	// end of the VM's combined array regardless of where main's own ops
	// happen to sit within it (main is placed first by Combine).
	switch {
	case isMain:
		c.fc.emit(op.Exit, line)
	case !c.fc.hadReturn:
		c.fc.emitLoadConstant(value.Null, line)
		c.fc.emit(op.Return, line)
	}
	c.fc = nil
}

// classDeclaration accepts the reserved `class` keyword and skips its
// body: classes are a declared grammar slot spec.md places out of scope.
func (c *Compiler) classDeclaration() {
	c.errorAtCurrent("classes are not yet supported")
	c.expect(token.Identifier, "expected class name")
	if c.match(token.Colon) {
		c.skipToEnd()
	}
}

// skipToEnd consumes tokens up to and including the next `end` token
// (nesting is not tracked), used to recover after a reserved/unsupported
// construct.
func (c *Compiler) skipToEnd() {
	for !c.check(token.End) && !c.check(token.EOF) {
		c.advance()
	}
	if c.check(token.End) {
		c.advance()
	}
}

// --- token stream plumbing ---

func (c *Compiler) advance() {
	c.previous = c.current
	if c.hasNext {
		c.current = c.next
		c.hasNext = false
	} else {
		c.current = c.ts.NextToken()
	}
	if c.current.Type == token.Error {
		c.errorAtCurrent("%s", c.current.Lexeme)
	}
}

// peekNext returns the token after current without consuming current.
func (c *Compiler) peekNext() token.Token {
	if !c.hasNext {
		c.next = c.ts.NextToken()
		c.hasNext = true
	}
	return c.next
}

func (c *Compiler) check(t token.Type) bool {
	return c.current.Type == t
}

func (c *Compiler) match(t token.Type) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) expect(t token.Type, format string, args ...any) {
	if c.check(t) {
		c.advance()
		return
	}
	c.errorAtCurrent(format, args...)
}
