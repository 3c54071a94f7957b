package compiler

import (
	"github.com/lgtm-migrator/grace/op"
	"github.com/lgtm-migrator/grace/token"
	"github.com/lgtm-migrator/grace/value"
)

// statement parses one statement inside a function body. Only reachable
// while compiling a function; the TopLevel context never calls this
// (spec.md §4.2: "Only func and class are permitted at TopLevel").
func (c *Compiler) statement() {
	switch {
	case c.match(token.Var):
		c.varDeclaration(false)
	case c.match(token.Final):
		c.varDeclaration(true)
	case c.match(token.Func):
		c.errorAtPrevious("'func' is only permitted at the top level")
		c.skipToEnd()
	case c.match(token.Class):
		c.errorAtPrevious("'class' is only permitted at the top level")
		c.skipToEnd()
	case c.match(token.If):
		c.ifStatement()
	case c.match(token.While):
		c.whileStatement()
	case c.match(token.For):
		c.forStatement()
	case c.match(token.Return):
		c.returnStatement()
	case c.match(token.Break):
		c.breakStatement()
	case c.match(token.Assert):
		c.assertStatement()
	case c.match(token.Print):
		c.printStatement(false)
	case c.match(token.Println):
		c.printStatement(true)
	default:
		c.exprStatement()
	}
}

// block compiles statements until the current token is one of the given
// stop tokens (not consumed), within its own local scope.
func (c *Compiler) block(line int, stop ...token.Type) {
	c.fc.pushScope()
	for !c.atBlockEnd(stop) {
		c.statement()
		if c.panicMode {
			c.synchronize()
		}
	}
	c.fc.popScope(line)
}

func (c *Compiler) atBlockEnd(stop []token.Type) bool {
	if c.check(token.EOF) {
		return true
	}
	for _, t := range stop {
		if c.check(t) {
			return true
		}
	}
	return false
}

func (c *Compiler) varDeclaration(isFinal bool) {
	line := c.previous.Line
	c.expect(token.Identifier, "expected identifier after 'var'/'final'")
	name := c.previous.Lexeme
	if _, exists := c.fc.lookupLocal(name); exists {
		c.errorAtPrevious("a local variable named %q already exists", name)
		return
	}

	slot := c.fc.declareLocal(name, isFinal)
	c.fc.emit(op.DeclareLocal, line)

	if isFinal {
		c.expect(token.Equal, "'final' requires an initializer")
		c.compileExpression()
		c.fc.emitOperandInt(op.AssignLocal, line, slot)
	} else if c.match(token.Equal) {
		c.compileExpression()
		c.fc.emitOperandInt(op.AssignLocal, line, slot)
	}
	c.expect(token.Semicolon, "expected ';' after variable declaration")
}

// assignmentStatement compiles `identifier = expression;`. Assignment is
// a statement form, not an expression production, which is what makes
// `x = y = z` a syntax error rather than something requiring a special
// rejection rule (spec.md §4.2).
func (c *Compiler) assignmentStatement() {
	nameTok := c.current
	name := nameTok.Lexeme
	c.advance() // identifier
	line := c.current.Line
	c.advance() // '='

	info, exists := c.fc.lookupLocal(name)
	if !exists {
		c.errorAt(nameTok, "undefined variable %q", name)
	} else if info.isFinal {
		c.errorAt(nameTok, "cannot reassign to final %q", name)
	}

	c.compileExpression()
	if exists {
		c.fc.emitOperandInt(op.AssignLocal, line, info.slot)
	}
	c.expect(token.Semicolon, "expected ';' after assignment")
}

func (c *Compiler) exprStatement() {
	if c.check(token.Identifier) && c.peekNext().Type == token.Equal {
		c.assignmentStatement()
		return
	}
	line := c.current.Line
	c.compileExpression()
	c.expect(token.Semicolon, "expected ';' after expression")
	c.fc.emit(op.Pop, line)
}

func (c *Compiler) ifStatement() {
	line := c.previous.Line
	c.compileExpression()
	c.expect(token.Colon, "expected ':' after condition")

	pendingJF := c.fc.reserveJumpPlaceholder()
	c.fc.emit(op.JumpIfFalse, line)

	var endJumps []int
	for {
		c.block(line, token.Else, token.End)
		if !c.match(token.Else) {
			c.fc.patchJump(pendingJF, c.fc.constLen(), c.fc.opLen())
			break
		}

		ci := c.fc.reserveJumpPlaceholder()
		c.fc.emit(op.Jump, line)
		endJumps = append(endJumps, ci)
		c.fc.patchJump(pendingJF, c.fc.constLen(), c.fc.opLen())

		if c.match(token.If) {
			elseIfLine := c.previous.Line
			c.compileExpression()
			c.expect(token.Colon, "expected ':' after condition")
			pendingJF = c.fc.reserveJumpPlaceholder()
			c.fc.emit(op.JumpIfFalse, elseIfLine)
			continue
		}

		c.expect(token.Colon, "expected ':' after 'else'")
		c.block(line, token.End)
		break
	}

	c.expect(token.End, "expected 'end' to close 'if'")
	for _, ci := range endJumps {
		c.fc.patchJump(ci, c.fc.constLen(), c.fc.opLen())
	}
}

func (c *Compiler) whileStatement() {
	line := c.previous.Line
	loopTopConst, loopTopOp := c.fc.constLen(), c.fc.opLen()

	c.compileExpression()
	c.expect(token.Colon, "expected ':' after condition")
	ciJF := c.fc.reserveJumpPlaceholder()
	c.fc.emit(op.JumpIfFalse, line)

	c.fc.context = append(c.fc.context, ctxLoop)
	c.fc.breaks = append(c.fc.breaks, nil)
	c.block(line, token.End)
	breaks := c.fc.breaks[len(c.fc.breaks)-1]
	c.fc.breaks = c.fc.breaks[:len(c.fc.breaks)-1]
	c.fc.context = c.fc.context[:len(c.fc.context)-1]

	c.fc.emitConst(value.Int(loopTopConst))
	c.fc.emitConst(value.Int(loopTopOp))
	c.fc.emit(op.Jump, line)

	c.expect(token.End, "expected 'end' to close 'while'")
	c.fc.patchJump(ciJF, c.fc.constLen(), c.fc.opLen())
	for _, ci := range breaks {
		c.fc.patchJump(ci, c.fc.constLen(), c.fc.opLen())
	}
}

// rangeOperand is either a literal value known at compile time or a
// reference to an existing local, for the START/STOP/STEP operands of a
// `for` loop header (spec.md §4.2).
type rangeOperand struct {
	literal  value.Value
	isLocal  bool
	slot     int64
	name     string
}

func (c *Compiler) parseRangeOperand() rangeOperand {
	switch {
	case c.match(token.Integer):
		n, err := parseInt(c.previous.Lexeme)
		if err != nil {
			c.errorAtPrevious("invalid integer literal %q", c.previous.Lexeme)
			return rangeOperand{literal: value.Int(0)}
		}
		return rangeOperand{literal: value.Int(n)}
	case c.match(token.Double):
		f, err := parseFloat(c.previous.Lexeme)
		if err != nil {
			c.errorAtPrevious("invalid float literal %q", c.previous.Lexeme)
			return rangeOperand{literal: value.Float(0)}
		}
		return rangeOperand{literal: value.Float(f)}
	case c.match(token.Identifier):
		name := c.previous.Lexeme
		info, ok := c.fc.lookupLocal(name)
		if !ok {
			c.errorAtPrevious("undefined variable %q", name)
			return rangeOperand{literal: value.Int(0)}
		}
		return rangeOperand{isLocal: true, slot: info.slot, name: name}
	default:
		c.errorAtCurrent("expected integer, float, or identifier in 'for' range")
		return rangeOperand{literal: value.Int(0)}
	}
}

func (c *Compiler) emitRangeOperand(r rangeOperand, line int) {
	if r.isLocal {
		c.fc.emitOperandInt(op.LoadLocal, line, r.slot)
	} else {
		c.fc.emitLoadConstant(r.literal, line)
	}
}

func (c *Compiler) forStatement() {
	line := c.previous.Line
	c.expect(token.Identifier, "expected loop variable name")
	name := c.previous.Lexeme
	c.expect(token.In, "expected 'in' after 'for' variable")

	start := c.parseRangeOperand()
	c.expect(token.DotDot, "expected '..' in 'for' range")
	stop := c.parseRangeOperand()
	step := rangeOperand{literal: value.Int(1)}
	if c.match(token.By) {
		step = c.parseRangeOperand()
	}
	c.expect(token.Colon, "expected ':' after 'for' range")

	existing, exists := c.fc.lookupLocal(name)
	var slot int64
	if exists {
		if existing.isFinal {
			c.errorAtPrevious("cannot use final variable %q as a 'for' loop variable", name)
		}
		if c.verbose {
			c.warningAt(c.previous, "'for' loop reuses existing variable %q", name)
		}
		slot = existing.slot
	} else {
		slot = c.fc.declareLocal(name, false)
		c.fc.emit(op.DeclareLocal, line)
	}

	c.emitRangeOperand(start, line)
	c.fc.emitOperandInt(op.AssignLocal, line, slot)

	loopTopConst, loopTopOp := c.fc.constLen(), c.fc.opLen()
	c.fc.emitOperandInt(op.LoadLocal, line, slot)
	c.emitRangeOperand(stop, line)
	c.fc.emit(op.Less, line)
	ciJF := c.fc.reserveJumpPlaceholder()
	c.fc.emit(op.JumpIfFalse, line)

	c.fc.context = append(c.fc.context, ctxLoop)
	c.fc.breaks = append(c.fc.breaks, nil)
	c.block(line, token.End)
	breaks := c.fc.breaks[len(c.fc.breaks)-1]
	c.fc.breaks = c.fc.breaks[:len(c.fc.breaks)-1]
	c.fc.context = c.fc.context[:len(c.fc.context)-1]

	c.fc.emitOperandInt(op.LoadLocal, line, slot)
	c.emitRangeOperand(step, line)
	c.fc.emit(op.Add, line)
	c.fc.emitOperandInt(op.AssignLocal, line, slot)

	c.fc.emitConst(value.Int(loopTopConst))
	c.fc.emitConst(value.Int(loopTopOp))
	c.fc.emit(op.Jump, line)

	c.expect(token.End, "expected 'end' to close 'for'")
	c.fc.patchJump(ciJF, c.fc.constLen(), c.fc.opLen())
	for _, ci := range breaks {
		c.fc.patchJump(ci, c.fc.constLen(), c.fc.opLen())
	}
}

func (c *Compiler) returnStatement() {
	line := c.previous.Line
	if c.fc.isMain {
		c.errorAtPrevious("cannot return from 'main'")
	}
	c.fc.hadReturn = true

	if c.match(token.Semicolon) {
		c.fc.emitLoadConstant(value.Null, line)
		c.fc.emit(op.Return, line)
		return
	}
	c.compileExpression()
	c.fc.emit(op.Return, line)
	c.expect(token.Semicolon, "expected ';' after return value")
}

func (c *Compiler) breakStatement() {
	line := c.previous.Line
	if len(c.fc.breaks) == 0 {
		c.errorAtPrevious("'break' outside of a loop")
		c.expect(token.Semicolon, "expected ';' after 'break'")
		return
	}
	ci := c.fc.reserveJumpPlaceholder()
	c.fc.emit(op.Jump, line)
	top := len(c.fc.breaks) - 1
	c.fc.breaks[top] = append(c.fc.breaks[top], ci)
	c.expect(token.Semicolon, "expected ';' after 'break'")
}

func (c *Compiler) assertStatement() {
	line := c.previous.Line
	c.expect(token.LeftParen, "expected '(' after 'assert'")
	c.compileExpression()

	hasMsg := false
	var msg string
	if c.match(token.Comma) {
		c.expect(token.String, "expected string message after ','")
		var err error
		msg, err = unescapeString(c.previous.Lexeme)
		if err != nil {
			c.errorAtPrevious("%s", err.Error())
		}
		hasMsg = true
	}
	c.expect(token.RightParen, "expected ')' after assert arguments")

	if hasMsg {
		c.fc.emitConst(value.String(msg))
		c.fc.emit(op.AssertWithMessage, line)
	} else {
		c.fc.emit(op.Assert, line)
	}
	c.expect(token.Semicolon, "expected ';' after 'assert'")
}

func (c *Compiler) printStatement(newline bool) {
	line := c.previous.Line
	c.expect(token.LeftParen, "expected '(' after print/println")
	if c.match(token.RightParen) {
		if newline {
			c.fc.emit(op.PrintEmptyLine, line)
		} else {
			c.fc.emit(op.PrintTab, line)
		}
	} else {
		c.compileExpression()
		if newline {
			c.fc.emit(op.PrintLn, line)
		} else {
			c.fc.emit(op.Print, line)
		}
		c.expect(token.RightParen, "expected ')' after expression")
	}
	c.expect(token.Semicolon, "expected ';' after print statement")
}
