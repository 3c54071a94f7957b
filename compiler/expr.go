package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lgtm-migrator/grace/op"
	"github.com/lgtm-migrator/grace/table"
	"github.com/lgtm-migrator/grace/token"
	"github.com/lgtm-migrator/grace/value"
)

// compileExpression parses one expression at the lowest precedence level
// (`or`) and leaves its value on the stack. Assignment is a statement
// form (see assignmentStatement), not part of this grammar, so chained
// assignment (`x = y = z`) is rejected by construction rather than by a
// special-case check (spec.md §4.2).
func (c *Compiler) compileExpression() {
	c.orExpr()
}

func (c *Compiler) orExpr() {
	c.andExpr()
	for c.match(token.Or) {
		line := c.previous.Line
		c.andExpr()
		c.fc.emit(op.Or, line)
	}
}

func (c *Compiler) andExpr() {
	c.equality()
	for c.match(token.And) {
		line := c.previous.Line
		c.equality()
		c.fc.emit(op.And, line)
	}
}

func (c *Compiler) equality() {
	c.comparison()
	for {
		switch {
		case c.match(token.EqualEqual):
			line := c.previous.Line
			c.comparison()
			c.fc.emit(op.Equal, line)
		case c.match(token.BangEqual):
			line := c.previous.Line
			c.comparison()
			c.fc.emit(op.NotEqual, line)
		default:
			return
		}
	}
}

func (c *Compiler) comparison() {
	c.term()
	for {
		switch {
		case c.match(token.Less):
			line := c.previous.Line
			c.term()
			c.fc.emit(op.Less, line)
		case c.match(token.LessEqual):
			line := c.previous.Line
			c.term()
			c.fc.emit(op.LessEqual, line)
		case c.match(token.Greater):
			line := c.previous.Line
			c.term()
			c.fc.emit(op.Greater, line)
		case c.match(token.GreaterEqual):
			line := c.previous.Line
			c.term()
			c.fc.emit(op.GreaterEqual, line)
		default:
			return
		}
	}
}

func (c *Compiler) term() {
	c.factor()
	for {
		switch {
		case c.match(token.Plus):
			line := c.previous.Line
			c.factor()
			c.fc.emit(op.Add, line)
		case c.match(token.Minus):
			line := c.previous.Line
			c.factor()
			c.fc.emit(op.Subtract, line)
		default:
			return
		}
	}
}

func (c *Compiler) factor() {
	c.unary()
	for {
		switch {
		case c.match(token.StarStar):
			line := c.previous.Line
			c.unary()
			c.fc.emit(op.Pow, line)
		case c.match(token.Star):
			line := c.previous.Line
			c.unary()
			c.fc.emit(op.Multiply, line)
		case c.match(token.Slash):
			line := c.previous.Line
			c.unary()
			c.fc.emit(op.Divide, line)
		case c.match(token.Percent):
			line := c.previous.Line
			c.unary()
			c.fc.emit(op.Mod, line)
		default:
			return
		}
	}
}

func (c *Compiler) unary() {
	switch {
	case c.match(token.Bang):
		line := c.previous.Line
		c.unary()
		c.fc.emit(op.Not, line)
	case c.match(token.Minus):
		line := c.previous.Line
		c.unary()
		c.fc.emit(op.Negate, line)
	default:
		c.primary()
	}
}

func isTypeIdentToken(t token.Type) bool {
	switch t {
	case token.IntIdent, token.FloatIdent, token.BoolIdent, token.StringIdent, token.CharIdent:
		return true
	default:
		return false
	}
}

func (c *Compiler) primary() {
	switch {
	case c.match(token.True):
		c.fc.emitLoadConstant(value.Bool(true), c.previous.Line)
	case c.match(token.False):
		c.fc.emitLoadConstant(value.Bool(false), c.previous.Line)
	case c.match(token.Null):
		c.fc.emitLoadConstant(value.Null, c.previous.Line)
	case c.match(token.Integer):
		c.integerLiteral()
	case c.match(token.Double):
		c.doubleLiteral()
	case c.match(token.String):
		c.stringLiteral()
	case c.match(token.Char):
		c.charLiteral()
	case c.match(token.LeftParen):
		c.compileExpression()
		c.expect(token.RightParen, "expected ')'")
	case c.match(token.Instanceof):
		c.instanceOfExpr()
	case isTypeIdentToken(c.current.Type):
		c.castExpr()
	case c.match(token.Identifier):
		c.identifierExpr()
	default:
		c.errorAtCurrent("expected expression")
		c.advance()
	}
}

func (c *Compiler) integerLiteral() {
	n, err := parseInt(c.previous.Lexeme)
	if err != nil {
		c.errorAtPrevious("invalid integer literal %q", c.previous.Lexeme)
		return
	}
	c.fc.emitLoadConstant(value.Int(n), c.previous.Line)
}

func (c *Compiler) doubleLiteral() {
	f, err := parseFloat(c.previous.Lexeme)
	if err != nil {
		c.errorAtPrevious("invalid float literal %q", c.previous.Lexeme)
		return
	}
	c.fc.emitLoadConstant(value.Float(f), c.previous.Line)
}

func (c *Compiler) stringLiteral() {
	s, err := unescapeString(c.previous.Lexeme)
	if err != nil {
		c.errorAtPrevious("%s", err.Error())
		return
	}
	c.fc.emitLoadConstant(value.String(s), c.previous.Line)
}

func (c *Compiler) charLiteral() {
	ch, err := unescapeChar(c.previous.Lexeme)
	if err != nil {
		c.errorAtPrevious("%s", err.Error())
		return
	}
	c.fc.emitLoadConstant(value.Char(ch), c.previous.Line)
}

// identifierExpr disambiguates a bare identifier from a call, per
// spec.md §4.2's "Identifier/call disambiguation": `ident(` begins a
// call; otherwise the identifier must already be a known local.
func (c *Compiler) identifierExpr() {
	name := c.previous.Lexeme
	nameTok := c.previous
	line := c.previous.Line

	if c.match(token.LeftParen) {
		var nargs int64
		if !c.match(token.RightParen) {
			for {
				c.compileExpression()
				nargs++
				if c.match(token.RightParen) {
					break
				}
				c.expect(token.Comma, "expected ',' after call argument")
			}
		}
		c.fc.emitConst(value.Int(table.HashName(name)))
		c.fc.emitConst(value.Int(nargs))
		c.fc.emit(op.Call, line)
		return
	}

	info, ok := c.fc.lookupLocal(name)
	if !ok {
		c.errorAt(nameTok, "undefined variable %q", name)
		return
	}
	c.fc.emitOperandInt(op.LoadLocal, line, info.slot)
}

// instanceOfExpr compiles `instanceof(expr, TypeIdent)` into the value's
// CheckType opcode with the type tag from spec.md §4.4.
func (c *Compiler) instanceOfExpr() {
	line := c.previous.Line
	c.expect(token.LeftParen, "expected '(' after 'instanceof'")
	c.compileExpression()
	c.expect(token.Comma, "expected ',' after expression")

	var tag int64
	switch c.current.Type {
	case token.BoolIdent:
		tag = int64(op.TypeBool)
	case token.CharIdent:
		tag = int64(op.TypeChar)
	case token.FloatIdent:
		tag = int64(op.TypeFloat)
	case token.IntIdent:
		tag = int64(op.TypeInt)
	case token.Null:
		tag = int64(op.TypeNull)
	case token.StringIdent:
		tag = int64(op.TypeString)
	default:
		c.errorAtCurrent("expected a type as the second argument to 'instanceof'")
		return
	}
	c.advance() // consume the type token
	c.fc.emitOperandInt(op.CheckType, line, tag)
	c.expect(token.RightParen, "expected ')'")
}

var castOps = map[token.Type]op.Code{
	token.IntIdent:    op.CastAsInt,
	token.FloatIdent:  op.CastAsFloat,
	token.BoolIdent:   op.CastAsBool,
	token.StringIdent: op.CastAsString,
	token.CharIdent:   op.CastAsChar,
}

// castExpr compiles `Int(expr)`, `Float(expr)`, `Bool(expr)`,
// `String(expr)`, `Char(expr)` — the type identifier tokens used as cast
// pseudo-calls (original_source/src/compiler.cpp's `Cast`).
func (c *Compiler) castExpr() {
	typ := c.current.Type
	c.advance()
	line := c.previous.Line
	c.expect(token.LeftParen, "expected '(' after type name")
	c.compileExpression()
	c.fc.emit(castOps[typ], line)
	c.expect(token.RightParen, "expected ')' after expression")
}

func parseInt(lexeme string) (int64, error) {
	return strconv.ParseInt(lexeme, 10, 64)
}

func parseFloat(lexeme string) (float64, error) {
	return strconv.ParseFloat(lexeme, 64)
}

var escapeTable = map[byte]byte{
	't':  '\t',
	'b':  '\b',
	'n':  '\n',
	'r':  '\r',
	'f':  '\f',
	'\'': '\'',
	'"':  '"',
	'\\': '\\',
}

// unescapeString interprets the escape sequences of spec.md §4.2 in a raw
// (still-escaped) string lexeme.
func unescapeString(raw string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' {
			b.WriteByte(raw[i])
			continue
		}
		i++
		if i >= len(raw) {
			return "", fmt.Errorf("expected escape character after '\\'")
		}
		c, ok := escapeTable[raw[i]]
		if !ok {
			return "", fmt.Errorf("unrecognised escape character '\\%c'", raw[i])
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

// unescapeChar interprets a raw (still-escaped) char lexeme, which must
// contain exactly one code unit or one recognised escape sequence.
func unescapeChar(raw string) (rune, error) {
	switch len(raw) {
	case 1:
		if raw[0] == '\\' {
			return 0, fmt.Errorf("expected escape character after '\\'")
		}
		return rune(raw[0]), nil
	case 2:
		if raw[0] != '\\' {
			return 0, fmt.Errorf("'Char' must contain a single character or escape sequence")
		}
		c, ok := escapeTable[raw[1]]
		if !ok {
			return 0, fmt.Errorf("unrecognised escape character '\\%c'", raw[1])
		}
		return rune(c), nil
	default:
		return 0, fmt.Errorf("'Char' must contain a single character or escape sequence")
	}
}
