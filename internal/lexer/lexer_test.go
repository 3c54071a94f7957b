package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lgtm-migrator/grace/internal/lexer"
	"github.com/lgtm-migrator/grace/token"
)

func allTokens(src string) []token.Token {
	lx := lexer.New(src)
	var toks []token.Token
	for {
		tok := lx.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func TestScansArithmeticExpression(t *testing.T) {
	toks := allTokens("1 + 2.5 * x")
	types := make([]token.Type, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	require.Equal(t, []token.Type{
		token.Integer, token.Plus, token.Double, token.Star, token.Identifier, token.EOF,
	}, types)
}

func TestScansTwoCharacterOperators(t *testing.T) {
	toks := allTokens("a <= b >= c == d != e ** f")
	var types []token.Type
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	require.Contains(t, types, token.LessEqual)
	require.Contains(t, types, token.GreaterEqual)
	require.Contains(t, types, token.EqualEqual)
	require.Contains(t, types, token.BangEqual)
	require.Contains(t, types, token.StarStar)
}

func TestScansKeywordsAndTypeIdentifiers(t *testing.T) {
	toks := allTokens("func if Int String")
	require.Equal(t, token.Func, toks[0].Type)
	require.Equal(t, token.If, toks[1].Type)
	require.Equal(t, token.IntIdent, toks[2].Type)
	require.Equal(t, token.StringIdent, toks[3].Type)
}

func TestScansStringWithEscapeLeftRaw(t *testing.T) {
	toks := allTokens(`"hello\nworld"`)
	require.Equal(t, token.String, toks[0].Type)
	require.Equal(t, `hello\nworld`, toks[0].Lexeme)
}

func TestUnterminatedStringIsErrorToken(t *testing.T) {
	toks := allTokens(`"unterminated`)
	require.Equal(t, token.Error, toks[0].Type)
}

func TestScansCharLiteral(t *testing.T) {
	toks := allTokens(`'a'`)
	require.Equal(t, token.Char, toks[0].Type)
	require.Equal(t, "a", toks[0].Lexeme)
}

func TestSkipsLineComments(t *testing.T) {
	toks := allTokens("1 # comment\n+ 2")
	var types []token.Type
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	require.Equal(t, []token.Type{token.Integer, token.Plus, token.Integer, token.EOF}, types)
}

func TestLineAndColumnTracking(t *testing.T) {
	toks := allTokens("var x;\nvar y;")
	// "var" on line 2 should report Line == 2 and Column == 1
	var secondVar token.Token
	count := 0
	for _, tok := range toks {
		if tok.Type == token.Var {
			count++
			if count == 2 {
				secondVar = tok
			}
		}
	}
	require.Equal(t, 2, secondVar.Line)
	require.Equal(t, 1, secondVar.Column)
}

func TestCodeAtLineReturnsSourceLines(t *testing.T) {
	lx := lexer.New("line one\nline two\nline three")
	require.Equal(t, "line one", lx.CodeAtLine(1))
	require.Equal(t, "line two", lx.CodeAtLine(2))
	require.Equal(t, "", lx.CodeAtLine(0))
	require.Equal(t, "", lx.CodeAtLine(99))
}

func TestDotDotVsDot(t *testing.T) {
	toks := allTokens("0..5")
	require.Equal(t, token.Integer, toks[0].Type)
	require.Equal(t, token.DotDot, toks[1].Type)
	require.Equal(t, token.Integer, toks[2].Type)
}
