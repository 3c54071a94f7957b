package token_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lgtm-migrator/grace/token"
)

func TestLookupIdentifierRecognizesKeywords(t *testing.T) {
	require.Equal(t, token.Func, token.LookupIdentifier("func"))
	require.Equal(t, token.While, token.LookupIdentifier("while"))
	require.Equal(t, token.IntIdent, token.LookupIdentifier("Int"))
}

func TestLookupIdentifierFallsBackToIdentifier(t *testing.T) {
	require.Equal(t, token.Identifier, token.LookupIdentifier("whatever"))
	require.Equal(t, token.Identifier, token.LookupIdentifier("Foo"))
}

func TestTokenStringPrefersLexeme(t *testing.T) {
	tok := token.Token{Type: token.Identifier, Lexeme: "count"}
	require.Equal(t, "count", tok.String())

	eof := token.Token{Type: token.EOF}
	require.Equal(t, "EOF", eof.String())
}
