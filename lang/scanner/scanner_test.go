package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/universalsequences/zlisp/lang/scanner"
	"github.com/universalsequences/zlisp/lang/token"
)

func kinds(t *testing.T, toks []scanner.TokenAndValue) []token.Token {
	t.Helper()
	ks := make([]token.Token, len(toks))
	for i, tv := range toks {
		ks[i] = tv.Token
	}
	return ks
}

func TestScanAllBasicForm(t *testing.T) {
	toks, err := scanner.ScanAll("t.zl", "(+ 1 2)")
	require.NoError(t, err)
	assert.Equal(t, []token.Token{
		token.LPAREN, token.SYMBOL, token.NUMBER, token.NUMBER, token.RPAREN, token.EOF,
	}, kinds(t, toks))
	assert.Equal(t, "+", toks[1].Text)
	assert.Equal(t, "1", toks[2].Text)
	assert.Equal(t, "2", toks[3].Text)
}

func TestScanAllNegativeAndFloat(t *testing.T) {
	toks, err := scanner.ScanAll("t.zl", "-3 -0.5 .25")
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, token.NUMBER, toks[0].Token)
	assert.Equal(t, "-3", toks[0].Text)
	assert.Equal(t, token.NUMBER, toks[1].Token)
	assert.Equal(t, "-0.5", toks[1].Text)
	// A bare leading '.' isn't itself a digit, so ".25" scans as a symbol;
	// numeric literals always start with a digit or '-digit'/'-.'.
	assert.Equal(t, token.SYMBOL, toks[2].Token)
}

func TestScanAllStringEscapes(t *testing.T) {
	toks, err := scanner.ScanAll("t.zl", `"a\n\t\"b\\c"`)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING, toks[0].Token)
	assert.Equal(t, "a\n\t\"b\\c", toks[0].Text)
}

func TestScanAllObjectBraces(t *testing.T) {
	toks, err := scanner.ScanAll("t.zl", `{ a 1 b 2 }`)
	require.NoError(t, err)
	assert.Equal(t, []token.Token{
		token.LBRACE, token.SYMBOL, token.NUMBER, token.SYMBOL, token.NUMBER, token.RBRACE, token.EOF,
	}, kinds(t, toks))
}

func TestScanAllQuoteSymbol(t *testing.T) {
	toks, err := scanner.ScanAll("t.zl", `'foo`)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.SYMBOL, toks[0].Token)
	assert.Equal(t, "'foo", toks[0].Text)
}

func TestScanAllUnterminatedString(t *testing.T) {
	_, err := scanner.ScanAll("t.zl", `"abc`)
	require.Error(t, err)
}

func TestScanAllInvalidEscape(t *testing.T) {
	_, err := scanner.ScanAll("t.zl", `"a\qb"`)
	require.Error(t, err)
}

func TestScanAllTracksPositions(t *testing.T) {
	toks, err := scanner.ScanAll("t.zl", "(+ 1\n   2)")
	require.NoError(t, err)
	// '2' lands on line 2.
	var found bool
	for _, tv := range toks {
		if tv.Token == token.NUMBER && tv.Text == "2" {
			assert.Equal(t, 2, tv.Pos.Line)
			found = true
		}
	}
	assert.True(t, found)
}
