package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/berg/diag"
	"github.com/rubiojr/berg/source"
)

type lexed struct {
	kind Kind
	text string
}

func lex(t *testing.T, src string) []lexed {
	t.Helper()
	lexemes, _ := Scan("test", []byte(src))
	var out []lexed
	for _, lx := range lexemes {
		out = append(out, lexed{lx.Kind, string(lx.Range.Slice([]byte(src)))})
	}
	return out
}

func TestScanBasics(t *testing.T) {
	assert.Equal(t, []lexed{
		{Identifier, "a"}, {Space, " "}, {Operator, "="}, {Space, " "},
		{OpenBrace, "{"}, {Colon, ":"}, {Identifier, "x_1"}, {Operator, "+="},
		{Integer, "10"}, {CloseBrace, "}"}, {Semicolon, ";"}, {Identifier, "a"},
		{Dot, "."}, {Identifier, "x_1"}, {Comma, ","}, {OpenParen, "("},
		{Operator, "*-"}, {CloseParen, ")"},
	}, lex(t, "a = {:x_1+=10};a.x_1,(*-)"))
}

func TestScanEmpty(t *testing.T) {
	lexemes, lines := Scan("empty", nil)
	assert.Empty(t, lexemes)
	assert.Equal(t, 1, lines.LineCount())
}

func TestScanNewlineRuns(t *testing.T) {
	src := "a\r\n\n  \r  b\n\tc"
	lexemes, lines := Scan("test", []byte(src))
	require.Len(t, lexemes, 5)

	nl := lexemes[1]
	assert.Equal(t, Newline, nl.Kind)
	assert.Equal(t, 2, nl.Indent)
	assert.Equal(t, source.Range(1, 9), nl.Range)
	assert.Equal(t, Identifier, lexemes[2].Kind)

	assert.Equal(t, 1, lexemes[3].Indent)
	assert.Equal(t, 5, lines.LineCount())
	pos := lines.Position(lexemes[4].Range.Start)
	assert.Equal(t, 5, pos.Line)
	assert.Equal(t, 2, pos.Column)
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		text string
		code diag.Code
	}{
		{"digit prefix", "12ab3 ", "12ab3", diag.IdentifierStartsWithNumber},
		{"unsupported ascii", "#@ ", "#@", diag.UnsupportedCharacters},
		{"unsupported unicode", "héllo", "é", diag.UnsupportedCharacters},
		{"invalid utf8", "\xff\xfe+", "\xff\xfe", diag.InvalidUtf8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexemes, _ := Scan("test", []byte(tt.src))
			var found *Lexeme
			for i := range lexemes {
				if lexemes[i].Kind == Error {
					found = &lexemes[i]
					break
				}
			}
			require.NotNil(t, found)
			assert.Equal(t, tt.code, found.Code)
			assert.Equal(t, tt.text, string(found.Range.Slice([]byte(tt.src))))
		})
	}
}

func TestScanSeparatesInvalidFromUnsupported(t *testing.T) {
	src := "é\xff"
	got := lex(t, src)
	require.Len(t, got, 2)
	lexemes, _ := Scan("test", []byte(src))
	assert.Equal(t, diag.UnsupportedCharacters, lexemes[0].Code)
	assert.Equal(t, diag.InvalidUtf8, lexemes[1].Code)
}

func TestScanCoversInput(t *testing.T) {
	src := "x =\n  (1 +\r\n 2)\t# ü\xc0 3a"
	lexemes, _ := Scan("test", []byte(src))
	next := source.ByteIndex(0)
	for _, lx := range lexemes {
		assert.Equal(t, next, lx.Range.Start)
		assert.False(t, lx.Range.Empty())
		next = lx.Range.End
	}
	assert.Equal(t, source.ByteIndex(len(src)), next)
}
