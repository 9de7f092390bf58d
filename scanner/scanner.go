// Package scanner splits source bytes into lexemes. Scanning is total:
// bytes that cannot start any lexeme become Error lexemes carrying a
// diagnostic code, and every newline is recorded in a line table as it is
// passed.
package scanner

import (
	"unicode/utf8"

	"github.com/rubiojr/berg/diag"
	"github.com/rubiojr/berg/source"
)

// Kind classifies a lexeme.
type Kind uint8

const (
	Space Kind = iota
	Newline
	Integer
	Identifier
	Operator // maximal run of +-*/<>=!&|
	Dot
	Colon
	Comma
	Semicolon
	OpenParen
	CloseParen
	OpenBrace
	CloseBrace
	Error
)

var kindNames = [...]string{
	"Space", "Newline", "Integer", "Identifier", "Operator", "Dot", "Colon",
	"Comma", "Semicolon", "OpenParen", "CloseParen", "OpenBrace", "CloseBrace", "Error",
}

func (k Kind) String() string { return kindNames[k] }

// Lexeme is a classified run of bytes.
type Lexeme struct {
	Kind  Kind
	Range source.ByteRange
	// Indent is the width of the whitespace that follows the last line
	// break of a Newline lexeme.
	Indent int
	// Code is set on Error lexemes.
	Code diag.Code
}

// Scanner iterates over the lexemes of a buffer.
type Scanner struct {
	buf   []byte
	pos   int
	lines *source.LineTable
}

// New creates a Scanner for buf. The line table is filled in as lexemes
// are read.
func New(name string, buf []byte) *Scanner {
	return &Scanner{buf: buf, lines: source.NewLineTable(name, len(buf))}
}

// Lines returns the line table recorded so far.
func (s *Scanner) Lines() *source.LineTable { return s.lines }

// Pos returns the offset of the next unread byte.
func (s *Scanner) Pos() source.ByteIndex { return source.ByteIndex(s.pos) }

// Scan returns every lexeme of buf and the complete line table.
func Scan(name string, buf []byte) ([]Lexeme, *source.LineTable) {
	s := New(name, buf)
	var out []Lexeme
	for lx, ok := s.Next(); ok; lx, ok = s.Next() {
		out = append(out, lx)
	}
	return out, s.lines
}

// Next returns the next lexeme, or false at end of input.
func (s *Scanner) Next() (Lexeme, bool) {
	if s.pos >= len(s.buf) {
		return Lexeme{}, false
	}
	start := s.pos
	lx := Lexeme{}
	switch ch := s.buf[s.pos]; {
	case ch == ' ' || ch == '\t':
		lx.Kind = Space
		s.skipWhile(isSpace)
	case ch == '\n' || ch == '\r':
		lx.Kind = Newline
		lx.Indent = s.newlines()
	case isDigit(ch):
		lx.Kind = Integer
		s.skipWhile(isDigit)
		if s.pos < len(s.buf) && isIdentChar(s.buf[s.pos]) {
			s.skipWhile(isIdentChar)
			lx.Kind = Error
			lx.Code = diag.IdentifierStartsWithNumber
		}
	case isIdentStart(ch):
		lx.Kind = Identifier
		s.skipWhile(isIdentChar)
	case isOperatorChar(ch):
		lx.Kind = Operator
		s.skipWhile(isOperatorChar)
	case ch < utf8.RuneSelf && punctuation[ch] != Error:
		lx.Kind = punctuation[ch]
		s.pos++
	default:
		lx.Kind = Error
		lx.Code = s.unsupported()
	}
	lx.Range = source.Range(source.ByteIndex(start), source.ByteIndex(s.pos))
	return lx, true
}

// newlines consumes a run of line breaks and the blank-line whitespace
// between them, recording each line start. It returns the indentation of
// the line that follows.
func (s *Scanner) newlines() int {
	indent := 0
	for s.pos < len(s.buf) {
		switch s.buf[s.pos] {
		case '\r':
			s.pos++
			if s.pos < len(s.buf) && s.buf[s.pos] == '\n' {
				s.pos++
			}
		case '\n':
			s.pos++
		default:
			return indent
		}
		s.lines.AddLineStart(source.ByteIndex(s.pos))
		start := s.pos
		s.skipWhile(isSpace)
		indent = s.pos - start
	}
	return indent
}

// unsupported consumes a run of bytes that cannot start a lexeme. Invalid
// UTF-8 and valid but unsupported characters are reported separately, so a
// run only ever holds one of the two.
func (s *Scanner) unsupported() diag.Code {
	invalid := !s.validAt(s.pos)
	for s.pos < len(s.buf) {
		ch := s.buf[s.pos]
		if ch < utf8.RuneSelf && (isSpace(ch) || ch == '\n' || ch == '\r' || startsLexeme(ch)) {
			break
		}
		if s.validAt(s.pos) == invalid {
			break
		}
		if invalid {
			s.pos++
			continue
		}
		_, size := utf8.DecodeRune(s.buf[s.pos:])
		s.pos += size
	}
	if invalid {
		return diag.InvalidUtf8
	}
	return diag.UnsupportedCharacters
}

func (s *Scanner) validAt(i int) bool {
	r, size := utf8.DecodeRune(s.buf[i:])
	return !(r == utf8.RuneError && size <= 1)
}

func (s *Scanner) skipWhile(pred func(byte) bool) {
	for s.pos < len(s.buf) && pred(s.buf[s.pos]) {
		s.pos++
	}
}

var punctuation = func() (t [utf8.RuneSelf]Kind) {
	for i := range t {
		t[i] = Error
	}
	t['.'] = Dot
	t[':'] = Colon
	t[','] = Comma
	t[';'] = Semicolon
	t['('] = OpenParen
	t[')'] = CloseParen
	t['{'] = OpenBrace
	t['}'] = CloseBrace
	return t
}()

func isSpace(ch byte) bool      { return ch == ' ' || ch == '\t' }
func isDigit(ch byte) bool      { return ch >= '0' && ch <= '9' }
func isIdentStart(ch byte) bool { return ch == '_' || (ch|0x20 >= 'a' && ch|0x20 <= 'z') }
func isIdentChar(ch byte) bool  { return isIdentStart(ch) || isDigit(ch) }

func isOperatorChar(ch byte) bool {
	switch ch {
	case '+', '-', '*', '/', '<', '>', '=', '!', '&', '|':
		return true
	}
	return false
}

func startsLexeme(ch byte) bool {
	return isDigit(ch) || isIdentStart(ch) || isOperatorChar(ch) || punctuation[ch] != Error
}
