package parser

import (
	"strings"

	"github.com/rubiojr/berg/ast"
	"github.com/rubiojr/berg/scanner"
	"github.com/rubiojr/berg/source"
)

// sequencer walks the lexemes and resolves each operator to prefix, infix
// or postfix from what surrounds it.
type sequencer struct {
	lexemes []scanner.Lexeme
	buf     []byte
	g       *grouper
	// prevTerm is true when the last thing sent ends a term, so an
	// operator that follows can be infix or postfix.
	prevTerm bool
}

func newSequencer(lexemes []scanner.Lexeme, buf []byte, g *grouper) *sequencer {
	return &sequencer{lexemes: lexemes, buf: buf, g: g}
}

func (s *sequencer) text(i int) string { return string(s.lexemes[i].Range.Slice(s.buf)) }

func (s *sequencer) kind(i int) scanner.Kind {
	if i < 0 || i >= len(s.lexemes) {
		return scanner.Newline
	}
	return s.lexemes[i].Kind
}

func (s *sequencer) run() {
	if len(s.lexemes) > 0 && s.lexemes[0].Kind == scanner.Space {
		s.g.lineIndent = s.lexemes[0].Range.Len()
	}
	for i, lx := range s.lexemes {
		r := lx.Range
		switch lx.Kind {
		case scanner.Space:
		case scanner.Newline:
			if i == len(s.lexemes)-1 {
				continue
			}
			next := s.startsTerm(i + 1)
			s.g.newline(r, lx.Indent, next, s.heading(i+1))
			if s.prevTerm && next {
				s.prevTerm = false
			}
		case scanner.Integer:
			s.g.literal(r)
			s.prevTerm = true
		case scanner.Identifier:
			s.g.identifier(r)
			s.prevTerm = true
		case scanner.Error:
			s.g.errorTerm(lx.Code, r)
			s.prevTerm = true
		case scanner.Operator:
			if depth := s.heading(i); depth > 0 {
				s.g.heading(depth, r)
				s.prevTerm = false
				continue
			}
			s.operator(i)
		case scanner.Dot:
			s.g.infix(ast.OpDot, r)
			s.prevTerm = false
		case scanner.Colon:
			if s.prevTerm {
				s.g.infix(ast.OpUnknown, r)
			} else {
				s.g.prefix(ast.OpDeclare, r)
			}
			s.prevTerm = false
		case scanner.Comma:
			if s.trailing(i) {
				s.g.postfix(ast.OpComma, r)
				s.prevTerm = true
				continue
			}
			s.g.infix(ast.OpComma, r)
			s.prevTerm = false
		case scanner.Semicolon:
			if s.prevTerm && s.trailing(i) {
				s.g.infix(ast.OpSemicolon, r)
				s.g.empty(source.At(r.End))
				continue
			}
			s.g.infix(ast.OpSemicolon, r)
			s.prevTerm = false
		case scanner.OpenParen, scanner.OpenBrace:
			s.g.open(boundaryOf(lx.Kind), r)
			s.prevTerm = false
		case scanner.CloseParen, scanner.CloseBrace:
			s.g.close(boundaryOf(lx.Kind), r)
			s.prevTerm = true
		}
	}
	s.g.end(source.At(source.ByteIndex(len(s.buf))))
}

func boundaryOf(k scanner.Kind) ast.Boundary {
	if k == scanner.OpenBrace || k == scanner.CloseBrace {
		return ast.Brace
	}
	return ast.Paren
}

// operator resolves the operator run at lexeme i.
func (s *sequencer) operator(i int) {
	sym := s.text(i)
	r := s.lexemes[i].Range

	if !s.prevTerm {
		if op, ok := ast.LookupPrefix(sym); ok {
			s.g.prefix(op, r)
		} else if isPrefixChars(sym) {
			s.prefixChars(r.Start, sym)
		} else {
			op, _ := ast.LookupInfix(sym)
			s.g.infix(op, r)
		}
		return
	}

	next := i + 1
	if s.kind(next) == scanner.Space {
		next++
	}
	nextStarts := s.startsTerm(next)
	spaceBefore := s.kind(i-1) == scanner.Space
	spaceAfter := s.kind(i+1) == scanner.Space || s.kind(i+1) == scanner.Newline

	if op, ok := ast.LookupPostfix(sym); ok && op != ast.OpComma {
		if !nextStarts || (spaceAfter && !spaceBefore) {
			s.g.postfix(op, r)
			return
		}
	}
	s.prevTerm = false
	if op, ok := ast.LookupInfix(sym); ok {
		s.g.infix(op, r)
		return
	}
	// 1*-2 is the infix head followed by prefix operators.
	for h := len(sym) - 1; h > 0; h-- {
		if op, ok := ast.LookupInfix(sym[:h]); ok && isPrefixChars(sym[h:]) {
			s.g.infix(op, source.Range(r.Start, r.Start+source.ByteIndex(h)))
			s.prefixChars(r.Start+source.ByteIndex(h), sym[h:])
			return
		}
	}
	// f !x applies f to !x.
	if isPrefixChars(sym) && spaceBefore && !spaceAfter {
		s.prefixChars(r.Start, sym)
		return
	}
	s.g.infix(ast.OpUnknown, r)
}

func (s *sequencer) prefixChars(start source.ByteIndex, sym string) {
	for k := 0; k < len(sym); k++ {
		op, _ := ast.LookupPrefix(sym[k : k+1])
		at := start + source.ByteIndex(k)
		s.g.prefix(op, source.Range(at, at+1))
	}
}

func isPrefixChars(sym string) bool {
	return sym != "" && strings.Trim(sym, "-+!") == ""
}

// startsTerm reports whether lexeme i can begin a term.
func (s *sequencer) startsTerm(i int) bool {
	switch s.kind(i) {
	case scanner.Integer, scanner.Identifier, scanner.Error,
		scanner.OpenParen, scanner.OpenBrace, scanner.Colon:
		return true
	case scanner.Operator:
		if s.heading(i) > 0 {
			return true
		}
		switch s.text(i)[0] {
		case '-', '+', '!':
			return true
		}
	}
	return false
}

// trailing reports whether only closes, blanks or the end of input follow
// lexeme i.
func (s *sequencer) trailing(i int) bool {
	for j := i + 1; j < len(s.lexemes); j++ {
		switch s.lexemes[j].Kind {
		case scanner.Space, scanner.Newline:
		case scanner.CloseParen, scanner.CloseBrace:
			return true
		default:
			return false
		}
	}
	return true
}

// heading returns the depth of a heading marker at lexeme i, or 0. A marker
// is a run of at least three = (depth 1) or - (depth 2) alone on its line.
func (s *sequencer) heading(i int) uint8 {
	if s.kind(i) != scanner.Operator {
		return 0
	}
	sym := s.text(i)
	var depth uint8
	switch {
	case len(sym) < 3:
		return 0
	case strings.Trim(sym, "=") == "":
		depth = 1
	case strings.Trim(sym, "-") == "":
		depth = 2
	default:
		return 0
	}
	prev := i - 1
	if s.kind(prev) == scanner.Space {
		prev--
	}
	next := i + 1
	if s.kind(next) == scanner.Space {
		next++
	}
	if s.kind(prev) != scanner.Newline || s.kind(next) != scanner.Newline {
		return 0
	}
	return depth
}
