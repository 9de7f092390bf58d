// Package ast stores a parsed program as a flat arena of tokens in postfix
// order. Every node follows its children, so a subtree is a contiguous run
// of indices ending at its root and children are found from stored deltas
// instead of pointers.
//
// Layout of a node at index i:
//
//	Infix    right child at i-1, left child at i+Delta
//	Prefix   operand at i-1
//	Postfix  operand at i-1
//	Close    contents at i-1, matching Open at i+Delta
//
// An Ast is immutable once built and may be shared by concurrent readers.
package ast

import (
	"math/big"

	"github.com/rubiojr/berg/source"
)

// Keyword identifiers are interned first in every Ast, so they have the
// same index everywhere.
const (
	KwTrue IdentifierIndex = iota
	KwFalse
	KwNothing
	KwIf
	KwElse
	KwWhile
)

// Keywords lists the names of the keyword identifiers in index order.
var Keywords = []string{"true", "false", "nothing", "if", "else", "while"}

// Ast is a parsed program.
type Ast struct {
	name        string
	buf         []byte
	lines       *source.LineTable
	err         error
	tokens      []Token
	ranges      []source.ByteRange
	literals    []*big.Rat
	identifiers []string
	identIndex  map[string]IdentifierIndex
	root        Index
}

// Name returns the name of the source the Ast was parsed from.
func (a *Ast) Name() string { return a.name }

// Bytes returns the source buffer.
func (a *Ast) Bytes() []byte { return a.buf }

// Lines returns the line table built while tokenizing.
func (a *Ast) Lines() *source.LineTable { return a.lines }

// Err returns the error captured when the source could not be opened.
func (a *Ast) Err() error { return a.err }

// Len returns the number of tokens.
func (a *Ast) Len() int { return len(a.tokens) }

// Token returns the token at i.
func (a *Ast) Token(i Index) Token { return a.tokens[i] }

// Range returns the source bytes covered by the token at i alone.
func (a *Ast) Range(i Index) source.ByteRange { return a.ranges[i] }

// Literal returns a pooled literal. The value must not be modified.
func (a *Ast) Literal(i LiteralIndex) *big.Rat { return a.literals[i] }

// Identifier returns the name of an interned identifier.
func (a *Ast) Identifier(i IdentifierIndex) string { return a.identifiers[i] }

// LookupIdentifier returns the index of name if it was interned.
func (a *Ast) LookupIdentifier(name string) (IdentifierIndex, bool) {
	i, ok := a.identIndex[name]
	return i, ok
}

// Root returns the expression the whole program evaluates.
func (a *Ast) Root() Expression { return Expression{ast: a, index: a.root} }

// Expression returns the subexpression rooted at i.
func (a *Ast) Expression(i Index) Expression { return Expression{ast: a, index: i} }

// Builder appends tokens to a new Ast.
type Builder struct {
	a *Ast
}

// NewBuilder starts an Ast over buf with the keyword identifiers interned.
func NewBuilder(name string, buf []byte, lines *source.LineTable) *Builder {
	a := &Ast{
		name:       name,
		buf:        buf,
		lines:      lines,
		identIndex: make(map[string]IdentifierIndex, len(Keywords)),
	}
	b := &Builder{a: a}
	for _, kw := range Keywords {
		b.Intern(kw)
	}
	return b
}

// Push appends t covering r and returns its index.
func (b *Builder) Push(t Token, r source.ByteRange) Index {
	b.a.tokens = append(b.a.tokens, t)
	b.a.ranges = append(b.a.ranges, r)
	return Index(len(b.a.tokens) - 1)
}

// SetDelta patches the delta of an already pushed token.
func (b *Builder) SetDelta(i Index, d Delta) { b.a.tokens[i].Delta = d }

// Len returns the number of tokens pushed so far.
func (b *Builder) Len() int { return len(b.a.tokens) }

// Literal adds v to the literal pool.
func (b *Builder) Literal(v *big.Rat) LiteralIndex {
	b.a.literals = append(b.a.literals, v)
	return LiteralIndex(len(b.a.literals) - 1)
}

// Intern returns the index of name, adding it to the pool if needed.
func (b *Builder) Intern(name string) IdentifierIndex {
	if i, ok := b.a.identIndex[name]; ok {
		return i
	}
	i := IdentifierIndex(len(b.a.identifiers))
	b.a.identifiers = append(b.a.identifiers, name)
	b.a.identIndex[name] = i
	return i
}

// SetSourceErr records that the source could not be opened.
func (b *Builder) SetSourceErr(err error) { b.a.err = err }

// Finish returns the Ast rooted at the last pushed token. The builder must
// not be used afterwards.
func (b *Builder) Finish() *Ast {
	a := b.a
	if len(a.tokens) == 0 {
		b.Push(Token{Kind: Empty}, source.At(0))
	}
	a.root = Index(len(a.tokens) - 1)
	b.a = nil
	return a
}
