package ast

import (
	"github.com/rubiojr/berg/diag"
	"github.com/rubiojr/berg/source"
)

// Expression is a view of the subtree rooted at one index. It holds no
// state of its own; children are recomputed from the token deltas.
type Expression struct {
	ast   *Ast
	index Index
}

// Ast returns the arena the expression lives in.
func (e Expression) Ast() *Ast { return e.ast }

// Index returns the index of the subtree root.
func (e Expression) Index() Index { return e.index }

// Token returns the root token.
func (e Expression) Token() Token { return e.ast.tokens[e.index] }

// Kind returns the kind of the root token.
func (e Expression) Kind() Kind { return e.ast.tokens[e.index].Kind }

// TokenRange returns the bytes of the root token alone.
func (e Expression) TokenRange() source.ByteRange { return e.ast.ranges[e.index] }

func (e Expression) at(i Index) Expression { return Expression{ast: e.ast, index: i} }

func (e Expression) offset(d Delta) Index { return Index(int64(e.index) + int64(d)) }

// Left returns the left operand of an infix node.
func (e Expression) Left() Expression { return e.at(e.offset(e.Token().Delta)) }

// Right returns the right operand of an infix node.
func (e Expression) Right() Expression { return e.at(e.index - 1) }

// Operand returns the operand of a prefix or postfix node.
func (e Expression) Operand() Expression { return e.at(e.index - 1) }

// Inner returns the contents of a group. The receiver must be a Close.
func (e Expression) Inner() Expression { return e.at(e.index - 1) }

// Open returns the Open matching a Close.
func (e Expression) Open() Expression { return e.at(e.offset(e.Token().Delta)) }

// Child resolves a relative position from e. Prefix operands sit to the
// right of the operator and postfix operands to the left; a group passes
// either step through to its contents. Terms have no children and resolve
// to themselves.
func (e Expression) Child(p diag.Position) Expression {
	for _, step := range p.Steps() {
		e = e.step(step)
	}
	return e
}

func (e Expression) step(p diag.Position) Expression {
	switch e.Kind() {
	case Infix:
		if p == diag.Left {
			return e.Left()
		}
		return e.Right()
	case Prefix:
		if p == diag.Right {
			return e.Operand()
		}
	case Postfix:
		if p == diag.Left {
			return e.Operand()
		}
	case Close:
		return e.Inner()
	}
	return e
}

// Start returns the first index of the subtree.
func (e Expression) Start() Index {
	i := e.index
	for {
		t := e.ast.tokens[i]
		switch t.Kind {
		case Infix:
			i = Index(int64(i) + int64(t.Delta))
		case Prefix, Postfix:
			i--
		case Close:
			return Index(int64(i) + int64(t.Delta))
		default:
			return i
		}
	}
}

// Range returns the bytes covered by the whole subtree.
func (e Expression) Range() source.ByteRange {
	start := e.Start()
	r := e.ast.ranges[start]
	for i := start + 1; i <= e.index; i++ {
		r = r.Union(e.ast.ranges[i])
	}
	return r
}

// Source returns the source text of the root token.
func (e Expression) Source() []byte { return e.TokenRange().Slice(e.ast.buf) }

// Identifier returns the name of an identifier term.
func (e Expression) Identifier() string { return e.ast.identifiers[e.Token().Ident] }

// Precedence returns how tightly the root binds when displayed.
func (e Expression) Precedence() Precedence {
	t := e.Token()
	return PrecedenceOf(t.Kind, t.Op)
}
