package parser

import (
	"math/big"

	"github.com/rubiojr/berg/ast"
	"github.com/rubiojr/berg/diag"
	"github.com/rubiojr/berg/source"
)

// pending is an operator, or the marker of an open group, waiting on the
// operator stack.
type pending struct {
	kind     ast.Kind
	op       ast.Operator
	prec     ast.Precedence
	rng      source.ByteRange
	open     ast.Index
	boundary ast.Boundary
	depth    uint8
}

// binder places operators by precedence. Terms are written to the arena as
// they arrive; operators wait on a stack until an operator that binds no
// tighter shows up, so every node is written after its children. The
// operand stack holds the first index of each finished subtree.
type binder struct {
	b        *ast.Builder
	buf      []byte
	ops      []pending
	operands []ast.Index
	// expectOperand is true when the next token must start a term.
	expectOperand bool
}

func newBinder(b *ast.Builder, buf []byte) *binder {
	return &binder{b: b, buf: buf, expectOperand: true}
}

func (p *binder) pushTerm(t ast.Token, r source.ByteRange) {
	if !p.expectOperand {
		p.infix(ast.OpApply, source.At(r.Start))
	}
	i := p.b.Push(t, r)
	p.operands = append(p.operands, i)
	p.expectOperand = false
}

func (p *binder) literal(r source.ByteRange) {
	n, ok := new(big.Int).SetString(string(r.Slice(p.buf)), 10)
	if !ok {
		p.errorTerm(diag.UnsupportedCharacters, r)
		return
	}
	li := p.b.Literal(new(big.Rat).SetInt(n))
	p.pushTerm(ast.Token{Kind: ast.Literal, Literal: li}, r)
}

func (p *binder) identifier(r source.ByteRange) {
	ii := p.b.Intern(string(r.Slice(p.buf)))
	p.pushTerm(ast.Token{Kind: ast.Identifier, Ident: ii}, r)
}

func (p *binder) errorTerm(code diag.Code, r source.ByteRange) {
	p.pushTerm(ast.Token{Kind: ast.ErrorTerm, Code: code}, r)
}

func (p *binder) empty(r source.ByteRange) {
	p.pushTerm(ast.Token{Kind: ast.Empty}, r)
}

func (p *binder) missing(at source.ByteIndex) {
	p.errorTerm(diag.MissingOperand, source.At(at))
}

func (p *binder) prefix(op ast.Operator, r source.ByteRange) {
	if !p.expectOperand {
		p.infix(ast.OpApply, source.At(r.Start))
	}
	p.ops = append(p.ops, pending{kind: ast.Prefix, op: op, prec: ast.PrecPrefix, rng: r})
	p.expectOperand = true
}

func (p *binder) infix(op ast.Operator, r source.ByteRange) {
	if p.expectOperand {
		p.missing(r.Start)
	}
	prec := ast.PrecedenceOf(ast.Infix, op)
	p.reduce(prec, ast.RightAssociative(op))
	p.ops = append(p.ops, pending{kind: ast.Infix, op: op, prec: prec, rng: r})
	p.expectOperand = true
}

func (p *binder) postfix(op ast.Operator, r source.ByteRange) {
	if p.expectOperand {
		p.missing(r.Start)
	}
	// A trailing comma closes the whole tuple before it; ++ and -- only
	// take what binds tighter than a prefix operator.
	p.reduce(ast.PrecedenceOf(ast.Postfix, op), op != ast.OpComma)
	p.b.Push(ast.Token{Kind: ast.Postfix, Op: op}, r)
	p.expectOperand = false
}

// separator is a line break between two terms. It separates statements
// only if the previous line is complete and the next one starts a term.
func (p *binder) separator(r source.ByteRange, nextStartsTerm bool) {
	if !p.expectOperand && nextStartsTerm {
		p.infix(ast.OpNewline, r)
	}
}

func (p *binder) openGroup(boundary ast.Boundary, depth uint8, r source.ByteRange) {
	if !p.expectOperand {
		p.infix(ast.OpApply, source.At(r.Start))
	}
	i := p.b.Push(ast.Token{Kind: ast.Open, Boundary: boundary, Depth: depth}, r)
	p.ops = append(p.ops, pending{kind: ast.Open, open: i, boundary: boundary, depth: depth})
	p.expectOperand = true
}

// closeGroup closes the innermost open group. The grouper guarantees one
// exists.
func (p *binder) closeGroup(code diag.Code, r source.ByteRange) {
	if p.expectOperand {
		if p.ops[len(p.ops)-1].kind == ast.Open {
			p.empty(source.At(r.Start))
		} else {
			p.missing(r.Start)
		}
	}
	p.reduce(ast.PrecNone, false)

	marker := p.ops[len(p.ops)-1]
	p.ops = p.ops[:len(p.ops)-1]
	i := ast.Index(p.b.Len())
	p.b.Push(ast.Token{
		Kind:     ast.Close,
		Boundary: marker.boundary,
		Depth:    marker.depth,
		Code:     code,
		Delta:    delta(i, marker.open),
	}, r)
	p.b.SetDelta(marker.open, delta(marker.open, i))
	p.operands[len(p.operands)-1] = marker.open
	p.expectOperand = false
}

func (p *binder) finish(r source.ByteRange) {
	if p.expectOperand {
		if len(p.ops) == 0 && len(p.operands) == 0 {
			p.empty(r)
		} else {
			p.missing(r.Start)
		}
	}
	p.reduce(ast.PrecNone, false)
}

// reduce writes out every waiting operator that binds at least as tightly
// as prec, or strictly tighter for a right associative operator. It stops
// at the marker of an open group.
func (p *binder) reduce(prec ast.Precedence, rightAssoc bool) {
	for len(p.ops) > 0 {
		top := p.ops[len(p.ops)-1]
		if top.kind == ast.Open || top.prec < prec || (top.prec == prec && rightAssoc) {
			return
		}
		p.ops = p.ops[:len(p.ops)-1]
		p.emit(top)
	}
}

func (p *binder) emit(op pending) {
	if op.kind == ast.Prefix {
		p.b.Push(ast.Token{Kind: ast.Prefix, Op: op.op}, op.rng)
		return
	}
	n := len(p.operands)
	rightStart := p.operands[n-1]
	p.operands = p.operands[:n-1]

	i := ast.Index(p.b.Len())
	p.b.Push(ast.Token{Kind: ast.Infix, Op: op.op, Delta: delta(i, rightStart-1)}, op.rng)
}

func delta(from, to ast.Index) ast.Delta {
	return ast.Delta(int64(to) - int64(from))
}
