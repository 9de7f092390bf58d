package eval

import (
	"github.com/rubiojr/berg/ast"
	"github.com/rubiojr/berg/diag"
)

// BlockRef is a braced block together with the scope it was written in.
// It is evaluated lazily, in a fresh scope nested in the captured one,
// every time it is invoked. A block can only capture a scope that existed
// before it, so the scope chain never forms a cycle.
type BlockRef struct {
	expr  ast.Expression
	scope *BlockScope
}

func (*BlockRef) Kind() Kind { return KindBlock }

// Expression returns the braced group the block evaluates.
func (b *BlockRef) Expression() ast.Expression { return b.expr }

func (b *BlockRef) String() string { return b.expr.String() }

func (b *BlockRef) Infix(op ast.Operator, right Value) Value { return equalityOnly(b, op, right) }
func (*BlockRef) Prefix(ast.Operator) Value                  { return mismatch(diag.Right) }
func (*BlockRef) Postfix(ast.Operator) Value                 { return mismatch(diag.Left) }

// invokeScope evaluates the block in a new child scope and returns its
// value together with that scope, so dotted access can read the fields the
// block set.
func (ev *evaluator) invokeScope(b *BlockRef) (Value, *BlockScope) {
	ev.invocations++
	sc := NewBlockScope(b.scope)
	return ev.eval(b.expr.Inner(), sc), sc
}

func (ev *evaluator) invoke(b *BlockRef) Value {
	v, _ := ev.invokeScope(b)
	return v
}

// materialize turns an operand into the value an operator works on: a
// block is invoked and a finished conditional stands for its branch.
func (ev *evaluator) materialize(v Value) Value {
	v = settle(v)
	if b, ok := v.(*BlockRef); ok {
		v = settle(ev.invoke(b))
	}
	return v
}

func settle(v Value) Value {
	if c, ok := v.(Control); ok {
		return c.settle()
	}
	return v
}
