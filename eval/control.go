package eval

import (
	"github.com/rubiojr/berg/ast"
	"github.com/rubiojr/berg/diag"
)

type controlState uint8

const (
	ctlIf          controlState = iota // if, waiting for a condition
	ctlThen                            // if (c), waiting for a body
	ctlIfResult                        // if (c) {b}, may be followed by else
	ctlElseKeyword                     // the else keyword itself
	ctlElse                            // ... else, waiting for a body or if
	ctlWhile                           // while, waiting for a condition block
	ctlWhileBody                       // while {c}, waiting for a body block
)

// Control is the value of the keywords if, else and while, and of the
// partial applications they build up. The conditional
//
//	if (a) {x} else if (b) {y} else {z}
//
// is a chain of applications; every step returns a new Control until the
// chain is used as an operand, at which point it settles to the value of
// the branch taken.
type Control struct {
	state controlState
	// done is set once a branch has been taken; later branches are
	// skipped without being evaluated.
	done bool
	// taken is set on an if whose condition held.
	taken bool
	value Value
	cond  *BlockRef
}

func (Control) Kind() Kind { return KindControl }

func (c Control) String() string {
	switch c.state {
	case ctlIf:
		return "if"
	case ctlElseKeyword:
		return "else"
	case ctlWhile:
		return "while"
	case ctlIfResult:
		return c.settle().String()
	}
	return "control"
}

func (Control) Infix(ast.Operator, Value) Value { return mismatch(diag.Left) }
func (Control) Prefix(ast.Operator) Value       { return mismatch(diag.Right) }
func (Control) Postfix(ast.Operator) Value      { return mismatch(diag.Left) }

// settle returns the value a finished conditional stands for.
func (c Control) settle() Value {
	if c.state != ctlIfResult {
		return c
	}
	if c.value == nil {
		return Nothing{}
	}
	return c.value
}

// skips reports whether applying c to right can be decided without
// evaluating right. An else may be followed by if, so an identifier
// after it is always looked up.
func (c Control) skips(right ast.Expression) bool {
	if !c.done {
		return false
	}
	switch c.state {
	case ctlIf, ctlThen:
		return true
	case ctlElse:
		return right.Kind() != ast.Identifier
	}
	return false
}

// applyControl evaluates the application e whose left side evaluated to c.
func (ev *evaluator) applyControl(c Control, e ast.Expression, sc *BlockScope) Value {
	if c.skips(e.Right()) {
		next := c
		switch c.state {
		case ctlIf:
			next.state = ctlThen
		default:
			next.state = ctlIfResult
		}
		return next
	}

	right := ev.eval(e.Right(), sc)
	if err, ok := right.(*Error); ok {
		return err
	}

	switch c.state {
	case ctlIf:
		v := ev.materialize(right)
		if err, ok := v.(*Error); ok {
			return err
		}
		cond, ok := v.(Boolean)
		if !ok {
			return mismatch(diag.Right).at(e)
		}
		return Control{state: ctlThen, taken: bool(cond)}
	case ctlThen:
		if !c.taken {
			return Control{state: ctlIfResult}
		}
		return ev.branch(ev.materialize(right))
	case ctlIfResult:
		if k, ok := right.(Control); ok && k.state == ctlElseKeyword {
			return Control{state: ctlElse, done: c.done, value: c.value}
		}
	case ctlElse:
		if k, ok := right.(Control); ok && k.state == ctlIf {
			return Control{state: ctlIf, done: c.done, value: c.value}
		}
		if c.done {
			return Control{state: ctlIfResult, done: true, value: c.value}
		}
		return ev.branch(ev.materialize(right))
	case ctlWhile:
		cond, ok := right.(*BlockRef)
		if !ok {
			return mismatch(diag.Right).at(e)
		}
		return Control{state: ctlWhileBody, cond: cond}
	case ctlWhileBody:
		body, ok := right.(*BlockRef)
		if !ok {
			return mismatch(diag.Right).at(e)
		}
		return ev.loop(c.cond, body, e)
	}
	return mismatch(diag.Right).at(e)
}

func (ev *evaluator) branch(v Value) Value {
	if err, ok := v.(*Error); ok {
		return err
	}
	return Control{state: ctlIfResult, done: true, value: v}
}

// loop runs a while loop. Every test of the condition and every pass
// through the body gets a fresh scope; the first error ends the loop and
// becomes its result.
func (ev *evaluator) loop(cond, body *BlockRef, e ast.Expression) Value {
	for {
		c := ev.materialize(ev.invoke(cond))
		if err, ok := c.(*Error); ok {
			return err
		}
		b, ok := c.(Boolean)
		if !ok {
			// The condition is the right operand of the inner apply.
			return mismatch(diag.Right).through(diag.Left).at(e)
		}
		if !b {
			return Nothing{}
		}
		if err, ok := ev.invoke(body).(*Error); ok {
			return err
		}
	}
}
