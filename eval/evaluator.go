package eval

import (
	"github.com/rubiojr/berg/ast"
	"github.com/rubiojr/berg/diag"
)

// evaluator walks an Ast. Everything an evaluation changes lives in its
// scopes; the evaluator itself only counts work for the debug log.
type evaluator struct {
	invocations int
}

// resolve pins a relative error returned by a value to the node e.
func resolve(v Value, e ast.Expression) Value {
	if err, ok := v.(*Error); ok {
		return err.at(e)
	}
	return v
}

func isError(v Value) bool {
	_, ok := v.(*Error)
	return ok
}

func (ev *evaluator) eval(e ast.Expression, sc *BlockScope) Value {
	t := e.Token()
	switch t.Kind {
	case ast.Literal:
		return NewRational(e.Ast().Literal(t.Literal))
	case ast.Identifier:
		f, ok := Lookup(sc, t.Ident)
		if !ok {
			return errorAt(diag.NoSuchField, e)
		}
		if !f.Set {
			return errorAt(diag.FieldNotSet, e)
		}
		return f.Value
	case ast.Empty:
		return Nothing{}
	case ast.ErrorTerm:
		return rangeError(t.Code, e)
	case ast.Prefix:
		return ev.evalPrefix(e, sc)
	case ast.Postfix:
		return ev.evalPostfix(e, sc)
	case ast.Infix:
		return ev.evalInfix(e, sc)
	case ast.Close:
		return ev.evalGroup(e, sc)
	}
	return errorAt(diag.UnsupportedOperator, e)
}

func (ev *evaluator) evalPrefix(e ast.Expression, sc *BlockScope) Value {
	op, operand := e.Token().Op, e.Operand()
	switch op {
	case ast.OpDeclare:
		if operand.Kind() != ast.Identifier {
			return errorAt(diag.BadAssignmentTarget, operand)
		}
		sc.Declare(operand.Token().Ident, true)
		return Nothing{}
	case ast.OpIncrement, ast.OpDecrement:
		return ev.step(op, operand, sc)
	}
	v := ev.materialize(ev.eval(operand, sc))
	if isError(v) {
		return v
	}
	return resolve(v.Prefix(op), e)
}

func (ev *evaluator) evalPostfix(e ast.Expression, sc *BlockScope) Value {
	op, operand := e.Token().Op, e.Operand()
	switch op {
	case ast.OpComma:
		return ev.eval(operand, sc)
	case ast.OpIncrement, ast.OpDecrement:
		return ev.step(op, operand, sc)
	}
	v := ev.materialize(ev.eval(operand, sc))
	if isError(v) {
		return v
	}
	return resolve(v.Postfix(op), e)
}

func (ev *evaluator) evalInfix(e ast.Expression, sc *BlockScope) Value {
	op := e.Token().Op
	switch {
	case op == ast.OpAssign:
		return ev.assign(e, sc)
	case op.IsAssignment():
		return ev.update(e, sc)
	}
	switch op {
	case ast.OpDot:
		return ev.dot(e, sc)
	case ast.OpAnd, ast.OpOr:
		return ev.logic(e, sc)
	case ast.OpComma:
		return ev.tuple(e, sc)
	case ast.OpSemicolon, ast.OpNewline:
		return ev.sequence(e, sc)
	case ast.OpApply:
		return ev.apply(e, sc)
	}

	l := ev.materialize(ev.eval(e.Left(), sc))
	if isError(l) {
		return l
	}
	r := ev.materialize(ev.eval(e.Right(), sc))
	if isError(r) {
		return r
	}
	if op == ast.OpUnknown {
		return errorAt(diag.UnsupportedOperator, e)
	}
	return resolve(l.Infix(op, r), e)
}

func (ev *evaluator) evalGroup(e ast.Expression, sc *BlockScope) Value {
	t := e.Token()
	if t.Code != diag.NoError {
		return rangeError(t.Code, e.Open())
	}
	switch t.Boundary {
	case ast.Brace:
		return &BlockRef{expr: e, scope: sc}
	case ast.Heading:
		return ev.eval(e.Inner(), NewBlockScope(sc))
	}
	return ev.eval(e.Inner(), sc)
}

// assign handles x = v and :x = v. A plain assignment writes the nearest
// field of that name in the enclosing blocks, or declares a private field
// here; a declaration always makes a public field here.
func (ev *evaluator) assign(e ast.Expression, sc *BlockScope) Value {
	target, public := e.Left(), false
	if target.Kind() == ast.Prefix && target.Token().Op == ast.OpDeclare {
		target, public = target.Operand(), true
	}
	if target.Kind() != ast.Identifier {
		return errorAt(diag.BadAssignmentTarget, target)
	}
	v := settle(ev.eval(e.Right(), sc))
	if isError(v) {
		return v
	}

	name := target.Token().Ident
	f, ok := assignable(sc, name)
	if public || !ok {
		f = sc.Declare(name, public)
	}
	f.Value, f.Set = v, true
	return Nothing{}
}

// field returns the set field a compound assignment or increment writes.
func (ev *evaluator) field(target ast.Expression, sc *BlockScope) (*Field, Value) {
	if target.Kind() != ast.Identifier {
		return nil, errorAt(diag.BadAssignmentTarget, target)
	}
	f, ok := Lookup(sc, target.Token().Ident)
	if !ok {
		return nil, errorAt(diag.NoSuchField, target)
	}
	if !f.Set {
		return nil, errorAt(diag.FieldNotSet, target)
	}
	return f, nil
}

// update handles x += v and the other compound assignments. A block held
// in the field is invoked and its value takes part in the arithmetic.
func (ev *evaluator) update(e ast.Expression, sc *BlockScope) Value {
	f, err := ev.field(e.Left(), sc)
	if err != nil {
		return err
	}
	cur := ev.materialize(f.Value)
	if isError(cur) {
		return cur
	}
	r := ev.materialize(ev.eval(e.Right(), sc))
	if isError(r) {
		return r
	}
	v := resolve(cur.Infix(e.Token().Op.Arithmetic(), r), e)
	if isError(v) {
		return v
	}
	f.Value = v
	return Nothing{}
}

// step handles ++ and -- in either position.
func (ev *evaluator) step(op ast.Operator, target ast.Expression, sc *BlockScope) Value {
	f, err := ev.field(target, sc)
	if err != nil {
		return err
	}
	cur := ev.materialize(f.Value)
	if isError(cur) {
		return cur
	}
	v := resolve(cur.Infix(op.Arithmetic(), Int(1)), target)
	if isError(v) {
		return v
	}
	f.Value = v
	return Nothing{}
}

// dot invokes the block on the left and reads a public field it set.
func (ev *evaluator) dot(e ast.Expression, sc *BlockScope) Value {
	l := settle(ev.eval(e.Left(), sc))
	if isError(l) {
		return l
	}
	block, ok := l.(*BlockRef)
	if !ok {
		return errorAt(diag.TypeMismatch, e.Left())
	}
	name := e.Right()
	if name.Kind() != ast.Identifier {
		return errorAt(diag.BadFieldName, name)
	}

	v, inner := ev.invokeScope(block)
	if isError(v) {
		return v
	}
	f, ok := inner.Local(name.Token().Ident)
	switch {
	case !ok:
		return errorAt(diag.NoSuchPublicField, name)
	case !f.Public:
		return errorAt(diag.PrivateField, name)
	case !f.Set:
		return errorAt(diag.FieldNotSet, name)
	}
	return f.Value
}

// logic evaluates && and ||, skipping the right side when the left side
// decides the result.
func (ev *evaluator) logic(e ast.Expression, sc *BlockScope) Value {
	l := ev.materialize(ev.eval(e.Left(), sc))
	if isError(l) {
		return l
	}
	lb, ok := l.(Boolean)
	if !ok {
		return errorAt(diag.TypeMismatch, e.Left())
	}
	op := e.Token().Op
	if (op == ast.OpAnd && !bool(lb)) || (op == ast.OpOr && bool(lb)) {
		return lb
	}
	r := ev.materialize(ev.eval(e.Right(), sc))
	if isError(r) {
		return r
	}
	return resolve(lb.Infix(op, r), e)
}

// spine returns the operands of a chain of left associative operators
// matching op, in source order. Parenthesized chains are separate values.
func spine(e ast.Expression, match func(ast.Operator) bool) []ast.Expression {
	var items []ast.Expression
	for e.Kind() == ast.Infix && match(e.Token().Op) {
		items = append(items, e.Right())
		e = e.Left()
	}
	items = append(items, e)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}

func (ev *evaluator) tuple(e ast.Expression, sc *BlockScope) Value {
	items := spine(e, func(op ast.Operator) bool { return op == ast.OpComma })
	t := make(Tuple, 0, len(items))
	for _, item := range items {
		v := settle(ev.eval(item, sc))
		if isError(v) {
			return v
		}
		t = append(t, v)
	}
	return t
}

func (ev *evaluator) sequence(e ast.Expression, sc *BlockScope) Value {
	var v Value = Nothing{}
	for _, stmt := range spine(e, func(op ast.Operator) bool { return op == ast.OpSemicolon || op == ast.OpNewline }) {
		v = ev.eval(stmt, sc)
		if isError(v) {
			return v
		}
	}
	return v
}

// apply evaluates juxtaposition. Keywords build control flow out of it;
// other values reject it through their own dispatch.
func (ev *evaluator) apply(e ast.Expression, sc *BlockScope) Value {
	l := ev.eval(e.Left(), sc)
	if isError(l) {
		return l
	}
	if c, ok := l.(Control); ok {
		return ev.applyControl(c, e, sc)
	}
	r := ev.eval(e.Right(), sc)
	if isError(r) {
		return r
	}
	return resolve(l.Infix(ast.OpApply, r), e)
}
