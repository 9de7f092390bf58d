package eval

import (
	"math/big"
	"strings"

	"github.com/rubiojr/berg/ast"
	"github.com/rubiojr/berg/diag"
)

// Kind identifies the variant of a Value.
type Kind uint8

const (
	KindRational Kind = iota
	KindBoolean
	KindBlock
	KindNothing
	KindTuple
	KindError
	KindControl
)

func (k Kind) String() string {
	switch k {
	case KindRational:
		return "rational"
	case KindBoolean:
		return "boolean"
	case KindBlock:
		return "block"
	case KindNothing:
		return "nothing"
	case KindTuple:
		return "tuple"
	case KindError:
		return "error"
	case KindControl:
		return "control"
	}
	return "unknown"
}

// Value is a runtime value. Each variant answers the operators it supports
// and returns a TypeMismatch error for the rest. Errors are returned as
// values with a location relative to the operation (Left, Right, ...)
// which the evaluator resolves against the node being evaluated.
type Value interface {
	Kind() Kind
	Infix(op ast.Operator, right Value) Value
	Prefix(op ast.Operator) Value
	Postfix(op ast.Operator) Value
	String() string
}

// Rational is an exact rational number.
type Rational struct {
	r *big.Rat
}

// NewRational wraps r. The caller must not modify r afterwards.
func NewRational(r *big.Rat) Rational { return Rational{r: r} }

// Int returns the rational n/1.
func Int(n int64) Rational { return Rational{r: big.NewRat(n, 1)} }

// Rat returns a copy of the number.
func (v Rational) Rat() *big.Rat { return new(big.Rat).Set(v.r) }

func (v Rational) Kind() Kind      { return KindRational }
func (v Rational) String() string { return v.r.RatString() }

func (v Rational) Infix(op ast.Operator, right Value) Value {
	if err, ok := right.(*Error); ok {
		return err
	}
	switch op {
	case ast.OpEqual:
		return Boolean(Equal(v, right))
	case ast.OpNotEqual:
		return Boolean(!Equal(v, right))
	case ast.OpPlus, ast.OpMinus, ast.OpTimes, ast.OpDivide,
		ast.OpLess, ast.OpLessEqual, ast.OpGreater, ast.OpGreaterEqual:
	default:
		return mismatch(diag.Left)
	}
	r, ok := right.(Rational)
	if !ok {
		return mismatch(diag.Right)
	}
	switch op {
	case ast.OpPlus:
		return Rational{r: new(big.Rat).Add(v.r, r.r)}
	case ast.OpMinus:
		return Rational{r: new(big.Rat).Sub(v.r, r.r)}
	case ast.OpTimes:
		return Rational{r: new(big.Rat).Mul(v.r, r.r)}
	case ast.OpDivide:
		if r.r.Sign() == 0 {
			return relative(diag.DivideByZero, diag.Right)
		}
		return Rational{r: new(big.Rat).Quo(v.r, r.r)}
	case ast.OpLess:
		return Boolean(v.r.Cmp(r.r) < 0)
	case ast.OpLessEqual:
		return Boolean(v.r.Cmp(r.r) <= 0)
	case ast.OpGreater:
		return Boolean(v.r.Cmp(r.r) > 0)
	default:
		return Boolean(v.r.Cmp(r.r) >= 0)
	}
}

func (v Rational) Prefix(op ast.Operator) Value {
	switch op {
	case ast.OpMinus:
		return Rational{r: new(big.Rat).Neg(v.r)}
	case ast.OpPlus:
		return v
	}
	return mismatch(diag.Right)
}

func (v Rational) Postfix(ast.Operator) Value { return mismatch(diag.Left) }

// Boolean is true or false.
type Boolean bool

func (v Boolean) Kind() Kind { return KindBoolean }

func (v Boolean) String() string {
	if v {
		return "true"
	}
	return "false"
}

func (v Boolean) Infix(op ast.Operator, right Value) Value {
	if err, ok := right.(*Error); ok {
		return err
	}
	switch op {
	case ast.OpEqual:
		return Boolean(Equal(v, right))
	case ast.OpNotEqual:
		return Boolean(!Equal(v, right))
	case ast.OpAnd, ast.OpOr:
		r, ok := right.(Boolean)
		if !ok {
			return mismatch(diag.Right)
		}
		if op == ast.OpAnd {
			return v && r
		}
		return v || r
	}
	return mismatch(diag.Left)
}

func (v Boolean) Prefix(op ast.Operator) Value {
	if op == ast.OpNot {
		return !v
	}
	return mismatch(diag.Right)
}

func (v Boolean) Postfix(ast.Operator) Value { return mismatch(diag.Left) }

// Nothing is the value of empty programs, assignments and untaken
// branches.
type Nothing struct{}

func (Nothing) Kind() Kind      { return KindNothing }
func (Nothing) String() string { return "nothing" }

func (v Nothing) Infix(op ast.Operator, right Value) Value { return equalityOnly(v, op, right) }
func (Nothing) Prefix(ast.Operator) Value                  { return mismatch(diag.Right) }
func (Nothing) Postfix(ast.Operator) Value                 { return mismatch(diag.Left) }

// Tuple is an ordered sequence built with commas.
type Tuple []Value

func (Tuple) Kind() Kind { return KindTuple }

func (v Tuple) String() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (v Tuple) Infix(op ast.Operator, right Value) Value { return equalityOnly(v, op, right) }
func (Tuple) Prefix(ast.Operator) Value                  { return mismatch(diag.Right) }
func (Tuple) Postfix(ast.Operator) Value                 { return mismatch(diag.Left) }

func equalityOnly(v Value, op ast.Operator, right Value) Value {
	if err, ok := right.(*Error); ok {
		return err
	}
	switch op {
	case ast.OpEqual:
		return Boolean(Equal(v, right))
	case ast.OpNotEqual:
		return Boolean(!Equal(v, right))
	}
	return mismatch(diag.Left)
}

// Equal reports whether two values are the same. Values of different kinds
// are never equal; blocks are equal only to themselves.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Rational:
		b, ok := b.(Rational)
		return ok && a.r.Cmp(b.r) == 0
	case Boolean:
		b, ok := b.(Boolean)
		return ok && a == b
	case Nothing:
		_, ok := b.(Nothing)
		return ok
	case Tuple:
		b, ok := b.(Tuple)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}
		return true
	case *BlockRef:
		b, ok := b.(*BlockRef)
		return ok && a == b
	case *Error:
		b, ok := b.(*Error)
		return ok && a.Code == b.Code
	}
	return false
}

func mismatch(pos diag.Position) *Error { return relative(diag.TypeMismatch, pos) }
