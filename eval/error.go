package eval

import (
	"github.com/rubiojr/berg/ast"
	"github.com/rubiojr/berg/diag"
	"github.com/rubiojr/berg/source"
)

// LocationKind says how much of the source an error can point at.
type LocationKind uint8

const (
	// Generic errors have no source location. Nothing in the evaluator
	// produces one; they exist for errors raised outside any program.
	Generic LocationKind = iota
	// SourceOnly errors name the source but no position in it.
	SourceOnly
	// SourceExpression errors point at one subexpression.
	SourceExpression
	// SourceRange errors point at a byte range.
	SourceRange
	// Relative errors name a child of the operation that produced them and
	// have not been resolved against the tree yet.
	Relative
)

// Location is where an error occurred.
type Location struct {
	Kind     LocationKind
	Ast      *ast.Ast
	Index    ast.Index
	Range    source.ByteRange
	Position diag.Position
}

// Error is a failed evaluation. It is an ordinary value: operators given
// an Error return it unchanged, so it travels outward until something
// short-circuits past it or it becomes the result.
type Error struct {
	Code     diag.Code
	Location Location
}

func relative(code diag.Code, pos diag.Position) *Error {
	return &Error{Code: code, Location: Location{Kind: Relative, Position: pos}}
}

func errorAt(code diag.Code, e ast.Expression) *Error {
	return &Error{Code: code, Location: Location{Kind: SourceExpression, Ast: e.Ast(), Index: e.Index()}}
}

// rangeError points at the bytes of a syntax error the parser embedded
// in the tree. Those bytes are a token, not a subexpression.
func rangeError(code diag.Code, e ast.Expression) *Error {
	return &Error{Code: code, Location: Location{Kind: SourceRange, Ast: e.Ast(), Range: e.TokenRange()}}
}

// through rewrites a relative error reported by a child so it is relative
// to the child's parent, which sits at p from the node that will resolve it.
func (e *Error) through(p diag.Position) *Error {
	if e.Location.Kind != Relative {
		return e
	}
	return relative(e.Code, p.Then(e.Location.Position))
}

// at resolves a relative location against the node that produced it.
func (e *Error) at(expr ast.Expression) *Error {
	if e.Location.Kind != Relative {
		return e
	}
	return errorAt(e.Code, expr.Child(e.Location.Position))
}

// Range returns the bytes the error points at, if it has a position.
func (e *Error) Range() (source.ByteRange, bool) {
	switch e.Location.Kind {
	case SourceExpression:
		return e.Location.Ast.Expression(e.Location.Index).Range(), true
	case SourceRange:
		return e.Location.Range, true
	}
	return source.ByteRange{}, false
}

// Diagnostic resolves the error to a message with line and column
// endpoints and a snippet of the offending source.
func (e *Error) Diagnostic() *diag.Diagnostic {
	a := e.Location.Ast
	if r, ok := e.Range(); ok {
		return diag.New(e.Code, a.Name(), a.Bytes(), a.Lines(), r)
	}
	d := diag.New(e.Code, "", nil, nil, source.ByteRange{})
	if a != nil {
		d.Source = a.Name()
		if err := a.Err(); err != nil && e.Code == diag.IoOpenError {
			d.Message += ": " + err.Error()
		}
	}
	return d
}

func (e *Error) Error() string { return e.Diagnostic().String() }

func (e *Error) Kind() Kind                      { return KindError }
func (e *Error) String() string                  { return e.Error() }
func (e *Error) Infix(ast.Operator, Value) Value { return e }
func (e *Error) Prefix(ast.Operator) Value       { return e }
func (e *Error) Postfix(ast.Operator) Value      { return e }
