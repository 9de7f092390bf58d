package ast

import (
	"strings"

	"github.com/rubiojr/berg/diag"
)

// String renders the display form of the expression: fully parenthesized
// where precedence requires it, with groups written back as parentheses or
// braces. Parsing the display form yields a tree that evaluates to the
// same value, or fails with the same error code.
func (e Expression) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e Expression) write(b *strings.Builder) {
	t := e.Token()
	switch t.Kind {
	case Literal:
		b.WriteString(e.ast.Literal(t.Literal).RatString())
	case Identifier:
		b.WriteString(e.Identifier())
	case Empty:
	case ErrorTerm:
		switch t.Code {
		case diag.MissingOperand:
		case diag.UnsupportedHeadingDepth:
			// A heading marker only reads as one alone on its line.
			b.WriteByte('\n')
			b.Write(e.Source())
			b.WriteByte('\n')
		default:
			b.Write(e.Source())
		}
	case Prefix:
		b.WriteString(t.Op.String())
		operand := e.Operand()
		if operand.Kind() == Prefix {
			b.WriteByte(' ')
		}
		operand.writeChild(b, PrecPrefix, true)
	case Postfix:
		if t.Op == OpComma {
			e.Operand().write(b)
			b.WriteByte(',')
			return
		}
		operand := e.Operand()
		if operand.Kind() == Prefix {
			b.WriteByte('(')
			operand.write(b)
			b.WriteByte(')')
		} else {
			operand.writeChild(b, PrecPrefix, false)
		}
		b.WriteString(t.Op.String())
	case Infix:
		prec := e.Precedence()
		right := RightAssociative(t.Op)
		e.Left().writeChild(b, prec, right)
		b.WriteString(e.separator())
		e.Right().writeChild(b, prec, !right)
	case Close:
		e.writeGroup(b)
	case Open:
		// An Open is never the root of a well formed subtree.
		b.Write(e.Source())
	}
}

// writeChild parenthesizes the child when it binds looser than its parent,
// or equally on the side that associativity would regroup.
func (e Expression) writeChild(b *strings.Builder, parent Precedence, strictOnEqual bool) {
	prec := e.Precedence()
	if e.Kind() == Postfix && e.Token().Op == OpComma {
		prec = e.Operand().Precedence()
	}
	if prec < parent || (prec == parent && strictOnEqual && e.Kind() == Infix) {
		b.WriteByte('(')
		e.write(b)
		b.WriteByte(')')
		return
	}
	e.write(b)
}

func (e Expression) separator() string {
	switch op := e.Token().Op; op {
	case OpApply:
		return " "
	case OpDot:
		return "."
	case OpComma:
		return ", "
	case OpSemicolon, OpNewline:
		return "; "
	case OpUnknown:
		return " " + string(e.Source()) + " "
	default:
		return " " + op.String() + " "
	}
}

func (e Expression) writeGroup(b *strings.Builder) {
	t := e.Token()
	open, close := "(", ")"
	switch t.Boundary {
	case Brace:
		open, close = "{", "}"
	case Heading:
		marker := "==="
		if t.Depth == 2 {
			marker = "---"
		}
		open, close = "\n"+marker+"\n", "\n"
	}
	if t.Code != diag.NoError {
		close = ""
	}
	b.WriteString(open)
	e.Inner().write(b)
	b.WriteString(close)
}
