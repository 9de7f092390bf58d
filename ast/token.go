package ast

import "github.com/rubiojr/berg/diag"

// Index addresses a token in an Ast.
type Index uint32

// Delta is the signed distance between two related tokens.
type Delta int32

// LiteralIndex addresses the literal pool.
type LiteralIndex uint32

// IdentifierIndex addresses the identifier pool.
type IdentifierIndex uint32

// Kind tags a token.
type Kind uint8

const (
	Literal Kind = iota
	Identifier
	Empty
	ErrorTerm
	Prefix
	Infix
	Postfix
	Open
	Close
)

var kindNames = [...]string{"Literal", "Identifier", "Empty", "ErrorTerm", "Prefix", "Infix", "Postfix", "Open", "Close"}

func (k Kind) String() string { return kindNames[k] }

// IsTerm reports whether tokens of this kind have no children.
func (k Kind) IsTerm() bool { return k <= ErrorTerm }

// Boundary is the kind of group an Open/Close pair delimits.
type Boundary uint8

const (
	Paren Boundary = iota
	Brace
	Indent
	Heading
)

var boundaryNames = [...]string{"Paren", "Brace", "Indent", "Heading"}

func (b Boundary) String() string { return boundaryNames[b] }

// Explicit reports whether the boundary is written with a closing
// character. Implicit boundaries close themselves.
func (b Boundary) Explicit() bool { return b == Paren || b == Brace }

// Operator identifies an operator independent of its fixity.
type Operator uint8

const (
	OpUnknown Operator = iota
	OpDot
	OpApply
	OpTimes
	OpDivide
	OpPlus
	OpMinus
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpEqual
	OpNotEqual
	OpAnd
	OpOr
	OpAssign
	OpPlusAssign
	OpMinusAssign
	OpTimesAssign
	OpDivideAssign
	OpComma
	OpSemicolon
	OpNewline
	OpNot
	OpDeclare
	OpIncrement
	OpDecrement
)

var opSymbols = [...]string{
	OpUnknown:      "?",
	OpDot:          ".",
	OpApply:        " ",
	OpTimes:        "*",
	OpDivide:       "/",
	OpPlus:         "+",
	OpMinus:        "-",
	OpLess:         "<",
	OpLessEqual:    "<=",
	OpGreater:      ">",
	OpGreaterEqual: ">=",
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpAnd:          "&&",
	OpOr:           "||",
	OpAssign:       "=",
	OpPlusAssign:   "+=",
	OpMinusAssign:  "-=",
	OpTimesAssign:  "*=",
	OpDivideAssign: "/=",
	OpComma:        ",",
	OpSemicolon:    ";",
	OpNewline:      "\\n",
	OpNot:          "!",
	OpDeclare:      ":",
	OpIncrement:    "++",
	OpDecrement:    "--",
}

func (op Operator) String() string { return opSymbols[op] }

// IsAssignment reports whether op writes to its left operand.
func (op Operator) IsAssignment() bool { return op >= OpAssign && op <= OpDivideAssign }

// Arithmetic returns the operator an assignment applies, so += gives +.
func (op Operator) Arithmetic() Operator {
	switch op {
	case OpPlusAssign, OpIncrement:
		return OpPlus
	case OpMinusAssign, OpDecrement:
		return OpMinus
	case OpTimesAssign:
		return OpTimes
	case OpDivideAssign:
		return OpDivide
	}
	return op
}

var infixOps = map[string]Operator{
	"*": OpTimes, "/": OpDivide, "+": OpPlus, "-": OpMinus,
	"<": OpLess, "<=": OpLessEqual, ">": OpGreater, ">=": OpGreaterEqual,
	"==": OpEqual, "!=": OpNotEqual, "&&": OpAnd, "||": OpOr,
	"=": OpAssign, "+=": OpPlusAssign, "-=": OpMinusAssign,
	"*=": OpTimesAssign, "/=": OpDivideAssign,
}

var prefixOps = map[string]Operator{
	"-": OpMinus, "+": OpPlus, "!": OpNot, ":": OpDeclare,
	"++": OpIncrement, "--": OpDecrement,
}

// LookupInfix returns the infix operator spelled sym.
func LookupInfix(sym string) (Operator, bool) {
	op, ok := infixOps[sym]
	return op, ok
}

// LookupPrefix returns the prefix operator spelled sym.
func LookupPrefix(sym string) (Operator, bool) {
	op, ok := prefixOps[sym]
	return op, ok
}

// LookupPostfix returns the postfix operator spelled sym. A postfix comma
// is the trailing comma of a tuple.
func LookupPostfix(sym string) (Operator, bool) {
	switch sym {
	case "++":
		return OpIncrement, true
	case "--":
		return OpDecrement, true
	case ",":
		return OpComma, true
	}
	return OpUnknown, false
}

// Precedence orders operators; higher binds tighter.
type Precedence uint8

const (
	PrecNone Precedence = iota
	PrecSequence
	PrecComma
	PrecAssign
	PrecOr
	PrecAnd
	PrecCompare
	PrecPlusMinus
	PrecTimesDivide
	PrecPrefix
	PrecApply
	PrecDot
	PrecTerm
)

// PrecedenceOf returns how tightly op binds in the given fixity.
func PrecedenceOf(kind Kind, op Operator) Precedence {
	switch kind {
	case Prefix:
		return PrecPrefix
	case Postfix:
		if op == OpComma {
			return PrecComma
		}
		return PrecPrefix
	case Infix:
	default:
		return PrecTerm
	}
	switch op {
	case OpDot:
		return PrecDot
	case OpApply:
		return PrecApply
	case OpTimes, OpDivide:
		return PrecTimesDivide
	case OpPlus, OpMinus:
		return PrecPlusMinus
	case OpAnd:
		return PrecAnd
	case OpOr:
		return PrecOr
	case OpComma:
		return PrecComma
	case OpSemicolon, OpNewline:
		return PrecSequence
	}
	if op.IsAssignment() {
		return PrecAssign
	}
	return PrecCompare
}

// RightAssociative reports whether a chain of op groups to the right.
func RightAssociative(op Operator) bool { return op.IsAssignment() }

// Token is one entry of the arena. Only the fields relevant to Kind are set.
type Token struct {
	Kind     Kind
	Op       Operator
	Boundary Boundary
	// Depth is the heading depth of a Heading boundary.
	Depth uint8
	// Code is set on ErrorTerm tokens and on a Close that never matched
	// its Open.
	Code diag.Code
	// Delta links an infix operator to its left child and an Open/Close
	// pair to each other.
	Delta   Delta
	Literal LiteralIndex
	Ident   IdentifierIndex
}
