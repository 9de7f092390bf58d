// Package diag holds the error catalogue shared by the parser and the
// evaluator, the relative position tags used to point at part of an
// expression, and the rendering of a failure as a source diagnostic.
package diag

// Code identifies a kind of failure.
type Code uint8

const (
	NoError Code = iota

	// Structural errors are embedded in the tree by the parser.
	IdentifierStartsWithNumber
	InvalidUtf8
	UnsupportedCharacters
	OpenWithoutClose
	CloseWithoutOpen
	MissingOperand
	UnsupportedHeadingDepth

	// Semantic errors are produced while evaluating.
	NoSuchField
	FieldNotSet
	NoSuchPublicField
	PrivateField
	DivideByZero
	TypeMismatch
	UnsupportedOperator
	BadAssignmentTarget
	BadFieldName

	IoOpenError
)

var codeNames = [...]string{
	NoError:                    "NoError",
	IdentifierStartsWithNumber: "IdentifierStartsWithNumber",
	InvalidUtf8:                "InvalidUtf8",
	UnsupportedCharacters:      "UnsupportedCharacters",
	OpenWithoutClose:           "OpenWithoutClose",
	CloseWithoutOpen:           "CloseWithoutOpen",
	MissingOperand:             "MissingOperand",
	UnsupportedHeadingDepth:    "UnsupportedHeadingDepth",
	NoSuchField:                "NoSuchField",
	FieldNotSet:                "FieldNotSet",
	NoSuchPublicField:          "NoSuchPublicField",
	PrivateField:               "PrivateField",
	DivideByZero:               "DivideByZero",
	TypeMismatch:               "TypeMismatch",
	UnsupportedOperator:        "UnsupportedOperator",
	BadAssignmentTarget:        "BadAssignmentTarget",
	BadFieldName:               "BadFieldName",
	IoOpenError:                "IoOpenError",
}

var codeMessages = [...]string{
	NoError:                    "no error",
	IdentifierStartsWithNumber: "identifier starts with a number",
	InvalidUtf8:                "invalid UTF-8",
	UnsupportedCharacters:      "unsupported characters",
	OpenWithoutClose:           "open without a matching close",
	CloseWithoutOpen:           "close without a matching open",
	MissingOperand:             "missing operand",
	UnsupportedHeadingDepth:    "heading depth is already open in this section",
	NoSuchField:                "no such field",
	FieldNotSet:                "field read before it was set",
	NoSuchPublicField:          "no such public field",
	PrivateField:               "field is private",
	DivideByZero:               "division by zero",
	TypeMismatch:               "operand has the wrong type",
	UnsupportedOperator:        "unsupported operator",
	BadAssignmentTarget:        "cannot assign to this expression",
	BadFieldName:               "field name must be an identifier",
	IoOpenError:                "cannot open source",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "Code(?)"
}

// Message returns a short human description of the failure.
func (c Code) Message() string {
	if int(c) < len(codeMessages) {
		return codeMessages[c]
	}
	return "unknown error"
}

// Structural reports whether the code is produced by the parser.
func (c Code) Structural() bool {
	return c >= IdentifierStartsWithNumber && c <= UnsupportedHeadingDepth
}

// ParseCode looks up a code by name.
func ParseCode(name string) (Code, bool) {
	for i, n := range codeNames {
		if n == name {
			return Code(i), true
		}
	}
	return NoError, false
}
