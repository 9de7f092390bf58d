package diag

import "fmt"

// Position names a subexpression relative to the node that reported an
// error. Values of an operation do not know where they sit in the tree, so
// they report "my right operand" and the evaluator resolves it against the
// node it was evaluating.
type Position uint8

const (
	Expression Position = iota
	Left
	Right
	LeftLeft
	LeftRight
	RightLeft
	RightRight
)

var positionNames = [...]string{"Expression", "Left", "Right", "LeftLeft", "LeftRight", "RightLeft", "RightRight"}

func (p Position) String() string {
	if int(p) < len(positionNames) {
		return positionNames[p]
	}
	return fmt.Sprintf("Position(%d)", p)
}

// Depth returns how many child steps p takes.
func (p Position) Depth() int {
	switch p {
	case Expression:
		return 0
	case Left, Right:
		return 1
	default:
		return 2
	}
}

// Then composes p with a further step taken from the child it names.
// At most two levels can be expressed; composing deeper is a programming
// error and panics.
func (p Position) Then(child Position) Position {
	if child == Expression {
		return p
	}
	if p == Expression {
		return child
	}
	if p.Depth()+child.Depth() > 2 {
		panic(fmt.Sprintf("diag: cannot compose %v with %v", p, child))
	}
	switch {
	case p == Left && child == Left:
		return LeftLeft
	case p == Left && child == Right:
		return LeftRight
	case p == Right && child == Left:
		return RightLeft
	default:
		return RightRight
	}
}

// Steps returns the child steps of p in order from the outer node.
func (p Position) Steps() []Position {
	switch p {
	case Expression:
		return nil
	case Left, Right:
		return []Position{p}
	case LeftLeft:
		return []Position{Left, Left}
	case LeftRight:
		return []Position{Left, Right}
	case RightLeft:
		return []Position{Right, Left}
	case RightRight:
		return []Position{Right, Right}
	}
	panic(fmt.Sprintf("diag: invalid position %d", p))
}
