package eval

import (
	"github.com/rubiojr/berg/ast"
)

// Field is a named binding in a scope.
type Field struct {
	Name  ast.IdentifierIndex
	Value Value
	// Public fields can be read from outside the block with a dot.
	Public bool
	// Set is false for a field that was declared but never assigned.
	Set bool
}

// Scope is one link of the lexical chain.
type Scope interface {
	// Local returns the field declared in this scope alone.
	Local(name ast.IdentifierIndex) (*Field, bool)
	// Parent returns the enclosing scope, or nil for the root.
	Parent() Scope
}

// Lookup finds the innermost field called name, walking from sc to the
// root.
func Lookup(sc Scope, name ast.IdentifierIndex) (*Field, bool) {
	for ; sc != nil; sc = sc.Parent() {
		if f, ok := sc.Local(name); ok {
			return f, true
		}
	}
	return nil, false
}

// Root is the outermost scope of an evaluation. It holds the keyword
// fields and is created fresh for every evaluation.
type Root struct {
	keywords []*Field
}

// NewRoot returns a root scope with the keyword fields bound.
func NewRoot() *Root {
	values := map[ast.IdentifierIndex]Value{
		ast.KwTrue:    Boolean(true),
		ast.KwFalse:   Boolean(false),
		ast.KwNothing: Nothing{},
		ast.KwIf:      Control{state: ctlIf},
		ast.KwElse:    Control{state: ctlElseKeyword},
		ast.KwWhile:   Control{state: ctlWhile},
	}
	r := &Root{keywords: make([]*Field, len(ast.Keywords))}
	for i := range r.keywords {
		name := ast.IdentifierIndex(i)
		r.keywords[i] = &Field{Name: name, Value: values[name], Public: true, Set: true}
	}
	return r
}

func (r *Root) Local(name ast.IdentifierIndex) (*Field, bool) {
	if int(name) < len(r.keywords) {
		return r.keywords[name], true
	}
	return nil, false
}

func (r *Root) Parent() Scope { return nil }

// BlockScope is the scope of one file, block invocation or section. Its
// parent is only used for lookups and never owned.
type BlockScope struct {
	parent Scope
	fields []*Field
	index  map[ast.IdentifierIndex]int
}

// NewBlockScope returns an empty scope nested in parent.
func NewBlockScope(parent Scope) *BlockScope {
	return &BlockScope{parent: parent}
}

func (s *BlockScope) Parent() Scope { return s.parent }

func (s *BlockScope) Local(name ast.IdentifierIndex) (*Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.fields[i], true
}

// Fields returns the fields in declaration order.
func (s *BlockScope) Fields() []*Field { return s.fields }

// Declare returns the local field called name, creating it unset if it
// does not exist. Declaring a field public is sticky.
func (s *BlockScope) Declare(name ast.IdentifierIndex, public bool) *Field {
	if f, ok := s.Local(name); ok {
		f.Public = f.Public || public
		return f
	}
	if s.index == nil {
		s.index = make(map[ast.IdentifierIndex]int)
	}
	f := &Field{Name: name, Public: public}
	s.index[name] = len(s.fields)
	s.fields = append(s.fields, f)
	return f
}

// assignable finds the innermost field called name declared in a block
// scope. Keyword fields in the root are never assigned; a block shadows
// them instead.
func assignable(sc Scope, name ast.IdentifierIndex) (*Field, bool) {
	for ; sc != nil; sc = sc.Parent() {
		bs, ok := sc.(*BlockScope)
		if !ok {
			break
		}
		if f, ok := bs.Local(name); ok {
			return f, true
		}
	}
	return nil, false
}
