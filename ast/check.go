package ast

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/rubiojr/berg/diag"
	"github.com/rubiojr/berg/source"
)

// Check validates an Ast without modifying it.
type Check interface {
	Name() string
	Check(a *Ast) error
}

// CheckChain runs checks in order, stopping at the first error.
type CheckChain []Check

// Run executes each check in sequence. Returns nil if all pass.
func (cc CheckChain) Run(a *Ast) error {
	for _, c := range cc {
		if err := c.Check(a); err != nil {
			return errors.Wrapf(err, "%s check", c.Name())
		}
	}
	return nil
}

// DefaultChecks reports an unreadable source, then every structural error
// the parser embedded in the tree.
var DefaultChecks = CheckChain{SourceCheck{}, StructuralCheck{}}

// SyntaxError is a structural error embedded in an Ast.
type SyntaxError struct {
	Code  diag.Code
	Range source.ByteRange
	ast   *Ast
}

// Diagnostic resolves the error against its source.
func (e *SyntaxError) Diagnostic() *diag.Diagnostic {
	return diag.New(e.Code, e.ast.name, e.ast.buf, e.ast.lines, e.Range)
}

func (e *SyntaxError) Error() string { return e.Diagnostic().String() }

// SourceCheck fails when the source could not be opened.
type SourceCheck struct{}

func (SourceCheck) Name() string { return "source" }

func (SourceCheck) Check(a *Ast) error {
	if a.err != nil {
		return errors.Wrap(a.err, diag.IoOpenError.Message())
	}
	return nil
}

// StructuralCheck collects every error term and unmatched group in the
// tree, including ones evaluation would never reach.
type StructuralCheck struct{}

func (StructuralCheck) Name() string { return "structure" }

func (StructuralCheck) Check(a *Ast) error {
	var result *multierror.Error
	for _, e := range SyntaxErrors(a) {
		result = multierror.Append(result, e)
	}
	if result != nil {
		result.ErrorFormat = formatSyntaxErrors
	}
	return result.ErrorOrNil()
}

// SyntaxErrors returns the structural errors of a in source order.
func SyntaxErrors(a *Ast) []*SyntaxError {
	var errs []*SyntaxError
	for i, t := range a.tokens {
		switch {
		case t.Kind == ErrorTerm:
			errs = append(errs, &SyntaxError{Code: t.Code, Range: a.ranges[i], ast: a})
		case t.Kind == Close && t.Code != diag.NoError:
			open := Index(int64(i) + int64(t.Delta))
			errs = append(errs, &SyntaxError{Code: t.Code, Range: a.ranges[open], ast: a})
		}
	}
	// Unmatched opens are found at their close, after the errors nested
	// inside them.
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Range.Start < errs[j].Range.Start })
	return errs
}

func formatSyntaxErrors(es []error) string {
	if len(es) == 1 {
		return es[0].Error()
	}
	s := fmt.Sprintf("%d syntax errors:", len(es))
	for _, e := range es {
		s += "\n  " + e.Error()
	}
	return s
}
