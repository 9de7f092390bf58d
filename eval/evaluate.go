// Package eval evaluates a parsed program.
//
// Evaluation is a post-order walk over the ast arena against a chain of
// scopes. Values are dynamically typed and dispatch operators themselves;
// failures are Error values that propagate through operators until they
// become the result. A structural error embedded by the parser only fails
// an evaluation that actually reaches it.
package eval

import (
	"github.com/sirupsen/logrus"

	"github.com/rubiojr/berg/ast"
	"github.com/rubiojr/berg/diag"
	"github.com/rubiojr/berg/parser"
)

type config struct {
	log logrus.FieldLogger
}

// Option configures an evaluation.
type Option func(*config)

// WithLogger sets the logger evaluation results are written to at debug
// level.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) { c.log = l }
}

func newConfig(opts []Option) config {
	cfg := config{log: logrus.StandardLogger()}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// Evaluate runs a program in a fresh root scope and returns its value. A
// block or finished conditional at the top level is reduced to the value
// it stands for. On failure the returned error is an *Error.
func Evaluate(a *ast.Ast, opts ...Option) (Value, error) {
	cfg := newConfig(opts)
	log := cfg.log.WithField("source", a.Name())

	if a.Err() != nil {
		err := &Error{Code: diag.IoOpenError, Location: Location{Kind: SourceOnly, Ast: a}}
		log.WithError(a.Err()).Debug("source not evaluated")
		return nil, err
	}

	ev := &evaluator{}
	file := NewBlockScope(NewRoot())
	v := ev.materialize(ev.eval(a.Root(), file))
	if err, ok := v.(*Error); ok {
		log.WithFields(logrus.Fields{
			"code":        err.Code.String(),
			"invocations": ev.invocations,
		}).Debug("evaluation failed")
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"kind":        v.Kind().String(),
		"invocations": ev.invocations,
	}).Debug("evaluation finished")
	return v, nil
}

// EvaluateString parses and evaluates an in-memory program.
func EvaluateString(name, src string, opts ...Option) (Value, error) {
	cfg := newConfig(opts)
	return Evaluate(parser.String(name, src, parser.WithLogger(cfg.log)), opts...)
}
