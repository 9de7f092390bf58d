// Package parser turns source bytes into an ast.Ast.
//
// Parsing runs as a pipeline of three stages fed by the scanner. The
// sequencer decides the fixity of every operator from the lexemes around
// it, the grouper tracks the stack of open boundaries (parentheses, braces,
// indented blocks and heading sections) and the binder builds the postfix
// arena with an explicit operator stack. No stage can fail: problems are
// written into the tree as error terms and parsing carries on.
package parser

import (
	"github.com/sirupsen/logrus"

	"github.com/rubiojr/berg/ast"
	"github.com/rubiojr/berg/scanner"
	"github.com/rubiojr/berg/source"
)

type config struct {
	log logrus.FieldLogger
}

// Option configures Parse.
type Option func(*config)

// WithLogger sets the logger parse statistics are written to at debug
// level.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) { c.log = l }
}

// Parse parses src. It always returns an Ast; a source that could not be
// opened yields an empty program carrying the open error.
func Parse(src source.Source, opts ...Option) *ast.Ast {
	cfg := config{log: logrus.StandardLogger()}
	for _, o := range opts {
		o(&cfg)
	}

	buf := src.Bytes()
	lexemes, lines := scanner.Scan(src.Name(), buf)
	b := ast.NewBuilder(src.Name(), buf, lines)
	if err := src.Err(); err != nil {
		b.SetSourceErr(err)
	}

	g := newGrouper(newBinder(b, buf))
	newSequencer(lexemes, buf, g).run()
	a := b.Finish()

	cfg.log.WithFields(logrus.Fields{
		"source":  src.Name(),
		"bytes":   len(buf),
		"lexemes": len(lexemes),
		"tokens":  a.Len(),
	}).Debug("parsed source")
	return a
}

// String parses an in-memory program.
func String(name, src string, opts ...Option) *ast.Ast {
	return Parse(source.String(name, src), opts...)
}
