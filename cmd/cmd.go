package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/rubiojr/berg/ast"
	"github.com/rubiojr/berg/diag"
	"github.com/rubiojr/berg/eval"
	"github.com/rubiojr/berg/parser"
	"github.com/rubiojr/berg/source"
)

// errFailed is returned by commands that already reported their failure.
var errFailed = errors.New("failed")

// Execute runs the berg CLI with the given version string.
func Execute(version string) {
	if err := newApp(version, os.Stdout, os.Stderr).Run(context.Background(), os.Args); err != nil {
		if errors.Cause(err) != errFailed {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

type app struct {
	stdout io.Writer
	stderr io.Writer
	log    *logrus.Logger
}

func newApp(version string, stdout, stderr io.Writer) *cli.Command {
	log := logrus.New()
	log.SetOutput(stderr)
	a := &app{stdout: stdout, stderr: stderr, log: log}

	return &cli.Command{
		Name:                   "berg",
		Usage:                  "Evaluate programs in a small expression language",
		Version:                version,
		UseShortOptionHandling: true,
		Writer:                 stdout,
		ErrWriter:              stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log parser and evaluator statistics",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("BERG_LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Aliases: []string{"C"},
				Usage:   "Disable ANSI color output",
				Sources: cli.EnvVars("NO_COLOR"),
			},
		},
		Before: a.before,
		// Allow `berg prog.berg` as shorthand for `berg run prog.berg`
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 0 && strings.HasSuffix(cmd.Args().First(), ".berg") {
				return a.runAction(ctx, cmd)
			}
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Evaluate a program file and print its value",
				ArgsUsage: "<file.berg>",
				Action:    a.runAction,
			},
			{
				Name:      "eval",
				Usage:     "Evaluate a program given on the command line",
				ArgsUsage: "<program>",
				Action:    a.evalAction,
			},
			{
				Name:      "check",
				Usage:     "Report every syntax error without evaluating",
				ArgsUsage: "<file.berg>...",
				Action:    a.checkAction,
			},
			{
				Name:      "fmt",
				Usage:     "Print a program in canonical form",
				ArgsUsage: "<file.berg>",
				Action:    a.fmtAction,
			},
		},
	}
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := cmd.String("log-level")
	if cmd.Bool("verbose") {
		level = "debug"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return ctx, errors.Wrap(err, "invalid log level")
	}
	a.log.SetLevel(lvl)

	color.NoColor = cmd.Bool("no-color") || !isTerminal(a.stderr)
	return ctx, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *app) runAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return errors.New("usage: berg run <file.berg>")
	}
	return a.evaluate(source.File(cmd.Args().First()))
}

func (a *app) evalAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return errors.New("usage: berg eval <program>")
	}
	return a.evaluate(source.String("<eval>", strings.Join(cmd.Args().Slice(), " ")))
}

func (a *app) evaluate(src source.Source) error {
	tree := parser.Parse(src, parser.WithLogger(a.log))
	v, err := eval.Evaluate(tree, eval.WithLogger(a.log))
	if err != nil {
		var e *eval.Error
		if errors.As(err, &e) {
			a.report(e.Diagnostic())
			return errFailed
		}
		return err
	}
	fmt.Fprintln(a.stdout, v.String())
	return nil
}

func (a *app) checkAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return errors.New("usage: berg check <file.berg>...")
	}
	failed := false
	for _, path := range cmd.Args().Slice() {
		tree := parser.Parse(source.File(path), parser.WithLogger(a.log))
		err := ast.DefaultChecks.Run(tree)
		if err == nil {
			fmt.Fprintf(a.stdout, "%s: ok\n", path)
			continue
		}
		failed = true
		var errs *multierror.Error
		if !errors.As(err, &errs) {
			a.reportError(path, err)
			continue
		}
		for _, e := range errs.WrappedErrors() {
			var se *ast.SyntaxError
			if errors.As(e, &se) {
				a.report(se.Diagnostic())
			}
		}
		a.log.WithFields(logrus.Fields{"source": path, "errors": errs.Len()}).Info("check failed")
	}
	if failed {
		return errFailed
	}
	return nil
}

func (a *app) fmtAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return errors.New("usage: berg fmt <file.berg>")
	}
	path := cmd.Args().First()
	tree := parser.Parse(source.File(path), parser.WithLogger(a.log))
	if err := (ast.SourceCheck{}).Check(tree); err != nil {
		a.reportError(path, err)
		return errFailed
	}
	fmt.Fprintln(a.stdout, tree.Root().String())
	return nil
}

var (
	headerColor = color.New(color.FgRed, color.Bold)
	caretColor  = color.New(color.FgRed)
)

// report prints a diagnostic with its snippet. The last snippet line holds
// the carets.
func (a *app) report(d *diag.Diagnostic) {
	headerColor.Fprintln(a.stderr, d.String())
	if d.Snippet == "" {
		return
	}
	lines := strings.Split(strings.TrimSuffix(d.Snippet, "\n"), "\n")
	for i, l := range lines {
		if i == len(lines)-1 {
			caretColor.Fprintln(a.stderr, l)
			continue
		}
		fmt.Fprintln(a.stderr, l)
	}
}

func (a *app) reportError(path string, err error) {
	headerColor.Fprintf(a.stderr, "%s: %v\n", path, err)
}
