package eval

import (
	"math/big"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rubiojr/berg/ast"
	"github.com/rubiojr/berg/diag"
	"github.com/rubiojr/berg/parser"
	"github.com/rubiojr/berg/source"
)

type program struct {
	Name   string `yaml:"name"`
	Src    string `yaml:"src"`
	Want   string `yaml:"want"`
	Error  string `yaml:"error"`
	Offset int    `yaml:"offset"`
}

func loadPrograms(t *testing.T) []program {
	t.Helper()
	data, err := os.ReadFile("testdata/programs.yaml")
	require.NoError(t, err)
	var progs []program
	require.NoError(t, yaml.Unmarshal(data, &progs))
	require.NotEmpty(t, progs)
	return progs
}

func TestPrograms(t *testing.T) {
	for _, p := range loadPrograms(t) {
		t.Run(p.Name, func(t *testing.T) {
			v, err := EvaluateString("test", p.Src)
			if p.Error == "" {
				require.NoError(t, err)
				assert.Equal(t, p.Want, v.String())
				return
			}

			require.Error(t, err)
			code, ok := diag.ParseCode(p.Error)
			require.True(t, ok, "unknown code %q", p.Error)
			var e *Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, code, e.Code, err.Error())
			r, ok := e.Range()
			require.True(t, ok)
			assert.Equal(t, source.ByteIndex(p.Offset), r.Start, err.Error())
		})
	}
}

func TestEvaluateKinds(t *testing.T) {
	tests := []struct {
		src  string
		want Kind
	}{
		{"1", KindRational},
		{"true", KindBoolean},
		{"nothing", KindNothing},
		{"1, 2", KindTuple},
		{"if", KindControl},
		{"a = {1}; a", KindRational},
	}
	for _, tt := range tests {
		v, err := EvaluateString("test", tt.src)
		require.NoError(t, err, tt.src)
		assert.Equal(t, tt.want, v.Kind(), tt.src)
	}
}

func TestEvaluateIsRepeatable(t *testing.T) {
	a := parser.String("test", "i = 0\nwhile {i < 4} { i += 2 }\n:x = i; x * x")
	for n := 0; n < 2; n++ {
		v, err := Evaluate(a)
		require.NoError(t, err)
		assert.Equal(t, "16", v.String())
	}
}

func TestEvaluateDisplayForm(t *testing.T) {
	for _, src := range []string{
		"1+2*3",
		"(1 + 2) * 3",
		"a = { :x = 10 }\na.x",
		"x =\n  a = 2\n  a * 3\nx",
		"i = 0\nwhile {i < 3} { i++ }\ni",
		"if (false) {1} else if (true) {2} else {3}",
		"1,2,",
	} {
		a := parser.String("test", src)
		want, err := Evaluate(a)
		require.NoError(t, err, src)

		got, err := EvaluateString("display", a.Root().String())
		require.NoError(t, err, a.Root().String())
		assert.True(t, Equal(want, got), "%q: %s != %s", src, want, got)
	}
}

func TestDisplayFormKeepsErrors(t *testing.T) {
	for _, src := range []string{
		"1,,",
		",,",
		"a = 1; a;,",
		"===\na = 1\n---\nb = a\n---\nb",
		"1 + 2)",
		"(1 + 2",
		"1 + 2a",
	} {
		a := parser.String("test", src)
		_, err := Evaluate(a)
		var want *Error
		require.True(t, errors.As(err, &want), src)

		display := a.Root().String()
		_, err = EvaluateString("display", display)
		var got *Error
		require.True(t, errors.As(err, &got), "%q displayed as %q", src, display)
		assert.Equal(t, want.Code, got.Code, "%q displayed as %q", src, display)
	}
}

func TestEvaluateDiagnostic(t *testing.T) {
	_, err := EvaluateString("prog.berg", "a = 1\nb = a / 0\n")
	require.Error(t, err)
	assert.Equal(t, "prog.berg:2:9: DivideByZero: division by zero", err.Error())

	var e *Error
	require.True(t, errors.As(err, &e))
	d := e.Diagnostic()
	assert.Equal(t, 2, d.Start.Line)
	assert.Equal(t, 9, d.Start.Column)
	assert.Equal(t, "   1 | a = 1\n   2 | b = a / 0\n     |         ^\n", d.Snippet)
}

func TestEvaluateSourceError(t *testing.T) {
	a := parser.Parse(source.File("/nonexistent/prog.berg"))
	v, err := Evaluate(a)
	assert.Nil(t, v)
	require.Error(t, err)

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, diag.IoOpenError, e.Code)
	assert.Equal(t, SourceOnly, e.Location.Kind)
	_, ok := e.Range()
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "/nonexistent/prog.berg: IoOpenError: cannot open source")
}

func TestStructuralErrorOnlyWhenReached(t *testing.T) {
	v, err := EvaluateString("test", "false && (1 +")
	require.NoError(t, err)
	assert.Equal(t, "false", v.String())

	_, err = EvaluateString("test", "true && (1 +")
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, diag.OpenWithoutClose, e.Code)
	assert.Equal(t, SourceRange, e.Location.Kind)
	r, _ := e.Range()
	assert.Equal(t, source.Range(8, 9), r)

	_, err = EvaluateString("test", "1 + 2a")
	require.True(t, errors.As(err, &e))
	assert.Equal(t, diag.IdentifierStartsWithNumber, e.Code)
	assert.Equal(t, SourceRange, e.Location.Kind)
	r, _ = e.Range()
	assert.Equal(t, source.Range(4, 6), r)
}

func TestErrorThrough(t *testing.T) {
	a := parser.String("test", "while {1} {2}")
	err := mismatch(diag.Right).through(diag.Left)
	assert.Equal(t, Relative, err.Location.Kind)
	assert.Equal(t, diag.LeftRight, err.Location.Position)

	resolved := err.at(a.Root())
	assert.Equal(t, SourceExpression, resolved.Location.Kind)
	r, _ := resolved.Range()
	assert.Equal(t, source.Range(6, 9), r)

	assert.Same(t, resolved, resolved.through(diag.Left))
}

func TestEvaluateLogs(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	_, err := EvaluateString("test", "a = {1}; a + a", WithLogger(logger))
	require.NoError(t, err)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "evaluation finished", entry.Message)
	assert.Equal(t, "rational", entry.Data["kind"])
	assert.Equal(t, 2, entry.Data["invocations"])

	hook.Reset()
	_, err = EvaluateString("test", "1/0", WithLogger(logger))
	require.Error(t, err)
	entry = hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "evaluation failed", entry.Message)
	assert.Equal(t, "DivideByZero", entry.Data["code"])
}

func TestRelativeErrorsResolve(t *testing.T) {
	a := parser.String("test", "(1 + 2) / (3 - 3)")
	_, err := Evaluate(a)
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, SourceExpression, e.Location.Kind)
	assert.Equal(t, a.Root().Right().Index(), e.Location.Index)
	r, _ := e.Range()
	assert.Equal(t, source.Range(10, 17), r)
}

func TestScopes(t *testing.T) {
	a := parser.String("test", "x")
	x, ok := a.LookupIdentifier("x")
	require.True(t, ok)

	root := NewRoot()
	outer := NewBlockScope(root)
	inner := NewBlockScope(outer)

	f, ok := Lookup(inner, ast.KwTrue)
	require.True(t, ok)
	assert.Equal(t, Boolean(true), f.Value)

	_, ok = Lookup(inner, x)
	assert.False(t, ok)

	d := outer.Declare(x, false)
	assert.False(t, d.Set)
	got, ok := Lookup(inner, x)
	require.True(t, ok)
	assert.Same(t, d, got)

	outer.Declare(x, true)
	outer.Declare(x, false)
	assert.True(t, d.Public)
	assert.Len(t, outer.Fields(), 1)

	_, ok = assignable(inner, ast.KwIf)
	assert.False(t, ok)
}

func TestKeywordsCanBeShadowed(t *testing.T) {
	v, err := EvaluateString("test", "true = 1; true + 1")
	require.NoError(t, err)
	assert.Equal(t, "2", v.String())

	v, err = EvaluateString("test", "a = { true = 0; 1 }; b = a + 1; true")
	require.NoError(t, err)
	assert.Equal(t, "true", v.String())
}

func TestValues(t *testing.T) {
	assert.Equal(t, "-3/4", NewRational(big.NewRat(6, -8)).String())
	assert.True(t, Equal(Tuple{Int(1), Boolean(true)}, Tuple{Int(1), Boolean(true)}))
	assert.False(t, Equal(Tuple{Int(1)}, Tuple{Int(1), Int(2)}))
	assert.False(t, Equal(Nothing{}, Boolean(false)))

	five := Int(5)
	five.Rat().SetInt64(0)
	assert.Equal(t, "5", five.String())

	err, ok := Int(1).Infix(ast.OpDivide, Int(0)).(*Error)
	require.True(t, ok)
	assert.Equal(t, Relative, err.Location.Kind)
	assert.Equal(t, diag.Right, err.Location.Position)
}
