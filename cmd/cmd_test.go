package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProgram(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := newApp("test", &stdout, &stderr).Run(context.Background(), append([]string{"berg"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestRunFile(t *testing.T) {
	path := writeProgram(t, "prog.berg", "a = 1\nb = a + 1\nb * 10\n")

	out, _, err := run(t, "run", path)
	require.NoError(t, err)
	assert.Equal(t, "20\n", out)

	out, _, err = run(t, path)
	require.NoError(t, err)
	assert.Equal(t, "20\n", out)
}

func TestRunUsage(t *testing.T) {
	_, _, err := run(t, "run")
	assert.EqualError(t, err, "usage: berg run <file.berg>")
}

func TestRunMissingFile(t *testing.T) {
	_, stderr, err := run(t, "run", filepath.Join(t.TempDir(), "missing.berg"))
	assert.Equal(t, errFailed, errors.Cause(err))
	assert.Contains(t, stderr, "IoOpenError: cannot open source")
}

func TestEval(t *testing.T) {
	out, _, err := run(t, "eval", "1+2*3")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)

	out, _, err = run(t, "eval", "x", "=", "2;", "x", "*", "x")
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)
}

func TestEvalReportsDiagnostic(t *testing.T) {
	out, stderr, err := run(t, "eval", "1/0")
	assert.Equal(t, errFailed, errors.Cause(err))
	assert.Empty(t, out)
	assert.Equal(t, "<eval>:1:3: DivideByZero: division by zero\n   1 | 1/0\n     |   ^\n", stderr)
}

func TestCheck(t *testing.T) {
	good := writeProgram(t, "good.berg", "a = 1\na + 1\n")
	out, _, err := run(t, "check", good)
	require.NoError(t, err)
	assert.Equal(t, good+": ok\n", out)

	bad := writeProgram(t, "bad.berg", "(1 + 2\nx = 2a\n")
	_, stderr, err := run(t, "check", bad)
	assert.Equal(t, errFailed, errors.Cause(err))
	assert.Contains(t, stderr, bad+":1:1: OpenWithoutClose")
	assert.Contains(t, stderr, bad+":2:5: IdentifierStartsWithNumber")
	assert.Less(t, bytes.Index([]byte(stderr), []byte("OpenWithoutClose")),
		bytes.Index([]byte(stderr), []byte("IdentifierStartsWithNumber")))
}

func TestCheckMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.berg")
	_, stderr, err := run(t, "check", path)
	assert.Equal(t, errFailed, errors.Cause(err))
	assert.Contains(t, stderr, "source check: cannot open source")
}

func TestFmt(t *testing.T) {
	path := writeProgram(t, "prog.berg", "x =\n  a = 2\n  a * 3\nx\n")
	out, _, err := run(t, "fmt", path)
	require.NoError(t, err)
	assert.Equal(t, "x = (a = 2; a * 3); x\n", out)
}

func TestLogLevel(t *testing.T) {
	_, _, err := run(t, "--log-level", "loud", "eval", "1")
	assert.ErrorContains(t, err, "invalid log level")

	_, stderr, err := run(t, "--verbose", "eval", "1")
	require.NoError(t, err)
	assert.Contains(t, stderr, "evaluation finished")

	t.Setenv("BERG_LOG_LEVEL", "debug")
	_, stderr, err = run(t, "eval", "1")
	require.NoError(t, err)
	assert.Contains(t, stderr, "parsed source")
}
