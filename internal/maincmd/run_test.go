package maincmd_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/require"
	"github.com/universalsequences/zlisp/internal/maincmd"
)

func writeTemp(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.zl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func TestRunFilesArithmetic(t *testing.T) {
	path := writeTemp(t, `(+ 1 2)`)
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

	c := &maincmd.Cmd{}
	code := c.Main([]string{"zlisp", "run", path}, stdio)
	require.Equal(t, int(mainer.Success), int(code))
	require.Equal(t, "3\n", out.String())
	require.Empty(t, errOut.String())
}

func TestRunFilesSequenceSharesEnvironment(t *testing.T) {
	path := writeTemp(t, "(defun sq (x) (* x x))\n(sq 5)")
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

	c := &maincmd.Cmd{}
	code := c.Main([]string{"zlisp", "run", path}, stdio)
	require.Equal(t, int(mainer.Success), int(code))
	require.Equal(t, "25\n", out.String())
}

func TestRunFilesReportsError(t *testing.T) {
	path := writeTemp(t, `(/ 1 0)`)
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

	c := &maincmd.Cmd{}
	code := c.Main([]string{"zlisp", "run", path}, stdio)
	require.Equal(t, int(mainer.Failure), int(code))
	require.Contains(t, errOut.String(), "DivisionByZero")
}

func TestParseAndResolveFiles(t *testing.T) {
	path := writeTemp(t, `(+ 1 2)`)
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

	require.NoError(t, maincmd.ParseFiles(context.Background(), stdio, path))
	require.Equal(t, "(+ 1 2)\n", out.String())

	out.Reset()
	require.NoError(t, maincmd.ResolveFiles(context.Background(), stdio, path))
	require.Equal(t, "(+ 1 2)\n", out.String())
}

func TestDisasmFiles(t *testing.T) {
	path := writeTemp(t, `(+ 1 2)`)
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

	require.NoError(t, maincmd.DisasmFiles(context.Background(), stdio, path))
	require.Contains(t, out.String(), "pushconst")
	require.Contains(t, out.String(), "add")
}
