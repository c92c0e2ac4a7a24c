package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-isatty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-lang/atlas"
	"github.com/atlas-lang/atlas/internal/config"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	if args == nil {
		// A nil slice makes cobra fall back to os.Args.
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	fn := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fn, []byte(content), 0644))
	return fn
}

func TestEvalFlag(t *testing.T) {
	t.Setenv(config.EnvVar, "")

	out, err := execute(t, "", "-e", "(+ 2 4 5)")
	require.NoError(t, err)
	assert.Equal(t, "11\n", out)

	out, err = execute(t, "", "--eval", `(print "hi")`)
	require.NoError(t, err)
	assert.Equal(t, "hi\n\"hi\"\n", out)

	_, err = execute(t, "", "-e", "(foo 1)")
	require.Error(t, err)
	assert.True(t, atlas.IsEvalError(err, atlas.UnknownFunction))
}

func TestFiles(t *testing.T) {
	t.Setenv(config.EnvVar, "")
	dir := t.TempDir()
	good := writeFile(t, dir, "good.atl", "(+ 1 (+ 1 1) (+ 2 2))\n")
	bad := writeFile(t, dir, "bad.atl", "(+ 1 2\n")
	also := writeFile(t, dir, "also.atl", "(+ 40 2)\n")

	out, err := execute(t, "", good, bad, also)
	require.Error(t, err)
	assert.True(t, atlas.IsSyntaxError(err))
	assert.Equal(t, "7\n", out)

	out, err = execute(t, "", "--keep-going", good, bad, also)
	require.Error(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok, "want *multierror.Error, got %T", err)
	assert.Len(t, merr.Errors, 1)
	assert.Contains(t, merr.Error(), bad)
	assert.Equal(t, "7\n42\n", out)

	out, err = execute(t, "", "--keep-going", good, also)
	require.NoError(t, err)
	assert.Equal(t, "7\n42\n", out)
}

func TestErrorsLeftToCaller(t *testing.T) {
	t.Setenv(config.EnvVar, "")
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"-e", "(- 5 2)"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, atlas.IsEvalError(err, atlas.NotImplemented))
	assert.Empty(t, errOut.String())
	assert.Empty(t, out.String())
}

func TestStdin(t *testing.T) {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		t.Skip("stdin is a terminal")
	}
	t.Setenv(config.EnvVar, "")

	out, err := execute(t, "(+ 1\n 2)\n(+ 3 4)\n")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "atlas.yaml", "print_result: false\nsilent_print: true\n")

	out, err := execute(t, "", "--config", cfg, "-e", `(print "x")`)
	require.NoError(t, err)
	assert.Equal(t, "", out)

	t.Setenv(config.EnvVar, cfg)
	out, err = execute(t, "", "-e", "(+ 1 1)")
	require.NoError(t, err)
	assert.Equal(t, "", out)

	t.Setenv(config.EnvVar, filepath.Join(dir, "missing.yaml"))
	_, err = execute(t, "", "-e", "(+ 1 1)")
	require.Error(t, err)
}

func TestRepl(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Default()
	in := strings.NewReader("(+ 1 2)\n\n(foo)\n(print \"a\")\n")
	repl(in, &out, cfg, atlas.NewReducer(&out))

	want := "> 3\n" +
		"> > error: UnknownFunction: unknown function \"foo\" at (0,0) (foo)\n" +
		"> a\n\"a\"\n" +
		"> "
	assert.Equal(t, want, out.String())
}
