package compile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/lunixbochs/rawcode/go/models"
)

// fakeCompiler writes a shell script that behaves like tcc for our argument order.
func fakeCompiler(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fakecc")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestTCCArgs(t *testing.T) {
	c := &TCC{Bin: "tcc", IncludePaths: []string{"/", "/tinycc-headers"}}
	require.Equal(t,
		[]string{"-c", "in.c", "-o", "out.o", "-I/", "-I/tinycc-headers"},
		c.args("in.c", "out.o"))
}

func TestTCCCompile(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	dir := t.TempDir()
	out := filepath.Join(dir, "out.o")
	c := &TCC{Bin: fakeCompiler(t, `printf 'obj:%s' "$2" > "$4"`)}
	require.NoError(t, c.Compile(context.Background(), "demo.c", out))
	p, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "obj:demo.c", string(p))
}

func TestTCCCompileFailure(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	c := &TCC{Bin: fakeCompiler(t, "echo \"demo.c:1: error: ';' expected\" >&2\nexit 1\n")}
	err := c.Compile(context.Background(), "demo.c", filepath.Join(t.TempDir(), "out.o"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrCompile))
	require.Contains(t, err.Error(), "';' expected")
}

func TestTCCMissingBinary(t *testing.T) {
	c := &TCC{Bin: filepath.Join(t.TempDir(), "no-such-cc")}
	err := c.Compile(context.Background(), "demo.c", "out.o")
	require.True(t, errors.Is(err, ErrCompile))
}

func TestNewTCCFromConfig(t *testing.T) {
	inc := t.TempDir()
	c := NewTCC(&models.Config{Compiler: "/opt/tcc/bin/tcc", IncludePaths: []string{inc}})
	require.Equal(t, "/opt/tcc/bin/tcc", c.Bin)
	require.Contains(t, c.IncludePaths, inc)

	c = NewTCC(nil)
	require.Equal(t, models.DefaultCompiler, c.Bin)
}
