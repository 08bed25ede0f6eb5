package symbols

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunixbochs/rawcode/go/loader/loadertest"
)

func writeObject(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "demo.o")
	require.NoError(t, ioutil.WriteFile(path, loadertest.StandardObject(t), 0644))
	return path
}

func TestSymbols(t *testing.T) {
	c := New()
	var out bytes.Buffer
	c.Stdout = &out
	require.Equal(t, 0, c.Execute([]string{"symbols", writeObject(t)}))
	assert.Equal(t, "Function: main at 0x0\nFunction: helper at 0x10\n", out.String())
}

func TestSymbolsAddr(t *testing.T) {
	path := writeObject(t)
	for addr, expected := range map[string]string{
		"0x14": "helper+0x4",
		"0":    "main",
		"0x40": "0x40",
	} {
		c := New()
		var out bytes.Buffer
		c.Stdout = &out
		require.Equal(t, 0, c.Execute([]string{"symbols", "-addr", addr, path}))
		assert.Equal(t, expected+"\n", out.String(), addr)
	}
}

func TestSymbolsBadAddr(t *testing.T) {
	c := New()
	c.Stdout = &bytes.Buffer{}
	assert.Equal(t, 1, c.Execute([]string{"symbols", "-addr", "zz", writeObject(t)}))
}
