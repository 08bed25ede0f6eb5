package cmd

import (
	"debug/elf"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/go-kit/log/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteClosesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	c := NewCmd("test", "<file>")
	c.Run = func(args []string) error {
		level.Info(c.Config.Logger()).Log("msg", "ran", "arg", args[0])
		return nil
	}
	require.Equal(t, 0, c.Execute([]string{"test", "-log", path, "obj.o"}))
	assert.Nil(t, c.logOut)

	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=ran arg=obj.o")
}

func TestCloseWithoutLog(t *testing.T) {
	c := NewCmd("test", "<file>")
	assert.NoError(t, c.Close())
}

func TestSectionFlags(t *testing.T) {
	assert.Equal(t, "", sectionFlags(0))
	assert.Equal(t, "WA", sectionFlags(elf.SHF_ALLOC|elf.SHF_WRITE))
	assert.Equal(t, "AXG", sectionFlags(elf.SHF_GROUP|elf.SHF_EXECINSTR|elf.SHF_ALLOC))
}
