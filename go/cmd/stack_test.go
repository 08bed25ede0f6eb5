package cmd

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestInnermostStack(t *testing.T) {
	assert.Nil(t, innermostStack(io.EOF))

	inner := errors.New("inner")
	outer := errors.Wrap(inner, "outer")
	st := innermostStack(outer)
	assert.Equal(t, inner.(stackTracer).StackTrace(), st)

	assert.Nil(t, innermostStack(nil))
}
