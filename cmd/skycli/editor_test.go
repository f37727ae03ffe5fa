package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripComments(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("hello world", stripComments("hello world\n"+editorHint))
	assert.Equal("", stripComments(editorHint))
	assert.Equal("", stripComments("   \n\t\n"))
	assert.Equal("keep\nthese lines", stripComments("keep\n# drop\nthese lines\n  # drop too"))
	assert.Equal("inline # is kept", stripComments("inline # is kept"))
}
