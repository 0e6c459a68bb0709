package lints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectNoVar(t *testing.T) {
	t.Parallel()
	src := "var a = 1;\nlet b = 2;\nfunction f() { var c; c = read(); }"
	prog, info, err := ParseFile("test.js", []byte(src))
	require.NoError(t, err)

	issues, err := DetectNoVar("test.js", prog, info)
	require.NoError(t, err)
	require.Len(t, issues, 2)

	first := issues[0]
	assert.Equal(t, "no-var", first.Rule)
	assert.Equal(t, NoVarMessage, first.Message)
	assert.Equal(t, "let", first.Suggestion)
	assert.True(t, first.Fixable)
	assert.Equal(t, 0, first.Start.Offset)
	assert.Equal(t, 3, first.End.Offset)

	second := issues[1]
	assert.Equal(t, 3, second.Start.Line)
}

func TestDetectNoVarIgnoresLetAndConst(t *testing.T) {
	t.Parallel()
	prog, info, err := ParseFile("test.js", []byte("let a = 1; const b = 2;"))
	require.NoError(t, err)

	issues, err := DetectNoVar("test.js", prog, info)
	require.NoError(t, err)
	assert.Empty(t, issues)
}
