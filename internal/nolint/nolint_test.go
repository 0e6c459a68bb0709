package nolint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jslinters/jlin/internal/ast"
	"github.com/jslinters/jlin/internal/parser"
	tt "github.com/jslinters/jlin/internal/types"
)

func parseComments(t *testing.T, src string) *Manager {
	t.Helper()
	prog, err := parser.ParseSource([]byte(src))
	require.NoError(t, err)
	return ParseComments(prog)
}

func issueAt(rule string, line int) tt.Issue {
	return tt.Issue{Rule: rule, Start: ast.Position{Line: line, Column: 1}}
}

func TestSuppressAllRules(t *testing.T) {
	t.Parallel()
	m := parseComments(t, "let a = 1; // jlin:ignore\nlet b = 2;\nlet c = 3;")

	assert.True(t, m.Suppressed(issueAt("prefer-const", 1)))
	assert.True(t, m.Suppressed(issueAt("no-var", 1)))
	// the comment also covers the line below it
	assert.True(t, m.Suppressed(issueAt("prefer-const", 2)))
	assert.False(t, m.Suppressed(issueAt("prefer-const", 3)))
}

func TestSuppressNamedRules(t *testing.T) {
	t.Parallel()
	m := parseComments(t, "// jlin:ignore no-var, prefer-const\nvar a = 1;\nvar b = 2;")

	assert.True(t, m.Suppressed(issueAt("no-var", 2)))
	assert.True(t, m.Suppressed(issueAt("prefer-const", 2)))
	assert.False(t, m.Suppressed(issueAt("no-var", 3)))

	m = parseComments(t, "// jlin:ignore no-var\nvar a = 1;")
	assert.True(t, m.Suppressed(issueAt("no-var", 2)))
	assert.False(t, m.Suppressed(issueAt("prefer-const", 2)))
}

func TestBlockCommentMarker(t *testing.T) {
	t.Parallel()
	m := parseComments(t, "/* jlin:ignore */ let a = 1;")
	assert.True(t, m.Suppressed(issueAt("prefer-const", 1)))
}

func TestUnrelatedCommentsIgnored(t *testing.T) {
	t.Parallel()
	m := parseComments(t, "// plain note\nlet a = 1;")
	assert.False(t, m.Suppressed(issueAt("prefer-const", 2)))
}

func TestNilManager(t *testing.T) {
	t.Parallel()
	var m *Manager
	assert.False(t, m.Suppressed(issueAt("prefer-const", 1)))
}
