package fixer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jslinters/jlin/internal/ast"
	tt "github.com/jslinters/jlin/internal/types"
)

func keywordIssue(start, end int, suggestion string, confidence float64) tt.Issue {
	return tt.Issue{
		Rule:       "prefer-const",
		Message:    "Variable is never reassigned, use 'const' instead.",
		Suggestion: suggestion,
		Start:      ast.Position{Offset: start, Line: 1, Column: start + 1},
		End:        ast.Position{Offset: end, Line: 1, Column: end + 1},
		Confidence: confidence,
		Fixable:    true,
	}
}

func TestFixSource(t *testing.T) {
	t.Parallel()
	f := New(false, 0.8)
	src := []byte("let x = 1;")
	fixed := f.FixSource(src, []tt.Issue{keywordIssue(0, 3, "const", 1.0)})
	assert.Equal(t, "const x = 1;", string(fixed))
}

func TestFixSourceMultipleIssues(t *testing.T) {
	t.Parallel()
	f := New(false, 0.8)
	src := []byte("let x = 1;\nlet y = x + 1;")
	issues := []tt.Issue{
		keywordIssue(0, 3, "const", 1.0),
		{
			Rule:       "prefer-const",
			Suggestion: "const",
			Start:      ast.Position{Offset: 11, Line: 2, Column: 1},
			End:        ast.Position{Offset: 14, Line: 2, Column: 4},
			Confidence: 1.0,
			Fixable:    true,
		},
	}
	fixed := f.FixSource(src, issues)
	assert.Equal(t, "const x = 1;\nconst y = x + 1;", string(fixed))
}

func TestFixSourceSkipsLowConfidence(t *testing.T) {
	t.Parallel()
	f := New(false, 0.9)
	src := []byte("var x = 1;")
	fixed := f.FixSource(src, []tt.Issue{keywordIssue(0, 3, "let", 0.8)})
	assert.Equal(t, "var x = 1;", string(fixed))
}

func TestFixSourceSkipsUnfixable(t *testing.T) {
	t.Parallel()
	f := New(false, 0.8)
	issue := keywordIssue(0, 3, "const", 1.0)
	issue.Fixable = false
	fixed := f.FixSource([]byte("let x = 1;"), []tt.Issue{issue})
	assert.Equal(t, "let x = 1;", string(fixed))
}

func TestFixSourceIgnoresOutOfRangeSpans(t *testing.T) {
	t.Parallel()
	f := New(false, 0.8)
	fixed := f.FixSource([]byte("let x;"), []tt.Issue{keywordIssue(100, 103, "const", 1.0)})
	assert.Equal(t, "let x;", string(fixed))
}

func TestFixRewritesFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.js")
	require.NoError(t, os.WriteFile(path, []byte("let x = 1;\n"), 0o644))

	f := New(false, 0.8)
	require.NoError(t, f.Fix(path, []tt.Issue{keywordIssue(0, 3, "const", 1.0)}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "const x = 1;\n", string(content))
}

func TestFixDryRunLeavesFileUntouched(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.js")
	require.NoError(t, os.WriteFile(path, []byte("let x = 1;\n"), 0o644))

	f := New(true, 0.8)
	require.NoError(t, f.Fix(path, []tt.Issue{keywordIssue(0, 3, "const", 1.0)}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "let x = 1;\n", string(content))
}
