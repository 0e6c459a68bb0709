package internal

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/jslinters/jlin/internal/types"
)

func runSource(t *testing.T, engine *Engine, src string) []tt.Issue {
	t.Helper()
	issues, err := engine.RunSource([]byte(src))
	require.NoError(t, err)
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Start.Offset != issues[j].Start.Offset {
			return issues[i].Start.Offset < issues[j].Start.Offset
		}
		return issues[i].Rule < issues[j].Rule
	})
	return issues
}

func TestEngineRunSource(t *testing.T) {
	t.Parallel()
	engine := NewEngine(nil)
	issues := runSource(t, engine, "var a = 1;\nlet b = 2;\nb = 3;\n")

	// `var a = 1` trips both rules, `b` is reassigned and trips neither
	require.Len(t, issues, 2)
	assert.Equal(t, "no-var", issues[0].Rule)
	assert.Equal(t, "prefer-const", issues[1].Rule)
}

func TestEngineRunFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.js")
	require.NoError(t, os.WriteFile(path, []byte("let answer = 42;\n"), 0o644))

	engine := NewEngine(nil)
	issues, err := engine.Run(path)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "prefer-const", issues[0].Rule)
	assert.Equal(t, path, issues[0].Filename)
}

func TestEngineParseError(t *testing.T) {
	t.Parallel()
	engine := NewEngine(nil)
	_, err := engine.RunSource([]byte("let = ;"))
	assert.Error(t, err)
}

func TestEngineSeverityOff(t *testing.T) {
	t.Parallel()
	engine := NewEngine(map[string]tt.ConfigRule{
		"no-var": {Severity: tt.SeverityOff},
	})
	issues := runSource(t, engine, "var a = 1;\n")
	require.Len(t, issues, 1)
	assert.Equal(t, "prefer-const", issues[0].Rule)
}

func TestEngineSeverityOverride(t *testing.T) {
	t.Parallel()
	engine := NewEngine(map[string]tt.ConfigRule{
		"prefer-const": {Severity: tt.SeverityError},
	})
	issues := runSource(t, engine, "let a = 1;\n")
	require.Len(t, issues, 1)
	assert.Equal(t, tt.SeverityError, issues[0].Severity)
}

func TestEngineOptionsWithoutSeverity(t *testing.T) {
	t.Parallel()
	// a config block that only tunes options keeps the rule's default severity
	engine := NewEngine(map[string]tt.ConfigRule{
		"prefer-const": {
			Options: map[string]any{"destructuring": "any"},
		},
	})
	issues := runSource(t, engine, "let a = 1;\n")
	require.Len(t, issues, 1)
	assert.Equal(t, tt.SeverityWarning, issues[0].Severity)
}

func TestEngineRuleOptions(t *testing.T) {
	t.Parallel()
	src := "let {a, b} = obj;\nb = 1;\n"

	engine := NewEngine(nil)
	assert.Len(t, runSource(t, engine, src), 1)

	engine = NewEngine(map[string]tt.ConfigRule{
		"prefer-const": {
			Severity: tt.SeverityWarning,
			Options:  map[string]any{"destructuring": "all"},
		},
	})
	assert.Empty(t, runSource(t, engine, src))
}

func TestEngineIgnoreReadBeforeAssignOption(t *testing.T) {
	t.Parallel()
	src := "let x;\nuse(x);\nx = 1;\n"

	engine := NewEngine(nil)
	assert.Empty(t, runSource(t, engine, src))

	engine = NewEngine(map[string]tt.ConfigRule{
		"prefer-const": {
			Severity: tt.SeverityWarning,
			Options:  map[string]any{"ignoreReadBeforeAssign": true},
		},
	})
	assert.Len(t, runSource(t, engine, src), 1)
}

func TestEngineIgnoreRule(t *testing.T) {
	t.Parallel()
	engine := NewEngine(nil)
	engine.IgnoreRule("prefer-const")
	issues := runSource(t, engine, "var a = 1;\n")
	require.Len(t, issues, 1)
	assert.Equal(t, "no-var", issues[0].Rule)
}

func TestEngineIgnorePath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "vendor.js")
	require.NoError(t, os.WriteFile(path, []byte("var a = 1;\n"), 0o644))

	engine := NewEngine(nil)
	engine.IgnorePath(dir)
	issues, err := engine.Run(path)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestEngineNolintSuppression(t *testing.T) {
	t.Parallel()
	engine := NewEngine(nil)

	// trailing comment suppresses everything on its line
	assert.Empty(t, runSource(t, engine, "let a = 1; // jlin:ignore\n"))

	// a standalone comment covers the next line
	assert.Empty(t, runSource(t, engine, "// jlin:ignore\nlet a = 1;\n"))

	// rule-scoped suppression leaves the other rule active
	issues := runSource(t, engine, "// jlin:ignore no-var\nvar a = 1;\n")
	require.Len(t, issues, 1)
	assert.Equal(t, "prefer-const", issues[0].Rule)

	// unrelated lines still report
	issues = runSource(t, engine, "// jlin:ignore\nok();\nlet a = 1;\n")
	require.Len(t, issues, 1)
}
