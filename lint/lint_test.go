package lint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutConfigFile(t *testing.T) {
	t.Parallel()
	engine, err := New(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	issues, err := engine.RunSource([]byte("var a = 1;\n"))
	require.NoError(t, err)
	assert.Len(t, issues, 2)
}

func TestNewWithConfigFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, ".jlin.yaml")
	cfg := `name: jlin
rules:
  no-var:
    severity: "off"
  prefer-const:
    severity: warning
    options:
      destructuring: all
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	engine, err := New(cfgPath)
	require.NoError(t, err)

	// no-var is off, so only prefer-const can report
	issues, err := engine.RunSource([]byte("var a = 1;\n"))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "prefer-const", issues[0].Rule)

	// destructuring: all spares partially reassigned patterns
	issues, err = engine.RunSource([]byte("let {a, b} = obj;\nb = 1;\n"))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestNewWithInvalidConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, ".jlin.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("rules:\n  no-var:\n    severity: loud\n"), 0o644))

	_, err := New(cfgPath)
	assert.Error(t, err)
}

func TestProcessSources(t *testing.T) {
	t.Parallel()
	engine, err := New("")
	require.NoError(t, err)

	sources := [][]byte{
		[]byte("let a = 1;\n"),
		[]byte("let b = 2;\nb = 3;\n"),
	}
	issues, err := ProcessSources(context.Background(), nil, engine, sources, ProcessSource)
	require.NoError(t, err)
	assert.Len(t, issues, 1)
}

func TestProcessFilesSkipsOtherExtensions(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	jsPath := filepath.Join(dir, "a.js")
	txtPath := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(jsPath, []byte("let a = 1;\n"), 0o644))
	require.NoError(t, os.WriteFile(txtPath, []byte("not javascript"), 0o644))

	engine, err := New("")
	require.NoError(t, err)

	issues, err := ProcessFiles(context.Background(), nil, engine, []string{jsPath, txtPath}, ProcessFile)
	require.NoError(t, err)
	assert.Len(t, issues, 1)
}

func TestHasDesiredExtension(t *testing.T) {
	t.Parallel()
	assert.True(t, hasDesiredExtension("a.js"))
	assert.True(t, hasDesiredExtension("a.mjs"))
	assert.True(t, hasDesiredExtension("dir/a.cjs"))
	assert.False(t, hasDesiredExtension("a.ts"))
	assert.False(t, hasDesiredExtension("a"))
}
