package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectScanner(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	files := map[string]string{
		"file1.js":                  "let a = 1;",
		"file2.mjs":                 "export const b = 2;",
		"file3.txt":                 "This is a text file",
		"subdir/file4.cjs":          "module.exports = {};",
		"node_modules/dep/index.js": "let skipped = true;",
		".cache/file5.js":           "let hidden = true;",
	}

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		err := os.MkdirAll(filepath.Dir(fullPath), 0o755)
		require.NoError(t, err)
		err = os.WriteFile(fullPath, []byte(content), 0o644)
		require.NoError(t, err)
	}

	scanner := New(tempDir)
	scannedFiles, err := scanner.Scan()
	require.NoError(t, err)

	assert.Equal(t, 3, len(scannedFiles), "Should find 3 JavaScript files")

	foundPaths := make(map[string]bool)
	for _, file := range scannedFiles {
		foundPaths[file.Path] = true
		assert.Greater(t, file.Size, int64(0), "File size should be greater than 0")
	}

	assert.True(t, foundPaths[filepath.Join(tempDir, "file1.js")], "Should find file1.js")
	assert.True(t, foundPaths[filepath.Join(tempDir, "file2.mjs")], "Should find file2.mjs")
	assert.True(t, foundPaths[filepath.Join(tempDir, "subdir/file4.cjs")], "Should find subdir/file4.cjs")
	assert.False(t, foundPaths[filepath.Join(tempDir, "file3.txt")], "Should not find file3.txt")
	assert.False(t, foundPaths[filepath.Join(tempDir, "node_modules/dep/index.js")], "Should skip node_modules")
	assert.False(t, foundPaths[filepath.Join(tempDir, ".cache/file5.js")], "Should skip hidden directories")
}
