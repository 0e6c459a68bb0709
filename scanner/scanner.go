// Package scanner collects lintable JavaScript files under a root directory.
package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultExtensions are the file extensions jlin lints.
var DefaultExtensions = []string{".js", ".mjs", ".cjs"}

type FileInfo struct {
	Path string
	Size int64
}

type Scanner struct {
	rootDir    string
	extensions []string
}

// New creates a scanner for rootDir. Without explicit extensions it scans
// the default JavaScript extensions.
func New(rootDir string, extensions ...string) *Scanner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &Scanner{
		rootDir:    rootDir,
		extensions: extensions,
	}
}

// Scan walks the tree and returns every lintable file. Dependency and hidden
// directories are skipped.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var (
		files []FileInfo
		mutex sync.Mutex
		wg    sync.WaitGroup
	)

	err := filepath.Walk(s.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if skipDir(info.Name(), path == s.rootDir) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isTargetFile(path) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				fileInfo := FileInfo{
					Path: path,
					Size: info.Size(),
				}
				mutex.Lock()
				files = append(files, fileInfo)
				mutex.Unlock()
			}()
		}
		return nil
	})

	wg.Wait()
	return files, err
}

func skipDir(name string, isRoot bool) bool {
	if isRoot {
		return false
	}
	if name == "node_modules" {
		return true
	}
	return strings.HasPrefix(name, ".")
}

func (s *Scanner) isTargetFile(path string) bool {
	ext := filepath.Ext(path)
	for _, targetExt := range s.extensions {
		if ext == targetExt {
			return true
		}
	}
	return false
}
