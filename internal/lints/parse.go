package lints

import (
	"fmt"
	"os"

	"github.com/jslinters/jlin/internal/ast"
	"github.com/jslinters/jlin/internal/parser"
	"github.com/jslinters/jlin/internal/scope"
)

// ParseFile parses filename (or src when non-nil) and resolves its scope
// graph. Every rule receives the same immutable program and graph.
func ParseFile(filename string, src []byte) (*ast.Program, *scope.Info, error) {
	if src == nil {
		content, err := os.ReadFile(filename)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read file: %w", err)
		}
		src = content
	}
	prog, err := parser.ParseSource(src)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filename, err)
	}
	return prog, scope.Resolve(prog), nil
}
