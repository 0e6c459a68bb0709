// Package fixer applies issue suggestions to source files as byte-offset
// span replacements.
package fixer

import (
	"fmt"
	"os"
	"sort"

	tt "github.com/jslinters/jlin/internal/types"
)

type Fixer struct {
	DryRun        bool
	MinConfidence float64 // threshold for fixing issues
}

func New(dryRun bool, threshold float64) *Fixer {
	return &Fixer{
		DryRun:        dryRun,
		MinConfidence: threshold,
	}
}

// Fix rewrites filename with every applicable suggestion applied.
func (f *Fixer) Fix(filename string, issues []tt.Issue) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if f.DryRun {
		for _, issue := range issues {
			if !f.applicable(issue) {
				continue
			}
			fmt.Printf("Would fix issue in %s at line %d: %s\n", filename, issue.Start.Line, issue.Message)
			fmt.Printf("Suggestion:\n%s\n", issue.Suggestion)
		}
		return nil
	}

	fixed, n := f.apply(content, issues)
	if n == 0 {
		return nil
	}
	if err := os.WriteFile(filename, fixed, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	fmt.Printf("Fixed %d issue(s) in %s\n", n, filename)
	return nil
}

// FixSource returns source with every applicable suggestion applied.
func (f *Fixer) FixSource(source []byte, issues []tt.Issue) []byte {
	fixed, _ := f.apply(source, issues)
	return fixed
}

// apply replaces issue spans back to front so earlier offsets stay valid.
func (f *Fixer) apply(content []byte, issues []tt.Issue) ([]byte, int) {
	applicable := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		if f.applicable(issue) {
			applicable = append(applicable, issue)
		}
	}
	sort.Slice(applicable, func(i, j int) bool {
		return applicable[i].Start.Offset > applicable[j].Start.Offset
	})

	n := 0
	for _, issue := range applicable {
		start, end := issue.Start.Offset, issue.End.Offset
		if start < 0 || end > len(content) || start > end {
			continue
		}
		var patched []byte
		patched = append(patched, content[:start]...)
		patched = append(patched, issue.Suggestion...)
		patched = append(patched, content[end:]...)
		content = patched
		n++
	}
	return content, n
}

func (f *Fixer) applicable(issue tt.Issue) bool {
	return issue.Fixable && issue.Confidence >= f.MinConfidence
}
