package lints

import (
	"github.com/jslinters/jlin/internal/ast"
	"github.com/jslinters/jlin/internal/scope"
	tt "github.com/jslinters/jlin/internal/types"
)

// NoVarMessage is the diagnostic for a function-scoped declaration.
const NoVarMessage = "Unexpected var, use 'let' or 'const' instead."

// DetectNoVar reports every `var` declaration. The fix swaps the keyword for
// `let`; the narrower block scoping is almost always what the code means.
func DetectNoVar(filename string, _ *ast.Program, info *scope.Info) ([]tt.Issue, error) {
	var issues []tt.Issue
	for _, decl := range info.Declarations {
		if decl.Kind != ast.KindVar {
			continue
		}
		issues = append(issues, tt.Issue{
			Rule:       "no-var",
			Category:   "style",
			Filename:   filename,
			Message:    NoVarMessage,
			Suggestion: "let",
			Start:      decl.KindSpan.Start,
			End:        decl.KindSpan.End,
			Severity:   tt.SeverityWarning,
			Confidence: 0.8,
			Fixable:    true,
		})
	}
	return issues, nil
}
