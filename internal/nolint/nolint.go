// Package nolint suppresses issues with `jlin:ignore` comments.
package nolint

import (
	"strings"

	"github.com/jslinters/jlin/internal/ast"
	tt "github.com/jslinters/jlin/internal/types"
)

const marker = "jlin:ignore"

// Manager manages ignore scopes and checks whether an issue is suppressed.
type Manager struct {
	scopes []ignoreScope
}

// ignoreScope is one ignore comment: it covers its own line and, for a
// standalone comment, the line below it.
type ignoreScope struct {
	rules map[string]struct{} // empty means all rules
	line  int
}

// ParseComments collects every `jlin:ignore` comment of the program.
func ParseComments(prog *ast.Program) *Manager {
	m := &Manager{}
	for _, c := range prog.Comments {
		text := strings.TrimSpace(c.Text)
		if !strings.HasPrefix(text, marker) {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(text, marker))
		m.scopes = append(m.scopes, ignoreScope{
			rules: parseRuleNames(rest),
			line:  c.Pos().Line,
		})
	}
	return m
}

func parseRuleNames(text string) map[string]struct{} {
	rules := make(map[string]struct{})
	if text == "" {
		return rules
	}
	for _, name := range strings.Split(text, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			rules[name] = struct{}{}
		}
	}
	return rules
}

// Suppressed reports whether the issue falls under an ignore comment on the
// same line or on the line directly above.
func (m *Manager) Suppressed(issue tt.Issue) bool {
	if m == nil {
		return false
	}
	for _, s := range m.scopes {
		if issue.Start.Line != s.line && issue.Start.Line != s.line+1 {
			continue
		}
		if len(s.rules) == 0 {
			return true
		}
		if _, ok := s.rules[issue.Rule]; ok {
			return true
		}
	}
	return false
}
