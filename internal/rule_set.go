package internal

import (
	"github.com/jslinters/jlin/internal/ast"
	"github.com/jslinters/jlin/internal/lints"
	"github.com/jslinters/jlin/internal/scope"
	tt "github.com/jslinters/jlin/internal/types"
)

/*
* Implement each lint rule as a separate struct
 */

// LintRule defines the interface for all lint rules.
type LintRule interface {
	// Check runs the lint rule on the given program and returns a slice of Issues.
	Check(filename string, prog *ast.Program, info *scope.Info) ([]tt.Issue, error)

	// Name returns the name of the lint rule.
	Name() string

	// Severity returns the severity of the rule.
	Severity() tt.Severity

	// SetSeverity sets the severity of the rule.
	SetSeverity(tt.Severity)
}

// ConfigurableRule is implemented by rules that accept per-rule options from
// the configuration file.
type ConfigurableRule interface {
	Configure(options map[string]any)
}

type PreferConstRule struct {
	severity tt.Severity
	opts     lints.PreferConstOptions
}

func NewPreferConstRule() LintRule {
	return &PreferConstRule{
		severity: tt.SeverityWarning,
		opts:     lints.PreferConstOptions{Destructuring: lints.DestructuringAny},
	}
}

func (r *PreferConstRule) Check(filename string, prog *ast.Program, info *scope.Info) ([]tt.Issue, error) {
	issues, err := lints.DetectPreferConst(filename, prog, info, r.opts)
	if err != nil {
		return nil, err
	}
	for i := range issues {
		issues[i].Severity = r.severity
	}
	return issues, nil
}

func (r *PreferConstRule) Name() string              { return "prefer-const" }
func (r *PreferConstRule) Severity() tt.Severity     { return r.severity }
func (r *PreferConstRule) SetSeverity(s tt.Severity) { r.severity = s }

// Configure reads the rule options. Unknown or mistyped values keep the
// defaults.
func (r *PreferConstRule) Configure(options map[string]any) {
	if raw, ok := options["destructuring"].(string); ok {
		if raw == string(lints.DestructuringAll) {
			r.opts.Destructuring = lints.DestructuringAll
		} else {
			r.opts.Destructuring = lints.DestructuringAny
		}
	}
	if raw, ok := options["ignoreReadBeforeAssign"].(bool); ok {
		r.opts.IgnoreReadBeforeAssign = raw
	}
}

type NoVarRule struct {
	severity tt.Severity
}

func NewNoVarRule() LintRule {
	return &NoVarRule{severity: tt.SeverityWarning}
}

func (r *NoVarRule) Check(filename string, prog *ast.Program, info *scope.Info) ([]tt.Issue, error) {
	issues, err := lints.DetectNoVar(filename, prog, info)
	if err != nil {
		return nil, err
	}
	for i := range issues {
		issues[i].Severity = r.severity
	}
	return issues, nil
}

func (r *NoVarRule) Name() string              { return "no-var" }
func (r *NoVarRule) Severity() tt.Severity     { return r.severity }
func (r *NoVarRule) SetSeverity(s tt.Severity) { r.severity = s }
