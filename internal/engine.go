package internal

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/jslinters/jlin/internal/ast"
	"github.com/jslinters/jlin/internal/lints"
	"github.com/jslinters/jlin/internal/nolint"
	"github.com/jslinters/jlin/internal/scope"
	tt "github.com/jslinters/jlin/internal/types"
)

// Engine manages the linting process.
type Engine struct {
	ignoredRules map[string]bool
	ignoredPaths []string
	rules        map[string]LintRule

	watcher    *fsnotify.Watcher
	isWatching bool
}

// NewEngine creates a new lint engine configured by the per-rule settings.
func NewEngine(rules map[string]tt.ConfigRule) *Engine {
	engine := &Engine{}
	engine.applyRules(rules)
	return engine
}

// Define the ruleConstructor type
type ruleConstructor func() LintRule

// Define the ruleMap type
type ruleMap map[string]ruleConstructor

// Create a map to hold the mappings of rule names to their constructors
var allRuleConstructors = ruleMap{
	"prefer-const": NewPreferConstRule,
	"no-var":       NewNoVarRule,
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) {
	e.rules = make(map[string]LintRule)
	e.registerDefaultRules()

	// Iterate over the rules and apply severity and options
	for key, cfg := range rules {
		rule := e.rules[key]
		if rule == nil {
			newRuleCstr := allRuleConstructors[key]
			if newRuleCstr == nil {
				// Unknown rule, continue to the next one
				continue
			}
			rule = newRuleCstr()
			e.rules[key] = rule
		}
		if cfg.Severity != tt.SeverityUnset {
			if cfg.Severity == tt.SeverityOff {
				e.IgnoreRule(key)
			}
			rule.SetSeverity(cfg.Severity)
		}
		if cr, ok := rule.(ConfigurableRule); ok && cfg.Options != nil {
			cr.Configure(cfg.Options)
		}
	}
}

func (e *Engine) registerDefaultRules() {
	for key, newRuleCstr := range allRuleConstructors {
		e.rules[key] = newRuleCstr()
	}
}

// IgnoreRule disables a rule for the rest of the engine's lifetime.
func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

// IgnorePath excludes a path prefix from linting.
func (e *Engine) IgnorePath(path string) {
	e.ignoredPaths = append(e.ignoredPaths, path)
}

func (e *Engine) pathIgnored(filename string) bool {
	for _, p := range e.ignoredPaths {
		if strings.HasPrefix(filename, p) {
			return true
		}
	}
	return false
}

// Run applies all lint rules to the given file and returns a slice of Issues.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	if e.pathIgnored(filename) {
		return nil, nil
	}
	prog, info, err := lints.ParseFile(filename, nil)
	if err != nil {
		return nil, fmt.Errorf("error parsing file: %w", err)
	}
	return e.run(filename, prog, info)
}

// RunSource applies all lint rules to the given source and returns a slice of
// Issues.
func (e *Engine) RunSource(source []byte) ([]tt.Issue, error) {
	prog, info, err := lints.ParseFile("", source)
	if err != nil {
		return nil, fmt.Errorf("error parsing content: %w", err)
	}
	return e.run("", prog, info)
}

func (e *Engine) run(filename string, prog *ast.Program, info *scope.Info) ([]tt.Issue, error) {
	nolintMgr := nolint.ParseComments(prog)

	var wg sync.WaitGroup
	var mu sync.Mutex

	var allIssues []tt.Issue
	for _, rule := range e.rules {
		wg.Add(1)
		go func(r LintRule) {
			defer wg.Done()
			if e.ignoredRules[r.Name()] {
				return
			}
			issues, err := r.Check(filename, prog, info)
			if err != nil {
				return
			}

			nolinted := filterNolintIssues(nolintMgr, issues)

			mu.Lock()
			allIssues = append(allIssues, nolinted...)
			mu.Unlock()
		}(rule)
	}
	wg.Wait()

	return allIssues, nil
}

func filterNolintIssues(mgr *nolint.Manager, issues []tt.Issue) []tt.Issue {
	filtered := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		if !mgr.Suppressed(issue) {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}
