package lints

import (
	"fmt"
	"strings"

	"github.com/jslinters/jlin/internal/ast"
	"github.com/jslinters/jlin/internal/scope"
	tt "github.com/jslinters/jlin/internal/types"
)

// PreferConstMessage is the diagnostic for a declaration that never reassigns
// its bindings.
const PreferConstMessage = "Variable is never reassigned, use 'const' instead."

// DestructuringPolicy selects how destructured declarations are judged.
type DestructuringPolicy string

const (
	// DestructuringAny reports a destructured declarator when at least one
	// of its names is never reassigned.
	DestructuringAny DestructuringPolicy = "any"
	// DestructuringAll reports a destructured declarator only when every
	// one of its names is never reassigned.
	DestructuringAll DestructuringPolicy = "all"
)

// PreferConstOptions configures DetectPreferConst.
type PreferConstOptions struct {
	Destructuring          DestructuringPolicy
	IgnoreReadBeforeAssign bool
}

// DetectPreferConst reports `let` and `var` declarations whose bindings are
// written at most once, so the declaration could use `const`.
func DetectPreferConst(filename string, prog *ast.Program, info *scope.Info, opts PreferConstOptions) ([]tt.Issue, error) {
	if opts.Destructuring != DestructuringAll {
		opts.Destructuring = DestructuringAny
	}
	a := &constAnalysis{info: info, opts: opts, base: make(map[*scope.Symbol]verdict)}
	a.collect()

	var issues []tt.Issue
	for _, decl := range info.Declarations {
		if !decl.Kind.Mutable() {
			continue
		}
		plan := a.planStatement(decl)
		if !plan.warn {
			continue
		}
		issue := tt.Issue{
			Rule:       "prefer-const",
			Category:   "style",
			Filename:   filename,
			Message:    PreferConstMessage,
			Start:      decl.KindSpan.Start,
			End:        decl.KindSpan.End,
			Severity:   tt.SeverityWarning,
			Confidence: 0.8,
		}
		if len(plan.names) > 0 {
			issue.Note = fmt.Sprintf("never reassigned: %s", strings.Join(plan.names, ", "))
		}
		if plan.fixable {
			issue.Suggestion = "const"
			issue.Fixable = true
			issue.Confidence = 1.0
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

type verdict int

const (
	verdictUnknown verdict = iota
	verdictEligible
	verdictIneligible
)

// nameState ties a bound name to its declaration site.
type nameState struct {
	decl *ast.VariableDeclaration
	// hasInit is true when the declarator carries an initializer or the
	// declaration is a for-in/for-of header, whose implicit per-iteration
	// rebind plays the same role.
	hasInit bool
}

type constAnalysis struct {
	info   *scope.Info
	opts   PreferConstOptions
	states map[*scope.Symbol]nameState
	base   map[*scope.Symbol]verdict
}

// collect indexes every name bound by a mutable declaration.
func (a *constAnalysis) collect() {
	a.states = make(map[*scope.Symbol]nameState)
	for _, decl := range a.info.Declarations {
		if !decl.Kind.Mutable() {
			continue
		}
		_, isForHeader := a.info.ForHeader(decl)
		for _, d := range decl.Declarations {
			hasInit := d.Init != nil || isForHeader
			for _, id := range boundNames(d.ID) {
				sym := a.info.SymbolOf(id)
				if sym == nil {
					continue
				}
				a.states[sym] = nameState{decl: decl, hasInit: hasInit}
			}
		}
	}
}

// baseEligible decides single-assignment eligibility for one name, ignoring
// the destructuring policy.
func (a *constAnalysis) baseEligible(sym *scope.Symbol) bool {
	if v, ok := a.base[sym]; ok && v != verdictUnknown {
		return v == verdictEligible
	}
	v := verdictIneligible
	if a.evalBase(sym) {
		v = verdictEligible
	}
	a.base[sym] = v
	return v == verdictEligible
}

func (a *constAnalysis) evalBase(sym *scope.Symbol) bool {
	st, ok := a.states[sym]
	if !ok {
		// parameters, function names, catch bindings: never const candidates
		return false
	}

	writes := sym.Writes()
	for _, w := range writes {
		if w.Group != nil && w.Group.HasMemberTarget {
			return false
		}
	}

	switch len(writes) {
	case 0:
		return st.hasInit
	case 1:
		// fallthrough below
	default:
		return false
	}

	w := writes[0]
	if st.hasInit {
		// the initializer plus one write is two assignments
		return false
	}
	if w.CrossScope {
		// a write from another function only counts as the single
		// deferred initialization when the option asks for it
		return a.opts.IgnoreReadBeforeAssign
	}
	if w.Branches > 0 || !w.StatementLevel {
		// the write may not run, or may run more than once
		return false
	}
	if !a.opts.IgnoreReadBeforeAssign {
		for _, acc := range sym.Accesses {
			if acc.Kind == scope.Read && acc.Offset() < w.Offset() {
				return false
			}
		}
	}
	return true
}

// eligible applies the destructuring policy on top of the base verdict: under
// `all`, a name written by a destructuring assignment stands or falls with
// every other target of that assignment.
func (a *constAnalysis) eligible(sym *scope.Symbol) bool {
	if !a.baseEligible(sym) {
		return false
	}
	if a.opts.Destructuring != DestructuringAll {
		return true
	}
	writes := sym.Writes()
	if len(writes) != 1 || writes[0].Group == nil {
		return true
	}
	group := writes[0].Group
	if group.Unresolved {
		return false
	}
	for _, member := range group.Symbols {
		if !a.baseEligible(member) {
			return false
		}
	}
	return true
}

type statementPlan struct {
	warn    bool
	fixable bool
	names   []string // eligible names, in pattern order
}

// planStatement decides whether decl warns and whether a keyword swap to
// `const` is a sound fix.
func (a *constAnalysis) planStatement(decl *ast.VariableDeclaration) statementPlan {
	_, isForHeader := a.info.ForHeader(decl)
	_, isForInit := a.info.ForInit(decl)

	var plan statementPlan
	allEligible := true
	allHaveInit := true

	for _, d := range decl.Declarations {
		ids := boundNames(d.ID)
		if len(ids) == 0 {
			allEligible = false
			continue
		}
		if d.Init == nil && !isForHeader {
			allHaveInit = false
		}

		destructured := !isIdentPattern(d.ID)
		anyName := false
		everyName := true
		for _, id := range ids {
			sym := a.info.SymbolOf(id)
			if sym != nil && a.eligible(sym) {
				anyName = true
				plan.names = append(plan.names, id.Name)
			} else {
				everyName = false
				allEligible = false
			}
		}
		declaratorEligible := anyName
		if destructured && a.opts.Destructuring == DestructuringAll {
			declaratorEligible = anyName && everyName
		}
		if declaratorEligible {
			plan.warn = true
		}
	}

	if isForInit && !allEligible {
		// a classic for-init clause is one unit; a partial const split is
		// not expressible there
		plan.warn = false
	}
	if !plan.warn {
		return statementPlan{}
	}
	plan.fixable = allEligible && (allHaveInit || isForHeader)
	return plan
}

// boundNames flattens a binding pattern into its identifiers in source order.
func boundNames(p ast.Pattern) []*ast.Identifier {
	var ids []*ast.Identifier
	var walk func(p ast.Pattern)
	walk = func(p ast.Pattern) {
		switch p := p.(type) {
		case *ast.Identifier:
			ids = append(ids, p)
		case *ast.ObjectPattern:
			for _, prop := range p.Properties {
				walk(prop.Value)
			}
			if p.Rest != nil {
				walk(p.Rest)
			}
		case *ast.ArrayPattern:
			for _, el := range p.Elements {
				if el != nil {
					walk(el)
				}
			}
		case *ast.AssignmentPattern:
			walk(p.Left)
		case *ast.RestElement:
			walk(p.Argument)
		}
	}
	walk(p)
	return ids
}

func isIdentPattern(p ast.Pattern) bool {
	_, ok := p.(*ast.Identifier)
	return ok
}
