package scope

import "github.com/jslinters/jlin/internal/ast"

// Resolve builds the scope graph for prog in two passes. The first pass
// creates the scope tree and declares every symbol, so that hoisted `var`s
// and use-before-declaration resolve correctly. The second pass resolves
// identifier uses against the finished tree and records accesses.
func Resolve(prog *ast.Program) *Info {
	info := &Info{
		forHeader: make(map[*ast.VariableDeclaration]*ast.ForInStatement),
		forInit:   make(map[*ast.VariableDeclaration]*ast.ForStatement),
		symbols:   make(map[*ast.Identifier]*Symbol),
	}

	b := &builder{info: info, scopes: make(map[ast.Node]*Scope)}
	info.Global = b.enter(Global, prog)
	for _, s := range prog.Body {
		b.stmt(s)
	}

	r := &resolver{info: info, scopes: b.scopes}
	r.pushScope(prog)
	for _, s := range prog.Body {
		r.stmt(s)
	}
	return info
}

// ---------------------------------------------------------------------------
// Pass 1: scope tree and declarations

type builder struct {
	info    *Info
	scopes  map[ast.Node]*Scope
	current *Scope
}

func (b *builder) enter(k Kind, node ast.Node) *Scope {
	s := &Scope{Kind: k, Parent: b.current, Symbols: make(map[string]*Symbol), Node: node}
	if b.current != nil {
		b.current.Children = append(b.current.Children, s)
	}
	b.scopes[node] = s
	b.current = s
	return s
}

func (b *builder) leave() { b.current = b.current.Parent }

func (b *builder) declare(id *ast.Identifier, kind SymbolKind) {
	target := b.current
	if kind == SymVar {
		for !target.hoistTarget() {
			target = target.Parent
		}
	}
	sym, ok := target.Symbols[id.Name]
	if !ok {
		sym = &Symbol{Name: id.Name, Kind: kind, Scope: target, Decl: id}
		target.Symbols[id.Name] = sym
	}
	b.info.symbols[id] = sym
}

func symbolKind(kind ast.DeclarationKind) SymbolKind {
	switch kind {
	case ast.KindVar:
		return SymVar
	case ast.KindConst:
		return SymConst
	}
	return SymLet
}

func (b *builder) stmt(s ast.Statement) {
	switch s := s.(type) {
	case *ast.VariableDeclaration:
		b.varDecl(s)
	case *ast.FunctionDeclaration:
		b.declare(s.Function.Name, SymFunc)
		b.function(s.Function, false)
	case *ast.ClassDeclaration:
		b.class(s)
	case *ast.ExpressionStatement:
		b.expr(s.Expr)
	case *ast.BlockStatement:
		b.enter(Block, s)
		for _, st := range s.Body {
			b.stmt(st)
		}
		b.leave()
	case *ast.IfStatement:
		b.expr(s.Test)
		b.stmt(s.Consequent)
		if s.Alternate != nil {
			b.stmt(s.Alternate)
		}
	case *ast.SwitchStatement:
		b.expr(s.Discriminant)
		b.enter(Switch, s)
		for _, c := range s.Cases {
			if c.Test != nil {
				b.expr(c.Test)
			}
			for _, st := range c.Body {
				b.stmt(st)
			}
		}
		b.leave()
	case *ast.ForStatement:
		b.enter(Block, s)
		switch init := s.Init.(type) {
		case *ast.VariableDeclaration:
			b.varDecl(init)
			b.info.forInit[init] = s
		case ast.Expression:
			b.expr(init)
		}
		if s.Test != nil {
			b.expr(s.Test)
		}
		if s.Update != nil {
			b.expr(s.Update)
		}
		b.stmt(s.Body)
		b.leave()
	case *ast.ForInStatement:
		b.enter(Block, s)
		if decl, ok := s.Left.(*ast.VariableDeclaration); ok {
			b.varDecl(decl)
			b.info.forHeader[decl] = s
		} else if pat, ok := s.Left.(ast.Pattern); ok {
			b.patternExpr(pat)
		}
		b.expr(s.Right)
		b.stmt(s.Body)
		b.leave()
	case *ast.WhileStatement:
		b.expr(s.Test)
		b.stmt(s.Body)
	case *ast.DoWhileStatement:
		b.stmt(s.Body)
		b.expr(s.Test)
	case *ast.TryStatement:
		b.stmt(s.Block)
		if s.Handler != nil {
			b.enter(Block, s.Handler)
			if s.Handler.Param != nil {
				b.declarePattern(s.Handler.Param, SymCatch)
			}
			b.stmt(s.Handler.Body)
			b.leave()
		}
		if s.Finalizer != nil {
			b.stmt(s.Finalizer)
		}
	case *ast.ReturnStatement:
		if s.Argument != nil {
			b.expr(s.Argument)
		}
	case *ast.ThrowStatement:
		b.expr(s.Argument)
	}
}

func (b *builder) varDecl(d *ast.VariableDeclaration) {
	b.info.Declarations = append(b.info.Declarations, d)
	kind := symbolKind(d.Kind)
	for _, dec := range d.Declarations {
		b.declarePattern(dec.ID, kind)
		if dec.Init != nil {
			b.expr(dec.Init)
		}
	}
}

// declarePattern declares every binding identifier of a pattern and walks the
// non-binding expressions it carries (defaults, computed keys).
func (b *builder) declarePattern(p ast.Pattern, kind SymbolKind) {
	switch p := p.(type) {
	case *ast.Identifier:
		b.declare(p, kind)
	case *ast.ObjectPattern:
		for _, prop := range p.Properties {
			if prop.Computed {
				b.expr(prop.Key)
			}
			b.declarePattern(prop.Value, kind)
		}
		if p.Rest != nil {
			b.declarePattern(p.Rest, kind)
		}
	case *ast.ArrayPattern:
		for _, el := range p.Elements {
			if el != nil {
				b.declarePattern(el, kind)
			}
		}
	case *ast.AssignmentPattern:
		b.declarePattern(p.Left, kind)
		b.expr(p.Right)
	case *ast.RestElement:
		b.declarePattern(p.Argument, kind)
	}
}

func (b *builder) function(fn *ast.FunctionLiteral, expression bool) {
	b.enter(Function, fn)
	if expression && fn.Name != nil {
		b.declare(fn.Name, SymFunc)
	}
	for _, p := range fn.Params {
		b.declarePattern(p, SymParam)
	}
	if fn.Body != nil {
		for _, st := range fn.Body.Body {
			b.stmt(st)
		}
	} else if fn.Expr != nil {
		b.expr(fn.Expr)
	}
	b.leave()
}

func (b *builder) class(c *ast.ClassDeclaration) {
	if c.Name != nil {
		b.declare(c.Name, SymClass)
	}
	if c.Super != nil {
		b.expr(c.Super)
	}
	for _, el := range c.Body {
		switch el := el.(type) {
		case *ast.StaticBlock:
			b.enter(StaticBlock, el)
			for _, st := range el.Body {
				b.stmt(st)
			}
			b.leave()
		case *ast.MethodDefinition:
			if el.Computed {
				b.expr(el.Key)
			}
			b.function(el.Value, false)
		case *ast.PropertyDefinition:
			if el.Computed {
				b.expr(el.Key)
			}
			if el.Value != nil {
				// field initializers run per instance
				b.enter(Function, el)
				b.expr(el.Value)
				b.leave()
			}
		}
	}
}

func (b *builder) expr(e ast.Expression) {
	switch e := e.(type) {
	case *ast.ArrayLiteral:
		for _, el := range e.Elements {
			if el != nil {
				b.expr(el)
			}
		}
	case *ast.ObjectLiteral:
		for _, prop := range e.Properties {
			if prop.Computed {
				b.expr(prop.Key)
			}
			if prop.Value != nil {
				b.expr(prop.Value)
			}
		}
	case *ast.FunctionLiteral:
		b.function(e, true)
	case *ast.AssignmentExpression:
		if pat, ok := e.Left.(ast.Pattern); ok && !isIdent(e.Left) {
			b.patternExpr(pat)
		} else {
			b.expr(e.Left)
		}
		b.expr(e.Right)
	case *ast.ConditionalExpression:
		b.expr(e.Test)
		b.expr(e.Consequent)
		b.expr(e.Alternate)
	case *ast.BinaryExpression:
		b.expr(e.Left)
		b.expr(e.Right)
	case *ast.UnaryExpression:
		b.expr(e.Argument)
	case *ast.UpdateExpression:
		b.expr(e.Argument)
	case *ast.CallExpression:
		b.expr(e.Callee)
		for _, a := range e.Arguments {
			b.expr(a)
		}
	case *ast.NewExpression:
		b.expr(e.Callee)
		for _, a := range e.Arguments {
			b.expr(a)
		}
	case *ast.MemberExpression:
		b.expr(e.Object)
		if e.Computed {
			b.expr(e.Property)
		}
	case *ast.SequenceExpression:
		for _, sub := range e.Expressions {
			b.expr(sub)
		}
	case *ast.SpreadElement:
		b.expr(e.Argument)
	}
}

// patternExpr walks the non-binding expressions of an assignment pattern.
func (b *builder) patternExpr(p ast.Pattern) {
	switch p := p.(type) {
	case *ast.MemberExpression:
		b.expr(p)
	case *ast.ObjectPattern:
		for _, prop := range p.Properties {
			if prop.Computed {
				b.expr(prop.Key)
			}
			b.patternExpr(prop.Value)
		}
		if p.Rest != nil {
			b.patternExpr(p.Rest)
		}
	case *ast.ArrayPattern:
		for _, el := range p.Elements {
			if el != nil {
				b.patternExpr(el)
			}
		}
	case *ast.AssignmentPattern:
		b.patternExpr(p.Left)
		b.expr(p.Right)
	case *ast.RestElement:
		b.patternExpr(p.Argument)
	}
}

func isIdent(e ast.Expression) bool {
	_, ok := e.(*ast.Identifier)
	return ok
}

// ---------------------------------------------------------------------------
// Pass 2: access resolution

// A frame is one entry of the resolution stack: either a scope opened by the
// current walk position, or a branching construct (nil scope).
type frame struct {
	scope *Scope
}

type resolver struct {
	info   *Info
	scopes map[ast.Node]*Scope
	frames []frame
}

func (r *resolver) pushScope(node ast.Node) {
	r.frames = append(r.frames, frame{scope: r.scopes[node]})
}

func (r *resolver) pushBranch() { r.frames = append(r.frames, frame{}) }

func (r *resolver) pop() { r.frames = r.frames[:len(r.frames)-1] }

// record resolves id against the frame stack and appends the access to its
// symbol. Unresolved identifiers (globals, typos) produce no access.
func (r *resolver) record(id *ast.Identifier, kind AccessKind, stmtLevel bool, group *WriteGroup) {
	branches := 0
	crossed := false
	var sym *Symbol
	for i := len(r.frames) - 1; i >= 0; i-- {
		f := r.frames[i]
		if f.scope == nil {
			branches++
			continue
		}
		if s, ok := f.scope.Symbols[id.Name]; ok {
			sym = s
			break
		}
		if f.scope.Kind == Function || f.scope.Kind == StaticBlock {
			crossed = true
		}
	}
	if sym == nil {
		if group != nil && kind != Read {
			group.Unresolved = true
		}
		return
	}
	acc := &Access{
		Kind:           kind,
		Ident:          id,
		Symbol:         sym,
		StatementLevel: stmtLevel,
		Branches:       branches,
		CrossScope:     crossed,
		Group:          group,
	}
	sym.Accesses = append(sym.Accesses, acc)
	r.info.symbols[id] = sym
	if group != nil && kind != Read {
		group.Symbols = append(group.Symbols, sym)
	}
}

func (r *resolver) stmt(s ast.Statement) {
	switch s := s.(type) {
	case *ast.VariableDeclaration:
		r.varDecl(s)
	case *ast.FunctionDeclaration:
		r.function(s.Function)
	case *ast.ClassDeclaration:
		r.class(s)
	case *ast.ExpressionStatement:
		r.expr(s.Expr, true)
	case *ast.BlockStatement:
		r.pushScope(s)
		for _, st := range s.Body {
			r.stmt(st)
		}
		r.pop()
	case *ast.IfStatement:
		r.expr(s.Test, false)
		r.pushBranch()
		r.stmt(s.Consequent)
		r.pop()
		if s.Alternate != nil {
			r.pushBranch()
			r.stmt(s.Alternate)
			r.pop()
		}
	case *ast.SwitchStatement:
		r.expr(s.Discriminant, false)
		// the branch frame sits below the switch scope, so a symbol declared
		// in one case and written in another resolves as unconditional
		r.pushBranch()
		r.pushScope(s)
		for _, c := range s.Cases {
			if c.Test != nil {
				r.expr(c.Test, false)
			}
			for _, st := range c.Body {
				r.stmt(st)
			}
		}
		r.pop()
		r.pop()
	case *ast.ForStatement:
		r.pushScope(s)
		switch init := s.Init.(type) {
		case *ast.VariableDeclaration:
			r.varDecl(init)
		case ast.Expression:
			r.expr(init, false)
		}
		r.pushBranch()
		if s.Test != nil {
			r.expr(s.Test, false)
		}
		if s.Update != nil {
			r.expr(s.Update, false)
		}
		r.stmt(s.Body)
		r.pop()
		r.pop()
	case *ast.ForInStatement:
		r.pushScope(s)
		if decl, ok := s.Left.(*ast.VariableDeclaration); ok {
			// the header binding is rebound implicitly each iteration;
			// that rebind is not recorded as a write
			r.varDecl(decl)
		} else if pat, ok := s.Left.(ast.Pattern); ok {
			group := &WriteGroup{}
			r.assignTarget(pat, group, false)
		}
		r.expr(s.Right, false)
		r.pushBranch()
		r.stmt(s.Body)
		r.pop()
		r.pop()
	case *ast.WhileStatement:
		r.pushBranch()
		r.expr(s.Test, false)
		r.stmt(s.Body)
		r.pop()
	case *ast.DoWhileStatement:
		r.pushBranch()
		r.stmt(s.Body)
		r.expr(s.Test, false)
		r.pop()
	case *ast.TryStatement:
		r.pushBranch()
		r.stmt(s.Block)
		r.pop()
		if s.Handler != nil {
			r.pushBranch()
			r.pushScope(s.Handler)
			if s.Handler.Param != nil {
				r.declPattern(s.Handler.Param)
			}
			r.stmt(s.Handler.Body)
			r.pop()
			r.pop()
		}
		if s.Finalizer != nil {
			r.pushBranch()
			r.stmt(s.Finalizer)
			r.pop()
		}
	case *ast.ReturnStatement:
		if s.Argument != nil {
			r.expr(s.Argument, false)
		}
	case *ast.ThrowStatement:
		r.expr(s.Argument, false)
	}
}

func (r *resolver) varDecl(d *ast.VariableDeclaration) {
	for _, dec := range d.Declarations {
		r.declPattern(dec.ID)
		if dec.Init != nil {
			r.expr(dec.Init, false)
		}
	}
}

// declPattern walks a binding pattern at its declaration site. The binding
// identifiers themselves are not accesses; only carried expressions resolve.
func (r *resolver) declPattern(p ast.Pattern) {
	switch p := p.(type) {
	case *ast.ObjectPattern:
		for _, prop := range p.Properties {
			if prop.Computed {
				r.expr(prop.Key, false)
			}
			r.declPattern(prop.Value)
		}
		if p.Rest != nil {
			r.declPattern(p.Rest)
		}
	case *ast.ArrayPattern:
		for _, el := range p.Elements {
			if el != nil {
				r.declPattern(el)
			}
		}
	case *ast.AssignmentPattern:
		r.declPattern(p.Left)
		r.expr(p.Right, false)
	case *ast.RestElement:
		r.declPattern(p.Argument)
	}
}

func (r *resolver) function(fn *ast.FunctionLiteral) {
	r.pushScope(fn)
	for _, p := range fn.Params {
		r.declPattern(p)
	}
	if fn.Body != nil {
		for _, st := range fn.Body.Body {
			r.stmt(st)
		}
	} else if fn.Expr != nil {
		r.expr(fn.Expr, false)
	}
	r.pop()
}

func (r *resolver) class(c *ast.ClassDeclaration) {
	if c.Super != nil {
		r.expr(c.Super, false)
	}
	for _, el := range c.Body {
		switch el := el.(type) {
		case *ast.StaticBlock:
			r.pushScope(el)
			for _, st := range el.Body {
				r.stmt(st)
			}
			r.pop()
		case *ast.MethodDefinition:
			if el.Computed {
				r.expr(el.Key, false)
			}
			r.function(el.Value)
		case *ast.PropertyDefinition:
			if el.Computed {
				r.expr(el.Key, false)
			}
			if el.Value != nil {
				r.pushScope(el)
				r.expr(el.Value, false)
				r.pop()
			}
		}
	}
}

// expr resolves an expression. stmtLevel is true only when e is the entire
// expression of an expression statement; it survives into the write produced
// by a top-level assignment or update, never into subexpressions.
func (r *resolver) expr(e ast.Expression, stmtLevel bool) {
	switch e := e.(type) {
	case *ast.Identifier:
		r.record(e, Read, false, nil)
	case *ast.ArrayLiteral:
		for _, el := range e.Elements {
			if el != nil {
				r.expr(el, false)
			}
		}
	case *ast.ObjectLiteral:
		for _, prop := range e.Properties {
			if prop.Computed {
				r.expr(prop.Key, false)
			}
			if prop.Value != nil {
				r.expr(prop.Value, false)
			}
		}
	case *ast.FunctionLiteral:
		r.function(e)
	case *ast.AssignmentExpression:
		r.assign(e, stmtLevel)
	case *ast.UpdateExpression:
		if id, ok := e.Argument.(*ast.Identifier); ok {
			r.record(id, ReadWrite, stmtLevel, nil)
		} else {
			r.expr(e.Argument, false)
		}
	case *ast.ConditionalExpression:
		r.expr(e.Test, false)
		r.pushBranch()
		r.expr(e.Consequent, false)
		r.pop()
		r.pushBranch()
		r.expr(e.Alternate, false)
		r.pop()
	case *ast.BinaryExpression:
		r.expr(e.Left, false)
		r.expr(e.Right, false)
	case *ast.UnaryExpression:
		r.expr(e.Argument, false)
	case *ast.CallExpression:
		r.expr(e.Callee, false)
		for _, a := range e.Arguments {
			r.expr(a, false)
		}
	case *ast.NewExpression:
		r.expr(e.Callee, false)
		for _, a := range e.Arguments {
			r.expr(a, false)
		}
	case *ast.MemberExpression:
		r.expr(e.Object, false)
		if e.Computed {
			r.expr(e.Property, false)
		}
	case *ast.SequenceExpression:
		for _, sub := range e.Expressions {
			r.expr(sub, false)
		}
	case *ast.SpreadElement:
		r.expr(e.Argument, false)
	}
}

func (r *resolver) assign(e *ast.AssignmentExpression, stmtLevel bool) {
	if e.Operator == "=" {
		switch target := e.Left.(type) {
		case *ast.Identifier:
			r.record(target, Write, stmtLevel, nil)
		case *ast.ObjectPattern, *ast.ArrayPattern:
			group := &WriteGroup{}
			r.assignTarget(target.(ast.Pattern), group, stmtLevel)
		case *ast.MemberExpression:
			r.expr(target, false)
		default:
			r.expr(e.Left, false)
		}
	} else {
		// compound assignment both reads and writes its target
		if id, ok := e.Left.(*ast.Identifier); ok {
			r.record(id, ReadWrite, stmtLevel, nil)
		} else {
			r.expr(e.Left, false)
		}
	}
	r.expr(e.Right, false)
}

// assignTarget records writes for every target of a destructuring pattern,
// sharing one group across them.
func (r *resolver) assignTarget(p ast.Pattern, group *WriteGroup, stmtLevel bool) {
	switch p := p.(type) {
	case *ast.Identifier:
		r.record(p, Write, stmtLevel, group)
	case *ast.MemberExpression:
		group.HasMemberTarget = true
		r.expr(p, false)
	case *ast.ObjectPattern:
		for _, prop := range p.Properties {
			if prop.Computed {
				r.expr(prop.Key, false)
			}
			r.assignTarget(prop.Value, group, stmtLevel)
		}
		if p.Rest != nil {
			r.assignTarget(p.Rest, group, stmtLevel)
		}
	case *ast.ArrayPattern:
		for _, el := range p.Elements {
			if el != nil {
				r.assignTarget(el, group, stmtLevel)
			}
		}
	case *ast.AssignmentPattern:
		r.assignTarget(p.Left, group, stmtLevel)
		r.expr(p.Right, false)
	case *ast.RestElement:
		r.assignTarget(p.Argument, group, stmtLevel)
	}
}
