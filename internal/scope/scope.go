// Package scope builds the lexical scope graph for a parsed program: the
// scope tree, the symbols each scope declares, and every resolved identifier
// use as an ordered Access. The graph is built once, before any rule runs,
// and is read-only afterward.
package scope

import "github.com/jslinters/jlin/internal/ast"

// Kind classifies a scope.
type Kind int

const (
	Global Kind = iota
	Function
	Block
	Switch
	StaticBlock
)

func (k Kind) String() string {
	switch k {
	case Global:
		return "global"
	case Function:
		return "function"
	case Block:
		return "block"
	case Switch:
		return "switch"
	case StaticBlock:
		return "static block"
	}
	return "unknown"
}

// Scope is one node of the scope tree.
type Scope struct {
	Kind     Kind
	Parent   *Scope
	Children []*Scope
	Symbols  map[string]*Symbol
	Node     ast.Node
}

// hoistTarget reports whether `var` declarations land in this scope.
func (s *Scope) hoistTarget() bool {
	return s.Kind == Global || s.Kind == Function || s.Kind == StaticBlock
}

// SymbolKind records how a symbol was introduced.
type SymbolKind int

const (
	SymVar SymbolKind = iota
	SymLet
	SymConst
	SymParam
	SymFunc
	SymClass
	SymCatch
)

// Symbol is one declared name. Accesses holds every resolved use in source
// order; the declaring identifier itself is not an access.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Scope    *Scope
	Decl     *ast.Identifier
	Accesses []*Access
}

// Writes returns the accesses that mutate the symbol, in source order.
func (s *Symbol) Writes() []*Access {
	var writes []*Access
	for _, a := range s.Accesses {
		if a.Kind != Read {
			writes = append(writes, a)
		}
	}
	return writes
}

// AccessKind classifies an identifier use.
type AccessKind int

const (
	Read AccessKind = iota
	Write
	ReadWrite // compound assignment or update operator
)

// Access is one resolved identifier use.
type Access struct {
	Kind   AccessKind
	Ident  *ast.Identifier
	Symbol *Symbol

	// StatementLevel is set when the mutating expression is the entire
	// expression of an expression statement.
	StatementLevel bool
	// Branches counts the branching constructs crossed between the access
	// and the symbol's declaring scope. Zero means the access runs whenever
	// the declaration runs.
	Branches int
	// CrossScope is set when a function or static block boundary lies
	// between the access and the declaring scope.
	CrossScope bool
	// Group ties together the writes of one destructuring assignment.
	Group *WriteGroup
}

// Offset is the byte offset of the accessed identifier.
func (a *Access) Offset() int { return a.Ident.Pos().Offset }

// WriteGroup is the set of targets written by a single destructuring
// assignment expression or for-in/for-of header.
type WriteGroup struct {
	// Symbols written by the assignment, in pattern order.
	Symbols []*Symbol
	// HasMemberTarget is set when the pattern also writes through a member
	// expression such as `[a, obj.b] = arr`.
	HasMemberTarget bool
	// Unresolved is set when the pattern writes a name with no visible
	// declaration.
	Unresolved bool
}

// Info is the resolution result for one program.
type Info struct {
	Global *Scope
	// Declarations lists every variable declaration statement in source
	// order, including for-loop headers.
	Declarations []*ast.VariableDeclaration

	forHeader map[*ast.VariableDeclaration]*ast.ForInStatement
	forInit   map[*ast.VariableDeclaration]*ast.ForStatement
	symbols   map[*ast.Identifier]*Symbol
}

// SymbolOf returns the symbol a binding or use identifier resolves to, or nil
// when the identifier never resolved.
func (in *Info) SymbolOf(id *ast.Identifier) *Symbol { return in.symbols[id] }

// ForHeader returns the enclosing loop when decl is a for-in/for-of header.
func (in *Info) ForHeader(decl *ast.VariableDeclaration) (*ast.ForInStatement, bool) {
	loop, ok := in.forHeader[decl]
	return loop, ok
}

// ForInit returns the enclosing loop when decl is a classic for-init clause.
func (in *Info) ForInit(decl *ast.VariableDeclaration) (*ast.ForStatement, bool) {
	loop, ok := in.forInit[decl]
	return loop, ok
}
