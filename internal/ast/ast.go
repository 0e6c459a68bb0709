// Package ast defines the syntax tree for the JavaScript subset jlin lints.
// The node shapes follow the ESTree naming conventions so that rule code
// reads like the reference rules it was ported from.
package ast

// Position is a location within a source file.
type Position struct {
	Offset int // byte offset, starting at 0
	Line   int // line number, starting at 1
	Column int // column number, starting at 1 (byte count)
}

// Span is a half-open source range [Start, End).
type Span struct {
	Start Position
	End   Position
}

func (s Span) Pos() Position    { return s.Start }
func (s Span) EndPos() Position { return s.End }

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() Position
	EndPos() Position
}

type Statement interface {
	Node
	stmtNode()
}

type Expression interface {
	Node
	exprNode()
}

// Pattern is a binding or assignment target: a plain identifier, a
// destructuring pattern, a default-value wrapper, a rest element, or (in
// assignment position only) a member expression.
type Pattern interface {
	Node
	patternNode()
}

// Comment is a single line or block comment.
type Comment struct {
	Span
	Text  string // text without the comment markers
	Block bool
}

// Program is the root node of a parsed file.
type Program struct {
	Span
	Body     []Statement
	Comments []Comment
}

// ---------------------------------------------------------------------------
// Declarations

// DeclarationKind is the qualifier keyword of a variable declaration.
type DeclarationKind string

const (
	KindVar   DeclarationKind = "var"
	KindLet   DeclarationKind = "let"
	KindConst DeclarationKind = "const"
)

// Mutable reports whether the qualifier allows reassignment.
func (k DeclarationKind) Mutable() bool { return k != KindConst }

// VariableDeclaration is one `var`/`let`/`const` statement introducing one or
// more declarators. KindSpan covers exactly the qualifier keyword token.
type VariableDeclaration struct {
	Span
	Kind         DeclarationKind
	KindSpan     Span
	Declarations []*VariableDeclarator
}

// VariableDeclarator is a binding pattern with an optional initializer.
type VariableDeclarator struct {
	Span
	ID   Pattern
	Init Expression // nil when absent
}

type FunctionDeclaration struct {
	Span
	Function *FunctionLiteral
}

type ClassDeclaration struct {
	Span
	Name  *Identifier
	Super Expression // nil without an extends clause
	Body  []ClassElement
}

// ClassElement is a member of a class body.
type ClassElement interface {
	Node
	classElement()
}

// StaticBlock is a class static initialization block.
type StaticBlock struct {
	Span
	Body []Statement
}

type MethodDefinition struct {
	Span
	Key      Expression
	Value    *FunctionLiteral
	Static   bool
	Computed bool
}

type PropertyDefinition struct {
	Span
	Key      Expression
	Value    Expression // nil when absent
	Static   bool
	Computed bool
}

func (*StaticBlock) classElement()        {}
func (*MethodDefinition) classElement()   {}
func (*PropertyDefinition) classElement() {}

// ---------------------------------------------------------------------------
// Statements

type ExpressionStatement struct {
	Span
	Expr Expression
}

type BlockStatement struct {
	Span
	Body []Statement
}

type IfStatement struct {
	Span
	Test       Expression
	Consequent Statement
	Alternate  Statement // nil when absent
}

type SwitchStatement struct {
	Span
	Discriminant Expression
	Cases        []*SwitchCase
}

type SwitchCase struct {
	Span
	Test Expression // nil for `default:`
	Body []Statement
}

type ForStatement struct {
	Span
	Init   Node // *VariableDeclaration, Expression, or nil
	Test   Expression
	Update Expression
	Body   Statement
}

// ForInStatement covers both for-in and for-of loops; Of distinguishes them.
type ForInStatement struct {
	Span
	Left  Node // *VariableDeclaration or Pattern
	Right Expression
	Body  Statement
	Of    bool
}

type WhileStatement struct {
	Span
	Test Expression
	Body Statement
}

type DoWhileStatement struct {
	Span
	Body Statement
	Test Expression
}

type TryStatement struct {
	Span
	Block     *BlockStatement
	Handler   *CatchClause // nil when absent
	Finalizer *BlockStatement
}

type CatchClause struct {
	Span
	Param Pattern // nil for `catch {}`
	Body  *BlockStatement
}

type ReturnStatement struct {
	Span
	Argument Expression // nil when absent
}

type ThrowStatement struct {
	Span
	Argument Expression
}

type BreakStatement struct{ Span }

type ContinueStatement struct{ Span }

type EmptyStatement struct{ Span }

func (*VariableDeclaration) stmtNode() {}
func (*FunctionDeclaration) stmtNode() {}
func (*ClassDeclaration) stmtNode()    {}
func (*ExpressionStatement) stmtNode() {}
func (*BlockStatement) stmtNode()      {}
func (*IfStatement) stmtNode()         {}
func (*SwitchStatement) stmtNode()     {}
func (*ForStatement) stmtNode()        {}
func (*ForInStatement) stmtNode()      {}
func (*WhileStatement) stmtNode()      {}
func (*DoWhileStatement) stmtNode()    {}
func (*TryStatement) stmtNode()        {}
func (*ReturnStatement) stmtNode()     {}
func (*ThrowStatement) stmtNode()      {}
func (*BreakStatement) stmtNode()      {}
func (*ContinueStatement) stmtNode()   {}
func (*EmptyStatement) stmtNode()      {}

// ---------------------------------------------------------------------------
// Expressions

type Identifier struct {
	Span
	Name string
}

type NumberLiteral struct {
	Span
	Raw string
}

type StringLiteral struct {
	Span
	Raw   string // source text including quotes
	Value string
}

type BooleanLiteral struct {
	Span
	Value bool
}

type NullLiteral struct{ Span }

type ThisExpression struct{ Span }

type ArrayLiteral struct {
	Span
	// Elements may contain nil entries for elisions.
	Elements []Expression
}

type ObjectLiteral struct {
	Span
	Properties []*Property
}

// Property is one member of an object literal. Shorthand properties have
// Key == Value. A spread member has Key == nil and its argument in Value.
type Property struct {
	Span
	Key       Expression
	Value     Expression
	Computed  bool
	Shorthand bool
	Spread    bool
}

// FunctionLiteral is a function expression, function declaration body, method
// value, or arrow function.
type FunctionLiteral struct {
	Span
	Name      *Identifier // nil for anonymous functions
	Params    []Pattern
	Body      *BlockStatement
	Expr      Expression // arrow concise body; nil when Body is used
	Arrow     bool
	Async     bool
	Generator bool
}

type AssignmentExpression struct {
	Span
	Operator string // "=", "+=", "&&=", ...
	Left     Expression
	Right    Expression
}

type ConditionalExpression struct {
	Span
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

// BinaryExpression covers arithmetic, comparison and logical operators.
type BinaryExpression struct {
	Span
	Operator string
	Left     Expression
	Right    Expression
}

type UnaryExpression struct {
	Span
	Operator string // "!", "-", "+", "~", "typeof", "void", "delete"
	Argument Expression
}

type UpdateExpression struct {
	Span
	Operator string // "++" or "--"
	Argument Expression
	Prefix   bool
}

type CallExpression struct {
	Span
	Callee    Expression
	Arguments []Expression
}

type NewExpression struct {
	Span
	Callee    Expression
	Arguments []Expression
}

type MemberExpression struct {
	Span
	Object   Expression
	Property Expression
	Computed bool
}

type SequenceExpression struct {
	Span
	Expressions []Expression
}

// SpreadElement is `...arg` in call arguments or array literals.
type SpreadElement struct {
	Span
	Argument Expression
}

func (*Identifier) exprNode()            {}
func (*NumberLiteral) exprNode()         {}
func (*StringLiteral) exprNode()         {}
func (*BooleanLiteral) exprNode()        {}
func (*NullLiteral) exprNode()           {}
func (*ThisExpression) exprNode()        {}
func (*ArrayLiteral) exprNode()          {}
func (*ObjectLiteral) exprNode()         {}
func (*FunctionLiteral) exprNode()       {}
func (*AssignmentExpression) exprNode()  {}
func (*ConditionalExpression) exprNode() {}
func (*BinaryExpression) exprNode()      {}
func (*UnaryExpression) exprNode()       {}
func (*UpdateExpression) exprNode()      {}
func (*CallExpression) exprNode()        {}
func (*NewExpression) exprNode()         {}
func (*MemberExpression) exprNode()      {}
func (*SequenceExpression) exprNode()    {}
func (*SpreadElement) exprNode()         {}

// ---------------------------------------------------------------------------
// Patterns

type ObjectPattern struct {
	Span
	Properties []*PropertyPattern
	Rest       Pattern // nil when absent
}

// PropertyPattern is one property of an object pattern. Shorthand properties
// bind the key name itself.
type PropertyPattern struct {
	Span
	Key       Expression
	Value     Pattern
	Computed  bool
	Shorthand bool
}

type ArrayPattern struct {
	Span
	// Elements may contain nil entries for elisions (pattern holes).
	Elements []Pattern
}

// AssignmentPattern is a default-value wrapper: `x = expr` inside a pattern.
type AssignmentPattern struct {
	Span
	Left  Pattern
	Right Expression
}

// RestElement is `...target` inside a pattern.
type RestElement struct {
	Span
	Argument Pattern
}

func (*Identifier) patternNode()        {}
func (*MemberExpression) patternNode()  {}
func (*ObjectPattern) patternNode()     {}
func (*ArrayPattern) patternNode()      {}
func (*AssignmentPattern) patternNode() {}
func (*RestElement) patternNode()       {}

// Patterns occur in expression position on the left side of destructuring
// assignments, mirroring the ESTree cover grammar.
func (*ObjectPattern) exprNode()     {}
func (*ArrayPattern) exprNode()      {}
func (*AssignmentPattern) exprNode() {}
func (*RestElement) exprNode()       {}
