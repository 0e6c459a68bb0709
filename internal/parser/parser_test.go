package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jslinters/jlin/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := ParseSource([]byte(src))
	require.NoError(t, err)
	return prog
}

func TestParseVariableDeclarations(t *testing.T) {
	t.Parallel()
	src := "let x = 1;\nvar y, z = 2;\nconst [a, b] = pair;"
	prog := mustParse(t, src)
	require.Len(t, prog.Body, 3)

	d0, ok := prog.Body[0].(*ast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, ast.KindLet, d0.Kind)
	assert.Equal(t, 0, d0.KindSpan.Start.Offset)
	assert.Equal(t, 3, d0.KindSpan.End.Offset)
	require.Len(t, d0.Declarations, 1)
	id, ok := d0.Declarations[0].ID.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "x", id.Name)
	num, ok := d0.Declarations[0].Init.(*ast.NumberLiteral)
	require.True(t, ok)
	assert.Equal(t, "1", num.Raw)

	d1, ok := prog.Body[1].(*ast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, ast.KindVar, d1.Kind)
	require.Len(t, d1.Declarations, 2)
	assert.Nil(t, d1.Declarations[0].Init)
	assert.NotNil(t, d1.Declarations[1].Init)

	d2, ok := prog.Body[2].(*ast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, ast.KindConst, d2.Kind)
	arr, ok := d2.Declarations[0].ID.(*ast.ArrayPattern)
	require.True(t, ok)
	assert.Len(t, arr.Elements, 2)
}

func TestParseBindingPatterns(t *testing.T) {
	t.Parallel()
	prog := mustParse(t, "let {a, b: {c}, d = 1, ...rest} = obj;")
	decl := prog.Body[0].(*ast.VariableDeclaration)
	pat, ok := decl.Declarations[0].ID.(*ast.ObjectPattern)
	require.True(t, ok)
	require.Len(t, pat.Properties, 3)

	assert.True(t, pat.Properties[0].Shorthand)
	_, nested := pat.Properties[1].Value.(*ast.ObjectPattern)
	assert.True(t, nested)
	_, withDefault := pat.Properties[2].Value.(*ast.AssignmentPattern)
	assert.True(t, withDefault)
	rest, ok := pat.Rest.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "rest", rest.Name)

	prog = mustParse(t, "let [ , first, ...tail] = list;")
	arr := prog.Body[0].(*ast.VariableDeclaration).Declarations[0].ID.(*ast.ArrayPattern)
	require.Len(t, arr.Elements, 3)
	assert.Nil(t, arr.Elements[0])
	_, isRest := arr.Elements[2].(*ast.RestElement)
	assert.True(t, isRest)
}

func TestParseForStatements(t *testing.T) {
	t.Parallel()
	prog := mustParse(t, "for (let i = 0; i < 3; i++) { total += i; }")
	loop, ok := prog.Body[0].(*ast.ForStatement)
	require.True(t, ok)
	init, ok := loop.Init.(*ast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, ast.KindLet, init.Kind)
	require.NotNil(t, loop.Test)
	update, ok := loop.Update.(*ast.UpdateExpression)
	require.True(t, ok)
	assert.Equal(t, "++", update.Operator)

	prog = mustParse(t, "for (const item of items) {}")
	forOf, ok := prog.Body[0].(*ast.ForInStatement)
	require.True(t, ok)
	assert.True(t, forOf.Of)
	left, ok := forOf.Left.(*ast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, ast.KindConst, left.Kind)

	prog = mustParse(t, "for (key in obj) {}")
	forIn, ok := prog.Body[0].(*ast.ForInStatement)
	require.True(t, ok)
	assert.False(t, forIn.Of)
	_, isIdent := forIn.Left.(*ast.Identifier)
	assert.True(t, isIdent)
}

func TestParseDestructuringAssignment(t *testing.T) {
	t.Parallel()
	prog := mustParse(t, "[a, b] = [b, a];")
	stmt, ok := prog.Body[0].(*ast.ExpressionStatement)
	require.True(t, ok)
	assign, ok := stmt.Expr.(*ast.AssignmentExpression)
	require.True(t, ok)
	assert.Equal(t, "=", assign.Operator)
	target, ok := assign.Left.(*ast.ArrayPattern)
	require.True(t, ok)
	assert.Len(t, target.Elements, 2)

	prog = mustParse(t, "({a = 1, ...rest} = obj);")
	assign = prog.Body[0].(*ast.ExpressionStatement).Expr.(*ast.AssignmentExpression)
	obj, ok := assign.Left.(*ast.ObjectPattern)
	require.True(t, ok)
	require.Len(t, obj.Properties, 1)
	_, hasDefault := obj.Properties[0].Value.(*ast.AssignmentPattern)
	assert.True(t, hasDefault)
	assert.NotNil(t, obj.Rest)
}

func TestParseArrowFunctions(t *testing.T) {
	t.Parallel()
	prog := mustParse(t, "const f = (a, b) => a + b;")
	fn, ok := prog.Body[0].(*ast.VariableDeclaration).Declarations[0].Init.(*ast.FunctionLiteral)
	require.True(t, ok)
	assert.True(t, fn.Arrow)
	assert.Len(t, fn.Params, 2)
	assert.NotNil(t, fn.Expr)
	assert.Nil(t, fn.Body)

	prog = mustParse(t, "const g = x => ({ value: x });")
	fn = prog.Body[0].(*ast.VariableDeclaration).Declarations[0].Init.(*ast.FunctionLiteral)
	assert.True(t, fn.Arrow)
	_, isObj := fn.Expr.(*ast.ObjectLiteral)
	assert.True(t, isObj)

	prog = mustParse(t, "const h = async () => { return 1; };")
	fn = prog.Body[0].(*ast.VariableDeclaration).Declarations[0].Init.(*ast.FunctionLiteral)
	assert.True(t, fn.Arrow)
	assert.True(t, fn.Async)
	assert.NotNil(t, fn.Body)
}

func TestParseFunctionsAndClasses(t *testing.T) {
	t.Parallel()
	prog := mustParse(t, "function add(a, b = 0, ...rest) { return a + b; }")
	fnDecl, ok := prog.Body[0].(*ast.FunctionDeclaration)
	require.True(t, ok)
	assert.Equal(t, "add", fnDecl.Function.Name.Name)
	require.Len(t, fnDecl.Function.Params, 3)
	_, hasDefault := fnDecl.Function.Params[1].(*ast.AssignmentPattern)
	assert.True(t, hasDefault)
	_, isRest := fnDecl.Function.Params[2].(*ast.RestElement)
	assert.True(t, isRest)

	src := `class Counter extends Base {
  static total = 0;
  static { Counter.total = 1; }
  increment() { this.count++; }
}`
	prog = mustParse(t, src)
	cls, ok := prog.Body[0].(*ast.ClassDeclaration)
	require.True(t, ok)
	assert.Equal(t, "Counter", cls.Name.Name)
	assert.NotNil(t, cls.Super)
	require.Len(t, cls.Body, 3)
	prop, ok := cls.Body[0].(*ast.PropertyDefinition)
	require.True(t, ok)
	assert.True(t, prop.Static)
	_, isBlock := cls.Body[1].(*ast.StaticBlock)
	assert.True(t, isBlock)
	method, ok := cls.Body[2].(*ast.MethodDefinition)
	require.True(t, ok)
	assert.False(t, method.Static)
}

func TestParseControlFlow(t *testing.T) {
	t.Parallel()
	sources := []string{
		"if (a) { b(); } else if (c) { d(); } else { e(); }",
		"switch (v) { case 1: f(); break; default: g(); }",
		"while (ready()) { tick(); }",
		"do { tick(); } while (ready());",
		"try { risky(); } catch (err) { log(err); } finally { done(); }",
		"try { risky(); } catch { recover(); }",
		"throw new Error('boom');",
		"for (;;) { break; }",
	}
	for _, src := range sources {
		_, err := ParseSource([]byte(src))
		assert.NoError(t, err, "source: %s", src)
	}
}

func TestParseExpressions(t *testing.T) {
	t.Parallel()
	sources := []string{
		"a = b ?? c || d && e;",
		"result = base ** 2 + offset % 3;",
		"ok = x instanceof Error && 'k' in map;",
		"value = cond ? pick(a) : pick(b);",
		"obj.method(...args)[0].field;",
		"opt?.inner?.leaf;",
		"new Builder(config).build();",
		"count += 1, total -= count;",
		"flag ||= fallback();",
		"matrix[i][j] = matrix[j][i];",
		"fn(function named() { return 1; });",
		"items.map(function (it) { return it.id; });",
		"tag = `template ${not + tokenized}`;",
		"n = 0xFF + 0b101 + 1.5e3 + .25;",
		"delete obj.key, void 0, typeof sym;",
	}
	for _, src := range sources {
		_, err := ParseSource([]byte(src))
		assert.NoError(t, err, "source: %s", src)
	}
}

func TestParseNumericLiterals(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		raw  string
	}{
		{"hex", "let n = 0x1F;", "0x1F"},
		{"hex mixed case", "let n = 0xdeadBEEF;", "0xdeadBEEF"},
		{"binary", "let n = 0b1010;", "0b1010"},
		{"octal", "let n = 0o17;", "0o17"},
		{"zero", "let n = 0;", "0"},
		{"float", "let n = 3.14;", "3.14"},
		{"exponent", "let n = 1.5e-3;", "1.5e-3"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			prog := mustParse(t, tc.src)
			decl := prog.Body[0].(*ast.VariableDeclaration)
			num, ok := decl.Declarations[0].Init.(*ast.NumberLiteral)
			require.True(t, ok)
			assert.Equal(t, tc.raw, num.Raw)
		})
	}
}

func TestSemicolonInsertion(t *testing.T) {
	t.Parallel()
	prog := mustParse(t, "let a = 1\nlet b = a + 1\nuse(b)")
	assert.Len(t, prog.Body, 3)

	prog = mustParse(t, "let x = 1")
	assert.Len(t, prog.Body, 1)

	// a same-line statement without a separator is an error
	_, err := ParseSource([]byte("let a = 1 let b = 2"))
	assert.Error(t, err)
}

func TestParseComments(t *testing.T) {
	t.Parallel()
	prog := mustParse(t, "// jlin:ignore\n/* block note */ let x = 1;")
	require.Len(t, prog.Comments, 2)
	assert.Equal(t, " jlin:ignore", prog.Comments[0].Text)
	assert.False(t, prog.Comments[0].Block)
	assert.Equal(t, 1, prog.Comments[0].Pos().Line)
	assert.Equal(t, " block note ", prog.Comments[1].Text)
	assert.True(t, prog.Comments[1].Block)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	sources := []string{
		"const = 1;",
		"let s = \"abc",
		"if (",
		"let a = ;",
		"try { x(); }",
		"[a, ...b, c] = arr;",
		"/* never closed",
	}
	for _, src := range sources {
		_, err := ParseSource([]byte(src))
		assert.Error(t, err, "source: %s", src)
	}
}
