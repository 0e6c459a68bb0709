package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jslinters/jlin/internal/parser"
)

func resolveSource(t *testing.T, src string) *Info {
	t.Helper()
	prog, err := parser.ParseSource([]byte(src))
	require.NoError(t, err)
	return Resolve(prog)
}

// findSymbols collects every symbol with the given name, outermost scope first.
func findSymbols(info *Info, name string) []*Symbol {
	var found []*Symbol
	var walk func(s *Scope)
	walk = func(s *Scope) {
		if sym, ok := s.Symbols[name]; ok {
			found = append(found, sym)
		}
		for _, child := range s.Children {
			walk(child)
		}
	}
	walk(info.Global)
	return found
}

func findSymbol(t *testing.T, info *Info, name string) *Symbol {
	t.Helper()
	syms := findSymbols(info, name)
	require.Len(t, syms, 1, "symbol %q", name)
	return syms[0]
}

func TestVarHoisting(t *testing.T) {
	t.Parallel()
	info := resolveSource(t, "function f() { { var x; } x = 1; }")
	x := findSymbol(t, info, "x")
	assert.Equal(t, SymVar, x.Kind)
	assert.Equal(t, Function, x.Scope.Kind)

	writes := x.Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, Write, writes[0].Kind)
	assert.False(t, writes[0].CrossScope)
	assert.Equal(t, 0, writes[0].Branches)
}

func TestLetShadowing(t *testing.T) {
	t.Parallel()
	info := resolveSource(t, "let x = 1; { let x = 2; x = 3; }")
	syms := findSymbols(info, "x")
	require.Len(t, syms, 2)

	outer, inner := syms[0], syms[1]
	assert.Equal(t, Global, outer.Scope.Kind)
	assert.Equal(t, Block, inner.Scope.Kind)
	assert.Empty(t, outer.Writes())
	assert.Len(t, inner.Writes(), 1)
}

func TestBranchCounting(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		src      string
		branches int
	}{
		{"top level", "let a; a = 1;", 0},
		{"bare block", "let a; { a = 1; }", 0},
		{"if consequent", "let a; if (cond) { a = 1; }", 1},
		{"else branch", "let a; if (cond) {} else { a = 1; }", 1},
		{"while body", "let a; while (cond) { a = 1; }", 1},
		{"do while body", "let a; do { a = 1; } while (cond);", 1},
		{"for body", "let a; for (;;) { a = 1; }", 1},
		{"for of body", "let a; for (const it of xs) { a = it; }", 1},
		{"try block", "let a; try { a = 1; } catch (e) {}", 1},
		{"catch block", "let a; try { go(); } catch (e) { a = 1; }", 1},
		{"finally block", "let a; try { go(); } finally { a = 1; }", 1},
		{"nested branches", "let a; if (x) { while (y) { a = 1; } }", 2},
		{"switch case", "let a; switch (v) { case 1: a = 1; }", 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			info := resolveSource(t, tt.src)
			a := findSymbol(t, info, "a")
			writes := a.Writes()
			require.Len(t, writes, 1)
			assert.Equal(t, tt.branches, writes[0].Branches)
		})
	}
}

func TestSwitchLocalDeclaration(t *testing.T) {
	t.Parallel()
	// a symbol declared inside the switch resolves above the branch frame,
	// so a cross-case write still counts as unconditional
	info := resolveSource(t, "switch (v) { case 1: let b; break; case 2: b = 1; }")
	b := findSymbol(t, info, "b")
	assert.Equal(t, Switch, b.Scope.Kind)
	writes := b.Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, 0, writes[0].Branches)
}

func TestCrossScopeWrites(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		src   string
		cross bool
	}{
		{"function declaration", "var g; function f() { g = 1; }", true},
		{"arrow function", "let a; const f = () => { a = 1; };", true},
		{"function expression", "let a; use(function () { a = 1; });", true},
		{"static block", "let a; class C { static { a = 1; } }", true},
		{"plain block", "let a; { a = 1; }", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			info := resolveSource(t, tt.src)
			a := findSymbol(t, info, tt.src[4:5])
			writes := a.Writes()
			require.Len(t, writes, 1)
			assert.Equal(t, tt.cross, writes[0].CrossScope)
		})
	}
}

func TestStatementLevelWrites(t *testing.T) {
	t.Parallel()
	info := resolveSource(t, "let a; a = 1; use(a = 2);")
	a := findSymbol(t, info, "a")
	writes := a.Writes()
	require.Len(t, writes, 2)
	assert.True(t, writes[0].StatementLevel)
	assert.False(t, writes[1].StatementLevel)

	// a write nested in a ternary is both branched and not statement level
	info = resolveSource(t, "let b; cond ? (b = 1) : skip();")
	b := findSymbol(t, info, "b")
	writes = b.Writes()
	require.Len(t, writes, 1)
	assert.False(t, writes[0].StatementLevel)
	assert.Equal(t, 1, writes[0].Branches)
}

func TestCompoundAndUpdateWrites(t *testing.T) {
	t.Parallel()
	info := resolveSource(t, "let i = 0; i += 2; i++; --i;")
	i := findSymbol(t, info, "i")
	writes := i.Writes()
	require.Len(t, writes, 3)
	for _, w := range writes {
		assert.Equal(t, ReadWrite, w.Kind)
	}
	assert.True(t, writes[0].StatementLevel)
	assert.True(t, writes[1].StatementLevel)
}

func TestReadsRecordedInOrder(t *testing.T) {
	t.Parallel()
	info := resolveSource(t, "let x; use(x); x = 1; log(x);")
	x := findSymbol(t, info, "x")
	require.Len(t, x.Accesses, 3)
	assert.Equal(t, Read, x.Accesses[0].Kind)
	assert.Equal(t, Write, x.Accesses[1].Kind)
	assert.Equal(t, Read, x.Accesses[2].Kind)
	assert.Less(t, x.Accesses[0].Offset(), x.Accesses[1].Offset())
}

func TestDestructuringWriteGroups(t *testing.T) {
	t.Parallel()
	info := resolveSource(t, "let a, b; [a, obj.c, b] = arr;")
	a := findSymbol(t, info, "a")
	b := findSymbol(t, info, "b")

	writesA := a.Writes()
	require.Len(t, writesA, 1)
	group := writesA[0].Group
	require.NotNil(t, group)
	assert.True(t, group.HasMemberTarget)
	assert.Len(t, group.Symbols, 2)
	assert.Same(t, group, b.Writes()[0].Group)

	// an undeclared target taints the group but still resolves the rest
	info = resolveSource(t, "let a; [a, ghost] = arr;")
	a = findSymbol(t, info, "a")
	group = a.Writes()[0].Group
	require.NotNil(t, group)
	assert.True(t, group.Unresolved)
	assert.False(t, group.HasMemberTarget)
}

func TestForHeaderDeclarations(t *testing.T) {
	t.Parallel()
	info := resolveSource(t, "for (let i = 0; i < 3; i++) {}\nfor (const k of keys) {}")
	require.Len(t, info.Declarations, 2)

	_, isInit := info.ForInit(info.Declarations[0])
	assert.True(t, isInit)
	_, isHeader := info.ForHeader(info.Declarations[0])
	assert.False(t, isHeader)

	_, isHeader = info.ForHeader(info.Declarations[1])
	assert.True(t, isHeader)

	// header bindings carry no implicit write accesses
	k := findSymbol(t, info, "k")
	assert.Empty(t, k.Writes())
}

func TestExistingBindingForOfHeader(t *testing.T) {
	t.Parallel()
	info := resolveSource(t, "let x; for (x of items) { use(x); }")
	x := findSymbol(t, info, "x")
	writes := x.Writes()
	require.Len(t, writes, 1)
	assert.NotNil(t, writes[0].Group)
	assert.False(t, writes[0].StatementLevel)
}

func TestDeclarationBindingsAreNotAccesses(t *testing.T) {
	t.Parallel()
	info := resolveSource(t, "let {a, b = fallback()} = obj;")
	a := findSymbol(t, info, "a")
	b := findSymbol(t, info, "b")
	assert.Empty(t, a.Accesses)
	assert.Empty(t, b.Accesses)
}

func TestParameterAndCatchSymbols(t *testing.T) {
	t.Parallel()
	info := resolveSource(t, "function f(p) { p = 1; } try { go(); } catch (err) { use(err); }")
	p := findSymbol(t, info, "p")
	assert.Equal(t, SymParam, p.Kind)
	assert.Len(t, p.Writes(), 1)

	err := findSymbol(t, info, "err")
	assert.Equal(t, SymCatch, err.Kind)
	require.Len(t, err.Accesses, 1)
	assert.Equal(t, Read, err.Accesses[0].Kind)
}
