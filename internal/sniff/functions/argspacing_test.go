package functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sniffer/internal/diag"
	"sniffer/internal/fix"
	"sniffer/internal/sniff"
	"sniffer/internal/source"
	"sniffer/internal/token"
	"sniffer/internal/token/tokentest"
)

func run(t *testing.T, src string) (*token.Stream, []diag.Diagnostic) {
	t.Helper()
	s := tokentest.Split(src)
	pos := tokentest.Find(s, "function", 0)
	require.NotEqual(t, token.NotFound, pos, "fixture has no function keyword")
	return s, sniff.Check(s, pos, NewArgumentSpacing())
}

func messages(ds []diag.Diagnostic) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Message)
	}
	return out
}

func TestArgumentSpacing(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"empty list", "function foo() {}", nil},
		{"space in empty list", "function foo( ) {}", []string{
			"Expected 0 spaces between brackets of function declaration; 1 found",
		}},
		{"two params", "function foo($a, $b) {}", nil},
		{"missing space after comma", "function foo($a,$b) {}", []string{
			`Expected 1 space between comma and argument "$b"; 0 found`,
		}},
		{"too many spaces after comma", "function foo($a,  $b) {}", []string{
			`Expected 1 space between comma and argument "$b"; 2 found`,
		}},
		{"space before comma", "function foo($a , $b) {}", []string{
			`Expected 0 spaces between argument "$a" and comma; 1 found`,
		}},
		{"tight default", "function foo($a=1) {}", nil},
		{"spaced default", "function foo($a = 1) {}", []string{
			`Expected 0 spaces between argument "$a" and equals sign; 1 found`,
			`Expected 0 spaces between default value and equals sign for argument "$a"; 1 found`,
		}},
		{"type hint", "function foo(Type $a) {}", nil},
		{"wide type hint", "function foo(Type  $a) {}", []string{
			`Expected 1 space between type hint and argument "$a"; 2 found`,
		}},
		{"type hint glued", "function foo(Type$a) {}", []string{
			`Expected 1 space between type hint and argument "$a"; 0 found`,
		}},
		{"space after open", "function foo(  $a) {}", []string{
			`Expected 0 spaces between opening bracket and argument "$a"; 2 found`,
		}},
		{"space before close", "function foo($a, $b ) {}", []string{
			`Expected 0 spaces between argument "$b" and closing bracket; 1 found`,
		}},
		{"space before close after default", "function foo($a=1 ) {}", []string{
			`Expected 0 spaces between argument "$a" and closing bracket; 1 found`,
		}},
		{"by reference and variadic", "function foo(&$a, ...$b) {}", nil},
		{"variadic missing space", "function foo(&$a,...$b) {}", []string{
			`Expected 1 space between comma and argument "$b"; 0 found`,
		}},
		{"hinted by reference", "function foo(array &$a) {}", nil},
		{"nullable and qualified hints", `function foo(?Foo $a, \Ns\Bar  $b) {}`, []string{
			`Expected 1 space between type hint and argument "$b"; 2 found`,
		}},
		{"space before first hint", "function foo(  Type $a) {}", []string{
			`Expected 0 spaces between opening bracket and type hint for argument "$a"; 2 found`,
		}},
		{"missing space before hint", "function foo($a,Type $b) {}", []string{
			`Expected 1 space between comma and type hint for argument "$b"; 0 found`,
		}},
		{"nested default commas", "function foo($a=array(1 , 2), $b) {}", nil},
		{"nested parens in default", "function foo($a=bar(), $b=[1, 2]) {}", nil},
		{"variable in default call", "function foo($a=bar($x)) {}", nil},
		{"variable in default array", "function foo($a=[$x]) {}", nil},
		{"variable in default before next param", "function foo($a=bar($x), $b) {}", nil},
		{"attribute with arguments", "function foo($z, #[A(1, 2)] $b) {}", nil},
		{"attribute on first param", "function foo(#[A] $a) {}", nil},
		{"attribute missing space after comma", "function foo($z,#[A(1, 2)] $b) {}", []string{
			`Expected 1 space between comma and type hint for argument "$b"; 0 found`,
		}},
		{"closure", "function ( $a) use ($b) {}", []string{
			`Expected 0 spaces between opening bracket and argument "$a"; 1 found`,
		}},
		{"by reference function", "function &foo( ) {}", []string{
			"Expected 0 spaces between brackets of function declaration; 1 found",
		}},
		{"multi-line declaration", "function foo\n( $a ,$b = 1 ) {}", nil},
		{"unbalanced brackets", "function foo( $a, ($b {}", nil},
		{"no name", "function", nil},
		{"no parenthesis", "function foo", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := run(t, tt.src)
			if len(tt.want) == 0 {
				assert.Empty(t, messages(got))
				return
			}
			assert.Equal(t, tt.want, messages(got))
			for _, d := range got {
				assert.Equal(t, diag.SevError, d.Severity)
				assert.Len(t, d.Fixes, 1)
			}
		})
	}
}

func TestArgumentSpacingScanOrder(t *testing.T) {
	s, got := run(t, "function foo( $a = 1 ,$b ) {}")
	require.Len(t, got, 6)

	assert.Equal(t, []diag.Code{
		diag.StySpaceBeforeEquals,
		diag.StySpaceAfterEquals,
		diag.StySpaceBeforeComma,
		diag.StySpacingAfterOpen,
		diag.StyNoSpaceBeforeArg,
		diag.StySpacingBeforeClose,
	}, []diag.Code{got[0].Code, got[1].Code, got[2].Code, got[3].Code, got[4].Code, got[5].Code})

	equals := tokentest.Find(s, "=", 0)
	for _, d := range got[:4] {
		assert.Equal(t, s.At(equals).Span, d.Primary, "per-parameter diagnostics anchor on the delimiter")
	}
	closing := tokentest.Find(s, ")", 0)
	assert.Equal(t, s.At(closing).Span, got[4].Primary)
	assert.Equal(t, s.At(closing).Span, got[5].Primary)
}

func TestEmptyListAnchorsOnKeyword(t *testing.T) {
	s, got := run(t, "  function foo(\t\t) {}")
	require.Len(t, got, 1)
	assert.Equal(t, s.At(tokentest.Find(s, "function", 0)).Span, got[0].Primary)
	assert.Equal(t, "Expected 0 spaces between brackets of function declaration; 2 found", got[0].Message)
	assert.Equal(t, uint32(1), s.At(tokentest.Find(s, "function", 0)).Line)
}

func TestArgumentSpacingDeterministic(t *testing.T) {
	src := "function foo( Type  $a = 1 ,$b,  ?Bar $c ) {}"
	s := tokentest.Split(src)
	pos := tokentest.Find(s, "function", 0)
	first := sniff.Check(s, pos, NewArgumentSpacing())
	second := sniff.Check(s, pos, NewArgumentSpacing())
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestArgumentSpacingIgnoresOtherTokens(t *testing.T) {
	s := tokentest.Split("function foo( ) {}")
	assert.Empty(t, sniff.Check(s, tokentest.Find(s, "foo", 0), NewArgumentSpacing()))
	assert.Empty(t, sniff.Check(s, 99, NewArgumentSpacing()))
}

func TestFixesClearDiagnostics(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"function foo( ) {}", "function foo() {}"},
		{"function foo($a,$b) {}", "function foo($a, $b) {}"},
		{"function foo($a = 1) {}", "function foo($a=1) {}"},
		{"function foo(Type  $a) {}", "function foo(Type $a) {}"},
		{"function foo(Type$a) {}", "function foo(Type $a) {}"},
		{"function foo( $a = 1 ,$b ) {}", "function foo($a=1, $b) {}"},
		{"function foo(  Type $a,Bar   &$b ,\t\t...$c ) {}", "function foo(Type $a, Bar &$b, ...$c) {}"},
		{"function foo($a ,  $b=array(1,2) ) {}", "function foo($a, $b=array(1,2)) {}"},
		{"function foo($z,#[A(1, 2)]  $b) {}", "function foo($z, #[A(1, 2)] $b) {}"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			fs := source.NewFileSet()
			_, s := tokentest.Load(fs, "fixture.php", tt.src)
			pos := tokentest.Find(s, "function", 0)
			diags := sniff.Check(s, pos, NewArgumentSpacing())
			require.NotEmpty(t, diags)

			res, err := fix.Apply(fs, diags, fix.ApplyOptions{Mode: fix.ApplyModeAll, DryRun: true})
			require.NoError(t, err)
			require.Empty(t, res.Skipped)
			require.Len(t, res.FileChanges, 1)

			fixed := string(res.FileChanges[0].Content)
			assert.Equal(t, tt.want, fixed)
			_, again := run(t, fixed)
			assert.Empty(t, messages(again))
		})
	}
}

func TestRegisteredByDefault(t *testing.T) {
	s, ok := sniff.Default().Lookup(ArgumentSpacingName)
	require.True(t, ok)
	assert.Equal(t, []token.Kind{token.Function}, s.Register())
	assert.NotEmpty(t, s.Description())
}

func TestDispatchVisitsEveryDeclaration(t *testing.T) {
	s := tokentest.Split("function a( ) {}\nfunction b($x,$y) {}\nfunction c($z) {}")
	bag := diag.NewBag(0)
	sniff.Dispatch("fixture.php", s, diag.BagReporter{Bag: bag}, NewArgumentSpacing())
	assert.Equal(t, []string{
		"Expected 0 spaces between brackets of function declaration; 1 found",
		`Expected 1 space between comma and argument "$y"; 0 found`,
	}, messages(bag.Items()))
}
