// Package functions holds sniffs for function and method declarations.
package functions

import (
	"sniffer/internal/diag"
	"sniffer/internal/sniff"
	"sniffer/internal/token"
)

// ArgumentSpacingName is the registry name of ArgumentSpacing.
const ArgumentSpacingName = "Squiz.Functions.FunctionDeclarationArgumentSpacing"

// ArgumentSpacing checks the whitespace inside a declaration's parameter list:
//
//	function foo(Type $a, $b=1, &$c, ...$rest)
//
// No space after "(" or before ")", none around "=", none before ",",
// exactly one after "," and between a type hint and its parameter.
// Declarations whose "(" is not on the name's line are skipped.
type ArgumentSpacing struct{}

var _ sniff.Sniff = (*ArgumentSpacing)(nil)

// NewArgumentSpacing returns the sniff; it holds no state and is safe to share.
func NewArgumentSpacing() *ArgumentSpacing {
	return &ArgumentSpacing{}
}

// init puts the sniff into the default registry used by the CLI.
func init() {
	sniff.Default().MustRegister(NewArgumentSpacing())
}

// Name returns ArgumentSpacingName.
func (*ArgumentSpacing) Name() string { return ArgumentSpacingName }

// Code returns the code shown in sniff listings. Each violation carries its
// own STY1001..STY1011 code.
func (*ArgumentSpacing) Code() diag.Code { return diag.StySpacingBeforeArg }

// Description is the one-line summary for `sniffer sniffs`.
func (*ArgumentSpacing) Description() string {
	return "Checks that arguments in function declarations are spaced correctly"
}

// Register listens on the function keyword, which also starts closures.
func (*ArgumentSpacing) Register() []token.Kind {
	return []token.Kind{token.Function}
}

// Process checks the declaration whose keyword is at pos. Anything other than
// a function keyword, a multi-line signature or unbalanced parentheses
// reports nothing.
func (*ArgumentSpacing) Process(f *sniff.File, pos int) {
	if f == nil || !f.Stream.Is(pos, token.Function) {
		return
	}
	b, ok := matchBoundary(f.Stream, pos)
	if !ok {
		return
	}
	params := scanParams(f.Stream, b)
	c := checker{f: f, s: f.Stream}
	for _, p := range params {
		c.checkParam(b, p)
	}
	c.checkEnds(pos, b, params)
}
