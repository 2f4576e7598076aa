package functions

import "sniffer/internal/token"

// boundary is the matched parenthesis pair of a parameter list.
type boundary struct {
	open  int
	close int
}

var (
	parens     = token.Kinds(token.LParen, token.RParen)
	keywordGap = token.Kinds(token.Whitespace, token.Ampersand)
)

// matchBoundary locates the parameter list of the declaration whose keyword
// sits at keyword. The opening parenthesis must be on the same line as the
// declared name (or the keyword itself for closures); multi-line signatures and
// unbalanced parentheses yield ok == false.
func matchBoundary(s *token.Stream, keyword int) (boundary, bool) {
	name := s.FindNext(keywordGap, keyword+1, -1, true)
	if name == token.NotFound {
		return boundary{}, false
	}
	var open int
	if s.Is(name, token.LParen) {
		// function (...) / function &(...)
		open = name
		name = keyword
	} else {
		name = s.FindNext(token.Kinds(token.Ident), keyword, -1, false)
		if name == token.NotFound {
			return boundary{}, false
		}
		open = s.FindNext(token.Kinds(token.LParen), name, -1, false)
	}
	if open == token.NotFound || s.At(open).Line != s.At(name).Line {
		return boundary{}, false
	}

	// стек открывающих скобок; нужна только глубина
	depth := 1
	for p := s.FindNext(parens, open+1, -1, false); p != token.NotFound; p = s.FindNext(parens, p+1, -1, false) {
		if s.Is(p, token.LParen) {
			depth++
			continue
		}
		depth--
		if depth == 0 {
			return boundary{open: open, close: p}, true
		}
	}
	return boundary{}, false
}
