package functions

import "sniffer/internal/token"

// param is one declared parameter and the tokens around it.
type param struct {
	pos int // variable token
	// edge is the first token of the parameter proper: pos, or a directly
	// preceding & / ... run.
	edge int
	// next is the first non-whitespace token after pos, bounded by close.
	next int
	// comma is the top-level comma that ends the parameter, or NotFound.
	comma int
	// delim is the ( or , that starts the parameter slot: the previous
	// parameter's comma when there is one.
	delim int
	// hint spans the type hint tokens [hintStart, hintEnd]; NotFound when untyped.
	hintStart int
	hintEnd   int
}

func (p param) hinted() bool { return p.hintEnd != token.NotFound }

var (
	whitespace = token.Kinds(token.Whitespace)
	variables  = token.Kinds(token.Variable)
	modifiers  = token.Kinds(token.Ampersand, token.Ellipsis)
	nesting    = token.Kinds(token.LParen, token.RParen, token.LBracket, token.RBracket, token.Comma)
)

// scanParams returns the parameters of b in declaration order. Variables
// nested in brackets (default values, attribute arguments) are not parameters.
// Scanning stops at the first parameter with nothing but whitespace after it.
func scanParams(s *token.Stream, b boundary) []param {
	var out []param
	slot := b.open
	for from := b.open + 1; ; {
		pos := s.FindNext(variables, from, b.close, false)
		if pos == token.NotFound {
			break
		}
		from = pos + 1
		if nestedIn(s, slot, pos) {
			continue
		}
		next := s.FindNext(whitespace, pos+1, b.close+1, true)
		if next == token.NotFound {
			break
		}
		p := param{
			pos:       pos,
			edge:      leadingEdge(s, pos, b.open),
			next:      next,
			comma:     topLevelComma(s, pos+1, b.close),
			delim:     slot,
			hintStart: token.NotFound,
			hintEnd:   token.NotFound,
		}
		prev := s.FindPrevious(whitespace, p.edge-1, b.open, true)
		switch {
		case prev == token.NotFound || prev == b.open:
			p.delim = b.open
		case s.Is(prev, token.Comma):
			p.delim = prev
		default:
			if slot == b.open {
				p.delim = slotStart(s, prev, b.open)
			}
			if start := s.FindNext(whitespace, p.delim+1, prev+1, true); start != token.NotFound {
				p.hintStart, p.hintEnd = start, prev
			}
		}
		out = append(out, p)
		if p.comma == token.NotFound {
			break
		}
		slot = p.comma
		from = p.comma + 1
	}
	return out
}

// nestedIn reports whether pos sits inside brackets opened after from.
func nestedIn(s *token.Stream, from, pos int) bool {
	depth := 0
	for p := s.FindNext(nesting, from+1, pos, false); p != token.NotFound; p = s.FindNext(nesting, p+1, pos, false) {
		switch s.At(p).Kind {
		case token.LParen, token.LBracket:
			depth++
		case token.RParen, token.RBracket:
			if depth > 0 {
				depth--
			}
		}
	}
	return depth > 0
}

func leadingEdge(s *token.Stream, pos, open int) int {
	edge := pos
	for edge-1 > open && modifiers.Has(s.At(edge-1).Kind) {
		edge--
	}
	return edge
}

// topLevelComma finds the first comma in [from, until) outside nested
// parentheses and brackets.
func topLevelComma(s *token.Stream, from, until int) int {
	depth := 0
	for p := s.FindNext(nesting, from, until, false); p != token.NotFound; p = s.FindNext(nesting, p+1, until, false) {
		switch s.At(p).Kind {
		case token.LParen, token.LBracket:
			depth++
		case token.RParen, token.RBracket:
			if depth > 0 {
				depth--
			}
		case token.Comma:
			if depth == 0 {
				return p
			}
		}
	}
	return token.NotFound
}

// slotStart walks back from a type hint token to the ( or , that opens the
// parameter slot, skipping parenthesised parts of DNF types like (A&B)|null.
func slotStart(s *token.Stream, from, open int) int {
	depth := 0
	for p := s.FindPrevious(nesting, from, open+1, false); p != token.NotFound; p = s.FindPrevious(nesting, p-1, open+1, false) {
		switch s.At(p).Kind {
		case token.RParen, token.RBracket:
			depth++
		case token.LParen, token.LBracket:
			if depth == 0 {
				return p
			}
			depth--
		case token.Comma:
			if depth == 0 {
				return p
			}
		}
	}
	return open
}
