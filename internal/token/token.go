package token

import (
	"sniffer/internal/source"
)

// Token is a single lexical unit of a token stream.
type Token struct {
	Kind Kind
	Text string
	Line uint32 // 1-based
	Span source.Span
	// Name is the producer's token name (e.g. T_STRING); kept for dumps and listings.
	Name string
}

// Len returns the content length in bytes.
func (t Token) Len() int { return len(t.Text) }

// IsWhitespace reports whether the token is a whitespace run.
func (t Token) IsWhitespace() bool { return t.Kind == Whitespace }
