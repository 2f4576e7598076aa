// Package testkit holds checks shared by tests of packages that build token
// streams.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"sniffer/internal/source"
	"sniffer/internal/token"
)

// CheckStreamInvariants runs the span invariants every loaded stream must hold:
// 1) every token span points at sf and is in content bounds
// 2) spans are contiguous, so the stream covers the whole content
// 3) token text equals the content under its span
// 4) lines start at 1 and never decrease
func CheckStreamInvariants(s *token.Stream, sf *source.File) error {
	if s == nil || sf == nil {
		return fmt.Errorf("nil stream or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var off uint32
	var line uint32 = 1
	for i, tok := range s.Tokens() {
		sp := tok.Span
		if sp.File != sf.ID {
			return fmt.Errorf("token %d: span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.Start != off {
			return fmt.Errorf("token %d: span %v does not start at %d", i, sp, off)
		}
		if sp.End < sp.Start || sp.End > lenContent {
			return fmt.Errorf("token %d: span %v outside content (len %d)", i, sp, lenContent)
		}
		if got := string(sf.Content[sp.Start:sp.End]); got != tok.Text {
			return fmt.Errorf("token %d: text %q does not match content %q", i, tok.Text, got)
		}
		if tok.Line < line {
			return fmt.Errorf("token %d: line %d goes back from %d", i, tok.Line, line)
		}
		line = tok.Line
		off = sp.End
	}

	// хвост без токенов
	if off != lenContent {
		return fmt.Errorf("stream covers %d of %d bytes", off, lenContent)
	}
	return nil
}
