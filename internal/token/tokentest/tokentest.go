// Package tokentest builds token streams for tests from a compact fixture
// notation. It is not a PHP lexer: it understands whitespace runs, $variables,
// identifiers (including \ and ?), numbers, "...", "#[" and single punctuation
// characters, which is all the sniff fixtures use.
package tokentest

import (
	"strings"

	"sniffer/internal/source"
	"sniffer/internal/token"
)

// Split cuts src into tokens registered as a virtual file "fixture.php" in a fresh FileSet.
func Split(src string) *token.Stream {
	_, stream := Load(source.NewFileSet(), "fixture.php", src)
	return stream
}

// Load registers src in fs and returns its file id and token stream.
func Load(fs *source.FileSet, name, src string) (source.FileID, *token.Stream) {
	id := fs.AddVirtual(name, []byte(src))
	pieces := cut(src)
	toks := make([]token.Token, 0, len(pieces))
	var off uint32
	line := uint32(1)
	for _, p := range pieces {
		kind := classify(p)
		end := off + uint32(len(p))
		toks = append(toks, token.Token{
			Kind: kind,
			Text: p,
			Line: line,
			Span: source.Span{File: id, Start: off, End: end},
			Name: token.CanonicalName(kind, p),
		})
		line += uint32(strings.Count(p, "\n"))
		off = end
	}
	return id, token.NewStream(toks)
}

// Find returns the position of the n-th (0-based) token with the given text, or NotFound.
func Find(s *token.Stream, text string, n int) int {
	for i, tok := range s.Tokens() {
		if tok.Text != text {
			continue
		}
		if n == 0 {
			return i
		}
		n--
	}
	return token.NotFound
}

func cut(src string) []string {
	var out []string
	for i := 0; i < len(src); {
		j := i + 1
		c := src[i]
		switch {
		case isSpace(c):
			for j < len(src) && isSpace(src[j]) {
				j++
			}
		case c == '$' || isWord(c):
			for j < len(src) && isWord(src[j]) {
				j++
			}
		case strings.HasPrefix(src[i:], "..."):
			j = i + 3
		case strings.HasPrefix(src[i:], "#["):
			j = i + 2
		}
		out = append(out, src[i:j])
		i = j
	}
	return out
}

func classify(p string) token.Kind {
	switch {
	case p == "function":
		return token.Function
	case isSpace(p[0]):
		return token.Whitespace
	case p[0] == '$' && len(p) > 1:
		return token.Variable
	case p[0] >= '0' && p[0] <= '9':
		return token.Other
	case isWord(p[0]):
		return token.Ident
	}
	if k, ok := token.LookupName(p); ok {
		return k
	}
	return token.Other
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isWord(c byte) bool {
	return c == '_' || c == '\\' || c == '?' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
