package tokfile

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"sniffer/internal/token"
)

// Encode writes doc in the native JSON shape or as msgpack.
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatJSON, FormatAuto:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(doc)
	case FormatPHP:
		items := make([]any, 0, len(doc.Tokens))
		for _, e := range doc.Tokens {
			if e.Kind == e.Text && len(e.Text) == 1 {
				items = append(items, e.Text)
				continue
			}
			items = append(items, []any{e.Kind, e.Text, e.Line})
		}
		return json.NewEncoder(w).Encode(items)
	}
	return fmt.Errorf("encode: %w", ErrUnknownFormat)
}

// FromStream builds a native document from a token stream.
func FromStream(path string, s *token.Stream) *Document {
	toks := s.Tokens()
	doc := &Document{Path: path, Tokens: make([]Entry, 0, len(toks))}
	for _, t := range toks {
		name := t.Name
		if name == "" {
			name = token.CanonicalName(t.Kind, t.Text)
		}
		if name == "" {
			name = t.Kind.String()
		}
		doc.Tokens = append(doc.Tokens, Entry{Kind: name, Text: t.Text, Line: t.Line})
	}
	return doc
}
