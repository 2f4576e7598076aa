package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"sniffer/internal/source"
	"sniffer/internal/token"
)

type TokenOutput struct {
	Index int         `json:"index"`
	Kind  string      `json:"kind"`
	Name  string      `json:"name,omitempty"`
	Text  string      `json:"text"`
	Line  uint32      `json:"line"`
	Span  source.Span `json:"span"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		if _, err := fmt.Fprintf(w, "%3d: %-11s %-14s %q at %d:%d-%d:%d\n",
			i, tok.Kind.String(), tok.Name, tok.Text,
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for i, tok := range tokens {
		output = append(output, TokenOutput{
			Index: i,
			Kind:  tok.Kind.String(),
			Name:  tok.Name,
			Text:  tok.Text,
			Line:  tok.Line,
			Span:  tok.Span,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
