// Package sniff hosts style rules ("sniffs") that run over a token stream.
//
// A sniff registers the token kinds it listens for; Dispatch walks the stream
// once and calls Process for every token whose kind was registered. Sniffs
// never fail: every finding goes to the File's diag.Reporter.
package sniff

import (
	"sniffer/internal/diag"
	"sniffer/internal/source"
	"sniffer/internal/token"
)

// Sniff is a single style rule.
type Sniff interface {
	// Name is the dotted rule name, e.g. Squiz.Functions.FunctionDeclarationArgumentSpacing.
	Name() string
	// Code is the primary diagnostic code used in listings.
	Code() diag.Code
	Description() string
	// Register returns the token kinds that trigger Process.
	Register() []token.Kind
	// Process inspects the token at pos. It must not retain f after returning.
	Process(f *File, pos int)
}

// File is the view of one token stream handed to a sniff.
type File struct {
	Path     string
	Stream   *token.Stream
	Reporter diag.Reporter
}

// NewFile binds a stream to a reporter. A nil reporter drops diagnostics.
func NewFile(path string, stream *token.Stream, r diag.Reporter) *File {
	if r == nil {
		r = diag.NopReporter{}
	}
	return &File{Path: path, Stream: stream, Reporter: r}
}

// Span returns the span of the token at pos, or an empty span when pos is out of range.
func (f *File) Span(pos int) source.Span {
	return f.Stream.At(pos).Span
}

// Token returns the token at pos.
func (f *File) Token(pos int) token.Token {
	return f.Stream.At(pos)
}
