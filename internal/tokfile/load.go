package tokfile

import (
	"fmt"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"github.com/tliron/commonlog"

	"sniffer/internal/source"
	"sniffer/internal/token"
)

var log = commonlog.GetLogger("sniffer.tokfile")

// Loaded is a dump registered in a FileSet.
type Loaded struct {
	DumpPath string
	Format   Format
	File     source.FileID
	Stream   *token.Stream
}

// Load reads the dump at dumpPath and registers its source text in fs.
func Load(fs *source.FileSet, dumpPath string) (*Loaded, error) {
	doc, format, err := ReadFile(dumpPath)
	if err != nil {
		return nil, err
	}
	l, err := Build(fs, doc, dumpPath)
	if err != nil {
		return nil, err
	}
	l.Format = format
	log.Debugf("loaded %s (%s, %d tokens)", dumpPath, format, l.Stream.Len())
	return l, nil
}

// Build registers doc in fs. Relative document paths are resolved against
// the dump's directory; a missing path is derived from the dump name.
func Build(fs *source.FileSet, doc *Document, dumpPath string) (*Loaded, error) {
	path := doc.Path
	switch {
	case path == "":
		path = SourcePathFor(dumpPath)
	case !filepath.IsAbs(path) && dumpPath != "":
		path = filepath.Join(filepath.Dir(dumpPath), path)
	}

	var content strings.Builder
	for _, e := range doc.Tokens {
		content.WriteString(e.Text)
	}
	if _, err := safecast.Conv[uint32](content.Len()); err != nil {
		return nil, fmt.Errorf("%s: source too large: %w", dumpPath, err)
	}
	id := fs.Add(path, []byte(content.String()), source.FileFromDump)

	toks := make([]token.Token, 0, len(doc.Tokens))
	var off uint32
	line := uint32(1)
	for i, e := range doc.Tokens {
		kind, ok := kindOf(e)
		if !ok && e.Kind == "" {
			return nil, fmt.Errorf("%s: token %d has no kind", dumpPath, i)
		}
		if e.Line > 0 {
			line = e.Line
		}
		end := off + uint32(len(e.Text))
		toks = append(toks, token.Token{
			Kind: kind,
			Text: e.Text,
			Line: line,
			Span: source.Span{File: id, Start: off, End: end},
			Name: e.Kind,
		})
		line += uint32(strings.Count(e.Text, "\n"))
		off = end
	}

	return &Loaded{
		DumpPath: dumpPath,
		File:     id,
		Stream:   token.NewStream(toks),
	}, nil
}

// kindOf maps an entry name to a kind. Unknown names are Other.
func kindOf(e Entry) (token.Kind, bool) {
	if k, ok := token.LookupName(e.Kind); ok {
		return k, true
	}
	if k, ok := token.ParseKind(e.Kind); ok {
		return k, true
	}
	return token.Other, false
}
