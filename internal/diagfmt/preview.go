package diagfmt

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"sniffer/internal/diag"
	"sniffer/internal/source"
)

// editPreview holds the source lines an edit touches, before and after it.
// Spacing fixes usually touch one line; removing a whitespace run that holds a
// newline joins two lines, so after can be shorter than before.
type editPreview struct {
	before []string
	after  []string
}

func buildFixEditPreview(fs *source.FileSet, edit diag.TextEdit) (editPreview, error) {
	if fs == nil {
		return editPreview{}, fmt.Errorf("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return editPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return editPreview{}, fmt.Errorf("len file content overflow: %w", err)
	}
	if edit.Span.End < edit.Span.Start || edit.Span.End > size {
		return editPreview{}, fmt.Errorf("edit span %d..%d outside file (len %d)", edit.Span.Start, edit.Span.End, size)
	}

	first, last := fs.Resolve(edit.Span)
	from, _ := lineBounds(file, first.Line, size)
	_, to := lineBounds(file, last.Line, size)

	var after strings.Builder
	after.Write(file.Content[from:edit.Span.Start])
	after.WriteString(edit.NewText)
	after.Write(file.Content[edit.Span.End:to])

	return editPreview{
		before: previewLines(string(file.Content[from:to])),
		after:  previewLines(after.String()),
	}, nil
}

// lineBounds returns [start, end) of a 1-based line without its newline.
func lineBounds(f *source.File, line, size uint32) (start, end uint32) {
	if line > 1 && int(line-2) < len(f.LineIdx) {
		start = f.LineIdx[line-2] + 1
	}
	end = size
	if line >= 1 && int(line-1) < len(f.LineIdx) {
		end = f.LineIdx[line-1]
	}
	return min(start, size), end
}

// previewLines splits text into lines, dropping \r of CRLF endings.
func previewLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
