package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"sniffer/internal/diag"
	"sniffer/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, code, gutter, caret, fix, del, add *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		code:   color.New(color.Faint),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		fix:    color.New(color.FgGreen, color.Bold),
		del:    color.New(color.FgRed),
		add:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.gutter, p.caret, p.fix, p.del, p.add} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	file := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)
	path := formatPath(file, fs, opts.PathMode)

	header := fmt.Sprintf("%s:%d:%d: %s %s: %s",
		path, start.Line, start.Col,
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		pal.code.Sprint(d.Code.ID()),
		d.Message)
	if opts.Width > 0 && !opts.Color {
		header = runewidth.Truncate(header, int(opts.Width), "…")
	}
	fmt.Fprintln(w, header)

	if file != nil {
		writeContext(w, file, d.Primary, fs, int(opts.Context), pal)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nstart, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n",
				pal.note.Sprint("note:"),
				formatPath(fs.Get(n.Span.File), fs, opts.PathMode),
				nstart.Line, nstart.Col, n.Msg)
		}
	}

	if opts.ShowFixes {
		for i, f := range sortedFixes(d.Fixes) {
			writeFix(w, i+1, f, fs, opts, pal)
		}
	}
}

func writeFix(w io.Writer, n int, f diag.Fix, fs *source.FileSet, opts PrettyOpts, pal palette) {
	line := fmt.Sprintf("  %s %s (%s, %s)", pal.fix.Sprintf("fix #%d:", n), f.Title, f.Kind, f.Applicability)
	if f.ID != "" {
		line += " id=" + f.ID
	}
	fmt.Fprintln(w, line)
	for _, e := range f.Edits {
		s, end := fs.Resolve(e.Span)
		fmt.Fprintf(w, "      edit %s:%d:%d-%d:%d apply=%q\n",
			formatPath(fs.Get(e.Span.File), fs, opts.PathMode),
			s.Line, s.Col, end.Line, end.Col, e.NewText)
		if !opts.ShowPreview {
			continue
		}
		preview, err := buildFixEditPreview(fs, e)
		if err != nil {
			continue
		}
		fmt.Fprintln(w, "      preview:")
		for _, l := range preview.before {
			fmt.Fprintf(w, "        %s\n", pal.del.Sprint("- "+l))
		}
		for _, l := range preview.after {
			fmt.Fprintf(w, "        %s\n", pal.add.Sprint("+ "+l))
		}
	}
}

// writeContext prints the primary line with `context` lines around it and a
// caret underline below the primary line.
func writeContext(w io.Writer, file *source.File, span source.Span, fs *source.FileSet, context int, pal palette) {
	start, end := fs.Resolve(span)
	if start.Line == 0 {
		return
	}
	first := int(start.Line) - context
	if first < 1 {
		first = 1
	}
	last := int(start.Line) + context
	total := len(file.LineIdx) + 1
	if last > total {
		last = total
	}
	gutterWidth := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := file.GetLine(uint32(ln))
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), expandTabs(text))
		if ln != int(start.Line) {
			continue
		}
		prefix := expandTabs(sliceCols(text, 1, int(start.Col)))
		width := 1
		if end.Line == start.Line && end.Col > start.Col {
			width = runewidth.StringWidth(expandTabs(sliceCols(text, int(start.Col), int(end.Col))))
		}
		if width < 1 {
			width = 1
		}
		marker := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%s %s%s\n",
			pal.gutter.Sprint(strings.Repeat(" ", gutterWidth)+" |"),
			strings.Repeat(" ", runewidth.StringWidth(prefix)),
			pal.caret.Sprint(marker))
	}
}

// sliceCols returns the bytes of line between 1-based byte columns [from, to).
func sliceCols(line string, from, to int) string {
	from--
	to--
	if from < 0 {
		from = 0
	}
	if to > len(line) {
		to = len(line)
	}
	if from >= to {
		return ""
	}
	return line[from:to]
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String()
}
