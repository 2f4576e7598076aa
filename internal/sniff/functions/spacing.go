package functions

import (
	"fmt"

	"sniffer/internal/diag"
	"sniffer/internal/fix"
	"sniffer/internal/sniff"
	"sniffer/internal/token"
)

// checker applies the spacing table to one declaration.
type checker struct {
	f *sniff.File
	s *token.Stream
}

func (c checker) report(code diag.Code, anchor int, fx diag.Fix, format string, args ...any) {
	diag.ReportError(c.f.Reporter, code, c.f.Span(anchor), fmt.Sprintf(format, args...)).
		WithFix(fx).
		Emit()
}

// gap returns the width of the whitespace token at pos.
func (c checker) gap(pos int) (int, bool) {
	t := c.s.At(pos)
	if !t.IsWhitespace() {
		return 0, false
	}
	return t.Len(), true
}

func (c checker) removeSpace(pos int) diag.Fix {
	t := c.s.At(pos)
	return fix.DeleteSpan("Remove whitespace", t.Span, t.Text, fix.Preferred())
}

func (c checker) singleSpace(pos int) diag.Fix {
	t := c.s.At(pos)
	return fix.ReplaceSpan("Use a single space", t.Span, " ", t.Text, fix.Preferred())
}

func (c checker) insertSpace(before int) diag.Fix {
	return fix.InsertText("Insert a space", c.f.Span(before).ZeroideToStart(), " ", "", fix.Preferred())
}

// oneSpace reports when the slot before `before` is not exactly one space.
// A missing whitespace token counts as 0.
func (c checker) oneSpace(code diag.Code, anchor, before int, format string, args ...any) {
	w, ok := c.gap(before - 1)
	switch {
	case !ok:
		c.report(code, anchor, c.insertSpace(before), format, append(args, 0)...)
	case w != 1:
		c.report(code, anchor, c.singleSpace(before-1), format, append(args, w)...)
	}
}

// noSpace reports when there is a whitespace token at pos.
func (c checker) noSpace(code diag.Code, anchor, pos int, format string, args ...any) {
	if w, ok := c.gap(pos); ok {
		c.report(code, anchor, c.removeSpace(pos), format, append(args, w)...)
	}
}

func (c checker) checkParam(b boundary, p param) {
	arg := c.s.At(p.pos).Text

	if c.s.Is(p.next, token.Equal) {
		if p.next-p.pos > 1 {
			c.noSpace(diag.StySpaceBeforeEquals, p.next, p.pos+1,
				"Expected 0 spaces between argument \"%s\" and equals sign; %d found", arg)
		}
		c.noSpace(diag.StySpaceAfterEquals, p.next, p.next+1,
			"Expected 0 spaces between default value and equals sign for argument \"%s\"; %d found", arg)
	}

	if p.comma != token.NotFound {
		c.noSpace(diag.StySpaceBeforeComma, p.next, p.comma-1,
			"Expected 0 spaces between argument \"%s\" and comma; %d found", arg)
	}

	if p.hinted() {
		c.checkHint(b, p, arg)
		return
	}

	if p.delim == b.open {
		c.noSpace(diag.StySpacingAfterOpen, p.next, p.edge-1,
			"Expected 0 spaces between opening bracket and argument \"%s\"; %d found", arg)
		return
	}
	if _, ok := c.gap(p.edge - 1); !ok {
		c.report(diag.StyNoSpaceBeforeArg, p.next, c.insertSpace(p.edge),
			"Expected 1 space between comma and argument \"%s\"; 0 found", arg)
		return
	}
	c.oneSpace(diag.StySpacingBeforeArg, p.next, p.edge,
		"Expected 1 space between comma and argument \"%s\"; %d found", arg)
}

// checkHint validates both sides of a type hint: the slot opener before it and
// the parameter after it.
func (c checker) checkHint(b boundary, p param, arg string) {
	if p.delim == b.open {
		c.noSpace(diag.StySpacingAfterOpenHint, p.next, p.hintStart-1,
			"Expected 0 spaces between opening bracket and type hint for argument \"%s\"; %d found", arg)
	} else {
		c.oneSpace(diag.StySpacingBeforeHint, p.next, p.hintStart,
			"Expected 1 space between comma and type hint for argument \"%s\"; %d found", arg)
	}
	c.oneSpace(diag.StySpacingAfterHint, p.next, p.edge,
		"Expected 1 space between type hint and argument \"%s\"; %d found", arg)
}

// checkEnds runs exactly one of the empty-list and closing-bracket checks.
func (c checker) checkEnds(keyword int, b boundary, params []param) {
	if len(params) == 0 {
		if b.close-b.open != 1 {
			c.noSpace(diag.StySpacingBetween, keyword, b.close-1,
				"Expected 0 spaces between brackets of function declaration; %d found")
		}
		return
	}
	last := params[len(params)-1]
	c.noSpace(diag.StySpacingBeforeClose, b.close, b.close-1,
		"Expected 0 spaces between argument \"%s\" and closing bracket; %d found", c.s.At(last.pos).Text)
}
