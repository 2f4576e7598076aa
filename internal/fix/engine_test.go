package fix

import (
	"errors"
	"testing"

	"sniffer/internal/diag"
	"sniffer/internal/source"
)

type capture map[string]string

func (c capture) write(file *source.File, content []byte) error {
	c[file.Path] = string(content)
	return nil
}

func TestGatherCandidatesSkipsDuplicateFixIDs(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.php", []byte(""))
	span := source.Span{File: fileID, Start: 0, End: 0}

	diagnostics := []diag.Diagnostic{{
		Code:    diag.StyNoSpaceBeforeArg,
		Message: "missing space",
		Primary: span,
		Fixes: []diag.Fix{
			{
				ID:    "fix-duplicate",
				Title: "insert space",
				Edits: []diag.TextEdit{{Span: span, NewText: " "}},
			},
			{
				ID:    "fix-duplicate",
				Title: "insert space again",
				Edits: []diag.TextEdit{{Span: span, NewText: " "}},
			},
		},
	}}

	candidates, skips := gatherCandidates(diagnostics)
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if len(skips) != 1 || skips[0].Reason != "duplicate fix id" {
		t.Fatalf("expected duplicate skip, got %+v", skips)
	}
}

func TestApplyAllRewritesWhitespace(t *testing.T) {
	fs := source.NewFileSet()
	src := "function f( $a ,$b  ) {}"
	id := fs.AddVirtual("a.php", []byte(src))
	sp := func(s, e uint32) source.Span { return source.Span{File: id, Start: s, End: e} }

	diagnostics := []diag.Diagnostic{
		diag.NewError(diag.StySpacingAfterOpen, sp(14, 15), "open").
			WithFix(DeleteSpan("remove", sp(11, 12), " ")),
		diag.NewError(diag.StySpaceBeforeComma, sp(14, 15), "comma").
			WithFix(DeleteSpan("remove", sp(14, 15), " ")),
		diag.NewError(diag.StyNoSpaceBeforeArg, sp(20, 21), "arg").
			WithFix(InsertText("insert", sp(16, 16), " ", "")),
		diag.NewError(diag.StySpacingBeforeClose, sp(20, 21), "close").
			WithFix(ReplaceSpan("remove", sp(18, 20), "", "  ")),
	}

	out := capture{}
	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll, Write: out.write})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(res.Applied) != 4 {
		t.Fatalf("expected 4 applied fixes, got %d (skipped %+v)", len(res.Applied), res.Skipped)
	}
	want := "function f($a, $b) {}"
	if got := out["a.php"]; got != want {
		t.Fatalf("unexpected content %q, want %q", got, want)
	}
	if len(res.FileChanges) != 1 || res.FileChanges[0].EditCount != 4 {
		t.Fatalf("unexpected file changes %+v", res.FileChanges)
	}
}

func TestApplySkipsGuardMismatchAndConflicts(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.php", []byte("f(  $a)"))
	sp := source.Span{File: id, Start: 2, End: 4}

	diagnostics := []diag.Diagnostic{
		diag.NewError(diag.StySpacingAfterOpen, sp, "a").WithFix(DeleteSpan("remove", sp, "  ", WithID("a"))),
		diag.NewError(diag.StySpacingAfterOpen, sp, "b").WithFix(ReplaceSpan("shrink", sp, " ", "  ", WithID("b"))),
		diag.NewError(diag.StySpacingAfterOpen, sp, "c").WithFix(DeleteSpan("stale", sp, "\t\t", WithID("c"))),
	}

	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(res.Applied) != 1 || res.Applied[0].ID != "a" {
		t.Fatalf("expected only fix a, got %+v", res.Applied)
	}
	if len(res.Skipped) != 2 {
		t.Fatalf("expected 2 skipped, got %+v", res.Skipped)
	}
	if string(res.FileChanges[0].Content) != "f($a)" {
		t.Fatalf("unexpected content %q", res.FileChanges[0].Content)
	}
}

func TestApplyVirtualWithoutWriterIsSkipped(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.php", []byte("f( )"))
	sp := source.Span{File: id, Start: 2, End: 3}
	diagnostics := []diag.Diagnostic{diag.NewError(diag.StySpacingBetween, sp, "x").WithFix(DeleteSpan("remove", sp, " "))}

	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "target file is virtual" {
		t.Fatalf("unexpected skips %+v", res.Skipped)
	}
}

func TestApplyModes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.php", []byte("ab"))
	a := source.Span{File: id, Start: 0, End: 1}
	b := source.Span{File: id, Start: 1, End: 2}
	diagnostics := []diag.Diagnostic{
		diag.NewError(diag.StyInfo, a, "a").WithFix(DeleteSpan("a", a, "a", WithID("fa"), WithApplicability(diag.FixApplicabilityManualReview))),
		diag.NewError(diag.StyInfo, b, "b").WithFix(DeleteSpan("b", b, "b", WithID("fb"))),
	}

	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeOnce, DryRun: true})
	if err != nil || len(res.Applied) != 1 || res.Applied[0].ID != "fb" {
		t.Fatalf("once: %+v, %v", res.Applied, err)
	}

	res, err = Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeID, TargetID: "fa", DryRun: true})
	if err != nil || len(res.Applied) != 1 || res.Applied[0].ID != "fa" {
		t.Fatalf("by id: %+v, %v", res.Applied, err)
	}

	_, err = Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeID, TargetID: "nope", DryRun: true})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes for unknown id, got %v", err)
	}
}

func TestSpansConflict(t *testing.T) {
	mk := func(s, e uint32) diag.TextEdit { return diag.TextEdit{Span: source.Span{Start: s, End: e}} }
	tests := []struct {
		a, b diag.TextEdit
		want bool
	}{
		{mk(1, 1), mk(1, 1), false},
		{mk(1, 1), mk(0, 2), true},
		{mk(2, 2), mk(0, 2), false},
		{mk(0, 2), mk(1, 3), true},
		{mk(0, 2), mk(2, 3), false},
	}
	for i, tt := range tests {
		if got := spansConflict(tt.a, tt.b); got != tt.want {
			t.Errorf("case %d: want %v, got %v", i, tt.want, got)
		}
	}
}
