package fix

import (
	"testing"

	"sniffer/internal/diag"
	"sniffer/internal/source"
)

func TestBuildersDefaults(t *testing.T) {
	span := source.Span{Start: 3, End: 5}
	for _, f := range []diag.Fix{
		InsertText("insert", span.ZeroideToStart(), " ", ""),
		DeleteSpan("delete", span, "  "),
		ReplaceSpan("replace", span, " ", "  "),
	} {
		if f.Kind != diag.FixKindQuickFix {
			t.Errorf("%s: expected quickfix, got %s", f.Title, f.Kind)
		}
		if f.Applicability != diag.FixApplicabilityAlwaysSafe {
			t.Errorf("%s: expected always-safe, got %s", f.Title, f.Applicability)
		}
		if len(f.Edits) != 1 {
			t.Fatalf("%s: expected 1 edit, got %d", f.Title, len(f.Edits))
		}
	}
}

func TestBuilderOptions(t *testing.T) {
	f := DeleteSpan("delete", source.Span{Start: 0, End: 1}, ";",
		WithID("x"), Preferred(), WithKind(diag.FixKindRefactor), WithApplicability(diag.FixApplicabilityManualReview), nil)
	if f.ID != "x" || !f.IsPreferred || f.Kind != diag.FixKindRefactor || f.Applicability != diag.FixApplicabilityManualReview {
		t.Fatalf("options not applied: %+v", f)
	}
	if f.Edits[0].NewText != "" || f.Edits[0].OldText != ";" {
		t.Fatalf("unexpected edit %+v", f.Edits[0])
	}
}
