package diag

import "testing"

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	fix := Fix{Title: "remove space", Edits: []TextEdit{{Span: span(0, 1, 2), NewText: "", OldText: " "}}}
	b := ReportError(BagReporter{Bag: bag}, StySpaceBeforeComma, span(0, 2, 3), "msg").WithFix(fix)
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
	got := bag.Items()[0]
	if len(got.Fixes) != 1 || got.Fixes[0].Edits[0].OldText != " " {
		t.Fatalf("fix not carried: %+v", got.Fixes)
	}
	if got.Severity != SevError {
		t.Fatalf("expected error severity, got %s", got.Severity)
	}
}

func TestNilBuilderIsSafe(t *testing.T) {
	var b *ReportBuilder
	b.WithNote(span(0, 0, 0), "n").WithFix(Fix{}).Emit()
	if d := b.Diagnostic(); d.Message != "" {
		t.Fatalf("nil builder produced %+v", d)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	r.Report(StySpaceBeforeComma, SevError, span(0, 1, 2), "m", nil, nil)
	r.Report(StySpaceBeforeComma, SevError, span(0, 1, 2), "m", nil, nil)
	r.Report(StySpaceBeforeComma, SevError, span(0, 1, 3), "m", nil, nil)
	if bag.Len() != 2 {
		t.Fatalf("expected 2 unique diagnostics, got %d", bag.Len())
	}
}

func TestMultiAndSeverityReporter(t *testing.T) {
	a, b := NewBag(0), NewBag(0)
	r := MultiReporter{
		BagReporter{Bag: a},
		nil,
		SeverityReporter{Next: BagReporter{Bag: b}, Severity: SevWarning},
	}
	r.Report(StySpacingBetween, SevError, span(0, 0, 8), "m", nil, nil)
	if a.Len() != 1 || b.Len() != 1 {
		t.Fatalf("fan-out failed: %d %d", a.Len(), b.Len())
	}
	if b.Items()[0].Severity != SevWarning {
		t.Fatalf("severity override not applied")
	}
	NopReporter{}.Report(StySpacingBetween, SevError, span(0, 0, 8), "m", nil, nil)
}

func TestCodeID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{StySpaceBeforeEquals, "STY1001"},
		{IOBadTokenDump, "IO4002"},
		{PrjUnknownSniff, "PRJ5001"},
		{ObsTimings, "OBS6001"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d: want %s, got %s", tt.code, tt.want, got)
		}
	}
	if Code(1999).Title() != "Unknown error" {
		t.Errorf("unregistered code should fall back to unknown title")
	}
}

func TestParseSeverity(t *testing.T) {
	for in, want := range map[string]Severity{"error": SevError, " Warning ": SevWarning, "warn": SevWarning, "INFO": SevInfo} {
		got, err := ParseSeverity(in)
		if err != nil || got != want {
			t.Errorf("%q: got %v, %v", in, got, err)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Errorf("expected error for unknown severity")
	}
}
