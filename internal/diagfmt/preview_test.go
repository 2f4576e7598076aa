package diagfmt

import (
	"reflect"
	"testing"

	"sniffer/internal/diag"
	"sniffer/internal/source"
)

func TestFixEditPreview(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.php", []byte("<?php\r\nfunction f($a,\n    $b ) {}\n"))

	tests := []struct {
		name   string
		edit   diag.TextEdit
		before []string
		after  []string
	}{
		{
			name:   "remove space before close",
			edit:   diag.TextEdit{Span: source.Span{File: id, Start: 28, End: 29}, OldText: " "},
			before: []string{"    $b ) {}"},
			after:  []string{"    $b) {}"},
		},
		{
			name:   "collapse run holding a newline",
			edit:   diag.TextEdit{Span: source.Span{File: id, Start: 21, End: 26}, NewText: " ", OldText: "\n    "},
			before: []string{"function f($a,", "    $b ) {}"},
			after:  []string{"function f($a, $b ) {}"},
		},
		{
			name:   "crlf line",
			edit:   diag.TextEdit{Span: source.Span{File: id, Start: 0, End: 0}, NewText: "#"},
			before: []string{"<?php"},
			after:  []string{"#<?php"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildFixEditPreview(fs, tt.edit)
			if err != nil {
				t.Fatalf("buildFixEditPreview: %v", err)
			}
			if !reflect.DeepEqual(got.before, tt.before) || !reflect.DeepEqual(got.after, tt.after) {
				t.Fatalf("preview = %q -> %q, want %q -> %q", got.before, got.after, tt.before, tt.after)
			}
		})
	}
}

func TestFixEditPreviewErrors(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.php", []byte("<?php"))
	if _, err := buildFixEditPreview(fs, diag.TextEdit{Span: source.Span{File: id, Start: 3, End: 9}}); err == nil {
		t.Fatal("expected an error for a span past the end")
	}
	if _, err := buildFixEditPreview(fs, diag.TextEdit{Span: source.Span{File: id + 1}}); err == nil {
		t.Fatal("expected an error for an unknown file")
	}
	if _, err := buildFixEditPreview(nil, diag.TextEdit{}); err == nil {
		t.Fatal("expected an error for a nil FileSet")
	}
}
