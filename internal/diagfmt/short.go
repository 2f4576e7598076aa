package diagfmt

import (
	"fmt"
	"io"

	"sniffer/internal/diag"
	"sniffer/internal/source"
)

// Short печатает по одной строке на диагностику:
// <severity> <CODE> <path>:<line>:<col> <message>
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode, withNotes bool) error {
	out := diag.FormatShortDiagnostics(bag.Items(), fs, withNotes, mode.String())
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
