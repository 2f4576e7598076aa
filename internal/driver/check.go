// Package driver runs sniffs over token dumps: a single file or every dump
// under a directory, in parallel, with optional disk caching.
package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"

	"sniffer/internal/diag"
	"sniffer/internal/observ"
	"sniffer/internal/sniff"
	"sniffer/internal/source"
	"sniffer/internal/token"
)

var log = commonlog.GetLogger("sniffer.driver")

// Options содержит опции для проверки
type Options struct {
	MaxDiagnostics   int      // на файл, после кэша; <= 0: без лимита
	Jobs             int      // <= 0: GOMAXPROCS
	Extensions       []string // суффиксы дампов при обходе директории
	Sniffs           []sniff.Sniff
	Severities       map[string]diag.Severity // переопределения по имени снифа
	IgnoreWarnings   bool
	WarningsAsErrors bool
	EnableTimings    bool
	Cache            *DiskCache
	Progress         ProgressSink
}

// FileResult is the outcome for one dump.
type FileResult struct {
	DumpPath string
	FileID   source.FileID
	Stream   *token.Stream // nil when the dump failed to load
	Bag      *diag.Bag     // all diagnostics of the file, MaxDiagnostics not applied
	Cached   bool
	Err      error
}

// Result aggregates a check run.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
	Bag     *diag.Bag
	Timer   *observ.Timer
	Path    string
}

// Check проверяет файл дампа или все дампы в директории.
func Check(ctx context.Context, target string, opts Options) (*Result, error) {
	st, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return CheckDir(ctx, target, opts)
	}
	return CheckFile(ctx, target, opts)
}

// CheckFile проверяет один дамп. Ошибка загрузки возвращается как error.
func CheckFile(ctx context.Context, path string, opts Options) (*Result, error) {
	res, err := run(ctx, source.NewFileSet(), []string{path}, opts, true, newTimer(opts))
	if err != nil {
		return nil, err
	}
	res.Path = path
	return res, nil
}

// CheckDir проверяет все дампы под dir. Ошибки загрузки отдельных файлов
// становятся IO-диагностиками и не прерывают остальные.
func CheckDir(ctx context.Context, dir string, opts Options) (*Result, error) {
	timer := newTimer(opts)
	done := timer.Track("discover")
	files, err := ListDumps(dir, opts.Extensions)
	done(fmt.Sprintf("files=%d", len(files)))
	if err != nil {
		return nil, err
	}
	log.Infof("found %d dumps under %s", len(files), dir)

	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	res, err := run(ctx, source.NewFileSetWithBase(abs), files, opts, false, timer)
	if err != nil {
		return res, err
	}
	res.Path = dir
	return res, nil
}

// AppendTimings adds the ObsTimings diagnostic for this run to Bag.
func (r *Result) AppendTimings() {
	if r == nil || r.Timer == nil {
		return
	}
	report := r.Timer.Report()
	appendTimingDiagnostic(r.Bag, timingPayload{
		Path:    r.Path,
		Files:   len(r.Files),
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
	})
}

// ErrorCount returns how many error-severity diagnostics the run produced.
func (r *Result) ErrorCount() int {
	n := 0
	for _, d := range r.Bag.Items() {
		if d.Severity == diag.SevError {
			n++
		}
	}
	return n
}

// File returns the result for dumpPath.
func (r *Result) File(dumpPath string) (*FileResult, bool) {
	for i := range r.Files {
		if r.Files[i].DumpPath == dumpPath {
			return &r.Files[i], true
		}
	}
	return nil, false
}

func newTimer(opts Options) *observ.Timer {
	if !opts.EnableTimings {
		return nil
	}
	return observ.NewTimer()
}

// postProcess применяет фильтрацию и трансформацию диагностик.
func postProcess(bag *diag.Bag, opts Options) {
	if opts.IgnoreWarnings {
		bag.Filter(func(d diag.Diagnostic) bool {
			return d.Severity != diag.SevWarning && d.Severity != diag.SevInfo
		})
	}
	if opts.WarningsAsErrors {
		bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
			return d
		})
	}
	bag.Sort()
}

// truncate returns the first max diagnostics of bag; max <= 0 keeps all.
func truncate(bag *diag.Bag, max int) *diag.Bag {
	if max <= 0 || bag.Len() <= max {
		return bag
	}
	out := diag.NewBag(max)
	for _, d := range bag.Items()[:max] {
		out.Add(d)
	}
	return out
}

// loadDiagnostic turns a dump load failure into a diagnostic. Read failures
// are IOLoadFileError, everything else IOBadTokenDump.
func loadDiagnostic(file source.FileID, err error) diag.Diagnostic {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return diag.NewError(diag.IOLoadFileError, source.Span{File: file}, "failed to load file: "+err.Error())
	}
	return diag.NewError(diag.IOBadTokenDump, source.Span{File: file}, "malformed token dump: "+err.Error())
}
