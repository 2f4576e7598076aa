package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"sniffer/internal/diag"
	"sniffer/internal/observ"
	"sniffer/internal/sniff"
	"sniffer/internal/source"
	"sniffer/internal/tokfile"
)

// ListDumps возвращает отсортированный список дампов в директории.
// Скрытые каталоги (".git" и т.п.) пропускаются.
func ListDumps(dir string, exts []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && len(d.Name()) > 1 && d.Name()[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}
		if tokfile.IsDump(d.Name(), exts) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// loadedDump is what the parallel read step hands to registration.
type loadedDump struct {
	raw []byte
	doc *tokfile.Document
	err error
}

// run checks paths in three steps: parallel read and decode, sequential
// registration in fs (FileSet is not safe for concurrent Add), parallel
// sniffing with a bag per file.
func run(ctx context.Context, fileSet *source.FileSet, paths []string, opts Options, strict bool, timer *observ.Timer) (*Result, error) {
	res := &Result{
		FileSet: fileSet,
		Files:   make([]FileResult, len(paths)),
		Bag:     diag.NewBag(opts.MaxDiagnostics),
		Timer:   timer,
	}
	if len(paths) == 0 {
		return res, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	for _, p := range paths {
		emit(opts.Progress, Event{File: p, Stage: StageLoad, Status: StatusQueued})
	}

	// 1. чтение и декодирование
	done := timer.Track("load")
	dumps := make([]loadedDump, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
			raw, err := os.ReadFile(path)
			if err != nil {
				dumps[i] = loadedDump{err: err}
				return nil
			}
			doc, _, err := tokfile.Decode(raw, tokfile.FormatForPath(path))
			if err != nil {
				err = fmt.Errorf("%s: %w", path, err)
			}
			dumps[i] = loadedDump{raw: raw, doc: doc, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		done("cancelled")
		return res, err
	}

	// 2. регистрация в FileSet
	var failed int
	for i, path := range paths {
		fr := &res.Files[i]
		fr.DumpPath = path
		// без лимита: в кэш попадает полный результат, лимит ниже
		fr.Bag = diag.NewBag(0)
		d := dumps[i]
		if d.err == nil {
			loaded, err := tokfile.Build(fileSet, d.doc, path)
			if err == nil {
				fr.FileID = loaded.File
				fr.Stream = loaded.Stream
				continue
			}
			d.err = err
		}
		if strict {
			done("failed")
			return nil, d.err
		}
		failed++
		log.Warningf("%s: %s", path, d.err)
		fr.Err = d.err
		fr.FileID = fileSet.Add(path, nil, source.FileVirtual)
		fr.Bag.Add(loadDiagnostic(fr.FileID, d.err))
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: d.err})
	}
	done(fmt.Sprintf("files=%d failed=%d", len(paths), failed))

	// 3. снифы
	done = timer.Track("sniff")
	settings := sniffSettings(opts)
	var hits, misses atomic.Int64
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i := range paths {
		fr := &res.Files[i]
		if fr.Stream == nil {
			continue
		}
		raw := dumps[i].raw
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			emit(opts.Progress, Event{File: fr.DumpPath, Stage: StageSniff, Status: StatusWorking})

			var key Digest
			if opts.Cache != nil {
				key = cacheKey(raw, settings)
				var payload DiskPayload
				ok, err := opts.Cache.Get(key, &payload)
				if err != nil {
					log.Warningf("disk cache read %s: %s", fr.DumpPath, err)
				}
				if ok {
					hits.Add(1)
					for _, d := range fromDiskPayload(&payload, fr.FileID) {
						fr.Bag.Add(d)
					}
					fr.Cached = true
					emit(opts.Progress, Event{File: fr.DumpPath, Stage: StageSniff, Status: StatusCached, Elapsed: time.Since(start)})
					return nil
				}
				misses.Add(1)
			}

			sniffFile(fr, fileSet, opts)

			if opts.Cache != nil {
				if err := opts.Cache.Put(key, toDiskPayload(fr.DumpPath, fr.FileID, fr.Bag.Items())); err != nil {
					log.Warningf("disk cache write %s: %s", fr.DumpPath, err)
				}
			}
			emit(opts.Progress, Event{File: fr.DumpPath, Stage: StageSniff, Status: StatusDone, Elapsed: time.Since(start)})
			return nil
		})
	}
	err := g.Wait()
	note := fmt.Sprintf("sniffs=%d", len(opts.Sniffs))
	if opts.Cache != nil {
		note += fmt.Sprintf(" cache_hits=%d cache_misses=%d", hits.Load(), misses.Load())
		log.Debugf("disk cache: %d hits, %d misses", hits.Load(), misses.Load())
	}
	done(note)
	if err != nil {
		return res, err
	}

	// 4. сборка
	for i := range res.Files {
		postProcess(res.Files[i].Bag, opts)
		res.Bag.Merge(truncate(res.Files[i].Bag, opts.MaxDiagnostics))
	}
	postProcess(res.Bag, opts)
	emit(opts.Progress, Event{Stage: StageSniff, Status: StatusDone})
	return res, nil
}

// sniffFile dispatches each sniff separately so per-sniff severity
// overrides apply only to what that sniff reports.
func sniffFile(fr *FileResult, fileSet *source.FileSet, opts Options) {
	path := ""
	if f := fileSet.Get(fr.FileID); f != nil {
		path = f.Path
	}
	bagReporter := diag.NewDedupReporter(diag.BagReporter{Bag: fr.Bag})
	for _, s := range opts.Sniffs {
		var r diag.Reporter = bagReporter
		if sev, ok := opts.Severities[s.Name()]; ok {
			r = diag.SeverityReporter{Next: bagReporter, Severity: sev}
		}
		sniff.Dispatch(path, fr.Stream, r, s)
	}
}

func sniffSettings(opts Options) []SniffSetting {
	out := make([]SniffSetting, 0, len(opts.Sniffs))
	for _, s := range opts.Sniffs {
		sev, ok := opts.Severities[s.Name()]
		if !ok {
			sev = diag.SevError
		}
		out = append(out, SniffSetting{Name: s.Name(), Severity: sev})
	}
	return out
}
