package driver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sniffer/internal/diag"
	"sniffer/internal/sniff"
	"sniffer/internal/sniff/functions"
	"sniffer/internal/token/tokentest"
	"sniffer/internal/tokfile"
)

var dumpExts = []string{".tokens.json", ".tokens.mp"}

func writeDump(t *testing.T, dir, name, src string, format tokfile.Format) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	doc := tokfile.FromStream(tokfile.SourcePathFor(filepath.Base(name)), tokentest.Split(src))
	var buf bytes.Buffer
	require.NoError(t, tokfile.Encode(&buf, doc, format))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func baseOptions() Options {
	return Options{
		MaxDiagnostics: 100,
		Jobs:           2,
		Extensions:     dumpExts,
		Sniffs:         []sniff.Sniff{functions.NewArgumentSpacing()},
	}
}

func codes(bag *diag.Bag) []diag.Code {
	out := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestCheckDir(t *testing.T) {
	dir := t.TempDir()
	writeDump(t, dir, "a.php.tokens.json", "<?php function f($a,$b) {}", tokfile.FormatJSON)
	writeDump(t, dir, "sub/b.php.tokens.mp", "<?php function g( $x ) {}", tokfile.FormatMsgpack)
	writeDump(t, dir, "clean.php.tokens.json", "<?php function h($a, $b=1) {}", tokfile.FormatJSON)
	writeDump(t, dir, ".git/skip.php.tokens.json", "<?php function s($a,$b) {}", tokfile.FormatJSON)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.tokens.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	res, err := Check(context.Background(), dir, baseOptions())
	require.NoError(t, err)
	require.Len(t, res.Files, 4)

	assert.Equal(t, []diag.Code{
		diag.StyNoSpaceBeforeArg,
		diag.IOBadTokenDump,
		diag.StySpacingAfterOpen,
		diag.StySpacingBeforeClose,
	}, codes(res.Bag))
	assert.Equal(t, 4, res.ErrorCount())

	broken, ok := res.File(filepath.Join(dir, "broken.tokens.json"))
	require.True(t, ok)
	assert.Nil(t, broken.Stream)
	assert.Error(t, broken.Err)

	a, ok := res.File(filepath.Join(dir, "a.php.tokens.json"))
	require.True(t, ok)
	require.NotNil(t, a.Stream)
	assert.Equal(t, filepath.ToSlash(filepath.Join(dir, "a.php")), res.FileSet.Get(a.FileID).Path)
}

func TestCheckFileStrict(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("[1, 2"), 0o644))

	_, err := Check(context.Background(), path, baseOptions())
	require.Error(t, err)

	_, err = Check(context.Background(), filepath.Join(dir, "missing.tokens.json"), baseOptions())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSeverityOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeDump(t, dir, "a.php.tokens.json", "<?php function f($a,$b) {}", tokfile.FormatJSON)

	opts := baseOptions()
	opts.Severities = map[string]diag.Severity{functions.ArgumentSpacingName: diag.SevWarning}

	res, err := CheckFile(context.Background(), path, opts)
	require.NoError(t, err)
	require.Equal(t, 1, res.Bag.Len())
	assert.Equal(t, diag.SevWarning, res.Bag.Items()[0].Severity)
	assert.Zero(t, res.ErrorCount())

	opts.WarningsAsErrors = true
	res, err = CheckFile(context.Background(), path, opts)
	require.NoError(t, err)
	assert.Equal(t, diag.SevError, res.Bag.Items()[0].Severity)

	opts.WarningsAsErrors = false
	opts.IgnoreWarnings = true
	res, err = CheckFile(context.Background(), path, opts)
	require.NoError(t, err)
	assert.Zero(t, res.Bag.Len())
}

func TestDiskCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeDump(t, dir, "a.php.tokens.json", "<?php function f($a = 1,$b) {}", tokfile.FormatJSON)

	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	opts := baseOptions()
	opts.Cache = cache

	first, err := CheckFile(context.Background(), path, opts)
	require.NoError(t, err)
	require.False(t, first.Files[0].Cached)
	require.NotZero(t, first.Bag.Len())

	second, err := CheckFile(context.Background(), path, opts)
	require.NoError(t, err)
	require.True(t, second.Files[0].Cached)
	assert.Equal(t, first.Bag.Items(), second.Bag.Items())

	opts.Severities = map[string]diag.Severity{functions.ArgumentSpacingName: diag.SevInfo}
	third, err := CheckFile(context.Background(), path, opts)
	require.NoError(t, err)
	assert.False(t, third.Files[0].Cached, "severity change must miss the cache")

	require.NoError(t, cache.DropAll())
	opts.Severities = nil
	fourth, err := CheckFile(context.Background(), path, opts)
	require.NoError(t, err)
	assert.False(t, fourth.Files[0].Cached)
}

func TestDiskCacheIgnoresDiagnosticLimit(t *testing.T) {
	dir := t.TempDir()
	path := writeDump(t, dir, "a.php.tokens.json", "<?php function f( $a = 1 ,$b ) {}", tokfile.FormatJSON)

	full, err := CheckFile(context.Background(), path, baseOptions())
	require.NoError(t, err)
	require.Greater(t, full.Bag.Len(), 1)

	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	opts := baseOptions()
	opts.Cache = cache
	opts.MaxDiagnostics = 1

	limited, err := CheckFile(context.Background(), path, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, limited.Bag.Len())
	assert.Equal(t, full.Bag.Len(), limited.Files[0].Bag.Len())

	opts.MaxDiagnostics = 100
	cached, err := CheckFile(context.Background(), path, opts)
	require.NoError(t, err)
	require.True(t, cached.Files[0].Cached)
	assert.Equal(t, codes(full.Bag), codes(cached.Bag))

	opts.MaxDiagnostics = 0
	unlimited, err := CheckFile(context.Background(), path, opts)
	require.NoError(t, err)
	assert.Equal(t, full.Bag.Len(), unlimited.Bag.Len())
}

func TestCacheKey(t *testing.T) {
	a := []SniffSetting{{Name: "A", Severity: diag.SevError}, {Name: "B", Severity: diag.SevWarning}}
	b := []SniffSetting{a[1], a[0]}
	dump := []byte("[]")

	assert.Equal(t, cacheKey(dump, a), cacheKey(dump, b))
	assert.NotEqual(t, cacheKey(dump, a), cacheKey([]byte("[ ]"), a))
	assert.NotEqual(t, cacheKey(dump, a), cacheKey(dump, a[:1]))
	assert.NotEqual(t, cacheKey(dump, a), cacheKey(dump, []SniffSetting{{Name: "A", Severity: diag.SevInfo}, a[1]}))
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func TestProgressAndTimings(t *testing.T) {
	dir := t.TempDir()
	writeDump(t, dir, "a.php.tokens.json", "<?php function f($a,$b) {}", tokfile.FormatJSON)
	writeDump(t, dir, "b.php.tokens.json", "<?php function g() {}", tokfile.FormatJSON)

	sink := &recordingSink{}
	opts := baseOptions()
	opts.Progress = sink
	opts.EnableTimings = true

	res, err := CheckDir(context.Background(), dir, opts)
	require.NoError(t, err)

	done := map[string]bool{}
	for _, e := range sink.events {
		if e.Stage == StageSniff && e.Status == StatusDone && e.File != "" {
			done[e.File] = true
		}
	}
	assert.Len(t, done, 2)
	last := sink.events[len(sink.events)-1]
	assert.Equal(t, Event{Stage: StageSniff, Status: StatusDone}, last)

	report := res.Timer.Report()
	names := make([]string, 0, len(report.Phases))
	for _, p := range report.Phases {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"discover", "load", "sniff"}, names)

	before := res.Bag.Len()
	res.AppendTimings()
	require.Equal(t, before+1, res.Bag.Len())
	timing := res.Bag.Items()[res.Bag.Len()-1]
	assert.Equal(t, diag.ObsTimings, timing.Code)
	require.Len(t, timing.Notes, 1)
	assert.Contains(t, timing.Notes[0].Msg, `"phases"`)
}

func TestCheckCancelled(t *testing.T) {
	dir := t.TempDir()
	writeDump(t, dir, "a.php.tokens.json", "<?php function f($a) {}", tokfile.FormatJSON)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CheckDir(ctx, dir, baseOptions())
	require.ErrorIs(t, err, context.Canceled)
}

func TestListDumpsSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"z.tokens.json", "a/b.TOKENS.JSON", "m.tokens.mp", "x.json"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("[]"), 0o644))
	}
	files, err := ListDumps(dir, dumpExts)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a/b.TOKENS.JSON"),
		filepath.Join(dir, "m.tokens.mp"),
		filepath.Join(dir, "z.tokens.json"),
	}, files)
}
