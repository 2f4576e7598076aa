package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sniffer/internal/diag"
	"sniffer/internal/diagfmt"
	"sniffer/internal/driver"
	"sniffer/internal/version"
)

// errCheckFailed signals exit status 1 after the report has been printed.
var errCheckFailed = errors.New("check failed")

var checkCmd = &cobra.Command{
	Use:   "check [flags] <dump|directory>",
	Short: "Run sniffs over a token dump or every dump in a directory",
	Long: `Run the enabled sniffs over a token dump (native JSON, PHP token_get_all JSON or
msgpack) or over all dumps found under a directory, and report the diagnostics.
Exits with status 1 when any error-severity diagnostic remains.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

// init registers CLI flags for the check command.
func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	checkCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("preview", false, "show fix previews (implies --suggest)")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("disk-cache", false, "cache per-file results under $XDG_CACHE_HOME/sniffer")
	checkCmd.Flags().String("ui", "off", "progress UI for directories (auto|on|off)")
	checkCmd.Flags().String("sniffs", "", "comma-separated sniff names to run (default: enabled in config)")
}

// runCheck executes the "check" command: it resolves configuration, runs the
// driver over the target, renders the report and fails when errors remain.
func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json", "sarif":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	enableDiskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	sniffsFlag, err := cmd.Flags().GetString("sniffs")
	if err != nil {
		return fmt.Errorf("failed to get sniffs flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	settings, err := loadSettings(cmd, target, splitList(sniffsFlag))
	if err != nil {
		return err
	}
	opts := settings.driverOptions()
	opts.IgnoreWarnings = noWarnings
	opts.WarningsAsErrors = opts.WarningsAsErrors || warningsAsErrors
	opts.EnableTimings = showTimings
	if enableDiskCache {
		cache, cacheErr := driver.OpenDiskCache("sniffer")
		if cacheErr != nil {
			log.Warningf("disk cache disabled: %s", cacheErr)
		} else {
			opts.Cache = cache
		}
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	var result *driver.Result
	if st.IsDir() && shouldUseTUI(mode) {
		result, err = runCheckWithUI(cmd, target, opts)
	} else {
		result, err = driver.Check(cmd.Context(), target, opts)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	pathMode := diagfmt.PathModeRelative
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	showFixes := suggest || preview

	if showTimings && (format == "json" || format == "sarif") {
		result.AppendTimings()
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		color, colorErr := useColor(cmd, os.Stdout)
		if colorErr != nil {
			return colorErr
		}
		diagfmt.Pretty(out, limited(result.Bag, settings.maxDiags), result.FileSet, diagfmt.PrettyOpts{
			Color:       color,
			Context:     2,
			PathMode:    pathMode,
			ShowNotes:   withNotes,
			ShowFixes:   showFixes,
			ShowPreview: preview,
		})
	case "short":
		err = diagfmt.Short(out, limited(result.Bag, settings.maxDiags), result.FileSet, pathMode, withNotes)
	case "json":
		err = diagfmt.JSON(out, result.Bag, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			Max:              settings.maxDiags,
			IncludeNotes:     withNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  preview,
		})
	case "sarif":
		err = diagfmt.Sarif(out, result.Bag, result.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "sniffer",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args,
			PathMode:       pathMode,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}

	if showTimings && (format == "pretty" || format == "short") && result.Timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), result.Timer.Summary())
	}
	if !quiet && (format == "pretty" || format == "short") {
		printSummary(cmd, result)
	}

	if result.ErrorCount() > 0 {
		return errCheckFailed
	}
	return nil
}

// limited returns bag cut to max entries; max <= 0 keeps everything.
func limited(bag *diag.Bag, max int) *diag.Bag {
	if max <= 0 || bag.Len() <= max {
		return bag
	}
	out := diag.NewBag(max)
	for _, d := range bag.Items()[:max] {
		out.Add(d)
	}
	return out
}

func printSummary(cmd *cobra.Command, result *driver.Result) {
	errs, warns := 0, 0
	for _, d := range result.Bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	cached := 0
	for _, f := range result.Files {
		if f.Cached {
			cached++
		}
	}
	msg := fmt.Sprintf("%d file(s) checked: %d error(s), %d warning(s)", len(result.Files), errs, warns)
	if cached > 0 {
		msg += fmt.Sprintf(", %d from cache", cached)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), msg)
}

// jsonEncode writes v indented.
func jsonEncode(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
