package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sniffer/internal/driver"
	"sniffer/internal/fix"
	"sniffer/internal/source"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <dump|directory>",
	Short: "Apply sniff fixes to the source files behind token dumps",
	Long: `Run the sniffs, then apply their fixes to the source file each dump was taken
from (the dump's "path"). All always-safe fixes are applied by default.`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all safe fixes (default)")
	fixCmd.Flags().Bool("once", false, "apply only the first available fix")
	fixCmd.Flags().String("id", "", "apply fix with a specific identifier")
	fixCmd.Flags().String("out", "", "write the fixed source here instead of the dump's path (single dump only)")
	fixCmd.Flags().Bool("dry-run", false, "print the fixed sources instead of writing them")
	fixCmd.Flags().String("sniffs", "", "comma-separated sniff names to run (default: enabled in config)")
}

func runFix(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	sniffsFlag, err := cmd.Flags().GetString("sniffs")
	if err != nil {
		return err
	}

	if targetID != "" && (applyAll || applyOnce) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	mode := fix.ApplyModeAll
	switch {
	case targetID != "":
		mode = fix.ApplyModeID
	case applyOnce:
		mode = fix.ApplyModeOnce
	}

	info, err := os.Stat(targetPath)
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	// id и --out имеют смысл только для одного файла
	if info.IsDir() && (targetID != "" || outPath != "") {
		return fmt.Errorf("fix: --id and --out can only be used with a single dump")
	}

	settings, err := loadSettings(cmd, targetPath, splitList(sniffsFlag))
	if err != nil {
		return err
	}
	// --max-diagnostics ограничивает вывод, а не то, что чинится
	driverOpts := settings.driverOptions()
	driverOpts.MaxDiagnostics = 0
	result, err := driver.Check(cmd.Context(), targetPath, driverOpts)
	if err != nil {
		return fmt.Errorf("fix: check failed: %w", err)
	}

	opts := fix.ApplyOptions{
		Mode:     mode,
		TargetID: targetID,
		DryRun:   dryRun,
	}
	if outPath != "" {
		opts.Write = func(_ *source.File, content []byte) error {
			return os.WriteFile(outPath, content, 0o644)
		}
	}

	res, applyErr := fix.Apply(result.FileSet, result.Bag.Items(), opts)
	if err := handleApplyResult(cmd.OutOrStdout(), res, applyErr, dryRun); err != nil {
		return err
	}
	if dryRun && res != nil {
		for _, change := range res.FileChanges {
			fmt.Fprintf(cmd.OutOrStdout(), "== %s ==\n%s", change.Path, change.Content)
		}
	}
	return nil
}

func handleApplyResult(out io.Writer, res *fix.ApplyResult, applyErr error, dryRun bool) error {
	if res == nil {
		return applyErr
	}
	var printErr error

	if len(res.Applied) > 0 {
		verb := "Applied"
		if dryRun {
			verb = "Would apply"
		}
		_, printErr = fmt.Fprintf(out, "%s %d fix(es):\n", verb, len(res.Applied))
		if printErr != nil {
			return printErr
		}
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			_, printErr = fmt.Fprintf(out, "  %s [%s]: %s (%d edits, %s)\n",
				item.Title, item.ID, location, item.EditCount, item.Applicability.String())
			if printErr != nil {
				return printErr
			}
		}
	}

	if len(res.FileChanges) > 0 && !dryRun {
		_, printErr = fmt.Fprintln(out, "Updated files:")
		if printErr != nil {
			return printErr
		}
		for _, change := range res.FileChanges {
			_, printErr = fmt.Fprintf(out, "  %s (%d edits)\n", change.Path, change.EditCount)
			if printErr != nil {
				return printErr
			}
		}
	}

	if len(res.Skipped) > 0 {
		_, printErr = fmt.Fprintln(out, "Skipped fixes:")
		if printErr != nil {
			return printErr
		}
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				_, printErr = fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				_, printErr = fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
			if printErr != nil {
				return printErr
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			_, printErr = fmt.Fprintln(out, "No applicable fixes found.")
			return printErr
		}
		return applyErr
	}
	return nil
}
