package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"golang.org/x/term"

	"sniffer/internal/prof"
	_ "sniffer/internal/sniff/functions"
	"sniffer/internal/version"
)

var log = commonlog.GetLogger("sniffer.cli")

// profiling is started by the pre-run hook and stopped by main, so a failed
// check still flushes its profiles.
var profiling *prof.Session

var rootCmd = &cobra.Command{
	Use:   "sniffer",
	Short: "Coding standard checks over PHP token dumps",
	Long: `sniffer runs coding standard sniffs (Squiz.Functions.FunctionDeclarationArgumentSpacing)
over token dumps produced by PHP's token_get_all and reports spacing problems
with ready-to-apply fixes.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(sniffsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().CountP("verbose", "v", "log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().String("log", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().String("config", "", "path to sniffer.toml (default: search upward from the target)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a pprof CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a pprof heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime execution trace to this file")
}

// main executes the root command; any returned error exits with status 1.
// A failed check has already printed its report, so only the status is set.
func main() {
	err := rootCmd.Execute()
	if stopErr := profiling.Stop(); stopErr != nil {
		fmt.Fprintln(os.Stderr, "error:", stopErr)
	}
	if err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	if err := configureLogging(cmd, args); err != nil {
		return err
	}
	return startProfiling(cmd)
}

func startProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil
	}
	profiling, err = prof.Start(opts)
	if err != nil {
		return err
	}
	log.Debugf("profiling enabled: cpu=%q mem=%q trace=%q", opts.CPU, opts.Mem, opts.Trace)
	return nil
}

// configureLogging wires commonlog from --verbose and --log. Each -v raises
// the level by one step.
func configureLogging(cmd *cobra.Command, _ []string) error {
	verbose, err := cmd.Root().PersistentFlags().GetCount("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	logPath, err := cmd.Root().PersistentFlags().GetString("log")
	if err != nil {
		return fmt.Errorf("failed to get log flag: %w", err)
	}
	var path *string
	if logPath != "" {
		path = &logPath
	}
	commonlog.Configure(verbose, path)
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color against the given output.
func useColor(cmd *cobra.Command, out *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(out), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
}
