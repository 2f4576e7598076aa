package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sniffer/internal/config"
	"sniffer/internal/diag"
	"sniffer/internal/driver"
	"sniffer/internal/sniff"
)

// runSettings merges sniffer.toml with command-line flags.
type runSettings struct {
	config     *config.Loaded
	sniffs     []sniff.Sniff
	severities map[string]diag.Severity
	maxDiags   int
	jobs       int
}

// loadSettings resolves the config for target and the sniffs to run.
// selection overrides the config's enabled set when non-empty.
func loadSettings(cmd *cobra.Command, target string, selection []string) (*runSettings, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	startDir := target
	if startDir == "" {
		startDir = "."
	}
	loaded, err := config.Resolve(explicit, startDir)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if loaded.Path != "" {
		log.Infof("using config %s", loaded.Path)
	}
	cfg := loaded.Config

	sniffs, err := selectSniffs(sniff.Default(), cfg, selection)
	if err != nil {
		return nil, err
	}
	severities := make(map[string]diag.Severity, len(sniffs))
	for _, s := range sniffs {
		severities[s.Name()] = cfg.Severity(s.Name())
	}

	maxDiags := cfg.Check.MaxDiagnostics
	if cmd.Root().PersistentFlags().Changed("max-diagnostics") {
		if maxDiags, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	jobs := cfg.Check.Jobs
	if f := cmd.Flags().Lookup("jobs"); f != nil && f.Changed {
		if jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}

	return &runSettings{
		config:     loaded,
		sniffs:     sniffs,
		severities: severities,
		maxDiags:   maxDiags,
		jobs:       jobs,
	}, nil
}

// selectSniffs returns the named sniffs, or every registered sniff the config
// leaves enabled when names is empty.
func selectSniffs(reg *sniff.Registry, cfg config.Config, names []string) ([]sniff.Sniff, error) {
	if len(names) > 0 {
		return reg.Select(names)
	}
	var out []sniff.Sniff
	for _, s := range reg.All() {
		if cfg.Enabled(s.Name()) {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no sniffs enabled")
	}
	return out, nil
}

// splitList parses "a, b,,c" into [a b c].
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (s *runSettings) driverOptions() driver.Options {
	return driver.Options{
		MaxDiagnostics:   s.maxDiags,
		Jobs:             s.jobs,
		Extensions:       s.config.Config.Check.Extensions,
		Sniffs:           s.sniffs,
		Severities:       s.severities,
		WarningsAsErrors: s.config.Config.Check.WarningsAsErrors,
	}
}
