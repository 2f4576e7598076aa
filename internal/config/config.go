// Package config loads sniffer.toml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"sniffer/internal/diag"
)

// FileName is the name searched for upward from the target directory.
const FileName = "sniffer.toml"

// Config mirrors sniffer.toml.
type Config struct {
	Check  CheckConfig            `toml:"check"`
	Sniffs map[string]SniffConfig `toml:"sniffs"`
}

type CheckConfig struct {
	MaxDiagnostics   int      `toml:"max_diagnostics"`
	Jobs             int      `toml:"jobs"`
	Extensions       []string `toml:"extensions"`
	WarningsAsErrors bool     `toml:"warnings_as_errors"`
}

// SniffConfig configures one sniff. A nil Enabled means "enabled".
type SniffConfig struct {
	Enabled  *bool  `toml:"enabled"`
	Severity string `toml:"severity"`
}

// Loaded is a config together with where it came from.
type Loaded struct {
	Path   string // empty when defaults are used
	Root   string
	Config Config
}

// Default returns the built-in configuration.
func Default() Config {
	enabled := true
	return Config{
		Check: CheckConfig{
			MaxDiagnostics: 100,
			Jobs:           0,
			Extensions:     []string{".tokens.json", ".tokens.mp"},
		},
		Sniffs: map[string]SniffConfig{
			"Squiz.Functions.FunctionDeclarationArgumentSpacing": {Enabled: &enabled, Severity: "error"},
		},
	}
}

// Find looks for sniffer.toml in startDir and its parents.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads the file at path; values it leaves out keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Resolve loads explicitPath when given, otherwise the nearest sniffer.toml
// above startDir, otherwise the defaults.
func Resolve(explicitPath, startDir string) (*Loaded, error) {
	path := explicitPath
	if path == "" {
		found, ok, err := Find(startDir)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &Loaded{Config: Default()}, nil
		}
		path = found
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Loaded{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// Validate checks value ranges and severities.
func (c Config) Validate() error {
	if c.Check.MaxDiagnostics < 0 {
		return fmt.Errorf("[check].max_diagnostics must be >= 0")
	}
	if c.Check.Jobs < 0 {
		return fmt.Errorf("[check].jobs must be >= 0")
	}
	for name, sc := range c.Sniffs {
		if sc.Severity == "" {
			continue
		}
		if _, err := diag.ParseSeverity(sc.Severity); err != nil {
			return fmt.Errorf("[sniffs.%q].severity: %w", name, err)
		}
	}
	return nil
}

// Enabled reports whether the named sniff is on.
func (c Config) Enabled(name string) bool {
	sc, ok := c.Sniffs[name]
	if !ok || sc.Enabled == nil {
		return true
	}
	return *sc.Enabled
}

// Severity returns the configured severity for the named sniff, SevError by default.
func (c Config) Severity(name string) diag.Severity {
	sc, ok := c.Sniffs[name]
	if !ok || sc.Severity == "" {
		return diag.SevError
	}
	sev, err := diag.ParseSeverity(sc.Severity)
	if err != nil {
		return diag.SevError
	}
	return sev
}

// Encode renders c as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDefault creates dir/sniffer.toml with the defaults. An existing file
// is left alone unless force is set.
func WriteDefault(dir string, force bool) (string, error) {
	path := filepath.Join(dir, FileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%s already exists", path)
		}
	}
	data, err := Default().Encode()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
