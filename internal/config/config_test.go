package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sniffer/internal/diag"
)

const argSpacing = "Squiz.Functions.FunctionDeclarationArgumentSpacing"

func TestResolveFindsNearestFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(`
[check]
max_diagnostics = 5
extensions = [".json"]

[sniffs."Squiz.Functions.FunctionDeclarationArgumentSpacing"]
severity = "warning"
`), 0o644))

	loaded, err := Resolve("", nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, FileName), loaded.Path)
	assert.Equal(t, 5, loaded.Config.Check.MaxDiagnostics)
	assert.Equal(t, []string{".json"}, loaded.Config.Check.Extensions)
	assert.Equal(t, diag.SevWarning, loaded.Config.Severity(argSpacing))
	assert.True(t, loaded.Config.Enabled(argSpacing))
}

func TestResolveDefaults(t *testing.T) {
	loaded, err := Resolve("", t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, loaded.Path)
	assert.Equal(t, Default(), loaded.Config)
	assert.Equal(t, diag.SevError, loaded.Config.Severity("Unknown.Sniff"))
}

func TestLoadRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	_, err := Load(write("syntax.toml", "[check\n"))
	assert.ErrorContains(t, err, "failed to parse TOML")

	_, err = Load(write("unknown.toml", "[check]\ncolour = true\n"))
	assert.ErrorContains(t, err, "unknown keys: check.colour")

	_, err = Load(write("severity.toml", "[sniffs.X]\nseverity = \"fatal\"\n"))
	assert.ErrorContains(t, err, "severity")

	_, err = Load(write("jobs.toml", "[check]\njobs = -1\n"))
	assert.ErrorContains(t, err, "jobs")
}

func TestDisabledSniff(t *testing.T) {
	p := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(p, []byte("[sniffs.\"A.B.C\"]\nenabled = false\n"), 0o644))
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.False(t, cfg.Enabled("A.B.C"))
	assert.True(t, cfg.Enabled(argSpacing))
}

func TestWriteDefault(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteDefault(dir, false)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "max_diagnostics = 100"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = WriteDefault(dir, false)
	assert.ErrorContains(t, err, "already exists")
	_, err = WriteDefault(dir, true)
	assert.NoError(t, err)
}
