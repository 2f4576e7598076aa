package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sniffer/internal/diagfmt"
	"sniffer/internal/source"
	"sniffer/internal/tokfile"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [flags] <dump>",
	Short: "Print or convert the tokens of a dump",
	Long: `Load a token dump, print its tokens with kinds and positions, and optionally
convert it to the native JSON, PHP or msgpack shape.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokens,
}

func init() {
	tokensCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokensCmd.Flags().String("convert", "", "write the dump to this file instead of printing tokens")
	tokensCmd.Flags().String("convert-format", "auto", "encoding for --convert (auto|json|php|msgpack); auto follows the extension")
}

func runTokens(cmd *cobra.Command, args []string) error {
	dumpPath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	convertPath, err := cmd.Flags().GetString("convert")
	if err != nil {
		return fmt.Errorf("failed to get convert flag: %w", err)
	}
	convertFormatFlag, err := cmd.Flags().GetString("convert-format")
	if err != nil {
		return fmt.Errorf("failed to get convert-format flag: %w", err)
	}
	convertFormat, err := tokfile.ParseFormat(convertFormatFlag)
	if err != nil {
		return fmt.Errorf("--convert-format %q: %w", convertFormatFlag, err)
	}

	fs := source.NewFileSet()
	loaded, err := tokfile.Load(fs, dumpPath)
	if err != nil {
		return fmt.Errorf("failed to load dump: %w", err)
	}

	if convertPath != "" {
		if convertFormat == tokfile.FormatAuto {
			convertFormat = tokfile.FormatForPath(convertPath)
		}
		doc := tokfile.FromStream(sourcePathFor(fs, loaded, convertPath), loaded.Stream)
		var buf bytes.Buffer
		if err := tokfile.Encode(&buf, doc, convertFormat); err != nil {
			return err
		}
		if err := os.WriteFile(convertPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", convertPath, err)
		}
		log.Infof("converted %s (%s) to %s", dumpPath, loaded.Format, convertPath)
		return nil
	}

	// Выводим токены в выбранном формате
	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), loaded.Stream.Tokens(), fs)
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), loaded.Stream.Tokens())
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// sourcePathFor keeps the converted dump pointing at the same source file:
// the path is rewritten relative to the new dump's directory when possible.
func sourcePathFor(fs *source.FileSet, loaded *tokfile.Loaded, convertPath string) string {
	file := fs.Get(loaded.File)
	if file == nil {
		return ""
	}
	absSource, err := filepath.Abs(file.Path)
	if err != nil {
		return file.Path
	}
	absDir, err := filepath.Abs(filepath.Dir(convertPath))
	if err != nil {
		return absSource
	}
	return source.RelativePath(absSource, absDir)
}
