package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sniffer/internal/sniff"
)

var sniffsCmd = &cobra.Command{
	Use:   "sniffs",
	Short: "List registered sniffs",
	Args:  cobra.NoArgs,
	RunE:  runSniffs,
}

func init() {
	sniffsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type sniffInfo struct {
	Name        string   `json:"name"`
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Listens     []string `json:"listens"`
}

func runSniffs(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	all := sniff.Default().All()
	infos := make([]sniffInfo, 0, len(all))
	for _, s := range all {
		info := sniffInfo{Name: s.Name(), Code: s.Code().ID(), Description: s.Description()}
		for _, k := range s.Register() {
			info.Listens = append(info.Listens, k.String())
		}
		infos = append(infos, info)
	}

	switch format {
	case "json":
		return jsonEncode(cmd, infos)
	case "pretty":
		enabled, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		name := color.New(color.Bold)
		code := color.New(color.Faint)
		if enabled {
			name.EnableColor()
			code.EnableColor()
		} else {
			name.DisableColor()
			code.DisableColor()
		}
		out := cmd.OutOrStdout()
		for _, info := range infos {
			fmt.Fprintf(out, "%s %s\n    %s\n", name.Sprint(info.Name), code.Sprintf("(%s)", info.Code), info.Description)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
