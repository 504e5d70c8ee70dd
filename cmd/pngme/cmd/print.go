package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ssargent/pngme/pkg/message"
	"github.com/ssargent/pngme/pkg/png"
)

func newPrintCmd(a *app) *cobra.Command {
	var format string

	printCmd := &cobra.Command{
		Use:   "print <file>",
		Short: "List the chunks of a PNG file",
		Long: `List every chunk of a PNG file in order.

The table format shows one row per chunk with its property bits; the plain
format prints each chunk on its own block. By default a table is printed when
stdout is a terminal.

Example:
  pngme print ./pic.png
  pngme print ./pic.png --format plain`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			data, err := a.files().Read(path)
			if err != nil {
				return err
			}

			if format == "" {
				format = a.cfg.Output.Format
			}
			out := cmd.OutOrStdout()

			switch resolveFormat(format, out) {
			case "table":
				summaries, err := message.List(data)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintln(out, renderTable(summaries))
			case "plain":
				p, err := png.Decode(data)
				if err != nil {
					return fmt.Errorf("%s: decode png: %w", path, err)
				}
				fmt.Fprintln(out, p.String())
			default:
				return fmt.Errorf("unknown format %q (want auto, table or plain)", format)
			}
			return nil
		},
	}

	printCmd.Flags().StringVarP(&format, "format", "f", "", "Output format: auto, table or plain (default from config)")
	return printCmd
}

// resolveFormat turns "auto" into table for terminals and plain otherwise.
func resolveFormat(format string, out io.Writer) string {
	if format != "auto" && format != "" {
		return format
	}
	if f, ok := out.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return "table"
	}
	return "plain"
}

func renderTable(summaries []message.Summary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Type", "Length", "CRC", "Critical", "Public", "Safe to copy"})
	for _, s := range summaries {
		tw.AppendRow(table.Row{s.Index, s.Type, s.Length, fmt.Sprintf("%08x", s.CRC), s.Critical, s.Public, s.SafeToCopy})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
