package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/pngme/pkg/logging"
	"github.com/ssargent/pngme/pkg/message"
)

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <file> <chunk_type>",
		Short: "Remove a hidden message from a PNG file",
		Long: `Remove the first chunk of chunk_type and rewrite the file.

Example:
  pngme remove ./pic.png RuSt`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, chunkType := args[0], args[1]

			data, err := a.files().Read(path)
			if err != nil {
				return err
			}

			updated, removed, err := message.Remove(data, chunkType)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			if err := a.files().Write(path, updated); err != nil {
				return err
			}

			logging.FromContext(cmd.Context()).Debug("chunk removed", "input", path, "chunk_type", chunkType, "index", removed.Index)
			fmt.Fprintf(cmd.OutOrStdout(), "Removed chunk %s (%d bytes) at index %d\n", removed.Type, removed.Length, removed.Index)
			return nil
		},
	}
}
