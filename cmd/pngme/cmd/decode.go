package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/pngme/pkg/logging"
	"github.com/ssargent/pngme/pkg/message"
)

func newDecodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <file> <chunk_type>",
		Short: "Print the message hidden in a PNG file",
		Long: `Print the data of the first chunk of chunk_type as text.

Example:
  pngme decode ./pic.png RuSt`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, chunkType := args[0], args[1]

			data, err := a.files().Read(path)
			if err != nil {
				return err
			}

			msg, err := message.Decode(data, chunkType)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			logging.FromContext(cmd.Context()).Debug("message decoded", "input", path, "chunk_type", chunkType, "length", len(msg))
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}
