package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/pngme/pkg/logging"
	"github.com/ssargent/pngme/pkg/message"
)

func newEncodeCmd(a *app) *cobra.Command {
	var force bool

	encodeCmd := &cobra.Command{
		Use:   "encode <file> <chunk_type> <message> [output_file]",
		Short: "Hide a message in a PNG file",
		Long: `Append a chunk carrying message to a PNG file.

The chunk is added after every existing chunk. Without output_file the input
file is rewritten in place. An existing output_file is only replaced with
--force.

Example:
  pngme encode ./pic.png RuSt "This is a secret message!"
  pngme encode ./pic.png RuSt "secret" ./out.png`,
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, chunkType, msg := args[0], args[1], args[2]
			output := path
			if len(args) == 4 {
				output = args[3]
				if output != path && !force && a.files().Exists(output) {
					return fmt.Errorf("%s already exists (use --force to overwrite)", output)
				}
			}

			data, err := a.files().Read(path)
			if err != nil {
				return err
			}

			encoded, err := message.Encode(data, chunkType, msg)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			if err := a.files().Write(output, encoded); err != nil {
				return err
			}

			logging.FromContext(cmd.Context()).Debug("message encoded",
				"input", path,
				"output", output,
				"chunk_type", chunkType,
				"size", len(encoded))
			return nil
		},
	}

	encodeCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing output file")
	return encodeCmd
}
