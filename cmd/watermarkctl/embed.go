package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pixelclaim/watermark"
)

func newEmbedCmd(flags *rootFlags) *cobra.Command {
	var claim, output string

	cmd := &cobra.Command{
		Use:   "embed <image>",
		Short: "Embed a claim's digest into an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]
			data, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("reading %s: %w", inputPath, err)
			}

			params := flags.params()
			result, err := watermark.Embed(data, inputPath, claim, params)
			if err != nil {
				return err
			}

			if output == "" {
				output = inputPath
			}
			if err := os.WriteFile(output, result.Image, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}

			params.Logger.Info().
				Str("digest", result.DigestHex).
				Str("phash", result.PerceptualHash.String()).
				Int("usable_blocks", result.Capacity.UsableBlocks).
				Float64("repetitions", result.Capacity.Repetitions).
				Str("output", output).
				Msg("embedded watermark")
			return nil
		},
	}

	cmd.Flags().StringVar(&claim, "claim", "", "claim text to embed (UTF-8)")
	cmd.Flags().StringVar(&output, "output", "", "output path (defaults to overwriting the input)")
	cmd.MarkFlagRequired("claim")

	return cmd
}
