package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pixelclaim/watermark"
)

func newExtractCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Recover the digest embedded in an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]
			data, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("reading %s: %w", inputPath, err)
			}

			params := flags.params()
			result, err := watermark.Extract(data, params)
			if err != nil {
				var ce *watermark.CodecError
				if errors.As(err, &ce) && ce.Kind == watermark.ErrEccUncorrectable {
					hash, hashErr := watermark.ComputePhash(data)
					if hashErr != nil {
						return hashErr
					}
					params.Logger.Warn().
						Str("phash", hash.String()).
						Msg("no recoverable watermark; perceptual hash only")
					fmt.Printf("unverified: phash=%s\n", hash.String())
					return nil
				}
				return err
			}

			fmt.Printf("digest=%s phash=%s\n", result.DigestHex, result.PerceptualHash.String())
			return nil
		},
	}
	return cmd
}
