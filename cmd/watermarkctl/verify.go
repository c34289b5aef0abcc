package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newVerifyCmd(flags *rootFlags) *cobra.Command {
	var registryURL string

	cmd := &cobra.Command{
		Use:   "verify <image>",
		Short: "Verify an image against the asset registry by digest, falling back to perceptual hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]
			data, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("reading %s: %w", inputPath, err)
			}

			params := flags.params()
			reg := newHTTPRegistry(registryURL)
			verdict := verifyOneImage(cmd.Context(), reg, data, params)
			printVerdict(inputPath, verdict)
			return nil
		},
	}

	cmd.Flags().StringVar(&registryURL, "registry", "", "base URL of the asset registry")
	cmd.MarkFlagRequired("registry")
	return cmd
}
