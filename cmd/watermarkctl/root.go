package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pixelclaim/watermark"
)

// rootFlags holds the codec parameters and logging mode shared by every
// subcommand, bound directly onto watermark.Params rather than kept as
// loose globals.
type rootFlags struct {
	q                 int
	redundancyPercent int
	marginBlocks      int
	jsonLogs          bool
	verbose           bool
}

func (f *rootFlags) params() watermark.Params {
	return watermark.Params{
		Q:                 f.q,
		RedundancyPercent: f.redundancyPercent,
		MarginBlocks:      f.marginBlocks,
		Logger:            f.logger(),
	}
}

func (f *rootFlags) logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if f.verbose {
		level = zerolog.DebugLevel
	}
	if f.jsonLogs {
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "watermarkctl",
		Short: "Embed, extract, and verify image ownership watermarks",
	}

	root.PersistentFlags().IntVar(&flags.q, "q", 85, "singular-value quantization step")
	root.PersistentFlags().IntVar(&flags.redundancyPercent, "redundancy", 50, "Reed-Solomon redundancy percent")
	root.PersistentFlags().IntVar(&flags.marginBlocks, "margin", 0, "border blocks excluded from the usable grid")
	root.PersistentFlags().BoolVar(&flags.jsonLogs, "json", false, "emit structured JSON logs")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newEmbedCmd(flags))
	root.AddCommand(newExtractCmd(flags))
	root.AddCommand(newVerifyCmd(flags))
	root.AddCommand(newBatchVerifyCmd(flags))

	return root
}
