package watermark

import (
	"github.com/rs/zerolog"
)

// Params holds every tunable of the embed/extract pipeline, passed
// explicitly through every call instead of living in package-level state.
type Params struct {
	// Q is the singular-value quantization step used by internal/svdquant.
	Q int
	// RedundancyPercent controls the Reed-Solomon parity length: a digest
	// encodes to DataLength + max(1, ceil(DataLength*RedundancyPercent/100))
	// bytes.
	RedundancyPercent int
	// MarginBlocks excludes a border of blocks from the usable grid on
	// each side, trading capacity for robustness near image edges.
	MarginBlocks int
	// Logger receives structured progress/diagnostic events. A disabled
	// logger (zerolog.Nop()) is safe to pass when none is wanted.
	Logger zerolog.Logger
}

// DefaultParams returns the parameter set this codec's worked examples use:
// Q=85, 50% redundancy, no margin.
func DefaultParams() Params {
	return Params{
		Q:                 85,
		RedundancyPercent: 50,
		MarginBlocks:      0,
		Logger:            zerolog.Nop(),
	}
}

// Validate checks that p's fields are usable, returning an
// InvalidParameter CodecError describing the first problem found.
func (p Params) Validate() error {
	if p.Q < 4 {
		return newErr("Params.Validate", ErrInvalidParameter, errQTooSmall)
	}
	if p.RedundancyPercent < 0 || p.RedundancyPercent > 400 {
		return newErr("Params.Validate", ErrInvalidParameter, errRedundancyRange)
	}
	if p.MarginBlocks < 0 {
		return newErr("Params.Validate", ErrInvalidParameter, errMarginNegative)
	}
	return nil
}
