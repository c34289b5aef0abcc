// Package watermark embeds and recovers a claim digest in an image's
// frequency domain, and verifies a candidate image against an external
// asset registry by digest or perceptual hash.
package watermark

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/pixelclaim/watermark/internal/bitstream"
	"github.com/pixelclaim/watermark/internal/capacity"
	"github.com/pixelclaim/watermark/internal/colorspace"
	"github.com/pixelclaim/watermark/internal/ecc"
	"github.com/pixelclaim/watermark/internal/imageio"
	"github.com/pixelclaim/watermark/internal/phash"
	"github.com/pixelclaim/watermark/internal/svdquant"
	"github.com/pixelclaim/watermark/internal/wavelet"
)

// CapacityReport is the capacity metadata Embed returns alongside a marked
// image, letting callers see how much headroom the image had.
type CapacityReport struct {
	LLRows, LLCols int
	TotalBlocks    int
	UsableBlocks   int
	RequiredBits   int
	Fits           bool
	Repetitions    float64
}

// EmbedResult is the output of a successful Embed call.
type EmbedResult struct {
	Image          []byte // marked image bytes, encoded in the input's format
	DigestHex      string // 56 hex characters
	PerceptualHash phash.Hash
	Capacity       CapacityReport
}

// Embed marks imageBytes (raw bytes of a JPEG/PNG/WebP file named by
// filename, used only to pick the output codec) with the SHA-224 digest of claim.
func Embed(imageBytes []byte, filename, claim string, p Params) (*EmbedResult, error) {
	const op = "Embed"
	if err := p.Validate(); err != nil {
		return nil, err
	}

	decoded, err := imageio.Decode(imageBytes)
	if err != nil {
		return nil, newErr(op, ErrUnsupportedImage, err)
	}

	digest := Digest(claim)
	codeword, err := ecc.Encode(digest[:], p.RedundancyPercent)
	if err != nil {
		return nil, newErr(op, ErrInvalidParameter, err)
	}
	bits := bitstream.Pack(codeword)

	planes := colorspace.FromRGB(decoded.Height, decoded.Width, decoded.RGB)
	sb := wavelet.Forward2D(planes.Y, decoded.Height, decoded.Width)

	report := capacity.Plan(decoded.Height, decoded.Width, p.MarginBlocks, len(bits))
	capReport := CapacityReport{
		LLRows: sb.Rows, LLCols: sb.Cols,
		TotalBlocks:  report.TotalRows * report.TotalCols,
		UsableBlocks: report.UsableBlocks,
		RequiredBits: report.RequiredBits,
		Fits:         report.Fits,
		Repetitions:  report.Repetitions,
	}
	if !report.Fits {
		return nil, newErr(op, ErrImageTooSmall, fmt.Errorf(
			"usable blocks %d < required bits %d", report.UsableBlocks, report.RequiredBits))
	}

	grid := bitstream.Tile(bits, report.UsableRows, report.UsableCols)
	svdGrid := &svdquant.Grid{LL: sb.LL, Rows: sb.Rows, Cols: sb.Cols, Margin: p.MarginBlocks}
	skipped := svdquant.EmbedGrid(svdGrid, grid, report.UsableRows, report.UsableCols, p.Q)
	p.Logger.Debug().Int("skipped_blocks", skipped).Msg("embedded watermark grid")

	markedY := wavelet.Inverse2D(sb, decoded.Height, decoded.Width)
	planes.Y = markedY
	markedRGB := planes.ToRGB()

	markedImg := (&imageio.Decoded{Height: decoded.Height, Width: decoded.Width, RGB: markedRGB}).ToImage()

	var buf bytes.Buffer
	ext := filepath.Ext(filename)
	if err := imageio.EncodeLike(&buf, markedImg, ext); err != nil {
		return nil, newErr(op, ErrUnsupportedImage, err)
	}

	markedPlanes := colorspace.FromRGB(decoded.Height, decoded.Width, markedRGB)
	ph := phash.Compute(markedPlanes.Y, decoded.Height, decoded.Width)

	return &EmbedResult{
		Image:          buf.Bytes(),
		DigestHex:      hex.EncodeToString(digest[:]),
		PerceptualHash: ph,
		Capacity:       capReport,
	}, nil
}

// ExtractResult is the output of a successful Extract call.
type ExtractResult struct {
	DigestHex      string
	PerceptualHash phash.Hash
}

// Extract recovers the claim digest embedded in imageBytes. It returns an
// EccUncorrectable CodecError when the recovered codeword has more byte
// errors than the Reed-Solomon parity can correct — callers should treat
// that as "no mark present" and fall back to perceptual-hash matching.
func Extract(imageBytes []byte, p Params) (*ExtractResult, error) {
	const op = "Extract"
	if err := p.Validate(); err != nil {
		return nil, err
	}

	decoded, err := imageio.Decode(imageBytes)
	if err != nil {
		return nil, newErr(op, ErrUnsupportedImage, err)
	}

	planes := colorspace.FromRGB(decoded.Height, decoded.Width, decoded.RGB)
	ph := phash.Compute(planes.Y, decoded.Height, decoded.Width)

	sb := wavelet.Forward2D(planes.Y, decoded.Height, decoded.Width)

	codewordBits := (ecc.DataLength + ecc.ParityLength(p.RedundancyPercent)) * 8
	report := capacity.Plan(decoded.Height, decoded.Width, p.MarginBlocks, codewordBits)
	if !report.Fits {
		return nil, newErr(op, ErrImageTooSmall, fmt.Errorf(
			"usable blocks %d < required bits %d", report.UsableBlocks, report.RequiredBits))
	}

	svdGrid := &svdquant.Grid{LL: sb.LL, Rows: sb.Rows, Cols: sb.Cols, Margin: p.MarginBlocks}
	extractedGrid := svdquant.ExtractGrid(svdGrid, report.UsableRows, report.UsableCols, p.Q)
	votedBits := bitstream.Vote(extractedGrid, codewordBits)
	codeword := bitstream.Unpack(votedBits)

	digest, err := ecc.Decode(codeword, p.RedundancyPercent)
	if err != nil {
		return nil, newErr(op, ErrEccUncorrectable, err)
	}

	return &ExtractResult{
		DigestHex:      hex.EncodeToString(digest),
		PerceptualHash: ph,
	}, nil
}

// ComputePhash decodes imageBytes and returns its perceptual hash, without
// attempting digest extraction. The verification driver uses this as the
// pHash-fallback path when Extract fails with EccUncorrectable — extraction
// failed before a digest could be recovered, but the image itself still
// decodes fine and can be hashed.
func ComputePhash(imageBytes []byte) (phash.Hash, error) {
	decoded, err := imageio.Decode(imageBytes)
	if err != nil {
		return 0, newErr("ComputePhash", ErrUnsupportedImage, err)
	}
	planes := colorspace.FromRGB(decoded.Height, decoded.Width, decoded.RGB)
	return phash.Compute(planes.Y, decoded.Height, decoded.Width), nil
}
