package main

import (
	"context"
	"fmt"

	"github.com/pixelclaim/watermark"
)

func verifyOneImage(ctx context.Context, reg watermark.Registry, data []byte, params watermark.Params) watermark.Verdict {
	return watermark.VerifyOne(ctx, reg, data, params)
}

func printVerdict(path string, v watermark.Verdict) {
	switch v.Match {
	case watermark.MatchHash:
		fmt.Printf("%s: verified (hash) asset=%s similarity=100%%\n", path, v.Asset.AssetID)
	case watermark.MatchPhash:
		fmt.Printf("%s: verified (phash) asset=%s similarity=%.1f%%\n", path, v.Asset.AssetID, v.SimilarityPercent)
	default:
		fmt.Printf("%s: unverified (%s)\n", path, v.Reason)
	}
}
