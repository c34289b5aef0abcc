package watermark

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
)

type mockRegistry struct {
	digestHits map[string]AssetRecord
	phashHits  map[string][]PhashCandidate
}

func (m *mockRegistry) LookupByDigest(ctx context.Context, digestHex string) (*AssetRecord, error) {
	if a, ok := m.digestHits[digestHex]; ok {
		return &a, nil
	}
	return nil, ErrNoMatch
}

func (m *mockRegistry) LookupByPhash(ctx context.Context, phashHex string) ([]PhashCandidate, error) {
	if c, ok := m.phashHits[phashHex]; ok {
		return c, nil
	}
	return nil, ErrNoMatch
}

func grayPNG(t *testing.T, size int, gray uint8) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.NRGBA{R: gray, G: gray, B: gray, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestVerifyOneHashMatch(t *testing.T) {
	params := DefaultParams()
	src := grayPNG(t, 512, 128)
	embedded, err := Embed(src, "photo.png", "owner:alice", params)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	reg := &mockRegistry{
		digestHits: map[string]AssetRecord{
			embedded.DigestHex: {AssetID: "asset-1", DigestHex: embedded.DigestHex},
		},
	}

	verdict := VerifyOne(context.Background(), reg, embedded.Image, params)
	if verdict.Match != MatchHash {
		t.Fatalf("Match = %v, want MatchHash (reason=%q)", verdict.Match, verdict.Reason)
	}
	if verdict.Asset.AssetID != "asset-1" {
		t.Errorf("Asset.AssetID = %q, want asset-1", verdict.Asset.AssetID)
	}
	if verdict.SimilarityPercent != 100 {
		t.Errorf("SimilarityPercent = %v, want 100", verdict.SimilarityPercent)
	}
}

func TestVerifyOneFallsBackToPhash(t *testing.T) {
	params := DefaultParams()
	src := grayPNG(t, 512, 128)
	embedded, err := Embed(src, "photo.png", "owner:alice", params)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	reg := &mockRegistry{
		phashHits: map[string][]PhashCandidate{
			embedded.PerceptualHash.String(): {
				{Asset: AssetRecord{AssetID: "asset-2"}, SimilarityPercent: 92.5},
			},
		},
	}

	verdict := VerifyOne(context.Background(), reg, embedded.Image, params)
	if verdict.Match != MatchPhash {
		t.Fatalf("Match = %v, want MatchPhash (reason=%q)", verdict.Match, verdict.Reason)
	}
	if verdict.Asset.AssetID != "asset-2" {
		t.Errorf("Asset.AssetID = %q, want asset-2", verdict.Asset.AssetID)
	}
}

func TestVerifyOneUnverifiedBelowSimilarityThreshold(t *testing.T) {
	params := DefaultParams()
	src := grayPNG(t, 512, 128)
	embedded, err := Embed(src, "photo.png", "owner:alice", params)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	reg := &mockRegistry{
		phashHits: map[string][]PhashCandidate{
			embedded.PerceptualHash.String(): {
				{Asset: AssetRecord{AssetID: "asset-3"}, SimilarityPercent: 50},
			},
		},
	}

	verdict := VerifyOne(context.Background(), reg, embedded.Image, params)
	if verdict.Match != MatchNone {
		t.Errorf("Match = %v, want MatchNone for a sub-threshold candidate", verdict.Match)
	}
}

func TestVerifyOneUnverifiedOnTotalMiss(t *testing.T) {
	params := DefaultParams()
	src := grayPNG(t, 512, 128)
	embedded, err := Embed(src, "photo.png", "owner:alice", params)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	reg := &mockRegistry{}
	verdict := VerifyOne(context.Background(), reg, embedded.Image, params)
	if verdict.Match != MatchNone {
		t.Errorf("Match = %v, want MatchNone", verdict.Match)
	}
}

func TestMatchTypeString(t *testing.T) {
	cases := map[MatchType]string{
		MatchHash:  "hash",
		MatchPhash: "phash",
		MatchNone:  "unverified",
	}
	for m, want := range cases {
		if got := m.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", int(m), got, want)
		}
	}
}
