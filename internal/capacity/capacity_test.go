package capacity

import "testing"

func TestPlanMatchesSpecArithmetic(t *testing.T) {
	// 512x512, margin 0: LL = 256x256, total blocks = 64x64 = 4096.
	r := Plan(512, 512, 0, 336)
	if r.LLRows != 256 || r.LLCols != 256 {
		t.Errorf("LL size = %dx%d, want 256x256", r.LLRows, r.LLCols)
	}
	if r.TotalRows != 64 || r.TotalCols != 64 {
		t.Errorf("total blocks = %dx%d, want 64x64", r.TotalRows, r.TotalCols)
	}
	if r.UsableBlocks != 4096 {
		t.Errorf("usable blocks = %d, want 4096", r.UsableBlocks)
	}
	if !r.Fits {
		t.Errorf("Fits = false, want true for a 512x512 image needing 336 bits")
	}
}

func TestPlanTooSmall(t *testing.T) {
	// 64x64: LL = 32x32, total blocks = 8x8 = 64, well under 336 required bits.
	r := Plan(64, 64, 0, 336)
	if r.Fits {
		t.Errorf("Fits = true for a 64x64 image, want false (usable=%d < required=336)", r.UsableBlocks)
	}
}

func TestPlanMonotonicInDimensions(t *testing.T) {
	small := Plan(100, 100, 0, 1)
	large := Plan(200, 200, 0, 1)
	if large.UsableBlocks < small.UsableBlocks {
		t.Errorf("capacity decreased as dimensions grew: %d -> %d", small.UsableBlocks, large.UsableBlocks)
	}
}

func TestPlanMonotonicInMargin(t *testing.T) {
	noMargin := Plan(512, 512, 0, 1)
	margin := Plan(512, 512, 4, 1)
	if margin.UsableBlocks > noMargin.UsableBlocks {
		t.Errorf("capacity increased with a larger margin: %d -> %d", noMargin.UsableBlocks, margin.UsableBlocks)
	}
}

func TestPlanUsableBlocksFloorsAtOne(t *testing.T) {
	r := Plan(16, 16, 10, 1) // margin far larger than the block grid
	if r.UsableRows != 1 || r.UsableCols != 1 {
		t.Errorf("usable grid = %dx%d, want floored to 1x1", r.UsableRows, r.UsableCols)
	}
}
