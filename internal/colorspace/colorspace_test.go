package colorspace

import "testing"

func TestFromRGBToRGBRoundTripGray(t *testing.T) {
	// A solid-gray pixel should round-trip exactly: no chroma offset to
	// accumulate rounding error against.
	rgb := []uint8{128, 128, 128, 0, 0, 0, 255, 255, 255}
	p := FromRGB(1, 3, rgb)
	got := p.ToRGB()
	for i := range rgb {
		if got[i] != rgb[i] {
			t.Errorf("ToRGB(FromRGB(%v))[%d] = %d, want %d", rgb, i, got[i], rgb[i])
		}
	}
}

func TestFromRGBToRGBApproximatelyInvertsColor(t *testing.T) {
	rgb := []uint8{200, 50, 10}
	p := FromRGB(1, 1, rgb)
	got := p.ToRGB()
	for i, want := range rgb {
		diff := int(got[i]) - int(want)
		if diff < -2 || diff > 2 {
			t.Errorf("ToRGB(FromRGB(%v))[%d] = %d, want within 2 of %d", rgb, i, got[i], want)
		}
	}
}

func TestChromaPreservedWhenOnlyYChanges(t *testing.T) {
	rgb := []uint8{10, 200, 30, 250, 5, 90}
	p := FromRGB(1, 2, rgb)
	cbBefore := append([]float64(nil), p.Cb...)
	crBefore := append([]float64(nil), p.Cr...)

	// Mutate Y only, as the watermark embedder does.
	for i := range p.Y {
		p.Y[i] += 5
	}

	for i := range p.Cb {
		if p.Cb[i] != cbBefore[i] || p.Cr[i] != crBefore[i] {
			t.Fatalf("chroma plane mutated by a Y-only change at index %d", i)
		}
	}
}

func TestAtSet(t *testing.T) {
	p := FromRGB(2, 2, make([]uint8, 2*2*3))
	p.Set(1, 1, 42)
	if got := p.At(1, 1); got != 42 {
		t.Errorf("At(1,1) = %v, want 42", got)
	}
}

func TestToRGBClampsOutOfRangeY(t *testing.T) {
	p := FromRGB(1, 1, []uint8{0, 0, 0})
	p.Y[0] = 1000 // simulate an overshoot the embedder must not propagate unclamped
	got := p.ToRGB()
	for _, v := range got {
		if v != 255 {
			t.Errorf("ToRGB with Y=1000 produced %d, want clamp to 255-derived value", v)
		}
	}
}
