package wavelet

import "testing"

func approxEqual(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestForwardInverseRoundTripEven(t *testing.T) {
	h, w := 8, 8
	plane := make([]float64, h*w)
	for i := range plane {
		plane[i] = float64(i%251) * 1.3
	}
	sb := Forward2D(plane, h, w)
	out := Inverse2D(sb, h, w)
	for i := range plane {
		if !approxEqual(plane[i], out[i], 1e-9) {
			t.Fatalf("round trip mismatch at %d: got %v, want %v", i, out[i], plane[i])
		}
	}
}

func TestForwardInverseRoundTripOdd(t *testing.T) {
	h, w := 7, 5
	plane := make([]float64, h*w)
	for i := range plane {
		plane[i] = float64(i)*2.1 - 3
	}
	sb := Forward2D(plane, h, w)
	if sb.Rows != 4 || sb.Cols != 3 {
		t.Fatalf("subband shape = %dx%d, want 4x3", sb.Rows, sb.Cols)
	}
	out := Inverse2D(sb, h, w)
	if len(out) != h*w {
		t.Fatalf("Inverse2D output length = %d, want %d", len(out), h*w)
	}
	for i := range plane {
		if !approxEqual(plane[i], out[i], 1e-9) {
			t.Fatalf("round trip mismatch at %d: got %v, want %v", i, out[i], plane[i])
		}
	}
}

func TestForward2DSubbandShapeEven(t *testing.T) {
	sb := Forward2D(make([]float64, 16*16), 16, 16)
	if sb.Rows != 8 || sb.Cols != 8 {
		t.Errorf("subband shape = %dx%d, want 8x8", sb.Rows, sb.Cols)
	}
}

func TestSymmetricAtSingleSample(t *testing.T) {
	if got := symmetricAt([]float64{7}, 5, 1); got != 7 {
		t.Errorf("symmetricAt with n=1 = %v, want 7", got)
	}
}

func TestConstantPlaneProducesZeroDetail(t *testing.T) {
	h, w := 6, 6
	plane := make([]float64, h*w)
	for i := range plane {
		plane[i] = 42
	}
	sb := Forward2D(plane, h, w)
	for _, v := range sb.LH {
		if v != 0 {
			t.Errorf("LH should be 0 for a constant plane, got %v", v)
		}
	}
	for _, v := range sb.HL {
		if v != 0 {
			t.Errorf("HL should be 0 for a constant plane, got %v", v)
		}
	}
	for _, v := range sb.HH {
		if v != 0 {
			t.Errorf("HH should be 0 for a constant plane, got %v", v)
		}
	}
	for _, v := range sb.LL {
		if v != 42 {
			t.Errorf("LL should be 42 for a constant plane, got %v", v)
		}
	}
}
