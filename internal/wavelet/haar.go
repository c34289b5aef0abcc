// Package wavelet implements the single-level 2-D Haar discrete wavelet
// transform used to isolate the low-frequency approximation subband (LL)
// that carries the watermark, and its inverse.
package wavelet

import "sync"

// Subbands holds the four subbands produced by one level of 2-D Haar DWT.
// LL is the approximation subband the watermark embeds into; LH, HL, HH
// are detail subbands preserved verbatim through the embed/extract cycle.
type Subbands struct {
	Rows, Cols     int // shape of each subband: ceil(H/2) x ceil(W/2)
	LL, LH, HL, HH []float64
}

var rowBufPool = sync.Pool{
	New: func() interface{} {
		buf := make([]float64, 0, 512)
		return &buf
	},
}

func getRowBuf(n int) []float64 {
	bp := rowBufPool.Get().(*[]float64)
	buf := *bp
	if cap(buf) < n {
		buf = make([]float64, n)
	}
	return buf[:n]
}

func putRowBuf(buf []float64) {
	rowBufPool.Put(&buf)
}

// symmetricAt returns data[i] with symmetric boundary extension for i
// outside [0, n).
func symmetricAt(data []float64, i, n int) float64 {
	if n == 1 {
		return data[0]
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i - 1
		}
		if i >= n {
			i = 2*n - i - 1
		}
	}
	return data[i]
}

// Forward2D applies a single-level 2-D Haar DWT to an H x W plane (given as
// a flat row-major slice) and returns the four ceil(H/2) x ceil(W/2)
// subbands. Odd dimensions are handled via symmetric extension of the last
// sample.
func Forward2D(plane []float64, h, w int) *Subbands {
	rows := (h + 1) / 2
	cols := (w + 1) / 2

	// Horizontal pass: each row -> low/high half-length rows.
	lo := make([]float64, h*cols)
	hi := make([]float64, h*cols)
	for y := 0; y < h; y++ {
		row := plane[y*w : y*w+w]
		for x := 0; x < cols; x++ {
			a := symmetricAt(row, 2*x, w)
			b := symmetricAt(row, 2*x+1, w)
			lo[y*cols+x] = (a + b) / 2
			hi[y*cols+x] = (a - b) / 2
		}
	}

	// Vertical pass on each half: low-half -> LL/LH, high-half -> HL/HH.
	sb := &Subbands{
		Rows: rows, Cols: cols,
		LL: make([]float64, rows*cols),
		LH: make([]float64, rows*cols),
		HL: make([]float64, rows*cols),
		HH: make([]float64, rows*cols),
	}
	col := getRowBuf(h)
	defer putRowBuf(col)
	for x := 0; x < cols; x++ {
		for y := 0; y < h; y++ {
			col[y] = lo[y*cols+x]
		}
		for yy := 0; yy < rows; yy++ {
			a := symmetricAt(col, 2*yy, h)
			b := symmetricAt(col, 2*yy+1, h)
			sb.LL[yy*cols+x] = (a + b) / 2
			sb.LH[yy*cols+x] = (a - b) / 2
		}
		for y := 0; y < h; y++ {
			col[y] = hi[y*cols+x]
		}
		for yy := 0; yy < rows; yy++ {
			a := symmetricAt(col, 2*yy, h)
			b := symmetricAt(col, 2*yy+1, h)
			sb.HL[yy*cols+x] = (a + b) / 2
			sb.HH[yy*cols+x] = (a - b) / 2
		}
	}
	return sb
}

// Inverse2D reconstructs an H x W plane from the four subbands (LL possibly
// modified, LH/HL/HH unchanged from the matching Forward2D call). The
// output is cropped back to exactly H x W, since odd H or W produce one
// extra sample per dimension through the forward pass's symmetric extension.
func Inverse2D(sb *Subbands, h, w int) []float64 {
	rows, cols := sb.Rows, sb.Cols

	// Vertical inverse: LL/LH -> lo column, HL/HH -> hi column.
	lo := make([]float64, h*cols)
	hi := make([]float64, h*cols)
	for x := 0; x < cols; x++ {
		for yy := 0; yy < rows; yy++ {
			l := sb.LL[yy*cols+x]
			hcoef := sb.LH[yy*cols+x]
			a := l + hcoef
			b := l - hcoef
			if 2*yy < h {
				lo[2*yy*cols+x] = a
			}
			if 2*yy+1 < h {
				lo[(2*yy+1)*cols+x] = b
			}
		}
		for yy := 0; yy < rows; yy++ {
			l := sb.HL[yy*cols+x]
			hcoef := sb.HH[yy*cols+x]
			a := l + hcoef
			b := l - hcoef
			if 2*yy < h {
				hi[2*yy*cols+x] = a
			}
			if 2*yy+1 < h {
				hi[(2*yy+1)*cols+x] = b
			}
		}
	}

	// Horizontal inverse: lo/hi rows -> full-width row.
	out := make([]float64, h*w)
	for y := 0; y < h; y++ {
		for x := 0; x < cols; x++ {
			l := lo[y*cols+x]
			hcoef := hi[y*cols+x]
			a := l + hcoef
			b := l - hcoef
			if 2*x < w {
				out[y*w+2*x] = a
			}
			if 2*x+1 < w {
				out[y*w+2*x+1] = b
			}
		}
	}
	return out
}
