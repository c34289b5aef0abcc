// Package svdquant implements the block SVD quantizer: the core embedding
// primitive that carries one bit per 4x4 block of the LL subband by
// modulating its dominant singular value onto a lattice of spacing Q.
package svdquant

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// BlockSize is the fixed tile dimension the quantizer operates on.
const BlockSize = 4

// Grid addresses a BlockSize x BlockSize tile at block position (i, j),
// offset by margin blocks from the edge of an ll plane of the given
// row/col stride.
type Grid struct {
	LL         []float64 // row-major, Rows*Cols
	Rows, Cols int
	Margin     int
}

func (g *Grid) extract(i, j int) *mat.Dense {
	y0 := (i + g.Margin) * BlockSize
	x0 := (j + g.Margin) * BlockSize
	data := make([]float64, BlockSize*BlockSize)
	for r := 0; r < BlockSize; r++ {
		copy(data[r*BlockSize:(r+1)*BlockSize], g.LL[(y0+r)*g.Cols+x0:(y0+r)*g.Cols+x0+BlockSize])
	}
	return mat.NewDense(BlockSize, BlockSize, data)
}

func (g *Grid) put(i, j int, block *mat.Dense) {
	y0 := (i + g.Margin) * BlockSize
	x0 := (j + g.Margin) * BlockSize
	for r := 0; r < BlockSize; r++ {
		for c := 0; c < BlockSize; c++ {
			g.LL[(y0+r)*g.Cols+x0+c] = block.At(r, c)
		}
	}
}

// quantizeFor0 snaps s onto the bit=0 lattice point nearest its residue
// class, using integer truncation at Q/4 and 3Q/4 (Q=85 => Q/4=21, not
// 21.25).
func quantizeFor0(s, q int) int {
	a := s % q
	if a < (3*q)/4 {
		return s - a + q/4
	}
	return s - a + (5*q)/4
}

// quantizeFor1 snaps s onto the bit=1 lattice point nearest its residue
// class.
func quantizeFor1(s, q int) int {
	a := s % q
	if a < q/4 {
		return s - a - q/4
	}
	return s - a + (3*q)/4
}

// EmbedBlock computes the SVD of a block, quantizes its dominant singular
// value to carry bit, and returns the reconstructed block. It returns
// ok=false if the SVD failed to converge or produced a non-finite value,
// in which case the caller should leave the block unmodified: the bit is
// unrecoverable at that position, and Reed-Solomon compensates if it stays
// within budget.
func EmbedBlock(block *mat.Dense, bit, q int) (result *mat.Dense, ok bool) {
	var svd mat.SVD
	if !svd.Factorize(block, mat.SVDThin) {
		return nil, false
	}
	values := svd.Values(nil)
	if len(values) == 0 || !isFinite(values[0]) {
		return nil, false
	}

	s := int(math.Floor(values[0]))
	var newS int
	if bit == 0 {
		newS = quantizeFor0(s, q)
	} else {
		newS = quantizeFor1(s, q)
	}
	values[0] = float64(newS)

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	diag := mat.NewDiagDense(len(values), values)

	var tmp, out mat.Dense
	tmp.Mul(&u, diag)
	out.Mul(&tmp, v.T())

	if !matFinite(&out) {
		return nil, false
	}
	return &out, true
}

// ExtractBit reads the watermark bit carried by a block: the dominant
// singular value's residue modulo Q, thresholded at Q/2.
func ExtractBit(block *mat.Dense, q int) (bit int, ok bool) {
	var svd mat.SVD
	if !svd.Factorize(block, mat.SVDThin) {
		return 0, false
	}
	values := svd.Values(nil)
	if len(values) == 0 || !isFinite(values[0]) {
		return 0, false
	}
	s := int(math.Floor(values[0]))
	a := s % q
	if a < 0 {
		a += q
	}
	if a >= q/2 {
		return 1, true
	}
	return 0, true
}

// EmbedGrid embeds bits (one per usable block, row-major, length
// usableRows*usableCols) into g.LL in place. Blocks where the SVD fails are
// left unmodified and counted in skipped.
func EmbedGrid(g *Grid, bits []int, usableRows, usableCols, q int) (skipped int) {
	for i := 0; i < usableRows; i++ {
		for j := 0; j < usableCols; j++ {
			idx := i*usableCols + j
			if idx >= len(bits) {
				continue
			}
			block := g.extract(i, j)
			marked, ok := EmbedBlock(block, bits[idx], q)
			if !ok {
				skipped++
				continue
			}
			g.put(i, j, marked)
		}
	}
	return skipped
}

// ExtractGrid reads one bit per usable block from g.LL, row-major. Blocks
// where the SVD fails read back as 0: unrecoverable at that position;
// Reed-Solomon compensates if within budget.
func ExtractGrid(g *Grid, usableRows, usableCols, q int) []int {
	bits := make([]int, usableRows*usableCols)
	for i := 0; i < usableRows; i++ {
		for j := 0; j < usableCols; j++ {
			block := g.extract(i, j)
			bit, ok := ExtractBit(block, q)
			if ok {
				bits[i*usableCols+j] = bit
			}
		}
	}
	return bits
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func matFinite(m *mat.Dense) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if !isFinite(m.At(i, j)) {
				return false
			}
		}
	}
	return true
}
