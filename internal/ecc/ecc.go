// Package ecc implements the Reed-Solomon codec over GF(256) that turns a
// 28-byte digest into a longer, error-correctable codeword. It wraps
// github.com/ericlevine/zxinggo/reedsolomon, which (unlike erasure-only RS
// codecs) performs true error correction: it locates and fixes byte errors
// at unknown positions, which is what recovering a codeword from a noisy
// extracted bit grid requires.
package ecc

import (
	"fmt"

	"github.com/ericlevine/zxinggo/reedsolomon"
)

// DataLength is the fixed digest length this codec encodes.
const DataLength = 28

// ParityLength returns the parity length for a redundancy percentage:
// max(1, ceil(28*r/100)).
func ParityLength(redundancyPercent int) int {
	p := (DataLength*redundancyPercent + 99) / 100
	if p < 1 {
		p = 1
	}
	return p
}

// Encode returns a codeword of DataLength+ParityLength(redundancyPercent)
// bytes: the digest followed by Reed-Solomon parity symbols.
func Encode(digest []byte, redundancyPercent int) ([]byte, error) {
	if len(digest) != DataLength {
		return nil, fmt.Errorf("ecc: digest must be %d bytes, got %d", DataLength, len(digest))
	}
	parity := ParityLength(redundancyPercent)

	toEncode := make([]int, DataLength+parity)
	for i, b := range digest {
		toEncode[i] = int(b)
	}

	enc := reedsolomon.NewEncoder(reedsolomon.DataMatrixField256)
	enc.Encode(toEncode, parity)

	codeword := make([]byte, len(toEncode))
	for i, v := range toEncode {
		codeword[i] = byte(v)
	}
	return codeword, nil
}

// Decode corrects up to parity/2 byte errors in codeword and returns the
// original DataLength-byte digest. It fails with an error (the caller maps
// this to ErrEccUncorrectable) when the number of byte errors exceeds the
// codec's correction capacity.
func Decode(codeword []byte, redundancyPercent int) ([]byte, error) {
	parity := ParityLength(redundancyPercent)
	if len(codeword) != DataLength+parity {
		return nil, fmt.Errorf("ecc: codeword must be %d bytes, got %d", DataLength+parity, len(codeword))
	}

	toDecode := make([]int, len(codeword))
	for i, b := range codeword {
		toDecode[i] = int(b)
	}

	dec := reedsolomon.NewDecoder(reedsolomon.DataMatrixField256)
	if _, err := dec.Decode(toDecode, parity); err != nil {
		return nil, fmt.Errorf("ecc: uncorrectable: %w", err)
	}

	digest := make([]byte, DataLength)
	for i := 0; i < DataLength; i++ {
		digest[i] = byte(toDecode[i])
	}
	return digest, nil
}

// MaxCorrectableErrors returns floor(parity/2), the number of byte errors
// Decode is guaranteed to correct for the given redundancy percentage.
func MaxCorrectableErrors(redundancyPercent int) int {
	return ParityLength(redundancyPercent) / 2
}
