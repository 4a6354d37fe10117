// Package interleave implements the generic permutation interleaver and a
// block interleaver derived from a row/column grid shape, used to decorrelate
// the two constituent codes in a turbo code.
package interleave

import (
	"errors"
	"fmt"
)

// ErrInvalidPermutation is returned when the constructor argument does not
// contain every index 0..N-1 exactly once.
var ErrInvalidPermutation = errors.New("interleave: not a permutation")

// ErrFrameLengthMismatch is returned when Interleave/Deinterleave is called
// with a slice whose length does not match the interleaver's N.
var ErrFrameLengthMismatch = errors.New("interleave: frame length mismatch")

// Interleaver is a bijective permutation over frame indices 0..N-1.
type Interleaver struct {
	perm    []int
	inverse []int
}

// New validates perm is a permutation of 0..len(perm)-1 and precomputes its
// inverse.
func New(perm []int) (*Interleaver, error) {
	n := len(perm)
	seen := make([]bool, n)
	inverse := make([]int, n)
	for i, p := range perm {
		if p < 0 || p >= n || seen[p] {
			return nil, fmt.Errorf("%w: index %d at position %d", ErrInvalidPermutation, p, i)
		}
		seen[p] = true
		inverse[p] = i
	}
	cp := make([]int, n)
	copy(cp, perm)
	return &Interleaver{perm: cp, inverse: inverse}, nil
}

// Len returns N, the interleaver's frame length.
func (il *Interleaver) Len() int { return len(il.perm) }

// Interleave returns y such that y[perm[i]] = x[i].
func (il *Interleaver) Interleave(x []int) ([]int, error) {
	if len(x) != len(il.perm) {
		return nil, fmt.Errorf("%w: got %d want %d", ErrFrameLengthMismatch, len(x), len(il.perm))
	}
	y := make([]int, len(x))
	for i, v := range x {
		y[il.perm[i]] = v
	}
	return y, nil
}

// Deinterleave returns x such that x[i] = y[perm[i]] (apply perm^-1).
func (il *Interleaver) Deinterleave(y []int) ([]int, error) {
	if len(y) != len(il.perm) {
		return nil, fmt.Errorf("%w: got %d want %d", ErrFrameLengthMismatch, len(y), len(il.perm))
	}
	x := make([]int, len(y))
	for i := range x {
		x[i] = y[il.perm[i]]
	}
	return x, nil
}

// InterleaveFloat64 applies the same permutation to a real-valued sequence
// (used to route extrinsic information, which is real-valued, through π).
func (il *Interleaver) InterleaveFloat64(x []float64) ([]float64, error) {
	if len(x) != len(il.perm) {
		return nil, fmt.Errorf("%w: got %d want %d", ErrFrameLengthMismatch, len(x), len(il.perm))
	}
	y := make([]float64, len(x))
	for i, v := range x {
		y[il.perm[i]] = v
	}
	return y, nil
}

// DeinterleaveFloat64 is the real-valued counterpart of Deinterleave.
func (il *Interleaver) DeinterleaveFloat64(y []float64) ([]float64, error) {
	if len(y) != len(il.perm) {
		return nil, fmt.Errorf("%w: got %d want %d", ErrFrameLengthMismatch, len(y), len(il.perm))
	}
	x := make([]float64, len(y))
	for i := range x {
		x[i] = y[il.perm[i]]
	}
	return x, nil
}

// Perm returns a copy of the underlying permutation.
func (il *Interleaver) Perm() []int {
	cp := make([]int, len(il.perm))
	copy(cp, il.perm)
	return cp
}
