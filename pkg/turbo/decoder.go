package turbo

import (
	"fmt"

	"github.com/dbehnke/turbosim/pkg/bcjr"
	"github.com/dbehnke/turbosim/pkg/interleave"
	"github.com/dbehnke/turbosim/pkg/trellis"
)

// Decoder iterates BCJR MAP decoding between two constituent views of a
// turbo codeword, exchanging extrinsic information through the interleaver
// each round.
type Decoder struct {
	il *interleave.Interleaver
	tr *trellis.Trellis
	d0 *bcjr.Decode
	d1 *bcjr.Decode
	n  int
}

// NewDecoder builds a turbo decoder for trellis tr (shared by both
// constituents, per spec §9 OQ-2) and interleaver il.
func NewDecoder(il *interleave.Interleaver, tr *trellis.Trellis) *Decoder {
	return &Decoder{il: il, tr: tr, n: tr.N()}
}

// blockWidth returns 1 + 2*(n-1), matching Encoder.BlockWidth.
func (d *Decoder) blockWidth() int { return 1 + 2*(d.n-1) }

// decompose splits a multiplexed codeword z into its systematic stream s
// (length T) and two parity streams c0, c1 (each length T*(n-1)).
func (d *Decoder) decompose(z []float64) (s, c0, c1 []float64, t int, err error) {
	w := d.blockWidth()
	if len(z)%w != 0 {
		return nil, nil, nil, 0, fmt.Errorf("%w: len=%d block=%d", ErrFrameLengthMismatch, len(z), w)
	}
	t = len(z) / w
	pw := d.n - 1
	s = make([]float64, t)
	c0 = make([]float64, t*pw)
	c1 = make([]float64, t*pw)
	for k := 0; k < t; k++ {
		base := k * w
		s[k] = z[base]
		copy(c0[k*pw:(k+1)*pw], z[base+1:base+1+pw])
		copy(c1[k*pw:(k+1)*pw], z[base+1+pw:base+1+2*pw])
	}
	return s, c0, c1, t, nil
}

// multiplex interleaves a systematic stream (length t) with a parity stream
// (length t*(n-1)) into t n-wide tuples, the shape bcjr.Decode.MAP expects.
func multiplex(sys []float64, parity []float64, n, t int) []float64 {
	pw := n - 1
	out := make([]float64, 0, t*n)
	for k := 0; k < t; k++ {
		out = append(out, sys[k])
		out = append(out, parity[k*pw:(k+1)*pw]...)
	}
	return out
}

func padToFloat(x []float64, t int) []float64 {
	if len(x) >= t {
		return x
	}
	out := make([]float64, t)
	copy(out, x)
	return out
}

// Decode runs iterations rounds of iterative SISO decoding over codeword z
// at channel reliability lc, returning the N hard-decided information bits.
func (d *Decoder) Decode(z []float64, lc float64, iterations int) ([]int, error) {
	llr, err := d.DecodeSoft(z, lc, iterations)
	if err != nil {
		return nil, err
	}
	bits := make([]int, len(llr))
	for i, l := range llr {
		if l >= 0 {
			bits[i] = 1
		}
	}
	return bits, nil
}

// DecodeSoft runs iterations rounds of iterative SISO decoding and returns
// the combined final LLR per information bit (spec §9 Decision OQ-3):
// Lc*s[k] + Le0[k] + Le1[k].
func (d *Decoder) DecodeSoft(z []float64, lc float64, iterations int) ([]float64, error) {
	s, c0, c1, t, err := d.decompose(z)
	if err != nil {
		return nil, err
	}
	n := d.il.Len()
	if t < n {
		return nil, fmt.Errorf("%w: block count %d shorter than interleaver length %d", ErrFrameLengthMismatch, t, n)
	}

	if d.d0 == nil {
		d.d0 = bcjr.NewDecode(d.tr, t, true)
		d.d1 = bcjr.NewDecode(d.tr, t, true)
	} else {
		d.d0.Reuse(t)
		d.d1.Reuse(t)
	}

	sInt, err := d.il.InterleaveFloat64(s[:n])
	if err != nil {
		return nil, err
	}
	sIntFull := padToFloat(sInt, t)

	le01 := make([]float64, n) // a-priori extrinsic fed to MAP0, natural domain
	var le0out, le01Final []float64

	for iter := 0; iter < iterations; iter++ {
		noisy0 := multiplex(s, c0, d.n, t)
		l0, err := d.d0.MAP(noisy0, lc, padToFloat(le01, t))
		if err != nil {
			return nil, err
		}
		le0out = make([]float64, n)
		for k := 0; k < n; k++ {
			le0out[k] = l0[k] - le01[k] - lc*s[k]
		}

		le10, err := d.il.InterleaveFloat64(le0out)
		if err != nil {
			return nil, err
		}

		noisy1 := multiplex(sIntFull, c1, d.n, t)
		l1, err := d.d1.MAP(noisy1, lc, padToFloat(le10, t))
		if err != nil {
			return nil, err
		}
		le1out := make([]float64, n)
		for k := 0; k < n; k++ {
			le1out[k] = l1[k] - le10[k] - lc*sInt[k]
		}

		le01, err = d.il.DeinterleaveFloat64(le1out)
		if err != nil {
			return nil, err
		}
		le01Final = le01
	}

	final := make([]float64, n)
	for k := 0; k < n; k++ {
		final[k] = lc*s[k] + le0out[k] + le01Final[k]
	}
	return final, nil
}
