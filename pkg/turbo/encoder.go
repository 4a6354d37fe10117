// Package turbo implements the parallel concatenated convolutional code
// (PCCC): two constituent encoders separated by an interleaver, multiplexed
// into one codeword, and decoded by iterating BCJR MAP decoding between the
// two constituent (non-interleaved and interleaved) views with extrinsic
// information exchange.
package turbo

import (
	"errors"
	"fmt"

	"github.com/dbehnke/turbosim/pkg/convcode"
	"github.com/dbehnke/turbosim/pkg/interleave"
	"github.com/dbehnke/turbosim/pkg/trellis"
)

// ErrFrameLengthMismatch is returned when Encode is called with a frame
// whose length does not match the interleaver's N.
var ErrFrameLengthMismatch = errors.New("turbo: frame length mismatch")

// tailSentinel fills the systematic slot for trellis steps beyond the
// frame (the tail steps that exist only to terminate one constituent's
// trellis). It is not 0 or 1: modulate.Modulate maps any non-binary value
// to a neutral 0 sample, so the tail systematic position carries no
// channel information rather than a false "bit 0".
const tailSentinel = -1

// Encoder composes two constituent encoders with an interleaver. The two
// constituents are conceptual duplicates, not a shared mutable instance:
// each owns its own register.
type Encoder struct {
	il   *interleave.Interleaver
	enc0 convcode.Encoder
	enc1 convcode.Encoder
	n    int
}

// NewEncoder builds a turbo encoder from an interleaver and two constituent
// encoders (typically two independent RSC encoders over the same trellis).
func NewEncoder(il *interleave.Interleaver, enc0, enc1 convcode.Encoder) *Encoder {
	return &Encoder{il: il, enc0: enc0, enc1: enc1, n: enc0.RateOut()}
}

// NewDefaultEncoder builds a turbo encoder using two independent RSC
// encoders over the same trellis, the conceptual-duplicate default the
// spec describes.
func NewDefaultEncoder(il *interleave.Interleaver, tr *trellis.Trellis) *Encoder {
	return NewEncoder(il, convcode.NewRSC(tr), convcode.NewRSC(tr))
}

// BlockWidth returns 1 + 2*(n-1), the width of one multiplexed output block.
func (e *Encoder) BlockWidth() int {
	return 1 + 2*(e.n-1)
}

// Encode encodes x (length N) into the multiplexed bit sequence: each
// trellis step emits [x_k, p0_{k,0..n-2}, p1_{k,0..n-2}]. The systematic
// position during either constituent's tail (k >= N) carries no information
// bit, so it is filled with tailSentinel rather than 0: 0 is a genuine bit
// value that modulates to a confident -1, while tailSentinel modulates to a
// neutral 0 sample.
func (e *Encoder) Encode(x []int) ([]int, error) {
	n := e.il.Len()
	if len(x) != n {
		return nil, fmt.Errorf("%w: got %d want %d", ErrFrameLengthMismatch, len(x), n)
	}

	tr0 := e.enc0.EncodeFrame(x)
	xInt, err := e.il.Interleave(x)
	if err != nil {
		return nil, err
	}
	tr1 := e.enc1.EncodeFrame(xInt)

	t0, t1 := len(tr0), len(tr1)
	t := t0
	if t1 > t {
		t = t1
	}

	width := e.BlockWidth()
	parityWidth := e.n - 1
	out := make([]int, 0, t*width)
	for k := 0; k < t; k++ {
		xk := tailSentinel
		if k < n {
			xk = x[k]
		}
		out = append(out, xk)

		if k < t0 {
			out = append(out, tr0[k].Output[1:]...)
		} else {
			out = append(out, make([]int, parityWidth)...)
		}

		if k < t1 {
			out = append(out, tr1[k].Output[1:]...)
		} else {
			out = append(out, make([]int, parityWidth)...)
		}
	}
	return out, nil
}
