// Package bcjr implements the symbol-wise maximum a posteriori (MAP / BCJR)
// decoder: forward (alpha), backward (beta) and transition (gamma) metric
// computation over a trellis, and log-likelihood-ratio (LLR) extraction.
//
// The implementation stays in the probability domain as the source
// algorithm does (see spec §9), with optional per-step renormalization
// (NewDecode's renormalize flag; BinaryMAP sets it above 30 steps) so frames
// longer than a few dozen steps do not underflow alpha/beta to zero.
package bcjr

import (
	"errors"
	"fmt"
	"math"

	"github.com/dbehnke/turbosim/pkg/modulate"
	"github.com/dbehnke/turbosim/pkg/trellis"
)

// ErrInvalidInput is returned when the noisy sequence length is not a
// multiple of the trellis's output width.
var ErrInvalidInput = errors.New("bcjr: noisy sequence length is not a multiple of trellis width")

// Lmax bounds the LLR sentinel emitted when one side of the likelihood
// ratio underflows to zero (spec §9 open question OQ-1): rather than the
// source's unconditional -Inf, the sign follows which side vanished.
const Lmax = 30

// renormTolerance is the mass threshold below which a step's alpha/beta
// total is treated as already normalized (avoids dividing by ~0).
const renormTolerance = 1e-300

// Decode holds the inputs to one MAP decode and the ephemeral gamma/alpha/
// beta buffers used to compute it. Buffers may be reused across calls
// within one turbo decode (see spec §5 resource policy) via Reuse.
type Decode struct {
	tr          *trellis.Trellis
	t           int // number of trellis steps
	gamma       [][][2]float64 // [k][s][inputBit], only 2 entries per state (spec §9 memory note)
	alpha       [][]float64    // [T+1][S]
	beta        [][]float64    // [T+1][S]
	renormalize bool
}

// NewDecode allocates buffers sized for a trellis of the given step count.
// renormalize should be true for any frame longer than ~30 steps (spec §4.E);
// the turbo decoder always enables it.
func NewDecode(tr *trellis.Trellis, steps int, renormalize bool) *Decode {
	s := tr.States()
	d := &Decode{tr: tr, t: steps, renormalize: renormalize}
	d.gamma = make([][][2]float64, steps)
	for k := range d.gamma {
		d.gamma[k] = make([][2]float64, s)
	}
	d.alpha = make([][]float64, steps+1)
	d.beta = make([][]float64, steps+1)
	for k := range d.alpha {
		d.alpha[k] = make([]float64, s)
		d.beta[k] = make([]float64, s)
	}
	return d
}

// Reuse re-sizes d's buffers for a new step count if needed, so repeated
// calls within one turbo decode avoid reallocating O(T*S) floats every
// iteration.
func (d *Decode) Reuse(steps int) {
	if steps == d.t && len(d.gamma) == steps {
		return
	}
	s := d.tr.States()
	d.t = steps
	if cap(d.gamma) < steps {
		d.gamma = make([][][2]float64, steps)
		for k := range d.gamma {
			d.gamma[k] = make([][2]float64, s)
		}
	} else {
		d.gamma = d.gamma[:steps]
	}
	if cap(d.alpha) < steps+1 {
		d.alpha = make([][]float64, steps+1)
		d.beta = make([][]float64, steps+1)
		for k := range d.alpha {
			d.alpha[k] = make([]float64, s)
			d.beta[k] = make([]float64, s)
		}
	} else {
		d.alpha = d.alpha[:steps+1]
		d.beta = d.beta[:steps+1]
	}
}

// MAP computes the LLR vector for noisy sequence y (length T*n) given
// channel reliability lc and optional a-priori extrinsic le (zero-padded to
// T if shorter). y's length must be a multiple of the trellis's n.
func (d *Decode) MAP(y []float64, lc float64, le []float64) ([]float64, error) {
	n := d.tr.N()
	if len(y)%n != 0 {
		return nil, fmt.Errorf("%w: len=%d n=%d", ErrInvalidInput, len(y), n)
	}
	t := len(y) / n
	d.Reuse(t)

	s := d.tr.States()

	d.computeGamma(y, lc, le, t, n)
	d.computeAlpha(t, s)
	d.computeBeta(t, s)

	llr := make([]float64, t)
	for k := 0; k < t; k++ {
		var num, den float64
		for st := 0; st < s; st++ {
			tr1 := d.tr.Transition(st, 1)
			tr0 := d.tr.Transition(st, 0)
			num += d.alpha[k][st] * d.gamma[k][st][1] * d.beta[k+1][tr1.Next]
			den += d.alpha[k][st] * d.gamma[k][st][0] * d.beta[k+1][tr0.Next]
		}
		llr[k] = resolveLLR(num, den)
	}
	return llr, nil
}

func resolveLLR(num, den float64) float64 {
	switch {
	case num > 0 && den > 0:
		return math.Log(num / den)
	case num > 0 && den == 0:
		return Lmax
	case num == 0 && den > 0:
		return -Lmax
	default:
		return 0
	}
}

func (d *Decode) computeGamma(y []float64, lc float64, le []float64, t, n int) {
	s := d.tr.States()
	for k := 0; k < t; k++ {
		yk := y[k*n : (k+1)*n]
		var lek float64
		if k < len(le) {
			lek = le[k]
		}
		for st := 0; st < s; st++ {
			for b := 0; b < 2; b++ {
				c := d.tr.ModulatedOutput(st, b)
				var dot float64
				for j, cj := range c {
					dot += cj * yk[j]
				}
				x := modulate.Modulate(b)
				d.gamma[k][st][b] = math.Exp((lc/2)*dot) * math.Exp(x*lek/2)
			}
		}
	}
}

func (d *Decode) computeAlpha(t, s int) {
	for st := 0; st < s; st++ {
		d.alpha[0][st] = 0
	}
	d.alpha[0][0] = 1
	for k := 0; k < t; k++ {
		next := d.alpha[k+1]
		for st := range next {
			next[st] = 0
		}
		for st := 0; st < s; st++ {
			a := d.alpha[k][st]
			if a == 0 {
				continue
			}
			for b := 0; b < 2; b++ {
				tr := d.tr.Transition(st, b)
				next[tr.Next] += a * d.gamma[k][st][b]
			}
		}
		if d.renormalize {
			renormalize(next)
		}
	}
}

func (d *Decode) computeBeta(t, s int) {
	for st := 0; st < s; st++ {
		d.beta[t][st] = 0
	}
	d.beta[t][0] = 1
	for k := t - 1; k >= 0; k-- {
		cur := d.beta[k]
		for st := range cur {
			cur[st] = 0
		}
		for st := 0; st < s; st++ {
			var sum float64
			for b := 0; b < 2; b++ {
				tr := d.tr.Transition(st, b)
				sum += d.beta[k+1][tr.Next] * d.gamma[k][st][b]
			}
			cur[st] = sum
		}
		if d.renormalize {
			renormalize(cur)
		}
	}
}

func renormalize(v []float64) {
	var sum float64
	for _, x := range v {
		sum += x
	}
	if sum <= renormTolerance {
		return
	}
	for i := range v {
		v[i] /= sum
	}
}

// BinaryMAP decodes y to hard bits: demodulate(hard(map(y, lc, le))).
func BinaryMAP(tr *trellis.Trellis, y []float64, lc float64, le []float64) ([]int, error) {
	d := NewDecode(tr, len(y)/tr.N(), len(y)/tr.N() > 30)
	llr, err := d.MAP(y, lc, le)
	if err != nil {
		return nil, err
	}
	bits := make([]int, len(llr))
	for i, l := range llr {
		bits[i] = modulate.Demodulate(modulate.Hard(l))
	}
	return bits, nil
}
