// Package convcode implements the closed family of convolutional encoder
// variants that walk a trellis.Trellis: a pass-through rate-1 baseline, a
// plain (non-recursive) convolutional encoder, and a recursive systematic
// (RSC) encoder used as a turbo constituent.
package convcode

import "github.com/dbehnke/turbosim/pkg/trellis"

// Encoder is the shared interface over the {Pass, Plain, RSC} family.
type Encoder interface {
	// EncodeFrame encodes bits, appends tail transitions driving the
	// encoder back to state 0 (Pass appends none), and resets internal
	// state before returning so the encoder is ready for the next frame.
	EncodeFrame(bits []int) []trellis.Transition
	// Reset sets the encoder's register state back to the zero state.
	Reset()
	// RateOut returns the number of output symbols produced per input bit
	// (ignoring tail bits), i.e. the trellis's n for Plain/RSC, 1 for Pass.
	RateOut() int
}

// Pass is the rate-1, no-tail identity encoder used for uncoded baseline
// BER curves: EncodeFrame(bits) == bits, one output symbol per bit.
type Pass struct{}

// NewPass constructs a pass-through encoder.
func NewPass() *Pass { return &Pass{} }

// EncodeFrame returns bits unchanged, each wrapped as a length-1 output tuple.
func (p *Pass) EncodeFrame(bits []int) []trellis.Transition {
	out := make([]trellis.Transition, len(bits))
	for i, b := range bits {
		out[i] = trellis.Transition{Output: []int{b}, Next: 0}
	}
	return out
}

// Reset is a no-op; Pass carries no state.
func (p *Pass) Reset() {}

// RateOut is always 1 for the pass-through encoder.
func (p *Pass) RateOut() int { return 1 }

// Plain is a feed-forward convolutional encoder: the tail input driving the
// register back to state 0 is always 0.
type Plain struct {
	tr    *trellis.Trellis
	state int
}

// NewPlain constructs a Plain encoder over tr, starting at state 0.
func NewPlain(tr *trellis.Trellis) *Plain {
	return &Plain{tr: tr}
}

// Reset sets the register state back to 0.
func (e *Plain) Reset() { e.state = 0 }

// RateOut returns the trellis's output width n.
func (e *Plain) RateOut() int { return e.tr.N() }

// EncodeBit looks up the transition for the current state and input bit,
// updates state, and returns the output tuple.
func (e *Plain) EncodeBit(b int) []int {
	tr := e.tr.Transition(e.state, b)
	e.state = tr.Next
	return tr.Output
}

// EncodeFrame encodes every input bit, then drives the register back to
// state 0 with zero-input tail transitions, resetting state afterward.
func (e *Plain) EncodeFrame(bits []int) []trellis.Transition {
	e.state = 0
	out := make([]trellis.Transition, 0, len(bits)+e.tr.States())
	for _, b := range bits {
		tr := e.tr.Transition(e.state, b)
		out = append(out, tr)
		e.state = tr.Next
	}
	for e.state != 0 {
		tr := e.tr.Transition(e.state, 0)
		out = append(out, tr)
		e.state = tr.Next
	}
	return out
}

// RSC is a recursive systematic convolutional encoder: the tail input
// driving the register back to state 0 is the XOR of the current state's
// binary digits (register feedback), which for a recursive code zeros the
// register.
type RSC struct {
	tr    *trellis.Trellis
	state int
}

// NewRSC constructs an RSC encoder over tr, starting at state 0.
func NewRSC(tr *trellis.Trellis) *RSC {
	return &RSC{tr: tr}
}

// Reset sets the register state back to 0.
func (e *RSC) Reset() { e.state = 0 }

// RateOut returns the trellis's output width n.
func (e *RSC) RateOut() int { return e.tr.N() }

// EncodeBit looks up the transition for the current state and input bit,
// updates state, and returns the output tuple.
func (e *RSC) EncodeBit(b int) []int {
	tr := e.tr.Transition(e.state, b)
	e.state = tr.Next
	return tr.Output
}

// tailInput returns the feedback bit (XOR of the state's binary digits)
// that drives the recursive register toward all-zeros.
func tailInput(state int) int {
	parity := 0
	for state > 0 {
		parity ^= state & 1
		state >>= 1
	}
	return parity
}

// EncodeFrame encodes every input bit, then drives the register back to
// state 0 using the feedback tail rule, resetting state afterward.
func (e *RSC) EncodeFrame(bits []int) []trellis.Transition {
	e.state = 0
	out := make([]trellis.Transition, 0, len(bits)+e.tr.States())
	for _, b := range bits {
		tr := e.tr.Transition(e.state, b)
		out = append(out, tr)
		e.state = tr.Next
	}
	for e.state != 0 {
		tail := tailInput(e.state)
		tr := e.tr.Transition(e.state, tail)
		out = append(out, tr)
		e.state = tr.Next
	}
	return out
}
