package convcode

import (
	"testing"

	"github.com/dbehnke/turbosim/pkg/trellis"
)

func rsc4() *trellis.Trellis {
	tbl := trellis.Table{
		0: {OnZero: trellis.Transition{Output: []int{0, 0}, Next: 0}, OnOne: trellis.Transition{Output: []int{1, 1}, Next: 2}},
		1: {OnZero: trellis.Transition{Output: []int{0, 0}, Next: 2}, OnOne: trellis.Transition{Output: []int{1, 1}, Next: 0}},
		2: {OnZero: trellis.Transition{Output: []int{0, 1}, Next: 3}, OnOne: trellis.Transition{Output: []int{1, 0}, Next: 1}},
		3: {OnZero: trellis.Transition{Output: []int{0, 1}, Next: 1}, OnOne: trellis.Transition{Output: []int{1, 0}, Next: 3}},
	}
	tr, err := trellis.New(tbl)
	if err != nil {
		panic(err)
	}
	return tr
}

// nsc4 is a 4-state feed-forward (non-recursive) rate-1/2 trellis with
// generators 1+D+D^2 and 1+D^2; zero inputs flush it to state 0.
func nsc4() *trellis.Trellis {
	tbl := trellis.Table{
		0: {OnZero: trellis.Transition{Output: []int{0, 0}, Next: 0}, OnOne: trellis.Transition{Output: []int{1, 1}, Next: 2}},
		1: {OnZero: trellis.Transition{Output: []int{1, 1}, Next: 0}, OnOne: trellis.Transition{Output: []int{0, 0}, Next: 2}},
		2: {OnZero: trellis.Transition{Output: []int{1, 0}, Next: 1}, OnOne: trellis.Transition{Output: []int{0, 1}, Next: 3}},
		3: {OnZero: trellis.Transition{Output: []int{0, 1}, Next: 1}, OnOne: trellis.Transition{Output: []int{1, 0}, Next: 3}},
	}
	tr, err := trellis.New(tbl)
	if err != nil {
		panic(err)
	}
	return tr
}

// TestRSCEncodeFrame checks scenario S3 from spec §8.
func TestRSCEncodeFrame(t *testing.T) {
	enc := NewRSC(rsc4())
	out := enc.EncodeFrame([]int{1, 0, 0, 0})

	want := [][2]int{{1, 1}, {0, 1}, {0, 1}, {0, 0}}
	if len(out) < len(want) {
		t.Fatalf("expected at least %d transitions, got %d", len(want), len(out))
	}
	for i, w := range want {
		if out[i].Output[0] != w[0] || out[i].Output[1] != w[1] {
			t.Fatalf("transition %d: got %v want %v", i, out[i].Output, w)
		}
	}
}

// TestEncoderReturnsToZero verifies invariant 3 from spec §8 for both variants.
func TestEncoderReturnsToZero(t *testing.T) {
	for _, enc := range []Encoder{NewRSC(rsc4()), NewPlain(nsc4())} {
		enc.EncodeFrame([]int{1, 1, 0, 1, 0, 0, 1})
		switch e := enc.(type) {
		case *RSC:
			if e.state != 0 {
				t.Fatalf("RSC did not return to zero state: %d", e.state)
			}
		case *Plain:
			if e.state != 0 {
				t.Fatalf("Plain did not return to zero state: %d", e.state)
			}
		}
	}
}

func TestPassEncodeFrame(t *testing.T) {
	p := NewPass()
	bits := []int{1, 0, 1, 1, 0}
	out := p.EncodeFrame(bits)
	if len(out) != len(bits) {
		t.Fatalf("expected %d outputs, got %d", len(bits), len(out))
	}
	for i, b := range bits {
		if out[i].Output[0] != b {
			t.Fatalf("index %d: got %d want %d", i, out[i].Output[0], b)
		}
	}
	if p.RateOut() != 1 {
		t.Fatalf("expected RateOut()==1, got %d", p.RateOut())
	}
}

func TestPlainTailIsZero(t *testing.T) {
	enc := NewPlain(nsc4())
	out := enc.EncodeFrame([]int{1, 0, 1})
	// The tail transitions (after the 3 input-driven ones) must have used input 0.
	// We can't observe the input directly, but we can check the encoder ends at 0.
	if enc.state != 0 {
		t.Fatalf("expected state 0 after encode, got %d", enc.state)
	}
	if len(out) < 3 {
		t.Fatalf("expected at least 3 transitions, got %d", len(out))
	}
}
