// Package trellis models a rate-1/n convolutional code as a fixed,
// immutable state-transition table. It is the shared lookup structure
// every encoder and the BCJR decoder walk.
package trellis

import (
	"errors"
	"fmt"
)

// Errors returned by New when the caller-supplied table is malformed.
var (
	ErrMissingState       = errors.New("trellis: missing state in table")
	ErrInconsistentWidth  = errors.New("trellis: inconsistent output width")
	ErrNonBinaryOutput    = errors.New("trellis: output bit must be 0 or 1")
)

// Transition describes the result of feeding one input bit into one state:
// the ordered output tuple and the resulting next state.
type Transition struct {
	Output []int
	Next   int
}

// Entry is the caller-supplied description of both transitions out of a
// single state, keyed by input bit.
type Entry struct {
	OnZero Transition
	OnOne  Transition
}

// Table is the raw trellis definition: state -> (transition on 0, transition on 1).
// State 0 is the canonical zero state. Every key 0..len(Table)-1 must be present.
type Table map[int]Entry

// Trellis is an immutable, validated view of a Table, with the inverted
// (predecessor) table and a modulated ({-1,+1}) output view precomputed so
// neither has to be recomputed on every BCJR pass.
type Trellis struct {
	n            int
	states       int
	table        Table
	modTable     map[int]modEntry
	predecessors map[int][]int
}

type modEntry struct {
	onZero []float64
	onOne  []float64
}

// New validates tbl and builds a Trellis. Every state in 0..len(tbl)-1 must
// be present with both input transitions defined, and every output tuple
// must have the same, consistent width.
func New(tbl Table) (*Trellis, error) {
	if len(tbl) == 0 {
		return nil, fmt.Errorf("trellis: %w: table is empty", ErrMissingState)
	}

	n := -1
	for s := 0; s < len(tbl); s++ {
		entry, ok := tbl[s]
		if !ok {
			return nil, fmt.Errorf("trellis: %w: state %d", ErrMissingState, s)
		}
		for _, tr := range []Transition{entry.OnZero, entry.OnOne} {
			if n == -1 {
				n = len(tr.Output)
			}
			if len(tr.Output) != n {
				return nil, fmt.Errorf("trellis: %w: state %d", ErrInconsistentWidth, s)
			}
			for _, b := range tr.Output {
				if b != 0 && b != 1 {
					return nil, fmt.Errorf("trellis: %w: state %d", ErrNonBinaryOutput, s)
				}
			}
			if _, ok := tbl[tr.Next]; !ok {
				return nil, fmt.Errorf("trellis: %w: state %d transitions to undefined state %d", ErrMissingState, s, tr.Next)
			}
		}
	}

	t := &Trellis{
		n:            n,
		states:       len(tbl),
		table:        tbl,
		modTable:     make(map[int]modEntry, len(tbl)),
		predecessors: make(map[int][]int, len(tbl)),
	}
	for s, entry := range tbl {
		t.modTable[s] = modEntry{
			onZero: modulateTuple(entry.OnZero.Output),
			onOne:  modulateTuple(entry.OnOne.Output),
		}
		t.predecessors[entry.OnZero.Next] = append(t.predecessors[entry.OnZero.Next], s)
		t.predecessors[entry.OnOne.Next] = append(t.predecessors[entry.OnOne.Next], s)
	}
	return t, nil
}

func modulateTuple(bits []int) []float64 {
	out := make([]float64, len(bits))
	for i, b := range bits {
		if b == 1 {
			out[i] = 1
		} else {
			out[i] = -1
		}
	}
	return out
}

// N returns the code's output width per trellis step.
func (t *Trellis) N() int { return t.n }

// States returns the number of states in the trellis.
func (t *Trellis) States() int { return t.states }

// Transition returns the (output, next state) pair for state s on input bit b.
func (t *Trellis) Transition(s, b int) Transition {
	if b == 0 {
		return t.table[s].OnZero
	}
	return t.table[s].OnOne
}

// ModulatedOutput returns the pre-mapped ({-1,+1}) output tuple for state s
// on input bit b, avoiding a per-decode remapping of the raw table.
func (t *Trellis) ModulatedOutput(s, b int) []float64 {
	if b == 0 {
		return t.modTable[s].onZero
	}
	return t.modTable[s].onOne
}

// Predecessors returns the set of states that transition into s on some input.
func (t *Trellis) Predecessors(s int) []int {
	return t.predecessors[s]
}
