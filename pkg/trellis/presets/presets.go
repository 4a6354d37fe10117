// Package presets provides named trellis tables selectable by name, mirroring
// the hardcoded lookup-table-by-name selection the reference implementation's
// run scripts used (run_zero.py, run_diff_const.py picking among
// abrantes_convo213, gzl_rsc, jordan_nichols_rsc by name).
package presets

import (
	"fmt"

	"github.com/dbehnke/turbosim/pkg/trellis"
)

// RSC4 returns the canonical 4-state, rate-1/2 recursive systematic
// convolutional trellis used as the default turbo constituent throughout
// this module (feedback polynomial 1 + D + D^2, feedforward polynomial
// 1 + D^2).
func RSC4() (*trellis.Trellis, error) {
	tbl := trellis.Table{
		0: {
			OnZero: trellis.Transition{Output: []int{0, 0}, Next: 0},
			OnOne:  trellis.Transition{Output: []int{1, 1}, Next: 2},
		},
		1: {
			OnZero: trellis.Transition{Output: []int{0, 0}, Next: 2},
			OnOne:  trellis.Transition{Output: []int{1, 1}, Next: 0},
		},
		2: {
			OnZero: trellis.Transition{Output: []int{0, 1}, Next: 3},
			OnOne:  trellis.Transition{Output: []int{1, 0}, Next: 1},
		},
		3: {
			OnZero: trellis.Transition{Output: []int{0, 1}, Next: 1},
			OnOne:  trellis.Transition{Output: []int{1, 0}, Next: 3},
		},
	}
	return trellis.New(tbl)
}

// Names lists the presets accepted by Build. RSC4 is the only trellis
// shipped: its tail-termination behavior under convcode.RSC's generic
// feedback rule (tail input = XOR of the current state's binary digits) is
// exercised by pkg/convcode and pkg/bcjr's tests. A deeper RSC8-style
// constituent is a natural extension but isn't included here since its
// register-feedback construction would need the same verification and
// nothing in this repo runs the toolchain to confirm it terminates for
// every state.
var Names = []string{"rsc4"}

// Build looks up a trellis by name (case-sensitive, one of Names).
func Build(name string) (*trellis.Trellis, error) {
	switch name {
	case "rsc4":
		return RSC4()
	default:
		return nil, fmt.Errorf("presets: unknown trellis %q (want one of %v)", name, Names)
	}
}
