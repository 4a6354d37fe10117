package trellis

import "testing"

// rsc4Table is the 4-state RSC trellis from scenario S3.
func rsc4Table() Table {
	return Table{
		0: {OnZero: Transition{[]int{0, 0}, 0}, OnOne: Transition{[]int{1, 1}, 2}},
		1: {OnZero: Transition{[]int{0, 0}, 2}, OnOne: Transition{[]int{1, 1}, 0}},
		2: {OnZero: Transition{[]int{0, 1}, 3}, OnOne: Transition{[]int{1, 0}, 1}},
		3: {OnZero: Transition{[]int{0, 1}, 1}, OnOne: Transition{[]int{1, 0}, 3}},
	}
}

func TestNew_Valid(t *testing.T) {
	tr, err := New(rsc4Table())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.N() != 2 {
		t.Fatalf("expected n=2, got %d", tr.N())
	}
	if tr.States() != 4 {
		t.Fatalf("expected 4 states, got %d", tr.States())
	}
}

func TestNew_MissingState(t *testing.T) {
	tbl := rsc4Table()
	delete(tbl, 2)
	if _, err := New(tbl); err == nil {
		t.Fatal("expected error for missing state")
	}
}

func TestNew_InconsistentWidth(t *testing.T) {
	tbl := rsc4Table()
	e := tbl[1]
	e.OnOne.Output = []int{1, 1, 0}
	tbl[1] = e
	if _, err := New(tbl); err == nil {
		t.Fatal("expected error for inconsistent width")
	}
}

func TestTransitionAndModulated(t *testing.T) {
	tr, err := New(rsc4Table())
	if err != nil {
		t.Fatal(err)
	}
	got := tr.Transition(0, 1)
	if got.Next != 2 || got.Output[0] != 1 || got.Output[1] != 1 {
		t.Fatalf("unexpected transition: %+v", got)
	}
	mod := tr.ModulatedOutput(0, 1)
	if mod[0] != 1 || mod[1] != 1 {
		t.Fatalf("unexpected modulated output: %v", mod)
	}
	mod0 := tr.ModulatedOutput(0, 0)
	if mod0[0] != -1 || mod0[1] != -1 {
		t.Fatalf("unexpected modulated output on 0: %v", mod0)
	}
}

func TestPredecessors(t *testing.T) {
	tr, err := New(rsc4Table())
	if err != nil {
		t.Fatal(err)
	}
	preds := tr.Predecessors(0)
	// State 0 is reached from state 0 (on 0) and state 1 (on 1)
	found0, found1 := false, false
	for _, p := range preds {
		if p == 0 {
			found0 = true
		}
		if p == 1 {
			found1 = true
		}
	}
	if !found0 || !found1 {
		t.Fatalf("expected predecessors {0,1}, got %v", preds)
	}
}
