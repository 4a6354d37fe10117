package results

import (
	"os"
	"testing"

	"github.com/dbehnke/turbosim/pkg/logger"
)

func TestNewStore(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	dbPath := "/tmp/test_turbosim_store.db"
	defer func() { _ = os.Remove(dbPath) }()

	store, err := NewStore(Config{Path: dbPath}, log)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = store.Close() }()

	if store.db == nil {
		t.Error("expected non-nil database connection")
	}
}

func TestStore_SaveRunAndResults(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	dbPath := "/tmp/test_turbosim_store_runs.db"
	defer func() { _ = os.Remove(dbPath) }()

	store, err := NewStore(Config{Path: dbPath}, log)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = store.Close() }()

	run := &RunRecord{ID: NewRunID(), Description: "test sweep", Trellis: "rsc4", FrameLength: 1000, Iterations: 4}
	if err := store.SaveRun(run); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	result := &SimulationResult{RunID: run.ID, EbN0dB: 2.0, Frames: 10, BitErrors: 5, BitsTotal: 10000, BER: 0.0005}
	if err := store.SaveResult(result); err != nil {
		t.Fatalf("failed to save result: %v", err)
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].ID != run.ID {
		t.Errorf("got run id %s want %s", runs[0].ID, run.ID)
	}

	results, err := store.ResultsForRun(run.ID)
	if err != nil {
		t.Fatalf("failed to list results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].EbN0dB != 2.0 {
		t.Errorf("got ebn0 %v want 2.0", results[0].EbN0dB)
	}
}
