package harness

import (
	"context"
	"testing"

	"github.com/dbehnke/turbosim/pkg/dashboard"
	"github.com/dbehnke/turbosim/pkg/interleave"
	"github.com/dbehnke/turbosim/pkg/logger"
	"github.com/dbehnke/turbosim/pkg/metrics"
	"github.com/dbehnke/turbosim/pkg/simconfig"
	"github.com/dbehnke/turbosim/pkg/trellis/presets"
)

func testConfig(frameLength, width, height int) *simconfig.Config {
	return &simconfig.Config{
		FrameLength: frameLength,
		Trellis:     "rsc4",
		Interleaver: simconfig.InterleaverConfig{Type: "block", Width: width, Height: height},
		EbN0s:       []float64{1.0, 3.0},
		RepeatCount: simconfig.RepeatCounts{5},
		Iterations:  2,
		Workers:     2,
	}
}

func TestRun_ProducesOneResultPerEbN0(t *testing.T) {
	cfg := testConfig(20, 4, 5)
	tr, err := presets.Build(cfg.Trellis)
	if err != nil {
		t.Fatalf("failed to build trellis: %v", err)
	}
	il, err := interleave.NewBlock(cfg.Interleaver.Width, cfg.Interleaver.Height)
	if err != nil {
		t.Fatalf("failed to build interleaver: %v", err)
	}

	collector := metrics.NewCollector()
	log := logger.New(logger.Config{Level: "error"})

	run, err := Run(context.Background(), cfg, tr, il, DefaultEncoderFactory, DefaultDecoderFactory, log, Deps{
		Collector: collector,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if run.ID == "" {
		t.Error("expected non-empty run ID")
	}

	ebn0s := collector.EbN0s()
	if len(ebn0s) != len(cfg.EbN0s) {
		t.Fatalf("expected %d recorded Eb/N0 points, got %d", len(cfg.EbN0s), len(ebn0s))
	}
	for i, ebN0dB := range cfg.EbN0s {
		frames := cfg.RepeatCount.ForIndex(i)
		stat := collector.Get(ebN0dB)
		if stat.Frames != uint64(frames) {
			t.Errorf("ebn0=%v: expected %d frames, got %d", ebN0dB, frames, stat.Frames)
		}
		if stat.BitsTotal != uint64(frames*cfg.FrameLength) {
			t.Errorf("ebn0=%v: expected %d bits total, got %d", ebN0dB, frames*cfg.FrameLength, stat.BitsTotal)
		}
	}
}

func TestRun_BroadcastsDashboardProgress(t *testing.T) {
	cfg := testConfig(20, 4, 5)
	cfg.EbN0s = []float64{5.0}
	tr, _ := presets.Build(cfg.Trellis)
	il, _ := interleave.NewBlock(cfg.Interleaver.Width, cfg.Interleaver.Height)

	log := logger.New(logger.Config{Level: "error"})
	hub := dashboard.NewHub(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	_, err := Run(ctx, cfg, tr, il, DefaultEncoderFactory, DefaultDecoderFactory, log, Deps{Dashboard: hub})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

func TestRun_RespectsContextCancellation(t *testing.T) {
	cfg := testConfig(20, 4, 5)
	cfg.RepeatCount = simconfig.RepeatCounts{1000}
	tr, _ := presets.Build(cfg.Trellis)
	il, _ := interleave.NewBlock(cfg.Interleaver.Width, cfg.Interleaver.Height)
	log := logger.New(logger.Config{Level: "error"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, cfg, tr, il, DefaultEncoderFactory, DefaultDecoderFactory, log, Deps{})
	if err == nil {
		t.Error("expected an error from a pre-cancelled context")
	}
}
