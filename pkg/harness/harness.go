// Package harness drives a BER sweep across a set of Eb/N0 operating
// points: for each point it runs a worker pool of specimens over random
// frames, encoding, modulating, transmitting over an AWGN channel,
// decoding, and accumulating bit-error statistics, then publishes progress
// and persists the results.
package harness

import (
	"context"
	"math/rand"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/dbehnke/turbosim/pkg/channel"
	"github.com/dbehnke/turbosim/pkg/dashboard"
	"github.com/dbehnke/turbosim/pkg/interleave"
	"github.com/dbehnke/turbosim/pkg/logger"
	"github.com/dbehnke/turbosim/pkg/metrics"
	"github.com/dbehnke/turbosim/pkg/modulate"
	"github.com/dbehnke/turbosim/pkg/notify"
	"github.com/dbehnke/turbosim/pkg/results"
	"github.com/dbehnke/turbosim/pkg/simconfig"
	"github.com/dbehnke/turbosim/pkg/trellis"
	"github.com/dbehnke/turbosim/pkg/turbo"
)

// Encoder is the subset of *turbo.Encoder the harness drives.
type Encoder interface {
	Encode(x []int) ([]int, error)
}

// Decoder is the subset of *turbo.Decoder the harness drives.
type Decoder interface {
	Decode(z []float64, lc float64, iterations int) ([]int, error)
}

// EncoderFactory builds a fresh constituent encoder pair for one worker.
// Each worker gets its own instances so concurrent specimens never share
// encoder register state.
type EncoderFactory func(il *interleave.Interleaver, tr *trellis.Trellis) Encoder

// DecoderFactory builds a fresh decoder for one worker.
type DecoderFactory func(il *interleave.Interleaver, tr *trellis.Trellis) Decoder

// DefaultEncoderFactory builds the standard turbo encoder: two independent
// RSC constituents over the same trellis.
func DefaultEncoderFactory(il *interleave.Interleaver, tr *trellis.Trellis) Encoder {
	return turbo.NewDefaultEncoder(il, tr)
}

// DefaultDecoderFactory builds the matching turbo decoder.
func DefaultDecoderFactory(il *interleave.Interleaver, tr *trellis.Trellis) Decoder {
	return turbo.NewDecoder(il, tr)
}

// Deps bundles the harness's optional collaborators. Any of these may be
// nil, in which case that side effect is skipped.
type Deps struct {
	Collector *metrics.Collector
	Dashboard *dashboard.Hub
	Notifier  *notify.Publisher
	Store     *results.Store
	JSONPath  string
	LogFile   string
}

// specimenResult is one Eb/N0 point's accumulated outcome.
type specimenResult struct {
	EbN0dB    float64
	Frames    uint64
	BitErrors uint64
	BitsTotal uint64
}

func (r specimenResult) ber() float64 {
	if r.BitsTotal == 0 {
		return 0
	}
	return float64(r.BitErrors) / float64(r.BitsTotal)
}

// Run executes a full BER sweep: one specimen per configured Eb/N0 point,
// dispatched to a worker pool bounded by cfg.Workers. It returns the
// completed run record and persists it via deps.Store/deps.JSONPath when
// configured.
func Run(ctx context.Context, cfg *simconfig.Config, tr *trellis.Trellis, il *interleave.Interleaver,
	encFactory EncoderFactory, decFactory DecoderFactory, log *logger.Logger, deps Deps) (results.RunRecord, error) {

	run := results.RunRecord{
		ID:          results.NewRunID(),
		Description: "turbosim sweep",
		Trellis:     cfg.Trellis,
		Interleaver: cfg.Interleaver.Type,
		FrameLength: cfg.FrameLength,
		Iterations:  cfg.Iterations,
		CreatedAt:   time.Now(),
	}

	if deps.Store != nil {
		if err := deps.Store.SaveRun(&run); err != nil {
			log.Warn("failed to save run record", logger.Error(err))
		}
	}

	startTime := time.Now()
	rate := 1.0 / float64(1+2*(tr.N()-1))

	p := pool.New().WithMaxGoroutines(cfg.Workers).WithErrors().WithContext(ctx)
	specimenResults := make([]specimenResult, len(cfg.EbN0s))

	for i, ebN0dB := range cfg.EbN0s {
		i, ebN0dB := i, ebN0dB
		seed := int64(i) + 1
		frames := cfg.RepeatCount.ForIndex(i)
		p.Go(func(ctx context.Context) error {
			r, err := runSpecimen(ctx, cfg, tr, il, encFactory, decFactory, rate, ebN0dB, frames, seed, deps.Collector)
			if err != nil {
				return err
			}
			specimenResults[i] = r

			log.Info("specimen complete",
				logger.Float64("ebn0_db", r.EbN0dB),
				logger.Int("frames", int(r.Frames)),
				logger.Float64("ber", r.ber()))

			if deps.Dashboard != nil {
				deps.Dashboard.BroadcastProgress(dashboard.ProgressEvent{
					EbN0dB: r.EbN0dB, Frames: r.Frames, BitErrors: r.BitErrors,
					BitsTotal: r.BitsTotal, BER: r.ber(),
				})
			}
			if deps.Notifier != nil {
				_ = deps.Notifier.PublishResult(notify.ResultEvent{
					RunID: run.ID, Trellis: run.Trellis, EbN0dB: r.EbN0dB,
					Frames: r.Frames, BitErrors: r.BitErrors, BitsTotal: r.BitsTotal,
					BER: r.ber(), Timestamp: time.Now(),
				})
			}
			if deps.Store != nil {
				sr := &results.SimulationResult{
					RunID: run.ID, EbN0dB: r.EbN0dB, Frames: r.Frames,
					BitErrors: r.BitErrors, BitsTotal: r.BitsTotal, BER: r.ber(),
					CreatedAt: time.Now(),
				}
				if err := deps.Store.SaveResult(sr); err != nil {
					log.Warn("failed to save result", logger.Error(err))
				}
			}
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return run, err
	}

	ebn0s := make([]float64, len(specimenResults))
	bers := make([]float64, len(specimenResults))
	for i, r := range specimenResults {
		ebn0s[i] = r.EbN0dB
		bers[i] = r.ber()
	}

	if deps.JSONPath != "" {
		report := results.Report{
			Date:        startTime.Format(time.RFC3339),
			TimeElapsed: time.Since(startTime).Seconds(),
			Specimens:   len(cfg.EbN0s),
			Processes:   cfg.Workers,
			LogFile:     deps.LogFile,
			Results: []results.ResultGroup{
				{
					EbN0s:       ebn0s,
					Bers:        bers,
					Description: run.Description,
					FrameLength: cfg.FrameLength,
					RepeatCount: results.RepeatCounts(cfg.RepeatCount),
				},
			},
		}
		if err := results.WriteJSON(deps.JSONPath, report); err != nil {
			log.Warn("failed to write json report", logger.Error(err))
		}
	}

	if deps.Notifier != nil {
		_ = deps.Notifier.PublishRunComplete(notify.RunCompleteEvent{
			RunID: run.ID, Points: len(specimenResults), Timestamp: time.Now(),
		})
	}

	return run, nil
}

// runSpecimen runs frames frames at one Eb/N0 point and returns the
// accumulated bit-error statistics, recording each frame in collector when
// it is non-nil. Each specimen gets its own rng, encoder, and decoder so
// specimens never share mutable state.
func runSpecimen(ctx context.Context, cfg *simconfig.Config, tr *trellis.Trellis, il *interleave.Interleaver,
	encFactory EncoderFactory, decFactory DecoderFactory, rate, ebN0dB float64, frames int, seed int64,
	collector *metrics.Collector) (specimenResult, error) {

	enc := encFactory(il, tr)
	dec := decFactory(il, tr)

	ebN0 := channel.EbN0FromDB(ebN0dB)
	sigma := channel.SigmaFromEbN0(rate, ebN0)
	lc := channel.ReliabilityLc(rate, ebN0)
	if cfg.LcOverride != 0 {
		lc = cfg.LcOverride
	}
	ch := channel.New(sigma, rand.New(rand.NewSource(seed)))

	result := specimenResult{EbN0dB: ebN0dB}
	bitsRng := rand.New(rand.NewSource(seed + 1))

	for f := 0; f < frames; f++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		bits := make([]int, cfg.FrameLength)
		for i := range bits {
			bits[i] = bitsRng.Intn(2)
		}

		codeword, err := enc.Encode(bits)
		if err != nil {
			return result, err
		}

		modulated := modulate.ModulateBits(codeword)
		noisy := ch.Transmit(modulated)

		decoded, err := dec.Decode(noisy, lc, cfg.Iterations)
		if err != nil {
			return result, err
		}

		n := len(bits)
		if len(decoded) < n {
			n = len(decoded)
		}
		errors := 0
		for i := 0; i < n; i++ {
			if bits[i] != decoded[i] {
				errors++
			}
		}
		errors += len(bits) - n

		if collector != nil {
			collector.RecordFrame(ebN0dB, errors, len(bits))
		}
		result.Frames++
		result.BitErrors += uint64(errors)
		result.BitsTotal += uint64(len(bits))
	}

	return result, nil
}
