// Package channel simulates the additive white Gaussian noise (AWGN)
// channel the pipeline transmits modulated symbols over, and derives the
// channel reliability and noise standard deviation from an Eb/N0 operating
// point.
package channel

import (
	"math"
	"math/rand"
)

// AWGN is a BPSK AWGN channel at a fixed noise standard deviation.
type AWGN struct {
	sigma float64
	rng   *rand.Rand
}

// New builds an AWGN channel with the given noise standard deviation. rng
// may be nil, in which case a new source with the fixed seed 1 is used; pass
// an explicit *rand.Rand to choose the seed.
func New(sigma float64, rng *rand.Rand) *AWGN {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &AWGN{sigma: sigma, rng: rng}
}

// Transmit adds independent Gaussian noise of standard deviation sigma to
// each symbol in x, returning a new slice.
func (c *AWGN) Transmit(x []float64) []float64 {
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = v + c.sigma*c.rng.NormFloat64()
	}
	return y
}

// Sigma returns the channel's noise standard deviation.
func (c *AWGN) Sigma() float64 { return c.sigma }

// SigmaFromEbN0 derives the AWGN noise standard deviation for a BPSK
// channel at the given code rate and Eb/N0 (linear, not dB):
// sigma = sqrt(1 / (2 * rate * EbN0)).
func SigmaFromEbN0(rate, ebN0 float64) float64 {
	return math.Sqrt(1 / (2 * rate * ebN0))
}

// ReliabilityLc returns the channel reliability value Lc = 4 * rate * EbN0
// the BCJR gamma computation uses to weight the channel observation.
func ReliabilityLc(rate, ebN0 float64) float64 {
	return 4 * rate * ebN0
}

// EbN0FromDB converts an Eb/N0 value in decibels to linear scale.
func EbN0FromDB(db float64) float64 {
	return math.Pow(10, db/10)
}

// BER computes the bit error rate between two equal-length bit slices.
func BER(tx, rx []int) float64 {
	if len(tx) == 0 {
		return 0
	}
	errs := 0
	for i := range tx {
		if tx[i] != rx[i] {
			errs++
		}
	}
	return float64(errs) / float64(len(tx))
}
