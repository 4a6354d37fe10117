package metrics

import (
	"sort"
	"sync"
)

// Stat holds the accumulated counters for one Eb/N0 operating point.
type Stat struct {
	Frames    uint64
	BitErrors uint64
	BitsTotal uint64
}

// BER returns the bit error rate for this operating point.
func (s Stat) BER() float64 {
	if s.BitsTotal == 0 {
		return 0
	}
	return float64(s.BitErrors) / float64(s.BitsTotal)
}

// Collector collects turbo BER simulation metrics, keyed by Eb/N0 (dB).
type Collector struct {
	mu    sync.RWMutex
	stats map[float64]*Stat
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{stats: make(map[float64]*Stat)}
}

// RecordFrame records the outcome of one decoded frame at the given Eb/N0.
func (c *Collector) RecordFrame(ebN0dB float64, bitErrors, bitsTotal int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.stats[ebN0dB]
	if !ok {
		s = &Stat{}
		c.stats[ebN0dB] = s
	}
	s.Frames++
	s.BitErrors += uint64(bitErrors)
	s.BitsTotal += uint64(bitsTotal)
}

// Get returns a copy of the stat for one Eb/N0 point.
func (c *Collector) Get(ebN0dB float64) Stat {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if s, ok := c.stats[ebN0dB]; ok {
		return *s
	}
	return Stat{}
}

// EbN0s returns the sorted list of Eb/N0 points recorded so far.
func (c *Collector) EbN0s() []float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]float64, 0, len(c.stats))
	for k := range c.stats {
		out = append(out, k)
	}
	sort.Float64s(out)
	return out
}

// TotalFrames returns the sum of frames recorded across every Eb/N0 point.
func (c *Collector) TotalFrames() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var total uint64
	for _, s := range c.stats {
		total += s.Frames
	}
	return total
}

// Reset clears all recorded metrics (useful for testing).
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = make(map[float64]*Stat)
}
