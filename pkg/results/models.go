// Package results persists simulation run metadata and per-Eb/N0 BER
// results, both as a JSON artifact and in a gorm/sqlite run-history store.
package results

import (
	"time"

	"github.com/google/uuid"
)

// RunRecord describes one simulation sweep invocation.
type RunRecord struct {
	ID          string    `gorm:"primarykey" json:"id"`
	Description string    `json:"description"`
	Trellis     string    `gorm:"index" json:"trellis"`
	Interleaver string    `json:"interleaver"`
	FrameLength int       `json:"frame_length"`
	Iterations  int       `json:"iterations"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for RunRecord.
func (RunRecord) TableName() string { return "runs" }

// SimulationResult is the BER outcome for one Eb/N0 operating point within
// a run.
type SimulationResult struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	RunID     string    `gorm:"index;not null" json:"run_id"`
	EbN0dB    float64   `gorm:"column:eb_n0_db;not null" json:"ebn0_db"`
	Frames    uint64    `json:"frames"`
	BitErrors uint64    `json:"bit_errors"`
	BitsTotal uint64    `json:"bits_total"`
	BER       float64   `json:"ber"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for SimulationResult.
func (SimulationResult) TableName() string { return "simulation_results" }

// NewRunID generates a new unique run identifier.
func NewRunID() string {
	return uuid.NewString()
}
