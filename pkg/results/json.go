package results

import (
	"encoding/json"
	"fmt"
	"os"
)

// RepeatCounts mirrors simconfig.RepeatCounts for the JSON output contract:
// a bare integer when one count is shared across every Eb/N0 point, or an
// array with one count per point.
type RepeatCounts []int

// MarshalJSON emits a bare number when every point shares one count, and an
// array otherwise.
func (rc RepeatCounts) MarshalJSON() ([]byte, error) {
	if len(rc) == 1 {
		return []byte(fmt.Sprintf("%d", rc[0])), nil
	}
	buf := []byte{'['}
	for i, v := range rc {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, []byte(fmt.Sprintf("%d", v))...)
	}
	buf = append(buf, ']')
	return buf, nil
}

// ResultGroup is one sweep configuration's outcome: parallel ebn0s/bers
// arrays plus the configuration that produced them.
type ResultGroup struct {
	EbN0s       []float64    `json:"ebn0s"`
	Bers        []float64    `json:"bers"`
	Description string       `json:"description"`
	FrameLength int          `json:"frame_length"`
	RepeatCount RepeatCounts `json:"repeat_count"`
}

// Report is the harness-level persisted output artifact: run bookkeeping
// plus the per-configuration BER sweep results.
type Report struct {
	Date        string        `json:"date"`
	TimeElapsed float64       `json:"time_elapsed"`
	Specimens   int           `json:"specimens"`
	Processes   int           `json:"processes"`
	LogFile     string        `json:"log_file"`
	Results     []ResultGroup `json:"results"`
}

// WriteJSON marshals a Report to path as indented JSON.
func WriteJSON(path string, report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
