package results

import (
	"encoding/json"
	"os"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	path := "/tmp/test_turbosim_report.json"
	defer func() { _ = os.Remove(path) }()

	report := Report{
		Date:        "2024-01-01T00:00:00Z",
		TimeElapsed: 12.5,
		Specimens:   2,
		Processes:   4,
		LogFile:     "turbosim.log",
		Results: []ResultGroup{
			{
				EbN0s:       []float64{1.0, 2.0},
				Bers:        []float64{0.01, 0.001},
				Description: "turbosim sweep",
				FrameLength: 1000,
				RepeatCount: RepeatCounts{10},
			},
		},
	}

	if err := WriteJSON(path, report); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("failed to unmarshal written file: %v", err)
	}
	for _, key := range []string{"date", "time_elapsed", "specimens", "processes", "log_file", "results"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing top-level key %q in %s", key, data)
		}
	}

	var got Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("failed to unmarshal written file: %v", err)
	}
	if got.Specimens != 2 {
		t.Errorf("got specimens %d want 2", got.Specimens)
	}
	if len(got.Results) != 1 || len(got.Results[0].EbN0s) != 2 {
		t.Errorf("got results %+v", got.Results)
	}
	resultsRaw, ok := raw["results"].([]interface{})
	if !ok || len(resultsRaw) != 1 {
		t.Fatalf("unexpected results shape: %v", raw["results"])
	}
	first, ok := resultsRaw[0].(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected result entry shape: %v", resultsRaw[0])
	}
	for _, key := range []string{"ebn0s", "bers", "description", "frame_length", "repeat_count"} {
		if _, ok := first[key]; !ok {
			t.Errorf("missing result key %q in %v", key, first)
		}
	}
	if rc, ok := first["repeat_count"].(float64); !ok || rc != 10 {
		t.Errorf("expected repeat_count to marshal as bare number 10, got %v", first["repeat_count"])
	}
}

func TestRepeatCounts_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(RepeatCounts{5})
	if err != nil {
		t.Fatalf("marshal single: %v", err)
	}
	if string(data) != "5" {
		t.Errorf("expected bare 5, got %s", data)
	}

	data, err = json.Marshal(RepeatCounts{5, 10, 15})
	if err != nil {
		t.Fatalf("marshal list: %v", err)
	}
	if string(data) != "[5,10,15]" {
		t.Errorf("expected [5,10,15], got %s", data)
	}
}
