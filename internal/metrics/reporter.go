package metrics

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Reporter writes run metrics and keeps a per-directory history.
type Reporter struct {
	dir         string
	historyFile string
}

// NewReporter creates a reporter writing under dir.
func NewReporter(dir string) (*Reporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create metrics dir: %w", err)
	}
	return &Reporter{
		dir:         dir,
		historyFile: filepath.Join(dir, "history.jsonl"),
	}, nil
}

// Write writes latest.json, run_<id>.json and appends to history.jsonl.
func (r *Reporter) Write(metrics *RunMetrics) error {
	latestPath := filepath.Join(r.dir, "latest.json")
	if err := writeJSON(latestPath, metrics); err != nil {
		return fmt.Errorf("write latest.json: %w", err)
	}

	runPath := filepath.Join(r.dir, fmt.Sprintf("run_%s.json", metrics.RunID))
	if err := writeJSON(runPath, metrics); err != nil {
		return fmt.Errorf("write run file: %w", err)
	}

	if err := r.appendHistory(metrics); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func writeJSON(path string, metrics *RunMetrics) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metrics)
}

func (r *Reporter) appendHistory(metrics *RunMetrics) error {
	file, err := os.OpenFile(r.historyFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	line, err := json.Marshal(metrics)
	if err != nil {
		return err
	}
	_, err = file.Write(append(line, '\n'))
	return err
}

// ReadHistory returns the last limit runs of the given pipeline, oldest
// first. An empty pipeline matches every run.
func (r *Reporter) ReadHistory(pipeline Pipeline, limit int) ([]*RunMetrics, error) {
	file, err := os.Open(r.historyFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var runs []*RunMetrics
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		var run RunMetrics
		if err := json.Unmarshal(scanner.Bytes(), &run); err != nil {
			continue // malformed line
		}
		if pipeline != "" && run.Pipeline != pipeline {
			continue
		}
		runs = append(runs, &run)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if limit > 0 && len(runs) > limit {
		runs = runs[len(runs)-limit:]
	}
	return runs, nil
}

// LastRun returns the most recent recorded run of the pipeline, or nil.
func (r *Reporter) LastRun(pipeline Pipeline) (*RunMetrics, error) {
	runs, err := r.ReadHistory(pipeline, 1)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return runs[0], nil
}

// Comparison is the difference between two runs.
type Comparison struct {
	CurrentRunID   string  `json:"current_run_id"`
	PreviousRunID  string  `json:"previous_run_id"`
	SpeedupFactor  float64 `json:"speedup_factor"`
	TimeSavedMs    int64   `json:"time_saved_ms"`
	ItemsDiff      int64   `json:"items_diff"`
	ThroughputDiff float64 `json:"throughput_diff"`
}

// CompareRuns compares two runs. It returns nil if either is missing.
func CompareRuns(current, previous *RunMetrics) *Comparison {
	if current == nil || previous == nil || current.Totals == nil || previous.Totals == nil {
		return nil
	}

	speedup := float64(1)
	if current.Totals.DurationMs > 0 {
		speedup = float64(previous.Totals.DurationMs) / float64(current.Totals.DurationMs)
	}

	return &Comparison{
		CurrentRunID:   current.RunID,
		PreviousRunID:  previous.RunID,
		SpeedupFactor:  speedup,
		TimeSavedMs:    previous.Totals.DurationMs - current.Totals.DurationMs,
		ItemsDiff:      current.Totals.ItemsProcessed - previous.Totals.ItemsProcessed,
		ThroughputDiff: current.Totals.Throughput - previous.Totals.Throughput,
	}
}

// FormatComparison returns a human-readable comparison string.
func FormatComparison(c *Comparison) string {
	if c == nil {
		return "No previous run to compare"
	}

	direction := "faster"
	if c.SpeedupFactor < 1 {
		direction = "slower"
	}

	return fmt.Sprintf(
		"%.2fx %s than previous run (%+dms, %+d items)",
		c.SpeedupFactor,
		direction,
		-c.TimeSavedMs,
		c.ItemsDiff,
	)
}
