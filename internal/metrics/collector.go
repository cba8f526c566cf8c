// Package metrics records stage timings and counters for a pipeline run.
package metrics

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Pipeline names one of the metered pipelines.
type Pipeline string

const (
	Vocabulary Pipeline = "vocabulary"
	Verses     Pipeline = "verses"
)

// Stage names a step of a pipeline.
type Stage string

const (
	StageFetch    Stage = "fetch"
	StageClassify Stage = "classify"
	StageWrite    Stage = "write"
)

// Counter names a value a stage reports.
type Counter string

// Vocabulary counters.
const (
	Entries               Counter = "entries"
	FrequencyIDs          Counter = "frequency_ids"
	DuplicateFrequencyIDs Counter = "duplicate_frequency_ids"
	CachedLexicon         Counter = "cached_lexicon"
	Records               Counter = "records"
	Dropped               Counter = "dropped"
)

// Verse counters.
const (
	Requested       Counter = "requested"
	Emitted         Counter = "emitted"
	Skipped         Counter = "skipped"
	ChapterRequests Counter = "chapter_requests"
	FailedChapters  Counter = "failed_chapters"
)

type stageLayout struct {
	stage    Stage
	counters []Counter
}

// layouts lists each pipeline's stages in run order with the counters they
// report.
var layouts = map[Pipeline][]stageLayout{
	Vocabulary: {
		{StageFetch, []Counter{Entries, FrequencyIDs, DuplicateFrequencyIDs, CachedLexicon}},
		{StageClassify, []Counter{Records, Dropped}},
		{StageWrite, nil},
	},
	Verses: {
		{StageFetch, []Counter{Requested, Emitted, Skipped, ChapterRequests, FailedChapters}},
		{StageWrite, nil},
	},
}

// StageMetrics holds metrics for a single processing stage.
type StageMetrics struct {
	Name       Stage             `json:"name"`
	DurationMs int64             `json:"duration_ms"`
	Counters   map[Counter]int64 `json:"counters,omitempty"`
}

// RunMetrics holds all metrics for a complete run.
type RunMetrics struct {
	RunID     string         `json:"run_id"`
	Pipeline  Pipeline       `json:"pipeline"`
	Timestamp time.Time      `json:"timestamp"`
	Config    map[string]any `json:"config"`
	Stages    []StageMetrics `json:"stages"`
	Totals    *TotalMetrics  `json:"totals"`
}

// TotalMetrics holds aggregate metrics.
type TotalMetrics struct {
	DurationMs     int64   `json:"duration_ms"`
	ItemsProcessed int64   `json:"items_processed"`
	Throughput     float64 `json:"throughput_items_per_sec"`
}

// Counter returns a stage counter of the run, or 0 when it was not reported.
func (m *RunMetrics) Counter(stage Stage, counter Counter) int64 {
	for _, s := range m.Stages {
		if s.Name == stage {
			return s.Counters[counter]
		}
	}
	return 0
}

type stageRun struct {
	start    time.Time
	duration time.Duration
	done     bool
	counters map[Counter]int64
}

// Collector collects metrics during execution. Stages and counters outside
// the pipeline's layout are ignored. It is not safe for concurrent use.
type Collector struct {
	runID     string
	pipeline  Pipeline
	layout    []stageLayout
	startTime time.Time
	config    map[string]any
	stages    map[Stage]*stageRun
}

// NewCollector creates a collector for the given pipeline.
func NewCollector(pipeline Pipeline) *Collector {
	return &Collector{
		runID:     generateRunID(),
		pipeline:  pipeline,
		layout:    layouts[pipeline],
		startTime: time.Now(),
		config:    make(map[string]any),
		stages:    make(map[Stage]*stageRun),
	}
}

func generateRunID() string {
	timestamp := time.Now().Format("20060102-150405")
	bytes := make([]byte, 4)
	_, _ = rand.Read(bytes)
	return timestamp + "-" + hex.EncodeToString(bytes)
}

// SetConfig records the settings the run used.
func (c *Collector) SetConfig(config map[string]any) {
	for k, v := range config {
		c.config[k] = v
	}
}

func (c *Collector) find(stage Stage) (stageLayout, bool) {
	for _, l := range c.layout {
		if l.stage == stage {
			return l, true
		}
	}
	return stageLayout{}, false
}

// Begin starts timing a stage and returns the function that ends it.
func (c *Collector) Begin(stage Stage) (end func()) {
	layout, ok := c.find(stage)
	if !ok {
		return func() {}
	}

	run := &stageRun{start: time.Now(), counters: make(map[Counter]int64, len(layout.counters))}
	for _, counter := range layout.counters {
		run.counters[counter] = 0
	}
	c.stages[stage] = run

	return func() {
		if !run.done {
			run.duration = time.Since(run.start)
			run.done = true
		}
	}
}

// Count sets a counter of a started stage.
func (c *Collector) Count(stage Stage, counter Counter, value int64) {
	run, ok := c.stages[stage]
	if !ok {
		return
	}
	if _, declared := run.counters[counter]; declared {
		run.counters[counter] = value
	}
}

// Elapsed returns the summed duration of the completed stages.
func (c *Collector) Elapsed() time.Duration {
	var total time.Duration
	for _, run := range c.stages {
		if run.done {
			total += run.duration
		}
	}
	return total
}

// RunID returns the run identifier.
func (c *Collector) RunID() string {
	return c.runID
}

// Finalize creates the final RunMetrics report. Stages appear in pipeline
// order; stages that never began are left out.
func (c *Collector) Finalize(items int64) *RunMetrics {
	totalDuration := time.Since(c.startTime)

	throughput := float64(0)
	if totalDuration.Seconds() > 0 {
		throughput = float64(items) / totalDuration.Seconds()
	}

	var stages []StageMetrics
	for _, l := range c.layout {
		run, ok := c.stages[l.stage]
		if !ok {
			continue
		}
		sm := StageMetrics{Name: l.stage, DurationMs: run.duration.Milliseconds()}
		if len(run.counters) > 0 {
			sm.Counters = make(map[Counter]int64, len(run.counters))
			for k, v := range run.counters {
				sm.Counters[k] = v
			}
		}
		stages = append(stages, sm)
	}

	return &RunMetrics{
		RunID:     c.runID,
		Pipeline:  c.pipeline,
		Timestamp: c.startTime,
		Config:    c.config,
		Stages:    stages,
		Totals: &TotalMetrics{
			DurationMs:     totalDuration.Milliseconds(),
			ItemsProcessed: items,
			Throughput:     throughput,
		},
	}
}
