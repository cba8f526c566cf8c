package builder

import (
	"context"
	"sort"
	"sync"

	"hebvocab/internal/frequency"
	"hebvocab/internal/schema"
)

// ParallelBuildConfig configures record building.
type ParallelBuildConfig struct {
	Workers int // Number of parallel workers (0 or 1 = sequential)
}

// BuildStats holds statistics from a vocabulary build.
type BuildStats struct {
	TotalEntries   int
	TotalRecords   int
	Dropped        int
	ByTier         map[int]int
	ByPartOfSpeech map[schema.PartOfSpeech]int
	ByCategory     map[schema.SemanticCategory]int
}

// NewBuildStats creates a new BuildStats.
func NewBuildStats() *BuildStats {
	return &BuildStats{
		ByTier:         make(map[int]int),
		ByPartOfSpeech: make(map[schema.PartOfSpeech]int),
		ByCategory:     make(map[schema.SemanticCategory]int),
	}
}

// buildJob is one entry to classify, tagged with its input position.
type buildJob struct {
	index int
	entry schema.RawEntry
}

type buildResult struct {
	index  int
	record schema.Record
	ok     bool
}

// BuildVocabulary classifies every entry and returns the finalized records.
// Entries outside the Hebrew namespace are counted as dropped. The output
// order does not depend on the worker count. A cancelled context stops the
// build and returns the context error.
func BuildVocabulary(
	ctx context.Context,
	entries map[string]schema.RawEntry,
	table frequency.Table,
	config ParallelBuildConfig,
) ([]schema.Record, *BuildStats, error) {
	// Check for cancellation before starting
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := make([]buildResult, len(ids))

	if config.Workers <= 1 {
		for i, id := range ids {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			record, ok := BuildRecord(entries[id], table)
			results[i] = buildResult{index: i, record: record, ok: ok}
		}
	} else if err := buildParallel(ctx, ids, entries, table, config.Workers, results); err != nil {
		return nil, nil, err
	}

	stats := NewBuildStats()
	stats.TotalEntries = len(ids)

	records := make([]schema.Record, 0, len(ids))
	for _, r := range results {
		if !r.ok {
			stats.Dropped++
			continue
		}
		records = append(records, r.record)
		stats.ByPartOfSpeech[r.record.PartOfSpeech]++
		stats.ByCategory[r.record.SemanticCategory]++
	}

	records, stats.ByTier = Finalize(records)
	stats.TotalRecords = len(records)

	return records, stats, nil
}

func buildParallel(
	ctx context.Context,
	ids []string,
	entries map[string]schema.RawEntry,
	table frequency.Table,
	workers int,
	results []buildResult,
) error {
	jobs := make(chan buildJob, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				record, ok := BuildRecord(job.entry, table)
				// Each index is written by exactly one worker.
				results[job.index] = buildResult{index: job.index, record: record, ok: ok}
			}
		}()
	}

	// Send jobs (check context between sends)
	for i, id := range ids {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- buildJob{index: i, entry: entries[id]}:
		}
	}
	close(jobs)
	wg.Wait()

	return nil
}
