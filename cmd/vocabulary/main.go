// hebvocab-vocabulary - builds the classified Hebrew vocabulary file.
// Usage: hebvocab-vocabulary [options]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"hebvocab/internal/builder"
	"hebvocab/internal/config"
	"hebvocab/internal/frequency"
	"hebvocab/internal/ingest"
	"hebvocab/internal/logger"
	"hebvocab/internal/metrics"
	"hebvocab/internal/schema"
	"hebvocab/internal/ui"

	"github.com/spf13/pflag"
)

// The lexicon is a single multi-megabyte download.
const lexiconTimeout = 2 * time.Minute

func main() {
	cfg, cfgPath, err := config.Load(config.PathFromArgs(os.Args[1:]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags (defaults from config)
	pflag.String("config", cfgPath, "Path to config.toml")
	output := pflag.StringP("output", "o", cfg.Vocabulary.Output, "Output vocabulary JSON file")
	cacheDir := pflag.StringP("cache-dir", "c", cfg.Vocabulary.CacheDir, "Cache directory for the downloaded lexicon")
	sourceURL := pflag.String("source-url", cfg.Vocabulary.SourceURL, "Strong's Hebrew dictionary URL")
	frequencyFile := pflag.String("frequency-file", cfg.Vocabulary.FrequencyFile, "Extra frequency observations (TOML)")
	workers := pflag.IntP("workers", "w", cfg.Vocabulary.Workers, "Number of parallel workers (0 = sequential)")
	force := pflag.BoolP("force", "f", cfg.Run.Force, "Force re-download of the lexicon")
	quiet := pflag.BoolP("quiet", "q", cfg.Run.Quiet, "Suppress progress output")
	verbose := pflag.BoolP("verbose", "v", cfg.Run.Verbose, "Verbose logging")
	writeMetrics := pflag.Bool("metrics", cfg.Run.Metrics, "Write run metrics")
	metricsDir := pflag.String("metrics-dir", cfg.Run.MetricsDir, "Directory for run metrics")
	logLevel := pflag.String("log-level", cfg.Run.LogLevel, "Log level (debug, info, warn, error)")

	pflag.Parse()

	*workers = config.EffectiveWorkers(*workers)

	term := ui.New(*quiet, *verbose)
	log := logger.New(&logger.Config{Level: logger.LevelFor(*logLevel, *verbose, *quiet)})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fail := func(msg string, err error) {
		stop()
		term.Error(fmt.Sprintf("%s: %v", msg, err))
		log.Error(msg, "err", err)
		os.Exit(1)
	}

	term.Banner("Hebrew vocabulary builder")
	configSource := cfgPath
	if configSource == "" {
		configSource = "built-in defaults"
	}
	term.Config([][]string{
		{"Config", configSource},
		{"Source", *sourceURL},
		{"Cache", *cacheDir},
		{"Output", *output},
		{"Workers", strconv.Itoa(*workers)},
	})

	collector := metrics.NewCollector(metrics.Vocabulary)
	collector.SetConfig(map[string]any{
		"source_url":     *sourceURL,
		"output":         *output,
		"workers":        *workers,
		"force":          *force,
		"frequency_file": *frequencyFile,
	})

	// Phase 1: Frequencies and lexicon
	endFetch := collector.Begin(metrics.StageFetch)
	term.Phase(1, 3, "Loading frequencies and lexicon")

	curated, err := frequency.Curated()
	if err != nil {
		fail("Failed to load curated frequencies", err)
	}
	lists := [][]frequency.Observation{curated}
	if *frequencyFile != "" {
		extra, err := frequency.LoadFile(*frequencyFile)
		if err != nil {
			fail("Failed to load frequency file", err)
		}
		lists = append(lists, extra)
		term.Info(fmt.Sprintf("Loaded %d extra frequency observations", len(extra)))
	}
	table, duplicates := frequency.Build(lists...)
	for _, id := range duplicates {
		log.Warn("duplicate frequency key, last value wins", "id", id, "count", table[id])
	}
	term.Info(fmt.Sprintf("Frequency table: %d identifiers", len(table)))

	source := ingest.NewLexiconSource(ingest.LexiconOptions{
		URL:      *sourceURL,
		CacheDir: *cacheDir,
		Force:    *force,
		Timeout:  lexiconTimeout,
	}, log)

	spinner := term.Spinner("Fetching Strong's Hebrew dictionary...")
	entries, err := source.Fetch(ctx)
	if spinner != nil {
		_ = spinner.Stop()
	}
	if err != nil {
		fail("Failed to fetch lexicon", err)
	}

	details := fmt.Sprintf("%d lexicon entries", len(entries))
	if source.Cached() {
		details += " (cached)"
	}
	term.Success(details)

	endFetch()
	collector.Count(metrics.StageFetch, metrics.Entries, int64(len(entries)))
	collector.Count(metrics.StageFetch, metrics.FrequencyIDs, int64(len(table)))
	collector.Count(metrics.StageFetch, metrics.DuplicateFrequencyIDs, int64(len(duplicates)))
	if source.Cached() {
		collector.Count(metrics.StageFetch, metrics.CachedLexicon, 1)
	}

	// Phase 2: Classify
	endClassify := collector.Begin(metrics.StageClassify)
	term.Phase(2, 3, "Classifying entries")

	spinner = term.Spinner(fmt.Sprintf("Classifying %d entries...", len(entries)))
	records, stats, err := builder.BuildVocabulary(ctx, entries, table, builder.ParallelBuildConfig{Workers: *workers})
	if spinner != nil {
		_ = spinner.Stop()
	}
	if err != nil {
		fail("Classification interrupted", err)
	}

	endClassify()
	collector.Count(metrics.StageClassify, metrics.Records, int64(stats.TotalRecords))
	collector.Count(metrics.StageClassify, metrics.Dropped, int64(stats.Dropped))

	term.Success(fmt.Sprintf("Transformed %d words", stats.TotalRecords))
	if stats.Dropped > 0 {
		term.Info(fmt.Sprintf("Dropped %d entries outside the Hebrew namespace", stats.Dropped))
	}

	// Phase 3: Write
	endWrite := collector.Begin(metrics.StageWrite)
	term.Phase(3, 3, "Writing vocabulary")

	if err := schema.SaveJSON(*output, schema.Vocabulary{Words: records}); err != nil {
		fail("Failed to write vocabulary", err)
	}
	endWrite()
	term.Success(fmt.Sprintf("Wrote %s", *output))

	term.TierStats(stats.ByTier)
	partsOfSpeech := make(map[string]any, len(stats.ByPartOfSpeech))
	for pos, n := range stats.ByPartOfSpeech {
		partsOfSpeech[string(pos)] = n
	}
	term.Stats("Parts of speech", partsOfSpeech)
	categories := make(map[string]any, len(stats.ByCategory))
	for cat, n := range stats.ByCategory {
		categories[string(cat)] = n
	}
	term.Stats("Semantic categories", categories)
	term.List("Duplicate frequency keys (last value wins)", duplicates, 0)

	runMetrics := collector.Finalize(int64(stats.TotalRecords))
	if *writeMetrics {
		reportMetrics(term, runMetrics, *metricsDir)
	}

	term.FinalReport("words", stats.TotalRecords, *output, collector.Elapsed())
	term.Done()
}

func reportMetrics(term *ui.UI, run *metrics.RunMetrics, dir string) {
	reporter, err := metrics.NewReporter(dir)
	if err != nil {
		term.Warning(fmt.Sprintf("Failed to write metrics: %v", err))
		return
	}

	previous, _ := reporter.LastRun(run.Pipeline)
	if err := reporter.Write(run); err != nil {
		term.Warning(fmt.Sprintf("Failed to write metrics: %v", err))
		return
	}
	term.Debug(fmt.Sprintf("Metrics written: %s", run.RunID))

	if previous != nil {
		term.Info(metrics.FormatComparison(metrics.CompareRuns(run, previous)))
	}
}
