// hebvocab-verses - fetches the curated Old Testament verses.
// Usage: hebvocab-verses [options]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"hebvocab/internal/builder"
	"hebvocab/internal/catalog"
	"hebvocab/internal/config"
	"hebvocab/internal/ingest"
	"hebvocab/internal/logger"
	"hebvocab/internal/metrics"
	"hebvocab/internal/schema"
	"hebvocab/internal/translit"
	"hebvocab/internal/ui"

	"github.com/spf13/pflag"
)

func main() {
	cfg, cfgPath, err := config.Load(config.PathFromArgs(os.Args[1:]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags (defaults from config)
	pflag.String("config", cfgPath, "Path to config.toml")
	output := pflag.StringP("output", "o", cfg.Verses.Output, "Output verses JSON file")
	apiBase := pflag.String("api-base", cfg.Verses.APIBase, "Verse API base URL")
	delay := pflag.Duration("delay", cfg.Verses.RequestDelay(), "Minimum delay between requests")
	timeout := pflag.Duration("timeout", cfg.Verses.RequestTimeout(), "Per-request timeout")
	transliterate := pflag.Bool("transliterate", cfg.Verses.Transliterate, "Generate verse transliterations")
	quiet := pflag.BoolP("quiet", "q", cfg.Run.Quiet, "Suppress progress output")
	verbose := pflag.BoolP("verbose", "v", cfg.Run.Verbose, "Verbose logging")
	writeMetrics := pflag.Bool("metrics", cfg.Run.Metrics, "Write run metrics")
	metricsDir := pflag.String("metrics-dir", cfg.Run.MetricsDir, "Directory for run metrics")
	logLevel := pflag.String("log-level", cfg.Run.LogLevel, "Log level (debug, info, warn, error)")

	pflag.Parse()

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

	term.Banner("Old Testament verse fetcher")

	cat, err := catalog.Load()
	if err != nil {
		fail("Failed to load verse catalog", err)
	}

	configSource := cfgPath
	if configSource == "" {
		configSource = "built-in defaults"
	}
	term.Config([][]string{
		{"Config", configSource},
		{"API", *apiBase},
		{"Output", *output},
		{"Verses", strconv.Itoa(len(cat.Verses))},
		{"Delay", delay.String()},
		{"Transliterate", strconv.FormatBool(*transliterate)},
	})

	collector := metrics.NewCollector(metrics.Verses)
	collector.SetConfig(map[string]any{
		"api_base":      *apiBase,
		"output":        *output,
		"delay_ms":      delay.Milliseconds(),
		"timeout_ms":    timeout.Milliseconds(),
		"transliterate": *transliterate,
	})

	// Phase 1: Fetch
	endFetch := collector.Begin(metrics.StageFetch)
	term.Phase(1, 2, "Fetching verses")

	client := ingest.NewVerseClient(ingest.VerseOptions{
		APIBase: *apiBase,
		Delay:   *delay,
		Timeout: *timeout,
	}, log)

	var tr builder.Transliterator
	if *transliterate {
		tr = translit.NewTransliterator()
	}

	pb := term.Progress("Fetching verses", len(cat.Verses))
	progress := func(done, total int, ref catalog.VerseRef, found bool) {
		if !found {
			log.Warn("verse not found", "book", ref.Book, "chapter", ref.Chapter, "verse", ref.Verse)
		}
		if pb != nil {
			pb.UpdateTitle(fmt.Sprintf("%s %d:%d", ref.Book, ref.Chapter, ref.Verse))
			pb.Increment()
		}
	}

	doc, stats, err := builder.NewVerseBuilder(cat, client, tr).Build(ctx, progress)
	if pb != nil {
		_, _ = pb.Stop()
	}
	if err != nil {
		fail("Verse fetch interrupted", err)
	}

	endFetch()
	collector.Count(metrics.StageFetch, metrics.Requested, int64(stats.Requested))
	collector.Count(metrics.StageFetch, metrics.Emitted, int64(stats.Emitted))
	collector.Count(metrics.StageFetch, metrics.Skipped, int64(len(stats.Skipped)))
	collector.Count(metrics.StageFetch, metrics.ChapterRequests, int64(client.Requests()))
	collector.Count(metrics.StageFetch, metrics.FailedChapters, int64(client.Failures()))

	term.Success(fmt.Sprintf("Fetched %d of %d verses (%d chapter requests)", stats.Emitted, stats.Requested, client.Requests()))
	if len(stats.Skipped) > 0 {
		term.Warning(fmt.Sprintf("Skipped %d verses", len(stats.Skipped)))
	}

	// Phase 2: Write
	endWrite := collector.Begin(metrics.StageWrite)
	term.Phase(2, 2, "Writing verses")

	if err := schema.SaveJSON(*output, doc); err != nil {
		fail("Failed to write verses", err)
	}
	endWrite()
	term.Success(fmt.Sprintf("Wrote %s", *output))

	term.DifficultyStats(stats.ByDifficulty)
	var books []ui.Row
	for _, row := range stats.BookDistribution(cat) {
		books = append(books, ui.Row{Label: row.Book.Name, Count: row.Count})
	}
	term.CountTable("Book", "Verses", books)
	term.List("Skipped verses", stats.Skipped, 20)

	runMetrics := collector.Finalize(int64(stats.Emitted))
	if *writeMetrics {
		reportMetrics(term, runMetrics, *metricsDir)
	}

	term.FinalReport("verses", stats.Emitted, *output, collector.Elapsed())
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
