// Package config provides centralized configuration defaults for hebvocab.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"

	"hebvocab/internal/ingest"
)

// FileName is the configuration file searched for when no path is given.
const FileName = "config.toml"

// MaxWorkers is the cap for parallel workers
const MaxWorkers = 8

// Config represents the structure of config.toml
type Config struct {
	Vocabulary Vocabulary `toml:"vocabulary"`
	Verses     Verses     `toml:"verses"`
	Run        Run        `toml:"run"`
}

// Vocabulary configures the lexicon pipeline.
type Vocabulary struct {
	SourceURL     string `toml:"source_url" validate:"required,url"`
	Output        string `toml:"output" validate:"required"`
	CacheDir      string `toml:"cache_dir" validate:"required"`
	Workers       int    `toml:"workers" validate:"min=0"`
	FrequencyFile string `toml:"frequency_file"`
}

// Verses configures the verse pipeline.
type Verses struct {
	APIBase          string `toml:"api_base" validate:"required,url"`
	Output           string `toml:"output" validate:"required"`
	RequestDelayMs   int    `toml:"request_delay_ms" validate:"min=0"`
	RequestTimeoutMs int    `toml:"request_timeout_ms" validate:"min=1"`
	Transliterate    bool   `toml:"transliterate"`
}

// Run holds switches shared by both pipelines.
type Run struct {
	Force      bool   `toml:"force"`
	Quiet      bool   `toml:"quiet"`
	Verbose    bool   `toml:"verbose"`
	Metrics    bool   `toml:"metrics"`
	MetricsDir string `toml:"metrics_dir"`
	LogLevel   string `toml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// Fallback returns the hard-coded defaults used when no config.toml is found.
func Fallback() Config {
	return Config{
		Vocabulary: Vocabulary{
			SourceURL: ingest.DefaultLexiconURL,
			Output:    "src/data/vocabulary.json",
			CacheDir:  "sources",
			Workers:   0,
		},
		Verses: Verses{
			APIBase:          ingest.DefaultVerseAPIBase,
			Output:           "src/data/ot-verses.json",
			RequestDelayMs:   int(ingest.DefaultRequestDelay / time.Millisecond),
			RequestTimeoutMs: int(ingest.DefaultRequestTimeout / time.Millisecond),
			Transliterate:    true,
		},
		Run: Run{
			Metrics:    true,
			MetricsDir: "output/metrics",
			LogLevel:   "info",
		},
	}
}

// Load reads the configuration. An explicit path must exist and decode.
// With an empty path, config.toml is searched in the working directory and
// next to the executable; when none is found the fallback defaults are
// returned. Keys absent from the file keep their default values. The second
// return value is the file that was used, or "" for the fallback.
func Load(path string) (*Config, string, error) {
	if path != "" {
		cfg, err := decodeFile(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}

	for _, candidate := range searchPaths() {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		cfg, err := decodeFile(candidate)
		if err != nil {
			return nil, "", err
		}
		return cfg, candidate, nil
	}

	cfg := Fallback()
	return &cfg, "", nil
}

// PathFromArgs returns the value of --config in args, or "". It runs before
// the real flag set is defined so that flag defaults can come from the file.
func PathFromArgs(args []string) string {
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	path := fs.String("config", "", "")
	_ = fs.Parse(args)
	return *path
}

func searchPaths() []string {
	paths := []string{FileName}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(dir, FileName),
			filepath.Join(dir, "..", FileName),
		)
	}
	return paths
}

func decodeFile(path string) (*Config, error) {
	cfg := Fallback()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// EffectiveWorkers resolves a worker count: 0 runs sequentially on a single
// worker, and the result is capped at MaxWorkers.
func EffectiveWorkers(workers int) int {
	if workers <= 0 {
		return 1
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	return workers
}

// RequestDelay returns the configured inter-request delay.
func (v Verses) RequestDelay() time.Duration {
	return time.Duration(v.RequestDelayMs) * time.Millisecond
}

// RequestTimeout returns the configured per-request timeout.
func (v Verses) RequestTimeout() time.Duration {
	return time.Duration(v.RequestTimeoutMs) * time.Millisecond
}
