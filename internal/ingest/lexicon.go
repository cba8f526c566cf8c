// Package ingest fetches the upstream lexicon and verse texts.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/go-resty/resty/v2"

	"hebvocab/internal/logger"
	"hebvocab/internal/schema"
)

// DefaultLexiconURL is the OpenScriptures Strong's Hebrew dictionary.
const DefaultLexiconURL = "https://raw.githubusercontent.com/openscriptures/strongs/master/hebrew/strongs-hebrew-dictionary.js"

const lexiconCacheFile = "strongs-hebrew-dictionary.js"

var (
	// ErrMalformedLexicon is returned when the lexicon payload cannot be parsed.
	ErrMalformedLexicon = errors.New("malformed lexicon")
	// ErrUnexpectedStatus is returned for non-200 HTTP responses.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

var (
	dictionaryPattern = regexp.MustCompile(`(?s)var\s+strongsHebrewDictionary\s*=\s*(\{.*?\});\s*(?:module\.exports|$)`)
	trailingBrace     = regexp.MustCompile(`,\s*}`)
	trailingBracket   = regexp.MustCompile(`,\s*]`)
)

// LexiconOptions configures a LexiconSource.
type LexiconOptions struct {
	URL      string
	CacheDir string // empty disables the disk cache
	Force    bool   // re-download even when cached
	Timeout  time.Duration
}

// LexiconSource downloads and parses the Strong's Hebrew dictionary.
type LexiconSource struct {
	opts   LexiconOptions
	client *resty.Client
	log    logger.Logger
	cached bool
}

// NewLexiconSource creates a LexiconSource. A zero URL selects
// DefaultLexiconURL.
func NewLexiconSource(opts LexiconOptions, log logger.Logger) *LexiconSource {
	if opts.URL == "" {
		opts.URL = DefaultLexiconURL
	}
	if log == nil {
		log = logger.Nop()
	}
	client := resty.New()
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	return &LexiconSource{
		opts:   opts,
		client: client,
		log:    log.With("source", "lexicon"),
	}
}

// Cached reports whether the last Fetch was served from the disk cache.
func (s *LexiconSource) Cached() bool {
	return s.cached
}

// Fetch downloads (or reads from cache) and parses the lexicon. Fetch and
// structural parse failures are returned as errors.
func (s *LexiconSource) Fetch(ctx context.Context) (map[string]schema.RawEntry, error) {
	data, err := s.download(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := ParseLexicon(data)
	if err != nil {
		return nil, err
	}
	s.log.Info("parsed lexicon", "entries", len(entries))
	return entries, nil
}

func (s *LexiconSource) cachePath() string {
	if s.opts.CacheDir == "" {
		return ""
	}
	return filepath.Join(s.opts.CacheDir, lexiconCacheFile)
}

func (s *LexiconSource) download(ctx context.Context) ([]byte, error) {
	s.cached = false
	cachedPath := s.cachePath()

	if cachedPath != "" && !s.opts.Force {
		if data, err := os.ReadFile(cachedPath); err == nil {
			s.cached = true
			s.log.Info("using cached lexicon", "path", cachedPath)
			return data, nil
		}
	}

	s.log.Info("downloading lexicon", "url", s.opts.URL)

	resp, err := s.client.R().SetContext(ctx).Get(s.opts.URL)
	if err != nil {
		return nil, fmt.Errorf("lexicon download failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("lexicon download failed: %w: %d", ErrUnexpectedStatus, resp.StatusCode())
	}
	data := resp.Body()

	if cachedPath != "" {
		if err := os.MkdirAll(s.opts.CacheDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache dir: %w", err)
		}
		if err := os.WriteFile(cachedPath, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write cache file: %w", err)
		}
		s.log.Debug("saved lexicon", "path", cachedPath, "bytes", len(data))
	}

	return data, nil
}

// ParseLexicon extracts the dictionary object literal from the JavaScript
// payload and decodes its entries. Fields that are missing or not strings
// become empty strings.
func ParseLexicon(data []byte) (map[string]schema.RawEntry, error) {
	match := dictionaryPattern.FindSubmatch(data)
	if match == nil {
		return nil, fmt.Errorf("%w: dictionary object not found", ErrMalformedLexicon)
	}

	literal := trailingBrace.ReplaceAll(match[1], []byte("}"))
	literal = trailingBracket.ReplaceAll(literal, []byte("]"))

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(literal, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLexicon, err)
	}

	entries := make(map[string]schema.RawEntry, len(raw))
	for id, body := range raw {
		var fields map[string]json.RawMessage
		// Non-object entries keep their id with empty fields.
		_ = json.Unmarshal(body, &fields)

		entries[id] = schema.RawEntry{
			ID:         id,
			Lemma:      stringField(fields, "lemma"),
			Xlit:       stringField(fields, "xlit"),
			StrongsDef: stringField(fields, "strongs_def"),
			KJVDef:     stringField(fields, "kjv_def"),
			Derivation: stringField(fields, "derivation"),
		}
	}

	return entries, nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	body, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(body, &s); err != nil {
		return ""
	}
	return s
}
