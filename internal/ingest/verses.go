package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"hebvocab/internal/logger"
	"hebvocab/internal/normalizer"
)

// DefaultVerseAPIBase serves the Westminster Leningrad Codex by chapter.
const DefaultVerseAPIBase = "https://bolls.life/get-text/WLC"

// Defaults for VerseOptions.
const (
	DefaultRequestDelay   = 200 * time.Millisecond
	DefaultRequestTimeout = 30 * time.Second
)

// VerseOptions configures a VerseClient.
type VerseOptions struct {
	APIBase string
	Delay   time.Duration // minimum spacing between requests
	Timeout time.Duration // per request
}

type chapterKey struct {
	book    int
	chapter int
}

type chapterVerse struct {
	Verse int    `json:"verse"`
	Text  string `json:"text"`
}

// VerseClient fetches chapter texts, one request at a time, and caches each
// chapter for the lifetime of the client. It is not safe for concurrent use.
type VerseClient struct {
	base     string
	client   *resty.Client
	limiter  *rate.Limiter
	cache    map[chapterKey]map[int]string
	log      logger.Logger
	requests int
	failures int
}

// NewVerseClient creates a VerseClient. Zero options select the defaults.
func NewVerseClient(opts VerseOptions, log logger.Logger) *VerseClient {
	if opts.APIBase == "" {
		opts.APIBase = DefaultVerseAPIBase
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRequestTimeout
	}
	if log == nil {
		log = logger.Nop()
	}

	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}

	return &VerseClient{
		base:    strings.TrimRight(opts.APIBase, "/"),
		client:  resty.New().SetTimeout(opts.Timeout),
		limiter: rate.NewLimiter(limit, 1),
		cache:   make(map[chapterKey]map[int]string),
		log:     log.With("source", "verses"),
	}
}

// Requests returns the number of network requests issued so far.
func (c *VerseClient) Requests() int {
	return c.requests
}

// Failures returns the number of chapter fetches that failed.
func (c *VerseClient) Failures() int {
	return c.failures
}

// Chapter returns the cleaned verse texts of a chapter keyed by verse
// number. Any failure yields an empty map, which is cached like a success
// so the chapter is not requested again. A cancelled context yields an
// empty map without caching.
func (c *VerseClient) Chapter(ctx context.Context, book, chapter int) map[int]string {
	key := chapterKey{book: book, chapter: chapter}
	if verses, ok := c.cache[key]; ok {
		c.log.Debug("chapter cache hit", "book", book, "chapter", chapter)
		return verses
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return map[int]string{}
	}

	verses, err := c.fetchChapter(ctx, book, chapter)
	if err != nil {
		if ctx.Err() != nil {
			return map[int]string{}
		}
		c.failures++
		c.log.Warn("failed to fetch chapter", "book", book, "chapter", chapter, "err", err)
		verses = map[int]string{}
	}

	c.cache[key] = verses
	return verses
}

// Verse returns the cleaned text of one verse, or "" when it is unavailable.
func (c *VerseClient) Verse(ctx context.Context, book, chapter, verse int) string {
	return c.Chapter(ctx, book, chapter)[verse]
}

func (c *VerseClient) fetchChapter(ctx context.Context, book, chapter int) (map[int]string, error) {
	url := fmt.Sprintf("%s/%d/%d/", c.base, book, chapter)
	c.requests++

	resp, err := c.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode())
	}

	var items []chapterVerse
	if err := json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("decode chapter: %w", err)
	}

	verses := make(map[int]string, len(items))
	for _, item := range items {
		verses[item.Verse] = normalizer.CleanVerseText(item.Text)
	}
	return verses, nil
}
