package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/text/unicode/norm"
)

func newVerseServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestVerseClientChapter(t *testing.T) {
	srv, hits := newVerseServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1/1/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"pk": 1, "verse": 1, "text": "בְּרֵאשִׁית <i>בָּרָא</i>  אֱלֹהִים"},
			{"pk": 2, "verse": 2, "text": "וְהָאָרֶץ"}
		]`))
	})

	client := NewVerseClient(VerseOptions{APIBase: srv.URL + "/"}, nil)
	ctx := context.Background()

	if got := client.Verse(ctx, 1, 1, 1); got != norm.NFC.String("בְּרֵאשִׁית בָּרָא אֱלֹהִים") {
		t.Errorf("Verse(1,1,1) = %q", got)
	}
	if got := client.Verse(ctx, 1, 1, 2); got != norm.NFC.String("וְהָאָרֶץ") {
		t.Errorf("Verse(1,1,2) = %q", got)
	}
	if got := client.Verse(ctx, 1, 1, 99); got != "" {
		t.Errorf("missing verse = %q, want empty", got)
	}

	if got := atomic.LoadInt32(hits); got != 1 {
		t.Errorf("server hits = %d, want 1 (chapter cached)", got)
	}
	if client.Requests() != 1 {
		t.Errorf("Requests() = %d, want 1", client.Requests())
	}
}

func TestVerseClientFailuresAreMemoized(t *testing.T) {
	tests := []struct {
		name    string
		handler func(w http.ResponseWriter, r *http.Request)
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"object payload", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"detail": "not found"}`))
		}},
		{"invalid json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, hits := newVerseServer(t, tt.handler)
			client := NewVerseClient(VerseOptions{APIBase: srv.URL}, nil)
			ctx := context.Background()

			if got := client.Chapter(ctx, 19, 23); len(got) != 0 {
				t.Errorf("Chapter() = %v, want empty", got)
			}
			if got := client.Verse(ctx, 19, 23, 1); got != "" {
				t.Errorf("Verse() = %q, want empty", got)
			}
			if got := atomic.LoadInt32(hits); got != 1 {
				t.Errorf("server hits = %d, want 1", got)
			}
			if client.Failures() != 1 {
				t.Errorf("Failures() = %d, want 1", client.Failures())
			}
		})
	}
}

func TestVerseClientTimeout(t *testing.T) {
	srv, _ := newVerseServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[{"verse": 1, "text": "late"}]`))
	})

	client := NewVerseClient(VerseOptions{APIBase: srv.URL, Timeout: 20 * time.Millisecond}, nil)
	if got := client.Verse(context.Background(), 1, 1, 1); got != "" {
		t.Errorf("Verse() = %q, want empty after timeout", got)
	}
}

func TestVerseClientDelay(t *testing.T) {
	srv, _ := newVerseServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"verse": 1, "text": "א"}]`))
	})

	delay := 50 * time.Millisecond
	client := NewVerseClient(VerseOptions{APIBase: srv.URL, Delay: delay}, nil)
	ctx := context.Background()

	start := time.Now()
	client.Chapter(ctx, 1, 1)
	client.Chapter(ctx, 1, 2)
	client.Chapter(ctx, 1, 3)
	if elapsed := time.Since(start); elapsed < 2*delay-5*time.Millisecond {
		t.Errorf("three requests took %v, want at least %v", elapsed, 2*delay)
	}

	// Cached chapters do not wait.
	start = time.Now()
	client.Chapter(ctx, 1, 1)
	if elapsed := time.Since(start); elapsed > delay/2 {
		t.Errorf("cached chapter took %v", elapsed)
	}
}

func TestVerseClientCancelledContext(t *testing.T) {
	srv, hits := newVerseServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"verse": 1, "text": "א"}]`))
	})

	client := NewVerseClient(VerseOptions{APIBase: srv.URL}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := client.Chapter(ctx, 1, 1); len(got) != 0 {
		t.Errorf("Chapter() with cancelled context = %v, want empty", got)
	}
	if got := client.Verse(context.Background(), 1, 1, 1); got != "א" {
		t.Errorf("Verse() after cancelled attempt = %q, want refetch", got)
	}
	if got := atomic.LoadInt32(hits); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}
}

func TestVerseClientAcceptsAnySuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusNonAuthoritativeInfo} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv, _ := newVerseServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				w.Write([]byte(`[{"verse": 1, "text": "א"}]`))
			})

			client := NewVerseClient(VerseOptions{APIBase: srv.URL}, nil)
			if got := client.Verse(context.Background(), 1, 1, 1); got != "א" {
				t.Errorf("Verse() = %q, want %q", got, "א")
			}
			if client.Failures() != 0 {
				t.Errorf("Failures() = %d, want 0", client.Failures())
			}
		})
	}
}
