package fuzzer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jrnv/webfuzz/internal/filter"
	"github.com/jrnv/webfuzz/internal/probe"
	"github.com/jrnv/webfuzz/internal/wordlist"
)

func writeWordlist(t *testing.T, words []string) *wordlist.Wordlist {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wordlist.txt")
	if err := os.WriteFile(path, []byte(strings.Join(words, "\n")), 0644); err != nil {
		t.Fatal(err)
	}
	w, err := wordlist.New(path)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

// inflightTracker records the peak number of simultaneous requests.
type inflightTracker struct {
	mu      sync.Mutex
	current int
	peak    int
}

func (tr *inflightTracker) enter() {
	tr.mu.Lock()
	tr.current++
	if tr.current > tr.peak {
		tr.peak = tr.current
	}
	tr.mu.Unlock()
}

func (tr *inflightTracker) leave() {
	tr.mu.Lock()
	tr.current--
	tr.mu.Unlock()
}

func TestConcurrencyCap(t *testing.T) {
	var tracker inflightTracker
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tracker.enter()
		defer tracker.leave()
		time.Sleep(5 * time.Millisecond)
	}))
	defer srv.Close()

	words := make([]string, 100)
	for i := range words {
		words[i] = fmt.Sprintf("word%03d", i)
	}

	p, err := probe.New(probe.Config{URL: srv.URL + "/FUZZ"})
	if err != nil {
		t.Fatal(err)
	}

	results := Run(context.Background(), p, writeWordlist(t, words), Config{Threads: 4})

	count := 0
	for res := range results {
		if res.Err != nil {
			t.Fatalf("unexpected error for %q: %v", res.Word, res.Err)
		}
		count++
	}

	if count != 100 {
		t.Errorf("expected 100 results, got %d", count)
	}
	if tracker.peak > 4 {
		t.Errorf("peak in-flight requests = %d, want at most 4", tracker.peak)
	}
}

func TestFiltersApplied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/keep") {
			fmt.Fprint(w, "found")
			return
		}
		w.WriteHeader(404)
	}))
	defer srv.Close()

	p, err := probe.New(probe.Config{URL: srv.URL + "/FUZZ"})
	if err != nil {
		t.Fatal(err)
	}

	chain := filter.NewChain()
	chain.Add(filter.NewStatusFilter([]int{404}))

	words := writeWordlist(t, []string{"keep-a", "drop-a", "keep-b", "drop-b"})
	results := Run(context.Background(), p, words, Config{Threads: 2, Filters: chain})

	kept := make(map[string]bool)
	dropped := 0
	for res := range results {
		if res.Err != nil {
			t.Fatalf("unexpected error: %v", res.Err)
		}
		if res.Filtered {
			dropped++
			if res.FilterReason != "status" {
				t.Errorf("FilterReason = %q, want %q", res.FilterReason, "status")
			}
			continue
		}
		kept[res.Word] = true
	}

	if dropped != 2 {
		t.Errorf("expected 2 filtered results, got %d", dropped)
	}
	if !kept["keep-a"] || !kept["keep-b"] || len(kept) != 2 {
		t.Errorf("unexpected surviving set: %v", kept)
	}
}

func TestTransportErrorReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	p, err := probe.New(probe.Config{URL: srv.URL + "/FUZZ"})
	if err != nil {
		t.Fatal(err)
	}

	results := Run(context.Background(), p, writeWordlist(t, []string{"a", "b"}), Config{Threads: 1})

	sawErr := false
	for res := range results {
		if res.Err != nil {
			sawErr = true
		}
	}
	if !sawErr {
		t.Fatal("expected at least one transport error")
	}
}

func TestCancellationStopsDispatch(t *testing.T) {
	var served sync.Map
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served.Store(r.URL.Path, true)
		time.Sleep(5 * time.Millisecond)
	}))
	defer srv.Close()

	words := make([]string, 200)
	for i := range words {
		words[i] = fmt.Sprintf("w%03d", i)
	}

	p, err := probe.New(probe.Config{URL: srv.URL + "/FUZZ"})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results := Run(ctx, p, writeWordlist(t, words), Config{Threads: 2})

	seen := 0
	for range results {
		seen++
		if seen == 5 {
			cancel()
		}
	}

	if seen >= 200 {
		t.Errorf("expected cancellation to cut the run short, saw %d results", seen)
	}
}

func TestPausedWorkersMakeNoProgress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	p, err := probe.New(probe.Config{URL: srv.URL + "/FUZZ"})
	if err != nil {
		t.Fatal(err)
	}

	pauser := NewPauser()
	pauser.Toggle() // pause before the run starts

	results := Run(context.Background(), p, writeWordlist(t, []string{"a", "b", "c"}), Config{
		Threads: 2,
		Pauser:  pauser,
	})

	select {
	case res := <-results:
		t.Fatalf("expected no results while paused, got %+v", res)
	case <-time.After(100 * time.Millisecond):
	}

	pauser.Toggle() // resume

	count := 0
	for range results {
		count++
	}
	if count != 3 {
		t.Errorf("expected 3 results after resume, got %d", count)
	}
}
