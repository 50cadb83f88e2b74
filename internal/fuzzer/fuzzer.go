// Package fuzzer runs keyword probes across a bounded worker pool.
package fuzzer

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jrnv/webfuzz/internal/filter"
	"github.com/jrnv/webfuzz/internal/probe"
	"github.com/jrnv/webfuzz/internal/wordlist"
)

// Config holds options for one fuzzing run.
type Config struct {
	Threads int           // concurrency cap, minimum 1
	Delay   time.Duration // per-worker pause after each completed request
	Rate    float64       // aggregate requests per second, 0 = unlimited
	Filters *filter.Chain // nil = keep everything
	Pauser  *Pauser       // nil = no pause support
}

// Result is the outcome of one candidate. Exactly one of Response or Err is
// set. Filtered responses are reported so callers can keep count.
type Result struct {
	Word         string
	Response     *probe.Response
	Filtered     bool
	FilterReason string
	Err          error
}

// Run fans candidates out across workers and returns a channel of results.
// Dispatch follows wordlist order; completion order is not guaranteed. The
// channel is closed when all dispatched candidates have been processed or
// the context is cancelled.
func Run(ctx context.Context, p *probe.Probe, words *wordlist.Wordlist, cfg Config) <-chan Result {
	threads := cfg.Threads
	if threads < 1 {
		threads = 1
	}

	var limiter *rate.Limiter
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}

	wordCh := make(chan string, threads*2)
	results := make(chan Result, threads*2)

	// Producer: feed candidates in wordlist order.
	go func() {
		defer close(wordCh)
		for word := range words.All() {
			select {
			case wordCh <- word:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for word := range wordCh {
				if cfg.Pauser != nil {
					cfg.Pauser.Wait()
				}
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						return
					}
				}

				resp, err := p.Do(ctx, word)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					results <- Result{Word: word, Err: err}
				} else {
					res := Result{Word: word, Response: resp}
					if cfg.Filters != nil {
						res.Filtered, res.FilterReason = cfg.Filters.Apply(resp)
					}
					results <- res
				}

				if cfg.Delay > 0 {
					select {
					case <-time.After(cfg.Delay):
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}
