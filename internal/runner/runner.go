package runner

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/jrnv/webfuzz/internal/config"
	"github.com/jrnv/webfuzz/internal/filter"
	"github.com/jrnv/webfuzz/internal/fuzzer"
	"github.com/jrnv/webfuzz/internal/output"
	"github.com/jrnv/webfuzz/internal/probe"
	"github.com/jrnv/webfuzz/internal/wordlist"
)

// Run executes the full fuzzing pipeline: wordlist, probe, filters, worker
// pool, output. It returns the first error any unit produced; output
// emitted before that error is retained.
func Run(ctx context.Context, opts *config.Options) error {
	words, err := wordlist.New(opts.WordlistPath)
	if err != nil {
		return err
	}
	words.SetExtensions(opts.Extensions)

	p, err := probe.New(probe.Config{
		URL:     opts.URL,
		Method:  opts.Method,
		Headers: opts.Headers,
		Body:    opts.Body,
		Timeout: opts.Timeout,
		Proxy:   opts.Proxy,
	})
	if err != nil {
		return fmt.Errorf("creating probe: %w", err)
	}

	chain, err := buildFilters(opts)
	if err != nil {
		return err
	}

	out, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating output writer: %w", err)
	}
	defer out.Close()

	total := words.Len()
	if !opts.Quiet {
		printBanner(opts, total)
	}

	progress := output.NewProgress(total, opts.Quiet)

	pauser, cleanup := startStdinToggle(opts.Quiet)
	defer cleanup()

	// First error cancels dispatch of the remaining candidates; results
	// already printed are not rolled back.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	progress.Start()
	start := time.Now()

	results := fuzzer.Run(ctx, p, words, fuzzer.Config{
		Threads: opts.Threads,
		Delay:   opts.Delay,
		Rate:    opts.Rate,
		Filters: chain,
		Pauser:  pauser,
	})

	stats := output.Stats{TotalRequests: total}
	var firstErr error

	for res := range results {
		progress.Increment()

		if res.Err != nil {
			stats.ErrorCount++
			progress.IncrementErrors()
			if firstErr == nil {
				firstErr = res.Err
				cancel()
			}
			continue
		}

		if res.Filtered {
			stats.FilteredCount++
			progress.IncrementFiltered()
			continue
		}

		progress.ClearLine()
		if err := out.WriteResult(res.Response); err != nil {
			progress.Stop()
			return err
		}
		progress.Redraw()
	}

	progress.Stop()

	if firstErr != nil {
		return firstErr
	}

	stats.Duration = time.Since(start)
	if pauser != nil {
		stats.Duration -= pauser.PausedDuration()
	}
	if stats.Duration.Seconds() > 0 {
		stats.RequestsPerSec = float64(total) / stats.Duration.Seconds()
	}

	return out.WriteFooter(stats)
}

func buildFilters(opts *config.Options) (*filter.Chain, error) {
	chain := filter.NewChain()
	if len(opts.FilterStatus) > 0 {
		chain.Add(filter.NewStatusFilter(opts.FilterStatus))
	}
	if opts.FilterLength != "" {
		lf, err := filter.ParseLengths(opts.FilterLength)
		if err != nil {
			return nil, err
		}
		chain.Add(lf)
	}
	if opts.FilterBody != "" {
		chain.Add(filter.NewBodyFilter(opts.FilterBody))
	}
	return chain, nil
}

func createWriter(opts *config.Options) (output.Writer, error) {
	switch opts.OutputFormat {
	case "", "text":
		noColor := opts.NoColor
		if opts.OutputFile == "" && !term.IsTerminal(int(os.Stdout.Fd())) {
			noColor = true
		}
		return output.NewTextWriter(opts.OutputFile, opts.Verbose, noColor, opts.Quiet)
	case "json":
		return output.NewJSONWriter(opts.OutputFile)
	default:
		return nil, fmt.Errorf("unknown output format %q", opts.OutputFormat)
	}
}

func printBanner(opts *config.Options, total int) {
	fmt.Fprintf(os.Stderr, "[*] Target:   %s\n", opts.URL)
	fmt.Fprintf(os.Stderr, "[*] Wordlist: %s (%d candidates)\n", opts.WordlistPath, total)
	fmt.Fprintf(os.Stderr, "[*] Threads:  %d\n\n", opts.Threads)
}
