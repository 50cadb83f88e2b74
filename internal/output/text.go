package output

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/jrnv/webfuzz/internal/probe"
)

// ANSI color codes.
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
)

// TextWriter writes one line per surviving response. The default form is
// the bare resolved URL; verbose mode adds the status code and body size.
type TextWriter struct {
	w       io.Writer
	verbose bool
	noColor bool
	quiet   bool
}

// NewTextWriter creates a text output writer. If outputFile is empty,
// stdout is used.
func NewTextWriter(outputFile string, verbose, noColor, quiet bool) (*TextWriter, error) {
	var w io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, err
		}
		w = f
		noColor = true
	}
	return &TextWriter{w: w, verbose: verbose, noColor: noColor, quiet: quiet}, nil
}

func (t *TextWriter) WriteResult(resp *probe.Response) error {
	color := t.colorForStatus(resp.StatusCode)
	reset := colorReset
	if t.noColor {
		color = ""
		reset = ""
	}

	if !t.verbose {
		_, err := fmt.Fprintf(t.w, "%s%s%s\n", color, resp.URL, reset)
		return err
	}

	path := ""
	if u, err := url.Parse(resp.URL); err == nil {
		path = u.Path
	}
	_, err := fmt.Fprintf(t.w, "%-30s %s(%3d)%s [Size: %d]\n",
		path, color, resp.StatusCode, reset, resp.Length)
	return err
}

func (t *TextWriter) WriteFooter(stats Stats) error {
	if t.quiet {
		return nil
	}
	_, err := fmt.Fprintf(os.Stderr,
		"\nCompleted: %d requests | Filtered: %d | Errors: %d | Duration: %s | %.1f req/s\n",
		stats.TotalRequests,
		stats.FilteredCount,
		stats.ErrorCount,
		stats.Duration.Round(time.Millisecond),
		stats.RequestsPerSec,
	)
	return err
}

func (t *TextWriter) Close() error {
	if closer, ok := t.w.(io.Closer); ok && t.w != os.Stdout {
		return closer.Close()
	}
	return nil
}

func (t *TextWriter) colorForStatus(code int) string {
	if t.noColor {
		return ""
	}
	switch {
	case code >= 200 && code < 300:
		return colorGreen
	case code >= 300 && code < 400:
		return colorCyan
	case code >= 400 && code < 500:
		return colorYellow
	case code >= 500:
		return colorRed
	default:
		return ""
	}
}
