package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jrnv/webfuzz/internal/config"
	"github.com/jrnv/webfuzz/internal/probe"
	"github.com/jrnv/webfuzz/internal/runner"
	"github.com/jrnv/webfuzz/pkg/version"
)

var (
	opts     config.Options
	headers  []string
	delaySec float64
)

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"TARGET", []string{"url", "wordlist", "extensions"}},
	{"REQUEST", []string{"method", "header", "body"}},
	{"FILTERS", []string{"filter-status", "filter-length", "filter-body"}},
	{"RATE-LIMIT", []string{"threads", "delay", "rate", "timeout"}},
	{"HTTP", []string{"proxy"}},
	{"OUTPUT", []string{"verbose", "output", "format", "quiet", "no-color"}},
}

var rootCmd = &cobra.Command{
	Use:     "webfuzz -u <url> -w <wordlist> [flags]",
	Short:   "Keyword-based web content discovery fuzzer",
	Version: version.Version,
	Long: `webfuzz substitutes every word of a wordlist into the ` + probe.Keyword + ` keyword of a
URL template (and optionally into headers and the request body), sends the
requests concurrently and reports the responses that survive filtering.`,
	Example: `  webfuzz -u https://example.com/FUZZ -w wordlist.txt
  webfuzz -u https://example.com/FUZZ -w wordlist.txt -x json,xml -t 50
  webfuzz -u https://example.com/ -w words.txt -H "X-Forwarded-For: FUZZ"
  webfuzz -u https://example.com/login -X POST -b 'user=FUZZ' -w users.txt
  webfuzz -u https://example.com/FUZZ -w wordlist.txt --filter-length 20-300 -v`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if opts.URL == "" {
			_ = cmd.Help()
			fmt.Fprintln(os.Stderr)
			return fmt.Errorf("target URL required (-u)")
		}
		if opts.WordlistPath == "" {
			return fmt.Errorf("wordlist required (-w)")
		}
		if !strings.HasPrefix(opts.URL, "http://") && !strings.HasPrefix(opts.URL, "https://") {
			opts.URL = "http://" + opts.URL
		}
		if opts.OutputFormat != "text" && opts.OutputFormat != "json" {
			return fmt.Errorf("--format must be one of: text, json")
		}
		if delaySec < 0 {
			return fmt.Errorf("--delay must not be negative")
		}
		opts.Delay = time.Duration(delaySec * float64(time.Second))

		if len(headers) > 0 {
			opts.Headers = make(map[string]string, len(headers))
			for _, h := range headers {
				name, value, err := parseHeader(h)
				if err != nil {
					return err
				}
				opts.Headers[name] = value
			}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runner.Run(ctx, &opts)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()

	// Target
	f.StringVarP(&opts.URL, "url", "u", "", "Target URL template containing "+probe.Keyword)
	f.StringVarP(&opts.WordlistPath, "wordlist", "w", "", "Path to the wordlist")
	f.StringSliceVarP(&opts.Extensions, "extensions", "x", nil, "File extensions to search for (e.g. json,xml)")

	// Request
	f.StringVarP(&opts.Method, "method", "X", "GET", "HTTP method to use")
	f.StringSliceVarP(&headers, "header", "H", nil, "Custom headers (Key: Value); may contain "+probe.Keyword)
	f.StringVarP(&opts.Body, "body", "b", "", "Request body template")

	// Performance
	f.IntVarP(&opts.Threads, "threads", "t", 10, "Number of concurrent workers")
	f.Float64VarP(&delaySec, "delay", "d", 0, "Delay between requests per worker, in seconds")
	f.Float64Var(&opts.Rate, "rate", 0, "Aggregate rate limit in requests per second (0 = unlimited)")
	f.DurationVar(&opts.Timeout, "timeout", 10*time.Second, "HTTP request timeout")

	// Filters
	opts.FilterStatus = []int{404}
	f.Var(&intSliceValue{target: &opts.FilterStatus}, "filter-status", "Hide responses with these status codes (comma-separated)")
	f.StringVar(&opts.FilterLength, "filter-length", "", "Hide responses by content length: list (20,300) or range (20-300)")
	f.StringVar(&opts.FilterBody, "filter-body", "", "Hide responses whose body contains this text")

	// Output
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "Show status code and content length per result")
	f.StringVarP(&opts.OutputFile, "output", "o", "", "Output file path")
	f.StringVar(&opts.OutputFormat, "format", "text", "Output format: text, json")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "Minimal output, no progress indicator")
	f.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")

	// HTTP
	f.StringVar(&opts.Proxy, "proxy", "", "HTTP proxy URL")

	// Custom help: categorized flags.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		w := os.Stderr
		fmt.Fprintf(w, "webfuzz %s\n\n%s\n\nUsage:\n  %s\n", cmd.Version, cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				if f := cmd.Flags().Lookup(name); f != nil {
					fmt.Fprintln(w, formatFlag(f))
				}
			}
		}
		fmt.Fprintln(w)
	})
}

// Execute runs the root command. It exits non-zero when the run aborts.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseHeader splits a "Name: Value" token.
func parseHeader(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, ":")
	if !ok {
		return "", "", fmt.Errorf("invalid header %q, expected 'Name: Value'", s)
	}
	return strings.TrimSpace(name), strings.TrimSpace(value), nil
}

// intSliceValue implements pflag.Value for comma-separated int slices.
type intSliceValue struct {
	target *[]int
}

func (v *intSliceValue) String() string {
	if v.target == nil || len(*v.target) == 0 {
		return ""
	}
	parts := make([]string, len(*v.target))
	for i, val := range *v.target {
		parts[i] = strconv.Itoa(val)
	}
	return strings.Join(parts, ",")
}

func (v *intSliceValue) Set(s string) error {
	*v.target = (*v.target)[:0]
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("invalid status code %q: %w", p, err)
		}
		*v.target = append(*v.target, n)
	}
	return nil
}

func (v *intSliceValue) Type() string { return "ints" }

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	// Pad to fixed column width for aligned descriptions.
	const col = 36
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	def := f.DefValue
	if def != "" && def != "false" && def != "0" && def != "0s" && def != "[]" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}
