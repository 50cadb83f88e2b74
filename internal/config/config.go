package config

import "time"

// Options holds all configuration for a webfuzz run.
type Options struct {
	// Target
	URL          string // URL template containing the FUZZ keyword
	WordlistPath string
	Extensions   []string

	// Request
	Method  string
	Headers map[string]string
	Body    string

	// Performance
	Threads int
	Delay   time.Duration // per-worker pause after each completed request
	Rate    float64       // aggregate requests per second, 0 = unlimited
	Timeout time.Duration

	// Filters
	FilterStatus []int  // status codes to hide
	FilterLength string // "20,300" or "20-300"
	FilterBody   string // hide responses containing this substring

	// Output
	OutputFile   string
	OutputFormat string // "text", "json"
	Verbose      bool
	Quiet        bool
	NoColor      bool

	// HTTP
	Proxy string
}
