// Package probe issues keyword-substituted HTTP requests. A Probe is built
// once from an immutable Config and is safe for concurrent use.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"
)

// Keyword is the placeholder replaced with each candidate word in the URL,
// body and headers before a request is sent.
const Keyword = "FUZZ"

const (
	defaultURL       = "http://localhost:8080/" + Keyword
	defaultUserAgent = "webfuzz"
)

// ErrKeywordNotFound indicates that the keyword appears nowhere in the
// configured URL, body or headers, so every request would be identical.
var ErrKeywordNotFound = errors.New("keyword " + Keyword + " not found in URL, body or headers")

// ErrInvalidHeader indicates that a header name or value is not valid HTTP
// header syntax, either as configured or after keyword substitution.
var ErrInvalidHeader = errors.New("invalid header")

// Config describes the request template. The zero value targets
// http://localhost:8080/FUZZ with a GET request.
type Config struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    string
	Timeout time.Duration
	Proxy   string
}

// Probe owns a configured HTTP client and produces one substituted request
// per candidate word. Redirects are never followed; 3xx responses are
// reported as-is.
type Probe struct {
	client  *http.Client
	url     string
	method  string
	headers http.Header       // sent unchanged on every request
	fuzzed  map[string]string // contain the keyword, substituted per request
	body    string
}

// New validates the config and builds a Probe. It fails with
// ErrKeywordNotFound unless the keyword appears in the URL, the body, or at
// least one header name or value.
func New(cfg Config) (*Probe, error) {
	if cfg.URL == "" {
		cfg.URL = defaultURL
	}
	if cfg.Method == "" {
		cfg.Method = http.MethodGet
	}

	headers := make(http.Header)
	fuzzed := make(map[string]string)
	hasUserAgent := false
	for name, value := range cfg.Headers {
		if strings.EqualFold(name, "User-Agent") {
			hasUserAgent = true
		}
		if strings.Contains(name, Keyword) || strings.Contains(value, Keyword) {
			fuzzed[name] = value
			continue
		}
		if !httpguts.ValidHeaderFieldName(name) {
			return nil, fmt.Errorf("header name %q: %w", name, ErrInvalidHeader)
		}
		if !httpguts.ValidHeaderFieldValue(value) {
			return nil, fmt.Errorf("header %s value %q: %w", name, value, ErrInvalidHeader)
		}
		headers.Set(name, value)
	}
	if !hasUserAgent {
		headers.Set("User-Agent", defaultUserAgent)
	}

	if !strings.Contains(cfg.URL, Keyword) &&
		!strings.Contains(cfg.Body, Keyword) &&
		len(fuzzed) == 0 {
		return nil, ErrKeywordNotFound
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", cfg.Proxy, err)
		}
		client.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}

	return &Probe{
		client:  client,
		url:     cfg.URL,
		method:  cfg.Method,
		headers: headers,
		fuzzed:  fuzzed,
		body:    cfg.Body,
	}, nil
}

// Do substitutes word into the request template, sends the request and
// returns the normalized response. A body that cannot be read is treated as
// empty; only transport failures before a response is obtained are errors.
func (p *Probe) Do(ctx context.Context, word string) (*Response, error) {
	target := substitute(p.url, word)

	extra, err := p.fuzzedHeaders(word)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if p.body != "" {
		body = strings.NewReader(substitute(p.body, word))
	}

	req, err := http.NewRequestWithContext(ctx, p.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("request for word %q (%s): %w", word, target, err)
	}
	for name, values := range p.headers {
		req.Header[name] = values
	}
	for name, values := range extra {
		req.Header[name] = values
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("word %q: %w", word, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		data = nil
	}

	return &Response{
		Word:       word,
		URL:        target,
		StatusCode: resp.StatusCode,
		Body:       string(data),
		Length:     len(data),
	}, nil
}

// fuzzedHeaders rebuilds the keyword-bearing headers for one word. Header
// keys are rebuilt from the substituted bytes, so a keyword in a header
// name changes which header is sent.
func (p *Probe) fuzzedHeaders(word string) (http.Header, error) {
	if len(p.fuzzed) == 0 {
		return nil, nil
	}
	headers := make(http.Header, len(p.fuzzed))
	for name, value := range p.fuzzed {
		name = substitute(name, word)
		value = substitute(value, word)
		if !httpguts.ValidHeaderFieldName(name) {
			return nil, fmt.Errorf("word %q: header name %q: %w", word, name, ErrInvalidHeader)
		}
		if !httpguts.ValidHeaderFieldValue(value) {
			return nil, fmt.Errorf("word %q: header %s value %q: %w", word, name, value, ErrInvalidHeader)
		}
		headers.Set(name, value)
	}
	return headers, nil
}

// substitute replaces every occurrence of the keyword with word.
func substitute(s, word string) string {
	return strings.ReplaceAll(s, Keyword, word)
}
