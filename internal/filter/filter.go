package filter

import "github.com/jrnv/webfuzz/internal/probe"

// Filter decides whether a probe response should be hidden from output.
type Filter interface {
	Name() string
	ShouldFilter(resp *probe.Response) bool
}

// Chain applies multiple filters in order, short-circuiting on the first
// match. A response is discarded if any filter matches.
type Chain struct {
	filters []Filter
}

// NewChain returns an empty filter chain.
func NewChain() *Chain {
	return &Chain{}
}

// Add appends a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Apply runs every filter against the response. Returns true and the filter
// name if the response should be discarded.
func (c *Chain) Apply(resp *probe.Response) (bool, string) {
	for _, f := range c.filters {
		if f.ShouldFilter(resp) {
			return true, f.Name()
		}
	}
	return false, ""
}
