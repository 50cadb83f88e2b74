package filter

import (
	"strings"

	"github.com/jrnv/webfuzz/internal/probe"
)

// BodyFilter hides responses whose body contains a given substring. The
// match is verbatim and case-sensitive.
type BodyFilter struct {
	needle string
}

// NewBodyFilter creates a filter that drops responses containing needle.
func NewBodyFilter(needle string) *BodyFilter {
	return &BodyFilter{needle: needle}
}

func (f *BodyFilter) Name() string { return "body" }

func (f *BodyFilter) ShouldFilter(resp *probe.Response) bool {
	return strings.Contains(resp.Body, f.needle)
}
