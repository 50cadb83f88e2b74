package filter

import "github.com/jrnv/webfuzz/internal/probe"

// StatusFilter hides responses whose status code is in the exclude set.
type StatusFilter struct {
	exclude map[int]struct{}
}

// NewStatusFilter creates a filter that drops the given status codes.
func NewStatusFilter(exclude []int) *StatusFilter {
	f := &StatusFilter{exclude: make(map[int]struct{}, len(exclude))}
	for _, code := range exclude {
		f.exclude[code] = struct{}{}
	}
	return f
}

func (f *StatusFilter) Name() string { return "status" }

func (f *StatusFilter) ShouldFilter(resp *probe.Response) bool {
	_, ok := f.exclude[resp.StatusCode]
	return ok
}
