package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jrnv/webfuzz/internal/probe"
)

// LengthFilter hides responses by body length, either by exact membership
// in a set of lengths or by an inclusive numeric range.
type LengthFilter struct {
	lengths   map[int]struct{}
	low, high int
	ranged    bool
}

// NewLengthSet creates a filter that drops responses with one of the given
// body lengths.
func NewLengthSet(lengths []int) *LengthFilter {
	f := &LengthFilter{lengths: make(map[int]struct{}, len(lengths))}
	for _, n := range lengths {
		f.lengths[n] = struct{}{}
	}
	return f
}

// NewLengthRange creates a filter that drops responses whose body length
// falls in [low, high]. It fails unless low < high.
func NewLengthRange(low, high int) (*LengthFilter, error) {
	if low >= high {
		return nil, fmt.Errorf("invalid content length range %d-%d: lower bound must be smaller", low, high)
	}
	return &LengthFilter{low: low, high: high, ranged: true}, nil
}

// ParseLengths builds a LengthFilter from its command line form: either a
// comma-separated list of lengths ("20,300") or an inclusive range
// ("20-300").
func ParseLengths(expr string) (*LengthFilter, error) {
	if strings.Contains(expr, "-") {
		parts := strings.SplitN(expr, "-", 2)
		low, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid content length range %q: %w", expr, err)
		}
		high, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid content length range %q: %w", expr, err)
		}
		return NewLengthRange(low, high)
	}

	var lengths []int
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid content length %q: %w", part, err)
		}
		lengths = append(lengths, n)
	}
	return NewLengthSet(lengths), nil
}

func (f *LengthFilter) Name() string { return "length" }

func (f *LengthFilter) ShouldFilter(resp *probe.Response) bool {
	if f.ranged {
		return f.low <= resp.Length && resp.Length <= f.high
	}
	_, ok := f.lengths[resp.Length]
	return ok
}
