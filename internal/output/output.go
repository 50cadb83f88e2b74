package output

import (
	"time"

	"github.com/jrnv/webfuzz/internal/probe"
)

// Stats holds aggregate run statistics.
type Stats struct {
	TotalRequests  int
	FilteredCount  int
	ErrorCount     int
	Duration       time.Duration
	RequestsPerSec float64
}

// Writer is implemented by each output format. WriteResult is only ever
// called from a single goroutine, so implementations need no locking.
type Writer interface {
	WriteResult(resp *probe.Response) error
	WriteFooter(stats Stats) error
	Close() error
}
