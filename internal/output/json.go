package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/jrnv/webfuzz/internal/probe"
)

type jsonEntry struct {
	Word       string `json:"word"`
	URL        string `json:"url"`
	StatusCode int    `json:"status"`
	Length     int    `json:"size"`
}

// JSONWriter buffers results and writes them as a JSON array on completion.
type JSONWriter struct {
	w       io.Writer
	closer  io.Closer
	entries []jsonEntry
}

// NewJSONWriter creates a JSON output writer. If outputFile is empty,
// stdout is used.
func NewJSONWriter(outputFile string) (*JSONWriter, error) {
	var w io.Writer = os.Stdout
	var closer io.Closer
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, err
		}
		w = f
		closer = f
	}
	return &JSONWriter{w: w, closer: closer}, nil
}

func (j *JSONWriter) WriteResult(resp *probe.Response) error {
	j.entries = append(j.entries, jsonEntry{
		Word:       resp.Word,
		URL:        resp.URL,
		StatusCode: resp.StatusCode,
		Length:     resp.Length,
	})
	return nil
}

func (j *JSONWriter) WriteFooter(stats Stats) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(j.entries)
}

func (j *JSONWriter) Close() error {
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}
