package wordlist

import (
	"bufio"
	"fmt"
	"iter"
	"os"
)

// Wordlist produces candidate words from a newline-delimited file crossed
// with a set of extension suffixes. The file is re-read on every iteration,
// so the sequence is restartable and two concurrent iterations are
// independent.
type Wordlist struct {
	path       string
	extensions []string // suffixes including the leading dot, "" = none
}

// New creates a Wordlist backed by the given file. It fails if the file
// does not exist.
func New(path string) (*Wordlist, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("wordlist %s: %w", path, err)
	}
	return &Wordlist{
		path:       path,
		extensions: []string{""},
	}, nil
}

// SetExtensions configures the extension suffixes appended to every word.
// An empty list leaves words unchanged. A non-empty extension "json"
// becomes the suffix ".json".
func (w *Wordlist) SetExtensions(extensions []string) {
	if len(extensions) == 0 {
		w.extensions = []string{""}
		return
	}
	suffixes := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		if ext == "" {
			suffixes = append(suffixes, "")
			continue
		}
		suffixes = append(suffixes, "."+ext)
	}
	w.extensions = suffixes
}

// All returns the expanded candidate sequence in extension-major order:
// every suffix of word 1, then every suffix of word 2, and so on.
// Blank lines yield empty-string candidates.
func (w *Wordlist) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		f, err := os.Open(w.path)
		if err != nil {
			return
		}
		defer f.Close()

		sc := bufio.NewScanner(f)
		for sc.Scan() {
			word := sc.Text()
			for _, suffix := range w.extensions {
				if !yield(word + suffix) {
					return
				}
			}
		}
	}
}

// Len counts the expanded candidates.
func (w *Wordlist) Len() int {
	n := 0
	for range w.All() {
		n++
	}
	return n
}
