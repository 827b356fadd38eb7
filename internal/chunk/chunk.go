// Package chunk splits extracted document text into overlapping fixed-size
// segments, the unit of retrieval indexing.
package chunk

import "fmt"

const (
	DefaultSize    = 1000
	DefaultOverlap = 200
)

// Splitter produces sliding-window segments of Size characters advancing by
// Size-Overlap. It is a pure function of its inputs: the same text always
// yields the same segments.
type Splitter struct {
	size    int
	overlap int
}

// NewSplitter validates the window parameters. Overlap must be strictly
// smaller than size so every window makes forward progress.
func NewSplitter(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must be non-negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than size %d", overlap, size)
	}
	return &Splitter{size: size, overlap: overlap}, nil
}

// Split returns the ordered segments of text. Adjacent segments share
// exactly overlap characters; the final segment ends at the end of text.
// Empty input yields no segments.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	var segments []string
	for start := 0; start < len(runes); start += s.size - s.overlap {
		end := start + s.size
		if end > len(runes) {
			end = len(runes)
		}
		segments = append(segments, string(runes[start:end]))
	}
	return segments
}

// Size returns the configured window size.
func (s *Splitter) Size() int { return s.size }

// Overlap returns the configured window overlap.
func (s *Splitter) Overlap() int { return s.overlap }
