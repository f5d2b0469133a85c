package chunk

import (
	"strings"
)

const (
	// DefaultSize is the maximum chunk length in runes.
	DefaultSize = 1000
	// DefaultOverlap is the number of runes carried over between
	// neighboring chunks.
	DefaultOverlap = 100
)

// separators in preference order. The metadata delimiter comes first so
// prose and metadata sections never share a chunk unless they fit together.
var separators = []string{"\n---\n", "\n\n", "\n", ". ", " "}

// Splitter cuts text into bounded, overlapping segments. Splitting is
// deterministic: the same input always yields the same chunks.
type Splitter struct {
	size    int
	overlap int
}

func NewSplitter(size, overlap int) *Splitter {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 10
	}
	return &Splitter{
		size:    size,
		overlap: overlap,
	}
}

// Split returns the chunks of text. Empty and whitespace-only segments are
// dropped. Text that fits within the size limit is returned as one chunk.
func (s *Splitter) Split(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	pieces := s.split(trimmed, 0)

	chunks := make([]string, 0, len(pieces))
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if p != "" {
			chunks = append(chunks, p)
		}
	}
	return chunks
}

func (s *Splitter) split(text string, sepIdx int) []string {
	if len([]rune(text)) <= s.size {
		return []string{text}
	}
	if sepIdx >= len(separators) {
		return s.hardSplit(text)
	}

	sep := separators[sepIdx]
	parts := strings.Split(text, sep)
	if len(parts) == 1 {
		return s.split(text, sepIdx+1)
	}

	// Re-attach the separator so nothing is lost, then recurse into
	// oversized parts and merge undersized neighbors.
	segments := make([]string, 0, len(parts))
	for i, part := range parts {
		if i < len(parts)-1 {
			part += sep
		}
		if len([]rune(part)) > s.size {
			segments = append(segments, s.split(part, sepIdx+1)...)
		} else {
			segments = append(segments, part)
		}
	}

	return s.merge(segments)
}

// merge greedily packs segments into chunks up to the size limit, carrying
// an overlap window from the tail of each chunk into the next.
func (s *Splitter) merge(segments []string) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0
	hasNew := false

	flush := func() {
		chunk := current.String()
		chunks = append(chunks, chunk)
		current.Reset()
		currentLen = 0
		hasNew = false

		if s.overlap > 0 {
			tail := tailRunes(chunk, s.overlap)
			current.WriteString(tail)
			currentLen = len([]rune(tail))
		}
	}

	for _, seg := range segments {
		segLen := len([]rune(seg))
		if hasNew && currentLen+segLen > s.size {
			flush()
		}
		// The carried tail shrinks, or drops, when the segment alone
		// nearly fills the chunk. Chunks never exceed the size limit.
		if !hasNew && currentLen+segLen > s.size {
			var tail string
			if keep := s.size - segLen; keep > 0 {
				tail = tailRunes(current.String(), keep)
			}
			current.Reset()
			current.WriteString(tail)
			currentLen = len([]rune(tail))
		}
		current.WriteString(seg)
		currentLen += segLen
		hasNew = true
	}
	if hasNew {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// hardSplit cuts text at rune boundaries when no separator applies.
func (s *Splitter) hardSplit(text string) []string {
	runes := []rune(text)
	step := s.size - s.overlap

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + s.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

func tailRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
