package ingestion

import (
	"strings"
	"unicode"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

// Chunker splits document text into bounded, overlapping spans suitable
// for embedding. Splits prefer paragraph boundaries, then sentence
// boundaries; a hard split happens only when a single sentence exceeds
// the chunk size.
type Chunker struct {
	chunkSize int
	overlap   int
}

// ChunkerOption configures a Chunker.
type ChunkerOption func(*Chunker)

// WithChunkSize sets the target chunk size in characters.
// Values below 1 keep the default.
func WithChunkSize(size int) ChunkerOption {
	return func(c *Chunker) {
		if size >= 1 {
			c.chunkSize = size
		}
	}
}

// WithChunkOverlap sets the character overlap carried between adjacent
// chunks. Negative values keep the default; overlap is capped below the
// chunk size.
func WithChunkOverlap(overlap int) ChunkerOption {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// NewChunker creates a Chunker with the given options.
func NewChunker(opts ...ChunkerOption) *Chunker {
	c := &Chunker{
		chunkSize: defaultChunkSize,
		overlap:   defaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 2
	}
	return c
}

// Split divides text into chunks of roughly chunkSize characters with
// the configured overlap. Whitespace-only input yields no chunks.
func (c *Chunker) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		chunk := strings.TrimSpace(current.String())
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
		if c.overlap > 0 && len(chunk) > c.overlap {
			current.WriteString(overlapTail(chunk, c.overlap))
			current.WriteString(" ")
		}
	}

	for _, para := range splitParagraphs(text) {
		for _, piece := range c.splitLong(para) {
			if current.Len() > 0 && current.Len()+len(piece)+1 > c.chunkSize {
				flush()
			}
			if current.Len() > 0 {
				current.WriteString(" ")
			}
			current.WriteString(piece)
		}
	}
	if strings.TrimSpace(current.String()) != "" {
		chunk := strings.TrimSpace(current.String())
		chunks = append(chunks, chunk)
	}

	return chunks
}

// splitLong breaks a paragraph that exceeds the chunk size into sentence
// groups, hard-splitting any sentence still over the limit.
func (c *Chunker) splitLong(para string) []string {
	if len(para) <= c.chunkSize {
		return []string{para}
	}

	var pieces []string
	for _, sentence := range splitSentences(para) {
		for len(sentence) > c.chunkSize {
			cut := wordBoundaryBefore(sentence, c.chunkSize)
			pieces = append(pieces, strings.TrimSpace(sentence[:cut]))
			sentence = strings.TrimSpace(sentence[cut:])
		}
		if sentence != "" {
			pieces = append(pieces, sentence)
		}
	}
	return pieces
}

func splitParagraphs(text string) []string {
	var paras []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.Join(strings.Fields(p), " ")
		if p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

// splitSentences splits on sentence-ending punctuation followed by a
// space. Crude, but sufficient for chunk boundaries.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		if (text[i] == '.' || text[i] == '!' || text[i] == '?') && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(text[start:i+1]))
			start = i + 2
		}
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// wordBoundaryBefore finds the last space at or before limit, falling
// back to the limit itself for unbroken runs.
func wordBoundaryBefore(s string, limit int) int {
	for i := limit; i > 0; i-- {
		if unicode.IsSpace(rune(s[i-1])) {
			return i
		}
	}
	return limit
}

// overlapTail returns the last n characters of chunk, extended left to
// the nearest word boundary.
func overlapTail(chunk string, n int) string {
	start := len(chunk) - n
	for start > 0 && !unicode.IsSpace(rune(chunk[start-1])) {
		start--
	}
	return strings.TrimSpace(chunk[start:])
}
