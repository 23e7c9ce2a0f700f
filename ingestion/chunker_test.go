package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkerSplit(t *testing.T) {
	t.Run("empty text yields no chunks", func(t *testing.T) {
		c := NewChunker()
		assert.Empty(t, c.Split(""))
		assert.Empty(t, c.Split("   \n\n  "))
	})

	t.Run("short text yields one chunk", func(t *testing.T) {
		c := NewChunker()
		chunks := c.Split("A short document.")
		require.Len(t, chunks, 1)
		assert.Equal(t, "A short document.", chunks[0])
	})

	t.Run("paragraphs pack into chunks under the size limit", func(t *testing.T) {
		c := NewChunker(WithChunkSize(100), WithChunkOverlap(0))

		var paras []string
		for i := 0; i < 10; i++ {
			paras = append(paras, strings.Repeat("word ", 8)+"end.")
		}
		chunks := c.Split(strings.Join(paras, "\n\n"))

		require.Greater(t, len(chunks), 1)
		for _, chunk := range chunks {
			assert.LessOrEqual(t, len(chunk), 100)
			assert.NotEmpty(t, chunk)
		}
	})

	t.Run("overlap carries tail of previous chunk", func(t *testing.T) {
		c := NewChunker(WithChunkSize(80), WithChunkOverlap(20))

		text := strings.Repeat("alpha beta gamma delta. ", 20)
		chunks := c.Split(text)
		require.Greater(t, len(chunks), 1)

		// Each chunk after the first starts with text from its predecessor
		for i := 1; i < len(chunks); i++ {
			firstWord := strings.Fields(chunks[i])[0]
			assert.Contains(t, chunks[i-1], firstWord)
		}
	})

	t.Run("oversized sentence is hard split", func(t *testing.T) {
		c := NewChunker(WithChunkSize(50), WithChunkOverlap(0))

		chunks := c.Split(strings.Repeat("longword ", 30))
		require.Greater(t, len(chunks), 1)
		for _, chunk := range chunks {
			assert.LessOrEqual(t, len(chunk), 50)
		}
	})

	t.Run("whitespace is normalized within chunks", func(t *testing.T) {
		c := NewChunker()
		chunks := c.Split("several\twords   spread\nacross lines")
		require.Len(t, chunks, 1)
		assert.Equal(t, "several words spread across lines", chunks[0])
	})
}

func TestNewChunkerClampsOverlap(t *testing.T) {
	c := NewChunker(WithChunkSize(100), WithChunkOverlap(500))
	assert.Equal(t, 50, c.overlap)
}
