package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordIndexBuild(t *testing.T) {
	t.Run("builds over normal corpus", func(t *testing.T) {
		idx := NewKeywordIndex()
		idx.Build([]string{"the quick brown fox", "lazy dogs sleep"})
		assert.True(t, idx.Built())
		assert.Equal(t, 2, idx.Len())
	})

	t.Run("empty corpus leaves index unbuilt", func(t *testing.T) {
		idx := NewKeywordIndex()
		idx.Build(nil)
		assert.False(t, idx.Built())
	})

	t.Run("fully invalid corpus leaves index unbuilt", func(t *testing.T) {
		idx := NewKeywordIndex()
		idx.Build([]string{"", "   ", "!!!"})
		assert.False(t, idx.Built())
	})

	t.Run("invalid chunks keep positional alignment", func(t *testing.T) {
		idx := NewKeywordIndex()
		idx.Build([]string{"real content here", "", "more content"})
		require.True(t, idx.Built())
		assert.Equal(t, 3, idx.Len())

		scores := idx.Scores("content")
		require.Len(t, scores, 3)
		assert.Greater(t, scores[0], 0.0)
		assert.Zero(t, scores[1])
		assert.Greater(t, scores[2], 0.0)
	})

	t.Run("rebuild replaces previous corpus", func(t *testing.T) {
		idx := NewKeywordIndex()
		idx.Build([]string{"one", "two"})
		idx.Build([]string{"three"})
		assert.Equal(t, 1, idx.Len())
	})
}

func TestKeywordIndexScores(t *testing.T) {
	idx := NewKeywordIndex()
	idx.Build([]string{
		"neural networks learn representations",
		"networks of roads and networks of rail",
		"completely unrelated text",
	})
	require.True(t, idx.Built())

	t.Run("term frequency drives the score", func(t *testing.T) {
		scores := idx.Scores("networks")
		require.Len(t, scores, 3)
		assert.Equal(t, 1.0, scores[0])
		assert.Equal(t, 2.0, scores[1])
		assert.Zero(t, scores[2])
	})

	t.Run("tokenizer is case-insensitive and strips punctuation", func(t *testing.T) {
		scores := idx.Scores("NETWORKS, rail!")
		assert.Equal(t, 3.0, scores[1])
	})

	t.Run("unbuilt index returns nil", func(t *testing.T) {
		empty := NewKeywordIndex()
		assert.Nil(t, empty.Scores("anything"))
	})

	t.Run("empty query scores zero everywhere", func(t *testing.T) {
		scores := idx.Scores("   ")
		require.Len(t, scores, 3)
		for _, s := range scores {
			assert.Zero(t, s)
		}
	})
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple words", "hello world", []string{"hello", "world"}},
		{"mixed case", "Hello WORLD", []string{"hello", "world"}},
		{"punctuation boundaries", "foo-bar, baz.qux", []string{"foo", "bar", "baz", "qux"}},
		{"digits kept", "page 42", []string{"page", "42"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(tt.input)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
