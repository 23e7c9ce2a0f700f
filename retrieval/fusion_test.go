package retrieval

import (
	"testing"

	"github.com/poiesic/scholar/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFusion(t *testing.T) {
	t.Run("defaults to equal weights", func(t *testing.T) {
		f, err := NewFusion()
		require.NoError(t, err)
		assert.Equal(t, Weights{Keyword: 0.5, Vector: 0.5}, f.Weights())
	})

	t.Run("custom weights", func(t *testing.T) {
		f, err := NewFusion(WithWeights(Weights{Keyword: 0.3, Vector: 0.7}))
		require.NoError(t, err)
		assert.Equal(t, Weights{Keyword: 0.3, Vector: 0.7}, f.Weights())
	})

	t.Run("negative weights rejected", func(t *testing.T) {
		_, err := NewFusion(WithWeights(Weights{Keyword: -0.1, Vector: 0.5}))
		assert.ErrorIs(t, err, ErrInvalidWeights)
	})

	t.Run("zero weights rejected", func(t *testing.T) {
		_, err := NewFusion(WithWeights(Weights{}))
		assert.ErrorIs(t, err, ErrInvalidWeights)
	})
}

func TestFuse(t *testing.T) {
	f, err := NewFusion()
	require.NoError(t, err)

	t.Run("normalizes and merges both sets", func(t *testing.T) {
		keyword := []core.Candidate{{Text: "A", Score: 10}}
		vector := []core.Candidate{
			{Text: "A", Score: 0.8},
			{Text: "B", Score: 0.4},
		}

		results := f.Fuse(keyword, vector, 10)
		require.Len(t, results, 2)

		assert.Equal(t, "A", results[0].Text)
		assert.InDelta(t, 1.0, results[0].Score, 1e-9)
		assert.Equal(t, "B", results[1].Text)
		assert.InDelta(t, 0.25, results[1].Score, 1e-9)
	})

	t.Run("keyword-only candidate gets only keyword term", func(t *testing.T) {
		keyword := []core.Candidate{
			{Text: "A", Score: 4},
			{Text: "B", Score: 2},
		}
		results := f.Fuse(keyword, nil, 10)
		require.Len(t, results, 2)
		assert.InDelta(t, 0.5*1.0, results[0].Score, 1e-9)
		assert.InDelta(t, 0.5*0.5, results[1].Score, 1e-9)
	})

	t.Run("vector-only candidate gets only vector term", func(t *testing.T) {
		vector := []core.Candidate{{Text: "C", Score: 0.9}}
		results := f.Fuse(nil, vector, 10)
		require.Len(t, results, 1)
		assert.InDelta(t, 0.5*1.0, results[0].Score, 1e-9)
	})

	t.Run("weighted sum property holds for uneven weights", func(t *testing.T) {
		weighted, err := NewFusion(WithWeights(Weights{Keyword: 0.2, Vector: 0.8}))
		require.NoError(t, err)

		keyword := []core.Candidate{{Text: "A", Score: 5}, {Text: "K", Score: 10}}
		vector := []core.Candidate{{Text: "A", Score: 0.5}, {Text: "V", Score: 1.0}}

		results := weighted.Fuse(keyword, vector, 10)
		byText := map[string]float64{}
		for _, c := range results {
			byText[c.Text] = c.Score
		}
		assert.InDelta(t, 0.2*0.5+0.8*0.5, byText["A"], 1e-9)
		assert.InDelta(t, 0.2*1.0, byText["K"], 1e-9)
		assert.InDelta(t, 0.8*1.0, byText["V"], 1e-9)
	})

	t.Run("vector metadata wins on collision", func(t *testing.T) {
		keyword := []core.Candidate{{Text: "A", Score: 1, Metadata: map[string]string{"source": "kw.pdf"}}}
		vector := []core.Candidate{{Text: "A", Score: 1, Metadata: map[string]string{"source": "vec.pdf", "page": "3"}}}

		results := f.Fuse(keyword, vector, 10)
		require.Len(t, results, 1)
		assert.Equal(t, "vec.pdf", results[0].Metadata["source"])
		assert.Equal(t, "3", results[0].Metadata["page"])
	})

	t.Run("identical text collapses to one candidate", func(t *testing.T) {
		vector := []core.Candidate{
			{Text: "same text", Score: 0.8, Metadata: map[string]string{"page": "1"}},
			{Text: "same text", Score: 0.4, Metadata: map[string]string{"page": "2"}},
		}
		results := f.Fuse(nil, vector, 10)
		assert.Len(t, results, 1)
	})

	t.Run("output sorted descending", func(t *testing.T) {
		vector := []core.Candidate{
			{Text: "low", Score: 0.1},
			{Text: "high", Score: 0.9},
			{Text: "mid", Score: 0.5},
		}
		results := f.Fuse(nil, vector, 10)
		require.Len(t, results, 3)
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
		}
	})

	t.Run("ties keep insertion order", func(t *testing.T) {
		vector := []core.Candidate{
			{Text: "first", Score: 0.5},
			{Text: "second", Score: 0.5},
		}
		results := f.Fuse(nil, vector, 10)
		require.Len(t, results, 2)
		assert.Equal(t, "first", results[0].Text)
		assert.Equal(t, "second", results[1].Text)
	})

	t.Run("truncates to topK", func(t *testing.T) {
		vector := []core.Candidate{
			{Text: "a", Score: 0.9},
			{Text: "b", Score: 0.8},
			{Text: "c", Score: 0.7},
		}
		results := f.Fuse(nil, vector, 2)
		assert.Len(t, results, 2)
	})

	t.Run("all-zero scores normalize safely", func(t *testing.T) {
		keyword := []core.Candidate{{Text: "A", Score: 0}}
		results := f.Fuse(keyword, nil, 10)
		require.Len(t, results, 1)
		assert.Zero(t, results[0].Score)
	})

	t.Run("empty inputs produce empty output", func(t *testing.T) {
		results := f.Fuse(nil, nil, 5)
		assert.Empty(t, results)
	})
}
