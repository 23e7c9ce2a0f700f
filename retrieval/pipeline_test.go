package retrieval

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/scholar/ai/mock"
	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/corpus/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// axisEmbedder maps known texts to fixed unit vectors so similarity
// ordering in tests is fully controlled.
func axisEmbedder(vectors map[string][]float32, fallback []float32) *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if v, ok := vectors[text]; ok {
			return v, nil
		}
		return fallback, nil
	}
	return embedder
}

func seedCorpus(t *testing.T, texts map[string][]float32) (*Pipeline, func()) {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)

	ctx := context.Background()
	for text, vector := range texts {
		_, err := repo.AddChunks(ctx, &core.Chunk{Text: text, Source: "test.pdf", Vector: vector})
		require.NoError(t, err)
	}

	embedder := axisEmbedder(texts, []float32{1, 0, 0})
	pipeline, err := NewPipeline(repo, embedder)
	require.NoError(t, err)
	require.NoError(t, pipeline.BuildIndex(ctx))

	return pipeline, func() { repo.Close(); backend.Close() }
}

func TestNewPipeline(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	t.Run("valid configuration", func(t *testing.T) {
		p, err := NewPipeline(repo, mock.NewMockEmbedder())
		require.NoError(t, err)
		assert.NotNil(t, p)
	})

	t.Run("nil repository", func(t *testing.T) {
		_, err := NewPipeline(nil, mock.NewMockEmbedder())
		assert.Equal(t, ErrRepositoryRequired, err)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewPipeline(repo, nil)
		assert.Equal(t, ErrEmbedderRequired, err)
	})
}

func TestPipelineRetrieve(t *testing.T) {
	ctx := context.Background()

	corpusVectors := map[string][]float32{
		"neural networks learn hierarchical features": {1, 0, 0},
		"gradient descent minimizes the loss":         {0.9, 0.1, 0},
		"medieval trade routes crossed europe":        {0, 0, 1},
	}

	t.Run("returns at most finalK candidates", func(t *testing.T) {
		pipeline, cleanup := seedCorpus(t, corpusVectors)
		defer cleanup()

		results, err := pipeline.Retrieve(ctx, "neural networks learn hierarchical features", 20, 2)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(results), 2)
		assert.NotEmpty(t, results)
	})

	t.Run("results come from the corpus", func(t *testing.T) {
		pipeline, cleanup := seedCorpus(t, corpusVectors)
		defer cleanup()

		results, err := pipeline.Retrieve(ctx, "neural networks learn hierarchical features", 20, 5)
		require.NoError(t, err)
		for _, r := range results {
			_, ok := corpusVectors[r.Text]
			assert.True(t, ok, "result %q not in corpus", r.Text)
			assert.Equal(t, "test.pdf", r.Metadata["source"])
		}
	})

	t.Run("empty query returns empty without error", func(t *testing.T) {
		pipeline, cleanup := seedCorpus(t, corpusVectors)
		defer cleanup()

		results, err := pipeline.Retrieve(ctx, "   ", 20, 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("empty corpus returns empty", func(t *testing.T) {
		repo, backend, err := badger.NewMemoryRepository()
		require.NoError(t, err)
		defer func() { repo.Close(); backend.Close() }()

		pipeline, err := NewPipeline(repo, mock.NewMockEmbedder())
		require.NoError(t, err)
		require.NoError(t, pipeline.BuildIndex(ctx))
		assert.False(t, pipeline.IndexBuilt())

		results, err := pipeline.Retrieve(ctx, "any query at all", 20, 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("unbuilt index degrades to vector-only", func(t *testing.T) {
		repo, backend, err := badger.NewMemoryRepository()
		require.NoError(t, err)
		defer func() { repo.Close(); backend.Close() }()

		_, err = repo.AddChunks(ctx, &core.Chunk{Text: "only chunk", Vector: []float32{1, 0, 0}})
		require.NoError(t, err)

		embedder := axisEmbedder(nil, []float32{1, 0, 0})
		pipeline, err := NewPipeline(repo, embedder)
		require.NoError(t, err)
		// BuildIndex deliberately not called

		results, err := pipeline.Retrieve(ctx, "some query", 10, 5)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "only chunk", results[0].Text)
	})

	t.Run("embedder failure propagates", func(t *testing.T) {
		repo, backend, err := badger.NewMemoryRepository()
		require.NoError(t, err)
		defer func() { repo.Close(); backend.Close() }()

		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, fmt.Errorf("embedding service down")
		}
		pipeline, err := NewPipeline(repo, embedder)
		require.NoError(t, err)

		_, err = pipeline.Retrieve(ctx, "some query", 10, 5)
		assert.Error(t, err)
	})
}

func TestPipelineWithReranker(t *testing.T) {
	ctx := context.Background()

	corpusVectors := map[string][]float32{
		"relevant passage about networks": {1, 0, 0},
		"less relevant passage":           {0.8, 0.2, 0},
	}

	t.Run("reranker reorders final results", func(t *testing.T) {
		repo, backend, err := badger.NewMemoryRepository()
		require.NoError(t, err)
		defer func() { repo.Close(); backend.Close() }()

		for text, vector := range corpusVectors {
			_, err := repo.AddChunks(ctx, &core.Chunk{Text: text, Vector: vector})
			require.NoError(t, err)
		}

		scorer := mock.NewMockPairScorer()
		scorer.ScorePairsFunc = func(ctx context.Context, query string, docs []string) ([]float64, error) {
			scores := make([]float64, len(docs))
			for i, d := range docs {
				if d == "less relevant passage" {
					scores[i] = 0.99
				} else {
					scores[i] = 0.1
				}
			}
			return scores, nil
		}
		reranker, err := NewReranker(scorer)
		require.NoError(t, err)

		embedder := axisEmbedder(corpusVectors, []float32{1, 0, 0})
		pipeline, err := NewPipeline(repo, embedder, WithReranker(reranker))
		require.NoError(t, err)
		require.NoError(t, pipeline.BuildIndex(ctx))

		results, err := pipeline.Retrieve(ctx, "networks query", 10, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "less relevant passage", results[0].Text)
	})

	t.Run("failing reranker degrades to fused order", func(t *testing.T) {
		repo, backend, err := badger.NewMemoryRepository()
		require.NoError(t, err)
		defer func() { repo.Close(); backend.Close() }()

		for text, vector := range corpusVectors {
			_, err := repo.AddChunks(ctx, &core.Chunk{Text: text, Vector: vector})
			require.NoError(t, err)
		}

		scorer := mock.NewMockPairScorer()
		scorer.ScorePairsFunc = func(ctx context.Context, query string, docs []string) ([]float64, error) {
			return nil, fmt.Errorf("model crashed")
		}
		reranker, err := NewReranker(scorer)
		require.NoError(t, err)

		embedder := axisEmbedder(corpusVectors, []float32{1, 0, 0})
		pipeline, err := NewPipeline(repo, embedder, WithReranker(reranker))
		require.NoError(t, err)
		require.NoError(t, pipeline.BuildIndex(ctx))

		results, err := pipeline.Retrieve(ctx, "relevant passage about networks", 10, 2)
		require.NoError(t, err)
		assert.NotEmpty(t, results)
	})
}

func TestSimilarityFromDistance(t *testing.T) {
	assert.InDelta(t, 1.0, SimilarityFromDistance(0), 1e-9)
	assert.InDelta(t, 0.5, SimilarityFromDistance(1), 1e-9)
	assert.Greater(t, SimilarityFromDistance(0.2), SimilarityFromDistance(0.8))
}

func TestPipelineMonitor(t *testing.T) {
	ctx := context.Background()

	corpusVectors := map[string][]float32{
		"monitored chunk": {1, 0, 0},
	}
	pipeline, cleanup := seedCorpus(t, corpusVectors)
	defer cleanup()

	m := &recordingMonitor{}
	results, err := pipeline.RetrieveWithMonitor(ctx, "monitored chunk", 10, 5, m)
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	assert.Equal(t, "monitored chunk", m.query)
	assert.True(t, m.vectorSeen)
	assert.True(t, m.fusionSeen)
	assert.True(t, m.finished)
	// No reranker configured, so the rerank stage reports degradation
	assert.Equal(t, "rerank", m.degradedStage)
}

type recordingMonitor struct {
	query         string
	vectorSeen    bool
	fusionSeen    bool
	degradedStage string
	finished      bool
}

func (m *recordingMonitor) Start(query string)                        { m.query = query }
func (m *recordingMonitor) AfterVectorSearch(_ []core.Candidate)      { m.vectorSeen = true }
func (m *recordingMonitor) AfterKeywordSearch(_ []core.Candidate)     {}
func (m *recordingMonitor) AfterFusion(_ []core.Candidate)            { m.fusionSeen = true }
func (m *recordingMonitor) Degraded(stage string, _ error)            { m.degradedStage = stage }
func (m *recordingMonitor) Finish(_ []core.Candidate)                 { m.finished = true }
