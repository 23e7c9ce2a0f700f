package ingestion

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/poiesic/scholar/ai/mock"
	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/corpus"
	"github.com/poiesic/scholar/corpus/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepository(t *testing.T) corpus.ChunkRepository {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func TestNewIngestionPipeline(t *testing.T) {
	repo := setupTestRepository(t)

	t.Run("nil repository rejected", func(t *testing.T) {
		_, err := NewPipeline(nil, mock.NewMockEmbedder())
		assert.Equal(t, ErrRepositoryRequired, err)
	})

	t.Run("nil embedder rejected", func(t *testing.T) {
		_, err := NewPipeline(repo, nil)
		assert.Equal(t, ErrEmbedderRequired, err)
	})

	t.Run("valid configuration", func(t *testing.T) {
		p, err := NewPipeline(repo, mock.NewMockEmbedder(), WithPoolSize(2))
		require.NoError(t, err)
		p.Release()
	})
}

func TestIngestDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and embeds chunks", func(t *testing.T) {
		repo := setupTestRepository(t)
		embedder := mock.NewMockEmbedder()

		p, err := NewPipeline(repo, embedder,
			WithChunker(NewChunker(WithChunkSize(100), WithChunkOverlap(0))))
		require.NoError(t, err)
		defer p.Release()

		text := strings.Repeat("Neural networks learn from data. ", 20)
		added, err := p.IngestDocument(ctx, "intro.pdf", text, &IngestOptions{Page: 3})
		require.NoError(t, err)
		require.Greater(t, len(added), 1)

		p.Wait()

		stored, err := repo.GetChunksBySource(ctx, "intro.pdf")
		require.NoError(t, err)
		require.Len(t, stored, len(added))

		for _, chunk := range stored {
			assert.Equal(t, 3, chunk.Page)
			require.NotEmpty(t, chunk.Vector)

			// Vectors come back unit-normalized
			var mag float64
			for _, x := range chunk.Vector {
				mag += float64(x) * float64(x)
			}
			assert.InDelta(t, 1.0, mag, 1e-4)
		}
	})

	t.Run("empty document rejected", func(t *testing.T) {
		repo := setupTestRepository(t)
		p, err := NewPipeline(repo, mock.NewMockEmbedder())
		require.NoError(t, err)
		defer p.Release()

		_, err = p.IngestDocument(ctx, "empty.pdf", "   ", nil)
		assert.Equal(t, ErrEmptyDocument, err)
	})

	t.Run("embedding failure leaves chunks stored without vectors", func(t *testing.T) {
		repo := setupTestRepository(t)
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("embedder down")
		}

		p, err := NewPipeline(repo, embedder)
		require.NoError(t, err)
		defer p.Release()

		added, err := p.IngestDocument(ctx, "doc.pdf", "Some document text.", nil)
		require.NoError(t, err)
		require.Len(t, added, 1)

		p.Wait()

		chunk, err := repo.GetChunk(ctx, added[0].Id)
		require.NoError(t, err)
		assert.Empty(t, chunk.Vector)
	})

	t.Run("transient embedding failure is retried", func(t *testing.T) {
		repo := setupTestRepository(t)
		embedder := mock.NewMockEmbedder()

		var calls atomic.Int32
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			if calls.Add(1) == 1 {
				return nil, errors.New("transient")
			}
			result := make([][]float32, len(texts))
			for i := range texts {
				result[i] = []float32{1, 0, 0}
			}
			return result, nil
		}

		p, err := NewPipeline(repo, embedder)
		require.NoError(t, err)
		defer p.Release()

		added, err := p.IngestDocument(ctx, "doc.pdf", "Some document text.", nil)
		require.NoError(t, err)

		p.Wait()

		chunk, err := repo.GetChunk(ctx, added[0].Id)
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 0, 0}, chunk.Vector)
		assert.GreaterOrEqual(t, calls.Load(), int32(2))
	})

	t.Run("duplicate content is deduplicated by the store", func(t *testing.T) {
		repo := setupTestRepository(t)
		p, err := NewPipeline(repo, mock.NewMockEmbedder())
		require.NoError(t, err)
		defer p.Release()

		_, err = p.IngestDocument(ctx, "doc.pdf", "Identical content.", nil)
		require.NoError(t, err)
		_, err = p.IngestDocument(ctx, "doc.pdf", "Identical content.", nil)
		require.NoError(t, err)

		p.Wait()

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestIngestChunkSanity(t *testing.T) {
	// Chunks produced by ingestion are what retrieval sees; make sure
	// the metadata retrieval relies on is populated.
	repo := setupTestRepository(t)
	p, err := NewPipeline(repo, mock.NewMockEmbedder())
	require.NoError(t, err)
	defer p.Release()

	added, err := p.IngestDocument(context.Background(), "paper.pdf",
		"Attention is all you need.", &IngestOptions{Section: "Abstract"})
	require.NoError(t, err)
	require.Len(t, added, 1)

	assert.Equal(t, "paper.pdf", added[0].Source)
	assert.Equal(t, "Abstract", added[0].Section)
	assert.Equal(t, core.IDFromContent("Attention is all you need."), added[0].Id)
	assert.False(t, added[0].InsertedAt.IsZero())
}
