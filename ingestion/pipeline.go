package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/scholar/ai"
	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/corpus"
)

const (
	embedBatchSize    = 32
	embedMaxAttempts  = 3
	embedRetryBackoff = 500 * time.Millisecond
)

// Pipeline turns raw document text into embedded, stored chunks.
// Chunks are stored immediately; embedding runs asynchronously on a
// worker pool, with each batch retried on transient failure and its
// vectors normalized to unit length before the update.
type Pipeline struct {
	repository corpus.ChunkRepository
	embedder   ai.Embedder
	chunker    *Chunker
	pool       *ants.Pool
	pending    sync.WaitGroup
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithChunker sets a custom chunker.
func WithChunker(chunker *Chunker) Option {
	return func(p *Pipeline) error {
		if chunker != nil {
			p.chunker = chunker
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(repository corpus.ChunkRepository, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		embedder:   embedder,
		chunker:    NewChunker(),
		pool:       pool,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestOptions holds optional parameters for ingestion.
type IngestOptions struct {
	Page     int               // Page number the text came from, if known
	Section  string            // Section heading, if known
	Metadata map[string]string // Optional metadata to attach to chunks
}

// IngestDocument splits text into chunks, stores them, and schedules
// embedding. Embedding errors are logged, not returned; chunks whose
// embedding ultimately fails remain stored without vectors and are
// still reachable through keyword retrieval.
// Returns the stored chunks, which may be fewer than the split count
// when content-identical chunks already exist.
func (p *Pipeline) IngestDocument(ctx context.Context, source, text string, opts *IngestOptions) ([]*core.Chunk, error) {
	if opts == nil {
		opts = &IngestOptions{}
	}

	pieces := p.chunker.Split(text)
	if len(pieces) == 0 {
		return nil, ErrEmptyDocument
	}

	chunks := make([]*core.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = &core.Chunk{
			Text:     piece,
			Source:   source,
			Page:     opts.Page,
			Section:  opts.Section,
			Metadata: opts.Metadata,
		}
	}

	added, err := p.repository.AddChunks(ctx, chunks...)
	if err != nil {
		return nil, err
	}

	p.logger.Info("document ingested",
		"source", source,
		"chunks", len(added),
		"split", len(pieces))

	for start := 0; start < len(added); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(added) {
			end = len(added)
		}
		p.submitEmbedBatch(added[start:end])
	}

	return added, nil
}

// submitEmbedBatch schedules one batch for embedding on the pool.
func (p *Pipeline) submitEmbedBatch(batch []*core.Chunk) {
	p.pending.Add(1)
	err := p.pool.Submit(func() {
		defer p.pending.Done()
		if err := p.embedBatch(context.Background(), batch); err != nil {
			p.logger.Error("error embedding chunk batch", "chunks", len(batch), "err", err)
		}
	})
	if err != nil {
		p.pending.Done()
		p.logger.Error("error submitting embed batch", "err", err)
	}
}

func (p *Pipeline) embedBatch(ctx context.Context, batch []*core.Chunk) error {
	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = chunk.Text
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var embErr error
		embeddings, embErr = p.embedder.EmbedTexts(ctx, texts)
		return embErr
	}, embedMaxAttempts, embedRetryBackoff)
	if err != nil {
		return err
	}

	if len(embeddings) != len(batch) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(embeddings))
	}

	for i := range embeddings {
		batch[i].Vector = NormalizeVector(embeddings[i])
	}

	_, err = p.repository.UpdateChunks(ctx, batch...)
	return err
}

// Wait blocks until all scheduled embedding work has finished.
func (p *Pipeline) Wait() {
	p.pending.Wait()
}

// Release releases the worker pool after draining pending work.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	p.pending.Wait()
	if p.pool != nil {
		p.pool.Release()
	}
}
