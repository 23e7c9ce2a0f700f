package retrieval

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/poiesic/scholar/ai"
	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/corpus"
)

// Pipeline composes keyword search, vector search, score fusion and
// reranking into a single retrieve(query) contract.
//
// Every stage failure degrades one level rather than aborting the call:
// the worst-case behavior is equivalent to plain vector search.
type Pipeline struct {
	repository corpus.ChunkRepository
	embedder   ai.Embedder
	index      *KeywordIndex
	chunks     []*core.Chunk
	fusion     *Fusion
	reranker   *Reranker
	logger     *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline) error

// WithPipelineLogger sets a custom logger.
// Default is slog.Default().
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithFusion replaces the default equal-weight fusion stage.
func WithFusion(fusion *Fusion) PipelineOption {
	return func(p *Pipeline) error {
		if fusion != nil {
			p.fusion = fusion
		}
		return nil
	}
}

// WithReranker sets the rerank stage. Without one the pipeline skips
// reranking entirely and returns fused candidates directly.
func WithReranker(reranker *Reranker) PipelineOption {
	return func(p *Pipeline) error {
		p.reranker = reranker
		return nil
	}
}

// NewPipeline creates a retrieval pipeline over the given corpus.
func NewPipeline(repository corpus.ChunkRepository, embedder ai.Embedder, opts ...PipelineOption) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	fusion, err := NewFusion()
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		embedder:   embedder,
		index:      NewKeywordIndex(),
		fusion:     fusion,
		logger:     slog.Default().With("component", "retrieval"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// BuildIndex loads the corpus and constructs the keyword index. Call after
// ingestion and again whenever the corpus changes. An empty corpus leaves
// the index unbuilt, which downgrades retrieval to vector-only.
func (p *Pipeline) BuildIndex(ctx context.Context) error {
	chunks, err := p.repository.AllChunks(ctx)
	if err != nil {
		return err
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	p.chunks = chunks
	p.index.Build(texts)

	if !p.index.Built() {
		p.logger.Warn("keyword index not built, falling back to vector-only retrieval",
			"chunks", len(chunks), "err", ErrIndexUnavailable)
	} else {
		p.logger.Info("keyword index built", "chunks", len(chunks))
	}
	return nil
}

// IndexBuilt reports whether keyword search is available.
func (p *Pipeline) IndexBuilt() bool {
	return p.index.Built()
}

// Retrieve runs the full hybrid pipeline for a query.
// Retrieve returns the Monitor-free variant; see RetrieveWithMonitor.
func (p *Pipeline) Retrieve(ctx context.Context, query string, retrieveK, finalK int) ([]core.Candidate, error) {
	return p.RetrieveWithMonitor(ctx, query, retrieveK, finalK, nil)
}

// RetrieveWithMonitor runs the full hybrid pipeline for a query with
// stage observation hooks.
//
// Sequence: fetch retrieveK vector candidates; if the keyword index is
// built, score the corpus and fuse both sets to retrieveK; rerank down to
// finalK. A missing index skips fusion; a missing or failing reranker
// passes fused candidates through; an empty vector result returns empty.
func (p *Pipeline) RetrieveWithMonitor(ctx context.Context, query string, retrieveK, finalK int, monitor Monitor) ([]core.Candidate, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	if strings.TrimSpace(query) == "" {
		p.logger.Warn("empty retrieval query", "err", ErrInvalidQuery)
		return []core.Candidate{}, nil
	}

	vectorCandidates, err := p.vectorSearch(ctx, query, retrieveK)
	if err != nil {
		p.logger.Error("vector search failed", "err", err)
		return nil, err
	}
	monitor.AfterVectorSearch(vectorCandidates)

	if len(vectorCandidates) == 0 {
		monitor.Finish(nil)
		return []core.Candidate{}, nil
	}

	candidates := vectorCandidates
	if p.index.Built() {
		keywordCandidates := p.keywordSearch(query, retrieveK)
		monitor.AfterKeywordSearch(keywordCandidates)

		candidates = p.fusion.Fuse(keywordCandidates, vectorCandidates, retrieveK)
		monitor.AfterFusion(candidates)
	} else {
		monitor.Degraded("keyword", ErrIndexUnavailable)
	}

	if p.reranker == nil {
		monitor.Degraded("rerank", ErrModelUnavailable)
		results := passthrough(candidates, finalK)
		monitor.Finish(results)
		return results, nil
	}

	results, err := p.reranker.Rerank(ctx, query, candidates, finalK)
	if err != nil {
		// Query validation failures are handled here, not surfaced.
		p.logger.Warn("rerank rejected query, passing candidates through", "err", err)
		monitor.Degraded("rerank", err)
		results = passthrough(candidates, finalK)
	}
	monitor.Finish(results)
	return results, nil
}

// vectorSearch embeds the query and fetches nearest chunks from the
// corpus, converting to candidates with provenance metadata.
func (p *Pipeline) vectorSearch(ctx context.Context, query string, k int) ([]core.Candidate, error) {
	embedding, err := p.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}

	matches, err := p.repository.FindSimilar(ctx, embedding, 0.0, k)
	if err != nil {
		return nil, err
	}

	candidates := make([]core.Candidate, 0, len(matches))
	for _, match := range matches {
		candidates = append(candidates, core.Candidate{
			Text:     match.Chunk.Text,
			Score:    float64(match.Score),
			Metadata: chunkMetadata(match.Chunk),
		})
	}
	return candidates, nil
}

// keywordSearch scores the whole corpus against the query and returns the
// top k positions with non-zero scores as candidates.
func (p *Pipeline) keywordSearch(query string, k int) []core.Candidate {
	scores := p.index.Scores(query)

	candidates := make([]core.Candidate, 0, k)
	for i, score := range scores {
		if score <= 0 || i >= len(p.chunks) {
			continue
		}
		candidates = append(candidates, core.Candidate{
			Text:     p.chunks[i].Text,
			Score:    score,
			Metadata: chunkMetadata(p.chunks[i]),
		})
	}

	// Keep only the k best keyword hits
	if k >= 0 && len(candidates) > k {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Score > candidates[j].Score
		})
		candidates = candidates[:k]
	}
	return candidates
}

// SimilarityFromDistance converts a distance-convention score (lower is
// closer) to a similarity in (0, 1]. Used when plugging in vector stores
// that report distances instead of similarities.
func SimilarityFromDistance(distance float64) float64 {
	return 1.0 / (1.0 + distance)
}

// chunkMetadata builds the pass-through provenance map for a chunk.
func chunkMetadata(chunk *core.Chunk) map[string]string {
	meta := map[string]string{
		"source": chunk.Source,
	}
	if chunk.Page > 0 {
		meta["page"] = strconv.Itoa(chunk.Page)
	}
	if chunk.Section != "" {
		meta["section"] = chunk.Section
	}
	for k, v := range chunk.Metadata {
		meta[k] = v
	}
	return meta
}
