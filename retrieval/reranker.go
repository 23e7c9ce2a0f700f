package retrieval

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/scholar/ai"
	"github.com/poiesic/scholar/core"
)

const (
	// MaxRerankCandidates caps how many candidates a single rerank call
	// may score. Excess candidates are dropped with a warning.
	MaxRerankCandidates = 50

	// MaxChunkLength is the per-candidate text truncation limit, in
	// characters, applied before scoring.
	MaxChunkLength = 8000

	// MaxQueryLength is the query truncation limit in characters.
	MaxQueryLength = 1000

	// MinQueryLength is the minimum query length after trimming.
	MinQueryLength = 2

	// RerankBatchSize bounds peak memory during scoring; candidates are
	// scored in batches of this size, never as one unbounded call.
	RerankBatchSize = 20
)

// Reranker re-scores a bounded candidate set against a query using a
// pairwise relevance model.
//
// Reranking never fails past its own boundary: if the model is missing or
// every scoring attempt fails, the stage is a passthrough that returns the
// first topK input candidates unchanged in content and order.
type Reranker struct {
	scorer    ai.PairScorer
	batchSize int
	logger    *slog.Logger
}

// RerankerOption configures a Reranker.
type RerankerOption func(*Reranker) error

// WithRerankerLogger sets a custom logger.
// Default is slog.Default().
func WithRerankerLogger(logger *slog.Logger) RerankerOption {
	return func(r *Reranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithBatchSize overrides the default scoring batch size.
func WithBatchSize(size int) RerankerOption {
	return func(r *Reranker) error {
		if size > 0 {
			r.batchSize = size
		}
		return nil
	}
}

// NewReranker creates a reranker over the given pairwise scorer.
// A nil scorer is allowed: the reranker then operates permanently in
// passthrough mode, logged here once rather than per call.
func NewReranker(scorer ai.PairScorer, opts ...RerankerOption) (*Reranker, error) {
	r := &Reranker{
		scorer:    scorer,
		batchSize: RerankBatchSize,
		logger:    slog.Default().With("component", "reranker"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if scorer == nil {
		r.logger.Warn("no rerank model configured, reranking disabled", "err", ErrModelUnavailable)
	}
	return r, nil
}

// Available reports whether a rerank model is configured.
func (r *Reranker) Available() bool {
	return r.scorer != nil
}

// Rerank re-scores candidates against the query and returns the topK by
// the new pairwise scores, descending.
//
// The query is validated (ErrInvalidQuery for empty or too-short input,
// silent truncation over MaxQueryLength). The candidate set is capped at
// MaxRerankCandidates and each text truncated to MaxChunkLength before
// scoring. On resource exhaustion a batch is retried once at half size;
// any terminal failure degrades to passthrough of the input order.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []core.Candidate, topK int) ([]core.Candidate, error) {
	query = strings.TrimSpace(query)
	if len(query) < MinQueryLength {
		return nil, ErrInvalidQuery
	}
	if len(query) > MaxQueryLength {
		r.logger.Warn("query truncated for rerank", "length", len(query), "max", MaxQueryLength)
		query = query[:MaxQueryLength]
	}

	if len(candidates) == 0 {
		return []core.Candidate{}, nil
	}

	if len(candidates) > MaxRerankCandidates {
		r.logger.Warn("candidate set capped for rerank",
			"candidates", len(candidates), "max", MaxRerankCandidates)
		candidates = candidates[:MaxRerankCandidates]
	}

	if r.scorer == nil {
		return passthrough(candidates, topK), nil
	}

	docs := make([]string, len(candidates))
	for i, c := range candidates {
		text := c.Text
		if len(text) > MaxChunkLength {
			text = text[:MaxChunkLength]
		}
		docs[i] = text
	}

	scores, err := r.scoreBatched(ctx, query, docs)
	if err != nil {
		r.logger.Warn("rerank failed, passing candidates through", "err", err)
		return passthrough(candidates, topK), nil
	}

	rescored := make([]core.Candidate, len(candidates))
	copy(rescored, candidates)
	for i := range rescored {
		rescored[i].Score = scores[i]
	}

	// Stable sort keeps input order on score ties.
	sort.SliceStable(rescored, func(i, j int) bool {
		return rescored[i].Score > rescored[j].Score
	})

	if topK >= 0 && len(rescored) > topK {
		rescored = rescored[:topK]
	}
	return rescored, nil
}

// scoreBatched scores all docs in fixed-size batches. A batch that hits
// resource exhaustion is retried once at half the batch size before the
// whole call gives up.
func (r *Reranker) scoreBatched(ctx context.Context, query string, docs []string) ([]float64, error) {
	scores := make([]float64, 0, len(docs))

	for start := 0; start < len(docs); start += r.batchSize {
		end := start + r.batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		batchScores, err := r.scorer.ScorePairs(ctx, query, batch)
		if err != nil {
			if !errors.Is(err, ai.ErrResourceExhausted) {
				return nil, err
			}
			r.logger.Warn("rerank batch hit resource limits, retrying at half size",
				"batch", len(batch))
			batchScores, err = r.scoreHalved(ctx, query, batch)
			if err != nil {
				return nil, err
			}
		}
		if len(batchScores) != len(batch) {
			return nil, errors.New("rerank model returned wrong score count")
		}
		scores = append(scores, batchScores...)
	}

	return scores, nil
}

// scoreHalved scores a batch in two halves after a resource-exhaustion
// failure. No further retry: a second failure propagates.
func (r *Reranker) scoreHalved(ctx context.Context, query string, batch []string) ([]float64, error) {
	half := len(batch) / 2
	if half == 0 {
		half = 1
	}

	scores := make([]float64, 0, len(batch))
	for start := 0; start < len(batch); start += half {
		end := start + half
		if end > len(batch) {
			end = len(batch)
		}
		part, err := r.scorer.ScorePairs(ctx, query, batch[start:end])
		if err != nil {
			return nil, err
		}
		scores = append(scores, part...)
	}
	return scores, nil
}

// passthrough returns the first topK candidates unchanged.
func passthrough(candidates []core.Candidate, topK int) []core.Candidate {
	if topK >= 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}
	out := make([]core.Candidate, len(candidates))
	copy(out, candidates)
	return out
}
