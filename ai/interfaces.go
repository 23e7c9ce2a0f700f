package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer produces a text completion from a large language model.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete sends the system prompt and messages to the model and returns
	// the generated text together with token usage. maxTokens bounds the
	// output length.
	Complete(ctx context.Context, system string, messages []Message, maxTokens int) (*Completion, error)

	// Model returns the model identifier, used for cost accounting.
	Model() string
}

// PairScorer assigns a relevance score to each (query, document) pair.
// It is the second-pass reranking model: stateless, but may return
// ErrResourceExhausted under memory pressure, in which case callers should
// retry with smaller batches.
type PairScorer interface {
	// ScorePairs scores every document against the query. The returned slice
	// contains one score per document, in input order. Higher is more relevant.
	ScorePairs(ctx context.Context, query string, docs []string) ([]float64, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and Completer instances,
// ensuring they share configuration and resources appropriately.
//
// Two completers are exposed: the lead model does planning and synthesis (few
// calls, expensive tier) and the worker model does subtask execution (many
// parallel calls, cheap tier).
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// LeadCompleter returns the completion service for planning and synthesis.
	LeadCompleter() Completer

	// WorkerCompleter returns the completion service for subtask execution.
	WorkerCompleter() Completer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
