// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scholar

import (
	"context"
	"log/slog"

	"github.com/poiesic/scholar/ai"
	"github.com/poiesic/scholar/ai/openai"
	"github.com/poiesic/scholar/ai/rerank"
	"github.com/poiesic/scholar/corpus"
	"github.com/poiesic/scholar/corpus/badger"
	"github.com/poiesic/scholar/ingestion"
	"github.com/poiesic/scholar/research"
	"github.com/poiesic/scholar/retrieval"
	"github.com/poiesic/scholar/websearch"
)

// Library is the top-level handle over a document corpus: one storage
// backend, one AI provider, and factories for the ingestion pipeline,
// the retrieval pipeline, and the research orchestrator.
type Library struct {
	backend   *badger.Backend
	chunkRepo corpus.ChunkRepository
	provider  ai.Provider
	aiConfig  *ai.Config
	webKey    string
	logger    *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	webKey   string
}

// WithAIConfig sets the AI service configuration used to build the
// default OpenAI-compatible provider.
func WithAIConfig(config *ai.Config) LibraryOption {
	return func(o *libraryOptions) {
		o.aiConfig = config
	}
}

// WithProvider supplies a pre-built AI provider, bypassing the default
// OpenAI-compatible one.
func WithProvider(provider ai.Provider) LibraryOption {
	return func(o *libraryOptions) {
		o.provider = provider
	}
}

// WithWebSearchKey enables web search for research sessions.
// An empty key leaves web search disabled.
func WithWebSearchKey(key string) LibraryOption {
	return func(o *libraryOptions) {
		o.webKey = key
	}
}

// NewLibrary opens (or creates) a corpus at filePath.
func NewLibrary(filePath string, opts ...LibraryOption) (*Library, error) {
	options := &libraryOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			chunkRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Library{
		backend:   backend,
		chunkRepo: chunkRepo,
		provider:  provider,
		aiConfig:  options.aiConfig,
		webKey:    options.webKey,
		logger:    slog.Default(),
	}, nil
}

// Close releases the provider, the repository, and the backend.
func (l *Library) Close() error {
	if err := l.provider.Close(); err != nil {
		l.logger.Error("error closing AI provider", "err", err)
	}

	if err := l.chunkRepo.Close(); err != nil {
		l.logger.Error("error closing chunk repository", "err", err)
		return err
	}

	if err := l.backend.Close(); err != nil {
		l.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// ChunkRepository exposes the underlying chunk store.
func (l *Library) ChunkRepository() corpus.ChunkRepository {
	return l.chunkRepo
}

// NewIngestionPipeline creates an ingestion pipeline over this library's
// corpus and embedder.
func (l *Library) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(l.chunkRepo, l.provider.Embedder(), opts...)
}

// NewRetrievalPipeline creates a hybrid retrieval pipeline and builds
// its keyword index from the stored corpus. When the AI configuration
// carries a rerank host, results are reranked by the cross-encoder
// service; otherwise reranking runs in passthrough mode.
func (l *Library) NewRetrievalPipeline(ctx context.Context, opts ...retrieval.PipelineOption) (*retrieval.Pipeline, error) {
	if l.aiConfig != nil && l.aiConfig.RerankHost != "" {
		scorer, err := rerank.NewClient(l.aiConfig.RerankHost)
		if err != nil {
			return nil, err
		}
		reranker, err := retrieval.NewReranker(scorer, retrieval.WithRerankerLogger(l.logger))
		if err != nil {
			return nil, err
		}
		opts = append([]retrieval.PipelineOption{retrieval.WithReranker(reranker)}, opts...)
	}

	pipeline, err := retrieval.NewPipeline(l.chunkRepo, l.provider.Embedder(), opts...)
	if err != nil {
		return nil, err
	}
	if err := pipeline.BuildIndex(ctx); err != nil {
		return nil, err
	}
	return pipeline, nil
}

// NewOrchestrator creates a research orchestrator backed by a fresh
// retrieval pipeline. Web search is enabled when the library was opened
// with a web search key.
func (l *Library) NewOrchestrator(ctx context.Context, opts ...research.Option) (*research.Orchestrator, error) {
	pipeline, err := l.NewRetrievalPipeline(ctx)
	if err != nil {
		return nil, err
	}

	if l.webKey != "" {
		web, err := websearch.NewClient(l.webKey, websearch.WithLogger(l.logger))
		if err != nil {
			return nil, err
		}
		opts = append([]research.Option{research.WithWebSearch(web)}, opts...)
	}

	return research.NewOrchestrator(l.provider, pipeline, opts...)
}
