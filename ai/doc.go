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


// Package ai provides abstractions for the AI services used by Scholar.
//
// This package defines narrow interfaces for the external model services the
// research core depends on. It follows the dependency inversion principle,
// allowing retrieval and orchestration code to depend on abstractions rather
// than concrete implementations.
//
// # Design Principles
//
// The package is designed around four key interfaces:
//
//   - Embedder: generates vector embeddings from text
//   - Completer: produces text completions with token usage
//   - PairScorer: scores (query, document) pairs for reranking
//   - Provider: aggregates services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes three implementation sub-packages:
//
//   - ai/openai: production Completer/Embedder using OpenAI-compatible APIs
//   - ai/rerank: production PairScorer talking to a cross-encoder service
//   - ai/mock: test doubles for unit testing without external dependencies
//
// Production constructors return interface types to enforce abstraction.
// Mock constructors return concrete types so tests can inject behavior via
// the ...Func fields and assert on call counts.
package ai
