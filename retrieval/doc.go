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

// Package retrieval provides hybrid retrieval over a document corpus.
//
// The Pipeline type composes four stages:
//   - Keyword search via a term-frequency index (KeywordIndex)
//   - Vector search via the corpus repository and an embedder
//   - Weighted score fusion of both result sets (Fusion)
//   - Pairwise reranking of the fused top candidates (Reranker)
//
// Degradation is explicit at every stage boundary: an unbuilt keyword
// index downgrades to vector-only retrieval, a missing or failing rerank
// model passes fused candidates through unchanged, and invalid queries
// return empty results. The pipeline's worst-case behavior is plain
// vector search; it never fails for quality reasons.
package retrieval
