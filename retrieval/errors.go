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

package retrieval

import "errors"

var (
	// ErrInvalidQuery indicates an empty or too-short query.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrIndexUnavailable indicates the keyword index was never built or
	// was built over an empty corpus. This is a recognized degraded state,
	// not a failure: consumers fall back to vector-only retrieval.
	ErrIndexUnavailable = errors.New("keyword index unavailable")

	// ErrModelUnavailable indicates the rerank model is not configured.
	// Reranking degrades to passthrough when this state is observed.
	ErrModelUnavailable = errors.New("rerank model unavailable")

	// ErrInvalidWeights indicates fusion weights that are negative or sum to zero.
	ErrInvalidWeights = errors.New("invalid fusion weights")

	// ErrRepositoryRequired is returned when a chunk repository is not provided.
	ErrRepositoryRequired = errors.New("chunk repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)
