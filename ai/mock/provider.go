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

package mock

import "github.com/poiesic/scholar/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates mock embedder and completer instances.
type MockProvider struct {
	embedder *MockEmbedder
	lead     *MockCompleter
	worker   *MockCompleter
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use GetMockEmbedder()/GetMockLead()/GetMockWorker() to access concrete types
// for test assertions.
func NewMockProvider() ai.Provider {
	lead := NewMockCompleter()
	lead.ModelName = "mock-lead"
	worker := NewMockCompleter()
	worker.ModelName = "mock-worker"

	return &MockProvider{
		embedder: NewMockEmbedder(),
		lead:     lead,
		worker:   worker,
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(embedder *MockEmbedder, lead, worker *MockCompleter) ai.Provider {
	return &MockProvider{
		embedder: embedder,
		lead:     lead,
		worker:   worker,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// LeadCompleter returns the mock lead completer.
func (p *MockProvider) LeadCompleter() ai.Completer {
	return p.lead
}

// WorkerCompleter returns the mock worker completer.
func (p *MockProvider) WorkerCompleter() ai.Completer {
	return p.worker
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockLead returns the underlying mock lead completer for test assertions.
func (p *MockProvider) GetMockLead() *MockCompleter {
	return p.lead
}

// GetMockWorker returns the underlying mock worker completer for test assertions.
func (p *MockProvider) GetMockWorker() *MockCompleter {
	return p.worker
}
