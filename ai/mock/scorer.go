package mock

import (
	"context"
)

// MockPairScorer is a test double for ai.PairScorer.
// It allows custom behavior injection via function fields.
type MockPairScorer struct {
	// ScorePairsFunc is called by ScorePairs if set.
	// If nil, scores each document by its length (longer = more relevant),
	// which is deterministic and easy to reason about in tests.
	ScorePairsFunc func(ctx context.Context, query string, docs []string) ([]float64, error)

	callCount int
}

// NewMockPairScorer creates a mock scorer with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockPairScorer() *MockPairScorer {
	return &MockPairScorer{}
}

// ScorePairs returns the injected behavior or length-based scores.
func (m *MockPairScorer) ScorePairs(ctx context.Context, query string, docs []string) ([]float64, error) {
	m.callCount++

	if m.ScorePairsFunc != nil {
		return m.ScorePairsFunc(ctx, query, docs)
	}

	scores := make([]float64, len(docs))
	for i, doc := range docs {
		scores[i] = float64(len(doc))
	}
	return scores, nil
}

// CallCount returns the number of times ScorePairs was called.
func (m *MockPairScorer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockPairScorer) Reset() {
	m.callCount = 0
	m.ScorePairsFunc = nil
}
