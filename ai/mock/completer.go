package mock

import (
	"context"

	"github.com/poiesic/scholar/ai"
)

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, returns a canned completion echoing the last message.
	CompleteFunc func(ctx context.Context, system string, messages []ai.Message, maxTokens int) (*ai.Completion, error)

	// ModelName is returned by Model. Defaults to "mock-model".
	ModelName string

	callCount int
}

// NewMockCompleter creates a mock completer with default canned behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{ModelName: "mock-model"}
}

// Model returns the configured model name.
func (m *MockCompleter) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

// Complete returns the injected behavior or a canned completion.
func (m *MockCompleter) Complete(ctx context.Context, system string, messages []ai.Message, maxTokens int) (*ai.Completion, error) {
	m.callCount++

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, messages, maxTokens)
	}

	text := "mock completion"
	if len(messages) > 0 {
		text = "mock completion for: " + messages[len(messages)-1].Content
	}
	return &ai.Completion{
		Text:         text,
		InputTokens:  100,
		OutputTokens: 50,
	}, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockCompleter) Reset() {
	m.callCount = 0
	m.CompleteFunc = nil
}
