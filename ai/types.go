package ai

import "errors"

// Role identifies the author of a conversation message.
type Role int

const (
	// RoleUser is a message authored by the caller.
	RoleUser Role = iota + 1
	// RoleAssistant is a message previously authored by the model.
	RoleAssistant
)

// Message is a single conversation turn sent to a Completer.
type Message struct {
	Role    Role
	Content string
}

// UserMessage is a convenience constructor for a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Completion is the result of a single Completer call.
type Completion struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// TotalTokens returns the combined input and output token count.
func (c *Completion) TotalTokens() int {
	return c.InputTokens + c.OutputTokens
}

// Service errors
var (
	// ErrResourceExhausted indicates the model ran out of memory or a similar
	// resource while serving a request. Callers may retry with a smaller batch.
	ErrResourceExhausted = errors.New("model resource exhausted")

	// ErrNoChoices indicates the model returned an empty response.
	ErrNoChoices = errors.New("model returned no choices")
)
