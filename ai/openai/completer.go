package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/scholar/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Completer implements ai.Completer using OpenAI-compatible chat APIs.
type Completer struct {
	client llms.Model
	model  string
	logger *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage lead and worker instances.
func newCompleter(config *ai.Config, model string) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client: client,
		model:  model,
		logger: slog.Default().With("component", "openai-completer", "model", model),
	}, nil
}

// NewCompleter creates a new completer for the given model using the provided
// configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config, model string) (ai.Completer, error) {
	return newCompleter(config, model)
}

// Model returns the model identifier, used for cost accounting.
func (c *Completer) Model() string {
	return c.model
}

// Complete sends the system prompt and messages to the model and returns the
// generated text with token usage.
func (c *Completer) Complete(ctx context.Context, system string, messages []ai.Message, maxTokens int) (*ai.Completion, error) {
	content := make([]llms.MessageContent, 0, len(messages)+1)
	if system != "" {
		content = append(content, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		})
	}
	for _, msg := range messages {
		role := llms.ChatMessageTypeHuman
		if msg.Role == ai.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}

	opts := []llms.CallOption{llms.WithTemperature(0.7)}
	if maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(maxTokens))
	}

	response, err := c.client.GenerateContent(ctx, content, opts...)
	if err != nil {
		c.logger.Error("failed to generate content", "err", err)
		return nil, err
	}

	if len(response.Choices) < 1 {
		c.logger.Warn("no choices returned from model")
		return nil, ai.ErrNoChoices
	}

	choice := response.Choices[0]
	completion := &ai.Completion{
		Text:         choice.Content,
		InputTokens:  usageInt(choice.GenerationInfo, "PromptTokens"),
		OutputTokens: usageInt(choice.GenerationInfo, "CompletionTokens"),
	}

	c.logger.Debug("completion generated",
		"inputTokens", completion.InputTokens,
		"outputTokens", completion.OutputTokens)

	return completion, nil
}

// usageInt reads a token count from langchaingo generation info, which
// reports counts with provider-dependent numeric types.
func usageInt(info map[string]any, key string) int {
	if info == nil {
		return 0
	}
	switch v := info[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
