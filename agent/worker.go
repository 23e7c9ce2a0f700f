package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/poiesic/scholar/ai"
	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/pricing"
	"github.com/poiesic/scholar/retrieval"
	"github.com/poiesic/scholar/websearch"
)

const (
	// corpusRetrieveK is how many candidates the retrieval pipeline
	// considers before reranking.
	corpusRetrieveK = 20

	// corpusFinalK is how many corpus chunks feed a worker's prompt.
	corpusFinalK = 10

	// webResultsPerSubtask bounds web results per subtask.
	webResultsPerSubtask = 5

	// webContentLimit truncates each web result's content in the prompt.
	webContentLimit = 1000

	lightTaskMaxTokens = 2000
)

// WorkerAgent executes one research subtask at a time: it retrieves
// context from the corpus and (if enabled) the web, then asks the LLM to
// analyze it for the subtask's focus.
type WorkerAgent struct {
	id        int
	completer ai.Completer
	pipeline  *retrieval.Pipeline
	web       *websearch.Client
	logger    *slog.Logger
}

// WorkerOption configures a WorkerAgent.
type WorkerOption func(*WorkerAgent) error

// WithWebSearch attaches a web search client. Without one, workers
// retrieve from the corpus only.
func WithWebSearch(client *websearch.Client) WorkerOption {
	return func(a *WorkerAgent) error {
		a.web = client
		return nil
	}
}

// WithWorkerLogger sets a custom logger.
// Default is slog.Default().
func WithWorkerLogger(logger *slog.Logger) WorkerOption {
	return func(a *WorkerAgent) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewWorkerAgent creates a worker agent with the given identity.
func NewWorkerAgent(id int, completer ai.Completer, pipeline *retrieval.Pipeline, opts ...WorkerOption) (*WorkerAgent, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}
	a := &WorkerAgent{
		id:        id,
		completer: completer,
		pipeline:  pipeline,
		logger:    slog.Default().With("component", "worker-agent", "worker", id),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Id returns the worker's identifier.
func (a *WorkerAgent) Id() int {
	return a.id
}

// ExecuteSubtask runs one research subtask end to end.
//
// Context is gathered from two independent sources: the hybrid retrieval
// pipeline over the corpus, and the web search client if one is attached.
// If both come back empty the worker returns a zero-cost result with an
// explicit "no information found" finding rather than an error. An LLM
// failure is returned as an error for the orchestrator to convert into an
// error-flagged result.
func (a *WorkerAgent) ExecuteSubtask(ctx context.Context, subtask core.ResearchSubtask) (core.WorkerResult, error) {
	a.logger.Info("executing subtask", "subtask", subtask.Id, "focus", subtask.Focus)

	corpusContext, corpusSources := a.retrieveCorpus(ctx, subtask.Query)
	webContext, webSources := a.retrieveWeb(ctx, subtask.Query)

	var sections []string
	if corpusContext != "" {
		sections = append(sections, "## Corpus Document Sources:\n\n"+corpusContext)
	}
	if webContext != "" {
		sections = append(sections, "## Web Sources:\n\n"+webContext)
	}

	if len(sections) == 0 {
		a.logger.Warn("no relevant context found from any source", "subtask", subtask.Id)
		return core.WorkerResult{
			WorkerId: a.id,
			Subtask:  subtask,
			Findings: "No relevant information found for this subtask from corpus or web sources.",
		}, nil
	}

	combinedContext := strings.Join(sections, "\n\n"+strings.Repeat("=", 80)+"\n\n")

	var sourceTypes []string
	if len(corpusSources) > 0 {
		sourceTypes = append(sourceTypes, fmt.Sprintf("%d corpus documents", len(corpusSources)))
	}
	if len(webSources) > 0 {
		sourceTypes = append(sourceTypes, fmt.Sprintf("%d web sources", len(webSources)))
	}
	sourceSummary := strings.Join(sourceTypes, " and ")

	prompt := buildExecutionPrompt(subtask.Query, subtask.Focus,
		subtask.Depth.String(), sourceSummary, combinedContext)

	completion, err := a.completer.Complete(ctx, executionSystemPrompt,
		[]ai.Message{ai.UserMessage(prompt)}, subtask.EstimatedTokens)
	if err != nil {
		return core.WorkerResult{}, fmt.Errorf("worker %d subtask %d: %w", a.id, subtask.Id, err)
	}

	cost := pricing.CostForModel(a.completer.Model(),
		completion.InputTokens, completion.OutputTokens)

	a.logger.Info("subtask complete", "subtask", subtask.Id,
		"corpusSources", len(corpusSources), "webSources", len(webSources),
		"tokens", completion.TotalTokens(), "cost", cost)

	return core.WorkerResult{
		WorkerId:   a.id,
		Subtask:    subtask,
		Findings:   completion.Text,
		Sources:    append(corpusSources, webSources...),
		TokensUsed: completion.TotalTokens(),
		Cost:       cost,
	}, nil
}

// Task is a lighter-weight unit of work executed without the retrieval
// step: the caller supplies whatever context the task needs.
type Task struct {
	Description string
	Context     string
}

// ExecuteTask runs a context-only task, retrying the LLM call up to
// maxRetries times. It never returns an error: after exhausting retries
// the last failure is recorded on an error-flagged result.
func (a *WorkerAgent) ExecuteTask(ctx context.Context, task Task, maxRetries int) core.WorkerResult {
	prompt := fmt.Sprintf("Task: %s\n\nContext: %s\n\nPlease complete this task.",
		task.Description, task.Context)

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			a.logger.Warn("task attempt failed, retrying", "attempt", attempt, "err", lastErr)
		}

		completion, err := a.completer.Complete(ctx, executionSystemPrompt,
			[]ai.Message{ai.UserMessage(prompt)}, lightTaskMaxTokens)
		if err != nil {
			lastErr = err
			continue
		}

		return core.WorkerResult{
			WorkerId:   a.id,
			Findings:   completion.Text,
			TokensUsed: completion.TotalTokens(),
			Cost: pricing.CostForModel(a.completer.Model(),
				completion.InputTokens, completion.OutputTokens),
		}
	}

	a.logger.Error("task failed after retries", "retries", maxRetries, "err", lastErr)
	return core.WorkerResult{
		WorkerId: a.id,
		Findings: fmt.Sprintf("Task failed: %v", lastErr),
		Failed:   true,
		Err:      lastErr.Error(),
	}
}

// retrieveCorpus fetches corpus context via the hybrid pipeline.
// Retrieval failures degrade to no corpus context; the subtask proceeds
// on web sources alone.
func (a *WorkerAgent) retrieveCorpus(ctx context.Context, query string) (string, []core.SourceRef) {
	candidates, err := a.pipeline.Retrieve(ctx, query, corpusRetrieveK, corpusFinalK)
	if err != nil {
		a.logger.Warn("corpus retrieval failed", "err", err)
		return "", nil
	}
	if len(candidates) == 0 {
		return "", nil
	}

	var parts []string
	sources := make([]core.SourceRef, 0, len(candidates))
	for i, c := range candidates {
		source := c.Metadata["source"]
		page, _ := strconv.Atoi(c.Metadata["page"])

		header := fmt.Sprintf("[Corpus Source %d] %s", i+1, source)
		if page > 0 {
			header += fmt.Sprintf(" (page %d)", page)
		}
		parts = append(parts, header+"\n"+c.Text)

		sources = append(sources, core.SourceRef{
			Kind:    core.SourceCorpus,
			Title:   source,
			Ref:     source,
			Page:    page,
			Section: c.Metadata["section"],
			Score:   c.Score,
		})
	}
	return strings.Join(parts, "\n\n"), sources
}

// retrieveWeb fetches web context if a search client is attached and
// enabled. All failures inside the client already degrade to empty.
func (a *WorkerAgent) retrieveWeb(ctx context.Context, query string) (string, []core.SourceRef) {
	if a.web == nil || !a.web.Enabled() {
		return "", nil
	}

	results := a.web.Search(ctx, query, webResultsPerSubtask)
	if len(results) == 0 {
		return "", nil
	}

	var parts []string
	sources := make([]core.SourceRef, 0, len(results))
	for i, r := range results {
		content := r.Content
		if len(content) > webContentLimit {
			content = content[:webContentLimit] + "..."
		}
		parts = append(parts, fmt.Sprintf("[Web Source %d] %s\nURL: %s\nContent: %s",
			i+1, r.Title, r.URL, content))

		sources = append(sources, core.SourceRef{
			Kind:   core.SourceWeb,
			Title:  r.Title,
			Ref:    r.URL,
			Domain: r.Domain,
			Score:  r.Score,
		})
	}
	return strings.Join(parts, "\n\n"), sources
}
