package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/scholar/ai"
	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/pricing"
)

const (
	planningMaxTokens  = 4000
	synthesisMaxTokens = 8000

	// defaultSubtaskTokens is the token estimate assumed for subtasks the
	// planning model did not size, and for fallback plans.
	defaultSubtaskTokens = 8000
)

// LeadAgent plans the decomposition of a research query and synthesizes
// worker findings. It makes exactly two LLM calls per session: one to
// plan, one to synthesize.
type LeadAgent struct {
	completer ai.Completer
	logger    *slog.Logger
}

// LeadOption configures a LeadAgent.
type LeadOption func(*LeadAgent) error

// WithLeadLogger sets a custom logger.
// Default is slog.Default().
func WithLeadLogger(logger *slog.Logger) LeadOption {
	return func(a *LeadAgent) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewLeadAgent creates a lead agent over the given completer.
func NewLeadAgent(completer ai.Completer, opts ...LeadOption) (*LeadAgent, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	a := &LeadAgent{
		completer: completer,
		logger:    slog.Default().With("component", "lead-agent"),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// planPayload mirrors the JSON shape the planning prompt requests.
type planPayload struct {
	ResearchGoal      string           `json:"research_goal"`
	Subtasks          []subtaskPayload `json:"subtasks"`
	SynthesisStrategy string           `json:"synthesis_strategy"`
}

type subtaskPayload struct {
	Id              int    `json:"id"`
	Query           string `json:"query"`
	Focus           string `json:"focus"`
	RequiredDepth   string `json:"required_depth"`
	EstimatedTokens int    `json:"estimated_tokens"`
}

// Plan decomposes the query into subtasks via one planning call.
//
// Plan always returns a usable plan: a failed call or malformed JSON
// degrades to the deterministic fallback decomposition instead of an
// error, so a research session never halts at the planning stage. The
// second return value is the actual cost of the planning call (zero when
// the fallback was used without a completed call).
func (a *LeadAgent) Plan(ctx context.Context, query string, workerCount int) (*core.ResearchPlan, float64) {
	a.logger.Info("planning research", "query", query, "workers", workerCount)

	completion, err := a.completer.Complete(ctx, planningSystemPrompt,
		[]ai.Message{ai.UserMessage(buildPlanningPrompt(query, workerCount))},
		planningMaxTokens)
	if err != nil {
		a.logger.Error("planning call failed, using fallback plan", "err", err)
		return FallbackPlan(query, workerCount), 0
	}

	planningCost := pricing.CostForModel(a.completer.Model(),
		completion.InputTokens, completion.OutputTokens)

	plan, err := a.parsePlan(query, completion.Text)
	if err != nil {
		a.logger.Warn("failed to parse research plan, using fallback",
			"err", err, "response", completion.Text)
		plan = FallbackPlan(query, workerCount)
	}

	// Plan cost = actual planning call + estimated worker input cost
	plan.EstimatedCost = planningCost
	for _, st := range plan.Subtasks {
		plan.EstimatedCost += float64(st.EstimatedTokens) / 1_000_000 * pricing.PriceFor(pricing.TierWorker).InputPerMillion
	}

	a.logger.Info("research plan created",
		"subtasks", len(plan.Subtasks), "estimatedCost", plan.EstimatedCost)
	return plan, planningCost
}

// parsePlan decodes the planning response into a validated plan.
func (a *LeadAgent) parsePlan(query, response string) (*core.ResearchPlan, error) {
	text := repairJSON(stripCodeFences(response))

	var payload planPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, err
	}
	if len(payload.Subtasks) == 0 {
		return nil, fmt.Errorf("plan contains no subtasks")
	}

	subtasks := make([]core.ResearchSubtask, 0, len(payload.Subtasks))
	for i, st := range payload.Subtasks {
		depth, err := core.ParseDepth(st.RequiredDepth)
		if err != nil {
			depth = core.DepthModerate
		}
		tokens := st.EstimatedTokens
		if tokens <= 0 {
			tokens = defaultSubtaskTokens
		}
		id := st.Id
		if id == 0 {
			id = i + 1
		}
		subtasks = append(subtasks, core.ResearchSubtask{
			Id:              id,
			Query:           st.Query,
			Focus:           st.Focus,
			Depth:           depth,
			EstimatedTokens: tokens,
		})
	}

	goal := payload.ResearchGoal
	if goal == "" {
		goal = query
	}

	plan := &core.ResearchPlan{
		Goal:              goal,
		Subtasks:          subtasks,
		SynthesisStrategy: payload.SynthesisStrategy,
	}
	if err := core.ValidatePlan(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// FallbackPlan is the deterministic decomposition used when planning
// output cannot be parsed: min(workerCount, 4) generic subtasks, each at
// moderate depth with the default token estimate.
func FallbackPlan(query string, workerCount int) *core.ResearchPlan {
	count := workerCount
	if count > 4 {
		count = 4
	}
	if count < 1 {
		count = 1
	}

	subtasks := make([]core.ResearchSubtask, count)
	for i := range subtasks {
		subtasks[i] = core.ResearchSubtask{
			Id:              i + 1,
			Query:           fmt.Sprintf("Analyze aspect %d of: %s", i+1, query),
			Focus:           fmt.Sprintf("Perspective %d", i+1),
			Depth:           core.DepthModerate,
			EstimatedTokens: defaultSubtaskTokens,
		}
	}

	return &core.ResearchPlan{
		Goal:              query,
		Subtasks:          subtasks,
		SynthesisStrategy: "Combine findings from all perspectives",
	}
}

// Synthesis is the product of the lead agent's final call.
type Synthesis struct {
	Text       string
	Sources    []core.SourceRef
	Cost       float64
	TokensUsed int
}

// Synthesize combines all worker findings into one narrative via a single
// LLM call. Findings are aggregated in submission order regardless of the
// order workers finished in. A failed synthesis call degrades to the
// concatenated findings rather than an error.
func (a *LeadAgent) Synthesize(ctx context.Context, query string, results []core.WorkerResult, strategy string) *Synthesis {
	a.logger.Info("synthesizing findings", "workers", len(results))

	var combined []string
	var sources []core.SourceRef
	for _, result := range results {
		combined = append(combined, fmt.Sprintf(
			"### Worker Agent %d - %s\n\n%s\n\n**Sources**: %d documents",
			result.WorkerId, result.Subtask.Focus, result.Findings, len(result.Sources)))
		sources = append(sources, result.Sources...)
	}
	findingsText := "\n\n" + strings.Repeat("=", 80) + "\n\n" + strings.Join(combined, "\n\n"+strings.Repeat("=", 80)+"\n\n")

	completion, err := a.completer.Complete(ctx, synthesisSystemPrompt,
		[]ai.Message{ai.UserMessage(buildSynthesisPrompt(query, strategy, findingsText))},
		synthesisMaxTokens)
	if err != nil {
		a.logger.Error("synthesis call failed, returning combined findings", "err", err)
		return &Synthesis{Text: findingsText, Sources: sources}
	}

	cost := pricing.CostForModel(a.completer.Model(),
		completion.InputTokens, completion.OutputTokens)

	a.logger.Info("synthesis complete", "cost", cost, "tokens", completion.TotalTokens())
	return &Synthesis{
		Text:       completion.Text,
		Sources:    sources,
		Cost:       cost,
		TokensUsed: completion.TotalTokens(),
	}
}
