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

package research

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/scholar/agent"
	"github.com/poiesic/scholar/ai"
	"github.com/poiesic/scholar/core"
	"github.com/poiesic/scholar/retrieval"
	"github.com/poiesic/scholar/websearch"
)

const defaultWorkerCount = 4

// Orchestrator coordinates a lead agent and a fixed pool of worker
// agents through the research lifecycle: plan, dispatch, collect,
// synthesize. Workers run concurrently on a bounded goroutine pool
// sized to the worker count, so at most that many subtasks execute
// at once regardless of plan size.
type Orchestrator struct {
	lead    *agent.LeadAgent
	workers []*agent.WorkerAgent
	pool    *ants.Pool
	web     *websearch.Client
	logger  *slog.Logger
	closed  bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithWorkerCount sets the number of worker agents. Values below 1
// are clamped to 1.
func WithWorkerCount(n int) Option {
	return func(o *Orchestrator) error {
		if n < 1 {
			n = 1
		}
		o.workers = make([]*agent.WorkerAgent, n)
		return nil
	}
}

// WithWebSearch enables web retrieval for every worker agent.
func WithWebSearch(client *websearch.Client) Option {
	return func(o *Orchestrator) error {
		o.web = client
		return nil
	}
}

// WithLogger sets the logger used by the orchestrator and its agents.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates an orchestrator backed by the given provider
// and retrieval pipeline. The lead agent uses the provider's lead
// completer; each worker agent uses the worker completer.
func NewOrchestrator(provider ai.Provider, pipeline *retrieval.Pipeline, opts ...Option) (*Orchestrator, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}

	o := &Orchestrator{
		workers: make([]*agent.WorkerAgent, defaultWorkerCount),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	lead, err := agent.NewLeadAgent(provider.LeadCompleter(), agent.WithLeadLogger(o.logger))
	if err != nil {
		return nil, err
	}
	o.lead = lead

	workerOpts := []agent.WorkerOption{agent.WithWorkerLogger(o.logger)}
	if o.web != nil {
		workerOpts = append(workerOpts, agent.WithWebSearch(o.web))
	}
	for i := range o.workers {
		w, err := agent.NewWorkerAgent(i+1, provider.WorkerCompleter(), pipeline, workerOpts...)
		if err != nil {
			return nil, err
		}
		o.workers[i] = w
	}

	pool, err := ants.NewPool(len(o.workers))
	if err != nil {
		return nil, err
	}
	o.pool = pool

	return o, nil
}

// WorkerCount returns the number of worker agents.
func (o *Orchestrator) WorkerCount() int {
	return len(o.workers)
}

// Close releases the worker pool. The orchestrator cannot be reused
// afterward.
func (o *Orchestrator) Close() {
	if o.closed {
		return
	}
	o.closed = true
	o.pool.Release()
}

// Research runs the full lifecycle for one query and returns the
// assembled report. Planning and synthesis failures degrade to
// fallbacks inside the agents; the only hard failures here are an
// empty query or a closed orchestrator.
func (o *Orchestrator) Research(ctx context.Context, query string) (*core.ResearchReport, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if o.closed {
		return nil, ErrOrchestratorClosed
	}

	started := time.Now()
	sess := newSession(o.logger)

	plan, planningCost := o.lead.Plan(ctx, query, len(o.workers))
	o.logger.Info("research plan ready",
		"session", sess.id,
		"subtasks", len(plan.Subtasks),
		"goal", plan.Goal)

	sess.advance(StateDispatching)
	results := o.DistributeWork(ctx, plan.Subtasks, sess)

	// Collection order depends on worker timing; restore plan order so
	// synthesis and reports are deterministic.
	sort.Slice(results, func(i, j int) bool {
		return results[i].Subtask.Id < results[j].Subtask.Id
	})

	sess.advance(StateSynthesizing)
	syn := o.lead.Synthesize(ctx, query, results, plan.SynthesisStrategy)

	sess.advance(StateDone)

	report := &core.ResearchReport{
		Query:       query,
		Synthesis:   syn.Text,
		Sources:     syn.Sources,
		WorkerCount: len(o.workers),
		CostBreakdown: core.CostBreakdown{
			Planning:  planningCost,
			Synthesis: syn.Cost,
		},
		Elapsed:       time.Since(started),
		Plan:          *plan,
		WorkerResults: results,
	}

	report.TotalTokens = syn.TokensUsed
	for _, r := range results {
		report.CostBreakdown.Execution += r.Cost
		report.TotalTokens += r.TokensUsed
	}
	report.TotalCost = report.CostBreakdown.Total()

	if o.web != nil {
		report.Diversity = websearch.Diversity(report.Sources)
	}

	o.logger.Info("research complete",
		"session", sess.id,
		"elapsed", report.Elapsed,
		"cost", report.TotalCost,
		"tokens", report.TotalTokens)

	return report, nil
}

// DistributeWork fans subtasks out to the worker agents round-robin
// and collects results as they complete. It always returns exactly one
// result per subtask: a worker error becomes a Failed result carrying
// the error text, never a missing entry.
func (o *Orchestrator) DistributeWork(ctx context.Context, subtasks []core.ResearchSubtask, sess *session) []core.WorkerResult {
	if len(subtasks) == 0 {
		return nil
	}

	resultCh := make(chan core.WorkerResult, len(subtasks))
	for i, subtask := range subtasks {
		worker := o.workers[i%len(o.workers)]
		st := subtask
		err := o.pool.Submit(func() {
			result, err := worker.ExecuteSubtask(ctx, st)
			if err != nil {
				o.logger.Error("subtask execution failed",
					"worker", worker.Id(),
					"subtask", st.Id,
					"error", err)
				result = failedResult(worker.Id(), st, err)
			}
			resultCh <- result
		})
		if err != nil {
			// Pool rejected the task; flag it directly so fan-in
			// still sees every subtask.
			o.logger.Error("failed to submit subtask", "subtask", st.Id, "error", err)
			resultCh <- failedResult(worker.Id(), st, err)
		}
	}

	if sess != nil {
		sess.advance(StateCollecting)
	}

	results := make([]core.WorkerResult, 0, len(subtasks))
	for range subtasks {
		results = append(results, <-resultCh)
	}
	return results
}

func failedResult(workerId int, subtask core.ResearchSubtask, err error) core.WorkerResult {
	return core.WorkerResult{
		WorkerId: workerId,
		Subtask:  subtask,
		Findings: "Task failed: " + err.Error(),
		Failed:   true,
		Err:      err.Error(),
	}
}
