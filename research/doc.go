// Package research orchestrates multi-agent research sessions.
//
// An Orchestrator owns one lead agent and a fixed set of worker agents
// backed by a bounded goroutine pool. A session moves through planning,
// dispatching, collecting, and synthesizing; subtasks are assigned to
// workers round-robin and every dispatched subtask produces exactly one
// result, with failures flagged rather than dropped.
//
// EstimateResearchCost gives a pre-flight cost breakdown before any
// model call is made.
package research
