// Package agent implements the two agent roles of a research session.
//
// LeadAgent makes the two expensive calls: one to decompose the query
// into a plan of parallel subtasks, one to synthesize worker findings
// into a single narrative. WorkerAgent makes the cheap per-subtask
// calls, each grounded in context gathered from the corpus retrieval
// pipeline and, optionally, web search.
//
// Both agents absorb failure rather than propagate it: malformed plan
// JSON falls back to a deterministic decomposition, a failed synthesis
// call returns the concatenated findings, and exhausted task retries
// yield an error-flagged result.
package agent
