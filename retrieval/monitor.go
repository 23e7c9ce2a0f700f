package retrieval

import "github.com/poiesic/scholar/core"

// Monitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate stages during retrieval.
type Monitor interface {
	Start(query string)
	AfterVectorSearch(candidates []core.Candidate)
	AfterKeywordSearch(candidates []core.Candidate)
	AfterFusion(candidates []core.Candidate)
	Degraded(stage string, reason error)
	Finish(results []core.Candidate)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                          {}
func (n *noopMonitor) AfterVectorSearch(_ []core.Candidate)    {}
func (n *noopMonitor) AfterKeywordSearch(_ []core.Candidate)   {}
func (n *noopMonitor) AfterFusion(_ []core.Candidate)          {}
func (n *noopMonitor) Degraded(_ string, _ error)              {}
func (n *noopMonitor) Finish(_ []core.Candidate)               {}
