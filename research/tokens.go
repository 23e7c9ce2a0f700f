package research

import (
	"github.com/pkoukk/tiktoken-go"
	"github.com/poiesic/scholar/pricing"
)

const (
	// Token budgets assumed by pre-flight cost estimation.
	planningTokenBudget  = 4000
	workerTokenBudget    = 8000
	synthesisTokenBudget = 6000

	tokenEncoding = "cl100k_base"
)

// CountTokens counts tokens in text using the cl100k_base encoding.
// Falls back to a chars/4 heuristic if the encoding is unavailable.
func CountTokens(text string) int {
	enc, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// CostEstimate is a pre-flight breakdown of expected research cost.
type CostEstimate struct {
	Planning  float64
	Execution float64
	Synthesis float64
	Subtasks  int
}

// Total returns the summed estimate.
func (e CostEstimate) Total() float64 {
	return e.Planning + e.Execution + e.Synthesis
}

// EstimateResearchCost estimates cost before running research: one
// planning call and one synthesis call at lead-tier input rates, plus
// one worker-tier call per expected subtask.
func EstimateResearchCost(query string, numSubtasks int) CostEstimate {
	leadInput := pricing.PriceFor(pricing.TierLead).InputPerMillion
	workerInput := pricing.PriceFor(pricing.TierWorker).InputPerMillion

	planningTokens := planningTokenBudget + CountTokens(query)

	return CostEstimate{
		Planning:  float64(planningTokens) / 1_000_000 * leadInput,
		Execution: float64(workerTokenBudget) / 1_000_000 * workerInput * float64(numSubtasks),
		Synthesis: float64(synthesisTokenBudget) / 1_000_000 * leadInput,
		Subtasks:  numSubtasks,
	}
}
