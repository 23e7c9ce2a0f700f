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

// Package pricing converts token usage into dollar cost estimates.
//
// Prices are expressed per one million tokens and keyed by model tier
// rather than by exact model identifier, so custom model names resolve
// to the tier they were configured for.
package pricing

import "strings"

// Tier identifies a model cost class.
type Tier int

const (
	// TierLead is the planning and synthesis model class.
	TierLead Tier = iota + 1
	// TierWorker is the subtask execution model class.
	TierWorker
)

// Price holds per-million-token rates in USD.
type Price struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// Rates for the two tiers, USD per 1M tokens.
var tierPrices = map[Tier]Price{
	TierLead:   {InputPerMillion: 15.0, OutputPerMillion: 75.0},
	TierWorker: {InputPerMillion: 3.0, OutputPerMillion: 15.0},
}

// PriceFor returns the price table entry for the given tier.
// Unknown tiers fall back to worker rates.
func PriceFor(tier Tier) Price {
	if p, ok := tierPrices[tier]; ok {
		return p
	}
	return tierPrices[TierWorker]
}

// Cost computes the dollar cost for a token count at the given tier.
func Cost(tier Tier, inputTokens, outputTokens int) float64 {
	p := PriceFor(tier)
	return float64(inputTokens)/1_000_000*p.InputPerMillion +
		float64(outputTokens)/1_000_000*p.OutputPerMillion
}

// TierForModel maps a model identifier to its cost tier.
//
// Opus-class models are the lead tier; everything else bills at the
// worker tier. This matches how Complete providers are wired: the lead
// completer runs the larger model, workers run the smaller one.
func TierForModel(model string) Tier {
	if strings.Contains(strings.ToLower(model), "opus") {
		return TierLead
	}
	return TierWorker
}

// CostForModel computes the dollar cost for a token count on the given model.
func CostForModel(model string, inputTokens, outputTokens int) float64 {
	return Cost(TierForModel(model), inputTokens, outputTokens)
}

// EstimateSubtaskCost estimates the worker-tier cost of a subtask given
// its token budget. The estimate assumes a 3:1 input-to-output split,
// which tracks observed retrieval-heavy prompts.
func EstimateSubtaskCost(estimatedTokens int) float64 {
	input := estimatedTokens * 3 / 4
	output := estimatedTokens - input
	return Cost(TierWorker, input, output)
}
