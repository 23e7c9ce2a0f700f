package retrieval

import (
	"sort"

	"github.com/poiesic/scholar/core"
)

// Weights holds the relative contribution of each retrieval method to the
// fused score. Passed and stored by value so a fusion call can never
// observe a half-updated pair under concurrent reconfiguration.
type Weights struct {
	Keyword float64
	Vector  float64
}

// DefaultWeights gives both methods equal contribution.
func DefaultWeights() Weights {
	return Weights{Keyword: 0.5, Vector: 0.5}
}

// Fusion normalizes and merges keyword-search and vector-search result
// sets into one ranked candidate list.
type Fusion struct {
	weights Weights
}

// FusionOption configures a Fusion.
type FusionOption func(*Fusion) error

// WithWeights sets the fusion weights. Weights must be non-negative and
// must not both be zero.
func WithWeights(w Weights) FusionOption {
	return func(f *Fusion) error {
		if w.Keyword < 0 || w.Vector < 0 || w.Keyword+w.Vector == 0 {
			return ErrInvalidWeights
		}
		f.weights = w
		return nil
	}
}

// NewFusion creates a fusion stage with the given options.
func NewFusion(opts ...FusionOption) (*Fusion, error) {
	f := &Fusion{weights: DefaultWeights()}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Weights returns a copy of the configured weights.
func (f *Fusion) Weights() Weights {
	return f.weights
}

// Fuse merges the two result sets into a single ranked list of at most
// topK candidates.
//
// Each set is normalized independently by its maximum score (floor 1.0 to
// guard against all-zero sets). Candidates are merged by literal text
// content: a candidate appearing in both sets accumulates both weighted
// terms, and the vector side's metadata overwrites the keyword side's on
// collision. Two distinct chunks with identical text collapse into one
// candidate; that is expected dedup behavior, not a defect.
func (f *Fusion) Fuse(keywordResults, vectorResults []core.Candidate, topK int) []core.Candidate {
	w := f.weights

	type fused struct {
		candidate core.Candidate
		order     int
	}

	merged := make(map[string]*fused)
	order := 0

	kwMax := maxScore(keywordResults)
	for _, c := range keywordResults {
		entry, ok := merged[c.Text]
		if !ok {
			entry = &fused{
				candidate: core.Candidate{Text: c.Text, Metadata: c.Metadata},
				order:     order,
			}
			merged[c.Text] = entry
			order++
		}
		entry.candidate.Score += w.Keyword * (c.Score / kwMax)
	}

	vecMax := maxScore(vectorResults)
	for _, c := range vectorResults {
		entry, ok := merged[c.Text]
		if !ok {
			entry = &fused{
				candidate: core.Candidate{Text: c.Text, Metadata: c.Metadata},
				order:     order,
			}
			merged[c.Text] = entry
			order++
		}
		entry.candidate.Score += w.Vector * (c.Score / vecMax)
		// Vector metadata is more complete; it wins on collision.
		if c.Metadata != nil {
			entry.candidate.Metadata = c.Metadata
		}
	}

	results := make([]*fused, 0, len(merged))
	for _, entry := range merged {
		results = append(results, entry)
	}

	// Stable order for ties: first insertion wins.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].candidate.Score != results[j].candidate.Score {
			return results[i].candidate.Score > results[j].candidate.Score
		}
		return results[i].order < results[j].order
	})

	if topK >= 0 && len(results) > topK {
		results = results[:topK]
	}

	out := make([]core.Candidate, len(results))
	for i, entry := range results {
		out[i] = entry.candidate
	}
	return out
}

// maxScore returns the maximum score in the set for normalization.
// All-zero or all-negative sets normalize by 1.0 so division is safe and
// degenerate scores are not inflated.
func maxScore(candidates []core.Candidate) float64 {
	max := 0.0
	for _, c := range candidates {
		if c.Score > max {
			max = c.Score
		}
	}
	if max <= 0 {
		return 1.0
	}
	return max
}
